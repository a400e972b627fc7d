package trivia

import (
	"errors"
	"net/url"
	"strings"

	"squash-trivia/internal/statsapi"
)

const (
	FilterCountry = "country"
	FilterReason  = "reason"
)

var ErrBadFilter = errors.New("trivia: unknown filter type")

// Filter：墓地区块的筛选条件；一次只生效一个，空值表示不筛选
type Filter struct {
	Type  string `json:"type,omitempty"`
	Value string `json:"value,omitempty"`
}

func (f Filter) Active() bool { return f.Value != "" }

// Validate：类型只能是 country 或 reason；值为空时类型可以为空
func (f Filter) Validate() error {
	switch f.Type {
	case FilterCountry, FilterReason:
		return nil
	case "":
		if f.Value == "" {
			return nil
		}
	}
	return ErrBadFilter
}

// Params：转换为查询参数，只携带一个参数
func (f Filter) Params() url.Values {
	if !f.Active() {
		return nil
	}
	switch f.Type {
	case FilterCountry:
		return url.Values{statsapi.ParamCountry: {f.Value}}
	case FilterReason:
		return url.Values{statsapi.ParamDeleteReasonID: {f.Value}}
	}
	return nil
}

func splitComma(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, strings.ToLower(p))
		}
	}
	return out
}
