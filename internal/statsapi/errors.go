package statsapi

import (
	"context"
	"errors"
	"fmt"
	"net"
)

// Kind 区分统计接口的三类失败：传输、非 2xx 状态、响应体无法解析
type Kind string

const (
	KindTransport Kind = "transport"
	KindStatus    Kind = "status"
	KindDecode    Kind = "decode"
)

var (
	ErrTransport = errors.New("statsapi: transport failure")
	ErrStatus    = errors.New("statsapi: non-success status")
	ErrDecode    = errors.New("statsapi: malformed response")
)

// Error 携带端点与失败类别；errors.Is 可同时匹配类别哨兵与底层原因
type Error struct {
	Endpoint string
	Kind     Kind
	Status   int
	Err      error
}

func (e *Error) Error() string {
	switch e.Kind {
	case KindStatus:
		return fmt.Sprintf("statsapi %s: status %d", e.Endpoint, e.Status)
	default:
		return fmt.Sprintf("statsapi %s: %s: %v", e.Endpoint, e.Kind, e.Err)
	}
}

func (e *Error) Unwrap() []error {
	out := []error{e.sentinel()}
	if e.Err != nil {
		out = append(out, e.Err)
	}
	return out
}

func (e *Error) sentinel() error {
	switch e.Kind {
	case KindStatus:
		return ErrStatus
	case KindDecode:
		return ErrDecode
	}
	return ErrTransport
}

// Timeout 报告传输失败是否由超时引起
func (e *Error) Timeout() bool {
	if e.Kind != KindTransport || e.Err == nil {
		return false
	}
	if errors.Is(e.Err, context.DeadlineExceeded) {
		return true
	}
	var ne net.Error
	return errors.As(e.Err, &ne) && ne.Timeout()
}

// KindOf 返回错误的类别；非本包错误返回空串
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}
