package trivia

import (
	"encoding/json"
	"html/template"

	"squash-trivia/internal/mapview"
	"squash-trivia/internal/table"
)

// FailedMessage：区块取数失败时展示的提示
const FailedMessage = "This section failed to load."

// View：区块渲染结果，由模板输出为 HTML 片段
type View struct {
	ID      SectionID
	Mount   string
	Title   string
	Status  Status
	Gen     uint64
	Err     string
	Stats   []Stat
	Map     *mapview.Spec
	Tabs    []Tab
	Panels  []Panel
	Filters []Select
	Cloud   *Cloud
	// HasList 为真时显示“查看列表”入口
	HasList bool
}

// Stat：摘要数字，ID 对应页面元素
type Stat struct {
	ID    string
	Label string
	Value string
}

type Tab struct {
	Key    string
	Label  string
	Active bool
}

// Panel：表格容器；带标签的区块仅激活面板可见
type Panel struct {
	ID     string
	Active bool
	Table  table.Table
}

// SelectOption：下拉框选项
type SelectOption struct {
	Value    string
	Label    string
	Selected bool
}

// Select：筛选下拉框
type Select struct {
	ID      string
	Type    string
	Label   string
	Options []SelectOption
}

// ListOverlay：点击任意位置关闭的列表浮层
type ListOverlay struct {
	Title string
	Items []string
}

// Word：词云条目 [文本, 权重, 颜色]
type Word struct {
	Text   string
	Weight int
	Color  string
}

func (w Word) MarshalJSON() ([]byte, error) {
	return json.Marshal([]any{w.Text, w.Weight, w.Color})
}

// CloudOptions：词云控件参数；字号 = weight^Exponent × Scale
type CloudOptions struct {
	GridSize    int     `json:"gridSize"`
	FontFamily  string  `json:"fontFamily"`
	RotateRatio float64 `json:"rotateRatio"`
	Background  string  `json:"backgroundColor"`
	Exponent    float64 `json:"exponent"`
	Scale       float64 `json:"scale"`
}

type LegendBand struct {
	Label string
	Color string
	Count int
}

type Cloud struct {
	Mount   string       `json:"mount"`
	Words   []Word       `json:"list"`
	Options CloudOptions `json:"options"`
	Legend  []LegendBand `json:"-"`
}

// JSON：嵌入脚本的词云描述
func (c *Cloud) JSON() template.JS {
	b, err := json.Marshal(c)
	if err != nil {
		return template.JS("null")
	}
	return template.JS(b)
}

// panelIndex：按表格 ID 返回面板下标，不存在时为 -1
func (v *View) panelIndex(tableID string) int {
	for i := range v.Panels {
		if v.Panels[i].Table.ID == tableID {
			return i
		}
	}
	return -1
}

// clone：复制面板切片，排序时写时复制，已交出的视图不再被修改
func (v View) clone() View {
	out := v
	out.Panels = make([]Panel, len(v.Panels))
	copy(out.Panels, v.Panels)
	return out
}
