// 包 table：表格渲染与客户端式排序；渲染是纯函数，每次产出全新的行集合
package table

import (
	"math"
	"strconv"
)

// Cell：单元格文本；Badge 非空时以徽标样式包裹，值为完整 class；ID 用于页脚汇总格
type Cell struct {
	Text  string
	Badge string
	ID    string
}

// Row：一行；Class 为行级样式（如墓地的 death-*）
type Row struct {
	Class string
	Cells []Cell
}

// Table：已格式化的表格
// 约束：Rows 为空且 Empty 非空时，模板输出一行跨全部列的提示
type Table struct {
	ID       string
	Columns  []string
	Rows     []Row
	Footer   []Cell
	Empty    string
	Sortable bool
	Sort     SortState
}

// Render：按记录逐条格式化，返回新表格，不复用任何旧行
func Render[T any](id string, columns []string, records []T, row func(T) Row) Table {
	rows := make([]Row, 0, len(records))
	for _, rec := range records {
		rows = append(rows, row(rec))
	}
	return Table{ID: id, Columns: columns, Rows: rows}
}

// Text：构造纯文本单元格
func Text(s string) Cell { return Cell{Text: s} }

// Badge：构造徽标单元格
func Badge(s, class string) Cell { return Cell{Text: s, Badge: class} }

// Fixed：与 JS Number.prototype.toFixed 一致的定点格式化
func Fixed(v float64, digits int) string {
	if math.IsNaN(v) {
		return "NaN"
	}
	if v == 0 {
		v = 0
	}
	return strconv.FormatFloat(v, 'f', digits, 64)
}

// Number：与 JS 默认数字转字符串一致（整数不带小数位）
func Number(v float64) string {
	if v == 0 {
		v = 0
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// Placeholder：空串显示为 "-"
func Placeholder(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

// Colspan：空表提示行跨越的列数
func (t Table) Colspan() int { return len(t.Columns) }

// HeaderClass：当前排序列的表头样式
func (t Table) HeaderClass(col int) string {
	if t.Sort.Column != col {
		return ""
	}
	switch t.Sort.Dir {
	case Asc:
		return "sorted-asc"
	case Desc:
		return "sorted-desc"
	}
	return ""
}

// Click：模拟点击表头：更新排序状态并就地重排现有行，不重新取数
func (t *Table) Click(col int) {
	if !t.Sortable || col < 0 || col >= len(t.Columns) {
		return
	}
	t.Sort = t.Sort.Click(col)
	SortRows(t.Rows, t.Sort.Column, t.Sort.Dir)
}
