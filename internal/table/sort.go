package table

import (
	"regexp"
	"sort"
	"strconv"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

type Dir int

const (
	None Dir = iota
	Asc
	Desc
)

func (d Dir) String() string {
	switch d {
	case Asc:
		return "asc"
	case Desc:
		return "desc"
	}
	return "none"
}

// SortState：表格的排序列与方向；零值表示未排序
type SortState struct {
	Column int
	Dir    Dir
}

// Click：同列且当前升序 → 降序；其余情况 → 点击列升序
func (s SortState) Click(col int) SortState {
	if s.Column == col && s.Dir == Asc {
		return SortState{Column: col, Dir: Desc}
	}
	return SortState{Column: col, Dir: Asc}
}

var nonNumeric = regexp.MustCompile(`[^0-9.\-]`)

// ParseNumeric：去除 [0-9.-] 以外的字符后按 parseFloat 规则解析最长数字前缀
// 例："3500m" → 3500，"12.3%" → 12.3，"-" → 无法解析
func ParseNumeric(s string) (float64, bool) {
	s = nonNumeric.ReplaceAllString(s, "")
	i := 0
	if i < len(s) && s[i] == '-' {
		i++
	}
	digits := 0
	for i < len(s) && s[i] >= '0' && s[i] <= '9' {
		i++
		digits++
	}
	if i < len(s) && s[i] == '.' {
		i++
		for i < len(s) && s[i] >= '0' && s[i] <= '9' {
			i++
			digits++
		}
	}
	if digits == 0 {
		return 0, false
	}
	v, err := strconv.ParseFloat(s[:i], 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// Comparer：单元格文本比较器；两侧都可解析为数字时按数值比较，否则按英文区域规则比较
// 约束：collate.Collator 非并发安全，每次排序新建
type Comparer struct {
	col *collate.Collator
}

func NewComparer() *Comparer {
	return &Comparer{col: collate.New(language.English)}
}

func (c *Comparer) Compare(a, b string) int {
	an, aok := ParseNumeric(a)
	bn, bok := ParseNumeric(b)
	if aok && bok {
		switch {
		case an < bn:
			return -1
		case an > bn:
			return 1
		}
		return 0
	}
	return c.col.CompareString(a, b)
}

// Compare：一次性比较两段文本
func Compare(a, b string) int { return NewComparer().Compare(a, b) }

// SortRows：按列稳定排序，O(n log n)
func SortRows(rows []Row, col int, dir Dir) {
	if dir == None {
		return
	}
	c := NewComparer()
	sort.SliceStable(rows, func(i, j int) bool {
		r := c.Compare(cellText(rows[i], col), cellText(rows[j], col))
		if dir == Desc {
			return r > 0
		}
		return r < 0
	})
}

func cellText(r Row, col int) string {
	if col < 0 || col >= len(r.Cells) {
		return ""
	}
	return r.Cells[col].Text
}
