package trivia

import (
	"sync"
	"time"

	"squash-trivia/internal/table"
)

// State：单个区块的状态容器，由所属协调器持有
// 约束：generation 单调递增；只有与当前 generation 相同的结果会被应用；数据整体替换不合并
type State struct {
	mu      sync.Mutex
	id      SectionID
	status  Status
	gen     uint64
	data    any
	// base：最近一次成功的数据，失败时保留，作为下一次取数的 Prev
	base    any
	view    View
	err     error
	filter  Filter
	tab     string
	sorts   map[string]table.SortState
	done    chan struct{}
	started time.Time
}

func newState(id SectionID, defaultTab string) *State {
	return &State{
		id:    id,
		tab:   defaultTab,
		sorts: make(map[string]table.SortState),
	}
}

// begin：进入 loading 并分配新的 generation
// 约束：已处于 loading 时沿用等待通道，等待者只在最新一代落定时被唤醒
func (s *State) begin(f Filter) (gen uint64, prev any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.status != Loading || s.done == nil {
		s.done = make(chan struct{})
	}
	s.status = Loading
	s.gen++
	s.filter = f
	s.started = time.Now()
	return s.gen, s.base
}

// settle：在持锁状态下应用结果；generation 过期时返回 false 且不做任何修改
func (s *State) settle(gen uint64, fn func()) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if gen != s.gen || s.status != Loading {
		return false
	}
	fn()
	close(s.done)
	return true
}

// Snapshot：只读快照，供诊断接口与测试使用
type Snapshot struct {
	Section    SectionID `json:"section"`
	Status     string    `json:"status"`
	Generation uint64    `json:"generation"`
	Error      string    `json:"error,omitempty"`
	Filter     Filter    `json:"filter"`
	Tab        string    `json:"tab,omitempty"`
}

func (s *State) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	snap := Snapshot{Section: s.id, Status: s.status.String(), Generation: s.gen, Filter: s.filter, Tab: s.tab}
	if s.err != nil {
		snap.Error = s.err.Error()
	}
	return snap
}
