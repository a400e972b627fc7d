package trivia

import (
	"context"
	"errors"
	"sync"
	"time"

	"squash-trivia/internal/logger"
	"squash-trivia/internal/mapview"
	"squash-trivia/internal/metrics"
	"squash-trivia/internal/statsapi"
	"squash-trivia/internal/table"
)

var (
	ErrUnknownSection = errors.New("trivia: unknown section")
	ErrNotEnabled     = errors.New("trivia: section not enabled")
	ErrNotReady       = errors.New("trivia: section has no data yet")
	ErrNotFilterable  = errors.New("trivia: section does not support filtering")
	ErrUnknownTab     = errors.New("trivia: unknown tab")
	ErrUnknownTable   = errors.New("trivia: unknown table or column")
	ErrNoList         = errors.New("trivia: section has no list")
)

// Recorder：区块加载结果的持久化出口，由 store 实现；失败只记日志
type Recorder interface {
	RecordLoad(ctx context.Context, section string, generation uint64, status string, errKind string, dur time.Duration) error
}

type Option func(*Coordinator)

// WithSections：只启用给定区块；为空时启用全部
func WithSections(ids []SectionID) Option {
	return func(c *Coordinator) { c.only = ids }
}

// WithVisitor：访客所在国家名，用于高亮表格行
func WithVisitor(country string) Option {
	return func(c *Coordinator) { c.visitor = country }
}

func WithRecorder(r Recorder) Option {
	return func(c *Coordinator) { c.rec = r }
}

// WithManifest：替换清单（测试注入假流水线）
func WithManifest(entries []Entry) Option {
	return func(c *Coordinator) { c.manifest = entries }
}

type slot struct {
	entry Entry
	state *State
}

// Coordinator：一个页面会话的区块编排者，持有全部区块状态与地图实例，无全局状态
type Coordinator struct {
	api      Fetcher
	manifest []Entry
	only     []SectionID
	visitor  string
	rec      Recorder

	entries []Entry
	slots   map[SectionID]*slot
	known   map[SectionID]bool
	maps    *mapview.Registry

	ctx    context.Context
	cancel context.CancelFunc
	start  sync.Once
}

func NewCoordinator(api Fetcher, opts ...Option) *Coordinator {
	c := &Coordinator{api: api, manifest: Manifest(), maps: mapview.NewRegistry()}
	for _, o := range opts {
		o(c)
	}
	want := map[SectionID]bool{}
	for _, id := range c.only {
		want[id] = true
	}
	c.slots = make(map[SectionID]*slot)
	c.known = make(map[SectionID]bool)
	for _, e := range c.manifest {
		c.known[e.ID] = true
		if len(want) > 0 && !want[e.ID] {
			continue
		}
		def := ""
		if len(e.Tabs) > 0 {
			def = e.Tabs[0].Key
		}
		c.entries = append(c.entries, e)
		c.slots[e.ID] = &slot{entry: e, state: newState(e.ID, def)}
	}
	c.ctx, c.cancel = context.WithCancel(context.Background())
	return c
}

// Entries：已启用的清单项，按页面顺序
func (c *Coordinator) Entries() []Entry { return c.entries }

func (c *Coordinator) Maps() *mapview.Registry { return c.maps }

// Start：遍历清单一次，并发启动每个已启用区块；重复调用无效
func (c *Coordinator) Start() {
	c.start.Do(func() {
		for _, e := range c.entries {
			c.launch(c.slots[e.ID], Filter{})
		}
		logger.L().Debug("coordinator_started", "sections", len(c.entries))
	})
}

// Close：取消在途请求并释放全部地图；之后落定的结果不再渲染
func (c *Coordinator) Close() {
	c.cancel()
	c.maps.DisposeAll()
}

func (c *Coordinator) slot(id SectionID) (*slot, error) {
	if sl, ok := c.slots[id]; ok {
		return sl, nil
	}
	if c.known[id] {
		return nil, ErrNotEnabled
	}
	return nil, ErrUnknownSection
}

func (c *Coordinator) launch(sl *slot, f Filter) uint64 {
	gen, prev := sl.state.begin(f)
	go c.run(sl, gen, Request{Filter: f, Prev: prev})
	return gen
}

func (c *Coordinator) run(sl *slot, gen uint64, req Request) {
	id := sl.entry.ID
	log := logger.Section(string(id))
	t0 := time.Now()
	data, err := sl.entry.Handler.Load(c.ctx, c.api, req)
	dur := time.Since(t0)
	st := sl.state
	closed := false
	applied := st.settle(gen, func() {
		if c.ctx.Err() != nil {
			// 协调器已关闭，地图已全部释放，不再渲染
			closed = true
			st.status = Failed
			st.err = c.ctx.Err()
			st.view = failedView(sl.entry, gen)
			return
		}
		if err != nil {
			st.status = Failed
			st.err = err
			st.data = nil
			st.view = failedView(sl.entry, gen)
			c.maps.Dispose(MapMount(id))
			return
		}
		st.status = Loaded
		st.err = nil
		st.data = data
		st.base = data
		st.view = c.render(sl, gen)
	})
	if !applied {
		metrics.StaleResultsTotal.WithLabelValues(string(id)).Inc()
		log.Debug("section_stale_drop", "gen", gen, "err", err)
		return
	}
	if closed {
		log.Debug("section_closed_drop", "gen", gen)
		return
	}
	status := Loaded
	if err != nil {
		status = Failed
	}
	metrics.SectionLoadsTotal.WithLabelValues(string(id), status.String()).Inc()
	metrics.SectionDurationMs.WithLabelValues(string(id)).Observe(float64(dur.Milliseconds()))
	if err != nil {
		log.Error("section_failed", "gen", gen, "kind", statsapi.KindOf(err), "err", err)
	} else {
		log.Debug("section_loaded", "gen", gen, "duration_ms", dur.Milliseconds())
	}
	if c.rec != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if rerr := c.rec.RecordLoad(ctx, string(id), gen, status.String(), string(statsapi.KindOf(err)), dur); rerr != nil {
			log.Warn("section_record_error", "err", rerr)
		}
	}
}

// render：持有区块锁时由缓存数据生成视图，并重放已记录的排序
func (c *Coordinator) render(sl *slot, gen uint64) View {
	st := sl.state
	rc := &RenderContext{Section: sl.entry.ID, Maps: c.maps, Tab: st.tab, Filter: st.filter, Visitor: c.visitor}
	v := sl.entry.Handler.Render(rc, st.data)
	v.ID = sl.entry.ID
	v.Mount = sl.entry.Mount
	v.Title = sl.entry.Title
	v.Status = Loaded
	v.Gen = gen
	if l, ok := sl.entry.Handler.(Lister); ok {
		_, v.HasList = l.List(st.data)
	}
	v.Tabs = nil
	for _, t := range sl.entry.Tabs {
		t.Active = t.Key == st.tab
		v.Tabs = append(v.Tabs, t)
	}
	for i := range v.Panels {
		t := &v.Panels[i].Table
		if s, ok := st.sorts[t.ID]; ok && t.Sortable {
			t.Sort = s
			table.SortRows(t.Rows, s.Column, s.Dir)
		}
	}
	return v
}

func failedView(e Entry, gen uint64) View {
	return View{ID: e.ID, Mount: e.Mount, Title: e.Title, Status: Failed, Gen: gen, Err: FailedMessage}
}

func loadingView(e Entry, st Status, gen uint64) View {
	return View{ID: e.ID, Mount: e.Mount, Title: e.Title, Status: st, Gen: gen}
}

// View：区块当前视图；loading 时为占位视图
func (c *Coordinator) View(id SectionID) (View, error) {
	sl, err := c.slot(id)
	if err != nil {
		return View{}, err
	}
	st := sl.state
	st.mu.Lock()
	defer st.mu.Unlock()
	if st.status == Loaded || st.status == Failed {
		return st.view, nil
	}
	return loadingView(sl.entry, st.status, st.gen), nil
}

// Await：阻塞直到区块离开 loading（或 ctx 结束）；被新一代取代时继续等待最新一代
func (c *Coordinator) Await(ctx context.Context, id SectionID) (View, error) {
	sl, err := c.slot(id)
	if err != nil {
		return View{}, err
	}
	st := sl.state
	for {
		st.mu.Lock()
		switch st.status {
		case Idle:
			v := loadingView(sl.entry, Idle, 0)
			st.mu.Unlock()
			return v, ErrNotReady
		case Loaded, Failed:
			v := st.view
			st.mu.Unlock()
			return v, nil
		}
		done := st.done
		gen := st.gen
		st.mu.Unlock()
		select {
		case <-done:
		case <-ctx.Done():
			return loadingView(sl.entry, Loading, gen), ctx.Err()
		}
	}
}

// Refilter：以新筛选条件重新取数；返回新的 generation
// 约束：已有在途请求时直接开启新一代，旧结果落定时被丢弃
func (c *Coordinator) Refilter(id SectionID, f Filter) (uint64, error) {
	sl, err := c.slot(id)
	if err != nil {
		return 0, err
	}
	if !sl.entry.Filterable {
		return 0, ErrNotFilterable
	}
	if err := f.Validate(); err != nil {
		return 0, err
	}
	if !f.Active() {
		f = Filter{}
	}
	gen := c.launch(sl, f)
	logger.Section(string(id)).Debug("section_refilter", "gen", gen, "type", f.Type, "value", f.Value)
	return gen, nil
}

// Retry：失败后重新执行首次加载（清除筛选）
func (c *Coordinator) Retry(id SectionID) (uint64, error) {
	sl, err := c.slot(id)
	if err != nil {
		return 0, err
	}
	return c.launch(sl, Filter{}), nil
}

// Sort：点击表头；只重排现有行，不取数
func (c *Coordinator) Sort(id SectionID, tableID string, col int) (View, error) {
	sl, err := c.slot(id)
	if err != nil {
		return View{}, err
	}
	st := sl.state
	st.mu.Lock()
	defer st.mu.Unlock()
	if st.status != Loaded {
		return View{}, ErrNotReady
	}
	i := st.view.panelIndex(tableID)
	if i < 0 {
		return View{}, ErrUnknownTable
	}
	t := st.view.Panels[i].Table
	if !t.Sortable || col < 0 || col >= len(t.Columns) {
		return View{}, ErrUnknownTable
	}
	v := st.view.clone()
	t.Rows = append([]table.Row(nil), t.Rows...)
	t.Click(col)
	v.Panels[i].Table = t
	st.sorts[tableID] = t.Sort
	st.view = v
	return v, nil
}

// SwitchTab：切换标签；已加载时由缓存数据重新渲染（地图随之重建）
func (c *Coordinator) SwitchTab(id SectionID, tab string) (View, error) {
	sl, err := c.slot(id)
	if err != nil {
		return View{}, err
	}
	ok := false
	for _, t := range sl.entry.Tabs {
		if t.Key == tab {
			ok = true
		}
	}
	if !ok {
		return View{}, ErrUnknownTab
	}
	st := sl.state
	st.mu.Lock()
	defer st.mu.Unlock()
	st.tab = tab
	if st.status != Loaded {
		return loadingView(sl.entry, st.status, st.gen), ErrNotReady
	}
	st.view = c.render(sl, st.gen)
	return st.view, nil
}

// List：区块的列表浮层内容
func (c *Coordinator) List(id SectionID) (ListOverlay, error) {
	sl, err := c.slot(id)
	if err != nil {
		return ListOverlay{}, err
	}
	l, ok := sl.entry.Handler.(Lister)
	if !ok {
		return ListOverlay{}, ErrNoList
	}
	st := sl.state
	st.mu.Lock()
	defer st.mu.Unlock()
	if st.status != Loaded {
		return ListOverlay{}, ErrNotReady
	}
	out, ok := l.List(st.data)
	if !ok {
		return ListOverlay{}, ErrNoList
	}
	return out, nil
}

func (c *Coordinator) Snapshot(id SectionID) (Snapshot, error) {
	sl, err := c.slot(id)
	if err != nil {
		return Snapshot{}, err
	}
	return sl.state.Snapshot(), nil
}

// MapMount：区块地图的挂载点 ID
func MapMount(id SectionID) string { return string(id) + "-map" }
