package mapview

import (
	"sync"
	"sync/atomic"

	"squash-trivia/internal/metrics"
)

// Handle：某挂载点上的一个地图实例
type Handle struct {
	id       uint64
	mount    string
	spec     Spec
	disposed atomic.Bool
}

func (h *Handle) ID() uint64     { return h.id }
func (h *Handle) Mount() string  { return h.mount }
func (h *Handle) Spec() Spec     { return h.spec }
func (h *Handle) Disposed() bool { return h.disposed.Load() }

// Registry：按挂载点持有地图实例，任一时刻每个挂载点至多一个存活实例
type Registry struct {
	mu   sync.Mutex
	next uint64
	live map[string]*Handle
}

func NewRegistry() *Registry {
	return &Registry{live: make(map[string]*Handle)}
}

// Render：先销毁挂载点上已有的实例，再登记新实例
func (r *Registry) Render(mount string, points []Point, opts Options) *Handle {
	spec := Build(mount, points, opts)
	r.mu.Lock()
	defer r.mu.Unlock()
	if prev, ok := r.live[mount]; ok {
		prev.disposed.Store(true)
		metrics.LiveMaps.Dec()
	}
	r.next++
	spec.Handle = r.next
	h := &Handle{id: r.next, mount: mount, spec: spec}
	r.live[mount] = h
	metrics.LiveMaps.Inc()
	return h
}

func (r *Registry) Get(mount string) (*Handle, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	h, ok := r.live[mount]
	return h, ok
}

// Live：存活实例数
func (r *Registry) Live() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.live)
}

// DisposeAll：会话结束时释放全部实例
func (r *Registry) DisposeAll() {
	r.mu.Lock()
	defer r.mu.Unlock()
	for k, h := range r.live {
		h.disposed.Store(true)
		metrics.LiveMaps.Dec()
		delete(r.live, k)
	}
}

// Dispose：释放挂载点上的实例（区块失败时调用）
func (r *Registry) Dispose(mount string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if h, ok := r.live[mount]; ok {
		h.disposed.Store(true)
		metrics.LiveMaps.Dec()
		delete(r.live, mount)
	}
}
