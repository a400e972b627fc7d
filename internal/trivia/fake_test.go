package trivia

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"sync"

	"squash-trivia/internal/statsapi"
)

// fakeAPI 按 "端点?查询串" 返回预置 JSON；gates 中的请求会阻塞直到通道关闭
type fakeAPI struct {
	mu       sync.Mutex
	bodies   map[string]string
	errs     map[string]error
	gates    map[string]chan struct{}
	returned map[string]chan struct{}
	calls    []string
}

func newFakeAPI() *fakeAPI {
	return &fakeAPI{
		bodies:   map[string]string{},
		errs:     map[string]error{},
		gates:    map[string]chan struct{}{},
		returned: map[string]chan struct{}{},
	}
}

func fakeKey(endpoint string, params url.Values) string {
	if q := params.Encode(); q != "" {
		return endpoint + "?" + q
	}
	return endpoint
}

func (f *fakeAPI) set(key, body string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.bodies[key] = body
	delete(f.errs, key)
}

func (f *fakeAPI) fail(key string, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.errs[key] = err
}

// gate 让 key 的请求阻塞，返回放行函数与“已返回”信号
func (f *fakeAPI) gate(key string) (release func(), returned <-chan struct{}) {
	f.mu.Lock()
	defer f.mu.Unlock()
	g := make(chan struct{})
	r := make(chan struct{})
	f.gates[key] = g
	f.returned[key] = r
	return func() { close(g) }, r
}

func (f *fakeAPI) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

func (f *fakeAPI) Fetch(ctx context.Context, endpoint string, params url.Values, out any) error {
	key := fakeKey(endpoint, params)
	f.mu.Lock()
	f.calls = append(f.calls, key)
	g := f.gates[key]
	r := f.returned[key]
	delete(f.gates, key)
	delete(f.returned, key)
	f.mu.Unlock()
	if r != nil {
		defer close(r)
	}
	if g != nil {
		select {
		case <-g:
		case <-ctx.Done():
			return &statsapi.Error{Endpoint: endpoint, Kind: statsapi.KindTransport, Err: ctx.Err()}
		}
	}
	f.mu.Lock()
	err, hasErr := f.errs[key]
	body, ok := f.bodies[key]
	f.mu.Unlock()
	if hasErr {
		return err
	}
	if !ok {
		return &statsapi.Error{Endpoint: endpoint, Kind: statsapi.KindStatus, Status: http.StatusNotFound}
	}
	if err := json.Unmarshal([]byte(body), out); err != nil {
		return &statsapi.Error{Endpoint: endpoint, Kind: statsapi.KindDecode, Err: err}
	}
	return nil
}

// blockingAPI 忽略 ctx 取消，直到 release 关闭才返回 body
type blockingAPI struct {
	body    string
	entered chan struct{}
	release chan struct{}
	once    sync.Once
}

func newBlockingAPI(body string) *blockingAPI {
	return &blockingAPI{body: body, entered: make(chan struct{}), release: make(chan struct{})}
}

func (b *blockingAPI) Fetch(_ context.Context, _ string, _ url.Values, out any) error {
	b.once.Do(func() { close(b.entered) })
	<-b.release
	return json.Unmarshal([]byte(b.body), out)
}
