// 包 dashboard：嵌入远端统计看板页面
package dashboard

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"regexp"
	"strings"
	"sync"
	"time"

	"squash-trivia/internal/logger"
	"squash-trivia/internal/metrics"
)

const (
	DefaultBaseURL = "https://stats.squashplayers.app"
	contentTTL     = 5 * time.Minute
	manifestTTL    = time.Hour

	manifestCSS = "resources/css/app.css"
	manifestJS  = "resources/js/dashboard.js"
)

var bodyRe = regexp.MustCompile(`(?is)<body[^>]*>(.*?)</body>`)

// Asset：页面需引入的样式或脚本
type Asset struct {
	Kind string // style | script
	Name string
	URL  string
}

// 清单存在时随看板一并引入的公共依赖
var cdnAssets = []Asset{
	{Kind: "style", Name: "maplibre-gl", URL: "https://unpkg.com/maplibre-gl@4.0.0/dist/maplibre-gl.css"},
	{Kind: "script", Name: "maplibre-gl", URL: "https://unpkg.com/maplibre-gl@4.0.0/dist/maplibre-gl.js"},
	{Kind: "script", Name: "chartjs", URL: "https://cdn.jsdelivr.net/npm/chart.js@4.4.0/dist/chart.umd.js"},
	{Kind: "script", Name: "chartjs-datalabels", URL: "https://cdn.jsdelivr.net/npm/chartjs-plugin-datalabels@2.2.0/dist/chartjs-plugin-datalabels.min.js"},
	{Kind: "style", Name: "font-awesome", URL: "https://cdnjs.cloudflare.com/ajax/libs/font-awesome/6.5.1/css/all.min.css"},
}

// Manifest：Vite 构建清单，键为源文件路径
type Manifest map[string]struct {
	File string `json:"file"`
}

type cached[T any] struct {
	val T
	exp time.Time
}

// 文档注释：远端看板嵌入器
// 背景：抓取看板首页的 body 片段与构建清单，改写 /build/ 资源为绝对地址后嵌入本站页面。
// 约束：正文缓存 5 分钟、清单缓存 1 小时；失败不缓存，返回空内容由页面渲染空容器。
type Embedder struct {
	base string
	hc   *http.Client
	now  func() time.Time

	mu       sync.Mutex
	content  *cached[string]
	manifest *cached[Manifest]
}

func New(base string, hc *http.Client) *Embedder {
	if hc == nil {
		hc = &http.Client{Timeout: 10 * time.Second}
	}
	return &Embedder{base: strings.TrimRight(base, "/"), hc: hc, now: time.Now}
}

// NewFromEnv：DASHBOARD_URL，默认 https://stats.squashplayers.app
func NewFromEnv() *Embedder {
	base := os.Getenv("DASHBOARD_URL")
	if base == "" {
		base = DefaultBaseURL
	}
	return New(base, nil)
}

func (e *Embedder) BaseURL() string { return e.base }

func (e *Embedder) get(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := e.hc.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("dashboard %s: status %d", url, resp.StatusCode)
	}
	return io.ReadAll(resp.Body)
}

// Content：看板 body 内 HTML；抓取失败返回空串与错误
func (e *Embedder) Content(ctx context.Context) (string, error) {
	e.mu.Lock()
	if c := e.content; c != nil && e.now().Before(c.exp) {
		e.mu.Unlock()
		metrics.DashboardFetchTotal.WithLabelValues("content", "cache").Inc()
		return c.val, nil
	}
	e.mu.Unlock()

	b, err := e.get(ctx, e.base)
	if err != nil {
		metrics.DashboardFetchTotal.WithLabelValues("content", "error").Inc()
		logger.L().Warn("dashboard_content_error", "url", e.base, "err", err)
		return "", err
	}
	content := ""
	if m := bodyRe.FindSubmatch(b); m != nil {
		content = string(m[1])
	}
	content = strings.ReplaceAll(content, "/build/", e.base+"/build/")

	e.mu.Lock()
	e.content = &cached[string]{val: content, exp: e.now().Add(contentTTL)}
	e.mu.Unlock()
	metrics.DashboardFetchTotal.WithLabelValues("content", "ok").Inc()
	logger.L().Debug("dashboard_content_ok", "bytes", len(content))
	return content, nil
}

// Manifest：读取 <base>/build/manifest.json
func (e *Embedder) Manifest(ctx context.Context) (Manifest, error) {
	e.mu.Lock()
	if c := e.manifest; c != nil && e.now().Before(c.exp) {
		e.mu.Unlock()
		metrics.DashboardFetchTotal.WithLabelValues("manifest", "cache").Inc()
		return c.val, nil
	}
	e.mu.Unlock()

	url := e.base + "/build/manifest.json"
	b, err := e.get(ctx, url)
	if err != nil {
		metrics.DashboardFetchTotal.WithLabelValues("manifest", "error").Inc()
		logger.L().Warn("dashboard_manifest_error", "url", url, "err", err)
		return nil, err
	}
	var m Manifest
	if err := json.Unmarshal(b, &m); err != nil {
		metrics.DashboardFetchTotal.WithLabelValues("manifest", "error").Inc()
		logger.L().Warn("dashboard_manifest_decode_error", "err", err)
		return nil, fmt.Errorf("decode manifest: %w", err)
	}
	e.mu.Lock()
	e.manifest = &cached[Manifest]{val: m, exp: e.now().Add(manifestTTL)}
	e.mu.Unlock()
	metrics.DashboardFetchTotal.WithLabelValues("manifest", "ok").Inc()
	return m, nil
}

// Assets：由清单推导看板自身样式与脚本，并附加公共依赖；无清单时返回空
func (e *Embedder) Assets(ctx context.Context) []Asset {
	m, err := e.Manifest(ctx)
	if err != nil || m == nil {
		return nil
	}
	var out []Asset
	if ent, ok := m[manifestCSS]; ok && ent.File != "" {
		out = append(out, Asset{Kind: "style", Name: "squash-dashboard-app", URL: e.base + "/build/" + ent.File})
	}
	if ent, ok := m[manifestJS]; ok && ent.File != "" {
		out = append(out, Asset{Kind: "script", Name: "squash-dashboard-js", URL: e.base + "/build/" + ent.File})
	}
	return append(out, cdnAssets...)
}
