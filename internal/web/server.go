// 包 web：趣闻页面与区块片段的 HTTP 接口
package web

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"html/template"
	"net/http"
	"strconv"
	"time"

	"squash-trivia/internal/dashboard"
	"squash-trivia/internal/geo"
	"squash-trivia/internal/logger"
	"squash-trivia/internal/metrics"
	"squash-trivia/internal/middleware"
	"squash-trivia/internal/statsapi"
	"squash-trivia/internal/store"
	"squash-trivia/internal/trivia"
	"squash-trivia/internal/version"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"golang.org/x/crypto/bcrypt"
)

// API：上游统计接口；statsapi.Client 实现
type API interface {
	trivia.Fetcher
	FlushCache(ctx context.Context) (int, error)
}

// Stats：加载记录与浏览量存储；store.Store 实现
type Stats interface {
	trivia.Recorder
	IncrPageView(ctx context.Context) error
	GetTotals(ctx context.Context) (*store.Totals, error)
	RecentLoads(ctx context.Context, limit int) ([]store.Load, error)
}

// Config：服务依赖；Stats、Dashboard、Geo 可为空
type Config struct {
	API            API
	APIBase        string
	Sessions       *trivia.Sessions
	Stats          Stats
	Dashboard      *dashboard.Embedder
	Geo            *geo.Resolver
	Sections       []trivia.SectionID
	AdminTokenHash []byte
	MetricsPath    string
}

type Server struct {
	cfg Config
}

func New(cfg Config) *Server {
	if cfg.Sessions == nil {
		cfg.Sessions = trivia.NewSessions(0, 0)
	}
	if cfg.MetricsPath == "" {
		cfg.MetricsPath = "/metrics"
	}
	return &Server{cfg: cfg}
}

// Routes：构建 chi 路由并挂载中间件
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(logger.AccessMiddleware(logger.L()))
	r.Use(chimw.Recoverer)
	r.Use(middleware.Wrap)
	if s.cfg.Geo != nil {
		r.Use(s.cfg.Geo.Middleware)
	}

	r.Get("/", s.handlePage)
	r.Get("/config.js", s.handleConfigJS)
	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"status": "ok", "sessions": s.cfg.Sessions.Len(), "commit": version.Commit})
	})
	r.Handle(s.cfg.MetricsPath, metrics.Handler())
	if s.cfg.Dashboard != nil {
		r.Get("/dashboard", s.handleDashboard)
	}

	r.Route("/s/{sid}/sections/{section}", func(r chi.Router) {
		r.Get("/", s.handleFragment)
		r.Post("/sort", s.handleSort)
		r.Post("/tab", s.handleTab)
		r.Post("/filter", s.handleFilter)
		r.Get("/list", s.handleList)
		r.Post("/retry", s.handleRetry)
	})

	r.Route("/api", func(r chi.Router) {
		r.Get("/sections/{sid}/{section}", s.handleSnapshot)
		r.Get("/stats", s.handleStats)
		r.Post("/admin/flush-cache", s.handleFlushCache)
	})
	return r
}

type pageData struct {
	SID      string
	Sections []trivia.Entry
}

// handlePage：每次打开页面创建一个协调器并立即并发加载全部区块
func (s *Server) handlePage(w http.ResponseWriter, r *http.Request) {
	opts := []trivia.Option{trivia.WithSections(s.cfg.Sections)}
	if v := geo.CountryFrom(r.Context()); v != "" {
		opts = append(opts, trivia.WithVisitor(v))
	}
	if s.cfg.Stats != nil {
		opts = append(opts, trivia.WithRecorder(s.cfg.Stats))
	}
	c := trivia.NewCoordinator(s.cfg.API, opts...)
	c.Start()
	sid := s.cfg.Sessions.Add(c)
	metrics.PageViewsTotal.Inc()
	if s.cfg.Stats != nil {
		if err := s.cfg.Stats.IncrPageView(r.Context()); err != nil {
			logger.L().Warn("store_pageview_error", "sid", sid, "err", err)
		}
	}
	logger.L().Debug("page_view", "sid", sid, "sections", len(c.Entries()))
	w.Header().Set("cache-control", "no-store")
	render(w, http.StatusOK, "page", pageData{SID: sid, Sections: c.Entries()})
}

func (s *Server) handleConfigJS(w http.ResponseWriter, r *http.Request) {
	cfg, _ := json.Marshal(map[string]string{"apiUrl": s.cfg.APIBase, "commit": version.Commit})
	w.Header().Set("content-type", "application/javascript; charset=utf-8")
	w.Header().Set("cache-control", "no-store")
	_, _ = w.Write([]byte("window.squashTriviaConfig=" + string(cfg) + ";\n"))
}

// session：按路径参数找回协调器；会话不存在时返回 404 并提示刷新
func (s *Server) session(w http.ResponseWriter, r *http.Request) (*trivia.Coordinator, trivia.SectionID, bool) {
	c, ok := s.cfg.Sessions.Get(chi.URLParam(r, "sid"))
	if !ok {
		w.Header().Set("X-Session-Expired", "1")
		http.Error(w, "session expired, reload the page", http.StatusNotFound)
		return nil, "", false
	}
	return c, trivia.SectionID(chi.URLParam(r, "section")), true
}

// await：等待区块落定后输出片段；客户端断开或超时时返回 202 与占位片段
func (s *Server) await(w http.ResponseWriter, r *http.Request, c *trivia.Coordinator, id trivia.SectionID) {
	v, err := c.Await(r.Context(), id)
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			render(w, http.StatusAccepted, "section", v)
			return
		}
		writeError(w, err)
		return
	}
	render(w, http.StatusOK, "section", v)
}

func (s *Server) handleFragment(w http.ResponseWriter, r *http.Request) {
	c, id, ok := s.session(w, r)
	if !ok {
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), 45*time.Second)
	defer cancel()
	s.await(w, r.WithContext(ctx), c, id)
}

func (s *Server) handleSort(w http.ResponseWriter, r *http.Request) {
	c, id, ok := s.session(w, r)
	if !ok {
		return
	}
	col, err := strconv.Atoi(r.FormValue("col"))
	if err != nil {
		http.Error(w, "bad column", http.StatusBadRequest)
		return
	}
	v, err := c.Sort(id, r.FormValue("table"), col)
	if err != nil {
		writeError(w, err)
		return
	}
	render(w, http.StatusOK, "section", v)
}

func (s *Server) handleTab(w http.ResponseWriter, r *http.Request) {
	c, id, ok := s.session(w, r)
	if !ok {
		return
	}
	v, err := c.SwitchTab(id, r.FormValue("tab"))
	if errors.Is(err, trivia.ErrNotReady) {
		s.await(w, r, c, id)
		return
	}
	if err != nil {
		writeError(w, err)
		return
	}
	render(w, http.StatusOK, "section", v)
}

func (s *Server) handleFilter(w http.ResponseWriter, r *http.Request) {
	c, id, ok := s.session(w, r)
	if !ok {
		return
	}
	f := trivia.Filter{Type: r.FormValue("type"), Value: r.FormValue("value")}
	if _, err := c.Refilter(id, f); err != nil {
		writeError(w, err)
		return
	}
	s.await(w, r, c, id)
}

func (s *Server) handleRetry(w http.ResponseWriter, r *http.Request) {
	c, id, ok := s.session(w, r)
	if !ok {
		return
	}
	if _, err := c.Retry(id); err != nil {
		writeError(w, err)
		return
	}
	s.await(w, r, c, id)
}

func (s *Server) handleList(w http.ResponseWriter, r *http.Request) {
	c, id, ok := s.session(w, r)
	if !ok {
		return
	}
	l, err := c.List(id)
	if err != nil {
		writeError(w, err)
		return
	}
	render(w, http.StatusOK, "list", l)
}

func (s *Server) handleSnapshot(w http.ResponseWriter, r *http.Request) {
	c, id, ok := s.session(w, r)
	if !ok {
		return
	}
	snap, err := c.Snapshot(id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	if s.cfg.Stats == nil {
		writeJSON(w, http.StatusOK, map[string]any{"enabled": false, "sessions": s.cfg.Sessions.Len()})
		return
	}
	t, err := s.cfg.Stats.GetTotals(r.Context())
	if err != nil {
		logger.L().Error("stats_totals_error", "err", err)
		http.Error(w, "stats unavailable", http.StatusInternalServerError)
		return
	}
	recent, err := s.cfg.Stats.RecentLoads(r.Context(), 20)
	if err != nil {
		logger.L().Warn("stats_recent_error", "err", err)
	}
	writeJSON(w, http.StatusOK, map[string]any{"enabled": true, "sessions": s.cfg.Sessions.Len(), "totals": t, "recent": recent})
}

// handleFlushCache：x-admin-token 经 bcrypt 与 ADMIN_TOKEN_HASH 比对
func (s *Server) handleFlushCache(w http.ResponseWriter, r *http.Request) {
	t := r.Header.Get("x-admin-token")
	if t == "" || len(s.cfg.AdminTokenHash) == 0 || bcrypt.CompareHashAndPassword(s.cfg.AdminTokenHash, []byte(t)) != nil {
		logger.L().Warn("admin_auth_failed", "ip", r.RemoteAddr)
		w.WriteHeader(http.StatusForbidden)
		return
	}
	n, err := s.cfg.API.FlushCache(r.Context())
	if err != nil {
		logger.L().Error("cache_flush_error", "err", err)
		http.Error(w, "flush failed", http.StatusInternalServerError)
		return
	}
	logger.L().Info("cache_flushed", "keys", n)
	writeJSON(w, http.StatusOK, map[string]any{"flushed": n})
}

type dashboardData struct {
	Content template.HTML
	Assets  []dashboard.Asset
}

// handleDashboard：远端看板抓取失败时输出空容器
func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	content, _ := s.cfg.Dashboard.Content(r.Context())
	render(w, http.StatusOK, "dashboard", dashboardData{
		Content: template.HTML(content),
		Assets:  s.cfg.Dashboard.Assets(r.Context()),
	})
}

// writeError：领域错误映射为 HTTP 状态
func writeError(w http.ResponseWriter, err error) {
	code := http.StatusInternalServerError
	switch {
	case errors.Is(err, trivia.ErrUnknownSection), errors.Is(err, trivia.ErrNotEnabled), errors.Is(err, trivia.ErrNoList):
		code = http.StatusNotFound
	case errors.Is(err, trivia.ErrNotReady):
		code = http.StatusConflict
	case errors.Is(err, trivia.ErrNotFilterable), errors.Is(err, trivia.ErrBadFilter),
		errors.Is(err, trivia.ErrUnknownTab), errors.Is(err, trivia.ErrUnknownTable):
		code = http.StatusBadRequest
	}
	if code == http.StatusInternalServerError {
		logger.L().Error("handler_error", "err", err)
	}
	http.Error(w, err.Error(), code)
}

// render：先渲染到缓冲区，模板出错时返回 500 而不是半截页面
func render(w http.ResponseWriter, code int, name string, data any) {
	var buf bytes.Buffer
	if err := templates.ExecuteTemplate(&buf, name, data); err != nil {
		logger.L().Error("template_error", "name", name, "err", err)
		http.Error(w, "render failed", http.StatusInternalServerError)
		return
	}
	w.Header().Set("content-type", "text/html; charset=utf-8")
	w.WriteHeader(code)
	_, _ = buf.WriteTo(w)
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("content-type", "application/json; charset=utf-8")
	w.Header().Set("cache-control", "no-store")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

var _ API = (*statsapi.Client)(nil)
var _ Stats = (*store.Store)(nil)
