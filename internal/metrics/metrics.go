package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var msBuckets = []float64{5, 10, 25, 50, 100, 250, 500, 1000, 2500, 5000, 10000, 30000}

var (
	PageViewsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "trivia_page_views_total",
		Help: "Total number of trivia page renders",
	})
	APIRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "trivia_api_requests_total",
		Help: "Total stats API requests by endpoint",
	}, []string{"endpoint"})
	APIFailTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "trivia_api_fail_total",
		Help: "Total stats API failures by endpoint and kind",
	}, []string{"endpoint", "kind"})
	APIDurationMs = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "trivia_api_duration_ms",
		Help:    "Stats API call duration in milliseconds",
		Buckets: msBuckets,
	}, []string{"endpoint"})
	CacheHitsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "trivia_cache_hits_total",
		Help: "Total redis response cache hits",
	})
	CacheMissesTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "trivia_cache_misses_total",
		Help: "Total redis response cache misses",
	})
	SectionLoadsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "trivia_section_loads_total",
		Help: "Section loads by final status",
	}, []string{"section", "status"})
	SectionDurationMs = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "trivia_section_duration_ms",
		Help:    "Section fetch+transform duration in milliseconds",
		Buckets: msBuckets,
	}, []string{"section"})
	StaleResultsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "trivia_stale_results_total",
		Help: "Results dropped because a newer generation was started",
	}, []string{"section"})
	LiveSessions = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "trivia_live_sessions",
		Help: "Page sessions currently held in memory",
	})
	LiveMaps = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "trivia_live_maps",
		Help: "Live map handles across all sessions",
	})
	DashboardFetchTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "trivia_dashboard_fetch_total",
		Help: "Remote dashboard fetches by resource and result",
	}, []string{"resource", "result"})
)

func init() {
	prometheus.MustRegister(
		PageViewsTotal,
		APIRequestsTotal,
		APIFailTotal,
		APIDurationMs,
		CacheHitsTotal,
		CacheMissesTotal,
		SectionLoadsTotal,
		SectionDurationMs,
		StaleResultsTotal,
		LiveSessions,
		LiveMaps,
		DashboardFetchTotal,
	)
}

// 文档注释：返回 Prometheus 指标处理器，由主入口挂载到 METRICS_PATH
func Handler() http.Handler { return promhttp.Handler() }
