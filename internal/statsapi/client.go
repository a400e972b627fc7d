// 包 statsapi：外部统计接口的只读客户端；统一拼接地址、超时、错误分类与可选的 Redis 响应缓存
package statsapi

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"squash-trivia/internal/logger"
	"squash-trivia/internal/metrics"

	"github.com/redis/go-redis/v9"
)

const (
	DefaultBaseURL = "https://stats.squashplayers.app/api"
	DefaultTimeout = 30 * time.Second

	cachePrefix  = "trivia:api:"
	maxBodyBytes = 32 << 20
)

// Client：统计接口客户端，可被多个页面会话并发复用
type Client struct {
	base     string
	hc       *http.Client
	timeout  time.Duration
	rc       *redis.Client
	cacheTTL time.Duration
}

// New：使用给定基础地址与 HTTP 客户端构造；hc 为空时使用带默认超时的客户端
func New(base string, hc *http.Client) *Client {
	if base == "" {
		base = DefaultBaseURL
	}
	if hc == nil {
		hc = &http.Client{Timeout: DefaultTimeout}
	}
	return &Client{base: strings.TrimRight(base, "/"), hc: hc, timeout: DefaultTimeout}
}

// NewFromEnv：读取 STATS_API_URL 与 STATS_API_TIMEOUT_S
// 约束：超时解析失败或非正数时保持 30s
func NewFromEnv() *Client {
	timeout := DefaultTimeout
	if v := os.Getenv("STATS_API_TIMEOUT_S"); v != "" {
		if n, e := strconv.Atoi(v); e == nil && n > 0 {
			timeout = time.Duration(n) * time.Second
		}
	}
	c := New(os.Getenv("STATS_API_URL"), &http.Client{Timeout: timeout})
	c.timeout = timeout
	logger.L().Debug("statsapi_env", "base", c.base, "timeout_s", int(timeout.Seconds()))
	return c
}

// WithCache：启用 Redis 读穿缓存；rc 为空或 ttl<=0 时不启用
func (c *Client) WithCache(rc *redis.Client, ttl time.Duration) *Client {
	if rc == nil || ttl <= 0 {
		return c
	}
	c.rc = rc
	c.cacheTTL = ttl
	return c
}

// WithTimeout：覆盖单次请求超时（测试中缩短等待）
func (c *Client) WithTimeout(d time.Duration) *Client {
	if d > 0 {
		c.timeout = d
	}
	return c
}

func (c *Client) BaseURL() string { return c.base }

// URL：基础地址 + 端点 + 可选查询串
func (c *Client) URL(endpoint string, params url.Values) string {
	u := c.base + endpoint
	if q := params.Encode(); q != "" {
		u += "?" + q
	}
	return u
}

// 文档注释：请求端点并把 JSON 响应解码到 out
// 参数：params 可为空；out 必须为指针。
// 返回：失败时返回 *Error，类别为传输/状态/解码之一，并已记录日志与指标。
// 约束：缓存命中但内容无法解码时视为未命中并回源。
func (c *Client) Fetch(ctx context.Context, endpoint string, params url.Values, out any) error {
	key := cachePrefix + endpoint + "?" + params.Encode()
	if c.rc != nil {
		if s, err := c.rc.Get(ctx, key).Result(); err == nil {
			if json.Unmarshal([]byte(s), out) == nil {
				metrics.CacheHitsTotal.Inc()
				logger.L().Debug("api_cache_hit", "endpoint", endpoint)
				return nil
			}
		} else if !errors.Is(err, redis.Nil) {
			logger.L().Warn("api_cache_get_error", "endpoint", endpoint, "err", err)
		}
		metrics.CacheMissesTotal.Inc()
	}

	body, err := c.get(ctx, endpoint, params)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, out); err != nil {
		return c.fail(&Error{Endpoint: endpoint, Kind: KindDecode, Err: err})
	}
	if c.rc != nil {
		if err := c.rc.Set(ctx, key, body, c.cacheTTL).Err(); err != nil {
			logger.L().Warn("api_cache_set_error", "endpoint", endpoint, "err", err)
		}
	}
	return nil
}

func (c *Client) get(ctx context.Context, endpoint string, params url.Values) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()
	u := c.URL(endpoint, params)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, c.fail(&Error{Endpoint: endpoint, Kind: KindTransport, Err: err})
	}
	req.Header.Set("Accept", "application/json")

	t0 := time.Now()
	metrics.APIRequestsTotal.WithLabelValues(endpoint).Inc()
	logger.L().Debug("api_req", "url", u)
	resp, err := c.hc.Do(req)
	if err != nil {
		return nil, c.fail(&Error{Endpoint: endpoint, Kind: KindTransport, Err: err})
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return nil, c.fail(&Error{Endpoint: endpoint, Kind: KindStatus, Status: resp.StatusCode})
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, c.fail(&Error{Endpoint: endpoint, Kind: KindTransport, Err: err})
	}
	dur := time.Since(t0).Milliseconds()
	metrics.APIDurationMs.WithLabelValues(endpoint).Observe(float64(dur))
	logger.L().Debug("api_resp", "endpoint", endpoint, "status", resp.StatusCode, "bytes", len(body), "duration_ms", dur)
	return body, nil
}

func (c *Client) fail(e *Error) error {
	metrics.APIFailTotal.WithLabelValues(e.Endpoint, string(e.Kind)).Inc()
	logger.L().Error("api_fetch_error", "endpoint", e.Endpoint, "kind", e.Kind, "status", e.Status, "timeout", e.Timeout(), "err", e)
	return e
}

// FlushCache：删除全部已缓存的接口响应，返回删除的键数量
func (c *Client) FlushCache(ctx context.Context) (int, error) {
	if c.rc == nil {
		return 0, nil
	}
	n := 0
	iter := c.rc.Scan(ctx, 0, cachePrefix+"*", 200).Iterator()
	for iter.Next(ctx) {
		if err := c.rc.Del(ctx, iter.Val()).Err(); err != nil {
			return n, err
		}
		n++
	}
	if err := iter.Err(); err != nil {
		return n, err
	}
	logger.L().Info("api_cache_flushed", "keys", n)
	return n, nil
}
