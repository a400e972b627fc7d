// 包 geo：访客国家识别，用于表格高亮
package geo

import (
	"context"
	"net"
	"net/http"
	"os"
	"strings"

	"squash-trivia/internal/logger"

	"github.com/oschwald/geoip2-golang"
)

type ctxKey struct{}

// 边缘节点改写的国家头，按顺序取第一个非空值
var countryHeaders = []string{"X-EO-Geo-Country", "X-Visitor-Country"}

// 文档注释：访客国家解析器
// 背景：优先读取边缘节点注入的国家名；缺失时用本地 GeoLite2/GeoIP2 Country 库按客户端 IP 查询。
// 约束：数据库可选；未配置或查询失败时返回空串，不影响页面渲染。
type Resolver struct {
	db *geoip2.Reader
}

// Open：打开 mmdb 文件；path 为空返回仅读请求头的解析器
func Open(path string) (*Resolver, error) {
	if path == "" {
		return &Resolver{}, nil
	}
	db, err := geoip2.Open(path)
	if err != nil {
		return nil, err
	}
	return &Resolver{db: db}, nil
}

// OpenFromEnv：读取 GEOIP_DB_PATH；打开失败记录告警并退化为仅请求头
func OpenFromEnv() *Resolver {
	path := os.Getenv("GEOIP_DB_PATH")
	r, err := Open(path)
	if err != nil {
		logger.L().Warn("geoip_open_error", "path", path, "err", err)
		return &Resolver{}
	}
	if r.db != nil {
		logger.L().Info("geoip_enabled", "path", path)
	}
	return r
}

func (r *Resolver) Close() error {
	if r == nil || r.db == nil {
		return nil
	}
	return r.db.Close()
}

// Country：解析请求的访客国家英文名
func (r *Resolver) Country(req *http.Request) string {
	for _, h := range countryHeaders {
		if v := strings.TrimSpace(req.Header.Get(h)); v != "" {
			return v
		}
	}
	if r == nil || r.db == nil {
		return ""
	}
	ip := clientIP(req.RemoteAddr)
	if ip == nil {
		return ""
	}
	rec, err := r.db.Country(ip)
	if err != nil {
		logger.L().Debug("geoip_lookup_error", "ip", ip.String(), "err", err)
		return ""
	}
	return rec.Country.Names["en"]
}

// clientIP：RemoteAddr 可能带端口（chi RealIP 改写后不带）
func clientIP(addr string) net.IP {
	if host, _, err := net.SplitHostPort(addr); err == nil {
		addr = host
	}
	return net.ParseIP(addr)
}

// Middleware：把访客国家写入请求上下文
func (r *Resolver) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		if c := r.Country(req); c != "" {
			req = req.WithContext(WithCountry(req.Context(), c))
		}
		next.ServeHTTP(w, req)
	})
}

func WithCountry(ctx context.Context, country string) context.Context {
	return context.WithValue(ctx, ctxKey{}, country)
}

// CountryFrom：读取上下文中的访客国家，缺失返回空串
func CountryFrom(ctx context.Context) string {
	s, _ := ctx.Value(ctxKey{}).(string)
	return s
}
