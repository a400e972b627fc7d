// 包 utils：Redis 连接工具，统一环境变量读取与可选 DB 选择
package utils

import (
	"os"
	"strconv"
	"time"

	"squash-trivia/internal/logger"

	"github.com/redis/go-redis/v9"
)

// OpenRedisFromEnv：REDIS_ENABLED=true 时按 REDIS_HOST/PORT/PASS/DB 打开客户端，否则返回 nil
// 约束：REDIS_DB 解析失败时回退到 0
func OpenRedisFromEnv() *redis.Client {
	if os.Getenv("REDIS_ENABLED") != "true" {
		return nil
	}
	host := os.Getenv("REDIS_HOST")
	if host == "" {
		host = "127.0.0.1"
	}
	port := os.Getenv("REDIS_PORT")
	if port == "" {
		port = "6379"
	}
	addr := host + ":" + port
	db := 0
	if v := os.Getenv("REDIS_DB"); v != "" {
		if n, _ := strconv.Atoi(v); n >= 0 {
			db = n
		}
	}
	logger.L().Debug("redis_env", "addr", addr, "db", db)
	return redis.NewClient(&redis.Options{Addr: addr, Password: os.Getenv("REDIS_PASS"), DB: db})
}

// CacheTTLFromEnv：接口响应缓存时长 API_CACHE_TTL_S，默认 300 秒
func CacheTTLFromEnv() time.Duration {
	ttl := 300
	if v := os.Getenv("API_CACHE_TTL_S"); v != "" {
		if n, e := strconv.Atoi(v); e == nil && n >= 0 {
			ttl = n
		}
	}
	return time.Duration(ttl) * time.Second
}
