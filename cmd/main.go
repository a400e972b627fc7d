// 程序入口：读取配置、初始化依赖并启动服务；路由注册在 internal/web
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"squash-trivia/internal/dashboard"
	"squash-trivia/internal/geo"
	"squash-trivia/internal/logger"
	"squash-trivia/internal/migrate"
	"squash-trivia/internal/statsapi"
	"squash-trivia/internal/store"
	"squash-trivia/internal/trivia"
	"squash-trivia/internal/utils"
	"squash-trivia/internal/version"
	"squash-trivia/internal/web"

	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load(".env")
	_ = godotenv.Load(filepath.Join("data", "env", ".env"))
	// 日志初始化
	l := logger.Setup()
	l.Debug("log_init_ok", "commit", version.Commit)

	api := statsapi.NewFromEnv()
	l.Info("config_stats_api", "base", api.BaseURL())

	rc := utils.OpenRedisFromEnv()
	if rc == nil {
		l.Info("redis_disabled")
	} else if err := rc.Ping(context.Background()).Err(); err != nil {
		// 背景：缓存不可用时直接请求上游，不阻断启动
		l.Error("redis_ping_error", "err", err)
		rc = nil
	} else {
		l.Info("redis_ping_ok")
		api = api.WithCache(rc, utils.CacheTTLFromEnv())
	}

	cfg := web.Config{
		API:            api,
		APIBase:        api.BaseURL(),
		Sessions:       trivia.NewSessionsFromEnv(),
		Sections:       trivia.ParseSections(os.Getenv("TRIVIA_SECTIONS")),
		MetricsPath:    os.Getenv("METRICS_PATH"),
		AdminTokenHash: []byte(os.Getenv("ADMIN_TOKEN_HASH")),
	}
	if st := openStore(); st != nil {
		defer st.Close()
		cfg.Stats = st
	}
	res := geo.OpenFromEnv()
	defer res.Close()
	cfg.Geo = res
	if os.Getenv("DASHBOARD_ENABLED") != "false" {
		cfg.Dashboard = dashboard.NewFromEnv()
		l.Info("dashboard_enabled", "base", cfg.Dashboard.BaseURL())
	}

	addr := os.Getenv("ADDR")
	if addr == "" {
		addr = ":8080"
	}
	s := &http.Server{Addr: addr, Handler: web.New(cfg).Routes(), ReadHeaderTimeout: 10 * time.Second}

	go func() {
		var err error
		if os.Getenv("TLS_ENABLE") == "true" {
			certPath := os.Getenv("TLS_CERT_PATH")
			keyPath := os.Getenv("TLS_KEY_PATH")
			if certPath == "" {
				certPath = filepath.Join("data", "certs", "server.crt")
			}
			if keyPath == "" {
				keyPath = filepath.Join("data", "certs", "server.key")
			}
			if e := utils.EnsureSelfSignedCert(certPath, keyPath, "squash-trivia.local"); e != nil {
				l.Error("tls_cert_error", "err", e)
			}
			l.Info("listening_tls", "addr", addr, "cert", certPath)
			err = s.ListenAndServeTLS(certPath, keyPath)
		} else {
			l.Info("listening", "addr", addr)
			err = s.ListenAndServe()
		}
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			l.Error("listen_error", "err", err)
			os.Exit(1)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop
	l.Info("shutdown_begin")
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := s.Shutdown(ctx); err != nil {
		l.Error("shutdown_error", "err", err)
	}
	cfg.Sessions.CloseAll()
	if rc != nil {
		_ = rc.Close()
	}
	l.Info("shutdown_done")
}

// openStore：按 STORE_DRIVER 打开统计库并建表；失败时记录日志并禁用统计
func openStore() *store.Store {
	l := logger.L()
	driver, db, err := utils.OpenStoreFromEnv()
	if err != nil {
		l.Error("db_open_error", "driver", driver, "err", err)
		return nil
	}
	if db == nil {
		l.Info("store_disabled")
		return nil
	}
	if err := db.Ping(); err != nil {
		l.Error("db_ping_error", "driver", driver, "err", err)
		_ = db.Close()
		return nil
	}
	l.Info("db_ping_ok", "driver", driver)
	if err := migrate.EnsureSchema(db, driver); err != nil {
		l.Error("schema_error", "err", err)
		_ = db.Close()
		return nil
	}
	return store.AttachDB(db, driver)
}
