// 包 utils：数据库与 Redis 连接工具，统一环境变量读取
package utils

import (
	"database/sql"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	_ "github.com/glebarez/go-sqlite"
	_ "github.com/lib/pq"
)

// 驱动名与 database/sql 注册名一致
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

func BuildPostgresDSNFromEnv() string {
	host := os.Getenv("PG_HOST")
	if host == "" {
		host = "localhost"
	}
	port := os.Getenv("PG_PORT")
	if port == "" {
		port = "5432"
	}
	user := os.Getenv("PG_USER")
	if user == "" {
		user = "postgres"
	}
	pass := os.Getenv("PG_PASSWORD")
	db := os.Getenv("PG_DB")
	if db == "" {
		db = "squash_trivia"
	}
	ssl := os.Getenv("PG_SSLMODE")
	if ssl == "" {
		ssl = "disable"
	}
	dsn := "postgres://" + user
	if pass != "" {
		dsn += ":" + pass
	}
	dsn += "@" + host + ":" + port + "/" + db + "?sslmode=" + ssl
	return dsn
}

func OpenPostgresFromEnv() (*sql.DB, error) {
	db, err := sql.Open(DriverPostgres, BuildPostgresDSNFromEnv())
	if err != nil {
		return nil, err
	}
	maxOpen := 20
	maxIdle := 10
	if v := os.Getenv("PG_MAX_OPEN_CONNS"); v != "" {
		if n, e := strconv.Atoi(v); e == nil {
			maxOpen = n
		}
	}
	if v := os.Getenv("PG_MAX_IDLE_CONNS"); v != "" {
		if n, e := strconv.Atoi(v); e == nil {
			maxIdle = n
		}
	}
	db.SetMaxOpenConns(maxOpen)
	db.SetMaxIdleConns(maxIdle)
	return db, nil
}

// OpenSQLite：打开本地 SQLite 文件（纯 Go 驱动，无需 cgo）
// 约束：单连接写入，避免 database is locked
func OpenSQLite(path string) (*sql.DB, error) {
	if dir := filepath.Dir(path); dir != "." {
		_ = os.MkdirAll(dir, 0o755)
	}
	db, err := sql.Open(DriverSQLite, path)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)
	return db, nil
}

// OpenStoreFromEnv：按 STORE_DRIVER 打开统计库
// 返回：驱动名与连接；STORE_DRIVER 为空或 none 时返回 ("", nil, nil)
func OpenStoreFromEnv() (string, *sql.DB, error) {
	switch strings.ToLower(os.Getenv("STORE_DRIVER")) {
	case DriverPostgres:
		db, err := OpenPostgresFromEnv()
		return DriverPostgres, db, err
	case DriverSQLite:
		path := os.Getenv("SQLITE_PATH")
		if path == "" {
			path = filepath.Join("data", "trivia.db")
		}
		db, err := OpenSQLite(path)
		return DriverSQLite, db, err
	}
	return "", nil, nil
}
