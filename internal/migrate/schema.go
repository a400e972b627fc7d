package migrate

import (
	"database/sql"
	"fmt"

	"squash-trivia/internal/logger"
)

// 背景：首次运行自动创建加载记录与每日统计表
// 约束：使用 IF NOT EXISTS 避免与既有结构冲突；postgres 与 sqlite 仅在自增主键与时间默认值上不同
func EnsureSchema(db *sql.DB, driver string) error {
	stmts, err := schemaFor(driver)
	if err != nil {
		return err
	}
	for i, s := range stmts {
		logger.L().Debug("schema_exec", "driver", driver, "idx", i)
		if _, err := db.Exec(s); err != nil {
			return fmt.Errorf("schema stmt %d: %w", i, err)
		}
	}
	logger.L().Debug("schema_done", "driver", driver)
	return nil
}

func schemaFor(driver string) ([]string, error) {
	var id, now string
	switch driver {
	case "postgres":
		id, now = "BIGSERIAL PRIMARY KEY", "now()"
	case "sqlite":
		id, now = "INTEGER PRIMARY KEY AUTOINCREMENT", "CURRENT_TIMESTAMP"
	default:
		return nil, fmt.Errorf("unsupported store driver %q", driver)
	}
	return []string{
		`CREATE TABLE IF NOT EXISTS _trivia_loads (
            id ` + id + `,
            section TEXT NOT NULL,
            generation BIGINT NOT NULL,
            status TEXT NOT NULL,
            error_kind TEXT NOT NULL DEFAULT '',
            duration_ms BIGINT NOT NULL DEFAULT 0,
            created_at TIMESTAMP NOT NULL DEFAULT ` + now + `
        )`,
		`CREATE INDEX IF NOT EXISTS idx_trivia_loads_section ON _trivia_loads(section, created_at)`,
		`CREATE TABLE IF NOT EXISTS _trivia_stats_daily (
            day DATE PRIMARY KEY,
            page_views BIGINT NOT NULL DEFAULT 0,
            loads BIGINT NOT NULL DEFAULT 0,
            failures BIGINT NOT NULL DEFAULT 0
        )`,
	}, nil
}
