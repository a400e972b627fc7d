// 包 store: 加载记录与每日统计的数据访问层，支持 postgres 与 sqlite
package store

import (
	"context"
	"database/sql"
	"strconv"
	"strings"
	"time"

	"squash-trivia/internal/logger"
)

// Store: 数据库访问入口，持有连接池与方言
type Store struct {
	db     *sql.DB
	driver string
	now    func() time.Time
}

func AttachDB(db *sql.DB, driver string) *Store {
	return &Store{db: db, driver: driver, now: time.Now}
}

// Close: 关闭数据库连接
func (s *Store) Close() error { return s.db.Close() }

func (s *Store) DB() *sql.DB { return s.db }

// rebind: 语句统一以 $n 书写，sqlite 下改写为 ?
func (s *Store) rebind(q string) string {
	if s.driver != "sqlite" {
		return q
	}
	var b strings.Builder
	for i := 0; i < len(q); i++ {
		if q[i] == '$' {
			j := i + 1
			for j < len(q) && q[j] >= '0' && q[j] <= '9' {
				j++
			}
			if j > i+1 {
				b.WriteByte('?')
				i = j - 1
				continue
			}
		}
		b.WriteByte(q[i])
	}
	return b.String()
}

func (s *Store) today() string { return s.now().UTC().Format("2006-01-02") }

// RecordLoad: 记录一次分区加载结果并累加当日计数
// 约束：status 为 loaded 或 failed；failed 同时累加 failures
func (s *Store) RecordLoad(ctx context.Context, section string, generation uint64, status string, errKind string, dur time.Duration) error {
	_, err := s.db.ExecContext(ctx, s.rebind(`INSERT INTO _trivia_loads(section, generation, status, error_kind, duration_ms)
        VALUES($1, $2, $3, $4, $5)`), section, int64(generation), status, errKind, dur.Milliseconds())
	if err != nil {
		logger.L().Warn("store_record_load_error", "section", section, "err", err)
		return err
	}
	failed := 0
	if status == "failed" {
		failed = 1
	}
	_, err = s.db.ExecContext(ctx, s.rebind(`INSERT INTO _trivia_stats_daily(day, loads, failures) VALUES($1, 1, $2)
        ON CONFLICT (day) DO UPDATE SET loads=_trivia_stats_daily.loads+1, failures=_trivia_stats_daily.failures+EXCLUDED.failures`),
		s.today(), failed)
	if err != nil {
		logger.L().Warn("store_stats_daily_error", "err", err)
		return err
	}
	logger.L().Debug("store_record_load", "section", section, "gen", generation, "status", status)
	return nil
}

// IncrPageView: 页面渲染一次累加当日浏览量
func (s *Store) IncrPageView(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, s.rebind(`INSERT INTO _trivia_stats_daily(day, page_views) VALUES($1, 1)
        ON CONFLICT (day) DO UPDATE SET page_views=_trivia_stats_daily.page_views+1`), s.today())
	if err != nil {
		logger.L().Warn("store_page_view_error", "err", err)
	}
	return err
}

// Totals: 统计返回结构，累计与当日
type Totals struct {
	PageViews      int64            `json:"page_views"`
	Loads          int64            `json:"loads"`
	Failures       int64            `json:"failures"`
	TodayPageViews int64            `json:"today_page_views"`
	TodayLoads     int64            `json:"today_loads"`
	TodayFailures  int64            `json:"today_failures"`
	FailedSections map[string]int64 `json:"failed_sections"`
}

// GetTotals: 读取累计、当日计数与按分区的失败次数
func (s *Store) GetTotals(ctx context.Context) (*Totals, error) {
	t := Totals{FailedSections: map[string]int64{}}
	row := s.db.QueryRowContext(ctx, `SELECT COALESCE(SUM(page_views),0), COALESCE(SUM(loads),0), COALESCE(SUM(failures),0) FROM _trivia_stats_daily`)
	if err := row.Scan(&t.PageViews, &t.Loads, &t.Failures); err != nil {
		return nil, err
	}
	row2 := s.db.QueryRowContext(ctx, s.rebind(`SELECT page_views, loads, failures FROM _trivia_stats_daily WHERE day=$1`), s.today())
	if err := row2.Scan(&t.TodayPageViews, &t.TodayLoads, &t.TodayFailures); err != nil && err != sql.ErrNoRows {
		return nil, err
	}
	rows, err := s.db.QueryContext(ctx, `SELECT section, COUNT(*) FROM _trivia_loads WHERE status='failed' GROUP BY section`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var sec string
		var n int64
		if err := rows.Scan(&sec, &n); err != nil {
			return nil, err
		}
		t.FailedSections[sec] = n
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	logger.L().Debug("stats_totals", "page_views", t.PageViews, "loads", t.Loads, "failures", t.Failures)
	return &t, nil
}

// Load: 单条加载记录
type Load struct {
	Section    string `json:"section"`
	Generation int64  `json:"generation"`
	Status     string `json:"status"`
	ErrorKind  string `json:"error_kind,omitempty"`
	DurationMs int64  `json:"duration_ms"`
}

// RecentLoads: 最近 limit 条加载记录，供诊断接口
func (s *Store) RecentLoads(ctx context.Context, limit int) ([]Load, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.db.QueryContext(ctx, `SELECT section, generation, status, error_kind, duration_ms FROM _trivia_loads ORDER BY id DESC LIMIT `+strconv.Itoa(limit))
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Load
	for rows.Next() {
		var l Load
		if err := rows.Scan(&l.Section, &l.Generation, &l.Status, &l.ErrorKind, &l.DurationMs); err != nil {
			return nil, err
		}
		out = append(out, l)
	}
	return out, rows.Err()
}
