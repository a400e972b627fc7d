// trivia-check：逐个请求统计接口一次，输出每个端点的状态，任一失败时以 1 退出
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"squash-trivia/internal/logger"
	"squash-trivia/internal/statsapi"

	"github.com/charmbracelet/lipgloss"
	"github.com/joho/godotenv"
)

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205"))
	okStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("green"))
	failStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)
	dimStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	nameStyle  = lipgloss.NewStyle().Width(34)
)

type result struct {
	endpoint string
	dur      time.Duration
	err      error
}

func check(ctx context.Context, api *statsapi.Client, endpoint string) result {
	var raw json.RawMessage
	start := time.Now()
	err := api.Fetch(ctx, endpoint, nil, &raw)
	return result{endpoint: endpoint, dur: time.Since(start), err: err}
}

func line(r result) string {
	dur := dimStyle.Render(fmt.Sprintf("%6dms", r.dur.Milliseconds()))
	if r.err == nil {
		return okStyle.Render("✅") + " " + nameStyle.Render(r.endpoint) + " " + dur
	}
	kind := string(statsapi.KindOf(r.err))
	if kind == "" {
		kind = "error"
	}
	return failStyle.Render("❌") + " " + nameStyle.Render(r.endpoint) + " " + dur + " " + failStyle.Render(kind) + " " + dimStyle.Render(r.err.Error())
}

func main() {
	_ = godotenv.Load(".env")
	_ = godotenv.Load(filepath.Join("data", "env", ".env"))
	base := flag.String("base", "", "stats API base URL (default STATS_API_URL)")
	timeout := flag.Duration("timeout", 0, "per-request timeout")
	flag.Parse()
	logger.Setup()

	api := statsapi.NewFromEnv()
	if *base != "" {
		api = statsapi.New(*base, nil)
	}
	api = api.WithTimeout(*timeout)

	fmt.Println(titleStyle.Render("=== Squash Stats API Status Check ===") + " " + dimStyle.Render(api.BaseURL()))
	fmt.Println()
	failed := 0
	for _, ep := range statsapi.Endpoints {
		r := check(context.Background(), api, ep)
		if r.err != nil {
			failed++
		}
		fmt.Println(line(r))
	}
	fmt.Println()
	if failed > 0 {
		fmt.Println(failStyle.Render(fmt.Sprintf("%d of %d endpoints failed", failed, len(statsapi.Endpoints))))
		os.Exit(1)
	}
	fmt.Println(okStyle.Render(fmt.Sprintf("all %d endpoints OK", len(statsapi.Endpoints))))
}
