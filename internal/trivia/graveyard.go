package trivia

import (
	"context"
	"sort"
	"strconv"
	"strings"
	"sync"

	"squash-trivia/internal/logger"
	"squash-trivia/internal/statsapi"
	"squash-trivia/internal/table"
)

// GraveyardTotals：首次加载时的汇总，筛选后保持不变
type GraveyardTotals struct {
	TotalVenues    int
	CountriesCount int
	CourtsLost     int
}

// GraveyardData：墓地区块的缓存数据；下拉选项只在首次加载时生成
type GraveyardData struct {
	Totals    GraveyardTotals
	Venues    []statsapi.Venue
	Countries []string
	Reasons   []statsapi.DeletionReason
}

// DeathClass：按删除原因（不区分大小写的子串）选择行样式，依次匹配 closed、duplicate、never
func DeathClass(reason string) string {
	r := strings.ToLower(reason)
	switch {
	case strings.Contains(r, "closed"):
		return "death-closed"
	case strings.Contains(r, "duplicate"):
		return "death-duplicate"
	case strings.Contains(r, "never"):
		return "death-never-existed"
	}
	return "death-other"
}

// CountryOptions：去重并按字母排序的国家列表
func CountryOptions(venues []statsapi.Venue) []string {
	seen := make(map[string]bool)
	var out []string
	for _, v := range venues {
		if v.Country == "" || seen[v.Country] {
			continue
		}
		seen[v.Country] = true
		out = append(out, v.Country)
	}
	sort.Strings(out)
	return out
}

// loadGraveyard：有上一次成功数据时只取筛选后的列表；否则同时取删除原因，
// 并以不带筛选的列表生成下拉选项与汇总
func loadGraveyard(ctx context.Context, api Fetcher, req Request) (GraveyardData, error) {
	if prev, ok := req.Prev.(GraveyardData); ok {
		var r statsapi.GraveyardResponse
		if err := api.Fetch(ctx, statsapi.EndpointGraveyard, req.Filter.Params(), &r); err != nil {
			return GraveyardData{}, err
		}
		prev.Venues = r.Venues
		return prev, nil
	}

	var (
		wg      sync.WaitGroup
		reasons []statsapi.DeletionReason
		rerr    error
		base    statsapi.GraveyardResponse
		berr    error
	)
	wg.Add(1)
	go func() {
		defer wg.Done()
		rerr = api.Fetch(ctx, statsapi.EndpointDeletionReasons, nil, &reasons)
	}()
	filtered := req.Filter.Active()
	if filtered {
		// 首次成功之前就筛选：选项仍来自完整列表
		wg.Add(1)
		go func() {
			defer wg.Done()
			berr = api.Fetch(ctx, statsapi.EndpointGraveyard, nil, &base)
		}()
	}
	var r statsapi.GraveyardResponse
	err := api.Fetch(ctx, statsapi.EndpointGraveyard, req.Filter.Params(), &r)
	wg.Wait()
	if err != nil {
		return GraveyardData{}, err
	}
	if !filtered {
		base = r
	} else if berr != nil {
		return GraveyardData{}, berr
	}
	if rerr != nil {
		// 原因列表只影响下拉框，不使整个区块失败
		logger.Section(string(Graveyard)).Warn("graveyard_reasons_unavailable", "err", rerr)
		reasons = nil
	}
	return GraveyardData{
		Totals:    GraveyardTotals{TotalVenues: base.TotalVenues, CountriesCount: base.CountriesCount, CourtsLost: base.CourtsLost},
		Venues:    r.Venues,
		Countries: CountryOptions(base.Venues),
		Reasons:   reasons,
	}, nil
}

func renderGraveyard(rc *RenderContext, d GraveyardData) View {
	countrySel := Select{ID: "graveyard-country-filter", Type: FilterCountry, Label: "Country",
		Options: []SelectOption{{Value: "", Label: "All countries"}}}
	for _, c := range d.Countries {
		countrySel.Options = append(countrySel.Options, SelectOption{
			Value: c, Label: c,
			Selected: rc.Filter.Type == FilterCountry && rc.Filter.Value == c,
		})
	}
	reasonSel := Select{ID: "graveyard-reason-filter", Type: FilterReason, Label: "Reason",
		Options: []SelectOption{{Value: "", Label: "All reasons"}}}
	for _, r := range d.Reasons {
		id := strconv.Itoa(r.ID)
		reasonSel.Options = append(reasonSel.Options, SelectOption{
			Value: id, Label: r.Name,
			Selected: rc.Filter.Type == FilterReason && rc.Filter.Value == id,
		})
	}

	cols := []string{"Venue", "Address", "Country", "Courts", "Reason", "Deleted"}
	t := table.Render("graveyard-table", cols, d.Venues, func(v statsapi.Venue) table.Row {
		courts := 0
		if v.Courts != nil {
			courts = *v.Courts
		}
		reason := v.DeleteReasonName
		if reason == "" {
			reason = "Unknown"
		}
		return table.Row{
			Class: DeathClass(v.DeleteReasonName),
			Cells: []table.Cell{
				table.Text(v.Name),
				table.Text(table.Placeholder(v.Address)),
				table.Text(v.Country),
				table.Text(itoa(courts)),
				table.Badge(reason, "death-badge "+DeathClass(v.DeleteReasonName)),
				table.Text(table.Placeholder(v.DeletedAt)),
			},
		}
	})
	t.Empty = "No venues found"

	return View{
		Stats: []Stat{
			{ID: "graveyard-total-venues", Label: "Venues removed", Value: itoa(d.Totals.TotalVenues)},
			{ID: "graveyard-countries", Label: "Countries", Value: itoa(d.Totals.CountriesCount)},
			{ID: "graveyard-courts-lost", Label: "Courts lost", Value: itoa(d.Totals.CourtsLost)},
			{ID: "graveyard-showing", Label: "Showing", Value: itoa(len(d.Venues))},
		},
		Filters: []Select{countrySel, reasonSel},
		Panels:  []Panel{{ID: "graveyard-table-container", Active: true, Table: t}},
	}
}

func graveyard() Handler {
	return pipeline[GraveyardData]{load: loadGraveyard, render: renderGraveyard}
}
