package trivia

import (
	"strconv"
	"strings"

	"squash-trivia/internal/mapview"
	"squash-trivia/internal/statsapi"
	"squash-trivia/internal/table"
)

// 场馆类区块共用的转换工具

// place：“城市, 国家”，缺失的部分省略
func place(city, country string) string {
	var parts []string
	for _, p := range []string{city, country} {
		if p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, ", ")
}

// venuePoints：把场馆映射为地图点位；extra 追加弹窗的最后一行
func venuePoints(venues []statsapi.Venue, color func(statsapi.Venue) string, extra func(statsapi.Venue) string) []mapview.Point {
	out := make([]mapview.Point, 0, len(venues))
	for _, v := range venues {
		p := mapview.Point{
			Lat:         v.Latitude,
			Lon:         v.Longitude,
			Color:       color(v),
			NeighborLat: v.NearestLatitude,
			NeighborLon: v.NearestLongitude,
			Popup:       mapview.Popup{Title: v.Name},
		}
		if pl := place(v.City, v.Country); pl != "" {
			p.Popup.Lines = append(p.Popup.Lines, pl)
		}
		if extra != nil {
			p.Popup.Lines = append(p.Popup.Lines, extra(v))
		}
		out = append(out, p)
	}
	return out
}

func fixed(c string) func(statsapi.Venue) string {
	return func(statsapi.Venue) string { return c }
}

// top：接口顺序的前 n 项，不重新排序
func top[T any](xs []T, n int) []T {
	if len(xs) > n {
		return xs[:n]
	}
	return xs
}

func itoa(n int) string { return strconv.Itoa(n) }

// rankedVenueRow：“# / 场馆 / 城市 / 国家 / 指标”五列行
func rankedVenueRow(rank int, v statsapi.Venue, metric table.Cell) table.Row {
	return table.Row{Cells: []table.Cell{
		table.Text(itoa(rank)),
		table.Text(v.Name),
		table.Text(table.Placeholder(v.City)),
		table.Text(v.Country),
		metric,
	}}
}

// rankedTable：带名次的场馆表格
func rankedTable(id, metricLabel string, venues []statsapi.Venue, metric func(statsapi.Venue) table.Cell) table.Table {
	type ranked struct {
		n int
		v statsapi.Venue
	}
	recs := make([]ranked, len(venues))
	for i, v := range venues {
		recs[i] = ranked{n: i + 1, v: v}
	}
	return table.Render(id, []string{"#", "Venue", "City", "Country", metricLabel}, recs, func(r ranked) table.Row {
		return rankedVenueRow(r.n, r.v, metric(r.v))
	})
}

func countStat(id, label string, n int) Stat {
	return Stat{ID: id, Label: label, Value: itoa(n)}
}

func deref(p *float64) (float64, bool) {
	if p == nil {
		return 0, false
	}
	return *p, true
}
