package trivia

import (
	"context"

	"squash-trivia/internal/mapview"
	"squash-trivia/internal/statsapi"
	"squash-trivia/internal/table"
)

// MinHighAltitude：高海拔区块的最低海拔（米）
const MinHighAltitude = 2000

// ElevationColor：≥3500 红，≥3000 琥珀，其余绿
func ElevationColor(m float64) string {
	switch {
	case m >= 3500:
		return "#dc2626"
	case m >= 3000:
		return "#f59e0b"
	}
	return "#10b981"
}

// ElevationClass：表格徽标的海拔档位
func ElevationClass(m float64) string {
	switch {
	case m >= 3500:
		return "elevation-3500"
	case m >= 3000:
		return "elevation-3000"
	}
	return "elevation-2000"
}

// filterHighAltitude：保留海拔 ≥ 2000 的场馆，缺少海拔的丢弃，保持接口顺序
func filterHighAltitude(venues []statsapi.Venue) []statsapi.Venue {
	out := make([]statsapi.Venue, 0, len(venues))
	for _, v := range venues {
		if e, ok := deref(v.Elevation); ok && e >= MinHighAltitude {
			out = append(out, v)
		}
	}
	return out
}

func highAltitude() Handler {
	return pipeline[[]statsapi.Venue]{
		load: func(ctx context.Context, api Fetcher, _ Request) ([]statsapi.Venue, error) {
			var r statsapi.VenuesResponse
			if err := api.Fetch(ctx, statsapi.EndpointVenuesWithElevation, nil, &r); err != nil {
				return nil, err
			}
			return filterHighAltitude(r.Venues), nil
		},
		render: func(rc *RenderContext, venues []statsapi.Venue) View {
			opts := mapview.DefaultOptions()
			opts.Center = mapview.LatLng{0, 0}
			points := venuePoints(venues,
				func(v statsapi.Venue) string { return ElevationColor(*v.Elevation) },
				func(v statsapi.Venue) string { return "Elevation: " + table.Number(*v.Elevation) + "m" },
			)
			t := rankedTable("high-altitude-table", "Elevation", top(venues, 10), func(v statsapi.Venue) table.Cell {
				return table.Badge(table.Number(*v.Elevation)+"m", "elevation-badge "+ElevationClass(*v.Elevation))
			})
			return View{
				Map:    rc.Map(MapMount(HighAltitude), points, opts),
				Panels: []Panel{{ID: "high-altitude-table-container", Active: true, Table: t}},
			}
		},
	}
}
