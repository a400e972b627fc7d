package trivia

import (
	"context"

	"squash-trivia/internal/statsapi"
	"squash-trivia/internal/table"
)

const visitorRowClass = "visitor-country"

func visitorClass(rc *RenderContext, country string) string {
	if rc.Visitor != "" && rc.Visitor == country {
		return visitorRowClass
	}
	return ""
}

func populationArea() Handler {
	return pipeline[[]statsapi.CountryStat]{
		load: func(ctx context.Context, api Fetcher, _ Request) ([]statsapi.CountryStat, error) {
			var r statsapi.CountryStatsResponse
			if err := api.Fetch(ctx, statsapi.EndpointCountryStats, nil, &r); err != nil {
				return nil, err
			}
			return r.Countries, nil
		},
		render: func(rc *RenderContext, countries []statsapi.CountryStat) View {
			return View{Panels: []Panel{{ID: "population-area-table-container", Active: true, Table: populationTable(rc, countries)}}}
		},
	}
}

// populationTable：比率取接口原值，只做定点格式化；人口与面积以百万为单位
func populationTable(rc *RenderContext, countries []statsapi.CountryStat) table.Table {
	type ranked struct {
		n int
		c statsapi.CountryStat
	}
	recs := make([]ranked, len(countries))
	for i, c := range countries {
		recs[i] = ranked{n: i + 1, c: c}
	}
	cols := []string{"#", "Country", "Population (M)", "Area (M km²)", "Venues", "Courts",
		"Venues / M people", "Courts / M people", "Venues / 1000 km²", "Courts / 1000 km²"}
	t := table.Render("population-area-table", cols, recs, func(r ranked) table.Row {
		c := r.c
		return table.Row{
			Class: visitorClass(rc, c.Name),
			Cells: []table.Cell{
				table.Text(itoa(r.n)),
				table.Text(c.Name),
				table.Text(table.Fixed(c.Population/1e6, 2)),
				table.Text(table.Fixed(c.Area/1e6, 2)),
				table.Text(itoa(c.Venues)),
				table.Text(itoa(c.Courts)),
				table.Text(table.Fixed(c.VenuesPerMillion, 2)),
				table.Text(table.Fixed(c.CourtsPerMillion, 2)),
				table.Text(table.Fixed(c.VenuesPer1000SqKm, 2)),
				table.Text(table.Fixed(c.CourtsPer1000SqKm, 2)),
			},
		}
	})
	t.Sortable = true
	return t
}
