package trivia

import (
	"context"

	"squash-trivia/internal/statsapi"
	"squash-trivia/internal/table"
)

// ClubTotals：完整度页脚汇总
type ClubTotals struct {
	Venues int
	Known  int
	Courts int
}

// SumClub：逐行累加 total_venues / venues_with_courts / total_courts
func SumClub(rows []statsapi.ClubCountry) ClubTotals {
	var t ClubTotals
	for _, r := range rows {
		t.Venues += r.TotalVenues
		t.Known += r.VenuesWithCourts
		t.Courts += r.TotalCourts
	}
	return t
}

// AvgPercentage：Σknown / Σvenues × 100，是总量之比而非各行百分比的平均；总量为 0 时无值
func (t ClubTotals) AvgPercentage() (float64, bool) {
	if t.Venues == 0 {
		return 0, false
	}
	return float64(t.Known) / float64(t.Venues) * 100, true
}

// AvgCourtsPerVenue：Σcourts / Σvenues
func (t ClubTotals) AvgCourtsPerVenue() (float64, bool) {
	if t.Venues == 0 {
		return 0, false
	}
	return float64(t.Courts) / float64(t.Venues), true
}

func countryClub() Handler {
	return pipeline[[]statsapi.ClubCountry]{
		load: func(ctx context.Context, api Fetcher, _ Request) ([]statsapi.ClubCountry, error) {
			var r statsapi.CountryClubResponse
			if err := api.Fetch(ctx, statsapi.EndpointCountryClub, nil, &r); err != nil {
				return nil, err
			}
			return r.Countries, nil
		},
		render: func(rc *RenderContext, rows []statsapi.ClubCountry) View {
			return View{Panels: []Panel{{ID: "country-club-table-container", Active: true, Table: clubTable(rc, rows)}}}
		},
	}
}

func clubTable(rc *RenderContext, rows []statsapi.ClubCountry) table.Table {
	type ranked struct {
		n int
		c statsapi.ClubCountry
	}
	recs := make([]ranked, len(rows))
	for i, c := range rows {
		recs[i] = ranked{n: i + 1, c: c}
	}
	cols := []string{"#", "Country", "Total Venues", "Venues with Courts", "Total Courts", "% Known", "Courts / Venue"}
	t := table.Render("country-club-table", cols, recs, func(r ranked) table.Row {
		c := r.c
		return table.Row{
			Class: visitorClass(rc, c.Name),
			Cells: []table.Cell{
				table.Text(itoa(r.n)),
				table.Text(c.Name),
				table.Text(itoa(c.TotalVenues)),
				table.Text(itoa(c.VenuesWithCourts)),
				table.Text(itoa(c.TotalCourts)),
				table.Text(table.Fixed(c.Percentage, 1) + "%"),
				table.Text(table.Fixed(c.CourtsPerVenue, 2)),
			},
		}
	})
	t.Sortable = true

	tot := SumClub(rows)
	pct, cpv := "-", "-"
	if v, ok := tot.AvgPercentage(); ok {
		pct = table.Fixed(v, 1) + "%"
	}
	if v, ok := tot.AvgCourtsPerVenue(); ok {
		cpv = table.Fixed(v, 2)
	}
	t.Footer = []table.Cell{
		{},
		{Text: "Total"},
		{Text: itoa(tot.Venues), ID: "club-total-venues"},
		{Text: itoa(tot.Known), ID: "club-total-known"},
		{Text: itoa(tot.Courts), ID: "club-total-courts"},
		{Text: pct, ID: "club-avg-percentage"},
		{Text: cpv, ID: "club-avg-courts-per-venue"},
	}
	return t
}
