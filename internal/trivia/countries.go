package trivia

import (
	"context"

	"squash-trivia/internal/mapview"
	"squash-trivia/internal/statsapi"
)

func countriesWithoutVenues() Handler {
	return pipeline[statsapi.CountriesWithoutVenuesResponse]{
		load: func(ctx context.Context, api Fetcher, _ Request) (statsapi.CountriesWithoutVenuesResponse, error) {
			var r statsapi.CountriesWithoutVenuesResponse
			err := api.Fetch(ctx, statsapi.EndpointCountriesWithoutVenues, nil, &r)
			return r, err
		},
		render: func(rc *RenderContext, r statsapi.CountriesWithoutVenuesResponse) View {
			// 接口不提供国家质心，只绘制底图
			return View{
				Stats: []Stat{countStat("countries-without-count", "Countries without a squash venue", len(r.Countries))},
				Map:   rc.Map(MapMount(CountriesWithoutVenues), nil, mapview.DefaultOptions()),
			}
		},
		list: func(r statsapi.CountriesWithoutVenuesResponse) ListOverlay {
			l := ListOverlay{Title: "Countries Without Squash Venues", Items: make([]string, 0, len(r.Countries))}
			for _, c := range r.Countries {
				l.Items = append(l.Items, c.Name)
			}
			return l
		},
	}
}
