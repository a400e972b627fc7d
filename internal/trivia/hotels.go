package trivia

import (
	"context"

	"squash-trivia/internal/mapview"
	"squash-trivia/internal/statsapi"
)

const (
	hotelColor   = "#10b981"
	unknownColor = "#f59e0b"
)

// courtsText：球场数；缺失或为 0 时显示 "?"
func courtsText(v statsapi.Venue) string {
	if v.Courts == nil || *v.Courts == 0 {
		return "?"
	}
	return itoa(*v.Courts)
}

func loadVenues(endpoint string) func(ctx context.Context, api Fetcher, _ Request) ([]statsapi.Venue, error) {
	return func(ctx context.Context, api Fetcher, _ Request) ([]statsapi.Venue, error) {
		var r statsapi.VenuesResponse
		if err := api.Fetch(ctx, endpoint, nil, &r); err != nil {
			return nil, err
		}
		return r.Venues, nil
	}
}

func hotelsResorts() Handler {
	return pipeline[[]statsapi.Venue]{
		load: loadVenues(statsapi.EndpointHotelsAndResorts),
		render: func(rc *RenderContext, venues []statsapi.Venue) View {
			points := venuePoints(venues, fixed(hotelColor), func(v statsapi.Venue) string {
				return "Courts: " + courtsText(v)
			})
			return View{
				Stats: []Stat{countStat("hotels-count", "Hotels & resorts with courts", len(venues))},
				Map:   rc.Map(MapMount(HotelsResorts), points, mapview.DefaultOptions()),
			}
		},
	}
}

func unknownCourts() Handler {
	return pipeline[[]statsapi.Venue]{
		load: loadVenues(statsapi.EndpointUnknownCourts),
		render: func(rc *RenderContext, venues []statsapi.Venue) View {
			opts := mapview.DefaultOptions()
			opts.Radius = 5
			opts.FillOpacity = 0.7
			return View{
				Stats: []Stat{countStat("unknown-courts-count", "Venues with an unknown number of courts", len(venues))},
				Map:   rc.Map(MapMount(UnknownCourts), venuePoints(venues, fixed(unknownColor), nil), opts),
			}
		},
	}
}
