package trivia

import (
	"squash-trivia/internal/mapview"
	"squash-trivia/internal/statsapi"
	"squash-trivia/internal/table"
)

const loneliestColor = "#dc2626"

func distanceText(v statsapi.Venue) string {
	d, ok := deref(v.DistanceKm)
	if !ok {
		return "-"
	}
	return table.Fixed(d, 1) + " km"
}

func loneliest() Handler {
	return pipeline[[]statsapi.Venue]{
		load: loadVenues(statsapi.EndpointLoneliest),
		render: func(rc *RenderContext, venues []statsapi.Venue) View {
			opts := mapview.DefaultOptions()
			opts.Center = mapview.LatLng{0, 0}
			opts.Radius = 7
			opts.Connect = true
			points := venuePoints(venues, fixed(loneliestColor), func(v statsapi.Venue) string {
				return "Distance to nearest: " + distanceText(v)
			})
			t := rankedTable("loneliest-table", "Distance to Nearest", top(venues, 10), func(v statsapi.Venue) table.Cell {
				return table.Badge(distanceText(v), "distance-badge")
			})
			return View{
				Stats:  []Stat{countStat("loneliest-count", "Isolated venues", len(venues))},
				Map:    rc.Map(MapMount(Loneliest), points, opts),
				Panels: []Panel{{ID: "loneliest-table-container", Active: true, Table: t}},
			}
		},
	}
}
