package trivia

import (
	"context"

	"squash-trivia/internal/mapview"
	"squash-trivia/internal/statsapi"
	"squash-trivia/internal/table"
)

const (
	TabNortherly = "northerly"
	TabSoutherly = "southerly"

	latitudeColor = "#667eea"
	latitudeRows  = 20
)

var latitudeTabs = []Tab{
	{Key: TabNortherly, Label: "Most Northerly"},
	{Key: TabSoutherly, Label: "Most Southerly"},
}

func latitudeText(v statsapi.Venue) string {
	lat, ok := deref(v.Latitude)
	if !ok {
		return "-"
	}
	return table.Fixed(lat, 4) + "°"
}

func extremeLatitude() Handler {
	return pipeline[statsapi.ExtremeLatitudeResponse]{
		load: func(ctx context.Context, api Fetcher, _ Request) (statsapi.ExtremeLatitudeResponse, error) {
			var r statsapi.ExtremeLatitudeResponse
			err := api.Fetch(ctx, statsapi.EndpointExtremeLatitude, nil, &r)
			return r, err
		},
		render: func(rc *RenderContext, r statsapi.ExtremeLatitudeResponse) View {
			active := r.Northerly
			if rc.Tab == TabSoutherly {
				active = r.Southerly
			}
			opts := mapview.DefaultOptions()
			opts.Center = mapview.LatLng{0, 0}
			points := venuePoints(active, fixed(latitudeColor), func(v statsapi.Venue) string {
				return "Latitude: " + latitudeText(v)
			})
			badge := func(v statsapi.Venue) table.Cell { return table.Badge(latitudeText(v), "latitude-badge") }
			north := rankedTable("northerly-table", "Latitude", top(r.Northerly, latitudeRows), badge)
			south := rankedTable("southerly-table", "Latitude", top(r.Southerly, latitudeRows), badge)
			return View{
				// 每次切换都会重建地图，旧实例由注册表销毁
				Map: rc.Map(MapMount(ExtremeLatitude), points, opts),
				Panels: []Panel{
					{ID: TabNortherly + "-table-container", Active: rc.Tab != TabSoutherly, Table: north},
					{ID: TabSoutherly + "-table-container", Active: rc.Tab == TabSoutherly, Table: south},
				},
			}
		},
	}
}
