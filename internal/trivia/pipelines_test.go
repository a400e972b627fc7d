package trivia

import (
	"context"
	"fmt"
	"math"
	"reflect"
	"strings"
	"testing"

	"squash-trivia/internal/mapview"
	"squash-trivia/internal/statsapi"
)

func run(t *testing.T, h Handler, api Fetcher, rc *RenderContext) View {
	t.Helper()
	data, err := h.Load(context.Background(), api, Request{})
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if rc == nil {
		rc = &RenderContext{}
	}
	if rc.Maps == nil {
		rc.Maps = mapview.NewRegistry()
	}
	return h.Render(rc, data)
}

func cellTexts(v View, panel int) [][]string {
	var out [][]string
	for _, r := range v.Panels[panel].Table.Rows {
		var row []string
		for _, c := range r.Cells {
			row = append(row, c.Text)
		}
		out = append(out, row)
	}
	return out
}

func TestElevationBuckets(t *testing.T) {
	cases := []struct {
		m     float64
		color string
		class string
	}{
		{4200, "#dc2626", "elevation-3500"},
		{3500, "#dc2626", "elevation-3500"},
		{3499, "#f59e0b", "elevation-3000"},
		{3000, "#f59e0b", "elevation-3000"},
		{2999, "#10b981", "elevation-2000"},
		{2000, "#10b981", "elevation-2000"},
	}
	for _, tc := range cases {
		if got := ElevationColor(tc.m); got != tc.color {
			t.Errorf("ElevationColor(%v) = %s, want %s", tc.m, got, tc.color)
		}
		if got := ElevationClass(tc.m); got != tc.class {
			t.Errorf("ElevationClass(%v) = %s, want %s", tc.m, got, tc.class)
		}
	}
}

func TestHighAltitudeFiltersAndKeepsAPIOrder(t *testing.T) {
	api := newFakeAPI()
	api.set(statsapi.EndpointVenuesWithElevation, `{"venues":[
		{"name":"Alto","city":"La Paz","country":"Bolivia","latitude":-16.5,"longitude":-68.1,"elevation":3600},
		{"name":"Low","country":"Peru","latitude":-12,"longitude":-77,"elevation":1999},
		{"name":"Mid","country":"Peru","latitude":-13.5,"longitude":-72,"elevation":3100},
		{"name":"Edge","country":"Mexico","latitude":19.4,"longitude":-99.1,"elevation":2000},
		{"name":"NoElevation","country":"Chile","latitude":-33,"longitude":-70},
		{"name":"NoCoords","country":"Nepal","elevation":4000}
	]}`)
	v := run(t, highAltitude(), api, nil)

	rows := cellTexts(v, 0)
	var names []string
	for _, r := range rows {
		names = append(names, r[1])
	}
	if !reflect.DeepEqual(names, []string{"Alto", "Mid", "Edge", "NoCoords"}) {
		t.Fatalf("table names = %v", names)
	}
	if rows[0][4] != "3600m" || rows[2][2] != "-" {
		t.Errorf("row formatting = %v", rows)
	}
	if got := v.Panels[0].Table.Rows[1].Cells[4].Badge; got != "elevation-badge elevation-3000" {
		t.Errorf("badge = %q", got)
	}
	if len(v.Map.Markers) != 3 {
		t.Fatalf("markers = %d, want 3", len(v.Map.Markers))
	}
	if v.Map.Markers[0].FillColor != "#dc2626" || v.Map.Markers[2].FillColor != "#10b981" {
		t.Errorf("marker colors = %s %s", v.Map.Markers[0].FillColor, v.Map.Markers[2].FillColor)
	}
	if got := v.Map.Markers[0].Popup.Lines; !reflect.DeepEqual(got, []string{"La Paz, Bolivia", "Elevation: 3600m"}) {
		t.Errorf("popup = %v", got)
	}
	if v.Map.Center != (mapview.LatLng{0, 0}) {
		t.Errorf("center = %v", v.Map.Center)
	}
}

func TestHighAltitudeTableCapsAtTen(t *testing.T) {
	var sb strings.Builder
	sb.WriteString(`{"venues":[`)
	for i := 0; i < 15; i++ {
		if i > 0 {
			sb.WriteString(",")
		}
		fmt.Fprintf(&sb, `{"name":"V%d","country":"X","latitude":1,"longitude":1,"elevation":%d}`, i, 2000+i)
	}
	sb.WriteString(`]}`)
	api := newFakeAPI()
	api.set(statsapi.EndpointVenuesWithElevation, sb.String())
	v := run(t, highAltitude(), api, nil)
	if n := len(v.Panels[0].Table.Rows); n != 10 {
		t.Errorf("rows = %d, want 10", n)
	}
	if n := len(v.Map.Markers); n != 15 {
		t.Errorf("markers = %d, want 15", n)
	}
	if v.Panels[0].Table.Rows[9].Cells[1].Text != "V9" {
		t.Error("table must keep API order")
	}
}

func TestCountryClubFooterIsRatioOfSums(t *testing.T) {
	api := newFakeAPI()
	api.set(statsapi.EndpointCountryClub, `{"countries":[
		{"name":"A","total_venues":10,"venues_with_courts":5,"total_courts":20,"percentage":50,"courts_per_venue":2},
		{"name":"B","total_venues":20,"venues_with_courts":20,"total_courts":60,"percentage":100,"courts_per_venue":3}
	]}`)
	v := run(t, countryClub(), api, nil)
	foot := map[string]string{}
	for _, c := range v.Panels[0].Table.Footer {
		if c.ID != "" {
			foot[c.ID] = c.Text
		}
	}
	want := map[string]string{
		"club-total-venues":         "30",
		"club-total-known":          "25",
		"club-total-courts":         "80",
		"club-avg-percentage":       "83.3%",
		"club-avg-courts-per-venue": "2.67",
	}
	if !reflect.DeepEqual(foot, want) {
		t.Errorf("footer = %v, want %v", foot, want)
	}
	rows := cellTexts(v, 0)
	if rows[0][5] != "50.0%" || rows[1][6] != "3.00" {
		t.Errorf("rows = %v", rows)
	}
	if !v.Panels[0].Table.Sortable {
		t.Error("country club table must be sortable")
	}
}

func TestCountryClubEmptyTotals(t *testing.T) {
	tot := SumClub(nil)
	if _, ok := tot.AvgPercentage(); ok {
		t.Error("zero totals must not produce an average")
	}
	api := newFakeAPI()
	api.set(statsapi.EndpointCountryClub, `{"countries":[]}`)
	v := run(t, countryClub(), api, nil)
	for _, c := range v.Panels[0].Table.Footer {
		if c.ID == "club-avg-percentage" && c.Text != "-" {
			t.Errorf("avg percentage = %q, want -", c.Text)
		}
	}
}

func TestPopulationAreaFormatting(t *testing.T) {
	api := newFakeAPI()
	api.set(statsapi.EndpointCountryStats, `{"countries":[
		{"name":"New Zealand","population":5123000,"area":268021,"venues":120,"courts":300,
		 "venues_per_million":23.4236,"courts_per_million":58.559,"venues_per_1000_sqkm":0.4477,"courts_per_1000_sqkm":1.1193}
	]}`)
	v := run(t, populationArea(), api, &RenderContext{Visitor: "New Zealand"})
	got := cellTexts(v, 0)[0]
	want := []string{"1", "New Zealand", "5.12", "0.27", "120", "300", "23.42", "58.56", "0.45", "1.12"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("row = %v, want %v", got, want)
	}
	if v.Panels[0].Table.Rows[0].Class != "visitor-country" {
		t.Errorf("visitor row class = %q", v.Panels[0].Table.Rows[0].Class)
	}
}

func TestDeathClass(t *testing.T) {
	cases := map[string]string{
		"Permanently Closed": "death-closed",
		"Duplicate Entry":    "death-duplicate",
		"Never Existed":      "death-never-existed",
		"Relocated":          "death-other",
		"":                   "death-other",
		"CLOSED - duplicate": "death-closed",
	}
	for in, want := range cases {
		if got := DeathClass(in); got != want {
			t.Errorf("DeathClass(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestWordCloudBandsAndScaling(t *testing.T) {
	cases := map[int]string{
		1200: "#1e40af", 500: "#1e40af", 499: "#3b82f6", 100: "#3b82f6",
		99: "#60a5fa", 50: "#60a5fa", 49: "#93c5fd", 10: "#93c5fd", 9: "#dbeafe", 0: "#dbeafe",
	}
	for n, want := range cases {
		if got := CloudColor(n); got != want {
			t.Errorf("CloudColor(%d) = %s, want %s", n, got, want)
		}
	}
	o := DefaultCloudOptions
	if o.FontSize(100) != 50 || o.FontSize(4) != 10 {
		t.Errorf("font sizes = %v %v", o.FontSize(100), o.FontSize(4))
	}
	if math.Abs(o.FontSize(2)-7.0710678) > 1e-6 {
		t.Errorf("FontSize(2) = %v", o.FontSize(2))
	}

	api := newFakeAPI()
	api.set(statsapi.EndpointWordCloud, `{"countries":[{"name":"England","venues":650},{"name":"Malta","venues":12},{"name":"Fiji","venues":2}]}`)
	v := run(t, wordCloud(), api, nil)
	if len(v.Cloud.Words) != 3 || v.Cloud.Words[1] != (Word{Text: "Malta", Weight: 12, Color: "#93c5fd"}) {
		t.Fatalf("words = %+v", v.Cloud.Words)
	}
	js := string(v.Cloud.JSON())
	if !strings.Contains(js, `["England",650,"#1e40af"]`) || !strings.Contains(js, `"gridSize":8`) {
		t.Errorf("cloud json = %s", js)
	}
	if v.Cloud.Legend[0].Count != 1 || v.Cloud.Legend[3].Count != 1 || v.Cloud.Legend[4].Count != 1 {
		t.Errorf("legend = %+v", v.Cloud.Legend)
	}
}

func TestLoneliestDrawsNeighbourLines(t *testing.T) {
	api := newFakeAPI()
	api.set(statsapi.EndpointLoneliest, `{"venues":[
		{"name":"Pitcairn","country":"Pitcairn Islands","latitude":-25.06,"longitude":-130.1,"distance_km":2075.43,"nearest_latitude":-27.1,"nearest_longitude":-109.3},
		{"name":"Stanley","city":"Stanley","country":"Falklands","latitude":-51.7,"longitude":-57.8,"distance_km":1120.0},
		{"name":"Ghost","country":"Nowhere","distance_km":900,"nearest_latitude":1,"nearest_longitude":1}
	]}`)
	v := run(t, loneliest(), api, nil)
	if len(v.Map.Lines) != 1 || len(v.Map.Markers) != 2 {
		t.Fatalf("lines=%d markers=%d", len(v.Map.Lines), len(v.Map.Markers))
	}
	if v.Map.Markers[0].Radius != 7 || v.Map.Markers[0].FillColor != "#dc2626" {
		t.Errorf("marker = %+v", v.Map.Markers[0])
	}
	if got := v.Map.Markers[0].Popup.Lines[1]; got != "Distance to nearest: 2075.4 km" {
		t.Errorf("popup = %q", got)
	}
	rows := cellTexts(v, 0)
	if len(rows) != 3 || rows[1][4] != "1120.0 km" {
		t.Errorf("rows = %v", rows)
	}
	if v.Stats[0].Value != "3" {
		t.Errorf("count = %s", v.Stats[0].Value)
	}
}

func TestHotelsAndUnknownCourts(t *testing.T) {
	api := newFakeAPI()
	api.set(statsapi.EndpointHotelsAndResorts, `{"venues":[
		{"name":"Resort","country":"Maldives","latitude":4.1,"longitude":73.5,"courts":2},
		{"name":"Inn","country":"Fiji","latitude":-18,"longitude":178}
	]}`)
	api.set(statsapi.EndpointUnknownCourts, `{"venues":[{"name":"Club","country":"Kenya","latitude":-1.3,"longitude":36.8}]}`)

	h := run(t, hotelsResorts(), api, nil)
	if h.Stats[0].ID != "hotels-count" || h.Stats[0].Value != "2" {
		t.Errorf("stats = %+v", h.Stats)
	}
	if h.Map.Markers[0].Popup.Lines[1] != "Courts: 2" || h.Map.Markers[1].Popup.Lines[1] != "Courts: ?" {
		t.Errorf("popups = %+v", h.Map.Markers)
	}
	if h.Map.Center != (mapview.LatLng{20, 0}) {
		t.Errorf("center = %v", h.Map.Center)
	}

	u := run(t, unknownCourts(), api, nil)
	m := u.Map.Markers[0]
	if m.Radius != 5 || m.FillOpacity != 0.7 || m.FillColor != "#f59e0b" {
		t.Errorf("marker = %+v", m)
	}
	if u.Stats[0].ID != "unknown-courts-count" {
		t.Errorf("stats = %+v", u.Stats)
	}
}

func TestCountriesWithoutVenues(t *testing.T) {
	api := newFakeAPI()
	api.set(statsapi.EndpointCountriesWithoutVenues, `{"countries":[{"name":"Tuvalu"},{"name":"Nauru"}]}`)
	h := countriesWithoutVenues()
	v := run(t, h, api, nil)
	if v.Stats[0].ID != "countries-without-count" || v.Stats[0].Value != "2" {
		t.Errorf("stats = %+v", v.Stats)
	}
	if len(v.Map.Markers) != 0 || v.Map.Center != (mapview.LatLng{20, 0}) || v.Map.Zoom != 2 {
		t.Errorf("map = %+v", v.Map)
	}
	data, _ := h.Load(context.Background(), api, Request{})
	l, ok := h.(Lister).List(data)
	if !ok || l.Title != "Countries Without Squash Venues" || !reflect.DeepEqual(l.Items, []string{"Tuvalu", "Nauru"}) {
		t.Errorf("list = %+v", l)
	}
}

func TestExtremeLatitudeTablesAndTabs(t *testing.T) {
	var north, south []string
	for i := 0; i < 25; i++ {
		north = append(north, fmt.Sprintf(`{"name":"N%d","country":"NO","latitude":%d.123456,"longitude":10}`, i, 70-i))
	}
	south = append(south, `{"name":"S0","country":"AR","latitude":-54.8,"longitude":-68.3}`)
	api := newFakeAPI()
	api.set(statsapi.EndpointExtremeLatitude, `{"northerly":[`+strings.Join(north, ",")+`],"southerly":[`+strings.Join(south, ",")+`]}`)

	reg := mapview.NewRegistry()
	h := extremeLatitude()
	data, err := h.Load(context.Background(), api, Request{})
	if err != nil {
		t.Fatal(err)
	}
	v := h.Render(&RenderContext{Maps: reg, Tab: TabNortherly}, data)
	if n := len(v.Panels[0].Table.Rows); n != 20 {
		t.Errorf("northerly rows = %d, want 20", n)
	}
	if got := v.Panels[0].Table.Rows[0].Cells[4]; got.Text != "70.1235°" || got.Badge != "latitude-badge" {
		t.Errorf("latitude cell = %+v", got)
	}
	if len(v.Map.Markers) != 25 || !v.Panels[0].Active || v.Panels[1].Active {
		t.Errorf("northerly view wrong: markers=%d", len(v.Map.Markers))
	}
	first, _ := reg.Get(MapMount(ExtremeLatitude))

	v2 := h.Render(&RenderContext{Maps: reg, Tab: TabSoutherly}, data)
	if len(v2.Map.Markers) != 1 || v2.Map.Markers[0].FillColor != "#667eea" {
		t.Errorf("southerly markers = %+v", v2.Map.Markers)
	}
	if !v2.Panels[1].Active || v2.Panels[0].Active {
		t.Error("southerly panel must be active")
	}
	if !first.Disposed() || reg.Live() != 1 {
		t.Errorf("tab switch must replace the map: disposed=%v live=%d", first.Disposed(), reg.Live())
	}
}

func TestGraveyardInitialLoad(t *testing.T) {
	api := newFakeAPI()
	api.set(statsapi.EndpointGraveyard, `{"total_venues":4,"countries_count":3,"courts_lost":9,"venues":[
		{"name":"Old Club","address":"1 High St","country":"England","courts":4,"delete_reason_name":"Permanently Closed","deleted_at":"2024-01-02"},
		{"name":"Copy","country":"Wales","delete_reason_name":"Duplicate Entry"},
		{"name":"Myth","country":"England","courts":5,"delete_reason_name":"Never Existed"},
		{"name":"<script>x</script>","country":"Australia"}
	]}`)
	api.set(statsapi.EndpointDeletionReasons, `[{"id":1,"name":"Permanently Closed"},{"id":2,"name":"Duplicate Entry"}]`)

	v := run(t, graveyard(), api, nil)
	stats := map[string]string{}
	for _, s := range v.Stats {
		stats[s.ID] = s.Value
	}
	if !reflect.DeepEqual(stats, map[string]string{
		"graveyard-total-venues": "4", "graveyard-countries": "3", "graveyard-courts-lost": "9", "graveyard-showing": "4",
	}) {
		t.Errorf("stats = %v", stats)
	}
	var countries []string
	for _, o := range v.Filters[0].Options[1:] {
		countries = append(countries, o.Value)
	}
	if !reflect.DeepEqual(countries, []string{"Australia", "England", "Wales"}) {
		t.Errorf("country options = %v", countries)
	}
	if len(v.Filters[1].Options) != 3 || v.Filters[1].Options[2].Value != "2" {
		t.Errorf("reason options = %+v", v.Filters[1].Options)
	}
	rows := cellTexts(v, 0)
	if !reflect.DeepEqual(rows[1], []string{"Copy", "-", "Wales", "0", "Duplicate Entry", "-"}) {
		t.Errorf("row = %v", rows[1])
	}
	if rows[3][4] != "Unknown" {
		t.Errorf("missing reason = %q", rows[3][4])
	}
	var classes []string
	for _, r := range v.Panels[0].Table.Rows {
		classes = append(classes, r.Class)
	}
	if !reflect.DeepEqual(classes, []string{"death-closed", "death-duplicate", "death-never-existed", "death-other"}) {
		t.Errorf("classes = %v", classes)
	}
}

func TestGraveyardReasonsFailureKeepsSection(t *testing.T) {
	api := newFakeAPI()
	api.set(statsapi.EndpointGraveyard, `{"total_venues":0,"countries_count":0,"courts_lost":0,"venues":[]}`)
	api.fail(statsapi.EndpointDeletionReasons, &statsapi.Error{Endpoint: statsapi.EndpointDeletionReasons, Kind: statsapi.KindStatus, Status: 500})
	v := run(t, graveyard(), api, nil)
	if len(v.Filters[1].Options) != 1 {
		t.Errorf("reason options = %+v", v.Filters[1].Options)
	}
	tb := v.Panels[0].Table
	if len(tb.Rows) != 0 || tb.Empty != "No venues found" || tb.Colspan() != 6 {
		t.Errorf("empty table = %+v", tb)
	}
}

func TestGraveyardRefilterSendsOneParamAndKeepsOptions(t *testing.T) {
	api := newFakeAPI()
	api.set(statsapi.EndpointGraveyard, `{"total_venues":2,"countries_count":2,"courts_lost":3,"venues":[
		{"name":"A","country":"England","courts":3},{"name":"B","country":"Wales"}]}`)
	api.set(statsapi.EndpointDeletionReasons, `[{"id":7,"name":"Relocated"}]`)
	api.set(statsapi.EndpointGraveyard+"?country=Wales", `{"total_venues":1,"countries_count":1,"courts_lost":0,"venues":[{"name":"B","country":"Wales"}]}`)
	api.set(statsapi.EndpointGraveyard+"?delete_reason_id=7", `{"venues":[]}`)

	h := graveyard()
	first, err := h.Load(context.Background(), api, Request{})
	if err != nil {
		t.Fatal(err)
	}
	f := Filter{Type: FilterCountry, Value: "Wales"}
	second, err := h.Load(context.Background(), api, Request{Filter: f, Prev: first})
	if err != nil {
		t.Fatal(err)
	}
	v := h.Render(&RenderContext{Maps: mapview.NewRegistry(), Filter: f}, second)
	if v.Stats[0].Value != "2" || v.Stats[3].Value != "1" {
		t.Errorf("stats = %+v", v.Stats)
	}
	if len(v.Filters[0].Options) != 3 || !v.Filters[0].Options[2].Selected {
		t.Errorf("country options = %+v", v.Filters[0].Options)
	}

	third, err := h.Load(context.Background(), api, Request{Filter: Filter{Type: FilterReason, Value: "7"}, Prev: second})
	if err != nil {
		t.Fatal(err)
	}
	if len(third.(GraveyardData).Venues) != 0 || len(third.(GraveyardData).Countries) != 2 {
		t.Errorf("third = %+v", third)
	}

	calls := api.Calls()
	want := []string{statsapi.EndpointGraveyard + "?country=Wales", statsapi.EndpointGraveyard + "?delete_reason_id=7"}
	if !reflect.DeepEqual(calls[len(calls)-2:], want) {
		t.Errorf("calls = %v", calls)
	}
	for _, c := range calls[2:] {
		if c == statsapi.EndpointDeletionReasons {
			t.Error("refilter must not refetch deletion reasons")
		}
	}
}

func TestFilterParams(t *testing.T) {
	if p := (Filter{Type: FilterCountry, Value: "Peru"}).Params(); p.Encode() != "country=Peru" {
		t.Errorf("country params = %v", p)
	}
	if p := (Filter{Type: FilterReason, Value: "3"}).Params(); p.Encode() != "delete_reason_id=3" {
		t.Errorf("reason params = %v", p)
	}
	if p := (Filter{Type: FilterCountry}).Params(); p != nil {
		t.Errorf("empty filter params = %v", p)
	}
	if (Filter{Type: "continent", Value: "x"}).Validate() == nil {
		t.Error("unknown filter type must be rejected")
	}
}
