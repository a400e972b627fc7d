package mapview

import (
	"encoding/json"
	"strings"
	"testing"
)

func f(v float64) *float64 { return &v }

func TestBuildBoundsCoverOnlyValidPoints(t *testing.T) {
	points := []Point{
		{Lat: f(10), Lon: f(-5), Color: "#10b981"},
		{Lat: f(-20), Lon: nil},
		{Lat: nil, Lon: f(100)},
		{Lat: f(0), Lon: f(0)},
		{Lat: f(40), Lon: f(30)},
	}
	s := Build("m", points, DefaultOptions())
	if len(s.Markers) != 3 {
		t.Fatalf("markers = %d, want 3", len(s.Markers))
	}
	if s.Bounds == nil {
		t.Fatal("bounds missing")
	}
	want := [2]LatLng{{0, -5}, {40, 30}}
	if *s.Bounds != want {
		t.Errorf("bounds = %v, want %v", *s.Bounds, want)
	}
	if s.Padding != 50 {
		t.Errorf("padding = %d", s.Padding)
	}
}

func TestBuildDefaultViewWithoutPoints(t *testing.T) {
	opts := DefaultOptions()
	opts.Center = LatLng{0, 0}
	s := Build("m", []Point{{Lat: f(1)}}, opts)
	if s.Bounds != nil || len(s.Markers) != 0 {
		t.Fatalf("expected empty map, got %+v", s)
	}
	if s.Center != (LatLng{0, 0}) || s.Zoom != 2 {
		t.Errorf("view = %v z%d", s.Center, s.Zoom)
	}
	if s.Tiles.MaxZoom != 18 || s.Tiles.Attribution != TileAttribution {
		t.Errorf("tiles = %+v", s.Tiles)
	}
}

func TestBuildConnectingLines(t *testing.T) {
	opts := DefaultOptions()
	opts.Connect = true
	points := []Point{
		{Lat: f(1), Lon: f(2), NeighborLat: f(3), NeighborLon: f(4)},
		{Lat: f(5), Lon: f(6)},
		{Lat: nil, Lon: f(6), NeighborLat: f(3), NeighborLon: f(4)},
	}
	s := Build("m", points, opts)
	if len(s.Lines) != 1 {
		t.Fatalf("lines = %d, want 1", len(s.Lines))
	}
	l := s.Lines[0]
	if l.From != (LatLng{1, 2}) || l.To != (LatLng{3, 4}) {
		t.Errorf("line = %+v", l)
	}
	if l.Style.DashArray != "5, 10" || l.Style.Opacity != 0.6 {
		t.Errorf("style = %+v", l.Style)
	}
	// 邻点不参与视野
	if *s.Bounds != ([2]LatLng{{1, 2}, {5, 6}}) {
		t.Errorf("bounds = %v", *s.Bounds)
	}
}

func TestSpecJSONEscapesMarkup(t *testing.T) {
	s := Build("m", []Point{{Lat: f(1), Lon: f(1), Popup: Popup{Title: "</script><b>x"}}}, DefaultOptions())
	out := string(s.JSON())
	if strings.Contains(out, "</script>") {
		t.Fatalf("raw markup leaked: %s", out)
	}
	var back Spec
	if err := json.Unmarshal([]byte(out), &back); err != nil {
		t.Fatal(err)
	}
	if back.Markers[0].Popup.Title != "</script><b>x" {
		t.Errorf("title = %q", back.Markers[0].Popup.Title)
	}
}

func TestRegistryKeepsOneHandlePerMount(t *testing.T) {
	r := NewRegistry()
	first := r.Render("extreme-latitude-map", nil, DefaultOptions())
	second := r.Render("extreme-latitude-map", nil, DefaultOptions())
	other := r.Render("hotels-map", nil, DefaultOptions())

	if !first.Disposed() {
		t.Error("previous handle must be disposed")
	}
	if second.Disposed() || other.Disposed() {
		t.Error("current handles must stay live")
	}
	if r.Live() != 2 {
		t.Errorf("live = %d, want 2", r.Live())
	}
	if h, _ := r.Get("extreme-latitude-map"); h != second {
		t.Error("registry must return the newest handle")
	}
	if second.Spec().Handle <= first.Spec().Handle {
		t.Error("handle ids must increase")
	}
	r.DisposeAll()
	if r.Live() != 0 || !second.Disposed() {
		t.Error("DisposeAll must release every handle")
	}
}
