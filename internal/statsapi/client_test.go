package statsapi

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"
)

func TestFetchDecodesAndBuildsURL(t *testing.T) {
	var gotPath, gotQuery, gotAccept string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = r.URL.RawQuery
		gotAccept = r.Header.Get("Accept")
		w.Header().Set("content-type", "application/json")
		_, _ = w.Write([]byte(`{"total_venues":3,"countries_count":2,"courts_lost":5,"venues":[{"name":"A","country":"NZ","courts":2}]}`))
	}))
	defer srv.Close()

	c := New(srv.URL+"/api/", nil)
	var out GraveyardResponse
	params := url.Values{ParamCountry: {"New Zealand"}}
	if err := c.Fetch(context.Background(), EndpointGraveyard, params, &out); err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if gotPath != "/api/court-graveyard" {
		t.Errorf("path = %q", gotPath)
	}
	if gotQuery != "country=New+Zealand" {
		t.Errorf("query = %q", gotQuery)
	}
	if gotAccept != "application/json" {
		t.Errorf("accept = %q", gotAccept)
	}
	if out.TotalVenues != 3 || len(out.Venues) != 1 || *out.Venues[0].Courts != 2 {
		t.Errorf("unexpected decode: %+v", out)
	}
}

func TestFetchErrorKinds(t *testing.T) {
	cases := []struct {
		name     string
		handler  http.HandlerFunc
		sentinel error
		kind     Kind
	}{
		{
			name: "non-2xx",
			handler: func(w http.ResponseWriter, r *http.Request) {
				http.Error(w, "boom", http.StatusBadGateway)
			},
			sentinel: ErrStatus,
			kind:     KindStatus,
		},
		{
			name: "malformed json",
			handler: func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(`{"venues":[`))
			},
			sentinel: ErrDecode,
			kind:     KindDecode,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			srv := httptest.NewServer(tc.handler)
			defer srv.Close()
			var out VenuesResponse
			err := New(srv.URL, nil).Fetch(context.Background(), EndpointLoneliest, nil, &out)
			if !errors.Is(err, tc.sentinel) {
				t.Fatalf("err = %v, want %v", err, tc.sentinel)
			}
			if KindOf(err) != tc.kind {
				t.Errorf("kind = %q, want %q", KindOf(err), tc.kind)
			}
		})
	}
}

func TestFetchStatusCarriesCode(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()
	err := New(srv.URL, nil).Fetch(context.Background(), EndpointWordCloud, nil, &WordCloudResponse{})
	var apiErr *Error
	if !errors.As(err, &apiErr) {
		t.Fatalf("want *Error, got %T", err)
	}
	if apiErr.Status != http.StatusNotFound || apiErr.Endpoint != EndpointWordCloud {
		t.Errorf("got %+v", apiErr)
	}
}

func TestFetchTimeoutIsTransport(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(release)

	c := New(srv.URL, nil).WithTimeout(50 * time.Millisecond)
	err := c.Fetch(context.Background(), EndpointHotelsAndResorts, nil, &VenuesResponse{})
	if !errors.Is(err, ErrTransport) {
		t.Fatalf("err = %v, want transport", err)
	}
	var apiErr *Error
	if !errors.As(err, &apiErr) || !apiErr.Timeout() {
		t.Errorf("expected timeout error, got %v", err)
	}
}

func TestFetchUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	base := srv.URL
	srv.Close()
	err := New(base, nil).Fetch(context.Background(), EndpointDeletionReasons, nil, &[]DeletionReason{})
	if KindOf(err) != KindTransport {
		t.Fatalf("kind = %q, err = %v", KindOf(err), err)
	}
}

func TestVenueOptionalFields(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"venues":[{"name":"Equator","country":"EC","latitude":0,"longitude":0},{"name":"Nowhere","country":"XX"}]}`))
	}))
	defer srv.Close()
	var out VenuesResponse
	if err := New(srv.URL, nil).Fetch(context.Background(), EndpointUnknownCourts, nil, &out); err != nil {
		t.Fatal(err)
	}
	if !out.Venues[0].HasCoords() {
		t.Error("zero coordinates must count as present")
	}
	if out.Venues[1].HasCoords() {
		t.Error("absent coordinates must not count as present")
	}
	if out.Venues[0].Courts != nil {
		t.Error("absent courts must stay nil")
	}
}

func TestURLWithoutParams(t *testing.T) {
	c := New("https://example.test/api/", nil)
	if got := c.URL(EndpointCountryClub, nil); got != "https://example.test/api/country-club-100-percent" {
		t.Errorf("url = %q", got)
	}
	if c.BaseURL() != "https://example.test/api" {
		t.Errorf("base = %q", c.BaseURL())
	}
}
