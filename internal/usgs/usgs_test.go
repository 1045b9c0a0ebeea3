package usgs

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"
)

const sampleFeed = `{
  "features": [
    {
      "id": "us7000abcd",
      "properties": {
        "mag": 5.4,
        "place": "12 km SE of Surigao, Philippines",
        "time": 1756400000000,
        "url": "https://earthquake.usgs.gov/earthquakes/eventpage/us7000abcd",
        "felt": 120,
        "alert": "green",
        "status": "reviewed",
        "tsunami": 0,
        "sig": 449,
        "type": "earthquake",
        "title": "M 5.4 - 12 km SE of Surigao, Philippines"
      },
      "geometry": {"coordinates": [125.51, 9.75, 33.0]}
    },
    {
      "id": "us7000abce",
      "properties": {
        "mag": null,
        "place": "Mindanao, Philippines",
        "time": 1756300000000,
        "status": "automatic",
        "tsunami": 0,
        "sig": 0,
        "type": "earthquake",
        "title": "Mindanao, Philippines"
      },
      "geometry": {"coordinates": [126.1, 6.2, 110.5]}
    }
  ]
}`

func newTestServer(t *testing.T, hits *atomic.Int64) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		q := r.URL.Query()
		if q.Get("format") != "geojson" {
			t.Errorf("format = %q, want geojson", q.Get("format"))
		}
		if q.Get("minlatitude") != "4.5" || q.Get("maxlatitude") != "21.5" {
			t.Errorf("latitude bounds = %q..%q", q.Get("minlatitude"), q.Get("maxlatitude"))
		}
		if q.Get("minlongitude") != "116" || q.Get("maxlongitude") != "127" {
			t.Errorf("longitude bounds = %q..%q", q.Get("minlongitude"), q.Get("maxlongitude"))
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(sampleFeed))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestEvents(t *testing.T) {
	var hits atomic.Int64
	srv := newTestServer(t, &hits)
	c := NewClient(WithEndpoint(srv.URL))

	now := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	events, err := c.Events(context.Background(), RecentQuery(now))
	if err != nil {
		t.Fatalf("Events: %v", err)
	}
	if len(events) != 2 {
		t.Fatalf("len(events) = %d, want 2", len(events))
	}

	e := events[0]
	if e.ID != "us7000abcd" {
		t.Errorf("ID = %q", e.ID)
	}
	if e.Magnitude == nil || *e.Magnitude != 5.4 {
		t.Errorf("Magnitude = %v, want 5.4", e.Magnitude)
	}
	if e.DepthKm != 33.0 || e.Latitude != 9.75 || e.Longitude != 125.51 {
		t.Errorf("coordinates = (%v, %v, %v)", e.Longitude, e.Latitude, e.DepthKm)
	}
	if want := time.UnixMilli(1756400000000).UTC(); !e.Time.Equal(want) {
		t.Errorf("Time = %v, want %v", e.Time, want)
	}
	if e.Significance != 449 || e.Alert != "green" {
		t.Errorf("Significance = %d, Alert = %q", e.Significance, e.Alert)
	}

	if events[1].Magnitude != nil {
		t.Errorf("unassigned magnitude decoded as %v, want nil", *events[1].Magnitude)
	}
}

func TestEventsCache(t *testing.T) {
	var hits atomic.Int64
	srv := newTestServer(t, &hits)
	c := NewClient(WithEndpoint(srv.URL))

	clock := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return clock }

	q := RecentQuery(clock)
	ctx := context.Background()
	for i := 0; i < 3; i++ {
		if _, err := c.Events(ctx, q); err != nil {
			t.Fatalf("Events: %v", err)
		}
	}
	if hits.Load() != 1 {
		t.Errorf("server hits = %d, want 1 (cached)", hits.Load())
	}

	// A different query misses the cache.
	if _, err := c.Events(ctx, SignificantQuery(clock)); err != nil {
		t.Fatalf("Events: %v", err)
	}
	if hits.Load() != 2 {
		t.Errorf("server hits = %d, want 2", hits.Load())
	}

	// The same query after the TTL refetches.
	clock = clock.Add(6 * time.Minute)
	if _, err := c.Events(ctx, q); err != nil {
		t.Fatalf("Events: %v", err)
	}
	if hits.Load() != 3 {
		t.Errorf("server hits = %d, want 3 (expired)", hits.Load())
	}
}

func TestEventsStatusError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "bad request", http.StatusBadRequest)
	}))
	defer srv.Close()

	c := NewClient(WithEndpoint(srv.URL))
	_, err := c.Events(context.Background(), RecentQuery(time.Now()))
	if err == nil {
		t.Fatal("expected error")
	}
	var se *StatusError
	if !errors.As(err, &se) {
		t.Fatalf("error type = %T, want *StatusError", err)
	}
	if se.StatusCode != http.StatusBadRequest {
		t.Errorf("StatusCode = %d", se.StatusCode)
	}
}

func TestSummarize(t *testing.T) {
	events := []Event{
		{Magnitude: f(5.4), DepthKm: 33},
		{Magnitude: f(3.2), DepthKm: 110},
		{Magnitude: f(2.1), DepthKm: 640},
		{DepthKm: 15}, // no magnitude assigned yet
	}

	s := Summarize(events)
	if s.Total != 4 {
		t.Errorf("Total = %d, want 4", s.Total)
	}
	if s.MaxMagnitude != 5.4 || s.MinMagnitude != 2.1 {
		t.Errorf("magnitude range = %v..%v", s.MinMagnitude, s.MaxMagnitude)
	}
	if want := (5.4 + 3.2 + 2.1) / 3; !approx(s.AvgMagnitude, want) {
		t.Errorf("AvgMagnitude = %v, want %v", s.AvgMagnitude, want)
	}
	if s.Shallow != 2 || s.Intermediate != 1 || s.Deep != 1 {
		t.Errorf("depth classes = %d/%d/%d, want 2/1/1", s.Shallow, s.Intermediate, s.Deep)
	}
	if s.Significant != 1 || s.Moderate != 1 || s.Minor != 1 {
		t.Errorf("magnitude classes = %d/%d/%d, want 1/1/1", s.Significant, s.Moderate, s.Minor)
	}
	if s.MaxDepthKm != 640 {
		t.Errorf("MaxDepthKm = %v", s.MaxDepthKm)
	}
	if want := (33.0 + 110 + 640 + 15) / 4; !approx(s.AvgDepthKm, want) {
		t.Errorf("AvgDepthKm = %v, want %v", s.AvgDepthKm, want)
	}
}

func TestSummarizeEmpty(t *testing.T) {
	s := Summarize(nil)
	if s != (CatalogStats{}) {
		t.Errorf("Summarize(nil) = %+v, want zero value", s)
	}
}

func TestTopSignificant(t *testing.T) {
	events := []Event{
		{ID: "a", Magnitude: f(4.2)},
		{ID: "b", Magnitude: f(6.1)},
		{ID: "c"}, // skipped
		{ID: "d", Magnitude: f(3.9)},
		{ID: "e", Magnitude: f(5.0)},
	}

	top := TopSignificant(events, 2)
	if len(top) != 2 {
		t.Fatalf("len = %d, want 2", len(top))
	}
	if top[0].ID != "b" || top[1].ID != "e" {
		t.Errorf("order = %s, %s, want b, e", top[0].ID, top[1].ID)
	}
}

func f(v float64) *float64 { return &v }

func approx(a, b float64) bool {
	d := a - b
	return d < 1e-9 && d > -1e-9
}
