// Copyright 2026 QuakeWatch
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package usgs queries the USGS FDSN event service for earthquakes in the
// Philippine region. Responses are cached for a short TTL so repeated CLI
// invocations and report builds do not hammer the catalog.
package usgs

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"sync"
	"time"
)

// DefaultEndpoint is the USGS FDSN event query service.
const DefaultEndpoint = "https://earthquake.usgs.gov/fdsnws/event/1/query"

// cacheTTL matches the refresh interval of the dashboards this data feeds.
const cacheTTL = 5 * time.Minute

// Bounds is a latitude/longitude bounding box in decimal degrees.
type Bounds struct {
	MinLatitude  float64
	MaxLatitude  float64
	MinLongitude float64
	MaxLongitude float64
}

// PhilippinesBounds covers the Philippine archipelago and its trenches.
var PhilippinesBounds = Bounds{
	MinLatitude:  4.5,
	MaxLatitude:  21.5,
	MinLongitude: 116.0,
	MaxLongitude: 127.0,
}

// Event is a single catalog entry. Magnitude is a pointer because the
// catalog publishes events before a magnitude has been assigned.
type Event struct {
	ID           string    `json:"id"`
	Magnitude    *float64  `json:"magnitude"`
	Place        string    `json:"place"`
	Time         time.Time `json:"time"`
	URL          string    `json:"url"`
	Felt         int       `json:"felt"`
	Alert        string    `json:"alert,omitempty"`
	Status       string    `json:"status"`
	Tsunami      int       `json:"tsunami"`
	Significance int       `json:"significance"`
	Type         string    `json:"type"`
	Title        string    `json:"title"`
	Longitude    float64   `json:"longitude"`
	Latitude     float64   `json:"latitude"`
	DepthKm      float64   `json:"depth"`
}

// Query selects a slice of the catalog.
type Query struct {
	Start        time.Time
	End          time.Time
	Bounds       Bounds
	MinMagnitude float64
	OrderBy      string // "time" or "magnitude"
}

// RecentQuery returns the last 7 days of Philippine events at M >= 2.5.
func RecentQuery(now time.Time) Query {
	return Query{
		Start:        now.AddDate(0, 0, -7),
		End:          now,
		Bounds:       PhilippinesBounds,
		MinMagnitude: 2.5,
		OrderBy:      "time",
	}
}

// AnalysisQuery returns the last 30 days of Philippine events at any
// magnitude, the window the narrative analysis is built from.
func AnalysisQuery(now time.Time) Query {
	return Query{
		Start:   now.AddDate(0, 0, -30),
		End:     now,
		Bounds:  PhilippinesBounds,
		OrderBy: "time",
	}
}

// SignificantQuery returns the last 30 days of Philippine events at
// M >= 4.5, strongest first.
func SignificantQuery(now time.Time) Query {
	return Query{
		Start:        now.AddDate(0, 0, -30),
		End:          now,
		Bounds:       PhilippinesBounds,
		MinMagnitude: 4.5,
		OrderBy:      "magnitude",
	}
}

func (q Query) values() url.Values {
	v := url.Values{}
	v.Set("format", "geojson")
	v.Set("starttime", q.Start.UTC().Format("2006-01-02"))
	v.Set("endtime", q.End.UTC().Format("2006-01-02"))
	v.Set("minlatitude", formatFloat(q.Bounds.MinLatitude))
	v.Set("maxlatitude", formatFloat(q.Bounds.MaxLatitude))
	v.Set("minlongitude", formatFloat(q.Bounds.MinLongitude))
	v.Set("maxlongitude", formatFloat(q.Bounds.MaxLongitude))
	v.Set("minmagnitude", formatFloat(q.MinMagnitude))
	if q.OrderBy != "" {
		v.Set("orderby", q.OrderBy)
	}
	return v
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// StatusError reports a non-2xx response from the catalog.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("usgs: unexpected status %d: %s", e.StatusCode, e.Body)
}

// Client queries the catalog with a per-query response cache.
type Client struct {
	endpoint string
	http     *http.Client

	mu    sync.Mutex
	cache map[string]cacheEntry
	now   func() time.Time
}

type cacheEntry struct {
	events  []Event
	fetched time.Time
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithEndpoint overrides the catalog URL.
func WithEndpoint(endpoint string) ClientOption {
	return func(c *Client) { c.endpoint = endpoint }
}

// WithHTTPClient overrides the underlying HTTP client.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) { c.http = hc }
}

// NewClient creates a catalog client.
func NewClient(opts ...ClientOption) *Client {
	c := &Client{
		endpoint: DefaultEndpoint,
		http:     &http.Client{Timeout: 10 * time.Second},
		cache:    make(map[string]cacheEntry),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Events fetches the events matching q, serving from cache when the same
// query was fetched within the TTL.
func (c *Client) Events(ctx context.Context, q Query) ([]Event, error) {
	key := q.values().Encode()

	c.mu.Lock()
	if e, ok := c.cache[key]; ok && c.now().Sub(e.fetched) < cacheTTL {
		events := e.events
		c.mu.Unlock()
		return events, nil
	}
	c.mu.Unlock()

	events, err := c.fetch(ctx, key)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.cache[key] = cacheEntry{events: events, fetched: c.now()}
	c.mu.Unlock()
	return events, nil
}

func (c *Client) fetch(ctx context.Context, rawQuery string) ([]Event, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint+"?"+rawQuery, nil)
	if err != nil {
		return nil, fmt.Errorf("usgs: build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("usgs: fetch events: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, &StatusError{StatusCode: resp.StatusCode, Body: string(body)}
	}

	var fc featureCollection
	if err := json.NewDecoder(resp.Body).Decode(&fc); err != nil {
		return nil, fmt.Errorf("usgs: decode response: %w", err)
	}

	events := make([]Event, 0, len(fc.Features))
	for _, f := range fc.Features {
		events = append(events, f.event())
	}
	return events, nil
}

// GeoJSON wire format of the FDSN event service.
type featureCollection struct {
	Features []feature `json:"features"`
}

type feature struct {
	ID         string `json:"id"`
	Properties struct {
		Mag     *float64 `json:"mag"`
		Place   string   `json:"place"`
		Time    int64    `json:"time"` // milliseconds since epoch
		URL     string   `json:"url"`
		Felt    int      `json:"felt"`
		Alert   string   `json:"alert"`
		Status  string   `json:"status"`
		Tsunami int      `json:"tsunami"`
		Sig     int      `json:"sig"`
		Type    string   `json:"type"`
		Title   string   `json:"title"`
	} `json:"properties"`
	Geometry struct {
		Coordinates []float64 `json:"coordinates"` // lon, lat, depth
	} `json:"geometry"`
}

func (f feature) event() Event {
	e := Event{
		ID:           f.ID,
		Magnitude:    f.Properties.Mag,
		Place:        f.Properties.Place,
		Time:         time.UnixMilli(f.Properties.Time).UTC(),
		URL:          f.Properties.URL,
		Felt:         f.Properties.Felt,
		Alert:        f.Properties.Alert,
		Status:       f.Properties.Status,
		Tsunami:      f.Properties.Tsunami,
		Significance: f.Properties.Sig,
		Type:         f.Properties.Type,
		Title:        f.Properties.Title,
	}
	if len(f.Geometry.Coordinates) >= 3 {
		e.Longitude = f.Geometry.Coordinates[0]
		e.Latitude = f.Geometry.Coordinates[1]
		e.DepthKm = f.Geometry.Coordinates[2]
	}
	return e
}

// TopSignificant returns the n strongest events at M >= 4.0, strongest
// first. Events without an assigned magnitude are skipped.
func TopSignificant(events []Event, n int) []Event {
	var out []Event
	for _, e := range events {
		if e.Magnitude != nil && *e.Magnitude >= 4.0 {
			out = append(out, e)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return *out[i].Magnitude > *out[j].Magnitude
	})
	if len(out) > n {
		out = out[:n]
	}
	return out
}
