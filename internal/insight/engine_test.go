package insight

import (
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/quakewatch/narramd/internal/usgs"
)

var testNow = time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)

func testEngine() *Engine {
	return NewEngine(
		WithNow(func() time.Time { return testNow }),
		WithIDGenerator(func() uuid.UUID { return uuid.MustParse("00000000-0000-0000-0000-000000000001") }),
	)
}

func event(mag, lat, depth float64, daysAgo int) usgs.Event {
	return usgs.Event{
		Magnitude: &mag,
		Latitude:  lat,
		Longitude: 122.0,
		DepthKm:   depth,
		Time:      testNow.AddDate(0, 0, -daysAgo),
		Place:     "Surigao del Norte, Philippines",
	}
}

func TestRegionOf(t *testing.T) {
	tests := []struct {
		lat  float64
		want string
	}{
		{18.2, RegionLuzon},
		{15.0, RegionLuzon},
		{11.3, RegionVisayas},
		{10.0, RegionVisayas},
		{9.99, RegionMindanao},
		{6.1, RegionMindanao},
	}
	for _, tt := range tests {
		if got := RegionOf(tt.lat); got != tt.want {
			t.Errorf("RegionOf(%v) = %q, want %q", tt.lat, got, tt.want)
		}
	}
}

func TestDetectIncreasingActivity(t *testing.T) {
	cfg := DefaultConfig("x-ai/grok-4-fast")
	var events []usgs.Event
	// 12 Luzon events this week against 4 the week before, none shallow.
	for i := 0; i < 11; i++ {
		events = append(events, event(3.0, 16.5, 40, 2))
	}
	events = append(events, event(4.6, 16.5, 40, 3))
	for i := 0; i < 4; i++ {
		events = append(events, event(3.0, 16.5, 40, 10))
	}

	insights := testEngine().detectPatterns(events, cfg)
	if len(insights) != 1 {
		t.Fatalf("insights = %d, want 1", len(insights))
	}
	in := insights[0]
	if in.Category != "increasing_activity" || in.Region != RegionLuzon {
		t.Errorf("category = %q, region = %q", in.Category, in.Region)
	}
	if in.EarthquakeCount != 12 {
		t.Errorf("EarthquakeCount = %d, want 12", in.EarthquakeCount)
	}
	if in.SeverityLevel != SeverityModerate {
		t.Errorf("SeverityLevel = %q, want moderate", in.SeverityLevel)
	}
	if want := 0.7 + 12.0/50; in.ConfidenceScore != want {
		t.Errorf("ConfidenceScore = %v, want %v", in.ConfidenceScore, want)
	}
	if in.MagnitudeRange != "M3.0 - M4.6" {
		t.Errorf("MagnitudeRange = %q", in.MagnitudeRange)
	}
	if !strings.Contains(in.Description, "up 200% from the previous week") {
		t.Errorf("Description = %q", in.Description)
	}
	if !in.ValidUntil.Equal(testNow.AddDate(0, 0, 7)) {
		t.Errorf("ValidUntil = %v", in.ValidUntil)
	}
}

func TestDetectIncreasingActivityQuietBaseline(t *testing.T) {
	// No events the previous week must not divide by zero.
	cfg := DefaultConfig("x-ai/grok-4-fast")
	var events []usgs.Event
	for i := 0; i < 10; i++ {
		events = append(events, event(3.0, 16.5, 40, 2))
	}

	insights := testEngine().detectPatterns(events, cfg)
	if len(insights) != 1 {
		t.Fatalf("insights = %d, want 1", len(insights))
	}
	if !strings.Contains(insights[0].Description, "new activity after a quiet week") {
		t.Errorf("Description = %q", insights[0].Description)
	}
}

func TestDetectShallowCluster(t *testing.T) {
	cfg := DefaultConfig("x-ai/grok-4-fast")
	depths := []float64{2, 3, 4, 5, 6, 7}
	var events []usgs.Event
	for _, d := range depths {
		events = append(events, event(3.5, 11.0, d, 3))
	}

	insights := testEngine().detectPatterns(events, cfg)
	if len(insights) != 1 {
		t.Fatalf("insights = %d, want 1", len(insights))
	}
	in := insights[0]
	if in.Category != "shallow_clustering" || in.Region != RegionVisayas {
		t.Errorf("category = %q, region = %q", in.Category, in.Region)
	}
	if in.EarthquakeCount != 6 {
		t.Errorf("EarthquakeCount = %d, want 6", in.EarthquakeCount)
	}
	if in.DepthRange != "2.0km - 7.0km" {
		t.Errorf("DepthRange = %q", in.DepthRange)
	}
	if !in.ValidUntil.Equal(testNow.AddDate(0, 0, 5)) {
		t.Errorf("ValidUntil = %v", in.ValidUntil)
	}
}

func TestDetectAnomalies(t *testing.T) {
	cfg := DefaultConfig("x-ai/grok-4-fast")
	events := []usgs.Event{
		event(5.6, 8.0, 3, 1),   // shallow and strong
		event(6.2, 8.0, 2, 1),   // shallow and very strong
		event(5.5, 8.0, 10, 1),  // strong but not shallow enough
		event(4.0, 8.0, 2, 1),   // shallow but weak
	}

	insights := testEngine().detectAnomalies(events, cfg)
	if len(insights) != 2 {
		t.Fatalf("insights = %d, want 2", len(insights))
	}
	if insights[0].SeverityLevel != SeverityModerate {
		t.Errorf("M5.6 severity = %q, want moderate", insights[0].SeverityLevel)
	}
	if insights[1].SeverityLevel != SeverityHigh {
		t.Errorf("M6.2 severity = %q, want high", insights[1].SeverityLevel)
	}
	in := insights[0]
	if in.Region != RegionMindanao || in.Location != "Surigao del Norte, Philippines" {
		t.Errorf("Region = %q, Location = %q", in.Region, in.Location)
	}
	if in.MagnitudeRange != "M5.6" || in.DepthRange != "3.0km" {
		t.Errorf("ranges = %q, %q", in.MagnitudeRange, in.DepthRange)
	}
	if !strings.Contains(in.Description, "Aftershocks are likely") {
		t.Errorf("Description = %q", in.Description)
	}
}

func TestAssessRisks(t *testing.T) {
	cfg := DefaultConfig("x-ai/grok-4-fast")
	var events []usgs.Event
	// Mindanao: 3 significant shallow plus 2 small deep events.
	// Score: 3*15 + 3*5 + 5.0*10 + 5*2 = 120, critical.
	for i := 0; i < 3; i++ {
		events = append(events, event(5.0, 6.0, 20, 4))
	}
	for i := 0; i < 2; i++ {
		events = append(events, event(3.0, 6.0, 50, 4))
	}
	// Luzon stays quiet: 1*2 + 3.0*10 = 32, moderate, not reported.
	events = append(events, event(3.0, 16.0, 80, 4))

	insights := testEngine().assessRisks(events, cfg)
	if len(insights) != 1 {
		t.Fatalf("insights = %d, want 1", len(insights))
	}
	in := insights[0]
	if in.Region != RegionMindanao || in.SeverityLevel != SeverityCritical {
		t.Errorf("Region = %q, severity = %q", in.Region, in.SeverityLevel)
	}
	if in.Title != "Critical Seismic Risk in Mindanao" {
		t.Errorf("Title = %q", in.Title)
	}
	if !strings.Contains(in.Description, "Risk score: 120/100") {
		t.Errorf("Description = %q", in.Description)
	}
	if got := in.SupportingData["risk_score"]; got != 120.0 {
		t.Errorf("risk_score = %v", got)
	}
}

func TestFindCorrelations(t *testing.T) {
	cfg := DefaultConfig("x-ai/grok-4-fast")

	nocturnal := make([]usgs.Event, 0, 20)
	for i := 0; i < 20; i++ {
		e := event(3.0, 8.0, 30, 2)
		e.Time = time.Date(2026, 8, 28, 2, 0, 0, 0, time.UTC)
		nocturnal = append(nocturnal, e)
	}

	insights := testEngine().findCorrelations(nocturnal, cfg)
	if len(insights) != 1 {
		t.Fatalf("insights = %d, want 1", len(insights))
	}
	if !strings.Contains(insights[0].Description, "100% occurring during night hours") {
		t.Errorf("Description = %q", insights[0].Description)
	}

	// An even split is not worth reporting.
	balanced := make([]usgs.Event, 0, 20)
	for i := 0; i < 10; i++ {
		e := event(3.0, 8.0, 30, 2)
		e.Time = time.Date(2026, 8, 28, 2, 0, 0, 0, time.UTC)
		balanced = append(balanced, e)
		e.Time = time.Date(2026, 8, 28, 12, 0, 0, 0, time.UTC)
		balanced = append(balanced, e)
	}
	if got := testEngine().findCorrelations(balanced, cfg); len(got) != 0 {
		t.Errorf("balanced distribution produced %d insights", len(got))
	}

	// Too few events to say anything.
	if got := testEngine().findCorrelations(nocturnal[:19], cfg); len(got) != 0 {
		t.Errorf("small sample produced %d insights", len(got))
	}
}

func TestRunFiltersByConfidence(t *testing.T) {
	cfg := DefaultConfig("x-ai/grok-4-fast") // MinConfidence 0.6

	// Exactly the nocturnal correlation scenario: confidence 0.55.
	events := make([]usgs.Event, 0, 20)
	for i := 0; i < 20; i++ {
		e := event(2.0, 8.0, 200, 2)
		e.Time = time.Date(2026, 8, 28, 2, 0, 0, 0, time.UTC)
		events = append(events, e)
	}

	insights := testEngine().Run(events, cfg)
	for _, in := range insights {
		if in.Type == TypeCorrelation {
			t.Errorf("correlation insight kept below confidence threshold")
		}
		if in.ConfidenceScore < cfg.MinConfidence {
			t.Errorf("insight %q below threshold: %v", in.Category, in.ConfidenceScore)
		}
	}
}
