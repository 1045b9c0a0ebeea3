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

package insight

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/quakewatch/narramd"
	"github.com/quakewatch/narramd/internal/usgs"
)

// Engine runs the insight detectors over a catalog window.
type Engine struct {
	now   func() time.Time
	newID func() uuid.UUID
}

// EngineOption configures an Engine.
type EngineOption func(*Engine)

// WithNow overrides the engine clock.
func WithNow(now func() time.Time) EngineOption {
	return func(e *Engine) { e.now = now }
}

// WithIDGenerator overrides insight ID generation.
func WithIDGenerator(gen func() uuid.UUID) EngineOption {
	return func(e *Engine) { e.newID = gen }
}

// NewEngine creates an Engine.
func NewEngine(opts ...EngineOption) *Engine {
	e := &Engine{now: time.Now, newID: uuid.New}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Run executes all detectors over events and returns the insights meeting
// cfg's confidence threshold.
func (e *Engine) Run(events []usgs.Event, cfg EngineConfig) []Insight {
	var all []Insight
	all = append(all, e.detectPatterns(events, cfg)...)
	all = append(all, e.detectAnomalies(events, cfg)...)
	all = append(all, e.assessRisks(events, cfg)...)
	all = append(all, e.findCorrelations(events, cfg)...)

	kept := all[:0]
	for _, in := range all {
		if in.ConfidenceScore >= cfg.MinConfidence {
			kept = append(kept, in)
		}
	}
	return kept
}

// Region names used for grouping.
const (
	RegionLuzon       = "Luzon"
	RegionVisayas     = "Visayas"
	RegionMindanao    = "Mindanao"
	RegionPhilippines = "Philippines"
)

// RegionOf maps an epicenter latitude to an island group. The boundaries
// are coarse: Luzon from 15 degrees north, Visayas from 10.
func RegionOf(lat float64) string {
	switch {
	case lat >= 15:
		return RegionLuzon
	case lat >= 10:
		return RegionVisayas
	default:
		return RegionMindanao
	}
}

func groupByRegion(events []usgs.Event) map[string][]usgs.Event {
	grouped := make(map[string][]usgs.Event)
	for _, ev := range events {
		r := RegionOf(ev.Latitude)
		grouped[r] = append(grouped[r], ev)
	}
	return grouped
}

func (e *Engine) daysAgo(t time.Time) float64 {
	return e.now().Sub(t).Hours() / 24
}

func magnitude(ev usgs.Event) float64 {
	if ev.Magnitude == nil {
		return 0
	}
	return *ev.Magnitude
}

// severityFor grades a sequence by its strongest event and its size.
func severityFor(maxMag float64, count int) string {
	switch {
	case maxMag >= 6.5 || count >= 50:
		return SeverityCritical
	case maxMag >= 5.5 || count >= 30:
		return SeverityHigh
	case maxMag >= 4.5 || count >= 15:
		return SeverityModerate
	default:
		return SeverityLow
	}
}

func (e *Engine) newInsight(typ, category, title, description string, cfg EngineConfig) Insight {
	return Insight{
		ID:       e.newID(),
		Type:     typ,
		Category: category,
		Title:    title,
		// Stored descriptions are rendered as markdown downstream, so they
		// go through the same pipeline as model narratives.
		Description:      strings.TrimRight(narramd.Prepare(description), "\n"),
		GeneratedByModel: cfg.Model,
		CreatedAt:        e.now(),
	}
}

func (e *Engine) detectPatterns(events []usgs.Event, cfg EngineConfig) []Insight {
	var insights []Insight

	for region, regional := range groupByRegion(events) {
		if len(regional) < 5 {
			continue
		}

		var recent, previous []usgs.Event
		for _, ev := range regional {
			switch d := e.daysAgo(ev.Time); {
			case d <= 7:
				recent = append(recent, ev)
			case d <= 14:
				previous = append(previous, ev)
			}
		}

		if len(recent) >= 10 && float64(len(recent)) > float64(len(previous))*1.5 {
			var magSum, maxMag, minMag float64
			for i, ev := range recent {
				m := magnitude(ev)
				magSum += m
				if i == 0 || m > maxMag {
					maxMag = m
				}
				if i == 0 || m < minMag {
					minMag = m
				}
			}
			avgMag := magSum / float64(len(recent))

			change := "new activity after a quiet week"
			if len(previous) > 0 {
				pct := float64(len(recent)-len(previous)) / float64(len(previous)) * 100
				change = fmt.Sprintf("up %.0f%% from the previous week", pct)
			}

			in := e.newInsight(TypePattern, "increasing_activity",
				fmt.Sprintf("Increased Seismic Activity in %s", region),
				fmt.Sprintf("%s has experienced %d earthquakes in the past 7 days, %s. "+
					"Average magnitude: M%.1f, Maximum: M%.1f. "+
					"This elevated activity warrants continued monitoring.",
					region, len(recent), change, avgMag, maxMag),
				cfg)
			in.Region = region
			in.ConfidenceScore = min(0.7+float64(len(recent))/50, 0.95)
			in.SeverityLevel = severityFor(maxMag, len(recent))
			in.EarthquakeCount = len(recent)
			in.MagnitudeRange = fmt.Sprintf("M%.1f - M%.1f", minMag, maxMag)
			in.TimeWindowDays = 7
			in.ValidUntil = e.now().AddDate(0, 0, 7)
			in.SupportingData = map[string]any{
				"recent_count":   len(recent),
				"previous_count": len(previous),
			}
			insights = append(insights, in)
		}

		var shallow []usgs.Event
		for _, ev := range recent {
			if ev.DepthKm < 10 {
				shallow = append(shallow, ev)
			}
		}
		if len(shallow) >= 5 {
			minDepth, maxDepth := shallow[0].DepthKm, shallow[0].DepthKm
			for _, ev := range shallow[1:] {
				if ev.DepthKm < minDepth {
					minDepth = ev.DepthKm
				}
				if ev.DepthKm > maxDepth {
					maxDepth = ev.DepthKm
				}
			}

			in := e.newInsight(TypePattern, "shallow_clustering",
				fmt.Sprintf("Shallow Earthquake Cluster in %s", region),
				fmt.Sprintf("%d shallow earthquakes (depth < 10km) detected in %s within 7 days. "+
					"Shallow earthquakes have higher potential for surface damage. "+
					"Communities should review earthquake preparedness plans.",
					len(shallow), region),
				cfg)
			in.Region = region
			in.ConfidenceScore = 0.75
			in.SeverityLevel = SeverityModerate
			in.EarthquakeCount = len(shallow)
			in.DepthRange = fmt.Sprintf("%.1fkm - %.1fkm", minDepth, maxDepth)
			in.TimeWindowDays = 7
			in.ValidUntil = e.now().AddDate(0, 0, 5)
			insights = append(insights, in)
		}
	}

	return insights
}

func (e *Engine) detectAnomalies(events []usgs.Event, cfg EngineConfig) []Insight {
	var insights []Insight

	for _, ev := range events {
		mag := magnitude(ev)
		if mag < 5.0 || ev.DepthKm >= 5 {
			continue
		}

		place := ev.Place
		if place == "" {
			place = "unknown location"
		}

		in := e.newInsight(TypeAnomaly, "unusual_shallow_strong",
			fmt.Sprintf("Unusually Shallow M%.1f Earthquake", mag),
			fmt.Sprintf("A magnitude %.1f earthquake at only %.1fkm depth occurred near %s. "+
				"This shallow depth-to-magnitude ratio is uncommon and may result in stronger "+
				"ground shaking than typical. Aftershocks are likely.",
				mag, ev.DepthKm, place),
			cfg)
		in.Region = RegionOf(ev.Latitude)
		in.Location = ev.Place
		lat, lon := ev.Latitude, ev.Longitude
		in.Latitude = &lat
		in.Longitude = &lon
		in.ConfidenceScore = 0.85
		in.SeverityLevel = SeverityModerate
		if mag >= 6.0 {
			in.SeverityLevel = SeverityHigh
		}
		in.EarthquakeCount = 1
		in.MagnitudeRange = fmt.Sprintf("M%.1f", mag)
		in.DepthRange = fmt.Sprintf("%.1fkm", ev.DepthKm)
		in.TimeWindowDays = 1
		in.ValidUntil = e.now().AddDate(0, 0, 3)
		in.SupportingData = map[string]any{
			"earthquake_id": ev.ID,
			"time":          ev.Time.UTC().Format(time.RFC3339),
		}
		insights = append(insights, in)
	}

	return insights
}

func (e *Engine) assessRisks(events []usgs.Event, cfg EngineConfig) []Insight {
	var insights []Insight

	for region, regional := range groupByRegion(events) {
		var recent []usgs.Event
		for _, ev := range regional {
			if e.daysAgo(ev.Time) <= 14 {
				recent = append(recent, ev)
			}
		}
		if len(recent) == 0 {
			continue
		}

		var significant, shallow int
		var maxMag float64
		for _, ev := range recent {
			m := magnitude(ev)
			if m >= 4.5 {
				significant++
			}
			if ev.DepthKm < 30 {
				shallow++
			}
			if m > maxMag {
				maxMag = m
			}
		}

		score := float64(significant*15) + float64(shallow*5) + maxMag*10 + float64(len(recent)*2)

		level := SeverityLow
		switch {
		case score >= 80:
			level = SeverityCritical
		case score >= 50:
			level = SeverityHigh
		case score >= 25:
			level = SeverityModerate
		}
		if level != SeverityHigh && level != SeverityCritical {
			continue
		}

		title := strings.ToUpper(level[:1]) + level[1:]
		in := e.newInsight(TypeRisk, "regional_risk_assessment",
			fmt.Sprintf("%s Seismic Risk in %s", title, region),
			fmt.Sprintf("Based on recent seismic activity, %s currently has %s seismic risk. "+
				"Factors: %d significant earthquakes (M>=4.5), %d shallow events (<30km), "+
				"maximum magnitude M%.1f. Risk score: %.0f/100.",
				region, level, significant, shallow, maxMag, score),
			cfg)
		in.Region = region
		in.ConfidenceScore = 0.70
		in.SeverityLevel = level
		in.EarthquakeCount = len(recent)
		in.TimeWindowDays = 14
		in.ValidUntil = e.now().AddDate(0, 0, 7)
		in.SupportingData = map[string]any{
			"risk_score":        score,
			"significant_count": significant,
			"shallow_count":     shallow,
			"max_magnitude":     maxMag,
		}
		insights = append(insights, in)
	}

	return insights
}

func (e *Engine) findCorrelations(events []usgs.Event, cfg EngineConfig) []Insight {
	if len(events) < 20 {
		return nil
	}

	var night, day int
	for _, ev := range events {
		hour := ev.Time.UTC().Hour()
		if hour < 6 || hour >= 20 {
			night++
		} else {
			day++
		}
	}

	total := night + day
	nightPct := float64(night) / float64(total) * 100
	if nightPct <= 60 && nightPct >= 40 {
		return nil
	}

	in := e.newInsight(TypeCorrelation, "temporal_distribution",
		"Temporal Distribution Pattern Observed",
		fmt.Sprintf("Recent earthquake activity shows %.0f%% occurring during night hours (8PM-6AM). "+
			"This is an observational pattern and does not indicate predictive capability. "+
			"Earthquakes can occur at any time.", nightPct),
		cfg)
	in.Region = RegionPhilippines
	in.ConfidenceScore = 0.55
	in.SeverityLevel = SeverityLow
	in.EarthquakeCount = len(events)
	in.TimeWindowDays = 14
	in.ValidUntil = e.now().AddDate(0, 0, 7)
	in.SupportingData = map[string]any{
		"night_count":      night,
		"day_count":        day,
		"night_percentage": nightPct,
	}
	return []Insight{in}
}
