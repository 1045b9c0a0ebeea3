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

// Package insight generates and persists monitoring insights derived from
// the earthquake catalog. Detectors are deterministic rules; the narrative
// text they produce goes through the markdown pipeline before storage so
// every stored description renders cleanly.
package insight

import (
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Severity levels, mildest first.
const (
	SeverityLow      = "low"
	SeverityModerate = "moderate"
	SeverityHigh     = "high"
	SeverityCritical = "critical"
)

// Insight types.
const (
	TypePattern     = "pattern"
	TypeAnomaly     = "anomaly"
	TypeRisk        = "risk"
	TypeCorrelation = "correlation"
)

// Insight is a stored observation about recent seismic activity.
type Insight struct {
	bun.BaseModel `bun:"table:insights,alias:i"`

	ID          uuid.UUID `bun:",pk,type:uuid"        json:"id"`
	Type        string    `bun:"insight_type,notnull" json:"insight_type"`
	Category    string    `bun:"category,notnull"     json:"category"`
	Title       string    `bun:"title,notnull"        json:"title"`
	Description string    `bun:"description,notnull"  json:"description"`

	Region    string   `bun:"region"    json:"region,omitempty"`
	Location  string   `bun:"location"  json:"location,omitempty"`
	Latitude  *float64 `bun:"latitude"  json:"latitude,omitempty"`
	Longitude *float64 `bun:"longitude" json:"longitude,omitempty"`

	ConfidenceScore float64 `bun:"confidence_score,notnull" json:"confidence_score"`
	SeverityLevel   string  `bun:"severity_level,notnull"   json:"severity_level"`
	EarthquakeCount int     `bun:"earthquake_count"         json:"earthquake_count"`
	MagnitudeRange  string  `bun:"magnitude_range"          json:"magnitude_range,omitempty"`
	DepthRange      string  `bun:"depth_range"              json:"depth_range,omitempty"`
	TimeWindowDays  int     `bun:"time_window_days"         json:"time_window_days"`

	ValidUntil       time.Time      `bun:"valid_until,nullzero"          json:"valid_until"`
	GeneratedByModel string         `bun:"generated_by_model"            json:"generated_by_model,omitempty"`
	SupportingData   map[string]any `bun:"supporting_data,type:jsonb"    json:"supporting_data,omitempty"`
	Acknowledged     bool           `bun:"acknowledged,notnull,default:false" json:"acknowledged"`
	CreatedAt        time.Time      `bun:"created_at,nullzero,default:current_timestamp" json:"created_at"`
}

// EngineConfig controls when the engine runs and which insights it keeps.
type EngineConfig struct {
	bun.BaseModel `bun:"table:insight_engine_config,alias:ec"`

	ID                     int64      `bun:",pk,autoincrement"          json:"id"`
	Enabled                bool       `bun:"enabled,notnull,default:true" json:"enabled"`
	AnalysisFrequencyHours int        `bun:"analysis_frequency_hours,notnull" json:"analysis_frequency_hours"`
	MinConfidence          float64    `bun:"min_confidence_threshold,notnull" json:"min_confidence_threshold"`
	Model                  string     `bun:"ai_model,notnull"           json:"ai_model"`
	LastRunAt              *time.Time `bun:"last_run_at"                json:"last_run_at,omitempty"`
	NextRunAt              *time.Time `bun:"next_run_at"                json:"next_run_at,omitempty"`
	TotalRuns              int        `bun:"total_runs"                 json:"total_runs"`
	TotalInsights          int        `bun:"total_insights_generated"   json:"total_insights_generated"`
}

// EngineRun logs one completed analysis pass.
type EngineRun struct {
	bun.BaseModel `bun:"table:insight_engine_runs,alias:er"`

	ID                 int64         `bun:",pk,autoincrement"    json:"id"`
	TriggerType        string        `bun:"trigger_type,notnull" json:"trigger_type"`
	Description        string        `bun:"description"          json:"description"`
	EarthquakesScanned int           `bun:"earthquakes_scanned"  json:"earthquakes_scanned"`
	InsightsGenerated  int           `bun:"insights_generated"   json:"insights_generated"`
	Duration           time.Duration `bun:"duration_ns"          json:"duration_ns"`
	CreatedAt          time.Time     `bun:"created_at,nullzero,default:current_timestamp" json:"created_at"`
}

// DefaultConfig is the configuration seeded on first run.
func DefaultConfig(model string) EngineConfig {
	return EngineConfig{
		Enabled:                true,
		AnalysisFrequencyHours: 6,
		MinConfidence:          0.6,
		Model:                  model,
	}
}
