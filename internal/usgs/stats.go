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

package usgs

// CatalogStats aggregates a window of events the way the analysis prompt
// and the reports present them.
type CatalogStats struct {
	Total        int     `json:"total_count"`
	AvgMagnitude float64 `json:"avg_magnitude"`
	MaxMagnitude float64 `json:"max_magnitude"`
	MinMagnitude float64 `json:"min_magnitude"`
	AvgDepthKm   float64 `json:"avg_depth"`
	MaxDepthKm   float64 `json:"max_depth"`

	// Depth classes: shallow < 70 km, intermediate 70-300 km, deep >= 300 km.
	Shallow      int `json:"shallow_count"`
	Intermediate int `json:"intermediate_count"`
	Deep         int `json:"deep_count"`

	// Magnitude classes: significant M >= 4.5, moderate 3.0 <= M < 4.5,
	// minor M < 3.0.
	Significant int `json:"significant_count"`
	Moderate    int `json:"moderate_count"`
	Minor       int `json:"minor_count"`
}

// Summarize computes CatalogStats over events. Events without a magnitude
// count toward totals and depth classes but not magnitude figures.
func Summarize(events []Event) CatalogStats {
	var s CatalogStats
	s.Total = len(events)

	var magSum float64
	var magCount int
	var depthSum float64

	for _, e := range events {
		depthSum += e.DepthKm
		if e.DepthKm > s.MaxDepthKm {
			s.MaxDepthKm = e.DepthKm
		}
		switch {
		case e.DepthKm < 70:
			s.Shallow++
		case e.DepthKm < 300:
			s.Intermediate++
		default:
			s.Deep++
		}

		if e.Magnitude == nil {
			continue
		}
		m := *e.Magnitude
		if magCount == 0 || m > s.MaxMagnitude {
			s.MaxMagnitude = m
		}
		if magCount == 0 || m < s.MinMagnitude {
			s.MinMagnitude = m
		}
		magSum += m
		magCount++

		switch {
		case m >= 4.5:
			s.Significant++
		case m >= 3.0:
			s.Moderate++
		default:
			s.Minor++
		}
	}

	if magCount > 0 {
		s.AvgMagnitude = magSum / float64(magCount)
	}
	if len(events) > 0 {
		s.AvgDepthKm = depthSum / float64(len(events))
	}
	return s
}
