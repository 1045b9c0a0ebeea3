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

package openrouter

import (
	"fmt"
	"strings"

	"github.com/quakewatch/narramd/internal/usgs"
)

// BuildPrompt renders the catalog window into the analysis request sent to
// the model. periodDays is the width of the window in days.
func BuildPrompt(stats usgs.CatalogStats, top []usgs.Event, periodDays int) string {
	var b strings.Builder

	fmt.Fprintf(&b, "You are a seismologist analyzing earthquake data for the Philippines region. "+
		"Provide a comprehensive analysis based on the following data:\n\n")
	fmt.Fprintf(&b, "**Period**: Last %d days\n\n", periodDays)

	fmt.Fprintf(&b, "**Overall Statistics**:\n")
	fmt.Fprintf(&b, "- Total earthquakes detected: %d\n", stats.Total)
	fmt.Fprintf(&b, "- Average magnitude: %.2f\n", stats.AvgMagnitude)
	fmt.Fprintf(&b, "- Maximum magnitude: %.2f\n", stats.MaxMagnitude)
	fmt.Fprintf(&b, "- Minimum magnitude: %.2f\n", stats.MinMagnitude)
	fmt.Fprintf(&b, "- Average depth: %.2f km\n", stats.AvgDepthKm)
	fmt.Fprintf(&b, "- Maximum depth: %.2f km\n\n", stats.MaxDepthKm)

	fmt.Fprintf(&b, "**Earthquake Distribution**:\n")
	fmt.Fprintf(&b, "- Significant (M >= 4.5): %d\n", stats.Significant)
	fmt.Fprintf(&b, "- Moderate (3.0 <= M < 4.5): %d\n", stats.Moderate)
	fmt.Fprintf(&b, "- Minor (M < 3.0): %d\n\n", stats.Minor)

	fmt.Fprintf(&b, "**Depth Distribution**:\n")
	fmt.Fprintf(&b, "- Shallow (< 70 km): %d\n", stats.Shallow)
	fmt.Fprintf(&b, "- Intermediate (70-300 km): %d\n", stats.Intermediate)
	fmt.Fprintf(&b, "- Deep (>= 300 km): %d\n\n", stats.Deep)

	if len(top) > 0 {
		fmt.Fprintf(&b, "**Top %d Significant Earthquakes**:\n", len(top))
		for i, e := range top {
			mag := 0.0
			if e.Magnitude != nil {
				mag = *e.Magnitude
			}
			fmt.Fprintf(&b, "%d. M%.1f - %s - %s - Depth: %.1fkm\n",
				i+1, mag, e.Place, e.Time.UTC().Format("2006-01-02 15:04:05 UTC"), e.DepthKm)
		}
		b.WriteString("\n")
	}

	b.WriteString(`Provide a detailed analysis covering:
1. Overall seismic activity assessment (is it normal, elevated, concerning?)
2. Patterns and trends observed (clustering, depth patterns, magnitude distribution)
3. Geographic distribution and hot spots
4. Risk assessment and potential concerns
5. Actionable recommendations for residents and authorities
6. Any notable events or sequences (aftershocks, swarms, etc.)

Be specific, professional, and provide context. Format your response with clear sections and use markdown formatting.`)

	return b.String()
}
