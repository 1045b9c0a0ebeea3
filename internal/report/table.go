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

package report

import (
	"fmt"
	"strings"

	"github.com/quakewatch/narramd/internal/usgs"
)

// EventsTable renders events as a markdown table, one row per event.
func EventsTable(events []usgs.Event) string {
	records := [][]string{
		{"Time (UTC)", "Magnitude", "Depth (km)", "Location"},
	}
	for _, e := range events {
		mag := "pending"
		if e.Magnitude != nil {
			mag = fmt.Sprintf("M%.1f", *e.Magnitude)
		}
		records = append(records, []string{
			e.Time.UTC().Format("2006-01-02 15:04"),
			mag,
			fmt.Sprintf("%.1f", e.DepthKm),
			e.Place,
		})
	}
	return renderTable(records)
}

// renderTable renders a 2D string slice as a markdown table. The header
// row defines the column count.
func renderTable(records [][]string) string {
	if len(records) == 0 {
		return ""
	}
	numCols := len(records[0])

	var b strings.Builder

	b.WriteString("|")
	for i := 0; i < numCols; i++ {
		b.WriteString(" ")
		b.WriteString(records[0][i])
		b.WriteString(" |")
	}
	b.WriteString("\n|")
	for i := 0; i < numCols; i++ {
		b.WriteString(" --- |")
	}
	b.WriteString("\n")

	for _, row := range records[1:] {
		b.WriteString("|")
		for i := 0; i < numCols; i++ {
			b.WriteString(" ")
			if i < len(row) {
				b.WriteString(row[i])
			}
			b.WriteString(" |")
		}
		b.WriteString("\n")
	}

	return b.String()
}
