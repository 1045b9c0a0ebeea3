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

// Package report renders a prepared analysis narrative plus its catalog
// window into distributable formats: markdown, HTML preview, PDF, and a
// spreadsheet.
package report

import (
	"fmt"
	"strings"
	"time"

	"github.com/quakewatch/narramd"
	"github.com/quakewatch/narramd/internal/usgs"
)

// Report bundles a narrative with the data it was derived from.
type Report struct {
	Title       string
	Narrative   string // normalized markdown
	Stats       usgs.CatalogStats
	Events      []usgs.Event
	Model       string
	PeriodDays  int
	GeneratedAt time.Time
}

// New assembles a Report, normalizing the narrative.
func New(title, narrative string, stats usgs.CatalogStats, events []usgs.Event) *Report {
	return &Report{
		Title:       title,
		Narrative:   narramd.Prepare(narrative),
		Stats:       stats,
		Events:      events,
		GeneratedAt: time.Now().UTC(),
	}
}

// Markdown renders the full report document: title, provenance, narrative,
// summary figures, and the event table.
func (r *Report) Markdown() string {
	var b strings.Builder

	fmt.Fprintf(&b, "# %s\n\n", r.Title)
	fmt.Fprintf(&b, "Generated: %s\n\n", r.GeneratedAt.Format("2006-01-02 15:04 UTC"))
	if r.Model != "" {
		fmt.Fprintf(&b, "Model: %s\n\n", r.Model)
	}

	b.WriteString(r.Narrative)
	b.WriteString("\n## Summary Figures\n\n")
	for _, line := range summaryLines(r.Stats) {
		fmt.Fprintf(&b, "- %s\n", line)
	}

	if len(r.Events) > 0 {
		b.WriteString("\n## Notable Events\n\n")
		b.WriteString(EventsTable(r.Events))
	}

	return narramd.Prepare(b.String())
}
