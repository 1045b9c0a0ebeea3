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

	"github.com/xuri/excelize/v2"
)

// XLSX renders the report's figures and event list as a spreadsheet.
func (r *Report) XLSX() ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	const summary = "Summary"
	if err := f.SetSheetName("Sheet1", summary); err != nil {
		return nil, fmt.Errorf("report: rename sheet: %w", err)
	}

	rows := [][]any{
		{"Report", r.Title},
		{"Generated", r.GeneratedAt.Format("2006-01-02 15:04 UTC")},
		{"Model", r.Model},
		{},
		{"Total events", r.Stats.Total},
		{"Average magnitude", r.Stats.AvgMagnitude},
		{"Maximum magnitude", r.Stats.MaxMagnitude},
		{"Minimum magnitude", r.Stats.MinMagnitude},
		{"Average depth (km)", r.Stats.AvgDepthKm},
		{"Maximum depth (km)", r.Stats.MaxDepthKm},
		{"Significant (M >= 4.5)", r.Stats.Significant},
		{"Moderate (3.0 <= M < 4.5)", r.Stats.Moderate},
		{"Minor (M < 3.0)", r.Stats.Minor},
		{"Shallow (< 70 km)", r.Stats.Shallow},
		{"Intermediate (70-300 km)", r.Stats.Intermediate},
		{"Deep (>= 300 km)", r.Stats.Deep},
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return nil, fmt.Errorf("report: cell name: %w", err)
		}
		if err := f.SetSheetRow(summary, cell, &row); err != nil {
			return nil, fmt.Errorf("report: write summary row: %w", err)
		}
	}

	const events = "Events"
	if _, err := f.NewSheet(events); err != nil {
		return nil, fmt.Errorf("report: add events sheet: %w", err)
	}
	header := []any{"ID", "Time (UTC)", "Magnitude", "Depth (km)", "Latitude", "Longitude", "Location", "Significance"}
	if err := f.SetSheetRow(events, "A1", &header); err != nil {
		return nil, fmt.Errorf("report: write events header: %w", err)
	}
	for i, e := range r.Events {
		row := []any{
			e.ID,
			e.Time.UTC().Format("2006-01-02 15:04:05"),
			nil,
			e.DepthKm,
			e.Latitude,
			e.Longitude,
			e.Place,
			e.Significance,
		}
		if e.Magnitude != nil {
			row[2] = *e.Magnitude
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, fmt.Errorf("report: cell name: %w", err)
		}
		if err := f.SetSheetRow(events, cell, &row); err != nil {
			return nil, fmt.Errorf("report: write event row: %w", err)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("report: write workbook: %w", err)
	}
	return buf.Bytes(), nil
}
