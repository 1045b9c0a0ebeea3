package report

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/quakewatch/narramd/internal/usgs"
)

func testReport() *Report {
	mag1, mag2 := 5.4, 3.1
	r := New(
		"Weekly Seismic Analysis",
		"## Overview\n\nA **moderate** week with one notable offshore event.",
		usgs.CatalogStats{
			Total:        4,
			AvgMagnitude: 3.9,
			MaxMagnitude: 5.4,
			MinMagnitude: 2.8,
			AvgDepthKm:   48.2,
			MaxDepthKm:   110,
			Shallow:      3,
			Intermediate: 1,
			Significant:  1,
			Moderate:     2,
			Minor:        1,
		},
		[]usgs.Event{
			{
				ID:        "us7000abcd",
				Magnitude: &mag1,
				Place:     "12 km SE of Surigao, Philippines",
				Time:      time.Date(2026, 8, 28, 4, 15, 0, 0, time.UTC),
				DepthKm:   33,
				Latitude:  9.75,
				Longitude: 125.51,
			},
			{
				ID:        "us7000abce",
				Magnitude: &mag2,
				Place:     "Leyte, Philippines",
				Time:      time.Date(2026, 8, 29, 22, 40, 0, 0, time.UTC),
				DepthKm:   12,
			},
		},
	)
	r.Model = "x-ai/grok-4-fast"
	r.GeneratedAt = time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	return r
}

func TestReportMarkdown(t *testing.T) {
	md := testReport().Markdown()

	for _, want := range []string{
		"# Weekly Seismic Analysis",
		"Generated: 2026-08-30 12:00 UTC",
		"Model: x-ai/grok-4-fast",
		"## Overview",
		"A **moderate** week",
		"## Summary Figures",
		"- Total events: 4",
		"- Magnitude range: M2.8 to M5.4 (average M3.90)",
		"## Notable Events",
		"| Time (UTC) | Magnitude | Depth (km) | Location |",
		"| 2026-08-28 04:15 | M5.4 | 33.0 | 12 km SE of Surigao, Philippines |",
	} {
		if !strings.Contains(md, want) {
			t.Errorf("markdown missing %q:\n%s", want, md)
		}
	}
	if !strings.HasSuffix(md, "\n") || strings.HasSuffix(md, "\n\n") {
		t.Error("markdown must end with exactly one newline")
	}
}

func TestEventsTable(t *testing.T) {
	mag := 5.4
	events := []usgs.Event{
		{Magnitude: &mag, Place: "Davao Oriental", Time: time.Date(2026, 8, 28, 4, 15, 0, 0, time.UTC), DepthKm: 54.3},
		{Place: "Batanes", Time: time.Date(2026, 8, 29, 1, 0, 0, 0, time.UTC), DepthKm: 10},
	}

	got := EventsTable(events)
	want := "| Time (UTC) | Magnitude | Depth (km) | Location |\n" +
		"| --- | --- | --- | --- |\n" +
		"| 2026-08-28 04:15 | M5.4 | 54.3 | Davao Oriental |\n" +
		"| 2026-08-29 01:00 | pending | 10.0 | Batanes |\n"
	if got != want {
		t.Errorf("EventsTable:\ngot:  %q\nwant: %q", got, want)
	}
}

func TestReportPDF(t *testing.T) {
	pdf, err := testReport().PDF()
	if err != nil {
		t.Fatalf("PDF: %v", err)
	}
	if !bytes.HasPrefix(pdf, []byte("%PDF-")) {
		t.Errorf("output does not start with PDF header")
	}
	if len(pdf) < 1000 {
		t.Errorf("suspiciously small PDF: %d bytes", len(pdf))
	}
}

func TestReportHTML(t *testing.T) {
	html, err := testReport().HTML()
	if err != nil {
		t.Fatalf("HTML: %v", err)
	}
	s := string(html)
	for _, want := range []string{
		"Weekly Seismic Analysis</h1>",
		"<strong>moderate</strong>",
		"<table>",
		"<td>M5.4</td>",
	} {
		if !strings.Contains(s, want) {
			t.Errorf("html missing %q:\n%s", want, s)
		}
	}
	if strings.Contains(s, "<script") {
		t.Error("html contains script tag")
	}
}

func TestRenderHTMLBlocksRawHTML(t *testing.T) {
	out, err := RenderHTML("safe text\n\n<script>alert(1)</script>\n")
	if err != nil {
		t.Fatalf("RenderHTML: %v", err)
	}
	if strings.Contains(string(out), "<script>") {
		t.Errorf("raw HTML passed through: %s", out)
	}
}

func TestReportXLSX(t *testing.T) {
	data, err := testReport().XLSX()
	if err != nil {
		t.Fatalf("XLSX: %v", err)
	}

	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("reopen workbook: %v", err)
	}
	defer f.Close()

	get := func(sheet, cell string) string {
		t.Helper()
		v, err := f.GetCellValue(sheet, cell)
		if err != nil {
			t.Fatalf("GetCellValue(%s, %s): %v", sheet, cell, err)
		}
		return v
	}

	if got := get("Summary", "A1"); got != "Report" {
		t.Errorf("Summary!A1 = %q", got)
	}
	if got := get("Summary", "B1"); got != "Weekly Seismic Analysis" {
		t.Errorf("Summary!B1 = %q", got)
	}
	if got := get("Summary", "A5"); got != "Total events" {
		t.Errorf("Summary!A5 = %q", got)
	}
	if got := get("Summary", "B5"); got != "4" {
		t.Errorf("Summary!B5 = %q", got)
	}

	if got := get("Events", "A1"); got != "ID" {
		t.Errorf("Events!A1 = %q", got)
	}
	if got := get("Events", "A2"); got != "us7000abcd" {
		t.Errorf("Events!A2 = %q", got)
	}
	if got := get("Events", "C2"); got != "5.4" {
		t.Errorf("Events!C2 = %q", got)
	}
	if got := get("Events", "G3"); got != "Leyte, Philippines" {
		t.Errorf("Events!G3 = %q", got)
	}
}
