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
	"bytes"
	"fmt"
	"regexp"
	"strings"

	"github.com/jung-kurt/gofpdf"

	"github.com/quakewatch/narramd/internal/usgs"
)

var (
	reNumbered   = regexp.MustCompile(`^\d+\.\s`)
	reItalicSpan = regexp.MustCompile(`(?:^|\s)\*([^*]+)\*(?:\s|$)`)
	reCodeSpan   = regexp.MustCompile("`([^`]+)`")
	reLinkSpan   = regexp.MustCompile(`\[([^\]]*)\]\([^)]+\)`)
)

// PDF renders the report as PDF bytes. The narrative's markdown structure
// maps onto font sizes and spacing; tables render as plain rows.
func (r *Report) PDF() ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetAutoPageBreak(true, 15)
	pdf.AddPage()

	if r.Title != "" {
		pdf.SetFont("Helvetica", "B", 18)
		pdf.MultiCell(0, 8, r.Title, "", "L", false)
		pdf.Ln(4)
	}

	pdf.SetFont("Helvetica", "I", 9)
	pdf.SetTextColor(100, 100, 100)
	provenance := "Generated: " + r.GeneratedAt.Format("2006-01-02 15:04 UTC")
	if r.Model != "" {
		provenance += "  |  Model: " + r.Model
	}
	pdf.MultiCell(0, 5, provenance, "", "L", false)
	pdf.SetTextColor(0, 0, 0)
	pdf.Ln(6)

	writeMarkdown(pdf, r.Narrative)

	pdf.Ln(4)
	pdf.SetFont("Helvetica", "B", 15)
	pdf.MultiCell(0, 9, "Summary Figures", "", "L", false)
	pdf.Ln(2)
	pdf.SetFont("Helvetica", "", 10)
	for _, line := range summaryLines(r.Stats) {
		pdf.MultiCell(0, 5, "• "+line, "", "L", false)
	}

	if len(r.Events) > 0 {
		pdf.Ln(4)
		pdf.SetFont("Helvetica", "B", 15)
		pdf.MultiCell(0, 9, "Notable Events", "", "L", false)
		pdf.Ln(2)
		pdf.SetFont("Helvetica", "", 9)
		for _, e := range r.Events {
			mag := "pending"
			if e.Magnitude != nil {
				mag = fmt.Sprintf("M%.1f", *e.Magnitude)
			}
			row := fmt.Sprintf("%s  %s  %.1f km  %s",
				e.Time.UTC().Format("2006-01-02 15:04"), mag, e.DepthKm, e.Place)
			pdf.MultiCell(0, 4.5, row, "", "L", false)
		}
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("report: render pdf: %w", err)
	}
	return buf.Bytes(), nil
}

func writeMarkdown(pdf *gofpdf.Fpdf, markdown string) {
	lines := strings.Split(markdown, "\n")
	inCodeBlock := false

	for _, line := range lines {
		if strings.HasPrefix(strings.TrimSpace(line), "```") {
			inCodeBlock = !inCodeBlock
			pdf.Ln(2)
			continue
		}
		if inCodeBlock {
			pdf.SetFont("Courier", "", 9)
			pdf.SetFillColor(245, 245, 245)
			pdf.MultiCell(0, 4.5, line, "", "L", true)
			continue
		}

		if strings.TrimSpace(line) == "" {
			pdf.Ln(3)
			continue
		}

		if strings.HasPrefix(line, "#") {
			level := 0
			for _, ch := range line {
				if ch != '#' {
					break
				}
				level++
			}
			writeHeading(pdf, strings.TrimSpace(strings.TrimLeft(line, "# ")), level)
			continue
		}

		trimmed := strings.TrimSpace(line)
		switch {
		case strings.HasPrefix(trimmed, "- "):
			pdf.SetFont("Helvetica", "", 10)
			text := "• " + stripInline(trimmed[2:])
			pdf.MultiCell(0, 5, text, "", "L", false)
		case reNumbered.MatchString(trimmed):
			pdf.SetFont("Helvetica", "", 10)
			pdf.MultiCell(0, 5, stripInline(trimmed), "", "L", false)
		case strings.HasPrefix(trimmed, "> "):
			pdf.SetFont("Helvetica", "I", 10)
			pdf.SetTextColor(80, 80, 80)
			pdf.MultiCell(0, 5, stripInline(strings.TrimPrefix(trimmed, "> ")), "", "L", false)
			pdf.SetTextColor(0, 0, 0)
		default:
			pdf.SetFont("Helvetica", "", 10)
			pdf.MultiCell(0, 5, stripInline(line), "", "L", false)
		}
	}
}

func writeHeading(pdf *gofpdf.Fpdf, text string, level int) {
	sizes := map[int]float64{1: 18, 2: 15, 3: 13, 4: 12, 5: 11, 6: 10}
	size, ok := sizes[level]
	if !ok {
		size = 10
	}
	pdf.Ln(4)
	pdf.SetFont("Helvetica", "B", size)
	pdf.MultiCell(0, size*0.6, stripInline(text), "", "L", false)
	pdf.Ln(2)
}

// stripInline removes inline markdown syntax, keeping the text.
func stripInline(text string) string {
	text = strings.ReplaceAll(text, "**", "")
	text = strings.ReplaceAll(text, "__", "")
	text = reItalicSpan.ReplaceAllString(text, " $1 ")
	text = reCodeSpan.ReplaceAllString(text, "$1")
	text = reLinkSpan.ReplaceAllString(text, "$1")
	return strings.TrimSpace(text)
}

func summaryLines(s usgs.CatalogStats) []string {
	return []string{
		fmt.Sprintf("Total events: %d", s.Total),
		fmt.Sprintf("Magnitude range: M%.1f to M%.1f (average M%.2f)", s.MinMagnitude, s.MaxMagnitude, s.AvgMagnitude),
		fmt.Sprintf("Depth: average %.1f km, maximum %.1f km", s.AvgDepthKm, s.MaxDepthKm),
		fmt.Sprintf("Significant (M >= 4.5): %d, moderate: %d, minor: %d", s.Significant, s.Moderate, s.Minor),
	}
}
