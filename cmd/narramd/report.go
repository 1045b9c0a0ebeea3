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

package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/quakewatch/narramd"
	"github.com/quakewatch/narramd/internal/openrouter"
	"github.com/quakewatch/narramd/internal/report"
	"github.com/quakewatch/narramd/internal/textio"
	"github.com/quakewatch/narramd/internal/usgs"
)

var (
	flagReportModel    string
	flagReportDays     int
	flagReportTitle    string
	flagReportDir      string
	flagReportPDF      bool
	flagReportXLSX     bool
	flagReportHTML     bool
	flagReportMarkdown bool
)

var reportCmd = &cobra.Command{
	Use:   "report [file]",
	Short: "Generate a full analysis report in one or more formats",
	Long: `Report runs the same catalog analysis as "analyze" and renders the
result as a report document. With a file argument the narrative is read
from the file instead of OpenRouter, so no API key is needed; the catalog
figures are still fetched.

Formats are selected with flags; when no format flag is given the
markdown report is printed to stdout.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runReport,
}

func init() {
	rootCmd.AddCommand(reportCmd)

	reportCmd.Flags().StringVar(&flagReportModel, "model", openrouter.DefaultModel, "Preferred analysis model")
	reportCmd.Flags().IntVar(&flagReportDays, "days", 30, "Catalog window in days")
	reportCmd.Flags().StringVar(&flagReportTitle, "title", "Philippine Seismic Analysis", "Report title")
	reportCmd.Flags().StringVar(&flagReportDir, "output-dir", ".", "Directory for generated report files")
	reportCmd.Flags().BoolVar(&flagReportPDF, "pdf", false, "Write report.pdf")
	reportCmd.Flags().BoolVar(&flagReportXLSX, "xlsx", false, "Write report.xlsx")
	reportCmd.Flags().BoolVar(&flagReportHTML, "html", false, "Write report.html")
	reportCmd.Flags().BoolVar(&flagReportMarkdown, "markdown", false, "Write report.md")
}

func runReport(cmd *cobra.Command, args []string) error {
	var (
		res analysisResult
		err error
	)
	if len(args) == 1 {
		res, err = fileAnalysis(cmd.Context(), args[0], flagReportDays)
	} else {
		res, err = fetchAnalysis(cmd.Context(), flagReportModel, flagReportDays)
	}
	if err != nil {
		return err
	}

	r := report.New(flagReportTitle, res.Narrative, res.Stats, res.Top)
	r.Model = res.Model
	r.PeriodDays = flagReportDays

	if !flagReportPDF && !flagReportXLSX && !flagReportHTML && !flagReportMarkdown {
		_, err := os.Stdout.WriteString(r.Markdown())
		return err
	}

	if err := os.MkdirAll(flagReportDir, 0o755); err != nil {
		return err
	}

	if flagReportMarkdown {
		if err := writeReportFile("report.md", []byte(r.Markdown())); err != nil {
			return err
		}
	}
	if flagReportHTML {
		data, err := r.HTML()
		if err != nil {
			return err
		}
		if err := writeReportFile("report.html", data); err != nil {
			return err
		}
	}
	if flagReportPDF {
		data, err := r.PDF()
		if err != nil {
			return err
		}
		if err := writeReportFile("report.pdf", data); err != nil {
			return err
		}
	}
	if flagReportXLSX {
		data, err := r.XLSX()
		if err != nil {
			return err
		}
		if err := writeReportFile("report.xlsx", data); err != nil {
			return err
		}
	}
	return nil
}

// fileAnalysis builds the report inputs from a pre-written narrative file,
// fetching only the catalog figures.
func fileAnalysis(ctx context.Context, path string, days int) (analysisResult, error) {
	narrative, err := textio.ReadFile(path)
	if err != nil {
		return analysisResult{}, err
	}

	catalog := usgs.NewClient()
	now := time.Now().UTC()
	q := usgs.AnalysisQuery(now)
	q.Start = now.AddDate(0, 0, -days)
	events, err := catalog.Events(ctx, q)
	if err != nil {
		return analysisResult{}, err
	}

	return analysisResult{
		Narrative: narramd.Prepare(narrative),
		Stats:     usgs.Summarize(events),
		Top:       usgs.TopSignificant(events, 10),
	}, nil
}

func writeReportFile(name string, data []byte) error {
	path := filepath.Join(flagReportDir, name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return err
	}
	fmt.Fprintf(os.Stderr, "wrote %s\n", path)
	return nil
}
