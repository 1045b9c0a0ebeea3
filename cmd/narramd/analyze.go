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
	"time"

	"github.com/spf13/cobra"

	"github.com/quakewatch/narramd"
	"github.com/quakewatch/narramd/internal/openrouter"
	"github.com/quakewatch/narramd/internal/usgs"
)

var (
	flagAnalyzeModel  string
	flagAnalyzeDays   int
	flagAnalyzeOutput string
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Fetch the catalog and request an AI analysis narrative",
	Long: `Analyze fetches recent Philippine earthquakes from the USGS catalog,
summarizes them, requests a narrative analysis through OpenRouter, and
prints the normalized markdown.

The OPENROUTER_API_KEY environment variable must be set.`,
	Args: cobra.NoArgs,
	RunE: runAnalyze,
}

func init() {
	rootCmd.AddCommand(analyzeCmd)

	analyzeCmd.Flags().StringVar(&flagAnalyzeModel, "model", openrouter.DefaultModel, "Preferred analysis model")
	analyzeCmd.Flags().IntVar(&flagAnalyzeDays, "days", 30, "Catalog window in days")
	analyzeCmd.Flags().StringVarP(&flagAnalyzeOutput, "output", "o", "", "Output file (default: stdout)")
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	res, err := fetchAnalysis(cmd.Context(), flagAnalyzeModel, flagAnalyzeDays)
	if err != nil {
		return err
	}
	return writeOutput(flagAnalyzeOutput, []byte(res.Narrative))
}

type analysisResult struct {
	Narrative string
	Model     string
	Stats     usgs.CatalogStats
	Top       []usgs.Event
}

// fetchAnalysis runs the shared catalog-to-narrative flow used by analyze
// and report.
func fetchAnalysis(ctx context.Context, model string, days int) (analysisResult, error) {
	apiKey := os.Getenv("OPENROUTER_API_KEY")
	if apiKey == "" {
		return analysisResult{}, fmt.Errorf("OPENROUTER_API_KEY is not set")
	}

	catalog := usgs.NewClient()

	now := time.Now().UTC()
	q := usgs.AnalysisQuery(now)
	q.Start = now.AddDate(0, 0, -days)
	events, err := catalog.Events(ctx, q)
	if err != nil {
		return analysisResult{}, err
	}

	stats := usgs.Summarize(events)
	top := usgs.TopSignificant(events, 10)

	fmt.Fprintf(os.Stderr, "analyzing %d events from the last %d days\n", stats.Total, days)

	ai := openrouter.NewClient(apiKey, openrouter.WithModel(model))
	analysis, err := ai.Analyze(ctx, openrouter.BuildPrompt(stats, top, days))
	if err != nil {
		return analysisResult{}, err
	}
	fmt.Fprintf(os.Stderr, "narrative generated by %s\n", analysis.Model)

	return analysisResult{
		Narrative: narramd.Prepare(analysis.Text),
		Model:     analysis.Model,
		Stats:     stats,
		Top:       top,
	}, nil
}
