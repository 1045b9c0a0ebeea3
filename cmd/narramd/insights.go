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
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/quakewatch/narramd/internal/insight"
	"github.com/quakewatch/narramd/internal/openrouter"
	"github.com/quakewatch/narramd/internal/usgs"
)

var (
	flagInsightsDB       string
	flagInsightsSeverity string
)

var insightsCmd = &cobra.Command{
	Use:   "insights",
	Short: "Generate and manage seismic monitoring insights",
}

var insightsRunCmd = &cobra.Command{
	Use:   "run",
	Short: "Scan the catalog and store newly detected insights",
	Args:  cobra.NoArgs,
	RunE:  runInsightsRun,
}

var insightsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List active insights",
	Args:  cobra.NoArgs,
	RunE:  runInsightsList,
}

var insightsAckCmd = &cobra.Command{
	Use:   "ack <id>",
	Short: "Acknowledge an insight so it stops appearing in listings",
	Args:  cobra.ExactArgs(1),
	RunE:  runInsightsAck,
}

func init() {
	rootCmd.AddCommand(insightsCmd)
	insightsCmd.AddCommand(insightsRunCmd, insightsListCmd, insightsAckCmd)

	insightsCmd.PersistentFlags().StringVar(&flagInsightsDB, "db", "insights.db", "Path to the insight database")
	insightsListCmd.Flags().StringVar(&flagInsightsSeverity, "severity", "", "Only list insights at this severity (low, moderate, high, critical)")
}

func openInsightStore(cmd *cobra.Command) (*insight.Store, error) {
	store, err := insight.Open(flagInsightsDB)
	if err != nil {
		return nil, err
	}
	if err := store.Init(cmd.Context()); err != nil {
		store.Close()
		return nil, err
	}
	return store, nil
}

func runInsightsRun(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	store, err := openInsightStore(cmd)
	if err != nil {
		return err
	}
	defer store.Close()

	cfg, err := store.Config(ctx, openrouter.DefaultModel)
	if err != nil {
		return err
	}
	if !cfg.Enabled {
		fmt.Fprintln(os.Stderr, "insight engine is disabled")
		return nil
	}

	catalog := usgs.NewClient()
	events, err := catalog.Events(ctx, usgs.AnalysisQuery(time.Now().UTC()))
	if err != nil {
		return err
	}

	start := time.Now()
	insights := insight.NewEngine().Run(events, cfg)
	if err := store.SaveInsights(ctx, insights); err != nil {
		return err
	}

	run := insight.EngineRun{
		TriggerType:        "manual",
		Description:        fmt.Sprintf("manual scan of %d events", len(events)),
		EarthquakesScanned: len(events),
		InsightsGenerated:  len(insights),
		Duration:           time.Since(start),
	}
	if err := store.RecordRun(ctx, cfg, run); err != nil {
		return err
	}

	fmt.Fprintf(os.Stderr, "scanned %d events, stored %d insights\n", len(events), len(insights))
	for _, in := range insights {
		fmt.Printf("[%s] %s (%s, confidence %.2f)\n", in.SeverityLevel, in.Title, in.Region, in.ConfidenceScore)
	}
	return nil
}

func runInsightsList(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	store, err := openInsightStore(cmd)
	if err != nil {
		return err
	}
	defer store.Close()

	var insights []insight.Insight
	if flagInsightsSeverity != "" {
		insights, err = store.BySeverity(ctx, flagInsightsSeverity)
	} else {
		insights, err = store.Active(ctx)
	}
	if err != nil {
		return err
	}

	if len(insights) == 0 {
		fmt.Println("no active insights")
		return nil
	}
	for _, in := range insights {
		fmt.Printf("%s [%s] %s\n", in.ID, in.SeverityLevel, in.Title)
		fmt.Printf("    %s\n", in.Description)
	}
	return nil
}

func runInsightsAck(cmd *cobra.Command, args []string) error {
	id, err := uuid.Parse(args[0])
	if err != nil {
		return fmt.Errorf("invalid insight id %q: %w", args[0], err)
	}

	store, err := openInsightStore(cmd)
	if err != nil {
		return err
	}
	defer store.Close()

	if err := store.Acknowledge(cmd.Context(), id); err != nil {
		return err
	}
	fmt.Fprintf(os.Stderr, "acknowledged %s\n", id)
	return nil
}
