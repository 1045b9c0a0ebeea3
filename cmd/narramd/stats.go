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
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/quakewatch/narramd"
	"github.com/quakewatch/narramd/internal/textio"
)

var statsCmd = &cobra.Command{
	Use:   "stats [file]",
	Short: "Extract headline figures from a narrative",
	Long: `Stats scans a narrative for its headline magnitude and depth figures and
prints them as JSON.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runStats,
}

func init() {
	rootCmd.AddCommand(statsCmd)
}

func runStats(cmd *cobra.Command, args []string) error {
	var text string
	var err error
	if len(args) == 1 {
		text, err = textio.ReadFile(args[0])
	} else {
		text, err = textio.ReadAll(os.Stdin)
	}
	if err != nil {
		return err
	}

	out, err := json.MarshalIndent(narramd.ExtractStats(text), "", "  ")
	if err != nil {
		return fmt.Errorf("encode stats: %w", err)
	}
	fmt.Println(string(out))
	return nil
}
