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
	"github.com/spf13/cobra"

	"github.com/quakewatch/narramd/internal/bulletin"
)

var flagFeedOutput string

var feedCmd = &cobra.Command{
	Use:   "feed <url>",
	Short: "Fetch an RSS or Atom bulletin feed and print it as markdown",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		b, err := bulletin.Fetch(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		return writeOutput(flagFeedOutput, []byte(b.Markdown))
	},
}

func init() {
	rootCmd.AddCommand(feedCmd)

	feedCmd.Flags().StringVarP(&flagFeedOutput, "output", "o", "", "Output file (default: stdout)")
}
