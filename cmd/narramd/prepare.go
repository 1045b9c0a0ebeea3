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
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/quakewatch/narramd"
	"github.com/quakewatch/narramd/internal/textio"
)

var (
	flagPrepareOutput  string
	flagPrepareCharset string
	flagPrepareNoProm  bool
	flagPrepareHTML    bool
)

var prepareCmd = &cobra.Command{
	Use:   "prepare [file]",
	Short: "Normalize a narrative into clean markdown",
	Long: `Prepare reads a narrative from a file (or stdin when omitted), promotes
plain text to markdown when needed, and normalizes the result.

Examples:
  narramd prepare weekly-analysis.txt
  cat narrative.txt | narramd prepare
  narramd prepare --html scraped-bulletin.html -o bulletin.md`,
	Args: cobra.MaximumNArgs(1),
	RunE: runPrepare,
}

func init() {
	rootCmd.AddCommand(prepareCmd)

	prepareCmd.Flags().StringVarP(&flagPrepareOutput, "output", "o", "", "Output file (default: stdout)")
	prepareCmd.Flags().StringVar(&flagPrepareCharset, "charset", "", "Input charset (default: auto-detect)")
	prepareCmd.Flags().BoolVar(&flagPrepareNoProm, "no-promote", false, "Skip plain-text promotion, normalize only")
	prepareCmd.Flags().BoolVar(&flagPrepareHTML, "html", false, "Convert HTML input to markdown first")
}

func runPrepare(cmd *cobra.Command, args []string) error {
	var (
		text string
		err  error
	)
	switch {
	case flagPrepareCharset != "":
		var data []byte
		if len(args) == 1 {
			data, err = os.ReadFile(args[0])
		} else {
			data, err = io.ReadAll(os.Stdin)
		}
		if err == nil {
			text, err = textio.DecodeBytesAs(data, flagPrepareCharset)
		}
	case len(args) == 1:
		text, err = textio.ReadFile(args[0])
	default:
		text, err = textio.ReadAll(os.Stdin)
	}
	if err != nil {
		return err
	}

	p := narramd.New(
		narramd.WithPromotion(!flagPrepareNoProm),
		narramd.WithHTMLConversion(flagPrepareHTML),
	)
	return writeOutput(flagPrepareOutput, []byte(p.Prepare(text)))
}
