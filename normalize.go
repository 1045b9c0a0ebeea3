// Copyright 2026 QuakeWatch
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with
// the License. You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on
// an "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied. See the License for the
// specific language governing permissions and limitations under the License.

package narramd

import (
	"fmt"
	"regexp"
	"strings"
)

var (
	reCRLF            = regexp.MustCompile(`\r\n?`)
	reHeadingTight    = regexp.MustCompile(`(?m)^(#{1,6})([^#\s])`)
	reHeadingSpace    = regexp.MustCompile(`(?m)^(#{1,6})[ \t]+`)
	reBoldUnderscore  = regexp.MustCompile(`__([^_\n]+)__`)
	reItalic          = regexp.MustCompile(`\b_([^_\n]+)_\b`)
	reInlineFence     = regexp.MustCompile("(?m)^```([^`\n]+)```$")
	reThreeLineFence  = regexp.MustCompile("(?m)^```\n([^`\n]+)\n```$")
	reBulletGlyph     = regexp.MustCompile(`(?m)^([ \t]*)[-*+•·][ \t]+`)
	reNumberTight     = regexp.MustCompile(`(?m)^([ \t]*\d+\.)([^ \t\d\n.])`)
	reNumberSpace     = regexp.MustCompile(`(?m)^([ \t]*\d+\.)[ \t]+`)
	reNumberedItem    = regexp.MustCompile(`^([ \t]*)(\d+)\. (.*)$`)
	reHeadingLine     = regexp.MustCompile(`^#{1,6} `)
	reFenceTrailingWS = regexp.MustCompile("(?m)^(```[^`\n]*?)[ \t]+$")
	reExcessBlanks    = regexp.MustCompile(`\n(?:[ \t]*\n){3,}`)
	reQuoteTight      = regexp.MustCompile(`(?m)^([ \t]*>)([^ \t\n>])`)
	reQuoteSpace      = regexp.MustCompile(`(?m)^([ \t]*>)[ \t]+`)
	rePipeLeft        = regexp.MustCompile(`([^\s|])\|`)
	rePipeRight       = regexp.MustCompile(`\|([^\s|])`)
	reTrailingWS      = regexp.MustCompile(`[ \t]+\n`)
	reExcessNewlines  = regexp.MustCompile(`\n{3,}`)
	reParenNumbering  = regexp.MustCompile(`(?m)^(\d+)\) `)
)

// rule is one step of the normalization pipeline: a named, pure
// string-to-string rewrite.
type rule struct {
	name  string
	apply func(string) string
}

// normalizeRules executes in this exact order. Several rules are defined in
// terms of the output of earlier ones: emphasis unification must precede
// anything that counts literal marker runs, heading spacing must precede
// the blank-line rules that match "#... " prefixes, fence collapse must
// precede parity repair so the repair sees the final backtick count. The
// ordering is asserted by a test.
var normalizeRules = []rule{
	{"line_endings", normalizeLineEndings},
	{"heading_spacing", normalizeHeadingSpacing},
	{"bold_markers", unifyBold},
	{"italic_markers", unifyItalic},
	{"inline_code_collapse", collapseSingleLineFences},
	{"bullet_markers", unifyBullets},
	{"numbered_marker_spacing", normalizeNumberedSpacing},
	{"blank_before_heading", insertBlankBeforeHeadings},
	{"blank_after_heading", insertBlankAfterHeadings},
	{"list_renumbering", renumberLists},
	{"fence_lines", tidyFenceLines},
	{"blank_density", capBlankLines},
	{"backtick_parity", repairBacktickParity},
	{"blockquote_spacing", normalizeBlockquotes},
	{"table_pipes", spaceTablePipes},
	{"final_trim", finalTrim},
}

// Normalize repairs the structure of quasi-markdown text. It is total:
// every input yields a best-effort well-formed output, including the empty
// string (which yields an empty string).
func Normalize(text string) string {
	if text == "" {
		return ""
	}
	for _, r := range normalizeRules {
		text = r.apply(text)
	}
	return text
}

// normalizeLineEndings collapses CRLF and lone CR to LF.
func normalizeLineEndings(s string) string {
	return reCRLF.ReplaceAllString(s, "\n")
}

// normalizeHeadingSpacing guarantees exactly one space between the heading
// marker and the heading text.
func normalizeHeadingSpacing(s string) string {
	s = reHeadingTight.ReplaceAllString(s, "$1 $2")
	return reHeadingSpace.ReplaceAllString(s, "$1 ")
}

// unifyBold rewrites __text__ as **text**.
func unifyBold(s string) string {
	return reBoldUnderscore.ReplaceAllString(s, "**$1**")
}

// unifyItalic rewrites word-boundary-delimited _text_ as *text*. Underscores
// inside words (identifiers, file names) are left alone.
func unifyItalic(s string) string {
	return reItalic.ReplaceAllString(s, "*$1*")
}

// collapseSingleLineFences turns a fence opened and closed on one line, or
// an untagged three-line fence wrapping exactly one line, into inline code.
// Models frequently wrap a single magnitude or number in a full code fence;
// rendering that as a block is visually disruptive.
func collapseSingleLineFences(s string) string {
	s = reInlineFence.ReplaceAllString(s, "`$1`")
	return reThreeLineFence.ReplaceAllString(s, "`$1`")
}

// unifyBullets rewrites any bullet glyph (-, *, +, •, ·) at line start as
// "- ", preserving leading indentation.
func unifyBullets(s string) string {
	return reBulletGlyph.ReplaceAllString(s, "${1}- ")
}

// normalizeNumberedSpacing guarantees exactly one space after a numbered
// list marker. A digit following the dot is left alone so decimals like
// "1.5" at line start are never split.
func normalizeNumberedSpacing(s string) string {
	s = reNumberTight.ReplaceAllString(s, "$1 $2")
	return reNumberSpace.ReplaceAllString(s, "$1 ")
}

// insertBlankBeforeHeadings inserts a blank line before a heading whose
// preceding line is non-blank.
func insertBlankBeforeHeadings(s string) string {
	lines := strings.Split(s, "\n")
	out := make([]string, 0, len(lines))
	for i, line := range lines {
		if reHeadingLine.MatchString(line) && i > 0 && strings.TrimSpace(lines[i-1]) != "" {
			out = append(out, "")
		}
		out = append(out, line)
	}
	return strings.Join(out, "\n")
}

// insertBlankAfterHeadings inserts a blank line after a heading whose
// following line is non-blank and not itself a heading.
func insertBlankAfterHeadings(s string) string {
	lines := strings.Split(s, "\n")
	out := make([]string, 0, len(lines))
	for i, line := range lines {
		out = append(out, line)
		if reHeadingLine.MatchString(line) && i+1 < len(lines) {
			next := lines[i+1]
			if strings.TrimSpace(next) != "" && !reHeadingLine.MatchString(next) {
				out = append(out, "")
			}
		}
	}
	return strings.Join(out, "\n")
}

// listScanState is the per-pass state carried through the line sequence by
// the renumbering rule: whether the scanner is inside a numbered-list run
// and what the next ordinal should be.
type listScanState struct {
	inList bool
	next   int
}

// renumberLists renumbers every contiguous run of numbered-list lines
// starting at 1, preserving leading indentation. Blank lines keep the run
// alive; any other non-list line resets it. A bullet line also resets the
// run: whether interleaved bullets should instead be treated as
// non-interrupting scaffolding is an unresolved edge case, documented in
// the test suite.
func renumberLists(s string) string {
	lines := strings.Split(s, "\n")
	state := listScanState{next: 1}
	for i, line := range lines {
		if m := reNumberedItem.FindStringSubmatch(line); m != nil {
			if !state.inList {
				state = listScanState{inList: true, next: 1}
			}
			lines[i] = fmt.Sprintf("%s%d. %s", m[1], state.next, m[3])
			state.next++
			continue
		}
		if strings.TrimSpace(line) == "" {
			continue
		}
		state = listScanState{next: 1}
	}
	return strings.Join(lines, "\n")
}

// tidyFenceLines strips trailing whitespace from fence lines (keeping any
// language tag verbatim) and makes sure a fence closing the text is
// followed by a newline.
func tidyFenceLines(s string) string {
	s = reFenceTrailingWS.ReplaceAllString(s, "$1")
	if strings.HasSuffix(s, "```") {
		s += "\n"
	}
	return s
}

// capBlankLines collapses runs of four or more newlines to exactly three,
// i.e. at most two consecutive blank lines. Whitespace-only lines count as
// blank here, since the final trim would otherwise turn them into fresh
// newline runs after this rule has already fired.
func capBlankLines(s string) string {
	return reExcessBlanks.ReplaceAllString(s, "\n\n\n")
}

// repairBacktickParity appends one closing backtick when the total count is
// odd, so downstream renderers never see an unterminated code span.
func repairBacktickParity(s string) string {
	if strings.Count(s, "`")%2 == 1 {
		s += "`"
	}
	return s
}

// normalizeBlockquotes guarantees exactly one space after a blockquote
// marker at line start.
func normalizeBlockquotes(s string) string {
	s = reQuoteTight.ReplaceAllString(s, "$1 $2")
	return reQuoteSpace.ReplaceAllString(s, "$1 ")
}

// spaceTablePipes surrounds pipe characters with spaces where missing.
// Already-spaced pipes are unaffected, so the rule is idempotent.
func spaceTablePipes(s string) string {
	s = rePipeLeft.ReplaceAllString(s, "$1 |")
	return rePipeRight.ReplaceAllString(s, "| $1")
}

// finalTrim strips trailing whitespace from each line, trims the whole
// text, and appends exactly one trailing newline.
func finalTrim(s string) string {
	if !strings.HasSuffix(s, "\n") {
		s += "\n"
	}
	s = reTrailingWS.ReplaceAllString(s, "\n")
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	return s + "\n"
}
