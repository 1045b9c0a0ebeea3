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

// Package narramd normalizes free-form narrative text produced by LLM
// backends into a single well-formed markdown dialect.
//
// Different models emit inconsistent quasi-markdown: mixed line endings,
// unclosed code fences, ad hoc bullet glyphs, CAPS-as-headings, unbalanced
// emphasis markers. Prepare converts all of that into the one dialect the
// dashboard renderer consumes. The transformation is pure, synchronous and
// total: any input string, however malformed, yields a best-effort
// well-formed output rather than an error.
package narramd

import "strings"

// Preparer is the normalization engine. It carries no mutable state across
// invocations, so a single instance is safe for concurrent use.
type Preparer struct {
	promote     bool
	convertHTML bool
}

// New creates a Preparer with the given options. The zero configuration
// promotes plain text and leaves HTML payloads untouched.
func New(opts ...Option) *Preparer {
	p := &Preparer{promote: true}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Prepare converts raw model output into well-formed markdown. The output
// either is empty (for empty or whitespace-only input) or satisfies the
// engine's structural guarantees: exactly one trailing newline, an even
// number of backticks, no run of more than two blank lines, and a single
// space after every heading marker.
func (p *Preparer) Prepare(raw string) string {
	text := strings.TrimSpace(raw)
	if text == "" {
		return ""
	}

	if p.convertHTML && looksLikeHTML(text) {
		if md, err := htmlToMarkdown(text); err == nil {
			text = strings.TrimSpace(md)
		}
	}

	if p.promote {
		text = Promote(text)
	}

	return Normalize(text)
}

var defaultPreparer = New()

// Prepare runs the default engine: promotion enabled, no HTML conversion.
func Prepare(raw string) string {
	return defaultPreparer.Prepare(raw)
}
