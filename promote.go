package narramd

import "strings"

// Promote heuristically rewrites plain prose into markdown. Text that
// already carries a markdown signal is returned unchanged, which keeps the
// whole pipeline idempotent: re-running Prepare on processed output never
// re-promotes it.
//
// The heuristics are deliberately conservative: only lines that are
// unambiguously shouted headings or parenthesized numbering are touched,
// so genuine prose comes through intact.
func Promote(text string) string {
	if HasMarkdown(text) {
		return text
	}

	// The promoter runs ahead of the normalizer, so it has to cope with
	// CRLF input on its own: a trailing \r would defeat the caps check.
	text = normalizeLineEndings(text)

	lines := strings.Split(text, "\n")
	for i, line := range lines {
		if isShoutedHeading(line) {
			lines[i] = "## " + line
		}
	}
	text = strings.Join(lines, "\n")

	text = reParenNumbering.ReplaceAllString(text, "$1. ")

	return widenParagraphs(text)
}

// isShoutedHeading reports whether a line is a CAPS-only pseudo-heading:
// solely uppercase letters and spaces, strictly between 5 and 50 characters,
// with at least one letter. Shorter or longer lines are treated as prose.
func isShoutedHeading(line string) bool {
	if len(line) <= 5 || len(line) >= 50 {
		return false
	}
	hasLetter := false
	for _, r := range line {
		switch {
		case r >= 'A' && r <= 'Z':
			hasLetter = true
		case r == ' ':
		default:
			return false
		}
	}
	return hasLetter && line == strings.ToUpper(line)
}

// widenParagraphs separates single-newline prose into blank-line-delimited
// paragraphs and collapses runs of three or more newlines down to two.
func widenParagraphs(text string) string {
	text = reExcessNewlines.ReplaceAllString(text, "\n\n")

	lines := strings.Split(text, "\n")
	var b strings.Builder
	for i, line := range lines {
		b.WriteString(line)
		if i == len(lines)-1 {
			break
		}
		b.WriteString("\n")
		if strings.TrimSpace(line) != "" && strings.TrimSpace(lines[i+1]) != "" {
			b.WriteString("\n")
		}
	}
	return b.String()
}
