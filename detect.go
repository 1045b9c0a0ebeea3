package narramd

import "regexp"

// markdownSignals are the token patterns whose presence indicates the text
// is already markdown rather than plain prose. All patterns are RE2 and
// therefore linear-time on untrusted input.
var markdownSignals = []*regexp.Regexp{
	regexp.MustCompile(`(?m)^#{1,6}\s`),            // ATX heading
	regexp.MustCompile(`(?m)^[-*+]\s`),             // bullet marker
	regexp.MustCompile(`(?m)^\d+\.\s`),             // numbered marker
	regexp.MustCompile("```"),                      // fenced code block
	regexp.MustCompile(`\*\*[^*\n]+\*\*`),          // bold
	regexp.MustCompile(`__[^_\n]+__`),              // bold, underscore form
	regexp.MustCompile(`\[[^\]\n]+\]\([^)\n]+\)`),  // link
}

// HasMarkdown reports whether text already contains at least one markdown
// signal. It returns true on the first match and has no failure modes.
func HasMarkdown(text string) bool {
	for _, re := range markdownSignals {
		if re.MatchString(text) {
			return true
		}
	}
	return false
}
