package cleaning

import (
	"regexp"
	"strings"
)

var (
	multipleSpacesRe      = regexp.MustCompile(`[ \t]+`)
	multipleNewlinesRe    = regexp.MustCompile(`\n{3,}`)
	spaceAroundNewlineRe  = regexp.MustCompile(`[ \t]*\n[ \t]*`)
)

// normalizeNewlines converts CRLF and bare CR to LF. Order matters:
// CRLF must be collapsed before the standalone CR replacement runs.
func normalizeNewlines(text string) string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")
	return text
}

// normalizeWhitespace applies, in order: newline normalization, space
// cleanup around newlines, space collapsing, newline collapsing
// (3+ down to 2, preserving paragraph breaks), and trimming.
func normalizeWhitespace(text string) string {
	if text == "" {
		return ""
	}
	text = normalizeNewlines(text)
	text = spaceAroundNewlineRe.ReplaceAllString(text, "\n")
	text = multipleSpacesRe.ReplaceAllString(text, " ")
	text = multipleNewlinesRe.ReplaceAllString(text, "\n\n")
	return strings.TrimSpace(text)
}
