package cleaning

import (
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// fixEncoding normalizes text to Unicode NFC and strips control,
// private-use, and surrogate characters other than tab/newline/CR.
// It never alters words or corrects spelling — encoding level only.
func fixEncoding(text string) string {
	if text == "" {
		return ""
	}

	normalized := norm.NFC.String(text)

	var b strings.Builder
	b.Grow(len(normalized))
	for _, r := range normalized {
		switch {
		case r == '\t' || r == '\n' || r == '\r':
			b.WriteRune(r)
		case unicode.IsControl(r):
			continue
		case unicode.In(r, unicode.Co, unicode.Cs):
			continue
		default:
			b.WriteRune(r)
		}
	}

	return removeReplacementChars(b.String())
}

// removeReplacementChars strips U+FFFD, which marks an encoding error
// in the source document rather than meaningful content.
func removeReplacementChars(text string) string {
	if text == "" {
		return ""
	}
	return strings.ReplaceAll(text, "�", "")
}
