package cleaning

import (
	"regexp"
	"strings"
)

var (
	isolatedArtifactRe = regexp.MustCompile(`(?m)(?:^|[ \t])[|~¬¦][ \t]*(?:$|[ \t])`)
	pageBreakRe        = regexp.MustCompile(`[\f\v]+`)

	repeatedPunctChars = "." + "…" + "-" + "_" + "="
)

// removeOCRArtifacts strips isolated OCR-noise characters (|, ~, ¬, ¦)
// when they stand alone surrounded by whitespace, leaving them intact
// when they are part of a word or table formatting.
func removeOCRArtifacts(text string) string {
	if text == "" {
		return ""
	}
	return isolatedArtifactRe.ReplaceAllStringFunc(text, func(m string) string {
		trimmed := strings.TrimFunc(m, func(r rune) bool { return r == ' ' || r == '\t' })
		if trimmed == "" {
			return m
		}
		return strings.Replace(m, trimmed, "", 1)
	})
}

// removeRepeatedPunctuation reduces runs of 5+ identical punctuation
// characters (., …, -, _, =) down to 3, handling OCR-duplicated glyphs.
// RE2 has no backreferences, so runs are found by manual scan.
func removeRepeatedPunctuation(text string) string {
	if text == "" {
		return ""
	}
	runes := []rune(text)
	var b strings.Builder
	b.Grow(len(text))

	i := 0
	for i < len(runes) {
		r := runes[i]
		if strings.ContainsRune(repeatedPunctChars, r) {
			j := i + 1
			for j < len(runes) && runes[j] == r {
				j++
			}
			runLen := j - i
			if runLen >= 5 {
				b.WriteString(strings.Repeat(string(r), 3))
			} else {
				b.WriteString(strings.Repeat(string(r), runLen))
			}
			i = j
			continue
		}
		b.WriteRune(r)
		i++
	}
	return b.String()
}

// normalizePageBreaks converts form-feed and vertical-tab characters
// to newlines.
func normalizePageBreaks(text string) string {
	if text == "" {
		return ""
	}
	return pageBreakRe.ReplaceAllString(text, "\n")
}

// removeNoise applies page-break normalization, isolated-artifact
// removal, and repeated-punctuation reduction in that order. It is
// deliberately conservative: when in doubt, it preserves the original.
func removeNoise(text string) string {
	if text == "" {
		return ""
	}
	text = normalizePageBreaks(text)
	text = removeOCRArtifacts(text)
	text = removeRepeatedPunctuation(text)
	return text
}
