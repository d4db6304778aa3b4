// Package timegrammar holds the regex grammar shared by structural
// parsing (raw extraction, no interpretation) and semantic cleaning
// (normalization to ISO-8601). Keeping both stages against the same
// pattern tables is what lets P4 classify a span the same way P3 found
// it, without either stage re-deriving the other's rules.
package timegrammar

import "regexp"

// Span is a raw match with its byte offsets in the source text.
type Span struct {
	Text  string
	Start int
	End   int
}

var (
	datetimePatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)\b((?:January|February|March|April|May|June|July|August|September|October|November|December)\s+\d{1,2}(?:st|nd|rd|th)?(?:\s*,?\s*\d{4})?\s+(?:at\s+)?\d{1,2}:\d{2}(?::\d{2})?\s*[AaPp][Mm])\b`),
		regexp.MustCompile(`\b(\d{1,2}[-/]\d{1,2}[-/]\d{2,4}\s+\d{1,2}:\d{2}(?::\d{2})?)\b`),
		regexp.MustCompile(`\b(\d{4}-\d{2}-\d{2}[T ]\d{2}:\d{2}(?::\d{2})?(?:[+-]\d{2}:?\d{2}|Z)?)\b`),
	}

	datePatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)\b(\d{1,2}(?:st|nd|rd|th)?\s+(?:January|February|March|April|May|June|July|August|September|October|November|December)(?:\s*,?\s*\d{4})?)\b`),
		regexp.MustCompile(`(?i)\b((?:January|February|March|April|May|June|July|August|September|October|November|December)\s+\d{1,2}(?:st|nd|rd|th)?(?:\s*,?\s*\d{4})?)\b`),
		regexp.MustCompile(`(?i)\b(\d{1,2}(?:st|nd|rd|th)?\s+(?:Jan|Feb|Mar|Apr|May|Jun|Jul|Aug|Sep|Sept|Oct|Nov|Dec)\.?(?:\s*,?\s*\d{4})?)\b`),
		regexp.MustCompile(`(?i)\b((?:Jan|Feb|Mar|Apr|May|Jun|Jul|Aug|Sep|Sept|Oct|Nov|Dec)\.?\s+\d{1,2}(?:st|nd|rd|th)?(?:\s*,?\s*\d{4})?)\b`),
		regexp.MustCompile(`\b(\d{4}-\d{2}-\d{2})\b`),
		regexp.MustCompile(`\b(\d{1,2}/\d{1,2}/\d{2,4})\b`),
		regexp.MustCompile(`\b(\d{1,2}[-/]\d{1,2}[-/]\d{2,4})\b`),
		regexp.MustCompile(`\b(\d{1,2}\.\d{1,2}\.\d{2,4})\b`),
		regexp.MustCompile(`(?i)\b((?:January|February|March|April|May|June|July|August|September|October|November|December)\s+\d{4})\b`),
	}

	timePatterns = []*regexp.Regexp{
		regexp.MustCompile(`\b(\d{1,2}:\d{2}(?::\d{2})?\s*[AaPp][Mm])\b`),
		regexp.MustCompile(`\b(\d{1,2}:\d{2}(?::\d{2})?)\b(?:[AaPp][Mm])?`),
		regexp.MustCompile(`(?i)\b(\d{4}\s*(?:hours?|hrs?))\b`),
		regexp.MustCompile(`(?i)\b(\d{1,2}\s+o'clock(?:\s*[AaPp][Mm])?)\b`),
		regexp.MustCompile(`(?i)\b((?:around|approximately|about|approx\.?)\s+\d{1,2}(?::\d{2})?\s*[AaPp][Mm])\b`),
	}

	relativePatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)\b((?:last|this|next)\s+(?:Monday|Tuesday|Wednesday|Thursday|Friday|Saturday|Sunday|week|month|year|night|morning|evening|afternoon))\b`),
		regexp.MustCompile(`(?i)\b(yesterday|today|tonight|tomorrow)\b`),
		regexp.MustCompile(`(?i)\b(the\s+(?:night|morning|afternoon|evening)\s+of)\b`),
	}

	// TimeOnly matches a string that is ONLY a time, no date component.
	TimeOnly = []*regexp.Regexp{
		regexp.MustCompile(`(?i)^\d{1,2}:\d{2}(?::\d{2})?\s*[AaPp][Mm]$`),
		regexp.MustCompile(`^\d{1,2}:\d{2}(?::\d{2})?$`),
		regexp.MustCompile(`(?i)^\d{4}\s*(?:hours?|hrs?)$`),
		regexp.MustCompile(`(?i)^\d{1,2}\s+o'clock(?:\s*[AaPp][Mm])?$`),
	}

	// Ambiguous matches a relative reference that cannot be resolved
	// without locale or temporal inference, neither of which this
	// grammar performs.
	Ambiguous = []*regexp.Regexp{
		regexp.MustCompile(`(?i)^(?:yesterday|today|tonight|tomorrow)$`),
		regexp.MustCompile(`(?i)^(?:last|this|next)\s+`),
		regexp.MustCompile(`(?i)^the\s+(?:night|morning|afternoon|evening)\s+of$`),
		regexp.MustCompile(`(?i)^(?:around|approximately|about|approx\.?)\s+`),
	}

	// UnambiguousDate matches date formats that carry year + month
	// precision unambiguously (ISO, or a full month name with year).
	UnambiguousDate = []*regexp.Regexp{
		regexp.MustCompile(`^\d{4}-\d{2}-\d{2}`),
		regexp.MustCompile(`(?i)(?:January|February|March|April|May|June|July|August|September|October|November|December)\s+\d{1,2}(?:st|nd|rd|th)?,?\s+\d{4}`),
	}

	militaryRe    = regexp.MustCompile(`(?i)^(\d{4})\s*(?:hours?|hrs?)$`)
	timeOfDayRe   = regexp.MustCompile(`(?i)^(\d{1,2}):(\d{2})(?::(\d{2}))?\s*([AaPp][Mm])?$`)
	approximateRe = regexp.MustCompile(`(?i)(?:around|approximately|about|approx\.?)`)
)

// Extract finds every timestamp mention in text, in order of
// appearance, preferring the longer match when two candidates overlap.
// It performs no interpretation: spans are returned exactly as found.
func Extract(text string) []Span {
	if text == "" {
		return nil
	}

	var allPatterns []*regexp.Regexp
	allPatterns = append(allPatterns, datetimePatterns...)
	allPatterns = append(allPatterns, datePatterns...)
	allPatterns = append(allPatterns, timePatterns...)
	allPatterns = append(allPatterns, relativePatterns...)

	type match struct {
		start, end int
		text       string
	}
	var found []match

	for _, p := range allPatterns {
		for _, loc := range p.FindAllStringSubmatchIndex(text, -1) {
			start, end := loc[0], loc[1]
			if len(loc) >= 4 && loc[2] >= 0 {
				start, end = loc[2], loc[3]
			}
			candidateText := text[start:end]

			overlapIdx := -1
			for i, m := range found {
				if !(end <= m.start || start >= m.end) {
					overlapIdx = i
					break
				}
			}
			if overlapIdx == -1 {
				found = append(found, match{start, end, candidateText})
				continue
			}
			existing := found[overlapIdx]
			if (end - start) > (existing.end - existing.start) {
				found[overlapIdx] = match{start, end, candidateText}
			}
		}
	}

	spans := make([]Span, 0, len(found))
	for _, m := range found {
		spans = append(spans, Span{Text: trimSpace(m.text), Start: m.start, End: m.end})
	}

	// Stable sort by start offset, preserving discovery order for ties.
	for i := 1; i < len(spans); i++ {
		for j := i; j > 0 && spans[j-1].Start > spans[j].Start; j-- {
			spans[j-1], spans[j] = spans[j], spans[j-1]
		}
	}
	return spans
}

func trimSpace(s string) string {
	start, end := 0, len(s)
	for start < end && isSpace(s[start]) {
		start++
	}
	for end > start && isSpace(s[end-1]) {
		end--
	}
	return s[start:end]
}

func isSpace(b byte) bool {
	return b == ' ' || b == '\t' || b == '\n' || b == '\r'
}

// IsTimeOnly reports whether raw is a bare time with no date component.
func IsTimeOnly(raw string) bool {
	for _, p := range TimeOnly {
		if p.MatchString(raw) {
			return true
		}
	}
	return false
}

// IsAmbiguous reports whether raw is a relative reference that cannot
// be resolved deterministically.
func IsAmbiguous(raw string) bool {
	for _, p := range Ambiguous {
		if p.MatchString(raw) {
			return true
		}
	}
	return false
}

// HasUnambiguousDate reports whether raw contains a year-and-month
// precise date form (ISO, or full month name plus year).
func HasUnambiguousDate(raw string) bool {
	for _, p := range UnambiguousDate {
		if p.MatchString(raw) {
			return true
		}
	}
	return false
}

// IsApproximate reports whether raw carries an approximation hedge
// ("around", "approximately", ...).
func IsApproximate(raw string) bool {
	return approximateRe.MatchString(raw)
}

// MilitaryHourMinute parses a "HHMM hours"/"HHMM hrs" span into hour
// and minute. ok is false if raw isn't military format or the values
// are out of range.
func MilitaryHourMinute(raw string) (hour, minute int, ok bool) {
	m := militaryRe.FindStringSubmatch(raw)
	if m == nil {
		return 0, 0, false
	}
	digits := m[1]
	h := int(digits[0]-'0')*10 + int(digits[1]-'0')
	mi := int(digits[2]-'0')*10 + int(digits[3]-'0')
	if h < 0 || h > 23 || mi < 0 || mi > 59 {
		return 0, 0, false
	}
	return h, mi, true
}

// ClockTime parses a "H:MM[:SS] [AM/PM]" span into hour, minute, second.
func ClockTime(raw string) (hour, minute, second int, ok bool) {
	m := timeOfDayRe.FindStringSubmatch(raw)
	if m == nil {
		return 0, 0, 0, false
	}
	h := atoi(m[1])
	mi := atoi(m[2])
	s := 0
	if m[3] != "" {
		s = atoi(m[3])
	}
	if ampm := m[4]; ampm != "" {
		upper := upperASCII(ampm)
		if upper == "PM" && h != 12 {
			h += 12
		} else if upper == "AM" && h == 12 {
			h = 0
		}
	}
	if h < 0 || h > 23 || mi < 0 || mi > 59 || s < 0 || s > 59 {
		return 0, 0, 0, false
	}
	return h, mi, s, true
}

func atoi(s string) int {
	n := 0
	for i := 0; i < len(s); i++ {
		n = n*10 + int(s[i]-'0')
	}
	return n
}

func upperASCII(s string) string {
	b := []byte(s)
	for i, c := range b {
		if c >= 'a' && c <= 'z' {
			b[i] = c - 32
		}
	}
	return string(b)
}
