package cleaning

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/evidencegraph/forensic/timegrammar"
)

// numericDatePattern spots an all-numeric day/month/year form such as
// 03/15/2024, whose day and month order cannot be told from the text.
var numericDatePattern = regexp.MustCompile(`\b\d{1,2}[/.\-]\d{1,2}[/.\-]\d{2,4}\b`)

// NormalizeTimestamp converts a raw timestamp span (found verbatim by
// P3) to ISO-8601, or returns a nil ISO with low confidence when the
// reference is ambiguous. referenceDate anchors time-only spans; the
// zero value means "no reference date available".
//
// This never consults time.Local or any OS locale setting — ambiguous
// numeric date forms are resolved with a fixed, locale-independent
// assumption and capped at confidence 0.6.
func NormalizeTimestamp(raw string, referenceDate time.Time) NormalizedTimestamp {
	original := strings.TrimSpace(raw)
	if original == "" {
		return NormalizedTimestamp{Original: raw, ISO: nil, Confidence: 0.0}
	}

	if timegrammar.IsAmbiguous(original) {
		return NormalizedTimestamp{Original: original, ISO: nil, Confidence: 0.1}
	}

	hasRef := !referenceDate.IsZero()
	ref := referenceDate
	if !hasRef {
		ref = time.Now().UTC()
	}

	if h, m, ok := timegrammar.MilitaryHourMinute(original); ok {
		dt := time.Date(ref.Year(), ref.Month(), ref.Day(), h, m, 0, 0, time.UTC)
		confidence := 0.7
		if !hasRef {
			confidence = 0.5
		}
		iso := dt.Format("2006-01-02T15:04:05")
		return NormalizedTimestamp{Original: original, ISO: &iso, Confidence: confidence}
	}

	if timegrammar.IsTimeOnly(original) {
		if h, m, s, ok := timegrammar.ClockTime(original); ok {
			dt := time.Date(ref.Year(), ref.Month(), ref.Day(), h, m, s, 0, time.UTC)
			confidence := 0.7
			if !hasRef {
				confidence = 0.5
			}
			iso := dt.Format("2006-01-02T15:04:05")
			return NormalizedTimestamp{Original: original, ISO: &iso, Confidence: confidence}
		}
	}

	if dt, ok := parseCalendar(original, ref.Year()); ok {
		confidence := calculateConfidence(original, true)
		if numericDatePattern.MatchString(original) && !timegrammar.HasUnambiguousDate(original) && confidence > 0.6 {
			confidence = 0.6
		}
		iso := dt.Format("2006-01-02T15:04:05")
		return NormalizedTimestamp{Original: original, ISO: &iso, Confidence: confidence}
	}

	return NormalizedTimestamp{Original: original, ISO: nil, Confidence: 0.0}
}

// calculateConfidence scores a successfully parsed timestamp: higher
// for unambiguous date formats, lower for time-only, with a penalty
// for approximation hedges ("around", "approximately", ...).
func calculateConfidence(raw string, parsed bool) float64 {
	if !parsed {
		return 0.0
	}
	confidence := 0.5
	switch {
	case timegrammar.HasUnambiguousDate(raw):
		confidence += 0.4
	case !timegrammar.IsTimeOnly(raw):
		confidence += 0.2
	default:
		confidence += 0.1
	}
	if timegrammar.IsApproximate(raw) {
		confidence -= 0.2
	}
	if confidence < 0 {
		confidence = 0
	}
	if confidence > 1 {
		confidence = 1
	}
	return confidence
}

var monthByName = map[string]time.Month{
	"january": time.January, "february": time.February, "march": time.March,
	"april": time.April, "may": time.May, "june": time.June,
	"july": time.July, "august": time.August, "september": time.September,
	"october": time.October, "november": time.November, "december": time.December,
	"jan": time.January, "feb": time.February, "mar": time.March, "apr": time.April,
	"jun": time.June, "jul": time.July, "aug": time.August, "sep": time.September,
	"sept": time.September, "oct": time.October, "nov": time.November, "dec": time.December,
}

// parseCalendar tries the fixed, locale-independent set of layouts
// this grammar supports: ISO date(time), full/abbreviated month name
// forms, and slash/dot numeric forms assumed month/day/year (never
// day/month/year — that choice is never inferred from locale).
func parseCalendar(raw string, assumedYear int) (time.Time, bool) {
	layouts := []string{
		"2006-01-02T15:04:05",
		"2006-01-02T15:04",
		"2006-01-02 15:04:05",
		"2006-01-02 15:04",
		"2006-01-02",
		"1/2/2006 15:04:05",
		"1/2/2006 15:04",
		"1/2/2006",
		"1/2/06",
		"1-2-2006",
		"1.2.2006",
		"January 2, 2006 3:04 PM",
		"January 2, 2006",
		"Jan 2, 2006",
		"January 2 2006",
		"2 January 2006",
		"2 Jan 2006",
		"January 2006",
	}
	for _, layout := range layouts {
		if dt, err := time.Parse(layout, raw); err == nil {
			return dt, true
		}
	}

	if dt, ok := parseNamedMonthNoYear(raw, assumedYear); ok {
		return dt, true
	}

	return time.Time{}, false
}

// parseNamedMonthNoYear handles "March 15" / "15 March" with no year,
// anchoring to assumedYear (derived from the reference date, never
// from locale or the system clock's year alone).
func parseNamedMonthNoYear(raw string, assumedYear int) (time.Time, bool) {
	fields := strings.Fields(strings.TrimRight(raw, ","))
	if len(fields) != 2 {
		return time.Time{}, false
	}

	tryOrder := [][2]string{{fields[0], fields[1]}, {fields[1], fields[0]}}
	for _, pair := range tryOrder {
		monthName := strings.ToLower(strings.TrimRight(pair[0], "."))
		dayStr := strings.TrimRight(pair[1], ".,stndrh")
		if m, ok := monthByName[monthName]; ok {
			var day int
			if _, err := fmt.Sscanf(dayStr, "%d", &day); err == nil && day >= 1 && day <= 31 {
				return time.Date(assumedYear, m, day, 0, 0, 0, 0, time.UTC), true
			}
		}
	}
	return time.Time{}, false
}
