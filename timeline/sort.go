package timeline

import (
	"sort"
	"time"
)

// parseTimestamp parses an event's ISO-8601 timestamp. Unparseable
// strings return the zero time, which sorts before every real
// timestamp — matching the reference sorter's use of datetime.min as
// its fallback key.
func parseTimestamp(iso string) (time.Time, bool) {
	for _, layout := range []string{time.RFC3339, "2006-01-02T15:04:05", "2006-01-02"} {
		if t, err := time.Parse(layout, iso); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// SortEvents returns a new slice of events in chronological order.
// Equal or unparseable timestamps preserve their original relative
// order (stable sort), so the same input always produces the same
// output.
func SortEvents(events []Event) []Event {
	sorted := make([]Event, len(events))
	copy(sorted, events)

	sort.SliceStable(sorted, func(i, j int) bool {
		ti, _ := parseTimestamp(sorted[i].Timestamp)
		tj, _ := parseTimestamp(sorted[j].Timestamp)
		return ti.Before(tj)
	})
	return sorted
}

// IsChronologicallyOrdered reports whether events are already sorted,
// skipping pairs with an unparseable timestamp.
func IsChronologicallyOrdered(events []Event) bool {
	for i := 0; i < len(events)-1; i++ {
		ti, ok1 := parseTimestamp(events[i].Timestamp)
		tj, ok2 := parseTimestamp(events[i+1].Timestamp)
		if !ok1 || !ok2 {
			continue
		}
		if ti.After(tj) {
			return false
		}
	}
	return true
}

// TimeRange returns the earliest and latest event timestamps, or ok
// false if events is empty.
func TimeRange(events []Event) (earliest, latest string, ok bool) {
	if len(events) == 0 {
		return "", "", false
	}
	sorted := SortEvents(events)
	return sorted[0].Timestamp, sorted[len(sorted)-1].Timestamp, true
}

// durationMinutes returns the whole-minute duration between two ISO
// timestamps, or ok false if either fails to parse.
func durationMinutes(startISO, endISO string) (int, bool) {
	start, ok1 := parseTimestamp(startISO)
	end, ok2 := parseTimestamp(endISO)
	if !ok1 || !ok2 {
		return 0, false
	}
	return int(end.Sub(start).Minutes()), true
}
