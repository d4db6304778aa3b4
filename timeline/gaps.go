package timeline

// calculateGapSeverity classifies a gap by its duration against the
// configured thresholds.
func calculateGapSeverity(durationMinutes int, cfg Config) GapSeverity {
	if durationMinutes >= cfg.SignificantGapMinutes {
		return GapSignificant
	}
	return GapModerate
}

// DetectGaps reports silences between consecutive sorted events that
// meet or exceed GapThresholdMinutes. Events with an unparseable
// timestamp never anchor a gap on either side, since no duration can
// be computed against them.
func DetectGaps(events []Event, cfg Config) []Gap {
	sorted := SortEvents(events)

	var gaps []Gap
	for i := 0; i < len(sorted)-1; i++ {
		before, after := sorted[i], sorted[i+1]
		minutes, ok := durationMinutes(before.Timestamp, after.Timestamp)
		if !ok || minutes < cfg.GapThresholdMinutes {
			continue
		}
		gaps = append(gaps, Gap{
			Start:           before.Timestamp,
			End:             after.Timestamp,
			DurationMinutes: minutes,
			Severity:        calculateGapSeverity(minutes, cfg),
			BeforeEventID:   before.EventID,
			AfterEventID:    after.EventID,
		})
	}
	return gaps
}

// TotalGapDuration sums the reported gap durations in minutes.
func TotalGapDuration(gaps []Gap) int {
	total := 0
	for _, g := range gaps {
		total += g.DurationMinutes
	}
	return total
}

// LargestGap returns the gap with the greatest duration, or ok false
// if gaps is empty.
func LargestGap(gaps []Gap) (Gap, bool) {
	if len(gaps) == 0 {
		return Gap{}, false
	}
	largest := gaps[0]
	for _, g := range gaps[1:] {
		if g.DurationMinutes > largest.DurationMinutes {
			largest = g
		}
	}
	return largest, true
}
