package timeline

// DetectConflicts groups events by exact timestamp and flags any
// group attributed to two or more distinct, non-null speakers. It
// never decides which account is accurate — a conflict is reported,
// not resolved.
func DetectConflicts(events []Event, cfg Config) []Conflict {
	if !cfg.DetectSpeakerConflicts {
		return nil
	}

	byTimestamp := make(map[string][]Event)
	var order []string
	for _, e := range events {
		if _, seen := byTimestamp[e.Timestamp]; !seen {
			order = append(order, e.Timestamp)
		}
		byTimestamp[e.Timestamp] = append(byTimestamp[e.Timestamp], e)
	}

	var conflicts []Conflict
	for _, ts := range order {
		if c, ok := detectSpeakerConflict(ts, byTimestamp[ts]); ok {
			conflicts = append(conflicts, c)
		}
	}
	return conflicts
}

func detectSpeakerConflict(timestamp string, group []Event) (Conflict, bool) {
	seen := make(map[string]bool)
	var speakers []string
	for _, e := range group {
		if e.Speaker == nil || *e.Speaker == "" {
			continue
		}
		if !seen[*e.Speaker] {
			seen[*e.Speaker] = true
			speakers = append(speakers, *e.Speaker)
		}
	}
	if len(speakers) < 2 {
		return Conflict{}, false
	}

	var chunkIDs, eventIDs []string
	minConfidence := 1.0
	for _, e := range group {
		chunkIDs = append(chunkIDs, e.ChunkID)
		eventIDs = append(eventIDs, e.EventID)
		if e.Confidence < minConfidence {
			minConfidence = e.Confidence
		}
	}

	return Conflict{
		Timestamp:           timestamp,
		ConflictingChunkIDs: chunkIDs,
		ConflictingEventIDs: eventIDs,
		Reason:              "multiple distinct speakers reported at the same timestamp",
		Confidence:          minConfidence,
	}, true
}
