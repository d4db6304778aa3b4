package rag

import (
	"context"
	"fmt"
	"sort"
)

// relevantTimelineEvents filters a case's timeline events down to
// those whose chunk was actually retrieved, sorted by timestamp.
func relevantTimelineEvents(events []TimelineEventRef, retrievedIDs []string) []TimelineEventRef {
	var relevant []TimelineEventRef
	for _, e := range events {
		if containsString(retrievedIDs, e.ChunkID) {
			relevant = append(relevant, e)
		}
	}
	sort.SliceStable(relevant, func(i, j int) bool {
		return relevant[i].Timestamp < relevant[j].Timestamp
	})
	return relevant
}

// gapLimitations reports any timeline gap that falls entirely inside
// the relevant events' time range. A gap outside that range says
// nothing about the evidence actually retrieved.
func gapLimitations(relevant []TimelineEventRef, gaps []TimelineGapRef) []string {
	if len(relevant) < 2 {
		return nil
	}
	start, end := relevant[0].Timestamp, relevant[len(relevant)-1].Timestamp

	var limitations []string
	for _, g := range gaps {
		if g.Start >= start && g.End <= end {
			limitations = append(limitations, fmt.Sprintf(
				"Timeline contains a %d-minute gap between %s and %s (%s)",
				g.DurationMinutes, g.Start, g.End, g.Severity))
		}
	}
	return limitations
}

// conflictLimitations reports any timeline conflict whose chunks
// overlap the relevant event set.
func conflictLimitations(relevant []TimelineEventRef, conflicts []TimelineConflictRef) []string {
	relevantChunks := make(map[string]bool, len(relevant))
	for _, e := range relevant {
		relevantChunks[e.ChunkID] = true
	}

	var limitations []string
	for _, c := range conflicts {
		overlaps := false
		for _, cid := range c.ConflictingChunkIDs {
			if relevantChunks[cid] {
				overlaps = true
				break
			}
		}
		if overlaps {
			limitations = append(limitations, fmt.Sprintf("Conflicting information at %s", c.Timestamp))
		}
	}
	return limitations
}

// timelineConsult implements step 3 in full: relevant events, gap
// limitations, and conflict limitations, kept separate because only
// gaps (not conflicts) feed the step-7 confidence penalty.
func timelineConsult(ctx context.Context, reader TimelineReader, caseID string, retrievedIDs []string) (relevant []TimelineEventRef, gapLims, conflictLims []string, err error) {
	events, err := reader.EventsByCase(ctx, caseID)
	if err != nil {
		return nil, nil, nil, err
	}
	relevant = relevantTimelineEvents(events, retrievedIDs)

	gaps, err := reader.GapsByCase(ctx, caseID)
	if err != nil {
		return relevant, nil, nil, err
	}
	conflicts, err := reader.ConflictsByCase(ctx, caseID)
	if err != nil {
		return relevant, nil, nil, err
	}

	return relevant, gapLimitations(relevant, gaps), conflictLimitations(relevant, conflicts), nil
}
