package timeline

import (
	"fmt"
	"strings"
)

// generateEventID produces the deterministic id "EVT_{case}_{0004}",
// with the case ID's dashes and spaces folded to underscores so it's
// safe to use as an identifier segment.
func generateEventID(caseID string, index int) string {
	safe := strings.NewReplacer("-", "_", " ", "_").Replace(caseID)
	return fmt.Sprintf("EVT_%s_%04d", safe, index)
}

func calculateEventConfidence(chunkConfidence, timestampConfidence float64) float64 {
	if timestampConfidence < chunkConfidence {
		return timestampConfidence
	}
	return chunkConfidence
}

// chunkToEvents creates one event per timestamp found in the chunk.
// Timestamps with no resolvable ISO form are skipped — an
// unresolvable date contributes nothing to the ordered timeline.
func chunkToEvents(chunk ChunkInput, eventIndexStart int, caseID string) []Event {
	var events []Event
	i := 0
	for _, ts := range chunk.Timestamps {
		if ts.ISO == nil {
			continue
		}
		events = append(events, Event{
			EventID:      generateEventID(caseID, eventIndexStart+i),
			Timestamp:    *ts.ISO,
			ChunkID:      chunk.ChunkID,
			DocumentID:   chunk.DocumentID,
			CaseID:       caseID,
			PageRange:    chunk.PageRange,
			Description:  chunk.Text,
			Speaker:      chunk.Speaker,
			Confidence:   calculateEventConfidence(chunk.Confidence, ts.Confidence),
			RawTimestamp: ts.Original,
		})
		i++
	}
	return events
}

// BuildEvents converts every chunk's timestamps into timeline events,
// unsorted, with event IDs assigned in chunk order.
func BuildEvents(chunks []ChunkInput, caseID string) []Event {
	var all []Event
	index := 0
	for _, c := range chunks {
		events := chunkToEvents(c, index, caseID)
		all = append(all, events...)
		index += len(events)
	}
	return all
}
