package rag

import "testing"

func TestGapLimitationsOnlyInsideRelevantRange(t *testing.T) {
	relevant := []TimelineEventRef{
		{ChunkID: "C-0001", Timestamp: "2024-03-15T08:00:00Z"},
		{ChunkID: "C-0002", Timestamp: "2024-03-15T10:00:00Z"},
	}
	gaps := []TimelineGapRef{
		{Start: "2024-03-15T08:00:00Z", End: "2024-03-15T10:00:00Z", DurationMinutes: 120, Severity: "SIGNIFICANT"},
		{Start: "2024-03-15T11:00:00Z", End: "2024-03-15T14:00:00Z", DurationMinutes: 180, Severity: "SIGNIFICANT"},
	}
	lims := gapLimitations(relevant, gaps)
	if len(lims) != 1 {
		t.Fatalf("got %d limitations, want 1 (only the in-range gap)", len(lims))
	}
}

func TestConflictLimitationsRequireChunkOverlap(t *testing.T) {
	relevant := []TimelineEventRef{{ChunkID: "C-0001", Timestamp: "2024-03-15T08:00:00Z"}}
	conflicts := []TimelineConflictRef{
		{Timestamp: "2024-03-15T08:00:00Z", ConflictingChunkIDs: []string{"C-0001", "C-0002"}},
		{Timestamp: "2024-03-15T09:00:00Z", ConflictingChunkIDs: []string{"C-0009", "C-0010"}},
	}
	lims := conflictLimitations(relevant, conflicts)
	if len(lims) != 1 {
		t.Fatalf("got %d limitations, want 1 (only the overlapping conflict)", len(lims))
	}
}

func TestRelevantTimelineEventsSortsByTimestamp(t *testing.T) {
	events := []TimelineEventRef{
		{ChunkID: "C-0002", Timestamp: "2024-03-15T10:00:00Z"},
		{ChunkID: "C-0001", Timestamp: "2024-03-15T08:00:00Z"},
	}
	relevant := relevantTimelineEvents(events, []string{"C-0001", "C-0002"})
	if relevant[0].ChunkID != "C-0001" {
		t.Errorf("events not sorted chronologically: %+v", relevant)
	}
}
