package timeline

import "testing"

func iso(s string) *string { return &s }
func sp(s string) *string  { return &s }

func chunkWithTimestamp(chunkID, ts string, confidence float64) ChunkInput {
	return ChunkInput{
		ChunkID:    chunkID,
		DocumentID: "D1",
		PageRange:  [2]int{1, 1},
		Text:       "some statement text",
		Confidence: confidence,
		Timestamps: []NormalizedTimestamp{
			{Original: ts, ISO: iso(ts), Confidence: 0.9},
		},
	}
}

func TestBuildEventsSkipsUnresolvedTimestamps(t *testing.T) {
	chunks := []ChunkInput{
		{
			ChunkID:    "C-0001",
			Confidence: 0.9,
			Timestamps: []NormalizedTimestamp{
				{Original: "sometime last week", ISO: nil, Confidence: 0.2},
			},
		},
	}
	events := BuildEvents(chunks, "24-001")
	if len(events) != 0 {
		t.Fatalf("got %d events, want 0 for an unresolvable timestamp", len(events))
	}
}

func TestBuildEventsEventIDIsDeterministic(t *testing.T) {
	chunks := []ChunkInput{chunkWithTimestamp("C-0001", "2024-03-15T20:15:00", 0.9)}
	a := BuildEvents(chunks, "24-890-H")
	b := BuildEvents(chunks, "24-890-H")
	if a[0].EventID != b[0].EventID {
		t.Errorf("event ids differ across runs: %q vs %q", a[0].EventID, b[0].EventID)
	}
	if a[0].EventID != "EVT_24_890_H_0000" {
		t.Errorf("event id = %q, want EVT_24_890_H_0000", a[0].EventID)
	}
}

func TestSortEventsStableOnUnparseableTimestamps(t *testing.T) {
	events := []Event{
		{EventID: "E1", Timestamp: "not-a-date"},
		{EventID: "E2", Timestamp: "2024-03-15T08:00:00Z"},
		{EventID: "E3", Timestamp: "also-not-a-date"},
	}
	sorted := SortEvents(events)
	if sorted[0].EventID != "E1" || sorted[1].EventID != "E3" {
		t.Errorf("unparseable timestamps should sort first in original order, got %+v", sorted)
	}
	if sorted[2].EventID != "E2" {
		t.Errorf("parseable timestamp should sort last here, got %+v", sorted)
	}
}

func TestSortEventsChronological(t *testing.T) {
	events := []Event{
		{EventID: "E1", Timestamp: "2024-03-15T20:00:00Z"},
		{EventID: "E2", Timestamp: "2024-03-15T08:00:00Z"},
		{EventID: "E3", Timestamp: "2024-03-15T14:00:00Z"},
	}
	sorted := SortEvents(events)
	want := []string{"E2", "E3", "E1"}
	for i, id := range want {
		if sorted[i].EventID != id {
			t.Errorf("sorted[%d] = %s, want %s", i, sorted[i].EventID, id)
		}
	}
}

func TestDetectGapsThresholds(t *testing.T) {
	cfg := DefaultConfig()
	events := []Event{
		{EventID: "E1", Timestamp: "2024-03-15T08:00:00Z"},
		{EventID: "E2", Timestamp: "2024-03-15T08:59:00Z"}, // 59 min, below threshold
		{EventID: "E3", Timestamp: "2024-03-15T10:00:00Z"}, // 61 min from E2, MODERATE
		{EventID: "E4", Timestamp: "2024-03-15T12:30:00Z"}, // 150 min from E3, SIGNIFICANT
	}
	gaps := DetectGaps(events, cfg)
	if len(gaps) != 2 {
		t.Fatalf("got %d gaps, want 2", len(gaps))
	}
	if gaps[0].Severity != GapModerate {
		t.Errorf("first gap severity = %s, want MODERATE", gaps[0].Severity)
	}
	if gaps[1].Severity != GapSignificant {
		t.Errorf("second gap severity = %s, want SIGNIFICANT", gaps[1].Severity)
	}
}

func TestDetectGapsBoundaryAt120Minutes(t *testing.T) {
	cfg := DefaultConfig()
	events := []Event{
		{EventID: "E1", Timestamp: "2024-03-15T08:00:00Z"},
		{EventID: "E2", Timestamp: "2024-03-15T10:00:00Z"}, // exactly 120 min
	}
	gaps := DetectGaps(events, cfg)
	if len(gaps) != 1 {
		t.Fatalf("got %d gaps, want 1", len(gaps))
	}
	if gaps[0].Severity != GapSignificant {
		t.Errorf("120-minute gap severity = %s, want SIGNIFICANT (boundary is inclusive)", gaps[0].Severity)
	}
}

func TestDetectConflictsRequiresDistinctSpeakers(t *testing.T) {
	events := []Event{
		{EventID: "E1", Timestamp: "2024-03-15T08:00:00Z", ChunkID: "C1", Speaker: sp("Marcus Vane"), Confidence: 0.9},
		{EventID: "E2", Timestamp: "2024-03-15T08:00:00Z", ChunkID: "C2", Speaker: sp("Marcus Vane"), Confidence: 0.8},
	}
	conflicts := DetectConflicts(events, DefaultConfig())
	if len(conflicts) != 0 {
		t.Errorf("same speaker twice should not conflict, got %+v", conflicts)
	}
}

func TestDetectConflictsExcludesNullSpeakers(t *testing.T) {
	events := []Event{
		{EventID: "E1", Timestamp: "2024-03-15T08:00:00Z", ChunkID: "C1", Speaker: nil, Confidence: 0.9},
		{EventID: "E2", Timestamp: "2024-03-15T08:00:00Z", ChunkID: "C2", Speaker: nil, Confidence: 0.8},
	}
	conflicts := DetectConflicts(events, DefaultConfig())
	if len(conflicts) != 0 {
		t.Errorf("null speakers should never conflict, got %+v", conflicts)
	}
}

func TestDetectConflictsFlagsDistinctSpeakers(t *testing.T) {
	events := []Event{
		{EventID: "E1", Timestamp: "2024-03-15T08:00:00Z", ChunkID: "C1", Speaker: sp("Marcus Vane"), Confidence: 0.9},
		{EventID: "E2", Timestamp: "2024-03-15T08:00:00Z", ChunkID: "C2", Speaker: sp("Julian Cho"), Confidence: 0.7},
	}
	conflicts := DetectConflicts(events, DefaultConfig())
	if len(conflicts) != 1 {
		t.Fatalf("got %d conflicts, want 1", len(conflicts))
	}
	if conflicts[0].Confidence != 0.7 {
		t.Errorf("conflict confidence = %v, want 0.7 (min of conflicting events)", conflicts[0].Confidence)
	}
}

func TestReconstructOrdersBeforeDetection(t *testing.T) {
	chunks := []ChunkInput{
		chunkWithTimestamp("C-0002", "2024-03-15T20:00:00", 0.9),
		chunkWithTimestamp("C-0001", "2024-03-15T08:00:00", 0.9),
	}
	result := Reconstruct(chunks, "24-890-H", DefaultConfig())
	if len(result.Events) != 2 {
		t.Fatalf("got %d events, want 2", len(result.Events))
	}
	if result.Events[0].ChunkID != "C-0001" {
		t.Errorf("events not chronologically ordered: %+v", result.Events)
	}
}
