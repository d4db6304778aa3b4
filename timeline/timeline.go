package timeline

// Reconstruct runs the full P9 pipeline over a case's chunks: build
// events from normalized timestamps, sort them chronologically, then
// detect gaps and speaker conflicts against the sorted order.
func Reconstruct(chunks []ChunkInput, caseID string, cfg Config) Result {
	events := SortEvents(BuildEvents(chunks, caseID))
	return Result{
		CaseID:    caseID,
		Events:    events,
		Gaps:      DetectGaps(events, cfg),
		Conflicts: DetectConflicts(events, cfg),
	}
}
