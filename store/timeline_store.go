package store

import (
	"context"
	"database/sql"

	"github.com/evidencegraph/forensic/rag"
	"github.com/evidencegraph/forensic/timeline"
)

// PutTimeline replaces a case's timeline rows wholesale. P9 is a pure
// function of that case's chunks, so a reconstruction run's output
// always supersedes whatever was stored before rather than merging
// into it.
func (s *Store) PutTimeline(ctx context.Context, result timeline.Result) error {
	return s.inTx(ctx, func(tx *sql.Tx) error {
		for _, table := range []string{"timeline_events", "timeline_gaps", "timeline_conflicts"} {
			if _, err := tx.ExecContext(ctx, "DELETE FROM "+table+" WHERE case_id = ?", result.CaseID); err != nil {
				return err
			}
		}
		for _, e := range result.Events {
			if _, err := tx.ExecContext(ctx, `
				INSERT INTO timeline_events (event_id, case_id, chunk_id, document_id, page_start, page_end, timestamp, raw_timestamp, speaker, description, confidence)
				VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
			`, e.EventID, result.CaseID, e.ChunkID, e.DocumentID, e.PageRange[0], e.PageRange[1],
				e.Timestamp, e.RawTimestamp, nullableStringPtr(e.Speaker), e.Description, e.Confidence); err != nil {
				return err
			}
		}
		for _, g := range result.Gaps {
			if _, err := tx.ExecContext(ctx, `
				INSERT INTO timeline_gaps (case_id, start_ts, end_ts, duration_minutes, severity, before_event_id, after_event_id)
				VALUES (?, ?, ?, ?, ?, ?, ?)
			`, result.CaseID, g.Start, g.End, g.DurationMinutes, string(g.Severity), g.BeforeEventID, g.AfterEventID); err != nil {
				return err
			}
		}
		for _, c := range result.Conflicts {
			chunkIDs, err := marshalJSON(c.ConflictingChunkIDs)
			if err != nil {
				return err
			}
			eventIDs, err := marshalJSON(c.ConflictingEventIDs)
			if err != nil {
				return err
			}
			if _, err := tx.ExecContext(ctx, `
				INSERT INTO timeline_conflicts (case_id, timestamp, conflicting_chunks, conflicting_event_ids, reason, confidence)
				VALUES (?, ?, ?, ?, ?, ?)
			`, result.CaseID, c.Timestamp, chunkIDs, eventIDs, c.Reason, c.Confidence); err != nil {
				return err
			}
		}
		return nil
	})
}

// TimelineReader adapts a Store to rag.TimelineReader.
type TimelineReader struct{ store *Store }

// NewTimelineReader wraps a Store for use wherever a rag.TimelineReader
// is wanted.
func NewTimelineReader(s *Store) *TimelineReader { return &TimelineReader{store: s} }

// EventsByCase implements rag.TimelineReader.
func (t *TimelineReader) EventsByCase(ctx context.Context, caseID string) ([]rag.TimelineEventRef, error) {
	rows, err := t.store.db.QueryContext(ctx, `
		SELECT event_id, timestamp, description, chunk_id FROM timeline_events WHERE case_id = ? ORDER BY timestamp
	`, caseID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var refs []rag.TimelineEventRef
	for rows.Next() {
		var r rag.TimelineEventRef
		if err := rows.Scan(&r.EventID, &r.Timestamp, &r.Description, &r.ChunkID); err != nil {
			return nil, err
		}
		refs = append(refs, r)
	}
	return refs, rows.Err()
}

// GapsByCase implements rag.TimelineReader.
func (t *TimelineReader) GapsByCase(ctx context.Context, caseID string) ([]rag.TimelineGapRef, error) {
	rows, err := t.store.db.QueryContext(ctx, `
		SELECT start_ts, end_ts, duration_minutes, severity FROM timeline_gaps WHERE case_id = ? ORDER BY start_ts
	`, caseID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var refs []rag.TimelineGapRef
	for rows.Next() {
		var r rag.TimelineGapRef
		if err := rows.Scan(&r.Start, &r.End, &r.DurationMinutes, &r.Severity); err != nil {
			return nil, err
		}
		refs = append(refs, r)
	}
	return refs, rows.Err()
}

// ConflictsByCase implements rag.TimelineReader.
func (t *TimelineReader) ConflictsByCase(ctx context.Context, caseID string) ([]rag.TimelineConflictRef, error) {
	rows, err := t.store.db.QueryContext(ctx, `
		SELECT timestamp, conflicting_chunks FROM timeline_conflicts WHERE case_id = ? ORDER BY timestamp
	`, caseID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var refs []rag.TimelineConflictRef
	for rows.Next() {
		var r rag.TimelineConflictRef
		var chunkIDs string
		if err := rows.Scan(&r.Timestamp, &chunkIDs); err != nil {
			return nil, err
		}
		_ = unmarshalJSON(chunkIDs, &r.ConflictingChunkIDs)
		refs = append(refs, r)
	}
	return refs, rows.Err()
}
