package store

import (
	"context"

	"github.com/evidencegraph/forensic/rag"
)

// LogQuery appends one row to the query audit table. Every answered
// query is logged regardless of outcome, including INSUFFICIENT_EVIDENCE
// — the audit trail records what was asked and answered, not just the
// successful cases.
func (s *Store) LogQuery(ctx context.Context, caseID string, answer rag.Answer) error {
	sources, err := marshalJSON(answer.Sources)
	if err != nil {
		return err
	}
	limitations, err := marshalJSON(answer.Limitations)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO query_log (query_id, case_id, question, answer, confidence, sources, limitations)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, answer.QueryID, caseID, answer.Query, answer.Answer, answer.Confidence, sources, limitations)
	return err
}
