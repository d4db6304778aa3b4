package store

import (
	"context"

	"github.com/evidencegraph/forensic/rag"
	"github.com/evidencegraph/forensic/vectorindex"
)

// VectorSearcher adapts a vectorindex.Index to rag.VectorSearcher. The
// index stores only provenance (never text), so it's a distinct
// capability from ChunkTextProvider, which a Store satisfies directly.
type VectorSearcher struct{ index *vectorindex.Index }

// NewVectorSearcher wraps an Index for use wherever a
// rag.VectorSearcher is wanted.
func NewVectorSearcher(idx *vectorindex.Index) *VectorSearcher {
	return &VectorSearcher{index: idx}
}

// Search implements rag.VectorSearcher.
func (v *VectorSearcher) Search(ctx context.Context, queryVector []float32, caseID string, k int) ([]rag.VectorHit, error) {
	hits, err := v.index.Search(ctx, queryVector, caseID, k)
	if err != nil {
		return nil, err
	}
	out := make([]rag.VectorHit, len(hits))
	for i, h := range hits {
		out[i] = rag.VectorHit{
			ChunkID:    h.Record.ChunkID,
			DocumentID: h.Record.DocumentID,
			CaseID:     h.Record.CaseID,
			PageRange:  h.Record.PageRange,
			Speaker:    h.Record.Speaker,
			Confidence: h.Record.Confidence,
			Distance:   h.Distance,
		}
	}
	return out, nil
}
