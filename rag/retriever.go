package rag

import (
	"context"
	"fmt"
)

// retrieve runs step 1: embed the question, search the case's
// vectors, and drop anything under min_score. Cross-case chunks never
// reach this function in the first place — the searcher itself
// enforces that filter — but a non-matching case_id would be a bug,
// so nothing here ever trusts a hit's case_id beyond the searcher's
// guarantee.
func retrieve(ctx context.Context, query Query, embedder Embedder, searcher VectorSearcher, texts ChunkTextProvider, cfg Config) ([]RetrievedChunk, error) {
	vec, err := embedder.Embed(query.Question)
	if err != nil {
		return nil, fmt.Errorf("rag: embed question: %w", err)
	}

	topK := cfg.TopK
	if topK <= 0 {
		topK = 5
	}

	hits, err := searcher.Search(ctx, vec, query.CaseID, topK)
	if err != nil {
		return nil, fmt.Errorf("rag: vector search: %w", err)
	}

	var chunks []RetrievedChunk
	for _, h := range hits {
		score := 1.0 / (1.0 + h.Distance)
		if score < cfg.MinScore {
			continue
		}

		text, err := texts.ChunkText(ctx, h.ChunkID)
		if err != nil {
			continue
		}

		chunks = append(chunks, RetrievedChunk{
			ChunkID:    h.ChunkID,
			DocumentID: h.DocumentID,
			CaseID:     h.CaseID,
			PageRange:  h.PageRange,
			Text:       text,
			Speaker:    h.Speaker,
			Score:      score,
			Confidence: h.Confidence,
		})
	}
	return chunks, nil
}

func chunkIDs(chunks []RetrievedChunk) []string {
	ids := make([]string, len(chunks))
	for i, c := range chunks {
		ids[i] = c.ChunkID
	}
	return ids
}

func containsString(haystack []string, needle string) bool {
	for _, s := range haystack {
		if s == needle {
			return true
		}
	}
	return false
}
