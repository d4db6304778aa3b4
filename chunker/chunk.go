package chunker

import (
	"fmt"
	"log/slog"
	"strings"
	"time"
)

// idGenerator produces deterministic chunk_id values in C-0001 format,
// scoped to a single document's chunking pass.
type idGenerator struct{ counter int }

func (g *idGenerator) next() string {
	g.counter++
	return fmt.Sprintf("C-%04d", g.counter)
}

// BuildChunks groups a document's cleaned blocks into meaning-preserving
// chunks. Deterministic: the same blocks and config always produce
// the same chunks, in the same order, with the same chunk_ids.
func BuildChunks(blocks []BlockInput, caseID, documentID string, cfg Config) []Chunk {
	start := time.Now()
	if cfg.MaxTokens <= 0 {
		cfg.MaxTokens = DefaultConfig().MaxTokens
	}
	if len(blocks) == 0 {
		return nil
	}

	groups := groupByBoundary(blocks)

	gen := &idGenerator{}
	var all []Chunk
	for _, g := range groups {
		all = append(all, chunkGroup(g, caseID, documentID, cfg, gen)...)
	}

	slog.Debug("chunker: document chunked",
		"document_id", documentID,
		"blocks", len(blocks),
		"chunks", len(all),
		"elapsed", time.Since(start))

	return all
}

func chunkGroup(g group, caseID, documentID string, cfg Config, gen *idGenerator) []Chunk {
	var chunks []Chunk

	var texts []string
	var blockIDs []string
	var confidences []float64
	tokenCount := 0

	flush := func() {
		if len(texts) == 0 {
			return
		}
		chunks = append(chunks, createChunk(gen.next(), caseID, documentID, g.key, texts, blockIDs, confidences))
		texts, blockIDs, confidences, tokenCount = nil, nil, nil, 0
	}

	for _, b := range g.blocks {
		blockTokens := CountTokens(b.CleanText)

		if blockTokens > cfg.MaxTokens {
			flush()
			chunks = append(chunks, splitOversizedBlock(b, g.key, caseID, documentID, cfg, gen)...)
			continue
		}

		if tokenCount+blockTokens > cfg.MaxTokens {
			flush()
		}

		texts = append(texts, b.CleanText)
		blockIDs = append(blockIDs, b.BlockID)
		confidences = append(confidences, b.Confidence)
		tokenCount += blockTokens
	}

	flush()
	return chunks
}

func createChunk(chunkID, caseID, documentID string, key boundaryKey, texts, blockIDs []string, confidences []float64) Chunk {
	combined := strings.Join(texts, " ")
	var speaker *string
	if key.speaker != "" {
		s := key.speaker
		speaker = &s
	}
	return Chunk{
		ChunkID:         chunkID,
		CaseID:          caseID,
		DocumentID:      documentID,
		PageRange:       [2]int{key.page, key.page},
		Speaker:         speaker,
		Text:            combined,
		SourceBlockIDs:  blockIDs,
		TokenCount:      CountTokens(combined),
		ChunkConfidence: aggregateConfidence(confidences),
	}
}

func splitOversizedBlock(b BlockInput, key boundaryKey, caseID, documentID string, cfg Config, gen *idGenerator) []Chunk {
	pieces := SplitByTokens(b.CleanText, cfg.MaxTokens)

	var speaker *string
	if key.speaker != "" {
		s := key.speaker
		speaker = &s
	}

	chunks := make([]Chunk, 0, len(pieces))
	for _, piece := range pieces {
		chunks = append(chunks, Chunk{
			ChunkID:         gen.next(),
			CaseID:          caseID,
			DocumentID:      documentID,
			PageRange:       [2]int{key.page, key.page},
			Speaker:         speaker,
			Text:            piece,
			SourceBlockIDs:  []string{b.BlockID},
			TokenCount:      CountTokens(piece),
			ChunkConfidence: clampConfidence(b.Confidence),
		})
	}
	return chunks
}
