// Package vectorindex implements P7 vector embedding and index storage:
// deterministic embedding of chunk text (never entity annotations, never
// a modified copy of the text) into a persisted similarity index with
// full provenance. Every vector_id is assigned in insertion order and
// matches its metadata record's position exactly.
package vectorindex

import "errors"

// Sentinel errors returned by this package. Kept local rather than
// imported from the top-level forensic package, which itself never
// needs to depend on a leaf package's errors. The engine facade does
// not test for them; it wraps an Open failure in its own
// ErrIndexIOFailure.
var (
	ErrIOFailure       = errors.New("vectorindex: storage I/O failure")
	ErrEmbeddingFailed = errors.New("vectorindex: embedding request failed")
)

// VectorRecord is the provenance record for one stored vector. It
// traces back to the source chunk so a retrieved vector can always be
// attributed to a specific document, page range, and confidence.
type VectorRecord struct {
	ChunkID    string  `json:"chunk_id"`
	VectorID   int     `json:"vector_id"`
	CaseID     string  `json:"case_id"`
	DocumentID string  `json:"document_id"`
	PageRange  [2]int  `json:"page_range"`
	Speaker    *string `json:"speaker,omitempty"`
	Confidence float64 `json:"confidence"`
}

// ChunkInput is the P5/P6 chunk shape this stage embeds. Text is
// embedded exactly as given; entity annotations play no part.
type ChunkInput struct {
	ChunkID    string
	CaseID     string
	DocumentID string
	PageRange  [2]int
	Speaker    *string
	Text       string
	Confidence float64
}

// EmbeddingResult confirms one chunk's embedding and placement.
type EmbeddingResult struct {
	ChunkID            string `json:"chunk_id"`
	VectorID           int    `json:"vector_id"`
	EmbeddingDimension int    `json:"embedding_dimension"`
}

// SearchHit is one nearest-neighbor result, joined back to its record.
type SearchHit struct {
	Record   VectorRecord
	Distance float64
}

// Config tunes index construction.
type Config struct {
	// Dimension is the embedding model's output width.
	Dimension int
	// IndexType names an index variant ("Flat" or "IVF"). It is stored
	// but not read: every search runs the same exact vec0 KNN query.
	IndexType string
}

// DefaultConfig matches the reference embedding model's output width.
func DefaultConfig() Config {
	return Config{Dimension: 384, IndexType: "Flat"}
}

// Embedder is the injected capability producing a chunk's vector
// representation. Swappable without touching the index or pipeline
// code, mirroring the way the chat model is injected into P11.
type Embedder interface {
	Embed(text string) ([]float32, error)
}
