// Package rag implements P11: evidence-bound retrieval-augmented
// answering. It speaks for the evidence — it never thinks, decides,
// or judges. Retrieval runs in a mandatory fixed order (vector search,
// graph lookup, timeline consult, contradiction awareness) and every
// claim in an answer must cite a [Source N].
package rag

import (
	"context"
	"time"
)

// Query is an investigator's question, scoped to one case.
type Query struct {
	CaseID   string
	Question string
}

// SourceReference cites one retrieved chunk backing an answer.
type SourceReference struct {
	ChunkID    string  `json:"chunk_id"`
	DocumentID string  `json:"document_id"`
	PageRange  [2]int  `json:"page_range"`
	Excerpt    string  `json:"excerpt"`
	Speaker    *string `json:"speaker,omitempty"`
	Timestamp  *string `json:"timestamp,omitempty"`
}

// Answer is the complete P11 response: an evidence-based answer with
// full source traceability and no hidden limitations.
type Answer struct {
	Answer      string            `json:"answer"`
	Confidence  float64           `json:"confidence"`
	Sources     []SourceReference `json:"sources"`
	Limitations []string          `json:"limitations"`
	Query       string            `json:"query,omitempty"`
	QueryID     string            `json:"query_id,omitempty"`
}

// InsufficientEvidenceAnswer is the canonical response when retrieval
// finds nothing to cite. Confidence is always 0; sources are always
// empty — citation enforcement requires the two agree.
var InsufficientEvidenceAnswer = Answer{
	Answer:      "The available evidence does not contain sufficient information to answer this question.",
	Confidence:  0.0,
	Sources:     nil,
	Limitations: []string{"Insufficient evidence"},
}

// RetrievedChunk is one chunk surfaced by vector search, joined back
// to its text and speaker for prompt assembly and citation.
type RetrievedChunk struct {
	ChunkID    string
	DocumentID string
	CaseID     string
	PageRange  [2]int
	Text       string
	Speaker    *string
	Timestamp  *string
	Score      float64
	Confidence float64
}

// GraphFact is one (subject, predicate, object) triple surfaced by the
// graph-lookup step. It is read-only context — never a new inference.
type GraphFact struct {
	Subject       string
	Predicate     string
	Object        string
	SourceChunkID string
}

// TimelineEventRef is one timeline event surfaced by the timeline
// consult step.
type TimelineEventRef struct {
	EventID     string
	Timestamp   string
	Description string
	ChunkID     string
}

// TimelineGapRef mirrors a timeline.Gap for the purpose of reporting
// it as a limitation, without importing the timeline package's full
// Event shape.
type TimelineGapRef struct {
	Start           string
	End             string
	DurationMinutes int
	Severity        string
}

// TimelineConflictRef mirrors a timeline.Conflict the same way.
type TimelineConflictRef struct {
	Timestamp           string
	ConflictingChunkIDs []string
}

// Contradiction is an externally supplied record naming two chunks
// that conflict. This stage reports contradictions; it never resolves
// which side is true.
type Contradiction struct {
	ChunkAID    string
	ChunkBID    string
	Severity    string // e.g. "CRITICAL", "MODERATE"
	Explanation string
}

// Embedder produces a query vector for retrieval. The same interface
// shape as vectorindex.Embedder, kept separate so this package never
// imports vectorindex's storage concerns.
type Embedder interface {
	Embed(text string) ([]float32, error)
}

// VectorSearcher is the read-only surface of the P7 index this stage
// needs: k-nearest-neighbor search pre-filtered to one case.
type VectorSearcher interface {
	Search(ctx context.Context, queryVector []float32, caseID string, k int) ([]VectorHit, error)
}

// VectorHit is one nearest-neighbor match, case-filtered, with the
// provenance fields needed to build a RetrievedChunk.
type VectorHit struct {
	ChunkID    string
	DocumentID string
	CaseID     string
	PageRange  [2]int
	Speaker    *string
	Confidence float64
	Distance   float64
}

// ChunkTextProvider resolves a chunk's verbatim text. The vector index
// stores only provenance, never text, so retrieval needs this
// injected lookup to assemble a citable excerpt.
type ChunkTextProvider interface {
	ChunkText(ctx context.Context, chunkID string) (string, error)
}

// GraphReader is the read-only graph surface this stage needs:
// listing a case's nodes and edges for in-memory lookup. Matches
// graph.Store's read methods without importing graph for its write
// path.
type GraphReader interface {
	NodesByCase(ctx context.Context, caseID string) ([]GraphNodeRef, error)
	EdgesByCase(ctx context.Context, caseID string) ([]GraphEdgeRef, error)
}

// GraphNodeRef mirrors graph.GraphNode's fields this stage reads.
type GraphNodeRef struct {
	NodeType      string
	NodeID        string
	Name          string
	SourceChunkID string
}

// GraphEdgeRef mirrors graph.GraphEdge's fields this stage reads.
type GraphEdgeRef struct {
	EdgeType      string
	FromNode      string
	ToNode        string
	SourceChunkID string
}

// PersonNodeMatcher is an optional capability a GraphReader may also
// implement: candidate-term matching against person-node names backed
// by a real index instead of the in-memory scan lookupGraphContext
// falls back to. lookupGraphContext upgrades to it automatically via a
// type assertion, so a GraphReader never has to implement it.
type PersonNodeMatcher interface {
	MatchPersonNodes(ctx context.Context, caseID, term string) ([]GraphNodeRef, error)
}

// TimelineReader is the read-only timeline surface this stage needs
// for one case: every event, gap, and conflict already computed by
// P9. This stage never recomputes them.
type TimelineReader interface {
	EventsByCase(ctx context.Context, caseID string) ([]TimelineEventRef, error)
	GapsByCase(ctx context.Context, caseID string) ([]TimelineGapRef, error)
	ConflictsByCase(ctx context.Context, caseID string) ([]TimelineConflictRef, error)
}

// Config tunes the retrieval and synthesis steps.
type Config struct {
	TopK                  int
	MinScore              float64
	IncludeGraph          bool
	IncludeTimeline       bool
	IncludeContradictions bool
	LLMModel              string
	MaxContextTokens      int

	// queryTimeout bounds one query's wall-clock budget. Set only via
	// WithTimeout, never directly — zero means no timeout.
	queryTimeout time.Duration
}

// DefaultConfig matches the reference pipeline's defaults.
func DefaultConfig() Config {
	return Config{
		TopK:                  5,
		MinScore:              0.0,
		IncludeGraph:          true,
		IncludeTimeline:       true,
		IncludeContradictions: true,
		LLMModel:              "gpt-4",
		MaxContextTokens:      4000,
	}
}
