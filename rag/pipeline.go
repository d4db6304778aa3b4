package rag

import (
	"context"
	"time"

	"github.com/evidencegraph/forensic/llm"
)

// QueryOption overrides pipeline configuration for a single query.
type QueryOption func(*Config)

// WithTopK overrides the number of chunks retrieved for one query.
func WithTopK(k int) QueryOption {
	return func(c *Config) { c.TopK = k }
}

// WithTimeout bounds one query's total wall-clock budget. On expiry
// the pipeline returns INSUFFICIENT_EVIDENCE with an added
// "Query timed out" limitation, per the per-query cancellation
// contract.
func WithTimeout(d time.Duration) QueryOption {
	return func(c *Config) { c.queryTimeout = d }
}

// Pipeline is the P11 orchestrator: every injected capability is
// optional except the embedder, vector searcher, and chunk-text
// provider, so a caller can
// run retrieval-only answering without a graph store, timeline, or
// LLM wired in yet.
type Pipeline struct {
	embedder Embedder
	searcher VectorSearcher
	texts    ChunkTextProvider
	graph    GraphReader
	timeline TimelineReader
	llmProv  llm.Provider
	cfg      Config
}

// New builds a Pipeline. graph, timeline, and llmProv may be nil to
// disable their respective optional steps.
func New(embedder Embedder, searcher VectorSearcher, texts ChunkTextProvider, graph GraphReader, timeline TimelineReader, llmProv llm.Provider, cfg Config) *Pipeline {
	return &Pipeline{
		embedder: embedder,
		searcher: searcher,
		texts:    texts,
		graph:    graph,
		timeline: timeline,
		llmProv:  llmProv,
		cfg:      cfg,
	}
}

// Answer runs the full mandatory-order pipeline: retrieve, graph
// lookup, timeline consult, contradiction awareness, prompt assembly,
// LLM invocation, confidence, response assembly.
func (p *Pipeline) Answer(ctx context.Context, query Query, contradictions []Contradiction, opts ...QueryOption) (Answer, error) {
	cfg := p.cfg
	for _, opt := range opts {
		opt(&cfg)
	}

	if cfg.queryTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.queryTimeout)
		defer cancel()
	}

	// Step 1: retrieve.
	chunks, err := retrieve(ctx, query, p.embedder, p.searcher, p.texts, cfg)
	if err != nil {
		if ctx.Err() != nil {
			return timedOutAnswer(query.Question), nil
		}
		return Answer{}, err
	}
	if len(chunks) == 0 {
		return InsufficientEvidenceAnswer, nil
	}
	retrievedIDs := chunkIDs(chunks)

	// Step 2: graph lookup (optional).
	var facts []GraphFact
	if cfg.IncludeGraph && p.graph != nil {
		facts, err = lookupGraphContext(ctx, query.Question, chunks, p.graph, query.CaseID)
		if err != nil {
			facts = nil
		}
	}

	// Step 3: timeline consult (optional).
	var relevantEvents []TimelineEventRef
	var gapLims, conflictLims []string
	if cfg.IncludeTimeline && p.timeline != nil {
		var tErr error
		relevantEvents, gapLims, conflictLims, tErr = timelineConsult(ctx, p.timeline, query.CaseID, retrievedIDs)
		if tErr != nil {
			gapLims, conflictLims = nil, nil
		}
	}

	// Step 4: contradiction awareness (optional).
	var contradictionLims []string
	var hasCritical bool
	if cfg.IncludeContradictions && len(contradictions) > 0 {
		related := relatedContradictions(retrievedIDs, contradictions)
		contradictionLims = contradictionLimitations(related)
		hasCritical = hasCriticalContradiction(related)
	}

	allLimitations := formatLimitations(gapLims, contradictionLims, conflictLims)

	// Step 5: prompt assembly.
	context_ := buildEvidenceContext(chunks, facts, relevantEvents)
	context_ = truncateContext(context_, cfg.MaxContextTokens)

	// Step 6: LLM invocation.
	answerText := generateAnswer(ctx, p.llmProv, cfg.LLMModel, query.Question, context_, allLimitations)
	if ctx.Err() != nil {
		return timedOutAnswer(query.Question), nil
	}

	// Step 7: confidence.
	confidence := calculateConfidence(len(chunks), len(contradictionLims) > 0, len(gapLims) > 0, hasCritical)

	// Step 8: response assembly.
	sources := make([]SourceReference, len(chunks))
	for i, c := range chunks {
		sources[i] = SourceReference{
			ChunkID:    c.ChunkID,
			DocumentID: c.DocumentID,
			PageRange:  c.PageRange,
			Excerpt:    excerpt(c.Text, 200),
			Speaker:    c.Speaker,
			Timestamp:  c.Timestamp,
		}
	}

	return Answer{
		Answer:      answerText,
		Confidence:  confidence,
		Sources:     sources,
		Limitations: allLimitations,
		Query:       query.Question,
	}, nil
}

func excerpt(text string, maxChars int) string {
	if len(text) <= maxChars {
		return text
	}
	return text[:maxChars] + "..."
}

func timedOutAnswer(question string) Answer {
	a := InsufficientEvidenceAnswer
	a.Query = question
	a.Limitations = formatLimitations(a.Limitations, []string{"Query timed out"})
	return a
}
