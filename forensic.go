// Package forensic is the top-level engine facade: it wires the P3-P11
// pipeline packages together behind a single Ingest/Query surface,
// exactly the way the teacher's goreason.go wires chunker/graph/
// retrieval/reasoning together behind Engine. Unlike the teacher, stage
// order here follows the dependency graph spec.md §2 describes rather
// than a single linear parse-chunk-embed-graph sequence: P3 parsing
// feeds P4 cleaning, P5 chunks the cleaned blocks, P6 annotates the
// chunks, then P7/P8/P9 run concurrently off P5's output (P8 also
// reads P6's entities), and P11 consumes P7/P8/P9.
package forensic

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"github.com/evidencegraph/forensic/chunker"
	"github.com/evidencegraph/forensic/cleaning"
	"github.com/evidencegraph/forensic/graph"
	"github.com/evidencegraph/forensic/llm"
	"github.com/evidencegraph/forensic/ner"
	"github.com/evidencegraph/forensic/parsing"
	"github.com/evidencegraph/forensic/rag"
	"github.com/evidencegraph/forensic/store"
	"github.com/evidencegraph/forensic/timeline"
	"github.com/evidencegraph/forensic/vectorindex"
)

// Engine is the entry point for the forensic evidence-graph pipeline:
// Ingest runs one case document through P3-P9, Query runs one question
// through P11.
type Engine struct {
	cfg Config

	store    *store.Store
	vecIndex *vectorindex.Index

	chatLLM  llm.Provider
	embedLLM llm.Provider
	labeler  ner.StatisticalLabeler

	graphBuilder *graph.Builder
	pipeline     *rag.Pipeline
}

// New wires a complete Engine from configuration. labeler is the
// injected statistical NER capability (spec §4.4): a named-entity
// model whose weights are out of scope for this module, supplied by
// the caller exactly as the teacher's LLM providers are supplied via
// Config rather than constructed internally.
func New(cfg Config, labeler ner.StatisticalLabeler) (*Engine, error) {
	if labeler == nil {
		return nil, fmt.Errorf("%w: statistical labeler is required", ErrInvalidConfig)
	}

	dbPath := cfg.resolveStorageDir()
	s, err := store.New(dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening store: %w", err)
	}

	chatLLM, err := llm.NewProvider(llm.Config{
		Provider: cfg.Chat.Provider,
		Model:    cfg.Chat.Model,
		BaseURL:  cfg.Chat.BaseURL,
		APIKey:   cfg.Chat.APIKey,
	})
	if err != nil {
		s.Close()
		return nil, fmt.Errorf("%w: creating chat provider: %v", ErrLLMUnavailable, err)
	}

	embedLLM, err := llm.NewProvider(llm.Config{
		Provider: cfg.Embedding.Provider,
		Model:    cfg.Embedding.Model,
		BaseURL:  cfg.Embedding.BaseURL,
		APIKey:   cfg.Embedding.APIKey,
	})
	if err != nil {
		s.Close()
		return nil, fmt.Errorf("%w: creating embedding provider: %v", ErrLLMUnavailable, err)
	}

	vecDim := cfg.Vector.Dimension
	if vecDim == 0 {
		vecDim = 768
	}
	vecIndex, err := vectorindex.Open(filepath.Join(filepath.Dir(dbPath), "vectors"), vectorindex.Config{
		Dimension: vecDim,
		IndexType: cfg.Vector.IndexType,
	})
	if err != nil {
		s.Close()
		return nil, fmt.Errorf("%w: %v", ErrIndexIOFailure, err)
	}

	embedder := &providerEmbedder{provider: embedLLM}

	graphBuilder := graph.NewBuilder(s, cfg.Graph.Concurrency)

	pipeline := rag.New(
		embedder,
		store.NewVectorSearcher(vecIndex),
		s,
		store.NewGraphReader(s),
		store.NewTimelineReader(s),
		chatLLM,
		ragConfig(cfg),
	)

	return &Engine{
		cfg:          cfg,
		store:        s,
		vecIndex:     vecIndex,
		chatLLM:      chatLLM,
		embedLLM:     embedLLM,
		labeler:      labeler,
		graphBuilder: graphBuilder,
		pipeline:     pipeline,
	}, nil
}

// Close releases the store and vector index file handles.
func (e *Engine) Close() error {
	idxErr := e.vecIndex.Close()
	storeErr := e.store.Close()
	if storeErr != nil {
		return storeErr
	}
	return idxErr
}

// Store exposes the underlying persistence layer for diagnostic
// access, mirroring the teacher's Engine.Store accessor.
func (e *Engine) Store() *store.Store { return e.store }

func ragConfig(cfg Config) rag.Config {
	return rag.Config{
		TopK:                  cfg.RAG.TopK,
		MinScore:              cfg.RAG.MinScore,
		IncludeGraph:          cfg.RAG.IncludeGraph,
		IncludeTimeline:       cfg.RAG.IncludeTimeline,
		IncludeContradictions: cfg.RAG.IncludeContradictions,
		LLMModel:              cfg.Chat.Model,
		MaxContextTokens:      cfg.RAG.MaxContextTokens,
	}
}

// IngestOption configures a single Ingest call.
type IngestOption func(*ingestOptions)

type ingestOptions struct {
	forceReparse bool
}

// WithForceReparse re-runs every stage even if the document's content
// hash matches what was already ingested.
func WithForceReparse() IngestOption {
	return func(o *ingestOptions) { o.forceReparse = true }
}

// IngestResult summarizes one document's pipeline run.
type IngestResult struct {
	DocumentID     string
	Skipped        bool
	Chunks         int
	Entities       int
	GraphNodes     int
	GraphEdges     int
	TimelineEvents int
}

// Ingest runs a document through P3 structural parsing, P4 semantic
// cleaning, P5 logical chunking and P6 entity annotation in turn, then
// P7 vector embedding, P8 knowledge graph construction, and P9
// timeline reconstruction concurrently. P6 finishes before the
// concurrent stages start, since graph node derivation reads its
// entities.
func (e *Engine) Ingest(ctx context.Context, doc parsing.Document, opts ...IngestOption) (*IngestResult, error) {
	options := &ingestOptions{}
	for _, o := range opts {
		o(options)
	}

	hash := contentHash(doc)
	if !options.forceReparse {
		existing, err := e.store.GetDocument(ctx, doc.CaseID, doc.DocumentID)
		if err != nil {
			return nil, fmt.Errorf("checking existing document: %w", err)
		}
		if existing != nil && existing.ContentHash == hash && existing.Status == "ready" {
			return &IngestResult{DocumentID: doc.DocumentID, Skipped: true}, nil
		}
	}

	// Format and ParseMethod stay blank: this facade consumes
	// pre-extracted ContentBlocks rather than a raw file, so neither
	// concept applies here the way it does for the optional extract/
	// adapter upstream of it.
	if err := e.store.UpsertDocument(ctx, store.Document{
		DocumentID:  doc.DocumentID,
		CaseID:      doc.CaseID,
		Path:        doc.SourceFile,
		Filename:    filepath.Base(doc.SourceFile),
		ContentHash: hash,
		Status:      "processing",
	}); err != nil {
		return nil, fmt.Errorf("registering document: %w", err)
	}

	start := time.Now()
	slog.Info("ingest: parsing document", "document_id", doc.DocumentID, "case_id", doc.CaseID, "blocks", len(doc.Blocks))

	parsed := parsing.Parse(doc, parsing.Config{
		MinPageRepetition:      e.cfg.Parsing.MinPageRepetition,
		MaxSectionHeaderLength: 50,
	})
	cleaned := cleaning.Clean(parsed, cleaning.Config{
		ReferenceDate:      e.cfg.Cleaning.ReferenceDate,
		RemoveOCRArtifacts: true,
	})

	chunks := chunkDocument(cleaned, e.cfg.Chunking.MaxTokens)
	slog.Info("ingest: chunking complete", "document_id", doc.DocumentID, "chunks", len(chunks), "elapsed", time.Since(start).Round(time.Millisecond))

	storeChunks := make([]store.Chunk, len(chunks))
	for i, c := range chunks {
		storeChunks[i] = store.Chunk{
			ChunkID:         c.ChunkID,
			CaseID:          c.CaseID,
			DocumentID:      c.DocumentID,
			PageRange:       c.PageRange,
			Speaker:         c.Speaker,
			Text:            c.Text,
			TokenCount:      c.TokenCount,
			ChunkConfidence: c.ChunkConfidence,
			SourceBlockIDs:  c.SourceBlockIDs,
		}
	}
	if err := e.store.PutChunks(ctx, doc.CaseID, doc.DocumentID, storeChunks); err != nil {
		e.markDocumentStatus(ctx, doc.CaseID, doc.DocumentID, "error")
		return nil, fmt.Errorf("storing chunks: %w", err)
	}

	if len(chunks) == 0 {
		e.markDocumentStatus(ctx, doc.CaseID, doc.DocumentID, "ready")
		return &IngestResult{DocumentID: doc.DocumentID}, nil
	}

	entities, err := e.annotateEntities(chunks)
	if err != nil {
		e.markDocumentStatus(ctx, doc.CaseID, doc.DocumentID, "error")
		return nil, fmt.Errorf("annotating entities: %w", err)
	}

	var (
		wg           sync.WaitGroup
		vecErr       error
		graphErr     error
		timelineErr  error
		buildResult  graph.BuildResult
		timelineRows timeline.Result
	)

	wg.Add(3)
	go func() {
		defer wg.Done()
		vecErr = e.embedChunks(ctx, chunks)
	}()
	go func() {
		defer wg.Done()
		buildResult, graphErr = e.graphBuilder.Build(ctx, doc.CaseID, chunks, entities)
	}()
	go func() {
		defer wg.Done()
		timelineRows = timeline.Reconstruct(timelineChunkInputs(chunks, cleaned), doc.CaseID, timeline.Config{
			GapThresholdMinutes:    e.cfg.Timeline.GapThresholdMinutes,
			SignificantGapMinutes:  e.cfg.Timeline.SignificantGapMinutes,
			DetectSpeakerConflicts: true,
		})
		timelineErr = e.store.PutTimeline(ctx, timelineRows)
	}()
	wg.Wait()

	if vecErr != nil {
		e.markDocumentStatus(ctx, doc.CaseID, doc.DocumentID, "error")
		return nil, fmt.Errorf("embedding chunks: %w", vecErr)
	}
	if graphErr != nil {
		e.markDocumentStatus(ctx, doc.CaseID, doc.DocumentID, "error")
		return nil, fmt.Errorf("building graph: %w", graphErr)
	}
	if timelineErr != nil {
		e.markDocumentStatus(ctx, doc.CaseID, doc.DocumentID, "error")
		return nil, fmt.Errorf("storing timeline: %w", timelineErr)
	}

	e.markDocumentStatus(ctx, doc.CaseID, doc.DocumentID, "ready")
	slog.Info("ingest: document ready", "document_id", doc.DocumentID,
		"chunks", len(chunks), "entities", len(entities),
		"elapsed", time.Since(start).Round(time.Millisecond))

	return &IngestResult{
		DocumentID:     doc.DocumentID,
		Chunks:         len(chunks),
		Entities:       len(entities),
		GraphNodes:     len(buildResult.Nodes),
		GraphEdges:     len(buildResult.Edges),
		TimelineEvents: len(timelineRows.Events),
	}, nil
}

// QueryOption overrides RAG behavior for a single query.
type QueryOption func(*queryOptions)

type queryOptions struct {
	ragOpts        []rag.QueryOption
	contradictions []rag.Contradiction
}

// WithTopK overrides the number of chunks retrieved for this query.
func WithTopK(k int) QueryOption {
	return func(o *queryOptions) { o.ragOpts = append(o.ragOpts, rag.WithTopK(k)) }
}

// WithQueryTimeout bounds this query's wall-clock budget.
func WithQueryTimeout(d time.Duration) QueryOption {
	return func(o *queryOptions) { o.ragOpts = append(o.ragOpts, rag.WithTimeout(d)) }
}

// WithContradictions supplies externally known evidence contradictions
// for this query's contradiction-awareness step (spec §4.8 step 4).
// Contradiction determination is out of scope for this module — a
// human investigator or an upstream review tool decides these, never
// the pipeline itself.
func WithContradictions(contradictions ...rag.Contradiction) QueryOption {
	return func(o *queryOptions) { o.contradictions = append(o.contradictions, contradictions...) }
}

// Query runs one question through P11 evidence-bound answering.
func (e *Engine) Query(ctx context.Context, caseID, question string, opts ...QueryOption) (rag.Answer, error) {
	options := &queryOptions{}
	for _, o := range opts {
		o(options)
	}

	if e.cfg.RAG.QueryTimeout > 0 {
		options.ragOpts = append([]rag.QueryOption{rag.WithTimeout(e.cfg.RAG.QueryTimeout)}, options.ragOpts...)
	}

	answer, err := e.pipeline.Answer(ctx, rag.Query{CaseID: caseID, Question: question}, options.contradictions, options.ragOpts...)
	if err != nil {
		return rag.Answer{}, err
	}

	answer.QueryID = generateQueryID(caseID, question, answer.Confidence)
	if logErr := e.store.LogQuery(ctx, caseID, answer); logErr != nil {
		slog.Warn("query: audit log write failed", "case_id", caseID, "error", logErr)
	}
	return answer, nil
}

// annotateEntities runs P6 over every chunk in a document, merging the
// per-chunk results into one flat slice for the graph builder.
func (e *Engine) annotateEntities(chunks []chunker.Chunk) ([]ner.ExtractedEntity, error) {
	cfg := ner.DefaultConfig()
	var entities []ner.ExtractedEntity
	for _, c := range chunks {
		result, err := ner.ExtractEntities(ner.ChunkInput{
			ChunkID:    c.ChunkID,
			DocumentID: c.DocumentID,
			CaseID:     c.CaseID,
			PageRange:  c.PageRange,
			Text:       c.Text,
			Speaker:    c.Speaker,
			Confidence: c.ChunkConfidence,
		}, e.labeler, cfg)
		if err != nil {
			return nil, fmt.Errorf("chunk %s: %w", c.ChunkID, err)
		}
		entities = append(entities, result.Entities...)
	}
	return entities, nil
}

// embedChunks runs P7 over every chunk in a document, adding each to
// the case-partitioned vector index.
func (e *Engine) embedChunks(ctx context.Context, chunks []chunker.Chunk) error {
	for _, c := range chunks {
		_, err := e.vecIndex.Add(ctx, vectorindex.ChunkInput{
			ChunkID:    c.ChunkID,
			CaseID:     c.CaseID,
			DocumentID: c.DocumentID,
			PageRange:  c.PageRange,
			Speaker:    c.Speaker,
			Text:       c.Text,
			Confidence: c.ChunkConfidence,
		}, &providerEmbedder{provider: e.embedLLM})
		if err != nil {
			return err
		}
	}
	return nil
}

func (e *Engine) markDocumentStatus(ctx context.Context, caseID, documentID, status string) {
	d, err := e.store.GetDocument(ctx, caseID, documentID)
	if err != nil || d == nil {
		return
	}
	d.Status = status
	if err := e.store.UpsertDocument(ctx, *d); err != nil {
		slog.Warn("ingest: failed to update document status", "document_id", documentID, "status", status, "error", err)
	}
}

// chunkDocument runs P5 over a cleaned document's blocks. Header and
// footer blocks carry no evidentiary text of their own (they are
// non-destructive labels over running page furniture, not content), so
// they are excluded from chunk boundaries here rather than inside the
// chunker itself, which knows nothing about header/footer flags.
func chunkDocument(cleaned cleaning.Result, maxTokens int) []chunker.Chunk {
	blocks := make([]chunker.BlockInput, 0, len(cleaned.CleanedBlocks))
	for _, b := range cleaned.CleanedBlocks {
		if b.IsHeader || b.IsFooter {
			continue
		}
		blocks = append(blocks, chunker.BlockInput{
			BlockID:    b.BlockID,
			Page:       b.Page,
			CleanText:  b.CleanText,
			Speaker:    b.Speaker,
			Confidence: b.Confidence,
		})
	}
	cfg := chunker.Config{MaxTokens: maxTokens}
	if cfg.MaxTokens <= 0 {
		cfg = chunker.DefaultConfig()
	}
	return chunker.BuildChunks(blocks, cleaned.CaseID, cleaned.DocumentID, cfg)
}

// timelineChunkInputs pairs each chunk with the normalized timestamps
// of its source blocks, so P9 can materialize events without
// recomputing anything P4 already normalized.
func timelineChunkInputs(chunks []chunker.Chunk, cleaned cleaning.Result) []timeline.ChunkInput {
	tsByBlock := make(map[string][]cleaning.NormalizedTimestamp, len(cleaned.CleanedBlocks))
	for _, b := range cleaned.CleanedBlocks {
		tsByBlock[b.BlockID] = b.NormalizedTimestamps
	}

	inputs := make([]timeline.ChunkInput, len(chunks))
	for i, c := range chunks {
		var timestamps []timeline.NormalizedTimestamp
		for _, blockID := range c.SourceBlockIDs {
			for _, ts := range tsByBlock[blockID] {
				timestamps = append(timestamps, timeline.NormalizedTimestamp{
					Original:   ts.Original,
					ISO:        ts.ISO,
					Confidence: ts.Confidence,
				})
			}
		}
		inputs[i] = timeline.ChunkInput{
			ChunkID:    c.ChunkID,
			DocumentID: c.DocumentID,
			CaseID:     c.CaseID,
			PageRange:  c.PageRange,
			Text:       c.Text,
			Speaker:    c.Speaker,
			Confidence: c.ChunkConfidence,
			Timestamps: timestamps,
		}
	}
	return inputs
}

// providerEmbedder adapts an llm.Provider's batched, context-aware
// Embed to the single-text, context-free shape rag.Embedder and
// vectorindex.Embedder both expect — the same capability, injected
// differently at each layer's boundary.
type providerEmbedder struct {
	provider llm.Provider
}

func (p *providerEmbedder) Embed(text string) ([]float32, error) {
	vectors, err := p.provider.Embed(context.Background(), []string{text})
	if err != nil {
		return nil, err
	}
	if len(vectors) == 0 {
		return nil, fmt.Errorf("%w: embedding provider returned no vectors", ErrLLMRequestFailed)
	}
	return vectors[0], nil
}

// contentHash fingerprints a document's block IDs and block text so
// re-ingesting an unchanged document can be skipped. Block page numbers
// and confidences are not hashed, so documents that differ only in
// those produce the same hash.
func contentHash(doc parsing.Document) string {
	h := sha256.New()
	for _, b := range doc.Blocks {
		h.Write([]byte(b.BlockID))
		h.Write([]byte{0})
		h.Write([]byte(b.Text))
		h.Write([]byte{0})
	}
	return hex.EncodeToString(h.Sum(nil))
}

// generateQueryID mints a deterministic identifier for one answered
// query, stable for the same case/question/confidence triple so a
// replayed query produces the same audit-log key.
func generateQueryID(caseID, question string, confidence float64) string {
	h := sha256.New()
	h.Write([]byte(caseID))
	h.Write([]byte{0})
	h.Write([]byte(question))
	h.Write([]byte{0})
	fmt.Fprintf(h, "%.4f", confidence)
	return "Q-" + hex.EncodeToString(h.Sum(nil))[:16]
}
