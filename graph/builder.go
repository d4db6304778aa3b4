package graph

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/evidencegraph/forensic/chunker"
	"github.com/evidencegraph/forensic/ner"
)

const defaultConcurrency = 16

// Builder constructs and persists a case's knowledge graph from its
// chunks and entities. Extraction is pure regex pattern matching —
// there is no LLM call on this path, so the worker pool exists purely
// to parallelize per-chunk edge detection over large documents, not to
// hide network latency.
type Builder struct {
	store       Store
	concurrency int
}

// NewBuilder creates a graph builder backed by the given persistence
// layer.
func NewBuilder(s Store, concurrency int) *Builder {
	if concurrency <= 0 {
		concurrency = defaultConcurrency
	}
	return &Builder{store: s, concurrency: concurrency}
}

// Build constructs nodes and edges for one case's chunks and entities,
// persists them, and returns the full result. Each distinct document
// among the chunks contributes one Document node, built from the first
// chunk seen for it; no edge links chunks or entities to that node.
func (b *Builder) Build(ctx context.Context, caseID string, chunks []chunker.Chunk, entities []ner.ExtractedEntity) (BuildResult, error) {
	start := time.Now()

	nodes := BuildNodes(entities)

	documentSeen := make(map[string]bool)
	for _, c := range chunks {
		if documentSeen[c.DocumentID] {
			continue
		}
		documentSeen[c.DocumentID] = true
		nodes = append(nodes, BuildDocumentNode(c.DocumentID, caseID, c.ChunkID, c.PageRange))
	}

	edges, err := b.buildEdgesConcurrently(ctx, chunks, entities)
	if err != nil {
		return BuildResult{}, err
	}

	for _, n := range nodes {
		if err := b.store.UpsertNode(ctx, n); err != nil {
			return BuildResult{}, fmt.Errorf("graph.Build: upsert node %s: %w", n.NodeID, err)
		}
	}
	for _, e := range edges {
		if err := b.store.UpsertEdge(ctx, e); err != nil {
			return BuildResult{}, fmt.Errorf("graph.Build: upsert edge %s->%s: %w", e.FromNode, e.ToNode, err)
		}
	}

	slog.Debug("graph: build complete",
		"case_id", caseID, "nodes", len(nodes), "edges", len(edges),
		"chunks", len(chunks), "entities", len(entities), "elapsed", time.Since(start))

	return BuildResult{
		CaseID:             caseID,
		Nodes:              nodes,
		Edges:              edges,
		DocumentsProcessed: len(documentSeen),
		ChunksProcessed:    len(chunks),
		EntitiesProcessed:  len(entities),
	}, nil
}

// buildEdgesConcurrently runs per-chunk edge extraction across a
// worker pool, then deduplicates the combined result deterministically
// by iterating chunks back in their original order.
func (b *Builder) buildEdgesConcurrently(ctx context.Context, chunks []chunker.Chunk, entities []ner.ExtractedEntity) ([]GraphEdge, error) {
	if len(chunks) == 0 {
		return nil, nil
	}

	perChunk := make([][]GraphEdge, len(chunks))

	var wg sync.WaitGroup
	sem := make(chan struct{}, b.concurrency)
	for i, c := range chunks {
		wg.Add(1)
		go func(i int, c chunker.Chunk) {
			defer wg.Done()
			select {
			case sem <- struct{}{}:
				defer func() { <-sem }()
			case <-ctx.Done():
				return
			}
			perChunk[i] = ExtractEdgesFromChunk(c, entities)
		}(i, c)
	}
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	type key struct {
		from, to string
		t        EdgeType
	}
	seen := make(map[key]bool)
	var edges []GraphEdge
	for _, chunkEdges := range perChunk {
		for _, e := range chunkEdges {
			k := key{e.FromNode, e.ToNode, e.EdgeType}
			if seen[k] {
				continue
			}
			seen[k] = true
			edges = append(edges, e)
		}
	}
	return edges, nil
}
