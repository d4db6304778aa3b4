//go:build cgo

package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/evidencegraph/forensic/graph"
	"github.com/evidencegraph/forensic/rag"
	"github.com/evidencegraph/forensic/timeline"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")
	s, err := New(dbPath)
	if err != nil {
		t.Fatalf("creating store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

// ---------------------------------------------------------------------------
// Schema / construction
// ---------------------------------------------------------------------------

func TestNewCreatesParentDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "sub", "dir")
	dbPath := filepath.Join(dir, "test.db")
	s, err := New(dbPath)
	if err != nil {
		t.Fatalf("creating store in nested dir: %v", err)
	}
	s.Close()
}

// ---------------------------------------------------------------------------
// Document CRUD
// ---------------------------------------------------------------------------

func sampleDoc(caseID, documentID string) Document {
	return Document{
		DocumentID:  documentID,
		CaseID:      caseID,
		Path:        "/cases/" + caseID + "/" + documentID + ".pdf",
		Filename:    documentID + ".pdf",
		Format:      "pdf",
		ContentHash: "abc123",
		ParseMethod: "native",
		Status:      "parsed",
	}
}

func TestUpsertAndGetDocument(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	doc := sampleDoc("24-890-H", "D1")
	if err := s.UpsertDocument(ctx, doc); err != nil {
		t.Fatalf("upserting document: %v", err)
	}

	got, err := s.GetDocument(ctx, "24-890-H", "D1")
	if err != nil {
		t.Fatalf("getting document: %v", err)
	}
	if got == nil || got.Filename != "D1.pdf" {
		t.Fatalf("got %+v, want filename D1.pdf", got)
	}
}

func TestUpsertDocumentOverwritesOnReParse(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	doc := sampleDoc("24-890-H", "D1")
	doc.Status = "pending"
	if err := s.UpsertDocument(ctx, doc); err != nil {
		t.Fatalf("upserting: %v", err)
	}
	doc.Status = "parsed"
	doc.ContentHash = "def456"
	if err := s.UpsertDocument(ctx, doc); err != nil {
		t.Fatalf("re-upserting: %v", err)
	}

	got, _ := s.GetDocument(ctx, "24-890-H", "D1")
	if got.Status != "parsed" || got.ContentHash != "def456" {
		t.Errorf("got %+v, want overwritten status/hash", got)
	}
}

func TestListDocumentsScopedByCase(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	s.UpsertDocument(ctx, sampleDoc("24-890-H", "D1"))
	s.UpsertDocument(ctx, sampleDoc("24-890-H", "D2"))
	s.UpsertDocument(ctx, sampleDoc("99-OTHER", "D1"))

	docs, err := s.ListDocuments(ctx, "24-890-H")
	if err != nil {
		t.Fatalf("listing documents: %v", err)
	}
	if len(docs) != 2 {
		t.Fatalf("got %d documents, want 2 (case isolation)", len(docs))
	}
}

// ---------------------------------------------------------------------------
// Chunks
// ---------------------------------------------------------------------------

func sp(s string) *string { return &s }

func TestPutChunksAndChunkText(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	s.UpsertDocument(ctx, sampleDoc("24-890-H", "D1"))

	chunks := []Chunk{
		{ChunkID: "C-0001", PageRange: [2]int{1, 1}, Speaker: sp("DETECTIVE MARCUS VANE"),
			Text: "I arrived at the scene at 8 PM.", TokenCount: 8, ChunkConfidence: 0.95,
			SourceBlockIDs: []string{"B-0001"}},
		{ChunkID: "C-0002", PageRange: [2]int{1, 2}, Text: "No further statements.", TokenCount: 3, ChunkConfidence: 0.9},
	}
	if err := s.PutChunks(ctx, "24-890-H", "D1", chunks); err != nil {
		t.Fatalf("putting chunks: %v", err)
	}

	text, err := s.ChunkText(ctx, "C-0001")
	if err != nil {
		t.Fatalf("chunk text: %v", err)
	}
	if text != "I arrived at the scene at 8 PM." {
		t.Errorf("got %q", text)
	}

	list, err := s.ListChunks(ctx, "24-890-H")
	if err != nil {
		t.Fatalf("listing chunks: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("got %d chunks, want 2", len(list))
	}
}

func TestPutChunksReplacesStaleRows(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	s.UpsertDocument(ctx, sampleDoc("24-890-H", "D1"))

	s.PutChunks(ctx, "24-890-H", "D1", []Chunk{
		{ChunkID: "C-0001", PageRange: [2]int{1, 1}, Text: "first pass", TokenCount: 2, ChunkConfidence: 0.9},
		{ChunkID: "C-0002", PageRange: [2]int{1, 1}, Text: "stale chunk", TokenCount: 2, ChunkConfidence: 0.9},
	})
	// A re-run with one fewer chunk must not leave the stale one behind.
	s.PutChunks(ctx, "24-890-H", "D1", []Chunk{
		{ChunkID: "C-0001", PageRange: [2]int{1, 1}, Text: "second pass", TokenCount: 2, ChunkConfidence: 0.9},
	})

	list, err := s.ListChunks(ctx, "24-890-H")
	if err != nil {
		t.Fatalf("listing chunks: %v", err)
	}
	if len(list) != 1 || list[0].Text != "second pass" {
		t.Fatalf("got %+v, want only the re-run's single chunk", list)
	}
}

// ---------------------------------------------------------------------------
// Graph store
// ---------------------------------------------------------------------------

func TestUpsertNodeConfidenceRatchetsUp(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	node := graph.GraphNode{
		NodeType:   graph.NodePerson,
		NodeID:     "Person:marcus:24-890-H",
		CaseID:     "24-890-H",
		Properties: map[string]string{"name": "Marcus Vane"},
		Provenance: graph.Provenance{SourceChunkID: "C-0001", DocumentID: "D1", PageRange: [2]int{1, 1}, Confidence: 0.6},
	}
	if err := s.UpsertNode(ctx, node); err != nil {
		t.Fatalf("upserting node: %v", err)
	}

	lower := node
	lower.Provenance.Confidence = 0.3
	if err := s.UpsertNode(ctx, lower); err != nil {
		t.Fatalf("upserting lower-confidence node: %v", err)
	}

	nodes, err := s.NodesByCase(ctx, "24-890-H")
	if err != nil {
		t.Fatalf("listing nodes: %v", err)
	}
	if len(nodes) != 1 || nodes[0].Provenance.Confidence != 0.6 {
		t.Fatalf("got %+v, want confidence to stay at 0.6 (ratchet never lowers it)", nodes)
	}
}

func TestGraphReaderMatchPersonNodes(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	s.UpsertNode(ctx, graph.GraphNode{
		NodeType: graph.NodePerson, NodeID: "Person:marcus:24-890-H", CaseID: "24-890-H",
		Properties: map[string]string{"name": "Marcus Vane"},
		Provenance: graph.Provenance{SourceChunkID: "C-0001", DocumentID: "D1", PageRange: [2]int{1, 1}, Confidence: 0.9},
	})
	s.UpsertNode(ctx, graph.GraphNode{
		NodeType: graph.NodeEvidence, NodeID: "Evidence:knife:24-890-H", CaseID: "24-890-H",
		Properties: map[string]string{"label": "knife"},
		Provenance: graph.Provenance{SourceChunkID: "C-0002", DocumentID: "D1", PageRange: [2]int{2, 2}, Confidence: 0.9},
	})

	reader := NewGraphReader(s)
	matches, err := reader.MatchPersonNodes(ctx, "24-890-H", "Marcus")
	if err != nil {
		t.Fatalf("matching: %v", err)
	}
	if len(matches) != 1 || matches[0].NodeID != "Person:marcus:24-890-H" {
		t.Fatalf("got %+v, want only the Person node matching Marcus", matches)
	}
}

func TestGraphReaderEdgesByCase(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	edge := graph.GraphEdge{
		EdgeType: graph.EdgeArguedWith, FromNode: "Person:marcus:24-890-H", ToNode: "Person:julian:24-890-H",
		CaseID:     "24-890-H",
		Provenance: graph.Provenance{SourceChunkID: "C-0001", DocumentID: "D1", PageRange: [2]int{1, 1}, Confidence: 0.8},
	}
	if err := s.UpsertEdge(ctx, edge); err != nil {
		t.Fatalf("upserting edge: %v", err)
	}

	reader := NewGraphReader(s)
	edges, err := reader.EdgesByCase(ctx, "24-890-H")
	if err != nil {
		t.Fatalf("listing edges: %v", err)
	}
	if len(edges) != 1 || edges[0].EdgeType != "ARGUED_WITH" {
		t.Fatalf("got %+v", edges)
	}
}

// ---------------------------------------------------------------------------
// Timeline store
// ---------------------------------------------------------------------------

func TestTimelineReaderRoundTrip(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	speaker := "DETECTIVE MARCUS VANE"
	result := timeline.Result{
		CaseID: "24-890-H",
		Events: []timeline.Event{
			{EventID: "EVT_24_890_H_0000", Timestamp: "2024-03-15T08:00:00Z", ChunkID: "C-0001",
				DocumentID: "D1", PageRange: [2]int{1, 1}, Description: "arrived", Speaker: &speaker, Confidence: 0.9,
				RawTimestamp: "8 AM"},
		},
		Gaps: []timeline.Gap{
			{Start: "2024-03-15T08:00:00Z", End: "2024-03-15T10:30:00Z", DurationMinutes: 150,
				Severity: timeline.GapSignificant, BeforeEventID: "EVT_24_890_H_0000", AfterEventID: "EVT_24_890_H_0001"},
		},
		Conflicts: []timeline.Conflict{
			{Timestamp: "2024-03-15T08:00:00Z", ConflictingChunkIDs: []string{"C-0001", "C-0002"},
				ConflictingEventIDs: []string{"EVT_24_890_H_0000", "EVT_24_890_H_0002"}, Reason: "multiple distinct speakers", Confidence: 0.7},
		},
	}
	if err := s.PutTimeline(ctx, result); err != nil {
		t.Fatalf("putting timeline: %v", err)
	}

	reader := NewTimelineReader(s)
	events, err := reader.EventsByCase(ctx, "24-890-H")
	if err != nil || len(events) != 1 {
		t.Fatalf("events = %+v, err = %v", events, err)
	}
	gaps, err := reader.GapsByCase(ctx, "24-890-H")
	if err != nil || len(gaps) != 1 {
		t.Fatalf("gaps = %+v, err = %v", gaps, err)
	}
	conflicts, err := reader.ConflictsByCase(ctx, "24-890-H")
	if err != nil || len(conflicts) != 1 || len(conflicts[0].ConflictingChunkIDs) != 2 {
		t.Fatalf("conflicts = %+v, err = %v", conflicts, err)
	}
}

func TestPutTimelineReplacesPriorRun(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	s.PutTimeline(ctx, timeline.Result{
		CaseID: "24-890-H",
		Events: []timeline.Event{{EventID: "EVT_1", Timestamp: "2024-03-15T08:00:00Z", ChunkID: "C-0001", DocumentID: "D1"}},
	})
	s.PutTimeline(ctx, timeline.Result{CaseID: "24-890-H"})

	reader := NewTimelineReader(s)
	events, err := reader.EventsByCase(ctx, "24-890-H")
	if err != nil {
		t.Fatalf("events: %v", err)
	}
	if len(events) != 0 {
		t.Fatalf("got %d events, want the second (empty) run to replace the first", len(events))
	}
}

// ---------------------------------------------------------------------------
// Query log
// ---------------------------------------------------------------------------

func TestLogQuery(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	answer := rag.Answer{
		Answer:      "Marcus Vane was present [Source 1].",
		Confidence:  0.7,
		Sources:     []rag.SourceReference{{ChunkID: "C-0001", DocumentID: "D1"}},
		Limitations: nil,
		Query:       "Who was present?",
		QueryID:     "Q-0001",
	}
	if err := s.LogQuery(ctx, "24-890-H", answer); err != nil {
		t.Fatalf("logging query: %v", err)
	}

	var count int
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM query_log WHERE case_id = ?", "24-890-H").Scan(&count); err != nil {
		t.Fatalf("counting query_log: %v", err)
	}
	if count != 1 {
		t.Fatalf("got %d query_log rows, want 1", count)
	}
}

// ---------------------------------------------------------------------------
// Stats
// ---------------------------------------------------------------------------

func TestDBStats(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	s.UpsertDocument(ctx, sampleDoc("24-890-H", "D1"))
	s.PutChunks(ctx, "24-890-H", "D1", []Chunk{
		{ChunkID: "C-0001", PageRange: [2]int{1, 1}, Text: "x", TokenCount: 1, ChunkConfidence: 0.9},
	})

	stats, err := s.DBStats(ctx, "24-890-H")
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	if stats.Documents != 1 || stats.Chunks != 1 {
		t.Fatalf("got %+v", stats)
	}
}
