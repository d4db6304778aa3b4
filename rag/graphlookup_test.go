package rag

import (
	"context"
	"testing"
)

func TestCandidateEntityTermsSkipsStopwords(t *testing.T) {
	terms := candidateEntityTerms("Who last spoke to Marcus Vane at the warehouse?")
	want := map[string]bool{"Marcus": true, "Vane": true}
	if len(terms) != len(want) {
		t.Fatalf("terms = %v, want %v", terms, want)
	}
	for _, term := range terms {
		if !want[term] {
			t.Errorf("unexpected candidate term %q", term)
		}
	}
}

func TestLookupGraphContextDedupesByTriple(t *testing.T) {
	nodes := []GraphNodeRef{
		{NodeType: "Person", NodeID: "Person:marcus:24-890-H", Name: "Marcus Vane", SourceChunkID: "C-0001"},
		{NodeType: "Person", NodeID: "Person:julian:24-890-H", Name: "Julian Cho", SourceChunkID: "C-0001"},
	}
	edges := []GraphEdgeRef{
		{EdgeType: "ARGUED_WITH", FromNode: "Person:marcus:24-890-H", ToNode: "Person:julian:24-890-H", SourceChunkID: "C-0001"},
		{EdgeType: "ARGUED_WITH", FromNode: "Person:marcus:24-890-H", ToNode: "Person:julian:24-890-H", SourceChunkID: "C-0002"},
	}
	reader := fakeGraph{nodes: nodes, edges: edges}

	facts, err := lookupGraphContext(context.Background(), "Who did Marcus argue with?", nil, reader, "24-890-H")
	if err != nil {
		t.Fatalf("lookupGraphContext: %v", err)
	}
	if len(facts) != 1 {
		t.Fatalf("got %d facts, want 1 (deduped by subject/predicate/object)", len(facts))
	}
	if facts[0].Subject != "Marcus Vane" || facts[0].Object != "Julian Cho" {
		t.Errorf("fact = %+v, want Marcus Vane ARGUED_WITH Julian Cho", facts[0])
	}
}

func TestLookupGraphContextIncludesNodesFromRetrievedChunks(t *testing.T) {
	nodes := []GraphNodeRef{
		{NodeType: "Evidence", NodeID: "Evidence:knife:24-890-H", Name: "knife", SourceChunkID: "C-0005"},
		{NodeType: "Person", NodeID: "Person:marcus:24-890-H", Name: "Marcus Vane", SourceChunkID: "C-0005"},
	}
	edges := []GraphEdgeRef{
		{EdgeType: "OWNS", FromNode: "Person:marcus:24-890-H", ToNode: "Evidence:knife:24-890-H", SourceChunkID: "C-0005"},
	}
	reader := fakeGraph{nodes: nodes, edges: edges}
	retrieved := []RetrievedChunk{{ChunkID: "C-0005"}}

	facts, err := lookupGraphContext(context.Background(), "What was found?", retrieved, reader, "24-890-H")
	if err != nil {
		t.Fatalf("lookupGraphContext: %v", err)
	}
	if len(facts) != 1 {
		t.Fatalf("got %d facts, want 1 from the retrieved chunk's nodes", len(facts))
	}
}
