// Package graph implements P8 knowledge graph construction: a
// deterministic, descriptive graph of Person/Evidence/Location/Event/
// Document nodes connected by explicit, regex-detected relationships.
// The graph states only what the source text says — it never infers
// causality, guilt, or cross-document links.
package graph

import "context"

// NodeType is the closed set of node labels this stage emits.
type NodeType string

const (
	NodePerson   NodeType = "Person"
	NodeEvidence NodeType = "Evidence"
	NodeLocation NodeType = "Location"
	NodeEvent    NodeType = "Event"
	NodeDocument NodeType = "Document"
)

// EdgeType is the closed set of relationship labels this stage emits.
// Every edge is a literal reading of the source text, never an
// inference about intent or culpability.
type EdgeType string

const (
	EdgeWitnessed     EdgeType = "WITNESSED"
	EdgeFoundIn       EdgeType = "FOUND_IN"
	EdgeOwns          EdgeType = "OWNS"
	EdgeAccompaniedBy EdgeType = "ACCOMPANIED_BY"
	EdgeArguedWith    EdgeType = "ARGUED_WITH"
)

// Provenance is the mandatory chain-of-custody tuple on every node and
// edge: where it came from, and how confident the extraction was.
type Provenance struct {
	SourceChunkID string  `json:"source_chunk_id"`
	DocumentID    string  `json:"document_id"`
	PageRange     [2]int  `json:"page_range"`
	Confidence    float64 `json:"confidence"`
}

// GraphNode is one entity made persistent in the graph, keyed by a
// deterministic node_id unique within its case.
type GraphNode struct {
	NodeType   NodeType          `json:"node_type"`
	NodeID     string            `json:"node_id"`
	CaseID     string            `json:"case_id"`
	Properties map[string]string `json:"properties"`
	Provenance Provenance        `json:"provenance"`
}

// GraphEdge is one explicit relationship between two nodes in the same
// case.
type GraphEdge struct {
	EdgeType   EdgeType   `json:"edge_type"`
	FromNode   string     `json:"from_node"`
	ToNode     string     `json:"to_node"`
	CaseID     string     `json:"case_id"`
	Provenance Provenance `json:"provenance"`
}

// BuildResult summarizes one case's graph construction pass.
type BuildResult struct {
	CaseID            string
	Nodes             []GraphNode
	Edges             []GraphEdge
	DocumentsProcessed int
	ChunksProcessed    int
	EntitiesProcessed  int
}

// Store persists nodes and edges and answers the lookups the graph
// stage and P11 retrieval need. A node upsert with a lower confidence
// than the stored value never lowers it — confidence only ratchets up
// on conflict, mirroring the reference store's MERGE semantics.
type Store interface {
	UpsertNode(ctx context.Context, node GraphNode) error
	UpsertEdge(ctx context.Context, edge GraphEdge) error
	NodesByCase(ctx context.Context, caseID string) ([]GraphNode, error)
	EdgesByCase(ctx context.Context, caseID string) ([]GraphEdge, error)
}
