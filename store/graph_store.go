package store

import (
	"context"
	"database/sql"
	"strings"

	"github.com/evidencegraph/forensic/graph"
	"github.com/evidencegraph/forensic/rag"
)

// UpsertNode implements graph.Store. A node's confidence only ratchets
// up on conflict, mirroring the reference store's MERGE semantics —
// re-deriving the same node from a lower-confidence extraction pass
// never overwrites a stronger one already on record.
func (s *Store) UpsertNode(ctx context.Context, n graph.GraphNode) error {
	props, err := marshalJSON(n.Properties)
	if err != nil {
		return err
	}
	name := nodeDisplayName(n)
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO graph_nodes (node_id, case_id, node_type, name, properties, source_chunk_id, document_id, page_start, page_end, confidence)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(case_id, node_id) DO UPDATE SET
			name = excluded.name,
			properties = excluded.properties,
			source_chunk_id = excluded.source_chunk_id,
			document_id = excluded.document_id,
			page_start = excluded.page_start,
			page_end = excluded.page_end,
			confidence = MAX(graph_nodes.confidence, excluded.confidence)
	`, n.NodeID, n.CaseID, string(n.NodeType), name, props,
		n.Provenance.SourceChunkID, n.Provenance.DocumentID, n.Provenance.PageRange[0], n.Provenance.PageRange[1], n.Provenance.Confidence)
	return err
}

// UpsertEdge implements graph.Store. Edges are keyed including their
// source_chunk_id, so the same relationship mentioned in two different
// chunks is recorded as two provenance rows rather than merged away.
func (s *Store) UpsertEdge(ctx context.Context, e graph.GraphEdge) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO graph_edges (case_id, edge_type, from_node, to_node, source_chunk_id, document_id, page_start, page_end, confidence)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(case_id, edge_type, from_node, to_node, source_chunk_id) DO UPDATE SET
			confidence = MAX(graph_edges.confidence, excluded.confidence)
	`, e.CaseID, string(e.EdgeType), e.FromNode, e.ToNode,
		e.Provenance.SourceChunkID, e.Provenance.DocumentID, e.Provenance.PageRange[0], e.Provenance.PageRange[1], e.Provenance.Confidence)
	return err
}

// NodesByCase implements graph.Store.
func (s *Store) NodesByCase(ctx context.Context, caseID string) ([]graph.GraphNode, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT node_id, node_type, name, properties, source_chunk_id, document_id, page_start, page_end, confidence
		FROM graph_nodes WHERE case_id = ? ORDER BY node_id
	`, caseID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var nodes []graph.GraphNode
	for rows.Next() {
		var n graph.GraphNode
		var nodeType, displayName string
		var props sql.NullString
		n.CaseID = caseID
		if err := rows.Scan(&n.NodeID, &nodeType, &displayName, &props,
			&n.Provenance.SourceChunkID, &n.Provenance.DocumentID,
			&n.Provenance.PageRange[0], &n.Provenance.PageRange[1], &n.Provenance.Confidence); err != nil {
			return nil, err
		}
		n.NodeType = graph.NodeType(nodeType)
		n.Properties = map[string]string{}
		if props.Valid {
			_ = unmarshalJSON(props.String, &n.Properties)
		}
		if len(n.Properties) == 0 {
			// properties column predates this node or failed to decode;
			// fall back to the indexed display name so the node is still
			// usable for graph-lookup matching.
			n.Properties["name"] = displayName
		}
		nodes = append(nodes, n)
	}
	return nodes, rows.Err()
}

// EdgesByCase implements graph.Store.
func (s *Store) EdgesByCase(ctx context.Context, caseID string) ([]graph.GraphEdge, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT edge_type, from_node, to_node, source_chunk_id, document_id, page_start, page_end, confidence
		FROM graph_edges WHERE case_id = ? ORDER BY from_node
	`, caseID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var edges []graph.GraphEdge
	for rows.Next() {
		var e graph.GraphEdge
		var edgeType string
		e.CaseID = caseID
		if err := rows.Scan(&edgeType, &e.FromNode, &e.ToNode,
			&e.Provenance.SourceChunkID, &e.Provenance.DocumentID,
			&e.Provenance.PageRange[0], &e.Provenance.PageRange[1], &e.Provenance.Confidence); err != nil {
			return nil, err
		}
		e.EdgeType = graph.EdgeType(edgeType)
		edges = append(edges, e)
	}
	return edges, rows.Err()
}

// GraphReader adapts a Store to rag.GraphReader and rag.PersonNodeMatcher,
// projecting graph_nodes/graph_edges rows directly into P11's read
// shapes rather than round-tripping through graph.GraphNode's full
// provenance, which P11 never needs. A distinct type (rather than
// methods on Store itself) because rag.GraphReader's NodesByCase and
// graph.Store's NodesByCase return different shapes under the same name.
type GraphReader struct{ store *Store }

// NewGraphReader wraps a Store for use wherever a rag.GraphReader is
// wanted.
func NewGraphReader(s *Store) *GraphReader { return &GraphReader{store: s} }

// NodesByCase implements rag.GraphReader.
func (g *GraphReader) NodesByCase(ctx context.Context, caseID string) ([]rag.GraphNodeRef, error) {
	rows, err := g.store.db.QueryContext(ctx, `
		SELECT node_id, node_type, name, source_chunk_id FROM graph_nodes WHERE case_id = ? ORDER BY node_id
	`, caseID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var refs []rag.GraphNodeRef
	for rows.Next() {
		var r rag.GraphNodeRef
		if err := rows.Scan(&r.NodeID, &r.NodeType, &r.Name, &r.SourceChunkID); err != nil {
			return nil, err
		}
		refs = append(refs, r)
	}
	return refs, rows.Err()
}

// EdgesByCase implements rag.GraphReader.
func (g *GraphReader) EdgesByCase(ctx context.Context, caseID string) ([]rag.GraphEdgeRef, error) {
	rows, err := g.store.db.QueryContext(ctx, `
		SELECT edge_type, from_node, to_node, source_chunk_id FROM graph_edges WHERE case_id = ? ORDER BY from_node
	`, caseID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var refs []rag.GraphEdgeRef
	for rows.Next() {
		var r rag.GraphEdgeRef
		if err := rows.Scan(&r.EdgeType, &r.FromNode, &r.ToNode, &r.SourceChunkID); err != nil {
			return nil, err
		}
		refs = append(refs, r)
	}
	return refs, rows.Err()
}

// MatchPersonNodes implements rag.PersonNodeMatcher: a person-node
// name search backed by the graph_nodes_fts index rather than the
// in-memory substring scan lookupGraphContext falls back to otherwise.
// FTS5's MATCH runs a token search; the in-memory contains-either-
// direction check still runs over the (small) FTS hit set to preserve
// the exact overlap semantics P11 expects.
func (g *GraphReader) MatchPersonNodes(ctx context.Context, caseID, term string) ([]rag.GraphNodeRef, error) {
	query := fts5Query(term)
	if query == "" {
		return nil, nil
	}
	rows, err := g.store.db.QueryContext(ctx, `
		SELECT g.node_id, g.node_type, g.name, g.source_chunk_id
		FROM graph_nodes_fts f
		JOIN graph_nodes g ON g.rowid = f.rowid
		WHERE f.case_id = ? AND f.name MATCH ? AND g.node_type = 'Person'
	`, caseID, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	lower := strings.ToLower(term)
	var refs []rag.GraphNodeRef
	for rows.Next() {
		var r rag.GraphNodeRef
		if err := rows.Scan(&r.NodeID, &r.NodeType, &r.Name, &r.SourceChunkID); err != nil {
			return nil, err
		}
		name := strings.ToLower(r.Name)
		if strings.Contains(name, lower) || strings.Contains(lower, name) {
			refs = append(refs, r)
		}
	}
	return refs, rows.Err()
}

// nodeDisplayName picks the property that best represents a node's
// name for search and fact formatting. Entity-derived nodes carry a
// literal "name"; Document nodes carry only "document_id".
func nodeDisplayName(n graph.GraphNode) string {
	for _, key := range []string{"name", "label", "description", "document_id"} {
		if v, ok := n.Properties[key]; ok && v != "" {
			return v
		}
	}
	return n.NodeID
}

// fts5Query escapes a term for use as an FTS5 MATCH query: quoted as a
// single token so punctuation in a candidate proper noun (stray
// possessives, stray quotes carried over from the source text) never
// breaks FTS5's query syntax.
func fts5Query(term string) string {
	term = strings.TrimSpace(term)
	if term == "" {
		return ""
	}
	return `"` + strings.ReplaceAll(term, `"`, `""`) + `"`
}
