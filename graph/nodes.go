package graph

import "github.com/evidencegraph/forensic/ner"

// EntityToNode converts one P6 entity into a GraphNode. Entities whose
// type has no node mapping are skipped by the caller (BuildNodes), not
// here, so a single bad entity never aborts a batch.
func EntityToNode(e ner.ExtractedEntity) (GraphNode, bool) {
	nodeType, ok := NodeTypeForEntity(string(e.EntityType))
	if !ok {
		return GraphNode{}, false
	}

	properties := map[string]string{"name": e.Text}
	switch nodeType {
	case NodePerson:
		if e.Role != nil {
			properties["role"] = *e.Role
		}
	case NodeEvidence:
		properties["label"] = e.Text
		properties["evidence_type"] = string(e.EntityType)
	case NodeEvent:
		properties["description"] = e.Text
	}

	return GraphNode{
		NodeType: nodeType,
		NodeID:   GenerateNodeID(nodeType, e.Text, e.CaseID),
		CaseID:   e.CaseID,
		Properties: properties,
		Provenance: Provenance{
			SourceChunkID: e.ChunkID,
			DocumentID:    e.DocumentID,
			PageRange:     e.PageRange,
			Confidence:    e.Confidence,
		},
	}, true
}

// BuildNodes converts entities into graph nodes, deduplicating by
// node_id and keeping the first occurrence — deterministic because
// entities arrive in chunk order, and chunk order is itself
// deterministic.
func BuildNodes(entities []ner.ExtractedEntity) []GraphNode {
	seen := make(map[string]bool)
	var nodes []GraphNode
	for _, e := range entities {
		node, ok := EntityToNode(e)
		if !ok {
			continue
		}
		if seen[node.NodeID] {
			continue
		}
		seen[node.NodeID] = true
		nodes = append(nodes, node)
	}
	return nodes
}

// BuildDocumentNode creates the Document node anchoring a document's
// entities and chunks in the case graph. Documents always carry full
// confidence — they are a structural fact, not an extraction.
func BuildDocumentNode(documentID, caseID, chunkID string, pageRange [2]int) GraphNode {
	return GraphNode{
		NodeType:   NodeDocument,
		NodeID:     DocumentNodeID(documentID, caseID),
		CaseID:     caseID,
		Properties: map[string]string{"document_id": documentID},
		Provenance: Provenance{
			SourceChunkID: chunkID,
			DocumentID:    documentID,
			PageRange:     pageRange,
			Confidence:    1.0,
		},
	}
}
