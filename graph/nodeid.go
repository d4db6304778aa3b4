package graph

import "strings"

// entityToNodeType maps a P6 entity type to the node label it becomes
// in the graph (PHONE collapses into Evidence, ADDRESS into Location).
// An entity type with no entry here has no mapping and is skipped by
// the caller.
var entityToNodeType = map[string]NodeType{
	"PERSON":   NodePerson,
	"WITNESS":  NodePerson,
	"SUSPECT":  NodePerson,
	"LOCATION": NodeLocation,
	"ADDRESS":  NodeLocation,
	"TIME":     NodeEvent,
	"EVIDENCE": NodeEvidence,
	"WEAPON":   NodeEvidence,
	"PHONE":    NodeEvidence,
}

// NodeTypeForEntity resolves a P6 entity type to its node label.
func NodeTypeForEntity(entityType string) (NodeType, bool) {
	nt, ok := entityToNodeType[strings.ToUpper(entityType)]
	return nt, ok
}

// normalizeName collapses whitespace and case so the same entity
// mentioned with different spacing always produces the same node_id.
func normalizeName(name string) string {
	return strings.Join(strings.Fields(strings.ToLower(name)), " ")
}

// GenerateNodeID produces the deterministic node_id
// "{NodeType}:{normalized name}:{case_id}". The same entity text in
// the same case always resolves to the same node, across runs and
// across chunks.
func GenerateNodeID(nodeType NodeType, name, caseID string) string {
	return string(nodeType) + ":" + normalizeName(name) + ":" + caseID
}

// DocumentNodeID produces the deterministic node_id for a Document
// node.
func DocumentNodeID(documentID, caseID string) string {
	return string(NodeDocument) + ":" + documentID + ":" + caseID
}
