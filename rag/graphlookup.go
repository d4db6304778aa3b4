package rag

import (
	"context"
	"strings"
)

// questionStopwords are capitalized words that are never entity names
// even though they appear capitalized at the start of a question.
var questionStopwords = map[string]bool{
	"Who": true, "What": true, "When": true, "Where": true, "Why": true,
	"How": true, "Did": true, "Does": true, "Was": true, "Were": true,
	"Is": true, "Are": true, "The": true, "A": true, "An": true,
	"To": true, "From": true, "With": true,
}

// candidateEntityTerms extracts capitalized, non-stopword substrings
// from a question as candidate proper-noun mentions. This is a
// structural reuse of the teacher's identifier-extraction shape
// (regex-free, word-boundary scan) repurposed for graph candidate
// lookup rather than synthesis follow-up.
func candidateEntityTerms(question string) []string {
	var terms []string
	for _, word := range strings.Fields(question) {
		clean := strings.Trim(word, "?.,!\"'")
		if clean == "" || questionStopwords[clean] {
			continue
		}
		if r := []rune(clean); len(r) > 0 && r[0] >= 'A' && r[0] <= 'Z' {
			terms = append(terms, clean)
		}
	}
	return terms
}

// matchPersonNodes finds person nodes whose name overlaps a candidate
// term case-insensitively, in either direction (node name contains
// the term, or the term contains the node name).
func matchPersonNodes(term string, nodes []GraphNodeRef) []GraphNodeRef {
	lower := strings.ToLower(term)
	var matches []GraphNodeRef
	for _, n := range nodes {
		if n.NodeType != "Person" {
			continue
		}
		name := strings.ToLower(n.Name)
		if strings.Contains(name, lower) || strings.Contains(lower, name) {
			matches = append(matches, n)
		}
	}
	return matches
}

// lookupGraphContext implements step 2: find graph nodes related to
// the question (by name overlap) or to the retrieved chunk set (by
// provenance), then collect every edge touching those nodes as a
// deduplicated fact triple. This is a read-only traversal — no
// inference is added beyond what an edge already states.
func lookupGraphContext(ctx context.Context, question string, retrieved []RetrievedChunk, reader GraphReader, caseID string) ([]GraphFact, error) {
	nodes, err := reader.NodesByCase(ctx, caseID)
	if err != nil {
		return nil, err
	}
	edges, err := reader.EdgesByCase(ctx, caseID)
	if err != nil {
		return nil, err
	}

	retrievedIDs := chunkIDs(retrieved)
	matchedNodeIDs := make(map[string]bool)

	matcher, hasMatcher := reader.(PersonNodeMatcher)
	for _, term := range candidateEntityTerms(question) {
		var matches []GraphNodeRef
		if hasMatcher {
			matches, err = matcher.MatchPersonNodes(ctx, caseID, term)
			if err != nil {
				return nil, err
			}
		} else {
			matches = matchPersonNodes(term, nodes)
		}
		for _, n := range matches {
			matchedNodeIDs[n.NodeID] = true
		}
	}
	for _, n := range nodes {
		if containsString(retrievedIDs, n.SourceChunkID) {
			matchedNodeIDs[n.NodeID] = true
		}
	}

	nameByID := make(map[string]string, len(nodes))
	for _, n := range nodes {
		nameByID[n.NodeID] = n.Name
	}

	type factKey struct{ subject, predicate, object string }
	seen := make(map[factKey]bool)
	var facts []GraphFact

	for _, e := range edges {
		if !matchedNodeIDs[e.FromNode] && !matchedNodeIDs[e.ToNode] {
			continue
		}
		subject := nameOrID(nameByID, e.FromNode)
		object := nameOrID(nameByID, e.ToNode)
		key := factKey{subject, e.EdgeType, object}
		if seen[key] {
			continue
		}
		seen[key] = true
		facts = append(facts, GraphFact{
			Subject:       subject,
			Predicate:     e.EdgeType,
			Object:        object,
			SourceChunkID: e.SourceChunkID,
		})
	}
	return facts, nil
}

func nameOrID(names map[string]string, nodeID string) string {
	if name, ok := names[nodeID]; ok && name != "" {
		return name
	}
	return nodeID
}
