package rag

import "fmt"

// relatedContradictions finds contradictions naming any retrieved
// chunk on either side.
func relatedContradictions(retrievedIDs []string, contradictions []Contradiction) []Contradiction {
	var related []Contradiction
	for _, c := range contradictions {
		if containsString(retrievedIDs, c.ChunkAID) || containsString(retrievedIDs, c.ChunkBID) {
			related = append(related, c)
		}
	}
	return related
}

// contradictionLimitations converts related contradictions into
// limitation strings. A contradiction is reported exactly as found —
// never resolved, never suppressed.
func contradictionLimitations(related []Contradiction) []string {
	var limitations []string
	for _, c := range related {
		if c.Explanation != "" {
			limitations = append(limitations, fmt.Sprintf("Evidence contradiction (%s): %s", c.Severity, c.Explanation))
		} else {
			limitations = append(limitations, fmt.Sprintf("Evidence contradiction detected (%s)", c.Severity))
		}
	}
	return limitations
}

// hasCriticalContradiction reports whether any related contradiction
// is marked CRITICAL.
func hasCriticalContradiction(related []Contradiction) bool {
	for _, c := range related {
		if c.Severity == "CRITICAL" {
			return true
		}
	}
	return false
}
