package rag

import "math"

// calculateConfidence implements step 7's fixed formula. The
// multiplicative order is load-bearing: contradiction and gap
// penalties apply first, then the CRITICAL penalty applies again on
// top of the already-reduced value.
func calculateConfidence(sourcesCount int, hasContradictions, hasGaps, hasCritical bool) float64 {
	if sourcesCount == 0 {
		return 0.0
	}

	confidence := math.Min(0.9, 0.5+0.1*float64(sourcesCount))

	if hasContradictions {
		confidence *= 0.7
	}
	if hasGaps {
		confidence *= 0.9
	}
	if hasCritical {
		confidence *= 0.5
	}

	return math.Round(confidence*100) / 100
}
