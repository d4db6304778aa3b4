package ner

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// generateEntityID derives a deterministic id from the entity's full
// provenance tuple, so the same chunk processed twice yields the same
// entity_id. This replaces the non-deterministic uuid4 the reference
// extractor uses.
func generateEntityID(chunkID string, startChar, endChar int, entityType EntityType, text string) string {
	h := sha256.New()
	fmt.Fprintf(h, "%s|%d|%d|%s|%s", chunkID, startChar, endChar, entityType, text)
	sum := h.Sum(nil)
	return "ENT_" + hex.EncodeToString(sum)[:16]
}
