// Package ner implements P6 entity annotation: a statistical labeler
// (an injected capability, black-box beyond its span output) merged
// with closed-vocabulary rule-based extractors for phone numbers,
// addresses, weapons, and evidence mentions. One chunk is processed
// independently; entities never reflect cross-chunk analysis.
package ner

// EntityType is the closed set of entity categories this stage emits.
type EntityType string

const (
	EntityPerson   EntityType = "PERSON"
	EntityWitness  EntityType = "WITNESS"
	EntitySuspect  EntityType = "SUSPECT"
	EntityLocation EntityType = "LOCATION"
	EntityTime     EntityType = "TIME"
	EntityEvidence EntityType = "EVIDENCE"
	EntityWeapon   EntityType = "WEAPON"
	EntityPhone    EntityType = "PHONE"
	EntityAddress  EntityType = "ADDRESS"
)

// Source records which extractor produced an entity.
type Source string

const (
	SourceStatistical Source = "STATISTICAL"
	SourceRuleBased   Source = "RULE_BASED"
)

// ChunkInput is the P5 chunk shape this stage consumes.
type ChunkInput struct {
	ChunkID    string
	DocumentID string
	CaseID     string
	PageRange  [2]int
	Text       string
	Speaker    *string
	Confidence float64
}

// ExtractedEntity is one entity span, with full provenance back to its
// source chunk.
type ExtractedEntity struct {
	EntityID   string     `json:"entity_id"`
	EntityType EntityType `json:"entity_type"`
	Text       string     `json:"text"`
	ChunkID    string     `json:"chunk_id"`
	DocumentID string     `json:"document_id"`
	CaseID     string     `json:"case_id"`
	PageRange  [2]int     `json:"page_range"`
	StartChar  int        `json:"start_char"`
	EndChar    int        `json:"end_char"`
	Confidence float64    `json:"confidence"`
	Source     Source     `json:"source"`
	Role       *string    `json:"role"`
}

// Result is the mandatory P6 output: one per input chunk.
type Result struct {
	ChunkID    string
	DocumentID string
	CaseID     string
	Entities   []ExtractedEntity
}

// Span is a labeled region of text with byte offsets.
type Span struct {
	Label     string
	Text      string
	StartChar int
	EndChar   int
}

// StatisticalLabeler is the injected black-box capability producing
// statistical entity spans — a named-entity recognition model whose
// weights are out of scope for this module. Implementations return
// spans labeled with their own vocabulary (e.g. spaCy-style PERSON,
// GPE, DATE); mapLabel translates that vocabulary into EntityType.
type StatisticalLabeler interface {
	Label(text string) ([]Span, error)
}
