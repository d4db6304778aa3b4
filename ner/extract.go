package ner

import "sort"

// Config tunes entity extraction.
type Config struct {
	// MinStatisticalConfidence is the confidence floor for statistical
	// spans: a span scoring below it is discarded.
	MinStatisticalConfidence float64
}

// DefaultConfig returns the reference confidence floor.
func DefaultConfig() Config {
	return Config{MinStatisticalConfidence: 0.0}
}

// mapLabel translates a statistical labeler's own vocabulary into the
// closed EntityType set this stage emits. Labels with no mapping are
// dropped rather than guessed at.
func mapLabel(label string) (EntityType, bool) {
	switch label {
	case "PERSON", "PER":
		return EntityPerson, true
	case "GPE", "LOC", "FAC":
		return EntityLocation, true
	case "DATE", "TIME":
		return EntityTime, true
	default:
		return "", false
	}
}

// ExtractEntities produces the entities for one chunk: statistical
// spans from the injected labeler, merged with rule-based closed-
// vocabulary matches. Where a rule-based span overlaps a statistical
// span, the rule-based span always wins — the statistical model is a
// generalist labeler and the rule-based patterns (phone, address,
// weapon, evidence) encode the narrower, more reliable vocabulary.
func ExtractEntities(chunk ChunkInput, labeler StatisticalLabeler, cfg Config) (Result, error) {
	var statistical []ExtractedEntity

	if labeler != nil {
		spans, err := labeler.Label(chunk.Text)
		if err != nil {
			return Result{}, err
		}
		for _, sp := range spans {
			entityType, ok := mapLabel(sp.Label)
			if !ok {
				continue
			}
			conf := calculateStatisticalConfidence(chunk.Confidence)
			if conf < cfg.MinStatisticalConfidence {
				continue
			}
			var role *string
			if entityType == EntityPerson {
				role = RoleFromSpeaker(chunk.Speaker)
			}
			statistical = append(statistical, ExtractedEntity{
				EntityID:   generateEntityID(chunk.ChunkID, sp.StartChar, sp.EndChar, entityType, sp.Text),
				EntityType: entityType,
				Text:       sp.Text,
				ChunkID:    chunk.ChunkID,
				DocumentID: chunk.DocumentID,
				CaseID:     chunk.CaseID,
				PageRange:  chunk.PageRange,
				StartChar:  sp.StartChar,
				EndChar:    sp.EndChar,
				Confidence: conf,
				Source:     SourceStatistical,
				Role:       role,
			})
		}
	}

	var ruleBased []ExtractedEntity
	for _, m := range extractAllRuleBased(chunk.Text) {
		ruleBased = append(ruleBased, ExtractedEntity{
			EntityID:   generateEntityID(chunk.ChunkID, m.startChar, m.endChar, m.entityType, m.text),
			EntityType: m.entityType,
			Text:       m.text,
			ChunkID:    chunk.ChunkID,
			DocumentID: chunk.DocumentID,
			CaseID:     chunk.CaseID,
			PageRange:  chunk.PageRange,
			StartChar:  m.startChar,
			EndChar:    m.endChar,
			Confidence: calculateRuleConfidence(m.confidence, chunk.Confidence),
			Source:     SourceRuleBased,
		})
	}

	merged := mergeEntities(statistical, ruleBased)

	sort.SliceStable(merged, func(i, j int) bool {
		return merged[i].StartChar < merged[j].StartChar
	})

	return Result{
		ChunkID:    chunk.ChunkID,
		DocumentID: chunk.DocumentID,
		CaseID:     chunk.CaseID,
		Entities:   merged,
	}, nil
}

func spansOverlap(a, b ExtractedEntity) bool {
	return a.StartChar < b.EndChar && b.StartChar < a.EndChar
}

// mergeEntities keeps every rule-based entity, then adds statistical
// entities that don't overlap any rule-based one — rule-based spans
// always take priority on conflict.
func mergeEntities(statistical, ruleBased []ExtractedEntity) []ExtractedEntity {
	merged := make([]ExtractedEntity, 0, len(statistical)+len(ruleBased))
	merged = append(merged, ruleBased...)

	for _, s := range statistical {
		overlaps := false
		for _, r := range ruleBased {
			if spansOverlap(s, r) {
				overlaps = true
				break
			}
		}
		if !overlaps {
			merged = append(merged, s)
		}
	}
	return merged
}
