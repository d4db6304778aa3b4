package ner

import "testing"

type fakeLabeler struct {
	spans []Span
	err   error
}

func (f fakeLabeler) Label(text string) ([]Span, error) {
	return f.spans, f.err
}

func TestExtractEntitiesPhone(t *testing.T) {
	chunk := ChunkInput{
		ChunkID: "C-0001", DocumentID: "D1", CaseID: "24-890-H",
		Text: "Call me at 555-123-4567 tomorrow.", Confidence: 1.0,
	}
	res, err := ExtractEntities(chunk, nil, DefaultConfig())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(res.Entities) != 1 {
		t.Fatalf("got %d entities, want 1", len(res.Entities))
	}
	e := res.Entities[0]
	if e.EntityType != EntityPhone || e.Source != SourceRuleBased {
		t.Errorf("entity = %+v", e)
	}
	if e.Confidence != phoneConfidence {
		t.Errorf("confidence = %v, want %v", e.Confidence, phoneConfidence)
	}
}

func TestExtractEntitiesWeaponAndEvidence(t *testing.T) {
	chunk := ChunkInput{
		ChunkID: "C-0002", DocumentID: "D1", CaseID: "24-890-H",
		Text: "The suspect had a knife and left a fingerprint on the counter.", Confidence: 1.0,
	}
	res, err := ExtractEntities(chunk, nil, DefaultConfig())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var sawWeapon, sawEvidence bool
	for _, e := range res.Entities {
		if e.EntityType == EntityWeapon {
			sawWeapon = true
		}
		if e.EntityType == EntityEvidence {
			sawEvidence = true
		}
	}
	if !sawWeapon || !sawEvidence {
		t.Errorf("entities = %+v, want both weapon and evidence present", res.Entities)
	}
}

func TestExtractEntitiesRuleBasedWinsOnOverlap(t *testing.T) {
	chunk := ChunkInput{
		ChunkID: "C-0003", DocumentID: "D1", CaseID: "24-890-H",
		Text: "555-123-4567", Confidence: 1.0,
	}
	labeler := fakeLabeler{spans: []Span{{Label: "PERSON", Text: "555-123-4567", StartChar: 0, EndChar: 12}}}
	res, err := ExtractEntities(chunk, labeler, DefaultConfig())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(res.Entities) != 1 {
		t.Fatalf("got %d entities, want 1 (rule-based wins)", len(res.Entities))
	}
	if res.Entities[0].Source != SourceRuleBased {
		t.Errorf("source = %v, want rule-based to win overlap", res.Entities[0].Source)
	}
}

func TestExtractEntitiesStatisticalRoleFromSpeaker(t *testing.T) {
	speaker := "WITNESS JANE DOE"
	chunk := ChunkInput{
		ChunkID: "C-0004", DocumentID: "D1", CaseID: "24-890-H",
		Text: "Jane Doe was present.", Speaker: &speaker, Confidence: 0.9,
	}
	labeler := fakeLabeler{spans: []Span{{Label: "PERSON", Text: "Jane Doe", StartChar: 0, EndChar: 8}}}
	res, err := ExtractEntities(chunk, labeler, DefaultConfig())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(res.Entities) != 1 {
		t.Fatalf("got %d entities, want 1", len(res.Entities))
	}
	e := res.Entities[0]
	if e.Role == nil || *e.Role != "WITNESS" {
		t.Errorf("role = %v, want WITNESS", e.Role)
	}
	wantConf := 0.85 * 0.9
	if e.Confidence != wantConf {
		t.Errorf("confidence = %v, want %v", e.Confidence, wantConf)
	}
}

func TestGenerateEntityIDDeterministic(t *testing.T) {
	id1 := generateEntityID("C-0001", 0, 5, EntityPerson, "hello")
	id2 := generateEntityID("C-0001", 0, 5, EntityPerson, "hello")
	if id1 != id2 {
		t.Errorf("entity ids not deterministic: %q != %q", id1, id2)
	}
	if len(id1) != len("ENT_")+16 {
		t.Errorf("entity id %q has unexpected length", id1)
	}
}

func TestRoleFromSpeakerCollapsesOfficerVariants(t *testing.T) {
	for _, speaker := range []string{"OFFICER SMITH", "DETECTIVE JONES", "DET. LEE"} {
		s := speaker
		role := RoleFromSpeaker(&s)
		if role == nil || *role != "OFFICER" {
			t.Errorf("speaker %q -> role %v, want OFFICER", speaker, role)
		}
	}
}

func TestExtractEntitiesNoMatches(t *testing.T) {
	chunk := ChunkInput{ChunkID: "C-0005", DocumentID: "D1", CaseID: "24-890-H", Text: "Nothing notable here.", Confidence: 1.0}
	res, err := ExtractEntities(chunk, nil, DefaultConfig())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(res.Entities) != 0 {
		t.Errorf("got %d entities, want 0", len(res.Entities))
	}
}
