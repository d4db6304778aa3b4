package forensic

import (
	"testing"

	"github.com/evidencegraph/forensic/chunker"
	"github.com/evidencegraph/forensic/cleaning"
	"github.com/evidencegraph/forensic/parsing"
)

func TestContentHashStableAcrossCalls(t *testing.T) {
	doc := parsing.Document{
		DocumentID: "doc-1",
		CaseID:     "case-1",
		Blocks: []parsing.ContentBlock{
			{BlockID: "b1", Page: 1, Text: "hello", Confidence: 0.9},
			{BlockID: "b2", Page: 1, Text: "world", Confidence: 0.8},
		},
	}
	h1 := contentHash(doc)
	h2 := contentHash(doc)
	if h1 != h2 {
		t.Fatalf("contentHash not stable: %q vs %q", h1, h2)
	}
}

func TestContentHashChangesWithText(t *testing.T) {
	base := parsing.Document{
		DocumentID: "doc-1",
		CaseID:     "case-1",
		Blocks: []parsing.ContentBlock{
			{BlockID: "b1", Page: 1, Text: "hello", Confidence: 0.9},
		},
	}
	changed := parsing.Document{
		DocumentID: "doc-1",
		CaseID:     "case-1",
		Blocks: []parsing.ContentBlock{
			{BlockID: "b1", Page: 1, Text: "hello there", Confidence: 0.9},
		},
	}
	if contentHash(base) == contentHash(changed) {
		t.Fatal("contentHash did not change when block text changed")
	}
}

func TestGenerateQueryIDDeterministic(t *testing.T) {
	id1 := generateQueryID("case-1", "what happened on march 3rd?", 0.72)
	id2 := generateQueryID("case-1", "what happened on march 3rd?", 0.72)
	if id1 != id2 {
		t.Fatalf("generateQueryID not deterministic: %q vs %q", id1, id2)
	}
	if len(id1) != len("Q-")+16 {
		t.Fatalf("generateQueryID unexpected length: %q", id1)
	}

	id3 := generateQueryID("case-1", "what happened on march 3rd?", 0.50)
	if id1 == id3 {
		t.Fatal("generateQueryID did not change with confidence")
	}
}

func TestChunkDocumentExcludesHeadersAndFooters(t *testing.T) {
	cleaned := cleaning.Result{
		DocumentID: "doc-1",
		CaseID:     "case-1",
		CleanedBlocks: []cleaning.CleanedBlock{
			{BlockID: "b1", Page: 1, CleanText: "CASE NO. 24-CR-001", Confidence: 1.0, IsHeader: true},
			{BlockID: "b2", Page: 1, CleanText: "The witness stated that the car was blue.", Confidence: 0.95},
			{BlockID: "b3", Page: 1, CleanText: "Page 1 of 40", Confidence: 1.0, IsFooter: true},
			{BlockID: "b4", Page: 2, CleanText: "The defendant was not present at the scene.", Confidence: 0.9},
		},
	}

	chunks := chunkDocument(cleaned, 0)

	var sourceBlocks []string
	for _, c := range chunks {
		sourceBlocks = append(sourceBlocks, c.SourceBlockIDs...)
	}
	for _, excluded := range []string{"b1", "b3"} {
		for _, id := range sourceBlocks {
			if id == excluded {
				t.Fatalf("chunkDocument included header/footer block %q", excluded)
			}
		}
	}

	wantIncluded := map[string]bool{"b2": false, "b4": false}
	for _, id := range sourceBlocks {
		if _, ok := wantIncluded[id]; ok {
			wantIncluded[id] = true
		}
	}
	for id, seen := range wantIncluded {
		if !seen {
			t.Errorf("chunkDocument dropped evidentiary block %q", id)
		}
	}
}

func TestTimelineChunkInputsPairsTimestampsByBlock(t *testing.T) {
	iso := "2024-03-03T14:00:00Z"
	cleaned := cleaning.Result{
		DocumentID: "doc-1",
		CaseID:     "case-1",
		CleanedBlocks: []cleaning.CleanedBlock{
			{
				BlockID:   "b1",
				CleanText: "At 2pm the witness arrived.",
				NormalizedTimestamps: []cleaning.NormalizedTimestamp{
					{Original: "2pm", ISO: &iso, Confidence: 0.9},
				},
			},
			{BlockID: "b2", CleanText: "No timestamp here."},
		},
	}
	chunks := []chunker.Chunk{
		{ChunkID: "c1", SourceBlockIDs: []string{"b1", "b2"}, Text: "merged text"},
	}

	inputs := timelineChunkInputs(chunks, cleaned)
	if len(inputs) != 1 {
		t.Fatalf("expected 1 chunk input, got %d", len(inputs))
	}
	if len(inputs[0].Timestamps) != 1 {
		t.Fatalf("expected 1 timestamp carried into chunk input, got %d", len(inputs[0].Timestamps))
	}
	if inputs[0].Timestamps[0].Original != "2pm" {
		t.Errorf("unexpected timestamp carried: %+v", inputs[0].Timestamps[0])
	}
}
