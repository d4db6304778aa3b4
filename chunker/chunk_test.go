package chunker

import "testing"

func str(s string) *string { return &s }

func TestChunkNeverCrossesPageOrSpeaker(t *testing.T) {
	blocks := []BlockInput{
		{BlockID: "b1", Page: 1, CleanText: "Hello there.", Speaker: str("WITNESS"), Confidence: 0.9},
		{BlockID: "b2", Page: 1, CleanText: "I saw the car.", Speaker: str("WITNESS"), Confidence: 0.8},
		{BlockID: "b3", Page: 1, CleanText: "Go on.", Speaker: str("DETECTIVE SMITH"), Confidence: 0.95},
		{BlockID: "b4", Page: 2, CleanText: "It was red.", Speaker: str("WITNESS"), Confidence: 0.7},
	}

	chunks := BuildChunks(blocks, "24-890-H", "DOC1", DefaultConfig())

	if len(chunks) != 3 {
		t.Fatalf("got %d chunks, want 3 boundary groups", len(chunks))
	}
	if chunks[0].PageRange != [2]int{1, 1} || *chunks[0].Speaker != "WITNESS" {
		t.Errorf("chunk 0 = %+v", chunks[0])
	}
	if chunks[1].PageRange != [2]int{1, 1} || *chunks[1].Speaker != "DETECTIVE SMITH" {
		t.Errorf("chunk 1 = %+v", chunks[1])
	}
	if chunks[2].PageRange != [2]int{2, 2} {
		t.Errorf("chunk 2 page range = %v, want [2 2]", chunks[2].PageRange)
	}
}

func TestChunkConfidenceIsMinimumOfSources(t *testing.T) {
	blocks := []BlockInput{
		{BlockID: "b1", Page: 1, CleanText: "one", Confidence: 0.9},
		{BlockID: "b2", Page: 1, CleanText: "two", Confidence: 0.4},
	}
	chunks := BuildChunks(blocks, "C1", "D1", DefaultConfig())
	if len(chunks) != 1 {
		t.Fatalf("got %d chunks, want 1", len(chunks))
	}
	if chunks[0].ChunkConfidence != 0.4 {
		t.Errorf("chunk_confidence = %v, want 0.4 (minimum)", chunks[0].ChunkConfidence)
	}
}

func TestChunkIDsAreSequentialAndDeterministic(t *testing.T) {
	blocks := []BlockInput{
		{BlockID: "b1", Page: 1, CleanText: "one"},
		{BlockID: "b2", Page: 2, CleanText: "two"},
	}
	chunks := BuildChunks(blocks, "C1", "D1", DefaultConfig())
	if chunks[0].ChunkID != "C-0001" || chunks[1].ChunkID != "C-0002" {
		t.Errorf("chunk ids = %q, %q, want C-0001, C-0002", chunks[0].ChunkID, chunks[1].ChunkID)
	}
}

func TestChunkSplitsOversizedBlock(t *testing.T) {
	var words []string
	for i := 0; i < 50; i++ {
		words = append(words, "word")
	}
	text := ""
	for i, w := range words {
		if i > 0 {
			text += " "
		}
		text += w
	}

	blocks := []BlockInput{{BlockID: "b1", Page: 1, CleanText: text, Confidence: 0.8}}
	chunks := BuildChunks(blocks, "C1", "D1", Config{MaxTokens: 10})

	if len(chunks) < 2 {
		t.Fatalf("expected oversized block to split into multiple chunks, got %d", len(chunks))
	}
	for _, c := range chunks {
		if c.TokenCount > 10 {
			t.Errorf("chunk token count %d exceeds max 10", c.TokenCount)
		}
		if len(c.SourceBlockIDs) != 1 || c.SourceBlockIDs[0] != "b1" {
			t.Errorf("split chunk source_block_ids = %v, want [b1]", c.SourceBlockIDs)
		}
	}
}

func TestChunkEmptyInput(t *testing.T) {
	if chunks := BuildChunks(nil, "C1", "D1", DefaultConfig()); chunks != nil {
		t.Errorf("expected nil for empty input, got %v", chunks)
	}
}
