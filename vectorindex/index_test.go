package vectorindex

import (
	"context"
	"testing"
)

type constEmbedder struct{ vec []float32 }

func (c constEmbedder) Embed(text string) ([]float32, error) { return c.vec, nil }

func vec(dim int, fill float32) []float32 {
	v := make([]float32, dim)
	for i := range v {
		v[i] = fill
	}
	return v
}

func TestAddAssignsSequentialVectorIDs(t *testing.T) {
	dir := t.TempDir()
	idx, err := Open(dir, Config{Dimension: 4, IndexType: "Flat"})
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer idx.Close()

	embedder := constEmbedder{vec: vec(4, 0.1)}
	ctx := context.Background()

	for i, chunkID := range []string{"C-0001", "C-0002", "C-0003"} {
		res, err := idx.Add(ctx, ChunkInput{ChunkID: chunkID, CaseID: "24-890-H", DocumentID: "D1", Confidence: 0.9}, embedder)
		if err != nil {
			t.Fatalf("add %s: %v", chunkID, err)
		}
		if res.VectorID != i {
			t.Errorf("vector_id for %s = %d, want %d", chunkID, res.VectorID, i)
		}
	}
	if idx.Count() != 3 {
		t.Errorf("count = %d, want 3", idx.Count())
	}
}

func TestSearchFiltersByCase(t *testing.T) {
	dir := t.TempDir()
	idx, err := Open(dir, Config{Dimension: 4, IndexType: "Flat"})
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer idx.Close()

	ctx := context.Background()
	if _, err := idx.Add(ctx, ChunkInput{ChunkID: "C-0001", CaseID: "24-890-H", DocumentID: "D1", Confidence: 1.0}, constEmbedder{vec: vec(4, 0.1)}); err != nil {
		t.Fatalf("add: %v", err)
	}
	if _, err := idx.Add(ctx, ChunkInput{ChunkID: "C-0002", CaseID: "25-100-A", DocumentID: "D2", Confidence: 1.0}, constEmbedder{vec: vec(4, 0.1)}); err != nil {
		t.Fatalf("add: %v", err)
	}

	hits, err := idx.Search(ctx, vec(4, 0.1), "24-890-H", 5)
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	for _, h := range hits {
		if h.Record.CaseID != "24-890-H" {
			t.Errorf("search leaked cross-case result: %+v", h.Record)
		}
	}
}

func TestAddRejectsWrongDimension(t *testing.T) {
	dir := t.TempDir()
	idx, err := Open(dir, Config{Dimension: 4, IndexType: "Flat"})
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer idx.Close()

	_, err = idx.Add(context.Background(), ChunkInput{ChunkID: "C-0001", CaseID: "24-890-H", DocumentID: "D1"}, constEmbedder{vec: vec(3, 0.1)})
	if err == nil {
		t.Error("expected dimension mismatch error")
	}
}

func TestOpenReloadsPersistedMetadata(t *testing.T) {
	dir := t.TempDir()
	idx, err := Open(dir, Config{Dimension: 4, IndexType: "Flat"})
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if _, err := idx.Add(context.Background(), ChunkInput{ChunkID: "C-0001", CaseID: "24-890-H", DocumentID: "D1"}, constEmbedder{vec: vec(4, 0.1)}); err != nil {
		t.Fatalf("add: %v", err)
	}
	idx.Close()

	reopened, err := Open(dir, Config{Dimension: 4, IndexType: "Flat"})
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer reopened.Close()
	if reopened.Count() != 1 {
		t.Errorf("count after reopen = %d, want 1", reopened.Count())
	}
}
