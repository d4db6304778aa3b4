package vectorindex

import (
	"context"
	"database/sql"
	"encoding/binary"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"sync"

	sqlite_vec "github.com/asg017/sqlite-vec-go-bindings/cgo"
	_ "github.com/mattn/go-sqlite3"
)

func init() {
	sqlite_vec.Auto()
}

// Index is a vec0-backed similarity index with a JSON metadata
// sidecar. vector_id is assigned in strict insertion order and always
// equals metadata[vector_id].VectorID — the same invariant the
// reference FAISS-backed store enforces.
type Index struct {
	mu       sync.Mutex
	db       *sql.DB
	path     string
	metaPath string
	cfg      Config
	metadata []VectorRecord
}

// Open creates or attaches to a vec0 index at storageDir/vectors.db,
// with its metadata sidecar at storageDir/metadata.json.
func Open(storageDir string, cfg Config) (*Index, error) {
	if cfg.Dimension <= 0 {
		cfg = DefaultConfig()
	}
	if err := os.MkdirAll(storageDir, 0o755); err != nil {
		return nil, fmt.Errorf("vectorindex: create storage dir: %w", err)
	}

	dbPath := filepath.Join(storageDir, "vectors.db")
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrIOFailure, err)
	}
	db.SetMaxOpenConns(1)

	schema := fmt.Sprintf(`CREATE VIRTUAL TABLE IF NOT EXISTS vec_chunks USING vec0(
		vector_id INTEGER PRIMARY KEY,
		embedding float[%d]
	)`, cfg.Dimension)
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("%w: %v", ErrIOFailure, err)
	}

	idx := &Index{
		db:       db,
		path:     dbPath,
		metaPath: filepath.Join(storageDir, "metadata.json"),
		cfg:      cfg,
	}
	if err := idx.loadMetadata(); err != nil {
		db.Close()
		return nil, err
	}
	return idx, nil
}

// Close releases the underlying database handle.
func (idx *Index) Close() error {
	return idx.db.Close()
}

// Add embeds and stores one chunk, returning its assigned vector_id.
func (idx *Index) Add(ctx context.Context, chunk ChunkInput, embedder Embedder) (EmbeddingResult, error) {
	vec, err := embedder.Embed(chunk.Text)
	if err != nil {
		return EmbeddingResult{}, fmt.Errorf("%w: %v", ErrEmbeddingFailed, err)
	}
	if len(vec) != idx.cfg.Dimension {
		return EmbeddingResult{}, fmt.Errorf("vectorindex: embedding dimension %d != configured %d", len(vec), idx.cfg.Dimension)
	}

	idx.mu.Lock()
	defer idx.mu.Unlock()

	vectorID := len(idx.metadata)
	if _, err := idx.db.ExecContext(ctx,
		"INSERT INTO vec_chunks (vector_id, embedding) VALUES (?, ?)",
		vectorID, serializeFloat32(vec)); err != nil {
		return EmbeddingResult{}, fmt.Errorf("%w: %v", ErrIOFailure, err)
	}

	idx.metadata = append(idx.metadata, VectorRecord{
		ChunkID:    chunk.ChunkID,
		VectorID:   vectorID,
		CaseID:     chunk.CaseID,
		DocumentID: chunk.DocumentID,
		PageRange:  chunk.PageRange,
		Speaker:    chunk.Speaker,
		Confidence: chunk.Confidence,
	})

	if err := idx.flushLocked(); err != nil {
		return EmbeddingResult{}, err
	}

	return EmbeddingResult{ChunkID: chunk.ChunkID, VectorID: vectorID, EmbeddingDimension: len(vec)}, nil
}

// Search runs a k-nearest-neighbor lookup and filters results to a
// single case's vectors. Cross-case retrieval never happens: matches
// from other cases are discarded before they reach the caller, not
// merely ranked lower.
func (idx *Index) Search(ctx context.Context, queryVector []float32, caseID string, k int) ([]SearchHit, error) {
	if k <= 0 {
		return nil, nil
	}
	idx.mu.Lock()
	defer idx.mu.Unlock()

	if len(idx.metadata) == 0 {
		return nil, nil
	}

	// Over-fetch to absorb the post-filter by case_id, matching vec0's
	// own guidance for filtered KNN on a library without native
	// predicate pushdown for auxiliary columns.
	fetch := k * 4
	if fetch > len(idx.metadata) {
		fetch = len(idx.metadata)
	}

	rows, err := idx.db.QueryContext(ctx, `
		SELECT vector_id, distance FROM vec_chunks
		WHERE embedding MATCH ? AND k = ?
		ORDER BY distance
	`, serializeFloat32(queryVector), fetch)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrIOFailure, err)
	}
	defer rows.Close()

	var hits []SearchHit
	for rows.Next() {
		var vectorID int
		var distance float64
		if err := rows.Scan(&vectorID, &distance); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrIOFailure, err)
		}
		if vectorID < 0 || vectorID >= len(idx.metadata) {
			continue
		}
		record := idx.metadata[vectorID]
		if record.CaseID != caseID {
			continue
		}
		hits = append(hits, SearchHit{Record: record, Distance: distance})
		if len(hits) == k {
			break
		}
	}
	return hits, rows.Err()
}

// Count returns the number of vectors stored across all cases.
func (idx *Index) Count() int {
	idx.mu.Lock()
	defer idx.mu.Unlock()
	return len(idx.metadata)
}

func serializeFloat32(v []float32) []byte {
	buf := make([]byte, len(v)*4)
	for i, f := range v {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(f))
	}
	return buf
}
