// Package store implements the case-partitioned SQLite persistence
// layer: documents, chunks, the P8 knowledge graph, the P9 timeline,
// and the P11 query audit log all live in one database, every table
// scoped by case_id so a query against one case can never surface rows
// from another.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"
)

// Document represents a row in the documents table.
type Document struct {
	DocumentID  string `json:"document_id"`
	CaseID      string `json:"case_id"`
	Path        string `json:"path"`
	Filename    string `json:"filename"`
	Format      string `json:"format"`
	ContentHash string `json:"content_hash"`
	ParseMethod string `json:"parse_method"`
	Status      string `json:"status"`
	Metadata    string `json:"metadata,omitempty"`
	CreatedAt   string `json:"created_at"`
	UpdatedAt   string `json:"updated_at"`
}

// Chunk represents a row in the chunks table — the same flat shape as
// chunker.Chunk, persisted with its full provenance.
type Chunk struct {
	ChunkID         string   `json:"chunk_id"`
	CaseID          string   `json:"case_id"`
	DocumentID      string   `json:"document_id"`
	PageRange       [2]int   `json:"page_range"`
	Speaker         *string  `json:"speaker,omitempty"`
	Text            string   `json:"text"`
	TokenCount      int      `json:"token_count"`
	ChunkConfidence float64  `json:"chunk_confidence"`
	SourceBlockIDs  []string `json:"source_block_ids,omitempty"`
}

// Store wraps the SQLite database backing one pipeline's persistence.
type Store struct {
	db *sql.DB
}

// New opens (or creates) a SQLite database at the given path and
// initializes the schema, including its FTS5 virtual tables.
func New(dbPath string) (*Store, error) {
	dir := filepath.Dir(dbPath)
	if dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating db directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_foreign_keys=on&_busy_timeout=30000")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schemaSQL(0)); err != nil {
		db.Close()
		return nil, fmt.Errorf("applying schema: %w", err)
	}

	s := &Store{db: db}
	if err := s.Migrate(context.Background()); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}
	return s, nil
}

// Close releases the underlying database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

// DB exposes the underlying connection for callers that need raw SQL.
// The vector index does not live here: vectorindex keeps its vec0
// table in a database file of its own.
func (s *Store) DB() *sql.DB { return s.db }

// UpsertDocument inserts or updates a document row, keyed by
// (case_id, document_id). Re-parsing the same document overwrites its
// status and hash rather than creating a duplicate row.
func (s *Store) UpsertDocument(ctx context.Context, d Document) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO documents (document_id, case_id, path, filename, format, content_hash, parse_method, status, metadata, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(case_id, document_id) DO UPDATE SET
			path = excluded.path,
			filename = excluded.filename,
			format = excluded.format,
			content_hash = excluded.content_hash,
			parse_method = excluded.parse_method,
			status = excluded.status,
			metadata = excluded.metadata,
			updated_at = CURRENT_TIMESTAMP
	`, d.DocumentID, d.CaseID, d.Path, d.Filename, d.Format, d.ContentHash, d.ParseMethod, d.Status, nullableString(d.Metadata))
	return err
}

// GetDocument fetches one document by its case-scoped identifier.
func (s *Store) GetDocument(ctx context.Context, caseID, documentID string) (*Document, error) {
	var d Document
	var metadata sql.NullString
	err := s.db.QueryRowContext(ctx, `
		SELECT document_id, case_id, path, filename, format, content_hash, parse_method, status, metadata, created_at, updated_at
		FROM documents WHERE case_id = ? AND document_id = ?
	`, caseID, documentID).Scan(&d.DocumentID, &d.CaseID, &d.Path, &d.Filename, &d.Format,
		&d.ContentHash, &d.ParseMethod, &d.Status, &metadata, &d.CreatedAt, &d.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	d.Metadata = metadata.String
	return &d, nil
}

// ListDocuments returns every document registered for a case.
func (s *Store) ListDocuments(ctx context.Context, caseID string) ([]Document, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT document_id, case_id, path, filename, format, content_hash, parse_method, status, metadata, created_at, updated_at
		FROM documents WHERE case_id = ? ORDER BY document_id
	`, caseID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var docs []Document
	for rows.Next() {
		var d Document
		var metadata sql.NullString
		if err := rows.Scan(&d.DocumentID, &d.CaseID, &d.Path, &d.Filename, &d.Format,
			&d.ContentHash, &d.ParseMethod, &d.Status, &metadata, &d.CreatedAt, &d.UpdatedAt); err != nil {
			return nil, err
		}
		d.Metadata = metadata.String
		docs = append(docs, d)
	}
	return docs, rows.Err()
}

// PutChunks replaces a document's chunk rows wholesale: P5 chunking is
// a pure function of a document's cleaned blocks, so a re-run should
// never leave stale chunks behind.
func (s *Store) PutChunks(ctx context.Context, caseID, documentID string, chunks []Chunk) error {
	return s.inTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx,
			"DELETE FROM chunks WHERE case_id = ? AND document_id = ?", caseID, documentID); err != nil {
			return err
		}
		for _, c := range chunks {
			blockIDs, err := marshalJSON(c.SourceBlockIDs)
			if err != nil {
				return err
			}
			if _, err := tx.ExecContext(ctx, `
				INSERT INTO chunks (chunk_id, case_id, document_id, page_start, page_end, speaker, text, token_count, chunk_confidence, source_block_ids)
				VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
			`, c.ChunkID, caseID, documentID, c.PageRange[0], c.PageRange[1], nullableStringPtr(c.Speaker),
				c.Text, c.TokenCount, c.ChunkConfidence, blockIDs); err != nil {
				return err
			}
		}
		return nil
	})
}

// ChunkText implements rag.ChunkTextProvider: it resolves a chunk's
// verbatim text for citation and prompt assembly. The vector index
// never stores text, only provenance, so P11 depends on this lookup.
func (s *Store) ChunkText(ctx context.Context, chunkID string) (string, error) {
	var text string
	err := s.db.QueryRowContext(ctx, "SELECT text FROM chunks WHERE chunk_id = ?", chunkID).Scan(&text)
	if err == sql.ErrNoRows {
		return "", fmt.Errorf("store: chunk %s not found", chunkID)
	}
	return text, err
}

// GetChunk fetches one chunk by its case-scoped identifier.
func (s *Store) GetChunk(ctx context.Context, caseID, chunkID string) (*Chunk, error) {
	var c Chunk
	var speaker sql.NullString
	var blockIDs sql.NullString
	err := s.db.QueryRowContext(ctx, `
		SELECT chunk_id, case_id, document_id, page_start, page_end, speaker, text, token_count, chunk_confidence, source_block_ids
		FROM chunks WHERE case_id = ? AND chunk_id = ?
	`, caseID, chunkID).Scan(&c.ChunkID, &c.CaseID, &c.DocumentID, &c.PageRange[0], &c.PageRange[1],
		&speaker, &c.Text, &c.TokenCount, &c.ChunkConfidence, &blockIDs)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if speaker.Valid {
		c.Speaker = &speaker.String
	}
	if blockIDs.Valid {
		_ = unmarshalJSON(blockIDs.String, &c.SourceBlockIDs)
	}
	return &c, nil
}

// ListChunks returns every chunk belonging to a case, ordered by
// chunk_id. Chunk IDs are numbered in position order within each
// document's chunking pass, so for a single document this is also
// reading order; chunks of different documents are not grouped by
// document.
func (s *Store) ListChunks(ctx context.Context, caseID string) ([]Chunk, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT chunk_id, case_id, document_id, page_start, page_end, speaker, text, token_count, chunk_confidence, source_block_ids
		FROM chunks WHERE case_id = ? ORDER BY chunk_id
	`, caseID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var chunks []Chunk
	for rows.Next() {
		var c Chunk
		var speaker sql.NullString
		var blockIDs sql.NullString
		if err := rows.Scan(&c.ChunkID, &c.CaseID, &c.DocumentID, &c.PageRange[0], &c.PageRange[1],
			&speaker, &c.Text, &c.TokenCount, &c.ChunkConfidence, &blockIDs); err != nil {
			return nil, err
		}
		if speaker.Valid {
			c.Speaker = &speaker.String
		}
		if blockIDs.Valid {
			_ = unmarshalJSON(blockIDs.String, &c.SourceBlockIDs)
		}
		chunks = append(chunks, c)
	}
	return chunks, rows.Err()
}

// DBStats holds counts of key database objects, scoped to one case.
type DBStats struct {
	Documents       int `json:"documents"`
	Chunks          int `json:"chunks"`
	GraphNodes      int `json:"graph_nodes"`
	GraphEdges      int `json:"graph_edges"`
	TimelineEvents  int `json:"timeline_events"`
}

// DBStats returns per-table row counts for one case.
func (s *Store) DBStats(ctx context.Context, caseID string) (*DBStats, error) {
	stats := &DBStats{}
	queries := []struct {
		query string
		dest  *int
	}{
		{"SELECT COUNT(*) FROM documents WHERE case_id = ?", &stats.Documents},
		{"SELECT COUNT(*) FROM chunks WHERE case_id = ?", &stats.Chunks},
		{"SELECT COUNT(*) FROM graph_nodes WHERE case_id = ?", &stats.GraphNodes},
		{"SELECT COUNT(*) FROM graph_edges WHERE case_id = ?", &stats.GraphEdges},
		{"SELECT COUNT(*) FROM timeline_events WHERE case_id = ?", &stats.TimelineEvents},
	}
	for _, q := range queries {
		if err := s.db.QueryRowContext(ctx, q.query, caseID).Scan(q.dest); err != nil {
			return nil, fmt.Errorf("counting %s: %w", q.query, err)
		}
	}
	return stats, nil
}

// --- helpers ---

func (s *Store) inTx(ctx context.Context, fn func(*sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	if err := fn(tx); err != nil {
		tx.Rollback()
		return err
	}
	return tx.Commit()
}

func nullableString(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}

func nullableStringPtr(s *string) interface{} {
	if s == nil {
		return nil
	}
	return *s
}
