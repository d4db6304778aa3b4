package store

// schemaSQL returns the DDL for every table. embeddingDim is accepted
// for symmetry with the teacher's schema function but no longer sizes
// a vec0 table here — vectors live in vectorindex's own store, keeping
// the P7 index's binary-blob-plus-sidecar invariant independent of
// this package's case-partitioned tables.
func schemaSQL(embeddingDim int) string {
	_ = embeddingDim
	return `
-- Document registry, partitioned by case. A path is only unique within
-- a case: the same filename appearing in two cases is not a conflict.
CREATE TABLE IF NOT EXISTS documents (
    document_id  TEXT NOT NULL,
    case_id      TEXT NOT NULL,
    path         TEXT NOT NULL,
    filename     TEXT NOT NULL,
    format       TEXT NOT NULL,
    content_hash TEXT NOT NULL,
    parse_method TEXT NOT NULL,
    status       TEXT DEFAULT 'pending',
    metadata     JSON,
    created_at   DATETIME DEFAULT CURRENT_TIMESTAMP,
    updated_at   DATETIME DEFAULT CURRENT_TIMESTAMP,
    PRIMARY KEY (case_id, document_id)
);

-- Flat chunks (P5 output): never hierarchical, never crossing a page
-- or speaker boundary.
CREATE TABLE IF NOT EXISTS chunks (
    chunk_id         TEXT NOT NULL,
    case_id          TEXT NOT NULL,
    document_id      TEXT NOT NULL,
    page_start       INTEGER NOT NULL,
    page_end         INTEGER NOT NULL,
    speaker          TEXT,
    text             TEXT NOT NULL,
    token_count      INTEGER NOT NULL,
    chunk_confidence REAL NOT NULL,
    source_block_ids JSON,
    PRIMARY KEY (case_id, chunk_id),
    FOREIGN KEY (case_id, document_id) REFERENCES documents(case_id, document_id) ON DELETE CASCADE
);

-- Lexical sub-index over chunk text and speaker name, kept in sync by
-- the triggers below. No query in this package reads it; the P11
-- graph-lookup matcher searches graph_nodes_fts instead, and retrieval
-- itself is fixed-order, not rank-fused.
CREATE VIRTUAL TABLE IF NOT EXISTS chunks_fts USING fts5(
    chunk_id UNINDEXED,
    case_id UNINDEXED,
    text,
    speaker,
    tokenize='porter unicode61'
);

CREATE TRIGGER IF NOT EXISTS chunks_ai AFTER INSERT ON chunks BEGIN
    INSERT INTO chunks_fts(rowid, chunk_id, case_id, text, speaker)
    VALUES (new.rowid, new.chunk_id, new.case_id, new.text, new.speaker);
END;
CREATE TRIGGER IF NOT EXISTS chunks_ad AFTER DELETE ON chunks BEGIN
    INSERT INTO chunks_fts(chunks_fts, rowid, chunk_id, case_id, text, speaker)
    VALUES ('delete', old.rowid, old.chunk_id, old.case_id, old.text, old.speaker);
END;
CREATE TRIGGER IF NOT EXISTS chunks_au AFTER UPDATE ON chunks BEGIN
    INSERT INTO chunks_fts(chunks_fts, rowid, chunk_id, case_id, text, speaker)
    VALUES ('delete', old.rowid, old.chunk_id, old.case_id, old.text, old.speaker);
    INSERT INTO chunks_fts(rowid, chunk_id, case_id, text, speaker)
    VALUES (new.rowid, new.chunk_id, new.case_id, new.text, new.speaker);
END;

-- Knowledge graph nodes (P8), case-partitioned. A node's confidence
-- only ratchets up on conflict, never down.
CREATE TABLE IF NOT EXISTS graph_nodes (
    node_id         TEXT NOT NULL,
    case_id         TEXT NOT NULL,
    node_type       TEXT NOT NULL,
    name            TEXT NOT NULL,
    properties      JSON,
    source_chunk_id TEXT NOT NULL,
    document_id     TEXT NOT NULL,
    page_start      INTEGER NOT NULL,
    page_end        INTEGER NOT NULL,
    confidence      REAL NOT NULL,
    PRIMARY KEY (case_id, node_id)
);

CREATE VIRTUAL TABLE IF NOT EXISTS graph_nodes_fts USING fts5(
    node_id UNINDEXED,
    case_id UNINDEXED,
    name,
    tokenize='porter unicode61'
);

CREATE TRIGGER IF NOT EXISTS graph_nodes_ai AFTER INSERT ON graph_nodes BEGIN
    INSERT INTO graph_nodes_fts(rowid, node_id, case_id, name)
    VALUES (new.rowid, new.node_id, new.case_id, new.name);
END;
CREATE TRIGGER IF NOT EXISTS graph_nodes_ad AFTER DELETE ON graph_nodes BEGIN
    INSERT INTO graph_nodes_fts(graph_nodes_fts, rowid, node_id, case_id, name)
    VALUES ('delete', old.rowid, old.node_id, old.case_id, old.name);
END;
CREATE TRIGGER IF NOT EXISTS graph_nodes_au AFTER UPDATE ON graph_nodes BEGIN
    INSERT INTO graph_nodes_fts(graph_nodes_fts, rowid, node_id, case_id, name)
    VALUES ('delete', old.rowid, old.node_id, old.case_id, old.name);
    INSERT INTO graph_nodes_fts(rowid, node_id, case_id, name)
    VALUES (new.rowid, new.node_id, new.case_id, new.name);
END;

-- Knowledge graph edges (P8). A (case, edge_type, from, to) triple can
-- recur with a different source_chunk_id: every mention is its own
-- provenance row, deduplication happens at read time in P11.
CREATE TABLE IF NOT EXISTS graph_edges (
    case_id         TEXT NOT NULL,
    edge_type       TEXT NOT NULL,
    from_node       TEXT NOT NULL,
    to_node         TEXT NOT NULL,
    source_chunk_id TEXT NOT NULL,
    document_id     TEXT NOT NULL,
    page_start      INTEGER NOT NULL,
    page_end        INTEGER NOT NULL,
    confidence      REAL NOT NULL,
    PRIMARY KEY (case_id, edge_type, from_node, to_node, source_chunk_id)
);

-- Timeline (P9), case-partitioned and immutable once written: a
-- reconstruction run replaces a case's rows wholesale rather than
-- patching them, since P9 is a pure function of that case's chunks.
CREATE TABLE IF NOT EXISTS timeline_events (
    event_id      TEXT NOT NULL,
    case_id       TEXT NOT NULL,
    chunk_id      TEXT NOT NULL,
    document_id   TEXT NOT NULL,
    page_start    INTEGER NOT NULL,
    page_end      INTEGER NOT NULL,
    timestamp     TEXT NOT NULL,
    raw_timestamp TEXT NOT NULL,
    speaker       TEXT,
    description   TEXT NOT NULL,
    confidence    REAL NOT NULL,
    PRIMARY KEY (case_id, event_id)
);

CREATE TABLE IF NOT EXISTS timeline_gaps (
    case_id           TEXT NOT NULL,
    start_ts          TEXT NOT NULL,
    end_ts            TEXT NOT NULL,
    duration_minutes  INTEGER NOT NULL,
    severity          TEXT NOT NULL,
    before_event_id   TEXT NOT NULL,
    after_event_id    TEXT NOT NULL,
    PRIMARY KEY (case_id, before_event_id, after_event_id)
);

CREATE TABLE IF NOT EXISTS timeline_conflicts (
    case_id              TEXT NOT NULL,
    timestamp            TEXT NOT NULL,
    conflicting_chunks    JSON NOT NULL,
    conflicting_event_ids JSON NOT NULL,
    reason               TEXT NOT NULL,
    confidence           REAL NOT NULL,
    PRIMARY KEY (case_id, timestamp)
);

-- Per-query audit log (P11). Append-only; a row is written for every
-- answered query regardless of outcome, including INSUFFICIENT_EVIDENCE.
CREATE TABLE IF NOT EXISTS query_log (
    id                INTEGER PRIMARY KEY,
    query_id          TEXT NOT NULL,
    case_id           TEXT NOT NULL,
    question          TEXT NOT NULL,
    answer            TEXT,
    confidence        REAL,
    sources           JSON,
    limitations       JSON,
    model_used        TEXT,
    created_at        DATETIME DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_chunks_case ON chunks(case_id);
CREATE INDEX IF NOT EXISTS idx_documents_case ON documents(case_id);
CREATE INDEX IF NOT EXISTS idx_graph_nodes_case ON graph_nodes(case_id);
CREATE INDEX IF NOT EXISTS idx_graph_nodes_type ON graph_nodes(case_id, node_type);
CREATE INDEX IF NOT EXISTS idx_graph_edges_case ON graph_edges(case_id);
CREATE INDEX IF NOT EXISTS idx_graph_edges_from ON graph_edges(case_id, from_node);
CREATE INDEX IF NOT EXISTS idx_graph_edges_to ON graph_edges(case_id, to_node);
CREATE INDEX IF NOT EXISTS idx_timeline_events_case ON timeline_events(case_id, timestamp);
CREATE INDEX IF NOT EXISTS idx_query_log_case ON query_log(case_id);
`
}
