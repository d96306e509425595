// Package vectorstore persists chunk embeddings in a local SQLite
// database and answers brute-force nearest-neighbor queries over them.
package vectorstore

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	_ "modernc.org/sqlite" // register pure-Go SQLite driver
)

const chunksSchema = `
CREATE TABLE IF NOT EXISTS chunks (
    id TEXT PRIMARY KEY,
    content TEXT NOT NULL,
    meta TEXT NOT NULL DEFAULT '{}',
    embedding BLOB NOT NULL
);
`

// Chunk is one embedded span of document text.
type Chunk struct {
	ID        string
	Text      string
	Metadata  map[string]any
	Embedding []float32
}

// Result is a chunk returned from a similarity query, scored by cosine
// similarity against the query embedding (higher is closer).
type Result struct {
	ID       string
	Score    float64
	Text     string
	Metadata map[string]any
}

// Store is a single persistent collection of embedded chunks.
type Store struct {
	db   *sql.DB
	path string
}

// Open creates dir if needed and opens the collection database
// <dir>/<collection>.sqlite, creating the schema on first use.
func Open(dir, collection string) (*Store, error) {
	if collection == "" {
		return nil, fmt.Errorf("collection name is empty")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create store dir: %w", err)
	}
	return OpenDSN(filepath.Join(dir, collection+".sqlite"))
}

// OpenDSN opens a collection database at the given SQLite DSN. Use
// ":memory:" for an ephemeral store.
func OpenDSN(dsn string) (*Store, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}
	if _, err := db.Exec(chunksSchema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create store schema: %w", err)
	}
	return &Store{db: db, path: dsn}, nil
}

// Path returns the DSN the store was opened with.
func (s *Store) Path() string { return s.path }

// Close closes the underlying database.
func (s *Store) Close() error { return s.db.Close() }

// Upsert inserts or replaces chunks in one transaction. Chunk IDs must
// be set; re-indexing a file overwrites its previous chunks.
func (s *Store) Upsert(ctx context.Context, chunks []Chunk) error {
	if len(chunks) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin upsert: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx,
		`INSERT OR REPLACE INTO chunks(id, content, meta, embedding) VALUES(?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare upsert: %w", err)
	}
	defer stmt.Close()

	for _, c := range chunks {
		if c.ID == "" {
			return fmt.Errorf("chunk with empty id")
		}
		if len(c.Embedding) == 0 {
			return fmt.Errorf("chunk %s has no embedding", c.ID)
		}
		meta, err := json.Marshal(c.Metadata)
		if err != nil {
			return fmt.Errorf("marshal metadata for chunk %s: %w", c.ID, err)
		}
		if _, err := stmt.ExecContext(ctx, c.ID, c.Text, string(meta), encodeEmbedding(c.Embedding)); err != nil {
			return fmt.Errorf("upsert chunk %s: %w", c.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit upsert: %w", err)
	}
	return nil
}

// Count returns the number of stored chunks.
func (s *Store) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM chunks`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count chunks: %w", err)
	}
	return n, nil
}

// Query scans all stored chunks and returns up to n results ranked by
// cosine similarity to the query embedding. Rows whose embedding
// dimension does not match the query are skipped.
func (s *Store) Query(ctx context.Context, embedding []float32, n int) ([]Result, error) {
	if n <= 0 {
		return nil, nil
	}
	if len(embedding) == 0 {
		return nil, fmt.Errorf("query embedding is empty")
	}

	rows, err := s.db.QueryContext(ctx, `SELECT id, content, meta, embedding FROM chunks`)
	if err != nil {
		return nil, fmt.Errorf("query chunks: %w", err)
	}
	defer rows.Close()

	var results []Result
	for rows.Next() {
		var (
			id, content, meta string
			blob              []byte
		)
		if err := rows.Scan(&id, &content, &meta, &blob); err != nil {
			return nil, fmt.Errorf("scan chunk: %w", err)
		}
		vec, err := decodeEmbedding(blob)
		if err != nil {
			return nil, fmt.Errorf("chunk %s: %w", id, err)
		}
		if len(vec) != len(embedding) {
			continue
		}

		var metadata map[string]any
		if err := json.Unmarshal([]byte(meta), &metadata); err != nil {
			metadata = map[string]any{}
		}
		results = append(results, Result{
			ID:       id,
			Score:    cosineSimilarity(embedding, vec),
			Text:     content,
			Metadata: metadata,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate chunks: %w", err)
	}

	sort.Slice(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})
	if len(results) > n {
		results = results[:n]
	}
	return results, nil
}
