// Package sqlitefts searches and loads a local SQLite FTS5 corpus.
package sqlitefts

import (
	"context"
	"database/sql"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"

	_ "modernc.org/sqlite" // registers the "sqlite" driver

	"github.com/kailas-cloud/searchcompare/internal/domain"
)

// DefaultLimit is the number of hits returned when none is configured.
const DefaultLimit = 5

// Store wraps the SQLite database connection.
type Store struct {
	conn *sql.DB
}

// Open opens an existing database read-only for searching.
func Open(path string) (*Store, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("open fts database %s: %w", path, err)
	}
	conn, err := sql.Open("sqlite", "file:"+path+"?mode=ro&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("open fts database %s: %w", path, err)
	}
	return &Store{conn: conn}, nil
}

// Create opens (creating if needed) a writable database and ensures the schema.
func Create(ctx context.Context, path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create data directory: %w", err)
		}
	}
	conn, err := sql.Open("sqlite", "file:"+path+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("open fts database %s: %w", path, err)
	}
	s := &Store{conn: conn}
	if _, err := conn.ExecContext(ctx, schema); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}
	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	if err := s.conn.Close(); err != nil {
		return fmt.Errorf("close fts database: %w", err)
	}
	return nil
}

// HealthCheck pings the database.
func (s *Store) HealthCheck(ctx context.Context) error {
	if err := s.conn.PingContext(ctx); err != nil {
		return fmt.Errorf("ping fts database: %w", err)
	}
	return nil
}

// Search runs an FTS5 MATCH ordered by bm25. The query is passed to MATCH verbatim,
// so FTS5 syntax errors surface as errors. Scores are reported as |bm25|.
func (s *Store) Search(ctx context.Context, query string, limit int) ([]domain.Hit, error) {
	if limit <= 0 {
		limit = DefaultLimit
	}
	rows, err := s.conn.QueryContext(ctx, searchQuery, query, limit)
	if err != nil {
		return nil, fmt.Errorf("fts match: %w", err)
	}
	defer rows.Close()

	hits := []domain.Hit{}
	for rows.Next() {
		var (
			h     domain.Hit
			score float64
		)
		if err := rows.Scan(&h.ID, &h.Title, &h.Content, &h.Path, &score); err != nil {
			return nil, fmt.Errorf("scan fts row: %w", err)
		}
		if h.Title == "" {
			h.Title = domain.ExtractTitle(h.Content)
		}
		h.Score = math.Abs(score)
		hits = append(hits, h)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate fts rows: %w", err)
	}
	return hits, nil
}

// Load upserts docs in one transaction and rebuilds the FTS index.
func (s *Store) Load(ctx context.Context, docs []domain.Document) (err error) {
	tx, err := s.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	stmt, err := tx.PrepareContext(ctx, upsertDocument)
	if err != nil {
		return fmt.Errorf("prepare upsert: %w", err)
	}
	defer stmt.Close()

	for _, d := range docs {
		if _, err = stmt.ExecContext(ctx, d.ID, d.Title, d.Content, d.Path, strings.Join(d.Tags, ",")); err != nil {
			return fmt.Errorf("upsert document %s: %w", d.ID, err)
		}
	}
	if _, err = tx.ExecContext(ctx, rebuildIndex); err != nil {
		return fmt.Errorf("rebuild fts index: %w", err)
	}
	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

// Count returns the number of stored documents.
func (s *Store) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.conn.QueryRowContext(ctx, `SELECT COUNT(*) FROM documents`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count documents: %w", err)
	}
	return n, nil
}
