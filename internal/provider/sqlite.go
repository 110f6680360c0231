package provider

import (
	"context"

	"github.com/kailas-cloud/searchcompare/internal/domain"
	"github.com/kailas-cloud/searchcompare/internal/repository/sqlitefts"
)

// SQLite searches the local FTS5 database with a fixed result limit.
type SQLite struct {
	store *sqlitefts.Store
	limit int
}

// NewSQLite creates a bm25-ranked full-text adapter.
func NewSQLite(store *sqlitefts.Store, limit int) *SQLite {
	return &SQLite{store: store, limit: limit}
}

// Search implements Adapter.
func (s *SQLite) Search(ctx context.Context, query string) ([]domain.Hit, error) {
	return s.store.Search(ctx, query, s.limit)
}

// HealthCheck pings the database.
func (s *SQLite) HealthCheck(ctx context.Context) error {
	return s.store.HealthCheck(ctx)
}
