package compare

import (
	"context"

	"github.com/kailas-cloud/searchcompare/internal/domain"
)

// Adapter runs one query against one search backend.
type Adapter interface {
	Search(ctx context.Context, query string) ([]domain.Hit, error)
}
