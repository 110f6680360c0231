package provider

import (
	"context"
	"fmt"

	"github.com/kailas-cloud/searchcompare/internal/domain"
)

// Boost re-runs another adapter and scales every score by a fixed factor.
// It stands in for a semantic re-ranker in demos and does no ranking of its own.
type Boost struct {
	inner  Adapter
	factor float64
}

// NewBoost wraps inner with a score multiplier.
func NewBoost(inner Adapter, factor float64) *Boost {
	return &Boost{inner: inner, factor: factor}
}

// Search implements Adapter.
func (b *Boost) Search(ctx context.Context, query string) ([]domain.Hit, error) {
	hits, err := b.inner.Search(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("boosted search: %w", err)
	}
	out := make([]domain.Hit, len(hits))
	for i, h := range hits {
		h.Score *= b.factor
		h.SemanticEnhanced = true
		out[i] = h
	}
	return out, nil
}

// HealthCheck delegates to the wrapped adapter.
func (b *Boost) HealthCheck(ctx context.Context) error {
	if hc, ok := b.inner.(domain.HealthChecker); ok {
		return hc.HealthCheck(ctx)
	}
	return nil
}
