// Package provider holds the search adapters that take part in a comparison
// and builds them from configuration.
package provider

import (
	"context"
	"time"

	"github.com/kailas-cloud/searchcompare/internal/domain"
)

// Adapter runs one query against one search backend.
// Adapters return an error on failure and never invent hits.
type Adapter interface {
	Search(ctx context.Context, query string) ([]domain.Hit, error)
}

// Provider is a named, configured adapter. The name is the key of its result
// in every response; Label is shown as the result's method.
type Provider struct {
	Name        string
	Label       string
	Description string
	// Timeout bounds a single search. Zero means no timeout beyond the request context.
	Timeout      time.Duration
	CostPerMonth *float64
	CostOneTime  *float64
	Adapter      Adapter
}

// HealthCheck runs the adapter's health check when it has one.
func (p Provider) HealthCheck(ctx context.Context) error {
	if hc, ok := p.Adapter.(domain.HealthChecker); ok {
		return hc.HealthCheck(ctx)
	}
	return nil
}

// HasHealthCheck reports whether the adapter can be probed for readiness.
func (p Provider) HasHealthCheck() bool {
	_, ok := p.Adapter.(domain.HealthChecker)
	return ok
}
