// Package compare fans a query out to every configured provider and formats
// the settled results into a side-by-side comparison.
package compare

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/kailas-cloud/searchcompare/internal/domain"
	"github.com/kailas-cloud/searchcompare/internal/domain/query"
	"github.com/kailas-cloud/searchcompare/internal/logger"
	"github.com/kailas-cloud/searchcompare/internal/metrics"
	"github.com/kailas-cloud/searchcompare/internal/provider"
)

// Service runs comparisons across a fixed, ordered list of providers.
type Service struct {
	providers   []provider.Provider
	maxQueryLen int
	now         func() time.Time
}

// New creates a comparison service. maxQueryLen <= 0 disables the length bound.
func New(providers []provider.Provider, maxQueryLen int) *Service {
	return &Service{
		providers:   providers,
		maxQueryLen: maxQueryLen,
		now:         time.Now,
	}
}

// Providers returns the configured provider names in order.
func (s *Service) Providers() []string {
	names := make([]string, 0, len(s.providers))
	for _, p := range s.providers {
		names = append(names, p.Name)
	}
	return names
}

// Compare validates raw, runs every provider concurrently and waits for all of
// them. Provider failures never fail the comparison; they become error-tagged
// results. Only query validation returns an error.
func (s *Service) Compare(ctx context.Context, raw string) (domain.Comparison, error) {
	q, err := query.Parse(raw, s.maxQueryLen)
	if err != nil {
		return domain.Comparison{}, err
	}

	start := s.now()
	results := make(domain.Results, len(s.providers))

	var g errgroup.Group
	for i, p := range s.providers {
		g.Go(func() error {
			results[i] = domain.NamedResult{Name: p.Name, Result: s.run(ctx, p, q.String())}
			return nil
		})
	}
	_ = g.Wait()

	cmp := domain.Comparison{
		OK:           true,
		Query:        q.String(),
		Timestamp:    start.UTC().Format(time.RFC3339Nano),
		Results:      results,
		Performance:  Summarize(results),
		CostAnalysis: AnalyzeCost(results),
	}

	metrics.ComparisonsTotal.WithLabelValues(cmp.Performance.FastestProvider).Inc()

	failed := 0
	for _, r := range results {
		if r.Result.Failed() {
			failed++
		}
	}
	logger.FromContext(ctx).Info("comparison",
		zap.String("query", q.String()),
		zap.Int("providers", len(results)),
		zap.Int("failed", failed),
		zap.String("fastest", cmp.Performance.FastestProvider),
		zap.String("speedup", cmp.Performance.Speedup),
		zap.Duration("elapsed", s.now().Sub(start)),
	)

	return cmp, nil
}

// run executes one provider and always returns a settled result.
func (s *Service) run(ctx context.Context, p provider.Provider, q string) domain.ProviderResult {
	if p.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.Timeout)
		defer cancel()
	}

	start := s.now()
	hits, err := safeSearch(ctx, p.Adapter, q)
	elapsed := s.now().Sub(start)

	res := domain.ProviderResult{
		Method:       p.Label,
		Description:  p.Description,
		Ms:           max(elapsed.Milliseconds(), 0),
		Hits:         hits,
		Total:        len(hits),
		CostPerMonth: p.CostPerMonth,
		CostOneTime:  p.CostOneTime,
	}
	if res.Hits == nil {
		res.Hits = []domain.Hit{}
	}
	if err != nil {
		res.Error = err.Error()
		res.Hits = []domain.Hit{}
		res.Total = 0
		logger.ForProvider(ctx, p.Name).Warn("provider search failed",
			zap.Int64("ms", res.Ms),
			zap.Error(err),
		)
	}

	metrics.ObserveProvider(p.Name, elapsed.Seconds(), res.Total, err != nil)
	return res
}

// safeSearch turns an adapter panic into an error so one bad provider cannot
// take down the whole comparison.
func safeSearch(ctx context.Context, a Adapter, q string) (hits []domain.Hit, err error) {
	defer func() {
		if r := recover(); r != nil {
			hits, err = nil, fmt.Errorf("provider panic: %v", r)
		}
	}()
	return a.Search(ctx, q)
}
