package compare

import (
	"fmt"
	"math"

	"github.com/kailas-cloud/searchcompare/internal/domain"
)

// Summarize finds the fastest provider and the slowest-to-fastest ratio.
// The first result initializes the minimum and only a strictly smaller ms
// replaces it, so ties go to the earliest-listed provider.
func Summarize(results domain.Results) domain.Performance {
	perf := domain.Performance{
		Speedup:         "N/A",
		SpeedComparison: make(map[string]int64, len(results)),
	}
	if len(results) == 0 {
		return perf
	}

	fastest, slowest := results[0], results[0]
	for _, r := range results {
		perf.SpeedComparison[r.Name] = r.Result.Ms
		if r.Result.Ms < fastest.Result.Ms {
			fastest = r
		}
		if r.Result.Ms > slowest.Result.Ms {
			slowest = r
		}
	}

	perf.Fastest = fastest.Result.Method
	perf.FastestProvider = fastest.Name
	if len(results) > 1 && fastest.Result.Ms > 0 {
		perf.Speedup = fmt.Sprintf("%.1fx", float64(slowest.Result.Ms)/float64(fastest.Result.Ms))
	}
	return perf
}

// AnalyzeCost builds the illustrative cost comparison: the first provider with a
// monthly price is the baseline, and every provider with a one-time price is
// compared against one year of it. Returns nil when either side is missing.
func AnalyzeCost(results domain.Results) *domain.CostAnalysis {
	var baseline *domain.NamedResult
	for i := range results {
		if results[i].Result.CostPerMonth != nil {
			baseline = &results[i]
			break
		}
	}
	if baseline == nil {
		return nil
	}

	monthly := *baseline.Result.CostPerMonth
	ca := &domain.CostAnalysis{
		Illustrative: true,
		Baseline:     baseline.Name,
		Monthly:      monthly,
		Annual:       monthly * 12,
	}
	for _, r := range results {
		if r.Result.CostOneTime == nil {
			continue
		}
		oneTime := *r.Result.CostOneTime
		s := domain.Savings{
			Provider: r.Name,
			OneTime:  oneTime,
			Savings:  ca.Annual - oneTime,
		}
		if monthly > 0 {
			s.ROIMonths = int(math.Ceil(oneTime / monthly))
		}
		ca.Alternatives = append(ca.Alternatives, s)
	}
	if len(ca.Alternatives) == 0 {
		return nil
	}
	return ca
}
