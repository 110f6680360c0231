// Package relevance scores provider hits with a naive term-containment check.
// The check says nothing about ranking quality; it only flags hits that share no
// text with the query.
package relevance

import (
	"strings"

	"github.com/kailas-cloud/searchcompare/internal/domain"
)

// IsRelevant reports whether content contains the whole query or any of its
// whitespace-separated terms, case-insensitively.
func IsRelevant(query, content string) bool {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return false
	}
	c := strings.ToLower(content)
	if strings.Contains(c, q) {
		return true
	}
	for _, term := range strings.Fields(q) {
		if strings.Contains(c, term) {
			return true
		}
	}
	return false
}

// Report is the relevance breakdown of one provider's hits.
type Report struct {
	Marks    []bool
	Relevant int
	Total    int
}

// Percent returns the share of relevant hits, 0 for no hits.
func (r Report) Percent() float64 {
	if r.Total == 0 {
		return 0
	}
	return float64(r.Relevant) / float64(r.Total) * 100
}

// Analyze marks every hit of a provider result.
func Analyze(query string, hits []domain.Hit) Report {
	rep := Report{Marks: make([]bool, len(hits)), Total: len(hits)}
	for i, h := range hits {
		if IsRelevant(query, h.Content) {
			rep.Marks[i] = true
			rep.Relevant++
		}
	}
	return rep
}

// SpeedRatio returns ms/baselineMs, or 0 when the baseline is not positive.
func SpeedRatio(ms, baselineMs int64) float64 {
	if baselineMs <= 0 {
		return 0
	}
	return float64(ms) / float64(baselineMs)
}
