package domain

import "strings"

// Hit is one result entry returned by a provider.
// Score units are provider-specific (bm25, cosine similarity, heuristic) and not comparable.
type Hit struct {
	ID               string  `json:"id"`
	Title            string  `json:"title,omitempty"`
	Content          string  `json:"content"`
	Path             string  `json:"path,omitempty"`
	Score            float64 `json:"score"`
	SemanticEnhanced bool    `json:"semantic_enhanced,omitempty"`
}

// ProviderResult is the settled outcome of one provider for one query.
type ProviderResult struct {
	Method       string   `json:"method"`
	Description  string   `json:"description,omitempty"`
	Ms           int64    `json:"ms"`
	Hits         []Hit    `json:"hits"`
	Total        int      `json:"total"`
	Error        string   `json:"error,omitempty"`
	CostPerMonth *float64 `json:"cost_per_month,omitempty"`
	CostOneTime  *float64 `json:"cost_one_time,omitempty"`
}

// Failed reports whether the provider produced an error annotation.
func (r ProviderResult) Failed() bool { return r.Error != "" }

// ExtractTitle returns the first line of content, trimmed, or "Untitled".
func ExtractTitle(content string) string {
	first, _, _ := strings.Cut(content, "\n")
	if t := strings.TrimSpace(first); t != "" {
		return t
	}
	return "Untitled"
}
