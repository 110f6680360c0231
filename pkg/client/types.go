package client

import "github.com/kailas-cloud/searchcompare/internal/domain"

// Response types mirror the server's JSON encoding.
type (
	Comparison     = domain.Comparison
	Results        = domain.Results
	NamedResult    = domain.NamedResult
	ProviderResult = domain.ProviderResult
	Hit            = domain.Hit
	Performance    = domain.Performance
	CostAnalysis   = domain.CostAnalysis
)

// HealthStatus is the liveness report of the server.
type HealthStatus struct {
	Status    string   `json:"status"`
	Service   string   `json:"service"`
	Version   string   `json:"version"`
	Timestamp string   `json:"timestamp"`
	Providers []string `json:"providers"`
}

// CompareResult is a comparison plus response metadata.
type CompareResult struct {
	Comparison
	// EmbeddingTokens is the X-Embedding-Tokens header, -1 when absent.
	EmbeddingTokens int64
	RequestID       string
}
