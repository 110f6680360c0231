package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// NamedResult pairs a provider result with the provider's configured name.
type NamedResult struct {
	Name   string
	Result ProviderResult
}

// Results is the ordered set of provider outcomes. Order follows configuration, not completion.
type Results []NamedResult

// Get returns the result for a provider name.
func (rs Results) Get(name string) (ProviderResult, bool) {
	for _, r := range rs {
		if r.Name == name {
			return r.Result, true
		}
	}
	return ProviderResult{}, false
}

// MarshalJSON encodes the results as a JSON object keyed by provider name, in order.
func (rs Results) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, r := range rs {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(r.Name)
		if err != nil {
			return nil, fmt.Errorf("marshal provider name: %w", err)
		}
		val, err := json.Marshal(r.Result)
		if err != nil {
			return nil, fmt.Errorf("marshal provider %s: %w", r.Name, err)
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON decodes a JSON object of provider results, keeping key order.
func (rs *Results) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return fmt.Errorf("read results: %w", err)
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("results: expected object")
	}
	out := Results{}
	for dec.More() {
		tok, err = dec.Token()
		if err != nil {
			return fmt.Errorf("read provider name: %w", err)
		}
		name, _ := tok.(string)
		var pr ProviderResult
		if err := dec.Decode(&pr); err != nil {
			return fmt.Errorf("decode provider %s: %w", name, err)
		}
		out = append(out, NamedResult{Name: name, Result: pr})
	}
	*rs = out
	return nil
}

// Performance summarizes timing across providers.
type Performance struct {
	Fastest         string           `json:"fastest"`
	FastestProvider string           `json:"fastest_provider"`
	Speedup         string           `json:"speedup"`
	SpeedComparison map[string]int64 `json:"speed_comparison"`
}

// Savings is the illustrative saving of one one-time-priced provider.
type Savings struct {
	Provider  string  `json:"provider"`
	OneTime   float64 `json:"one_time"`
	Savings   float64 `json:"savings"`
	ROIMonths int     `json:"roi_months"`
}

// CostAnalysis is a presentational figure derived from configured prices.
// It is not derived from any measurement.
type CostAnalysis struct {
	Illustrative bool      `json:"illustrative"`
	Baseline     string    `json:"baseline"`
	Monthly      float64   `json:"monthly"`
	Annual       float64   `json:"annual"`
	Alternatives []Savings `json:"alternatives"`
}

// Comparison is the response for one comparison request.
type Comparison struct {
	OK           bool          `json:"ok"`
	Query        string        `json:"query"`
	Timestamp    string        `json:"timestamp"`
	Results      Results       `json:"results"`
	Performance  Performance   `json:"performance"`
	CostAnalysis *CostAnalysis `json:"cost_analysis,omitempty"`
}
