package pinecone

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/kailas-cloud/searchcompare/internal/domain"
	"github.com/kailas-cloud/searchcompare/internal/metrics"
	"github.com/kailas-cloud/searchcompare/internal/transport/upstream"
)

type embedRequest struct {
	Model      string            `json:"model"`
	Inputs     []embedInput      `json:"inputs"`
	Parameters map[string]string `json:"parameters,omitempty"`
}

type embedInput struct {
	Text string `json:"text"`
}

type embedResponse struct {
	Model string `json:"model"`
	Data  []struct {
		Values []float32 `json:"values"`
	} `json:"data"`
	Usage struct {
		TotalTokens int `json:"total_tokens"`
	} `json:"usage"`
}

// Embedder uses Pinecone hosted inference to vectorize queries.
type Embedder struct {
	client    *Client
	model     string
	inputType string
	provider  string
}

// NewEmbedder creates an inference embedder. Empty model and inputType default to
// multilingual-e5-large and "query".
func NewEmbedder(c *Client, provider, model, inputType string) *Embedder {
	if model == "" {
		model = DefaultModel
	}
	if inputType == "" {
		inputType = "query"
	}
	return &Embedder{client: c, model: model, inputType: inputType, provider: provider}
}

// Embed implements domain.Embedder.
func (e *Embedder) Embed(ctx context.Context, text string) (domain.EmbeddingResult, error) {
	var resp embedResponse
	start := time.Now()
	err := upstream.Do(ctx, e.client.httpClient, upstream.Request{
		Op:     "pinecone.Embed",
		Method: http.MethodPost,
		URL:    e.client.apiURL + "/embed",
		Header: e.client.header(),
		Body: embedRequest{
			Model:      e.model,
			Inputs:     []embedInput{{Text: text}},
			Parameters: map[string]string{"input_type": e.inputType, "truncate": "END"},
		},
		Result: &resp,
	})
	if err != nil {
		metrics.ObserveEmbedding(e.provider, e.model, 0, 0, 0, "api_error")
		return domain.EmbeddingResult{}, fmt.Errorf("%w: %w", domain.ErrEmbeddingProviderError, err)
	}
	if len(resp.Data) == 0 || len(resp.Data[0].Values) == 0 {
		metrics.ObserveEmbedding(e.provider, e.model, 0, 0, 0, "empty_response")
		return domain.EmbeddingResult{}, fmt.Errorf("empty embedding response: %w", domain.ErrEmbeddingProviderError)
	}

	tokens := resp.Usage.TotalTokens
	metrics.ObserveEmbedding(e.provider, e.model, time.Since(start).Seconds(), tokens, tokens, "")
	return domain.EmbeddingResult{
		Embedding:    resp.Data[0].Values,
		PromptTokens: tokens,
		TotalTokens:  tokens,
	}, nil
}

// HealthCheck lists hosted models, which needs a valid key but costs no tokens.
func (e *Embedder) HealthCheck(ctx context.Context) error {
	return upstream.Do(ctx, e.client.httpClient, upstream.Request{
		Op:     "pinecone.ListModels",
		Method: http.MethodGet,
		URL:    e.client.apiURL + "/models",
		Header: e.client.header(),
	})
}
