package pinecone

import (
	"context"
	"net/http"
	"strings"

	"github.com/kailas-cloud/searchcompare/internal/transport/upstream"
)

// Match is one nearest-neighbour result of an index query.
type Match struct {
	ID       string         `json:"id"`
	Score    float64        `json:"score"`
	Metadata map[string]any `json:"metadata"`
}

type queryRequest struct {
	Vector          []float32 `json:"vector"`
	TopK            int       `json:"topK"`
	IncludeMetadata bool      `json:"includeMetadata"`
	Namespace       string    `json:"namespace,omitempty"`
}

type queryResponse struct {
	Matches   []Match `json:"matches"`
	Namespace string  `json:"namespace"`
}

// Index queries one Pinecone index host.
type Index struct {
	client    *Client
	queryURL  string
	namespace string
}

// NewIndex binds an index host URL. A trailing /query is accepted and normalized.
func NewIndex(c *Client, indexURL, namespace string) *Index {
	u := strings.TrimRight(indexURL, "/")
	if !strings.HasSuffix(u, "/query") {
		u += "/query"
	}
	return &Index{client: c, queryURL: u, namespace: namespace}
}

// Query returns the topK nearest matches with metadata.
func (i *Index) Query(ctx context.Context, vector []float32, topK int) ([]Match, error) {
	var resp queryResponse
	err := upstream.Do(ctx, i.client.httpClient, upstream.Request{
		Op:     "pinecone.Query",
		Method: http.MethodPost,
		URL:    i.queryURL,
		Header: i.client.header(),
		Body: queryRequest{
			Vector:          vector,
			TopK:            topK,
			IncludeMetadata: true,
			Namespace:       i.namespace,
		},
		Result: &resp,
	})
	if err != nil {
		return nil, err
	}
	return resp.Matches, nil
}

// HealthCheck calls describe_index_stats on the index host.
func (i *Index) HealthCheck(ctx context.Context) error {
	statsURL := strings.TrimSuffix(i.queryURL, "/query") + "/describe_index_stats"
	return upstream.Do(ctx, i.client.httpClient, upstream.Request{
		Op:     "pinecone.DescribeIndexStats",
		Method: http.MethodPost,
		URL:    statsURL,
		Header: i.client.header(),
		Body:   struct{}{},
	})
}
