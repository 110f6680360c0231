// Package ftshttp talks to a full-text search engine exposing GET /search?q=.
package ftshttp

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/kailas-cloud/searchcompare/internal/domain"
	"github.com/kailas-cloud/searchcompare/internal/transport/upstream"
)

// Client queries one engine base URL.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a client. A nil httpClient gets a 30s timeout client.
func NewClient(baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	return &Client{baseURL: strings.TrimRight(baseURL, "/"), httpClient: httpClient}
}

// Search runs the query. Hits come from the first non-empty of "hits", "results", "rows".
// A body that is not JSON yields no hits rather than an error.
func (c *Client) Search(ctx context.Context, query string) ([]domain.Hit, error) {
	var raw []byte
	err := upstream.Do(ctx, c.httpClient, upstream.Request{
		Op:      "fts.Search",
		Method:  http.MethodGet,
		URL:     c.baseURL + "/search?q=" + url.QueryEscape(query),
		RawBody: &raw,
	})
	if err != nil {
		return nil, err
	}

	var body struct {
		Hits    []map[string]any `json:"hits"`
		Results []map[string]any `json:"results"`
		Rows    []map[string]any `json:"rows"`
	}
	if json.Unmarshal(raw, &body) != nil {
		return []domain.Hit{}, nil
	}

	rows := body.Hits
	if len(rows) == 0 {
		rows = body.Results
	}
	if len(rows) == 0 {
		rows = body.Rows
	}

	hits := make([]domain.Hit, 0, len(rows))
	for i, r := range rows {
		hits = append(hits, toHit(r, i))
	}
	return hits, nil
}

// HealthCheck requests the engine base URL; any 2xx counts as healthy.
func (c *Client) HealthCheck(ctx context.Context) error {
	return upstream.Do(ctx, c.httpClient, upstream.Request{
		Op:     "fts.Health",
		Method: http.MethodGet,
		URL:    c.baseURL + "/health",
	})
}

func toHit(r map[string]any, i int) domain.Hit {
	h := domain.Hit{
		ID:      firstString(r, "id", "doc_id", "rowid"),
		Title:   firstString(r, "title"),
		Content: firstString(r, "content", "body", "text", "snippet"),
		Path:    firstString(r, "path", "source_path", "url"),
		Score:   firstFloat(r, "score", "rank", "bm25"),
	}
	if h.ID == "" {
		h.ID = strconv.Itoa(i + 1)
	}
	if h.Title == "" {
		h.Title = domain.ExtractTitle(h.Content)
	}
	return h
}

func firstString(r map[string]any, keys ...string) string {
	for _, k := range keys {
		switch v := r[k].(type) {
		case string:
			if v != "" {
				return v
			}
		case float64:
			return strconv.FormatFloat(v, 'f', -1, 64)
		case nil:
		default:
			return fmt.Sprint(v)
		}
	}
	return ""
}

func firstFloat(r map[string]any, keys ...string) float64 {
	for _, k := range keys {
		switch v := r[k].(type) {
		case float64:
			return v
		case string:
			if f, err := strconv.ParseFloat(v, 64); err == nil {
				return f
			}
		}
	}
	return 0
}
