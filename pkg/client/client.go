package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"
)

const defaultTimeout = 60 * time.Second

// Client calls a searchcompare server.
type Client struct {
	baseURL    string
	endpoint   string
	httpClient *http.Client
	obs        *observer
}

// New creates a Client for baseURL, e.g. "http://localhost:3000".
func New(baseURL string, opts ...Option) (*Client, error) {
	if baseURL == "" {
		return nil, errors.New("searchcompare: base URL required")
	}
	cfg := &clientConfig{endpoint: "/api/search"}
	for _, o := range opts {
		o.apply(cfg)
	}
	if cfg.httpClient == nil {
		cfg.httpClient = &http.Client{Timeout: defaultTimeout}
	}

	obs, err := newObserver(cfg.logger, cfg.metricsReg)
	if err != nil {
		return nil, err
	}

	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		endpoint:   cfg.endpoint,
		httpClient: cfg.httpClient,
		obs:        obs,
	}, nil
}

// Compare runs one comparison. Provider failures are reported inside the
// result; only request-level failures return an error.
func (c *Client) Compare(ctx context.Context, query string) (res CompareResult, err error) {
	start := time.Now()
	defer func() { c.obs.observe("compare", start, err) }()

	body, err := json.Marshal(map[string]string{"q": query})
	if err != nil {
		return CompareResult{}, fmt.Errorf("compare: encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+c.endpoint, bytes.NewReader(body))
	if err != nil {
		return CompareResult{}, fmt.Errorf("compare: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.do(req, "compare", &res.Comparison)
	if err != nil {
		return CompareResult{}, err
	}

	res.EmbeddingTokens = -1
	if v := resp.Header.Get("X-Embedding-Tokens"); v != "" {
		if n, perr := strconv.ParseInt(v, 10, 64); perr == nil {
			res.EmbeddingTokens = n
		}
	}
	res.RequestID = resp.Header.Get("X-Request-ID")
	return res, nil
}

// Health fetches the liveness report.
func (c *Client) Health(ctx context.Context) (h HealthStatus, err error) {
	start := time.Now()
	defer func() { c.obs.observe("health", start, err) }()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/health", nil)
	if err != nil {
		return HealthStatus{}, fmt.Errorf("health: build request: %w", err)
	}
	if _, err := c.do(req, "health", &h); err != nil {
		return HealthStatus{}, err
	}
	return h, nil
}

func (c *Client) do(req *http.Request, op string, out any) (*http.Response, error) {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		apiErr := &APIError{StatusCode: resp.StatusCode, Op: op}
		data, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		var body struct {
			Code    string `json:"code"`
			Message string `json:"message"`
		}
		if json.Unmarshal(data, &body) == nil && body.Message != "" {
			apiErr.Code, apiErr.Message = body.Code, body.Message
		} else {
			apiErr.Message = strings.TrimSpace(string(data))
		}
		return nil, apiErr
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return nil, fmt.Errorf("%s: decode response: %w", op, err)
	}
	return resp, nil
}
