// Package pinecone is a minimal client for the Pinecone inference and index query APIs.
package pinecone

import (
	"net/http"
	"strings"
	"time"
)

const (
	// DefaultAPIURL is the Pinecone control plane serving the inference API.
	DefaultAPIURL = "https://api.pinecone.io"
	// DefaultModel is the hosted embedding model used for queries.
	DefaultModel = "multilingual-e5-large"
	apiVersion   = "2025-01"
)

// Client holds the credentials shared by the embedder and index.
type Client struct {
	apiKey     string
	apiURL     string
	httpClient *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(c *http.Client) Option {
	return func(client *Client) {
		if c != nil {
			client.httpClient = c
		}
	}
}

// WithAPIURL overrides the control plane URL.
func WithAPIURL(u string) Option {
	return func(client *Client) {
		if u != "" {
			client.apiURL = strings.TrimRight(u, "/")
		}
	}
}

// NewClient creates a Pinecone client. The API key is sent in the Api-Key header.
func NewClient(apiKey string, opts ...Option) *Client {
	c := &Client{
		apiKey:     apiKey,
		apiURL:     DefaultAPIURL,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) header() http.Header {
	return http.Header{
		"Api-Key":                []string{c.apiKey},
		"X-Pinecone-Api-Version": []string{apiVersion},
	}
}
