package domain

import "errors"

var (
	// ErrInvalidQuery signals a missing, empty, or oversized query.
	ErrInvalidQuery = errors.New("invalid query")
	// ErrEmbeddingProviderError signals an embedding provider failure.
	ErrEmbeddingProviderError = errors.New("embedding provider error")
	// ErrUpstream signals a non-2xx or transport failure from a search backend.
	ErrUpstream = errors.New("upstream error")
	// ErrDecode signals an upstream response that could not be parsed.
	ErrDecode = errors.New("decode error")
	// ErrUnknownProvider signals a reference to a provider that is not configured.
	ErrUnknownProvider = errors.New("unknown provider")
)
