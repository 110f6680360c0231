// Package upstream holds the HTTP plumbing shared by clients of search backends.
package upstream

import (
	"errors"
	"fmt"

	"github.com/kailas-cloud/searchcompare/internal/domain"
)

// maxMessage bounds how much of an upstream error body is kept.
const maxMessage = 512

// Error is a non-2xx response from a backend.
type Error struct {
	StatusCode int
	Message    string
	Op         string // operation that failed, e.g. "pinecone.Query"
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Op != "" {
		return fmt.Sprintf("%s: %d %s", e.Op, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("%d %s", e.StatusCode, e.Message)
}

// Unwrap lets callers match any backend failure with domain.ErrUpstream.
func (e *Error) Unwrap() error { return domain.ErrUpstream }

func newError(status int, body []byte) *Error {
	msg := string(body)
	if len(msg) > maxMessage {
		msg = msg[:maxMessage]
	}
	return &Error{StatusCode: status, Message: msg}
}

// wrapError attaches op to API errors and wraps everything else.
func wrapError(err error, op string) error {
	if err == nil {
		return nil
	}
	var apiErr *Error
	if errors.As(err, &apiErr) {
		apiErr.Op = op
		return apiErr
	}
	return fmt.Errorf("%s: %w", op, err)
}
