package client

import (
	"errors"
	"fmt"
)

// ErrInvalidQuery is matched by errors.Is for 400 invalid_query responses.
var ErrInvalidQuery = errors.New("invalid query")

// APIError is a non-2xx response from the server.
type APIError struct {
	StatusCode int
	Code       string
	Message    string
	Op         string
}

func (e *APIError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("%s: %d %s: %s", e.Op, e.StatusCode, e.Code, e.Message)
	}
	return fmt.Sprintf("%s: %d: %s", e.Op, e.StatusCode, e.Message)
}

// Is reports invalid_query responses as ErrInvalidQuery.
func (e *APIError) Is(target error) bool {
	return target == ErrInvalidQuery && e.Code == "invalid_query"
}
