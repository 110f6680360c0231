package chi

// ErrorCode is a machine-readable error code in error responses.
type ErrorCode string

// Error codes.
const (
	CodeBadRequest    ErrorCode = "bad_request"
	CodeInvalidQuery  ErrorCode = "invalid_query"
	CodeInternalError ErrorCode = "internal_error"
)

// SearchRequest is the body of the POST search endpoints.
type SearchRequest struct {
	Q *string `json:"q"`
}

// ErrorResponse is returned for every non-2xx API response.
type ErrorResponse struct {
	OK      bool      `json:"ok"`
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
}

// HealthResponse is the liveness payload of /health and /api/health.
type HealthResponse struct {
	Status    string   `json:"status"`
	Service   string   `json:"service"`
	Version   string   `json:"version"`
	Timestamp string   `json:"timestamp"`
	Providers []string `json:"providers"`
}

// ReadyResponse is the payload of /readyz.
type ReadyResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}
