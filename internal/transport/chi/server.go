package chi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/oapi-codegen/runtime"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/kailas-cloud/searchcompare/internal/domain"
	logpkg "github.com/kailas-cloud/searchcompare/internal/logger"
	"github.com/kailas-cloud/searchcompare/internal/version"
	healthuc "github.com/kailas-cloud/searchcompare/internal/usecase/health"
)

// ServiceName is reported by the liveness endpoints.
const ServiceName = "searchcompare"

// maxBodyBytes caps the search request body; a query is at most a few hundred characters.
const maxBodyBytes = 64 << 10

// Comparer runs one comparison across all configured providers.
type Comparer interface {
	Compare(ctx context.Context, raw string) (domain.Comparison, error)
	Providers() []string
}

// Readiness reports dependency health.
type Readiness interface {
	Check(ctx context.Context) healthuc.Report
}

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error) bool

// Server holds the HTTP handlers of the comparison API.
type Server struct {
	compare       Comparer
	health        Readiness
	page          *pageRenderer
	logger        *zap.Logger
	errorHandlers []errorHandler
	now           func() time.Time
}

// NewServer creates an HTTP API server.
func NewServer(compare Comparer, health Readiness, providerLabels map[string]string, logger *zap.Logger) *Server {
	s := &Server{
		compare: compare,
		health:  health,
		page:    newPageRenderer(compare.Providers(), providerLabels),
		logger:  logger,
		now:     time.Now,
	}
	s.errorHandlers = []errorHandler{
		invalidQueryHandler,
	}
	return s
}

// Search handles POST /api/search, /api/budget-search and /api/fair-search.
func (s *Server) Search(w http.ResponseWriter, r *http.Request) {
	var req SearchRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, CodeBadRequest, "Invalid request body: "+err.Error())
		return
	}
	if req.Q == nil {
		writeError(w, http.StatusBadRequest, CodeInvalidQuery, "query required")
		return
	}
	s.runComparison(w, r, *req.Q)
}

// SearchQuery handles GET /api/search?q=.
func (s *Server) SearchQuery(w http.ResponseWriter, r *http.Request) {
	var q string
	if err := runtime.BindQueryParameter("form", true, true, "q", r.URL.Query(), &q); err != nil {
		writeError(w, http.StatusBadRequest, CodeInvalidQuery, "query required")
		return
	}
	s.runComparison(w, r, q)
}

func (s *Server) runComparison(w http.ResponseWriter, r *http.Request, q string) {
	ctx, usage := domain.NewContextWithUsage(r.Context())
	cmp, err := s.compare.Compare(ctx, q)
	if err != nil {
		s.handleDomainError(r.Context(), w, err)
		return
	}

	setEmbeddingHeaders(w, usage)
	writeJSON(w, http.StatusOK, cmp)
}

// Health handles GET /health and /api/health (liveness only).
func (s *Server) Health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{
		Status:    "ok",
		Service:   ServiceName,
		Version:   version.Version,
		Timestamp: s.now().UTC().Format(time.RFC3339),
		Providers: s.compare.Providers(),
	})
}

// Ready handles GET /readyz.
func (s *Server) Ready(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	checks := make(map[string]string, len(report.Checks))
	for k, v := range report.Checks {
		checks[k] = string(v)
	}

	httpStatus := http.StatusOK
	if report.Status != healthuc.Healthy {
		httpStatus = http.StatusServiceUnavailable
	}

	writeJSON(w, httpStatus, ReadyResponse{
		Status: string(report.Status),
		Checks: checks,
	})
}

// Metrics handles GET /metrics.
func (s *Server) Metrics(w http.ResponseWriter, r *http.Request) {
	promhttp.Handler().ServeHTTP(w, r)
}

// Index handles GET / with the embedded comparison page.
func (s *Server) Index(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := s.page.render(w); err != nil {
		logpkg.FromContext(r.Context()).Error("render page", zap.Error(err))
	}
}

func setEmbeddingHeaders(w http.ResponseWriter, usage *domain.EmbeddingUsage) {
	if usage.Used() {
		w.Header().Set("X-Embedding-Tokens", strconv.FormatInt(usage.TotalTokens(), 10))
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code ErrorCode, message string) {
	writeJSON(w, status, ErrorResponse{
		OK:      false,
		Code:    code,
		Message: message,
	})
}

// invalidQueryHandler exposes the validation detail; it is built from our own
// messages and never carries upstream text.
func invalidQueryHandler(w http.ResponseWriter, err error) bool {
	if !errors.Is(err, domain.ErrInvalidQuery) {
		return false
	}
	writeError(w, http.StatusBadRequest, CodeInvalidQuery, err.Error())
	return true
}

func (s *Server) handleDomainError(ctx context.Context, w http.ResponseWriter, err error) {
	log := logpkg.FromContext(ctx)
	log.Warn("domain error", zap.Error(err))
	for _, h := range s.errorHandlers {
		if h(w, err) {
			return
		}
	}
	log.Error("internal error", zap.Error(err))
	writeError(w, http.StatusInternalServerError, CodeInternalError, "internal error")
}
