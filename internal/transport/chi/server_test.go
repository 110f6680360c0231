package chi

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"go.uber.org/zap"

	"github.com/kailas-cloud/searchcompare/internal/domain"
	"github.com/kailas-cloud/searchcompare/internal/provider"
	compareuc "github.com/kailas-cloud/searchcompare/internal/usecase/compare"
	healthuc "github.com/kailas-cloud/searchcompare/internal/usecase/health"
)

// --- Mocks ---

type mockAdapter struct {
	hits   []domain.Hit
	err    error
	tokens int
	calls  atomic.Int32
}

func (m *mockAdapter) Search(ctx context.Context, _ string) ([]domain.Hit, error) {
	m.calls.Add(1)
	if m.tokens > 0 {
		domain.UsageFromContext(ctx).AddTokens(m.tokens)
	}
	return m.hits, m.err
}

type mockComponent struct {
	err error
}

func (m *mockComponent) HealthCheck(_ context.Context) error { return m.err }

type testEnv struct {
	handler  http.Handler
	adapters map[string]*mockAdapter
}

func newTestEnv(t *testing.T, healthErr error) *testEnv {
	t.Helper()
	adapters := map[string]*mockAdapter{
		"pinecone":             {hits: []domain.Hit{{ID: "p1", Title: "Military aircraft", Score: 0.82}}, tokens: 3},
		"contextlite_fts5":     {hits: []domain.Hit{{ID: "w5", Title: "Military aircraft", Score: 7.1}}},
		"contextlite_semantic": {err: domain.ErrUpstream},
	}
	var providers []provider.Provider
	labels := map[string]string{}
	for _, name := range []string{"pinecone", "contextlite_fts5", "contextlite_semantic"} {
		label := strings.ToUpper(name)
		providers = append(providers, provider.Provider{Name: name, Label: label, Adapter: adapters[name]})
		labels[name] = label
	}

	cmp := compareuc.New(providers, 256)
	health := healthuc.New(nil).WithComponent("pinecone", &mockComponent{err: healthErr})
	srv := NewServer(cmp, health, labels, zap.NewNop())

	return &testEnv{
		handler:  NewRouter(srv, RouterOptions{CORSOrigins: []string{"http://localhost:5173"}}),
		adapters: adapters,
	}
}

func (e *testEnv) do(method, target, body string) *httptest.ResponseRecorder {
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, r)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	e.handler.ServeHTTP(rec, req)
	return rec
}

func (e *testEnv) totalCalls() int32 {
	var n int32
	for _, a := range e.adapters {
		n += a.calls.Load()
	}
	return n
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) ErrorResponse {
	t.Helper()
	var resp ErrorResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode error response: %v", err)
	}
	return resp
}

// --- Search ---

func TestSearch_MilitaryAircraft(t *testing.T) {
	env := newTestEnv(t, nil)

	for _, path := range []string{"/api/search", "/api/budget-search", "/api/fair-search"} {
		t.Run(path, func(t *testing.T) {
			rec := env.do(http.MethodPost, path, `{"q":"military aircraft"}`)
			if rec.Code != http.StatusOK {
				t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
			}

			var raw struct {
				OK      bool                       `json:"ok"`
				Query   string                     `json:"query"`
				Results map[string]json.RawMessage `json:"results"`
			}
			body := rec.Body.Bytes()
			if err := json.Unmarshal(body, &raw); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if !raw.OK || raw.Query != "military aircraft" {
				t.Errorf("unexpected header: %+v", raw)
			}
			if len(raw.Results) != 3 {
				t.Fatalf("expected exactly 3 result keys, got %d", len(raw.Results))
			}
			for _, name := range []string{"pinecone", "contextlite_fts5", "contextlite_semantic"} {
				var pr struct {
					Ms   *int64          `json:"ms"`
					Hits json.RawMessage `json:"hits"`
				}
				if err := json.Unmarshal(raw.Results[name], &pr); err != nil {
					t.Fatalf("%s: decode: %v", name, err)
				}
				if pr.Ms == nil || *pr.Ms < 0 {
					t.Errorf("%s: ms missing or negative", name)
				}
				if !strings.HasPrefix(string(pr.Hits), "[") {
					t.Errorf("%s: hits is not an array: %s", name, pr.Hits)
				}
			}

			// ключи идут в порядке конфигурации
			iP := strings.Index(string(body), `"pinecone"`)
			iF := strings.Index(string(body), `"contextlite_fts5"`)
			iS := strings.Index(string(body), `"contextlite_semantic"`)
			if iP >= iF || iF >= iS {
				t.Errorf("results not in configuration order: %s", body)
			}
		})
	}
}

func TestSearch_ProviderErrorIsNot500(t *testing.T) {
	env := newTestEnv(t, nil)
	rec := env.do(http.MethodPost, "/api/search", `{"q":"military aircraft"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var cmp domain.Comparison
	if err := json.NewDecoder(rec.Body).Decode(&cmp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	sem, found := cmp.Results.Get("contextlite_semantic")
	if !found || sem.Error == "" || len(sem.Hits) != 0 {
		t.Fatalf("expected error-tagged semantic result, got %+v", sem)
	}
}

func TestSearch_EmbeddingTokensHeader(t *testing.T) {
	env := newTestEnv(t, nil)
	rec := env.do(http.MethodPost, "/api/search", `{"q":"jet engine"}`)

	if got := rec.Header().Get("X-Embedding-Tokens"); got != "3" {
		t.Errorf("expected X-Embedding-Tokens=3, got %q", got)
	}
}

func TestSearch_InvalidQueries(t *testing.T) {
	tests := []struct {
		name string
		body string
		code ErrorCode
	}{
		{"empty", `{"q":""}`, CodeInvalidQuery},
		{"whitespace", `{"q":"   "}`, CodeInvalidQuery},
		{"missing", `{}`, CodeInvalidQuery},
		{"too long", `{"q":"` + strings.Repeat("a", 300) + `"}`, CodeInvalidQuery},
		{"not json", `q=hello`, CodeBadRequest},
		{"wrong type", `{"q":42}`, CodeBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t, nil)
			rec := env.do(http.MethodPost, "/api/search", tt.body)
			if rec.Code != http.StatusBadRequest {
				t.Fatalf("expected 400, got %d", rec.Code)
			}
			resp := decodeError(t, rec)
			if resp.OK || resp.Code != tt.code {
				t.Errorf("unexpected error response: %+v", resp)
			}
			if env.totalCalls() != 0 {
				t.Errorf("expected no provider calls, got %d", env.totalCalls())
			}
		})
	}
}

func TestSearchQuery_GET(t *testing.T) {
	env := newTestEnv(t, nil)

	rec := env.do(http.MethodGet, "/api/search?q=military+aircraft", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	rec = env.do(http.MethodGet, "/api/search", "")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 without q, got %d", rec.Code)
	}
}

// --- Health ---

func TestHealth(t *testing.T) {
	env := newTestEnv(t, nil)

	for _, path := range []string{"/health", "/api/health"} {
		rec := env.do(http.MethodGet, path, "")
		if rec.Code != http.StatusOK {
			t.Fatalf("%s: expected 200, got %d", path, rec.Code)
		}
		var resp HealthResponse
		if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if resp.Status != "ok" || resp.Service != ServiceName || len(resp.Providers) != 3 {
			t.Errorf("%s: unexpected response %+v", path, resp)
		}
		if resp.Timestamp == "" {
			t.Errorf("%s: missing timestamp", path)
		}
	}
}

func TestReady(t *testing.T) {
	tests := []struct {
		name      string
		healthErr error
		status    int
	}{
		{"healthy", nil, http.StatusOK},
		{"degraded", errors.New("index unreachable"), http.StatusServiceUnavailable},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t, tt.healthErr)
			rec := env.do(http.MethodGet, "/readyz", "")
			if rec.Code != tt.status {
				t.Fatalf("expected %d, got %d", tt.status, rec.Code)
			}
			var resp ReadyResponse
			if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if _, ok := resp.Checks["provider:pinecone"]; !ok {
				t.Errorf("missing provider check: %+v", resp.Checks)
			}
		})
	}
}

// --- Page, metrics, middleware ---

func TestIndexPage(t *testing.T) {
	env := newTestEnv(t, nil)
	rec := env.do(http.MethodGet, "/", "")

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/html") {
		t.Errorf("unexpected content type %q", ct)
	}
	body := rec.Body.String()
	for _, want := range []string{`data-provider="contextlite_fts5"`, "CONTEXTLITE_SEMANTIC", "/api/search"} {
		if !strings.Contains(body, want) {
			t.Errorf("page missing %q", want)
		}
	}
}

func TestMetricsEndpoint(t *testing.T) {
	env := newTestEnv(t, nil)
	rec := env.do(http.MethodGet, "/metrics", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestRequestIDHeader(t *testing.T) {
	env := newTestEnv(t, nil)
	rec := env.do(http.MethodGet, "/health", "")
	if rec.Header().Get("X-Request-ID") == "" {
		t.Error("expected X-Request-ID header")
	}
}

func TestCORSPreflight(t *testing.T) {
	env := newTestEnv(t, nil)
	req := httptest.NewRequest(http.MethodOptions, "/api/search", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rec := httptest.NewRecorder()
	env.handler.ServeHTTP(rec, req)

	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "http://localhost:5173" {
		t.Errorf("expected allowed origin, got %q", got)
	}
}

func TestJSONRecoverer(t *testing.T) {
	h := jsonRecoverer(zap.NewNop())(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
	if resp := decodeError(t, rec); resp.Code != CodeInternalError {
		t.Errorf("unexpected code %q", resp.Code)
	}
}

func TestNewRouter_Tracing(t *testing.T) {
	cmp := compareuc.New([]provider.Provider{{Name: "a", Adapter: &mockAdapter{}}}, 256)
	srv := NewServer(cmp, healthuc.New(nil), nil, zap.NewNop())
	h := NewRouter(srv, RouterOptions{Tracing: true, ServiceName: "test"})

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}
