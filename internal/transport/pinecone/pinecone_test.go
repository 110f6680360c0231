package pinecone

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/kailas-cloud/searchcompare/internal/domain"
)

func TestEmbedder_Embed(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/embed" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if r.Header.Get("Api-Key") != "pc-key" {
			t.Errorf("missing Api-Key")
		}
		var req embedRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if req.Model != DefaultModel || req.Parameters["input_type"] != "query" {
			t.Errorf("unexpected request: %+v", req)
		}
		if len(req.Inputs) != 1 || req.Inputs[0].Text != "military aircraft" {
			t.Errorf("unexpected inputs: %+v", req.Inputs)
		}
		_, _ = w.Write([]byte(`{"model":"multilingual-e5-large","data":[{"values":[0.1,0.2]}],"usage":{"total_tokens":4}}`))
	}))
	defer srv.Close()

	e := NewEmbedder(NewClient("pc-key", WithAPIURL(srv.URL)), "pinecone", "", "")
	res, err := e.Embed(context.Background(), "military aircraft")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(res.Embedding) != 2 || res.TotalTokens != 4 {
		t.Errorf("unexpected result: %+v", res)
	}
}

func TestEmbedder_Failure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	e := NewEmbedder(NewClient("bad", WithAPIURL(srv.URL)), "pinecone", "", "")
	_, err := e.Embed(context.Background(), "x")
	if !errors.Is(err, domain.ErrEmbeddingProviderError) || !errors.Is(err, domain.ErrUpstream) {
		t.Fatalf("expected embedding provider + upstream error, got %v", err)
	}
}

func TestIndex_Query(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/query" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		var req queryRequest
		_ = json.NewDecoder(r.Body).Decode(&req)
		if req.TopK != 5 || !req.IncludeMetadata || req.Namespace != "default" {
			t.Errorf("unexpected request: %+v", req)
		}
		_, _ = w.Write([]byte(`{"matches":[{"id":"a","score":0.83,"metadata":{"content":"F-16\nfighter","source_path":"/wiki/F-16"}}]}`))
	}))
	defer srv.Close()

	idx := NewIndex(NewClient("k"), srv.URL+"/query", "default")
	matches, err := idx.Query(context.Background(), []float32{0.1}, 5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(matches) != 1 || matches[0].ID != "a" || matches[0].Score != 0.83 {
		t.Fatalf("unexpected matches: %+v", matches)
	}
	if matches[0].Metadata["source_path"] != "/wiki/F-16" {
		t.Errorf("metadata lost: %+v", matches[0].Metadata)
	}
}

func TestNewIndex_NormalizesURL(t *testing.T) {
	for _, in := range []string{"https://idx.example.io", "https://idx.example.io/", "https://idx.example.io/query"} {
		if got := NewIndex(NewClient("k"), in, "").queryURL; got != "https://idx.example.io/query" {
			t.Errorf("NewIndex(%q).queryURL = %q", in, got)
		}
	}
}
