package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func ptr[T any](v T) *T { return &v }

func validConfig() Config {
	return Config{
		HTTP: HTTPConfig{Port: 8080},
		Embedding: EmbeddingConfig{
			Providers: map[string]ProviderConfig{
				"pinecone": {Type: EmbedderPinecone, APIKey: "test-key"},
			},
			Vectorizers: map[string]VectorizerConfig{
				"e5": {Provider: "pinecone", Model: "multilingual-e5-large", Dimensions: 1024},
			},
		},
		Providers: []BackendConfig{
			{
				Name: "pinecone", Kind: KindVector,
				Vector: VectorBackendConfig{Vectorizer: "e5", Index: IndexPinecone, URL: "https://idx.example.com"},
			},
			{Name: "contextlite_fts5", Kind: KindSQLiteFTS, SQLite: SQLiteBackendConfig{Path: "demo.db"}},
			{Name: "contextlite_semantic", Kind: KindBoost, Boost: BoostBackendConfig{Target: "contextlite_fts5"}},
		},
	}
}

func TestValidate_Valid(t *testing.T) {
	cfg := validConfig()
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidate_InvalidPort(t *testing.T) {
	cfg := validConfig()
	cfg.HTTP.Port = 70000

	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected error for invalid port")
	}
}

func TestValidate_NegativeOutboundTimeout(t *testing.T) {
	cfg := validConfig()
	cfg.HTTP.OutboundTimeoutSec = -1
	cfg.ApplyDefaults()

	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for negative outbound timeout")
	}
}

func TestValidate_NoProviders(t *testing.T) {
	cfg := validConfig()
	cfg.Providers = nil
	cfg.ApplyDefaults()

	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for empty providers")
	}
}

func TestValidate_DuplicateName(t *testing.T) {
	cfg := validConfig()
	cfg.Providers = append(cfg.Providers, BackendConfig{
		Name: "pinecone", Kind: KindHTTPFTS, HTTPFTS: HTTPFTSBackendConfig{BaseURL: "http://x"},
	})
	cfg.ApplyDefaults()

	err := cfg.Validate()
	if err == nil || !strings.Contains(err.Error(), "duplicate") {
		t.Fatalf("expected duplicate error, got %v", err)
	}
}

func TestValidate_UnknownKind(t *testing.T) {
	cfg := validConfig()
	cfg.Providers[1].Kind = "elastic"
	cfg.ApplyDefaults()

	err := cfg.Validate()
	if err == nil || !strings.Contains(err.Error(), `unknown kind "elastic"`) {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidate_BoostTarget(t *testing.T) {
	tests := []struct {
		name   string
		target string
		want   string
	}{
		{"missing", "nope", "is not configured"},
		{"boost of boost", "contextlite_semantic", "must not be a boost"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			cfg.Providers[2].Boost.Target = tt.target
			cfg.ApplyDefaults()

			err := cfg.Validate()
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("expected %q, got %v", tt.want, err)
			}
		})
	}
}

func TestValidate_UnknownVectorizer(t *testing.T) {
	cfg := validConfig()
	cfg.Providers[0].Vector.Vectorizer = "missing"
	cfg.ApplyDefaults()

	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for unknown vectorizer")
	}
}

func TestValidate_QdrantRequiresCollection(t *testing.T) {
	cfg := validConfig()
	cfg.Providers[0].Vector = VectorBackendConfig{Vectorizer: "e5", Index: IndexQdrant, Addr: "localhost:6334"}
	cfg.ApplyDefaults()

	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for missing collection")
	}
}

func TestValidate_PineconeIndexKey(t *testing.T) {
	cfg := validConfig()
	cfg.Embedding.Providers["openai"] = ProviderConfig{Type: EmbedderOpenAI, APIKey: "sk-secret"}
	cfg.Embedding.Vectorizers["small"] = VectorizerConfig{Provider: "openai", Model: "text-embedding-3-small"}
	cfg.Providers[0].Vector.Vectorizer = "small"
	cfg.ApplyDefaults()

	err := cfg.Validate()
	if err == nil || !strings.Contains(err.Error(), "vector.api_key is required") {
		t.Fatalf("expected missing index key error, got %v", err)
	}

	cfg.Providers[0].Vector.APIKey = "pc-key"
	if err := cfg.Validate(); err != nil {
		t.Fatalf("unexpected error with own key: %v", err)
	}
}

func TestPineconeAPIKey(t *testing.T) {
	cfg := validConfig()
	cfg.Embedding.Providers["openai"] = ProviderConfig{Type: EmbedderOpenAI, APIKey: "sk-secret"}
	cfg.Embedding.Vectorizers["small"] = VectorizerConfig{Provider: "openai"}

	tests := []struct {
		name string
		v    VectorBackendConfig
		want string
	}{
		{"own key wins", VectorBackendConfig{Vectorizer: "e5", APIKey: "own"}, "own"},
		{"pinecone inference key", VectorBackendConfig{Vectorizer: "e5"}, "test-key"},
		{"openai key never reused", VectorBackendConfig{Vectorizer: "small"}, ""},
		{"unknown vectorizer", VectorBackendConfig{Vectorizer: "missing"}, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := cfg.PineconeAPIKey(tt.v); got != tt.want {
				t.Errorf("expected %q, got %q", tt.want, got)
			}
		})
	}
}

func TestApplyDefaults_FixtureDelay(t *testing.T) {
	tests := []struct {
		name           string
		min, max       *int
		wantLo, wantHi int
	}{
		{"unset uses default", nil, nil, 1, 50},
		{"zero disables delay", ptr(0), ptr(0), 0, 0},
		{"only max", nil, ptr(20), 0, 20},
		{"only min", ptr(7), nil, 7, 7},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			cfg.Providers = append(cfg.Providers, BackendConfig{
				Name: "local", Kind: KindFixture,
				Fixture: FixtureBackendConfig{MinDelayMs: tt.min, MaxDelayMs: tt.max},
			})
			cfg.ApplyDefaults()
			if err := cfg.Validate(); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			lo, hi := cfg.Providers[3].Fixture.DelayRange()
			if lo != tt.wantLo || hi != tt.wantHi {
				t.Errorf("expected [%d, %d], got [%d, %d]", tt.wantLo, tt.wantHi, lo, hi)
			}
		})
	}
}

func TestValidate_FixtureDelayInverted(t *testing.T) {
	cfg := validConfig()
	cfg.Providers = append(cfg.Providers, BackendConfig{
		Name: "local", Kind: KindFixture,
		Fixture: FixtureBackendConfig{MinDelayMs: ptr(30), MaxDelayMs: ptr(10)},
	})
	cfg.ApplyDefaults()

	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for inverted delay range")
	}
}

func TestValidate_CacheWithoutAddrs(t *testing.T) {
	cfg := validConfig()
	cfg.Cache.Enabled = true
	cfg.ApplyDefaults()

	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for cache without addrs")
	}
}

func TestValidate_NegativeQueryLength(t *testing.T) {
	cfg := validConfig()
	cfg.Search.MaxQueryLength = ptr(-1)
	cfg.ApplyDefaults()

	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for negative max_query_length")
	}
}

func TestApplyDefaults(t *testing.T) {
	cfg := validConfig()
	cfg.Providers = append(cfg.Providers,
		BackendConfig{Name: "fixture", Kind: KindFixture},
		BackendConfig{Name: "bleve", Kind: KindBleve},
	)
	cfg.Embedding.Providers["openai"] = ProviderConfig{APIKey: "k"}
	cfg.ApplyDefaults()

	if cfg.HTTP.ReadTimeoutSec != 10 {
		t.Errorf("expected ReadTimeoutSec=10, got %d", cfg.HTTP.ReadTimeoutSec)
	}
	if cfg.HTTP.OutboundTimeoutSec != 0 {
		t.Errorf("expected no outbound timeout by default, got %d", cfg.HTTP.OutboundTimeoutSec)
	}
	if cfg.HTTP.ShutdownSec != 10 {
		t.Errorf("expected ShutdownSec=10, got %d", cfg.HTTP.ShutdownSec)
	}
	if cfg.Search.QueryLimit() != 256 {
		t.Errorf("expected QueryLimit=256, got %d", cfg.Search.QueryLimit())
	}
	if cfg.Cache.TTLSec != 3600 {
		t.Errorf("expected TTLSec=3600, got %d", cfg.Cache.TTLSec)
	}
	if cfg.Embedding.Providers["openai"].Type != EmbedderOpenAI {
		t.Errorf("expected default embedder type openai, got %q", cfg.Embedding.Providers["openai"].Type)
	}

	pc := cfg.Providers[0]
	if pc.Label != "pinecone" {
		t.Errorf("expected label to default to name, got %q", pc.Label)
	}
	if pc.Vector.Namespace != "default" || pc.Vector.TopK != 10 {
		t.Errorf("unexpected vector defaults: %+v", pc.Vector)
	}
	if pc.TimeoutMs != 0 {
		t.Errorf("expected no timeout by default, got %d", pc.TimeoutMs)
	}
	if cfg.Providers[1].SQLite.Limit != 5 {
		t.Errorf("expected sqlite limit 5, got %d", cfg.Providers[1].SQLite.Limit)
	}
	if cfg.Providers[2].Boost.Factor != 1.1 {
		t.Errorf("expected boost factor 1.1, got %v", cfg.Providers[2].Boost.Factor)
	}
	fx := cfg.Providers[3].Fixture
	if lo, hi := fx.DelayRange(); fx.Mode != "substring" || lo != 1 || hi != 50 {
		t.Errorf("unexpected fixture defaults: %+v", fx)
	}
}

func TestQueryLimit_ZeroDisables(t *testing.T) {
	s := SearchConfig{MaxQueryLength: ptr(0)}
	if s.QueryLimit() != 0 {
		t.Errorf("expected 0, got %d", s.QueryLimit())
	}
}

func TestParse_ExpandsEnv(t *testing.T) {
	t.Setenv("SC_TEST_PINECONE_KEY", "secret")
	data := []byte(`
http:
  port: ${SC_TEST_PORT:-4000}
embedding:
  providers:
    pc:
      type: pinecone
      api_key: ${SC_TEST_PINECONE_KEY}
  vectorizers:
    e5:
      provider: pc
      model: multilingual-e5-large
providers:
  - name: pinecone
    kind: vector
    vector:
      vectorizer: e5
      index: pinecone
      url: https://idx.example.com
  - name: local
    kind: fixture
`)
	cfg, err := Parse(data)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.HTTP.Port != 4000 {
		t.Errorf("expected port 4000, got %d", cfg.HTTP.Port)
	}
	if cfg.Embedding.Providers["pc"].APIKey != "secret" {
		t.Errorf("api key not expanded: %q", cfg.Embedding.Providers["pc"].APIKey)
	}
	names := cfg.ProviderNames()
	if len(names) != 2 || names[0] != "pinecone" || names[1] != "local" {
		t.Errorf("unexpected provider order: %v", names)
	}
}

func TestLoadDotEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	if err := os.WriteFile(path, []byte("SC_TEST_DOTENV=from-file\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("SC_TEST_DOTENV", "")
	os.Unsetenv("SC_TEST_DOTENV")

	if err := loadDotEnv(path); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := os.Getenv("SC_TEST_DOTENV"); got != "from-file" {
		t.Errorf("expected from-file, got %q", got)
	}
}

func TestLoadDotEnv_Missing(t *testing.T) {
	if err := loadDotEnv(filepath.Join(t.TempDir(), ".env")); err != nil {
		t.Fatalf("missing .env must be ignored, got %v", err)
	}
}
