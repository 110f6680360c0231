package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Backend kinds.
const (
	KindVector    = "vector"
	KindHTTPFTS   = "http_fts"
	KindSQLiteFTS = "sqlite_fts"
	KindFixture   = "fixture"
	KindBleve     = "bleve"
	KindBoost     = "boost"
)

// Embedding provider types.
const (
	EmbedderOpenAI   = "openai"
	EmbedderPinecone = "pinecone"
	EmbedderSeeded   = "seeded"
)

// Vector index types.
const (
	IndexPinecone = "pinecone"
	IndexQdrant   = "qdrant"
)

// Config holds the searchcompare server configuration.
// It is built once at startup and passed down; adapters never read the environment.
type Config struct {
	HTTP      HTTPConfig      `yaml:"http"`
	Search    SearchConfig    `yaml:"search"`
	Embedding EmbeddingConfig `yaml:"embedding"`
	Providers []BackendConfig `yaml:"providers"`
	Cache     CacheConfig     `yaml:"cache"`
	Tracing   TracingConfig   `yaml:"tracing"`
	Logging   LoggingConfig   `yaml:"logging"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error (default: determined by env)
}

// HTTPConfig holds HTTP server settings.
type HTTPConfig struct {
	Host            string   `yaml:"host"`
	Port            int      `yaml:"port"`
	ReadTimeoutSec  int      `yaml:"read_timeout_sec"`
	WriteTimeoutSec int      `yaml:"write_timeout_sec"`
	ShutdownSec     int      `yaml:"shutdown_timeout_sec"`
	CORSOrigins     []string `yaml:"cors_origins"`
	// OutboundTimeoutSec bounds every call to a search or embedding backend.
	// 0 (default) means no client-side deadline; per-provider timeout_ms still applies.
	OutboundTimeoutSec int `yaml:"outbound_timeout_sec"`
}

// Addr returns the listen address.
func (h HTTPConfig) Addr() string {
	return fmt.Sprintf("%s:%d", h.Host, h.Port)
}

// SearchConfig holds query intake settings.
type SearchConfig struct {
	// MaxQueryLength bounds the query in characters. nil means default (256), 0 disables.
	MaxQueryLength *int `yaml:"max_query_length"`
	DefaultTopK    int  `yaml:"default_top_k"`
}

// QueryLimit returns the effective query length bound.
func (s SearchConfig) QueryLimit() int {
	if s.MaxQueryLength == nil {
		return DefaultMaxQueryLength
	}
	return *s.MaxQueryLength
}

// DefaultMaxQueryLength is the query bound used when none is configured.
const DefaultMaxQueryLength = 256

// EmbeddingConfig holds embedding settings.
type EmbeddingConfig struct {
	Providers   map[string]ProviderConfig   `yaml:"providers"`
	Vectorizers map[string]VectorizerConfig `yaml:"vectorizers"`
}

// ProviderConfig holds embedding provider settings.
type ProviderConfig struct {
	Type    string `yaml:"type"` // openai (default), pinecone, seeded
	APIKey  string `yaml:"api_key"`
	BaseURL string `yaml:"base_url"`
}

// VectorizerConfig holds vectorizer settings.
type VectorizerConfig struct {
	Provider   string `yaml:"provider"`
	Model      string `yaml:"model"`
	Dimensions int    `yaml:"dimensions"`
	InputType  string `yaml:"input_type"` // pinecone inference only
}

// CostConfig holds the illustrative price of a backend.
type CostConfig struct {
	PerMonth *float64 `yaml:"per_month"`
	OneTime  *float64 `yaml:"one_time"`
}

// BackendConfig describes one search provider taking part in the comparison.
// Order in the providers list is the order of results in every response.
type BackendConfig struct {
	Name        string     `yaml:"name"`
	Kind        string     `yaml:"kind"`
	Label       string     `yaml:"label"`
	Description string     `yaml:"description"`
	TimeoutMs   int        `yaml:"timeout_ms"` // 0 = no timeout
	Cost        CostConfig `yaml:"cost"`

	Vector  VectorBackendConfig  `yaml:"vector"`
	HTTPFTS HTTPFTSBackendConfig `yaml:"http_fts"`
	SQLite  SQLiteBackendConfig  `yaml:"sqlite"`
	Fixture FixtureBackendConfig `yaml:"fixture"`
	Bleve   BleveBackendConfig   `yaml:"bleve"`
	Boost   BoostBackendConfig   `yaml:"boost"`
}

// VectorBackendConfig holds embed-then-query settings.
type VectorBackendConfig struct {
	Vectorizer   string `yaml:"vectorizer"`
	Index        string `yaml:"index"` // pinecone, qdrant
	URL          string `yaml:"url"`   // pinecone index host
	APIKey       string `yaml:"api_key"`
	Namespace    string `yaml:"namespace"`
	Addr         string `yaml:"addr"` // qdrant grpc host:port
	Collection   string `yaml:"collection"`
	UseTLS       bool   `yaml:"use_tls"`
	TopK         int    `yaml:"top_k"`
	ContentField string `yaml:"content_field"`
	PathField    string `yaml:"path_field"`
}

// HTTPFTSBackendConfig holds settings of a full-text engine reached over HTTP.
type HTTPFTSBackendConfig struct {
	BaseURL string `yaml:"base_url"`
}

// SQLiteBackendConfig holds settings of the local FTS5 database.
type SQLiteBackendConfig struct {
	Path  string `yaml:"path"`
	Limit int    `yaml:"limit"`
}

// FixtureBackendConfig holds settings of the in-memory fixture corpus.
type FixtureBackendConfig struct {
	File       string `yaml:"file"` // optional JSON corpus, built-in corpus when empty
	Mode       string `yaml:"mode"` // substring (default), ranked
	Limit      int    `yaml:"limit"`
	// Delay bounds of the emulated engine latency. Both unset means 1-50ms;
	// 0 and 0 disables the delay.
	MinDelayMs *int `yaml:"min_delay_ms"`
	MaxDelayMs *int `yaml:"max_delay_ms"`
}

// DelayRange returns the configured latency bounds in milliseconds.
func (f FixtureBackendConfig) DelayRange() (lo, hi int) {
	if f.MinDelayMs != nil {
		lo = *f.MinDelayMs
	}
	if f.MaxDelayMs != nil {
		hi = *f.MaxDelayMs
	}
	return lo, hi
}

// BleveBackendConfig holds settings of the in-process bleve index.
type BleveBackendConfig struct {
	File  string `yaml:"file"`
	Limit int    `yaml:"limit"`
}

// BoostBackendConfig holds settings of the score-boost wrapper.
type BoostBackendConfig struct {
	Target string  `yaml:"target"`
	Factor float64 `yaml:"factor"`
}

// CacheConfig holds the optional query-embedding cache settings.
type CacheConfig struct {
	Enabled          bool     `yaml:"enabled"`
	Addrs            []string `yaml:"addrs"`
	Password         string   `yaml:"password"`
	TTLSec           int      `yaml:"ttl_sec"`
	KeyPrefix        string   `yaml:"key_prefix"`
	ReadinessTimeout int      `yaml:"readiness_timeout_sec"`
}

// TracingConfig holds OpenTelemetry instrumentation settings.
type TracingConfig struct {
	Enabled     bool   `yaml:"enabled"`
	ServiceName string `yaml:"service_name"`
}

// Load reads configuration from a YAML file by environment name (local, dev, prod).
// A .env file in the working directory, if present, is loaded into the environment first.
func Load(env string) (Config, error) {
	if err := loadDotEnv(".env"); err != nil {
		return Config{}, err
	}

	configPath := findConfigPath(env)

	data, err := os.ReadFile(filepath.Clean(configPath))
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config %s: %w", configPath, err)
	}

	return Parse(data)
}

// Parse expands env variables in data, decodes it, applies defaults and validates.
func Parse(data []byte) (Config, error) {
	// Substitute env variables of the form ${VAR}
	data = expandEnvVars(data)

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.ApplyDefaults()

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// GetEnv returns the current environment from the ENV variable, defaulting to "local".
func GetEnv() string {
	if env := os.Getenv("ENV"); env != "" {
		return env
	}
	return "local"
}

// ApplyDefaults fills empty fields with default values.
func (c *Config) ApplyDefaults() {
	if c.HTTP.Port == 0 {
		c.HTTP.Port = 3000
	}
	if c.HTTP.ReadTimeoutSec <= 0 {
		c.HTTP.ReadTimeoutSec = 10
	}
	if c.HTTP.WriteTimeoutSec <= 0 {
		c.HTTP.WriteTimeoutSec = 60
	}
	if c.HTTP.ShutdownSec <= 0 {
		c.HTTP.ShutdownSec = 10
	}
	if c.Search.DefaultTopK <= 0 {
		c.Search.DefaultTopK = 10
	}
	if c.Cache.TTLSec <= 0 {
		c.Cache.TTLSec = 3600
	}
	if c.Cache.KeyPrefix == "" {
		c.Cache.KeyPrefix = "searchcompare:emb:"
	}
	if c.Cache.ReadinessTimeout <= 0 {
		c.Cache.ReadinessTimeout = 10
	}
	if c.Tracing.ServiceName == "" {
		c.Tracing.ServiceName = "searchcompare"
	}
	for name, p := range c.Embedding.Providers {
		if p.Type == "" {
			p.Type = EmbedderOpenAI
			c.Embedding.Providers[name] = p
		}
	}
	for i := range c.Providers {
		c.Providers[i].applyDefaults(c.Search.DefaultTopK)
	}
}

func (b *BackendConfig) applyDefaults(topK int) {
	if b.Label == "" {
		b.Label = b.Name
	}
	switch b.Kind {
	case KindVector:
		if b.Vector.TopK <= 0 {
			b.Vector.TopK = topK
		}
		if b.Vector.Namespace == "" && b.Vector.Index == IndexPinecone {
			b.Vector.Namespace = "default"
		}
		if b.Vector.ContentField == "" {
			b.Vector.ContentField = "content"
		}
		if b.Vector.PathField == "" {
			b.Vector.PathField = "source_path"
		}
	case KindSQLiteFTS:
		if b.SQLite.Limit <= 0 {
			b.SQLite.Limit = 5
		}
	case KindFixture:
		if b.Fixture.Mode == "" {
			b.Fixture.Mode = "substring"
		}
		if b.Fixture.Limit <= 0 {
			b.Fixture.Limit = 5
		}
		switch {
		case b.Fixture.MinDelayMs == nil && b.Fixture.MaxDelayMs == nil:
			lo, hi := 1, 50
			b.Fixture.MinDelayMs, b.Fixture.MaxDelayMs = &lo, &hi
		case b.Fixture.MinDelayMs == nil:
			lo := 0
			b.Fixture.MinDelayMs = &lo
		case b.Fixture.MaxDelayMs == nil:
			hi := *b.Fixture.MinDelayMs
			b.Fixture.MaxDelayMs = &hi
		}
	case KindBleve:
		if b.Bleve.Limit <= 0 {
			b.Bleve.Limit = 5
		}
	case KindBoost:
		if b.Boost.Factor == 0 {
			b.Boost.Factor = 1.1
		}
	}
}

// Validate checks the configuration for correctness.
func (c *Config) Validate() error {
	if c.HTTP.Port <= 0 || c.HTTP.Port > 65535 {
		return fmt.Errorf("http.port must be between 1 and 65535, got %d", c.HTTP.Port)
	}
	if c.HTTP.OutboundTimeoutSec < 0 {
		return fmt.Errorf("http.outbound_timeout_sec must be >= 0, got %d", c.HTTP.OutboundTimeoutSec)
	}
	if c.Search.MaxQueryLength != nil && *c.Search.MaxQueryLength < 0 {
		return fmt.Errorf("search.max_query_length must be >= 0, got %d", *c.Search.MaxQueryLength)
	}
	if len(c.Providers) == 0 {
		return fmt.Errorf("providers: at least one provider is required")
	}
	if c.Cache.Enabled && len(c.Cache.Addrs) == 0 {
		return fmt.Errorf("cache.addrs is required when cache is enabled")
	}
	for name, p := range c.Embedding.Providers {
		switch p.Type {
		case EmbedderOpenAI, EmbedderPinecone, EmbedderSeeded:
		default:
			return fmt.Errorf("embedding.providers.%s.type must be openai, pinecone or seeded, got %q", name, p.Type)
		}
	}
	for name, v := range c.Embedding.Vectorizers {
		if _, ok := c.Embedding.Providers[v.Provider]; !ok {
			return fmt.Errorf("embedding.vectorizers.%s: unknown provider %q", name, v.Provider)
		}
	}

	seen := make(map[string]BackendConfig, len(c.Providers))
	for i, p := range c.Providers {
		if p.Name == "" {
			return fmt.Errorf("providers[%d].name is required", i)
		}
		if _, dup := seen[p.Name]; dup {
			return fmt.Errorf("providers[%d]: duplicate name %q", i, p.Name)
		}
		seen[p.Name] = p
		if p.TimeoutMs < 0 {
			return fmt.Errorf("providers.%s.timeout_ms must be >= 0", p.Name)
		}
		if err := c.validateBackend(p); err != nil {
			return fmt.Errorf("providers.%s: %w", p.Name, err)
		}
	}
	// Boost targets are resolved after all names are known.
	for _, p := range c.Providers {
		if p.Kind != KindBoost {
			continue
		}
		target, ok := seen[p.Boost.Target]
		if !ok {
			return fmt.Errorf("providers.%s: boost target %q is not configured", p.Name, p.Boost.Target)
		}
		if target.Kind == KindBoost {
			return fmt.Errorf("providers.%s: boost target %q must not be a boost", p.Name, p.Boost.Target)
		}
	}
	return nil
}

// PineconeAPIKey resolves the key sent to a pinecone index: the backend's own key,
// or the embedding provider's key when that provider is pinecone inference.
// Keys of other embedding providers are never reused.
func (c Config) PineconeAPIKey(v VectorBackendConfig) string {
	if v.APIKey != "" {
		return v.APIKey
	}
	if c.vectorizerOnPinecone(v.Vectorizer) {
		return c.Embedding.Providers[c.Embedding.Vectorizers[v.Vectorizer].Provider].APIKey
	}
	return ""
}

func (c Config) vectorizerOnPinecone(vectorizer string) bool {
	vz, ok := c.Embedding.Vectorizers[vectorizer]
	if !ok {
		return false
	}
	pc, ok := c.Embedding.Providers[vz.Provider]
	return ok && pc.Type == EmbedderPinecone
}

func (c *Config) validateBackend(p BackendConfig) error {
	switch p.Kind {
	case KindVector:
		if _, ok := c.Embedding.Vectorizers[p.Vector.Vectorizer]; !ok {
			return fmt.Errorf("unknown vectorizer %q", p.Vector.Vectorizer)
		}
		switch p.Vector.Index {
		case IndexPinecone:
			if p.Vector.URL == "" {
				return fmt.Errorf("vector.url is required for pinecone index")
			}
			if p.Vector.APIKey == "" && !c.vectorizerOnPinecone(p.Vector.Vectorizer) {
				return fmt.Errorf("vector.api_key is required for pinecone index when vectorizer %q is not served by pinecone", p.Vector.Vectorizer)
			}
		case IndexQdrant:
			if p.Vector.Addr == "" || p.Vector.Collection == "" {
				return fmt.Errorf("vector.addr and vector.collection are required for qdrant index")
			}
		default:
			return fmt.Errorf("vector.index must be pinecone or qdrant, got %q", p.Vector.Index)
		}
	case KindHTTPFTS:
		if p.HTTPFTS.BaseURL == "" {
			return fmt.Errorf("http_fts.base_url is required")
		}
	case KindSQLiteFTS:
		if p.SQLite.Path == "" {
			return fmt.Errorf("sqlite.path is required")
		}
	case KindFixture:
		if p.Fixture.Mode != "substring" && p.Fixture.Mode != "ranked" {
			return fmt.Errorf("fixture.mode must be substring or ranked, got %q", p.Fixture.Mode)
		}
		if lo, hi := p.Fixture.DelayRange(); lo < 0 || hi < lo {
			return fmt.Errorf("fixture delay range [%d, %d] is invalid", lo, hi)
		}
	case KindBleve:
	case KindBoost:
		if p.Boost.Factor <= 0 {
			return fmt.Errorf("boost.factor must be positive")
		}
	default:
		return fmt.Errorf("unknown kind %q", p.Kind)
	}
	return nil
}

// ProviderNames returns configured provider names in order.
func (c *Config) ProviderNames() []string {
	names := make([]string, 0, len(c.Providers))
	for _, p := range c.Providers {
		names = append(names, p.Name)
	}
	return names
}

// loadDotEnv loads path into the process environment without overriding existing variables.
func loadDotEnv(path string) error {
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("load %s: %w", path, err)
	}
	return nil
}

// findConfigPath locates the config file.
func findConfigPath(env string) string {
	filename := fmt.Sprintf("%s.yaml", env)

	// 1. Check ./config/
	if path := filepath.Join("config", filename); fileExists(path) {
		return path
	}

	// 2. Check relative to the source file
	_, b, _, _ := runtime.Caller(0)
	projectRoot := filepath.Dir(filepath.Dir(filepath.Dir(b))) // internal/config -> project root
	if path := filepath.Join(projectRoot, "config", filename); fileExists(path) {
		return path
	}

	// 3. Fallback to ./config/
	return filepath.Join("config", filename)
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// expandEnvVars replaces ${VAR} and ${VAR:-default} with environment variable values.
var envVarRegex = regexp.MustCompile(`\$\{([^}]+)\}`)

func expandEnvVars(data []byte) []byte {
	return envVarRegex.ReplaceAllFunc(data, func(match []byte) []byte {
		expr := string(match[2 : len(match)-1]) // strip ${ and }
		varName, defaultVal, hasDefault := strings.Cut(expr, ":-")
		val := os.Getenv(varName)
		if val == "" && hasDefault {
			val = defaultVal
		}
		return []byte(val)
	})
}
