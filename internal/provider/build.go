package provider

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/searchcompare/internal/config"
	"github.com/kailas-cloud/searchcompare/internal/db"
	"github.com/kailas-cloud/searchcompare/internal/domain"
	"github.com/kailas-cloud/searchcompare/internal/embedding/seeded"
	"github.com/kailas-cloud/searchcompare/internal/metrics"
	"github.com/kailas-cloud/searchcompare/internal/repository/bleveidx"
	"github.com/kailas-cloud/searchcompare/internal/repository/embcache"
	"github.com/kailas-cloud/searchcompare/internal/repository/fixture"
	"github.com/kailas-cloud/searchcompare/internal/repository/sqlitefts"
	"github.com/kailas-cloud/searchcompare/internal/transport/ftshttp"
	openaiEmb "github.com/kailas-cloud/searchcompare/internal/transport/openai"
	"github.com/kailas-cloud/searchcompare/internal/transport/pinecone"
	"github.com/kailas-cloud/searchcompare/internal/transport/qdrant"
	embeddinguc "github.com/kailas-cloud/searchcompare/internal/usecase/embedding"
)

// Deps are the shared resources adapters are built with.
type Deps struct {
	// HTTPClient is used for every outbound HTTP call. nil uses a client without deadline.
	HTTPClient *http.Client
	// Cache enables the query-embedding cache when non-nil.
	Cache          db.KVStore
	CacheTTL       time.Duration
	CacheKeyPrefix string
	Logger         *zap.Logger
}

// Set is the ordered list of built providers plus the resources they own.
type Set struct {
	Providers []Provider
	closers   []io.Closer
}

// Names returns provider names in configuration order.
func (s *Set) Names() []string {
	names := make([]string, 0, len(s.Providers))
	for _, p := range s.Providers {
		names = append(names, p.Name)
	}
	return names
}

// Close releases database handles, indexes and gRPC connections.
func (s *Set) Close() error {
	var errs []error
	for _, c := range s.closers {
		if err := c.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

type builder struct {
	cfg       config.Config
	deps      Deps
	set       *Set
	embedders map[string]domain.Embedder
	corpora   map[string][]domain.Document
}

// Build creates every configured provider in configuration order.
// Boost providers are resolved after their targets regardless of position.
func Build(ctx context.Context, cfg config.Config, deps Deps) (*Set, error) {
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}
	if deps.HTTPClient == nil {
		deps.HTTPClient = &http.Client{}
	}

	b := &builder{
		cfg:       cfg,
		deps:      deps,
		set:       &Set{},
		embedders: make(map[string]domain.Embedder),
		corpora:   make(map[string][]domain.Document),
	}

	adapters := make(map[string]Adapter, len(cfg.Providers))
	for _, pc := range cfg.Providers {
		if pc.Kind == config.KindBoost {
			continue
		}
		a, err := b.adapter(ctx, pc)
		if err != nil {
			_ = b.set.Close()
			return nil, fmt.Errorf("provider %s: %w", pc.Name, err)
		}
		adapters[pc.Name] = a
	}

	for _, pc := range cfg.Providers {
		a := adapters[pc.Name]
		if pc.Kind == config.KindBoost {
			target, ok := adapters[pc.Boost.Target]
			if !ok {
				_ = b.set.Close()
				return nil, fmt.Errorf("provider %s: %w: boost target %q", pc.Name, domain.ErrUnknownProvider, pc.Boost.Target)
			}
			a = NewBoost(target, pc.Boost.Factor)
		}
		b.set.Providers = append(b.set.Providers, Provider{
			Name:         pc.Name,
			Label:        pc.Label,
			Description:  pc.Description,
			Timeout:      time.Duration(pc.TimeoutMs) * time.Millisecond,
			CostPerMonth: pc.Cost.PerMonth,
			CostOneTime:  pc.Cost.OneTime,
			Adapter:      a,
		})
	}

	return b.set, nil
}

func (b *builder) adapter(ctx context.Context, pc config.BackendConfig) (Adapter, error) {
	switch pc.Kind {
	case config.KindVector:
		return b.vector(pc)
	case config.KindHTTPFTS:
		return ftshttp.NewClient(pc.HTTPFTS.BaseURL, b.deps.HTTPClient), nil
	case config.KindSQLiteFTS:
		store, err := sqlitefts.Open(pc.SQLite.Path)
		if err != nil {
			return nil, err
		}
		if err := store.HealthCheck(ctx); err != nil {
			_ = store.Close()
			return nil, err
		}
		b.set.closers = append(b.set.closers, store)
		return NewSQLite(store, pc.SQLite.Limit), nil
	case config.KindFixture:
		docs, err := b.corpus(pc.Fixture.File)
		if err != nil {
			return nil, err
		}
		minDelay, maxDelay := pc.Fixture.DelayRange()
		s := fixture.NewSearcher(docs, fixture.Options{
			Mode:     pc.Fixture.Mode,
			Limit:    pc.Fixture.Limit,
			MinDelay: time.Duration(minDelay) * time.Millisecond,
			MaxDelay: time.Duration(maxDelay) * time.Millisecond,
		})
		b.deps.Logger.Info("Corpus loaded",
			zap.String("provider", pc.Name),
			zap.Int("documents", s.Len()),
		)
		return s, nil
	case config.KindBleve:
		docs, err := b.corpus(pc.Bleve.File)
		if err != nil {
			return nil, err
		}
		idx, err := bleveidx.Build(docs, pc.Bleve.Limit)
		if err != nil {
			return nil, err
		}
		b.set.closers = append(b.set.closers, idx)
		n, err := idx.Len()
		if err != nil {
			return nil, err
		}
		b.deps.Logger.Info("Corpus loaded",
			zap.String("provider", pc.Name),
			zap.Uint64("documents", n),
		)
		return idx, nil
	default:
		return nil, fmt.Errorf("%w: kind %q", domain.ErrUnknownProvider, pc.Kind)
	}
}

func (b *builder) corpus(path string) ([]domain.Document, error) {
	if docs, ok := b.corpora[path]; ok {
		return docs, nil
	}
	docs, err := fixture.LoadOrBuiltin(path)
	if err != nil {
		return nil, err
	}
	b.corpora[path] = docs
	return docs, nil
}

func (b *builder) vector(pc config.BackendConfig) (Adapter, error) {
	vc := pc.Vector
	embedder, err := b.embedder(vc.Vectorizer)
	if err != nil {
		return nil, err
	}
	fields := FieldMapping{Content: vc.ContentField, Path: vc.PathField}

	var index VectorIndex
	switch vc.Index {
	case config.IndexPinecone:
		client := pinecone.NewClient(b.cfg.PineconeAPIKey(vc), pinecone.WithHTTPClient(b.deps.HTTPClient))
		index = &pineconeIndex{index: pinecone.NewIndex(client, vc.URL, vc.Namespace), fields: fields}
	case config.IndexQdrant:
		store, err := qdrant.New(qdrant.Options{
			Addr:       vc.Addr,
			Collection: vc.Collection,
			APIKey:     vc.APIKey,
			UseTLS:     vc.UseTLS,
		})
		if err != nil {
			return nil, err
		}
		b.set.closers = append(b.set.closers, store)
		index = &qdrantIndex{store: store, fields: fields}
	default:
		return nil, fmt.Errorf("unknown vector index %q", vc.Index)
	}

	return NewVector(embedder, index, vc.TopK), nil
}

// embedder assembles the decorator chain once per vectorizer:
// base provider -> cache (optional) -> instrumented.
func (b *builder) embedder(vectorizer string) (domain.Embedder, error) {
	if e, ok := b.embedders[vectorizer]; ok {
		return e, nil
	}

	vc, ok := b.cfg.Embedding.Vectorizers[vectorizer]
	if !ok {
		return nil, fmt.Errorf("unknown vectorizer %q", vectorizer)
	}
	pc, ok := b.cfg.Embedding.Providers[vc.Provider]
	if !ok {
		return nil, fmt.Errorf("vectorizer %s: unknown embedding provider %q", vectorizer, vc.Provider)
	}

	var base domain.Embedder
	switch pc.Type {
	case config.EmbedderOpenAI:
		base = openaiEmb.NewEmbedder(&openaiEmb.Config{
			APIKey:     pc.APIKey,
			BaseURL:    pc.BaseURL,
			Model:      vc.Model,
			Dimensions: vc.Dimensions,
			Provider:   vc.Provider,
			HTTPClient: b.deps.HTTPClient,
		})
	case config.EmbedderPinecone:
		client := pinecone.NewClient(pc.APIKey,
			pinecone.WithHTTPClient(b.deps.HTTPClient),
			pinecone.WithAPIURL(pc.BaseURL),
		)
		base = pinecone.NewEmbedder(client, vc.Provider, vc.Model, vc.InputType)
	case config.EmbedderSeeded:
		// Deterministic placeholder, only ever used when configured explicitly.
		base = seeded.New(vc.Dimensions)
	default:
		return nil, fmt.Errorf("unknown embedding provider type %q", pc.Type)
	}

	embedder := base
	if b.deps.Cache != nil && pc.Type != config.EmbedderSeeded {
		embedder = embcache.New(base, b.deps.Cache, embcache.Options{
			KeyPrefix: b.deps.CacheKeyPrefix + vectorizer + ":",
			TTL:       b.deps.CacheTTL,
		}, metrics.EmbeddingCacheTotal, b.deps.Logger)
	}

	embedder = embeddinguc.NewInstrumentedEmbedder(embedder, vc.Provider, vc.Model, b.deps.Logger)
	b.embedders[vectorizer] = embedder
	return embedder, nil
}
