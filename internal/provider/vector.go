package provider

import (
	"context"
	"fmt"

	"github.com/kailas-cloud/searchcompare/internal/domain"
	"github.com/kailas-cloud/searchcompare/internal/transport/pinecone"
	"github.com/kailas-cloud/searchcompare/internal/transport/qdrant"
)

// VectorIndex answers nearest-neighbour queries with ready-made hits.
type VectorIndex interface {
	Query(ctx context.Context, vector []float32, topK int) ([]domain.Hit, error)
}

// FieldMapping names the metadata fields a vector index stores the chunk text and source in.
type FieldMapping struct {
	Content string
	Path    string
}

// Vector embeds the query, then asks the index for the nearest chunks.
type Vector struct {
	embedder domain.Embedder
	index    VectorIndex
	topK     int
}

// NewVector creates an embed-then-query adapter.
func NewVector(embedder domain.Embedder, index VectorIndex, topK int) *Vector {
	return &Vector{embedder: embedder, index: index, topK: topK}
}

// Search implements Adapter.
func (v *Vector) Search(ctx context.Context, query string) ([]domain.Hit, error) {
	emb, err := v.embedder.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("vectorize query: %w", err)
	}

	hits, err := v.index.Query(ctx, emb.Embedding, v.topK)
	if err != nil {
		return nil, fmt.Errorf("query index: %w", err)
	}
	if hits == nil {
		hits = []domain.Hit{}
	}
	return hits, nil
}

// HealthCheck probes the embedder and the index.
func (v *Vector) HealthCheck(ctx context.Context) error {
	if hc, ok := v.embedder.(domain.HealthChecker); ok {
		if err := hc.HealthCheck(ctx); err != nil {
			return fmt.Errorf("embedder: %w", err)
		}
	}
	if hc, ok := v.index.(domain.HealthChecker); ok {
		if err := hc.HealthCheck(ctx); err != nil {
			return fmt.Errorf("index: %w", err)
		}
	}
	return nil
}

// pineconeIndex maps Pinecone matches to hits.
type pineconeIndex struct {
	index  *pinecone.Index
	fields FieldMapping
}

func (p *pineconeIndex) Query(ctx context.Context, vector []float32, topK int) ([]domain.Hit, error) {
	matches, err := p.index.Query(ctx, vector, topK)
	if err != nil {
		return nil, err
	}
	hits := make([]domain.Hit, 0, len(matches))
	for _, m := range matches {
		content := metadataString(m.Metadata, p.fields.Content)
		hits = append(hits, domain.Hit{
			ID:      m.ID,
			Title:   domain.ExtractTitle(content),
			Content: content,
			Path:    metadataString(m.Metadata, p.fields.Path),
			Score:   m.Score,
		})
	}
	return hits, nil
}

func (p *pineconeIndex) HealthCheck(ctx context.Context) error {
	return p.index.HealthCheck(ctx)
}

// qdrantIndex maps Qdrant points to hits.
type qdrantIndex struct {
	store  *qdrant.Store
	fields FieldMapping
}

func (q *qdrantIndex) Query(ctx context.Context, vector []float32, topK int) ([]domain.Hit, error) {
	points, err := q.store.Search(ctx, vector, topK)
	if err != nil {
		return nil, err
	}
	hits := make([]domain.Hit, 0, len(points))
	for _, p := range points {
		content := p.Payload[q.fields.Content]
		hits = append(hits, domain.Hit{
			ID:      p.ID,
			Title:   domain.ExtractTitle(content),
			Content: content,
			Path:    p.Payload[q.fields.Path],
			Score:   p.Score,
		})
	}
	return hits, nil
}

func (q *qdrantIndex) HealthCheck(ctx context.Context) error {
	return q.store.HealthCheck(ctx)
}

func metadataString(md map[string]any, key string) string {
	if md == nil {
		return ""
	}
	switch v := md[key].(type) {
	case string:
		return v
	case nil:
		return ""
	default:
		return fmt.Sprint(v)
	}
}
