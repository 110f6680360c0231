// Package bleveidx serves a corpus from an in-process bleve index.
package bleveidx

import (
	"context"
	"fmt"
	"strings"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/search/query"

	"github.com/kailas-cloud/searchcompare/internal/domain"
)

// DefaultLimit is the number of hits returned when none is configured.
const DefaultLimit = 5

var searchFields = []string{"title", "content", "tags"}

type indexedDoc struct {
	Title   string `json:"title"`
	Content string `json:"content"`
	Path    string `json:"path"`
	Tags    string `json:"tags"`
}

// Index is a memory-only bleve index built once from a corpus.
type Index struct {
	index bleve.Index
	limit int
}

// Build indexes docs into a new memory-only index.
func Build(docs []domain.Document, limit int) (*Index, error) {
	if limit <= 0 {
		limit = DefaultLimit
	}

	textField := bleve.NewTextFieldMapping()
	textField.Store = true

	pathField := bleve.NewKeywordFieldMapping()
	pathField.Store = true
	pathField.Index = false

	docMapping := bleve.NewDocumentMapping()
	for _, f := range searchFields {
		docMapping.AddFieldMappingsAt(f, textField)
	}
	docMapping.AddFieldMappingsAt("path", pathField)

	indexMapping := bleve.NewIndexMapping()
	indexMapping.DefaultMapping = docMapping

	idx, err := bleve.NewMemOnly(indexMapping)
	if err != nil {
		return nil, fmt.Errorf("create bleve index: %w", err)
	}

	batch := idx.NewBatch()
	for _, d := range docs {
		doc := indexedDoc{Title: d.Title, Content: d.Content, Path: d.Path, Tags: strings.Join(d.Tags, " ")}
		if err := batch.Index(d.ID, doc); err != nil {
			_ = idx.Close()
			return nil, fmt.Errorf("index document %s: %w", d.ID, err)
		}
	}
	if err := idx.Batch(batch); err != nil {
		_ = idx.Close()
		return nil, fmt.Errorf("commit bleve batch: %w", err)
	}
	return &Index{index: idx, limit: limit}, nil
}

// Search runs a match query across title, content and tags, scored by bleve.
func (i *Index) Search(ctx context.Context, q string) ([]domain.Hit, error) {
	disjuncts := make([]query.Query, 0, len(searchFields))
	for _, f := range searchFields {
		mq := bleve.NewMatchQuery(q)
		mq.SetField(f)
		disjuncts = append(disjuncts, mq)
	}

	req := bleve.NewSearchRequestOptions(bleve.NewDisjunctionQuery(disjuncts...), i.limit, 0, false)
	req.Fields = []string{"title", "content", "path"}

	res, err := i.index.SearchInContext(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("bleve search: %w", err)
	}

	hits := make([]domain.Hit, 0, len(res.Hits))
	for _, h := range res.Hits {
		d := domain.Document{
			ID:      h.ID,
			Title:   fieldString(h.Fields, "title"),
			Content: fieldString(h.Fields, "content"),
			Path:    fieldString(h.Fields, "path"),
		}
		hits = append(hits, d.ToHit(h.Score))
	}
	return hits, nil
}

// Len returns the number of indexed documents.
func (i *Index) Len() (uint64, error) {
	n, err := i.index.DocCount()
	if err != nil {
		return 0, fmt.Errorf("bleve doc count: %w", err)
	}
	return n, nil
}

// Close releases the index.
func (i *Index) Close() error {
	if err := i.index.Close(); err != nil {
		return fmt.Errorf("close bleve index: %w", err)
	}
	return nil
}

func fieldString(fields map[string]any, name string) string {
	s, _ := fields[name].(string)
	return s
}
