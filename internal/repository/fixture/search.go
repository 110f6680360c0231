package fixture

import (
	"context"
	"math/rand/v2"
	"sort"
	"strings"
	"time"

	"github.com/kailas-cloud/searchcompare/internal/domain"
)

// Matching modes.
const (
	// ModeSubstring keeps documents whose content contains the query, case-insensitively.
	ModeSubstring = "substring"
	// ModeRanked also matches title and tags, or at least two query terms.
	ModeRanked = "ranked"
)

// Relevance weights of the scoring heuristic.
const (
	phraseInTitle   = 100
	phraseInContent = 50
	termInTitle     = 10
	termInContent   = 5
	termInTag       = 15
	minTermLen      = 3
)

// Options configures a Searcher.
type Options struct {
	Mode     string
	Limit    int
	MinDelay time.Duration
	MaxDelay time.Duration
}

// Searcher filters and scores an in-memory corpus.
type Searcher struct {
	docs  []domain.Document
	opts  Options
	delay func() time.Duration
}

// NewSearcher creates a searcher over docs.
func NewSearcher(docs []domain.Document, opts Options) *Searcher {
	if opts.Mode == "" {
		opts.Mode = ModeSubstring
	}
	s := &Searcher{docs: docs, opts: opts}
	s.delay = s.randomDelay
	return s
}

// Len returns the corpus size.
func (s *Searcher) Len() int { return len(s.docs) }

// Search returns matching documents sorted by heuristic score, after an artificial
// latency drawn uniformly from [MinDelay, MaxDelay] to emulate a local engine.
func (s *Searcher) Search(ctx context.Context, query string) ([]domain.Hit, error) {
	if d := s.randomDelay(); d > 0 {
		t := time.NewTimer(d)
		select {
		case <-ctx.Done():
			t.Stop()
			return nil, ctx.Err()
		case <-t.C:
		}
	}

	phrase := strings.ToLower(query)
	terms := strings.Split(phrase, " ")

	type scored struct {
		doc   domain.Document
		score float64
	}
	var matches []scored
	for _, d := range s.docs {
		if !s.matches(d, phrase, terms) {
			continue
		}
		matches = append(matches, scored{doc: d, score: Score(d, query)})
	}

	sort.SliceStable(matches, func(i, j int) bool { return matches[i].score > matches[j].score })
	if s.opts.Limit > 0 && len(matches) > s.opts.Limit {
		matches = matches[:s.opts.Limit]
	}

	hits := make([]domain.Hit, 0, len(matches))
	for _, m := range matches {
		hits = append(hits, m.doc.ToHit(m.score))
	}
	return hits, nil
}

func (s *Searcher) matches(d domain.Document, phrase string, terms []string) bool {
	if s.opts.Mode == ModeSubstring {
		return strings.Contains(strings.ToLower(d.Content), phrase)
	}

	text := searchableText(d)
	if strings.Contains(text, phrase) {
		return true
	}
	hit := 0
	for _, t := range terms {
		if len(t) >= minTermLen && strings.Contains(text, t) {
			hit++
		}
	}
	return hit >= min(2, len(terms))
}

func (s *Searcher) randomDelay() time.Duration {
	lo, hi := s.opts.MinDelay, s.opts.MaxDelay
	if hi <= lo {
		return lo
	}
	return lo + time.Duration(rand.Int64N(int64(hi-lo)+1)) //nolint:gosec // latency jitter
}

// Score computes the relevance heuristic: whole phrase in title or content, then
// each query term of three or more characters in title, content and tags.
func Score(d domain.Document, query string) float64 {
	phrase := strings.ToLower(query)
	title := strings.ToLower(d.Title)
	content := strings.ToLower(d.Content)

	score := 0
	if strings.Contains(title, phrase) {
		score += phraseInTitle
	}
	if strings.Contains(content, phrase) {
		score += phraseInContent
	}
	for _, t := range strings.Split(phrase, " ") {
		if len(t) < minTermLen {
			continue
		}
		if strings.Contains(title, t) {
			score += termInTitle
		}
		if strings.Contains(content, t) {
			score += termInContent
		}
		for _, tag := range d.Tags {
			if strings.Contains(strings.ToLower(tag), t) {
				score += termInTag
				break
			}
		}
	}
	return float64(score)
}

func searchableText(d domain.Document) string {
	return strings.ToLower(d.Title + " " + d.Content + " " + strings.Join(d.Tags, " "))
}
