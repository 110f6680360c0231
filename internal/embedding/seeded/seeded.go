// Package seeded provides a deterministic placeholder embedder.
// Its vectors carry no semantic meaning; it exists for fixtures and offline runs
// and is only used when configured explicitly.
package seeded

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"math"
	"strconv"

	"github.com/kailas-cloud/searchcompare/internal/domain"
)

// DefaultDimensions is the vector size used when none is configured.
const DefaultDimensions = 1024

const (
	lcgMul = 1664525
	lcgInc = 1013904223
	lcgMod = 1 << 32
)

// Embedder generates reproducible vectors from an MD5 seed of the input.
type Embedder struct {
	dims int
}

// New creates a seeded embedder. dims <= 0 falls back to DefaultDimensions.
func New(dims int) *Embedder {
	if dims <= 0 {
		dims = DefaultDimensions
	}
	return &Embedder{dims: dims}
}

// Embed returns the vector for text. Identical input yields identical output.
func (e *Embedder) Embed(_ context.Context, text string) (domain.EmbeddingResult, error) {
	vec, err := Generate(text, e.dims)
	if err != nil {
		return domain.EmbeddingResult{}, err
	}
	return domain.EmbeddingResult{Embedding: vec}, nil
}

// HealthCheck always succeeds; there is no backend.
func (e *Embedder) HealthCheck(context.Context) error { return nil }

// Generate builds an L2-normalized vector of dims values seeded by MD5(text).
func Generate(text string, dims int) ([]float32, error) {
	sum := md5.Sum([]byte(text)) //nolint:gosec // seed derivation
	seed, err := strconv.ParseUint(hex.EncodeToString(sum[:])[:8], 16, 32)
	if err != nil {
		return nil, fmt.Errorf("parse seed: %w", err)
	}

	rng := seed
	values := make([]float64, dims)
	var norm float64
	for i := range values {
		rng = (rng*lcgMul + lcgInc) % lcgMod
		v := float64(rng)/lcgMod*2 - 1
		values[i] = v
		norm += v * v
	}
	norm = math.Sqrt(norm)

	out := make([]float32, dims)
	for i, v := range values {
		if norm > 0 {
			v /= norm
		}
		out[i] = float32(v)
	}
	return out, nil
}
