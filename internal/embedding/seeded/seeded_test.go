package seeded

import (
	"context"
	"math"
	"testing"
)

func TestGenerate_Deterministic(t *testing.T) {
	a, err := Generate("military aircraft", 1024)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	b, _ := Generate("military aircraft", 1024)
	if len(a) != 1024 {
		t.Fatalf("expected 1024 values, got %d", len(a))
	}
	for i := range a {
		if math.Float32bits(a[i]) != math.Float32bits(b[i]) {
			t.Fatalf("component %d differs: %v vs %v", i, a[i], b[i])
		}
	}
}

func TestGenerate_DifferentInputs(t *testing.T) {
	inputs := []string{"American", "technology", "database", "artificial intelligence", "machine learning"}
	seen := make(map[float32]string, len(inputs))
	for _, in := range inputs {
		v, err := Generate(in, 8)
		if err != nil {
			t.Fatalf("Generate(%q): %v", in, err)
		}
		if prev, dup := seen[v[0]]; dup {
			t.Errorf("%q and %q share leading component %v", in, prev, v[0])
		}
		seen[v[0]] = in
	}
}

func TestGenerate_Normalized(t *testing.T) {
	v, _ := Generate("norm", 1024)
	var sum float64
	for _, x := range v {
		sum += float64(x) * float64(x)
	}
	if math.Abs(sum-1) > 1e-4 {
		t.Errorf("expected unit norm, got %v", sum)
	}
}

func TestGenerate_KnownSeed(t *testing.T) {
	// MD5("") = d41d8cd9..., seed = 0xd41d8cd9.
	seed := uint64(0xd41d8cd9)
	rng := (seed*1664525 + 1013904223) % (1 << 32)
	first := float64(rng)/(1<<32)*2 - 1

	v, _ := Generate("", 1)
	// единичный вектор: знак первого значения сохраняется
	want := float32(math.Copysign(1, first))
	if v[0] != want {
		t.Errorf("expected %v, got %v", want, v[0])
	}
}

func TestEmbedder_DefaultDimensions(t *testing.T) {
	e := New(0)
	res, err := e.Embed(context.Background(), "hello")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(res.Embedding) != DefaultDimensions {
		t.Errorf("expected %d dims, got %d", DefaultDimensions, len(res.Embedding))
	}
	if res.TotalTokens != 0 {
		t.Errorf("seeded embedder must not report tokens, got %d", res.TotalTokens)
	}
}
