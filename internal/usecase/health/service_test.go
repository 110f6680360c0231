package health

import (
	"context"
	"errors"
	"testing"
	"time"
)

// --- Mocks ---

type mockCachePinger struct {
	err error
}

func (m *mockCachePinger) Ping(_ context.Context) error { return m.err }

type mockComponent struct {
	err error
}

func (m *mockComponent) HealthCheck(_ context.Context) error { return m.err }

type blockingComponent struct{}

func (blockingComponent) HealthCheck(ctx context.Context) error {
	<-ctx.Done()
	return ctx.Err()
}

// --- Tests ---

func TestCheck_AllHealthy(t *testing.T) {
	svc := New(&mockCachePinger{}).
		WithComponent("pinecone", &mockComponent{}).
		WithComponent("contextlite_fts5", &mockComponent{})
	r := svc.Check(context.Background())

	if r.Status != Healthy {
		t.Errorf("expected %q, got %q", Healthy, r.Status)
	}
	if r.Checks["cache"] != CheckOK {
		t.Errorf("expected cache %q, got %q", CheckOK, r.Checks["cache"])
	}
	if r.Checks["provider:pinecone"] != CheckOK {
		t.Errorf("expected provider:pinecone %q, got %q", CheckOK, r.Checks["provider:pinecone"])
	}
	if len(r.Checks) != 3 {
		t.Errorf("expected 3 checks, got %d", len(r.Checks))
	}
}

func TestCheck_CacheError(t *testing.T) {
	svc := New(&mockCachePinger{err: errors.New("conn refused")}).
		WithComponent("pinecone", &mockComponent{})
	r := svc.Check(context.Background())

	if r.Status != Degraded {
		t.Errorf("expected %q, got %q", Degraded, r.Status)
	}
	if r.Checks["cache"] != CheckError {
		t.Errorf("expected cache %q, got %q", CheckError, r.Checks["cache"])
	}
	if r.Checks["provider:pinecone"] != CheckOK {
		t.Errorf("expected provider %q, got %q", CheckOK, r.Checks["provider:pinecone"])
	}
}

func TestCheck_ProviderError(t *testing.T) {
	svc := New(nil).WithComponent("contextlite_fts5", &mockComponent{err: errors.New("timeout")})
	r := svc.Check(context.Background())

	if r.Status != Degraded {
		t.Errorf("expected %q, got %q", Degraded, r.Status)
	}
	if r.Checks["provider:contextlite_fts5"] != CheckError {
		t.Error("expected provider error")
	}
}

func TestCheck_NoCache(t *testing.T) {
	svc := New(nil)
	r := svc.Check(context.Background())

	if r.Status != Healthy {
		t.Errorf("expected %q, got %q", Healthy, r.Status)
	}
	if _, ok := r.Checks["cache"]; ok {
		t.Error("cache check should be absent when cache is nil")
	}
}

func TestCheck_TimeoutMarksError(t *testing.T) {
	svc := New(nil).WithComponent("hung", blockingComponent{})
	svc.timeout = 10 * time.Millisecond

	start := time.Now()
	r := svc.Check(context.Background())
	if time.Since(start) > time.Second {
		t.Fatal("check did not honour timeout")
	}
	if r.Checks["provider:hung"] != CheckError {
		t.Errorf("expected hung provider to be reported as error")
	}
}
