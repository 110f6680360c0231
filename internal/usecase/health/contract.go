package health

import "context"

// CachePinger checks embedding cache availability.
type CachePinger interface {
	Ping(ctx context.Context) error
}

// ComponentChecker checks one provider backend.
type ComponentChecker interface {
	HealthCheck(ctx context.Context) error
}
