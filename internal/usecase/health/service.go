package health

import (
	"context"
	"time"
)

// Status represents the aggregated health status.
type Status string

const (
	// Healthy indicates all components are operational.
	Healthy Status = "ok"
	// Degraded indicates partial failure.
	Degraded Status = "degraded"
)

// CheckResult represents an individual component health check outcome.
type CheckResult string

const (
	// CheckOK indicates a passing health check.
	CheckOK CheckResult = "ok"
	// CheckError indicates a failing health check.
	CheckError CheckResult = "error"
)

// DefaultCheckTimeout bounds each component check.
const DefaultCheckTimeout = 5 * time.Second

// Report aggregates health check results.
type Report struct {
	Status Status
	Checks map[string]CheckResult
}

type component struct {
	name    string
	checker ComponentChecker
}

// Service coordinates readiness checks.
type Service struct {
	cache      CachePinger
	components []component
	timeout    time.Duration
}

// New creates a Service. cache can be nil when the embedding cache is disabled.
func New(cache CachePinger) *Service {
	return &Service{cache: cache, timeout: DefaultCheckTimeout}
}

// WithComponent registers a provider check reported as "provider:<name>".
func (s *Service) WithComponent(name string, c ComponentChecker) *Service {
	s.components = append(s.components, component{name: "provider:" + name, checker: c})
	return s
}

// Check runs health checks against all components.
func (s *Service) Check(ctx context.Context) Report {
	checks := make(map[string]CheckResult)

	if s.cache != nil {
		checks["cache"] = s.run(ctx, s.cache.Ping)
	}
	for _, c := range s.components {
		checks[c.name] = s.run(ctx, c.checker.HealthCheck)
	}

	status := Healthy
	for _, v := range checks {
		if v == CheckError {
			status = Degraded
			break
		}
	}

	return Report{Status: status, Checks: checks}
}

func (s *Service) run(ctx context.Context, fn func(context.Context) error) CheckResult {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	if err := fn(ctx); err != nil {
		return CheckError
	}
	return CheckOK
}
