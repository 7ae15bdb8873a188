package health

import (
	"context"
	"sync"

	"golang.org/x/sync/errgroup"
)

// Status represents the aggregated health status.
type Status string

const (
	// Healthy indicates all components are operational.
	Healthy Status = "ok"
	// Degraded indicates search works without semantic fusion.
	Degraded Status = "degraded"
	// Unhealthy indicates the index is down and search cannot run.
	Unhealthy Status = "error"
)

// CheckResult represents an individual component health check outcome.
type CheckResult string

const (
	// CheckOK indicates a passing health check.
	CheckOK CheckResult = "ok"
	// CheckError indicates a failing health check.
	CheckError CheckResult = "error"
)

// Component names in Report.Checks.
const (
	ComponentIndex    = "index"
	ComponentSemantic = "semantic"
)

// Report aggregates health check results.
type Report struct {
	Status Status
	Checks map[string]CheckResult
}

// Service coordinates health checks.
type Service struct {
	index    IndexPinger
	semantic SemanticChecker
}

// New creates a Service. semantic can be nil.
func New(index IndexPinger, semantic SemanticChecker) *Service {
	return &Service{index: index, semantic: semantic}
}

// Check probes all components concurrently.
func (s *Service) Check(ctx context.Context) Report {
	var (
		mu     sync.Mutex
		checks = make(map[string]CheckResult)
	)
	record := func(name string, err error) {
		r := CheckOK
		if err != nil {
			r = CheckError
		}
		mu.Lock()
		checks[name] = r
		mu.Unlock()
	}

	// Probes never fail the group; each result is recorded individually.
	var g errgroup.Group
	g.Go(func() error {
		record(ComponentIndex, s.index.Ping(ctx))
		return nil
	})
	if s.semantic != nil {
		g.Go(func() error {
			record(ComponentSemantic, s.semantic.HealthCheck(ctx))
			return nil
		})
	}
	_ = g.Wait()

	status := Healthy
	switch {
	case checks[ComponentIndex] == CheckError:
		status = Unhealthy
	case checks[ComponentSemantic] == CheckError:
		status = Degraded
	}

	return Report{Status: status, Checks: checks}
}
