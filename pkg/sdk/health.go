package menurank

import (
	"context"
	"time"

	healthuc "github.com/kailas-cloud/menurank/internal/usecase/health"
)

type healthUseCase interface {
	Check(ctx context.Context) healthuc.Report
}

// HealthStatus is the aggregated state of the index and semantic service.
type HealthStatus struct {
	// Status is "ok", "degraded" (semantic service down, keyword ranking only) or "error" (index down).
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"` // "index", and "semantic" when configured → "ok"/"error"
}

// Serving reports whether searches can run, possibly without fusion.
func (h HealthStatus) Serving() bool {
	return h.Status != string(healthuc.Unhealthy)
}

// Health probes the index and, when configured, the semantic service concurrently.
func (c *Client) Health(ctx context.Context) HealthStatus {
	start := time.Now()
	report := c.healthSvc.Check(ctx)

	checks := make(map[string]string, len(report.Checks))
	for k, v := range report.Checks {
		checks[k] = string(v)
	}
	c.obs.observe("health", start, nil, "status", string(report.Status))
	return HealthStatus{Status: string(report.Status), Checks: checks}
}
