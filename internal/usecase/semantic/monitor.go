// Package semantic tracks whether the semantic similarity service can be used.
package semantic

import (
	"context"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
)

// DefaultRefreshInterval is how often Run re-probes the service.
const DefaultRefreshInterval = 30 * time.Second

// Checker probes a dependency. nil means usable.
type Checker interface {
	HealthCheck(ctx context.Context) error
}

// Monitor caches the last probe result. The flag is process-scoped and read lock-free;
// a refresh racing with a reader is acceptable.
type Monitor struct {
	checker   Checker
	interval  time.Duration
	available atomic.Bool
	onChange  func(bool)
	logger    *zap.Logger
}

// Option configures a Monitor.
type Option func(*Monitor)

// WithInterval sets the refresh period used by Run.
func WithInterval(d time.Duration) Option {
	return func(m *Monitor) {
		if d > 0 {
			m.interval = d
		}
	}
}

// WithObserver registers a callback invoked after every refresh with the new state.
func WithObserver(fn func(available bool)) Option {
	return func(m *Monitor) { m.onChange = fn }
}

// NewMonitor creates a Monitor that starts out unavailable until the first Refresh.
func NewMonitor(checker Checker, logger *zap.Logger, opts ...Option) *Monitor {
	if logger == nil {
		logger = zap.NewNop()
	}
	m := &Monitor{checker: checker, interval: DefaultRefreshInterval, logger: logger}
	for _, o := range opts {
		o(m)
	}
	return m
}

// Available returns the cached state.
func (m *Monitor) Available() bool {
	return m.available.Load()
}

// Refresh probes the checker once and stores the result.
func (m *Monitor) Refresh(ctx context.Context) bool {
	ok := m.checker != nil && m.checker.HealthCheck(ctx) == nil
	if prev := m.available.Swap(ok); prev != ok {
		m.logger.Info("semantic availability changed", zap.Bool("available", ok))
	}
	if m.onChange != nil {
		m.onChange(ok)
	}
	return ok
}

// Run refreshes immediately and then on every tick until ctx is cancelled.
func (m *Monitor) Run(ctx context.Context) {
	m.Refresh(ctx)

	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.Refresh(ctx)
		}
	}
}
