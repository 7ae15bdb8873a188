package health

import "context"

// IndexPinger checks search index availability.
type IndexPinger interface {
	Ping(ctx context.Context) error
}

// SemanticChecker checks semantic service availability.
type SemanticChecker interface {
	HealthCheck(ctx context.Context) error
}
