package rerank

import "context"

// Availability reports whether the embedding provider can serve requests.
type Availability interface {
	Available() bool
}

// Registry tracks which documents have an embedding.
type Registry interface {
	SAdd(ctx context.Context, key string, members ...string) error
	SCard(ctx context.Context, key string) (int64, error)
}
