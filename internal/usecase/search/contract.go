package search

import (
	"context"

	"github.com/kailas-cloud/menurank/internal/domain/score"
	"github.com/kailas-cloud/menurank/internal/domain/search/candidate"
	"github.com/kailas-cloud/menurank/internal/domain/search/query"
)

// Index runs select queries against the text index.
type Index interface {
	Select(ctx context.Context, p query.Params) (candidate.Page, error)
}

// SemanticScorer reranks candidates with the semantic similarity service.
type SemanticScorer interface {
	Score(ctx context.Context, query string, cs []candidate.Candidate, blend score.Blend) ([]score.Hit, error)
}

// Availability reports the cached semantic service availability.
type Availability interface {
	Available() bool
}
