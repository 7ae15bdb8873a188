package search

import (
	"context"
	"fmt"

	"github.com/kailas-cloud/menurank/internal/domain/boost"
	"github.com/kailas-cloud/menurank/internal/domain/keyword"
	"github.com/kailas-cloud/menurank/internal/domain/search/candidate"
	"github.com/kailas-cloud/menurank/internal/domain/search/mode"
	"github.com/kailas-cloud/menurank/internal/domain/search/request"
)

// Explanation is the classification and boost synthesis for a query.
type Explanation struct {
	Classification keyword.Classification
	CombinedMode   bool
	Boosts         []boost.Term
}

// Response is a ranked search result.
type Response struct {
	Explanation
	Candidates []candidate.Candidate
	NumFound   int
	Encoding   string
	Fused      bool
}

// Service runs the query relevance pipeline: classify, build boosts, query the index, fuse.
type Service struct {
	classifier *keyword.Classifier
	builder    *boost.Builder
	orch       *Orchestrator
	fuser      *Fuser
}

// New creates a search service.
func New(classifier *keyword.Classifier, builder *boost.Builder, orch *Orchestrator, fuser *Fuser) *Service {
	return &Service{classifier: classifier, builder: builder, orch: orch, fuser: fuser}
}

// Explain classifies a query and synthesizes its boosts without touching the index.
func (s *Service) Explain(rawQuery string) Explanation {
	c := s.classifier.Classify(rawQuery)
	return Explanation{
		Classification: c,
		CombinedMode:   boost.CombinedMode(c),
		Boosts:         s.builder.Build(c, rawQuery),
	}
}

// Search executes the full pipeline. Only index failures are returned as errors.
func (s *Service) Search(ctx context.Context, req *request.Request) (Response, error) {
	exp := s.Explain(req.Query())

	page, err := s.orch.Search(ctx, req.Query(), req.Filters(), exp.Boosts, req.Rows())
	if err != nil {
		return Response{}, fmt.Errorf("search: %w", err)
	}

	var (
		ranked []candidate.Candidate
		fused  bool
	)
	if req.Mode() == mode.Keyword {
		ranked = KeywordRank(page.Candidates)
	} else {
		ranked, fused = s.fuser.Fuse(ctx, req.Query(), page.Candidates)
	}

	if len(ranked) > req.Limit() {
		ranked = ranked[:req.Limit()]
	}

	return Response{
		Explanation: exp,
		Candidates:  ranked,
		NumFound:    page.NumFound,
		Encoding:    page.Encoding,
		Fused:       fused,
	}, nil
}
