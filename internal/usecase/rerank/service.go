// Package rerank scores index candidates by semantic similarity to the query and blends
// the result with their lexical score.
package rerank

import (
	"cmp"
	"context"
	"slices"
	"sync"
	"sync/atomic"

	"github.com/panjf2000/ants/v2"
	"go.uber.org/zap"

	"github.com/kailas-cloud/menurank/internal/domain"
	"github.com/kailas-cloud/menurank/internal/domain/score"
	"github.com/kailas-cloud/menurank/internal/metrics"
)

// Server defaults for requests that leave a setting out.
const (
	DefaultTopK           = 10
	DefaultKeywordWeight  = 0.6
	DefaultSemanticWeight = 0.4
)

// Messages returned with unsuccessful outcomes.
const (
	MessageUnavailable         = "semantic search not available"
	MessageQueryEmbeddingError = "query embedding failed"
)

// Document is one rerank candidate: its text fields and raw index score.
type Document struct {
	ID     string
	Fields map[string]string
	Score  float64
}

// Scored is a document with its rerank scores.
type Scored struct {
	Document
	Keyword  float64
	Semantic float64
	Combined float64
}

// Params are resolved rerank settings.
type Params struct {
	TopK           int
	KeywordWeight  float64
	SemanticWeight float64
}

// DefaultParams returns the built-in defaults.
func DefaultParams() Params {
	return Params{TopK: DefaultTopK, KeywordWeight: DefaultKeywordWeight, SemanticWeight: DefaultSemanticWeight}
}

// fallback fills unset server defaults. Weights are replaced only as a pair, so a
// configured 1/0 split survives.
func (p Params) fallback(d Params) Params {
	if p.TopK <= 0 {
		p.TopK = d.TopK
	}
	if p.KeywordWeight <= 0 && p.SemanticWeight <= 0 {
		p.KeywordWeight, p.SemanticWeight = d.KeywordWeight, d.SemanticWeight
	}
	return p
}

// Overrides are per-request settings. Nil fields take the service defaults; an explicit
// zero weight is kept. A non-positive TopK counts as unset.
type Overrides struct {
	TopK           *int
	KeywordWeight  *float64
	SemanticWeight *float64
}

func (o Overrides) resolve(d Params) Params {
	p := d
	if o.TopK != nil && *o.TopK > 0 {
		p.TopK = *o.TopK
	}
	if o.KeywordWeight != nil {
		p.KeywordWeight = *o.KeywordWeight
	}
	if o.SemanticWeight != nil {
		p.SemanticWeight = *o.SemanticWeight
	}
	return p
}

// Outcome is the rerank answer. Unsuccessful outcomes carry the input order, cut to TopK.
type Outcome struct {
	Success bool
	Message string
	Results []Scored
}

// Config wires a Service.
type Config struct {
	// QueryEmbedder and DocumentEmbedder may be the same embedder.
	QueryEmbedder    domain.Embedder
	DocumentEmbedder domain.Embedder
	Availability     Availability
	Registry         Registry // optional
	Pool             *ants.Pool
	Defaults         Params
	Logger           *zap.Logger
}

// Service reranks candidates. Safe for concurrent use.
type Service struct {
	query    domain.Embedder
	docs     domain.Embedder
	avail    Availability
	registry Registry
	pool     *ants.Pool
	defaults Params
	logger   *zap.Logger
}

// New creates a rerank service. Without a pool, documents are embedded sequentially.
func New(cfg Config) *Service {
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		query:    cfg.QueryEmbedder,
		docs:     cfg.DocumentEmbedder,
		avail:    cfg.Availability,
		registry: cfg.Registry,
		pool:     cfg.Pool,
		defaults: cfg.Defaults.fallback(DefaultParams()),
		logger:   logger,
	}
}

// Status reports availability and how many documents have a cached embedding.
func (s *Service) Status(ctx context.Context) (bool, int) {
	available := s.available()
	if s.registry == nil {
		return available, 0
	}
	n, err := s.registry.SCard(ctx, domain.EmbeddedDocsKey)
	if err != nil {
		s.logger.Warn("Failed to count embedded documents", zap.Error(err))
		return available, 0
	}
	return available, int(n)
}

// Rerank embeds the query and every document, then orders documents by
// KeywordWeight*keyword + SemanticWeight*max(0, cosine). A document whose embedding fails
// keeps its keyword score as its combined score.
func (s *Service) Rerank(ctx context.Context, query string, docs []Document, o Overrides) Outcome {
	p := o.resolve(s.defaults)

	if !s.available() {
		metrics.RerankRequestsTotal.WithLabelValues("unavailable").Inc()
		return Outcome{Message: MessageUnavailable, Results: passthrough(docs, p.TopK)}
	}

	qv, err := s.query.Embed(ctx, query)
	if err != nil || len(qv.Embedding) == 0 {
		metrics.RerankRequestsTotal.WithLabelValues("query_embedding_failed").Inc()
		s.logger.Warn("Query embedding failed", zap.Error(err))
		return Outcome{Message: MessageQueryEmbeddingError, Results: passthrough(docs, p.TopK)}
	}

	vecs, tokens := s.embedDocuments(ctx, docs)

	results := make([]Scored, len(docs))
	embedded := make([]string, 0, len(docs))
	for i, d := range docs {
		kw := score.Normalize(d.Score)
		r := Scored{Document: d, Keyword: kw, Combined: kw}
		if vecs[i] != nil {
			r.Semantic = max(0, Cosine(qv.Embedding, vecs[i]))
			r.Combined = p.KeywordWeight*kw + p.SemanticWeight*r.Semantic
			embedded = append(embedded, d.ID)
		}
		results[i] = r
	}
	s.register(ctx, embedded)

	slices.SortStableFunc(results, compare)
	if len(results) > p.TopK {
		results = results[:p.TopK]
	}

	metrics.RerankRequestsTotal.WithLabelValues("success").Inc()
	s.logger.Debug("Rerank completed",
		zap.Int("candidates", len(docs)),
		zap.Int("embedded", len(embedded)),
		zap.Int("returned", len(results)),
		zap.Int64("total_tokens", tokens+int64(qv.TotalTokens)),
	)

	return Outcome{Success: true, Results: results}
}

func (s *Service) available() bool {
	return s.avail != nil && s.avail.Available() && s.query != nil && s.docs != nil
}

// embedDocuments returns one vector per document, nil where embedding failed or there was no text.
func (s *Service) embedDocuments(ctx context.Context, docs []Document) ([][]float32, int64) {
	vecs := make([][]float32, len(docs))
	var (
		wg     sync.WaitGroup
		tokens atomic.Int64
	)

	for i, d := range docs {
		text := DocumentText(d.Fields)
		if d.ID == "" || text == "" {
			continue
		}
		task := func() {
			defer wg.Done()
			res, err := s.docs.Embed(ctx, text)
			if err != nil {
				s.logger.Debug("Document embedding failed", zap.String("id", d.ID), zap.Error(err))
				return
			}
			if len(res.Embedding) > 0 {
				vecs[i] = res.Embedding
			}
			tokens.Add(int64(res.TotalTokens))
		}

		wg.Add(1)
		if s.pool == nil {
			task()
			continue
		}
		if err := s.pool.Submit(task); err != nil {
			// Pool closed or saturated in non-blocking mode: run inline.
			task()
		}
	}

	wg.Wait()
	return vecs, tokens.Load()
}

func (s *Service) register(ctx context.Context, ids []string) {
	if s.registry == nil || len(ids) == 0 {
		return
	}
	if err := s.registry.SAdd(ctx, domain.EmbeddedDocsKey, ids...); err != nil {
		s.logger.Warn("Failed to register embedded documents", zap.Error(err))
	}
}

func passthrough(docs []Document, topK int) []Scored {
	n := min(len(docs), topK)
	out := make([]Scored, n)
	for i, d := range docs[:n] {
		kw := score.Normalize(d.Score)
		out[i] = Scored{Document: d, Keyword: kw, Combined: kw}
	}
	return out
}

func compare(a, b Scored) int {
	if r := cmp.Compare(b.Combined, a.Combined); r != 0 {
		return r
	}
	if r := cmp.Compare(b.Keyword, a.Keyword); r != 0 {
		return r
	}
	return cmp.Compare(a.ID, b.ID)
}
