package chi

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/kailas-cloud/menurank/internal/transport/semantic"
	rerankuc "github.com/kailas-cloud/menurank/internal/usecase/rerank"
)

// maxRerankBody caps a rerank request body.
const maxRerankBody = 8 << 20

// SemanticServer serves the semantic similarity contract consumed by transport/semantic.Client.
type SemanticServer struct {
	rerank *rerankuc.Service
	logger *zap.Logger
}

// NewSemanticServer creates the semantic rerank server.
func NewSemanticServer(rerank *rerankuc.Service, logger *zap.Logger) *SemanticServer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SemanticServer{rerank: rerank, logger: logger}
}

// Mount registers the semantic routes on r. Unknown paths and methods answer 404.
func (s *SemanticServer) Mount(r chi.Router) {
	r.Get("/semantic/status", s.Status)
	r.Post("/semantic/rerank", s.Rerank)
	r.Get("/metrics", promhttp.Handler().ServeHTTP)
	r.NotFound(notFound)
	r.MethodNotAllowed(notFound)
}

// Status handles GET /semantic/status.
func (s *SemanticServer) Status(w http.ResponseWriter, r *http.Request) {
	available, count := s.rerank.Status(r.Context())
	writeJSON(w, http.StatusOK, semantic.Status{Available: available, EmbeddingsCount: count})
}

// Rerank handles POST /semantic/rerank. Unsuccessful reranks still answer 200.
func (s *SemanticServer) Rerank(w http.ResponseWriter, r *http.Request) {
	var req semantic.RerankRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRerankBody)).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, ErrorCodeBadRequest, "Invalid request body: "+err.Error())
		return
	}

	docs := make([]rerankuc.Document, len(req.Candidates))
	for i, c := range req.Candidates {
		docs[i] = rerankuc.Document{ID: c.ID, Fields: c.Fields, Score: c.Score}
	}

	out := s.rerank.Rerank(r.Context(), req.Query, docs, rerankuc.Overrides{
		TopK:           req.TopK,
		KeywordWeight:  req.KeywordWeight,
		SemanticWeight: req.SemanticWeight,
	})
	if !out.Success {
		s.logger.Info("rerank degraded", zap.String("reason", out.Message))
	}

	results := make([]semantic.Result, len(out.Results))
	for i, sc := range out.Results {
		results[i] = semantic.Result{
			ID:            sc.ID,
			SemanticScore: sc.Semantic,
			KeywordScore:  sc.Keyword,
			CombinedScore: sc.Combined,
			Fields:        sc.Fields,
		}
	}

	writeJSON(w, http.StatusOK, semantic.RerankResponse{
		Success: out.Success,
		Message: out.Message,
		Results: results,
	})
}

func notFound(w http.ResponseWriter, _ *http.Request) {
	writeError(w, http.StatusNotFound, ErrorCodeNotFound, "not found")
}
