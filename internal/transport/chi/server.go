// Package chi is the HTTP transport: the search API handlers, the semantic rerank handlers
// and the middleware both servers share.
package chi

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/kailas-cloud/menurank/internal/domain"
	"github.com/kailas-cloud/menurank/internal/domain/search/filter"
	"github.com/kailas-cloud/menurank/internal/domain/search/mode"
	"github.com/kailas-cloud/menurank/internal/domain/search/request"
	healthuc "github.com/kailas-cloud/menurank/internal/usecase/health"
	searchuc "github.com/kailas-cloud/menurank/internal/usecase/search"
)

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error, msg string) bool

// Server implements ServerInterface.
type Server struct {
	search        *searchuc.Service
	health        *healthuc.Service
	logger        *zap.Logger
	errorHandlers []errorHandler
}

var _ ServerInterface = (*Server)(nil)

// NewServer creates the search API server.
func NewServer(search *searchuc.Service, health *healthuc.Service, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Server{
		search: search,
		health: health,
		logger: logger,
	}
	s.errorHandlers = []errorHandler{
		sentinelHandler(domain.ErrInvalidRequest, http.StatusBadRequest, ErrorCodeValidationFailed),
		sentinelHandler(domain.ErrIndexUnreachable, http.StatusServiceUnavailable, ErrorCodeIndexUnreachable),
		sentinelHandler(domain.ErrIndexCrossOrigin, http.StatusBadGateway, ErrorCodeIndexCrossOriginBlocked),
		sentinelHandler(domain.ErrIndexUnknown, http.StatusBadGateway, ErrorCodeIndexError),
	}
	return s
}

// Search handles GET /search.
func (s *Server) Search(w http.ResponseWriter, r *http.Request, params SearchParams) {
	req, err := searchRequestFromParams(params)
	if err != nil {
		writeError(w, http.StatusBadRequest, ErrorCodeValidationFailed, err.Error())
		return
	}

	resp, err := s.search.Search(r.Context(), &req)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	items := make([]SearchResultItem, len(resp.Candidates))
	for i, c := range resp.Candidates {
		items[i] = candidateToDTO(c)
	}

	writeJSON(w, http.StatusOK, SearchResponse{
		ClassifyResponse: explanationToDTO(req.Query(), resp.Explanation),
		Items:            items,
		Count:            len(items),
		NumFound:         resp.NumFound,
		Fused:            resp.Fused,
		FilterEncoding:   resp.Encoding,
	})
}

// Classify handles GET /classify. It never calls the index.
func (s *Server) Classify(w http.ResponseWriter, r *http.Request, params ClassifyParams) {
	q := deref(params.Q)
	if len(q) > request.MaxQueryLength {
		writeError(w, http.StatusBadRequest, ErrorCodeValidationFailed,
			fmt.Sprintf("query too long (max %d chars)", request.MaxQueryLength))
		return
	}
	writeJSON(w, http.StatusOK, explanationToDTO(q, s.search.Explain(q)))
}

// HealthCheck handles GET /health.
func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	checks := make(map[string]string, len(report.Checks))
	for k, v := range report.Checks {
		checks[k] = string(v)
	}

	httpStatus := http.StatusOK
	if report.Status == healthuc.Unhealthy {
		httpStatus = http.StatusServiceUnavailable
	}

	writeJSON(w, httpStatus, HealthResponse{
		Status: string(report.Status),
		Checks: checks,
	})
}

// Metrics handles GET /metrics.
func (s *Server) Metrics(w http.ResponseWriter, r *http.Request) {
	promhttp.Handler().ServeHTTP(w, r)
}

// BindErrorHandler answers parameter binding failures with 400.
func BindErrorHandler(w http.ResponseWriter, _ *http.Request, err error) {
	msg := "invalid request"
	var pe *InvalidParamFormatError
	if errors.As(err, &pe) {
		msg = "invalid parameter " + pe.ParamName
	}
	writeError(w, http.StatusBadRequest, ErrorCodeBadRequest, msg)
}

func searchRequestFromParams(p SearchParams) (request.Request, error) {
	var price *filter.Range
	if p.PriceMin != nil || p.PriceMax != nil {
		if p.PriceMin != nil && p.PriceMax != nil && *p.PriceMin > *p.PriceMax {
			return request.Request{}, fmt.Errorf("price_min must not exceed price_max")
		}
		rng, err := filter.NewRangeFilter(nil, p.PriceMin, nil, p.PriceMax)
		if err != nil {
			return request.Request{}, fmt.Errorf("price range: %w", err)
		}
		price = &rng
	}

	filters := filter.NewSet(deref(p.Section), deref(p.Category), deref(p.Tag), price)

	req, err := request.New(
		deref(p.Q),
		mode.Mode(deref(p.Mode)),
		filters,
		derefInt(p.Rows),
		derefInt(p.Limit),
	)
	if err != nil {
		return request.Request{}, err
	}
	return req, nil
}

func deref(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}

func derefInt(p *int) int {
	if p == nil {
		return 0
	}
	return *p
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code ErrorCode, message string) {
	writeJSON(w, status, ErrorResponse{
		Code:    code,
		Message: message,
	})
}

// safeDomainMessage returns a sentinel error message for the client without exposing internals.
func safeDomainMessage(err error) string {
	sentinels := []error{
		domain.ErrInvalidRequest,
		domain.ErrIndexUnreachable,
		domain.ErrIndexCrossOrigin,
		domain.ErrIndexUnknown,
	}
	for _, s := range sentinels {
		if errors.Is(err, s) {
			return s.Error()
		}
	}
	return "internal error"
}

// sentinelHandler returns an errorHandler that matches a single sentinel error.
func sentinelHandler(sentinel error, status int, code ErrorCode) errorHandler {
	return func(w http.ResponseWriter, err error, msg string) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		writeError(w, status, code, msg)
		return true
	}
}

func (s *Server) handleDomainError(w http.ResponseWriter, err error) {
	s.logger.Warn("domain error", zap.Error(err))
	msg := safeDomainMessage(err)
	for _, h := range s.errorHandlers {
		if h(w, err, msg) {
			return
		}
	}
	s.logger.Error("internal error", zap.Error(err))
	writeError(w, http.StatusInternalServerError, ErrorCodeInternalError, "internal error")
}
