package semantic

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/kailas-cloud/menurank/internal/domain"
	"github.com/kailas-cloud/menurank/internal/domain/score"
	"github.com/kailas-cloud/menurank/internal/domain/search/candidate"
	logpkg "github.com/kailas-cloud/menurank/internal/logger"
)

// DefaultTimeout bounds every semantic service call.
const DefaultTimeout = 5 * time.Second

// Config holds the semantic client settings.
type Config struct {
	BaseURL    string
	Timeout    time.Duration
	HTTPClient *http.Client
}

// Client calls the semantic similarity service. All failures wrap domain.ErrSemanticUnavailable.
type Client struct {
	http    *http.Client
	base    string
	timeout time.Duration
}

// NewClient creates a semantic service client.
func NewClient(cfg *Config) *Client {
	hc := cfg.HTTPClient
	if hc == nil {
		hc = &http.Client{}
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{http: hc, base: strings.TrimRight(cfg.BaseURL, "/"), timeout: timeout}
}

// Status fetches the service's availability report.
func (c *Client) Status(ctx context.Context) (Status, error) {
	var st Status
	if err := c.do(ctx, http.MethodGet, "/semantic/status", nil, &st); err != nil {
		return Status{}, fmt.Errorf("semantic status: %w", err)
	}
	return st, nil
}

// Rerank posts candidates for semantic scoring. A success:false body is returned as-is, not as an error.
func (c *Client) Rerank(ctx context.Context, req RerankRequest) (RerankResponse, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return RerankResponse{}, fmt.Errorf("encode rerank request: %w", err)
	}
	var resp RerankResponse
	if err := c.do(ctx, http.MethodPost, "/semantic/rerank", body, &resp); err != nil {
		return RerankResponse{}, fmt.Errorf("semantic rerank: %w", err)
	}
	return resp, nil
}

// HealthCheck reports an error unless the service is reachable and available.
func (c *Client) HealthCheck(ctx context.Context) error {
	st, err := c.Status(ctx)
	if err != nil {
		return err
	}
	if !st.Available {
		return fmt.Errorf("semantic service reports unavailable: %w", domain.ErrSemanticUnavailable)
	}
	return nil
}

func (c *Client) do(ctx context.Context, method, path string, body []byte, out any) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	var reader io.Reader = http.NoBody
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.base+path, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", logpkg.RequestID(ctx))
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%v: %w", err, domain.ErrSemanticUnavailable)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("status %d: %w", resp.StatusCode, domain.ErrSemanticUnavailable)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %v: %w", err, domain.ErrSemanticUnavailable)
	}
	return nil
}

// Score reranks candidates and returns one hit per result. A success:false answer wraps
// domain.ErrSemanticRejected.
func (c *Client) Score(
	ctx context.Context, query string, cs []candidate.Candidate, blend score.Blend,
) ([]score.Hit, error) {
	req := RerankRequest{
		Query:          query,
		Candidates:     make([]Candidate, len(cs)),
		TopK:           &blend.TopK,
		KeywordWeight:  &blend.KeywordWeight,
		SemanticWeight: &blend.SemanticWeight,
	}
	for i, cand := range cs {
		req.Candidates[i] = Candidate{ID: cand.ID(), Fields: cand.Fields(), Score: cand.LexicalScore()}
	}

	resp, err := c.Rerank(ctx, req)
	if err != nil {
		return nil, err
	}
	if !resp.Success {
		return nil, fmt.Errorf("%s: %w", resp.Message, domain.ErrSemanticRejected)
	}

	hits := make([]score.Hit, len(resp.Results))
	for i, r := range resp.Results {
		hits[i] = score.Hit{ID: r.ID, Semantic: r.SemanticScore, Keyword: r.KeywordScore, Combined: r.CombinedScore}
	}
	return hits, nil
}
