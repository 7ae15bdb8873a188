// Package solr is the index service client: eDismax selects, ping and document counts.
package solr

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/tidwall/gjson"
	"go.uber.org/zap"

	"github.com/kailas-cloud/menurank/internal/domain"
	"github.com/kailas-cloud/menurank/internal/domain/search/candidate"
	"github.com/kailas-cloud/menurank/internal/domain/search/query"
	logpkg "github.com/kailas-cloud/menurank/internal/logger"
	"github.com/kailas-cloud/menurank/internal/metrics"
)

// DefaultTimeout bounds every index call.
const DefaultTimeout = 10 * time.Second

// maxBodyBytes caps how much of a response is read.
const maxBodyBytes = 32 << 20

// Config holds the index client settings.
type Config struct {
	BaseURL string
	Core    string
	Timeout time.Duration
	// Origin, when set, is sent on every request for CORS-enforcing proxies.
	Origin     string
	HTTPClient *http.Client
	Logger     *zap.Logger
}

// Client talks to a Solr-compatible index over HTTP.
type Client struct {
	http    *http.Client
	base    string
	origin  string
	timeout time.Duration
	logger  *zap.Logger
}

// NewClient creates an index client.
func NewClient(cfg *Config) *Client {
	hc := cfg.HTTPClient
	if hc == nil {
		hc = &http.Client{}
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		http:    hc,
		base:    strings.TrimRight(cfg.BaseURL, "/") + "/solr/" + url.PathEscape(cfg.Core),
		origin:  cfg.Origin,
		timeout: timeout,
		logger:  logger,
	}
}

// Values encodes p as a select query string.
func Values(p query.Params) url.Values {
	v := url.Values{}
	v.Set("q", p.Query)
	v.Set("defType", "edismax")
	if p.QF != "" {
		v.Set("qf", p.QF)
	}
	if p.PF != "" {
		v.Set("pf", p.PF)
	}
	if p.BQ != "" {
		v.Set("bq", p.BQ)
	}
	if p.MM != "" {
		v.Set("mm", p.MM)
	}
	v.Set("rows", strconv.Itoa(p.Rows))
	v.Set("fl", "*,score")
	v.Set("wt", "json")
	return v
}

// Select runs an eDismax query. Malformed or empty bodies read as zero results.
func (c *Client) Select(ctx context.Context, p query.Params) (candidate.Page, error) {
	body, err := c.get(ctx, "select", "/select", Values(p))
	if err != nil {
		return candidate.Page{}, err
	}
	return parseSelect(body, c.logger), nil
}

// Ping checks that the core answers its ping handler.
func (c *Client) Ping(ctx context.Context) error {
	v := url.Values{}
	v.Set("wt", "json")
	body, err := c.get(ctx, "ping", "/admin/ping", v)
	if err != nil {
		return err
	}
	if status := gjson.GetBytes(body, "status").String(); status != "" && status != "OK" {
		return domain.NewIndexError(domain.CauseUnknown, "ping", 0, fmt.Errorf("ping status %q", status))
	}
	return nil
}

// Count returns the number of documents in the core.
func (c *Client) Count(ctx context.Context) (int, error) {
	page, err := c.Select(ctx, query.Params{Query: "*:*", Rows: 0})
	if err != nil {
		return 0, err
	}
	return page.NumFound, nil
}

func (c *Client) get(ctx context.Context, op, path string, v url.Values) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.base+path+"?"+v.Encode(), http.NoBody)
	if err != nil {
		return nil, domain.NewIndexError(domain.CauseUnknown, op, 0, err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", logpkg.RequestID(ctx))
	if c.origin != "" {
		req.Header.Set("Origin", c.origin)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	metrics.IndexRequestDuration.WithLabelValues(op).Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.IndexRequestsTotal.WithLabelValues(op, string(domain.CauseConnectivity)).Inc()
		return nil, domain.NewIndexError(domain.CauseConnectivity, op, 0, err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		metrics.IndexRequestsTotal.WithLabelValues(op, string(domain.CauseConnectivity)).Inc()
		return nil, domain.NewIndexError(domain.CauseConnectivity, op, resp.StatusCode, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		cause := classifyStatus(resp.StatusCode)
		metrics.IndexRequestsTotal.WithLabelValues(op, string(cause)).Inc()
		return nil, domain.NewIndexError(cause, op, resp.StatusCode, errors.New(errorDetail(body)))
	}

	metrics.IndexRequestsTotal.WithLabelValues(op, "success").Inc()
	return body, nil
}

// A CORS-enforcing proxy in front of the index answers disallowed origins with 403.
func classifyStatus(status int) domain.IndexCause {
	if status == http.StatusForbidden {
		return domain.CauseCrossOrigin
	}
	return domain.CauseUnknown
}

// errorDetail pulls Solr's error.msg out of a failure body, falling back to a truncated raw body.
func errorDetail(body []byte) string {
	if msg := gjson.GetBytes(body, "error.msg").String(); msg != "" {
		return msg
	}
	s := strings.TrimSpace(string(body))
	if len(s) > 200 {
		s = s[:200]
	}
	if s == "" {
		return "empty response body"
	}
	return s
}
