package menurank

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Option configures the Client.
type Option interface {
	apply(*clientConfig)
}

// optionFunc adapts a function to the Option interface.
type optionFunc func(*clientConfig)

func (f optionFunc) apply(c *clientConfig) { f(c) }

type clientConfig struct {
	indexURL     string
	core         string
	origin       string
	indexTimeout time.Duration

	semanticURL     string
	semanticTimeout time.Duration
	semanticTopK    int
	refresh         time.Duration

	taxonomyYAML []byte
	taxonomyPath string

	httpClient *http.Client
	logger     *slog.Logger
	metricsReg prometheus.Registerer
}

// WithIndex sets the Solr base URL and core. Required.
func WithIndex(baseURL, core string) Option {
	return optionFunc(func(c *clientConfig) {
		c.indexURL = baseURL
		c.core = core
	})
}

// WithIndexOrigin sends an Origin header on every index call, for CORS-enforcing proxies.
func WithIndexOrigin(origin string) Option {
	return optionFunc(func(c *clientConfig) {
		c.origin = origin
	})
}

// WithIndexTimeout bounds each index call. Default: 10s.
func WithIndexTimeout(d time.Duration) Option {
	return optionFunc(func(c *clientConfig) {
		c.indexTimeout = d
	})
}

// WithSemantic enables hybrid ranking through the semantic similarity service at baseURL.
// Without it every search ranks by keyword score alone.
func WithSemantic(baseURL string) Option {
	return optionFunc(func(c *clientConfig) {
		c.semanticURL = baseURL
	})
}

// WithSemanticTimeout bounds each semantic service call. Default: 5s.
func WithSemanticTimeout(d time.Duration) Option {
	return optionFunc(func(c *clientConfig) {
		c.semanticTimeout = d
	})
}

// WithSemanticTopK caps how many results the semantic service returns. Default: 50.
func WithSemanticTopK(k int) Option {
	return optionFunc(func(c *clientConfig) {
		c.semanticTopK = k
	})
}

// WithAvailabilityRefresh sets how often semantic availability is re-checked. Default: 30s.
func WithAvailabilityRefresh(d time.Duration) Option {
	return optionFunc(func(c *clientConfig) {
		c.refresh = d
	})
}

// WithTaxonomy replaces the built-in taxonomy with a YAML document.
func WithTaxonomy(yamlData []byte) Option {
	return optionFunc(func(c *clientConfig) {
		c.taxonomyYAML = yamlData
	})
}

// WithTaxonomyFile replaces the built-in taxonomy with a YAML file.
func WithTaxonomyFile(path string) Option {
	return optionFunc(func(c *clientConfig) {
		c.taxonomyPath = path
	})
}

// WithHTTPClient sets the HTTP client used for the index and semantic service.
func WithHTTPClient(hc *http.Client) Option {
	return optionFunc(func(c *clientConfig) {
		c.httpClient = hc
	})
}

// WithLogger enables structured logging for SDK operations.
// Pass nil to disable (default). Uses standard library slog.
func WithLogger(l *slog.Logger) Option {
	return optionFunc(func(c *clientConfig) {
		c.logger = l
	})
}

// WithPrometheus registers SDK metrics (operation counts and durations)
// on the given registerer. Pass nil to disable (default).
func WithPrometheus(reg prometheus.Registerer) Option {
	return optionFunc(func(c *clientConfig) {
		c.metricsReg = reg
	})
}
