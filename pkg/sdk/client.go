package menurank

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/menurank/internal/domain/boost"
	"github.com/kailas-cloud/menurank/internal/domain/keyword"
	"github.com/kailas-cloud/menurank/internal/domain/search/request"
	"github.com/kailas-cloud/menurank/internal/domain/taxonomy"
	"github.com/kailas-cloud/menurank/internal/transport/semantic"
	"github.com/kailas-cloud/menurank/internal/transport/solr"
	healthuc "github.com/kailas-cloud/menurank/internal/usecase/health"
	searchuc "github.com/kailas-cloud/menurank/internal/usecase/search"
	semanticuc "github.com/kailas-cloud/menurank/internal/usecase/semantic"
)

const defaultSemanticTopK = 50

// Internal interfaces, swapped out in tests.
type searchUseCase interface {
	Search(ctx context.Context, req *request.Request) (searchuc.Response, error)
	Explain(rawQuery string) searchuc.Explanation
}

type indexProbe interface {
	Ping(ctx context.Context) error
	Count(ctx context.Context) (int, error)
}

type semanticProbe interface {
	Status(ctx context.Context) (semantic.Status, error)
}

// Client is the menurank SDK entry point. It is safe for concurrent use.
type Client struct {
	searchSvc searchUseCase
	healthSvc healthUseCase
	index     indexProbe
	semantic  semanticProbe // nil without WithSemantic
	monitor   *semanticuc.Monitor
	cancel    context.CancelFunc
	obs       *observer
}

// New creates a Client. WithIndex is required.
// With WithSemantic, a background goroutine tracks service availability until Close.
func New(opts ...Option) (*Client, error) {
	cfg := &clientConfig{
		core:         "menu",
		semanticTopK: defaultSemanticTopK,
	}
	for _, o := range opts {
		o.apply(cfg)
	}

	if cfg.indexURL == "" {
		return nil, errors.New("menurank: index URL required (use WithIndex)")
	}

	tax, err := loadTaxonomy(cfg)
	if err != nil {
		return nil, err
	}

	obs, err := newObserver(cfg.logger, cfg.metricsReg)
	if err != nil {
		return nil, err
	}

	return wireClient(cfg, tax, obs), nil
}

func loadTaxonomy(cfg *clientConfig) (taxonomy.Taxonomy, error) {
	data := cfg.taxonomyYAML
	if data == nil && cfg.taxonomyPath != "" {
		b, err := os.ReadFile(cfg.taxonomyPath)
		if err != nil {
			return taxonomy.Taxonomy{}, fmt.Errorf("menurank: read taxonomy: %w", err)
		}
		data = b
	}
	if data == nil {
		return taxonomy.Default(), nil
	}
	tax, err := taxonomy.Parse(data)
	if err != nil {
		return taxonomy.Taxonomy{}, fmt.Errorf("menurank: parse taxonomy: %w", err)
	}
	return tax, nil
}

func wireClient(cfg *clientConfig, tax taxonomy.Taxonomy, obs *observer) *Client {
	logger := zap.NewNop()

	index := solr.NewClient(&solr.Config{
		BaseURL:    cfg.indexURL,
		Core:       cfg.core,
		Timeout:    cfg.indexTimeout,
		Origin:     cfg.origin,
		HTTPClient: cfg.httpClient,
		Logger:     logger,
	})

	c := &Client{index: index, obs: obs, cancel: func() {}}

	// nil interfaces (not typed nil pointers) keep the fuser on the keyword path.
	var (
		scorer       searchuc.SemanticScorer
		availability searchuc.Availability
		semChecker   healthuc.SemanticChecker
	)
	if cfg.semanticURL != "" {
		client := semantic.NewClient(&semantic.Config{
			BaseURL:    cfg.semanticURL,
			Timeout:    cfg.semanticTimeout,
			HTTPClient: cfg.httpClient,
		})
		var monitorOpts []semanticuc.Option
		if cfg.refresh > 0 {
			monitorOpts = append(monitorOpts, semanticuc.WithInterval(cfg.refresh))
		}
		monitor := semanticuc.NewMonitor(client, logger, monitorOpts...)

		ctx, cancel := context.WithCancel(context.Background())
		go monitor.Run(ctx)

		c.semantic, c.monitor, c.cancel = client, monitor, cancel
		scorer, availability, semChecker = client, monitor, client
	}

	fields := searchuc.DefaultFields()
	fields.MaxRows = request.MaxRows

	c.searchSvc = searchuc.New(
		keyword.NewClassifier(tax),
		boost.NewBuilder(tax, boost.DefaultWeights()),
		searchuc.NewOrchestrator(index, fields, logger),
		searchuc.NewFuser(scorer, availability, tax, cfg.semanticTopK, logger),
	)
	c.healthSvc = healthuc.New(index, semChecker)
	return c
}

// Close stops the availability monitor.
func (c *Client) Close() {
	if c.cancel != nil {
		c.cancel()
	}
}

// Ping checks index connectivity.
func (c *Client) Ping(ctx context.Context) (err error) {
	start := time.Now()
	defer func() { c.obs.observe("ping", start, err) }()

	if err = c.index.Ping(ctx); err != nil {
		return fmt.Errorf("ping: %w", err)
	}
	return nil
}

// SemanticAvailable reports the last known semantic service availability.
// Always false without WithSemantic.
func (c *Client) SemanticAvailable() bool {
	return c.monitor != nil && c.monitor.Available()
}
