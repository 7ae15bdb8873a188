package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/kailas-cloud/menurank/internal/config"
	"github.com/kailas-cloud/menurank/internal/domain/boost"
	"github.com/kailas-cloud/menurank/internal/domain/keyword"
	"github.com/kailas-cloud/menurank/internal/domain/taxonomy"
	logpkg "github.com/kailas-cloud/menurank/internal/logger"
	"github.com/kailas-cloud/menurank/internal/metrics"
	chiTransport "github.com/kailas-cloud/menurank/internal/transport/chi"
	"github.com/kailas-cloud/menurank/internal/transport/semantic"
	"github.com/kailas-cloud/menurank/internal/transport/solr"
	"github.com/kailas-cloud/menurank/internal/version"
	healthuc "github.com/kailas-cloud/menurank/internal/usecase/health"
	searchuc "github.com/kailas-cloud/menurank/internal/usecase/search"
	semanticuc "github.com/kailas-cloud/menurank/internal/usecase/semantic"
)

func main() {
	// Load configuration based on ENV
	env := config.GetEnv()

	cfg, err := config.Load(env)
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	logger, err := logpkg.NewLogger(env, "menurank", cfg.Logging.Level)
	if err != nil {
		panic("failed to create logger: " + err.Error())
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Starting menurank search API",
		zap.String("version", version.Version),
		zap.String("commit", version.Commit),
		zap.String("env", env),
		zap.Int("http_port", cfg.HTTP.Port),
		zap.String("index_url", cfg.Index.BaseURL),
		zap.String("index_core", cfg.Index.Core),
		zap.Bool("semantic_enabled", cfg.Semantic.Enabled()),
	)

	metrics.RegisterHTTPMetrics()
	metrics.RegisterSearchMetrics()

	tax, err := loadTaxonomy(cfg.Taxonomy.Path)
	if err != nil {
		logger.Fatal("Failed to load taxonomy", zap.Error(err))
	}

	index := solr.NewClient(&solr.Config{
		BaseURL: cfg.Index.BaseURL,
		Core:    cfg.Index.Core,
		Timeout: time.Duration(cfg.Index.TimeoutSec) * time.Second,
		Origin:  cfg.Index.Origin,
		Logger:  logger,
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Pass nil interfaces (not typed nil pointers) when the semantic service is off.
	var (
		scorer       searchuc.SemanticScorer
		availability searchuc.Availability
		semChecker   healthuc.SemanticChecker
	)
	if cfg.Semantic.Enabled() {
		client := semantic.NewClient(&semantic.Config{
			BaseURL: cfg.Semantic.BaseURL,
			Timeout: time.Duration(cfg.Semantic.TimeoutSec) * time.Second,
		})
		monitor := semanticuc.NewMonitor(client, logger,
			semanticuc.WithInterval(time.Duration(cfg.Semantic.RefreshIntervalSec)*time.Second),
			semanticuc.WithObserver(func(available bool) {
				v := 0.0
				if available {
					v = 1
				}
				metrics.SemanticAvailable.Set(v)
			}),
		)
		go monitor.Run(ctx)

		scorer, availability, semChecker = client, monitor, client
	}

	searchSvc := searchuc.New(
		keyword.NewClassifier(tax),
		boost.NewBuilder(tax, boost.DefaultWeights()),
		searchuc.NewOrchestrator(index, searchuc.Fields{
			QF:          cfg.Index.QF,
			PF:          cfg.Index.PF,
			MM:          cfg.Index.MM,
			DefaultRows: cfg.Index.Rows,
			MaxRows:     cfg.Index.MaxRows,
		}, logger),
		searchuc.NewFuser(scorer, availability, tax, cfg.Semantic.TopK, logger),
	)
	healthSvc := healthuc.New(index, semChecker)

	server := chiTransport.NewServer(searchSvc, healthSvc, logger)

	r := chi.NewRouter()
	r.Use(chiTransport.JSONRecoverer(logger))
	r.Use(chiMiddleware.RequestID)
	r.Use(chiTransport.WideEventMiddleware(logger))
	r.Use(chiTransport.CORS(cfg.CORS.AllowedOrigins))
	r.Use(chiTransport.APIKeyAuth(cfg.Auth.APIKeys))
	r.Use(metrics.Middleware())
	chiTransport.HandlerWithOptions(server, chiTransport.ChiServerOptions{
		BaseRouter:       r,
		ErrorHandlerFunc: chiTransport.BindErrorHandler,
	})

	addr := fmt.Sprintf(":%d", cfg.HTTP.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.HTTP.ReadTimeoutSec) * time.Second,
		WriteTimeout: time.Duration(cfg.HTTP.WriteTimeoutSec) * time.Second,
	}

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	go func() {
		logger.Info("Starting HTTP server", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("HTTP server error", zap.Error(err))
		}
	}()

	<-quit
	logger.Info("Received shutdown signal")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(),
		time.Duration(cfg.HTTP.ShutdownSec)*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Error during shutdown", zap.Error(err))
	}

	logger.Info("Server stopped gracefully")
}

// loadTaxonomy reads the taxonomy file, or returns the built-in tables when path is empty.
func loadTaxonomy(path string) (taxonomy.Taxonomy, error) {
	if path == "" {
		return taxonomy.Default(), nil
	}
	tax, err := taxonomy.Load(path)
	if err != nil {
		return taxonomy.Taxonomy{}, fmt.Errorf("load taxonomy %s: %w", path, err)
	}
	return tax, nil
}
