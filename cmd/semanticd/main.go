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
	"github.com/panjf2000/ants/v2"
	"go.uber.org/zap"

	"github.com/kailas-cloud/menurank/internal/config"
	"github.com/kailas-cloud/menurank/internal/db"
	dbRedis "github.com/kailas-cloud/menurank/internal/db/redis"
	"github.com/kailas-cloud/menurank/internal/domain"
	logpkg "github.com/kailas-cloud/menurank/internal/logger"
	"github.com/kailas-cloud/menurank/internal/metrics"
	"github.com/kailas-cloud/menurank/internal/repository/embcache"
	chiTransport "github.com/kailas-cloud/menurank/internal/transport/chi"
	openaiEmb "github.com/kailas-cloud/menurank/internal/transport/openai"
	rerankuc "github.com/kailas-cloud/menurank/internal/usecase/rerank"
	semanticuc "github.com/kailas-cloud/menurank/internal/usecase/semantic"
	"github.com/kailas-cloud/menurank/internal/version"
)

func main() {
	env := config.GetEnv()

	cfg, err := config.Load(env)
	if err != nil {
		panic("failed to load config: " + err.Error())
	}
	if err := cfg.ValidateSemanticServer(); err != nil {
		panic("invalid semantic server config: " + err.Error())
	}

	logger, err := logpkg.NewLogger(env, "semanticd", cfg.Logging.Level)
	if err != nil {
		panic("failed to create logger: " + err.Error())
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Starting menurank semantic server",
		zap.String("version", version.Version),
		zap.String("commit", version.Commit),
		zap.String("env", env),
		zap.Int("http_port", cfg.SemanticServer.Port),
		zap.String("model", cfg.Embedding.Model),
		zap.Strings("db_addrs", cfg.Database.Addrs),
	)

	// Register metrics explicitly (no init())
	metrics.RegisterHTTPMetrics()
	metrics.RegisterEmbeddingMetrics()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Redis is optional: without it embeddings are not cached and the registry is empty.
	var store db.Store
	if len(cfg.Database.Addrs) > 0 {
		s, err := dbRedis.NewStore(dbRedis.Config{
			Addrs:    cfg.Database.Addrs,
			Password: cfg.Database.Password,
		})
		if err != nil {
			logger.Fatal("Failed to create database store", zap.Error(err))
		}
		defer s.Close()

		if err := s.WaitForReady(ctx, time.Duration(cfg.Database.ReadinessTimeout)*time.Second); err != nil {
			logger.Fatal("Database not ready", zap.Error(err))
		}
		logger.Info("Connected to database")
		store = s
	}

	base := openaiEmb.NewEmbedder(&openaiEmb.Config{
		APIKey:     cfg.Embedding.APIKey,
		BaseURL:    cfg.Embedding.BaseURL,
		Model:      cfg.Embedding.Model,
		Dimensions: cfg.Embedding.Dimensions,
		Provider:   cfg.Embedding.Provider,
		Logger:     logger,
	})
	queryEmbedder := buildEmbedder(base, cfg, cfg.Embedding.QueryInstruction, store, logger)
	docEmbedder := buildEmbedder(base, cfg, cfg.Embedding.DocumentInstruction, store, logger)

	monitor := semanticuc.NewMonitor(base, logger,
		semanticuc.WithInterval(time.Duration(cfg.Semantic.RefreshIntervalSec)*time.Second))
	go monitor.Run(ctx)

	pool, err := ants.NewPool(cfg.SemanticServer.Workers)
	if err != nil {
		logger.Fatal("Failed to create worker pool", zap.Error(err))
	}
	defer pool.Release()

	// Pass a nil interface (not a typed nil pointer) without Redis.
	var registry rerankuc.Registry
	if store != nil {
		registry = store
	}

	rerankSvc := rerankuc.New(rerankuc.Config{
		QueryEmbedder:    queryEmbedder,
		DocumentEmbedder: docEmbedder,
		Availability:     monitor,
		Registry:         registry,
		Pool:             pool,
		Defaults: rerankuc.Params{
			TopK:           cfg.SemanticServer.TopK,
			KeywordWeight:  cfg.SemanticServer.KeywordWeight,
			SemanticWeight: cfg.SemanticServer.SemanticWeight,
		},
		Logger: logger,
	})

	r := chi.NewRouter()
	r.Use(chiTransport.JSONRecoverer(logger))
	r.Use(chiMiddleware.RequestID)
	r.Use(chiTransport.WideEventMiddleware(logger))
	r.Use(chiTransport.CORS(cfg.CORS.AllowedOrigins))
	r.Use(metrics.Middleware())
	chiTransport.NewSemanticServer(rerankSvc, logger).Mount(r)

	addr := fmt.Sprintf(":%d", cfg.SemanticServer.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.HTTP.ReadTimeoutSec) * time.Second,
		WriteTimeout: time.Duration(cfg.HTTP.WriteTimeoutSec) * time.Second,
	}

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

// buildEmbedder assembles the decorator chain: OpenAI -> Cached -> Instruction.
// The instruction prefix is outermost so the cache key includes it.
func buildEmbedder(
	base domain.Embedder,
	cfg config.Config,
	instruction string,
	store db.Store,
	logger *zap.Logger,
) domain.Embedder {
	embedder := base
	if store != nil {
		embedder = embcache.New(base, store, embcache.Options{
			Model:      cfg.Embedding.Model,
			TTL:        time.Duration(cfg.SemanticServer.CacheTTLSec) * time.Second,
			Dimensions: cfg.Embedding.Dimensions,
		}, metrics.EmbeddingCacheTotal, logger)
	}

	return domain.WithInstruction(embedder, instruction)
}
