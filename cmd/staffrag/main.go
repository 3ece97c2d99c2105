package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/helix-hr/staffrag/internal/config"
	dbRedis "github.com/helix-hr/staffrag/internal/db/redis"
	"github.com/helix-hr/staffrag/internal/domain"
	logpkg "github.com/helix-hr/staffrag/internal/logger"
	"github.com/helix-hr/staffrag/internal/metrics"
	collectionrepo "github.com/helix-hr/staffrag/internal/repository/collection"
	"github.com/helix-hr/staffrag/internal/repository/embcache"
	searchrepo "github.com/helix-hr/staffrag/internal/repository/search"
	chiTransport "github.com/helix-hr/staffrag/internal/transport/chi"
	openaiTransport "github.com/helix-hr/staffrag/internal/transport/openai"
	answeruc "github.com/helix-hr/staffrag/internal/usecase/answer"
	healthuc "github.com/helix-hr/staffrag/internal/usecase/health"
	queryuc "github.com/helix-hr/staffrag/internal/usecase/query"
	searchuc "github.com/helix-hr/staffrag/internal/usecase/search"
	"github.com/helix-hr/staffrag/internal/version"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	env := config.GetEnv()

	cfg, err := config.Load(env)
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	logger, err := logpkg.New(env, cfg.Logging.Level)
	if err != nil {
		panic("failed to create logger: " + err.Error())
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Starting staffrag API server",
		zap.String("version", version.Version),
		zap.String("commit", version.Commit),
		zap.String("env", env),
		zap.Int("http_port", cfg.HTTP.Port),
		zap.Strings("db_addrs", cfg.Database.Addrs),
		zap.String("collection", cfg.Collection.Name),
	)

	store, err := dbRedis.NewStore(dbRedis.Config{
		Addrs:    cfg.Database.Addrs,
		Username: cfg.Database.Username,
		Password: cfg.Database.Password,
	})
	if err != nil {
		logger.Fatal("Failed to create database store", zap.Error(err))
	}
	defer store.Close()

	ctx := context.Background()
	if err := store.WaitForReady(ctx, time.Duration(cfg.Database.ReadinessTimeout)*time.Second); err != nil {
		logger.Fatal("Database not ready", zap.Error(err))
	}
	logger.Info("Connected to database")

	// Register provider metrics explicitly (no init())
	metrics.RegisterProviderMetrics()

	queryEmbedder := buildEmbedder(cfg, store, logger)
	generator := buildGenerator(cfg, logger)
	logger.Info("Providers created",
		zap.String("embedding_model", cfg.Embedding.Model),
		zap.String("generation_model", cfg.Generation.Model),
	)

	collRepo := collectionrepo.New(store).WithHNSW(collectionrepo.HNSWConfig{
		M:           cfg.Collection.HNSWM,
		EFConstruct: cfg.Collection.HNSWEFConstruct,
	})
	searchRepo := searchrepo.New(store)

	retriever := searchuc.New(searchRepo, queryEmbedder, cfg.Collection.Name)
	composer := answeruc.New(retriever, generator, logger)
	querySvc := queryuc.New(composer).WithLimits(cfg.Query.DefaultK, cfg.Query.MaxK)
	healthSvc := healthuc.New(store, collRepo, cfg.Collection.Name)

	server := chiTransport.NewServer(querySvc, healthSvc, logger)

	r := chi.NewRouter()
	r.Use(jsonRecoverer(logger))
	r.Use(chiMiddleware.RequestID)
	r.Use(wideEventMiddleware(logger))
	r.Use(chiTransport.BearerAuthMiddleware(cfg.Auth.APIKeys))
	r.Use(metrics.Middleware())
	server.Register(r)

	addr := fmt.Sprintf(":%d", cfg.HTTP.Port)
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
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("HTTP server error", zap.Error(err))
		}
	}()

	<-quit
	logger.Info("Received shutdown signal")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.HTTP.ShutdownSec)*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Error during shutdown", zap.Error(err))
	}

	logger.Info("Server stopped gracefully")
}

// buildEmbedder assembles the decorator chain: OpenAI -> Retry -> Cached.
func buildEmbedder(cfg config.Config, store *dbRedis.Store, logger *zap.Logger) domain.Embedder {
	base := openaiTransport.NewEmbedder(&openaiTransport.EmbedderConfig{
		APIKey:     cfg.Embedding.APIKey,
		BaseURL:    cfg.Embedding.BaseURL,
		Model:      cfg.Embedding.Model,
		TimeoutSec: cfg.Embedding.TimeoutSec,
		Logger:     logger,
	})

	var embedder domain.Embedder = openaiTransport.NewRetryEmbedder(base, logger).
		WithMaxRetries(cfg.Embedding.MaxRetries)

	if cfg.Embedding.CacheTTLSec > 0 {
		ttl := time.Duration(cfg.Embedding.CacheTTLSec) * time.Second
		embedder = embcache.New(embedder, store, ttl, metrics.EmbeddingCacheTotal, logger)
	}

	return embedder
}

// buildGenerator assembles the decorator chain: OpenAI -> Retry.
func buildGenerator(cfg config.Config, logger *zap.Logger) domain.Generator {
	base := openaiTransport.NewGenerator(&openaiTransport.GeneratorConfig{
		APIKey:     cfg.Generation.APIKey,
		BaseURL:    cfg.Generation.BaseURL,
		Model:      cfg.Generation.Model,
		MaxTokens:  cfg.Generation.MaxTokens,
		TimeoutSec: cfg.Generation.TimeoutSec,
		Logger:     logger,
	})
	return openaiTransport.NewRetryGenerator(base, logger).
		WithMaxRetries(cfg.Generation.MaxRetries)
}

// jsonRecoverer is a recovery middleware that returns JSON instead of a plain text stacktrace.
func jsonRecoverer(logger *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rvr := recover(); rvr != nil {
					logger.Error("panic recovered",
						zap.Any("panic", rvr),
						zap.Stack("stacktrace"),
					)
					w.Header().Set("Content-Type", "application/json")
					w.WriteHeader(http.StatusInternalServerError)
					_ = json.NewEncoder(w).Encode(map[string]string{
						"code":    "internal_error",
						"message": "internal error",
					})
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}

// wideEventMiddleware emits a canonical log line per request and propagates X-Request-ID.
func wideEventMiddleware(logger *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			requestID := chiMiddleware.GetReqID(r.Context())
			if requestID != "" {
				w.Header().Set("X-Request-ID", requestID)
			}

			reqLogger := logger.With(zap.String("request_id", requestID))
			ctx := logpkg.ContextWithLogger(r.Context(), reqLogger)

			ww := chiMiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r.WithContext(ctx))

			reqLogger.Info("http_request",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", ww.Status()),
				zap.Int("bytes", ww.BytesWritten()),
				zap.Duration("duration", time.Since(start)),
			)
		})
	}
}
