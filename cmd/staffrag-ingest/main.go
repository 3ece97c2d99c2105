// Command staffrag-ingest rebuilds the employee collection from the
// source dataset. It is run out of band; the API server never ingests.
package main

import (
	"context"
	"os"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/helix-hr/staffrag/internal/config"
	dbRedis "github.com/helix-hr/staffrag/internal/db/redis"
	"github.com/helix-hr/staffrag/internal/domain"
	logpkg "github.com/helix-hr/staffrag/internal/logger"
	"github.com/helix-hr/staffrag/internal/metrics"
	collectionrepo "github.com/helix-hr/staffrag/internal/repository/collection"
	"github.com/helix-hr/staffrag/internal/repository/dataset"
	"github.com/helix-hr/staffrag/internal/repository/embcache"
	pointrepo "github.com/helix-hr/staffrag/internal/repository/point"
	openaiTransport "github.com/helix-hr/staffrag/internal/transport/openai"
	ingestuc "github.com/helix-hr/staffrag/internal/usecase/ingest"
	"github.com/helix-hr/staffrag/internal/version"
)

func main() {
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

	logger.Info("Starting staffrag ingestion",
		zap.String("version", version.Version),
		zap.String("env", env),
		zap.String("dataset", cfg.Dataset.Path),
		zap.String("collection", cfg.Collection.Name),
	)

	datasetPath := cfg.Dataset.Path
	if len(os.Args) > 1 {
		datasetPath = os.Args[1]
	}

	records, err := dataset.Load(datasetPath)
	if err != nil {
		logger.Fatal("Failed to load dataset", zap.Error(err))
	}
	logger.Info("Dataset loaded", zap.Int("records", len(records)))

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

	metrics.RegisterProviderMetrics()

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

	collRepo := collectionrepo.New(store).WithHNSW(collectionrepo.HNSWConfig{
		M:           cfg.Collection.HNSWM,
		EFConstruct: cfg.Collection.HNSWEFConstruct,
	})
	pointRepo := pointrepo.New(store)

	svc := ingestuc.New(collRepo, pointRepo, embedder, logger)

	report, err := svc.Run(ctx, cfg.Collection.Name, records)
	if err != nil {
		logger.Fatal("Ingestion failed", zap.Error(err))
	}

	logger.Info("Ingestion finished",
		zap.Int("records", report.Records),
		zap.Int("points", report.Points),
		zap.Int("vector_dim", report.VectorDim),
		zap.Int("total_tokens", report.TotalTokens),
	)
}
