// Package ingest rebuilds the employee collection from a loaded dataset:
// build documents, drop the old collection, probe the embedding dimension,
// create the index, embed every document, and bulk upsert the points.
package ingest

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/helix-hr/staffrag/internal/domain/employee"
	"github.com/helix-hr/staffrag/internal/repository/point"
)

// Report summarizes a completed ingestion run.
type Report struct {
	Records     int
	Points      int
	VectorDim   int
	TotalTokens int
}

// Service orchestrates the full-rebuild ingestion pipeline.
type Service struct {
	colls  CollectionManager
	points PointWriter
	embed  Embedder
	logger *zap.Logger
	now    func() int64
}

// New creates an ingestion service.
func New(colls CollectionManager, points PointWriter, embed Embedder, logger *zap.Logger) *Service {
	return &Service{
		colls:  colls,
		points: points,
		embed:  embed,
		logger: logger,
		now:    func() int64 { return time.Now().Unix() },
	}
}

// Run rebuilds the collection from the given records. The previous
// collection is dropped first; a failure mid-run leaves the collection
// absent or partial and is surfaced, not rolled back.
func (s *Service) Run(ctx context.Context, collectionName string, records []employee.Employee) (Report, error) {
	if len(records) == 0 {
		return Report{}, fmt.Errorf("no records to ingest")
	}

	docs := make([]employee.Document, len(records))
	for i, rec := range records {
		doc, err := employee.BuildDocument(rec)
		if err != nil {
			return Report{}, fmt.Errorf("build document: %w", err)
		}
		docs[i] = doc
	}

	if err := s.colls.Drop(ctx, collectionName); err != nil {
		return Report{}, fmt.Errorf("drop collection: %w", err)
	}

	// The first document doubles as the dimension probe. Its vector is
	// kept, so no text is embedded twice.
	first, err := s.embed.Embed(ctx, docs[0].Text)
	if err != nil {
		return Report{}, fmt.Errorf("probe embedding dimension: %w", err)
	}

	dim := len(first.Embedding)
	tokens := first.TotalTokens

	if err = s.colls.Create(ctx, collectionName, dim, s.now()); err != nil {
		return Report{}, fmt.Errorf("create collection: %w", err)
	}

	s.logger.Info("Collection created",
		zap.String("collection", collectionName),
		zap.Int("vector_dim", dim),
	)

	points := make([]point.Point, len(docs))
	points[0] = point.Point{
		ID:     docs[0].Meta.ID,
		Text:   docs[0].Text,
		Vector: first.Embedding,
		Meta:   docs[0].Meta,
	}

	for i := 1; i < len(docs); i++ {
		emb, embErr := s.embed.Embed(ctx, docs[i].Text)
		if embErr != nil {
			return Report{}, fmt.Errorf("embed document %s: %w", docs[i].Meta.ID, embErr)
		}
		tokens += emb.TotalTokens
		points[i] = point.Point{
			ID:     docs[i].Meta.ID,
			Text:   docs[i].Text,
			Vector: emb.Embedding,
			Meta:   docs[i].Meta,
		}
	}

	if err = s.points.UpsertMany(ctx, collectionName, points); err != nil {
		return Report{}, fmt.Errorf("upsert points: %w", err)
	}

	report := Report{
		Records:     len(records),
		Points:      len(points),
		VectorDim:   dim,
		TotalTokens: tokens,
	}

	s.logger.Info("Ingestion completed",
		zap.String("collection", collectionName),
		zap.Int("points", report.Points),
		zap.Int("total_tokens", report.TotalTokens),
	)

	return report, nil
}
