package ingest

import (
	"context"

	"github.com/helix-hr/staffrag/internal/domain"
	"github.com/helix-hr/staffrag/internal/repository/point"
)

// CollectionManager manages the collection lifecycle during a rebuild.
type CollectionManager interface {
	Drop(ctx context.Context, name string) error
	Create(ctx context.Context, name string, vectorDim int, createdAt int64) error
}

// PointWriter persists embedded documents in bulk.
type PointWriter interface {
	UpsertMany(ctx context.Context, collection string, points []point.Point) error
}

// Embedder vectorizes text into embeddings.
type Embedder interface {
	Embed(ctx context.Context, text string) (domain.EmbeddingResult, error)
}
