package search

import (
	"context"

	"github.com/helix-hr/staffrag/internal/domain"
	"github.com/helix-hr/staffrag/internal/domain/search/filter"
	"github.com/helix-hr/staffrag/internal/domain/search/result"
)

// Repository defines the storage contract for KNN retrieval.
type Repository interface {
	SearchKNN(
		ctx context.Context, collectionName string,
		vector []float32, filters filter.Expression, topK int,
	) ([]result.Result, error)
}

// Embedder vectorizes text into embeddings.
type Embedder interface {
	Embed(ctx context.Context, text string) (domain.EmbeddingResult, error)
}
