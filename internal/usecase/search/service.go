// Package search retrieves the employee documents most similar to a
// natural-language query.
package search

import (
	"context"
	"fmt"

	"github.com/helix-hr/staffrag/internal/domain/search/filter"
	"github.com/helix-hr/staffrag/internal/domain/search/result"
)

// Service embeds a query and runs a filtered KNN search against one
// fixed collection.
type Service struct {
	repo       Repository
	embed      Embedder
	collection string
}

// New creates a retrieval service bound to the given collection.
func New(repo Repository, embed Embedder, collection string) *Service {
	return &Service{repo: repo, embed: embed, collection: collection}
}

// Retrieve returns at most topK documents in descending similarity order.
// Filters are applied by the search engine before ranking, so the top-k
// set is already filtered.
func (s *Service) Retrieve(
	ctx context.Context, query string, filters filter.Expression, topK int,
) ([]result.Result, error) {
	embResult, err := s.embed.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("vectorize query: %w", err)
	}

	results, err := s.repo.SearchKNN(ctx, s.collection, embResult.Embedding, filters, topK)
	if err != nil {
		return nil, fmt.Errorf("search knn: %w", err)
	}
	return results, nil
}
