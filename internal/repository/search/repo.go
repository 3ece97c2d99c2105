// Package search runs filtered KNN queries against a collection's FT
// index and hydrates hits into domain search results.
package search

import (
	"context"
	"fmt"
	"strings"

	"github.com/helix-hr/staffrag/internal/db"
	"github.com/helix-hr/staffrag/internal/domain"
	"github.com/helix-hr/staffrag/internal/domain/search/filter"
	"github.com/helix-hr/staffrag/internal/domain/search/result"
	"github.com/helix-hr/staffrag/internal/repository/point"
)

// store is the consumer interface for search operations (ISP).
type store interface {
	SearchKNN(ctx context.Context, q *db.KNNQuery) (*db.SearchResult, error)
}

// Repo implements similarity search over db.Store.
type Repo struct {
	store store
}

// New creates a search repository.
func New(s store) *Repo {
	return &Repo{store: s}
}

// SearchKNN performs a KNN vector search with filter pre-filtering.
// Results come back ordered by descending similarity, at most topK of them.
func (r *Repo) SearchKNN(
	ctx context.Context, collectionName string,
	vector []float32, filters filter.Expression, topK int,
) ([]result.Result, error) {
	indexName := fmt.Sprintf("%s%s:idx", domain.KeyPrefix, collectionName)

	q := &db.KNNQuery{
		IndexName:    indexName,
		Filters:      filters,
		Vector:       vector,
		K:            topK,
		ReturnFields: point.PayloadFields(),
	}

	sr, err := r.store.SearchKNN(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("search knn %s: %w", collectionName, err)
	}

	return parseResults(sr, collectionName)
}

// parseResults converts db.SearchResult into []result.Result.
func parseResults(sr *db.SearchResult, collection string) ([]result.Result, error) {
	if sr == nil || sr.Total == 0 {
		return nil, nil
	}

	prefix := fmt.Sprintf("%s%s:", domain.KeyPrefix, collection)
	results := make([]result.Result, 0, len(sr.Entries))

	for _, entry := range sr.Entries {
		id := strings.TrimPrefix(entry.Key, prefix)
		emp, text, err := point.ParseFields(entry.Fields)
		if err != nil {
			return nil, fmt.Errorf("parse hit %s: %w", entry.Key, err)
		}
		emp.ID = id
		results = append(results, result.New(id, entry.Score, text, emp))
	}

	return results, nil
}
