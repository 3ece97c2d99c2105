// Package health reports whether the service can answer queries: the
// vector store must respond and the employee collection must exist.
package health

import (
	"context"
	"fmt"

	"github.com/helix-hr/staffrag/internal/domain"
)

// StatusHealthy is the status value of a passing check.
const StatusHealthy = "healthy"

// Report is a passing health check result. A missing collection is an
// error, never a zero count.
type Report struct {
	Status      string
	Collection  string
	VectorCount int
}

// Service coordinates health checks against one fixed collection.
type Service struct {
	db         DBPinger
	colls      CollectionReader
	collection string
}

// New creates a health service.
func New(db DBPinger, colls CollectionReader, collection string) *Service {
	return &Service{db: db, colls: colls, collection: collection}
}

// Check verifies store connectivity and collection presence, and counts
// the indexed vectors.
func (s *Service) Check(ctx context.Context) (Report, error) {
	if err := s.db.Ping(ctx); err != nil {
		return Report{}, fmt.Errorf("ping store: %w", err)
	}

	exists, err := s.colls.Exists(ctx, s.collection)
	if err != nil {
		return Report{}, fmt.Errorf("check collection: %w", err)
	}
	if !exists {
		return Report{}, fmt.Errorf("check collection %s: %w", s.collection, domain.ErrCollectionNotFound)
	}

	count, err := s.colls.Count(ctx, s.collection)
	if err != nil {
		return Report{}, fmt.Errorf("count vectors: %w", err)
	}

	return Report{
		Status:      StatusHealthy,
		Collection:  s.collection,
		VectorCount: count,
	}, nil
}
