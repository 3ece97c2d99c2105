// Package point stores embedded employee documents as Redis hashes under
// the collection key prefix, where the collection's FT index picks them up.
package point

import (
	"context"
	"errors"
	"fmt"

	"github.com/helix-hr/staffrag/internal/db"
	"github.com/helix-hr/staffrag/internal/domain"
	"github.com/helix-hr/staffrag/internal/domain/employee"
)

// store is the consumer interface for points (ISP).
type store interface {
	HSetMulti(ctx context.Context, items []db.HashSetItem) error
	HGetAll(ctx context.Context, key string) (map[string]string, error)
	Exists(ctx context.Context, key string) (bool, error)
	Del(ctx context.Context, key string) error
}

// Point is an embedded employee document ready for storage.
type Point struct {
	ID     string
	Text   string
	Vector []float32
	Meta   employee.Employee
}

// Repo implements point storage over db.Store.
type Repo struct {
	store store
}

// New creates a point repository.
func New(s store) *Repo {
	return &Repo{store: s}
}

// UpsertMany writes all points in a single pipelined round-trip.
// Point IDs must be unique; a repeated ID overwrites the earlier hash.
func (r *Repo) UpsertMany(ctx context.Context, collection string, points []Point) error {
	if len(points) == 0 {
		return nil
	}

	items := make([]db.HashSetItem, len(points))
	for i, p := range points {
		if p.ID == "" {
			return fmt.Errorf("point %d: %w: missing id", i, domain.ErrInvalidRecord)
		}
		if len(p.Vector) == 0 {
			return fmt.Errorf("point %s: %w: missing vector", p.ID, domain.ErrInvalidRecord)
		}
		items[i] = db.HashSetItem{
			Key:    pointKey(collection, p.ID),
			Fields: pointToHash(p),
		}
	}

	if err := r.store.HSetMulti(ctx, items); err != nil {
		return fmt.Errorf("hset points: %w", err)
	}
	return nil
}

// Get returns a point by ID.
func (r *Repo) Get(ctx context.Context, collection, id string) (Point, error) {
	key := pointKey(collection, id)
	m, err := r.store.HGetAll(ctx, key)
	if err != nil {
		return Point{}, fmt.Errorf("hgetall %s: %w", key, err)
	}
	if len(m) == 0 {
		return Point{}, domain.ErrCollectionNotFound
	}
	return pointFromHash(id, m)
}

// Delete removes a point.
func (r *Repo) Delete(ctx context.Context, collection, id string) error {
	key := pointKey(collection, id)

	exists, err := r.store.Exists(ctx, key)
	if err != nil {
		return fmt.Errorf("check exists %s: %w", key, err)
	}
	if !exists {
		return errors.New("point not found: " + id)
	}

	if err := r.store.Del(ctx, key); err != nil {
		return fmt.Errorf("del %s: %w", key, err)
	}
	return nil
}

func pointKey(collection, id string) string {
	return fmt.Sprintf("%s%s:%s", domain.KeyPrefix, collection, id)
}
