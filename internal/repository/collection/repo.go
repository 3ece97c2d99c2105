// Package collection manages vector collection lifecycle: the metadata
// hash, the FT index, and the point keys stored under the collection
// prefix.
package collection

import (
	"context"
	"errors"
	"fmt"

	"github.com/helix-hr/staffrag/internal/db"
	"github.com/helix-hr/staffrag/internal/domain"
)

// store is the consumer interface for collections (ISP).
type store interface {
	HSet(ctx context.Context, key string, fields map[string]string) error
	HGetAll(ctx context.Context, key string) (map[string]string, error)
	Del(ctx context.Context, key string) error
	DelMulti(ctx context.Context, keys []string) error
	Exists(ctx context.Context, key string) (bool, error)
	Scan(ctx context.Context, pattern string) ([]string, error)
	CreateIndex(ctx context.Context, def *db.IndexDefinition) error
	DropIndex(ctx context.Context, name string) error
	IndexExists(ctx context.Context, name string) (bool, error)
	SearchCount(ctx context.Context, index, query string) (int, error)
}

// HNSWConfig HNSW index parameters.
type HNSWConfig struct {
	M           int
	EFConstruct int
}

// Info describes a stored collection.
type Info struct {
	Name      string
	VectorDim int
	CreatedAt int64
}

// Repo implements collection lifecycle over db.Store.
type Repo struct {
	store store
	hnsw  HNSWConfig
}

// New creates a collection repository.
func New(s store) *Repo {
	return &Repo{store: s, hnsw: HNSWConfig{M: 16, EFConstruct: 200}}
}

// WithHNSW configures HNSW index parameters.
func (r *Repo) WithHNSW(cfg HNSWConfig) *Repo {
	if cfg.M > 0 {
		r.hnsw.M = cfg.M
	}
	if cfg.EFConstruct > 0 {
		r.hnsw.EFConstruct = cfg.EFConstruct
	}
	return r
}

// Create stores a collection: HSET metadata then FT.CREATE index.
// On FT.CREATE failure, rolls back the HSET via DEL.
func (r *Repo) Create(ctx context.Context, name string, vectorDim int, createdAt int64) error {
	if vectorDim <= 0 {
		return fmt.Errorf("vector dim must be positive, got %d", vectorDim)
	}

	metaKey := metaKey(name)
	exists, err := r.store.Exists(ctx, metaKey)
	if err != nil {
		return fmt.Errorf("check exists: %w", err)
	}
	if exists {
		return domain.ErrAlreadyExists
	}

	indexDef, err := buildIndex(name, vectorDim, r.hnsw)
	if err != nil {
		return fmt.Errorf("build index: %w", err)
	}

	if err := r.store.HSet(ctx, metaKey, infoToHash(name, vectorDim, createdAt)); err != nil {
		return fmt.Errorf("hset collection %s: %w", name, err)
	}

	// FT.CREATE -- rollback HSET on error
	if err := r.store.CreateIndex(ctx, indexDef); err != nil {
		cleanupErr := r.store.Del(ctx, metaKey)
		return errors.Join(err, cleanupErr)
	}

	return nil
}

// Get retrieves collection metadata by name.
func (r *Repo) Get(ctx context.Context, name string) (Info, error) {
	m, err := r.store.HGetAll(ctx, metaKey(name))
	if err != nil {
		return Info{}, fmt.Errorf("hgetall collection %s: %w", name, err)
	}
	if len(m) == 0 {
		return Info{}, domain.ErrCollectionNotFound
	}

	return infoFromHash(m)
}

// Exists reports whether a collection with this name is stored.
func (r *Repo) Exists(ctx context.Context, name string) (bool, error) {
	exists, err := r.store.Exists(ctx, metaKey(name))
	if err != nil {
		return false, fmt.Errorf("check exists: %w", err)
	}
	return exists, nil
}

// Drop removes a collection: the FT index, every point key under the
// collection prefix, and the metadata hash. Dropping an absent
// collection is a no-op.
func (r *Repo) Drop(ctx context.Context, name string) error {
	idxName := indexName(name)
	idxExists, err := r.store.IndexExists(ctx, idxName)
	if err != nil {
		return fmt.Errorf("check index exists: %w", err)
	}
	if idxExists {
		if err := r.store.DropIndex(ctx, idxName); err != nil && !errors.Is(err, db.ErrIndexNotFound) {
			return fmt.Errorf("drop index %s: %w", idxName, err)
		}
	}

	keys, err := r.store.Scan(ctx, collectionPrefix(name)+"*")
	if err != nil {
		return fmt.Errorf("scan points %s: %w", name, err)
	}
	if err := r.store.DelMulti(ctx, keys); err != nil {
		return fmt.Errorf("del points %s: %w", name, err)
	}

	if err := r.store.Del(ctx, metaKey(name)); err != nil {
		return fmt.Errorf("del collection %s: %w", name, err)
	}

	return nil
}

// Count returns the number of indexed points in the collection.
func (r *Repo) Count(ctx context.Context, name string) (int, error) {
	count, err := r.store.SearchCount(ctx, indexName(name), "*")
	if err != nil {
		return 0, fmt.Errorf("count points %s: %w", name, err)
	}
	return count, nil
}

// Redis key patterns: staffrag:collection:{name}, staffrag:{name}:idx, staffrag:{name}:

func metaKey(name string) string {
	return fmt.Sprintf("%scollection:%s", domain.KeyPrefix, name)
}

func indexName(name string) string {
	return fmt.Sprintf("%s%s:idx", domain.KeyPrefix, name)
}

func collectionPrefix(name string) string {
	return fmt.Sprintf("%s%s:", domain.KeyPrefix, name)
}

// IndexName exposes the FT index name for a collection.
func IndexName(name string) string { return indexName(name) }

// Prefix exposes the point key prefix for a collection.
func Prefix(name string) string { return collectionPrefix(name) }
