package collection

import (
	"context"
	"errors"
	"testing"

	"github.com/helix-hr/staffrag/internal/db"
	"github.com/helix-hr/staffrag/internal/domain"
)

func TestCreate_Success(t *testing.T) {
	repo, ms := newTestRepo(t)

	var hsetKey string
	var indexDef *db.IndexDefinition
	ms.hsetFn = func(_ context.Context, key string, _ map[string]string) error {
		hsetKey = key
		return nil
	}
	ms.createIndexFn = func(_ context.Context, def *db.IndexDefinition) error {
		indexDef = def
		return nil
	}

	if err := repo.Create(context.Background(), "employees", 1536, 1700000000000); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if hsetKey != "staffrag:collection:employees" {
		t.Errorf("unexpected meta key: %q", hsetKey)
	}
	if indexDef == nil {
		t.Fatal("expected index creation")
	}
	if indexDef.Name != "staffrag:employees:idx" {
		t.Errorf("unexpected index name: %q", indexDef.Name)
	}
	if len(indexDef.Prefixes) != 1 || indexDef.Prefixes[0] != "staffrag:employees:" {
		t.Errorf("unexpected prefixes: %v", indexDef.Prefixes)
	}

	var hasVector bool
	for _, f := range indexDef.Fields {
		if f.Type == db.IndexFieldVector {
			hasVector = true
			if f.VectorDim != 1536 {
				t.Errorf("vector dim = %d, want 1536", f.VectorDim)
			}
			if f.VectorDistance != db.DistanceCosine {
				t.Errorf("distance = %q, want COSINE", f.VectorDistance)
			}
		}
	}
	if !hasVector {
		t.Error("index definition has no vector field")
	}
}

func TestCreate_AlreadyExists(t *testing.T) {
	repo, ms := newTestRepo(t)
	ms.existsFn = func(_ context.Context, _ string) (bool, error) {
		return true, nil
	}

	err := repo.Create(context.Background(), "employees", 1536, 0)
	if !errors.Is(err, domain.ErrAlreadyExists) {
		t.Errorf("expected ErrAlreadyExists, got %v", err)
	}
}

func TestCreate_InvalidDim(t *testing.T) {
	repo, _ := newTestRepo(t)

	if err := repo.Create(context.Background(), "employees", 0, 0); err == nil {
		t.Error("expected error for zero dim")
	}
}

func TestCreate_IndexFailureRollsBack(t *testing.T) {
	repo, ms := newTestRepo(t)

	indexErr := errors.New("index boom")
	var deleted string
	ms.createIndexFn = func(_ context.Context, _ *db.IndexDefinition) error {
		return indexErr
	}
	ms.delFn = func(_ context.Context, key string) error {
		deleted = key
		return nil
	}

	err := repo.Create(context.Background(), "employees", 1536, 0)
	if !errors.Is(err, indexErr) {
		t.Fatalf("expected index error, got %v", err)
	}
	if deleted != "staffrag:collection:employees" {
		t.Errorf("expected metadata rollback, deleted %q", deleted)
	}
}

func TestGet_Success(t *testing.T) {
	repo, ms := newTestRepo(t)
	ms.hgetAllFn = func(_ context.Context, _ string) (map[string]string, error) {
		return map[string]string{
			"name":       "employees",
			"vector_dim": "1536",
			"created_at": "1700000000000",
		}, nil
	}

	info, err := repo.Get(context.Background(), "employees")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if info.Name != "employees" || info.VectorDim != 1536 || info.CreatedAt != 1700000000000 {
		t.Errorf("unexpected info: %+v", info)
	}
}

func TestGet_NotFound(t *testing.T) {
	repo, _ := newTestRepo(t)

	_, err := repo.Get(context.Background(), "missing")
	if !errors.Is(err, domain.ErrCollectionNotFound) {
		t.Errorf("expected ErrCollectionNotFound, got %v", err)
	}
}

func TestDrop_Success(t *testing.T) {
	repo, ms := newTestRepo(t)

	var droppedIndex string
	var deletedKeys []string
	var deletedMeta string
	ms.indexExistsFn = func(_ context.Context, _ string) (bool, error) {
		return true, nil
	}
	ms.dropIndexFn = func(_ context.Context, name string) error {
		droppedIndex = name
		return nil
	}
	ms.scanFn = func(_ context.Context, pattern string) ([]string, error) {
		if pattern != "staffrag:employees:*" {
			t.Errorf("unexpected scan pattern: %q", pattern)
		}
		return []string{"staffrag:employees:emp-1", "staffrag:employees:emp-2"}, nil
	}
	ms.delMultiFn = func(_ context.Context, keys []string) error {
		deletedKeys = keys
		return nil
	}
	ms.delFn = func(_ context.Context, key string) error {
		deletedMeta = key
		return nil
	}

	if err := repo.Drop(context.Background(), "employees"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if droppedIndex != "staffrag:employees:idx" {
		t.Errorf("unexpected dropped index: %q", droppedIndex)
	}
	if len(deletedKeys) != 2 {
		t.Errorf("expected 2 point keys deleted, got %v", deletedKeys)
	}
	if deletedMeta != "staffrag:collection:employees" {
		t.Errorf("unexpected meta key deleted: %q", deletedMeta)
	}
}

func TestDrop_AbsentCollectionIsNoop(t *testing.T) {
	repo, ms := newTestRepo(t)

	dropCalled := false
	ms.dropIndexFn = func(_ context.Context, _ string) error {
		dropCalled = true
		return nil
	}

	if err := repo.Drop(context.Background(), "missing"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if dropCalled {
		t.Error("FT.DROPINDEX should not be called for absent index")
	}
}

func TestExists(t *testing.T) {
	repo, ms := newTestRepo(t)
	ms.existsFn = func(_ context.Context, key string) (bool, error) {
		return key == "staffrag:collection:employees", nil
	}

	exists, err := repo.Exists(context.Background(), "employees")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !exists {
		t.Error("expected true")
	}

	exists, err = repo.Exists(context.Background(), "other")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if exists {
		t.Error("expected false")
	}
}

func TestCount(t *testing.T) {
	repo, ms := newTestRepo(t)
	ms.searchCountFn = func(_ context.Context, index, query string) (int, error) {
		if index != "staffrag:employees:idx" {
			t.Errorf("unexpected index: %q", index)
		}
		if query != "*" {
			t.Errorf("unexpected query: %q", query)
		}
		return 7, nil
	}

	count, err := repo.Count(context.Background(), "employees")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if count != 7 {
		t.Errorf("count = %d, want 7", count)
	}
}
