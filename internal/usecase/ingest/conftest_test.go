package ingest

import (
	"context"

	"github.com/helix-hr/staffrag/internal/domain"
	"github.com/helix-hr/staffrag/internal/domain/employee"
	"github.com/helix-hr/staffrag/internal/repository/point"
)

type mockCollections struct {
	dropFn   func(ctx context.Context, name string) error
	createFn func(ctx context.Context, name string, vectorDim int, createdAt int64) error
}

func (m *mockCollections) Drop(ctx context.Context, name string) error {
	if m.dropFn == nil {
		return nil
	}
	return m.dropFn(ctx, name)
}

func (m *mockCollections) Create(ctx context.Context, name string, vectorDim int, createdAt int64) error {
	if m.createFn == nil {
		return nil
	}
	return m.createFn(ctx, name, vectorDim, createdAt)
}

type mockPoints struct {
	upsertFn func(ctx context.Context, collection string, points []point.Point) error
}

func (m *mockPoints) UpsertMany(ctx context.Context, collection string, points []point.Point) error {
	if m.upsertFn == nil {
		return nil
	}
	return m.upsertFn(ctx, collection, points)
}

type mockEmbedder struct {
	embedFn func(ctx context.Context, text string) (domain.EmbeddingResult, error)
	calls   int
}

func (m *mockEmbedder) Embed(ctx context.Context, text string) (domain.EmbeddingResult, error) {
	m.calls++
	if m.embedFn == nil {
		return domain.EmbeddingResult{Embedding: []float32{0.1, 0.2, 0.3}, TotalTokens: 4}, nil
	}
	return m.embedFn(ctx, text)
}

// memStore is a stateful collection-and-point fake for rebuild scenarios.
// Drop wipes the stored points the way dropping the real collection does.
type memStore struct {
	dim    int
	points map[string]point.Point
}

func newMemStore() *memStore {
	return &memStore{points: map[string]point.Point{}}
}

func (s *memStore) Drop(_ context.Context, _ string) error {
	s.points = map[string]point.Point{}
	s.dim = 0
	return nil
}

func (s *memStore) Create(_ context.Context, _ string, vectorDim int, _ int64) error {
	s.dim = vectorDim
	return nil
}

func (s *memStore) UpsertMany(_ context.Context, _ string, pts []point.Point) error {
	for _, p := range pts {
		s.points[p.ID] = p
	}
	return nil
}

func testRecords() []employee.Employee {
	return []employee.Employee{
		{
			ID: "emp-1", Name: "Alice Johnson",
			Skills: []string{"Python", "Go"}, ExperienceYears: 6,
			Projects: []string{"Billing"}, Availability: employee.StatusAvailable,
		},
		{
			ID: "emp-2", Name: "Bob Chen",
			Skills: []string{"Java"}, ExperienceYears: 3,
			Projects: []string{"Checkout"}, Availability: employee.StatusOnLeave,
		},
	}
}
