package point

import (
	"context"
	"testing"

	"github.com/helix-hr/staffrag/internal/db"
	"github.com/helix-hr/staffrag/internal/domain/employee"
)

// mockStore implements the consumer interface for tests.
type mockStore struct {
	hsetMultiFn func(ctx context.Context, items []db.HashSetItem) error
	hgetAllFn   func(ctx context.Context, key string) (map[string]string, error)
	existsFn    func(ctx context.Context, key string) (bool, error)
	delFn       func(ctx context.Context, key string) error
}

func (m *mockStore) HSetMulti(ctx context.Context, items []db.HashSetItem) error {
	if m.hsetMultiFn != nil {
		return m.hsetMultiFn(ctx, items)
	}
	return nil
}

func (m *mockStore) HGetAll(ctx context.Context, key string) (map[string]string, error) {
	if m.hgetAllFn != nil {
		return m.hgetAllFn(ctx, key)
	}
	return map[string]string{}, nil
}

func (m *mockStore) Exists(ctx context.Context, key string) (bool, error) {
	if m.existsFn != nil {
		return m.existsFn(ctx, key)
	}
	return false, nil
}

func (m *mockStore) Del(ctx context.Context, key string) error {
	if m.delFn != nil {
		return m.delFn(ctx, key)
	}
	return nil
}

func newTestRepo(t *testing.T) (*Repo, *mockStore) {
	t.Helper()
	ms := &mockStore{}
	return New(ms), ms
}

func testPoint(t *testing.T) Point {
	t.Helper()
	return Point{
		ID:     "emp-1",
		Text:   "Employee: Alice Johnson. Skills: Python, Go. Experience: 6 years. Projects: Billing. Availability: available.",
		Vector: []float32{0.1, 0.2, 0.3},
		Meta: employee.Employee{
			ID:              "emp-1",
			Name:            "Alice Johnson",
			Skills:          []string{"Python", "Go"},
			ExperienceYears: 6,
			Projects:        []string{"Billing"},
			Availability:    employee.StatusAvailable,
		},
	}
}
