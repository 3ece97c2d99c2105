package search

import (
	"context"
	"testing"

	"github.com/helix-hr/staffrag/internal/db"
)

// mockStore implements the consumer interface for tests.
type mockStore struct {
	searchKNNFn func(ctx context.Context, q *db.KNNQuery) (*db.SearchResult, error)
}

func (m *mockStore) SearchKNN(ctx context.Context, q *db.KNNQuery) (*db.SearchResult, error) {
	if m.searchKNNFn != nil {
		return m.searchKNNFn(ctx, q)
	}
	return &db.SearchResult{}, nil
}

func newTestRepo(t *testing.T) (*Repo, *mockStore) {
	t.Helper()
	ms := &mockStore{}
	return New(ms), ms
}

func hitFields(name, skills, experience, availability, content string) map[string]string {
	return map[string]string{
		"name":             name,
		"skills":           skills,
		"projects":         "",
		"experience_years": experience,
		"availability":     availability,
		"__content":        content,
	}
}
