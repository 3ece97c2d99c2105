package answer

import (
	"context"

	"github.com/helix-hr/staffrag/internal/domain"
	"github.com/helix-hr/staffrag/internal/domain/search/filter"
	"github.com/helix-hr/staffrag/internal/domain/search/result"
)

// Retriever returns the documents most similar to a query.
type Retriever interface {
	Retrieve(ctx context.Context, query string, filters filter.Expression, topK int) ([]result.Result, error)
}

// Generator produces a chat completion from role-tagged messages.
type Generator interface {
	Generate(ctx context.Context, messages []domain.Message) (domain.GenerationResult, error)
}
