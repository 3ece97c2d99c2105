package query

import (
	"context"

	"github.com/helix-hr/staffrag/internal/domain/search/filter"
	"github.com/helix-hr/staffrag/internal/usecase/answer"
)

// Composer produces a grounded answer for a query.
type Composer interface {
	Compose(
		ctx context.Context, query string, filters filter.Expression,
		topK int, instruction string,
	) (answer.Answer, error)
}
