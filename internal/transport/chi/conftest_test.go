package chi

import (
	"context"

	chirouter "github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/helix-hr/staffrag/internal/domain/search/filter"
	"github.com/helix-hr/staffrag/internal/usecase/answer"
	healthuc "github.com/helix-hr/staffrag/internal/usecase/health"
	queryuc "github.com/helix-hr/staffrag/internal/usecase/query"
)

type composeCall struct {
	query       string
	filters     filter.Expression
	topK        int
	instruction string
}

type mockComposer struct {
	answer answer.Answer
	err    error
	calls  []composeCall
}

func (m *mockComposer) Compose(
	_ context.Context, query string, filters filter.Expression, topK int, instruction string,
) (answer.Answer, error) {
	m.calls = append(m.calls, composeCall{query, filters, topK, instruction})
	return m.answer, m.err
}

type mockPinger struct {
	err error
}

func (m *mockPinger) Ping(_ context.Context) error { return m.err }

type mockCollections struct {
	exists    bool
	existsErr error
	count     int
}

func (m *mockCollections) Exists(_ context.Context, _ string) (bool, error) {
	return m.exists, m.existsErr
}

func (m *mockCollections) Count(_ context.Context, _ string) (int, error) {
	return m.count, nil
}

func newTestRouter(composer *mockComposer, pinger *mockPinger, colls *mockCollections) chirouter.Router {
	queries := queryuc.New(composer)
	health := healthuc.New(pinger, colls, "employees")
	server := NewServer(queries, health, zap.NewNop())

	r := chirouter.NewRouter()
	server.Register(r)
	return r
}
