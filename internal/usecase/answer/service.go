// Package answer grounds a chat completion in retrieved employee documents:
// retrieve top-k, stuff their texts into the system message, ask once.
package answer

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/helix-hr/staffrag/internal/domain"
	"github.com/helix-hr/staffrag/internal/domain/search/filter"
)

// DefaultInstruction is the system instruction used when the caller does
// not supply one. A caller-supplied instruction replaces it verbatim.
const DefaultInstruction = "You are a helpful HR assistant. Answer the question using only the " +
	"employee information in the context below. If the context does not " +
	"contain the answer, say you do not know."

// Answer is a grounded response with the exact source texts it was built on.
type Answer struct {
	Query    string
	Response string
	Sources  []string
}

// Service composes grounded answers. Every call is a stateless single
// turn; there is no chat history.
type Service struct {
	retr   Retriever
	gen    Generator
	logger *zap.Logger
}

// New creates an answer service.
func New(retr Retriever, gen Generator, logger *zap.Logger) *Service {
	return &Service{retr: retr, gen: gen, logger: logger}
}

// Compose retrieves context for the query and generates an answer from it.
// An empty instruction selects DefaultInstruction. Sources come back in
// the retrieval order, most similar first.
func (s *Service) Compose(
	ctx context.Context, query string, filters filter.Expression, topK int, instruction string,
) (Answer, error) {
	results, err := s.retr.Retrieve(ctx, query, filters, topK)
	if err != nil {
		return Answer{}, fmt.Errorf("retrieve context: %w", err)
	}

	sources := make([]string, len(results))
	for i, r := range results {
		sources[i] = r.Text()
	}

	genResult, err := s.gen.Generate(ctx, buildMessages(query, sources, instruction))
	if err != nil {
		return Answer{}, fmt.Errorf("generate answer: %w", err)
	}

	s.logger.Debug("Answer composed",
		zap.Int("sources", len(sources)),
		zap.Int("total_tokens", genResult.TotalTokens),
	)

	return Answer{Query: query, Response: genResult.Content, Sources: sources}, nil
}

func buildMessages(query string, sources []string, instruction string) []domain.Message {
	if instruction == "" {
		instruction = DefaultInstruction
	}

	var sb strings.Builder
	sb.WriteString(instruction)
	sb.WriteString("\n\nContext:\n")
	if len(sources) == 0 {
		sb.WriteString("(no matching employees found)")
	} else {
		sb.WriteString(strings.Join(sources, "\n\n"))
	}

	return []domain.Message{
		{Role: domain.RoleSystem, Content: sb.String()},
		{Role: domain.RoleUser, Content: query},
	}
}
