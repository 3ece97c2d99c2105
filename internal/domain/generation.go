package domain

import "context"

// Message is a single role-tagged chat message sent to the generation provider.
type Message struct {
	Role    string
	Content string
}

// Chat message roles understood by OpenAI-compatible providers.
const (
	RoleSystem = "system"
	RoleUser   = "user"
)

// Generator is the answer generation contract. Implementations request
// deterministic output (temperature 0); the provider does not guarantee
// bit-identical repeatability.
type Generator interface {
	Generate(ctx context.Context, messages []Message) (GenerationResult, error)
}

// GenerationResult carries the generated answer and token usage.
type GenerationResult struct {
	Content          string
	PromptTokens     int
	CompletionTokens int
	TotalTokens      int
}
