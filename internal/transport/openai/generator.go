package openai

import (
	"context"
	"fmt"
	"math"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"github.com/helix-hr/staffrag/internal/domain"
	"github.com/helix-hr/staffrag/internal/metrics"
)

// Generator is a chat completion provider using the OpenAI-compatible API.
// Completions run at temperature zero so repeated questions over the same
// records produce stable answers.
type Generator struct {
	client    *openai.Client
	model     string
	maxTokens int
	timeout   time.Duration
	logger    *zap.Logger
}

// GeneratorConfig holds the chat completion provider settings.
type GeneratorConfig struct {
	APIKey     string
	BaseURL    string
	Model      string
	MaxTokens  int // 0 leaves the completion length to the provider
	TimeoutSec int // 0 disables the per-call timeout
	Logger     *zap.Logger
}

// NewGenerator creates an OpenAI-compatible chat completion provider.
func NewGenerator(cfg *GeneratorConfig) *Generator {
	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}

	return &Generator{
		client:    openai.NewClientWithConfig(clientCfg),
		model:     cfg.Model,
		maxTokens: cfg.MaxTokens,
		timeout:   time.Duration(cfg.TimeoutSec) * time.Second,
		logger:    cfg.Logger,
	}
}

// Generate implements domain.Generator.
func (g *Generator) Generate(ctx context.Context, messages []domain.Message) (domain.GenerationResult, error) {
	if len(messages) == 0 {
		return domain.GenerationResult{}, fmt.Errorf("no messages: %w", domain.ErrGenerationProvider)
	}

	chatMessages := make([]openai.ChatCompletionMessage, len(messages))
	for i, m := range messages {
		chatMessages[i] = openai.ChatCompletionMessage{
			Role:    m.Role,
			Content: m.Content,
		}
	}

	req := openai.ChatCompletionRequest{
		Model:     g.model,
		Messages:  chatMessages,
		MaxTokens: g.maxTokens,
		// A literal 0 is dropped by the client's omitempty, which would
		// fall back to the provider default temperature.
		Temperature: math.SmallestNonzeroFloat32,
	}

	// The timeout bounds a single attempt; the retry layer gets a fresh
	// window per attempt.
	if g.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.timeout)
		defer cancel()
	}

	start := time.Now()

	resp, err := g.client.CreateChatCompletion(ctx, req)

	duration := time.Since(start)

	if err != nil {
		metrics.GenerationRequestsTotal.WithLabelValues(g.model, "error").Inc()
		return domain.GenerationResult{}, parseAPIError(err, "generation", domain.ErrGenerationProvider)
	}

	if len(resp.Choices) == 0 {
		metrics.GenerationRequestsTotal.WithLabelValues(g.model, "error").Inc()
		return domain.GenerationResult{}, fmt.Errorf("empty completion response: %w", domain.ErrGenerationProvider)
	}

	metrics.GenerationRequestsTotal.WithLabelValues(g.model, "success").Inc()
	metrics.GenerationRequestDuration.WithLabelValues(g.model).Observe(duration.Seconds())

	usage := resp.Usage
	if usage.TotalTokens > 0 {
		metrics.GenerationTokensTotal.WithLabelValues(g.model, "prompt").Add(float64(usage.PromptTokens))
		metrics.GenerationTokensTotal.WithLabelValues(g.model, "completion").Add(float64(usage.CompletionTokens))
	}

	g.logger.Debug("Completion request completed",
		zap.Duration("duration", duration),
		zap.Int("prompt_tokens", usage.PromptTokens),
		zap.Int("completion_tokens", usage.CompletionTokens),
	)

	return domain.GenerationResult{
		Content:          resp.Choices[0].Message.Content,
		PromptTokens:     usage.PromptTokens,
		CompletionTokens: usage.CompletionTokens,
		TotalTokens:      usage.TotalTokens,
	}, nil
}
