package openai

import (
	"context"
	"errors"
	"time"

	"github.com/cenkalti/backoff/v4"
	"go.uber.org/zap"

	"github.com/helix-hr/staffrag/internal/domain"
)

const defaultMaxRetries = 3

var (
	retryInitialInterval = 500 * time.Millisecond
	retryMaxInterval     = 5 * time.Second
)

// RetryEmbedder retries transient embedding failures with exponential
// backoff. Context cancellation stops the retry loop.
type RetryEmbedder struct {
	inner      domain.Embedder
	maxRetries uint64
	logger     *zap.Logger
}

// NewRetryEmbedder creates a retrying decorator around an embedder.
func NewRetryEmbedder(inner domain.Embedder, logger *zap.Logger) *RetryEmbedder {
	return &RetryEmbedder{inner: inner, maxRetries: defaultMaxRetries, logger: logger}
}

// WithMaxRetries overrides the retry budget. Non-positive n keeps the default.
func (r *RetryEmbedder) WithMaxRetries(n int) *RetryEmbedder {
	if n > 0 {
		r.maxRetries = uint64(n)
	}
	return r
}

// Embed implements domain.Embedder.
func (r *RetryEmbedder) Embed(ctx context.Context, text string) (domain.EmbeddingResult, error) {
	var result domain.EmbeddingResult

	op := func() error {
		var err error
		result, err = r.inner.Embed(ctx, text)
		if err != nil && !isRetryable(err) {
			return backoff.Permanent(err)
		}
		return err
	}

	notify := func(err error, next time.Duration) {
		r.logger.Warn("Retrying embedding request",
			zap.Error(err),
			zap.Duration("backoff", next),
		)
	}

	if err := backoff.RetryNotify(op, newBackOff(ctx, r.maxRetries), notify); err != nil {
		return domain.EmbeddingResult{}, err
	}
	return result, nil
}

// RetryGenerator retries transient chat completion failures with
// exponential backoff.
type RetryGenerator struct {
	inner      domain.Generator
	maxRetries uint64
	logger     *zap.Logger
}

// NewRetryGenerator creates a retrying decorator around a generator.
func NewRetryGenerator(inner domain.Generator, logger *zap.Logger) *RetryGenerator {
	return &RetryGenerator{inner: inner, maxRetries: defaultMaxRetries, logger: logger}
}

// WithMaxRetries overrides the retry budget. Non-positive n keeps the default.
func (r *RetryGenerator) WithMaxRetries(n int) *RetryGenerator {
	if n > 0 {
		r.maxRetries = uint64(n)
	}
	return r
}

// Generate implements domain.Generator.
func (r *RetryGenerator) Generate(ctx context.Context, messages []domain.Message) (domain.GenerationResult, error) {
	var result domain.GenerationResult

	op := func() error {
		var err error
		result, err = r.inner.Generate(ctx, messages)
		if err != nil && !isRetryable(err) {
			return backoff.Permanent(err)
		}
		return err
	}

	notify := func(err error, next time.Duration) {
		r.logger.Warn("Retrying generation request",
			zap.Error(err),
			zap.Duration("backoff", next),
		)
	}

	if err := backoff.RetryNotify(op, newBackOff(ctx, r.maxRetries), notify); err != nil {
		return domain.GenerationResult{}, err
	}
	return result, nil
}

// isRetryable reports whether a retry can plausibly fix the failure.
// Errors without a provider status (network, transport) are retried.
func isRetryable(err error) bool {
	var pe *providerError
	if errors.As(err, &pe) {
		return pe.retryable()
	}
	return true
}

func newBackOff(ctx context.Context, maxRetries uint64) backoff.BackOff {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = retryInitialInterval
	b.MaxInterval = retryMaxInterval
	return backoff.WithContext(backoff.WithMaxRetries(b, maxRetries), ctx)
}
