// File: internal/infra/adapters/ai/retry_wrapper.go
package ai

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/suryansh00001/AI-Search/internal/domain/ports/adapter"
	"github.com/suryansh00001/AI-Search/internal/infra/metrics"
)

// Compile-time check
var _ adapter.GenerationAdapter = (*retryAI)(nil)

// retryAI re-issues a generation from scratch on rate-limit signals,
// bounded by maxRetries, and turns terminal failures and provider
// cutoffs into user-visible notice fragments. There is no partial
// resume: each attempt restarts the whole stream.
type retryAI struct {
	inner      adapter.GenerationAdapter
	maxRetries int
	baseDelay  time.Duration
	log        *zerolog.Logger
}

func NewRetryAI(inner adapter.GenerationAdapter, maxRetries int, log *zerolog.Logger) adapter.GenerationAdapter {
	return &retryAI{
		inner:      inner,
		maxRetries: maxRetries,
		baseDelay:  time.Second,
		log:        log,
	}
}

func (r *retryAI) Name() string { return r.inner.Name() }

func (r *retryAI) Stream(ctx context.Context, prompt string, emit func(string)) (adapter.FinishReason, error) {
	retries := 0
	for {
		emitted := false
		finish, err := r.inner.Stream(ctx, prompt, func(text string) {
			emitted = true
			emit(text)
		})
		if err == nil {
			r.appendFinishNotice(finish, emitted, emit)
			return finish, nil
		}

		var rl *adapter.RateLimitError
		if !errors.As(err, &rl) {
			// Non-retryable: exactly one terminal fragment, no retry.
			r.log.Error().Err(err).Str("provider", r.inner.Name()).Msg("generation stream failed")
			emit("\n\n[Error: Unable to complete response. Please try again.]")
			return finish, err
		}

		retries++
		metrics.IncGenerationRetry(r.inner.Name())
		wait := rl.RetryAfter
		if wait <= 0 {
			wait = r.baseDelay * (1 << retries)
		}
		if retries > r.maxRetries {
			r.log.Error().Err(err).Int("retries", r.maxRetries).Msg("rate limit retries exhausted")
			emit("\n\n[Error: Rate limit exceeded. Please wait a minute and try again.]")
			return finish, err
		}

		r.log.Warn().
			Dur("wait", wait).
			Int("retry", retries).
			Int("max_retries", r.maxRetries).
			Msg("rate limit hit, backing off")
		emit(fmt.Sprintf("\n\n[Rate limit reached. Retrying in %d seconds...]\n\n", int(wait.Seconds())))

		select {
		case <-ctx.Done():
			return finish, ctx.Err()
		case <-time.After(wait):
		}
	}
}

// appendFinishNotice adds an explanatory fragment after provider-side
// cutoffs. Notices follow the already-streamed content, they never
// replace it.
func (r *retryAI) appendFinishNotice(finish adapter.FinishReason, emitted bool, emit func(string)) {
	switch finish {
	case adapter.FinishSafety:
		r.log.Warn().Msg("content blocked by safety filters")
		if !emitted {
			emit("\n\n[Content was blocked by safety filters. Please rephrase your question.]")
		}
	case adapter.FinishMaxTokens:
		r.log.Warn().Msg("response truncated at token limit")
		if emitted {
			emit("\n\n[Note: Response reached maximum length limit. Try asking for a more concise answer or break your question into parts.]")
		}
	case adapter.FinishNone, adapter.FinishStop:
	default:
		r.log.Warn().Str("finish_reason", string(finish)).Msg("response ended unexpectedly")
		if emitted {
			emit(fmt.Sprintf("\n\n[Note: Response ended unexpectedly (reason: %s). Please try again.]", finish))
		}
	}
}
