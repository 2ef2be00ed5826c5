// File: internal/domain/ports/adapter/generation.go
package adapter

import (
	"context"
	"fmt"
	"time"
)

// FinishReason reports why the provider stopped producing output.
type FinishReason string

const (
	FinishNone      FinishReason = ""
	FinishStop      FinishReason = "stop"
	FinishMaxTokens FinishReason = "max_tokens"
	FinishSafety    FinishReason = "safety"
	FinishOther     FinishReason = "other"
)

// GenerationAdapter is the port for streaming text generation. Stream
// invokes emit for each text fragment as it arrives and returns once
// the provider stops, with the final finish reason when one was
// reported. A stream is consumed exactly once per call.
type GenerationAdapter interface {
	Name() string
	Stream(ctx context.Context, prompt string, emit func(text string)) (FinishReason, error)
}

// RateLimitError signals the provider's distinguishable rate-limit
// condition. RetryAfter carries the provider-supplied wait hint, zero
// when none was parseable.
type RateLimitError struct {
	RetryAfter time.Duration
	Err        error
}

func (e *RateLimitError) Error() string {
	return fmt.Sprintf("rate limited (retry after %s): %v", e.RetryAfter, e.Err)
}

func (e *RateLimitError) Unwrap() error { return e.Err }
