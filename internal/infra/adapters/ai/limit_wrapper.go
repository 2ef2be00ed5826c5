// File: internal/infra/adapters/ai/limit_wrapper.go
package ai

import (
	"context"

	"github.com/suryansh00001/AI-Search/internal/domain/ports/adapter"
)

// Compile-time check
var _ adapter.GenerationAdapter = (*limitedAI)(nil)

// limitedAI caps the number of generation streams in flight at once.
type limitedAI struct {
	inner adapter.GenerationAdapter
	sem   chan struct{}
}

func NewLimitedAI(inner adapter.GenerationAdapter, maxConcurrent int) adapter.GenerationAdapter {
	if maxConcurrent <= 0 {
		return inner
	}
	return &limitedAI{
		inner: inner,
		sem:   make(chan struct{}, maxConcurrent),
	}
}

func (l *limitedAI) Name() string { return l.inner.Name() }

func (l *limitedAI) Stream(ctx context.Context, prompt string, emit func(string)) (adapter.FinishReason, error) {
	select {
	case l.sem <- struct{}{}:
	case <-ctx.Done():
		return adapter.FinishNone, ctx.Err()
	}
	defer func() { <-l.sem }()
	return l.inner.Stream(ctx, prompt, emit)
}
