// File: internal/infra/adapters/ai/noop_ai.go
package ai

import (
	"context"
	"strings"

	"github.com/suryansh00001/AI-Search/internal/domain/ports/adapter"
)

var _ adapter.GenerationAdapter = (*NoopAI)(nil)

// NoopAI is a stand-in generator for dev mode when no provider key is
// configured. It streams a canned reply word by word.
type NoopAI struct{}

func NewNoopAI() *NoopAI { return &NoopAI{} }

func (*NoopAI) Name() string { return "noop" }

func (*NoopAI) Stream(ctx context.Context, prompt string, emit func(string)) (adapter.FinishReason, error) {
	const reply = "No generation provider is configured. This is a canned development response."
	for _, word := range strings.Split(reply, " ") {
		select {
		case <-ctx.Done():
			return adapter.FinishNone, ctx.Err()
		default:
		}
		emit(word + " ")
	}
	return adapter.FinishStop, nil
}
