// File: internal/infra/adapters/ai/openai_adapter.go
package ai

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/openai/openai-go/v2"
	"github.com/openai/openai-go/v2/option"

	"github.com/suryansh00001/AI-Search/internal/domain/ports/adapter"
)

var _ adapter.GenerationAdapter = (*OpenAIAdapter)(nil)

// OpenAIAdapter streams completions from the Chat Completions API.
// A custom base URL makes it work against OpenAI-compatible providers.
type OpenAIAdapter struct {
	client      openai.Client
	model       string
	maxTokens   int
	temperature float32
}

func NewOpenAIAdapter(apiKey, baseURL, model string, maxTokens int, temperature float32) (*OpenAIAdapter, error) {
	if apiKey == "" {
		return nil, errors.New("openai: empty api key")
	}
	opts := []option.RequestOption{option.WithAPIKey(apiKey)}
	if baseURL != "" {
		opts = append(opts, option.WithBaseURL(baseURL))
	}
	return &OpenAIAdapter{
		client:      openai.NewClient(opts...),
		model:       model,
		maxTokens:   maxTokens,
		temperature: temperature,
	}, nil
}

func (o *OpenAIAdapter) Name() string { return "openai" }

func (o *OpenAIAdapter) Stream(ctx context.Context, prompt string, emit func(string)) (adapter.FinishReason, error) {
	stream := o.client.Chat.Completions.NewStreaming(ctx, openai.ChatCompletionNewParams{
		Model: openai.ChatModel(o.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage(prompt),
		},
		MaxTokens:   openai.Int(int64(o.maxTokens)),
		Temperature: openai.Float(float64(o.temperature)),
	})
	defer stream.Close()

	finish := adapter.FinishNone
	for stream.Next() {
		chunk := stream.Current()
		if len(chunk.Choices) == 0 {
			continue
		}
		choice := chunk.Choices[0]
		if choice.Delta.Content != "" {
			emit(choice.Delta.Content)
		}
		switch choice.FinishReason {
		case "":
		case "stop":
			finish = adapter.FinishStop
		case "length":
			finish = adapter.FinishMaxTokens
		case "content_filter":
			finish = adapter.FinishSafety
		default:
			finish = adapter.FinishOther
		}
	}
	if err := stream.Err(); err != nil {
		return finish, mapOpenAIError(err)
	}
	return finish, nil
}

func mapOpenAIError(err error) error {
	var apiErr *openai.Error
	if errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusTooManyRequests {
		return &adapter.RateLimitError{RetryAfter: retryAfterHeader(apiErr), Err: err}
	}
	return err
}

func retryAfterHeader(apiErr *openai.Error) time.Duration {
	if apiErr.Response == nil {
		return 0
	}
	secs, err := strconv.Atoi(apiErr.Response.Header.Get("Retry-After"))
	if err != nil || secs <= 0 {
		return 0
	}
	return time.Duration(secs) * time.Second
}
