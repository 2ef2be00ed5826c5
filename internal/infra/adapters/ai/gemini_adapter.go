// File: internal/infra/adapters/ai/gemini_adapter.go
package ai

import (
	"context"
	"errors"
	"regexp"
	"strconv"
	"time"

	"google.golang.org/genai"

	"github.com/suryansh00001/AI-Search/internal/domain/ports/adapter"
)

var _ adapter.GenerationAdapter = (*GeminiAdapter)(nil)

// GeminiAdapter streams completions from the Gemini API using the
// official SDK.
type GeminiAdapter struct {
	client      *genai.Client
	model       string
	maxTokens   int
	temperature float32
}

func NewGeminiAdapter(ctx context.Context, apiKey, baseURL, model string, maxTokens int, temperature float32) (*GeminiAdapter, error) {
	if apiKey == "" {
		return nil, errors.New("gemini: empty api key")
	}
	c, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
		HTTPOptions: genai.HTTPOptions{
			BaseURL: baseURL,
		},
	})
	if err != nil {
		return nil, err
	}
	return &GeminiAdapter{client: c, model: model, maxTokens: maxTokens, temperature: temperature}, nil
}

func (g *GeminiAdapter) Name() string { return "gemini" }

func (g *GeminiAdapter) Stream(ctx context.Context, prompt string, emit func(string)) (adapter.FinishReason, error) {
	cfg := &genai.GenerateContentConfig{
		MaxOutputTokens: int32(g.maxTokens),
		Temperature:     genai.Ptr(g.temperature),
		TopP:            genai.Ptr[float32](0.95),
		TopK:            genai.Ptr[float32](40),
	}

	finish := adapter.FinishNone
	for resp, err := range g.client.Models.GenerateContentStream(ctx, g.model, genai.Text(prompt), cfg) {
		if err != nil {
			return finish, mapGeminiError(err)
		}
		if len(resp.Candidates) == 0 {
			continue
		}
		cand := resp.Candidates[0]
		if cand.Content != nil {
			for _, part := range cand.Content.Parts {
				if part != nil && part.Text != "" {
					emit(part.Text)
				}
			}
		}
		if cand.FinishReason != "" {
			finish = mapGeminiFinish(cand.FinishReason)
		}
	}
	return finish, nil
}

// Gemini rate-limit errors embed the suggested wait as "seconds: N".
var retryHintRe = regexp.MustCompile(`seconds:\s*(\d+)`)

func mapGeminiError(err error) error {
	var apiErr genai.APIError
	if errors.As(err, &apiErr) && apiErr.Code == 429 {
		return &adapter.RateLimitError{RetryAfter: parseRetryHint(apiErr.Message), Err: err}
	}
	return err
}

func parseRetryHint(msg string) time.Duration {
	m := retryHintRe.FindStringSubmatch(msg)
	if m == nil {
		return 0
	}
	secs, err := strconv.Atoi(m[1])
	if err != nil {
		return 0
	}
	return time.Duration(secs) * time.Second
}

func mapGeminiFinish(r genai.FinishReason) adapter.FinishReason {
	switch r {
	case genai.FinishReasonStop:
		return adapter.FinishStop
	case genai.FinishReasonMaxTokens:
		return adapter.FinishMaxTokens
	case genai.FinishReasonSafety:
		return adapter.FinishSafety
	default:
		return adapter.FinishOther
	}
}
