// File: internal/infra/adapters/search/tavily.go
package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/suryansh00001/AI-Search/internal/domain"
	"github.com/suryansh00001/AI-Search/internal/domain/ports/adapter"
)

// Compile-time assurance this adapter satisfies the port
var _ adapter.SearchAdapter = (*TavilyAdapter)(nil)

const snippetMax = 500

// TavilyAdapter implements adapter.SearchAdapter against the Tavily
// REST API.
type TavilyAdapter struct {
	apiKey string
	base   string
	client *http.Client
}

func NewTavilyAdapter(apiKey string) *TavilyAdapter {
	return &TavilyAdapter{
		apiKey: apiKey,
		base:   "https://api.tavily.com",
		client: &http.Client{Timeout: 30 * time.Second},
	}
}

func (t *TavilyAdapter) Search(ctx context.Context, query string, maxResults int) (*adapter.SearchResponse, error) {
	if t.apiKey == "" {
		return nil, fmt.Errorf("tavily api key not configured: %w", domain.ErrToolUnavailable)
	}

	reqBody := struct {
		APIKey        string `json:"api_key"`
		Query         string `json:"query"`
		MaxResults    int    `json:"max_results"`
		IncludeAnswer bool   `json:"include_answer"`
	}{APIKey: t.apiKey, Query: query, MaxResults: maxResults, IncludeAnswer: true}

	b, _ := json.Marshal(reqBody)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, t.base+"/search", bytes.NewReader(b))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := t.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("tavily unreachable: %w", domain.ErrToolUnavailable)
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return nil, fmt.Errorf("tavily http %d: %w", resp.StatusCode, domain.ErrToolUnavailable)
	}

	var payload struct {
		Results []struct {
			Title   string  `json:"title"`
			URL     string  `json:"url"`
			Content string  `json:"content"`
			Score   float64 `json:"score"`
		} `json:"results"`
		Answer string `json:"answer"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, err
	}

	out := &adapter.SearchResponse{Query: query, Answer: payload.Answer}
	for _, r := range payload.Results {
		out.Results = append(out.Results, adapter.SearchResult{
			Title:   r.Title,
			URL:     r.URL,
			Snippet: truncate(r.Content, snippetMax),
			Score:   r.Score,
		})
	}
	return out, nil
}

func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
