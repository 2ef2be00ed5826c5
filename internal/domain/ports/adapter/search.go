// File: internal/domain/ports/adapter/search.go
package adapter

import "context"

// SearchResult is a single web search hit.
type SearchResult struct {
	Title   string  `json:"title"`
	URL     string  `json:"url"`
	Snippet string  `json:"snippet"`
	Score   float64 `json:"score"`
}

// SearchResponse is the full result set for one query. Answer is the
// provider's synthesized answer and may be empty.
type SearchResponse struct {
	Query   string         `json:"query"`
	Results []SearchResult `json:"results"`
	Answer  string         `json:"answer"`
}

// SearchAdapter is the port for web search. Implementations fail with
// domain.ErrToolUnavailable when unconfigured or unreachable.
type SearchAdapter interface {
	Search(ctx context.Context, query string, maxResults int) (*SearchResponse, error)
}
