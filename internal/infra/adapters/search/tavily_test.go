// File: internal/infra/adapters/search/tavily_test.go
package search

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/suryansh00001/AI-Search/internal/domain"
)

func TestTavilySearch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/search" {
			t.Errorf("path = %s", r.URL.Path)
		}
		var req map[string]any
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		if req["api_key"] != "k" || req["query"] != "go" || req["include_answer"] != true {
			t.Errorf("request = %v", req)
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"answer": "a language",
			"results": []map[string]any{
				{"title": "Go", "url": "https://go.dev", "content": strings.Repeat("x", 600), "score": 0.9},
			},
		})
	}))
	defer srv.Close()

	a := NewTavilyAdapter("k")
	a.base = srv.URL

	resp, err := a.Search(context.Background(), "go", 3)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if resp.Answer != "a language" || len(resp.Results) != 1 {
		t.Fatalf("resp = %+v", resp)
	}
	if got := len([]rune(resp.Results[0].Snippet)); got != snippetMax {
		t.Errorf("snippet length = %d, want %d", got, snippetMax)
	}
}

func TestTavilyWithoutKeyIsUnavailable(t *testing.T) {
	a := NewTavilyAdapter("")
	if _, err := a.Search(context.Background(), "q", 3); !errors.Is(err, domain.ErrToolUnavailable) {
		t.Fatalf("err = %v, want ErrToolUnavailable", err)
	}
}

func TestTavilyHTTPErrorIsUnavailable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	a := NewTavilyAdapter("k")
	a.base = srv.URL
	if _, err := a.Search(context.Background(), "q", 3); !errors.Is(err, domain.ErrToolUnavailable) {
		t.Fatalf("err = %v, want ErrToolUnavailable", err)
	}
}
