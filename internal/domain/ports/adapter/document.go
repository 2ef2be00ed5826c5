// File: internal/domain/ports/adapter/document.go
package adapter

import "context"

// DocumentContent is the extracted text of one fetched document. Text
// is truncated at the adapter's configured character budget.
type DocumentContent struct {
	URL      string
	Title    string
	Text     string
	NumPages int
}

// DocumentAdapter is the port for fetching and extracting documents.
type DocumentAdapter interface {
	Fetch(ctx context.Context, url string) (*DocumentContent, error)
}
