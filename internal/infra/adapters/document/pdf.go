// File: internal/infra/adapters/document/pdf.go
package document

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"path"
	"strings"
	"time"

	"github.com/ledongthuc/pdf"

	"github.com/suryansh00001/AI-Search/internal/domain"
	"github.com/suryansh00001/AI-Search/internal/domain/ports/adapter"
)

var _ adapter.DocumentAdapter = (*PDFAdapter)(nil)

// PDFAdapter downloads a PDF and extracts its plain text, truncated at
// a character budget. No chunking, no embeddings, just text.
type PDFAdapter struct {
	client   *http.Client
	maxChars int
}

func NewPDFAdapter(maxChars int) *PDFAdapter {
	return &PDFAdapter{
		client:   &http.Client{Timeout: 30 * time.Second},
		maxChars: maxChars,
	}
}

func (p *PDFAdapter) Fetch(ctx context.Context, rawURL string) (*adapter.DocumentContent, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("invalid pdf url: %w", err)
	}
	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("download pdf: %w: %v", domain.ErrToolUnavailable, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return nil, fmt.Errorf("download pdf http %d: %w", resp.StatusCode, domain.ErrToolUnavailable)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read pdf body: %w", err)
	}

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("parse pdf: %w: %v", domain.ErrToolUnavailable, err)
	}

	numPages := reader.NumPage()
	var parts []string
	total := 0
	for i := 1; i <= numPages; i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		pageText, err := page.GetPlainText(nil)
		if err != nil {
			continue
		}
		if total+len(pageText) > p.maxChars {
			parts = append(parts, pageText[:p.maxChars-total])
			break
		}
		parts = append(parts, pageText)
		total += len(pageText)
	}

	return &adapter.DocumentContent{
		URL:      rawURL,
		Title:    pdfTitle(reader, rawURL),
		Text:     strings.Join(parts, "\n\n"),
		NumPages: numPages,
	}, nil
}

// pdfTitle prefers the document Info dictionary, falling back to the
// URL's file name.
func pdfTitle(reader *pdf.Reader, rawURL string) string {
	title := reader.Trailer().Key("Info").Key("Title")
	if title.Kind() == pdf.String {
		if t := strings.TrimSpace(title.Text()); t != "" {
			return t
		}
	}
	if u, err := url.Parse(rawURL); err == nil {
		if base := strings.TrimSuffix(path.Base(u.Path), ".pdf"); base != "" && base != "." && base != "/" {
			return base
		}
	}
	return rawURL
}
