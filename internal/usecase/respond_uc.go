// File: internal/usecase/respond_uc.go
package usecase

import (
	"context"
	"crypto/md5"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/suryansh00001/AI-Search/internal/domain/model"
	"github.com/suryansh00001/AI-Search/internal/domain/ports/adapter"
	ai "github.com/suryansh00001/AI-Search/internal/infra/adapters/ai"
	"github.com/suryansh00001/AI-Search/internal/infra/logging"
	"github.com/suryansh00001/AI-Search/internal/infra/metrics"
	"github.com/suryansh00001/AI-Search/internal/parser"
)

// Tool names as they appear in tool_start/tool_end events.
const (
	toolWebSearch  = "web_search"
	toolReadingPDF = "reading_pdf"
	toolSynthesize = "synthesizing_answer"
)

const (
	contextSeparator = "\n\n---\n\n"
	citationSnippet  = 200
	baseInstruction  = "Use the following context to answer the user's question. " +
		"Include numbered citations [1], [2], etc. when referencing sources."
)

// Runner produces the ordered event sequence for one query. Each call
// is one run, consumed by exactly one worker.
type Runner interface {
	Run(ctx context.Context, query string, emit func(model.Event)) error
}

var _ Runner = (*Responder)(nil)

// Responder is the response pipeline: it decides which auxiliary tools
// a query needs, calls them, builds a context string, drives the
// generation stage, and extracts structured data from the accumulated
// output. Tool failures degrade silently; they never abort a run.
type Responder struct {
	search     adapter.SearchAdapter
	docs       adapter.DocumentAdapter
	gen        adapter.GenerationAdapter
	maxResults int
	log        *zerolog.Logger
}

func NewResponder(
	search adapter.SearchAdapter,
	docs adapter.DocumentAdapter,
	gen adapter.GenerationAdapter,
	maxResults int,
	log *zerolog.Logger,
) *Responder {
	return &Responder{
		search:     search,
		docs:       docs,
		gen:        gen,
		maxResults: maxResults,
		log:        log,
	}
}

// Run executes the pipeline steps in fixed order: search, document
// read, synthesis. Citation indices are contiguous from 1 within one
// run; concurrent runs each keep their own counter.
func (r *Responder) Run(ctx context.Context, query string, emit func(model.Event)) error {
	log := logging.With(ctx, r.log)
	defer logging.TraceDuration(log, "Responder.Run")()

	var contextParts []string
	citation := 0

	if shouldSearch(query) {
		contextParts = r.runSearch(ctx, query, &citation, contextParts, emit, log)
	}

	if pdfURL := extractPDFURL(query); pdfURL != "" {
		contextParts = r.runDocument(ctx, pdfURL, &citation, contextParts, emit, log)
	}

	emit(model.NewToolStart(toolSynthesize, "Generating answer..."))

	prompt := buildPrompt(query, strings.Join(contextParts, contextSeparator))
	metrics.AddPromptTokens(r.gen.Name(), ai.EstimateTokens(prompt))

	var buf strings.Builder
	start := time.Now()
	_, err := r.gen.Stream(ctx, prompt, func(text string) {
		buf.WriteString(text)
		emit(model.NewContent(text))
	})
	metrics.ObserveGeneration(r.gen.Name(), int(time.Since(start)/time.Millisecond), err == nil)
	if err != nil {
		// The generation stage already emitted its terminal fragment;
		// the run still ends with a done event.
		log.Warn().Err(err).Msg("generation ended with error")
	}

	if buf.Len() > 0 {
		_, items := parser.Extract(buf.String())
		log.Debug().Int("structured_items", len(items)).Int("text_len", buf.Len()).Msg("parsed accumulated text")
		for _, item := range items {
			emit(model.StructuredDataEvent{Item: item})
		}
	}

	emit(model.NewToolEnd(toolSynthesize))
	emit(model.NewDone())
	return nil
}

func (r *Responder) runSearch(
	ctx context.Context,
	query string,
	citation *int,
	contextParts []string,
	emit func(model.Event),
	log *zerolog.Logger,
) []string {
	emit(model.NewToolStart(toolWebSearch, "Searching the web..."))

	resp, err := r.search.Search(ctx, query, r.maxResults)
	emit(model.NewToolEnd(toolWebSearch))
	metrics.IncToolCall(toolWebSearch, err == nil)
	if err != nil {
		// Search failure never aborts the pipeline.
		log.Warn().Err(err).Msg("web search unavailable, continuing without it")
		return contextParts
	}

	results := resp.Results
	if len(results) > r.maxResults {
		results = results[:r.maxResults]
	}
	for _, res := range results {
		*citation++
		emit(model.CitationEvent{
			Event:   model.KindCitation,
			Index:   *citation,
			URL:     res.URL,
			Title:   res.Title,
			Snippet: truncateRunes(res.Snippet, citationSnippet),
		})
	}
	return append(contextParts, formatSearchContext(resp))
}

func (r *Responder) runDocument(
	ctx context.Context,
	pdfURL string,
	citation *int,
	contextParts []string,
	emit func(model.Event),
	log *zerolog.Logger,
) []string {
	emit(model.NewToolStart(toolReadingPDF, "Reading PDF document..."))

	doc, err := r.docs.Fetch(ctx, pdfURL)
	metrics.IncToolCall(toolReadingPDF, err == nil)
	if err != nil {
		emit(model.NewToolEnd(toolReadingPDF))
		log.Warn().Err(err).Str("url", pdfURL).Msg("pdf read failed, continuing without it")
		return contextParts
	}

	emit(model.NewToolEnd(toolReadingPDF))
	*citation++
	emit(model.CitationEvent{
		Event:      model.KindCitation,
		Index:      *citation,
		URL:        doc.URL,
		Title:      doc.Title,
		Snippet:    fmt.Sprintf("PDF document - %d pages", doc.NumPages),
		PDFID:      pdfID(doc.URL),
		PageNumber: 1,
	})
	return append(contextParts, formatPDFContext(doc))
}

// shouldSearch triggers on queries that open with an interrogative
// word or carry an explicit search cue. Crude on purpose.
func shouldSearch(query string) bool {
	lower := strings.ToLower(query)

	questionWords := []string{"what", "who", "where", "when", "why", "how", "is", "are", "does", "do"}
	for _, w := range questionWords {
		if strings.HasPrefix(lower, w) {
			return true
		}
	}

	searchCues := []string{"search", "find", "look up", "latest", "news", "current"}
	for _, cue := range searchCues {
		if strings.Contains(lower, cue) {
			return true
		}
	}
	return false
}

// extractPDFURL scans whitespace-delimited tokens for one containing
// ".pdf", strips surrounding punctuation and requires an http(s)
// scheme.
func extractPDFURL(query string) string {
	for _, word := range strings.Fields(query) {
		if !strings.Contains(word, ".pdf") {
			continue
		}
		cleaned := strings.Trim(word, `()[]<>"',`)
		if strings.HasPrefix(cleaned, "http") {
			return cleaned
		}
	}
	return ""
}

// pdfID is a stable short hash of the URL, used by clients to key
// per-document state.
func pdfID(url string) string {
	sum := md5.Sum([]byte(url))
	return fmt.Sprintf("%x", sum)[:8]
}

func buildPrompt(query, context string) string {
	if context == "" {
		return parser.AddUIInstruction(query)
	}
	return fmt.Sprintf(
		"%s\n%s\n\nContext:\n%s\n\nQuestion: %s",
		baseInstruction,
		parser.AddUIInstruction(""),
		context,
		query,
	)
}

func formatSearchContext(resp *adapter.SearchResponse) string {
	parts := []string{fmt.Sprintf("Search results for: %s\n", resp.Query)}
	for i, res := range resp.Results {
		parts = append(parts, fmt.Sprintf("[%d] %s\nURL: %s\nContent: %s\n", i+1, res.Title, res.URL, res.Snippet))
	}
	return strings.Join(parts, "\n")
}

func formatPDFContext(doc *adapter.DocumentContent) string {
	return fmt.Sprintf(
		"PDF Document: %s\nURL: %s\nPages: %d\n\nContent:\n%s",
		doc.Title, doc.URL, doc.NumPages, doc.Text,
	)
}

func truncateRunes(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
