// File: internal/domain/model/event.go
package model

import "encoding/json"

// EventKind tags one discrete occurrence in a response run.
type EventKind string

const (
	KindToolStart      EventKind = "tool_start"
	KindToolEnd        EventKind = "tool_end"
	KindCitation       EventKind = "citation"
	KindContent        EventKind = "content"
	KindStructuredData EventKind = "structured_data"
	KindDone           EventKind = "done"
)

// Event is the closed set of occurrences a response pipeline emits.
// Variants are pure data; the SSE encoder decides how they go on the wire.
type Event interface {
	EventKind() EventKind
}

// ToolStartEvent is emitted when a tool starts executing.
type ToolStartEvent struct {
	Event   EventKind `json:"event"`
	Tool    string    `json:"tool"`
	Message string    `json:"message"`
}

func NewToolStart(tool, message string) ToolStartEvent {
	return ToolStartEvent{Event: KindToolStart, Tool: tool, Message: message}
}

func (ToolStartEvent) EventKind() EventKind { return KindToolStart }

// ToolEndEvent is emitted when a tool completes, whether or not it succeeded.
type ToolEndEvent struct {
	Event EventKind `json:"event"`
	Tool  string    `json:"tool"`
}

func NewToolEnd(tool string) ToolEndEvent {
	return ToolEndEvent{Event: KindToolEnd, Tool: tool}
}

func (ToolEndEvent) EventKind() EventKind { return KindToolEnd }

// CitationEvent registers a source for inline citations like [1], [2].
// PDFID and PageNumber are only set for document sources.
type CitationEvent struct {
	Event      EventKind `json:"event"`
	Index      int       `json:"index"`
	URL        string    `json:"url"`
	Title      string    `json:"title"`
	Snippet    string    `json:"snippet,omitempty"`
	PDFID      string    `json:"pdf_id,omitempty"`
	PageNumber int       `json:"page_number,omitempty"`
}

func (CitationEvent) EventKind() EventKind { return KindCitation }

// ContentEvent carries one delta chunk of generated text.
type ContentEvent struct {
	Event EventKind `json:"event"`
	Chunk string    `json:"chunk"`
}

func NewContent(chunk string) ContentEvent {
	return ContentEvent{Event: KindContent, Chunk: chunk}
}

func (ContentEvent) EventKind() EventKind { return KindContent }

// StructuredDataEvent carries one extracted chart, table or card.
// On the wire the item itself is the payload, with no event tag field.
type StructuredDataEvent struct {
	Item StructuredItem
}

func (StructuredDataEvent) EventKind() EventKind { return KindStructuredData }

func (e StructuredDataEvent) MarshalJSON() ([]byte, error) {
	return json.Marshal(e.Item)
}

// DoneEvent signals the end of a successful run.
type DoneEvent struct {
	Event   EventKind `json:"event"`
	Message string    `json:"message"`
}

func NewDone() DoneEvent {
	return DoneEvent{Event: KindDone, Message: "Stream complete"}
}

func (DoneEvent) EventKind() EventKind { return KindDone }
