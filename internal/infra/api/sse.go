// File: internal/infra/api/sse.go
package api

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/suryansh00001/AI-Search/internal/domain/model"
)

// keepaliveEvery is how many content frames pass between protocol-level
// keepalive comments. Comments are not events; they only keep idle
// proxies from cutting the connection.
const keepaliveEvery = 50

// sseWriter frames events for a text/event-stream response:
//
//	event: <name>
//	data: <json>
//
// followed by a blank line. Comment frames start with a colon.
type sseWriter struct {
	w             http.ResponseWriter
	flusher       http.Flusher
	contentFrames int
}

func newSSEWriter(w http.ResponseWriter) (*sseWriter, error) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		return nil, fmt.Errorf("response writer does not support streaming")
	}
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")
	return &sseWriter{w: w, flusher: flusher}, nil
}

func (s *sseWriter) WriteEvent(ev model.Event) error {
	data, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	if _, err := fmt.Fprintf(s.w, "event: %s\ndata: %s\n\n", ev.EventKind(), data); err != nil {
		return err
	}
	s.flusher.Flush()

	if ev.EventKind() == model.KindContent {
		s.contentFrames++
		if s.contentFrames%keepaliveEvery == 0 {
			return s.WriteComment("keepalive")
		}
	}
	return nil
}

// WriteComment emits a non-event frame, used for queue status notices
// and keepalive pings.
func (s *sseWriter) WriteComment(msg string) error {
	if _, err := fmt.Fprintf(s.w, ": %s\n\n", msg); err != nil {
		return err
	}
	s.flusher.Flush()
	return nil
}

// WriteError emits the error frame that always precedes stream
// closure on failure paths.
func (s *sseWriter) WriteError(msg string) error {
	if _, err := fmt.Fprintf(s.w, "event: error\ndata: %s\n\n", msg); err != nil {
		return err
	}
	s.flusher.Flush()
	return nil
}
