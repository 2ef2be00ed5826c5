// File: internal/infra/api/server_test.go
package api_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/suryansh00001/AI-Search/internal/config"
	"github.com/suryansh00001/AI-Search/internal/domain/model"
	"github.com/suryansh00001/AI-Search/internal/infra/api"
	"github.com/suryansh00001/AI-Search/internal/usecase"
)

type stubRunner struct {
	run func(ctx context.Context, query string, emit func(model.Event)) error
}

func (s *stubRunner) Run(ctx context.Context, query string, emit func(model.Event)) error {
	if s.run != nil {
		return s.run(ctx, query, emit)
	}
	emit(model.NewContent("hello"))
	return nil
}

func newTestServer(t *testing.T, runner usecase.Runner) (http.Handler, context.CancelFunc) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	logger := zerolog.Nop()
	queue := usecase.NewQueueManager(ctx, runner, config.QueueConfig{
		Workers:       1,
		MinInterval:   time.Millisecond,
		StreamTimeout: 2 * time.Second,
		Retention:     time.Minute,
	}, &logger)
	return api.NewServer(queue, runner, &logger).Routes(), cancel
}

func TestHealth(t *testing.T) {
	h, cancel := newTestServer(t, &stubRunner{})
	defer cancel()

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	if rec.Code != http.StatusOK || rec.Body.String() != "OK" {
		t.Fatalf("status=%d body=%q", rec.Code, rec.Body.String())
	}
}

func TestEnqueueReturnsJobID(t *testing.T) {
	h, cancel := newTestServer(t, &stubRunner{})
	defer cancel()

	rec := httptest.NewRecorder()
	body := strings.NewReader(`{"message": "what is Go"}`)
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/chat/queue", body))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	var resp struct {
		JobID   string `json:"job_id"`
		Status  string `json:"status"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.JobID == "" {
		t.Error("missing job_id")
	}
	if resp.Status != "queued" {
		t.Errorf("status = %q", resp.Status)
	}
	if resp.Message != "Request queued successfully" {
		t.Errorf("message = %q", resp.Message)
	}

	statusRec := httptest.NewRecorder()
	h.ServeHTTP(statusRec, httptest.NewRequest(http.MethodGet, "/api/chat/queue/"+resp.JobID+"/status", nil))
	if statusRec.Code != http.StatusOK {
		t.Fatalf("status endpoint: %d", statusRec.Code)
	}
	var snap struct {
		JobID string `json:"job_id"`
		Query string `json:"query"`
	}
	if err := json.Unmarshal(statusRec.Body.Bytes(), &snap); err != nil {
		t.Fatalf("decode status: %v", err)
	}
	if snap.JobID != resp.JobID || snap.Query != "what is Go" {
		t.Errorf("snapshot = %+v", snap)
	}
}

func TestEnqueueRejectsBadBody(t *testing.T) {
	h, cancel := newTestServer(t, &stubRunner{})
	defer cancel()

	for _, body := range []string{"", "{}", "not json"} {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/chat/queue", strings.NewReader(body)))
		if rec.Code != http.StatusBadRequest {
			t.Errorf("body %q: status = %d, want 400", body, rec.Code)
		}
	}
}

func TestStatusUnknownJobIs404(t *testing.T) {
	h, cancel := newTestServer(t, &stubRunner{})
	defer cancel()

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/chat/queue/nope/status", nil))
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "Job not found") {
		t.Errorf("body = %q", rec.Body.String())
	}
}

func TestQueueStreamFraming(t *testing.T) {
	runner := &stubRunner{run: func(ctx context.Context, query string, emit func(model.Event)) error {
		emit(model.NewToolStart("web_search", "Searching the web..."))
		emit(model.NewContent("chunk one"))
		emit(model.NewDone())
		return nil
	}}
	h, cancel := newTestServer(t, runner)
	defer cancel()

	rec := httptest.NewRecorder()
	body := strings.NewReader(`{"message": "q"}`)
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/chat/queue", body))
	var resp struct {
		JobID string `json:"job_id"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}

	streamRec := httptest.NewRecorder()
	h.ServeHTTP(streamRec, httptest.NewRequest(http.MethodGet, "/api/chat/queue/"+resp.JobID+"/stream", nil))

	if ct := streamRec.Header().Get("Content-Type"); ct != "text/event-stream" {
		t.Errorf("Content-Type = %q", ct)
	}
	out := streamRec.Body.String()
	if !strings.Contains(out, "event: tool_start\n") {
		t.Errorf("missing tool_start frame:\n%s", out)
	}
	if !strings.Contains(out, "event: content\ndata: {\"event\":\"content\",\"chunk\":\"chunk one\"}\n\n") {
		t.Errorf("missing content frame:\n%s", out)
	}
	if !strings.Contains(out, "event: done\ndata: {\"event\":\"done\",\"message\":\"Stream complete\"}\n\n") {
		t.Errorf("missing done frame:\n%s", out)
	}
	if strings.Contains(out, "event: error") {
		t.Errorf("unexpected error frame:\n%s", out)
	}
}

func TestQueueStreamErrorFrame(t *testing.T) {
	runner := &stubRunner{run: func(ctx context.Context, query string, emit func(model.Event)) error {
		return errors.New("boom")
	}}
	h, cancel := newTestServer(t, runner)
	defer cancel()

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/chat/queue", strings.NewReader(`{"message": "q"}`)))
	var resp struct {
		JobID string `json:"job_id"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}

	streamRec := httptest.NewRecorder()
	h.ServeHTTP(streamRec, httptest.NewRequest(http.MethodGet, "/api/chat/queue/"+resp.JobID+"/stream", nil))

	out := streamRec.Body.String()
	if !strings.Contains(out, "event: error\ndata: Error: boom\n\n") {
		t.Errorf("missing error frame:\n%s", out)
	}
	if i, j := strings.Index(out, "event: error"), strings.Index(out, "event: done"); j >= 0 && j < i {
		t.Errorf("error frame must precede closure:\n%s", out)
	}
}

func TestStreamUnknownJobErrorFrame(t *testing.T) {
	h, cancel := newTestServer(t, &stubRunner{})
	defer cancel()

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/chat/queue/nope/stream", nil))
	if !strings.Contains(rec.Body.String(), "event: error\ndata: Job not found\n\n") {
		t.Errorf("body = %q", rec.Body.String())
	}
}

func TestDirectStream(t *testing.T) {
	runner := &stubRunner{run: func(ctx context.Context, query string, emit func(model.Event)) error {
		emit(model.NewContent("direct"))
		emit(model.NewDone())
		return nil
	}}
	h, cancel := newTestServer(t, runner)
	defer cancel()

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/chat/stream?query=hello", nil))

	out := rec.Body.String()
	if !strings.Contains(out, "event: content\n") || !strings.Contains(out, "event: done\n") {
		t.Errorf("frames missing:\n%s", out)
	}
}

func TestDirectStreamRequiresQuery(t *testing.T) {
	h, cancel := newTestServer(t, &stubRunner{})
	defer cancel()

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/chat/stream", nil))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestKeepaliveCommentCadence(t *testing.T) {
	runner := &stubRunner{run: func(ctx context.Context, query string, emit func(model.Event)) error {
		for i := 0; i < 120; i++ {
			emit(model.NewContent(fmt.Sprintf("c%d ", i)))
		}
		emit(model.NewDone())
		return nil
	}}
	h, cancel := newTestServer(t, runner)
	defer cancel()

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/chat/stream?query=long", nil))

	if n := strings.Count(rec.Body.String(), ": keepalive\n\n"); n != 2 {
		t.Errorf("got %d keepalive comments for 120 content frames, want 2", n)
	}
}

func TestStructuredDataFrameHasNoEventTag(t *testing.T) {
	runner := &stubRunner{run: func(ctx context.Context, query string, emit func(model.Event)) error {
		emit(model.StructuredDataEvent{Item: model.StructuredItem{
			Type: "card",
			Data: map[string]string{"Revenue": "$1B"},
		}})
		emit(model.NewDone())
		return nil
	}}
	h, cancel := newTestServer(t, runner)
	defer cancel()

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/chat/stream?query=numbers", nil))

	out := rec.Body.String()
	idx := strings.Index(out, "event: structured_data\ndata: ")
	if idx < 0 {
		t.Fatalf("missing structured_data frame:\n%s", out)
	}
	payload := out[idx+len("event: structured_data\ndata: "):]
	payload = payload[:strings.Index(payload, "\n")]
	var decoded map[string]any
	if err := json.Unmarshal([]byte(payload), &decoded); err != nil {
		t.Fatalf("payload %q: %v", payload, err)
	}
	if _, ok := decoded["event"]; ok {
		t.Errorf("structured_data payload must carry the bare item, got %q", payload)
	}
	if decoded["type"] != "card" {
		t.Errorf("payload = %q", payload)
	}
}
