// File: internal/infra/api/server.go
package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/suryansh00001/AI-Search/internal/domain"
	"github.com/suryansh00001/AI-Search/internal/domain/model"
	"github.com/suryansh00001/AI-Search/internal/usecase"
)

// Server wires the queue and the response pipeline to HTTP. Streaming
// endpoints speak text/event-stream; everything else is JSON.
type Server struct {
	queue     *usecase.QueueManager
	responder usecase.Runner
	log       *zerolog.Logger
}

func NewServer(queue *usecase.QueueManager, responder usecase.Runner, log *zerolog.Logger) *Server {
	return &Server{queue: queue, responder: responder, log: log}
}

func (s *Server) Routes() chi.Router {
	r := chi.NewRouter()

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/chat", func(r chi.Router) {
		r.Get("/stream", s.handleDirectStream)
		r.Post("/queue", s.handleEnqueue)
		r.Get("/queue/{jobID}/status", s.handleStatus)
		r.Get("/queue/{jobID}/stream", s.handleStream)
	})
	return r
}

type enqueueRequest struct {
	Message string `json:"message"`
}

type enqueueResponse struct {
	JobID   string `json:"job_id"`
	Status  string `json:"status"`
	Message string `json:"message"`
}

// handleEnqueue accepts a query and returns its job id immediately.
func (s *Server) handleEnqueue(w http.ResponseWriter, r *http.Request) {
	var req enqueueRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Message == "" {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	jobID := s.queue.Enqueue(req.Message)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(enqueueResponse{
		JobID:   jobID,
		Status:  string(model.JobQueued),
		Message: "Request queued successfully",
	})
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	snap, err := s.queue.Status(chi.URLParam(r, "jobID"))
	if err != nil {
		if errors.Is(err, domain.ErrJobNotFound) {
			http.Error(w, "Job not found", http.StatusNotFound)
			return
		}
		http.Error(w, "Failed to get job status", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(snap)
}

// handleStream drains a job's result channel as an SSE stream. Status
// notices go out as comment frames, pipeline events as named frames;
// the stream ends on the terminal entry.
func (s *Server) handleStream(w http.ResponseWriter, r *http.Request) {
	sse, err := newSSEWriter(w)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	jobID := chi.URLParam(r, "jobID")
	for entry := range s.queue.StreamResults(r.Context(), jobID) {
		switch entry.Kind {
		case usecase.EntryStatus:
			if err := sse.WriteComment(entry.Message); err != nil {
				return
			}
		case usecase.EntryData:
			if err := sse.WriteEvent(entry.Event); err != nil {
				return
			}
		case usecase.EntryError:
			_ = sse.WriteError(entry.Message)
			return
		case usecase.EntryDone:
			return
		}
	}
}

// handleDirectStream runs the pipeline inline, bypassing the queue.
// Useful when the caller manages its own pacing.
func (s *Server) handleDirectStream(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("query")
	if query == "" {
		http.Error(w, "query parameter is required", http.StatusBadRequest)
		return
	}

	sse, err := newSSEWriter(w)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	if err := s.responder.Run(r.Context(), query, func(ev model.Event) {
		_ = sse.WriteEvent(ev)
	}); err != nil {
		s.log.Error().Err(err).Msg("direct stream run failed")
		_ = sse.WriteError("Error: " + err.Error())
	}
}
