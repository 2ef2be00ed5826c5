// File: internal/domain/model/job.go
package model

import (
	"context"
	"sync"
	"time"

	"github.com/suryansh00001/AI-Search/internal/domain"
)

// JobStatus tracks a job through its lifecycle. Transitions are
// monotonic: queued -> processing -> completed|failed, nothing else.
type JobStatus string

const (
	JobQueued     JobStatus = "queued"
	JobProcessing JobStatus = "processing"
	JobCompleted  JobStatus = "completed"
	JobFailed     JobStatus = "failed"
)

// ResultKind tags one entry on a job's result channel.
type ResultKind string

const (
	ResultData  ResultKind = "data"
	ResultDone  ResultKind = "done"
	ResultError ResultKind = "error"
)

// Result is one (kind, payload) entry produced by the worker that owns
// a job. Event is set for data entries, Message for error entries.
type Result struct {
	Kind    ResultKind
	Event   Event
	Message string
}

// Job is one accepted query tracked through the queue. Status and the
// result buffer are written only by the owning worker; status is read
// concurrently by status and stream consumers.
type Job struct {
	ID        string
	Query     string
	CreatedAt time.Time

	mu      sync.RWMutex
	status  JobStatus
	Results *ResultBuffer
}

func NewJob(id, query string) *Job {
	return &Job{
		ID:        id,
		Query:     query,
		CreatedAt: time.Now(),
		status:    JobQueued,
		Results:   NewResultBuffer(),
	}
}

func (j *Job) Status() JobStatus {
	j.mu.RLock()
	defer j.mu.RUnlock()
	return j.status
}

// Advance moves the job to next and reports whether the transition is
// legal. Illegal transitions leave the status untouched.
func (j *Job) Advance(next JobStatus) bool {
	j.mu.Lock()
	defer j.mu.Unlock()
	switch {
	case j.status == JobQueued && next == JobProcessing:
	case j.status == JobProcessing && (next == JobCompleted || next == JobFailed):
	default:
		return false
	}
	j.status = next
	return true
}

// ResultBuffer is the unbounded ordered queue between one producing
// worker and any number of stream consumers. Push never blocks; each
// Next applies its own wait timeout.
type ResultBuffer struct {
	mu    sync.Mutex
	items []Result
	ready chan struct{}
}

func NewResultBuffer() *ResultBuffer {
	return &ResultBuffer{ready: make(chan struct{}, 1)}
}

func (b *ResultBuffer) Push(r Result) {
	b.mu.Lock()
	b.items = append(b.items, r)
	b.mu.Unlock()
	select {
	case b.ready <- struct{}{}:
	default:
	}
}

// Next pops the oldest entry, waiting up to timeout for one to arrive.
// It returns domain.ErrStreamTimeout when the wait bound elapses.
func (b *ResultBuffer) Next(ctx context.Context, timeout time.Duration) (Result, error) {
	deadline := time.NewTimer(timeout)
	defer deadline.Stop()
	for {
		b.mu.Lock()
		if len(b.items) > 0 {
			r := b.items[0]
			b.items = b.items[1:]
			remaining := len(b.items)
			b.mu.Unlock()
			if remaining > 0 {
				// Re-arm the signal so other waiters see the backlog.
				select {
				case b.ready <- struct{}{}:
				default:
				}
			}
			return r, nil
		}
		b.mu.Unlock()

		select {
		case <-ctx.Done():
			return Result{}, ctx.Err()
		case <-deadline.C:
			return Result{}, domain.ErrStreamTimeout
		case <-b.ready:
		}
	}
}
