// File: internal/usecase/queue_uc.go
package usecase

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"github.com/suryansh00001/AI-Search/internal/config"
	"github.com/suryansh00001/AI-Search/internal/domain"
	"github.com/suryansh00001/AI-Search/internal/domain/model"
	"github.com/suryansh00001/AI-Search/internal/infra/logging"
	"github.com/suryansh00001/AI-Search/internal/infra/metrics"
)

// EntryKind tags entries on a job's consumer-facing stream.
type EntryKind string

const (
	EntryStatus EntryKind = "status"
	EntryData   EntryKind = "data"
	EntryDone   EntryKind = "done"
	EntryError  EntryKind = "error"
)

// StreamEntry is one unit handed to a stream consumer: a queue status
// notice, a pipeline event, or a terminal marker.
type StreamEntry struct {
	Kind    EntryKind
	Event   model.Event
	Message string
}

// JobStatusSnapshot is the read model for status queries.
// QueuePosition is approximate (current dispatch-queue length) and
// only set while the job is queued.
type JobStatusSnapshot struct {
	JobID         string          `json:"job_id"`
	Query         string          `json:"query"`
	Status        model.JobStatus `json:"status"`
	CreatedAt     time.Time       `json:"created_at"`
	QueuePosition *int            `json:"queue_position,omitempty"`
}

// QueueManager sequences pipeline runs across a worker pool under a
// single process-wide minimum-interval guard, and bridges each run's
// events to stream consumers. The guard is global because it models
// one upstream quota shared by the whole process.
type QueueManager struct {
	runner        Runner
	workers       int
	limiter       *rate.Limiter
	streamTimeout time.Duration
	retention     time.Duration
	log           *zerolog.Logger

	ctx      context.Context
	dispatch *dispatchQueue

	mu             sync.RWMutex
	jobs           map[string]*model.Job
	lastDispatchAt time.Time

	startOnce sync.Once
}

func NewQueueManager(ctx context.Context, runner Runner, cfg config.QueueConfig, log *zerolog.Logger) *QueueManager {
	return &QueueManager{
		runner:        runner,
		workers:       cfg.Workers,
		limiter:       rate.NewLimiter(rate.Every(cfg.MinInterval), 1),
		streamTimeout: cfg.StreamTimeout,
		retention:     cfg.Retention,
		log:           log,
		ctx:           ctx,
		dispatch:      newDispatchQueue(),
		jobs:          make(map[string]*model.Job),
	}
}

// Enqueue accepts a query, returns its job id immediately and starts
// the worker pool on first use. It never blocks on processing.
func (m *QueueManager) Enqueue(query string) string {
	m.startOnce.Do(func() {
		for i := 0; i < m.workers; i++ {
			go m.worker(m.ctx, i)
		}
		m.log.Info().Int("workers", m.workers).Msg("queue manager started")
	})

	job := model.NewJob(uuid.NewString(), query)
	m.mu.Lock()
	m.jobs[job.ID] = job
	m.mu.Unlock()

	m.dispatch.Push(job)
	depth := m.dispatch.Len()
	metrics.SetQueueDepth(depth)
	m.log.Info().Str("job_id", job.ID).Int("queue_depth", depth).Msg("job enqueued")
	return job.ID
}

// Status returns a point-in-time snapshot or domain.ErrJobNotFound.
func (m *QueueManager) Status(jobID string) (*JobStatusSnapshot, error) {
	job := m.get(jobID)
	if job == nil {
		return nil, domain.ErrJobNotFound
	}
	snap := &JobStatusSnapshot{
		JobID:     job.ID,
		Query:     job.Query,
		Status:    job.Status(),
		CreatedAt: job.CreatedAt,
	}
	if snap.Status == model.JobQueued {
		pos := m.dispatch.Len()
		snap.QueuePosition = &pos
	}
	return snap, nil
}

// StreamResults attaches a consumer to a job's result channel. The
// returned channel yields a status notice while the job is queued,
// then every pipeline entry until a terminal marker, an error, or the
// per-read wait bound. The job is scheduled for eviction once the
// consumer loop ends.
func (m *QueueManager) StreamResults(ctx context.Context, jobID string) <-chan StreamEntry {
	out := make(chan StreamEntry)
	go func() {
		defer close(out)

		job := m.get(jobID)
		if job == nil {
			send(ctx, out, StreamEntry{Kind: EntryError, Message: "Job not found"})
			return
		}
		defer m.scheduleEviction(jobID)

		switch job.Status() {
		case model.JobQueued:
			send(ctx, out, StreamEntry{Kind: EntryStatus, Message: fmt.Sprintf("queued:%d", m.dispatch.Len())})
		case model.JobProcessing:
			send(ctx, out, StreamEntry{Kind: EntryStatus, Message: "processing"})
		}

		for {
			result, err := job.Results.Next(ctx, m.streamTimeout)
			if err == domain.ErrStreamTimeout {
				metrics.IncStreamTimeout()
				send(ctx, out, StreamEntry{Kind: EntryError, Message: "Request timeout"})
				return
			}
			if err != nil {
				// Consumer detached; the owning worker keeps running.
				return
			}

			switch result.Kind {
			case model.ResultData:
				if !send(ctx, out, StreamEntry{Kind: EntryData, Event: result.Event}) {
					return
				}
			case model.ResultDone:
				send(ctx, out, StreamEntry{Kind: EntryDone})
				return
			case model.ResultError:
				send(ctx, out, StreamEntry{Kind: EntryError, Message: result.Message})
				return
			}
		}
	}()
	return out
}

func (m *QueueManager) worker(ctx context.Context, id int) {
	log := m.log.With().Int("worker", id).Logger()
	log.Debug().Msg("worker started")

	for {
		job, err := m.dispatch.Pop(ctx)
		if err != nil {
			log.Debug().Msg("worker stopping")
			return
		}
		metrics.SetQueueDepth(m.dispatch.Len())

		// Global rate-limit guard: one dispatch per minimum interval
		// across all workers. The pipeline itself runs outside it.
		waitStart := time.Now()
		if err := m.limiter.Wait(ctx); err != nil {
			// Shutdown before dispatch; the job stays queued.
			log.Debug().Str("job_id", job.ID).Msg("worker stopping before dispatch")
			return
		}
		waited := time.Since(waitStart)
		metrics.ObserveDispatchWait(int(waited / time.Millisecond))

		m.mu.Lock()
		m.lastDispatchAt = time.Now()
		m.mu.Unlock()

		job.Advance(model.JobProcessing)
		jobCtx := logging.WithJobID(ctx, job.ID)
		log.Info().Str("job_id", job.ID).Dur("rate_wait", waited).Msg("processing job")

		m.finish(job, m.run(jobCtx, job), &log)
	}
}

// run executes one pipeline run, forwarding every event onto the
// job's result channel. Panics are contained so one bad job never
// takes the worker down.
func (m *QueueManager) run(ctx context.Context, job *model.Job) (err error) {
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("pipeline panic: %v", p)
		}
	}()
	return m.runner.Run(ctx, job.Query, func(ev model.Event) {
		job.Results.Push(model.Result{Kind: model.ResultData, Event: ev})
	})
}

// finish pushes the job's single terminal entry and records its
// terminal status.
func (m *QueueManager) finish(job *model.Job, err error, log *zerolog.Logger) {
	if err != nil {
		job.Results.Push(model.Result{Kind: model.ResultError, Message: fmt.Sprintf("Error: %v", err)})
		job.Advance(model.JobFailed)
		metrics.IncJob(string(model.JobFailed))
		log.Error().Err(err).Str("job_id", job.ID).Msg("job failed")
		return
	}
	job.Results.Push(model.Result{Kind: model.ResultDone})
	job.Advance(model.JobCompleted)
	metrics.IncJob(string(model.JobCompleted))
	log.Info().Str("job_id", job.ID).Msg("job completed")
}

// scheduleEviction keeps the job around for a grace period so
// late-attaching consumers can still find it.
func (m *QueueManager) scheduleEviction(jobID string) {
	time.AfterFunc(m.retention, func() {
		m.mu.Lock()
		delete(m.jobs, jobID)
		m.mu.Unlock()
	})
}

func (m *QueueManager) get(jobID string) *model.Job {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.jobs[jobID]
}

func send(ctx context.Context, out chan<- StreamEntry, entry StreamEntry) bool {
	select {
	case out <- entry:
		return true
	case <-ctx.Done():
		return false
	}
}

// dispatchQueue is the FIFO between Enqueue and the workers. Push
// never blocks; Pop waits until a job or cancellation arrives.
type dispatchQueue struct {
	mu    sync.Mutex
	jobs  []*model.Job
	ready chan struct{}
}

func newDispatchQueue() *dispatchQueue {
	return &dispatchQueue{ready: make(chan struct{}, 1)}
}

func (q *dispatchQueue) Push(job *model.Job) {
	q.mu.Lock()
	q.jobs = append(q.jobs, job)
	q.mu.Unlock()
	select {
	case q.ready <- struct{}{}:
	default:
	}
}

func (q *dispatchQueue) Pop(ctx context.Context) (*model.Job, error) {
	for {
		q.mu.Lock()
		if len(q.jobs) > 0 {
			job := q.jobs[0]
			q.jobs = q.jobs[1:]
			remaining := len(q.jobs)
			q.mu.Unlock()
			if remaining > 0 {
				select {
				case q.ready <- struct{}{}:
				default:
				}
			}
			return job, nil
		}
		q.mu.Unlock()

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-q.ready:
		}
	}
}

func (q *dispatchQueue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.jobs)
}
