package worker

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_queue.go -package=mocks paperqa/internal/worker Queue
//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_ingester.go -package=mocks paperqa/internal/worker Ingester
//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_notifier.go -package=mocks paperqa/internal/worker Notifier

import (
	"context"
	"errors"
	"os"
	"sync"
	"time"

	"paperqa/internal/contextutil"
	"paperqa/internal/document"
	"paperqa/internal/metrics"
	"paperqa/internal/queue"
)

const (
	// DefaultRetryDelay is the pause after a queue connectivity failure.
	DefaultRetryDelay = 5 * time.Second
	// DefaultIngestTimeout bounds the ingestion of a single job.
	DefaultIngestTimeout = 10 * time.Minute
)

// State is the phase of the worker loop.
type State string

const (
	StateIdle         State = "IDLE"
	StateProcessing   State = "PROCESSING"
	StateCallbackSent State = "CALLBACK_SENT"
	StateRetryBackoff State = "RETRY_BACKOFF"
)

// Queue yields ingestion jobs.
type Queue interface {
	// Dequeue returns the next job, or nil when none arrived within its poll window.
	Dequeue(ctx context.Context) (*queue.Job, error)
}

// Ingester builds a document's collection from a file.
type Ingester interface {
	Ingest(ctx context.Context, filePath, documentID string) (*document.IngestResult, error)
}

// Notifier reports the outcome of a job.
type Notifier interface {
	Notify(ctx context.Context, cb Callback) error
}

// Worker is a single sequential consumer of ingestion jobs.
type Worker struct {
	queue         Queue
	ingester      Ingester
	notifier      Notifier
	retryDelay    time.Duration
	ingestTimeout time.Duration
	metrics       *metrics.Metrics
	observer      func(State)

	mu    sync.Mutex
	state State
}

// Option configures a Worker.
type Option func(*Worker)

// WithRetryDelay sets the backoff after a queue failure.
func WithRetryDelay(d time.Duration) Option {
	return func(w *Worker) {
		if d > 0 {
			w.retryDelay = d
		}
	}
}

// WithIngestTimeout bounds how long one job may spend in ingestion.
func WithIngestTimeout(d time.Duration) Option {
	return func(w *Worker) {
		if d > 0 {
			w.ingestTimeout = d
		}
	}
}

// WithMetrics records job outcomes.
func WithMetrics(m *metrics.Metrics) Option {
	return func(w *Worker) {
		w.metrics = m
	}
}

// WithStateObserver registers fn to be called on every state transition.
func WithStateObserver(fn func(State)) Option {
	return func(w *Worker) {
		w.observer = fn
	}
}

// New creates a worker.
func New(q Queue, ingester Ingester, notifier Notifier, opts ...Option) *Worker {
	w := &Worker{
		queue:         q,
		ingester:      ingester,
		notifier:      notifier,
		retryDelay:    DefaultRetryDelay,
		ingestTimeout: DefaultIngestTimeout,
		state:         StateIdle,
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// State returns the current state.
func (w *Worker) State() State {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.state
}

func (w *Worker) setState(ctx context.Context, s State) {
	w.mu.Lock()
	prev := w.state
	w.state = s
	w.mu.Unlock()

	if prev != s {
		contextutil.LoggerFromContext(ctx).DebugContext(ctx, "worker state changed", "from", prev, "to", s)
	}
	if w.observer != nil {
		w.observer(s)
	}
}

// Run consumes jobs until ctx is cancelled. Job failures never stop the loop;
// it returns nil on cancellation. A job in progress when ctx is cancelled runs
// to completion before Run returns.
func (w *Worker) Run(ctx context.Context) error {
	logger := contextutil.LoggerFromContext(ctx)
	logger.InfoContext(ctx, "worker started", "retry_delay", w.retryDelay)

	for {
		w.setState(ctx, StateIdle)
		if ctx.Err() != nil {
			logger.InfoContext(ctx, "worker stopped")
			return nil
		}

		job, err := w.queue.Dequeue(ctx)
		switch {
		case errors.Is(err, queue.ErrMalformedJob):
			logger.ErrorContext(ctx, "skipping malformed job", "error", err)
			w.metrics.IncJob("malformed")
			if job != nil {
				w.removeFile(ctx, job.FilePath)
			}
			continue
		case err != nil:
			if ctx.Err() != nil {
				continue
			}
			logger.ErrorContext(ctx, "queue unavailable, backing off", "error", err, "retry_delay", w.retryDelay)
			w.setState(ctx, StateRetryBackoff)
			w.sleep(ctx, w.retryDelay)
			continue
		case job == nil:
			continue
		}

		w.process(ctx, job)
	}
}

// process ingests one job, reports its outcome and removes its file.
func (w *Worker) process(ctx context.Context, job *queue.Job) {
	ctx = contextutil.WithAttrs(ctx, "document_id", job.DocumentID, "file_path", job.FilePath)
	logger := contextutil.LoggerFromContext(ctx)

	w.setState(ctx, StateProcessing)
	defer w.removeFile(ctx, job.FilePath)

	logger.InfoContext(ctx, "processing job")
	cb := Callback{DocumentID: job.RawID()}
	outcome := "completed"

	// A job already dequeued finishes on shutdown; only its own deadline stops it.
	ingestCtx, cancelIngest := context.WithTimeout(context.WithoutCancel(ctx), w.ingestTimeout)
	result, err := w.ingester.Ingest(ingestCtx, job.FilePath, job.DocumentID)
	cancelIngest()
	if err != nil {
		logger.ErrorContext(ctx, "ingestion failed", "error", err)
		msg := err.Error()
		cb.Status = StatusFailed
		cb.ErrorMessage = &msg
		outcome = "failed"
	} else {
		logger.InfoContext(ctx, "ingestion completed", "chunks", result.Chunks)
		id := result.DocumentID
		cb.Status = StatusCompleted
		cb.PythonDocumentID = &id
	}

	// The producer is told the outcome even when shutdown cancelled ctx.
	notifyCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), DefaultCallbackTimeout)
	defer cancel()
	if err := w.notifier.Notify(notifyCtx, cb); err != nil {
		logger.ErrorContext(ctx, "failed to send callback", "status", cb.Status, "error", err)
		w.metrics.IncCallbackFailure()
	} else {
		logger.InfoContext(ctx, "callback sent", "status", cb.Status)
	}

	w.setState(ctx, StateCallbackSent)
	w.metrics.IncJob(outcome)
}

func (w *Worker) removeFile(ctx context.Context, path string) {
	if path == "" {
		return
	}
	if err := os.Remove(path); err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			contextutil.LoggerFromContext(ctx).WarnContext(ctx, "failed to remove job file", "path", path, "error", err)
		}
		return
	}
	contextutil.LoggerFromContext(ctx).DebugContext(ctx, "removed job file", "path", path)
}

// sleep waits for d or until ctx is done.
func (w *Worker) sleep(ctx context.Context, d time.Duration) {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
	case <-t.C:
	}
}
