package runner

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/woodline/shopterm/pkg/logger"
)

// EventKind tags the one-way signals a task may send back to the
// interaction loop. The originating call site has already returned by
// the time a task runs, so results travel over the event channel only.
type EventKind int

const (
	EventConsole EventKind = iota
	EventClearInput
	EventSetPath
	EventWarning
)

// Event is one signal emitted by a background task.
type Event struct {
	Kind  EventKind
	Title string
	Text  string
}

// Emit delivers events from inside a running task.
type Emit func(Event)

// TaskFunc is the body of a background task. Steps inside one task run
// strictly in sequence on a single worker; there is no ordering across
// tasks and no cancellation once started.
type TaskFunc func(ctx context.Context, emit Emit)

type task struct {
	id   string
	name string
	fn   TaskFunc
}

// Runner executes fire-and-forget tasks on a small fixed worker pool so
// the interaction loop never blocks on network or print I/O.
type Runner struct {
	workers int
	tasks   chan task
	events  chan Event
	logger  *zap.Logger

	wg       sync.WaitGroup
	stopOnce sync.Once

	mu      sync.Mutex // guards stopped and sends on tasks
	stopped bool
}

// New creates a runner with the given pool size and submission queue depth.
func New(workers, queueSize int, log *zap.Logger) *Runner {
	if workers <= 0 {
		workers = 4
	}
	if queueSize <= 0 {
		queueSize = 64
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Runner{
		workers: workers,
		tasks:   make(chan task, queueSize),
		events:  make(chan Event, queueSize),
		logger:  log,
	}
}

// Start launches the worker pool.
func (r *Runner) Start() {
	for i := 0; i < r.workers; i++ {
		r.wg.Add(1)
		go r.worker()
	}
	r.logger.Info("task runner started", zap.Int("workers", r.workers))
}

// Submit queues a task for execution. It never blocks: when the queue is
// full or the runner is shutting down the task is rejected and the caller
// surfaces the refusal.
func (r *Runner) Submit(name string, fn TaskFunc) bool {
	if fn == nil {
		return false
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.stopped {
		r.logger.Warn("runner stopped, submission rejected", zap.String("task", name))
		return false
	}
	t := task{id: uuid.NewString(), name: name, fn: fn}
	select {
	case r.tasks <- t:
		return true
	default:
		r.logger.Warn("task queue full, submission rejected", zap.String("task", name))
		return false
	}
}

// Events exposes the signal channel drained by the interaction loop.
func (r *Runner) Events() <-chan Event {
	return r.events
}

// Stop closes the submission queue and waits for in-flight tasks until
// the context expires. Queued tasks still run; none are aborted.
func (r *Runner) Stop(ctx context.Context) error {
	r.stopOnce.Do(func() {
		r.mu.Lock()
		r.stopped = true
		close(r.tasks)
		r.mu.Unlock()
	})
	done := make(chan struct{})
	go func() {
		r.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		r.logger.Info("task runner stopped")
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (r *Runner) worker() {
	defer r.wg.Done()
	for t := range r.tasks {
		r.run(t)
	}
}

func (r *Runner) run(t task) {
	ctx := logger.ContextWithTaskID(context.Background(), t.id)
	log := logger.WithTaskID(ctx, r.logger).With(zap.String("task", t.name))

	defer func() {
		if rec := recover(); rec != nil {
			log.Error("task panicked", zap.Any("panic", rec))
			r.emit(Event{Kind: EventWarning, Title: t.name, Text: "internal error, the action was aborted"})
		}
	}()

	log.Debug("task started")
	t.fn(ctx, r.emit)
	log.Debug("task finished")
}

func (r *Runner) emit(ev Event) {
	r.events <- ev
}
