// Package dispatch moves work from background goroutines, such as the keyboard
// tap and page fetches, onto the single goroutine that owns the navigation
// state and the display.
package dispatch

import (
	"context"
	"log/slog"
	"runtime/debug"

	"go.uber.org/atomic"
)

// Queue is a bounded FIFO of functions. Post never blocks; when the queue is
// full the function is dropped. PostWait blocks instead.
type Queue struct {
	work    chan func()
	dropped atomic.Int64
	logger  *slog.Logger
}

func New(size int, logger *slog.Logger) *Queue {
	if size < 1 {
		size = 1
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Queue{
		work:   make(chan func(), size),
		logger: logger,
	}
}

// Post enqueues fn and reports whether it was accepted.
func (q *Queue) Post(fn func()) bool {
	select {
	case q.work <- fn:
		return true
	default:
		n := q.dropped.Inc()
		q.logger.Warn("Dispatch queue full, dropping work", "dropped", n)
		return false
	}
}

// PostWait enqueues fn, waiting for room until ctx is done. It reports whether
// fn was accepted.
func (q *Queue) PostWait(ctx context.Context, fn func()) bool {
	select {
	case q.work <- fn:
		return true
	default:
	}
	select {
	case q.work <- fn:
		return true
	case <-ctx.Done():
		return false
	}
}

// Drain runs every function queued at the time of the call and returns how
// many ran. Work posted by those functions waits for the next Drain.
func (q *Queue) Drain() int {
	pending := len(q.work)
	for i := 0; i < pending; i++ {
		q.run(<-q.work)
	}
	return pending
}

// Run executes queued functions until ctx is done.
func (q *Queue) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case fn := <-q.work:
			q.run(fn)
		}
	}
}

// Len returns the number of queued functions.
func (q *Queue) Len() int {
	return len(q.work)
}

// Dropped returns how many functions were rejected because the queue was full.
func (q *Queue) Dropped() int64 {
	return q.dropped.Load()
}

func (q *Queue) run(fn func()) {
	defer func() {
		if r := recover(); r != nil {
			q.logger.Error("Dispatched work panicked", "panic", r, "stack", string(debug.Stack()))
		}
	}()
	fn()
}
