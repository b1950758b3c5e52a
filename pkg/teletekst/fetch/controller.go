// Package fetch loads teletext page images. A Controller keeps at most one
// logical request outstanding: every Load supersedes the previous one and
// results of superseded requests are discarded. Failed subpages roll forward
// to the first subpage of the next page.
package fetch

import (
	"context"
	"log/slog"
	"sync"

	"go.uber.org/atomic"
)

// Handler receives the outcome of the current request. All calls are made
// through the controller's post function.
type Handler interface {
	FetchSucceeded(t Target, image []byte)
	FetchFailed(t Target, err error)
	// RolledForward reports that from failed and to is now being loaded.
	RolledForward(from, to Target)
}

// Options configures a Controller.
type Options struct {
	Template URLTemplate
	// MaxRollForward caps consecutive roll-forwards after one Load. Zero
	// disables rolling forward.
	MaxRollForward int
	// Post delivers completions to the goroutine that owns the handler.
	// When nil, completions run on the fetching goroutine.
	Post   func(func())
	Logger *slog.Logger
}

type Controller struct {
	fetcher Fetcher
	handler Handler
	opts    Options
	logger  *slog.Logger

	generation atomic.Uint64

	mu      sync.Mutex
	current Target
	rolled  int
	cancel  context.CancelFunc
	closed  bool
}

func NewController(fetcher Fetcher, handler Handler, opts Options) *Controller {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	if opts.Post == nil {
		opts.Post = func(fn func()) { fn() }
	}
	return &Controller{
		fetcher: fetcher,
		handler: handler,
		opts:    opts,
		logger:  logger,
	}
}

// Load starts fetching t, superseding any request in flight.
func (c *Controller) Load(t Target) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.rolled = 0
	c.startLocked(t)
}

// Current returns the target of the newest request.
func (c *Controller) Current() Target {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.current
}

// SetTemplate changes the URL template used by subsequent loads.
func (c *Controller) SetTemplate(u URLTemplate) {
	c.mu.Lock()
	c.opts.Template = u
	c.mu.Unlock()
}

// SetMaxRollForward changes the roll-forward cap for subsequent failures.
func (c *Controller) SetMaxRollForward(n int) {
	c.mu.Lock()
	c.opts.MaxRollForward = n
	c.mu.Unlock()
}

// Close cancels the request in flight. Later completions are discarded and
// later loads are ignored.
func (c *Controller) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
	c.generation.Inc()
	if c.cancel != nil {
		c.cancel()
		c.cancel = nil
	}
}

func (c *Controller) startLocked(t Target) {
	if c.closed {
		return
	}
	if c.cancel != nil {
		c.cancel()
	}

	gen := c.generation.Inc()
	ctx, cancel := context.WithCancel(context.Background())
	c.cancel = cancel
	c.current = t
	url := c.opts.Template.Resolve(t)

	c.logger.Debug("Fetching page", "target", t.String(), "url", url, "generation", gen)

	go func() {
		data, err := c.fetcher.Fetch(ctx, url)
		c.opts.Post(func() { c.complete(gen, t, data, err) })
	}()
}

func (c *Controller) complete(gen uint64, t Target, data []byte, err error) {
	if gen != c.generation.Load() {
		c.logger.Debug("Discarding stale page", "target", t.String(), "generation", gen)
		return
	}
	if err == nil && len(data) == 0 {
		err = ErrEmptyPayload
	}

	if err == nil {
		c.logger.Info("Page loaded", "target", t.String(), "bytes", len(data))
		c.handler.FetchSucceeded(t, data)
		return
	}

	c.mu.Lock()
	roll := t.Subpage > 1 && c.rolled < c.opts.MaxRollForward
	if roll {
		c.rolled++
	}
	c.mu.Unlock()

	if roll {
		next := t.Next()
		c.logger.Info("Subpage unavailable, rolling forward", "from", t.String(), "to", next.String(), "error", err)
		c.handler.RolledForward(t, next)

		c.mu.Lock()
		if gen == c.generation.Load() {
			c.startLocked(next)
		}
		c.mu.Unlock()
		return
	}

	c.logger.Warn("Page fetch failed", "target", t.String(), "error", err)
	c.handler.FetchFailed(t, err)
}
