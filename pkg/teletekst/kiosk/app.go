// Package kiosk runs the viewer: keyboard transitions from the global
// interceptor and mouse buttons from the window feed the navigation machine,
// whose intents drive the page fetcher and the presenter.
//
// Everything except ApplyConfig and the interceptor callbacks runs on the
// application goroutine, the one draining the dispatch queue.
package kiosk

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/kiep/teletekst/pkg/teletekst/config"
	"github.com/kiep/teletekst/pkg/teletekst/constants"
	"github.com/kiep/teletekst/pkg/teletekst/dispatch"
	"github.com/kiep/teletekst/pkg/teletekst/fetch"
	"github.com/kiep/teletekst/pkg/teletekst/hook"
	"github.com/kiep/teletekst/pkg/teletekst/scan"
	"go.uber.org/atomic"
)

var ErrMissingDependency = errors.New("missing dependency")

type Options struct {
	Config *config.Config
	// Interceptor may be nil, in which case only the mouse controls the viewer.
	Interceptor *hook.Interceptor
	Fetcher     fetch.Fetcher
	Presenter   Presenter
	Queue       *dispatch.Queue
	Logger      *slog.Logger
}

type App struct {
	cfg         *config.Config
	interceptor *hook.Interceptor
	presenter   Presenter
	queue       *dispatch.Queue
	logger      *slog.Logger

	machine *scan.Machine
	fetcher *fetch.Controller

	mu          sync.Mutex
	subscribe   *time.Timer
	unsubscribe []func()

	// lifetime is cancelled by Close; fetch completions wait on it for queue room.
	lifetime context.Context
	stop     context.CancelFunc

	keyboard  atomic.Bool
	done      atomic.Bool
	doneCh    chan struct{}
	closeOnce sync.Once
	reason    atomic.String
}

func New(opts Options) (*App, error) {
	switch {
	case opts.Fetcher == nil:
		return nil, fmt.Errorf("%w: fetcher", ErrMissingDependency)
	case opts.Presenter == nil:
		return nil, fmt.Errorf("%w: presenter", ErrMissingDependency)
	case opts.Queue == nil:
		return nil, fmt.Errorf("%w: queue", ErrMissingDependency)
	}

	cfg := opts.Config
	if cfg == nil {
		cfg = config.Default()
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	a := &App{
		cfg:         cfg,
		interceptor: opts.Interceptor,
		presenter:   opts.Presenter,
		queue:       opts.Queue,
		logger:      logger,
		doneCh:      make(chan struct{}),
	}
	a.lifetime, a.stop = context.WithCancel(context.Background())

	start := cfg.StartTarget()
	a.machine = scan.New(start.Page, start.Subpage, cfg.Bindings(), logger)
	a.fetcher = fetch.NewController(opts.Fetcher, a, fetch.Options{
		Template:       fetch.URLTemplate(cfg.Page.URLTemplate),
		MaxRollForward: cfg.Page.MaxRollForward,
		Post:           a.postCompletion,
		Logger:         logger,
	})
	return a, nil
}

// Start installs the keyboard interceptor, schedules the key subscription and
// loads the first page. Cancelling ctx quits the viewer.
func (a *App) Start(ctx context.Context) error {
	a.logger.Info("Starting teletext viewer", "target", a.machine.State().Target().String())

	if a.interceptor != nil {
		if err := a.interceptor.Install(); err != nil {
			a.logger.Warn("Keyboard interceptor unavailable, continuing with mouse only", "error", err)
		} else {
			a.keyboard.Store(true)
		}
	} else {
		a.logger.Warn("No keyboard interceptor, continuing with mouse only")
	}

	if a.keyboard.Load() {
		delay := a.cfg.Input.SubscribeDelay.Duration
		a.mu.Lock()
		a.subscribe = time.AfterFunc(delay, func() {
			a.queue.Post(a.subscribeKeys)
		})
		a.mu.Unlock()
	}

	a.load(a.machine.State().Target())

	go func() {
		select {
		case <-ctx.Done():
			a.queue.Post(func() { a.Quit("context cancelled") })
		case <-a.doneCh:
		}
	}()
	return nil
}

// subscribeKeys starts receiving key transitions. The delay before it runs
// keeps the keystroke that launched the viewer from reaching the machine.
func (a *App) subscribeKeys() {
	if a.done.Load() {
		return
	}
	a.interceptor.SetBlockedKeys(a.cfg.BlockedKeys())

	down := a.interceptor.OnKeyDown(func(code constants.KeyCode) {
		a.queue.Post(func() { a.KeyDown(code) })
	})
	up := a.interceptor.OnKeyUp(func(code constants.KeyCode) {
		a.queue.Post(func() { a.KeyUp(code) })
	})

	a.mu.Lock()
	a.unsubscribe = append(a.unsubscribe, down, up)
	a.mu.Unlock()

	a.logger.Info("Listening for keys", "blocked", len(a.interceptor.BlockedKeys()))
}

func (a *App) KeyDown(code constants.KeyCode) {
	a.apply(a.machine.KeyDown(code))
}

func (a *App) KeyUp(code constants.KeyCode) {
	a.apply(a.machine.KeyUp(code))
}

func (a *App) MouseDown(b scan.MouseButton) {
	a.apply(a.machine.MouseDown(b))
}

func (a *App) MouseUp(b scan.MouseButton) {
	a.apply(a.machine.MouseUp(b))
}

// Quit leaves the viewer through the same path as the exit keys.
func (a *App) Quit(reason string) {
	a.apply(a.machine.Quit(reason))
}

// State returns the navigation state.
func (a *App) State() scan.State {
	return a.machine.State()
}

// KeyboardActive reports whether the global interceptor is installed.
func (a *App) KeyboardActive() bool {
	return a.keyboard.Load()
}

// Done is closed once the viewer has exited.
func (a *App) Done() <-chan struct{} {
	return a.doneCh
}

// Exited reports whether the viewer has exited.
func (a *App) Exited() bool {
	return a.done.Load()
}

// ExitReason describes what ended the viewer.
func (a *App) ExitReason() string {
	return a.reason.Load()
}

// ApplyConfig switches to a reloaded configuration. It may be called from any
// goroutine.
func (a *App) ApplyConfig(cfg *config.Config) {
	a.queue.Post(func() { a.applyConfig(cfg) })
}

func (a *App) applyConfig(cfg *config.Config) {
	if a.done.Load() {
		return
	}
	a.cfg = cfg
	a.machine.SetBindings(cfg.Bindings())
	a.fetcher.SetTemplate(fetch.URLTemplate(cfg.Page.URLTemplate))
	a.fetcher.SetMaxRollForward(cfg.Page.MaxRollForward)

	a.mu.Lock()
	subscribed := len(a.unsubscribe) > 0
	a.mu.Unlock()
	if subscribed {
		a.interceptor.SetBlockedKeys(cfg.BlockedKeys())
	}

	b := cfg.Bindings()
	a.logger.Info("Applied configuration",
		"yes", b.Yes.GetName(), "no", b.No.GetName(), "say", b.Say.GetName(),
		"blocked", len(cfg.BlockedKeys()))
}

// Close releases the interceptor and cancels any fetch. It is safe to call
// more than once.
func (a *App) Close() error {
	var err error
	a.closeOnce.Do(func() {
		a.done.Store(true)

		a.mu.Lock()
		if a.subscribe != nil {
			a.subscribe.Stop()
		}
		unsubscribe := a.unsubscribe
		a.unsubscribe = nil
		a.mu.Unlock()

		for _, fn := range unsubscribe {
			fn()
		}
		a.fetcher.Close()
		a.stop()
		if a.interceptor != nil {
			err = a.interceptor.Uninstall()
		}
		close(a.doneCh)
	})
	return err
}

// Relayout reapplies the current zoom after the display size changed.
func (a *App) Relayout() {
	if a.done.Load() {
		return
	}
	a.zoom(a.machine.State().Mode)
}

func (a *App) zoom(mode scan.ScanMode) {
	w, h := a.presenter.ContentSize()
	if z, ok := scan.Transform(mode, w, h); ok {
		a.presenter.ApplyZoom(z)
	}
}

func (a *App) apply(intents []scan.Intent) {
	for _, in := range intents {
		switch in.Kind {
		case scan.ChangeZoom:
			a.zoom(in.Mode)
		case scan.GoToPage:
			a.load(in.Target)
		case scan.EnterDigit:
			a.presenter.ShowDigits(in.Digits)
		case scan.ExitApplication:
			a.reason.Store(in.Reason)
			a.logger.Info("Exiting", "reason", in.Reason)
			if err := a.Close(); err != nil {
				a.logger.Warn("Releasing keyboard failed", "error", err)
			}
		}
	}
}

// postCompletion hands a fetch outcome to the application goroutine. Unlike
// key transitions, outcomes are never dropped while the viewer runs.
func (a *App) postCompletion(fn func()) {
	if !a.queue.PostWait(a.lifetime, fn) {
		a.logger.Debug("Viewer closed, dropping fetch outcome")
	}
}

func (a *App) load(t fetch.Target) {
	a.presenter.ShowStatus(StatusLoading)
	a.fetcher.Load(t)
}

func (a *App) FetchSucceeded(t fetch.Target, image []byte) {
	if a.done.Load() {
		return
	}
	if err := a.presenter.ShowPage(t, image); err != nil {
		a.logger.Error("Error loading page", "target", t.String(), "error", err)
		a.finishLoad(StatusError)
		return
	}
	a.logger.Info("Loaded page", "target", t.String())
	a.finishLoad(StatusIdle)
	a.apply(a.machine.PageShown())
}

func (a *App) FetchFailed(t fetch.Target, err error) {
	if a.done.Load() {
		return
	}
	a.logger.Error("Error loading page", "target", t.String(), "error", err)
	a.finishLoad(StatusError)
}

func (a *App) RolledForward(from, to fetch.Target) {
	a.machine.Retarget(to)
}

// finishLoad sets the indicator, clears the typed page number and hides the
// overlay.
func (a *App) finishLoad(s Status) {
	a.presenter.ShowStatus(s)
	a.machine.ClearDigits()
	a.presenter.HideDigits()
}
