package kiosk

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/kiep/teletekst/pkg/teletekst/config"
	"github.com/kiep/teletekst/pkg/teletekst/constants"
	"github.com/kiep/teletekst/pkg/teletekst/dispatch"
	"github.com/kiep/teletekst/pkg/teletekst/fetch"
	"github.com/kiep/teletekst/pkg/teletekst/hook"
	"github.com/kiep/teletekst/pkg/teletekst/scan"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakePresenter struct {
	mu       sync.Mutex
	pages    []fetch.Target
	zooms    []scan.ZoomTransform
	digits   string
	shown    bool
	statuses []Status
	failShow error
}

func (p *fakePresenter) ShowPage(t fetch.Target, _ []byte) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.failShow != nil {
		return p.failShow
	}
	p.pages = append(p.pages, t)
	return nil
}

func (p *fakePresenter) ApplyZoom(z scan.ZoomTransform) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.zooms = append(p.zooms, z)
}

func (p *fakePresenter) ContentSize() (float64, float64) {
	return 400, 300
}

func (p *fakePresenter) ShowDigits(d string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.digits, p.shown = d, true
}

func (p *fakePresenter) HideDigits() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.shown = false
}

func (p *fakePresenter) ShowStatus(s Status) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.statuses = append(p.statuses, s)
}

func (p *fakePresenter) lastStatus() Status {
	p.mu.Lock()
	defer p.mu.Unlock()
	if len(p.statuses) == 0 {
		return StatusIdle
	}
	return p.statuses[len(p.statuses)-1]
}

func (p *fakePresenter) lastZoom() scan.ZoomTransform {
	p.mu.Lock()
	defer p.mu.Unlock()
	if len(p.zooms) == 0 {
		return scan.Identity
	}
	return p.zooms[len(p.zooms)-1]
}

func (p *fakePresenter) pageCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.pages)
}

// pageFetcher serves every URL containing one of the listed page names.
type pageFetcher struct {
	mu    sync.Mutex
	pages map[string]bool
	calls []string
	gate  chan struct{}
}

func newPageFetcher(names ...string) *pageFetcher {
	f := &pageFetcher{pages: make(map[string]bool)}
	for _, n := range names {
		f.pages[n] = true
	}
	return f
}

// hold makes later fetches wait until the returned channel is closed.
func (f *pageFetcher) hold() chan struct{} {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.gate = make(chan struct{})
	return f.gate
}

func (f *pageFetcher) Fetch(ctx context.Context, url string) ([]byte, error) {
	f.mu.Lock()
	f.calls = append(f.calls, url)
	gate := f.gate
	f.mu.Unlock()

	if gate != nil {
		select {
		case <-gate:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	for name := range f.pages {
		if strings.Contains(url, name) {
			return []byte("GIF89a"), nil
		}
	}
	return nil, errors.New("404 Not Found")
}

type harness struct {
	app       *App
	queue     *dispatch.Queue
	tap       *hook.SimulatedTap
	presenter *fakePresenter
	fetcher   *pageFetcher
}

func newHarness(t *testing.T, fetcher *pageFetcher, withKeyboard bool) *harness {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	cfg := config.Default()
	cfg.Input.SubscribeDelay = config.Duration{}

	h := &harness{
		queue:     dispatch.New(64, logger),
		presenter: &fakePresenter{},
		fetcher:   fetcher,
	}

	var interceptor *hook.Interceptor
	if withKeyboard {
		h.tap = hook.NewSimulatedTap()
		interceptor = hook.New(h.tap, logger)
	}

	app, err := New(Options{
		Config:      cfg,
		Interceptor: interceptor,
		Fetcher:     fetcher,
		Presenter:   h.presenter,
		Queue:       h.queue,
		Logger:      logger,
	})
	require.NoError(t, err)
	h.app = app
	t.Cleanup(func() { _ = app.Close() })
	return h
}

// settle drains the queue until cond holds.
func (h *harness) settle(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		h.queue.Drain()
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("condition not reached")
}

func (h *harness) start(t *testing.T) {
	t.Helper()
	require.NoError(t, h.app.Start(context.Background()))
	h.settle(t, func() bool { return h.presenter.pageCount() == 1 })
	if h.tap != nil {
		h.settle(t, func() bool { return len(h.app.interceptor.BlockedKeys()) == 3 })
	}
}

// press sends a key through the simulated tap and processes it.
func (h *harness) press(t *testing.T, code constants.KeyCode) hook.Verdict {
	t.Helper()
	v := h.tap.Press(code)
	h.tap.Release(code)
	h.queue.Drain()
	return v
}

func TestNew_RequiresDependencies(t *testing.T) {
	_, err := New(Options{})
	assert.ErrorIs(t, err, ErrMissingDependency)
}

func TestApp_StartLoadsFirstPage(t *testing.T) {
	h := newHarness(t, newPageFetcher("P100_01"), true)
	h.start(t)

	assert.Equal(t, []fetch.Target{{Page: 100, Subpage: 1}}, h.presenter.pages)
	assert.Equal(t, StatusIdle, h.presenter.lastStatus())
	assert.True(t, h.app.KeyboardActive())
	assert.True(t, h.tap.Installed())
}

func TestApp_SwitchesAreSuppressedAndZoom(t *testing.T) {
	h := newHarness(t, newPageFetcher("P100_01"), true)
	h.start(t)

	assert.Equal(t, hook.Suppress, h.press(t, constants.DefaultKeyYes))
	assert.Equal(t, scan.ZoomTopLeft, h.app.State().Mode)
	assert.Equal(t, scan.ZoomTransform{ScaleX: 2, ScaleY: 2}, h.presenter.lastZoom())

	assert.Equal(t, hook.Suppress, h.press(t, constants.DefaultKeyNo))
	assert.Equal(t, scan.ZoomTransform{ScaleX: 2, ScaleY: 2, TranslateY: -300}, h.presenter.lastZoom())

	assert.Equal(t, hook.PassThrough, h.press(t, constants.KeyRight))
	assert.Equal(t, scan.ZoomBottomRight, h.app.State().Mode)

	assert.Equal(t, hook.Suppress, h.press(t, constants.DefaultKeySay))
	assert.Equal(t, scan.Identity, h.presenter.lastZoom())
}

func TestApp_DigitsLoadPage(t *testing.T) {
	h := newHarness(t, newPageFetcher("P100_01", "P201_01"), true)
	h.start(t)

	h.press(t, constants.Key2)
	h.press(t, constants.Key0)
	assert.True(t, h.presenter.shown)
	assert.Equal(t, "20", h.presenter.digits)

	h.press(t, constants.Key1)
	h.settle(t, func() bool { return h.presenter.pageCount() == 2 })

	assert.Equal(t, fetch.Target{Page: 201, Subpage: 1}, h.presenter.pages[1])
	assert.False(t, h.presenter.shown)
	assert.Equal(t, StatusIdle, h.presenter.lastStatus())
}

func TestApp_LoadedPageClearsTypedDigits(t *testing.T) {
	h := newHarness(t, newPageFetcher("P100_01", "P100_02"), true)
	h.start(t)

	gate := h.fetcher.hold()
	h.press(t, constants.KeyPageDown)
	h.press(t, constants.Key1)
	h.press(t, constants.Key2)
	assert.Equal(t, "12", h.app.State().Digits)
	assert.True(t, h.presenter.shown)

	close(gate)
	h.settle(t, func() bool { return h.presenter.pageCount() == 2 })

	assert.Equal(t, "", h.app.State().Digits)
	assert.False(t, h.presenter.shown)

	h.press(t, constants.Key3)
	assert.Equal(t, "3", h.app.State().Digits)
	assert.Equal(t, 100, h.app.State().Page)
}

func TestApp_FailedPageClearsTypedDigits(t *testing.T) {
	h := newHarness(t, newPageFetcher("P100_01"), true)
	h.start(t)

	gate := h.fetcher.hold()
	h.press(t, constants.KeyPageUp)
	h.press(t, constants.Key7)
	assert.Equal(t, "7", h.app.State().Digits)

	close(gate)
	h.settle(t, func() bool { return h.presenter.lastStatus() == StatusError })

	assert.Equal(t, "", h.app.State().Digits)
	assert.False(t, h.presenter.shown)
}

func TestApp_FetchOutcomeWaitsForQueueRoom(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	queue := dispatch.New(1, logger)
	presenter := &fakePresenter{}
	app, err := New(Options{
		Fetcher:   newPageFetcher("P100_01"),
		Presenter: presenter,
		Queue:     queue,
		Logger:    logger,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = app.Close() })

	require.True(t, queue.Post(func() {}))
	require.NoError(t, app.Start(context.Background()))

	h := &harness{app: app, queue: queue, presenter: presenter}
	h.settle(t, func() bool { return presenter.pageCount() == 1 })
	assert.Equal(t, StatusIdle, presenter.lastStatus())
	assert.Zero(t, queue.Dropped())
}

func TestApp_MissingSubpageRollsForward(t *testing.T) {
	h := newHarness(t, newPageFetcher("P100_01", "P101_01"), true)
	h.start(t)

	h.press(t, constants.KeyPageDown)
	h.settle(t, func() bool { return h.presenter.pageCount() == 2 })

	assert.Equal(t, fetch.Target{Page: 101, Subpage: 1}, h.presenter.pages[1])
	assert.Equal(t, fetch.Target{Page: 101, Subpage: 1}, h.app.State().Target())
}

func TestApp_FailedPageShowsError(t *testing.T) {
	h := newHarness(t, newPageFetcher("P100_01"), true)
	h.start(t)

	h.press(t, constants.KeyPageUp)
	h.settle(t, func() bool { return h.presenter.lastStatus() == StatusError })

	assert.Equal(t, 1, h.presenter.pageCount())
	assert.Equal(t, fetch.Target{Page: 99, Subpage: 1}, h.app.State().Target())
}

func TestApp_PageShownResetsZoom(t *testing.T) {
	h := newHarness(t, newPageFetcher("P100_01", "P100_02"), true)
	h.start(t)

	h.press(t, constants.KeyDown)
	assert.Equal(t, scan.ZoomBottomLeft, h.app.State().Mode)

	h.press(t, constants.KeyPageDown)
	h.settle(t, func() bool { return h.presenter.pageCount() == 2 })

	assert.Equal(t, scan.NoZoom, h.app.State().Mode)
	assert.Equal(t, scan.Identity, h.presenter.lastZoom())
}

func TestApp_ExitKeyReleasesKeyboard(t *testing.T) {
	h := newHarness(t, newPageFetcher("P100_01"), true)
	h.start(t)

	assert.Equal(t, hook.PassThrough, h.press(t, constants.KeyEscape))

	select {
	case <-h.app.Done():
	default:
		t.Fatal("viewer did not exit")
	}
	assert.True(t, h.app.Exited())
	assert.Equal(t, "Escape", h.app.ExitReason())
	assert.False(t, h.tap.Installed())
}

func TestApp_MouseOnlyWhenInterceptorFails(t *testing.T) {
	h := newHarness(t, newPageFetcher("P100_01"), true)
	h.tap.FailInstall(hook.ErrNotAvailable)

	require.NoError(t, h.app.Start(context.Background()))
	h.settle(t, func() bool { return h.presenter.pageCount() == 1 })
	assert.False(t, h.app.KeyboardActive())

	h.app.MouseDown(scan.MouseLeft)
	assert.Equal(t, scan.ZoomTopLeft, h.app.State().Mode)

	h.app.MouseDown(scan.MouseRight)
	assert.True(t, h.app.Exited())
	assert.Equal(t, "mouse-chord", h.app.ExitReason())
}

func TestApp_WithoutInterceptor(t *testing.T) {
	h := newHarness(t, newPageFetcher("P100_01"), false)
	require.NoError(t, h.app.Start(context.Background()))
	h.settle(t, func() bool { return h.presenter.pageCount() == 1 })
	assert.False(t, h.app.KeyboardActive())
}

func TestApp_ContextCancelQuits(t *testing.T) {
	h := newHarness(t, newPageFetcher("P100_01"), true)
	ctx, cancel := context.WithCancel(context.Background())
	require.NoError(t, h.app.Start(ctx))

	cancel()
	h.settle(t, h.app.Exited)
	assert.Equal(t, "context cancelled", h.app.ExitReason())
}

func TestApp_ApplyConfigReplacesBindingsAndBlockedKeys(t *testing.T) {
	h := newHarness(t, newPageFetcher("P100_01"), true)
	h.start(t)

	cfg := config.Default()
	cfg.Input.Yes = int(constants.KeyKP7)
	cfg.Input.Block = []string{config.SwitchYes}
	h.app.ApplyConfig(cfg)
	h.queue.Drain()

	assert.Equal(t, hook.PassThrough, h.press(t, constants.DefaultKeyNo))
	assert.Equal(t, scan.ZoomBottomLeft, h.app.State().Mode)
	assert.Equal(t, hook.Suppress, h.press(t, constants.KeyKP7))
	assert.Equal(t, scan.ZoomTopLeft, h.app.State().Mode)
}

func TestApp_CloseIsIdempotent(t *testing.T) {
	h := newHarness(t, newPageFetcher("P100_01"), true)
	h.start(t)

	require.NoError(t, h.app.Close())
	require.NoError(t, h.app.Close())
	assert.Equal(t, 1, h.tap.Uninstalls())
}

func TestApp_UndecodablePageShowsError(t *testing.T) {
	h := newHarness(t, newPageFetcher("P100_01"), false)
	h.presenter.failShow = errors.New("not a GIF")

	require.NoError(t, h.app.Start(context.Background()))
	h.settle(t, func() bool { return h.presenter.lastStatus() == StatusError })
	assert.Equal(t, 0, h.presenter.pageCount())
}

func TestApp_RelayoutReappliesZoom(t *testing.T) {
	h := newHarness(t, newPageFetcher("P100_01"), false)
	require.NoError(t, h.app.Start(context.Background()))
	h.settle(t, func() bool { return h.presenter.pageCount() == 1 })

	h.app.MouseDown(scan.MouseRight)
	h.app.MouseUp(scan.MouseRight)
	h.app.MouseDown(scan.MouseRight)
	before := len(h.presenter.zooms)

	h.app.Relayout()
	require.Len(t, h.presenter.zooms, before+1)
	assert.Equal(t, scan.ZoomTransform{ScaleX: 2, ScaleY: 2, TranslateX: -400, TranslateY: -300}, h.presenter.lastZoom())
}
