// Package hook installs a process-wide keyboard tap and republishes every key
// transition to subscribers before any other application sees it.
//
// A configurable set of keys is swallowed: subscribers still receive those
// transitions, but the tap reports them as handled so they never reach the
// rest of the desktop. Every other key is passed through untouched.
//
// Platform support:
//   - Linux: exclusive grab of /dev/input/event* keyboards with pass-through
//     re-injection via uinput (requires the input group or root)
//   - Other platforms: unavailable; the viewer runs mouse-only
package hook

import (
	"errors"
	"fmt"
	"log/slog"
	"runtime/debug"
	"sync"
	"time"

	"github.com/kiep/teletekst/pkg/teletekst/constants"
	"go.uber.org/atomic"
)

// ErrNotAvailable is returned when no keyboard tap can be installed.
var ErrNotAvailable = errors.New("keyboard tap not available on this platform")

// ErrAlreadyInstalled is returned when Install is called twice.
var ErrAlreadyInstalled = errors.New("keyboard tap already installed")

// Direction is the edge of a key transition.
type Direction int

const (
	Down Direction = iota // key became down (includes auto-repeat)
	Up                    // key became up
)

func (d Direction) String() string {
	if d == Up {
		return "up"
	}
	return "down"
}

// Transition is a single raw key edge reported by the tap.
type Transition struct {
	Code      constants.KeyCode
	Direction Direction
	Time      time.Time
}

// Verdict tells the tap what to do with a transition after it was published.
type Verdict int

const (
	PassThrough Verdict = iota // deliver to other consumers
	Suppress                   // mark handled; other consumers never see it
)

// Callback is invoked by a Tap on its own dispatch goroutine, once per
// transition, strictly sequentially. It must return quickly.
type Callback func(Transition) Verdict

// Tap is the operating system keyboard hook.
type Tap interface {
	// Install registers the hook and starts delivering transitions to cb.
	Install(cb Callback) error

	// Uninstall releases the hook. Calling it when nothing is installed is a no-op.
	Uninstall() error
}

// Handler receives a key code. Handlers run on the tap's dispatch goroutine
// and must not block; marshal work onto the application queue instead.
type Handler func(code constants.KeyCode)

// KeySet is an immutable set of key codes.
type KeySet map[constants.KeyCode]struct{}

// NewKeySet builds a KeySet from codes.
func NewKeySet(codes ...constants.KeyCode) KeySet {
	s := make(KeySet, len(codes))
	for _, c := range codes {
		s[c] = struct{}{}
	}
	return s
}

// Contains reports whether code is in the set.
func (s KeySet) Contains(code constants.KeyCode) bool {
	_, ok := s[code]
	return ok
}

type subscriber struct {
	id uint64
	fn Handler
}

// Interceptor owns the single keyboard tap of the process.
type Interceptor struct {
	tap    Tap
	logger *slog.Logger

	mu        sync.Mutex // serialises Install/Uninstall and subscriber edits
	installed atomic.Bool
	nextID    uint64

	blocked  atomic.Pointer[KeySet]
	downSubs atomic.Pointer[[]subscriber]
	upSubs   atomic.Pointer[[]subscriber]
}

// New creates an Interceptor around tap. Nothing is hooked until Install.
func New(tap Tap, logger *slog.Logger) *Interceptor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Interceptor{tap: tap, logger: logger}
}

// Install registers the OS hook. On failure the caller should log and carry
// on without keyboard input.
func (i *Interceptor) Install() error {
	i.mu.Lock()
	defer i.mu.Unlock()

	if i.installed.Load() {
		return ErrAlreadyInstalled
	}
	if err := i.tap.Install(i.handle); err != nil {
		return fmt.Errorf("install keyboard tap: %w", err)
	}
	i.installed.Store(true)
	i.logger.Info("Keyboard tap installed")
	return nil
}

// Uninstall releases the OS hook. It is idempotent.
func (i *Interceptor) Uninstall() error {
	i.mu.Lock()
	defer i.mu.Unlock()

	if !i.installed.CompareAndSwap(true, false) {
		return nil
	}
	if err := i.tap.Uninstall(); err != nil {
		return fmt.Errorf("uninstall keyboard tap: %w", err)
	}
	i.logger.Info("Keyboard tap removed")
	return nil
}

// Close implements io.Closer by uninstalling the hook.
func (i *Interceptor) Close() error {
	return i.Uninstall()
}

// Installed reports whether the hook is currently registered.
func (i *Interceptor) Installed() bool {
	return i.installed.Load()
}

// SetBlockedKeys replaces the set of swallowed keys. The hook sees either the
// previous set or the new one, never a mix.
func (i *Interceptor) SetBlockedKeys(keys KeySet) {
	snapshot := make(KeySet, len(keys))
	for k := range keys {
		snapshot[k] = struct{}{}
	}
	i.blocked.Store(&snapshot)
	i.logger.Debug("Blocked keys replaced", "count", len(snapshot))
}

// BlockedKeys returns the current suppression set.
func (i *Interceptor) BlockedKeys() KeySet {
	if s := i.blocked.Load(); s != nil {
		return *s
	}
	return KeySet{}
}

// OnKeyDown subscribes h to key-down transitions. The returned function
// removes the subscription.
func (i *Interceptor) OnKeyDown(h Handler) func() {
	return i.subscribe(&i.downSubs, h)
}

// OnKeyUp subscribes h to key-up transitions.
func (i *Interceptor) OnKeyUp(h Handler) func() {
	return i.subscribe(&i.upSubs, h)
}

func (i *Interceptor) subscribe(list *atomic.Pointer[[]subscriber], h Handler) func() {
	i.mu.Lock()
	i.nextID++
	id := i.nextID
	i.replaceSubscribers(list, func(subs []subscriber) []subscriber {
		return append(subs, subscriber{id: id, fn: h})
	})
	i.mu.Unlock()

	return func() {
		i.mu.Lock()
		defer i.mu.Unlock()
		i.replaceSubscribers(list, func(subs []subscriber) []subscriber {
			out := subs[:0]
			for _, s := range subs {
				if s.id != id {
					out = append(out, s)
				}
			}
			return out
		})
	}
}

// replaceSubscribers publishes a fresh copy so the hook never iterates a
// slice that is being edited. Caller holds i.mu.
func (i *Interceptor) replaceSubscribers(list *atomic.Pointer[[]subscriber], edit func([]subscriber) []subscriber) {
	var current []subscriber
	if p := list.Load(); p != nil {
		current = *p
	}
	next := edit(append([]subscriber(nil), current...))
	list.Store(&next)
}

// handle is the tap callback. Subscribers fire first, then the suppression
// decision is returned to the tap.
func (i *Interceptor) handle(t Transition) (verdict Verdict) {
	verdict = PassThrough
	defer func() {
		if r := recover(); r != nil {
			i.logger.Error("Keyboard hook panic", "panic", r, "stack", string(debug.Stack()))
		}
	}()

	switch t.Direction {
	case Down:
		i.fire(i.downSubs.Load(), t)
	case Up:
		i.fire(i.upSubs.Load(), t)
	}

	if set := i.blocked.Load(); set != nil && set.Contains(t.Code) {
		return Suppress
	}
	return PassThrough
}

func (i *Interceptor) fire(subs *[]subscriber, t Transition) {
	if subs == nil {
		return
	}
	for _, s := range *subs {
		i.call(s, t)
	}
}

func (i *Interceptor) call(s subscriber, t Transition) {
	defer func() {
		if r := recover(); r != nil {
			i.logger.Error("Key subscriber panic",
				"key", t.Code, "direction", t.Direction.String(), "panic", r)
		}
	}()
	s.fn(t.Code)
}
