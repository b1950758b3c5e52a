package hook

import (
	"sync"
	"time"

	"github.com/kiep/teletekst/pkg/teletekst/constants"
)

// SimulatedTap is a Tap for testing that doesn't hook the real keyboard.
type SimulatedTap struct {
	mu         sync.Mutex
	cb         Callback
	installErr error
	installs   int
	uninstalls int
	passed     []Transition
}

// NewSimulatedTap creates a tap for testing.
func NewSimulatedTap() *SimulatedTap {
	return &SimulatedTap{}
}

// FailInstall makes the next Install calls return err.
func (s *SimulatedTap) FailInstall(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.installErr = err
}

// Install records cb as the hook callback.
func (s *SimulatedTap) Install(cb Callback) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.installErr != nil {
		return s.installErr
	}
	s.cb = cb
	s.installs++
	return nil
}

// Uninstall drops the callback.
func (s *SimulatedTap) Uninstall() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cb != nil {
		s.uninstalls++
	}
	s.cb = nil
	return nil
}

// Press simulates a key-down and returns the hook's verdict.
func (s *SimulatedTap) Press(code constants.KeyCode) Verdict {
	return s.send(Transition{Code: code, Direction: Down, Time: time.Now()})
}

// Release simulates a key-up and returns the hook's verdict.
func (s *SimulatedTap) Release(code constants.KeyCode) Verdict {
	return s.send(Transition{Code: code, Direction: Up, Time: time.Now()})
}

// Tap simulates a full press and release.
func (s *SimulatedTap) Tap(code constants.KeyCode) {
	s.Press(code)
	s.Release(code)
}

// Passed returns the transitions that would have reached other applications.
func (s *SimulatedTap) Passed() []Transition {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Transition(nil), s.passed...)
}

// Installed reports whether a callback is registered.
func (s *SimulatedTap) Installed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cb != nil
}

// Uninstalls returns how many times an installed hook was released.
func (s *SimulatedTap) Uninstalls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.uninstalls
}

// send holds the lock across the callback, like an OS dispatch thread that
// delivers one event at a time.
func (s *SimulatedTap) send(t Transition) Verdict {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cb == nil {
		s.passed = append(s.passed, t)
		return PassThrough
	}
	v := s.cb(t)
	if v == PassThrough {
		s.passed = append(s.passed, t)
	}
	return v
}
