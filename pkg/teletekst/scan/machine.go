// Package scan holds the navigation state of the viewer and the rules that map
// key and mouse transitions to intents. A Machine performs no I/O: callers
// apply the returned intents to the display and the page fetcher.
package scan

import (
	"errors"
	"log/slog"
	"strconv"

	"github.com/kiep/teletekst/pkg/teletekst/constants"
	"github.com/kiep/teletekst/pkg/teletekst/fetch"
)

// ErrMalformedDigits is logged when a typed page number does not parse.
var ErrMalformedDigits = errors.New("malformed page number")

// MouseButton identifies a mouse button.
type MouseButton int

const (
	MouseOther MouseButton = iota
	MouseLeft
	MouseRight
)

func (b MouseButton) String() string {
	switch b {
	case MouseLeft:
		return "left"
	case MouseRight:
		return "right"
	default:
		return "other"
	}
}

// Bindings maps the configurable switches to key codes.
type Bindings struct {
	Yes constants.KeyCode // switch A: toggles the top quadrants
	No  constants.KeyCode // switch B: toggles the bottom quadrants
	Say constants.KeyCode // next subpage, or back to the whole page
}

// DefaultBindings returns the keypad minus, asterisk and slash bindings.
func DefaultBindings() Bindings {
	return Bindings{
		Yes: constants.DefaultKeyYes,
		No:  constants.DefaultKeyNo,
		Say: constants.DefaultKeySay,
	}
}

// Keys returns the bound key codes.
func (b Bindings) Keys() []constants.KeyCode {
	return []constants.KeyCode{b.Yes, b.No, b.Say}
}

// State is a snapshot of the navigation state.
type State struct {
	Page    int
	Subpage int
	Mode    ScanMode
	Digits  string

	SwitchA    bool
	SwitchB    bool
	MouseLeft  bool
	MouseRight bool

	Exited bool
}

// Target is the page the state points at.
func (s State) Target() fetch.Target {
	return fetch.Target{Page: s.Page, Subpage: s.Subpage}
}

// Machine is the navigation state machine. It is not safe for concurrent use;
// all transitions run on the application goroutine.
type Machine struct {
	state    State
	bindings Bindings
	logger   *slog.Logger
}

// New returns a machine showing page/subpage unzoomed. Page is clamped at 0
// and subpage at 1.
func New(page, subpage int, bindings Bindings, logger *slog.Logger) *Machine {
	if logger == nil {
		logger = slog.Default()
	}
	if page < 0 {
		page = 0
	}
	if subpage < 1 {
		subpage = 1
	}
	return &Machine{
		state:    State{Page: page, Subpage: subpage, Mode: NoZoom},
		bindings: bindings,
		logger:   logger,
	}
}

func (m *Machine) State() State {
	return m.state
}

func (m *Machine) Bindings() Bindings {
	return m.bindings
}

// SetBindings replaces the switch bindings. Held switch flags are released.
func (m *Machine) SetBindings(b Bindings) {
	m.bindings = b
	m.state.SwitchA = false
	m.state.SwitchB = false
}

// KeyDown applies a key press.
func (m *Machine) KeyDown(code constants.KeyCode) []Intent {
	if m.state.Exited {
		return nil
	}

	switch code {
	case m.bindings.Yes:
		m.state.SwitchA = true
		return m.toggleTop("yes")
	case m.bindings.No:
		m.state.SwitchB = true
		return m.toggleBottom("no")
	case m.bindings.Say:
		return m.say()
	}

	switch code {
	case constants.KeyEscape, constants.KeyEnter, constants.KeyKPEnter, constants.KeySpace:
		return m.exit(code.GetName())
	case constants.KeyTab:
		return m.setMode(NoZoom, code)
	case constants.KeyPageUp:
		page := m.state.Page - 1
		if page < 0 {
			page = 0
		}
		return m.goTo(page, 1, code)
	case constants.KeyPageDown:
		return m.goTo(m.state.Page, m.state.Subpage+1, code)
	}

	if d := directionFor(code); d != DirectionNone {
		next, ok := d.Move(m.state.Mode)
		if !ok {
			m.logger.Debug("Arrow ignored at edge", "key", code.GetName(), "mode", m.state.Mode.String())
			return nil
		}
		return m.setMode(next, code)
	}

	if r, ok := code.Digit(); ok {
		return m.digit(r)
	}

	m.logger.Debug("Unbound key", "key", code.GetName())
	return nil
}

// KeyUp applies a key release. Only switch releases change state.
func (m *Machine) KeyUp(code constants.KeyCode) []Intent {
	switch code {
	case m.bindings.Yes:
		m.state.SwitchA = false
	case m.bindings.No:
		m.state.SwitchB = false
	}
	return nil
}

// MouseDown applies a button press. Left acts as switch A and right as
// switch B; holding both exits.
func (m *Machine) MouseDown(b MouseButton) []Intent {
	if m.state.Exited {
		return nil
	}

	var intents []Intent
	switch b {
	case MouseLeft:
		m.state.MouseLeft = true
		intents = m.toggleTop("mouse-left")
	case MouseRight:
		m.state.MouseRight = true
		intents = m.toggleBottom("mouse-right")
	default:
		return nil
	}

	if m.state.MouseLeft && m.state.MouseRight {
		intents = append(intents, m.exit("mouse-chord")...)
	}
	return intents
}

func (m *Machine) MouseUp(b MouseButton) []Intent {
	switch b {
	case MouseLeft:
		m.state.MouseLeft = false
	case MouseRight:
		m.state.MouseRight = false
	}
	return nil
}

// Retarget points the state at t without emitting a fetch.
func (m *Machine) Retarget(t fetch.Target) {
	m.state.Page = t.Page
	m.state.Subpage = t.Subpage
}

// PageShown resets the zoom after a new page image is displayed.
func (m *Machine) PageShown() []Intent {
	if m.state.Exited || m.state.Mode == NoZoom {
		return nil
	}
	m.state.Mode = NoZoom
	return []Intent{changeZoom(NoZoom)}
}

// ClearDigits empties the page number being typed.
func (m *Machine) ClearDigits() {
	m.state.Digits = ""
}

// Quit moves the machine to its terminal state. It emits ExitApplication
// once; later calls return nil.
func (m *Machine) Quit(reason string) []Intent {
	if m.state.Exited {
		return nil
	}
	return m.exit(reason)
}

func (m *Machine) toggleTop(source string) []Intent {
	next := ZoomTopLeft
	if m.state.Mode == ZoomTopLeft {
		next = ZoomTopRight
	}
	m.state.Mode = next
	m.logger.Info("Switch", "source", source, "mode", next.String())
	return []Intent{changeZoom(next)}
}

func (m *Machine) toggleBottom(source string) []Intent {
	next := ZoomBottomLeft
	if m.state.Mode == ZoomBottomLeft {
		next = ZoomBottomRight
	}
	m.state.Mode = next
	m.logger.Info("Switch", "source", source, "mode", next.String())
	return []Intent{changeZoom(next)}
}

func (m *Machine) say() []Intent {
	if m.state.Mode == NoZoom {
		return m.goTo(m.state.Page, m.state.Subpage+1, m.bindings.Say)
	}
	return m.setMode(NoZoom, m.bindings.Say)
}

func (m *Machine) setMode(mode ScanMode, code constants.KeyCode) []Intent {
	m.state.Mode = mode
	m.logger.Info("Keypress", "key", code.GetName(), "mode", mode.String())
	return []Intent{changeZoom(mode)}
}

func (m *Machine) goTo(page, subpage int, code constants.KeyCode) []Intent {
	m.state.Page = page
	m.state.Subpage = subpage
	t := m.state.Target()
	m.logger.Info("Keypress", "key", code.GetName(), "target", t.String())
	return []Intent{goToPage(t)}
}

// digit appends r to the page number buffer. A full buffer selects subpage 1
// of that page and clears the buffer.
func (m *Machine) digit(r rune) []Intent {
	buf := m.state.Digits + string(r)
	if len(buf) > constants.MaxDigits {
		buf = buf[len(buf)-constants.MaxDigits:]
	}
	m.state.Digits = buf
	m.state.Subpage = 1

	intents := []Intent{enterDigit(buf)}
	if len(buf) < constants.MaxDigits {
		return intents
	}

	page, err := strconv.Atoi(buf)
	if err != nil || page < 0 {
		m.logger.Warn("Ignoring page number", "digits", buf, "error", errors.Join(ErrMalformedDigits, err))
		return intents
	}

	m.state.Digits = ""
	m.state.Page = page
	t := m.state.Target()
	m.logger.Info("Page number entered", "target", t.String())
	return append(intents, goToPage(t))
}

func (m *Machine) exit(reason string) []Intent {
	m.state.Exited = true
	m.state.Mode = Quit
	m.logger.Info("Exit requested", "reason", reason)
	return []Intent{exitApplication(reason)}
}
