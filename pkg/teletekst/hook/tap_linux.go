//go:build linux

package hook

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	evdev "github.com/holoplot/go-evdev"
	"github.com/kiep/teletekst/pkg/teletekst/constants"
	"go.uber.org/atomic"
)

const (
	virtualDeviceName = "teletekst pass-through keyboard"

	keyReleased = 0
)

// EvdevTap grabs keyboards exclusively so no other consumer sees their events,
// then re-injects every transition the callback passes through on a uinput
// keyboard. Suppressed transitions are simply not re-injected.
type EvdevTap struct {
	paths  []string
	logger *slog.Logger

	dispatchMu sync.Mutex // one callback at a time across all devices
	writeMu    sync.Mutex
	devices    []*evdev.InputDevice
	virtual    *evdev.InputDevice
	cb         Callback
	closing    atomic.Bool
	wg         sync.WaitGroup
}

// NewSystemTap returns the keyboard tap for this platform. paths lists
// explicit event devices; when empty, keyboards are detected.
func NewSystemTap(paths []string, logger *slog.Logger) Tap {
	if logger == nil {
		logger = slog.Default()
	}
	return &EvdevTap{paths: paths, logger: logger}
}

// Install opens and grabs the keyboards and starts one reader per device.
func (t *EvdevTap) Install(cb Callback) error {
	paths := t.paths
	if len(paths) == 0 {
		found, err := findKeyboards()
		if err != nil {
			return fmt.Errorf("%w: %v", ErrNotAvailable, err)
		}
		paths = found
	}
	if len(paths) == 0 {
		return fmt.Errorf("%w: no keyboard devices found", ErrNotAvailable)
	}

	var devices []*evdev.InputDevice
	capSet := make(map[evdev.EvCode]struct{})
	for _, p := range paths {
		dev, err := evdev.Open(p)
		if err != nil {
			t.logger.Warn("Cannot open input device", "path", p, "error", err)
			continue
		}
		for _, code := range dev.CapableEvents(evdev.EV_KEY) {
			capSet[code] = struct{}{}
		}
		devices = append(devices, dev)
	}
	if len(devices) == 0 {
		return fmt.Errorf("%w: cannot read keyboard devices (need to be in 'input' group or run as root)", ErrNotAvailable)
	}

	caps := make([]evdev.EvCode, 0, len(capSet))
	for code := range capSet {
		caps = append(caps, code)
	}

	virtual, err := evdev.CreateDevice(virtualDeviceName,
		evdev.InputID{BusType: 0x03, Vendor: 0x4b49, Product: 0x4550, Version: 1},
		map[evdev.EvType][]evdev.EvCode{evdev.EV_KEY: caps})
	if err != nil {
		closeAll(devices)
		return fmt.Errorf("create pass-through device: %w", err)
	}

	for _, dev := range devices {
		if err := dev.Grab(); err != nil {
			closeAll(devices)
			virtual.Close()
			return fmt.Errorf("grab %s: %w", dev.Path(), err)
		}
	}

	t.cb = cb
	t.devices = devices
	t.virtual = virtual
	t.closing.Store(false)

	for _, dev := range devices {
		t.wg.Add(1)
		go t.readLoop(dev)
	}

	t.logger.Info("Grabbed keyboards", "count", len(devices))
	return nil
}

// Uninstall releases the grabs and removes the virtual keyboard.
func (t *EvdevTap) Uninstall() error {
	if t.devices == nil {
		return nil
	}
	t.closing.Store(true)

	var errs []error
	for _, dev := range t.devices {
		if err := dev.Ungrab(); err != nil {
			errs = append(errs, fmt.Errorf("ungrab %s: %w", dev.Path(), err))
		}
		if err := dev.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close %s: %w", dev.Path(), err))
		}
	}
	t.wg.Wait()

	t.writeMu.Lock()
	if t.virtual != nil {
		if err := t.virtual.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close pass-through device: %w", err))
		}
		t.virtual = nil
	}
	t.writeMu.Unlock()

	t.devices = nil
	t.cb = nil
	return errors.Join(errs...)
}

func (t *EvdevTap) readLoop(dev *evdev.InputDevice) {
	defer t.wg.Done()

	for {
		ev, err := dev.ReadOne()
		if err != nil {
			if !t.closing.Load() {
				t.logger.Warn("Keyboard read failed", "path", dev.Path(), "error", err)
			}
			return
		}
		t.dispatch(ev)
	}
}

func (t *EvdevTap) dispatch(ev *evdev.InputEvent) {
	switch ev.Type {
	case evdev.EV_KEY:
		dir := Down
		if ev.Value == keyReleased {
			dir = Up
		}

		t.dispatchMu.Lock()
		verdict := t.cb(Transition{Code: constants.KeyCode(ev.Code), Direction: dir, Time: time.Now()})
		t.dispatchMu.Unlock()

		if verdict == Suppress {
			return
		}
		t.forward(ev)
	case evdev.EV_SYN:
		t.forward(ev)
	}
}

func (t *EvdevTap) forward(ev *evdev.InputEvent) {
	t.writeMu.Lock()
	defer t.writeMu.Unlock()
	if t.virtual == nil {
		return
	}
	if err := t.virtual.WriteOne(ev); err != nil {
		t.logger.Debug("Pass-through write failed", "code", ev.Code, "error", err)
	}
}

// findKeyboards lists event devices that report the keys this viewer reacts to.
func findKeyboards() ([]string, error) {
	inputs, err := evdev.ListDevicePaths()
	if err != nil {
		return nil, err
	}

	var paths []string
	for _, in := range inputs {
		if in.Name == virtualDeviceName {
			continue
		}
		dev, err := evdev.Open(in.Path)
		if err != nil {
			continue
		}
		if isKeyboard(dev.CapableEvents(evdev.EV_KEY)) {
			paths = append(paths, in.Path)
		}
		dev.Close()
	}
	return paths, nil
}

func isKeyboard(codes []evdev.EvCode) bool {
	for _, c := range codes {
		switch constants.KeyCode(c) {
		case constants.KeyEnter, constants.KeyKPMinus, constants.KeySpace:
			return true
		}
	}
	return false
}

func closeAll(devices []*evdev.InputDevice) {
	for _, dev := range devices {
		dev.Close()
	}
}
