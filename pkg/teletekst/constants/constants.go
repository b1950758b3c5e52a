// Package constants defines shared constants, key codes, and configuration values
// used throughout the teletekst viewer.
package constants

import (
	"os"
	"time"
)

// Development is the environment variable value for development mode.
const Development = "DEV"

// Environment variables understood by the viewer.
const (
	EnvironmentEnvVar = "ENVIRONMENT"
	ConfigPathEnvVar  = "TELETEKST_CONFIG"
	LogLevelEnvVar    = "TELETEKST_LOG_LEVEL"
)

// IsDevMode returns true if running in development mode (ENVIRONMENT=DEV).
// Dev mode runs windowed and never top-most so a debugger stays reachable.
func IsDevMode() bool {
	return os.Getenv(EnvironmentEnvVar) == Development
}

// KeyCode identifies a physical key as reported by the operating system.
// On Linux these are the input event codes from linux/input-event-codes.h.
type KeyCode uint16

// Recognised key codes.
const (
	KeyEscape   KeyCode = 1
	Key1        KeyCode = 2
	Key2        KeyCode = 3
	Key3        KeyCode = 4
	Key4        KeyCode = 5
	Key5        KeyCode = 6
	Key6        KeyCode = 7
	Key7        KeyCode = 8
	Key8        KeyCode = 9
	Key9        KeyCode = 10
	Key0        KeyCode = 11
	KeyTab      KeyCode = 15
	KeyEnter    KeyCode = 28
	KeyAsterisk KeyCode = 55 // keypad *
	KeySpace    KeyCode = 57
	KeyKP7      KeyCode = 71
	KeyKP8      KeyCode = 72
	KeyKP9      KeyCode = 73
	KeyKPMinus  KeyCode = 74
	KeyKP4      KeyCode = 75
	KeyKP5      KeyCode = 76
	KeyKP6      KeyCode = 77
	KeyKPPlus   KeyCode = 78
	KeyKP1      KeyCode = 79
	KeyKP2      KeyCode = 80
	KeyKP3      KeyCode = 81
	KeyKP0      KeyCode = 82
	KeyKPEnter  KeyCode = 96
	KeyKPSlash  KeyCode = 98
	KeyUp       KeyCode = 103
	KeyPageUp   KeyCode = 104
	KeyLeft     KeyCode = 105
	KeyRight    KeyCode = 106
	KeyDown     KeyCode = 108
	KeyPageDown KeyCode = 109
)

// Default switch bindings. Switch interfaces and eye-gaze software emit these
// keypad keys so they never collide with regular typing.
const (
	DefaultKeyYes      = KeyKPMinus
	DefaultKeyNo       = KeyAsterisk
	DefaultKeySay      = KeyKPSlash
	DefaultKeyScanning = KeyKPPlus
)

var digitKeys = map[KeyCode]rune{
	Key0: '0', Key1: '1', Key2: '2', Key3: '3', Key4: '4',
	Key5: '5', Key6: '6', Key7: '7', Key8: '8', Key9: '9',
	KeyKP0: '0', KeyKP1: '1', KeyKP2: '2', KeyKP3: '3', KeyKP4: '4',
	KeyKP5: '5', KeyKP6: '6', KeyKP7: '7', KeyKP8: '8', KeyKP9: '9',
}

// Digit returns the decimal digit produced by the key, if any.
func (k KeyCode) Digit() (rune, bool) {
	d, ok := digitKeys[k]
	return d, ok
}

// GetName returns a readable name for logging.
func (k KeyCode) GetName() string {
	switch k {
	case KeyEscape:
		return "Escape"
	case KeyTab:
		return "Tab"
	case KeyEnter:
		return "Enter"
	case KeyKPEnter:
		return "KPEnter"
	case KeySpace:
		return "Space"
	case KeyAsterisk:
		return "KPAsterisk"
	case KeyKPMinus:
		return "KPMinus"
	case KeyKPPlus:
		return "KPPlus"
	case KeyKPSlash:
		return "KPSlash"
	case KeyUp:
		return "Up"
	case KeyDown:
		return "Down"
	case KeyLeft:
		return "Left"
	case KeyRight:
		return "Right"
	case KeyPageUp:
		return "PageUp"
	case KeyPageDown:
		return "PageDown"
	}
	if d, ok := k.Digit(); ok {
		return string(d)
	}
	return "Unknown"
}

// Page defaults.
const (
	DefaultPage    = 100
	DefaultSubpage = 1

	// DefaultURLTemplate is the NOS teletekst image endpoint. {subpage} is
	// zero-padded to two digits.
	DefaultURLTemplate = "http://nos.nl/data/teletekst/gif/P{page}_{subpage}.gif"

	// MaxDigits is the length of a full page number typed on the keypad.
	MaxDigits = 3
)

// Default timing constants.
const (
	// DefaultSubscribeDelay keeps the keystroke that launched the viewer from
	// being interpreted as the first command.
	DefaultSubscribeDelay = 1 * time.Second
	DefaultFetchTimeout   = 10 * time.Second
	DefaultQueueSize      = 256
	StatusSpinPeriod      = 3 * time.Second
	DefaultLogFile        = "KiepTeletext.log"
)
