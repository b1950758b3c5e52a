package teletekst

import "github.com/kiep/teletekst/pkg/teletekst/fetch"

// Result describes how a viewer session ended.
type Result struct {
	Reason string       // What ended the session (exit key name, "mouse-chord", "signal", ...)
	Last   fetch.Target // Page shown or requested last
	// KeyboardActive is false when the session ran mouse-only because the
	// global keyboard interceptor could not be installed.
	KeyboardActive bool
}
