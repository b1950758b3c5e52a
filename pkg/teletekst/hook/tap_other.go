//go:build !linux

package hook

import "log/slog"

type unavailableTap struct{}

// NewSystemTap returns the keyboard tap for this platform.
func NewSystemTap(paths []string, logger *slog.Logger) Tap {
	return unavailableTap{}
}

func (unavailableTap) Install(Callback) error {
	return ErrNotAvailable
}

func (unavailableTap) Uninstall() error {
	return nil
}
