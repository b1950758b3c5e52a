// Package teletekst is an accessibility teletext viewer for kiosk use. It
// shows NOS teletekst page images full screen and lets switch, eye-gaze and
// keyboard users zoom into page quadrants, step through subpages and type page
// numbers. Switch keys are captured system-wide so they work while another
// application has focus.
//
// The package handles SDL initialization and the event loop; navigation,
// fetching and input interception live in the subpackages.
package teletekst

import (
	"log/slog"
	"os"

	"github.com/kiep/teletekst/pkg/teletekst/config"
	"github.com/kiep/teletekst/pkg/teletekst/constants"
	"github.com/kiep/teletekst/pkg/teletekst/fetch"
	"github.com/kiep/teletekst/pkg/teletekst/hook"
	"github.com/kiep/teletekst/pkg/teletekst/internal"
	"github.com/kiep/teletekst/pkg/teletekst/platform/kiep"
)

// Options configures the viewer.
type Options struct {
	WindowTitle string         // Window title displayed in windowed mode
	Config      *config.Config // Defaults are used when nil
	ConfigPath  string         // When set, the file is watched and changes are applied live
	LogPath     string         // Full path for log file including filename (creates parent directories)
	Theme       *internal.Theme
	Tap         hook.Tap      // Keyboard tap; the platform's system tap when nil
	Fetcher     fetch.Fetcher // Page image source; HTTP when nil
}

var options Options

// Init sets up logging, the theme and the SDL window.
// Must be called before Run.
func Init(opts Options) error {
	if opts.Config == nil {
		opts.Config = config.Default()
	}
	cfg := opts.Config

	if opts.LogPath == "" {
		opts.LogPath = cfg.Log.Path
	}
	internal.SetLogPath(opts.LogPath)

	level := cfg.Log.Level
	if env := os.Getenv(constants.LogLevelEnvVar); env != "" {
		level = env
	}
	internal.SetRawLogLevel(level)

	if opts.Theme != nil {
		internal.SetTheme(*opts.Theme)
	} else {
		internal.SetTheme(kiep.InitKiepTheme(cfg.Window.FontPath))
	}

	if opts.WindowTitle == "" {
		opts.WindowTitle = "Teletekst"
	}

	if err := internal.Init(opts.WindowTitle, internal.KioskWindowOptions(cfg.Window)); err != nil {
		return NewInfrastructureError("init_sdl", err)
	}

	options = opts
	return nil
}

// Close releases all SDL resources and closes the log file.
// Must be called before program exit.
func Close() {
	internal.SDLCleanup()
}

// SetLogPath sets the full path for the log file, including filename.
// Call before Init() to take effect during initialization.
func SetLogPath(path string) {
	internal.SetLogPath(path)
}

// GetLogger returns the application logger for structured logging.
func GetLogger() *slog.Logger {
	return internal.GetLogger()
}

// SetLogLevel sets the minimum log level for the application logger.
func SetLogLevel(level slog.Level) {
	internal.SetLogLevel(level)
}

// SetRawLogLevel parses and sets the log level from a string (e.g., "debug", "info", "error").
func SetRawLogLevel(level string) {
	internal.SetRawLogLevel(level)
}
