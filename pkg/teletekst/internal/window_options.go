package internal

import (
	"github.com/kiep/teletekst/pkg/teletekst/config"
	"github.com/veandco/go-sdl2/sdl"
)

type WindowOptions struct {
	Borderless        bool // Remove window decorations (SDL_WINDOW_BORDERLESS)
	Resizable         bool // Allow window resizing (SDL_WINDOW_RESIZABLE)
	FullscreenDesktop bool // Fullscreen at desktop resolution (SDL_WINDOW_FULLSCREEN_DESKTOP)
	AlwaysOnTop       bool // Window stays above others (SDL_WINDOW_ALWAYS_ON_TOP)
	Width, Height     int32
}

// KioskWindowOptions maps the [window] configuration. A full screen kiosk
// window is borderless and covers the desktop; otherwise the window is a
// resizable one of the configured size.
func KioskWindowOptions(cfg config.WindowConfig) WindowOptions {
	return WindowOptions{
		Borderless:        cfg.Fullscreen,
		Resizable:         !cfg.Fullscreen,
		FullscreenDesktop: cfg.Fullscreen,
		AlwaysOnTop:       cfg.AlwaysOnTop,
		Width:             cfg.Width,
		Height:            cfg.Height,
	}
}

func (wo WindowOptions) ToSDLFlags() uint32 {
	flags := uint32(sdl.WINDOW_SHOWN)

	if wo.Resizable {
		flags |= sdl.WINDOW_RESIZABLE
	}

	if wo.Borderless {
		flags |= sdl.WINDOW_BORDERLESS
	}

	if wo.FullscreenDesktop {
		flags |= sdl.WINDOW_FULLSCREEN_DESKTOP
	}

	if wo.AlwaysOnTop {
		flags |= sdl.WINDOW_ALWAYS_ON_TOP
	}

	return flags
}
