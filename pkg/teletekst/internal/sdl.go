package internal

import (
	"fmt"

	"github.com/veandco/go-sdl2/img"
	"github.com/veandco/go-sdl2/sdl"
	"github.com/veandco/go-sdl2/ttf"
)

var window *Window

// Init starts SDL and opens the viewer window.
func Init(title string, winOpts WindowOptions) error {
	if err := sdl.Init(sdl.INIT_VIDEO | sdl.INIT_EVENTS); err != nil {
		return fmt.Errorf("init sdl: %w", err)
	}

	if err := img.Init(img.INIT_PNG | img.INIT_JPG); err != nil {
		GetLogger().Warn("SDL_image init incomplete, GIF pages still load", "error", err)
	}

	if err := ttf.Init(); err != nil {
		sdl.Quit()
		return fmt.Errorf("init ttf: %w", err)
	}

	sdl.SetHint(sdl.HINT_RENDER_SCALE_QUALITY, "1")

	w, err := initWindow(title, winOpts)
	if err != nil {
		ttf.Quit()
		img.Quit()
		sdl.Quit()
		return err
	}
	window = w
	return nil
}

func GetWindow() *Window {
	return window
}

func SDLCleanup() {
	if window != nil {
		window.closeWindow()
		window = nil
	}
	ttf.Quit()
	img.Quit()
	sdl.Quit()
	CloseLogger()
}
