package teletekst

import (
	"context"
	"time"

	"github.com/kiep/teletekst/pkg/teletekst/config"
	"github.com/kiep/teletekst/pkg/teletekst/constants"
	"github.com/kiep/teletekst/pkg/teletekst/dispatch"
	"github.com/kiep/teletekst/pkg/teletekst/fetch"
	"github.com/kiep/teletekst/pkg/teletekst/hook"
	"github.com/kiep/teletekst/pkg/teletekst/internal"
	"github.com/kiep/teletekst/pkg/teletekst/kiosk"
	"github.com/kiep/teletekst/pkg/teletekst/scan"
	"github.com/veandco/go-sdl2/sdl"
)

// Run shows the viewer until the user exits or ctx is cancelled. It must be
// called from the main goroutine after Init.
func Run(ctx context.Context) (Result, error) {
	logger := GetLogger()
	cfg := options.Config

	presenter, err := internal.NewPresenter(logger)
	if err != nil {
		return Result{}, NewInfrastructureError("create_presenter", err)
	}
	defer presenter.Destroy()

	tap := options.Tap
	if tap == nil {
		tap = hook.NewSystemTap(cfg.Input.Devices, logger)
	}
	fetcher := options.Fetcher
	if fetcher == nil {
		fetcher = fetch.NewHTTPFetcher(cfg.Page.Timeout.Duration)
	}

	queue := dispatch.New(constants.DefaultQueueSize, logger)
	app, err := kiosk.New(kiosk.Options{
		Config:      cfg,
		Interceptor: hook.New(tap, logger),
		Fetcher:     fetcher,
		Presenter:   presenter,
		Queue:       queue,
		Logger:      logger,
	})
	if err != nil {
		return Result{}, err
	}
	defer app.Close()

	if options.ConfigPath != "" {
		loader := config.NewLoader(options.ConfigPath, logger)
		loader.OnChange(app.ApplyConfig)
		if err := loader.Watch(ctx); err != nil {
			logger.Warn("Configuration changes will not be applied live", "path", options.ConfigPath, "error", err)
		}
	}

	if err := app.Start(ctx); err != nil {
		return Result{}, err
	}

	for !app.Exited() {
		handleEvents(app, presenter)
		queue.Drain()
		if app.Exited() {
			break
		}
		presenter.Render(time.Now())
	}

	return Result{
		Reason:         app.ExitReason(),
		Last:           app.State().Target(),
		KeyboardActive: app.KeyboardActive(),
	}, nil
}

// handleEvents waits one frame for window events. Keyboard events are not
// handled here: keys reach the viewer through the global interceptor.
func handleEvents(app *kiosk.App, presenter *internal.Presenter) {
	for event := sdl.WaitEventTimeout(16); event != nil; event = sdl.PollEvent() {
		switch e := event.(type) {
		case *sdl.QuitEvent:
			app.Quit("window closed")
		case *sdl.MouseButtonEvent:
			button := mouseButton(e.Button)
			if e.Type == sdl.MOUSEBUTTONDOWN {
				app.MouseDown(button)
			} else {
				app.MouseUp(button)
			}
		case *sdl.WindowEvent:
			if e.Event == sdl.WINDOWEVENT_SIZE_CHANGED {
				presenter.Resize()
				app.Relayout()
			}
		}
	}
}

func mouseButton(b uint8) scan.MouseButton {
	switch b {
	case sdl.BUTTON_LEFT:
		return scan.MouseLeft
	case sdl.BUTTON_RIGHT:
		return scan.MouseRight
	default:
		return scan.MouseOther
	}
}
