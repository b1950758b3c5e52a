package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"syscall"

	"github.com/kiep/teletekst/pkg/teletekst"
	"github.com/kiep/teletekst/pkg/teletekst/config"
)

func init() {
	// SDL must run on the main thread.
	runtime.LockOSThread()
}

func main() {
	os.Exit(run())
}

func run() int {
	a, err := parseArgs(os.Args[1:], os.Stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}

	cfg, cfgErr := config.Load(a.configPath)
	if cfgErr != nil {
		cfg = config.Default()
	}
	a.apply(cfg)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := teletekst.Init(teletekst.Options{
		WindowTitle: "Teletekst",
		Config:      cfg,
		ConfigPath:  a.configPath,
		LogPath:     cfg.Log.Path,
	}); err != nil {
		fmt.Fprintf(os.Stderr, "teletekst: %v\n", err)
		teletekst.Close()
		return 1
	}
	defer teletekst.Close()

	logger := teletekst.GetLogger()
	if cfgErr != nil {
		logger.Error("Configuration rejected, using defaults", "path", a.configPath, "error", cfgErr)
	}
	for _, w := range a.warnings {
		logger.Warn("Command line", "warning", w)
	}

	result, err := teletekst.Run(ctx)
	if err != nil {
		logger.Error("Viewer failed", "error", err, "infrastructure", teletekst.IsInfrastructureError(err))
		return 1
	}

	logger.Info("Viewer closed",
		"reason", result.Reason,
		"page", result.Last.Page,
		"subpage", result.Last.Subpage,
		"keyboard", result.KeyboardActive)
	return 0
}
