package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/zeusync/sectorsim/internal/core/observability/log"
	"github.com/zeusync/sectorsim/internal/injector"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "sectorsim:", err)
		os.Exit(1)
	}
}

func run() error {
	configPath := flag.String("config", getEnv("SECTORSIM_CONFIG", ""), "path to a YAML config file")
	tickRate := flag.Int("tick-rate", getEnvInt("SECTORSIM_TICK_RATE", 0), "fixed steps per second (overrides config)")
	debugAddr := flag.String("debug-addr", getEnv("SECTORSIM_DEBUG_ADDR", ""), "listen address of the websocket snapshot feed")
	boxes := flag.Int("boxes", -1, "number of boxes in the demo scene (overrides config)")
	steps := flag.Uint64("steps", 0, "stop after this many steps (0 runs until interrupted)")
	logLevel := flag.String("log-level", "", "debug, info, warn, error or silent (overrides config)")
	flag.Parse()

	cfg, err := injector.LoadConfigFile(*configPath)
	if err != nil {
		return err
	}
	if *tickRate > 0 {
		cfg.Sim.TickRate = *tickRate
	}
	if *debugAddr != "" {
		cfg.Debug.ListenAddr = *debugAddr
	}
	if *boxes >= 0 {
		cfg.Scene.Boxes = *boxes
	}
	if *steps > 0 {
		cfg.Sim.MaxSteps = *steps
	}
	if *logLevel != "" {
		cfg.LogLevel = *logLevel
	}
	if err = cfg.Validate(); err != nil {
		return err
	}

	app, err := injector.InitializeApp(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = app.Logger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if app.Feed != nil {
		if err = app.Feed.Start(ctx); err != nil {
			return err
		}
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := app.Feed.Stop(shutdownCtx); err != nil && !errors.Is(err, context.DeadlineExceeded) {
				app.Logger.Warn("Debug feed shutdown failed", log.Error(err))
			}
		}()
	}

	app.Logger.Info("sectorsim starting",
		log.Int("bodies", app.Runner.State().Len()),
		log.Int("tick_rate", cfg.Sim.TickRate),
		log.String("broad_phase", cfg.Physics.BroadPhase),
		log.Int("workers", cfg.Physics.Workers),
	)

	if err = app.Runner.Run(ctx); err != nil {
		return err
	}

	final := app.Runner.State()
	app.Logger.Info("sectorsim stopped",
		log.Uint64("generation", final.Generation()),
		log.Uint64("checksum", final.Checksum()),
	)
	return nil
}
