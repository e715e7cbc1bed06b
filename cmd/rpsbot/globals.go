package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/charmbracelet/log"

	"github.com/lox/rpsbot/internal/config"
	"github.com/lox/rpsbot/internal/game"
	"github.com/lox/rpsbot/internal/randutil"
)

// Globals are flags shared by every command
type Globals struct {
	Config   string `short:"c" default:"rpsbot.hcl" type:"path" help:"Path to HCL config file"`
	LogLevel string `help:"Override the configured log level (debug, info, warn, error)"`
}

// loadConfig reads and validates the config file, applying flag overrides
func (g *Globals) loadConfig() (*config.Config, error) {
	cfg, err := config.Load(g.Config)
	if err != nil {
		return nil, err
	}
	if g.LogLevel != "" {
		cfg.Log.Level = g.LogLevel
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", g.Config, err)
	}
	return cfg, nil
}

func newLogger(w io.Writer, cfg *config.Config) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		Level:           cfg.LogLevel(),
		ReportTimestamp: true,
		TimeFormat:      "15:04:05",
	})
}

// controllerOptions builds the options every command shares. A zero seed
// picks one from the clock and logs it so a run can be replayed.
func controllerOptions(cfg *config.Config, logger *log.Logger) ([]game.ControllerOption, error) {
	delay, err := cfg.Delay()
	if err != nil {
		return nil, err
	}

	seed := cfg.Game.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
		logger.Debug("Using random seed", "seed", seed)
	} else {
		logger.Info("Using deterministic seed", "seed", seed)
	}

	return []game.ControllerOption{
		game.WithDelay(delay),
		game.WithPicker(randutil.NewPicker(seed)),
	}, nil
}

// signalContext is cancelled on interrupt or SIGTERM
func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}
