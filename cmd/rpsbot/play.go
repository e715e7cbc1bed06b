package main

import (
	"fmt"
	"os"

	"github.com/muesli/termenv"

	"github.com/lox/rpsbot/internal/game"
	"github.com/lox/rpsbot/internal/prefs"
	"github.com/lox/rpsbot/internal/tui"
)

// PlayCmd runs the interactive terminal game
type PlayCmd struct {
	Theme string `help:"Start with this theme and save it (dark, light)"`
}

func (c *PlayCmd) Run(g *Globals) error {
	if c.Theme != "" {
		if _, err := prefs.ParseTheme(c.Theme); err != nil {
			return err
		}
	}

	cfg, err := g.loadConfig()
	if err != nil {
		return err
	}

	// stdout belongs to the TUI, so logs go to a file
	logFile, err := os.OpenFile(cfg.Log.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}
	defer func() { _ = logFile.Close() }()
	logger := newLogger(logFile, cfg)

	table, err := cfg.Table()
	if err != nil {
		return err
	}
	opts, err := controllerOptions(cfg, logger)
	if err != nil {
		return err
	}

	store := prefs.NewFileStore(cfg.Prefs.File)
	theme, err := c.theme(store)
	if err != nil {
		logger.Warn("Failed to load theme preference", "path", store.Path(), "error", err)
	}

	ctx, stop := signalContext()
	defer stop()

	ctrl := game.NewController(table, logger, opts...)
	return tui.Run(ctx, ctrl, store, theme, logger)
}

// theme resolves the starting theme: the flag wins and is saved, then the
// stored preference, then the terminal background.
func (c *PlayCmd) theme(store prefs.Store) (prefs.Theme, error) {
	if c.Theme != "" {
		theme, err := prefs.ParseTheme(c.Theme)
		if err != nil {
			return prefs.Dark, err
		}
		return theme, prefs.SaveTheme(store, theme)
	}
	return prefs.LoadTheme(store, terminalTheme())
}

func terminalTheme() prefs.Theme {
	if termenv.HasDarkBackground() {
		return prefs.Dark
	}
	return prefs.Light
}
