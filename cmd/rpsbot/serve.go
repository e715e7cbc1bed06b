package main

import (
	"context"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"github.com/lox/rpsbot/internal/server"
)

// ServeCmd serves games over WebSocket
type ServeCmd struct {
	Addr        string        `help:"Listen address, overriding the config (host:port)"`
	StatsPeriod time.Duration `default:"1m" help:"How often to log the session count (0 disables)"`
}

func (c *ServeCmd) Run(g *Globals) error {
	cfg, err := g.loadConfig()
	if err != nil {
		return err
	}
	logger := newLogger(os.Stderr, cfg)

	table, err := cfg.Table()
	if err != nil {
		return err
	}
	opts, err := controllerOptions(cfg, logger)
	if err != nil {
		return err
	}

	addr := c.Addr
	if addr == "" {
		addr = cfg.ListenAddr()
	}
	srv := server.NewServer(addr, table, logger, opts...)

	logger.Info("Starting rpsbot server",
		"address", addr,
		"choices", table.Names(),
		"delay", cfg.Game.Delay,
		"validation", cfg.Game.Validation)

	ctx, stop := signalContext()
	defer stop()

	eg, ctx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		return srv.Serve(ctx)
	})
	if c.StatsPeriod > 0 {
		eg.Go(func() error {
			return logSessions(ctx, srv, logger, c.StatsPeriod)
		})
	}

	if err := eg.Wait(); err != nil {
		return err
	}
	logger.Info("Server stopped")
	return nil
}

func logSessions(ctx context.Context, srv *server.Server, logger *log.Logger, period time.Duration) error {
	ticker := time.NewTicker(period)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			logger.Info("Active sessions", "count", srv.SessionCount())
		}
	}
}
