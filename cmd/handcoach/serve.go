package main

import (
	"context"
	"os"
	"time"

	"github.com/coder/quartz"
	"github.com/lox/handcoach/internal/history"
	"github.com/lox/handcoach/internal/server"
	"golang.org/x/sync/errgroup"
)

type ServeCmd struct {
	Addr string `short:"a" help:"Server address to bind to (overrides config)"`
}

func (c *ServeCmd) Run(g *Globals) error {
	cfg, err := g.load()
	if err != nil {
		return err
	}
	logger := newLogger(os.Stderr, cfg)

	addr := cfg.GetServerAddress()
	if c.Addr != "" {
		addr = c.Addr
	}

	clock := quartz.NewReal()
	s := server.NewServer(addr, logger, server.Options{
		Analyzer:    newAnalyzer(cfg, logger, clock),
		Labels:      history.ForLocale(cfg.UI.Locale),
		Clock:       clock,
		IdleTimeout: cfg.IdleTimeout(),
	})

	ctx, cancel := signalContext(logger)
	defer cancel()

	eg, ctx := errgroup.WithContext(ctx)
	eg.Go(s.Start)
	eg.Go(func() error {
		<-ctx.Done()
		shutdownCtx, done := context.WithTimeout(context.Background(), 5*time.Second)
		defer done()
		return s.Stop(shutdownCtx)
	})

	logger.Info("Serving hand sessions", "addr", addr, "ws", "ws://"+addr+"/ws")
	return eg.Wait()
}
