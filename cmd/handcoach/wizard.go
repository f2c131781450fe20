package main

import (
	"fmt"
	"os"

	"github.com/coder/quartz"
	"github.com/lox/handcoach/internal/history"
	"github.com/lox/handcoach/internal/scenario"
	"github.com/lox/handcoach/internal/session"
	"github.com/lox/handcoach/internal/tui"
)

type WizardCmd struct {
	LogFile  string `help:"Log file (overrides config)"`
	Scenario string `help:"Start from a scenario file instead of an empty hand"`
}

func (c *WizardCmd) Run(g *Globals) error {
	cfg, err := g.load()
	if err != nil {
		return err
	}
	if c.LogFile != "" {
		cfg.UI.LogFile = c.LogFile
	}

	// stdout and stderr belong to the terminal UI
	logFile, err := os.OpenFile(cfg.UI.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}
	defer func() { _ = logFile.Close() }()

	logger := newLogger(logFile, cfg)
	logger.Info("Starting wizard", "locale", cfg.UI.Locale, "version", version)

	sess := session.New(logger, history.ForLocale(cfg.UI.Locale))
	if c.Scenario != "" {
		f, err := scenario.Load(c.Scenario)
		if err != nil {
			return err
		}
		if err := scenario.Replay(sess, f); err != nil {
			return fmt.Errorf("%s: %w", c.Scenario, err)
		}
	}

	ctx, cancel := signalContext(logger)
	defer cancel()

	clock := quartz.NewReal()
	model := tui.NewModel(ctx, sess, logger, tui.Options{
		Analyzer: newAnalyzer(cfg, logger, clock),
		Clock:    clock,
	})
	return tui.Run(ctx, model)
}
