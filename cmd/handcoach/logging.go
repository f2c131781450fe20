package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"github.com/lox/handcoach/internal/analysis"
	"github.com/lox/handcoach/internal/config"
	"github.com/lox/handcoach/internal/history"
	"github.com/lox/handcoach/internal/scenario"
	"github.com/lox/handcoach/internal/session"
)

// load reads the configuration named by the global flags.
func (g *Globals) load() (*config.Config, error) {
	cfg, err := config.Load(g.Config)
	if err != nil {
		return nil, err
	}
	if g.Debug {
		cfg.UI.LogLevel = "debug"
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", g.Config, err)
	}
	return cfg, nil
}

func newLogger(w io.Writer, cfg *config.Config) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05",
		Level:           cfg.LogLevel(),
	})
}

// newAnalyzer returns the analysis client, or nil when no API key is set.
func newAnalyzer(cfg *config.Config, logger *log.Logger, clock quartz.Clock) analysis.Analyzer {
	if cfg.APIKey == "" {
		logger.Warn("No API key set, analysis disabled", "env", "HANDCOACH_API_KEY")
		return nil
	}
	return analysis.NewClient(analysis.Config{
		Endpoint:  cfg.Analysis.Endpoint,
		APIKey:    cfg.APIKey,
		Model:     cfg.Analysis.Model,
		MaxTokens: cfg.Analysis.MaxTokens,
		Timeout:   cfg.AnalysisTimeout(),
		Prompts:   analysis.PromptsFor(cfg.UI.Locale),
		Clock:     clock,
		Logger:    logger,
	})
}

// replay loads a scenario file into a fresh session.
func replay(filename string, cfg *config.Config, logger *log.Logger) (*session.Session, error) {
	f, err := scenario.Load(filename)
	if err != nil {
		return nil, err
	}
	sess := session.New(logger, history.ForLocale(cfg.UI.Locale))
	if err := scenario.Replay(sess, f); err != nil {
		return nil, fmt.Errorf("%s: %w", filename, err)
	}
	logger.Debug("Replayed scenario", "file", filename, "step", sess.Step())
	return sess, nil
}

// signalContext is cancelled on interrupt and logs the signal
func signalContext(logger *log.Logger) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		select {
		case sig := <-sigChan:
			logger.Info("Received signal, shutting down gracefully", "signal", sig.String())
			cancel()
		case <-ctx.Done():
		}
		signal.Stop(sigChan)
	}()

	return ctx, cancel
}
