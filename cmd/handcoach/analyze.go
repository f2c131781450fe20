package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/coder/quartz"
	"github.com/lox/handcoach/internal/analysis"
	"github.com/lox/handcoach/internal/wizard"
)

type AnalyzeCmd struct {
	File string   `arg:"" type:"existingfile" help:"Scenario file (HCL)"`
	Ask  []string `help:"Follow-up question, asked after the first reply (repeatable)"`
}

func (c *AnalyzeCmd) Run(g *Globals) error {
	cfg, err := g.load()
	if err != nil {
		return err
	}
	logger := newLogger(os.Stderr, cfg)

	clock := quartz.NewReal()
	analyzer := newAnalyzer(cfg, logger, clock)
	if analyzer == nil {
		return errors.New("analysis needs an API key: set HANDCOACH_API_KEY or ANTHROPIC_API_KEY")
	}

	sess, err := replay(c.File, cfg, logger)
	if err != nil {
		return err
	}
	if sess.Step() != wizard.Review {
		logger.Warn("Hand is incomplete, sending it as entered", "step", sess.Step())
	}

	conv, err := analysis.NewConversation(clock, sess.Preview())
	if err != nil {
		return err
	}

	ctx, cancel := signalContext(logger)
	defer cancel()

	questions := append([]string{""}, c.Ask...)
	for i, q := range questions {
		if i > 0 {
			if err := conv.Ask(q); err != nil {
				return err
			}
			fmt.Printf("\n> %s\n\n", q)
		}
		turn, err := analysis.Exchange(ctx, analyzer, conv)
		if err != nil {
			return fmt.Errorf("analysis failed: %w", err)
		}
		fmt.Println(turn.Content)
	}
	return nil
}
