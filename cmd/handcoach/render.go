package main

import (
	"fmt"
	"os"

	"github.com/lox/handcoach/internal/fileutil"
)

type RenderCmd struct {
	File string `arg:"" type:"existingfile" help:"Scenario file (HCL)"`
	Out  string `short:"o" help:"Write the document to this file instead of stdout"`
}

func (c *RenderCmd) Run(g *Globals) error {
	cfg, err := g.load()
	if err != nil {
		return err
	}
	logger := newLogger(os.Stderr, cfg)

	sess, err := replay(c.File, cfg, logger)
	if err != nil {
		return err
	}
	doc := sess.Preview()

	if c.Out == "" {
		_, err := fmt.Fprint(os.Stdout, doc)
		return err
	}
	if err := fileutil.WriteFileAtomic(c.Out, []byte(doc), 0o644); err != nil {
		return err
	}
	logger.Info("Wrote document", "file", c.Out, "step", sess.Step())
	return nil
}
