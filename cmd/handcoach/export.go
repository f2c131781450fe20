package main

import (
	"io"
	"os"

	"github.com/google/uuid"
	"github.com/lox/handcoach/internal/fileutil"
	"github.com/lox/handcoach/internal/phh"
)

type ExportCmd struct {
	File string `arg:"" type:"existingfile" help:"Scenario file (HCL)"`
	Out  string `short:"o" help:"Write the PHH file here instead of stdout"`
	ID   string `help:"Hand identifier (defaults to a random UUID)"`
}

func (c *ExportCmd) Run(g *Globals) error {
	cfg, err := g.load()
	if err != nil {
		return err
	}
	logger := newLogger(os.Stderr, cfg)

	sess, err := replay(c.File, cfg, logger)
	if err != nil {
		return err
	}

	id := c.ID
	if id == "" {
		id = uuid.NewString()
	}
	h := phh.FromState(sess.State(), id)

	if c.Out == "" {
		return phh.Encode(os.Stdout, h)
	}
	err = fileutil.WriteAtomic(c.Out, 0o644, func(w io.Writer) error {
		return phh.Encode(w, h)
	})
	if err != nil {
		return err
	}
	logger.Info("Exported hand", "file", c.Out, "hand", id)
	return nil
}
