package main

import (
	"github.com/alecthomas/kong"
)

// version is set by ldflags during build
var version = "dev"

// Globals are the flags shared by every command.
type Globals struct {
	Config string `short:"c" default:"handcoach.hcl" help:"Path to HCL configuration file"`
	Debug  bool   `help:"Enable debug logging"`
}

type CLI struct {
	Globals

	Version kong.VersionFlag `short:"v" help:"Show version"`
	Wizard  WizardCmd        `cmd:"" default:"1" help:"Enter a hand in the terminal wizard"`
	Render  RenderCmd        `cmd:"" help:"Print the analysis document for a scenario file"`
	Export  ExportCmd        `cmd:"" help:"Export a scenario file as a PHH hand history"`
	Analyze AnalyzeCmd       `cmd:"" help:"Send a scenario file for analysis"`
	Serve   ServeCmd         `cmd:"" help:"Run the WebSocket session server"`
}

func main() {
	var cli CLI
	ctx := kong.Parse(&cli,
		kong.Name("handcoach"),
		kong.Description("Poker hand history builder and analysis client"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
		}),
		kong.Vars{
			"version": version,
		},
		kong.Bind(&cli.Globals),
	)
	err := ctx.Run()
	ctx.FatalIfErrorf(err)
}
