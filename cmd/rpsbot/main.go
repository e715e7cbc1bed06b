package main

import (
	"github.com/alecthomas/kong"
)

// version is set by ldflags during build
var version = "dev"

type CLI struct {
	Globals

	Version  kong.VersionFlag `short:"v" help:"Show version"`
	Play     PlayCmd          `cmd:"" default:"1" help:"Play against the bot in the terminal"`
	Serve    ServeCmd         `cmd:"" help:"Serve games to browser clients over WebSocket"`
	Simulate SimulateCmd      `cmd:"" help:"Play rounds headlessly and print the tally"`
	Check    CheckCmd         `cmd:"" help:"Validate a config file and print the choice table"`
}

func main() {
	var cli CLI
	ctx := kong.Parse(&cli,
		kong.Name("rpsbot"),
		kong.Description("Rock, paper, scissors, stone against a bot"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
		}),
		kong.Vars{
			"version": version,
		},
	)
	err := ctx.Run(&cli.Globals)
	ctx.FatalIfErrorf(err)
}
