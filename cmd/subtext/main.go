package main

import (
	"os"

	"github.com/alecthomas/kong"

	"git.home.luguber.info/inful/subtext/cmd/subtext/commands"
	"git.home.luguber.info/inful/subtext/internal/foundation/errors"
	"git.home.luguber.info/inful/subtext/internal/version"
)

func main() {
	cli := &commands.CLI{}
	global := &commands.Global{Out: os.Stdout, In: os.Stdin}
	ctx := kong.Parse(cli,
		kong.Name("subtext"),
		kong.Description("Parse Subtext notes into typed blocks and spans."),
		kong.UsageOnError(),
		kong.Vars{"version": version.String()},
	)
	if err := ctx.Run(global, cli); err != nil {
		errors.NewCLIErrorAdapter(cli.Verbose, nil).HandleError(err)
	}
}
