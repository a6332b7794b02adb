package main

import (
	"github.com/alecthomas/kong"

	"git.home.luguber.info/inful/restdoc/cmd/restdoc/commands"
	"git.home.luguber.info/inful/restdoc/internal/version"
)

func main() {
	var cli commands.CLI
	ctx := kong.Parse(&cli,
		kong.Name("restdoc"),
		kong.Description("Build, lint and serve the REST API article."),
		kong.UsageOnError(),
		kong.Vars{"version": version.Version},
	)
	err := ctx.Run(&commands.Global{})
	ctx.FatalIfErrorf(err)
}
