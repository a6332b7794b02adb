package commands

import (
	"log/slog"
	"os"

	"github.com/alecthomas/kong"
)

// Global context passed to subcommands if we need to share global state later.
type Global struct {
	Logger *slog.Logger
}

// CLI definition & global flags.
type CLI struct {
	Config  string           `short:"c" help:"Configuration file path" default:"restdoc.yaml"`
	Verbose bool             `short:"v" help:"Enable verbose logging"`
	Version kong.VersionFlag `name:"version" help:"Show version and exit"`

	Init       InitCmd    `cmd:"" help:"Initialize a new configuration file"`
	Lint       LintCmd    `cmd:"" help:"Lint the article"`
	Build      BuildCmd   `cmd:"" help:"Build the article into a static site"`
	Serve      ServeCmd   `cmd:"" help:"Serve the site with live reload and the playground API"`
	History    HistoryCmd `cmd:"" help:"Show recorded build and lint runs"`
	VersionCmd VersionCmd `cmd:"" name:"version" help:"Show the build version"`
}

// AfterApply runs after flag parsing; setup logging once.
func (c *CLI) AfterApply() error {
	level := slog.LevelInfo
	if c.Verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)
	return nil
}
