package commands

import (
	"log/slog"

	"git.home.luguber.info/inful/restdoc/internal/config"
)

// InitCmd implements the 'init' command.
type InitCmd struct {
	Force       bool `help:"Overwrite existing files"`
	WithArticle bool `help:"Also write a starter article at the default content path"`
}

func (i *InitCmd) Run(_ *Global, root *CLI) error {
	slog.Info("Initializing configuration", "path", root.Config, "force", i.Force)
	if err := config.Init(root.Config, i.Force); err != nil {
		return err
	}
	if i.WithArticle {
		slog.Info("Writing starter article", "path", config.DefaultArticlePath)
		return config.InitArticle(config.DefaultArticlePath, i.Force)
	}
	return nil
}
