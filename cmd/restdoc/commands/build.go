package commands

import (
	"context"
	"fmt"
	"log/slog"

	"git.home.luguber.info/inful/restdoc/internal/build"
	"git.home.luguber.info/inful/restdoc/internal/config"
	"git.home.luguber.info/inful/restdoc/internal/metrics"
)

// BuildCmd implements the 'build' command.
type BuildCmd struct {
	Output string `short:"o" help:"Output directory for the generated site (overrides config)"`
}

func (b *BuildCmd) Run(_ *Global, root *CLI) error {
	cfg, err := config.Load(root.Config)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if b.Output != "" {
		cfg.Output.Directory = b.Output
	}

	runner := build.NewRunner(cfg, metrics.NewRecorder(nil), nil, false)
	outcome, err := runner.Run(context.Background())
	if err != nil {
		return err
	}

	slog.Info("Site written",
		"output", cfg.Output.Directory,
		"hash", outcome.Page.Hash,
		"duration", outcome.Duration)
	return nil
}
