package commands

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"git.home.luguber.info/inful/restdoc/internal/article"
	"git.home.luguber.info/inful/restdoc/internal/config"
	"git.home.luguber.info/inful/restdoc/internal/lint"
)

// LintCmd implements the 'lint' command.
type LintCmd struct {
	Format string `short:"f" default:"text" help:"Output format (text or json)" enum:"text,json"`
	Quiet  bool   `short:"q" help:"Quiet mode: only show errors, suppress warnings"`
	Fix    bool   `help:"Automatically fix issues where possible"`
	DryRun bool   `help:"Show what would be fixed without applying changes (requires --fix)"`
}

func (l *LintCmd) Run(_ *Global, root *CLI) error {
	if l.DryRun && !l.Fix {
		return errors.New("--dry-run requires --fix flag")
	}

	cfg, err := config.Load(root.Config)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	a, err := article.Load(cfg.ArticlePath())
	if err != nil {
		return fmt.Errorf("load article: %w", err)
	}

	if l.Fix {
		return runFixer(a, l.DryRun)
	}

	linter := lint.New(lint.Config{
		Quiet:      l.Quiet,
		ContentDir: filepath.Dir(cfg.ArticlePath()),
	})
	result := linter.Check(a)

	formatter := lint.NewFormatter(l.Format)
	if err := formatter.Format(os.Stdout, result); err != nil {
		return fmt.Errorf("format output: %w", err)
	}

	// Exit codes: 2 blocks builds, 1 flags warnings.
	if result.HasErrors() {
		os.Exit(2)
	}
	if result.Count(lint.SeverityWarning) > 0 && !l.Quiet {
		os.Exit(1)
	}
	return nil
}

// runFixer applies the automatic fixes and reports what changed.
func runFixer(a *article.Article, dryRun bool) error {
	result, err := lint.Fix(a, time.Now(), dryRun)
	if err != nil {
		return fmt.Errorf("fixing failed: %w", err)
	}

	if dryRun {
		fmt.Fprintln(os.Stdout, "DRY RUN: No changes will be applied")
	}
	if result.UIDAdded {
		fmt.Fprintln(os.Stdout, "uid: added")
	}
	if result.FingerprintUpdated {
		fmt.Fprintln(os.Stdout, "fingerprint: updated (lastmod refreshed)")
	}
	if !result.UIDAdded && !result.FingerprintUpdated {
		fmt.Fprintln(os.Stdout, "Nothing to fix")
	} else if result.Saved {
		fmt.Fprintf(os.Stdout, "Saved %s\n", a.Path)
	}
	return nil
}
