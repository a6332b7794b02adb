// Package fetch pulls a git-hosted article source into the local workspace.
package fetch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"

	"git.home.luguber.info/inful/restdoc/internal/config"
)

// Sync makes the workspace match the configured source: clone on first use,
// pull afterwards. It returns the checkout path.
func Sync(ctx context.Context, src config.GitSourceConfig) (string, error) {
	if src.URL == "" {
		return "", errors.New("git source has no url")
	}

	if _, err := os.Stat(src.Workspace); os.IsNotExist(err) {
		return clone(ctx, src)
	}
	return pull(ctx, src)
}

func clone(ctx context.Context, src config.GitSourceConfig) (string, error) {
	slog.Info("Cloning article source", "url", src.URL, "branch", src.Branch, "workspace", src.Workspace)

	opts := &git.CloneOptions{
		URL:          src.URL,
		SingleBranch: true,
	}
	if src.Branch != "" {
		opts.ReferenceName = plumbing.ReferenceName("refs/heads/" + src.Branch)
	}

	repo, err := git.PlainCloneContext(ctx, src.Workspace, false, opts)
	if err != nil {
		return "", fmt.Errorf("clone %s: %w", src.URL, err)
	}
	if ref, herr := repo.Head(); herr == nil {
		slog.Info("Article source cloned", "commit", ref.Hash().String()[:8])
	}
	return src.Workspace, nil
}

func pull(ctx context.Context, src config.GitSourceConfig) (string, error) {
	repo, err := git.PlainOpen(src.Workspace)
	if err != nil {
		return "", fmt.Errorf("open workspace %s: %w", src.Workspace, err)
	}
	wt, err := repo.Worktree()
	if err != nil {
		return "", fmt.Errorf("worktree: %w", err)
	}

	err = wt.PullContext(ctx, &git.PullOptions{SingleBranch: true})
	if err != nil && !errors.Is(err, git.NoErrAlreadyUpToDate) {
		return "", fmt.Errorf("pull %s: %w", src.URL, err)
	}
	if errors.Is(err, git.NoErrAlreadyUpToDate) {
		slog.Debug("Article source already up to date", "workspace", src.Workspace)
	} else {
		slog.Info("Article source updated", "workspace", src.Workspace)
	}
	return src.Workspace, nil
}
