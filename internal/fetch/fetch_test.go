package fetch

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-git/go-git/v5"
	gitobject "github.com/go-git/go-git/v5/plumbing/object"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/restdoc/internal/config"
)

// newUpstream creates a local repository with one committed article file so
// Sync can clone it without network access.
func newUpstream(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()

	repo, err := git.PlainInit(dir, false)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "rest-apis.md"), []byte("# Article\n"), 0o644))

	wt, err := repo.Worktree()
	require.NoError(t, err)
	_, err = wt.Add("rest-apis.md")
	require.NoError(t, err)
	_, err = wt.Commit("add article", &git.CommitOptions{
		Author: &gitobject.Signature{Name: "test", Email: "test@example.com", When: time.Now()},
	})
	require.NoError(t, err)
	return dir
}

func TestSync_ClonesOnFirstUseAndPullsAfterwards(t *testing.T) {
	upstream := newUpstream(t)
	workspace := filepath.Join(t.TempDir(), "checkout")

	src := config.GitSourceConfig{URL: upstream, Workspace: workspace}

	path, err := Sync(context.Background(), src)
	require.NoError(t, err)
	require.Equal(t, workspace, path)
	require.FileExists(t, filepath.Join(workspace, "rest-apis.md"))

	// Second sync takes the pull path and tolerates "already up to date".
	path, err = Sync(context.Background(), src)
	require.NoError(t, err)
	require.Equal(t, workspace, path)
}

func TestSync_EmptyURL_Fails(t *testing.T) {
	_, err := Sync(context.Background(), config.GitSourceConfig{Workspace: t.TempDir()})
	require.Error(t, err)
}
