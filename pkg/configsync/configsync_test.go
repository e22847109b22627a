package configsync

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chatflow-dev/scenariorunner/pkg/config"
)

// newLocalRemote creates a throwaway repository on disk with one commit,
// standing in for a remote Git server so tests don't need network access.
func newLocalRemote(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()

	repo, err := git.PlainInit(dir, false)
	require.NoError(t, err)

	scenarioFile := filepath.Join(dir, "billing-escalation.yaml")
	require.NoError(t, os.WriteFile(scenarioFile, []byte("name: billing-escalation\n"), 0o644))

	wt, err := repo.Worktree()
	require.NoError(t, err)
	_, err = wt.Add("billing-escalation.yaml")
	require.NoError(t, err)
	_, err = wt.Commit("add scenario", &git.CommitOptions{
		Author: &object.Signature{Name: "test", Email: "test@example.com"},
	})
	require.NoError(t, err)

	return dir
}

func TestSyncer_Sync_ClonesOnFirstRun(t *testing.T) {
	remote := newLocalRemote(t)
	localPath := filepath.Join(t.TempDir(), "mirror")

	s := New(&config.GitSyncConfig{
		Enabled:   true,
		RepoURL:   remote,
		Branch:    "master",
		LocalPath: localPath,
	})

	require.NoError(t, s.Sync(context.Background()))
	assert.FileExists(t, filepath.Join(localPath, "billing-escalation.yaml"))
}

func TestSyncer_Sync_PullsOnSubsequentRuns(t *testing.T) {
	remote := newLocalRemote(t)
	localPath := filepath.Join(t.TempDir(), "mirror")

	s := New(&config.GitSyncConfig{
		Enabled:   true,
		RepoURL:   remote,
		Branch:    "master",
		LocalPath: localPath,
	})

	require.NoError(t, s.Sync(context.Background()))

	extraFile := filepath.Join(remote, "low-balance-warning.yaml")
	require.NoError(t, os.WriteFile(extraFile, []byte("name: low-balance-warning\n"), 0o644))
	repo, err := git.PlainOpen(remote)
	require.NoError(t, err)
	wt, err := repo.Worktree()
	require.NoError(t, err)
	_, err = wt.Add("low-balance-warning.yaml")
	require.NoError(t, err)
	_, err = wt.Commit("add second scenario", &git.CommitOptions{
		Author: &object.Signature{Name: "test", Email: "test@example.com"},
	})
	require.NoError(t, err)

	require.NoError(t, s.Sync(context.Background()))
	assert.FileExists(t, filepath.Join(localPath, "low-balance-warning.yaml"))
}

func TestSyncer_Start_NoOpWhenDisabled(t *testing.T) {
	s := New(&config.GitSyncConfig{Enabled: false})
	require.NoError(t, s.Start(context.Background()))
	s.Stop()
}
