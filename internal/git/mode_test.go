package git

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/stretchr/testify/require"

	vberrors "stackit.dev/vbranch/internal/errors"
)

// newCommittedRepository creates a repository with a single commit and
// returns its directory and the commit hash
func newCommittedRepository(t *testing.T) (string, plumbing.Hash) {
	t.Helper()
	dir := t.TempDir()
	repo, err := gogit.PlainInit(dir, false)
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.txt"), []byte("one\n"), 0600))
	wt, err := repo.Worktree()
	require.NoError(t, err)
	_, err = wt.Add("a.txt")
	require.NoError(t, err)
	hash, err := wt.Commit("initial", &gogit.CommitOptions{
		Author: &object.Signature{Name: "Test User", Email: "test@example.com", When: time.Now()},
	})
	require.NoError(t, err)
	return dir, hash
}

func TestOperatingMode(t *testing.T) {
	t.Parallel()

	t.Run("branch checked out", func(t *testing.T) {
		t.Parallel()
		dir, _ := newCommittedRepository(t)

		repo, err := OpenRepository(dir)
		require.NoError(t, err)
		mode, err := repo.OperatingMode()
		require.NoError(t, err)
		require.Equal(t, ModeOpenWorkspace, mode)
		require.NoError(t, AssureOpenWorkspace(dir))
	})

	t.Run("detached HEAD", func(t *testing.T) {
		t.Parallel()
		dir, hash := newCommittedRepository(t)

		repo, err := OpenRepository(dir)
		require.NoError(t, err)
		require.NoError(t, repo.Storer.SetReference(plumbing.NewHashReference(plumbing.HEAD, hash)))

		mode, err := repo.OperatingMode()
		require.NoError(t, err)
		require.Equal(t, ModeDetached, mode)
		require.ErrorIs(t, AssureOpenWorkspace(dir), vberrors.ErrWorkspaceNotOpen)
	})

	t.Run("merge in progress", func(t *testing.T) {
		t.Parallel()
		dir, hash := newCommittedRepository(t)
		require.NoError(t, os.WriteFile(filepath.Join(dir, ".git", "MERGE_HEAD"), []byte(hash.String()+"\n"), 0600))

		repo, err := OpenRepository(dir)
		require.NoError(t, err)
		mode, err := repo.OperatingMode()
		require.NoError(t, err)
		require.Equal(t, ModeOperationInProgress, mode)

		err = AssureOpenWorkspace(dir)
		require.ErrorIs(t, err, vberrors.ErrWorkspaceNotOpen)
		require.Contains(t, err.Error(), "in progress")
	})
}
