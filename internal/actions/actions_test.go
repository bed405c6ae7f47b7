package actions

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/AlecAivazis/survey/v2/terminal"
	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/stretchr/testify/require"

	"stackit.dev/vbranch/internal/config"
	"stackit.dev/vbranch/internal/engine"
	vberrors "stackit.dev/vbranch/internal/errors"
	"stackit.dev/vbranch/internal/git"
	"stackit.dev/vbranch/internal/output"
	"stackit.dev/vbranch/internal/runtime"
)

func newTestContext(t *testing.T) (*runtime.Context, *bytes.Buffer) {
	t.Helper()
	ctx := context.Background()
	out := &bytes.Buffer{}
	splog := output.NewSplogForWriter(out)

	eng, err := engine.NewEngine(ctx, engine.NewMemoryPersister(
		engine.VirtualBranch{ID: "a", Name: "feature-a", Ownership: "x.go:1-4,9-12\ny.go:3-5", Commits: []string{"c1", "c2"}, Order: 0},
		engine.VirtualBranch{ID: "b", Name: "feature-b", Ownership: "z.go:1-2", Commits: []string{"c3"}, Order: 1},
	), splog)
	require.NoError(t, err)

	rctx := runtime.NewContext(ctx, eng, splog)
	rctx.DefaultBranchID = "a"
	rctx.AutoAssign = true
	t.Cleanup(rctx.Close)
	return rctx, out
}

func TestMoveHunkAction(t *testing.T) {
	t.Parallel()

	t.Run("moves the hunk and reports success", func(t *testing.T) {
		t.Parallel()
		ctx, out := newTestContext(t)

		require.NoError(t, MoveHunkAction(ctx, MoveHunkOptions{Hunk: "x.go:9-12", To: "feature-b"}))

		b, _ := ctx.Engine.GetBranch("b")
		require.Equal(t, "x.go:9-12\nz.go:1-2", b.Ownership)
		require.Contains(t, out.String(), "Successfully moved hunk")
		require.False(t, ctx.Engine.IsLocked("x.go", "9-12"))
	})

	t.Run("dropping on the owner is ignored", func(t *testing.T) {
		t.Parallel()
		ctx, out := newTestContext(t)

		require.NoError(t, MoveHunkAction(ctx, MoveHunkOptions{Hunk: "x.go:9-12", To: "a"}))

		a, _ := ctx.Engine.GetBranch("a")
		require.Equal(t, "x.go:1-4,9-12\ny.go:3-5", a.Ownership)
		require.Contains(t, out.String(), "Cannot move hunk x.go:9-12 to feature-a.")
		require.Empty(t, ctx.Queue.Items())
	})

	t.Run("bad input", func(t *testing.T) {
		t.Parallel()
		ctx, _ := newTestContext(t)

		require.ErrorIs(t, MoveHunkAction(ctx, MoveHunkOptions{Hunk: "x.go:1-4,9-12", To: "b"}), vberrors.ErrInvalidClaim)
		require.ErrorIs(t, MoveHunkAction(ctx, MoveHunkOptions{Hunk: "x.go", To: "b"}), vberrors.ErrInvalidClaim)
		require.Error(t, MoveHunkAction(ctx, MoveHunkOptions{Hunk: "new.go:1-2", To: "b"}))
		require.ErrorIs(t, MoveHunkAction(ctx, MoveHunkOptions{Hunk: "x.go:1-4", To: "nope"}), vberrors.ErrBranchNotFound)
	})
}

func TestMoveFileAction(t *testing.T) {
	t.Parallel()

	t.Run("moves every hunk of the files", func(t *testing.T) {
		t.Parallel()
		ctx, out := newTestContext(t)

		require.NoError(t, MoveFileAction(ctx, MoveFileOptions{Paths: []string{"x.go", "y.go"}, To: "feature-b"}))

		a, _ := ctx.Engine.GetBranch("a")
		b, _ := ctx.Engine.GetBranch("b")
		require.Empty(t, a.Ownership)
		require.Equal(t, "x.go:1-4,9-12\ny.go:3-5\nz.go:1-2", b.Ownership)
		require.Contains(t, out.String(), "Successfully moved file")
	})

	t.Run("glob patterns match owned files", func(t *testing.T) {
		t.Parallel()
		ctx, _ := newTestContext(t)

		require.NoError(t, MoveFileAction(ctx, MoveFileOptions{Paths: []string{"[xy].go"}, To: "feature-b"}))

		b, _ := ctx.Engine.GetBranch("b")
		require.Equal(t, "x.go:1-4,9-12\ny.go:3-5\nz.go:1-2", b.Ownership)

		err := MoveFileAction(ctx, MoveFileOptions{Paths: []string{"*.md"}, To: "feature-a"})
		require.ErrorContains(t, err, "no owned file matches")
	})

	t.Run("files from different branches", func(t *testing.T) {
		t.Parallel()
		ctx, _ := newTestContext(t)

		err := MoveFileAction(ctx, MoveFileOptions{Paths: []string{"x.go", "z.go"}, To: "feature-b"})
		require.ErrorContains(t, err, "different branches")
	})
}

func TestMoveCommitAction(t *testing.T) {
	t.Parallel()

	t.Run("head commit", func(t *testing.T) {
		t.Parallel()
		ctx, out := newTestContext(t)

		require.NoError(t, MoveCommitAction(ctx, MoveCommitOptions{CommitID: "c2", To: "feature-b"}))

		b, _ := ctx.Engine.GetBranch("b")
		require.Equal(t, []string{"c3", "c2"}, b.Commits)
		require.Contains(t, out.String(), "Moved commit c2 from feature-a to feature-b.")
		require.Empty(t, ctx.Queue.Items())
	})

	t.Run("non-head commit is rejected", func(t *testing.T) {
		t.Parallel()
		ctx, out := newTestContext(t)

		require.NoError(t, MoveCommitAction(ctx, MoveCommitOptions{CommitID: "c1", To: "feature-b"}))

		a, _ := ctx.Engine.GetBranch("a")
		require.Equal(t, []string{"c1", "c2"}, a.Commits)
		require.Contains(t, out.String(), "Cannot move commit c1 to feature-b.")
	})

	t.Run("unknown commit", func(t *testing.T) {
		t.Parallel()
		ctx, _ := newTestContext(t)

		err := MoveCommitAction(ctx, MoveCommitOptions{CommitID: "c9", To: "feature-b"})
		require.ErrorIs(t, err, vberrors.ErrCommitNotFound)
	})
}

func TestMovesNeedOpenWorkspace(t *testing.T) {
	t.Parallel()
	ctx, _ := newTestContext(t)

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
	ctx.RepoRoot = dir

	head, err := repo.Storer.Reference(plumbing.HEAD)
	require.NoError(t, err)
	require.NoError(t, repo.Storer.SetReference(plumbing.NewHashReference(plumbing.HEAD, hash)))

	err = MoveHunkAction(ctx, MoveHunkOptions{Hunk: "x.go:9-12", To: "feature-b"})
	require.ErrorIs(t, err, vberrors.ErrWorkspaceNotOpen)
	err = MoveFileAction(ctx, MoveFileOptions{Paths: []string{"y.go"}, To: "feature-b"})
	require.ErrorIs(t, err, vberrors.ErrWorkspaceNotOpen)
	err = MoveCommitAction(ctx, MoveCommitOptions{CommitID: "c2", To: "feature-b"})
	require.ErrorIs(t, err, vberrors.ErrWorkspaceNotOpen)

	b, _ := ctx.Engine.GetBranch("b")
	require.Equal(t, "z.go:1-2", b.Ownership)
	require.Equal(t, []string{"c3"}, b.Commits)

	// back on the branch, moves go through
	require.NoError(t, repo.Storer.SetReference(head))
	require.NoError(t, MoveHunkAction(ctx, MoveHunkOptions{Hunk: "x.go:9-12", To: "feature-b"}))
	b, _ = ctx.Engine.GetBranch("b")
	require.Equal(t, "x.go:9-12\nz.go:1-2", b.Ownership)
}

func TestMoveWithoutTarget(t *testing.T) {
	t.Setenv("VB_TEST_NO_INTERACTIVE", "1")
	ctx, _ := newTestContext(t)

	err := MoveHunkAction(ctx, MoveHunkOptions{Hunk: "x.go:9-12"})
	require.ErrorIs(t, err, ErrInteractiveDisabled)
}

func TestPromptError(t *testing.T) {
	t.Parallel()

	require.ErrorIs(t, promptError(terminal.InterruptErr), ErrPromptCanceled)
	require.ErrorIs(t, promptError(fmt.Errorf("read: %w", terminal.InterruptErr)), ErrPromptCanceled)

	cause := errors.New("bad terminal")
	err := promptError(cause)
	require.ErrorIs(t, err, cause)
	require.NotErrorIs(t, err, ErrPromptCanceled)
	require.Contains(t, err.Error(), "bad terminal")
}

func TestStatusAction(t *testing.T) {
	t.Parallel()

	hunks := []git.Hunk{
		{File: "x.go", NewStart: 1, NewCount: 3},
		{File: "x.go", NewStart: 20, NewCount: 2},
		{File: "z.go", NewStart: 1, NewCount: 1},
	}

	t.Run("auto assigns unowned hunks", func(t *testing.T) {
		t.Parallel()
		ctx, out := newTestContext(t)
		require.NoError(t, ctx.Engine.UpdateBranchOwnership(ctx.Context, "a", "x.go:1-4"))
		ctx.WorkingHunks = func(context.Context) ([]git.Hunk, error) { return hunks, nil }

		lines, err := StatusAction(ctx)
		require.NoError(t, err)
		require.Equal(t, []StatusLine{
			{FilePath: "x.go", HunkID: "1-4", BranchName: "feature-a"},
			{FilePath: "x.go", HunkID: "20-22", BranchName: "feature-a"},
			{FilePath: "z.go", HunkID: "1-2", BranchName: "feature-b"},
		}, lines)
		require.Contains(t, out.String(), "x.go:20-22")

		a, _ := ctx.Engine.GetBranch("a")
		require.Equal(t, "x.go:1-4,20-22", a.Ownership)
	})

	t.Run("auto assign off", func(t *testing.T) {
		t.Parallel()
		ctx, out := newTestContext(t)
		ctx.AutoAssign = false
		ctx.WorkingHunks = func(context.Context) ([]git.Hunk, error) { return hunks, nil }

		lines, err := StatusAction(ctx)
		require.NoError(t, err)
		require.Empty(t, lines[1].BranchName)
		require.Contains(t, out.String(), "unowned")
	})

	t.Run("whole-file claims are split into hunks", func(t *testing.T) {
		t.Parallel()
		ctx, _ := newTestContext(t)
		ctx.AutoAssign = false
		ctx.WorkingHunks = func(context.Context) ([]git.Hunk, error) { return hunks, nil }
		require.NoError(t, ctx.Engine.UpdateBranchOwnership(ctx.Context, "b", "x.go:\nz.go:1-2"))

		err := MoveHunkAction(ctx, MoveHunkOptions{Hunk: "x.go:20-22", To: "feature-a"})
		require.NoError(t, err)
		b, _ := ctx.Engine.GetBranch("b")
		require.Equal(t, "x.go:\nz.go:1-2", b.Ownership)

		_, err = StatusAction(ctx)
		require.NoError(t, err)
		b, _ = ctx.Engine.GetBranch("b")
		require.Equal(t, "x.go:1-4,20-22\nz.go:1-2", b.Ownership)

		require.NoError(t, MoveHunkAction(ctx, MoveHunkOptions{Hunk: "x.go:20-22", To: "feature-a"}))
		b, _ = ctx.Engine.GetBranch("b")
		require.Equal(t, "x.go:1-4\nz.go:1-2", b.Ownership)
		owner, ok := ctx.Engine.OwnerOf("x.go", "20-22")
		require.True(t, ok)
		require.Equal(t, "a", owner)
	})

	t.Run("clean working copy", func(t *testing.T) {
		t.Parallel()
		ctx, out := newTestContext(t)
		ctx.WorkingHunks = func(context.Context) ([]git.Hunk, error) { return nil, nil }

		lines, err := StatusAction(ctx)
		require.NoError(t, err)
		require.Empty(t, lines)
		require.Contains(t, out.String(), "No uncommitted changes.")
	})
}

func TestBranchActions(t *testing.T) {
	t.Parallel()
	ctx, out := newTestContext(t)

	require.NoError(t, CreateBranchAction(ctx, "feature-c"))
	require.Error(t, CreateBranchAction(ctx, "feature-c"))

	require.NoError(t, ListBranchesAction(ctx))
	listing := out.String()
	require.Contains(t, listing, "feature-a")
	require.Contains(t, listing, "(default)")
	require.Regexp(t, `feature-a \(default\)\s*│\s*2\s*│\s*3\s*│\s*2\s*│\s*c2`, listing)
	require.Contains(t, listing, "feature-c")
}

func TestInitAction(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	dir := t.TempDir()
	_, err := gogit.PlainInit(dir, false)
	require.NoError(t, err)
	splog := output.NewSplogForWriter(&bytes.Buffer{})

	off := false
	require.NoError(t, InitAction(ctx, dir, InitOptions{AutoAssign: &off}, splog))
	require.True(t, config.IsInitialized(dir))
	first, err := config.GetDefaultBranch(dir)
	require.NoError(t, err)
	autoAssign, err := config.GetAutoAssign(dir)
	require.NoError(t, err)
	require.False(t, autoAssign)

	// a second init keeps the existing branch
	require.NoError(t, InitAction(ctx, dir, InitOptions{}, splog))
	second, err := config.GetDefaultBranch(dir)
	require.NoError(t, err)
	require.Equal(t, first, second)

	repo, err := git.OpenRepository(dir)
	require.NoError(t, err)
	ids, err := git.NewRefStore(repo).List()
	require.NoError(t, err)
	require.Equal(t, []string{first}, ids)
}
