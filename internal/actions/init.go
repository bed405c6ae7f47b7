package actions

import (
	"context"
	"errors"
	"fmt"

	"stackit.dev/vbranch/internal/config"
	"stackit.dev/vbranch/internal/engine"
	vberrors "stackit.dev/vbranch/internal/errors"
	"stackit.dev/vbranch/internal/git"
	"stackit.dev/vbranch/internal/output"
)

// DefaultBranchName is used by init when no name is given
const DefaultBranchName = "virtual"

// InitOptions contains options for the init command
type InitOptions struct {
	DefaultBranch string
	AutoAssign    *bool
}

// InitAction sets vb up in the repository at repoRoot. It creates the
// default branch unless one with that name exists already.
func InitAction(ctx context.Context, repoRoot string, opts InitOptions, splog *output.Splog) error {
	name := opts.DefaultBranch
	if name == "" {
		name = DefaultBranchName
	}

	repo, err := git.OpenRepository(repoRoot)
	if err != nil {
		return err
	}
	eng, err := engine.NewEngine(ctx, engine.NewRefPersister(git.NewRefStore(repo)), splog)
	if err != nil {
		return err
	}

	branch, err := eng.FindBranch(name)
	if errors.Is(err, vberrors.ErrBranchNotFound) {
		branch, err = eng.CreateBranch(ctx, name)
	}
	if err != nil {
		return fmt.Errorf("failed to set up default branch: %w", err)
	}

	if err := config.SetDefaultBranch(repoRoot, branch.ID); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	if opts.AutoAssign != nil {
		if err := config.SetAutoAssign(repoRoot, *opts.AutoAssign); err != nil {
			return fmt.Errorf("failed to write config: %w", err)
		}
	}

	splog.Info("Initialized vb with default branch %s.", branch.Name)
	return nil
}
