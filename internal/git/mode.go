package git

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/storage/filesystem"

	vberrors "stackit.dev/vbranch/internal/errors"
)

// Mode is the state of the working copy as far as moves are concerned
type Mode int

const (
	// ModeOpenWorkspace means HEAD is on a branch and no operation is running
	ModeOpenWorkspace Mode = iota
	// ModeDetached means HEAD points at a commit rather than a branch
	ModeDetached
	// ModeOperationInProgress means a rebase, merge, cherry-pick or revert
	// has stopped midway
	ModeOperationInProgress
)

func (m Mode) String() string {
	switch m {
	case ModeOpenWorkspace:
		return "open workspace"
	case ModeDetached:
		return "detached HEAD"
	case ModeOperationInProgress:
		return "operation in progress"
	default:
		return "unknown"
	}
}

// markers left in the git directory by an interrupted operation
var operationMarkers = []string{
	"rebase-merge",
	"rebase-apply",
	"MERGE_HEAD",
	"CHERRY_PICK_HEAD",
	"REVERT_HEAD",
}

// OperatingMode reports whether the working copy is open for changes
func (r *Repository) OperatingMode() (Mode, error) {
	head, err := r.Storer.Reference(plumbing.HEAD)
	if err != nil {
		return ModeOpenWorkspace, fmt.Errorf("failed to read HEAD: %w", err)
	}
	if head.Type() != plumbing.SymbolicReference {
		return ModeDetached, nil
	}

	if fs, ok := r.Storer.(*filesystem.Storage); ok {
		gitDir := fs.Filesystem().Root()
		for _, marker := range operationMarkers {
			if _, err := os.Stat(filepath.Join(gitDir, marker)); err == nil {
				return ModeOperationInProgress, nil
			} else if !errors.Is(err, os.ErrNotExist) {
				return ModeOpenWorkspace, fmt.Errorf("failed to check %s: %w", marker, err)
			}
		}
	}
	return ModeOpenWorkspace, nil
}

// AssureOpenWorkspace returns ErrWorkspaceNotOpen unless the repository at
// repoRoot is in ModeOpenWorkspace
func AssureOpenWorkspace(repoRoot string) error {
	repo, err := OpenRepository(repoRoot)
	if err != nil {
		return err
	}
	mode, err := repo.OperatingMode()
	if err != nil {
		return err
	}
	switch mode {
	case ModeDetached:
		return fmt.Errorf("%w: HEAD is detached, check out a branch first", vberrors.ErrWorkspaceNotOpen)
	case ModeOperationInProgress:
		return fmt.Errorf("%w: a rebase or merge is in progress, finish or abort it first", vberrors.ErrWorkspaceNotOpen)
	}
	return nil
}
