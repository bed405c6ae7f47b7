package dragdrop

import (
	"context"
	"fmt"
	"slices"

	"stackit.dev/vbranch/internal/engine"
	"stackit.dev/vbranch/internal/output"
	"stackit.dev/vbranch/internal/ownership"
)

// Notifier reports the progress of a drop to the user
type Notifier interface {
	ShowInfo(title, message string) string
	ShowSuccess(title string) string
	ShowError(title string, err error) (string, bool)
	Dismiss(id string)
}

// Factory builds one Resolver per target branch
type Factory struct {
	controller engine.BranchController
	notifier   Notifier
	splog      *output.Splog
}

// NewFactory creates a Factory sharing controller, notifier and splog
func NewFactory(controller engine.BranchController, notifier Notifier, splog *output.Splog) *Factory {
	if splog == nil {
		splog = output.NewSplog()
	}
	return &Factory{controller: controller, notifier: notifier, splog: splog}
}

// Build returns the resolver for drops onto branch
func (f *Factory) Build(branch engine.VirtualBranch) *Resolver {
	return &Resolver{
		controller: f.controller,
		notifier:   f.notifier,
		splog:      f.splog,
		branch:     branch,
	}
}

// Resolver accepts and handles drops onto a single virtual branch
type Resolver struct {
	controller engine.BranchController
	notifier   Notifier
	splog      *output.Splog
	branch     engine.VirtualBranch
}

// Branch returns the target branch the resolver is bound to
func (r *Resolver) Branch() engine.VirtualBranch {
	return r.branch
}

// AcceptMoveCommit reports whether p is the head commit of another branch
func (r *Resolver) AcceptMoveCommit(p Payload) bool {
	c, ok := p.(Commit)
	return ok && c.BranchID != r.branch.ID && c.IsHeadCommit
}

// OnMoveCommit moves the dropped commit onto the target branch. Failures
// are logged only; commit moves do not raise notifications.
func (r *Resolver) OnMoveCommit(ctx context.Context, p Commit) {
	if err := r.controller.MoveCommit(ctx, r.branch.ID, p.CommitID); err != nil {
		r.splog.Warn("Failed to move commit %s to %s: %v", p.CommitID, r.branch.Name, err)
		return
	}
	r.splog.Debug("moved commit %s to %s", p.CommitID, r.branch.Name)
}

// AcceptBranchDrop reports whether p may be claimed by the target branch.
// Only uncommitted hunks and files from another branch qualify, and a
// single locked file rejects the whole file set.
func (r *Resolver) AcceptBranchDrop(p Payload) bool {
	switch p := p.(type) {
	case Hunk:
		return p.CommitID == "" && p.BranchID != r.branch.ID && !p.Hunk.Locked
	case FileSet:
		return p.CommitID == "" && p.BranchID != r.branch.ID &&
			!slices.ContainsFunc(p.Files, func(f ownership.File) bool { return f.Locked })
	default:
		return false
	}
}

// OnBranchDrop claims the payload for the target branch. The outcome is
// reported through the notifier; errors never propagate.
func (r *Resolver) OnBranchDrop(ctx context.Context, p OwnershipPayload) {
	label := p.Kind().String()

	startedID := r.notifier.ShowInfo("Working...", fmt.Sprintf("Move %s in-progress", label))
	defer r.notifier.Dismiss(startedID)

	next := ownership.Merge(p.Fragment(), r.branch.Ownership)
	if err := r.controller.UpdateBranchOwnership(ctx, r.branch.ID, next); err != nil {
		r.splog.Debug("move %s to %s failed: %v", label, r.branch.Name, err)
		r.notifier.ShowError(fmt.Sprintf("There was a problem when moving %s", label), err)
		return
	}

	r.notifier.ShowSuccess(fmt.Sprintf("Successfully moved %s", label))
}
