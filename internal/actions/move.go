package actions

import (
	"fmt"
	"slices"
	"strings"

	"github.com/gobwas/glob"

	"stackit.dev/vbranch/internal/dragdrop"
	"stackit.dev/vbranch/internal/engine"
	vberrors "stackit.dev/vbranch/internal/errors"
	"stackit.dev/vbranch/internal/ownership"
	"stackit.dev/vbranch/internal/runtime"
	"stackit.dev/vbranch/internal/tui"
)

// MoveHunkOptions contains options for the move hunk command
type MoveHunkOptions struct {
	Hunk string // "path:hunkId"
	To   string // Target branch name or id (prompted when empty)
}

// MoveFileOptions contains options for the move file command
type MoveFileOptions struct {
	Paths []string
	To    string
}

// MoveCommitOptions contains options for the move commit command
type MoveCommitOptions struct {
	CommitID string
	To       string
}

// MoveHunkAction drops a single uncommitted hunk onto another branch
func MoveHunkAction(ctx *runtime.Context, opts MoveHunkOptions) error {
	claim, err := ownership.ParseClaim(opts.Hunk)
	if err != nil {
		return err
	}
	if len(claim.HunkIDs) != 1 {
		return fmt.Errorf("%w: expected exactly one hunk in %q", vberrors.ErrInvalidClaim, opts.Hunk)
	}
	hunkID := claim.HunkIDs[0]

	eng := ctx.Engine
	sourceID, ok := eng.OwnerOf(claim.FilePath, hunkID)
	if !ok {
		return fmt.Errorf("hunk %s is not owned by any virtual branch, run 'vb status' first", claim)
	}

	payload := dragdrop.Hunk{
		BranchID: sourceID,
		Hunk: dragdrop.DraggedHunk{
			ID:       hunkID,
			FilePath: claim.FilePath,
			Locked:   eng.IsLocked(claim.FilePath, hunkID),
		},
	}
	return dropOwnership(ctx, payload, opts.To, "hunk "+claim.String())
}

// MoveFileAction drops whole files onto another branch. Paths may be glob
// patterns matched against owned files. Every file must currently belong
// to the same branch.
func MoveFileAction(ctx *runtime.Context, opts MoveFileOptions) error {
	if len(opts.Paths) == 0 {
		return fmt.Errorf("no files given")
	}

	eng := ctx.Engine
	paths, err := expandPaths(eng, opts.Paths)
	if err != nil {
		return err
	}

	sourceID := ""
	var files []ownership.File
	for _, path := range paths {
		owner, file, err := ownedFile(eng, path)
		if err != nil {
			return err
		}
		if sourceID != "" && owner != sourceID {
			return fmt.Errorf("files %s belong to different branches, move them separately", strings.Join(paths, ", "))
		}
		sourceID = owner
		files = append(files, file)
	}

	payload := dragdrop.FileSet{BranchID: sourceID, Files: files}
	return dropOwnership(ctx, payload, opts.To, "file "+strings.Join(paths, ", "))
}

// expandPaths replaces glob patterns with the owned files they match
func expandPaths(eng *engine.Engine, args []string) ([]string, error) {
	var owned []string
	for _, b := range eng.AllBranches() {
		claims, err := ownership.Parse(b.Ownership)
		if err != nil {
			return nil, fmt.Errorf("branch %s: %w", b.Name, err)
		}
		for _, c := range claims.Claims {
			owned = append(owned, c.FilePath)
		}
	}

	var paths []string
	for _, arg := range args {
		if !strings.ContainsAny(arg, "*?[{") {
			if !slices.Contains(paths, arg) {
				paths = append(paths, arg)
			}
			continue
		}

		g, err := glob.Compile(arg, '/')
		if err != nil {
			return nil, fmt.Errorf("invalid pattern %q: %w", arg, err)
		}
		matched := false
		for _, path := range owned {
			if g.Match(path) {
				matched = true
				if !slices.Contains(paths, path) {
					paths = append(paths, path)
				}
			}
		}
		if !matched {
			return nil, fmt.Errorf("no owned file matches %q", arg)
		}
	}
	return paths, nil
}

// ownedFile returns the branch claiming path and the file as that branch
// sees it, with lock state filled in from the engine
func ownedFile(eng *engine.Engine, path string) (string, ownership.File, error) {
	for _, b := range eng.AllBranches() {
		claims, err := ownership.Parse(b.Ownership)
		if err != nil {
			return "", ownership.File{}, fmt.Errorf("branch %s: %w", b.Name, err)
		}
		for _, c := range claims.Claims {
			if c.FilePath != path {
				continue
			}
			file := ownership.File{Path: path, Locked: eng.IsLocked(path, "")}
			for _, id := range c.HunkIDs {
				file.Hunks = append(file.Hunks, ownership.Hunk{ID: id, Locked: eng.IsLocked(path, id)})
			}
			return b.ID, file, nil
		}
	}
	return "", ownership.File{}, fmt.Errorf("file %s is not owned by any virtual branch, run 'vb status' first", path)
}

// dropOwnership resolves the target, runs the drop through its resolver and
// prints the resulting notifications
func dropOwnership(ctx *runtime.Context, payload dragdrop.OwnershipPayload, to, what string) error {
	if err := ctx.AssureOpenWorkspace(); err != nil {
		return err
	}
	target, err := resolveTarget(ctx, to, payload.SourceBranch(), what)
	if err != nil {
		return err
	}

	resolver := ctx.Factory.Build(target)
	if !resolver.AcceptBranchDrop(payload) {
		ctx.Splog.Warn("Cannot move %s to %s.", what, target.Name)
		return nil
	}

	claims := payloadClaims(payload)
	for _, c := range claims {
		ctx.Engine.Lock(c)
	}
	defer func() {
		for _, c := range claims {
			ctx.Engine.Unlock(c)
		}
	}()

	resolver.OnBranchDrop(ctx.Context, payload)
	printNotifications(ctx)
	return nil
}

// MoveCommitAction moves the head commit of its branch onto another branch
func MoveCommitAction(ctx *runtime.Context, opts MoveCommitOptions) error {
	if err := ctx.AssureOpenWorkspace(); err != nil {
		return err
	}
	eng := ctx.Engine
	sourceID, err := eng.FindBranchForCommit(opts.CommitID)
	if err != nil {
		return err
	}
	source, err := eng.GetBranch(sourceID)
	if err != nil {
		return err
	}

	payload := dragdrop.Commit{
		BranchID:     sourceID,
		CommitID:     opts.CommitID,
		IsHeadCommit: source.IsHeadCommit(opts.CommitID),
	}
	what := "commit " + opts.CommitID

	target, err := resolveTarget(ctx, opts.To, sourceID, what)
	if err != nil {
		return err
	}

	resolver := ctx.Factory.Build(target)
	if !resolver.AcceptMoveCommit(payload) {
		ctx.Splog.Warn("Cannot move %s to %s.", what, target.Name)
		return nil
	}

	resolver.OnMoveCommit(ctx.Context, payload)
	if owner, err := eng.FindBranchForCommit(opts.CommitID); err == nil && owner == target.ID {
		ctx.Splog.Info("Moved %s from %s to %s.", what, source.Name, target.Name)
	}
	return nil
}

// resolveTarget finds the --to branch, prompting for one when it is empty
func resolveTarget(ctx *runtime.Context, to, sourceID, what string) (engine.VirtualBranch, error) {
	if to != "" {
		return ctx.Engine.FindBranch(to)
	}
	return promptTargetBranch(ctx.Engine.AllBranches(), sourceID, what)
}

// payloadClaims returns the claims held while payload is being moved
func payloadClaims(payload dragdrop.OwnershipPayload) []ownership.Claim {
	claims, err := ownership.Parse(payload.Fragment())
	if err != nil {
		return nil
	}
	return claims.Claims
}

// printNotifications renders the queue once the drop has settled
func printNotifications(ctx *runtime.Context) {
	if out := tui.RenderToasts(ctx.Queue.Items(), ""); out != "" {
		ctx.Splog.Info("%s", out)
	}
}
