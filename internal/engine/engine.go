package engine

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/hashicorp/go-multierror"

	vberrors "stackit.dev/vbranch/internal/errors"
	"stackit.dev/vbranch/internal/output"
	"stackit.dev/vbranch/internal/ownership"
)

// Engine holds the virtual branches of a repository and applies mutations
// to them. It implements BranchReader and BranchController.
type Engine struct {
	mu       sync.RWMutex
	branches []VirtualBranch
	locks    map[string]int
	store    Persister
	splog    *output.Splog
}

var (
	_ BranchReader     = (*Engine)(nil)
	_ BranchController = (*Engine)(nil)
)

// NewEngine loads the branches held by store
func NewEngine(ctx context.Context, store Persister, splog *output.Splog) (*Engine, error) {
	branches, err := store.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load virtual branches: %w", err)
	}
	slices.SortStableFunc(branches, func(a, b VirtualBranch) int {
		return a.Order - b.Order
	})
	if splog == nil {
		splog = output.NewSplog()
	}
	return &Engine{
		branches: branches,
		locks:    make(map[string]int),
		store:    store,
		splog:    splog,
	}, nil
}

// AllBranches returns every virtual branch in display order
func (e *Engine) AllBranches() []VirtualBranch {
	e.mu.RLock()
	defer e.mu.RUnlock()

	out := make([]VirtualBranch, len(e.branches))
	for i, b := range e.branches {
		out[i] = b.clone()
	}
	return out
}

// GetBranch returns the branch with the given id
func (e *Engine) GetBranch(branchID string) (VirtualBranch, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	i := e.indexOf(branchID)
	if i < 0 {
		return VirtualBranch{}, vberrors.NewBranchNotFoundError(branchID)
	}
	return e.branches[i].clone(), nil
}

// FindBranch looks a branch up by id, then by name
func (e *Engine) FindBranch(nameOrID string) (VirtualBranch, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	if i := e.indexOf(nameOrID); i >= 0 {
		return e.branches[i].clone(), nil
	}
	for _, b := range e.branches {
		if b.Name == nameOrID {
			return b.clone(), nil
		}
	}
	return VirtualBranch{}, vberrors.NewBranchNotFoundError(nameOrID)
}

// indexOf must be called with e.mu held
func (e *Engine) indexOf(branchID string) int {
	return slices.IndexFunc(e.branches, func(b VirtualBranch) bool { return b.ID == branchID })
}

// CreateBranch adds an empty virtual branch at the end of the list
func (e *Engine) CreateBranch(ctx context.Context, name string) (VirtualBranch, error) {
	name = strings.TrimSpace(name)

	e.mu.Lock()
	defer e.mu.Unlock()

	if name == "" {
		return VirtualBranch{}, fmt.Errorf("%w: name is empty", vberrors.ErrInvalidBranchName)
	}
	for _, b := range e.branches {
		if b.Name == name {
			return VirtualBranch{}, fmt.Errorf("%w: %q already exists", vberrors.ErrInvalidBranchName, name)
		}
	}

	branch := VirtualBranch{
		ID:        uuid.NewString(),
		Name:      name,
		Order:     len(e.branches),
		CreatedAt: time.Now().UTC(),
	}
	if err := e.store.Save(ctx, branch); err != nil {
		return VirtualBranch{}, fmt.Errorf("failed to save branch %q: %w", name, err)
	}
	e.branches = append(e.branches, branch)
	e.splog.Debug("created virtual branch %s (%s)", name, branch.ID)
	return branch.clone(), nil
}

// OwnerOf returns the id of the branch claiming the hunk
func (e *Engine) OwnerOf(filePath, hunkID string) (string, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	for _, b := range e.branches {
		o, err := ownership.Parse(b.Ownership)
		if err != nil {
			continue
		}
		if o.Contains(filePath, hunkID) {
			return b.ID, true
		}
	}
	return "", false
}

// FindBranchForCommit returns the id of the branch holding commitID
func (e *Engine) FindBranchForCommit(commitID string) (string, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	for _, b := range e.branches {
		if slices.Contains(b.Commits, commitID) {
			return b.ID, nil
		}
	}
	return "", fmt.Errorf("%s: %w", commitID, vberrors.ErrCommitNotFound)
}

func lockKey(filePath, hunkID string) string {
	return filePath + ":" + hunkID
}

// Lock reserves every hunk of claim until the matching Unlock
func (e *Engine) Lock(claim ownership.Claim) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if claim.WholeFile() {
		e.locks[lockKey(claim.FilePath, "")]++
		return
	}
	for _, id := range claim.HunkIDs {
		e.locks[lockKey(claim.FilePath, id)]++
	}
}

// Unlock releases a reservation taken with Lock
func (e *Engine) Unlock(claim ownership.Claim) {
	e.mu.Lock()
	defer e.mu.Unlock()

	release := func(key string) {
		if e.locks[key] <= 1 {
			delete(e.locks, key)
			return
		}
		e.locks[key]--
	}
	if claim.WholeFile() {
		release(lockKey(claim.FilePath, ""))
		return
	}
	for _, id := range claim.HunkIDs {
		release(lockKey(claim.FilePath, id))
	}
}

// IsLocked reports whether the hunk, or its whole file, is reserved. An
// empty hunkID asks whether any hunk of the file is reserved.
func (e *Engine) IsLocked(filePath, hunkID string) bool {
	e.mu.RLock()
	defer e.mu.RUnlock()

	if e.locks[lockKey(filePath, "")] > 0 {
		return true
	}
	if hunkID != "" {
		return e.locks[lockKey(filePath, hunkID)] > 0
	}
	prefix := filePath + ":"
	for key := range e.locks {
		if strings.HasPrefix(key, prefix) {
			return true
		}
	}
	return false
}

// MoveCommit moves the head commit of its current branch onto branchID
func (e *Engine) MoveCommit(ctx context.Context, branchID, commitID string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	ti := e.indexOf(branchID)
	if ti < 0 {
		return vberrors.NewMutationError(vberrors.NewBranchNotFoundError(branchID))
	}
	si := slices.IndexFunc(e.branches, func(b VirtualBranch) bool {
		return slices.Contains(b.Commits, commitID)
	})
	switch {
	case si < 0:
		return vberrors.NewMutationError(fmt.Errorf("%s: %w", commitID, vberrors.ErrCommitNotFound))
	case si == ti:
		return vberrors.NewMutationError(vberrors.ErrSelfDrop)
	case !e.branches[si].IsHeadCommit(commitID):
		return vberrors.NewMutationError(vberrors.ErrNotHeadCommit)
	}

	source := e.branches[si].clone()
	target := e.branches[ti].clone()
	source.Commits = source.Commits[:len(source.Commits)-1]
	target.Commits = append(target.Commits, commitID)

	if err := e.persist(ctx, source, target); err != nil {
		return &vberrors.MutationError{Message: fmt.Sprintf("failed to move commit %s: %v", commitID, err), Err: err}
	}
	e.splog.Debug("moved commit %s from %s to %s", commitID, source.Name, target.Name)
	return nil
}

// UpdateBranchOwnership replaces the ownership of branchID with record.
// The record is normalized, and every hunk it claims is removed from the
// other branches, so each hunk keeps exactly one owner.
func (e *Engine) UpdateBranchOwnership(ctx context.Context, branchID, record string) error {
	claimed, err := ownership.Parse(record)
	if err != nil {
		return vberrors.NewMutationError(err)
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	ti := e.indexOf(branchID)
	if ti < 0 {
		return vberrors.NewMutationError(vberrors.NewBranchNotFoundError(branchID))
	}
	return e.updateOwnershipLocked(ctx, ti, claimed)
}

// updateOwnershipLocked sets the ownership of the branch at ti and releases
// the claimed hunks from every other branch. It must be called with e.mu
// held for writing.
func (e *Engine) updateOwnershipLocked(ctx context.Context, ti int, claimed ownership.Ownership) error {
	claimed = claimed.Normalize()
	target := e.branches[ti].clone()
	target.Ownership = claimed.String()

	var changed []VirtualBranch
	for i, b := range e.branches {
		if i == ti {
			continue
		}
		current, err := ownership.Parse(b.Ownership)
		if err != nil {
			return vberrors.NewMutationError(fmt.Errorf("branch %s: %w", b.Name, err))
		}
		rest, ok, err := current.Subtract(claimed)
		if err != nil {
			return vberrors.NewMutationError(fmt.Errorf("%w on branch %s, run 'vb status' to split it into hunks", err, b.Name))
		}
		if !ok {
			continue
		}
		b = b.clone()
		b.Ownership = rest.String()
		changed = append(changed, b)
		e.splog.Debug("released claims of %s taken by %s", b.Name, target.Name)
	}

	// the previous owners give the hunks up before the target takes them
	changed = append(changed, target)
	if err := e.persist(ctx, changed...); err != nil {
		return &vberrors.MutationError{Message: fmt.Sprintf("failed to update ownership: %v", err), Err: err}
	}
	return nil
}

// AssignUnowned gives every hunk of claims that no branch owns to branchID
// and returns the hunks it assigned. Whole-file claims on files listed in
// claims are first pinned to the listed hunks, so those hunks can later be
// moved one at a time.
func (e *Engine) AssignUnowned(ctx context.Context, claims ownership.Ownership, branchID string) (ownership.Ownership, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	ti := e.indexOf(branchID)
	if ti < 0 {
		return ownership.Ownership{}, vberrors.NewBranchNotFoundError(branchID)
	}

	records, err := e.expandLocked(ctx, claims, ti)
	if err != nil {
		return ownership.Ownership{}, err
	}

	var unowned ownership.Ownership
	for _, c := range claims.Claims {
		free := ownership.Claim{FilePath: c.FilePath}
		for _, id := range c.HunkIDs {
			owned := slices.ContainsFunc(records, func(o ownership.Ownership) bool {
				return o.Contains(c.FilePath, id)
			})
			if !owned {
				free.HunkIDs = append(free.HunkIDs, id)
			}
		}
		if len(free.HunkIDs) > 0 {
			unowned.Claims = append(unowned.Claims, free)
		}
	}

	if unowned.IsEmpty() && records[ti].String() == e.branches[ti].Ownership {
		return unowned, nil
	}

	next := ownership.Ownership{Claims: append(slices.Clone(records[ti].Claims), unowned.Claims...)}
	if err := e.updateOwnershipLocked(ctx, ti, next); err != nil {
		return ownership.Ownership{}, err
	}
	return unowned, nil
}

// ExpandWholeFiles pins every whole-file claim on a file listed in claims to
// the listed hunks.
func (e *Engine) ExpandWholeFiles(ctx context.Context, claims ownership.Ownership) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	_, err := e.expandLocked(ctx, claims, -1)
	return err
}

// expandLocked expands whole-file claims and persists the expanded branches,
// except the one at skip. It returns every branch's record, expanded, in
// branch order. It must be called with e.mu held for writing.
func (e *Engine) expandLocked(ctx context.Context, claims ownership.Ownership, skip int) ([]ownership.Ownership, error) {
	records := make([]ownership.Ownership, len(e.branches))
	var expanded []VirtualBranch
	for i, b := range e.branches {
		o, err := ownership.Parse(b.Ownership)
		if err != nil {
			return nil, fmt.Errorf("branch %s: %w", b.Name, err)
		}
		if next, ok := o.Expand(claims); ok {
			o = next
			if i != skip {
				b = b.clone()
				b.Ownership = o.String()
				expanded = append(expanded, b)
			}
		}
		records[i] = o
	}

	if len(expanded) > 0 {
		if err := e.persist(ctx, expanded...); err != nil {
			return nil, &vberrors.MutationError{Message: fmt.Sprintf("failed to expand whole-file claims: %v", err), Err: err}
		}
	}
	return records, nil
}

// persist saves branches in order and applies them to memory once all of
// them are saved. When a save fails, the branches saved before it are
// restored to their in-memory state. It must be called with e.mu held.
func (e *Engine) persist(ctx context.Context, branches ...VirtualBranch) error {
	for n, b := range branches {
		err := e.store.Save(ctx, b)
		if err == nil {
			continue
		}
		result := multierror.Append(nil, fmt.Errorf("save %s: %w", b.Name, err))
		for _, saved := range branches[:n] {
			i := e.indexOf(saved.ID)
			if i < 0 {
				continue
			}
			if rerr := e.store.Save(ctx, e.branches[i]); rerr != nil {
				result = multierror.Append(result, fmt.Errorf("restore %s: %w", saved.Name, rerr))
			}
		}
		return result.ErrorOrNil()
	}

	for _, b := range branches {
		if i := e.indexOf(b.ID); i >= 0 {
			e.branches[i] = b
		}
	}
	return nil
}
