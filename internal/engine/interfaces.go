package engine

import (
	"context"
)

// BranchReader provides read-only access to virtual branches
// Thread-safe: All methods are safe for concurrent use
type BranchReader interface {
	AllBranches() []VirtualBranch
	GetBranch(branchID string) (VirtualBranch, error)
	FindBranch(nameOrID string) (VirtualBranch, error)

	// Ownership queries
	OwnerOf(filePath, hunkID string) (string, bool)
	FindBranchForCommit(commitID string) (string, error)
	IsLocked(filePath, hunkID string) bool
}

// BranchController performs the mutations a drop results in
// Thread-safe: All methods are safe for concurrent use
type BranchController interface {
	// MoveCommit moves commitID onto the branch identified by branchID
	MoveCommit(ctx context.Context, branchID, commitID string) error
	// UpdateBranchOwnership replaces the ownership record of branchID
	UpdateBranchOwnership(ctx context.Context, branchID, ownership string) error
}

// Persister loads and stores virtual branches
type Persister interface {
	Load(ctx context.Context) ([]VirtualBranch, error)
	Save(ctx context.Context, branch VirtualBranch) error
}
