// Package errors provides sentinel errors and custom error types for vb.
// Use errors.Is() and errors.As() to check for specific error types.
package errors

import (
	"errors"
	"fmt"
)

// Sentinel errors for common conditions
var (
	// ErrBranchNotFound indicates that a virtual branch does not exist
	ErrBranchNotFound = errors.New("branch not found")

	// ErrCommitNotFound indicates that no virtual branch holds the commit
	ErrCommitNotFound = errors.New("commit not found")

	// ErrSelfDrop indicates a move whose source and target are the same branch
	ErrSelfDrop = errors.New("source and target branch are the same")

	// ErrNotHeadCommit indicates an attempt to move a commit that is not the tip of its branch
	ErrNotHeadCommit = errors.New("only the head commit of a branch can be moved")

	// ErrInvalidClaim indicates an ownership line that does not follow the path:hunk grammar
	ErrInvalidClaim = errors.New("invalid ownership claim")

	// ErrInvalidBranchName indicates an empty or duplicate branch name
	ErrInvalidBranchName = errors.New("invalid branch name")

	// ErrNotInitialized indicates that vb has not been set up in the repository
	ErrNotInitialized = errors.New("vb not initialized")

	// ErrWholeFileSplit indicates a move taking some hunks of a file another
	// branch claims as a whole
	ErrWholeFileSplit = errors.New("file is claimed as a whole")

	// ErrWorkspaceNotOpen indicates that HEAD is detached or a git operation
	// such as a rebase or merge is in progress
	ErrWorkspaceNotOpen = errors.New("workspace is not open for changes")
)

// StatusLoadFailed is the status reported with MessageLoadFailed when the
// backend connection drops mid-request.
const (
	StatusLoadFailed  = 500
	MessageLoadFailed = "Load failed"
)

// BranchNotFoundError represents an error when a virtual branch is not found
type BranchNotFoundError struct {
	BranchID string
}

func (e *BranchNotFoundError) Error() string {
	return fmt.Sprintf("virtual branch %s does not exist", e.BranchID)
}

// Is returns true if the target error is ErrBranchNotFound
func (e *BranchNotFoundError) Is(target error) bool {
	return target == ErrBranchNotFound
}

// NewBranchNotFoundError creates a new BranchNotFoundError
func NewBranchNotFoundError(branchID string) *BranchNotFoundError {
	return &BranchNotFoundError{BranchID: branchID}
}

// InvalidClaimError reports the offending ownership line
type InvalidClaimError struct {
	Line   string
	Reason string
}

func (e *InvalidClaimError) Error() string {
	return fmt.Sprintf("invalid ownership claim %q: %s", e.Line, e.Reason)
}

// Is returns true if the target error is ErrInvalidClaim
func (e *InvalidClaimError) Is(target error) bool {
	return target == ErrInvalidClaim
}

// NewInvalidClaimError creates a new InvalidClaimError
func NewInvalidClaimError(line, reason string) *InvalidClaimError {
	return &InvalidClaimError{Line: line, Reason: reason}
}

// MutationError is returned by branch mutations. Status is zero when the
// failure did not come with a status code.
type MutationError struct {
	Status  int
	Message string
	Err     error
}

func (e *MutationError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return "branch mutation failed"
}

// StatusCode returns the status attached to the failure
func (e *MutationError) StatusCode() int {
	return e.Status
}

func (e *MutationError) Unwrap() error {
	return e.Err
}

// NewMutationError wraps err as a MutationError without a status
func NewMutationError(err error) *MutationError {
	return &MutationError{Err: err}
}

// IsTransientDisconnect reports whether err carries the status/message pair
// emitted when the connection drops during a request.
func IsTransientDisconnect(err error) bool {
	var statusErr interface {
		error
		StatusCode() int
	}
	if !errors.As(err, &statusErr) {
		return false
	}
	return statusErr.StatusCode() == StatusLoadFailed && statusErr.Error() == MessageLoadFailed
}

// GitCommandError represents an error from a git command execution
type GitCommandError struct {
	Command string
	Args    []string
	Stdout  string
	Stderr  string
	Err     error
}

func (e *GitCommandError) Error() string {
	msg := fmt.Sprintf("git command failed: %s", e.Command)
	if len(e.Args) > 0 {
		msg += fmt.Sprintf(" %v", e.Args)
	}
	if e.Stderr != "" {
		msg += fmt.Sprintf("\nstderr: %s", e.Stderr)
	}
	if e.Err != nil {
		msg += fmt.Sprintf("\n%v", e.Err)
	}
	return msg
}

func (e *GitCommandError) Unwrap() error {
	return e.Err
}

// NewGitCommandError creates a new GitCommandError
func NewGitCommandError(command string, args []string, stdout, stderr string, err error) *GitCommandError {
	return &GitCommandError{
		Command: command,
		Args:    args,
		Stdout:  stdout,
		Stderr:  stderr,
		Err:     err,
	}
}
