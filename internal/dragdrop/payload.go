package dragdrop

import (
	"stackit.dev/vbranch/internal/ownership"
)

// Kind discriminates the payload variants
type Kind int

const (
	KindCommit Kind = iota
	KindHunk
	KindFileSet
)

func (k Kind) String() string {
	switch k {
	case KindCommit:
		return "commit"
	case KindHunk:
		return "hunk"
	case KindFileSet:
		return "file"
	default:
		return "unknown"
	}
}

// Payload is something picked up from one branch and dropped on another.
// The set of implementations is closed: Commit, Hunk and FileSet.
type Payload interface {
	Kind() Kind
	// SourceBranch is the id of the branch the payload was picked up from
	SourceBranch() string
	isPayload()
}

// OwnershipPayload is a payload whose drop reassigns ownership claims
type OwnershipPayload interface {
	Payload
	// Fragment is the ownership the target branch claims on drop
	Fragment() string
}

// Commit is a commit dragged between branches
type Commit struct {
	BranchID     string
	CommitID     string
	IsHeadCommit bool
}

func (Commit) Kind() Kind             { return KindCommit }
func (c Commit) SourceBranch() string { return c.BranchID }
func (Commit) isPayload()             {}

// DraggedHunk describes the hunk carried by a Hunk payload
type DraggedHunk struct {
	ID       string
	FilePath string
	Locked   bool
}

// Hunk is a single diff hunk. CommitID is empty for working-copy hunks.
type Hunk struct {
	BranchID string
	CommitID string
	Hunk     DraggedHunk
}

func (Hunk) Kind() Kind             { return KindHunk }
func (h Hunk) SourceBranch() string { return h.BranchID }
func (Hunk) isPayload()             {}

// Fragment claims the single hunk
func (h Hunk) Fragment() string {
	return ownership.Claim{FilePath: h.Hunk.FilePath, HunkIDs: []string{h.Hunk.ID}}.String()
}

// FileSet is a set of whole files. CommitID is empty for working-copy files.
type FileSet struct {
	BranchID string
	CommitID string
	Files    []ownership.File
}

func (FileSet) Kind() Kind             { return KindFileSet }
func (f FileSet) SourceBranch() string { return f.BranchID }
func (FileSet) isPayload()             {}

// Fragment claims every hunk of every file, one line per file
func (f FileSet) Fragment() string {
	return ownership.FilesToOwnership(f.Files)
}
