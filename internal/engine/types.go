package engine

import (
	"time"
)

// VirtualBranch is a user-visible grouping of uncommitted changes
type VirtualBranch struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Ownership string    `json:"ownership,omitempty"` // newline-delimited path:hunk claims
	Commits   []string  `json:"commits,omitempty"`   // oldest first; the last entry is the head
	Order     int       `json:"order"`
	CreatedAt time.Time `json:"createdAt"`
}

// HeadCommit returns the tip commit of the branch, or "" when it has none
func (b VirtualBranch) HeadCommit() string {
	if len(b.Commits) == 0 {
		return ""
	}
	return b.Commits[len(b.Commits)-1]
}

// IsHeadCommit reports whether commitID is the tip of the branch
func (b VirtualBranch) IsHeadCommit(commitID string) bool {
	return commitID != "" && b.HeadCommit() == commitID
}

func (b VirtualBranch) clone() VirtualBranch {
	b.Commits = append([]string(nil), b.Commits...)
	return b
}
