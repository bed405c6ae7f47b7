// Package git provides low-level Git operations.
//
// It wraps git command execution and go-git access for:
//   - Working copy diff queries (hunks that can be claimed by a virtual branch)
//   - Virtual branch records stored as blobs under refs/vbranches/
//
// This package should be the only place where direct git commands are executed.
package git
