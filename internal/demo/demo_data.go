// Package demo provides seeded virtual branches for trying the board and
// the move commands without a real git repository.
package demo

import (
	"context"
	"time"

	"stackit.dev/vbranch/internal/engine"
	"stackit.dev/vbranch/internal/git"
	"stackit.dev/vbranch/internal/runtime"
)

var demoCreatedAt = time.Date(2026, time.January, 12, 9, 30, 0, 0, time.UTC)

// Demo workspace: three lanes splitting one working copy
var demoBranches = []engine.VirtualBranch{
	{
		ID:        "7d1c3a52-6a0e-4c39-9b7f-0f6f2f1a6e01",
		Name:      "auth-refactor",
		Ownership: "internal/auth/session.go:12-30,48-55\ninternal/auth/token.go:1-40",
		Commits:   []string{"a3f9c21e7b", "5be0d41c92"},
		Order:     0,
		CreatedAt: demoCreatedAt,
	},
	{
		ID:        "0b6e2f9d-3c41-4a8e-8f2d-51a7c7d0e302",
		Name:      "fix-login-timeout",
		Ownership: "internal/http/client.go:88-95\nconfig/defaults.yaml:3-4",
		Commits:   []string{"c17d88a0f4"},
		Order:     1,
		CreatedAt: demoCreatedAt.Add(2 * time.Hour),
	},
	{
		ID:        "e4a2b7c0-91d5-4f63-a0b8-2c9e6d4f7a03",
		Name:      "docs",
		Ownership: "README.md:1-12",
		Order:     2,
		CreatedAt: demoCreatedAt.Add(26 * time.Hour),
	},
}

// Uncommitted hunks of the demo working copy. The last one is unowned.
var demoHunks = []git.Hunk{
	{File: "internal/auth/session.go", OldStart: 12, OldCount: 10, NewStart: 12, NewCount: 18},
	{File: "internal/auth/session.go", OldStart: 40, OldCount: 6, NewStart: 48, NewCount: 7},
	{File: "internal/auth/token.go", NewStart: 1, NewCount: 39},
	{File: "internal/http/client.go", OldStart: 88, OldCount: 5, NewStart: 88, NewCount: 7},
	{File: "config/defaults.yaml", OldStart: 3, OldCount: 1, NewStart: 3, NewCount: 1},
	{File: "README.md", OldStart: 1, OldCount: 4, NewStart: 1, NewCount: 11},
	{File: "Makefile", OldStart: 20, OldCount: 2, NewStart: 20, NewCount: 3},
}

// Branches returns a fresh copy of the demo branches
func Branches() []engine.VirtualBranch {
	out := make([]engine.VirtualBranch, len(demoBranches))
	for i, b := range demoBranches {
		b.Commits = append([]string(nil), b.Commits...)
		out[i] = b
	}
	return out
}

// WorkingHunks returns the demo working copy
func WorkingHunks(_ context.Context) ([]git.Hunk, error) {
	return append([]git.Hunk(nil), demoHunks...), nil
}

// DefaultBranchID is the branch unowned demo hunks are assigned to
func DefaultBranchID() string {
	return demoBranches[0].ID
}

func init() {
	// Register the demo store with runtime package
	runtime.DemoPersisterFactory = func() engine.Persister {
		return engine.NewMemoryPersister(Branches()...)
	}
	runtime.DemoHunks = WorkingHunks
	runtime.DemoDefaultBranch = DefaultBranchID
}
