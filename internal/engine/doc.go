// Package engine manages virtual branches and the hunks they own.
//
// It is the branch controller behind every drop, responsible for:
//   - Tracking virtual branches, their ownership records and commits
//   - Applying ownership updates and reconciling claims across branches
//   - Moving head commits between branches
//   - Reserving hunks while a move is in flight
//
// The engine abstracts the underlying storage (git refs or memory) behind
// the Persister interface.
package engine
