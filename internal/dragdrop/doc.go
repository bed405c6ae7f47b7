// Package dragdrop decides whether a dragged payload may be dropped on a
// virtual branch and carries the drop out.
//
// A Resolver is bound to one target branch. Payloads are a closed set of
// variants (Commit, Hunk, FileSet) dispatched on their Kind. Ownership drops
// compute the target's next ownership record, hand it to the branch
// controller and report progress through a Notifier:
//
//	Working... -> Successfully moved hunk
//	           -> There was a problem when moving hunk
//
// The in-progress notification is dismissed on every exit path.
package dragdrop
