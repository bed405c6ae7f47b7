// Package ownership implements the claim grammar virtual branches use to
// record which hunks of which files they own.
//
// An ownership record is newline-delimited; each line is a claim of the form
//
//	path/to/file:hunkId[,hunkId...]
//
// A claim with no hunk ids ("path:") claims the whole file.
package ownership

import (
	"fmt"
	"slices"
	"strings"

	vberrors "stackit.dev/vbranch/internal/errors"
)

// Claim associates a file path with the hunks of it a branch owns
type Claim struct {
	FilePath string
	HunkIDs  []string
}

// WholeFile reports whether the claim covers every hunk of the file
func (c Claim) WholeFile() bool {
	return len(c.HunkIDs) == 0
}

func (c Claim) String() string {
	return c.FilePath + ":" + strings.Join(c.HunkIDs, ",")
}

// Ownership is an ordered list of claims
type Ownership struct {
	Claims []Claim
}

// Parse reads an ownership record. Blank lines are skipped.
func Parse(s string) (Ownership, error) {
	var o Ownership
	for _, line := range strings.Split(s, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		claim, err := ParseClaim(line)
		if err != nil {
			return Ownership{}, err
		}
		o.Claims = append(o.Claims, claim)
	}
	return o, nil
}

// ParseClaim reads a single claim line. The path ends at the last ':' so
// paths containing colons survive.
func ParseClaim(line string) (Claim, error) {
	idx := strings.LastIndex(line, ":")
	if idx < 0 {
		return Claim{}, vberrors.NewInvalidClaimError(line, "missing ':'")
	}
	path := strings.TrimSpace(line[:idx])
	if path == "" {
		return Claim{}, vberrors.NewInvalidClaimError(line, "empty file path")
	}

	claim := Claim{FilePath: path}
	if rest := strings.TrimSpace(line[idx+1:]); rest != "" {
		for _, id := range strings.Split(rest, ",") {
			id = strings.TrimSpace(id)
			if id == "" {
				return Claim{}, vberrors.NewInvalidClaimError(line, "empty hunk id")
			}
			claim.HunkIDs = append(claim.HunkIDs, id)
		}
	}
	return claim, nil
}

func (o Ownership) String() string {
	lines := make([]string, 0, len(o.Claims))
	for _, c := range o.Claims {
		lines = append(lines, c.String())
	}
	return strings.Join(lines, "\n")
}

// IsEmpty reports whether the record holds no claims
func (o Ownership) IsEmpty() bool {
	return len(o.Claims) == 0
}

// Merge prepends a newly claimed fragment to an existing ownership record.
// No deduplication happens here; the earlier line wins when the record is
// later normalized.
func Merge(fragment, existing string) string {
	return strings.TrimSpace(fragment + "\n" + existing)
}

// Normalize folds repeated claims on the same file into one, keeping the
// position of the file's first claim and the first occurrence of each hunk
// id. A whole-file claim absorbs every other claim on that file.
func (o Ownership) Normalize() Ownership {
	var out Ownership
	index := make(map[string]int)
	for _, c := range o.Claims {
		i, seen := index[c.FilePath]
		if !seen {
			index[c.FilePath] = len(out.Claims)
			out.Claims = append(out.Claims, Claim{FilePath: c.FilePath, HunkIDs: dedupe(nil, c.HunkIDs)})
			continue
		}
		existing := &out.Claims[i]
		switch {
		case existing.WholeFile():
		case c.WholeFile():
			existing.HunkIDs = nil
		default:
			existing.HunkIDs = dedupe(existing.HunkIDs, c.HunkIDs)
		}
	}
	return out
}

func dedupe(dst, ids []string) []string {
	for _, id := range ids {
		if !slices.Contains(dst, id) {
			dst = append(dst, id)
		}
	}
	return dst
}

// Subtract removes every hunk claimed by taken from o. A whole-file claim in
// taken removes the file outright; a file left with no hunks is dropped.
// The second return value reports whether anything was removed.
//
// Taking some hunks of a file that o claims as a whole fails with
// ErrWholeFileSplit, since the hunks left over are unknown here. Expand the
// claim first.
func (o Ownership) Subtract(taken Ownership) (Ownership, bool, error) {
	wholeFiles := make(map[string]bool)
	hunks := make(map[string]map[string]bool)
	for _, c := range taken.Claims {
		if c.WholeFile() {
			wholeFiles[c.FilePath] = true
			continue
		}
		if hunks[c.FilePath] == nil {
			hunks[c.FilePath] = make(map[string]bool)
		}
		for _, id := range c.HunkIDs {
			hunks[c.FilePath][id] = true
		}
	}

	var out Ownership
	changed := false
	for _, c := range o.Claims {
		if wholeFiles[c.FilePath] {
			changed = true
			continue
		}
		drop := hunks[c.FilePath]
		if len(drop) == 0 {
			out.Claims = append(out.Claims, c)
			continue
		}
		if c.WholeFile() {
			return Ownership{}, false, fmt.Errorf("%s: %w", c.FilePath, vberrors.ErrWholeFileSplit)
		}
		kept := make([]string, 0, len(c.HunkIDs))
		for _, id := range c.HunkIDs {
			if drop[id] {
				changed = true
				continue
			}
			kept = append(kept, id)
		}
		if len(kept) > 0 {
			out.Claims = append(out.Claims, Claim{FilePath: c.FilePath, HunkIDs: kept})
		}
	}
	return out, changed, nil
}

// Expand replaces each whole-file claim on a file that files lists with a
// claim on that file's hunks. Whole-file claims on files missing from files
// are kept. The second return value reports whether any claim was expanded.
func (o Ownership) Expand(files Ownership) (Ownership, bool) {
	known := make(map[string][]string)
	for _, c := range files.Claims {
		if !c.WholeFile() {
			known[c.FilePath] = dedupe(known[c.FilePath], c.HunkIDs)
		}
	}

	out := Ownership{Claims: make([]Claim, 0, len(o.Claims))}
	changed := false
	for _, c := range o.Claims {
		if ids, ok := known[c.FilePath]; ok && c.WholeFile() {
			c = Claim{FilePath: c.FilePath, HunkIDs: slices.Clone(ids)}
			changed = true
		}
		out.Claims = append(out.Claims, c)
	}
	return out, changed
}

// Contains reports whether the record claims the given hunk of path. An
// empty hunkID asks about the file as a whole.
func (o Ownership) Contains(path, hunkID string) bool {
	for _, c := range o.Claims {
		if c.FilePath != path {
			continue
		}
		if c.WholeFile() || hunkID == "" || slices.Contains(c.HunkIDs, hunkID) {
			return true
		}
	}
	return false
}
