package git

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Hunk represents a single hunk of changes in a diff
type Hunk struct {
	File     string // File path
	OldStart int    // Line number in old file (1-indexed)
	OldCount int    // Number of lines in old file
	NewStart int    // Line number in new file (1-indexed)
	NewCount int    // Number of lines in new file
	Content  string // The actual diff content (including header)
}

// ID returns the identifier used for the hunk in ownership claims: the
// new-file line range as "start-end".
func (h Hunk) ID() string {
	return fmt.Sprintf("%d-%d", h.NewStart, h.NewStart+h.NewCount)
}

// Regex to match hunk headers: @@ -old_start,old_count +new_start,new_count @@
var hunkHeaderRegex = regexp.MustCompile(`^@@ -(\d+)(?:,(\d+))? \+(\d+)(?:,(\d+))? @@`)

// WorkingHunks returns the uncommitted hunks of the working copy relative to HEAD
func WorkingHunks(ctx context.Context) ([]Hunk, error) {
	return defaultRunner.WorkingHunks(ctx)
}

// WorkingHunks returns the uncommitted hunks of the runner's working copy
func (r *CommandRunner) WorkingHunks(ctx context.Context) ([]Hunk, error) {
	diffOutput, err := r.RunRaw(ctx, "diff", "HEAD", "--no-color", "--no-ext-diff")
	if err != nil {
		return nil, fmt.Errorf("failed to get working diff: %w", err)
	}
	return ParseHunks(diffOutput), nil
}

// ParseHunks parses unified diff output into structured hunks
func ParseHunks(diffOutput string) []Hunk {
	if strings.TrimSpace(diffOutput) == "" {
		return []Hunk{}
	}

	var hunks []Hunk
	var currentHunk *Hunk
	var currentFile string
	var hunkLines []string

	flush := func() {
		if currentHunk != nil {
			currentHunk.Content = strings.Join(hunkLines, "\n")
			hunks = append(hunks, *currentHunk)
			currentHunk = nil
			hunkLines = nil
		}
	}

	for _, line := range strings.Split(diffOutput, "\n") {
		if strings.HasPrefix(line, "diff --git") {
			flush()
			// Format: "diff --git a/path/to/file b/path/to/file"
			parts := strings.Split(line, " ")
			if len(parts) >= 4 {
				bPath := parts[len(parts)-1]
				if strings.HasPrefix(bPath, "b/") {
					currentFile = strings.TrimPrefix(bPath, "b/")
				}
			}
			continue
		}

		if match := hunkHeaderRegex.FindStringSubmatch(line); match != nil {
			flush()
			currentHunk = &Hunk{
				File:     currentFile,
				OldStart: parseInt(match[1]),
				OldCount: parseCount(match[2]),
				NewStart: parseInt(match[3]),
				NewCount: parseCount(match[4]),
			}
			hunkLines = []string{line}
			continue
		}

		if currentHunk != nil {
			hunkLines = append(hunkLines, line)
		}
	}
	flush()

	return hunks
}

// parseInt parses a string to int, returns 0 if empty or invalid
func parseInt(s string) int {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0
	}
	return n
}

// parseCount parses a hunk line count; an omitted count means 1
func parseCount(s string) int {
	if s == "" {
		return 1
	}
	return parseInt(s)
}
