package actions

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"

	"stackit.dev/vbranch/internal/ownership"
	"stackit.dev/vbranch/internal/runtime"
	"stackit.dev/vbranch/internal/tui"
)

// StatusLine is one working-copy hunk and the branch that owns it
type StatusLine struct {
	FilePath   string
	HunkID     string
	BranchName string // empty when unowned
}

// StatusAction lists the working-copy hunks with their owners. Whole-file
// claims are pinned to the file's current hunks. When auto assign is on,
// hunks nobody owns are first given to the default branch.
func StatusAction(ctx *runtime.Context) ([]StatusLine, error) {
	eng := ctx.Engine
	splog := ctx.Splog

	hunks, err := ctx.WorkingHunks(ctx.Context)
	if err != nil {
		return nil, err
	}
	working := ownership.FromHunks(hunks)

	if ctx.AutoAssign && ctx.DefaultBranchID != "" {
		assigned, err := eng.AssignUnowned(ctx.Context, working, ctx.DefaultBranchID)
		if err != nil {
			return nil, fmt.Errorf("failed to assign new hunks: %w", err)
		}
		if !assigned.IsEmpty() {
			splog.Debug("assigned %s", assigned)
		}
	} else if err := eng.ExpandWholeFiles(ctx.Context, working); err != nil {
		return nil, fmt.Errorf("failed to split whole-file claims: %w", err)
	}

	names := make(map[string]string)
	colors := make(map[string]lipgloss.Color)
	for i, b := range eng.AllBranches() {
		names[b.ID] = b.Name
		colors[b.ID] = tui.BranchColor(i)
	}

	var lines []StatusLine
	for _, c := range working.Claims {
		for _, id := range c.HunkIDs {
			line := StatusLine{FilePath: c.FilePath, HunkID: id}
			owner, ok := eng.OwnerOf(c.FilePath, id)
			if ok {
				line.BranchName = names[owner]
			}
			lines = append(lines, line)

			label := lipgloss.NewStyle().Foreground(lipgloss.Color("240")).Render("unowned")
			if ok {
				label = lipgloss.NewStyle().Foreground(colors[owner]).Render(line.BranchName)
			}
			splog.Info("%s:%s  %s", c.FilePath, id, label)
		}
	}
	if len(lines) == 0 {
		splog.Info("No uncommitted changes.")
	}
	return lines, nil
}
