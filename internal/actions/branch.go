package actions

import (
	"fmt"

	"github.com/jedib0t/go-pretty/v6/table"

	"stackit.dev/vbranch/internal/ownership"
	"stackit.dev/vbranch/internal/runtime"
)

// CreateBranchAction creates an empty virtual branch
func CreateBranchAction(ctx *runtime.Context, name string) error {
	branch, err := ctx.Engine.CreateBranch(ctx.Context, name)
	if err != nil {
		return err
	}
	ctx.Splog.Info("Created virtual branch %s.", branch.Name)
	return nil
}

// ListBranchesAction prints a table of the virtual branches and what they hold
func ListBranchesAction(ctx *runtime.Context) error {
	branches := ctx.Engine.AllBranches()
	if len(branches) == 0 {
		ctx.Splog.Info("No virtual branches.")
		return nil
	}

	t := table.NewWriter()
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"Branch", "Files", "Hunks", "Commits", "Head"})
	for _, b := range branches {
		claims, err := ownership.Parse(b.Ownership)
		if err != nil {
			return fmt.Errorf("branch %s: %w", b.Name, err)
		}
		hunks := 0
		for _, c := range claims.Claims {
			hunks += len(c.HunkIDs)
		}

		name := b.Name
		if b.ID == ctx.DefaultBranchID {
			name += " (default)"
		}
		t.AppendRow(table.Row{name, len(claims.Claims), hunks, len(b.Commits), b.HeadCommit()})
	}

	ctx.Splog.Info("%s", t.Render())
	return nil
}
