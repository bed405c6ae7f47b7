package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"stackit.dev/vbranch/internal/runtime"
	"stackit.dev/vbranch/internal/tui"
)

func newBoardCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "board",
		Short: "Move hunks, files and commits interactively",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !tui.IsTTY() {
				return fmt.Errorf("the board needs an interactive terminal")
			}
			return run(cmd, func(ctx *runtime.Context) error {
				if err := ctx.AssureOpenWorkspace(); err != nil {
					return err
				}
				ctx.Splog.SetQuiet(true)
				defer ctx.Splog.SetQuiet(false)
				return tui.RunBoard(ctx.Context, ctx.Engine, ctx.Factory, ctx.Queue)
			})
		},
	}
}
