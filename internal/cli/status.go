package cli

import (
	"github.com/spf13/cobra"

	"stackit.dev/vbranch/internal/actions"
	"stackit.dev/vbranch/internal/runtime"
)

func newStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "status",
		Aliases: []string{"st"},
		Short:   "Show uncommitted hunks and the branches that own them",
		Long: `Show uncommitted hunks and the branches that own them.

Hunks that no branch owns are given to the default branch first, unless
auto-assign is turned off with 'vb config auto-assign false'.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd, func(ctx *runtime.Context) error {
				_, err := actions.StatusAction(ctx)
				return err
			})
		},
	}
}
