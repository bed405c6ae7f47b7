package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"stackit.dev/vbranch/internal/config"
	"stackit.dev/vbranch/internal/runtime"
)

func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Read or change repository settings",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "auto-assign [true|false]",
		Short: "Whether status gives unowned hunks to the default branch",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if runtime.IsDemoMode() {
				return fmt.Errorf("config is not available in demo mode")
			}
			return run(cmd, func(ctx *runtime.Context) error {
				if len(args) == 0 {
					enabled, err := config.GetAutoAssign(ctx.RepoRoot)
					if err != nil {
						return err
					}
					ctx.Splog.Info("%t", enabled)
					return nil
				}

				enabled, err := strconv.ParseBool(args[0])
				if err != nil {
					return fmt.Errorf("invalid value %q: %w", args[0], err)
				}
				if err := config.SetAutoAssign(ctx.RepoRoot, enabled); err != nil {
					return err
				}
				ctx.Splog.Info("auto-assign set to %t.", enabled)
				return nil
			})
		},
	})

	return cmd
}
