package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"stackit.dev/vbranch/internal/actions"
	"stackit.dev/vbranch/internal/git"
)

func newInitCmd() *cobra.Command {
	var (
		defaultBranch string
		noAutoAssign  bool
	)

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Set up virtual branches in the current repository",
		Long: `Set up virtual branches in the current repository.

Creates the default virtual branch, which receives every hunk that no other
branch owns. Running init again keeps the existing branches.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			repoRoot, err := git.GetRepoRoot(cmd.Context())
			if err != nil {
				return fmt.Errorf("not a git repository: %w", err)
			}

			opts := actions.InitOptions{DefaultBranch: defaultBranch}
			if cmd.Flags().Changed("no-auto-assign") {
				autoAssign := !noAutoAssign
				opts.AutoAssign = &autoAssign
			}

			splog := newSplog()
			defer splog.Close()
			return actions.InitAction(cmd.Context(), repoRoot, opts, splog)
		},
	}

	cmd.Flags().StringVar(&defaultBranch, "default", actions.DefaultBranchName, "Name of the default virtual branch")
	cmd.Flags().BoolVar(&noAutoAssign, "no-auto-assign", false, "Do not give new hunks to the default branch on status")

	return cmd
}
