package cli

import (
	"github.com/spf13/cobra"

	"stackit.dev/vbranch/internal/actions"
	"stackit.dev/vbranch/internal/runtime"
)

func newMoveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "move",
		Aliases: []string{"mv"},
		Short:   "Move a hunk, files or a commit to another virtual branch",
		Long: `Move a hunk, files or a commit to another virtual branch.

The source is the branch that currently owns what is moved. Without --to,
the target branch is picked interactively. A move the target cannot accept
is reported and skipped.`,
	}

	cmd.AddCommand(newMoveHunkCmd(), newMoveFileCmd(), newMoveCommitCmd())
	return cmd
}

func addToFlag(cmd *cobra.Command, to *string) {
	cmd.Flags().StringVarP(to, "to", "t", "", "Target branch name or id")
	_ = cmd.RegisterFlagCompletionFunc("to", completeBranches)
}

func newMoveHunkCmd() *cobra.Command {
	var to string
	cmd := &cobra.Command{
		Use:     "hunk <file:hunkId>",
		Short:   "Move one uncommitted hunk",
		Example: `  vb move hunk internal/auth/session.go:12-30 --to fix-login`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, func(ctx *runtime.Context) error {
				return actions.MoveHunkAction(ctx, actions.MoveHunkOptions{Hunk: args[0], To: to})
			})
		},
	}
	addToFlag(cmd, &to)
	return cmd
}

func newMoveFileCmd() *cobra.Command {
	var to string
	cmd := &cobra.Command{
		Use:   "file <path>...",
		Short: "Move every uncommitted hunk of one or more files",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, func(ctx *runtime.Context) error {
				return actions.MoveFileAction(ctx, actions.MoveFileOptions{Paths: args, To: to})
			})
		},
	}
	addToFlag(cmd, &to)
	return cmd
}

func newMoveCommitCmd() *cobra.Command {
	var to string
	cmd := &cobra.Command{
		Use:   "commit <commit>",
		Short: "Move the head commit of a branch",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, func(ctx *runtime.Context) error {
				return actions.MoveCommitAction(ctx, actions.MoveCommitOptions{CommitID: args[0], To: to})
			})
		},
	}
	addToFlag(cmd, &to)
	return cmd
}
