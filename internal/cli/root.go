package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"stackit.dev/vbranch/internal/tui"
)

// NewRootCmd creates the root cobra command
func NewRootCmd(version, commit, date string) *cobra.Command {
	var debug bool

	rootCmd := &cobra.Command{
		Use:   "vb",
		Short: "vb splits one working copy into virtual branches",
		Long: `vb splits one working copy into several virtual branches.

Every uncommitted hunk belongs to exactly one virtual branch. Hunks, whole
files and head commits can be moved between branches from the command line
or from the interactive board.`,
		Version:       fmt.Sprintf("%s (commit %s, built %s)", version, commit, date),
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRun: func(_ *cobra.Command, _ []string) {
			if debug {
				os.Setenv("DEBUG", "1")
			}
			tui.ConfigureColors()
		},
	}

	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "Write debug output to the console")

	rootCmd.AddCommand(newInitCmd())
	rootCmd.AddCommand(newBranchCmd())
	rootCmd.AddCommand(newStatusCmd())
	rootCmd.AddCommand(newMoveCmd())
	rootCmd.AddCommand(newBoardCmd())
	rootCmd.AddCommand(newConfigCmd())

	return rootCmd
}
