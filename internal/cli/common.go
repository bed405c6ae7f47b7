package cli

import (
	"io"

	"github.com/spf13/cobra"

	_ "stackit.dev/vbranch/internal/demo" // Register demo store factory
	"stackit.dev/vbranch/internal/engine"
	"stackit.dev/vbranch/internal/output"
	"stackit.dev/vbranch/internal/runtime"
)

// newSplog logs to the console and to the rotating log file. The file is
// best effort: without it, console output still works.
func newSplog() *output.Splog {
	splog, err := output.NewSplogWithLogFile(output.GetLogFilePath())
	if err != nil {
		splog = output.NewSplog()
		splog.Debug("log file disabled: %v", err)
	}
	return splog
}

// run is a helper that provides a runtime context to a command's execution function
func run(cmd *cobra.Command, fn func(ctx *runtime.Context) error) error {
	splog := newSplog()
	defer splog.Close()

	ctx, err := runtime.GetContext(cmd.Context(), splog)
	if err != nil {
		return err
	}
	defer ctx.Close()

	return fn(ctx)
}

// completeBranches is a helper for cobra.ValidArgsFunction and RegisterFlagCompletionFunc
// that returns all virtual branch names.
func completeBranches(cmd *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
	ctx, err := runtime.GetContext(cmd.Context(), output.NewSplogForWriter(io.Discard))
	if err != nil {
		return nil, cobra.ShellCompDirectiveError
	}
	defer ctx.Close()
	return branchNames(ctx.Engine.AllBranches()), cobra.ShellCompDirectiveNoFileComp
}

func branchNames(branches []engine.VirtualBranch) []string {
	names := make([]string, 0, len(branches))
	for _, b := range branches {
		names = append(names, b.Name)
	}
	return names
}
