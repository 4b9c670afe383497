package main

import (
	"github.com/spf13/cobra"
)

// newUpdateCmd creates the update command.
func newUpdateCmd() *cobra.Command {
	var tool string

	cmd := &cobra.Command{
		Use:   "update <name> <path>",
		Short: "Reconcile a spec with the code at path",
		Long: `Summarize the codebase at <path> and ask an AI tool to bring the spec
in line with it, keeping the human-authored intent sections.

You are asked to confirm before anything runs. A failed run restores the
spec and is not retried.

Examples:
  autobot update todo-app .
  autobot update todo-app ./services/todo --tool codex`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runUpdate(cmd, args[0], args[1], tool)
		},
	}
	addToolFlag(cmd, &tool)
	return cmd
}

func runUpdate(cmd *cobra.Command, name, source, tool string) error {
	a := newApp(cmd, withHistory())
	defer a.close()

	res, err := a.engine.Update(cmd.Context(), name, source, tool)
	if handled, cancelErr := reportCancelled(a.printer, err); handled {
		return cancelErr
	}
	return reportRun(a.printer, res, err)
}
