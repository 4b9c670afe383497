package main

import (
	"github.com/spf13/cobra"
)

// newGenerateCmd creates the generate command.
func newGenerateCmd() *cobra.Command {
	var tool string

	cmd := &cobra.Command{
		Use:   "generate <name>",
		Short: "Build an application from a spec with an AI tool",
		Long: `Hand the spec file to an AI coding tool and stream its output.

The tool runs in the current directory with write access and builds
whatever the spec describes. Use 'autobot dryrun' to see the command first.

Examples:
  autobot generate todo-app
  autobot generate todo-app --tool codex`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGenerate(cmd, args[0], tool)
		},
	}
	addToolFlag(cmd, &tool)
	return cmd
}

func runGenerate(cmd *cobra.Command, name, tool string) error {
	a := newApp(cmd, withHistory())
	defer a.close()

	res, err := a.engine.Generate(cmd.Context(), name, tool)
	return reportRun(a.printer, res, err)
}
