package main

import (
	"github.com/spf13/cobra"
)

// newRefineCmd creates the refine command.
func newRefineCmd() *cobra.Command {
	var tool string

	cmd := &cobra.Command{
		Use:   "refine <name>",
		Short: "Improve a spec's structure and clarity with an AI tool",
		Long: `Ask an AI tool to rewrite a spec in place using the spec-updater
meta-instructions. No codebase is read.

If the tool fails, the spec is restored and opened in your editor
($VISUAL, $EDITOR, or the editor config option) so you can refine it by hand.

Examples:
  autobot refine todo-app
  autobot refine todo-app --tool gemini`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRefine(cmd, args[0], tool)
		},
	}
	addToolFlag(cmd, &tool)
	return cmd
}

func runRefine(cmd *cobra.Command, name, tool string) error {
	a := newApp(cmd, withHistory())
	defer a.close()

	res, err := a.engine.Refine(cmd.Context(), name, tool)
	return reportRun(a.printer, res, err)
}
