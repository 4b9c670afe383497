package main

import (
	"github.com/spf13/cobra"

	"github.com/gorewood/autobot/internal/lifecycle"
)

// newInferCmd creates the infer command.
func newInferCmd() *cobra.Command {
	var (
		tool       string
		saveOutput bool
	)

	cmd := &cobra.Command{
		Use:   "infer <name> <path>",
		Short: "Derive a spec from the code at path",
		Long: `Summarize the codebase at <path> and ask an AI tool to write a spec
describing it. An existing spec with the same name may be overwritten.

Some tools print the spec instead of writing the file. Their output is
shown; --save-output writes it to the spec instead.

Examples:
  autobot infer legacy-billing ./billing
  autobot infer legacy-billing ./billing --tool codex --save-output`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInfer(cmd, args[0], args[1], tool, lifecycle.InferOptions{SaveOutput: saveOutput})
		},
	}
	addToolFlag(cmd, &tool)
	cmd.Flags().BoolVar(&saveOutput, "save-output", false, "Write the tool's printed output to the spec when the tool does not write it")
	return cmd
}

func runInfer(cmd *cobra.Command, name, source, tool string, opts lifecycle.InferOptions) error {
	a := newApp(cmd, withHistory())
	defer a.close()

	res, err := a.engine.Infer(cmd.Context(), name, source, tool, opts)
	return reportRun(a.printer, res, err)
}
