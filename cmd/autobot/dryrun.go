package main

import (
	"github.com/spf13/cobra"
)

// newDryRunCmd creates the dryrun command.
func newDryRunCmd() *cobra.Command {
	var tool string

	cmd := &cobra.Command{
		Use:   "dryrun <name>",
		Short: "Print the command generate would run",
		Long: `Resolve the spec and AI tool exactly as generate does and print the
shell command without running it. Nothing is written.

Examples:
  autobot dryrun todo-app
  autobot dryrun todo-app --tool gemini --json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDryRun(cmd, args[0], tool)
		},
	}
	addToolFlag(cmd, &tool)
	return cmd
}

func runDryRun(cmd *cobra.Command, name, tool string) error {
	a := newApp(cmd)
	defer a.close()

	command, err := a.engine.DryRun(name, tool)
	if err != nil {
		return fail(a.printer, err)
	}

	if a.printer.IsJSON() {
		if tool == "" {
			tool = a.cfg.DefaultAITool()
		}
		return a.printer.WriteJSON(map[string]any{
			"spec":    name,
			"adapter": tool,
			"command": command,
		})
	}
	a.printer.Command(command)
	return nil
}
