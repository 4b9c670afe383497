package main

import (
	"github.com/spf13/cobra"
)

// newShowCmd creates the show command.
func newShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <name>",
		Short: "Print a spec",
		Long: `Print the stored content of a spec exactly as it is on disk.

Examples:
  autobot show todo-app
  autobot show todo-app --json  # Name, path and content as JSON`,
		Args: cobra.ExactArgs(1),
		RunE: runShow,
	}
}

func runShow(cmd *cobra.Command, args []string) error {
	a := newApp(cmd)
	defer a.close()

	name := args[0]
	content, err := a.engine.Show(name)
	if err != nil {
		return fail(a.printer, err)
	}

	if a.printer.IsJSON() {
		path, _ := a.specs.Path(name)
		return a.printer.WriteJSON(map[string]any{
			"name":    name,
			"path":    path,
			"content": string(content),
		})
	}
	a.printer.Print("%s", content)
	return nil
}
