package main

import (
	"github.com/spf13/cobra"
)

// newCreateCmd creates the create command.
func newCreateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "create <name>",
		Short: "Create a new spec from the standard skeleton",
		Long: `Create a new spec file <specs-dir>/<name>.md containing the standard
section skeleton. An existing spec is never overwritten.

Examples:
  autobot create todo-app         # Create specs/todo-app.md
  autobot create todo-app --json  # Report the path as JSON`,
		Args: cobra.ExactArgs(1),
		RunE: runCreate,
	}
}

func runCreate(cmd *cobra.Command, args []string) error {
	a := newApp(cmd)
	defer a.close()

	name := args[0]
	path, err := a.engine.Create(name)
	if err != nil {
		return fail(a.printer, err)
	}

	if a.printer.IsJSON() {
		return a.printer.Success(map[string]any{
			"status": "created",
			"name":   name,
			"path":   path,
		})
	}
	a.printer.Println("Created spec " + name + " at " + path)
	a.printer.Note("Edit it, then run 'autobot refine %s' or 'autobot generate %s'.", name, name)
	return nil
}
