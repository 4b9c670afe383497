package main

import (
	"github.com/spf13/cobra"
)

// newListCmd creates the list command.
func newListCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List stored specs",
		Args:    cobra.NoArgs,
		RunE:    runList,
	}
}

func runList(cmd *cobra.Command, _ []string) error {
	a := newApp(cmd)
	defer a.close()

	names, err := a.engine.List()
	if err != nil {
		return fail(a.printer, err)
	}

	if a.printer.IsJSON() {
		return a.printer.WriteJSON(map[string]any{
			"specs_dir": a.specs.Dir(),
			"specs":     names,
		})
	}
	if len(names) == 0 {
		a.printer.Println("No specs in " + a.specs.Dir())
		a.printer.Note("Create one with 'autobot create <name>'.")
		return nil
	}
	for _, name := range names {
		a.printer.Println(name)
	}
	return nil
}
