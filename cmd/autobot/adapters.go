package main

import (
	"github.com/spf13/cobra"

	"github.com/gorewood/autobot/internal/adapter"
	"github.com/gorewood/autobot/internal/config"
)

// adapterRow is the JSON shape of one registered adapter.
type adapterRow struct {
	Name        string `json:"name"`
	DisplayName string `json:"display_name"`
	Binary      string `json:"binary"`
	Available   bool   `json:"available"`
	Default     bool   `json:"default"`
}

// newAdaptersCmd creates the adapters command.
func newAdaptersCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "adapters",
		Short: "List the AI tools autobot can drive",
		Long: `List the registered AI tool adapters, whether each tool's executable
is on PATH, and which one is the default.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			printer := newPrinter(cmd)
			cfg := loadConfig(newLogger(cmd))
			registry := adapter.Builtin()

			rows, err := collectAdapters(registry, cfg)
			if err != nil {
				return fail(printer, err)
			}

			if printer.IsJSON() {
				return printer.WriteJSON(map[string]any{"adapters": rows})
			}
			table := make([][]string, 0, len(rows))
			for _, r := range rows {
				status := "not found"
				if r.Available {
					status = "available"
				}
				name := r.Name
				if r.Default {
					name += " *"
				}
				table = append(table, []string{name, r.DisplayName, r.Binary, status})
			}
			printer.Table([]string{"NAME", "TOOL", "BINARY", "STATUS"}, table)
			printer.Note("* default (change with 'autobot config set default-ai-tool <name>')")
			return nil
		},
	}
}

func collectAdapters(registry *adapter.Registry, cfg *config.Config) ([]adapterRow, error) {
	defaultTool := cfg.DefaultAITool()
	names := registry.Names()
	rows := make([]adapterRow, 0, len(names))
	for _, name := range names {
		a, err := registry.Resolve(name)
		if err != nil {
			return nil, err
		}
		rows = append(rows, adapterRow{
			Name:        a.Name(),
			DisplayName: a.DisplayName(),
			Binary:      a.Binary(),
			Available:   adapter.Available(a),
			Default:     a.Name() == defaultTool,
		})
	}
	return rows, nil
}
