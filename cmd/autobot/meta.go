package main

import (
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/gorewood/autobot/internal/config"
	"github.com/gorewood/autobot/internal/output"
	"github.com/gorewood/autobot/internal/prompt"
)

// newMetaCmd creates the meta command group.
func newMetaCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "meta",
		Short: "Manage the meta-instruction documents",
		Long: `Meta-instruction documents tell the AI tool how to write specs.

Two are required:
  codebase-analyzer  used by infer
  spec-updater       used by refine and update

They are looked up in ./.autobot/meta first, then <config dir>/meta.
Run 'autobot meta init' to install the starter documents.`,
	}
	cmd.AddCommand(newMetaInitCmd())
	cmd.AddCommand(newMetaListCmd())
	return cmd
}

func newMetaInitCmd() *cobra.Command {
	var global, force bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Install the starter meta-instruction documents",
		Long: `Write the starter meta-instruction documents to ./.autobot/meta, or to
<config dir>/meta with --global. Existing documents are kept unless --force.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			printer := newPrinter(cmd)

			dir := filepath.Join(".autobot", "meta")
			if global {
				if config.Dir() == "" {
					return fail(printer, output.NewSystemError("cannot determine config directory: set AUTOBOT_CONFIG_HOME"))
				}
				dir = filepath.Join(config.Dir(), "meta")
			}

			results, err := prompt.Init(dir, force)
			if err != nil {
				return fail(printer, err)
			}

			if printer.IsJSON() {
				docs := make([]map[string]any, 0, len(results))
				for _, r := range results {
					docs = append(docs, map[string]any{"name": r.Name, "path": r.Path, "written": r.Written})
				}
				return printer.WriteJSON(map[string]any{"dir": dir, "documents": docs})
			}
			for _, r := range results {
				if r.Written {
					printer.Println("wrote " + r.Path)
				} else {
					printer.Println("kept  " + r.Path + " (use --force to overwrite)")
				}
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&global, "global", false, "Install into the config directory instead of the project")
	cmd.Flags().BoolVar(&force, "force", false, "Overwrite existing documents")
	return cmd
}

func newMetaListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "Show where each meta-instruction document resolves",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			printer := newPrinter(cmd)
			infos := prompt.NewLoader(".", config.Dir()).List()

			if printer.IsJSON() {
				docs := make([]map[string]any, 0, len(infos))
				for _, info := range infos {
					docs = append(docs, map[string]any{
						"name":        info.Name,
						"description": info.Description,
						"source":      info.Source,
						"path":        info.Path,
						"shadows":     info.Shadows,
					})
				}
				return printer.WriteJSON(map[string]any{"documents": docs})
			}

			rows := make([][]string, 0, len(infos))
			missing := false
			for _, info := range infos {
				location := info.Path
				if info.Shadows != "" {
					location += " (overrides " + info.Shadows + ")"
				}
				if info.Source == "missing" {
					missing = true
				}
				rows = append(rows, []string{info.Name, info.Source, location})
			}
			printer.Table([]string{"NAME", "SOURCE", "PATH"}, rows)
			if missing {
				printer.Note("Run 'autobot meta init' to install missing documents.")
			}
			return nil
		},
	}
}
