// Package main provides the entry point for the autobot CLI.
package main

import (
	"context"
	"os"

	"github.com/charmbracelet/fang"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/gorewood/autobot/internal/config"
	"github.com/gorewood/autobot/internal/envfile"
	"github.com/gorewood/autobot/internal/output"
)

func main() {
	os.Exit(run())
}

func run() int {
	err := fang.Execute(context.Background(), newRootCmd(), fang.WithVersion(buildVersion()))
	return output.GetExitCode(err)
}

// commandGroups lists every subcommand under its help heading.
var commandGroups = []struct {
	id, title string
	commands  []func() *cobra.Command
}{
	{"spec", "Spec Commands:", []func() *cobra.Command{newCreateCmd, newShowCmd, newListCmd}},
	{"ai", "AI Commands:", []func() *cobra.Command{newGenerateCmd, newDryRunCmd, newRefineCmd, newUpdateCmd, newInferCmd}},
	{"admin", "Admin Commands:", []func() *cobra.Command{newConfigCmd, newAdaptersCmd, newMetaCmd, newHistoryCmd, newServeCmd}},
}

// newRootCmd creates the root command for the autobot CLI.
func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "autobot",
		Short: "Drive AI coding tools from application specs",
		Long: `Autobot - manage application specs and hand them to AI coding tools.

A spec is a Markdown document describing an application. Autobot:
  - Scaffolds and stores specs (create, show, list)
  - Hands a spec to an AI tool to build the application (generate, dryrun)
  - Asks an AI tool to improve a spec, or to derive one from code (refine, update, infer)

AI tools are pluggable adapters: claude, codex and gemini are built in.
All commands support --json for structured output.`,
		Version:           buildVersion(),
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: prepare,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !isJSONMode(cmd) {
				return cmd.Help()
			}
			err := output.NewUserError("no command specified. Run 'autobot --help' for usage")
			output.NewPrinter(cmd.OutOrStdout(), true, false).Error(err)
			return err
		},
	}

	flags := cmd.PersistentFlags()
	flags.Bool("json", false, "Output in JSON format")
	flags.String("color", string(output.ColorAuto), "Color output: auto, always, never")
	flags.String("log-level", "", "Diagnostic log level: trace, debug, info, warn, error (default $AUTOBOT_LOG_LEVEL or warn)")
	flags.String("specs-dir", "", "Directory holding spec files (default from config, then ./specs)")

	lipgloss.SetHasDarkBackground(true)

	for _, group := range commandGroups {
		cmd.AddGroup(&cobra.Group{ID: group.id, Title: group.title})
		for _, newCmd := range group.commands {
			sub := newCmd()
			sub.GroupID = group.id
			cmd.AddCommand(sub)
		}
	}
	return cmd
}

// prepare runs before every subcommand. It rejects a bad --color value and
// loads .env.local, .env and <config dir>/env so AI tool API keys reach the
// subprocess. Variables already in the environment win.
func prepare(cmd *cobra.Command, _ []string) error {
	if _, err := output.ParseColorMode(persistentFlag(cmd, "color")); err != nil {
		output.NewPrinter(cmd.OutOrStdout(), isJSONMode(cmd), false).WithStderr(cmd.ErrOrStderr()).Error(err)
		return err
	}
	_, _ = envfile.LoadAll(envfile.Files(config.Dir())...)
	return nil
}

// isJSONMode reads the --json persistent flag from the command hierarchy.
func isJSONMode(cmd *cobra.Command) bool {
	return persistentFlag(cmd, "json") == "true"
}

// persistentFlag returns the string value of a root persistent flag, or ""
// when it is not defined.
func persistentFlag(cmd *cobra.Command, name string) string {
	if flag := cmd.Flags().Lookup(name); flag != nil {
		return flag.Value.String()
	}
	if flag := cmd.Root().PersistentFlags().Lookup(name); flag != nil {
		return flag.Value.String()
	}
	return ""
}
