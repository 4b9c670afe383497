package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/gorewood/autobot/internal/adapter"
	"github.com/gorewood/autobot/internal/config"
	"github.com/gorewood/autobot/internal/output"
)

// newConfigCmd creates the config command group.
func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show and change autobot settings",
		Long: `Show and change the settings stored in <config dir>/config.yaml.

Option names accept dashes or underscores (default-ai-tool, default_ai_tool).

Examples:
  autobot config show
  autobot config set default-ai-tool codex
  autobot config set adapter-timeout 45m
  autobot config get default-ai-tool
  autobot config unset editor`,
	}
	cmd.AddCommand(newConfigShowCmd())
	cmd.AddCommand(newConfigGetCmd())
	cmd.AddCommand(newConfigSetCmd())
	cmd.AddCommand(newConfigUnsetCmd())
	cmd.AddCommand(newConfigPathCmd())
	return cmd
}

func newConfigShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show every option with its value",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			printer := newPrinter(cmd)
			cfg := loadConfig(newLogger(cmd))
			values := cfg.Values()

			if printer.IsJSON() {
				return printer.WriteJSON(map[string]any{
					"path":   cfg.Path(),
					"values": values,
				})
			}

			rows := make([][]string, 0, len(config.Options))
			for _, opt := range config.Options {
				value, ok := values[opt.Key]
				if !ok {
					value = "(default: " + opt.Default + ")"
					if opt.Default == "" {
						value = "(unset)"
					}
				}
				rows = append(rows, []string{opt.Key, value, opt.Description})
			}
			printer.Table([]string{"OPTION", "VALUE", "DESCRIPTION"}, rows)
			printer.Note("Config file: %s", cfg.Path())
			return nil
		},
	}
}

func newConfigGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <option>",
		Short: "Print one option's stored value",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			printer := newPrinter(cmd)
			cfg := loadConfig(newLogger(cmd))

			key := config.NormalizeKey(args[0])
			if !config.IsKnownKey(key) {
				return fail(printer, fmt.Errorf("%w: %s", config.ErrUnknownKey, key))
			}
			value, ok := cfg.Get(key)

			if printer.IsJSON() {
				return printer.WriteJSON(map[string]any{"key": key, "value": value, "set": ok})
			}
			if !ok {
				printer.Note("%s is not set", key)
				return nil
			}
			printer.Println(value)
			return nil
		},
	}
}

func newConfigSetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "set <option> <value>",
		Short: "Store an option",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConfigSet(cmd, adapter.Builtin(), args[0], args[1])
		},
	}
}

// runConfigSet validates and saves one option. An AI tool name must
// resolve in registry before it is stored.
func runConfigSet(cmd *cobra.Command, registry *adapter.Registry, key, value string) error {
	printer := newPrinter(cmd)
	cfg := loadConfig(newLogger(cmd))

	key = config.NormalizeKey(key)
	if key == config.KeyDefaultAITool {
		a, err := registry.Resolve(value)
		if err != nil {
			return fail(printer, err)
		}
		value = a.Name()
	}
	if err := cfg.Set(key, value); err != nil {
		return fail(printer, err)
	}
	if err := cfg.Save(); err != nil {
		return fail(printer, err)
	}

	if printer.IsJSON() {
		return printer.Success(map[string]any{"status": "set", "key": key, "value": value})
	}
	printer.Println("Set " + key + " = " + value)
	return nil
}

func newConfigUnsetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "unset <option>",
		Short: "Remove an option, restoring its default",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			printer := newPrinter(cmd)
			cfg := loadConfig(newLogger(cmd))

			key := config.NormalizeKey(args[0])
			if err := cfg.Unset(key); err != nil {
				return fail(printer, err)
			}
			if err := cfg.Save(); err != nil {
				return fail(printer, err)
			}

			if printer.IsJSON() {
				return printer.Success(map[string]any{"status": "unset", "key": key})
			}
			printer.Println("Unset " + key)
			return nil
		},
	}
}

func newConfigPathCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the config file location",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			printer := newPrinter(cmd)
			path := config.Path()
			if path == "" {
				return fail(printer, output.NewSystemError("cannot determine config directory: set AUTOBOT_CONFIG_HOME"))
			}
			if printer.IsJSON() {
				return printer.WriteJSON(map[string]any{"path": path, "dir": config.Dir()})
			}
			printer.Println(path)
			return nil
		},
	}
}
