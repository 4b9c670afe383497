package main

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/gorewood/autobot/internal/adapter"
	"github.com/gorewood/autobot/internal/config"
	"github.com/gorewood/autobot/internal/editor"
	"github.com/gorewood/autobot/internal/history"
	"github.com/gorewood/autobot/internal/lifecycle"
	"github.com/gorewood/autobot/internal/logging"
	"github.com/gorewood/autobot/internal/output"
	"github.com/gorewood/autobot/internal/prompt"
	"github.com/gorewood/autobot/internal/runner"
	"github.com/gorewood/autobot/internal/spec"
)

// app holds what one invocation needs. Config is loaded once here and
// passed down explicitly.
type app struct {
	cfg      *config.Config
	log      *slog.Logger
	printer  *output.Printer
	adapters *adapter.Registry
	specs    *spec.Store
	meta     *prompt.Loader
	history  *history.Store
	engine   *lifecycle.Engine
}

// newPrinter builds the printer for cmd honoring --json and --color. The
// root command has already rejected invalid --color values.
func newPrinter(cmd *cobra.Command) *output.Printer {
	out := cmd.OutOrStdout()
	mode, _ := output.ParseColorMode(persistentFlag(cmd, "color"))
	return output.NewPrinter(out, isJSONMode(cmd), mode.Enabled(out)).WithStderr(cmd.ErrOrStderr())
}

// newLogger builds the stderr diagnostic logger from --log-level or
// $AUTOBOT_LOG_LEVEL.
func newLogger(cmd *cobra.Command) *slog.Logger {
	level := persistentFlag(cmd, "log-level")
	if level == "" {
		level = os.Getenv("AUTOBOT_LOG_LEVEL")
	}
	return logging.NewLogger(level, cmd.ErrOrStderr())
}

// loadConfig reads config.yaml. Corruption is logged and the invocation
// continues with an empty config.
func loadConfig(log *slog.Logger) *config.Config {
	cfg, err := config.Load(config.Path())
	if err != nil {
		log.Warn("ignoring unreadable config", "error", err)
	}
	return cfg
}

// appOption adjusts what newApp wires.
type appOption func(*appOptions)

type appOptions struct {
	history bool
}

// withHistory opens the run history store. Only commands that run an AI
// tool or read history ask for it, so the others leave the config
// directory untouched.
func withHistory() appOption {
	return func(o *appOptions) { o.history = true }
}

// newApp wires the engine for cmd. The caller must call close.
func newApp(cmd *cobra.Command, opts ...appOption) *app {
	var o appOptions
	for _, opt := range opts {
		opt(&o)
	}

	log := newLogger(cmd)
	cfg := loadConfig(log)

	specsDir := persistentFlag(cmd, "specs-dir")
	if specsDir == "" {
		specsDir = cfg.SpecsDir()
	}

	a := &app{
		cfg:      cfg,
		log:      log,
		printer:  newPrinter(cmd),
		adapters: adapter.Builtin(),
		specs:    spec.NewStore(specsDir),
		meta:     prompt.NewLoader(".", config.Dir()),
	}

	// Tool output streamed by generate must not interleave with JSON results.
	toolOut := cmd.OutOrStdout()
	if isJSONMode(cmd) {
		toolOut = cmd.ErrOrStderr()
	}

	deps := lifecycle.Deps{
		Specs:    a.specs,
		Adapters: a.adapters,
		Config:   cfg,
		Runner: &runner.Shell{
			Path:   runner.DefaultShell,
			Stdin:  cmd.InOrStdin(),
			Stdout: toolOut,
			Stderr: cmd.ErrOrStderr(),
		},
		Confirmer: lifecycle.PromptConfirmer{In: cmd.InOrStdin(), Out: cmd.ErrOrStderr()},
		Meta:      a.meta,
		Logger:    log,
	}

	launcher := editor.NewLauncher(cfg.Editors())
	launcher.Stdin = cmd.InOrStdin()
	launcher.Stdout = cmd.OutOrStdout()
	launcher.Stderr = cmd.ErrOrStderr()
	deps.Editor = launcher

	if dir := config.Dir(); o.history && dir != "" {
		store, err := history.Open(dir)
		if err != nil {
			log.Warn("run history disabled", "error", err)
		} else {
			a.history = store
			deps.History = store
		}
	}

	a.engine = lifecycle.New(deps)
	return a
}

func (a *app) close() {
	if a.history != nil {
		if err := a.history.Close(); err != nil {
			a.log.Debug("closing history", "error", err)
		}
	}
}
