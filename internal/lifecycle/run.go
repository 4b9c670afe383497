package lifecycle

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/gorewood/autobot/internal/adapter"
	"github.com/gorewood/autobot/internal/history"
	"github.com/gorewood/autobot/internal/logging"
	"github.com/gorewood/autobot/internal/runner"
)

// execute builds the adapter command for inputPath and runs it. A non-zero
// exit, timeout or start failure yields OutcomeFailed and an error wrapping
// ErrSubprocess; otherwise Outcome is left for the caller to classify.
func (e *Engine) execute(ctx context.Context, res *Result, a adapter.Adapter, inputPath string, stream bool) error {
	command, err := adapter.Build(a, inputPath)
	if err != nil {
		return err
	}
	res.Command = command
	e.log.Debug("running ai tool", "verb", res.Verb, "spec", res.Spec, "adapter", a.Name(), "command", command)

	out, runErr := e.runner.Run(ctx, runner.Request{
		Command: command,
		Stream:  stream,
		Timeout: e.cfg.AdapterTimeout(),
	})
	res.ExitCode = out.ExitCode
	res.Stdout = out.Stdout
	res.Stderr = out.Stderr
	res.Duration = out.Duration
	e.log.Debug("ai tool finished", "adapter", a.Name(), "exit_code", out.ExitCode, "duration", out.Duration)

	switch {
	case runErr != nil:
		res.Outcome = OutcomeFailed
		return fmt.Errorf("%w: %w", ErrSubprocess, runErr)
	case out.ExitCode != 0:
		res.Outcome = OutcomeFailed
		return fmt.Errorf("%w: %s exited with code %d%s", ErrSubprocess, a.Name(), out.ExitCode, stderrHint(out.Stderr))
	}
	return nil
}

// writePrompt stores text in a fresh temp file owned by this invocation.
// The returned cleanup removes it and must be deferred by the caller.
func (e *Engine) writePrompt(text string) (string, func(), error) {
	f, err := os.CreateTemp(e.tempDir, "autobot-prompt-*.md")
	if err != nil {
		return "", func() {}, fmt.Errorf("creating prompt file: %w", err)
	}
	path := f.Name()
	cleanup := func() {
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			e.log.Warn("could not remove prompt file", "path", path, "error", err)
		}
	}
	if _, err := f.WriteString(text); err != nil {
		_ = f.Close()
		cleanup()
		return "", func() {}, fmt.Errorf("writing prompt file: %w", err)
	}
	if err := f.Close(); err != nil {
		cleanup()
		return "", func() {}, fmt.Errorf("closing prompt file: %w", err)
	}
	e.log.Log(context.Background(), logging.LevelTrace, "prompt composed", "path", path, "prompt", text)
	return path, cleanup, nil
}

// restore puts the snapshot back when a failed run changed the spec.
// A spec the run created from nothing is left in place.
func (e *Engine) restore(res *Result, snap snapshot) {
	changed, exists := snap.changed()
	if !changed || !snap.existed {
		return
	}
	if err := e.specs.Write(res.Spec, snap.data); err != nil {
		e.log.Error("could not restore spec after failed run", "spec", res.Spec, "error", err)
		return
	}
	res.Restored = true
	e.log.Info("restored spec after failed run", "spec", res.Spec, "existed_after_run", exists)
}

// record appends res to the run history when a command was built.
// Errors are logged only.
func (e *Engine) record(ctx context.Context, res *Result) {
	if e.history == nil || res.Command == "" {
		return
	}
	_, err := e.history.Append(context.WithoutCancel(ctx), history.Record{
		Verb:      res.Verb,
		Spec:      res.Spec,
		Adapter:   res.Adapter,
		Command:   res.Command,
		ExitCode:  res.ExitCode,
		Outcome:   string(res.Outcome),
		StartedAt: e.now().Add(-res.Duration),
		Duration:  res.Duration,
	})
	if err != nil {
		e.log.Warn("could not record run history", "error", err)
	}
}

func stderrHint(stderr string) string {
	lines := strings.Split(strings.TrimSpace(stderr), "\n")
	last := strings.TrimSpace(lines[len(lines)-1])
	if last == "" {
		return ""
	}
	return ": " + last
}
