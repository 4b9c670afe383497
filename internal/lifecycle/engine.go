// Package lifecycle owns the spec lifecycle: create, show, generate,
// refine, update and infer.
//
// The Engine composes the other packages. It resolves an adapter, builds
// the prompt, runs the AI tool through a Runner and classifies what
// happened to the spec file. Every collaborator arrives through Deps so
// tests can substitute fakes for the shell, the editor and the terminal.
//
// AI tools run with write access to the working tree. The engine can only
// vouch for the spec file itself: it snapshots the spec before a run and
// puts the original bytes back when a failed run changed them.
package lifecycle

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/gorewood/autobot/internal/adapter"
	"github.com/gorewood/autobot/internal/config"
	"github.com/gorewood/autobot/internal/digest"
	"github.com/gorewood/autobot/internal/history"
	"github.com/gorewood/autobot/internal/logging"
	"github.com/gorewood/autobot/internal/prompt"
	"github.com/gorewood/autobot/internal/runner"
	"github.com/gorewood/autobot/internal/spec"
)

var (
	// ErrSubprocess is returned when the AI tool exits non-zero, times out
	// or cannot be started.
	ErrSubprocess = errors.New("ai tool failed")

	// ErrCancelled is returned when the user declines an update.
	ErrCancelled = errors.New("update cancelled")
)

// Caveat is attached to every failed AI run that had write access.
const Caveat = "The AI tool ran with write access to this directory and may have changed files other than the spec. Review your working tree before continuing."

// Outcome classifies an AI run.
type Outcome string

const (
	// OutcomeApplied means the tool exited zero and the spec file changed.
	OutcomeApplied Outcome = "applied"
	// OutcomeUnverified means the tool exited zero but the spec file did not change.
	OutcomeUnverified Outcome = "unverified"
	// OutcomeFailed means the tool did not complete successfully.
	OutcomeFailed Outcome = "failed"
)

// Result describes one AI run and what it did to the spec.
type Result struct {
	Verb     string        `json:"verb"`
	Spec     string        `json:"spec"`
	SpecPath string        `json:"spec_path"`
	Adapter  string        `json:"adapter"`
	Command  string        `json:"command"`
	Outcome  Outcome       `json:"outcome"`
	ExitCode int           `json:"exit_code"`
	Stdout   string        `json:"stdout,omitempty"`
	Stderr   string        `json:"stderr,omitempty"`
	Duration time.Duration `json:"duration_ns"`

	// Restored is set when a failed run changed the spec and the original
	// bytes were written back.
	Restored bool `json:"restored,omitempty"`
	// SavedOutput is set when infer wrote the tool's stdout to the spec.
	SavedOutput bool `json:"saved_output,omitempty"`
	// EditorUsed names the editor opened by the refine fallback.
	EditorUsed string `json:"editor_used,omitempty"`
	// EditorError holds the editor's failure when it started but exited
	// with an error.
	EditorError string `json:"editor_error,omitempty"`
	// ManualEdit is set when refine found no editor and the user must
	// edit SpecPath by hand.
	ManualEdit bool   `json:"manual_edit,omitempty"`
	Caveat     string `json:"caveat,omitempty"`
}

// Editor opens a file for interactive editing and reports which editor ran.
type Editor interface {
	Edit(ctx context.Context, path string) (string, error)
}

// Confirmer asks the user a yes/no question and returns the raw answer.
type Confirmer interface {
	Ask(question string) (string, error)
}

// MetaLoader finds meta-instruction documents by name.
type MetaLoader interface {
	Load(name string) (*prompt.Meta, error)
}

// Recorder appends run records. Failures are logged and never surface.
type Recorder interface {
	Append(ctx context.Context, rec history.Record) (string, error)
}

// Summarizer turns a source directory into a codebase digest.
type Summarizer func(root string) (string, error)

// Deps are the Engine's collaborators. Specs and Adapters are required;
// the rest fall back to the real implementations or no-ops.
type Deps struct {
	Specs     *spec.Store
	Adapters  *adapter.Registry
	Config    *config.Config
	Runner    runner.Runner
	Editor    Editor
	Confirmer Confirmer
	Meta      MetaLoader
	Summarize Summarizer
	History   Recorder
	Logger    *slog.Logger
	Now       func() time.Time
	// TempDir holds prompt files; empty means os.TempDir.
	TempDir string
}

// Engine runs lifecycle operations against one spec store.
type Engine struct {
	specs     *spec.Store
	adapters  *adapter.Registry
	cfg       *config.Config
	runner    runner.Runner
	editor    Editor
	confirmer Confirmer
	meta      MetaLoader
	summarize Summarizer
	history   Recorder
	log       *slog.Logger
	now       func() time.Time
	tempDir   string
}

// New builds an Engine. It panics when Specs or Adapters is nil.
func New(d Deps) *Engine {
	if d.Specs == nil || d.Adapters == nil {
		panic("lifecycle: Deps.Specs and Deps.Adapters are required")
	}
	e := &Engine{
		specs:     d.Specs,
		adapters:  d.Adapters,
		cfg:       d.Config,
		runner:    d.Runner,
		editor:    d.Editor,
		confirmer: d.Confirmer,
		meta:      d.Meta,
		summarize: d.Summarize,
		history:   d.History,
		log:       d.Logger,
		now:       d.Now,
		tempDir:   d.TempDir,
	}
	if e.cfg == nil {
		e.cfg = config.New("")
	}
	if e.runner == nil {
		e.runner = runner.NewShell()
	}
	if e.summarize == nil {
		e.summarize = digest.Summarize
	}
	if e.log == nil {
		e.log = logging.Discard()
	}
	if e.now == nil {
		e.now = time.Now
	}
	return e
}

// resolveAdapter picks tool, or the configured default when tool is empty.
func (e *Engine) resolveAdapter(tool string) (adapter.Adapter, error) {
	if tool == "" {
		tool = e.cfg.DefaultAITool()
	}
	a, err := e.adapters.Resolve(tool)
	if err != nil {
		return nil, err
	}
	e.log.Debug("resolved adapter", "adapter", a.Name(), "binary", a.Binary())
	return a, nil
}

// loadMeta returns the body of meta-instruction document name.
func (e *Engine) loadMeta(name string) (string, error) {
	if e.meta == nil {
		return "", fmt.Errorf("%w: %s (no meta-instruction loader configured)", prompt.ErrMetaMissing, name)
	}
	m, err := e.meta.Load(name)
	if err != nil {
		return "", err
	}
	e.log.Debug("loaded meta-instruction", "name", name, "source", m.Source, "path", m.Path)
	return m.Content, nil
}

// checkSource verifies that root is an existing directory.
func checkSource(root string) error {
	info, err := os.Stat(root)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("%w: %s", digest.ErrRootNotFound, root)
		}
		return fmt.Errorf("checking source %s: %w", root, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("%w: %s is not a directory", digest.ErrRootNotFound, root)
	}
	return nil
}

// snapshot is the state of a spec file before an AI run.
type snapshot struct {
	path    string
	existed bool
	data    []byte
}

func takeSnapshot(path string) (snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return snapshot{path: path}, nil
		}
		return snapshot{}, fmt.Errorf("reading spec %s: %w", path, err)
	}
	return snapshot{path: path, existed: true, data: data}, nil
}

// changed reports whether the file differs from the snapshot, and whether
// it exists now.
func (s snapshot) changed() (changed, exists bool) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return s.existed, false
	}
	if !s.existed {
		return true, true
	}
	return !bytes.Equal(data, s.data), true
}
