package lifecycle

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gorewood/autobot/internal/adapter"
	"github.com/gorewood/autobot/internal/config"
	"github.com/gorewood/autobot/internal/history"
	"github.com/gorewood/autobot/internal/prompt"
	"github.com/gorewood/autobot/internal/runner"
	"github.com/gorewood/autobot/internal/spec"
)

// fakeRunner records requests and lets a test simulate the AI tool.
type fakeRunner struct {
	requests []runner.Request
	prompts  []string // prompt file content seen during each run
	onRun    func(req runner.Request) (runner.Result, error)
}

func (f *fakeRunner) Run(_ context.Context, req runner.Request) (runner.Result, error) {
	f.requests = append(f.requests, req)
	if path := promptPathFrom(req.Command); path != "" {
		data, _ := os.ReadFile(path)
		f.prompts = append(f.prompts, string(data))
	}
	if f.onRun != nil {
		return f.onRun(req)
	}
	return runner.Result{Command: req.Command, Duration: time.Second}, nil
}

// promptPathFrom extracts the file streamed by "... < '<path>'".
func promptPathFrom(command string) string {
	idx := strings.LastIndex(command, "< '")
	if idx < 0 {
		return ""
	}
	return strings.TrimSuffix(command[idx+3:], "'")
}

type fakeConfirmer struct {
	answer string
	asked  []string
}

func (f *fakeConfirmer) Ask(q string) (string, error) {
	f.asked = append(f.asked, q)
	return f.answer, nil
}

type fakeEditor struct {
	used  string
	err   error
	paths []string
}

func (f *fakeEditor) Edit(_ context.Context, path string) (string, error) {
	f.paths = append(f.paths, path)
	return f.used, f.err
}

type fakeRecorder struct {
	records []history.Record
}

func (f *fakeRecorder) Append(_ context.Context, rec history.Record) (string, error) {
	f.records = append(f.records, rec)
	return "id", nil
}

type harness struct {
	engine    *Engine
	specs     *spec.Store
	cfg       *config.Config
	runner    *fakeRunner
	confirmer *fakeConfirmer
	editor    *fakeEditor
	recorder  *fakeRecorder
	source    string
	tempDir   string
	configDir string
}

var testNow = time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)

func newHarness(t *testing.T) *harness {
	t.Helper()
	root := t.TempDir()
	h := &harness{
		specs:     spec.NewStore(filepath.Join(root, "specs")),
		cfg:       config.New(""),
		runner:    &fakeRunner{},
		confirmer: &fakeConfirmer{},
		editor:    &fakeEditor{used: "nano"},
		recorder:  &fakeRecorder{},
		source:    filepath.Join(root, "src"),
		tempDir:   filepath.Join(root, "tmp"),
		configDir: filepath.Join(root, "config"),
	}
	for _, dir := range []string{h.source, h.tempDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			t.Fatal(err)
		}
	}
	if err := os.WriteFile(filepath.Join(h.source, "main.go"), []byte("package main\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := prompt.Init(filepath.Join(h.configDir, "meta"), false); err != nil {
		t.Fatal(err)
	}

	h.engine = New(Deps{
		Specs:     h.specs,
		Adapters:  adapter.Builtin(),
		Config:    h.cfg,
		Runner:    h.runner,
		Editor:    h.editor,
		Confirmer: h.confirmer,
		Meta:      prompt.NewLoader(root, h.configDir),
		History:   h.recorder,
		Now:       func() time.Time { return testNow },
		TempDir:   h.tempDir,
	})
	return h
}

// removeMeta deletes the installed meta-instruction documents.
func (h *harness) removeMeta(t *testing.T) {
	t.Helper()
	if err := os.RemoveAll(filepath.Join(h.configDir, "meta")); err != nil {
		t.Fatal(err)
	}
}

func (h *harness) read(t *testing.T, name string) string {
	t.Helper()
	data, err := h.specs.Read(name)
	if err != nil {
		t.Fatalf("Read(%s) error = %v", name, err)
	}
	return string(data)
}

func (h *harness) write(t *testing.T, name, content string) {
	t.Helper()
	if err := h.specs.Write(name, []byte(content)); err != nil {
		t.Fatal(err)
	}
}

// tempFiles lists what is left in the prompt temp directory.
func (h *harness) tempFiles(t *testing.T) []string {
	t.Helper()
	entries, err := os.ReadDir(h.tempDir)
	if err != nil {
		t.Fatal(err)
	}
	var names []string
	for _, e := range entries {
		names = append(names, e.Name())
	}
	return names
}
