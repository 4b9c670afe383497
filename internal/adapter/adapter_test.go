package adapter

import (
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"slices"
	"strings"
	"testing"
)

type fakeAdapter struct {
	name    string
	command string
}

func (f *fakeAdapter) Name() string                        { return f.name }
func (f *fakeAdapter) DisplayName() string                 { return "Fake" }
func (f *fakeAdapter) Binary() string                      { return "definitely-not-installed-autobot-tool" }
func (f *fakeAdapter) Streams() bool                       { return true }
func (f *fakeAdapter) BuildCommand(string) (string, error) { return f.command, nil }

func TestBuiltin_Names(t *testing.T) {
	got := Builtin().Names()
	want := []string{"claude", "codex", "gemini"}
	if !slices.Equal(got, want) {
		t.Errorf("Names() = %v, want %v", got, want)
	}
}

func TestRegistry_EmptyIsValid(t *testing.T) {
	if names := NewRegistry().Names(); len(names) != 0 {
		t.Errorf("Names() = %v, want empty", names)
	}
}

func TestResolve(t *testing.T) {
	reg := Builtin()

	a, err := reg.Resolve(" Claude ")
	if err != nil {
		t.Fatalf("Resolve(Claude) error = %v", err)
	}
	if a.Name() != "claude" {
		t.Errorf("Name() = %q, want claude", a.Name())
	}

	_, err = reg.Resolve("gpt-pilot")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("Resolve(gpt-pilot) error = %v, want ErrNotFound", err)
	}
	if !strings.Contains(err.Error(), "claude, codex, gemini") {
		t.Errorf("error should list available tools: %v", err)
	}
}

func TestResolve_NameMismatchIsContractViolation(t *testing.T) {
	reg := NewRegistry()
	calls := 0
	reg.Register(func() Adapter {
		calls++
		if calls == 1 {
			return &fakeAdapter{name: "fake", command: "true"}
		}
		return &fakeAdapter{name: "other", command: "true"}
	})

	if _, err := reg.Resolve("fake"); !errors.Is(err, ErrContractViolation) {
		t.Errorf("Resolve() error = %v, want ErrContractViolation", err)
	}
}

func TestRegister_Panics(t *testing.T) {
	tests := []struct {
		name    string
		factory Factory
	}{
		{name: "nil factory", factory: nil},
		{name: "unnamed adapter", factory: func() Adapter { return &fakeAdapter{} }},
		{name: "duplicate", factory: func() Adapter { return &Claude{} }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			defer func() {
				if recover() == nil {
					t.Error("Register() did not panic")
				}
			}()
			Builtin().Register(tt.factory)
		})
	}
}

func TestBuild_EmptyCommandIsContractViolation(t *testing.T) {
	_, err := Build(&fakeAdapter{name: "fake", command: "   "}, "/tmp/prompt.md")
	if !errors.Is(err, ErrContractViolation) {
		t.Errorf("Build() error = %v, want ErrContractViolation", err)
	}
}

func TestStreamingAdapters(t *testing.T) {
	path := "/tmp/it's a prompt.md"
	tests := []struct {
		adapter Adapter
		want    string
	}{
		{&Claude{}, `claude -p --allowedTools 'Bash,Edit,Write' < '/tmp/it'"'"'s a prompt.md'`},
		{&Gemini{}, `gemini --yolo < '/tmp/it'"'"'s a prompt.md'`},
	}
	for _, tt := range tests {
		t.Run(tt.adapter.Name(), func(t *testing.T) {
			got, err := Build(tt.adapter, path)
			if err != nil {
				t.Fatalf("Build() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("command = %s\nwant      %s", got, tt.want)
			}
			if !tt.adapter.Streams() {
				t.Error("Streams() = false")
			}
		})
	}
}

func TestCodex_InlinesPrompt(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prompt.md")
	if err := os.WriteFile(path, []byte("Build the app's API"), 0o600); err != nil {
		t.Fatal(err)
	}

	got, err := Build(&Codex{}, path)
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	want := `codex --approval-mode full-auto 'Build the app'"'"'s API'`
	if got != want {
		t.Errorf("command = %s\nwant      %s", got, want)
	}

	if _, err := Build(&Codex{}, filepath.Join(t.TempDir(), "missing.md")); err == nil {
		t.Error("Build() should fail for an unreadable prompt")
	}
}

func TestAvailable_MissingBinary(t *testing.T) {
	if Available(&fakeAdapter{name: "fake"}) {
		t.Error("Available() = true for a binary that does not exist")
	}
}

func TestShellQuote_RoundTripsThroughShell(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("POSIX shell quoting")
	}
	if _, err := exec.LookPath("sh"); err != nil {
		t.Skip("sh not available")
	}

	inputs := []string{
		"",
		"plain",
		"it's",
		`"double" and 'single'`,
		"$HOME `whoami` $(id) \\n",
		"line one\nline two\n",
		"héllo 世界 🚀",
		"''''",
	}
	for _, in := range inputs {
		out, err := exec.Command("sh", "-c", "printf '%s' "+ShellQuote(in)).Output()
		if err != nil {
			t.Fatalf("sh failed for %q: %v", in, err)
		}
		if string(out) != in {
			t.Errorf("round trip of %q produced %q", in, out)
		}
	}
}
