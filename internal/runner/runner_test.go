package runner

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestShell_Captured(t *testing.T) {
	s := &Shell{}
	res, err := s.Run(context.Background(), Request{Command: "printf out; printf err >&2"})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if res.ExitCode != 0 || res.Stdout != "out" || res.Stderr != "err" {
		t.Errorf("Run() = %+v", res)
	}
	if res.Command != "printf out; printf err >&2" {
		t.Errorf("Command = %q", res.Command)
	}
}

func TestShell_NonZeroExitIsNotAnError(t *testing.T) {
	res, err := (&Shell{}).Run(context.Background(), Request{Command: "echo nope >&2; exit 7"})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if res.ExitCode != 7 {
		t.Errorf("ExitCode = %d, want 7", res.ExitCode)
	}
	if strings.TrimSpace(res.Stderr) != "nope" {
		t.Errorf("Stderr = %q", res.Stderr)
	}
}

func TestShell_Streamed(t *testing.T) {
	var out, errOut bytes.Buffer
	s := &Shell{Stdout: &out, Stderr: &errOut, Stdin: strings.NewReader("piped")}
	res, err := s.Run(context.Background(), Request{Command: "cat; echo warn >&2", Stream: true})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if out.String() != "piped" || strings.TrimSpace(errOut.String()) != "warn" {
		t.Errorf("streamed output = %q / %q", out.String(), errOut.String())
	}
	if res.Stdout != "" {
		t.Errorf("streamed run should not capture, got %q", res.Stdout)
	}
}

func TestShell_Dir(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "marker"), nil, 0o644); err != nil {
		t.Fatal(err)
	}
	res, err := (&Shell{}).Run(context.Background(), Request{Command: "ls", Dir: dir})
	if err != nil {
		t.Fatal(err)
	}
	if strings.TrimSpace(res.Stdout) != "marker" {
		t.Errorf("Stdout = %q, want marker", res.Stdout)
	}
}

func TestShell_Timeout(t *testing.T) {
	res, err := (&Shell{}).Run(context.Background(), Request{Command: "sleep 5", Timeout: 50 * time.Millisecond})
	if !errors.Is(err, ErrTimeout) {
		t.Fatalf("Run() error = %v, want ErrTimeout", err)
	}
	if res.ExitCode == 0 {
		t.Error("timed out command reported success")
	}
}

func TestShell_MissingShell(t *testing.T) {
	s := &Shell{Path: filepath.Join(t.TempDir(), "no-such-shell")}
	_, err := s.Run(context.Background(), Request{Command: "true"})
	if !errors.Is(err, ErrStart) {
		t.Errorf("Run() error = %v, want ErrStart", err)
	}
}
