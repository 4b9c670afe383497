// Package runner executes AI-tool command lines through the system shell.
package runner

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"time"
)

var (
	// ErrStart is returned when the shell itself could not be started.
	ErrStart = errors.New("could not start command")

	// ErrTimeout is returned when a command outlives Request.Timeout.
	ErrTimeout = errors.New("command timed out")
)

// DefaultShell runs command lines as "sh -c <line>".
const DefaultShell = "sh"

// waitDelay bounds how long Run waits for output pipes after the process
// has been killed, so an orphaned grandchild cannot hang the CLI.
const waitDelay = 5 * time.Second

// Request describes one command line to run.
type Request struct {
	Command string
	Dir     string
	// Stream sends output straight to the runner's writers instead of
	// capturing it.
	Stream bool
	// Timeout is the maximum run time; zero means no limit.
	Timeout time.Duration
}

// Result is what a finished command produced. Stdout and Stderr are empty
// for streamed runs.
type Result struct {
	Command  string
	ExitCode int
	Stdout   string
	Stderr   string
	Duration time.Duration
}

// Runner runs shell command lines. A non-zero exit is reported in
// Result.ExitCode, not as an error.
type Runner interface {
	Run(ctx context.Context, req Request) (Result, error)
}

// Shell is the Runner backed by os/exec.
type Shell struct {
	Path   string
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
}

// NewShell returns a Shell wired to the process's standard streams.
func NewShell() *Shell {
	return &Shell{Path: DefaultShell, Stdin: os.Stdin, Stdout: os.Stdout, Stderr: os.Stderr}
}

// Run executes req.Command with "<shell> -c".
func (s *Shell) Run(ctx context.Context, req Request) (Result, error) {
	result := Result{Command: req.Command, ExitCode: -1}
	if req.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, req.Timeout)
		defer cancel()
	}

	shell := s.Path
	if shell == "" {
		shell = DefaultShell
	}
	cmd := exec.CommandContext(ctx, shell, "-c", req.Command)
	cmd.Dir = req.Dir
	cmd.WaitDelay = waitDelay

	var stdout, stderr bytes.Buffer
	if req.Stream {
		cmd.Stdin = s.Stdin
		cmd.Stdout = s.Stdout
		cmd.Stderr = s.Stderr
	} else {
		cmd.Stdout = &stdout
		cmd.Stderr = &stderr
	}

	start := time.Now()
	err := cmd.Run()
	result.Duration = time.Since(start)
	result.Stdout = stdout.String()
	result.Stderr = stderr.String()

	if err == nil {
		result.ExitCode = 0
		return result, nil
	}
	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return result, fmt.Errorf("%w after %s: %s", ErrTimeout, req.Timeout, req.Command)
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		return result, fmt.Errorf("running %s: %w", req.Command, ctxErr)
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		result.ExitCode = exitErr.ExitCode()
		return result, nil
	}
	return result, fmt.Errorf("%w: %s: %w", ErrStart, shell, err)
}
