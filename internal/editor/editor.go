// Package editor opens a file in the user's terminal editor.
package editor

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
)

// ErrNoEditor is returned when none of the configured editors can be found.
var ErrNoEditor = errors.New("no usable editor found")

// Launcher tries each editor command in order until one starts. Editor
// commands may carry arguments, for example "code --wait".
type Launcher struct {
	Editors []string
	Stdin   io.Reader
	Stdout  io.Writer
	Stderr  io.Writer

	lookPath func(string) (string, error)
}

// NewLauncher returns a Launcher attached to the terminal. Empty editor
// commands are ignored.
func NewLauncher(editors ...string) *Launcher {
	l := &Launcher{Stdin: os.Stdin, Stdout: os.Stdout, Stderr: os.Stderr}
	for _, e := range editors {
		if strings.TrimSpace(e) != "" {
			l.Editors = append(l.Editors, e)
		}
	}
	return l
}

// Edit opens path and blocks until the editor exits. It returns the
// editor command that was used. An editor that is missing or fails to
// start is skipped; one that starts and exits non-zero is reported.
func (l *Launcher) Edit(ctx context.Context, path string) (string, error) {
	lookPath := l.lookPath
	if lookPath == nil {
		lookPath = exec.LookPath
	}

	for _, editor := range l.Editors {
		fields := strings.Fields(editor)
		bin, err := lookPath(fields[0])
		if err != nil {
			continue
		}
		args := append(fields[1:], path)
		cmd := exec.CommandContext(ctx, bin, args...)
		cmd.Stdin = l.Stdin
		cmd.Stdout = l.Stdout
		cmd.Stderr = l.Stderr

		if err := cmd.Run(); err != nil {
			var exitErr *exec.ExitError
			if errors.As(err, &exitErr) {
				return editor, fmt.Errorf("editor %s exited with code %d", editor, exitErr.ExitCode())
			}
			continue
		}
		return editor, nil
	}
	return "", fmt.Errorf("%w (tried %s)", ErrNoEditor, strings.Join(l.Editors, ", "))
}
