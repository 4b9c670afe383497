// Package adapter turns a prompt file into a shell command for a specific
// AI coding tool.
//
// Every adapter implements one operation, BuildCommand. Adapters hold no
// state: the Registry builds a fresh value for each Resolve. The produced
// command must feed the exact bytes of the prompt file to the tool and ask
// for an unattended run, because autobot always invokes tools from a
// non-interactive process.
package adapter

import (
	"errors"
	"fmt"
	"os/exec"
	"slices"
	"strings"
)

var (
	// ErrNotFound is returned for a tool name with no registered adapter.
	// Every command that resolves a tool reports this same error.
	ErrNotFound = errors.New("unknown ai tool")

	// ErrContractViolation is returned when an adapter does not honor the
	// BuildCommand contract (empty command or mismatched name).
	ErrContractViolation = errors.New("ai tool adapter contract violation")
)

// Adapter builds the shell command that runs one AI tool against a prompt file.
type Adapter interface {
	// Name is the identifier used on the command line and in config (e.g. "claude").
	Name() string

	// DisplayName is the human-readable tool name (e.g. "Claude Code").
	DisplayName() string

	// Binary is the executable the command invokes, used for availability checks.
	Binary() string

	// Streams reports whether the prompt is fed on standard input rather than
	// inlined into the command line.
	Streams() bool

	// BuildCommand returns a command for sh -c that runs the tool on the
	// content of promptPath.
	BuildCommand(promptPath string) (string, error)
}

// Factory constructs a fresh adapter.
type Factory func() Adapter

// Registry maps tool names to adapter factories. It is filled at startup
// and read-only afterwards.
type Registry struct {
	factories map[string]Factory
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{factories: map[string]Factory{}}
}

// Builtin returns a registry holding every adapter shipped with autobot.
func Builtin() *Registry {
	r := NewRegistry()
	r.Register(func() Adapter { return &Claude{} })
	r.Register(func() Adapter { return &Codex{} })
	r.Register(func() Adapter { return &Gemini{} })
	return r
}

// Register adds an adapter factory under the name its adapters report.
// It panics on a nil factory, an unnamed adapter or a duplicate name:
// those are programming errors caught at startup.
func (r *Registry) Register(factory Factory) {
	if factory == nil {
		panic("adapter: nil factory")
	}
	probe := factory()
	if probe == nil || probe.Name() == "" {
		panic("adapter: factory returned an unnamed adapter")
	}
	name := probe.Name()
	if _, dup := r.factories[name]; dup {
		panic("adapter: duplicate registration for " + name)
	}
	r.factories[name] = factory
}

// Names returns registered tool names in sorted order. An empty result is valid.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.factories))
	for name := range r.factories {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Resolve returns a fresh adapter for name.
func (r *Registry) Resolve(name string) (Adapter, error) {
	key := strings.ToLower(strings.TrimSpace(name))
	factory, ok := r.factories[key]
	if !ok {
		return nil, fmt.Errorf("%w: %q (available: %s)", ErrNotFound, name, strings.Join(r.Names(), ", "))
	}
	a := factory()
	if a == nil || a.Name() != key {
		return nil, fmt.Errorf("%w: factory for %q built a different adapter", ErrContractViolation, key)
	}
	return a, nil
}

// Build asks a for a command and enforces the contract on the result.
func Build(a Adapter, promptPath string) (string, error) {
	command, err := a.BuildCommand(promptPath)
	if err != nil {
		return "", fmt.Errorf("building %s command: %w", a.Name(), err)
	}
	if strings.TrimSpace(command) == "" {
		return "", fmt.Errorf("%w: %s returned an empty command", ErrContractViolation, a.Name())
	}
	return command, nil
}

// Available reports whether the adapter's executable is on PATH.
func Available(a Adapter) bool {
	_, err := exec.LookPath(a.Binary())
	return err == nil
}
