package lifecycle

import (
	"context"

	"github.com/gorewood/autobot/internal/adapter"
)

// Create writes the skeleton for a new spec and returns its path.
func (e *Engine) Create(name string) (string, error) {
	path, err := e.specs.Create(name)
	if err != nil {
		return "", err
	}
	e.log.Debug("created spec", "spec", name, "path", path)
	return path, nil
}

// Show returns the stored content of spec name.
func (e *Engine) Show(name string) ([]byte, error) {
	return e.specs.Read(name)
}

// List returns the names of all stored specs in sorted order.
func (e *Engine) List() ([]string, error) {
	return e.specs.List()
}

// DryRun returns the command Generate would run. It starts no process and
// writes nothing.
func (e *Engine) DryRun(name, tool string) (string, error) {
	path, a, err := e.prepareGenerate(name, tool)
	if err != nil {
		return "", err
	}
	return adapter.Build(a, path)
}

// Generate hands the spec file to the AI tool and streams its output to
// the terminal. A non-zero exit is reported in the Result and as an error
// wrapping ErrSubprocess.
func (e *Engine) Generate(ctx context.Context, name, tool string) (*Result, error) {
	path, a, err := e.prepareGenerate(name, tool)
	if err != nil {
		return nil, err
	}

	res := &Result{Verb: "generate", Spec: name, SpecPath: path, Adapter: a.Name()}
	err = e.execute(ctx, res, a, path, true)
	if err == nil {
		res.Outcome = OutcomeApplied
	}
	e.record(ctx, res)
	return res, err
}

func (e *Engine) prepareGenerate(name, tool string) (string, adapter.Adapter, error) {
	if _, err := e.specs.Read(name); err != nil {
		return "", nil, err
	}
	path, err := e.specs.Path(name)
	if err != nil {
		return "", nil, err
	}
	a, err := e.resolveAdapter(tool)
	if err != nil {
		return "", nil, err
	}
	return path, a, nil
}
