package lifecycle

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/gorewood/autobot/internal/prompt"
)

// Update reconciles spec name with the codebase at source after the user
// confirms. A declined confirmation returns ErrCancelled having run and
// written nothing. A failed run restores the spec and is not retried.
func (e *Engine) Update(ctx context.Context, name, source, tool string) (*Result, error) {
	existing, err := e.specs.Read(name)
	if err != nil {
		return nil, err
	}
	if err := checkSource(source); err != nil {
		return nil, err
	}
	path, err := e.specs.Path(name)
	if err != nil {
		return nil, err
	}
	a, err := e.resolveAdapter(tool)
	if err != nil {
		return nil, err
	}

	if e.confirmer == nil {
		return nil, fmt.Errorf("%w: no way to confirm", ErrCancelled)
	}
	abs, err := filepath.Abs(source)
	if err != nil {
		abs = source
	}
	answer, err := e.confirmer.Ask(fmt.Sprintf("Update spec %q from %s using %s? The AI tool will rewrite it in place.", name, abs, a.Name()))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCancelled, err)
	}
	if !IsAffirmative(answer) {
		e.log.Debug("update declined", "spec", name, "answer", answer)
		return nil, ErrCancelled
	}

	codebase, err := e.summarize(source)
	if err != nil {
		return nil, err
	}
	meta, err := e.loadMeta(prompt.MetaSpecUpdater)
	if err != nil {
		return nil, err
	}
	text, err := prompt.Compose(prompt.Request{
		Mode:       prompt.ModeUpdate,
		Meta:       meta,
		Existing:   string(existing),
		Digest:     codebase,
		Target:     name,
		TargetPath: path,
		Now:        e.now(),
	})
	if err != nil {
		return nil, err
	}

	promptPath, cleanup, err := e.writePrompt(text)
	defer cleanup()
	if err != nil {
		return nil, err
	}
	snap, err := takeSnapshot(path)
	if err != nil {
		return nil, err
	}

	res := &Result{Verb: "update", Spec: name, SpecPath: path, Adapter: a.Name()}
	runErr := e.execute(ctx, res, a, promptPath, false)
	if runErr != nil {
		res.Caveat = Caveat
		e.restore(res, snap)
	} else {
		res.Outcome = classify(snap)
	}
	e.record(ctx, res)
	return res, runErr
}
