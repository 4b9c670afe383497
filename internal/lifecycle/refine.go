package lifecycle

import (
	"context"
	"errors"
	"fmt"

	"github.com/gorewood/autobot/internal/adapter"
	"github.com/gorewood/autobot/internal/editor"
	"github.com/gorewood/autobot/internal/prompt"
)

// Refine asks the AI tool to improve spec name in place, without codebase
// input. When the run fails or the spec-updater document is missing, the
// spec is restored if needed and the user is handed an editor instead.
func (e *Engine) Refine(ctx context.Context, name, tool string) (*Result, error) {
	existing, err := e.specs.Read(name)
	if err != nil {
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

	res := &Result{Verb: "refine", Spec: name, SpecPath: path, Adapter: a.Name()}
	runErr := e.refineRun(ctx, res, a, string(existing))
	if runErr == nil {
		return res, nil
	}
	if errors.Is(runErr, context.Canceled) {
		return res, runErr
	}

	res.Outcome = OutcomeFailed
	e.log.Warn("refine failed, falling back to editor", "spec", name, "error", runErr)
	e.editFallback(ctx, res)
	return res, runErr
}

func (e *Engine) refineRun(ctx context.Context, res *Result, a adapter.Adapter, existing string) error {
	meta, err := e.loadMeta(prompt.MetaSpecUpdater)
	if err != nil {
		return err
	}
	text, err := prompt.Compose(prompt.Request{
		Mode:       prompt.ModeRefine,
		Meta:       meta,
		Existing:   existing,
		Target:     res.Spec,
		TargetPath: res.SpecPath,
		Now:        e.now(),
	})
	if err != nil {
		return err
	}

	promptPath, cleanup, err := e.writePrompt(text)
	defer cleanup()
	if err != nil {
		return err
	}
	snap, err := takeSnapshot(res.SpecPath)
	if err != nil {
		return err
	}

	runErr := e.execute(ctx, res, a, promptPath, false)
	if runErr != nil {
		res.Caveat = Caveat
		e.restore(res, snap)
	} else {
		res.Outcome = classify(snap)
	}
	e.record(ctx, res)
	return runErr
}

// editFallback opens the spec in the configured editors, or marks the
// result for manual editing when none is available.
func (e *Engine) editFallback(ctx context.Context, res *Result) {
	if e.editor == nil {
		res.ManualEdit = true
		return
	}
	used, err := e.editor.Edit(ctx, res.SpecPath)
	res.EditorUsed = used
	switch {
	case errors.Is(err, editor.ErrNoEditor):
		res.ManualEdit = true
	case err != nil:
		res.EditorError = err.Error()
		e.log.Warn("editor exited with an error", "editor", used, "error", err)
	}
}

// classify maps a successful run to Applied or Unverified by comparing the
// spec file with its snapshot.
func classify(snap snapshot) Outcome {
	if changed, exists := snap.changed(); changed && exists {
		return OutcomeApplied
	}
	return OutcomeUnverified
}

// ManualEditMessage is the instruction shown when no editor could be opened.
func ManualEditMessage(path string) string {
	return fmt.Sprintf("No editor available. Edit %s manually.", path)
}
