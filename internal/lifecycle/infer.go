package lifecycle

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/gorewood/autobot/internal/prompt"
)

// InferOptions tunes Infer.
type InferOptions struct {
	// SaveOutput writes the tool's sanitized stdout to the spec when the
	// tool exits zero without writing the file itself.
	SaveOutput bool
}

// Infer derives spec name from the codebase at source. An existing spec
// may be overwritten by the tool. When the run succeeds but the spec file
// is still absent, the result is Unverified and carries the raw stdout.
func (e *Engine) Infer(ctx context.Context, name, source, tool string, opts InferOptions) (*Result, error) {
	path, err := e.specs.Path(name)
	if err != nil {
		return nil, err
	}
	if err := checkSource(source); err != nil {
		return nil, err
	}
	a, err := e.resolveAdapter(tool)
	if err != nil {
		return nil, err
	}

	codebase, err := e.summarize(source)
	if err != nil {
		return nil, err
	}
	meta, err := e.loadMeta(prompt.MetaCodebaseAnalyzer)
	if err != nil {
		return nil, err
	}
	absPath, err := filepath.Abs(path)
	if err != nil {
		absPath = path
	}
	text, err := prompt.Compose(prompt.Request{
		Mode:       prompt.ModeInfer,
		Meta:       meta,
		Digest:     codebase,
		Target:     name,
		TargetPath: absPath,
		Now:        e.now(),
	})
	if err != nil {
		return nil, err
	}

	if err := os.MkdirAll(e.specs.Dir(), 0o755); err != nil {
		return nil, fmt.Errorf("creating spec directory: %w", err)
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

	res := &Result{Verb: "infer", Spec: name, SpecPath: path, Adapter: a.Name()}
	runErr := e.execute(ctx, res, a, promptPath, false)
	if runErr != nil {
		res.Caveat = Caveat
		e.restore(res, snap)
		e.record(ctx, res)
		return res, runErr
	}

	res.Outcome = classify(snap)
	if res.Outcome == OutcomeUnverified && opts.SaveOutput {
		if err := e.saveOutput(res); err != nil {
			e.record(ctx, res)
			return res, err
		}
	}
	e.record(ctx, res)
	return res, nil
}

func (e *Engine) saveOutput(res *Result) error {
	content := prompt.SanitizeOutput(res.Stdout)
	if strings.TrimSpace(content) == "" {
		e.log.Info("ai tool printed nothing to save", "spec", res.Spec)
		return nil
	}
	if err := e.specs.Write(res.Spec, []byte(content+"\n")); err != nil {
		return err
	}
	res.Outcome = OutcomeApplied
	res.SavedOutput = true
	return nil
}
