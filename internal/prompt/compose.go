package prompt

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Mode selects the assembly order and closing directive.
type Mode int

const (
	// ModeInfer builds a new spec from a codebase.
	ModeInfer Mode = iota + 1
	// ModeUpdate reconciles an existing spec with a codebase.
	ModeUpdate
	// ModeRefine improves an existing spec without codebase input.
	ModeRefine
)

func (m Mode) String() string {
	switch m {
	case ModeInfer:
		return "infer"
	case ModeUpdate:
		return "update"
	case ModeRefine:
		return "refine"
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}

// ErrIncomplete is returned when a request lacks an input its mode needs.
var ErrIncomplete = errors.New("incomplete prompt request")

const separator = "\n\n---\n\n"

// Request carries every input to Compose. Existing is ignored by
// ModeInfer and Digest by ModeRefine.
type Request struct {
	Mode       Mode
	Meta       string
	Existing   string
	Digest     string
	Target     string
	TargetPath string
	Now        time.Time
}

// Compose assembles the prompt for req. It does no I/O.
func Compose(req Request) (string, error) {
	meta := strings.TrimSpace(req.Meta)
	if meta == "" {
		return "", fmt.Errorf("%w: %s prompt has no instructions", ErrMetaMissing, req.Mode)
	}
	if req.Target == "" || req.TargetPath == "" {
		return "", fmt.Errorf("%w: target name and path are required", ErrIncomplete)
	}
	if (req.Mode == ModeInfer || req.Mode == ModeUpdate) && strings.TrimSpace(req.Digest) == "" {
		return "", fmt.Errorf("%w: %s needs a codebase digest", ErrIncomplete, req.Mode)
	}

	parts := []string{meta}
	switch req.Mode {
	case ModeInfer:
		parts = append(parts, req.Digest, inferDirective(req))
	case ModeUpdate:
		parts = append(parts, existingBlock(req), req.Digest, updateDirective(req))
	case ModeRefine:
		parts = append(parts, existingBlock(req), refineDirective(req))
	default:
		return "", fmt.Errorf("%w: unknown mode %d", ErrIncomplete, int(req.Mode))
	}

	for i := range parts {
		parts[i] = strings.TrimRight(parts[i], "\n")
	}
	return strings.Join(parts, separator) + "\n", nil
}

func existingBlock(req Request) string {
	return fmt.Sprintf("## Current Specification: %s\n\n%s", req.Target, req.Existing)
}

func inferDirective(req Request) string {
	return fmt.Sprintf(`## Task

Write the complete specification for %q based on the codebase analysis above.
Save it as Markdown to this exact path, creating the file if needed:

%s

Do not write the specification anywhere else.`, req.Target, req.TargetPath)
}

func updateDirective(req Request) string {
	return fmt.Sprintf(`## Task

Update the specification %q at this path, editing the file in place:

%s

Requirements:
- Preserve the human-authored intent sections (Purpose, Goals, Use Cases, Constraints).
- Update the technical sections to match the codebase analysis above.
- Where the specification and the codebase disagree, keep both views and flag the conflict under Open Questions.
- Add the line "Last updated: %s" directly below the document title.`,
		req.Target, req.TargetPath, req.Now.UTC().Format(time.RFC3339))
}

func refineDirective(req Request) string {
	return fmt.Sprintf(`## Task

Refine the specification %q at this path, editing the file in place:

%s

Improve its structure and clarity. Tighten vague statements, fill obvious
gaps and keep the section layout. There is no codebase for this task; do
not invent implementation details.`, req.Target, req.TargetPath)
}
