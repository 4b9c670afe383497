// Package prompt assembles the single prompt handed to an AI tool.
//
// A prompt is built from a meta-instruction document, the current spec
// text and a codebase digest, in an order fixed by the lifecycle verb.
// Meta-instruction documents live on disk, never in the binary: a verb
// whose document is missing fails with ErrMetaMissing rather than
// running with weaker instructions.
package prompt
