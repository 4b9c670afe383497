package adapter

import (
	"fmt"
	"os"
)

// Claude runs Claude Code in print mode with file-editing tools allowed.
// The prompt is streamed on stdin.
type Claude struct{}

func (*Claude) Name() string        { return "claude" }
func (*Claude) DisplayName() string { return "Claude Code" }
func (*Claude) Binary() string      { return "claude" }
func (*Claude) Streams() bool       { return true }

// BuildCommand implements Adapter.
func (*Claude) BuildCommand(promptPath string) (string, error) {
	return "claude -p --allowedTools 'Bash,Edit,Write' < " + ShellQuote(promptPath), nil
}

// Gemini runs Gemini CLI with automatic approval. The prompt is streamed on stdin.
type Gemini struct{}

func (*Gemini) Name() string        { return "gemini" }
func (*Gemini) DisplayName() string { return "Gemini CLI" }
func (*Gemini) Binary() string      { return "gemini" }
func (*Gemini) Streams() bool       { return true }

// BuildCommand implements Adapter.
func (*Gemini) BuildCommand(promptPath string) (string, error) {
	return "gemini --yolo < " + ShellQuote(promptPath), nil
}

// Codex runs OpenAI Codex in full-auto mode. Codex takes the prompt as an
// argument, so the file content is inlined and quoted.
type Codex struct{}

func (*Codex) Name() string        { return "codex" }
func (*Codex) DisplayName() string { return "OpenAI Codex" }
func (*Codex) Binary() string      { return "codex" }
func (*Codex) Streams() bool       { return false }

// BuildCommand implements Adapter.
func (*Codex) BuildCommand(promptPath string) (string, error) {
	data, err := os.ReadFile(promptPath)
	if err != nil {
		return "", fmt.Errorf("reading prompt: %w", err)
	}
	return "codex --approval-mode full-auto " + ShellQuote(string(data)), nil
}
