package lifecycle

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"
)

// affirmative answers accepted by IsAffirmative, compared case-insensitively.
var affirmative = []string{"y", "yes"}

// IsAffirmative reports whether answer confirms. Anything else, including
// an empty answer, declines.
func IsAffirmative(answer string) bool {
	answer = strings.ToLower(strings.TrimSpace(answer))
	for _, a := range affirmative {
		if answer == a {
			return true
		}
	}
	return false
}

// PromptConfirmer asks on Out and reads one line from In.
type PromptConfirmer struct {
	In  io.Reader
	Out io.Writer
}

// Ask writes question followed by " [y/N] " and returns the typed line.
// End of input without a newline still counts as an answer.
func (c PromptConfirmer) Ask(question string) (string, error) {
	if _, err := fmt.Fprintf(c.Out, "%s [y/N] ", question); err != nil {
		return "", fmt.Errorf("writing prompt: %w", err)
	}
	line, err := bufio.NewReader(c.In).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("reading answer: %w", err)
	}
	return line, nil
}
