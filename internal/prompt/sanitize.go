package prompt

import (
	"slices"
	"strings"
)

// maxLeadIn bounds how many leading chatter lines are dropped so a
// document that happens to open with one of the phrases survives.
const maxLeadIn = 3

// Phrases AI tools wrap around a document they printed instead of writing
// to disk. Each is matched case-insensitively against the start of a
// trimmed line.
var (
	leadIns = []string{
		"here is", "here's", "sure,", "sure!", "okay,", "okay!",
		"certainly", "absolutely", "of course",
		"i'll ", "i will ", "i've ", "i have ", "i analyzed",
		"let me ", "now i ", "now let me",
		"based on", "looking at", "after reviewing", "after analyzing",
		"having reviewed", "having analyzed", "the specification has been",
	}
	signOffs = []string{
		"let me know", "feel free to", "hope this helps", "is there anything",
		"would you like", "shall i ", "do you want", "i can also",
		"if you need", "if you'd like", "the file has been", "i've saved",
		"next steps:",
	}
)

// SanitizeOutput strips chatty lead-in and sign-off lines, and a code fence
// wrapped around the whole document, from an AI tool's standard output so
// it can be saved as a spec.
func SanitizeOutput(content string) string {
	lines := strings.Split(strings.TrimSpace(content), "\n")
	lines = dropSignOff(dropLeadIn(lines))
	return strings.TrimSpace(unwrapFence(strings.TrimSpace(strings.Join(lines, "\n"))))
}

// dropLeadIn returns lines from the first one that is neither blank nor
// one of the first maxLeadIn chatter lines.
func dropLeadIn(lines []string) []string {
	skipped := 0
	for i, line := range lines {
		line = strings.TrimSpace(line)
		switch {
		case line == "":
		case skipped < maxLeadIn && isChatter(line, leadIns):
			skipped++
		default:
			return lines[i:]
		}
	}
	return nil
}

// dropSignOff trims trailing blank and sign-off lines.
func dropSignOff(lines []string) []string {
	end := len(lines)
	for end > 0 {
		line := strings.TrimSpace(lines[end-1])
		if line != "" && !isChatter(line, signOffs) {
			break
		}
		end--
	}
	return lines[:end]
}

func isChatter(line string, phrases []string) bool {
	lower := strings.ToLower(line)
	return slices.ContainsFunc(phrases, func(p string) bool {
		return strings.HasPrefix(lower, p)
	})
}

// unwrapFence removes a single code fence wrapped around the whole
// document, as in "```markdown\n# Spec\n```".
func unwrapFence(content string) string {
	if !strings.HasPrefix(content, "```") || !strings.HasSuffix(content, "```") {
		return content
	}
	first, rest, ok := strings.Cut(content, "\n")
	if !ok || strings.Contains(first[3:], "`") {
		return content
	}
	body := strings.TrimSuffix(rest, "```")
	if strings.Contains(body, "\n```") {
		return content
	}
	return body
}
