package adapter

import "strings"

// ShellQuote wraps s in single quotes for a POSIX shell. Embedded single
// quotes become '"'"' so any UTF-8 text, including newlines, $, backticks
// and backslashes, reaches the program unchanged.
func ShellQuote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", `'"'"'`) + "'"
}
