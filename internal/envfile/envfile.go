// Package envfile loads AI-tool credentials from .env files so they reach
// the subprocesses autobot starts. Variables already present in the
// environment always win, and the first file that sets a key wins over
// later ones.
package envfile

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// Var is one KEY=VALUE assignment in file order.
type Var struct {
	Key   string
	Value string
}

// Files returns the env files autobot reads, in precedence order: the
// project's .env.local and .env, then <configDir>/env.
func Files(configDir string) []string {
	files := []string{".env.local", ".env"}
	if configDir != "" {
		files = append(files, filepath.Join(configDir, "env"))
	}
	return files
}

// LoadAll loads each path in order and returns the keys it set. Missing
// files are skipped.
func LoadAll(paths ...string) ([]string, error) {
	var set []string
	for _, path := range paths {
		keys, err := Load(path)
		if err != nil {
			return set, err
		}
		set = append(set, keys...)
	}
	return set, nil
}

// Load sets every variable from path that is not already in the
// environment and returns the keys it set. A missing file is not an error.
func Load(path string) ([]string, error) {
	file, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("opening env file %s: %w", path, err)
	}
	defer file.Close() //nolint:errcheck // read-only

	vars, err := Parse(file)
	if err != nil {
		return nil, fmt.Errorf("reading env file %s: %w", path, err)
	}

	var set []string
	for _, v := range vars {
		if _, exists := os.LookupEnv(v.Key); exists {
			continue
		}
		if err := os.Setenv(v.Key, v.Value); err != nil {
			return set, fmt.Errorf("setting %s from %s: %w", v.Key, path, err)
		}
		set = append(set, v.Key)
	}
	return set, nil
}

// Parse reads KEY=VALUE lines. Blank lines, comments and malformed lines
// are skipped.
func Parse(r io.Reader) ([]Var, error) {
	var vars []Var
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		key, value, ok := parseLine(line)
		if !ok {
			continue
		}
		vars = append(vars, Var{Key: key, Value: value})
	}
	return vars, scanner.Err()
}

// parseLine splits KEY=VALUE. It accepts an "export " prefix, strips
// matching quotes, and drops a " #" comment after an unquoted value.
func parseLine(line string) (key, value string, ok bool) {
	key, value, found := strings.Cut(line, "=")
	if !found {
		return "", "", false
	}
	key = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(key), "export "))
	if key == "" || strings.ContainsAny(key, " \t") {
		return "", "", false
	}

	value = strings.TrimSpace(value)
	if len(value) >= 2 && (value[0] == '"' || value[0] == '\'') {
		if end := strings.IndexByte(value[1:], value[0]); end >= 0 {
			return key, value[1 : end+1], true
		}
	}
	if before, _, found := strings.Cut(value, " #"); found {
		value = strings.TrimSpace(before)
	}
	return key, value, true
}
