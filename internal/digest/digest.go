// Package digest summarizes a codebase into a bounded Markdown document
// used as AI prompt context.
//
// The digest is built fresh on every call and never cached. For an
// unchanged tree two calls return byte-identical output: directory entries
// are visited in name order and every section has a fixed budget.
package digest

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"unicode/utf8"
)

// ErrRootNotFound is returned when the root path is missing or not a directory.
var ErrRootNotFound = errors.New("source path not found")

// Limits bounds each digest section. Character budgets count runes.
type Limits struct {
	ReadmeChars   int
	MaxDepth      int
	MaxEntries    int
	MaxManifests  int
	ManifestChars int
	MaxPriority   int
	MaxOther      int
	SourceChars   int
}

// DefaultLimits returns the budgets used by Summarize.
func DefaultLimits() Limits {
	return Limits{
		ReadmeChars:   3000,
		MaxDepth:      3,
		MaxEntries:    10,
		MaxManifests:  5,
		ManifestChars: 1000,
		MaxPriority:   3,
		MaxOther:      2,
		SourceChars:   2000,
	}
}

// readmeCandidates are matched case-insensitively, first match wins.
var readmeCandidates = []string{
	"README.md",
	"README.rst",
	"README.txt",
	"README",
	"readme.markdown",
}

// ignoreDirs are skipped during traversal. Hidden entries are skipped separately.
var ignoreDirs = map[string]bool{
	"node_modules": true, "vendor": true, "dist": true, "build": true,
	"target": true, "__pycache__": true, "venv": true, "coverage": true,
	"bin": true, "obj": true, "out": true,
}

// manifestFiles are matched against the lower-cased file name.
var manifestFiles = map[string]bool{
	"package.json": true, "go.mod": true, "requirements.txt": true,
	"pyproject.toml": true, "cargo.toml": true, "pom.xml": true,
	"build.gradle": true, "gemfile": true, "composer.json": true,
	"setup.py": true, "docker-compose.yml": true, "dockerfile": true,
	"makefile": true,
}

var sourceExts = map[string]bool{
	".go": true, ".py": true, ".js": true, ".jsx": true, ".ts": true,
	".tsx": true, ".rb": true, ".java": true, ".kt": true, ".rs": true,
	".php": true, ".cs": true, ".swift": true, ".c": true, ".cpp": true,
	".h": true, ".scala": true, ".ex": true, ".vue": true, ".svelte": true,
}

// priorityKeywords mark files that usually carry an application's shape.
var priorityKeywords = []string{
	"main", "app", "index", "server", "route", "model", "controller", "service",
}

const closingBlock = `## Analysis Instructions

Use the material above to understand the application's purpose, data model,
services, endpoints and user interface. Where the digest is silent, infer from
naming and structure and mark the inference as an assumption.`

// Summarize builds the digest for root with DefaultLimits.
func Summarize(root string) (string, error) {
	return SummarizeWith(root, DefaultLimits())
}

// SummarizeWith builds the digest for root with explicit limits.
func SummarizeWith(root string, limits Limits) (string, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return "", fmt.Errorf("resolving %s: %w", root, err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", fmt.Errorf("%w: %s", ErrRootNotFound, root)
		}
		return "", fmt.Errorf("reading %s: %w", root, err)
	}
	if !info.IsDir() {
		return "", fmt.Errorf("%w: %s is not a directory", ErrRootNotFound, root)
	}

	w := &walker{root: abs, limits: limits}
	w.tree = append(w.tree, filepath.Base(abs)+"/")
	w.walk(abs, "", 1, true)

	var b strings.Builder
	fmt.Fprintf(&b, "# Codebase Analysis: %s\n\n", abs)

	if name, content, ok := readReadme(abs, limits.ReadmeChars); ok {
		fmt.Fprintf(&b, "## README (%s)\n\n%s\n\n", name, content)
	}

	b.WriteString("## Directory Structure\n\n```\n")
	b.WriteString(strings.Join(w.tree, "\n"))
	b.WriteString("\n```\n\n")

	w.writeFiles(&b, "Configuration Files", w.manifests, limits.ManifestChars)
	w.writeFiles(&b, "Key Source Files", slices.Concat(w.priority, w.other), limits.SourceChars)

	b.WriteString(closingBlock)
	b.WriteString("\n")
	return b.String(), nil
}

type walker struct {
	root   string
	limits Limits

	tree      []string
	manifests []string
	priority  []string
	other     []string
}

// walk lists dir at the given depth and collects candidate files. Entries
// past MaxEntries are still inspected for manifests and sources but are
// not printed, and neither is anything below them. Symlinks are listed and
// never followed or read.
func (w *walker) walk(dir, rel string, depth int, display bool) {
	if depth > w.limits.MaxDepth {
		return
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		return
	}

	indent := strings.Repeat("  ", depth)
	shown, hidden := 0, 0
	for _, entry := range entries {
		name := entry.Name()
		if strings.HasPrefix(name, ".") || (entry.IsDir() && ignoreDirs[name]) {
			continue
		}
		relPath := name
		if rel != "" {
			relPath = rel + "/" + name
		}

		line := name
		switch {
		case entry.Type()&fs.ModeSymlink != 0:
			line += "@"
		case entry.IsDir():
			line += "/"
		}
		listed := display && shown < w.limits.MaxEntries
		switch {
		case listed:
			w.tree = append(w.tree, indent+line)
			shown++
		case display:
			hidden++
		}

		switch {
		case entry.Type()&fs.ModeSymlink != 0:
		case entry.IsDir():
			w.walk(filepath.Join(dir, name), relPath, depth+1, listed)
		case entry.Type().IsRegular():
			w.classify(relPath, name)
		}
	}
	if hidden > 0 {
		w.tree = append(w.tree, fmt.Sprintf("%s... (%d more)", indent, hidden))
	}
}

func (w *walker) classify(relPath, name string) {
	lower := strings.ToLower(name)
	if manifestFiles[lower] {
		if len(w.manifests) < w.limits.MaxManifests {
			w.manifests = append(w.manifests, relPath)
		}
		return
	}
	if !sourceExts[filepath.Ext(lower)] {
		return
	}
	if isPriority(lower) {
		if len(w.priority) < w.limits.MaxPriority {
			w.priority = append(w.priority, relPath)
		}
		return
	}
	if len(w.other) < w.limits.MaxOther {
		w.other = append(w.other, relPath)
	}
}

func isPriority(lowerName string) bool {
	stem := strings.TrimSuffix(lowerName, filepath.Ext(lowerName))
	for _, kw := range priorityKeywords {
		if strings.Contains(stem, kw) {
			return true
		}
	}
	return false
}

// writeFiles renders a section of fenced file contents, omitting the
// section when no listed file is readable.
func (w *walker) writeFiles(b *strings.Builder, title string, paths []string, budget int) {
	var parts []string
	for _, rel := range paths {
		content, ok := readPrefix(filepath.Join(w.root, filepath.FromSlash(rel)), budget)
		if !ok {
			continue
		}
		parts = append(parts, fmt.Sprintf("### %s\n\n```\n%s\n```", rel, content))
	}
	if len(parts) == 0 {
		return
	}
	fmt.Fprintf(b, "## %s\n\n%s\n\n", title, strings.Join(parts, "\n\n"))
}

func readReadme(root string, budget int) (string, string, bool) {
	entries, err := os.ReadDir(root)
	if err != nil {
		return "", "", false
	}
	for _, candidate := range readmeCandidates {
		for _, entry := range entries {
			if !entry.Type().IsRegular() || !strings.EqualFold(entry.Name(), candidate) {
				continue
			}
			if content, ok := readPrefix(filepath.Join(root, entry.Name()), budget); ok {
				return entry.Name(), content, true
			}
		}
	}
	return "", "", false
}

// readPrefix returns at most budget runes from the start of path. Files
// that cannot be opened or are not valid UTF-8 report false.
func readPrefix(path string, budget int) (string, bool) {
	f, err := os.Open(path)
	if err != nil {
		return "", false
	}
	defer f.Close()

	limit := int64(budget)*utf8.UTFMax + 1
	data, err := io.ReadAll(io.LimitReader(f, limit))
	if err != nil {
		return "", false
	}
	if int64(len(data)) == limit {
		data = trimPartialRune(data)
	}
	if !utf8.Valid(data) {
		return "", false
	}
	return Truncate(string(data), budget), true
}

// trimPartialRune drops a multi-byte sequence cut off by a read limit.
func trimPartialRune(data []byte) []byte {
	for i := 1; i <= utf8.UTFMax && i <= len(data); i++ {
		start := len(data) - i
		if utf8.RuneStart(data[start]) {
			if !utf8.FullRune(data[start:]) {
				return data[:start]
			}
			return data
		}
	}
	return data
}

// Truncate returns the first n runes of s.
func Truncate(s string, n int) string {
	if n <= 0 {
		return ""
	}
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	i := 0
	for pos := range s {
		if i == n {
			return s[:pos]
		}
		i++
	}
	return s
}
