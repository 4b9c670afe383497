package prompt

import (
	"embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/gorewood/autobot/internal/fileutil"
)

// Meta-instruction document names used by the lifecycle verbs.
const (
	MetaCodebaseAnalyzer = "codebase-analyzer"
	MetaSpecUpdater      = "spec-updater"
)

// ErrMetaMissing is returned when a required meta-instruction document
// cannot be found or has no instructions in it.
var ErrMetaMissing = errors.New("meta-instruction document missing")

//go:embed meta/*.md
var starterFS embed.FS

// Meta is a meta-instruction document with optional frontmatter.
type Meta struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	Version     int    `yaml:"version,omitempty"`

	Content string `yaml:"-"`
	Source  string `yaml:"-"` // "project" or "global"
	Path    string `yaml:"-"`
}

// MetaInfo describes how one document name resolves, for listing.
type MetaInfo struct {
	Name        string
	Description string
	Source      string // "project", "global" or "missing"
	Path        string
	Shadows     string // path of a global document hidden by a project one
}

// Loader resolves meta-instruction documents from a project directory and
// then a global one. There is no built-in fallback: the starter documents
// are only ever written to disk by Init.
type Loader struct {
	ProjectDir string
	GlobalDir  string
}

// NewLoader returns a Loader for projectRoot/.autobot/meta and configDir/meta.
// An empty configDir disables the global location.
func NewLoader(projectRoot, configDir string) *Loader {
	l := &Loader{ProjectDir: filepath.Join(projectRoot, ".autobot", "meta")}
	if configDir != "" {
		l.GlobalDir = filepath.Join(configDir, "meta")
	}
	return l
}

// Load finds the document called name.
func (l *Loader) Load(name string) (*Meta, error) {
	for _, loc := range l.locations() {
		path := filepath.Join(loc.dir, name+".md")
		data, err := os.ReadFile(path)
		if err != nil {
			if errors.Is(err, os.ErrNotExist) {
				continue
			}
			return nil, fmt.Errorf("reading meta-instruction %s: %w", path, err)
		}
		meta, err := parseMeta(string(data))
		if err != nil {
			return nil, fmt.Errorf("meta-instruction %s: %w", path, err)
		}
		if meta.Content == "" {
			return nil, fmt.Errorf("%w: %s has no instructions", ErrMetaMissing, path)
		}
		meta.Source = loc.source
		meta.Path = path
		if meta.Name == "" {
			meta.Name = name
		}
		return meta, nil
	}
	return nil, fmt.Errorf("%w: %s (looked in %s; run 'autobot meta init' to install starters)",
		ErrMetaMissing, name, strings.Join(l.dirs(), ", "))
}

// List reports how each required document resolves, followed by any other
// documents present in either location.
func (l *Loader) List() []MetaInfo {
	names := []string{MetaCodebaseAnalyzer, MetaSpecUpdater}
	for _, loc := range l.locations() {
		entries, err := os.ReadDir(loc.dir)
		if err != nil {
			continue
		}
		for _, entry := range entries {
			name, ok := strings.CutSuffix(entry.Name(), ".md")
			if !ok || entry.IsDir() || slices.Contains(names, name) {
				continue
			}
			names = append(names, name)
		}
	}
	slices.Sort(names[2:])

	infos := make([]MetaInfo, 0, len(names))
	for _, name := range names {
		info := MetaInfo{Name: name, Source: "missing"}
		if meta, err := l.Load(name); err == nil {
			info.Description = meta.Description
			info.Source = meta.Source
			info.Path = meta.Path
			if meta.Source == "project" && l.GlobalDir != "" {
				global := filepath.Join(l.GlobalDir, name+".md")
				if fileutil.Exists(global) {
					info.Shadows = global
				}
			}
		}
		infos = append(infos, info)
	}
	return infos
}

type location struct {
	source string
	dir    string
}

func (l *Loader) locations() []location {
	var locs []location
	if l.ProjectDir != "" {
		locs = append(locs, location{"project", l.ProjectDir})
	}
	if l.GlobalDir != "" {
		locs = append(locs, location{"global", l.GlobalDir})
	}
	return locs
}

func (l *Loader) dirs() []string {
	var dirs []string
	for _, loc := range l.locations() {
		dirs = append(dirs, loc.dir)
	}
	return dirs
}

// StarterNames lists the embedded starter documents.
func StarterNames() []string {
	entries, err := starterFS.ReadDir("meta")
	if err != nil {
		return nil
	}
	var names []string
	for _, entry := range entries {
		if name, ok := strings.CutSuffix(entry.Name(), ".md"); ok {
			names = append(names, name)
		}
	}
	return names
}

// InitResult reports what Init did for one document.
type InitResult struct {
	Name    string
	Path    string
	Written bool
}

// Init writes the embedded starter documents into dir. Existing files are
// kept unless force is set.
func Init(dir string, force bool) ([]InitResult, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating meta directory: %w", err)
	}
	var results []InitResult
	for _, name := range StarterNames() {
		path := filepath.Join(dir, name+".md")
		result := InitResult{Name: name, Path: path}
		if !force && fileutil.Exists(path) {
			results = append(results, result)
			continue
		}
		data, err := starterFS.ReadFile("meta/" + name + ".md")
		if err != nil {
			return results, fmt.Errorf("reading starter %s: %w", name, err)
		}
		if err := fileutil.AtomicWrite(path, data, 0o644); err != nil {
			return results, fmt.Errorf("writing %s: %w", path, err)
		}
		result.Written = true
		results = append(results, result)
	}
	return results, nil
}

// parseMeta parses a document with optional YAML frontmatter.
func parseMeta(raw string) (*Meta, error) {
	frontmatter, content := splitFrontmatter(raw)

	var meta Meta
	if frontmatter != "" {
		if err := yaml.Unmarshal([]byte(frontmatter), &meta); err != nil {
			return nil, fmt.Errorf("invalid frontmatter: %w", err)
		}
	}
	meta.Content = strings.TrimSpace(content)
	return &meta, nil
}

// splitFrontmatter separates YAML frontmatter delimited by --- lines from content.
func splitFrontmatter(raw string) (frontmatter, content string) {
	raw = strings.TrimSpace(raw)
	if !strings.HasPrefix(raw, "---") {
		return "", raw
	}

	rest := raw[3:]
	before, after, ok := strings.Cut(rest, "\n---")
	if !ok {
		return "", raw
	}
	return strings.TrimSpace(before), strings.TrimSpace(after)
}
