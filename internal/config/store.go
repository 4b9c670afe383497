package config

import (
	"errors"
	"fmt"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/gorewood/autobot/internal/fileutil"
)

// Recognized option names.
const (
	KeyDefaultAITool  = "default_ai_tool"
	KeyAdapterTimeout = "adapter_timeout"
	KeyEditor         = "editor"
	KeyEditorFallback = "editor_fallback"
	KeySpecsDir       = "specs_dir"
)

// Compiled-in defaults used when an option is unset.
const (
	DefaultAITool         = "claude"
	DefaultSpecsDir       = "specs"
	DefaultEditor         = "nano"
	DefaultEditorFallback = "vi"
)

var (
	// ErrUnknownKey is returned when setting an option autobot does not recognize.
	ErrUnknownKey = errors.New("unknown config option")

	// ErrInvalidValue is returned when a value fails its option's validation.
	ErrInvalidValue = errors.New("invalid config value")
)

// Option describes a recognized setting for listings and help text.
type Option struct {
	Key         string
	Default     string
	Description string
}

// Options lists every recognized setting in display order.
var Options = []Option{
	{KeyDefaultAITool, DefaultAITool, "AI tool used when --tool is not given"},
	{KeyAdapterTimeout, "", "Maximum AI tool run time (Go duration, empty = no limit)"},
	{KeyEditor, "$VISUAL, $EDITOR or " + DefaultEditor, "Editor opened when refine falls back to manual editing"},
	{KeyEditorFallback, DefaultEditorFallback, "Editor tried when the primary editor is unavailable"},
	{KeySpecsDir, DefaultSpecsDir, "Directory holding <name>.md spec files"},
}

// Config is the flat option-name to value mapping persisted in config.yaml.
// It is loaded once per invocation and passed explicitly to the code that
// needs it.
type Config struct {
	path   string
	values map[string]string
}

// New returns an empty Config that saves to path.
func New(path string) *Config {
	return &Config{path: path, values: map[string]string{}}
}

// Load reads the config file at path.
//
// The returned Config is never nil. A missing file yields an empty Config
// and a nil error. A corrupt file also yields an empty Config; the error
// describes the corruption so the caller can log it, but it is not fatal.
func Load(path string) (*Config, error) {
	cfg := New(path)
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("reading config %s: %w", path, err)
	}

	var raw map[string]string
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return cfg, fmt.Errorf("parsing config %s: %w", path, err)
	}
	for key, value := range raw {
		cfg.values[NormalizeKey(key)] = value
	}
	return cfg, nil
}

// Path returns the file this Config saves to.
func (c *Config) Path() string {
	return c.path
}

// Save writes the mapping to disk, creating the config directory on first write.
func (c *Config) Save() error {
	if c.path == "" {
		return errors.New("no config path: cannot determine home directory")
	}
	if err := os.MkdirAll(filepath.Dir(c.path), 0o755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	data, err := yaml.Marshal(c.values)
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}
	if err := fileutil.AtomicWrite(c.path, data, 0o644); err != nil {
		return fmt.Errorf("writing config %s: %w", c.path, err)
	}
	return nil
}

// NormalizeKey maps CLI spellings such as "default-ai-tool" to the stored
// form "default_ai_tool".
func NormalizeKey(key string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(key)), "-", "_")
}

// IsKnownKey reports whether key names a recognized option.
func IsKnownKey(key string) bool {
	key = NormalizeKey(key)
	return slices.ContainsFunc(Options, func(o Option) bool { return o.Key == key })
}

// Get returns the stored value for key, if any.
func (c *Config) Get(key string) (string, bool) {
	value, ok := c.values[NormalizeKey(key)]
	return value, ok
}

// Set validates and stores a value. It does not save.
func (c *Config) Set(key, value string) error {
	key = NormalizeKey(key)
	if !IsKnownKey(key) {
		return fmt.Errorf("%w: %s", ErrUnknownKey, key)
	}
	value = strings.TrimSpace(value)
	if key == KeyAdapterTimeout && value != "" {
		d, err := time.ParseDuration(value)
		if err != nil || d < 0 {
			return fmt.Errorf("%w: %s must be a non-negative duration such as 30m, got %q", ErrInvalidValue, key, value)
		}
	}
	if value == "" && key != KeyAdapterTimeout {
		return fmt.Errorf("%w: %s cannot be empty", ErrInvalidValue, key)
	}
	c.values[key] = value
	return nil
}

// Unset removes key. It does not save.
func (c *Config) Unset(key string) error {
	key = NormalizeKey(key)
	if !IsKnownKey(key) {
		return fmt.Errorf("%w: %s", ErrUnknownKey, key)
	}
	delete(c.values, key)
	return nil
}

// Values returns a copy of the stored mapping.
func (c *Config) Values() map[string]string {
	return maps.Clone(c.values)
}

// DefaultAITool returns the adapter name used when the caller does not pick one.
func (c *Config) DefaultAITool() string {
	if v := c.values[KeyDefaultAITool]; v != "" {
		return v
	}
	return DefaultAITool
}

// AdapterTimeout returns the AI tool run limit; zero means no limit.
func (c *Config) AdapterTimeout() time.Duration {
	d, err := time.ParseDuration(c.values[KeyAdapterTimeout])
	if err != nil || d < 0 {
		return 0
	}
	return d
}

// SpecsDir returns the directory holding spec files.
func (c *Config) SpecsDir() string {
	if v := c.values[KeySpecsDir]; v != "" {
		return v
	}
	return DefaultSpecsDir
}

// Editors returns the primary and secondary editor commands.
func (c *Config) Editors() (primary, secondary string) {
	primary = c.values[KeyEditor]
	if primary == "" {
		primary = os.Getenv("VISUAL")
	}
	if primary == "" {
		primary = os.Getenv("EDITOR")
	}
	if primary == "" {
		primary = DefaultEditor
	}
	secondary = c.values[KeyEditorFallback]
	if secondary == "" {
		secondary = DefaultEditorFallback
	}
	return primary, secondary
}
