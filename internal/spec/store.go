// Package spec stores application specs as one Markdown file per name.
//
// A spec name maps to exactly one file, <dir>/<name>.md. Writes go through
// a temp file and a rename, so a reader never observes a half-written spec.
// The store never deletes specs. Create never replaces an existing file,
// even when two processes race; other concurrent writes to the same name
// are not coordinated and the last rename wins.
package spec

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/gorewood/autobot/internal/fileutil"
)

//go:embed skeleton.md
var skeleton string

// Skeleton returns the fixed document written by Create.
func Skeleton() string {
	return skeleton
}

const (
	fileExt     = ".md"
	maxNameLen  = 128
	specPerm    = 0o644
	specDirPerm = 0o755
)

var (
	// ErrNotFound is returned when no file exists for a spec name.
	ErrNotFound = errors.New("spec not found")

	// ErrAlreadyExists is returned by Create when the spec file is present.
	ErrAlreadyExists = errors.New("spec already exists")

	// ErrInvalidName is returned for names that are not a single safe path component.
	ErrInvalidName = errors.New("invalid spec name")
)

// Store reads and writes spec files in one directory.
type Store struct {
	dir string
}

// NewStore returns a store rooted at dir. The directory is created on the first write.
func NewStore(dir string) *Store {
	return &Store{dir: dir}
}

// Dir returns the storage directory.
func (s *Store) Dir() string {
	return s.dir
}

// ValidateName checks that name can be used as a file name on its own.
func ValidateName(name string) error {
	switch {
	case name == "":
		return fmt.Errorf("%w: name is empty", ErrInvalidName)
	case len(name) > maxNameLen:
		return fmt.Errorf("%w: name is longer than %d bytes", ErrInvalidName, maxNameLen)
	case strings.ContainsRune(name, '\x00'):
		return fmt.Errorf("%w: name contains a null byte", ErrInvalidName)
	case strings.ContainsAny(name, `/\`):
		return fmt.Errorf("%w: %q contains a path separator", ErrInvalidName, name)
	case strings.HasPrefix(name, "."):
		return fmt.Errorf("%w: %q starts with a dot", ErrInvalidName, name)
	}
	return nil
}

// Path returns the file path for name without checking that it exists.
func (s *Store) Path(name string) (string, error) {
	if err := ValidateName(name); err != nil {
		return "", err
	}
	return filepath.Join(s.dir, name+fileExt), nil
}

// Exists reports whether the spec file for name exists. Invalid names do not exist.
func (s *Store) Exists(name string) bool {
	path, err := s.Path(name)
	if err != nil {
		return false
	}
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

// Read returns the content of spec name.
func (s *Store) Read(name string) ([]byte, error) {
	path, err := s.Path(name)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, name)
		}
		return nil, fmt.Errorf("reading spec %s: %w", path, err)
	}
	return data, nil
}

// Create writes the skeleton for a new spec and returns its path.
// An existing spec is left untouched and ErrAlreadyExists is returned.
func (s *Store) Create(name string) (string, error) {
	path, err := s.Path(name)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(s.dir, specDirPerm); err != nil {
		return "", fmt.Errorf("creating spec directory: %w", err)
	}
	err = fileutil.WriteNew(path, []byte(skeleton), specPerm)
	switch {
	case errors.Is(err, fs.ErrExist):
		return path, fmt.Errorf("%w: %s", ErrAlreadyExists, name)
	case err != nil:
		return "", fmt.Errorf("writing spec %s: %w", path, err)
	}
	return path, nil
}

// Write replaces the content of spec name, creating it if needed.
func (s *Store) Write(name string, data []byte) error {
	path, err := s.Path(name)
	if err != nil {
		return err
	}
	return s.write(path, data)
}

func (s *Store) write(path string, data []byte) error {
	if err := os.MkdirAll(s.dir, specDirPerm); err != nil {
		return fmt.Errorf("creating spec directory: %w", err)
	}
	if err := fileutil.AtomicWrite(path, data, specPerm); err != nil {
		return fmt.Errorf("writing spec %s: %w", path, err)
	}
	return nil
}

// List returns the names of all specs in sorted order.
// A missing directory is an empty list.
func (s *Store) List() ([]string, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return []string{}, nil
		}
		return nil, fmt.Errorf("listing specs in %s: %w", s.dir, err)
	}

	names := []string{}
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), fileExt) {
			continue
		}
		name := strings.TrimSuffix(entry.Name(), fileExt)
		if ValidateName(name) != nil {
			continue
		}
		names = append(names, name)
	}
	slices.Sort(names)
	return names, nil
}
