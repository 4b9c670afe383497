package spec

import (
	"errors"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"
)

func TestSkeleton_HasSections(t *testing.T) {
	want := []string{
		"Purpose", "Goals", "Use Cases", "Schema", "Services", "Endpoints",
		"UI", "Pages", "Technical Requirements", "Constraints", "Open Questions",
	}
	var got []string
	for line := range strings.Lines(Skeleton()) {
		if title, ok := strings.CutPrefix(strings.TrimRight(line, "\n"), "## "); ok {
			got = append(got, title)
		}
	}
	if !slices.Equal(got, want) {
		t.Errorf("sections = %v, want %v", got, want)
	}
}

func TestCreateThenRead_ReturnsSkeletonVerbatim(t *testing.T) {
	store := NewStore(filepath.Join(t.TempDir(), "specs"))

	path, err := store.Create("todo-app")
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if filepath.Base(path) != "todo-app.md" {
		t.Errorf("path = %q, want todo-app.md", path)
	}

	data, err := store.Read("todo-app")
	if err != nil {
		t.Fatalf("Read() error = %v", err)
	}
	if string(data) != Skeleton() {
		t.Error("Read() did not return the skeleton verbatim")
	}
}

func TestCreate_ExistingIsConflictAndUntouched(t *testing.T) {
	store := NewStore(t.TempDir())
	if _, err := store.Create("todo-app"); err != nil {
		t.Fatal(err)
	}
	if err := store.Write("todo-app", []byte("# edited\n")); err != nil {
		t.Fatal(err)
	}

	_, err := store.Create("todo-app")
	if !errors.Is(err, ErrAlreadyExists) {
		t.Fatalf("second Create() error = %v, want ErrAlreadyExists", err)
	}
	data, _ := store.Read("todo-app")
	if string(data) != "# edited\n" {
		t.Errorf("content = %q, existing spec was modified", data)
	}
}

func TestRead_Missing(t *testing.T) {
	_, err := NewStore(t.TempDir()).Read("ghost")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("Read() error = %v, want ErrNotFound", err)
	}
}

func TestValidateName(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"simple", "todo-app", false},
		{"unicode", "café", false},
		{"spaces inside", "my app", false},
		{"empty", "", true},
		{"dot", ".", true},
		{"dot dot", "..", true},
		{"hidden", ".secret", true},
		{"slash", "a/b", true},
		{"backslash", `a\b`, true},
		{"traversal", "../etc", true},
		{"nul", "a\x00b", true},
		{"too long", strings.Repeat("x", maxNameLen+1), true},
		{"max length", strings.Repeat("x", maxNameLen), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateName(tt.input)
			if tt.wantErr && !errors.Is(err, ErrInvalidName) {
				t.Errorf("ValidateName(%q) error = %v, want ErrInvalidName", tt.input, err)
			}
			if !tt.wantErr && err != nil {
				t.Errorf("ValidateName(%q) error = %v", tt.input, err)
			}
		})
	}
}

func TestCreate_InvalidNameWritesNothing(t *testing.T) {
	dir := t.TempDir()
	store := NewStore(dir)
	if _, err := store.Create("../escape"); !errors.Is(err, ErrInvalidName) {
		t.Fatalf("Create() error = %v, want ErrInvalidName", err)
	}
	if _, err := os.Stat(filepath.Join(filepath.Dir(dir), "escape.md")); !os.IsNotExist(err) {
		t.Error("Create() wrote outside the spec directory")
	}
}

func TestList(t *testing.T) {
	dir := t.TempDir()
	store := NewStore(dir)

	names, err := store.List()
	if err != nil || len(names) != 0 {
		t.Fatalf("List() on empty dir = %v, %v", names, err)
	}

	for _, name := range []string{"zeta", "alpha", "mid"} {
		if _, err := store.Create(name); err != nil {
			t.Fatal(err)
		}
	}
	_ = os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o644)
	_ = os.WriteFile(filepath.Join(dir, ".hidden.md"), []byte("x"), 0o644)
	_ = os.Mkdir(filepath.Join(dir, "sub.md"), 0o755)

	names, err = store.List()
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if want := []string{"alpha", "mid", "zeta"}; !slices.Equal(names, want) {
		t.Errorf("List() = %v, want %v", names, want)
	}
}

func TestList_MissingDir(t *testing.T) {
	names, err := NewStore(filepath.Join(t.TempDir(), "absent")).List()
	if err != nil || len(names) != 0 {
		t.Errorf("List() = %v, %v; want empty, nil", names, err)
	}
}

func TestExists(t *testing.T) {
	store := NewStore(t.TempDir())
	if store.Exists("todo") {
		t.Error("Exists() = true before create")
	}
	_, _ = store.Create("todo")
	if !store.Exists("todo") {
		t.Error("Exists() = false after create")
	}
	if store.Exists("../todo") {
		t.Error("Exists() = true for invalid name")
	}
}
