package fileutil

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"testing"
)

func TestAtomicWrite_ReplacesContent(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "todo-app.md")

	if err := AtomicWrite(path, []byte("first"), 0o644); err != nil {
		t.Fatalf("first write: %v", err)
	}
	if err := AtomicWrite(path, []byte("second"), 0o644); err != nil {
		t.Fatalf("second write: %v", err)
	}

	got, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != "second" {
		t.Errorf("content = %q, want %q", got, "second")
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 {
		t.Errorf("directory has %d entries, want only the target (temp files must be cleaned up)", len(entries))
	}
}

func TestAtomicWrite_MissingDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing", "x.md")
	if err := AtomicWrite(path, []byte("x"), 0o644); err == nil {
		t.Fatal("expected error for missing parent directory")
	}
	if Exists(path) {
		t.Error("target should not exist after failed write")
	}
}

func TestWriteNew(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "todo-app.md")

	if err := WriteNew(path, []byte("first"), 0o644); err != nil {
		t.Fatalf("WriteNew() error = %v", err)
	}
	err := WriteNew(path, []byte("second"), 0o644)
	if !errors.Is(err, fs.ErrExist) {
		t.Fatalf("second WriteNew() error = %v, want fs.ErrExist", err)
	}

	got, _ := os.ReadFile(path)
	if string(got) != "first" {
		t.Errorf("content = %q, existing file must be kept", got)
	}
	entries, _ := os.ReadDir(dir)
	if len(entries) != 1 {
		t.Errorf("directory has %d entries, want 1", len(entries))
	}
}
