package history

import (
	"context"
	"database/sql"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(t.TempDir())
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestOpen_CreatesDatabase(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested")
	s, err := Open(dir)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	defer func() { _ = s.Close() }()

	if _, err := os.Stat(filepath.Join(dir, FileName)); err != nil {
		t.Errorf("database file missing: %v", err)
	}
}

func TestOpen_Reopen(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	s, err := Open(dir)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := s.Append(ctx, Record{Verb: "refine", Spec: "todo", Adapter: "claude", Command: "c"}); err != nil {
		t.Fatal(err)
	}
	_ = s.Close()

	s, err = Open(dir)
	if err != nil {
		t.Fatalf("reopen error = %v", err)
	}
	defer func() { _ = s.Close() }()
	got, err := s.List(ctx, Filter{})
	if err != nil || len(got) != 1 {
		t.Fatalf("List() = %v, %v; want 1 record", got, err)
	}
}

func TestAppend_AssignsUUID(t *testing.T) {
	s := openTestStore(t)
	id, err := s.Append(context.Background(), Record{Verb: "generate", Spec: "todo", Adapter: "codex", Command: "codex"})
	if err != nil {
		t.Fatalf("Append() error = %v", err)
	}
	if _, err := uuid.Parse(id); err != nil {
		t.Errorf("Append() id = %q is not a UUID", id)
	}
}

func TestList_NewestFirstWithFilter(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	base := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)

	runs := []Record{
		{Verb: "refine", Spec: "todo", Adapter: "claude", Command: "a", Outcome: "applied", StartedAt: base, Duration: 1500 * time.Millisecond},
		{Verb: "update", Spec: "blog", Adapter: "codex", Command: "b", Outcome: "failed", ExitCode: 2, StartedAt: base.Add(time.Minute)},
		{Verb: "infer", Spec: "todo", Adapter: "gemini", Command: "c", Outcome: "unverified", StartedAt: base.Add(2 * time.Minute)},
	}
	for _, r := range runs {
		if _, err := s.Append(ctx, r); err != nil {
			t.Fatal(err)
		}
	}

	all, err := s.List(ctx, Filter{})
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(all) != 3 || all[0].Verb != "infer" || all[2].Verb != "refine" {
		t.Fatalf("List() order = %+v", all)
	}
	if all[2].Duration != 1500*time.Millisecond || !all[2].StartedAt.Equal(base) {
		t.Errorf("round trip lost data: %+v", all[2])
	}
	if all[1].ExitCode != 2 || all[1].Outcome != "failed" {
		t.Errorf("record = %+v", all[1])
	}

	todo, err := s.List(ctx, Filter{Spec: "todo", Limit: 1})
	if err != nil {
		t.Fatal(err)
	}
	if len(todo) != 1 || todo[0].Verb != "infer" {
		t.Errorf("filtered List() = %+v", todo)
	}
}

func TestList_Empty(t *testing.T) {
	got, err := openTestStore(t).List(context.Background(), Filter{Spec: "none"})
	if err != nil {
		t.Fatal(err)
	}
	if got == nil || len(got) != 0 {
		t.Errorf("List() = %#v, want empty non-nil slice", got)
	}
}

func TestOpen_DriverError(t *testing.T) {
	orig := openDB
	t.Cleanup(func() { openDB = orig })
	openDB = func(string, string) (*sql.DB, error) { return nil, errors.New("boom") }

	if _, err := Open(t.TempDir()); err == nil {
		t.Error("Open() should surface driver errors")
	}
}
