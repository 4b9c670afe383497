package digest

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeFile(t *testing.T, root, rel, content string) {
	t.Helper()
	path := filepath.Join(root, filepath.FromSlash(rel))
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestSummarize_MissingRoot(t *testing.T) {
	_, err := Summarize(filepath.Join(t.TempDir(), "nope"))
	if !errors.Is(err, ErrRootNotFound) {
		t.Errorf("Summarize() error = %v, want ErrRootNotFound", err)
	}
}

func TestSummarize_FileRoot(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "main.go", "package main")
	_, err := Summarize(filepath.Join(root, "main.go"))
	if !errors.Is(err, ErrRootNotFound) {
		t.Errorf("Summarize() error = %v, want ErrRootNotFound", err)
	}
}

func TestSummarize_SectionOrder(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "README.md", "# Todo\nA todo app.")
	writeFile(t, root, "go.mod", "module example.com/todo")
	writeFile(t, root, "cmd/server.go", "package main")
	writeFile(t, root, "internal/store/util.go", "package store")

	got, err := Summarize(root)
	if err != nil {
		t.Fatalf("Summarize() error = %v", err)
	}

	abs, _ := filepath.Abs(root)
	markers := []string{
		"# Codebase Analysis: " + abs,
		"## README (README.md)",
		"A todo app.",
		"## Directory Structure",
		"## Configuration Files",
		"### go.mod",
		"## Key Source Files",
		"### cmd/server.go",
		"### internal/store/util.go",
		"## Analysis Instructions",
	}
	last := -1
	for _, m := range markers {
		idx := strings.Index(got, m)
		if idx < 0 {
			t.Fatalf("digest missing %q:\n%s", m, got)
		}
		if idx < last {
			t.Errorf("%q appears out of order", m)
		}
		last = idx
	}
	if !strings.HasPrefix(got, "# Codebase Analysis: ") {
		t.Error("digest does not start with the header")
	}
}

func TestSummarize_Deterministic(t *testing.T) {
	root := t.TempDir()
	for i := range 25 {
		writeFile(t, root, fmt.Sprintf("pkg%02d/file%02d.go", i, i), "package x")
	}
	writeFile(t, root, "readme.MARKDOWN", "hello")

	first, err := Summarize(root)
	if err != nil {
		t.Fatal(err)
	}
	second, err := Summarize(root)
	if err != nil {
		t.Fatal(err)
	}
	if first != second {
		t.Error("two runs over an unchanged tree produced different digests")
	}
}

func TestSummarize_ReadmeTruncatedToBudget(t *testing.T) {
	root := t.TempDir()
	readme := strings.Repeat("abcdefghij", 1000)
	writeFile(t, root, "README.md", readme)

	got, err := Summarize(root)
	if err != nil {
		t.Fatal(err)
	}
	start := strings.Index(got, "## README (README.md)\n\n")
	end := strings.Index(got, "\n\n## Directory Structure")
	if start < 0 || end < 0 {
		t.Fatalf("README section markers missing:\n%s", got)
	}
	segment := got[start+len("## README (README.md)\n\n") : end]
	if segment != readme[:3000] {
		t.Errorf("README segment has %d chars, want exactly the first 3000", len(segment))
	}
}

func TestSummarize_ReadmeCandidateOrder(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "README.txt", "from txt")
	writeFile(t, root, "readme.rst", "from rst")

	got, err := Summarize(root)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(got, "## README (readme.rst)") || strings.Contains(got, "from txt") {
		t.Errorf("expected readme.rst to win over README.txt:\n%s", got)
	}
}

func TestSummarize_TreeLimits(t *testing.T) {
	root := t.TempDir()
	for i := range 13 {
		writeFile(t, root, fmt.Sprintf("f%02d.txt", i), "x")
	}
	writeFile(t, root, ".env", "SECRET=1")
	writeFile(t, root, "node_modules/lib/index.js", "x")
	writeFile(t, root, "a/b/c/d/deep.txt", "x")

	got, err := Summarize(root)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(got, "... (4 more)") {
		t.Errorf("expected overflow marker for 14 root entries:\n%s", got)
	}
	for _, unwanted := range []string{".env", "node_modules", "deep.txt"} {
		if strings.Contains(got, unwanted) {
			t.Errorf("digest should not mention %q", unwanted)
		}
	}
	if !strings.Contains(got, "      c/") {
		t.Errorf("expected depth-3 directory c/ in tree:\n%s", got)
	}
}

func TestSummarize_HiddenDirectoryChildrenNotListed(t *testing.T) {
	root := t.TempDir()
	for i := range 10 {
		writeFile(t, root, fmt.Sprintf("a%02d.txt", i), "x")
	}
	writeFile(t, root, "zzz/secret_child.go", "package zzz")

	got, err := Summarize(root)
	if err != nil {
		t.Fatal(err)
	}
	_, tree, _ := strings.Cut(got, "## Directory Structure\n\n```\n")
	tree, _, _ = strings.Cut(tree, "\n```")

	if strings.Contains(tree, "zzz/") || strings.Contains(tree, "secret_child") {
		t.Errorf("entries past the cap must not appear in the tree:\n%s", tree)
	}
	if !strings.HasSuffix(tree, "  ... (1 more)") {
		t.Errorf("tree should end with the overflow marker:\n%s", tree)
	}
	if !strings.Contains(got, "### zzz/secret_child.go") {
		t.Error("sources under a hidden directory should still be collected")
	}
}

func TestSummarize_SourceSelection(t *testing.T) {
	root := t.TempDir()
	for _, name := range []string{"app.py", "main.py", "models.py", "server.py", "a.py", "b.py", "c.py"} {
		writeFile(t, root, "src/"+name, "# "+name)
	}

	got, err := Summarize(root)
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"### src/app.py", "### src/main.py", "### src/models.py", "### src/a.py", "### src/b.py"}
	for _, w := range want {
		if !strings.Contains(got, w) {
			t.Errorf("digest missing %q", w)
		}
	}
	for _, unwanted := range []string{"### src/server.py", "### src/c.py"} {
		if strings.Contains(got, unwanted) {
			t.Errorf("digest should not include %q", unwanted)
		}
	}
}

func TestSummarize_ManifestCapAndBudget(t *testing.T) {
	root := t.TempDir()
	manifests := []string{"Dockerfile", "Makefile", "go.mod", "package.json", "pom.xml", "setup.py"}
	for _, name := range manifests {
		writeFile(t, root, name, strings.Repeat("m", 1500))
	}

	got, err := Summarize(root)
	if err != nil {
		t.Fatal(err)
	}
	if n := strings.Count(got, "\n### "); n != 5 {
		t.Errorf("got %d manifest sections, want 5", n)
	}
	if strings.Contains(got, strings.Repeat("m", 1001)) {
		t.Error("manifest content exceeds the 1000 char budget")
	}
}

func TestSummarize_SkipsInvalidUTF8(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "main.go", "\xff\xfe\x00binary")

	got, err := Summarize(root)
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(got, "### main.go") {
		t.Error("non-UTF-8 file should be skipped")
	}
}

func TestSummarize_DoesNotFollowSymlinks(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "src/main.go", "package main")
	if err := os.Symlink(root, filepath.Join(root, "src", "loop")); err != nil {
		t.Skipf("symlinks unsupported: %v", err)
	}

	got, err := Summarize(root)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(got, "loop@") {
		t.Errorf("symlink should be listed with @ marker:\n%s", got)
	}
	if strings.Count(got, "main.go") != 2 {
		t.Errorf("main.go should appear once in tree and once as a source:\n%s", got)
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		in   string
		n    int
		want string
	}{
		{"hello", 10, "hello"},
		{"hello", 3, "hel"},
		{"héllo", 2, "hé"},
		{"日本語", 2, "日本"},
		{"abc", 0, ""},
	}
	for _, tt := range tests {
		if got := Truncate(tt.in, tt.n); got != tt.want {
			t.Errorf("Truncate(%q, %d) = %q, want %q", tt.in, tt.n, got, tt.want)
		}
	}
}

func TestReadPrefix_MultibyteAtLimit(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "x.txt", strings.Repeat("日", 50))
	got, ok := readPrefix(filepath.Join(root, "x.txt"), 10)
	if !ok {
		t.Fatal("readPrefix() reported unreadable")
	}
	if got != strings.Repeat("日", 10) {
		t.Errorf("readPrefix() = %q", got)
	}
}
