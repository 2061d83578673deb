package cfl

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// writeTree creates files under root from a map of slash-separated relative
// paths to contents.
func writeTree(t *testing.T, root string, files map[string]string) {
	t.Helper()
	for rel, content := range files {
		path := filepath.Join(root, filepath.FromSlash(rel))
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatalf("mkdir %s: %v", rel, err)
		}
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatalf("write %s: %v", rel, err)
		}
	}
}

// tempDir returns a symlink-free temporary directory so paths compare equal
// to the resolved ones used by the walker.
func tempDir(t *testing.T) string {
	t.Helper()
	dir, err := filepath.EvalSymlinks(t.TempDir())
	if err != nil {
		t.Fatalf("EvalSymlinks: %v", err)
	}
	return dir
}

func entryPaths(entries []FileEntry) []string {
	paths := make([]string, 0, len(entries))
	for _, e := range entries {
		paths = append(paths, e.Path)
	}
	return paths
}

func newTestProcessor(t *testing.T, base string, include, exclude string) *Processor {
	t.Helper()
	p, err := NewBuilder().
		BaseDir(base).
		IncludePatterns(include).
		ExcludePatterns(exclude).
		Build()
	if err != nil {
		t.Fatalf("Build error: %v", err)
	}
	return p
}

func sized(n int) string {
	return strings.Repeat("x", n)
}
