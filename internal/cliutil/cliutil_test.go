package cliutil

import (
	"os"
	"path/filepath"
	"testing"
)

func TestListFilesFindsPythonFilesRecursively(t *testing.T) {
	root := t.TempDir()
	mustWrite(t, filepath.Join(root, "main.py"), "")
	mustWrite(t, filepath.Join(root, "pkg", "util.py"), "")
	mustWrite(t, filepath.Join(root, "pkg", "notes.txt"), "")

	files, err := (WalkDirLister{}).ListFiles(root)
	if err != nil {
		t.Fatalf("ListFiles: %v", err)
	}
	if len(files) != 2 {
		t.Fatalf("got %d files, want 2: %+v", len(files), files)
	}
}

func TestListFilesSkipsVenvDirectory(t *testing.T) {
	root := t.TempDir()
	mustWrite(t, filepath.Join(root, "main.py"), "")
	mustWrite(t, filepath.Join(root, "venv", "lib", "site.py"), "")

	files, err := (WalkDirLister{}).ListFiles(root)
	if err != nil {
		t.Fatalf("ListFiles: %v", err)
	}
	if len(files) != 1 {
		t.Fatalf("got %d files, want 1 (venv should be skipped): %+v", len(files), files)
	}
}

func TestListFilesComputesDottedModulePath(t *testing.T) {
	root := t.TempDir()
	mustWrite(t, filepath.Join(root, "pkg", "util.py"), "")

	files, err := (WalkDirLister{}).ListFiles(root)
	if err != nil {
		t.Fatalf("ListFiles: %v", err)
	}
	if len(files) != 1 {
		t.Fatalf("got %d files, want 1", len(files))
	}
	if want := "pkg.util"; files[0].ModulePath != want {
		t.Fatalf("module path: got %q, want %q", files[0].ModulePath, want)
	}
}

func mustWrite(t *testing.T, path, contents string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatal(err)
	}
}
