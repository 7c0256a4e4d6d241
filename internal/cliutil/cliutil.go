// Package cliutil provides the filesystem-facing collaborator the runner
// depends on as an interface rather than calling os/filepath directly,
// the same collaborator-boundary idiom the teacher's CLI entry point
// uses to keep its orchestration logic testable without touching disk.
//
// Grounded on original_source/src/utils.py
// (get_all_python_files_in_directory, get_only_project_path,
// generate_dotted_module_path) and funxy pkg/cli/entry.go's
// isSourceFile/filepath.Walk project-scan pattern.
package cliutil

import (
	"io/fs"
	"path/filepath"
	"sort"
	"strings"

	"github.com/pygram-go/pygram/internal/modulepath"
)

// ProjectFile is one source file discovered under a project root: its
// absolute filesystem path, ready to read, and its dotted module path
// relative to that root, ready to key a SequenceSet or FileCache entry.
type ProjectFile struct {
	AbsPath    string
	ModulePath string
}

// FileLister discovers every source file belonging to a project rooted at
// dir. The default implementation walks the filesystem; tests substitute
// a fixed in-memory list instead.
type FileLister interface {
	ListFiles(dir string) ([]ProjectFile, error)
}

// WalkDirLister is the default FileLister, grounded on
// get_all_python_files_in_directory: a recursive directory walk that
// skips any "venv" directory it encounters and keeps every ".py" file.
type WalkDirLister struct{}

// ListFiles walks dir recursively, returning every ".py" file found
// outside a "venv" directory, sorted by absolute path for deterministic
// downstream iteration.
func (WalkDirLister) ListFiles(dir string) ([]ProjectFile, error) {
	var out []ProjectFile
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if d.Name() == "venv" {
				return filepath.SkipDir
			}
			return nil
		}
		if !strings.HasSuffix(path, ".py") {
			return nil
		}
		rel, err := filepath.Rel(dir, path)
		if err != nil {
			return err
		}
		out = append(out, ProjectFile{
			AbsPath:    path,
			ModulePath: modulepath.FromRelativePath(filepath.ToSlash(rel)),
		})
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Slice(out, func(i, j int) bool { return out[i].AbsPath < out[j].AbsPath })
	return out, nil
}
