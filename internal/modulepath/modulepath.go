// Package modulepath computes dotted module paths from project-relative
// file paths, the pure-function half of what Utils did in the original
// (the directory walk that produces file paths in the first place is a
// non-core collaborator, see internal/cliutil).
//
// Grounded on original_source/src/utils.py
// (generate_dotted_module_path, get_only_project_path) and
// original_source/src/type_retrieval/preprocessed_type_caches.py's
// `__init__` collapsing behavior.
package modulepath

import "strings"

// FromRelativePath turns a project-relative file path ("pkg/sub/mod.py")
// into its dotted module path ("pkg.sub.mod"), collapsing a trailing
// "__init__" segment into its parent package the way Python import
// resolution treats package initializers.
func FromRelativePath(relPath string) string {
	trimmed := strings.TrimSuffix(relPath, ".py")
	dotted := strings.ReplaceAll(trimmed, "/", ".")
	dotted = strings.TrimPrefix(dotted, ".")
	return CollapseInit(dotted)
}

// CollapseInit strips a trailing ".__init__" from a dotted module path, so
// that "pkg.sub.__init__" and "pkg.sub" refer to the same module for
// import-resolution purposes. A bare top-level "__init__" collapses to "".
func CollapseInit(dotted string) string {
	if dotted == "__init__" {
		return ""
	}
	return strings.TrimSuffix(dotted, ".__init__")
}

// Parts splits a dotted module path into its components.
func Parts(dotted string) []string {
	if dotted == "" {
		return nil
	}
	return strings.Split(dotted, ".")
}

// Join re-assembles dotted path components.
func Join(parts []string) string {
	return strings.Join(parts, ".")
}

// StripTrailing removes n trailing path components, used to resolve
// relative imports by level (a level-N relative import strips N
// components from the importing module's own path before appending the
// imported name).
func StripTrailing(dotted string, n int) string {
	parts := Parts(dotted)
	if n >= len(parts) {
		return ""
	}
	if n <= 0 {
		return dotted
	}
	return Join(parts[:len(parts)-n])
}
