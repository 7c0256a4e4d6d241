// Package importcache resolves the module an imported name came from, one
// cache per source file. It mirrors `from X import a, b as c` / `import X`
// semantics closely enough to back call-token qualification: given a bare
// name used in the file, it returns the dotted module path that name was
// imported from, de-aliasing first.
//
// Grounded on original_source/src/type_retrieval/import_cache.py.
package importcache

import (
	"sort"

	"github.com/pygram-go/pygram/internal/modulepath"
)

// Cache holds one file's import table: for every imported module, which
// symbols it exposed (for `from X import a, b`) and which local alias each
// symbol is known under (for `from X import a as b` or `import X as y`).
type Cache struct {
	moduleSymbols map[string][]string // module path -> imported symbol names
	aliases       map[string]string   // local alias -> original symbol name
	moduleLevel   string              // the importing file's own module path, for level-1 imports
	available     map[string]bool     // every in-project module path; stored, not consulted by any lookup
}

// New creates an empty Cache for a file whose own dotted module path is
// moduleLevel, used to resolve same-package relative imports.
func New(moduleLevel string, available map[string]bool) *Cache {
	return &Cache{
		moduleSymbols: make(map[string][]string),
		aliases:       make(map[string]string),
		moduleLevel:   moduleLevel,
		available:     available,
	}
}

// AddImport records that `symbol` (imported as `alias`, or `symbol` itself
// if alias == "") is available under `modulePath`, which for a relative
// `from . import x` / `from .. import x` statement is produced by
// ResolveRelativePath first.
func (c *Cache) AddImport(modulePath, symbol, alias string) {
	c.moduleSymbols[modulePath] = append(c.moduleSymbols[modulePath], symbol)
	if alias != "" && alias != symbol {
		c.aliases[alias] = symbol
	}
}

// ResolveRelativePath computes the complete dotted path a relative import
// refers to. level 0 means an absolute import: rawModule is returned
// unchanged, without being matched against the project's module paths.
// level 1 means "from the same package" (strip nothing beyond the
// importing file's own package). level N>1 strips N-1 additional trailing
// components from the importing module's package path before appending
// rawModule.
func (c *Cache) ResolveRelativePath(level int, rawModule string) string {
	if level == 0 {
		return rawModule
	}
	pkg := modulepath.StripTrailing(c.moduleLevel, 1) // drop the file's own module name
	if level > 1 {
		pkg = modulepath.StripTrailing(pkg, level-1)
	}
	if rawModule == "" {
		return pkg
	}
	if pkg == "" {
		return rawModule
	}
	return pkg + "." + rawModule
}

// GetModuleForName returns the dotted module path that `name` (as used in
// the file's own source, i.e. possibly an alias) was imported from, and
// whether any import statement accounts for it at all.
func (c *Cache) GetModuleForName(name string) (string, bool) {
	original := name
	if dealiased, ok := c.aliases[name]; ok {
		original = dealiased
	}
	var exact []string
	for module, symbols := range c.moduleSymbols {
		for _, s := range symbols {
			if s == original {
				exact = append(exact, module)
				break
			}
		}
	}
	if len(exact) > 0 {
		sort.Strings(exact)
		return exact[0], true
	}
	// Fallback: name equal to one whole segment of an imported module's
	// dotted path (`sub` against `import pkg.sub`). Collected
	// and sorted rather than returned on first map-iteration hit, so two
	// imports sharing a path segment resolve the same way on every run.
	var bySegment []string
	for module := range c.moduleSymbols {
		if len(module) > 0 && containsSegment(module, original) {
			bySegment = append(bySegment, module)
		}
	}
	if len(bySegment) > 0 {
		sort.Strings(bySegment)
		return bySegment[0], true
	}
	return "", false
}

func containsSegment(module, name string) bool {
	parts := splitDotted(module)
	for _, p := range parts {
		if p == name {
			return true
		}
	}
	return false
}

func splitDotted(s string) []string { return modulepath.Parts(s) }
