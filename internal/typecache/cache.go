// Package typecache builds and queries the project-wide function/method
// return-type cache the type-aware tokenizer consults to qualify call
// tokens: "what module (and, for a method, what class) declares a
// callable named X, and what does it return?"
//
// Grounded on
// original_source/src/type_retrieval/preprocessed_type_caches.py and
// original_source/src/type_retrieval/project_preprocessor.py.
package typecache

import (
	"sort"

	"github.com/pygram-go/pygram/internal/importcache"
	"github.com/pygram-go/pygram/internal/typeinfo"
)

// ClassCache holds one class's own methods and any nested classes
// declared inside its body, keyed by name, mirroring the recursive
// dotted-path shape a nested class produces.
type ClassCache struct {
	Name    string
	Methods map[string]*typeinfo.TypeInfo
	Nested  map[string]*ClassCache
}

func newClassCache(name string) *ClassCache {
	return &ClassCache{Name: name, Methods: make(map[string]*typeinfo.TypeInfo), Nested: make(map[string]*ClassCache)}
}

// FileCache holds everything the type preprocessor extracted from one
// source file: its import table, its module-level function return types,
// and its top-level classes (each carrying its own nested classes).
type FileCache struct {
	ModulePath string
	Imports    *importcache.Cache
	Functions  map[string]*typeinfo.TypeInfo
	Classes    map[string]*ClassCache
}

func newFileCache(modulePath string, imports *importcache.Cache) *FileCache {
	return &FileCache{
		ModulePath: modulePath,
		Imports:    imports,
		Functions:  make(map[string]*typeinfo.TypeInfo),
		Classes:    make(map[string]*ClassCache),
	}
}

// ProjectCache is the project-wide aggregate of every file's FileCache,
// queried by the type-aware tokenizer while it processes each file in
// turn (SetCurrentModule tracks which file is "self" for unqualified
// lookups against its own imports).
type ProjectCache struct {
	files         map[string]*FileCache
	currentModule string
}

// NewProjectCache creates an empty project-wide cache.
func NewProjectCache() *ProjectCache {
	return &ProjectCache{files: make(map[string]*FileCache)}
}

// AddFileCache registers fc under its own module path.
func (p *ProjectCache) AddFileCache(fc *FileCache) { p.files[fc.ModulePath] = fc }

// SetCurrentModule records which module the tokenizer is currently
// walking, used to resolve bare (unqualified) function/class lookups
// against that module's own import table first.
func (p *ProjectCache) SetCurrentModule(modulePath string) { p.currentModule = modulePath }

// FileCache returns the cache entry for modulePath, if present.
func (p *ProjectCache) FileCache(modulePath string) (*FileCache, bool) {
	fc, ok := p.files[modulePath]
	return fc, ok
}

// ModuleContainsFunction reports whether modulePath declares a
// module-level function named name.
func (p *ProjectCache) ModuleContainsFunction(modulePath, name string) bool {
	fc, ok := p.files[modulePath]
	if !ok {
		return false
	}
	_, ok = fc.Functions[name]
	return ok
}

// ModuleContainsType reports whether modulePath declares a top-level
// class named name.
func (p *ProjectCache) ModuleContainsType(modulePath, name string) bool {
	fc, ok := p.files[modulePath]
	if !ok {
		return false
	}
	_, ok = fc.Classes[name]
	return ok
}

// FindModuleForFunction searches for a module-level function named name
// among the modules the current file imports (and the current file
// itself). It never scans the rest of the project: a same-named function
// declared in some unrelated, non-imported module must not qualify a
// call here, so zero hits within that restricted scope simply fails.
func (p *ProjectCache) FindModuleForFunction(name string) (string, bool) {
	if fc, ok := p.files[p.currentModule]; ok {
		if _, has := fc.Functions[name]; has {
			return p.currentModule, true
		}
		if imported, ok := fc.Imports.GetModuleForName(name); ok {
			if p.ModuleContainsFunction(imported, name) {
				return imported, true
			}
		}
	}
	return "", false
}

// FindModuleForTypeWithFunction searches for a module declaring a class
// named typeName whose method set contains funcName, restricted the same
// way as FindModuleForFunction: only the current module's own classes and
// its imports are consulted.
func (p *ProjectCache) FindModuleForTypeWithFunction(typeName, funcName string) (string, bool) {
	if fc, ok := p.files[p.currentModule]; ok {
		if cc, ok := fc.Classes[typeName]; ok {
			if _, has := cc.Methods[funcName]; has {
				return p.currentModule, true
			}
		}
		if imported, ok := fc.Imports.GetModuleForName(typeName); ok {
			if ifc, ok := p.files[imported]; ok {
				if cc, ok := ifc.Classes[typeName]; ok {
					if _, has := cc.Methods[funcName]; has {
						return imported, true
					}
				}
			}
		}
	}
	return "", false
}

// GetReturnType resolves the declared return type of a callable, in one
// of three shapes depending on which arguments are non-empty:
//   - className != "": the return type of className.funcName in module
//   - className == "" and module != "": the return type of module.funcName
//   - both empty beyond funcName: funcName as a module-level function in
//     the current module
func (p *ProjectCache) GetReturnType(module, className, funcName string) *typeinfo.TypeInfo {
	m := module
	if m == "" {
		m = p.currentModule
	}
	fc, ok := p.files[m]
	if !ok {
		return nil
	}
	if className != "" {
		cc, ok := fc.Classes[className]
		if !ok {
			return nil
		}
		return cc.Methods[funcName]
	}
	return fc.Functions[funcName]
}

// PopulateTypeInfoWithModule resolves and sets FullyQualified on ti (and
// recursively on every contained type) by looking for the module that
// declares ti.Label as a class among the current module and its imports,
// logging nothing itself — an unresolved label simply leaves
// FullyQualified blank, which the tokenizer treats as "use the bare
// label".
func (p *ProjectCache) PopulateTypeInfoWithModule(ti *typeinfo.TypeInfo) {
	if ti == nil {
		return
	}
	if module, ok := p.findModuleDeclaringType(ti.Label); ok {
		ti.SetFullyQualifiedName(module)
	}
	for _, c := range ti.Contained {
		p.PopulateTypeInfoWithModule(c)
	}
}

// findModuleDeclaringType is restricted to the current module and its
// own imports, same as FindModuleForFunction: no project-wide scan.
func (p *ProjectCache) findModuleDeclaringType(name string) (string, bool) {
	if fc, ok := p.files[p.currentModule]; ok {
		if _, has := fc.Classes[name]; has {
			return p.currentModule, true
		}
		if imported, ok := fc.Imports.GetModuleForName(name); ok {
			if p.ModuleContainsType(imported, name) {
				return imported, true
			}
		}
	}
	return "", false
}

// ModulePaths returns every registered module path in sorted order, used
// by callers that need deterministic iteration (e.g. tests, sweep runs).
func (p *ProjectCache) ModulePaths() []string {
	out := make([]string, 0, len(p.files))
	for m := range p.files {
		out = append(out, m)
	}
	sort.Strings(out)
	return out
}
