package typecache

import (
	"github.com/pygram-go/pygram/internal/importcache"
	"github.com/pygram-go/pygram/internal/past"
	"github.com/pygram-go/pygram/internal/typeinfo"
)

// Preprocessor walks a project's modules ahead of tokenization and builds
// the ProjectCache the type-aware tokenizer queries while it processes
// each file a second time.
//
// Grounded on original_source/src/type_retrieval/project_preprocessor.py.
type Preprocessor struct {
	project *ProjectCache
}

// NewPreprocessor creates a Preprocessor writing into project.
func NewPreprocessor(project *ProjectCache) *Preprocessor {
	return &Preprocessor{project: project}
}

// ProcessFile extracts mod's imports, module-level function return types,
// and class/method return types into a FileCache and registers it under
// modulePath. available lists every in-project module path; it is handed
// to the file's import cache, which keeps absolute imports verbatim.
func (pp *Preprocessor) ProcessFile(modulePath string, mod *past.Module, available map[string]bool) {
	imports := importcache.New(modulePath, available)
	fc := newFileCache(modulePath, imports)

	for _, stmt := range mod.Body {
		pp.processTopLevel(stmt, fc, imports)
	}
	pp.project.AddFileCache(fc)
}

func (pp *Preprocessor) processTopLevel(stmt past.Stmt, fc *FileCache, imports *importcache.Cache) {
	switch n := stmt.(type) {
	case *past.Import:
		for _, alias := range n.Names {
			imports.AddImport(alias.Name, alias.Name, alias.AsName)
		}
	case *past.ImportFrom:
		module := imports.ResolveRelativePath(n.Level, n.Module)
		for _, alias := range n.Names {
			imports.AddImport(module, alias.Name, alias.AsName)
		}
	case *past.FunctionDef:
		fc.Functions[n.Name] = returnTypeOf(n)
	case *past.ClassDef:
		fc.Classes[n.Name] = pp.processClass(n)
	}
}

// processClass builds a ClassCache for cd, recursing into any nested
// ClassDef the same way the original's _process_class does.
func (pp *Preprocessor) processClass(cd *past.ClassDef) *ClassCache {
	cc := newClassCache(cd.Name)
	for _, stmt := range cd.Body {
		switch n := stmt.(type) {
		case *past.FunctionDef:
			cc.Methods[n.Name] = returnTypeOf(n)
		case *past.ClassDef:
			cc.Nested[n.Name] = pp.processClass(n)
		}
	}
	return cc
}

func returnTypeOf(fn *past.FunctionDef) *typeinfo.TypeInfo {
	if fn.Returns == nil {
		return nil
	}
	return typeinfo.FromAnnotation(fn.Returns.Expr)
}
