package typecache

import (
	"testing"

	"github.com/pygram-go/pygram/internal/lexer"
	"github.com/pygram-go/pygram/internal/parser"
	"github.com/pygram-go/pygram/internal/past"
)

func parseModule(t *testing.T, modulePath, src string) *past.Module {
	t.Helper()
	p := parser.New(lexer.New(src), modulePath)
	mod := p.ParseModule()
	if len(p.Errors()) != 0 {
		t.Fatalf("unexpected parse errors: %v", p.Errors())
	}
	return mod
}

func TestProcessFileRecordsModuleLevelFunctionReturnType(t *testing.T) {
	mod := parseModule(t, "pkg.mod", "def make() -> Widget:\n    pass\n")
	project := NewProjectCache()
	pp := NewPreprocessor(project)
	pp.ProcessFile("pkg.mod", mod, map[string]bool{"pkg.mod": true})

	if !project.ModuleContainsFunction("pkg.mod", "make") {
		t.Fatal("expected pkg.mod to contain function make")
	}
	ret := project.GetReturnType("pkg.mod", "", "make")
	if ret == nil || ret.Label != "Widget" {
		t.Fatalf("got %v, want Widget", ret)
	}
}

func TestProcessFileRecordsClassMethodReturnType(t *testing.T) {
	mod := parseModule(t, "pkg.mod", "class Foo:\n    def bar(self) -> int:\n        pass\n")
	project := NewProjectCache()
	pp := NewPreprocessor(project)
	pp.ProcessFile("pkg.mod", mod, map[string]bool{"pkg.mod": true})

	if !project.ModuleContainsType("pkg.mod", "Foo") {
		t.Fatal("expected pkg.mod to contain class Foo")
	}
	ret := project.GetReturnType("pkg.mod", "Foo", "bar")
	if ret == nil || ret.Label != "int" {
		t.Fatalf("got %v, want int", ret)
	}
}

func TestFindModuleForFunctionPrefersCurrentModuleImports(t *testing.T) {
	utilMod := parseModule(t, "pkg.util", "def helper() -> str:\n    pass\n")
	mainMod := parseModule(t, "pkg.main", "from pkg.util import helper\nhelper()\n")

	project := NewProjectCache()
	pp := NewPreprocessor(project)
	available := map[string]bool{"pkg.util": true, "pkg.main": true}
	pp.ProcessFile("pkg.util", utilMod, available)
	pp.ProcessFile("pkg.main", mainMod, available)

	project.SetCurrentModule("pkg.main")
	mod, ok := project.FindModuleForFunction("helper")
	if !ok || mod != "pkg.util" {
		t.Fatalf("got %q/%v, want pkg.util/true", mod, ok)
	}
}

func TestFindModuleForFunctionIgnoresNonImportedModules(t *testing.T) {
	modA := parseModule(t, "pkg.a", "def dup():\n    pass\n")
	modB := parseModule(t, "pkg.b", "def dup():\n    pass\n")

	project := NewProjectCache()
	pp := NewPreprocessor(project)
	available := map[string]bool{"pkg.a": true, "pkg.b": true}
	pp.ProcessFile("pkg.a", modA, available)
	pp.ProcessFile("pkg.b", modB, available)

	// pkg.c neither declares dup nor imports either module that does, so
	// the lookup must not fall back to scanning the rest of the project
	// for a uniquely-named match — it simply fails.
	project.SetCurrentModule("pkg.c")
	if _, ok := project.FindModuleForFunction("dup"); ok {
		t.Fatal("expected lookup restricted to current module + imports to fail")
	}
}

func TestPopulateTypeInfoWithModuleSetsFullyQualifiedName(t *testing.T) {
	mod := parseModule(t, "pkg.widgets", "class Widget:\n    pass\n")
	project := NewProjectCache()
	pp := NewPreprocessor(project)
	available := map[string]bool{"pkg.widgets": true}
	pp.ProcessFile("pkg.widgets", mod, available)

	project.SetCurrentModule("pkg.widgets")
	ti := project.GetReturnType("pkg.widgets", "", "nonexistent")
	if ti != nil {
		t.Fatalf("expected nil return type for unknown function, got %v", ti)
	}

	fnMod := parseModule(t, "pkg.other", "from pkg.widgets import Widget\ndef make() -> Widget:\n    pass\n")
	pp.ProcessFile("pkg.other", fnMod, available)
	project.SetCurrentModule("pkg.other")
	ret := project.GetReturnType("pkg.other", "", "make")
	project.PopulateTypeInfoWithModule(ret)
	if ret.FullyQualified != "pkg.widgets" {
		t.Fatalf("got %q, want pkg.widgets", ret.FullyQualified)
	}
}

func TestModulePathsReturnsSortedRegisteredModules(t *testing.T) {
	project := NewProjectCache()
	pp := NewPreprocessor(project)
	available := map[string]bool{"pkg.b": true, "pkg.a": true}
	pp.ProcessFile("pkg.b", parseModule(t, "pkg.b", "pass\n"), available)
	pp.ProcessFile("pkg.a", parseModule(t, "pkg.a", "pass\n"), available)

	got := project.ModulePaths()
	want := []string{"pkg.a", "pkg.b"}
	if len(got) != 2 || got[0] != want[0] || got[1] != want[1] {
		t.Fatalf("got %v, want %v", got, want)
	}
}
