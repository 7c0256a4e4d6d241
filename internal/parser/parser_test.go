package parser

import (
	"testing"

	"github.com/pygram-go/pygram/internal/lexer"
	"github.com/pygram-go/pygram/internal/past"
)

func parse(t *testing.T, src string) *past.Module {
	t.Helper()
	p := New(lexer.New(src), "pkg.mod")
	mod := p.ParseModule()
	if len(p.Errors()) != 0 {
		t.Fatalf("unexpected parse errors: %v", p.Errors())
	}
	return mod
}

func TestParseModuleFunctionDefWithAnnotations(t *testing.T) {
	mod := parse(t, "def add(a: int, b: int) -> int:\n    return a + b\n")
	if len(mod.Body) != 1 {
		t.Fatalf("got %d statements, want 1", len(mod.Body))
	}
	fn, ok := mod.Body[0].(*past.FunctionDef)
	if !ok {
		t.Fatalf("got %T, want *past.FunctionDef", mod.Body[0])
	}
	if fn.Name != "add" {
		t.Fatalf("got name %q, want add", fn.Name)
	}
	if len(fn.Args) != 2 || fn.Args[0].Name != "a" || fn.Args[0].Annotation == nil {
		t.Fatalf("got args %+v, want 2 annotated args", fn.Args)
	}
	if fn.Returns == nil {
		t.Fatal("expected a return annotation")
	}
	if len(fn.Body) != 1 {
		t.Fatalf("got %d body statements, want 1", len(fn.Body))
	}
	if _, ok := fn.Body[0].(*past.Return); !ok {
		t.Fatalf("got %T, want *past.Return", fn.Body[0])
	}
}

func TestParseModuleClassDefWithBasesAndMethod(t *testing.T) {
	mod := parse(t, "class Foo(Base):\n    def bar(self):\n        pass\n")
	cls, ok := mod.Body[0].(*past.ClassDef)
	if !ok {
		t.Fatalf("got %T, want *past.ClassDef", mod.Body[0])
	}
	if cls.Name != "Foo" || len(cls.Bases) != 1 {
		t.Fatalf("got name=%q bases=%d, want Foo/1", cls.Name, len(cls.Bases))
	}
	if len(cls.Body) != 1 {
		t.Fatalf("got %d class body statements, want 1", len(cls.Body))
	}
	if _, ok := cls.Body[0].(*past.FunctionDef); !ok {
		t.Fatalf("got %T, want *past.FunctionDef", cls.Body[0])
	}
}

func TestParseModuleIfElifElse(t *testing.T) {
	mod := parse(t, "if x:\n    pass\nelif y:\n    pass\nelse:\n    pass\n")
	ifStmt, ok := mod.Body[0].(*past.If)
	if !ok {
		t.Fatalf("got %T, want *past.If", mod.Body[0])
	}
	if len(ifStmt.Orelse) != 1 {
		t.Fatalf("got %d orelse, want 1 (nested elif)", len(ifStmt.Orelse))
	}
	elif, ok := ifStmt.Orelse[0].(*past.If)
	if !ok {
		t.Fatalf("got %T, want nested *past.If for elif", ifStmt.Orelse[0])
	}
	if len(elif.Orelse) != 1 {
		t.Fatalf("got %d else body, want 1", len(elif.Orelse))
	}
}

func TestParseModuleCallExpression(t *testing.T) {
	mod := parse(t, "foo(1, bar=2)\n")
	exprStmt, ok := mod.Body[0].(*past.ExprStmt)
	if !ok {
		t.Fatalf("got %T, want *past.ExprStmt", mod.Body[0])
	}
	call, ok := exprStmt.Value.(*past.Call)
	if !ok {
		t.Fatalf("got %T, want *past.Call", exprStmt.Value)
	}
	if name, ok := call.Func.(*past.Name); !ok || name.Id != "foo" {
		t.Fatalf("got func %+v, want Name foo", call.Func)
	}
	if len(call.Args) != 1 {
		t.Fatalf("got %d positional args, want 1", len(call.Args))
	}
	if len(call.Kwargs) != 1 || call.Kwargs[0].Name != "bar" {
		t.Fatalf("got kwargs %+v, want bar=2", call.Kwargs)
	}
}

func TestParseModuleImportAndFromImport(t *testing.T) {
	mod := parse(t, "import os\nfrom pkg.sub import a, b as c\n")
	imp, ok := mod.Body[0].(*past.Import)
	if !ok || len(imp.Names) != 1 || imp.Names[0].Name != "os" {
		t.Fatalf("got %+v, want Import[os]", mod.Body[0])
	}
	fromImp, ok := mod.Body[1].(*past.ImportFrom)
	if !ok {
		t.Fatalf("got %T, want *past.ImportFrom", mod.Body[1])
	}
	if fromImp.Module != "pkg.sub" || len(fromImp.Names) != 2 {
		t.Fatalf("got module=%q names=%v", fromImp.Module, fromImp.Names)
	}
	if fromImp.Names[1].Name != "b" || fromImp.Names[1].AsName != "c" {
		t.Fatalf("got second alias %+v, want b as c", fromImp.Names[1])
	}
}

func TestParseModuleAssignAugAssignAnnAssign(t *testing.T) {
	mod := parse(t, "x = 1\nx += 2\ny: int = 3\n")
	if _, ok := mod.Body[0].(*past.Assign); !ok {
		t.Fatalf("got %T, want *past.Assign", mod.Body[0])
	}
	aug, ok := mod.Body[1].(*past.AugAssign)
	if !ok || aug.Op != "+" {
		t.Fatalf("got %+v, want AugAssign op +", mod.Body[1])
	}
	ann, ok := mod.Body[2].(*past.AnnAssign)
	if !ok || ann.Annotation == nil || ann.Value == nil {
		t.Fatalf("got %+v, want annotated assignment with value", mod.Body[2])
	}
}

func TestParseModuleForWhileTry(t *testing.T) {
	mod := parse(t, "for i in items:\n    pass\nwhile True:\n    break\ntry:\n    pass\nexcept ValueError as e:\n    pass\nfinally:\n    pass\n")
	if _, ok := mod.Body[0].(*past.For); !ok {
		t.Fatalf("got %T, want *past.For", mod.Body[0])
	}
	if _, ok := mod.Body[1].(*past.While); !ok {
		t.Fatalf("got %T, want *past.While", mod.Body[1])
	}
	tr, ok := mod.Body[2].(*past.Try)
	if !ok {
		t.Fatalf("got %T, want *past.Try", mod.Body[2])
	}
	if len(tr.Handlers) != 1 || tr.Handlers[0].Name != "e" {
		t.Fatalf("got handlers %+v, want one handler binding e", tr.Handlers)
	}
	if len(tr.FinalBody) != 1 {
		t.Fatalf("got %d finally statements, want 1", len(tr.FinalBody))
	}
}

func TestParseModuleRecordsSyntaxErrorWithoutPanicking(t *testing.T) {
	p := New(lexer.New("def (:\n"), "pkg.mod")
	mod := p.ParseModule()
	if mod == nil {
		t.Fatal("expected a module even when parse errors occur")
	}
	if len(p.Errors()) == 0 {
		t.Fatal("expected at least one diagnostic for malformed input")
	}
}
