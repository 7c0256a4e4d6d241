package tokenizer

import (
	"testing"

	"github.com/pygram-go/pygram/internal/lexer"
	"github.com/pygram-go/pygram/internal/parser"
	"github.com/pygram-go/pygram/internal/past"
)

func parseModule(t *testing.T, src string) *past.Module {
	t.Helper()
	p := parser.New(lexer.New(src), "pkg.mod")
	mod := p.ParseModule()
	if len(p.Errors()) != 0 {
		t.Fatalf("unexpected parse errors: %v", p.Errors())
	}
	return mod
}

func lexemes(seq Sequence) []string {
	out := make([]string, len(seq))
	for i, tok := range seq {
		out[i] = tok.Lexeme
	}
	return out
}

func TestTokenizeFunctionBodyYieldsOneSequence(t *testing.T) {
	mod := parseModule(t, "def foo():\n    pass\n")
	seqs := New("pkg.mod", nil).Tokenize(mod)
	if len(seqs) != 1 {
		t.Fatalf("got %d sequences, want 1", len(seqs))
	}
	want := []string{TokDef, TokPass, TokEndDef}
	got := lexemes(seqs[0])
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got %v, want %v", got, want)
		}
	}
}

func TestTokenizeAsyncFunctionEmitsAsyncMarker(t *testing.T) {
	mod := parseModule(t, "async def foo():\n    pass\n")
	seqs := New("pkg.mod", nil).Tokenize(mod)
	got := lexemes(seqs[0])
	if got[0] != TokAsync || got[1] != TokDef {
		t.Fatalf("got %v, want ASYNC then DEF", got)
	}
}

func TestTokenizeClassMethodDoesNotCreateClassSequence(t *testing.T) {
	mod := parseModule(t, "class Foo:\n    def bar(self):\n        pass\n")
	seqs := New("pkg.mod", nil).Tokenize(mod)
	if len(seqs) != 1 {
		t.Fatalf("got %d sequences, want 1 (method only, no class-level sequence)", len(seqs))
	}
}

func TestTokenizeTopLevelStatementsFormResidueSequence(t *testing.T) {
	mod := parseModule(t, "foo()\n")
	seqs := New("pkg.mod", nil).Tokenize(mod)
	if len(seqs) != 1 {
		t.Fatalf("got %d sequences, want 1 residue sequence", len(seqs))
	}
	if got := lexemes(seqs[0]); len(got) != 1 || got[0] != "foo()" {
		t.Fatalf("got %v, want [foo()]", got)
	}
}

func TestTokenizeEmptyModuleYieldsNoSequences(t *testing.T) {
	mod := parseModule(t, "")
	seqs := New("pkg.mod", nil).Tokenize(mod)
	if len(seqs) != 0 {
		t.Fatalf("got %d sequences, want 0", len(seqs))
	}
}

func TestTokenizeIfElseEmitsMarkersInOrder(t *testing.T) {
	mod := parseModule(t, "def f():\n    if x:\n        pass\n    else:\n        pass\n")
	seqs := New("pkg.mod", nil).Tokenize(mod)
	got := lexemes(seqs[0])
	want := []string{TokDef, TokIf, TokPass, TokElse, TokPass, TokEndIf, TokEndDef}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got %v, want %v", got, want)
		}
	}
}

func TestTokenizeCallEmitsCallToken(t *testing.T) {
	mod := parseModule(t, "def f():\n    foo(1, 2)\n")
	seqs := New("pkg.mod", nil).Tokenize(mod)
	got := lexemes(seqs[0])
	want := []string{TokDef, "foo()", TokEndDef}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got %v, want %v", got, want)
		}
	}
}

func TestTokenizeChainedCallEmitsBothTokens(t *testing.T) {
	mod := parseModule(t, "def f():\n    a().b()\n")
	seqs := New("pkg.mod", nil).Tokenize(mod)
	got := lexemes(seqs[0])
	want := []string{TokDef, "a()", "b()", TokEndDef}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got %v, want %v", got, want)
		}
	}
}

func TestTokenizeExceptHandlerEmitsExceptionTypeCallToken(t *testing.T) {
	mod := parseModule(t, "def f():\n    try:\n        pass\n    except ValueError:\n        pass\n")
	seqs := New("pkg.mod", nil).Tokenize(mod)
	got := lexemes(seqs[0])
	want := []string{TokDef, TokTry, TokPass, TokExcept, "ValueError()", TokPass, TokEndExcept, TokEndDef}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got %v, want %v", got, want)
		}
	}
}
