package tokenizer

import (
	"github.com/pygram-go/pygram/internal/diagnostics"
	"github.com/pygram-go/pygram/internal/past"
)

// Tokenizer is the untyped AST walker: it emits structural markers and
// call tokens built purely from lexical shape (no return-type
// resolution). TypeTokenizer embeds one and overrides the handful of
// methods that need type information.
//
// self lets embedding types (TypeTokenizer) receive the recursive Accept
// dispatch instead of this base type, the same "virtual call" trick the
// teacher's own walker-via-interface pattern relies on implicitly through
// Go's single dynamic dispatch on an interface value.
type Tokenizer struct {
	self past.Visitor

	modulePath string
	sequences  []Sequence
	sinkStack  []*Sequence
	diags      *diagnostics.Bag
}

// New creates an untyped Tokenizer for one file's AST, accumulating
// diagnostics into diags (which may be nil to discard them).
func New(modulePath string, diags *diagnostics.Bag) *Tokenizer {
	t := &Tokenizer{modulePath: modulePath, diags: diags}
	t.self = t
	return t
}

// Tokenize walks mod and returns every sequence extracted from it: one
// per function/method body plus the module's top-level residue (if
// non-empty). Class bodies never get their own sequence; their non-def
// statements fold into the enclosing residue.
func (t *Tokenizer) Tokenize(mod *past.Module) []Sequence {
	residue := Sequence{}
	t.sinkStack = []*Sequence{&residue}
	for _, stmt := range mod.Body {
		stmt.Accept(t.self)
	}
	if len(residue) > 0 {
		t.sequences = append(t.sequences, residue)
	}
	return t.sequences
}

func (t *Tokenizer) sink() *Sequence { return t.sinkStack[len(t.sinkStack)-1] }

func (t *Tokenizer) emit(lexeme string, line int) {
	s := t.sink()
	*s = append(*s, Token{Lexeme: lexeme, Line: line})
}

func (t *Tokenizer) pushSink(s *Sequence) { t.sinkStack = append(t.sinkStack, s) }
func (t *Tokenizer) popSink()             { t.sinkStack = t.sinkStack[:len(t.sinkStack)-1] }

func (t *Tokenizer) walk(stmts []past.Stmt) {
	for _, s := range stmts {
		s.Accept(t.self)
	}
}

func (t *Tokenizer) walkExpr(e past.Expr) {
	if e == nil {
		return
	}
	e.Accept(t.self)
}

// --- statements ---

func (t *Tokenizer) VisitModule(n *past.Module) {} // entry is Tokenize, not Accept

func (t *Tokenizer) VisitFunctionDef(n *past.FunctionDef) {
	body := Sequence{}
	t.pushSink(&body)
	if n.Async {
		t.emit(TokAsync, n.Pos())
	}
	t.emit(TokDef, n.Pos())
	t.walk(n.Body)
	t.emit(TokEndDef, n.Pos())
	t.popSink()
	t.sequences = append(t.sequences, body)
}

func (t *Tokenizer) VisitClassDef(n *past.ClassDef) {
	t.walk(n.Body)
}

func (t *Tokenizer) VisitIf(n *past.If) {
	t.emit(TokIf, n.Pos())
	t.walkExpr(n.Test)
	t.walk(n.Body)
	if len(n.Orelse) > 0 {
		t.emit(TokElse, n.Pos())
		t.walk(n.Orelse)
	}
	t.emit(TokEndIf, n.Pos())
}

func (t *Tokenizer) VisitFor(n *past.For) {
	t.emit(TokFor, n.Pos())
	t.walkExpr(n.Iter)
	t.walk(n.Body)
	t.walk(n.Orelse)
	t.emit(TokEndFor, n.Pos())
}

func (t *Tokenizer) VisitWhile(n *past.While) {
	t.emit(TokWhile, n.Pos())
	t.walkExpr(n.Test)
	t.walk(n.Body)
	t.walk(n.Orelse)
	t.emit(TokEndWhile, n.Pos())
}

func (t *Tokenizer) VisitTry(n *past.Try) {
	t.emit(TokTry, n.Pos())
	t.walk(n.Body)
	for _, h := range n.Handlers {
		t.emit(TokExcept, h.Pos())
		t.emitExceptionType(h.Type, h.Pos())
		t.walk(h.Body)
		t.emit(TokEndExcept, h.Pos())
	}
	t.walk(n.Orelse)
	if len(n.FinalBody) > 0 {
		t.emit(TokFinally, n.Pos())
		t.walk(n.FinalBody)
		t.emit(TokEndFinally, n.Pos())
	}
}

// emitExceptionType emits the caught exception's name as a call-style
// token ("ValueError()"), matching how an exception type is instantiated
// at the raise site. Only a bare name or a dotted attribute is
// recognized; anything else (or a bare `except:`) contributes nothing.
func (t *Tokenizer) emitExceptionType(typ past.Expr, line int) {
	switch v := typ.(type) {
	case *past.Name:
		t.emit(v.Id+"()", line)
	case *past.Attribute:
		t.emit(v.Attr+"()", line)
	}
}

func (t *Tokenizer) VisitWith(n *past.With) {
	t.emit(TokWith, n.Pos())
	for _, item := range n.Items {
		t.walkExpr(item.ContextExpr)
	}
	t.walk(n.Body)
	t.emit(TokEndWith, n.Pos())
}

func (t *Tokenizer) VisitMatch(n *past.Match) {
	t.emit(TokMatch, n.Pos())
	t.walkExpr(n.Subject)
	for _, c := range n.Cases {
		t.emit(TokCase, c.Pos())
		t.walk(c.Body)
		t.emit(TokEndCase, c.Pos())
	}
	t.emit(TokEndMatch, n.Pos())
}

func (t *Tokenizer) VisitAssign(n *past.Assign) {
	t.walkExpr(n.Value)
}

func (t *Tokenizer) VisitAugAssign(n *past.AugAssign) {
	t.walkExpr(n.Value)
}

func (t *Tokenizer) VisitAnnAssign(n *past.AnnAssign) {
	t.walkExpr(n.Value)
}

func (t *Tokenizer) VisitExprStmt(n *past.ExprStmt) {
	t.walkExpr(n.Value)
}

func (t *Tokenizer) VisitReturn(n *past.Return) {
	t.emit(TokReturn, n.Pos())
	t.walkExpr(n.Value)
}

func (t *Tokenizer) VisitRaise(n *past.Raise) {
	t.emit(TokRaise, n.Pos())
	t.walkExpr(n.Exc)
	t.walkExpr(n.Cause)
}

func (t *Tokenizer) VisitAssert(n *past.Assert) {
	t.emit(TokAssert, n.Pos())
	t.walkExpr(n.Test)
	t.walkExpr(n.Msg)
}

func (t *Tokenizer) VisitPass(n *past.Pass)         { t.emit(TokPass, n.Pos()) }
func (t *Tokenizer) VisitBreak(n *past.Break)       { t.emit(TokBreak, n.Pos()) }
func (t *Tokenizer) VisitContinue(n *past.Continue) { t.emit(TokContinue, n.Pos()) }
func (t *Tokenizer) VisitGlobal(n *past.Global)     { t.emit(TokGlobal, n.Pos()) }
func (t *Tokenizer) VisitNonlocal(n *past.Nonlocal) { t.emit(TokNonlocal, n.Pos()) }

func (t *Tokenizer) VisitDelete(n *past.Delete) {
	t.emit(TokDel, n.Pos())
	for _, target := range n.Targets {
		t.walkExpr(target)
	}
}

func (t *Tokenizer) VisitImport(n *past.Import)         {}
func (t *Tokenizer) VisitImportFrom(n *past.ImportFrom) {}

// --- expressions ---

func (t *Tokenizer) VisitName(n *past.Name)         {}
func (t *Tokenizer) VisitConstant(n *past.Constant) {}

func (t *Tokenizer) VisitAttribute(n *past.Attribute) {
	t.walkExpr(n.Value)
}

func (t *Tokenizer) VisitSubscript(n *past.Subscript) {
	t.walkExpr(n.Value)
	t.walkExpr(n.Slice)
}

// VisitCall walks args (never keyword args — the original tokenizer never
// did either, since keyword values rarely carry call-shaped structure
// worth tracking), then builds exactly one token for this call. A call
// chained onto another call (`f().g()`) first emits the inner call's own
// token via recursion, then this level's.
func (t *Tokenizer) VisitCall(n *past.Call) {
	for _, a := range n.Args {
		t.walkExpr(a)
	}

	token := TokUnknown
	switch fn := n.Func.(type) {
	case *past.Name:
		token = t.constructCallToken(fn.Id)
	case *past.Attribute:
		token = t.constructCallToken(fn.Attr)
		if inner, ok := fn.Value.(*past.Call); ok {
			t.walkExpr(inner)
		}
	case *past.Subscript:
		switch base := fn.Value.(type) {
		case *past.Name:
			token = t.constructCallToken(base.Id)
		case *past.Attribute:
			token = t.constructCallToken(base.Attr)
		}
	case *past.Call:
		t.walkExpr(fn)
	}
	t.emit(token, n.Pos())
}

// constructCallToken builds the untyped call token text for a resolved
// callee name.
func (t *Tokenizer) constructCallToken(name string) string {
	return name + "()"
}

func callTokenText(e past.Expr) string {
	switch v := e.(type) {
	case *past.Name:
		return v.Id
	case *past.Attribute:
		return callTokenText(v.Value) + "." + v.Attr
	default:
		return TokUnknown
	}
}

func (t *Tokenizer) VisitTuple(n *past.Tuple) {
	for _, e := range n.Elts {
		t.walkExpr(e)
	}
}

func (t *Tokenizer) VisitList(n *past.ListExpr) {
	for _, e := range n.Elts {
		t.walkExpr(e)
	}
}

func (t *Tokenizer) VisitDict(n *past.DictExpr) {
	for _, k := range n.Keys {
		t.walkExpr(k)
	}
	for _, v := range n.Values {
		t.walkExpr(v)
	}
}

func (t *Tokenizer) VisitCompare(n *past.Compare) {
	t.walkExpr(n.Left)
	for _, c := range n.Comparators {
		t.walkExpr(c)
	}
}

func (t *Tokenizer) VisitBoolOp(n *past.BoolOp) {
	for _, v := range n.Values {
		t.walkExpr(v)
	}
}

func (t *Tokenizer) VisitBinOp(n *past.BinOp) {
	t.walkExpr(n.Left)
	t.walkExpr(n.Right)
}

func (t *Tokenizer) VisitUnaryOp(n *past.UnaryOp) {
	t.walkExpr(n.Operand)
}

func (t *Tokenizer) VisitAwait(n *past.Await) {
	t.emit(TokAwait, n.Pos())
	t.walkExpr(n.Value)
}

func (t *Tokenizer) VisitYield(n *past.Yield) {
	t.emit(TokYield, n.Pos())
	t.walkExpr(n.Value)
}

func (t *Tokenizer) VisitYieldFrom(n *past.YieldFrom) {
	t.emit(TokYieldFrom, n.Pos())
	t.walkExpr(n.Value)
}

func (t *Tokenizer) VisitStarred(n *past.Starred) {
	t.walkExpr(n.Value)
}
