// Package past defines the abstract syntax tree this tool parses source
// files into: a small, Python-shaped node set (module/class/def bodies,
// control-flow blocks, calls and the handful of expression forms the
// tokenizer cares about). Every node exposes Accept(Visitor) in the
// teacher's node/visitor idiom so later passes (the tokenizer, the type
// preprocessor) never type-switch on concrete node types themselves.
package past

import "github.com/pygram-go/pygram/internal/lexer"

// Node is the root interface implemented by every AST node.
type Node interface {
	TokenLiteral() string
	Accept(v Visitor)
	Pos() int // source line
}

// Stmt is a Node that stands in statement position.
type Stmt interface {
	Node
	stmtNode()
}

// Expr is a Node that stands in expression position.
type Expr interface {
	Node
	exprNode()
}

type base struct {
	Token lexer.Token
}

func (b base) TokenLiteral() string { return b.Token.Lexeme }
func (b base) Pos() int             { return b.Token.Line }

// Module is the root node produced for one source file.
type Module struct {
	base
	Path string // dotted module path
	Body []Stmt
}

func (n *Module) Accept(v Visitor) { v.VisitModule(n) }

// FunctionDef represents `def name(args): body` or, when Async is set,
// `async def name(args): body`.
type FunctionDef struct {
	base
	Name    string
	Args    []Arg
	Returns *Annotation // nil if unannotated
	Body    []Stmt
	Async   bool
}

func (n *FunctionDef) Accept(v Visitor) { v.VisitFunctionDef(n) }
func (n *FunctionDef) stmtNode()        {}

// Arg is one formal parameter, with its optional type annotation.
type Arg struct {
	Name       string
	Annotation *Annotation
}

// Annotation is a raw type-annotation expression kept for the type
// preprocessor to interpret (Name, Attribute or Subscript shaped).
type Annotation struct {
	Expr Expr
}

// ClassDef represents `class Name(bases): body`.
type ClassDef struct {
	base
	Name  string
	Bases []Expr
	Body  []Stmt
}

func (n *ClassDef) Accept(v Visitor) { v.VisitClassDef(n) }
func (n *ClassDef) stmtNode()        {}

// If represents `if test: body else: orelse` (orelse holds an elif chain
// flattened into nested If.Orelse or a plain else body).
type If struct {
	base
	Test   Expr
	Body   []Stmt
	Orelse []Stmt
}

func (n *If) Accept(v Visitor) { v.VisitIf(n) }
func (n *If) stmtNode()        {}

// For represents `for target in iter: body else: orelse`.
type For struct {
	base
	Target Expr
	Iter   Expr
	Body   []Stmt
	Orelse []Stmt
}

func (n *For) Accept(v Visitor) { v.VisitFor(n) }
func (n *For) stmtNode()        {}

// While represents `while test: body else: orelse`.
type While struct {
	base
	Test   Expr
	Body   []Stmt
	Orelse []Stmt
}

func (n *While) Accept(v Visitor) { v.VisitWhile(n) }
func (n *While) stmtNode()        {}

// ExceptHandler is one `except Type as name: body` clause of a Try.
type ExceptHandler struct {
	base
	Type Expr // nil for a bare except
	Name string
	Body []Stmt
}

// Try represents `try: body except* handlers else: orelse finally: finalBody`.
type Try struct {
	base
	Body      []Stmt
	Handlers  []*ExceptHandler
	Orelse    []Stmt
	FinalBody []Stmt
}

func (n *Try) Accept(v Visitor) { v.VisitTry(n) }
func (n *Try) stmtNode()        {}

// WithItem is one `expr as target` clause of a With.
type WithItem struct {
	ContextExpr Expr
	OptionalVar Expr
}

// With represents `with items: body`, optionally Async for `async with`.
type With struct {
	base
	Items []WithItem
	Body  []Stmt
	Async bool
}

func (n *With) Accept(v Visitor) { v.VisitWith(n) }
func (n *With) stmtNode()        {}

// MatchCase is one `case pattern: body` clause of a Match.
type MatchCase struct {
	base
	Pattern Expr
	Guard   Expr
	Body    []Stmt
}

// Match represents `match subject: case ...`.
type Match struct {
	base
	Subject Expr
	Cases   []*MatchCase
}

func (n *Match) Accept(v Visitor) { v.VisitMatch(n) }
func (n *Match) stmtNode()        {}

// Assign represents `targets = value` (possibly chained: a = b = value).
type Assign struct {
	base
	Targets []Expr
	Value   Expr
}

func (n *Assign) Accept(v Visitor) { v.VisitAssign(n) }
func (n *Assign) stmtNode()        {}

// AugAssign represents `target op= value`.
type AugAssign struct {
	base
	Target Expr
	Op     string
	Value  Expr
}

func (n *AugAssign) Accept(v Visitor) { v.VisitAugAssign(n) }
func (n *AugAssign) stmtNode()        {}

// AnnAssign represents `target: annotation = value` (value may be nil).
type AnnAssign struct {
	base
	Target     Expr
	Annotation *Annotation
	Value      Expr
}

func (n *AnnAssign) Accept(v Visitor) { v.VisitAnnAssign(n) }
func (n *AnnAssign) stmtNode()        {}

// ExprStmt wraps an expression used for its side effects, e.g. a bare call.
type ExprStmt struct {
	base
	Value Expr
}

func (n *ExprStmt) Accept(v Visitor) { v.VisitExprStmt(n) }
func (n *ExprStmt) stmtNode()        {}

// Return represents `return value` (value may be nil).
type Return struct {
	base
	Value Expr
}

func (n *Return) Accept(v Visitor) { v.VisitReturn(n) }
func (n *Return) stmtNode()        {}

// Raise represents `raise exc from cause` (both may be nil).
type Raise struct {
	base
	Exc   Expr
	Cause Expr
}

func (n *Raise) Accept(v Visitor) { v.VisitRaise(n) }
func (n *Raise) stmtNode()        {}

// Assert represents `assert test, msg` (msg may be nil).
type Assert struct {
	base
	Test Expr
	Msg  Expr
}

func (n *Assert) Accept(v Visitor) { v.VisitAssert(n) }
func (n *Assert) stmtNode()        {}

// ImportAlias is one `name` or `name as asname` clause of an import.
type ImportAlias struct {
	Name   string
	AsName string
}

// Import represents `import a.b.c, d as e`.
type Import struct {
	base
	Names []ImportAlias
}

func (n *Import) Accept(v Visitor) { v.VisitImport(n) }
func (n *Import) stmtNode()        {}

// ImportFrom represents `from [level*.]module import a, b as c`. Level
// counts leading dots for a relative import (0 for an absolute import).
type ImportFrom struct {
	base
	Module string
	Level  int
	Names  []ImportAlias
}

func (n *ImportFrom) Accept(v Visitor) { v.VisitImportFrom(n) }
func (n *ImportFrom) stmtNode()        {}

// Pass/Break/Continue/Global/Nonlocal/Delete are the single-token-family
// statements; Global/Nonlocal/Delete carry their target names.
type Pass struct{ base }
type Break struct{ base }
type Continue struct{ base }
type Global struct {
	base
	Names []string
}
type Nonlocal struct {
	base
	Names []string
}
type Delete struct {
	base
	Targets []Expr
}

func (n *Pass) Accept(v Visitor)     { v.VisitPass(n) }
func (n *Pass) stmtNode()            {}
func (n *Break) Accept(v Visitor)    { v.VisitBreak(n) }
func (n *Break) stmtNode()           {}
func (n *Continue) Accept(v Visitor) { v.VisitContinue(n) }
func (n *Continue) stmtNode()        {}
func (n *Global) Accept(v Visitor)   { v.VisitGlobal(n) }
func (n *Global) stmtNode()          {}
func (n *Nonlocal) Accept(v Visitor) { v.VisitNonlocal(n) }
func (n *Nonlocal) stmtNode()        {}
func (n *Delete) Accept(v Visitor)   { v.VisitDelete(n) }
func (n *Delete) stmtNode()          {}

// --- Expressions ---

// Name is a bare identifier reference.
type Name struct {
	base
	Id string
}

func (n *Name) Accept(v Visitor) { v.VisitName(n) }
func (n *Name) exprNode()        {}

// Attribute is `value.attr`.
type Attribute struct {
	base
	Value Expr
	Attr  string
}

func (n *Attribute) Accept(v Visitor) { v.VisitAttribute(n) }
func (n *Attribute) exprNode()        {}

// Subscript is `value[slice]`.
type Subscript struct {
	base
	Value Expr
	Slice Expr
}

func (n *Subscript) Accept(v Visitor) { v.VisitSubscript(n) }
func (n *Subscript) exprNode()        {}

// Keyword is one `name=value` call argument.
type Keyword struct {
	Name  string
	Value Expr
}

// Call is `func(args, kwargs)`.
type Call struct {
	base
	Func   Expr
	Args   []Expr
	Kwargs []Keyword
}

func (n *Call) Accept(v Visitor) { v.VisitCall(n) }
func (n *Call) exprNode()        {}

// Tuple is `(elts...)` or a bare comma-separated target/value list.
type Tuple struct {
	base
	Elts []Expr
}

func (n *Tuple) Accept(v Visitor) { v.VisitTuple(n) }
func (n *Tuple) exprNode()        {}

// ListExpr is `[elts...]`.
type ListExpr struct {
	base
	Elts []Expr
}

func (n *ListExpr) Accept(v Visitor) { v.VisitList(n) }
func (n *ListExpr) exprNode()        {}

// DictExpr is `{keys: values}`.
type DictExpr struct {
	base
	Keys   []Expr
	Values []Expr
}

func (n *DictExpr) Accept(v Visitor) { v.VisitDict(n) }
func (n *DictExpr) exprNode()        {}

// Compare is a chained comparison `left ops[0] comparators[0] ops[1] ...`.
type Compare struct {
	base
	Left        Expr
	Ops         []string
	Comparators []Expr
}

func (n *Compare) Accept(v Visitor) { v.VisitCompare(n) }
func (n *Compare) exprNode()        {}

// BoolOp is `values[0] op values[1] op ...` for `and`/`or`.
type BoolOp struct {
	base
	Op     string
	Values []Expr
}

func (n *BoolOp) Accept(v Visitor) { v.VisitBoolOp(n) }
func (n *BoolOp) exprNode()        {}

// BinOp is `left op right` for arithmetic/bitwise binary operators.
type BinOp struct {
	base
	Left  Expr
	Op    string
	Right Expr
}

func (n *BinOp) Accept(v Visitor) { v.VisitBinOp(n) }
func (n *BinOp) exprNode()        {}

// UnaryOp is `op operand` for `not`/`-`/`+`/`~`.
type UnaryOp struct {
	base
	Op      string
	Operand Expr
}

func (n *UnaryOp) Accept(v Visitor) { v.VisitUnaryOp(n) }
func (n *UnaryOp) exprNode()        {}

// Await is `await value`.
type Await struct {
	base
	Value Expr
}

func (n *Await) Accept(v Visitor) { v.VisitAwait(n) }
func (n *Await) exprNode()        {}

// Yield is `yield value` (value may be nil).
type Yield struct {
	base
	Value Expr
}

func (n *Yield) Accept(v Visitor) { v.VisitYield(n) }
func (n *Yield) exprNode()        {}

// YieldFrom is `yield from value`.
type YieldFrom struct {
	base
	Value Expr
}

func (n *YieldFrom) Accept(v Visitor) { v.VisitYieldFrom(n) }
func (n *YieldFrom) exprNode()        {}

// Constant is a literal: number, string, None/True/False.
type Constant struct {
	base
	Value string
	Kind  string // "int", "float", "string", "None", "True", "False"
}

func (n *Constant) Accept(v Visitor) { v.VisitConstant(n) }
func (n *Constant) exprNode()        {}

// Starred is `*value` in an unpacking position.
type Starred struct {
	base
	Value Expr
}

func (n *Starred) Accept(v Visitor) { v.VisitStarred(n) }
func (n *Starred) exprNode()        {}
