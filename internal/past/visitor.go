package past

// Visitor receives one call per node kind. Components that only care about
// a subset of nodes (a module walker interested solely in Call and def
// boundaries, say) still implement every method; embedding a no-op base
// keeps those implementations short.
type Visitor interface {
	VisitModule(n *Module)
	VisitFunctionDef(n *FunctionDef)
	VisitClassDef(n *ClassDef)
	VisitIf(n *If)
	VisitFor(n *For)
	VisitWhile(n *While)
	VisitTry(n *Try)
	VisitWith(n *With)
	VisitMatch(n *Match)
	VisitAssign(n *Assign)
	VisitAugAssign(n *AugAssign)
	VisitAnnAssign(n *AnnAssign)
	VisitExprStmt(n *ExprStmt)
	VisitReturn(n *Return)
	VisitRaise(n *Raise)
	VisitAssert(n *Assert)
	VisitPass(n *Pass)
	VisitBreak(n *Break)
	VisitContinue(n *Continue)
	VisitGlobal(n *Global)
	VisitNonlocal(n *Nonlocal)
	VisitDelete(n *Delete)
	VisitImport(n *Import)
	VisitImportFrom(n *ImportFrom)

	VisitName(n *Name)
	VisitAttribute(n *Attribute)
	VisitSubscript(n *Subscript)
	VisitCall(n *Call)
	VisitTuple(n *Tuple)
	VisitList(n *ListExpr)
	VisitDict(n *DictExpr)
	VisitCompare(n *Compare)
	VisitBoolOp(n *BoolOp)
	VisitBinOp(n *BinOp)
	VisitUnaryOp(n *UnaryOp)
	VisitAwait(n *Await)
	VisitYield(n *Yield)
	VisitYieldFrom(n *YieldFrom)
	VisitConstant(n *Constant)
	VisitStarred(n *Starred)
}

// BaseVisitor implements every Visitor method as a no-op so concrete
// visitors can embed it and override only the node kinds they act on.
type BaseVisitor struct{}

func (BaseVisitor) VisitModule(n *Module)           {}
func (BaseVisitor) VisitFunctionDef(n *FunctionDef)  {}
func (BaseVisitor) VisitClassDef(n *ClassDef)        {}
func (BaseVisitor) VisitIf(n *If)                    {}
func (BaseVisitor) VisitFor(n *For)                  {}
func (BaseVisitor) VisitWhile(n *While)               {}
func (BaseVisitor) VisitTry(n *Try)                  {}
func (BaseVisitor) VisitWith(n *With)                {}
func (BaseVisitor) VisitMatch(n *Match)              {}
func (BaseVisitor) VisitAssign(n *Assign)            {}
func (BaseVisitor) VisitAugAssign(n *AugAssign)      {}
func (BaseVisitor) VisitAnnAssign(n *AnnAssign)      {}
func (BaseVisitor) VisitExprStmt(n *ExprStmt)        {}
func (BaseVisitor) VisitReturn(n *Return)            {}
func (BaseVisitor) VisitRaise(n *Raise)              {}
func (BaseVisitor) VisitAssert(n *Assert)            {}
func (BaseVisitor) VisitPass(n *Pass)                {}
func (BaseVisitor) VisitBreak(n *Break)              {}
func (BaseVisitor) VisitContinue(n *Continue)        {}
func (BaseVisitor) VisitGlobal(n *Global)            {}
func (BaseVisitor) VisitNonlocal(n *Nonlocal)        {}
func (BaseVisitor) VisitDelete(n *Delete)            {}
func (BaseVisitor) VisitImport(n *Import)            {}
func (BaseVisitor) VisitImportFrom(n *ImportFrom)    {}
func (BaseVisitor) VisitName(n *Name)                {}
func (BaseVisitor) VisitAttribute(n *Attribute)      {}
func (BaseVisitor) VisitSubscript(n *Subscript)      {}
func (BaseVisitor) VisitCall(n *Call)                {}
func (BaseVisitor) VisitTuple(n *Tuple)              {}
func (BaseVisitor) VisitList(n *ListExpr)            {}
func (BaseVisitor) VisitDict(n *DictExpr)            {}
func (BaseVisitor) VisitCompare(n *Compare)          {}
func (BaseVisitor) VisitBoolOp(n *BoolOp)            {}
func (BaseVisitor) VisitBinOp(n *BinOp)              {}
func (BaseVisitor) VisitUnaryOp(n *UnaryOp)          {}
func (BaseVisitor) VisitAwait(n *Await)              {}
func (BaseVisitor) VisitYield(n *Yield)              {}
func (BaseVisitor) VisitYieldFrom(n *YieldFrom)      {}
func (BaseVisitor) VisitConstant(n *Constant)        {}
func (BaseVisitor) VisitStarred(n *Starred)          {}
