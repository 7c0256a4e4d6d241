package tokenizer

import (
	"strconv"

	"github.com/pygram-go/pygram/internal/diagnostics"
	"github.com/pygram-go/pygram/internal/past"
	"github.com/pygram-go/pygram/internal/typecache"
	"github.com/pygram-go/pygram/internal/typeinfo"
	"github.com/pygram-go/pygram/internal/vartypecache"
)

// TypeTokenizer is the type-aware walker: it embeds an untyped Tokenizer
// for every structural/bracketing token and overrides call-token
// construction, assignment and for-loop handling to consult a
// project-wide return-type cache and a per-file variable-type cache,
// qualifying call tokens to "[module.][Type.]name()" wherever resolution
// succeeds and degrading to the untyped token otherwise.
//
// Grounded on original_source/src/tokenization/type_tokenizer.py. One
// deliberate departure: that source resolves a chained call's receiver
// type by splitting the previously emitted token string back apart
// (_retrieve_module_and_function_from_token); here the AST is still in
// hand, so callReturnType resolves it directly from the inner Call node
// instead of round-tripping through text.
type TypeTokenizer struct {
	*Tokenizer

	vars    *vartypecache.Cache
	project *typecache.ProjectCache
	stats   Stats
}

// NewTyped creates a TypeTokenizer for one file, consulting project for
// return-type lookups (SetCurrentModule must already have been called
// with modulePath) and accumulating its own scope-local variable cache.
func NewTyped(modulePath string, project *typecache.ProjectCache, diags *diagnostics.Bag) *TypeTokenizer {
	base := New(modulePath, diags)
	tt := &TypeTokenizer{Tokenizer: base, vars: vartypecache.New(), project: project}
	base.self = tt
	return tt
}

// Stats returns the type-inference success counters accumulated so far.
func (tt *TypeTokenizer) Stats() Stats { return tt.stats }

func (tt *TypeTokenizer) VisitFunctionDef(n *past.FunctionDef) {
	actual := tt.vars.EnterFunctionScope(n.Name)
	defer tt.vars.LeaveFunctionScope(actual)

	tt.processArguments(n.Args)

	body := Sequence{}
	tt.pushSink(&body)
	if n.Async {
		tt.emit(TokAsync, n.Pos())
	}
	tt.emit(TokDef, n.Pos())
	tt.walk(n.Body)
	tt.emit(TokEndDef, n.Pos())
	tt.popSink()
	tt.sequences = append(tt.sequences, body)
}

// processArguments binds every annotated parameter's declared type into
// the freshly entered function scope. Unannotated parameters are simply
// left out of the cache.
func (tt *TypeTokenizer) processArguments(args []past.Arg) {
	for _, arg := range args {
		if arg.Annotation == nil {
			continue
		}
		ti := typeinfo.FromAnnotation(arg.Annotation.Expr)
		tt.project.PopulateTypeInfoWithModule(ti)
		tt.vars.AddVariable(arg.Name, ti)
	}
}

func (tt *TypeTokenizer) VisitClassDef(n *past.ClassDef) {
	tt.vars.EnterClassScope(n.Name)
	defer tt.vars.LeaveClassScope()
	tt.walk(n.Body)
}

func (tt *TypeTokenizer) VisitFor(n *past.For) {
	tt.emit(TokFor, n.Pos())
	tt.walkExpr(n.Iter)
	tt.cacheForTargets(n.Target, n.Iter)
	tt.walk(n.Body)
	tt.walk(n.Orelse)
	tt.emit(TokEndFor, n.Pos())
}

// cacheForTargets binds every name bound by a for-loop's target to the
// element type of its iterable, when the iterable is something the
// variable cache already knows about (a bare name or a subscript
// expression). A Call iterable contributes no binding here — its tokens
// were already emitted by walkExpr above, and its return type isn't
// tracked as an iterable shape.
func (tt *TypeTokenizer) cacheForTargets(target, iter past.Expr) {
	targetIndex := 0
	for _, name := range forTargetNames(target) {
		var iterName string
		depth := 1
		index := 0
		switch it := iter.(type) {
		case *past.Name:
			iterName = it.Id
			index = targetIndex
			targetIndex++
		case *past.Subscript:
			iterName, depth = tt.originOfSubscript(it, 1)
			index = tt.indexOfSubscript(it)
		default:
			continue
		}
		varType := tt.vars.GetVariableType(iterName, depth, index)
		tt.vars.AddVariable(name, varType)
	}
}

func forTargetNames(target past.Expr) []string {
	switch t := target.(type) {
	case *past.Name:
		return []string{t.Id}
	case *past.Attribute:
		return []string{callTokenText(t)}
	case *past.Tuple:
		var names []string
		for _, e := range t.Elts {
			names = append(names, forTargetNames(e)...)
		}
		return names
	}
	return nil
}

// VisitAssign only ever binds a type for annotated assignments (see
// VisitAnnAssign); a bare `x = ...` still has its value walked for call
// tokens, it just leaves x out of the variable cache — exactly the
// "unannotated assignments still permit downstream analysis" boundary
// behavior.
func (tt *TypeTokenizer) VisitAssign(n *past.Assign) {
	tt.walkExpr(n.Value)
	tt.stats.Assigns++
}

func (tt *TypeTokenizer) VisitAugAssign(n *past.AugAssign) {
	tt.walkExpr(n.Value)
}

func (tt *TypeTokenizer) VisitAnnAssign(n *past.AnnAssign) {
	tt.walkExpr(n.Value)
	tt.stats.AnnAssigns++
	tt.stats.Assigns++
	if n.Annotation == nil {
		return
	}
	ti := typeinfo.FromAnnotation(n.Annotation.Expr)
	tt.project.PopulateTypeInfoWithModule(ti)
	if name, ok := n.Target.(*past.Name); ok {
		tt.vars.AddVariable(name.Id, ti)
	} else {
		tt.vars.AddVariable(callTokenText(n.Target), ti)
	}
}

// VisitCall dispatches on the callee's shape the same way the untyped
// tokenizer does, but resolves as much type information as the caches
// allow before building the token text.
func (tt *TypeTokenizer) VisitCall(n *past.Call) {
	for _, a := range n.Args {
		tt.walkExpr(a)
	}

	switch fn := n.Func.(type) {
	case *past.Name:
		tt.processStandaloneFunction(fn.Id, n)
	case *past.Attribute:
		switch fn.Value.(type) {
		case *past.Subscript, *past.Name, *past.Attribute:
			tt.processCallOnObject(fn, n)
		case *past.Constant:
			tt.stats.CallTokens++
			tt.emit(fn.Attr+"()", n.Pos())
		case *past.Call:
			tt.processSubsequentCall(fn, n)
		default:
			tt.stats.CallTokens++
			tt.emit(fn.Attr+"()", n.Pos())
		}
	case *past.Call:
		tt.walkExpr(fn)
		tt.stats.CallTokens++
		tt.emit(TokUnknown, n.Pos())
	case *past.Subscript:
		var name string
		switch base := fn.Value.(type) {
		case *past.Name:
			name = base.Id
		case *past.Attribute:
			name = base.Attr
		}
		tt.processStandaloneFunction(name, n)
	default:
		tt.stats.CallTokens++
		tt.emit(TokUnknown, n.Pos())
	}
}

func (tt *TypeTokenizer) processStandaloneFunction(name string, n *past.Call) {
	tt.stats.CallTokens++
	if module, ok := tt.project.FindModuleForFunction(name); ok {
		tt.stats.TypeInferredCallTokens++
		tt.emit(module+"."+name+"()", n.Pos())
		return
	}
	tt.emit(name+"()", n.Pos())
}

// processCallOnObject resolves `obj.name()` where obj is a subscript,
// bare name, or dotted attribute chain: first by looking up obj's
// declared type in the variable cache, and failing that by checking
// whether the project uniquely declares a class literally named obj
// owning a method called name (the "called directly on the class"
// fallback).
func (tt *TypeTokenizer) processCallOnObject(attr *past.Attribute, n *past.Call) {
	var objectName string
	depth, index := 0, 0
	switch base := attr.Value.(type) {
	case *past.Subscript:
		objectName, depth = tt.originOfSubscript(base, 0)
		index = tt.indexOfSubscript(base)
	case *past.Name:
		objectName = base.Id
	case *past.Attribute:
		objectName = callTokenText(base)
	}

	tt.stats.CallTokens++
	varType := tt.vars.GetVariableType(objectName, depth, index)
	if varType == nil {
		if module, ok := tt.project.FindModuleForTypeWithFunction(objectName, attr.Attr); ok {
			tt.stats.TypeInferredCallTokens++
			tt.emit(module+"."+objectName+"."+attr.Attr+"()", n.Pos())
			return
		}
		tt.emit(attr.Attr+"()", n.Pos())
		return
	}
	tt.stats.TypeInferredCallTokens++
	tt.emit(varType.Label+"."+attr.Attr+"()", n.Pos())
}

// processSubsequentCall resolves `f().g()`: the inner call is walked
// first (emitting its own token), then its declared return type
// qualifies this level's token.
func (tt *TypeTokenizer) processSubsequentCall(attr *past.Attribute, n *past.Call) {
	inner, _ := attr.Value.(*past.Call)
	tt.walkExpr(inner)

	tt.stats.CallTokens++
	returnType := tt.callReturnType(inner)
	if returnType == nil {
		tt.emit(attr.Attr+"()", n.Pos())
		return
	}
	tt.stats.TypeInferredCallTokens++
	tt.emit(returnType.Label+"."+attr.Attr+"()", n.Pos())
}

func (tt *TypeTokenizer) callReturnType(call *past.Call) *typeinfo.TypeInfo {
	if call == nil {
		return nil
	}
	switch fn := call.Func.(type) {
	case *past.Name:
		if module, ok := tt.project.FindModuleForFunction(fn.Id); ok {
			return tt.project.GetReturnType(module, "", fn.Id)
		}
	case *past.Attribute:
		var objectName string
		switch base := fn.Value.(type) {
		case *past.Name:
			objectName = base.Id
		case *past.Attribute:
			objectName = callTokenText(base)
		default:
			return nil
		}
		if varType := tt.vars.GetVariableType(objectName, 0, 0); varType != nil {
			if module, ok := tt.project.FindModuleForTypeWithFunction(varType.Label, fn.Attr); ok {
				return tt.project.GetReturnType(module, varType.Label, fn.Attr)
			}
			return nil
		}
		if module, ok := tt.project.FindModuleForTypeWithFunction(objectName, fn.Attr); ok {
			return tt.project.GetReturnType(module, objectName, fn.Attr)
		}
	}
	return nil
}

// originOfSubscript walks a chain of subscripts down to its Name or
// Attribute base, returning that base's text and how many subscript
// levels were unwrapped to reach it (the depth GetVariableType needs).
// depth is the caller's starting depth: 0 for a call-on-object base
// (`matrix[i].method()` wants depth 1), 1 for a for-loop iterable
// (`for x in matrix[i]` wants one further level of unwrapping than the
// call-on-object case, since the loop consumes an additional element
// layer).
func (tt *TypeTokenizer) originOfSubscript(n *past.Subscript, depth int) (string, int) {
	depth++
	switch v := n.Value.(type) {
	case *past.Subscript:
		return tt.originOfSubscript(v, depth)
	case *past.Name:
		return v.Id, depth
	case *past.Attribute:
		return callTokenText(v), depth
	}
	return "", depth
}

// indexOfSubscript extracts a literal integer index from a subscript's
// slice expression, defaulting to 1 (the Dict value-selecting index) for
// anything that isn't a bare integer constant.
func (tt *TypeTokenizer) indexOfSubscript(n *past.Subscript) int {
	if c, ok := n.Slice.(*past.Constant); ok && c.Kind == "int" {
		if i, err := strconv.Atoi(c.Value); err == nil {
			return i
		}
	}
	return 1
}
