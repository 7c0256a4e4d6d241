// Package vartypecache tracks the declared type of every variable binding
// the type-aware tokenizer has seen so far, scoped the way Python's own
// name resolution is: module globals, the enclosing class (for `self.x`
// bindings), and a stack of nested function scopes.
//
// Grounded on
// original_source/src/type_retrieval/variable_type_cache.py.
package vartypecache

import (
	"math/rand"
	"strings"

	"github.com/pygram-go/pygram/internal/typeinfo"
)

// Scope identifies which binding level a lookup/assignment targets.
type Scope int

const (
	ScopeModule Scope = iota + 1
	ScopeClass
	ScopeFunction
)

const randomSuffixLen = 5

// Cache is the scope-stacked variable type table for one file being
// tokenized.
type Cache struct {
	moduleVariables map[string]*typeinfo.TypeInfo

	classStack      []string
	classVariables  map[string]map[string]*typeinfo.TypeInfo

	functionStack     []string
	functionVariables map[string]map[string]*typeinfo.TypeInfo

	// scopeStack records the kind of each pushed scope (innermost last),
	// used by GetVariableType to decide search order.
	scopeStack []Scope
}

// New creates an empty Cache.
func New() *Cache {
	return &Cache{
		moduleVariables:   make(map[string]*typeinfo.TypeInfo),
		classVariables:    make(map[string]map[string]*typeinfo.TypeInfo),
		functionVariables: make(map[string]map[string]*typeinfo.TypeInfo),
	}
}

// EnterClassScope pushes a new class scope named name and auto-binds
// `self` to a TypeInfo labeled name, matching the original's automatic
// self-binding on class entry.
func (c *Cache) EnterClassScope(name string) {
	c.classStack = append(c.classStack, name)
	c.classVariables[name] = map[string]*typeinfo.TypeInfo{"self": typeinfo.New(name)}
	c.scopeStack = append(c.scopeStack, ScopeClass)
}

// LeaveClassScope pops the innermost class scope and discards its
// variable bindings.
func (c *Cache) LeaveClassScope() {
	if len(c.classStack) == 0 {
		return
	}
	name := c.classStack[len(c.classStack)-1]
	delete(c.classVariables, name)
	c.classStack = c.classStack[:len(c.classStack)-1]
	c.popScope(ScopeClass)
}

// EnterFunctionScope pushes a new function scope named name. If name
// collides with an already-active function scope (two sibling nested
// functions sharing a name at different points in the tree), a random
// suffix disambiguates it, and the disambiguated name is returned so the
// caller can pass it back to LeaveFunctionScope.
func (c *Cache) EnterFunctionScope(name string) string {
	actual := name
	for c.functionVariables[actual] != nil {
		actual = name + "_" + randomString(randomSuffixLen)
	}
	c.functionStack = append(c.functionStack, actual)
	c.functionVariables[actual] = make(map[string]*typeinfo.TypeInfo)
	c.scopeStack = append(c.scopeStack, ScopeFunction)
	return actual
}

// LeaveFunctionScope pops the innermost function scope, discarding its
// variable bindings. actualName must be the value EnterFunctionScope
// returned for the matching push.
func (c *Cache) LeaveFunctionScope(actualName string) {
	delete(c.functionVariables, actualName)
	if len(c.functionStack) > 0 {
		c.functionStack = c.functionStack[:len(c.functionStack)-1]
	}
	c.popScope(ScopeFunction)
}

func (c *Cache) popScope(want Scope) {
	for i := len(c.scopeStack) - 1; i >= 0; i-- {
		if c.scopeStack[i] == want {
			c.scopeStack = append(c.scopeStack[:i], c.scopeStack[i+1:]...)
			return
		}
	}
}

func (c *Cache) currentScope() Scope {
	if len(c.scopeStack) == 0 {
		return ScopeModule
	}
	return c.scopeStack[len(c.scopeStack)-1]
}

func (c *Cache) previousScope() Scope {
	if len(c.scopeStack) < 2 {
		return ScopeModule
	}
	return c.scopeStack[len(c.scopeStack)-2]
}

// AddVariable binds name to ti in the appropriate scope: a Function scope
// immediately inside a Class named "__init__" redirects the binding onto
// the class itself (so `self.x = ...` inside a constructor is visible to
// every other method), matching the original's __init__-special-casing.
func (c *Cache) AddVariable(name string, ti *typeinfo.TypeInfo) {
	switch c.currentScope() {
	case ScopeModule:
		c.moduleVariables[name] = ti
	case ScopeClass:
		c.setClassVariable(name, ti)
	case ScopeFunction:
		if c.previousScope() == ScopeClass && c.currentFunctionIsInit() {
			c.setClassVariable(name, ti)
			return
		}
		c.setFunctionVariable(name, ti)
	}
}

func (c *Cache) currentFunctionIsInit() bool {
	if len(c.functionStack) == 0 {
		return false
	}
	name := c.functionStack[len(c.functionStack)-1]
	return strings.HasPrefix(name, "__init__")
}

func (c *Cache) setClassVariable(name string, ti *typeinfo.TypeInfo) {
	if len(c.classStack) == 0 {
		c.moduleVariables[name] = ti
		return
	}
	cls := c.classStack[len(c.classStack)-1]
	c.classVariables[cls][name] = ti
}

func (c *Cache) setFunctionVariable(name string, ti *typeinfo.TypeInfo) {
	if len(c.functionStack) == 0 {
		c.moduleVariables[name] = ti
		return
	}
	fn := c.functionStack[len(c.functionStack)-1]
	c.functionVariables[fn][name] = ti
}

// GetVariableType resolves name's declared type, searching the innermost
// function scope first, then the innermost class's scope (when the
// current scope is that class itself, or a function immediately nested
// in it), then module globals — then navigates depth
// levels into the result via TypeInfo.GetType, selecting tupleIndex for
// Tuple/Dict containers.
func (c *Cache) GetVariableType(name string, depth, tupleIndex int) *typeinfo.TypeInfo {
	var ti *typeinfo.TypeInfo
	if c.currentScope() == ScopeFunction {
		ti = c.getFunctionVariable(name)
	}
	if ti == nil && (c.currentScope() == ScopeClass || c.previousScope() == ScopeClass) {
		ti = c.getClassVariable(name)
	}
	if ti == nil {
		ti = c.moduleVariables[name]
	}
	if ti == nil {
		return nil
	}
	return ti.GetType(depth, tupleIndex)
}

func (c *Cache) getFunctionVariable(name string) *typeinfo.TypeInfo {
	for i := len(c.functionStack) - 1; i >= 0; i-- {
		if ti, ok := c.functionVariables[c.functionStack[i]][name]; ok {
			return ti
		}
	}
	return nil
}

func (c *Cache) getClassVariable(name string) *typeinfo.TypeInfo {
	if len(c.classStack) == 0 {
		return nil
	}
	cls := c.classStack[len(c.classStack)-1]
	return c.classVariables[cls][name]
}

func randomString(n int) string {
	const alphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	out := make([]byte, n)
	for i := range out {
		out[i] = alphabet[rand.Intn(len(alphabet))]
	}
	return string(out)
}
