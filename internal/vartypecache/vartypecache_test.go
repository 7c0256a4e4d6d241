package vartypecache

import (
	"testing"

	"github.com/pygram-go/pygram/internal/typeinfo"
)

func TestAddVariableModuleScope(t *testing.T) {
	c := New()
	c.AddVariable("x", typeinfo.New("int"))

	got := c.GetVariableType("x", 0, 0)
	if got == nil || got.Label != "int" {
		t.Fatalf("got %v, want int", got)
	}
}

func TestAddVariableFunctionScopeShadowsModule(t *testing.T) {
	c := New()
	c.AddVariable("x", typeinfo.New("int"))
	actual := c.EnterFunctionScope("foo")
	c.AddVariable("x", typeinfo.New("str"))

	got := c.GetVariableType("x", 0, 0)
	if got == nil || got.Label != "str" {
		t.Fatalf("got %v, want str (function scope should shadow module)", got)
	}

	c.LeaveFunctionScope(actual)
	got = c.GetVariableType("x", 0, 0)
	if got == nil || got.Label != "int" {
		t.Fatalf("after leaving scope: got %v, want int again", got)
	}
}

func TestEnterClassScopeBindsSelf(t *testing.T) {
	c := New()
	c.EnterClassScope("Widget")

	got := c.GetVariableType("self", 0, 0)
	if got == nil || got.Label != "Widget" {
		t.Fatalf("got %v, want Widget", got)
	}
	c.LeaveClassScope()
}

func TestInitMethodVariablesAttachToClassScope(t *testing.T) {
	c := New()
	c.EnterClassScope("Widget")
	actual := c.EnterFunctionScope("__init__")
	c.AddVariable("name", typeinfo.New("str"))
	c.LeaveFunctionScope(actual)

	// Leaving __init__ returns to class scope; "name" should still resolve
	// from any other method nested directly under the same class.
	other := c.EnterFunctionScope("bar")
	got := c.GetVariableType("name", 0, 0)
	if got == nil || got.Label != "str" {
		t.Fatalf("got %v, want str bound on the class from __init__", got)
	}
	c.LeaveFunctionScope(other)
	c.LeaveClassScope()
}

func TestEnterFunctionScopeDisambiguatesNameCollision(t *testing.T) {
	c := New()
	first := c.EnterFunctionScope("dup")
	second := c.EnterFunctionScope("dup")
	if first == second {
		t.Fatalf("expected distinct scope names for colliding nested functions, got %q twice", first)
	}
	c.LeaveFunctionScope(second)
	c.LeaveFunctionScope(first)
}

func TestGetVariableTypeUnknownNameReturnsNil(t *testing.T) {
	c := New()
	if got := c.GetVariableType("missing", 0, 0); got != nil {
		t.Fatalf("got %v, want nil", got)
	}
}
