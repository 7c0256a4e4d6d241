package dupcount

import (
	"reflect"
	"testing"

	"github.com/pygram-go/pygram/internal/past"
)

func TestCountTalliesTopLevelFunctions(t *testing.T) {
	mod := &past.Module{Body: []past.Stmt{
		&past.FunctionDef{Name: "foo"},
		&past.FunctionDef{Name: "foo"},
		&past.FunctionDef{Name: "bar"},
	}}
	counts := map[string]int{}
	Count(mod, counts)

	if counts["foo"] != 2 {
		t.Fatalf("foo count: got %d, want 2", counts["foo"])
	}
	if counts["bar"] != 1 {
		t.Fatalf("bar count: got %d, want 1", counts["bar"])
	}
}

func TestCountDescendsIntoClassBodies(t *testing.T) {
	mod := &past.Module{Body: []past.Stmt{
		&past.ClassDef{Name: "A", Body: []past.Stmt{
			&past.FunctionDef{Name: "method"},
		}},
		&past.ClassDef{Name: "B", Body: []past.Stmt{
			&past.FunctionDef{Name: "method"},
		}},
	}}
	counts := map[string]int{}
	Count(mod, counts)

	if counts["method"] != 2 {
		t.Fatalf("method count: got %d, want 2", counts["method"])
	}
}

func TestCountDoesNotDescendIntoNestedFunctionBodies(t *testing.T) {
	mod := &past.Module{Body: []past.Stmt{
		&past.FunctionDef{Name: "outer", Body: []past.Stmt{
			&past.FunctionDef{Name: "inner"},
		}},
	}}
	counts := map[string]int{}
	Count(mod, counts)

	if _, ok := counts["inner"]; ok {
		t.Fatal("nested function bodies should not be descended into")
	}
	if counts["outer"] != 1 {
		t.Fatalf("outer count: got %d, want 1", counts["outer"])
	}
}

func TestDuplicatesFiltersAndRendersCallTokens(t *testing.T) {
	counts := map[string]int{"foo": 2, "bar": 1, "baz": 3}
	got := Duplicates(counts)
	want := []string{"baz()", "foo()"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func TestDuplicatesEmptyWhenNoneRepeat(t *testing.T) {
	counts := map[string]int{"foo": 1, "bar": 1}
	if got := Duplicates(counts); len(got) != 0 {
		t.Fatalf("got %v, want empty", got)
	}
}
