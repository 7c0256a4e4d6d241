package typeinfo

import "testing"

func expectLabel(t *testing.T, got *TypeInfo, want string) {
	t.Helper()
	if got == nil {
		t.Fatalf("expected type %q, got nil", want)
	}
	if got.Label != want {
		t.Fatalf("expected label %q, got %q", want, got.Label)
	}
}

func TestGetTypeIdentityAtDepthZero(t *testing.T) {
	ti := New("List")
	ti.SetContainedTypes([]*TypeInfo{New("int")})
	expectLabel(t, ti.GetType(0, 0), "List")
}

func TestGetTypeListUnwrapsOnce(t *testing.T) {
	ti := New("List")
	ti.SetContainedTypes([]*TypeInfo{New("int")})
	expectLabel(t, ti.GetType(1, 0), "int")
}

func TestGetTypeDictSelectsKeyOrValue(t *testing.T) {
	ti := New("Dict")
	ti.SetContainedTypes([]*TypeInfo{New("str"), New("Foo")})
	expectLabel(t, ti.GetType(1, 0), "str")
	expectLabel(t, ti.GetType(1, 1), "Foo")
}

func TestGetTypeTupleSelectsPositionalElement(t *testing.T) {
	ti := New("Tuple")
	ti.SetContainedTypes([]*TypeInfo{New("int"), New("str")})
	expectLabel(t, ti.GetType(1, 1), "str")
}

func TestGetTypeNestedContainer(t *testing.T) {
	inner := New("List")
	inner.SetContainedTypes([]*TypeInfo{New("int")})
	outer := New("List")
	outer.SetContainedTypes([]*TypeInfo{inner})
	expectLabel(t, outer.GetType(2, 0), "int")
}

func TestGetTypeOutOfRangeReturnsNil(t *testing.T) {
	ti := New("int")
	if got := ti.GetType(1, 0); got != nil {
		t.Fatalf("expected nil for a non-container type navigated deeper, got %v", got)
	}
}

func TestStringRendersNestedShape(t *testing.T) {
	ti := New("Dict")
	ti.SetContainedTypes([]*TypeInfo{New("str"), New("int")})
	if got, want := ti.String(), "Dict[str, int]"; got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}
