package typeinfo

import "github.com/pygram-go/pygram/internal/past"

// FromAnnotation builds a TypeInfo tree from a raw annotation expression:
// a bare Name ("int"), a dotted Attribute ("module.Class"), or a
// Subscript ("List[int]", "Dict[str, Foo]", "Tuple[int, str]").
// Grounded on _create_from_annotation_node in the original type_info.py.
func FromAnnotation(expr past.Expr) *TypeInfo {
	if expr == nil {
		return nil
	}
	switch n := expr.(type) {
	case *past.Name:
		return New(n.Id)
	case *past.Attribute:
		return New(nameFromAttribute(n))
	case *past.Subscript:
		return fromSubscript(n)
	case *past.Constant:
		if n.Kind == "None" {
			return New("None")
		}
		return New(n.Value)
	default:
		return New("Any")
	}
}

func nameFromAttribute(n *past.Attribute) string {
	prefix := ""
	switch v := n.Value.(type) {
	case *past.Name:
		prefix = v.Id
	case *past.Attribute:
		prefix = nameFromAttribute(v)
	}
	if prefix == "" {
		return n.Attr
	}
	return prefix + "." + n.Attr
}

func fromSubscript(n *past.Subscript) *TypeInfo {
	label := labelOfSubscriptBase(n.Value)
	ti := New(label)
	ti.SetContainedTypes(tupleTypes(label, n.Slice))
	return ti
}

func labelOfSubscriptBase(e past.Expr) string {
	switch v := e.(type) {
	case *past.Name:
		return v.Id
	case *past.Attribute:
		return nameFromAttribute(v)
	default:
		return "Any"
	}
}

// tupleTypes splits a Subscript's slice expression into its positional
// type-parameter list: a bare single type, or a Tuple of types for
// multi-parameter generics (Dict[K, V], Tuple[A, B, ...]).
func tupleTypes(label string, slice past.Expr) []*TypeInfo {
	if slice == nil {
		return nil
	}
	if tup, ok := slice.(*past.Tuple); ok {
		out := make([]*TypeInfo, 0, len(tup.Elts))
		for _, e := range tup.Elts {
			out = append(out, FromAnnotation(e))
		}
		return out
	}
	return []*TypeInfo{FromAnnotation(slice)}
}
