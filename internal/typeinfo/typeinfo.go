// Package typeinfo implements the recursive type-shape tree used to carry
// annotation/return-type information around the type-aware pipeline: a
// label ("Dict", "List", "MyClass", ...), its contained type parameters and
// an optional fully qualified name once the owning module is known.
//
// Grounded on original_source/src/type_retrieval/type_info.py.
package typeinfo

import "strings"

// TypeInfo is one node of a type-shape tree. Contained holds nested type
// parameters in source order (e.g. for `Dict[str, Foo]`, Contained[0] is
// the key type and Contained[1] is the value type).
type TypeInfo struct {
	Label          string
	Contained      []*TypeInfo
	FullyQualified string
}

// New creates a leaf TypeInfo with no contained types.
func New(label string) *TypeInfo {
	return &TypeInfo{Label: label}
}

func (t *TypeInfo) String() string {
	if t == nil {
		return ""
	}
	if len(t.Contained) == 0 {
		return t.Label
	}
	parts := make([]string, len(t.Contained))
	for i, c := range t.Contained {
		parts[i] = c.String()
	}
	return t.Label + "[" + strings.Join(parts, ", ") + "]"
}

// IsTupleOrDict reports whether this node's label is one of the two
// container kinds that index their contained types positionally rather
// than recursing through Contained[0] alone.
func (t *TypeInfo) IsTupleOrDict() bool {
	return t.Label == "Tuple" || t.IsDict()
}

// IsDict reports whether this node is a `Dict[K, V]` shape.
func (t *TypeInfo) IsDict() bool { return t.Label == "Dict" }

// SetContainedTypes replaces the contained type parameters.
func (t *TypeInfo) SetContainedTypes(contained []*TypeInfo) { t.Contained = contained }

// SetFullyQualifiedName records the dotted module path once resolved.
func (t *TypeInfo) SetFullyQualifiedName(name string) { t.FullyQualified = name }

// GetType navigates `depth` levels into the contained-type tree, then (for
// a Tuple or Dict node reached at that depth) selects the element at
// tupleIndex. depth == 0 always returns the receiver itself, mirroring
// the original get_type(0, *) identity case.
func (t *TypeInfo) GetType(depth, tupleIndex int) *TypeInfo {
	if t == nil {
		return nil
	}
	return t.getContainedType(depth, tupleIndex)
}

func (t *TypeInfo) getContainedType(depth, tupleIndex int) *TypeInfo {
	if depth == 0 {
		return t
	}
	if t.IsTupleOrDict() && depth == 1 {
		return t.elementAt(tupleIndex)
	}
	next := t.elementAt(0)
	if next == nil {
		return nil
	}
	return next.getContainedType(depth-1, tupleIndex)
}

// elementAt returns Contained[index] for a Dict (which always uses index 1
// for its value type unless asked for the key at index 0) and Contained[0]
// for every other shape, matching the Python original's special-casing of
// Dict's key/value pair against every other single-parameter container.
func (t *TypeInfo) elementAt(index int) *TypeInfo {
	if len(t.Contained) == 0 {
		return nil
	}
	if t.IsDict() {
		if index < 0 || index >= len(t.Contained) {
			if len(t.Contained) > 1 {
				return t.Contained[1]
			}
			return t.Contained[0]
		}
		return t.Contained[index]
	}
	if t.Label == "Tuple" {
		if index >= 0 && index < len(t.Contained) {
			return t.Contained[index]
		}
		return nil
	}
	return t.Contained[0]
}
