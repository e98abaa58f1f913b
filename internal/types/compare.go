package types

// Duplicate returns a deep copy of t. Declarations never share descriptors,
// so a type taken from an alias must be duplicated before it is attached.
func Duplicate(t *Type) *Type {
	if t == nil {
		return nil
	}
	dup := &Type{Kind: t.Kind, Size: t.Size}
	if t.Elem != nil {
		dup.Elem = Duplicate(t.Elem)
	}
	return dup
}

// Equal compares two descriptors structurally. Int and char descriptors are
// equal to any descriptor of the same kind; arrays need equal sizes and
// equal elements. Identity is never consulted.
func Equal(a, b *Type) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	if a.Kind != b.Kind {
		return false
	}
	switch a.Kind {
	case KindInt, KindChar:
		return true
	case KindArray:
		if a.Size != b.Size {
			return false
		}
		return Equal(a.Elem, b.Elem)
	default:
		return false
	}
}
