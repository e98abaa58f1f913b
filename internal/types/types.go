package types

import (
	"errors"
	"fmt"

	"fortio.org/safecast"
)

// Kind enumerates all supported kinds of types.
type Kind uint8

const (
	KindInvalid Kind = iota
	KindInt
	KindChar
	KindArray
)

func (k Kind) String() string {
	switch k {
	case KindInvalid:
		return "invalid"
	case KindInt:
		return "int"
	case KindChar:
		return "char"
	case KindArray:
		return "array"
	default:
		return fmt.Sprintf("Kind(%d)", k)
	}
}

var (
	// ErrInvalidArraySize is returned for array types with a non-positive size.
	ErrInvalidArraySize = errors.New("array size must be positive")
	// ErrNilElement is returned when an array is built without an element type.
	ErrNilElement = errors.New("array element type is missing")
)

// Type is a descriptor for any KPL type. Arrays own their element
// descriptor exclusively; share one only through Duplicate.
type Type struct {
	Kind Kind
	Size uint32 // for arrays
	Elem *Type  // for arrays
}

// Descriptor helpers ---------------------------------------------------------

// MakeInt describes the integer type.
func MakeInt() *Type {
	return &Type{Kind: KindInt}
}

// MakeChar describes the char type.
func MakeChar() *Type {
	return &Type{Kind: KindChar}
}

// MakeArray describes an array of size elements. The array takes ownership
// of elem.
func MakeArray(size int, elem *Type) (*Type, error) {
	if size <= 0 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidArraySize, size)
	}
	if elem == nil {
		return nil, ErrNilElement
	}
	count, err := safecast.Conv[uint32](size)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidArraySize, err)
	}
	return &Type{Kind: KindArray, Size: count, Elem: elem}, nil
}

// MustArray is MakeArray for statically known arguments; it panics on error.
func MustArray(size int, elem *Type) *Type {
	t, err := MakeArray(size, elem)
	if err != nil {
		panic(fmt.Errorf("types.MustArray: %w", err))
	}
	return t
}

// IsBasic reports whether t is int or char.
func (t *Type) IsBasic() bool {
	return t != nil && (t.Kind == KindInt || t.Kind == KindChar)
}

// Depth reports how many array levels wrap the base type.
func (t *Type) Depth() int {
	depth := 0
	for cur := t; cur != nil && cur.Kind == KindArray; cur = cur.Elem {
		depth++
	}
	return depth
}

// Base returns the innermost non-array descriptor.
func (t *Type) Base() *Type {
	cur := t
	for cur != nil && cur.Kind == KindArray {
		cur = cur.Elem
	}
	return cur
}
