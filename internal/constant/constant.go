// Package constant models KPL literal values bound by constant declarations.
package constant

import (
	"fmt"
	"strconv"

	"kplc/internal/types"
)

// Kind tags the active payload of a Value.
type Kind uint8

const (
	KindInvalid Kind = iota
	KindInt
	KindChar
)

func (k Kind) String() string {
	switch k {
	case KindInt:
		return "int"
	case KindChar:
		return "char"
	default:
		return "invalid"
	}
}

// Value is a tagged literal. Only the field selected by Kind is meaningful.
type Value struct {
	Kind Kind
	Int  int
	Char byte
}

// MakeInt builds an integer literal.
func MakeInt(i int) *Value {
	return &Value{Kind: KindInt, Int: i}
}

// MakeChar builds a character literal.
func MakeChar(c byte) *Value {
	return &Value{Kind: KindChar, Char: c}
}

// Duplicate copies v keeping its kind and payload.
func Duplicate(v *Value) *Value {
	if v == nil {
		return nil
	}
	dup := *v
	return &dup
}

// Equal compares kind and active payload.
func Equal(a, b *Value) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	if a.Kind != b.Kind {
		return false
	}
	switch a.Kind {
	case KindInt:
		return a.Int == b.Int
	case KindChar:
		return a.Char == b.Char
	default:
		return true
	}
}

// Type returns a fresh descriptor matching the literal kind.
func (v *Value) Type() *types.Type {
	if v == nil {
		return nil
	}
	switch v.Kind {
	case KindInt:
		return types.MakeInt()
	case KindChar:
		return types.MakeChar()
	default:
		return nil
	}
}

func (v *Value) String() string {
	if v == nil {
		return "?"
	}
	switch v.Kind {
	case KindInt:
		return strconv.Itoa(v.Int)
	case KindChar:
		return fmt.Sprintf("'%c'", v.Char)
	default:
		return "?"
	}
}
