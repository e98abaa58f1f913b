// Package sema runs the checks a KPL compiler performs against the symbol
// table: type expressions, assignments, calls and conditions. Names are
// resolved from the table's current scope.
package sema

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"kplc/internal/constant"
	"kplc/internal/symbols"
	"kplc/internal/types"
)

// Checker wraps a table positioned at the block being checked.
type Checker struct {
	Table *symbols.Table
}

func New(t *symbols.Table) *Checker {
	return &Checker{Table: t}
}

// TypeOf returns the type a value-denoting object evaluates to. Constants
// yield a fresh descriptor.
func (c *Checker) TypeOf(id symbols.ObjectID) (*types.Type, error) {
	obj := c.Table.Object(id)
	if obj == nil {
		return nil, symbols.ErrInvalidObject
	}
	var ty *types.Type
	switch a := obj.Attrs.(type) {
	case *symbols.VariableAttrs:
		ty = a.Type
	case *symbols.ParameterAttrs:
		ty = a.Type
	case *symbols.ConstantAttrs:
		ty = a.Value.Type()
	case *symbols.FunctionAttrs:
		ty = a.Return
	default:
		return nil, fmt.Errorf("%w: %s is a %s", ErrNotAValue, obj.Name, obj.Kind)
	}
	if ty == nil {
		return nil, fmt.Errorf("%w: %s has no type", ErrNotAValue, obj.Name)
	}
	return ty, nil
}

// ResolveConstant finds a constant by name and returns a copy of its value.
func (c *Checker) ResolveConstant(name string) (*constant.Value, error) {
	id, err := c.Table.LookupKind(name, symbols.MaskConstant)
	if err != nil {
		if errors.Is(err, symbols.ErrUnexpectedKind) {
			return nil, fmt.Errorf("%w: %s", ErrNotAConstant, name)
		}
		return nil, err
	}
	v := c.Table.Object(id).Constant().Value
	if v == nil {
		return nil, fmt.Errorf("%w: %s has no value", ErrNotAConstant, name)
	}
	return constant.Duplicate(v), nil
}

// ResolveType parses integer, char, array(. N .) of T or a type name. Named
// types are duplicated so the result is owned by the caller. N may be a
// literal or an integer constant.
func (c *Checker) ResolveType(expr string) (*types.Type, error) {
	toks, err := lex(expr)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrBadTypeExpr, expr)
	}
	p := &parser{toks: toks}
	ty, err := c.parseType(p)
	if err != nil {
		return nil, err
	}
	if p.peek().kind != tokEOF {
		return nil, fmt.Errorf("%w: trailing %q in %q", ErrBadTypeExpr, p.peek().text, expr)
	}
	return ty, nil
}

func (c *Checker) parseType(p *parser) (*types.Type, error) {
	tok := p.next()
	if tok.kind != tokIdent {
		return nil, fmt.Errorf("%w: expected a type, got %q", ErrBadTypeExpr, tok.text)
	}
	switch strings.ToLower(tok.text) {
	case "integer":
		return types.MakeInt(), nil
	case "char":
		return types.MakeChar(), nil
	case "array":
		if p.next().kind != tokLIndex {
			return nil, fmt.Errorf("%w: expected (. after array", ErrBadTypeExpr)
		}
		size, err := c.arraySize(p.next())
		if err != nil {
			return nil, err
		}
		if p.next().kind != tokRIndex {
			return nil, fmt.Errorf("%w: expected .) after array size", ErrBadTypeExpr)
		}
		if of := p.next(); of.kind != tokIdent || !strings.EqualFold(of.text, "of") {
			return nil, fmt.Errorf("%w: expected of after array size", ErrBadTypeExpr)
		}
		elem, err := c.parseType(p)
		if err != nil {
			return nil, err
		}
		return types.MakeArray(size, elem)
	}

	id, err := c.Table.LookupKind(tok.text, symbols.MaskType)
	if err != nil {
		if errors.Is(err, symbols.ErrUnexpectedKind) {
			return nil, fmt.Errorf("%w: %s", ErrNotAType, tok.text)
		}
		return nil, err
	}
	actual := c.Table.Object(id).TypeAlias().Actual
	if actual == nil {
		return nil, fmt.Errorf("%w: %s is incomplete", ErrNotAType, tok.text)
	}
	return types.Duplicate(actual), nil
}

func (c *Checker) arraySize(tok token) (int, error) {
	switch tok.kind {
	case tokNumber:
		n, err := strconv.Atoi(tok.text)
		if err != nil {
			return 0, fmt.Errorf("%w: %v", ErrBadTypeExpr, err)
		}
		return n, nil
	case tokIdent:
		v, err := c.ResolveConstant(tok.text)
		if err != nil {
			return 0, err
		}
		if v.Kind != constant.KindInt {
			return 0, fmt.Errorf("%w: array size %s is not an integer", ErrTypeMismatch, tok.text)
		}
		return v.Int, nil
	}
	return 0, fmt.Errorf("%w: bad array size %q", ErrBadTypeExpr, tok.text)
}
