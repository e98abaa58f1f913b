package sema

import (
	"errors"
	"fmt"
	"strconv"

	"kplc/internal/symbols"
	"kplc/internal/types"
)

type parser struct {
	toks []token
	pos  int
}

func (p *parser) peek() token { return p.toks[p.pos] }

func (p *parser) next() token {
	tok := p.toks[p.pos]
	if tok.kind != tokEOF {
		p.pos++
	}
	return tok
}

// operand is a resolved leaf of an expression. Object is set for names.
type operand struct {
	typ    *types.Type
	object symbols.ObjectID
}

// storage reports whether the operand denotes a variable or parameter,
// possibly an element of one.
func (o operand) storage(t *symbols.Table) bool {
	obj := t.Object(o.object)
	return obj != nil && (obj.Kind == symbols.ObjVariable || obj.Kind == symbols.ObjParameter)
}

// Expr checks "operand" or "operand op operand" and returns its type.
// Comparisons are rejected here; use CheckCondition.
func (c *Checker) Expr(src string) (*types.Type, error) {
	op, left, right, err := c.parseBinary(src)
	if err != nil {
		return nil, err
	}
	if op == types.OpInvalid {
		return left.typ, nil
	}
	if op.IsComparison() {
		return nil, fmt.Errorf("%w: comparison %q used as a value", ErrBadExpression, src)
	}
	ty, ok := types.CheckBinary(op, left.typ, right.typ)
	if !ok {
		return nil, fmt.Errorf("%w: %s %s %s", ErrBadOperands, left.typ, op, right.typ)
	}
	return ty, nil
}

// CheckCondition requires "a op b" with a comparison operator over basic
// operands of one type.
func (c *Checker) CheckCondition(src string) error {
	op, left, right, err := c.parseBinary(src)
	if err != nil {
		return err
	}
	if !op.IsComparison() {
		return fmt.Errorf("%w: %q", ErrNotCondition, src)
	}
	if _, ok := types.CheckBinary(op, left.typ, right.typ); !ok {
		return fmt.Errorf("%w: %s %s %s", ErrBadOperands, left.typ, op, right.typ)
	}
	return nil
}

func (c *Checker) parseBinary(src string) (types.Op, operand, operand, error) {
	toks, err := lex(src)
	if err != nil {
		return types.OpInvalid, operand{}, operand{}, err
	}
	p := &parser{toks: toks}
	left, err := c.parseOperand(p)
	if err != nil {
		return types.OpInvalid, operand{}, operand{}, err
	}
	if p.peek().kind == tokEOF {
		return types.OpInvalid, left, operand{}, nil
	}
	opTok := p.next()
	op, ok := types.ParseOp(opTok.text)
	if opTok.kind != tokOp || !ok {
		return types.OpInvalid, operand{}, operand{}, fmt.Errorf("%w: unknown operator %q", ErrBadExpression, opTok.text)
	}
	right, err := c.parseOperand(p)
	if err != nil {
		return types.OpInvalid, operand{}, operand{}, err
	}
	if p.peek().kind != tokEOF {
		return types.OpInvalid, operand{}, operand{}, fmt.Errorf("%w: trailing %q in %q", ErrBadExpression, p.peek().text, src)
	}
	return op, left, right, nil
}

func (c *Checker) parseOperand(p *parser) (operand, error) {
	tok := p.next()
	switch tok.kind {
	case tokNumber:
		if _, err := strconv.Atoi(tok.text); err != nil {
			return operand{}, fmt.Errorf("%w: %v", ErrBadExpression, err)
		}
		return operand{typ: types.MakeInt()}, nil
	case tokChar:
		return operand{typ: types.MakeChar()}, nil
	case tokOp:
		if tok.text == "-" && p.peek().kind == tokNumber {
			p.next()
			return operand{typ: types.MakeInt()}, nil
		}
	case tokIdent:
		return c.nameOperand(p, tok.text)
	}
	return operand{}, fmt.Errorf("%w: unexpected %q", ErrBadExpression, tok.text)
}

func (c *Checker) nameOperand(p *parser, name string) (operand, error) {
	id, err := c.Table.LookupKind(name, symbols.MaskValue)
	if err != nil {
		if errors.Is(err, symbols.ErrUnexpectedKind) {
			return operand{}, fmt.Errorf("%w: %s", ErrNotAValue, name)
		}
		return operand{}, err
	}
	obj := c.Table.Object(id)
	if obj.Kind == symbols.ObjFunction {
		if n := len(obj.Params()); n != 0 {
			return operand{}, fmt.Errorf("%w: %s expects %d argument(s), got 0", ErrArityMismatch, name, n)
		}
	}
	ty, err := c.TypeOf(id)
	if err != nil {
		return operand{}, err
	}
	o := operand{typ: ty, object: id}
	for p.peek().kind == tokLIndex {
		p.next()
		if o.typ.Kind != types.KindArray {
			return operand{}, fmt.Errorf("%w: %s", ErrNotIndexable, name)
		}
		idx, err := c.parseOperand(p)
		if err != nil {
			return operand{}, err
		}
		if idx.typ.Kind != types.KindInt {
			return operand{}, fmt.Errorf("%w: index of %s is %s", ErrTypeMismatch, name, idx.typ)
		}
		if p.next().kind != tokRIndex {
			return operand{}, fmt.Errorf("%w: expected .) after index", ErrBadExpression)
		}
		o.typ = o.typ.Elem
	}
	return o, nil
}
