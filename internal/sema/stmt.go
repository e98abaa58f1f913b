package sema

import (
	"errors"
	"fmt"

	"kplc/internal/symbols"
	"kplc/internal/types"
)

// CheckAssign checks "target := source". The target is a variable, a
// parameter, an element of either, or the name of the function whose body
// is current (its return slot).
func (c *Checker) CheckAssign(target, source string) error {
	want, err := c.assignTarget(target)
	if err != nil {
		return err
	}
	got, err := c.Expr(source)
	if err != nil {
		return err
	}
	if !types.Equal(want, got) {
		return fmt.Errorf("%w: cannot assign %s to %s of type %s", ErrTypeMismatch, got, target, want)
	}
	return nil
}

func (c *Checker) assignTarget(target string) (*types.Type, error) {
	toks, err := lex(target)
	if err != nil {
		return nil, err
	}
	p := &parser{toks: toks}
	head := p.peek()
	if head.kind != tokIdent {
		return nil, fmt.Errorf("%w: %q", ErrNotAssignable, target)
	}

	id, err := c.Table.Lookup(head.text)
	if err != nil {
		return nil, err
	}
	obj := c.Table.Object(id)
	if obj.Kind == symbols.ObjFunction {
		if obj.OwnScope() != c.Table.Current || len(toks) != 2 {
			return nil, fmt.Errorf("%w: %s is a function outside its body", ErrNotAssignable, head.text)
		}
		return obj.Function().Return, nil
	}

	o, err := c.parseOperand(p)
	if err != nil {
		if errors.Is(err, ErrNotAValue) {
			return nil, fmt.Errorf("%w: %s is a %s", ErrNotAssignable, head.text, obj.Kind)
		}
		return nil, err
	}
	if p.peek().kind != tokEOF {
		return nil, fmt.Errorf("%w: %q", ErrNotAssignable, target)
	}
	if !o.storage(c.Table) {
		return nil, fmt.Errorf("%w: %s is a %s", ErrNotAssignable, head.text, obj.Kind)
	}
	return o.typ, nil
}

// CheckCall checks a call against the callee's ordered parameter list:
// arity, per-argument type equality, and a variable or parameter for each
// reference parameter.
func (c *Checker) CheckCall(callee string, args []string) error {
	id, err := c.Table.LookupKind(callee, symbols.MaskRoutine)
	if err != nil {
		if errors.Is(err, symbols.ErrUnexpectedKind) {
			return fmt.Errorf("%w: %s", ErrNotCallable, callee)
		}
		return err
	}
	params := c.Table.Object(id).Params()
	if len(params) != len(args) {
		return fmt.Errorf("%w: %s expects %d argument(s), got %d", ErrArityMismatch, callee, len(params), len(args))
	}
	for i, pid := range params {
		param := c.Table.Object(pid).Parameter()
		if param == nil {
			return fmt.Errorf("%w: %s parameter %d", symbols.ErrInvalidObject, callee, i+1)
		}
		if err := c.checkArg(callee, i, param, args[i]); err != nil {
			return err
		}
	}
	return nil
}

func (c *Checker) checkArg(callee string, idx int, param *symbols.ParameterAttrs, arg string) error {
	if param.Mode == symbols.ParamReference {
		toks, err := lex(arg)
		if err != nil {
			return err
		}
		p := &parser{toks: toks}
		o, err := c.parseOperand(p)
		if err != nil {
			return err
		}
		if p.peek().kind != tokEOF || !o.storage(c.Table) {
			return fmt.Errorf("%w: argument %d of %s is %q", ErrByRefNeedsVariable, idx+1, callee, arg)
		}
		if !types.Equal(param.Type, o.typ) {
			return fmt.Errorf("%w: argument %d of %s is %s, want %s", ErrTypeMismatch, idx+1, callee, o.typ, param.Type)
		}
		return nil
	}
	got, err := c.Expr(arg)
	if err != nil {
		return err
	}
	if !types.Equal(param.Type, got) {
		return fmt.Errorf("%w: argument %d of %s is %s, want %s", ErrTypeMismatch, idx+1, callee, got, param.Type)
	}
	return nil
}

// Use resolves a referenced identifier from the current scope.
func (c *Checker) Use(name string) (symbols.ObjectID, error) {
	return c.Table.Lookup(name)
}
