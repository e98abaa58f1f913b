package sema

import "errors"

var (
	ErrBadTypeExpr        = errors.New("malformed type expression")
	ErrBadExpression      = errors.New("malformed expression")
	ErrTypeMismatch       = errors.New("type mismatch")
	ErrArityMismatch      = errors.New("wrong number of arguments")
	ErrNotAssignable      = errors.New("not assignable")
	ErrNotCallable        = errors.New("not callable")
	ErrByRefNeedsVariable = errors.New("reference parameter needs a variable")
	ErrNotAValue          = errors.New("does not denote a value")
	ErrNotAType           = errors.New("not a type")
	ErrNotAConstant       = errors.New("not a constant")
	ErrBadOperands        = errors.New("invalid operands")
	ErrNotCondition       = errors.New("condition is not a comparison")
	ErrNotIndexable       = errors.New("not an array")
)
