package symbols

import (
	"errors"
	"fmt"
)

var (
	// ErrDuplicateDeclaration reports a name already declared in the current scope.
	ErrDuplicateDeclaration = errors.New("duplicate declaration")
	// ErrUnresolvedIdentifier reports a chain lookup that found nothing.
	ErrUnresolvedIdentifier = errors.New("unresolved identifier")
	// ErrIdentifierTooLong reports a name longer than the table allows.
	ErrIdentifierTooLong = errors.New("identifier too long")
	// ErrEmptyIdentifier reports an empty name.
	ErrEmptyIdentifier = errors.New("empty identifier")
	// ErrUnexpectedKind reports a resolved object of the wrong kind.
	ErrUnexpectedKind = errors.New("unexpected object kind")
	// ErrParameterOutsideRoutine reports a parameter declared in a scope not
	// owned by a function or procedure.
	ErrParameterOutsideRoutine = errors.New("parameter declared outside a routine")
	// ErrNoCurrentScope reports a declaration before any block was entered.
	ErrNoCurrentScope = errors.New("no current scope")
	// ErrInvalidObject reports an unknown, mismatched or already declared object.
	ErrInvalidObject = errors.New("invalid object")
	// ErrProgramExists reports a second program object.
	ErrProgramExists = errors.New("program already created")
	// ErrTableCleaned reports use of a table after Clean.
	ErrTableCleaned = errors.New("symbol table already cleaned")
	// ErrScopeUnderflow is raised (as a panic) when leaving the root scope.
	ErrScopeUnderflow = errors.New("scope underflow")
)

// DeclError carries the operation and name that failed. Prev points to the
// conflicting or unexpected object when there is one.
type DeclError struct {
	Op   string
	Name string
	Prev ObjectID
	Err  error
}

func (e *DeclError) Error() string {
	return fmt.Sprintf("%s %q: %v", e.Op, e.Name, e.Err)
}

func (e *DeclError) Unwrap() error { return e.Err }

func declError(op, name string, prev ObjectID, err error) error {
	return &DeclError{Op: op, Name: name, Prev: prev, Err: err}
}
