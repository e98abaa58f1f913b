package driver

import (
	"errors"
	"fmt"

	"kplc/internal/decl"
	"kplc/internal/diag"
	"kplc/internal/sema"
	"kplc/internal/symbols"
	"kplc/internal/types"
)

var errorCodes = []struct {
	err  error
	code diag.Code
}{
	{symbols.ErrDuplicateDeclaration, diag.SemaDuplicateSymbol},
	{symbols.ErrUnresolvedIdentifier, diag.SemaUnresolvedSymbol},
	{symbols.ErrIdentifierTooLong, diag.SemaIdentTooLong},
	{symbols.ErrEmptyIdentifier, diag.DeclMissingName},
	{symbols.ErrParameterOutsideRoutine, diag.SemaScopeMismatch},
	{symbols.ErrNoCurrentScope, diag.SemaScopeMismatch},
	{types.ErrInvalidArraySize, diag.SemaInvalidArraySize},
	{sema.ErrNotAType, diag.SemaNotAType},
	{sema.ErrNotCallable, diag.SemaNotCallable},
	{sema.ErrByRefNeedsVariable, diag.SemaByRefNeedsVariable},
	{sema.ErrArityMismatch, diag.SemaArityMismatch},
	{sema.ErrTypeMismatch, diag.SemaTypeMismatch},
	{sema.ErrNotIndexable, diag.SemaTypeMismatch},
	{sema.ErrNotAssignable, diag.SemaNotAssignable},
	{sema.ErrNotAConstant, diag.SemaNotAConstant},
	{sema.ErrNotAValue, diag.SemaNotAValue},
	{sema.ErrBadOperands, diag.SemaInvalidOperands},
	{sema.ErrNotCondition, diag.SemaBadCondition},
	{sema.ErrBadTypeExpr, diag.DeclBadType},
	{sema.ErrBadExpression, diag.DeclBadOperator},
}

// codeFor maps core and sema errors onto diagnostic codes. Anything the
// table rejected without a more specific code is SemaInvalidDecl.
func codeFor(err error) diag.Code {
	for _, ec := range errorCodes {
		if errors.Is(err, ec.err) {
			return ec.code
		}
	}
	return diag.SemaInvalidDecl
}

var issueCodes = map[decl.IssueKind]diag.Code{
	decl.IssueMissingName:  diag.DeclMissingName,
	decl.IssueBadConstant:  diag.DeclBadConstant,
	decl.IssueBadParamMode: diag.DeclBadParamMode,
	decl.IssueMissingType:  diag.DeclBadType,
	decl.IssueBadStatement: diag.DeclInvalid,
}

// message renders err without the operation prefix of DeclError.
func message(err error) string {
	var de *symbols.DeclError
	if errors.As(err, &de) && de.Name != "" {
		return fmt.Sprintf("'%s': %v", de.Name, de.Err)
	}
	return err.Error()
}

// prevObject returns the object a DeclError points back at.
func prevObject(err error) symbols.ObjectID {
	var de *symbols.DeclError
	if errors.As(err, &de) {
		return de.Prev
	}
	return symbols.NoObjectID
}
