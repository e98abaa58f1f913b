package diag

import (
	"fmt"
)

type Code uint16

const (
	// Неизвестная ошибка - на первое время
	UnknownCode Code = 0

	// Ошибки входных манифестов
	DeclInfo         Code = 2000
	DeclInvalid      Code = 2001
	DeclBadType      Code = 2002
	DeclBadConstant  Code = 2003
	DeclBadOperator  Code = 2004
	DeclMissingName  Code = 2005
	DeclBadParamMode Code = 2006

	// Семантические
	SemaInfo               Code = 3000
	SemaError              Code = 3001
	SemaDuplicateSymbol    Code = 3002
	SemaScopeMismatch      Code = 3003
	SemaShadowSymbol       Code = 3004
	SemaUnresolvedSymbol   Code = 3005
	SemaIdentTooLong       Code = 3006
	SemaTypeMismatch       Code = 3007
	SemaArityMismatch      Code = 3008
	SemaNotAType           Code = 3009
	SemaNotCallable        Code = 3010
	SemaByRefNeedsVariable Code = 3011
	SemaInvalidArraySize   Code = 3012
	SemaNotAssignable      Code = 3013
	SemaNotAConstant       Code = 3014
	SemaInvalidOperands    Code = 3015
	SemaNotAValue          Code = 3016
	SemaInvalidDecl        Code = 3017
	SemaBadCondition       Code = 3018

	// Ввод-вывод
	IOLoadFileError Code = 4001

	// Конфигурация проекта
	ProjInvalidConfig Code = 5001

	// Внутренние инварианты таблицы
	ObsTableInvariant Code = 6001
	ObsTimings        Code = 6002
	ObsInternalError  Code = 6003
)

var (
	codeDescription = map[Code]string{
		UnknownCode:            "Unknown error",
		DeclInfo:               "Declaration manifest information",
		DeclInvalid:            "Invalid declaration",
		DeclBadType:            "Malformed type expression",
		DeclBadConstant:        "Malformed constant initializer",
		DeclBadOperator:        "Unknown operator",
		DeclMissingName:        "Declaration without a name",
		DeclBadParamMode:       "Unknown parameter passing mode",
		SemaInfo:               "Semantic information",
		SemaError:              "Semantic error",
		SemaDuplicateSymbol:    "Duplicate declaration",
		SemaScopeMismatch:      "Scope stack mismatch",
		SemaShadowSymbol:       "Declaration shadows an outer binding",
		SemaUnresolvedSymbol:   "Unresolved identifier",
		SemaIdentTooLong:       "Identifier too long",
		SemaTypeMismatch:       "Type mismatch",
		SemaArityMismatch:      "Wrong number of arguments",
		SemaNotAType:           "Identifier is not a type",
		SemaNotCallable:        "Identifier is not callable",
		SemaByRefNeedsVariable: "Reference parameter needs a variable",
		SemaInvalidArraySize:   "Invalid array size",
		SemaNotAssignable:      "Target is not assignable",
		SemaNotAConstant:       "Identifier is not a constant",
		SemaInvalidOperands:    "Invalid operands",
		SemaNotAValue:          "Identifier does not denote a value",
		SemaInvalidDecl:        "Declaration rejected by the symbol table",
		SemaBadCondition:       "Condition is not a comparison",
		IOLoadFileError:        "I/O load file error",
		ProjInvalidConfig:      "Invalid configuration",
		ObsTableInvariant:      "Symbol table invariant violated",
		ObsTimings:             "Phase timings",
		ObsInternalError:       "Internal checker error",
	}
)

func (c Code) ID() string {
	switch ic := int(c); {
	case ic >= 2000 && ic < 3000:
		return fmt.Sprintf("DCL%04d", ic)
	case ic >= 3000 && ic < 4000:
		return fmt.Sprintf("SEM%04d", ic)
	case ic >= 4000 && ic < 5000:
		return fmt.Sprintf("IO%04d", ic)
	case ic >= 5000 && ic < 6000:
		return fmt.Sprintf("PRJ%04d", ic)
	case ic >= 6000 && ic < 7000:
		return fmt.Sprintf("OBS%04d", ic)
	}
	return "E0000"
}

func (c Code) Title() string {
	desc, ok := codeDescription[c]
	if !ok {
		return codeDescription[Code(0)]
	}
	return desc
}

func (c Code) String() string {
	return fmt.Sprintf("[%s]: %s", c.ID(), c.Title())
}
