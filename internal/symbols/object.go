package symbols

import (
	"kplc/internal/constant"
	"kplc/internal/types"
)

// ObjectKind classifies the semantic meaning of an object.
type ObjectKind uint8

const (
	ObjInvalid ObjectKind = iota
	ObjProgram
	ObjConstant
	ObjType
	ObjVariable
	ObjFunction
	ObjProcedure
	ObjParameter
)

func (k ObjectKind) String() string {
	switch k {
	case ObjProgram:
		return "program"
	case ObjConstant:
		return "constant"
	case ObjType:
		return "type"
	case ObjVariable:
		return "variable"
	case ObjFunction:
		return "function"
	case ObjProcedure:
		return "procedure"
	case ObjParameter:
		return "parameter"
	default:
		return "invalid"
	}
}

// IsRoutine reports whether the kind owns a parameter list and a scope.
func (k ObjectKind) IsRoutine() bool {
	return k == ObjFunction || k == ObjProcedure
}

// ObjectFlags encode misc attributes for quick checks.
type ObjectFlags uint8

const (
	FlagBuiltin ObjectFlags = 1 << iota
)

// Strings returns a slice of textual flag labels.
func (f ObjectFlags) Strings() []string {
	if f == 0 {
		return nil
	}
	labels := make([]string, 0, 1)
	if f&FlagBuiltin != 0 {
		labels = append(labels, "builtin")
	}
	return labels
}

// ParamMode tells how an argument is passed.
type ParamMode uint8

const (
	ParamValue ParamMode = iota
	ParamReference
)

func (m ParamMode) String() string {
	if m == ParamReference {
		return "reference"
	}
	return "value"
}

// Attrs is the kind-specific payload of an object. The set of
// implementations is closed.
type Attrs interface {
	kind() ObjectKind
}

// ProgramAttrs holds the root scope.
type ProgramAttrs struct {
	Scope ScopeID
}

// ConstantAttrs holds the bound literal.
type ConstantAttrs struct {
	Value *constant.Value
}

// TypeAttrs holds the aliased type.
type TypeAttrs struct {
	Actual *types.Type
}

// VariableAttrs holds the declared type.
type VariableAttrs struct {
	Type *types.Type
}

// FunctionAttrs describes a function. Params references parameters owned by
// Scope, in declaration order.
type FunctionAttrs struct {
	Params []ObjectID
	Return *types.Type
	Scope  ScopeID
}

// ProcedureAttrs describes a procedure. Params references parameters owned
// by Scope, in declaration order.
type ProcedureAttrs struct {
	Params []ObjectID
	Scope  ScopeID
}

// ParameterAttrs describes a formal parameter. Routine is a back-reference.
type ParameterAttrs struct {
	Mode    ParamMode
	Type    *types.Type
	Routine ObjectID
}

func (*ProgramAttrs) kind() ObjectKind   { return ObjProgram }
func (*ConstantAttrs) kind() ObjectKind  { return ObjConstant }
func (*TypeAttrs) kind() ObjectKind      { return ObjType }
func (*VariableAttrs) kind() ObjectKind  { return ObjVariable }
func (*FunctionAttrs) kind() ObjectKind  { return ObjFunction }
func (*ProcedureAttrs) kind() ObjectKind { return ObjProcedure }
func (*ParameterAttrs) kind() ObjectKind { return ObjParameter }

// Object describes a named entity. Key is the normalized name used for
// lookups; Scope is the declaring scope and stays invalid until the object
// is declared.
type Object struct {
	Name  string
	Key   string
	Kind  ObjectKind
	Flags ObjectFlags
	Scope ScopeID
	Attrs Attrs
}

// Program returns program attributes or nil for other kinds.
func (o *Object) Program() *ProgramAttrs {
	if o == nil {
		return nil
	}
	a, _ := o.Attrs.(*ProgramAttrs)
	return a
}

// Constant returns constant attributes or nil for other kinds.
func (o *Object) Constant() *ConstantAttrs {
	if o == nil {
		return nil
	}
	a, _ := o.Attrs.(*ConstantAttrs)
	return a
}

// TypeAlias returns type attributes or nil for other kinds.
func (o *Object) TypeAlias() *TypeAttrs {
	if o == nil {
		return nil
	}
	a, _ := o.Attrs.(*TypeAttrs)
	return a
}

// Variable returns variable attributes or nil for other kinds.
func (o *Object) Variable() *VariableAttrs {
	if o == nil {
		return nil
	}
	a, _ := o.Attrs.(*VariableAttrs)
	return a
}

// Function returns function attributes or nil for other kinds.
func (o *Object) Function() *FunctionAttrs {
	if o == nil {
		return nil
	}
	a, _ := o.Attrs.(*FunctionAttrs)
	return a
}

// Procedure returns procedure attributes or nil for other kinds.
func (o *Object) Procedure() *ProcedureAttrs {
	if o == nil {
		return nil
	}
	a, _ := o.Attrs.(*ProcedureAttrs)
	return a
}

// Parameter returns parameter attributes or nil for other kinds.
func (o *Object) Parameter() *ParameterAttrs {
	if o == nil {
		return nil
	}
	a, _ := o.Attrs.(*ParameterAttrs)
	return a
}

// OwnScope returns the scope owned by a program or routine.
func (o *Object) OwnScope() ScopeID {
	if o == nil {
		return NoScopeID
	}
	switch a := o.Attrs.(type) {
	case *ProgramAttrs:
		return a.Scope
	case *FunctionAttrs:
		return a.Scope
	case *ProcedureAttrs:
		return a.Scope
	default:
		return NoScopeID
	}
}

// Params returns the ordered parameter references of a routine.
func (o *Object) Params() []ObjectID {
	if o == nil {
		return nil
	}
	switch a := o.Attrs.(type) {
	case *FunctionAttrs:
		return a.Params
	case *ProcedureAttrs:
		return a.Params
	default:
		return nil
	}
}

func (o *Object) appendParam(id ObjectID) bool {
	switch a := o.Attrs.(type) {
	case *FunctionAttrs:
		a.Params = append(a.Params, id)
	case *ProcedureAttrs:
		a.Params = append(a.Params, id)
	default:
		return false
	}
	return true
}

// IsBuiltin reports whether the object was predeclared.
func (o *Object) IsBuiltin() bool {
	return o != nil && o.Flags&FlagBuiltin != 0
}
