package symbols

import (
	"fmt"

	"kplc/internal/constant"
	"kplc/internal/types"
)

// newObject validates name and allocates an undeclared object.
func (t *Table) newObject(op, name string, kind ObjectKind, attrs Attrs) (ObjectID, error) {
	if t.Cleaned() {
		return NoObjectID, declError(op, name, NoObjectID, ErrTableCleaned)
	}
	if err := t.CheckName(name); err != nil {
		return NoObjectID, declError(op, name, NoObjectID, err)
	}
	return t.Objects.New(&Object{
		Name:  name,
		Key:   t.Key(name),
		Kind:  kind,
		Attrs: attrs,
	}), nil
}

// CreateScope allocates an empty scope.
func (t *Table) CreateScope(owner ObjectID, outer ScopeID) ScopeID {
	if t.Cleaned() {
		panic(fmt.Errorf("symbols: create scope: %w", ErrTableCleaned))
	}
	return t.Scopes.New(owner, outer)
}

// CreateProgramObject creates the program root together with its scope and
// records it as the table's program.
func (t *Table) CreateProgramObject(name string) (ObjectID, error) {
	if t.Program.IsValid() {
		return NoObjectID, declError("create program", name, t.Program, ErrProgramExists)
	}
	attrs := &ProgramAttrs{}
	id, err := t.newObject("create program", name, ObjProgram, attrs)
	if err != nil {
		return NoObjectID, err
	}
	attrs.Scope = t.CreateScope(id, NoScopeID)
	t.Program = id
	return id, nil
}

// CreateConstantObject creates a constant with no value yet.
func (t *Table) CreateConstantObject(name string) (ObjectID, error) {
	return t.newObject("create constant", name, ObjConstant, &ConstantAttrs{})
}

// CreateTypeObject creates a type alias with no actual type yet.
func (t *Table) CreateTypeObject(name string) (ObjectID, error) {
	return t.newObject("create type", name, ObjType, &TypeAttrs{})
}

// CreateVariableObject creates a variable with no type yet.
func (t *Table) CreateVariableObject(name string) (ObjectID, error) {
	return t.newObject("create variable", name, ObjVariable, &VariableAttrs{})
}

// CreateFunctionObject creates a function and its scope. The scope's outer
// link is the current scope at the time of the call.
func (t *Table) CreateFunctionObject(name string) (ObjectID, error) {
	attrs := &FunctionAttrs{}
	id, err := t.newObject("create function", name, ObjFunction, attrs)
	if err != nil {
		return NoObjectID, err
	}
	attrs.Scope = t.CreateScope(id, t.Current)
	return id, nil
}

// CreateProcedureObject creates a procedure and its scope. The scope's
// outer link is the current scope at the time of the call.
func (t *Table) CreateProcedureObject(name string) (ObjectID, error) {
	attrs := &ProcedureAttrs{}
	id, err := t.newObject("create procedure", name, ObjProcedure, attrs)
	if err != nil {
		return NoObjectID, err
	}
	attrs.Scope = t.CreateScope(id, t.Current)
	return id, nil
}

// CreateParameterObject creates a parameter of routine. A routine of
// NoObjectID is filled in from the declaring scope on DeclareObject.
func (t *Table) CreateParameterObject(name string, mode ParamMode, routine ObjectID) (ObjectID, error) {
	if owner := t.Object(routine); routine.IsValid() && (owner == nil || !owner.Kind.IsRoutine()) {
		return NoObjectID, declError("create parameter", name, routine, ErrInvalidObject)
	}
	return t.newObject("create parameter", name, ObjParameter, &ParameterAttrs{
		Mode:    mode,
		Routine: routine,
	})
}

// SetConstantValue binds the literal of a constant.
func (t *Table) SetConstantValue(id ObjectID, v *constant.Value) error {
	a := t.Object(id).Constant()
	if a == nil {
		return declError("set value", "", id, ErrInvalidObject)
	}
	a.Value = v
	return nil
}

// SetType sets the aliased type of a type object, the declared type of a
// variable or parameter, or the return type of a function.
func (t *Table) SetType(id ObjectID, ty *types.Type) error {
	obj := t.Object(id)
	switch a := attrsOf(obj).(type) {
	case *TypeAttrs:
		a.Actual = ty
	case *VariableAttrs:
		a.Type = ty
	case *ParameterAttrs:
		a.Type = ty
	case *FunctionAttrs:
		a.Return = ty
	default:
		return declError("set type", nameOf(obj), id, ErrInvalidObject)
	}
	return nil
}

func attrsOf(obj *Object) Attrs {
	if obj == nil {
		return nil
	}
	return obj.Attrs
}

func nameOf(obj *Object) string {
	if obj == nil {
		return ""
	}
	return obj.Name
}
