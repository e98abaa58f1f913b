package symbols

import (
	"fmt"

	"kplc/internal/types"
)

// BuiltinParam describes a parameter of a predeclared routine.
type BuiltinParam struct {
	Name string
	Mode ParamMode
	Type func() *types.Type
}

// BuiltinEntry describes a predeclared routine.
type BuiltinEntry struct {
	Name   string
	Kind   ObjectKind
	Return func() *types.Type
	Params []BuiltinParam
}

// Builtins returns the runtime I/O routines in registration order.
func Builtins() []BuiltinEntry {
	return []BuiltinEntry{
		{Name: "READC", Kind: ObjFunction, Return: types.MakeChar},
		{Name: "READI", Kind: ObjFunction, Return: types.MakeInt},
		{Name: "WRITEI", Kind: ObjProcedure, Params: []BuiltinParam{{Name: "i", Mode: ParamValue, Type: types.MakeInt}}},
		{Name: "WRITEC", Kind: ObjProcedure, Params: []BuiltinParam{{Name: "ch", Mode: ParamValue, Type: types.MakeChar}}},
		{Name: "WRITELN", Kind: ObjProcedure},
	}
}

// installBuiltins registers every builtin in the global list. Builtin
// parameters are owned by the routine's scope like user parameters.
func (t *Table) installBuiltins() {
	for _, entry := range Builtins() {
		var (
			id  ObjectID
			err error
		)
		switch entry.Kind {
		case ObjFunction:
			id, err = t.CreateFunctionObject(entry.Name)
		case ObjProcedure:
			id, err = t.CreateProcedureObject(entry.Name)
		default:
			err = fmt.Errorf("unsupported builtin kind %s", entry.Kind)
		}
		if err != nil {
			panic(fmt.Errorf("symbols: builtin %s: %w", entry.Name, err))
		}
		obj := t.Object(id)
		obj.Flags |= FlagBuiltin
		if fn := obj.Function(); fn != nil && entry.Return != nil {
			fn.Return = entry.Return()
		}
		for _, p := range entry.Params {
			t.installBuiltinParam(id, p)
		}
		t.Globals = append(t.Globals, id)
	}
}

func (t *Table) installBuiltinParam(routine ObjectID, p BuiltinParam) {
	pid, err := t.CreateParameterObject(p.Name, p.Mode, routine)
	if err != nil {
		panic(fmt.Errorf("symbols: builtin parameter %s: %w", p.Name, err))
	}
	param := t.Object(pid)
	param.Flags |= FlagBuiltin
	param.Parameter().Type = p.Type()

	owner := t.Object(routine)
	scopeID := owner.OwnScope()
	t.Scope(scopeID).add(param.Key, pid)
	param.Scope = scopeID
	owner.appendParam(pid)
}
