package symbols

import (
	"errors"
	"testing"

	"kplc/internal/types"
)

func TestParametersListedTwiceInOrder(t *testing.T) {
	for _, kind := range []ObjectKind{ObjFunction, ObjProcedure} {
		t.Run(kind.String(), func(t *testing.T) {
			table, _ := newProgram(t)
			var routine ObjectID
			var err error
			if kind == ObjFunction {
				routine, err = table.CreateFunctionObject("R")
			} else {
				routine, err = table.CreateProcedureObject("R")
			}
			routine = mustCreate(t)(routine, err)
			mustDeclare(t, table, routine)
			table.EnterBlock(table.Object(routine).OwnScope())

			names := []string{"a", "b", "c"}
			var want []ObjectID
			for i, name := range names {
				mode := ParamValue
				if i == 1 {
					mode = ParamReference
				}
				pid := mustCreate(t)(table.CreateParameterObject(name, mode, routine))
				table.Object(pid).Parameter().Type = types.MakeInt()
				mustDeclare(t, table, pid)
				want = append(want, pid)
			}
			local := mustCreate(t)(table.CreateVariableObject("tmp"))
			mustDeclare(t, table, local)

			params := table.Object(routine).Params()
			scope := table.Scope(table.Current)
			if len(params) != 3 || len(scope.Objects) != 4 {
				t.Fatalf("params=%v scope=%v", params, scope.Objects)
			}
			for i := range want {
				if params[i] != want[i] || scope.Objects[i] != want[i] {
					t.Fatalf("order mismatch at %d: params=%v scope=%v", i, params, scope.Objects)
				}
			}
			if table.Object(want[1]).Parameter().Mode != ParamReference {
				t.Fatalf("passing mode lost")
			}
			if err := table.Validate(); err != nil {
				t.Fatalf("validate: %v", err)
			}
		})
	}
}

func TestParameterRoutineFilledOnDeclare(t *testing.T) {
	table, _ := newProgram(t)
	fn := mustCreate(t)(table.CreateFunctionObject("F"))
	mustDeclare(t, table, fn)
	table.EnterBlock(table.Object(fn).OwnScope())
	pid := mustCreate(t)(table.CreateParameterObject("n", ParamValue, NoObjectID))
	mustDeclare(t, table, pid)
	if table.Object(pid).Parameter().Routine != fn {
		t.Fatalf("routine back-reference not set")
	}
}

func TestParameterOutsideRoutine(t *testing.T) {
	table, _ := newProgram(t)
	pid := mustCreate(t)(table.CreateParameterObject("n", ParamValue, NoObjectID))
	if err := table.DeclareObject(pid); !errors.Is(err, ErrParameterOutsideRoutine) {
		t.Fatalf("expected ErrParameterOutsideRoutine, got %v", err)
	}
}

func TestParameterOwnerMismatch(t *testing.T) {
	table, _ := newProgram(t)
	f := mustCreate(t)(table.CreateFunctionObject("F"))
	mustDeclare(t, table, f)
	g := mustCreate(t)(table.CreateProcedureObject("G"))
	mustDeclare(t, table, g)
	table.EnterBlock(table.Object(g).OwnScope())
	pid := mustCreate(t)(table.CreateParameterObject("n", ParamValue, f))
	if err := table.DeclareObject(pid); !errors.Is(err, ErrInvalidObject) {
		t.Fatalf("parameter of F declared in G must fail, got %v", err)
	}
	if len(table.Object(f).Params()) != 0 || len(table.Object(g).Params()) != 0 {
		t.Fatalf("failed declaration touched a parameter list")
	}
	v := mustCreate(t)(table.CreateVariableObject("v"))
	if _, err := table.CreateParameterObject("p", ParamValue, v); !errors.Is(err, ErrInvalidObject) {
		t.Fatalf("a variable cannot own parameters, got %v", err)
	}
}

func TestDuplicateParameter(t *testing.T) {
	table, _ := newProgram(t)
	f := mustCreate(t)(table.CreateProcedureObject("F"))
	mustDeclare(t, table, f)
	table.EnterBlock(table.Object(f).OwnScope())
	mustDeclare(t, table, mustCreate(t)(table.CreateParameterObject("n", ParamValue, f)))
	dup := mustCreate(t)(table.CreateParameterObject("n", ParamReference, f))
	if err := table.DeclareObject(dup); !errors.Is(err, ErrDuplicateDeclaration) {
		t.Fatalf("expected duplicate, got %v", err)
	}
	if len(table.Object(f).Params()) != 1 {
		t.Fatalf("rejected parameter reached the parameter list")
	}
}
