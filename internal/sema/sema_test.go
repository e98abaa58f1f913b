package sema

import (
	"errors"
	"testing"

	"kplc/internal/constant"
	"kplc/internal/symbols"
	"kplc/internal/types"
)

type fixture struct {
	tab  *symbols.Table
	fn   symbols.ObjectID
	proc symbols.ObjectID
}

// newFixture declares
//
//	PROGRAM P; CONST MAX = 10; TYPE VEC = ARRAY(. 10 .) OF INTEGER;
//	VAR v : INTEGER; a : VEC; ch : CHAR;
//	FUNCTION F(n : INTEGER) : INTEGER;
//	PROCEDURE Q(VAR r : INTEGER; c : CHAR);
//
// and leaves the program scope current.
func newFixture(t *testing.T) *fixture {
	t.Helper()
	tab := symbols.Init(symbols.Options{})
	must := func(id symbols.ObjectID, err error) symbols.ObjectID {
		t.Helper()
		if err != nil {
			t.Fatalf("create: %v", err)
		}
		return id
	}
	declare := func(id symbols.ObjectID) {
		t.Helper()
		if err := tab.DeclareObject(id); err != nil {
			t.Fatalf("declare: %v", err)
		}
	}
	must(tab.CreateProgramObject("P"))
	tab.EnterBlock(tab.ProgramScope())

	c := must(tab.CreateConstantObject("MAX"))
	tab.Object(c).Constant().Value = constant.MakeInt(10)
	declare(c)

	vec := must(tab.CreateTypeObject("VEC"))
	tab.Object(vec).TypeAlias().Actual = types.MustArray(10, types.MakeInt())
	declare(vec)

	for _, v := range []struct {
		name string
		ty   *types.Type
	}{
		{"v", types.MakeInt()},
		{"a", types.MustArray(10, types.MakeInt())},
		{"ch", types.MakeChar()},
	} {
		id := must(tab.CreateVariableObject(v.name))
		tab.Object(id).Variable().Type = v.ty
		declare(id)
	}

	fn := must(tab.CreateFunctionObject("F"))
	tab.Object(fn).Function().Return = types.MakeInt()
	declare(fn)
	tab.EnterBlock(tab.Object(fn).OwnScope())
	n := must(tab.CreateParameterObject("n", symbols.ParamValue, fn))
	tab.Object(n).Parameter().Type = types.MakeInt()
	declare(n)
	tab.ExitBlock()

	proc := must(tab.CreateProcedureObject("Q"))
	declare(proc)
	tab.EnterBlock(tab.Object(proc).OwnScope())
	r := must(tab.CreateParameterObject("r", symbols.ParamReference, proc))
	tab.Object(r).Parameter().Type = types.MakeInt()
	declare(r)
	cp := must(tab.CreateParameterObject("c", symbols.ParamValue, proc))
	tab.Object(cp).Parameter().Type = types.MakeChar()
	declare(cp)
	tab.ExitBlock()

	return &fixture{tab: tab, fn: fn, proc: proc}
}

func TestResolveType(t *testing.T) {
	f := newFixture(t)
	c := New(f.tab)
	ok := []struct {
		expr, label string
	}{
		{"integer", "INTEGER"},
		{"CHAR", "CHAR"},
		{"array(. 10 .) of integer", "ARRAY(. 10 .) OF INTEGER"},
		{"array(.MAX.) of array(. 2 .) of char", "ARRAY(. 10 .) OF ARRAY(. 2 .) OF CHAR"},
		{"VEC", "ARRAY(. 10 .) OF INTEGER"},
	}
	for _, tc := range ok {
		ty, err := c.ResolveType(tc.expr)
		if err != nil {
			t.Fatalf("resolve %q: %v", tc.expr, err)
		}
		if ty.String() != tc.label {
			t.Fatalf("resolve %q: got %s, want %s", tc.expr, ty, tc.label)
		}
	}

	vecID, err := f.tab.Lookup("VEC")
	if err != nil {
		t.Fatalf("lookup VEC: %v", err)
	}
	dup, _ := c.ResolveType("VEC")
	if actual := f.tab.Object(vecID).TypeAlias().Actual; dup == actual || dup.Elem == actual.Elem {
		t.Fatalf("alias type must be duplicated")
	}

	bad := []struct {
		expr string
		want error
	}{
		{"array(. 0 .) of integer", types.ErrInvalidArraySize},
		{"array of integer", ErrBadTypeExpr},
		{"integer char", ErrBadTypeExpr},
		{"v", ErrNotAType},
		{"NOPE", symbols.ErrUnresolvedIdentifier},
		{"array(. v .) of char", ErrNotAConstant},
	}
	for _, tc := range bad {
		if _, err := c.ResolveType(tc.expr); !errors.Is(err, tc.want) {
			t.Fatalf("resolve %q: expected %v, got %v", tc.expr, tc.want, err)
		}
	}
}

func TestExprAndConditions(t *testing.T) {
	c := New(newFixture(t).tab)
	for _, src := range []string{"v + MAX", "READI", "-3", "a(. v .) * 2", "'x'"} {
		if _, err := c.Expr(src); err != nil {
			t.Fatalf("expr %q: %v", src, err)
		}
	}
	cases := []struct {
		src  string
		want error
	}{
		{"v + ch", ErrBadOperands},
		{"F", ErrArityMismatch},
		{"v < 1", ErrBadExpression},
		{"VEC", ErrNotAValue},
		{"v(. 1 .)", ErrNotIndexable},
		{"a(. ch .)", ErrTypeMismatch},
		{"v ^ 1", ErrBadExpression},
	}
	for _, tc := range cases {
		if _, err := c.Expr(tc.src); !errors.Is(err, tc.want) {
			t.Fatalf("expr %q: expected %v, got %v", tc.src, tc.want, err)
		}
	}

	if err := c.CheckCondition("v <= MAX"); err != nil {
		t.Fatalf("condition: %v", err)
	}
	if err := c.CheckCondition("ch != 'a'"); err != nil {
		t.Fatalf("condition: %v", err)
	}
	if err := c.CheckCondition("v + 1"); !errors.Is(err, ErrNotCondition) {
		t.Fatalf("expected ErrNotCondition, got %v", err)
	}
	if err := c.CheckCondition("v < 'a'"); !errors.Is(err, ErrBadOperands) {
		t.Fatalf("expected ErrBadOperands, got %v", err)
	}
}

func TestCheckAssign(t *testing.T) {
	f := newFixture(t)
	c := New(f.tab)
	good := [][2]string{{"v", "1"}, {"v", "MAX + v"}, {"a(. 1 .)", "v"}, {"ch", "'z'"}}
	for _, g := range good {
		if err := c.CheckAssign(g[0], g[1]); err != nil {
			t.Fatalf("%s := %s: %v", g[0], g[1], err)
		}
	}
	bad := []struct {
		target, source string
		want           error
	}{
		{"v", "'a'", ErrTypeMismatch},
		{"a", "v", ErrTypeMismatch},
		{"MAX", "1", ErrNotAssignable},
		{"VEC", "1", ErrNotAssignable},
		{"F", "1", ErrNotAssignable},
		{"x", "1", symbols.ErrUnresolvedIdentifier},
	}
	for _, tc := range bad {
		if err := c.CheckAssign(tc.target, tc.source); !errors.Is(err, tc.want) {
			t.Fatalf("%s := %s: expected %v, got %v", tc.target, tc.source, tc.want, err)
		}
	}

	f.tab.EnterBlock(f.tab.Object(f.fn).OwnScope())
	if err := c.CheckAssign("F", "n + 1"); err != nil {
		t.Fatalf("return slot assignment: %v", err)
	}
	f.tab.ExitBlock()
}

func TestCheckCall(t *testing.T) {
	c := New(newFixture(t).tab)
	good := []struct {
		callee string
		args   []string
	}{
		{"WRITEI", []string{"MAX"}},
		{"WRITELN", nil},
		{"Q", []string{"v", "'c'"}},
		{"Q", []string{"a(. 2 .)", "ch"}},
		{"F", []string{"v + 1"}},
	}
	for _, g := range good {
		if err := c.CheckCall(g.callee, g.args); err != nil {
			t.Fatalf("call %s%v: %v", g.callee, g.args, err)
		}
	}
	bad := []struct {
		callee string
		args   []string
		want   error
	}{
		{"WRITEI", []string{"'a'"}, ErrTypeMismatch},
		{"WRITEI", nil, ErrArityMismatch},
		{"Q", []string{"1", "ch"}, ErrByRefNeedsVariable},
		{"Q", []string{"MAX", "ch"}, ErrByRefNeedsVariable},
		{"Q", []string{"ch", "ch"}, ErrTypeMismatch},
		{"v", nil, ErrNotCallable},
		{"NOPE", nil, symbols.ErrUnresolvedIdentifier},
	}
	for _, tc := range bad {
		if err := c.CheckCall(tc.callee, tc.args); !errors.Is(err, tc.want) {
			t.Fatalf("call %s%v: expected %v, got %v", tc.callee, tc.args, tc.want, err)
		}
	}
}
