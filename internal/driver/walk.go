package driver

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"kplc/internal/constant"
	"kplc/internal/decl"
	"kplc/internal/diag"
	"kplc/internal/sema"
	"kplc/internal/symbols"
	"kplc/internal/trace"
	"kplc/internal/types"
)

// walker replays a manifest into a table the way a parser drives it:
// create, declare, enter, and exit once the block is done.
type walker struct {
	ctx   context.Context
	file  string
	opts  Options
	tab   *symbols.Table
	check *sema.Checker
	rep   diag.Reporter
	// where each declared object came from, for "previous declaration" notes
	locs map[symbols.ObjectID]diag.Location
}

func newWalker(ctx context.Context, file string, tab *symbols.Table, rep diag.Reporter, opts Options) *walker {
	return &walker{
		ctx:   ctx,
		file:  file,
		opts:  opts,
		tab:   tab,
		check: sema.New(tab),
		rep:   rep,
		locs:  make(map[symbols.ObjectID]diag.Location),
	}
}

// blank names are reported by decl.Validate; the walker skips them.
func blank(s string) bool { return strings.TrimSpace(s) == "" }

func (w *walker) loc(path string) diag.Location {
	return diag.Location{File: w.file, Path: path}
}

func (w *walker) fail(at diag.Location, err error) {
	b := diag.ReportError(w.rep, codeFor(err), at, message(err))
	if prev := prevObject(err); prev.IsValid() {
		if obj := w.tab.Object(prev); obj.IsBuiltin() {
			b.WithNote(diag.Location{Path: obj.Name}, fmt.Sprintf("'%s' is a builtin %s", obj.Name, obj.Kind))
		} else if ploc, ok := w.locs[prev]; ok {
			b.WithNote(ploc, "previous declaration here")
		}
	}
	b.Emit()
}

// program walks the whole manifest. The program scope stays current
// afterwards, as after a parser finishes the program body.
func (w *walker) program(m *decl.Manifest) {
	name := m.Program.Name
	at := w.loc(name)
	id, err := w.tab.CreateProgramObject(name)
	if err != nil {
		w.fail(at, err)
		return
	}
	w.locs[id] = at
	w.tab.EnterBlock(w.tab.ProgramScope())
	w.block(w.ctx, name, &m.Program)
}

func (w *walker) block(parent context.Context, path string, blk *decl.Block) {
	ctx, span := trace.Start(parent, trace.ScopeBlock, "block:"+path)
	defer func() {
		span.WithExtra("objects", strconv.Itoa(w.tab.Scope(w.tab.Current).Len())).End("")
	}()

	for i := range blk.Consts {
		w.constant(ctx, path, &blk.Consts[i])
	}
	for i := range blk.Types {
		td := &blk.Types[i]
		w.typed(ctx, path+"."+td.Name, td.Name, td.Type, w.tab.CreateTypeObject)
	}
	for i := range blk.Vars {
		v := &blk.Vars[i]
		w.typed(ctx, path+"."+v.Name, v.Name, v.Type, w.tab.CreateVariableObject)
	}
	for i := range blk.Functions {
		w.routine(ctx, path, &blk.Functions[i], symbols.ObjFunction)
	}
	for i := range blk.Procedures {
		w.routine(ctx, path, &blk.Procedures[i], symbols.ObjProcedure)
	}
	w.body(path, blk)
}

func (w *walker) constant(ctx context.Context, block string, c *decl.Const) {
	at := w.loc(block + "." + c.Name)
	var (
		value *constant.Value
		err   error
	)
	switch {
	case blank(c.Name):
		// already reported by manifest validation
		return
	case c.Int != nil:
		value = constant.MakeInt(*c.Int)
	case len(c.Char) == 1:
		value = constant.MakeChar(c.Char[0])
	case c.Ref != "":
		value, err = w.check.ResolveConstant(c.Ref)
	default:
		// already reported by manifest validation
		return
	}
	if err != nil {
		w.fail(at, err)
		return
	}
	id, err := w.tab.CreateConstantObject(c.Name)
	if err != nil {
		w.fail(at, err)
		return
	}
	if err := w.tab.SetConstantValue(id, value); err != nil {
		w.fail(at, err)
		return
	}
	w.declare(ctx, id, at)
}

// typed creates, types and declares a type alias or variable. The type is
// resolved before the name is declared, so "TYPE T = T" does not see itself.
func (w *walker) typed(ctx context.Context, path, name, expr string, create func(string) (symbols.ObjectID, error)) {
	at := w.loc(path)
	if blank(name) || blank(expr) {
		return
	}
	ty, err := w.check.ResolveType(expr)
	if err != nil {
		w.fail(at, err)
	}
	id, err := create(name)
	if err != nil {
		w.fail(at, err)
		return
	}
	if ty != nil {
		if err := w.tab.SetType(id, ty); err != nil {
			w.fail(at, err)
			return
		}
	}
	w.declare(ctx, id, at)
}

// routine creates the function or procedure in the enclosing scope, then
// enters its scope for the parameters and the nested block.
func (w *walker) routine(ctx context.Context, block string, r *decl.Block, kind symbols.ObjectKind) {
	if blank(r.Name) {
		return
	}
	path := block + "." + r.Name
	at := w.loc(path)

	// the return type is resolved in the enclosing scope
	var ret *types.Type
	if kind == symbols.ObjFunction {
		var err error
		if r.Returns == "" {
			w.fail(at, fmt.Errorf("%w: function %s has no return type", sema.ErrBadTypeExpr, r.Name))
		} else if ret, err = w.check.ResolveType(r.Returns); err != nil {
			w.fail(at, err)
		}
	} else if r.Returns != "" {
		w.fail(at, fmt.Errorf("%w: procedure %s cannot return a value", sema.ErrBadTypeExpr, r.Name))
	}

	var (
		id  symbols.ObjectID
		err error
	)
	if kind == symbols.ObjFunction {
		id, err = w.tab.CreateFunctionObject(r.Name)
	} else {
		id, err = w.tab.CreateProcedureObject(r.Name)
	}
	if err != nil {
		w.fail(at, err)
		return
	}
	if ret != nil {
		if err := w.tab.SetType(id, ret); err != nil {
			w.fail(at, err)
			return
		}
	}
	w.declare(ctx, id, at)

	w.tab.EnterBlock(w.tab.Object(id).OwnScope())
	for i := range r.Params {
		w.param(ctx, path, id, &r.Params[i])
	}
	w.block(ctx, path, r)
	w.tab.ExitBlock()
}

func (w *walker) param(ctx context.Context, routine string, owner symbols.ObjectID, p *decl.Param) {
	if blank(p.Name) {
		return
	}
	at := w.loc(routine + "." + p.Name)
	mode := symbols.ParamValue
	if p.ByReference() {
		mode = symbols.ParamReference
	}
	ty, err := w.check.ResolveType(p.Type)
	if err != nil {
		w.fail(at, err)
	}
	id, err := w.tab.CreateParameterObject(p.Name, mode, owner)
	if err != nil {
		w.fail(at, err)
		return
	}
	if ty != nil {
		if err := w.tab.SetType(id, ty); err != nil {
			w.fail(at, err)
			return
		}
	}
	w.declare(ctx, id, at)
}

// declare reports shadowing when enabled and declares id in the current
// scope.
func (w *walker) declare(ctx context.Context, id symbols.ObjectID, at diag.Location) {
	obj := w.tab.Object(id)
	name := obj.Name
	if w.opts.WarnShadowing {
		if _, dup := w.tab.FindObject(w.tab.Current, name); !dup {
			if prev, ok := w.tab.Shadowed(name); ok {
				w.shadowWarning(at, name, prev)
			}
		}
	}
	if err := w.tab.DeclareObject(id); err != nil {
		w.fail(at, err)
		return
	}
	w.locs[id] = at
	trace.Point(ctx, trace.ScopeDecl, "declare", at.Path)
}

func (w *walker) shadowWarning(at diag.Location, name string, prev symbols.ObjectID) {
	obj := w.tab.Object(prev)
	b := diag.ReportWarning(w.rep, diag.SemaShadowSymbol, at,
		fmt.Sprintf("'%s' shadows an outer %s", name, obj.Kind))
	if obj.IsBuiltin() {
		b.WithNote(diag.Location{Path: obj.Name}, fmt.Sprintf("'%s' is a builtin %s", obj.Name, obj.Kind))
	} else if ploc, ok := w.locs[prev]; ok {
		b.WithNote(ploc, "outer declaration here")
	}
	b.Emit()
}

// body checks what the block's statements reference, from the block's own
// scope.
func (w *walker) body(path string, blk *decl.Block) {
	for _, name := range blk.AllUses() {
		if _, err := w.check.Use(name); err != nil {
			w.fail(w.loc(path+".uses."+name), err)
		}
	}
	for i, a := range blk.Body.Assigns {
		if a.Target == "" || a.Source == "" {
			continue
		}
		if err := w.check.CheckAssign(a.Target, a.Source); err != nil {
			w.fail(w.loc(fmt.Sprintf("%s.body.assigns[%d]", path, i)), err)
		}
	}
	for i, c := range blk.Body.Calls {
		if c.Callee == "" {
			continue
		}
		if err := w.check.CheckCall(c.Callee, c.Args); err != nil {
			w.fail(w.loc(fmt.Sprintf("%s.body.calls[%d]", path, i)), err)
		}
	}
	for i, cond := range blk.Body.Conditions {
		if err := w.check.CheckCondition(cond); err != nil {
			w.fail(w.loc(fmt.Sprintf("%s.body.conditions[%d]", path, i)), err)
		}
	}
}
