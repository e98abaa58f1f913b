// Package symbols is the KPL symbol table: objects, scopes, declaration
// and chain lookup, arena allocated and owned by a Table.
package symbols

import (
	"fmt"

	"fortio.org/safecast"
	"golang.org/x/text/cases"

	"kplc/internal/types"
)

// MaxIdentLen is the default identifier limit of KPL.
const MaxIdentLen = 15

// Hints provide optional capacity suggestions for the table arenas.
type Hints struct{ Scopes, Objects uint }

// Options configure a table.
type Options struct {
	Hints Hints
	// MaxIdentLen bounds names in runes; zero means MaxIdentLen.
	MaxIdentLen int
	// FoldCase makes lookups case-insensitive.
	FoldCase bool
}

// Table is the compilation context shared by the parser and the semantic
// passes. It is not safe for concurrent use.
type Table struct {
	Objects *Objects
	Scopes  *Scopes
	// Globals lists builtins followed by the program's top-level declarations.
	Globals []ObjectID
	Program ObjectID
	Current ScopeID

	// IntType and CharType are canonical instances for convenience only;
	// compare types with types.Equal.
	IntType  *types.Type
	CharType *types.Type

	maxIdent int
	fold     cases.Caser
	folding  bool
}

// Init builds a table and registers the builtin routines.
func Init(opts Options) *Table {
	scopeCap, err := safecast.Conv[uint32](opts.Hints.Scopes)
	if err != nil {
		panic(fmt.Errorf("scope capacity overflow: %w", err))
	}
	objCap, err := safecast.Conv[uint32](opts.Hints.Objects)
	if err != nil {
		panic(fmt.Errorf("object capacity overflow: %w", err))
	}
	maxIdent := opts.MaxIdentLen
	if maxIdent <= 0 {
		maxIdent = MaxIdentLen
	}
	t := &Table{
		Objects:  NewObjects(objCap),
		Scopes:   NewScopes(scopeCap),
		maxIdent: maxIdent,
		folding:  opts.FoldCase,
	}
	if opts.FoldCase {
		t.fold = cases.Fold()
	}
	t.installBuiltins()
	t.IntType = types.MakeInt()
	t.CharType = types.MakeChar()
	return t
}

// Clean releases the program graph, the global list and the canonical
// types. Every object lives in the arena, so dropping it frees each object
// once. The table must not be used afterwards; call Init for a new one.
func (t *Table) Clean() {
	if t == nil {
		return
	}
	t.Objects = nil
	t.Scopes = nil
	t.Globals = nil
	t.Program = NoObjectID
	t.Current = NoScopeID
	t.IntType = nil
	t.CharType = nil
}

// Cleaned reports whether Clean has run.
func (t *Table) Cleaned() bool {
	return t == nil || t.Objects == nil
}

// Object returns the object for id or nil.
func (t *Table) Object(id ObjectID) *Object {
	if t == nil {
		return nil
	}
	return t.Objects.Get(id)
}

// Scope returns the scope for id or nil.
func (t *Table) Scope(id ScopeID) *Scope {
	if t == nil {
		return nil
	}
	return t.Scopes.Get(id)
}

// ProgramScope returns the root scope or NoScopeID before the program exists.
func (t *Table) ProgramScope() ScopeID {
	return t.Object(t.Program).OwnScope()
}

// MaxIdentLen reports the configured identifier limit.
func (t *Table) MaxIdentLen() int { return t.maxIdent }
