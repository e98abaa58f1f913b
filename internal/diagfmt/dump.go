package diagfmt

import (
	"fmt"

	"fortio.org/safecast"
	"github.com/gobwas/glob"

	"kplc/internal/symbols"
	"kplc/internal/types"
)

// SymtabDump is a serialisable snapshot of a symbol table.
type SymtabDump struct {
	Program string       `json:"program,omitempty"`
	Current uint32       `json:"current,omitempty"`
	Scopes  []ScopeJSON  `json:"scopes"`
	Objects []ObjectJSON `json:"objects"`
	Globals []uint32     `json:"globals,omitempty"`
}

type ScopeJSON struct {
	ID        uint32   `json:"id"`
	Owner     uint32   `json:"owner"`
	OwnerName string   `json:"owner_name"`
	OwnerKind string   `json:"owner_kind"`
	Outer     uint32   `json:"outer,omitempty"`
	Depth     int      `json:"depth"`
	Objects   []uint32 `json:"objects,omitempty"`
}

type ObjectJSON struct {
	ID      uint32   `json:"id"`
	Name    string   `json:"name"`
	Kind    string   `json:"kind"`
	Scope   uint32   `json:"scope,omitempty"`
	Flags   []string `json:"flags,omitempty"`
	Type    string   `json:"type,omitempty"`
	Value   string   `json:"value,omitempty"`
	Mode    string   `json:"mode,omitempty"`
	Routine uint32   `json:"routine,omitempty"`
	Owns    uint32   `json:"owns,omitempty"`
	Params  []uint32 `json:"params,omitempty"`

	// ParamNames survive name filtering, Params may point at dropped objects.
	ParamNames []string `json:"param_names,omitempty"`
}

type nameFilter struct {
	g        glob.Glob
	builtins bool
}

func newNameFilter(opts DumpOpts) (nameFilter, error) {
	f := nameFilter{builtins: opts.IncludeBuiltins}
	if opts.Filter == "" {
		return f, nil
	}
	g, err := glob.Compile(opts.Filter)
	if err != nil {
		return f, fmt.Errorf("dump: bad filter %q: %w", opts.Filter, err)
	}
	f.g = g
	return f, nil
}

func (f nameFilter) keep(obj *symbols.Object) bool {
	if obj == nil {
		return false
	}
	if obj.IsBuiltin() && !f.builtins {
		return false
	}
	return f.g == nil || f.g.Match(obj.Name)
}

// BuildDump snapshots t. Scopes are listed in allocation order; objects are
// filtered by name but a scope is kept when its owner survives the filter
// or it still lists objects.
func BuildDump(t *symbols.Table, opts DumpOpts) (*SymtabDump, error) {
	if t == nil || t.Cleaned() {
		return nil, fmt.Errorf("dump: table is not initialised")
	}
	filter, err := newNameFilter(opts)
	if err != nil {
		return nil, err
	}

	out := &SymtabDump{
		Current: uint32(t.Current),
		Scopes:  make([]ScopeJSON, 0, t.Scopes.Len()),
		Objects: make([]ObjectJSON, 0, t.Objects.Len()),
	}
	if prog := t.Object(t.Program); prog != nil {
		out.Program = prog.Name
	}

	kept := make(map[symbols.ObjectID]bool, t.Objects.Len())
	ids := make([]symbols.ObjectID, 0, t.Objects.Len())
	for idx := range t.Objects.Data() {
		value, err := safecast.Conv[uint32](idx + 1)
		if err != nil {
			return nil, fmt.Errorf("dump: object id overflow: %w", err)
		}
		id := symbols.ObjectID(value)
		ids = append(ids, id)
		if filter.keep(t.Object(id)) {
			kept[id] = true
		}
	}
	// enclosing routines stay visible so nested matches keep their path
	for _, id := range ids {
		if !kept[id] {
			continue
		}
		for owner := enclosingOwner(t, id); owner.IsValid() && !kept[owner]; owner = enclosingOwner(t, owner) {
			kept[owner] = true
		}
	}
	if t.Program.IsValid() {
		kept[t.Program] = true
	}
	for _, id := range ids {
		if kept[id] {
			out.Objects = append(out.Objects, objectJSON(t, id, t.Object(id)))
		}
	}

	for idx := range t.Scopes.Data() {
		value, err := safecast.Conv[uint32](idx + 1)
		if err != nil {
			return nil, fmt.Errorf("dump: scope id overflow: %w", err)
		}
		id := symbols.ScopeID(value)
		scope := t.Scope(id)
		members := make([]uint32, 0, scope.Len())
		for _, oid := range scope.Objects {
			if kept[oid] {
				members = append(members, uint32(oid))
			}
		}
		if !kept[scope.Owner] && len(members) == 0 {
			continue
		}
		owner := t.Object(scope.Owner)
		out.Scopes = append(out.Scopes, ScopeJSON{
			ID:        value,
			Owner:     uint32(scope.Owner),
			OwnerName: owner.Name,
			OwnerKind: owner.Kind.String(),
			Outer:     uint32(scope.Outer),
			Depth:     scopeDepth(t, id),
			Objects:   members,
		})
	}

	for _, gid := range t.Globals {
		if kept[gid] {
			out.Globals = append(out.Globals, uint32(gid))
		}
	}
	return out, nil
}

func objectJSON(t *symbols.Table, id symbols.ObjectID, obj *symbols.Object) ObjectJSON {
	o := ObjectJSON{
		ID:    uint32(id),
		Name:  obj.Name,
		Kind:  obj.Kind.String(),
		Scope: uint32(obj.Scope),
		Flags: obj.Flags.Strings(),
		Owns:  uint32(obj.OwnScope()),
	}
	switch a := obj.Attrs.(type) {
	case *symbols.ConstantAttrs:
		if a.Value != nil {
			o.Value = a.Value.String()
			o.Type = typeLabel(a.Value.Type())
		}
	case *symbols.TypeAttrs:
		o.Type = typeLabel(a.Actual)
	case *symbols.VariableAttrs:
		o.Type = typeLabel(a.Type)
	case *symbols.FunctionAttrs:
		o.Type = typeLabel(a.Return)
	case *symbols.ParameterAttrs:
		o.Type = typeLabel(a.Type)
		o.Mode = a.Mode.String()
		o.Routine = uint32(a.Routine)
	}
	for _, pid := range obj.Params() {
		o.Params = append(o.Params, uint32(pid))
		if param := t.Object(pid); param != nil {
			o.ParamNames = append(o.ParamNames, param.Name)
		}
	}
	return o
}

func enclosingOwner(t *symbols.Table, id symbols.ObjectID) symbols.ObjectID {
	obj := t.Object(id)
	if obj == nil {
		return symbols.NoObjectID
	}
	scope := t.Scope(obj.Scope)
	if scope == nil {
		return symbols.NoObjectID
	}
	return scope.Owner
}

func typeLabel(t *types.Type) string {
	if t == nil {
		return ""
	}
	return t.String()
}

func scopeDepth(t *symbols.Table, id symbols.ScopeID) int {
	depth := 0
	for cur := id; cur.IsValid(); {
		s := t.Scope(cur)
		if s == nil {
			break
		}
		depth++
		cur = s.Outer
	}
	return depth
}
