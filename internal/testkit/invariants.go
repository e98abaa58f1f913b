// Package testkit holds checks shared by tests of several packages.
package testkit

import (
	"fmt"

	"kplc/internal/diagfmt"
)

// CheckDumpInvariants runs structural checks on a symbol table dump:
// 1) object and scope ids are unique
// 2) every scope member exists and points back at the scope
// 3) owned scopes point back at their owner, and outer scopes exist one level up
// 4) parameters that survived filtering belong to the routine listing them
// 5) globals exist
func CheckDumpInvariants(d *diagfmt.SymtabDump) error {
	if d == nil {
		return fmt.Errorf("nil dump")
	}
	objects := make(map[uint32]*diagfmt.ObjectJSON, len(d.Objects))
	for i := range d.Objects {
		o := &d.Objects[i]
		if o.ID == 0 {
			return fmt.Errorf("object %q has the sentinel id", o.Name)
		}
		if _, dup := objects[o.ID]; dup {
			return fmt.Errorf("object id %d listed twice", o.ID)
		}
		objects[o.ID] = o
	}
	scopes := make(map[uint32]*diagfmt.ScopeJSON, len(d.Scopes))
	for i := range d.Scopes {
		s := &d.Scopes[i]
		if _, dup := scopes[s.ID]; dup {
			return fmt.Errorf("scope id %d listed twice", s.ID)
		}
		scopes[s.ID] = s
	}

	for _, s := range d.Scopes {
		for _, oid := range s.Objects {
			o, ok := objects[oid]
			if !ok {
				return fmt.Errorf("scope %d lists missing object %d", s.ID, oid)
			}
			if o.Scope != s.ID {
				return fmt.Errorf("object %s is listed by scope %d but points at %d", o.Name, s.ID, o.Scope)
			}
		}
		if owner, ok := objects[s.Owner]; ok && owner.Owns != s.ID {
			return fmt.Errorf("scope %d owner %s does not link back", s.ID, owner.Name)
		}
		if s.Outer == 0 {
			if s.Depth != 1 {
				return fmt.Errorf("root scope %d has depth %d", s.ID, s.Depth)
			}
			continue
		}
		outer, ok := scopes[s.Outer]
		if !ok {
			return fmt.Errorf("scope %d has missing outer %d", s.ID, s.Outer)
		}
		if s.Depth != outer.Depth+1 {
			return fmt.Errorf("scope %d depth %d under outer depth %d", s.ID, s.Depth, outer.Depth)
		}
	}

	for _, o := range d.Objects {
		if o.Scope != 0 {
			s, ok := scopes[o.Scope]
			if !ok {
				return fmt.Errorf("object %s points at missing scope %d", o.Name, o.Scope)
			}
			if !contains(s.Objects, o.ID) {
				return fmt.Errorf("object %s is not listed by its scope %d", o.Name, o.Scope)
			}
		}
		if o.Owns != 0 {
			if _, ok := scopes[o.Owns]; !ok {
				return fmt.Errorf("%s %s owns missing scope %d", o.Kind, o.Name, o.Owns)
			}
		}
		if len(o.ParamNames) != len(o.Params) {
			return fmt.Errorf("%s lists %d params but %d names", o.Name, len(o.Params), len(o.ParamNames))
		}
		for i, pid := range o.Params {
			p, ok := objects[pid]
			if !ok {
				continue
			}
			if p.Kind != "parameter" || p.Routine != o.ID {
				return fmt.Errorf("param %d of %s is %s %s of routine %d", i+1, o.Name, p.Kind, p.Name, p.Routine)
			}
			if p.Name != o.ParamNames[i] {
				return fmt.Errorf("param %d of %s named %s, listed as %s", i+1, o.Name, p.Name, o.ParamNames[i])
			}
		}
	}

	for _, gid := range d.Globals {
		if _, ok := objects[gid]; !ok {
			return fmt.Errorf("global %d is missing", gid)
		}
	}
	return nil
}

func contains(ids []uint32, id uint32) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}
