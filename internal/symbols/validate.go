package symbols

import (
	"errors"
	"fmt"

	"fortio.org/safecast"
)

// Validate walks internal arenas checking structural invariants. Returns nil if
// everything is consistent; otherwise aggregates all detected issues.
func (t *Table) Validate() error {
	if t.Cleaned() {
		return nil
	}
	var errs []error

	// Check scopes.
	for idx := 1; idx < len(t.Scopes.data); idx++ {
		scopeID, err := toScopeID(idx)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		scope := t.Scopes.data[idx]
		if owner := t.Objects.Get(scope.Owner); owner == nil {
			errs = append(errs, fmt.Errorf("scope %d has invalid owner %d", scopeID, scope.Owner))
		} else if owner.OwnScope() != scopeID {
			errs = append(errs, fmt.Errorf("scope %d owner %d does not link back", scopeID, scope.Owner))
		}
		if scope.Outer.IsValid() {
			if int(scope.Outer) >= len(t.Scopes.data) || scope.Outer == scopeID {
				errs = append(errs, fmt.Errorf("scope %d has invalid outer %d", scopeID, scope.Outer))
				continue
			}
			found := false
			for _, child := range t.Scopes.data[scope.Outer].Children {
				if child == scopeID {
					found = true
					break
				}
			}
			if !found {
				errs = append(errs, fmt.Errorf("scope %d outer %d missing backlink", scopeID, scope.Outer))
			}
		}
		if len(scope.index) != len(scope.Objects) {
			errs = append(errs, fmt.Errorf("scope %d name index has %d entries for %d objects", scopeID, len(scope.index), len(scope.Objects)))
		}
		for _, id := range scope.Objects {
			obj := t.Objects.Get(id)
			if obj == nil {
				errs = append(errs, fmt.Errorf("scope %d references missing object %d", scopeID, id))
				continue
			}
			if obj.Scope != scopeID {
				errs = append(errs, fmt.Errorf("object %d listed in scope %d but declared in %d", id, scopeID, obj.Scope))
			}
			if scope.index[obj.Key] != id {
				errs = append(errs, fmt.Errorf("scope %d object %d missing in name index", scopeID, id))
			}
		}
	}

	// Check objects.
	for idx := 1; idx < len(t.Objects.data); idx++ {
		objectID, err := toObjectID(idx)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		obj := t.Objects.data[idx]
		if obj.Attrs == nil || obj.Attrs.kind() != obj.Kind {
			errs = append(errs, fmt.Errorf("object %d (%s) has attributes of another kind", objectID, obj.Kind))
			continue
		}
		if obj.Kind.IsRoutine() {
			errs = append(errs, t.validateParams(objectID, &obj)...)
		}
	}

	// Check the cursor lies on a path to the root.
	if t.Current.IsValid() && t.Program.IsValid() {
		root := t.ProgramScope()
		id := t.Current
		for id.IsValid() && id != root {
			scope := t.Scopes.Get(id)
			if scope == nil {
				break
			}
			id = scope.Outer
		}
		if id != root {
			errs = append(errs, fmt.Errorf("current scope %d is not nested in the program scope", t.Current))
		}
	}

	if len(errs) == 0 {
		return nil
	}
	return errors.Join(errs...)
}

// validateParams checks that the parameter list is the in-order subsequence
// of parameters owned by the routine's scope.
func (t *Table) validateParams(id ObjectID, routine *Object) []error {
	scope := t.Scopes.Get(routine.OwnScope())
	if scope == nil {
		return []error{fmt.Errorf("routine %d has no scope", id)}
	}
	var owned []ObjectID
	for _, member := range scope.Objects {
		if obj := t.Objects.Get(member); obj != nil && obj.Kind == ObjParameter {
			owned = append(owned, member)
		}
	}
	params := routine.Params()
	if len(owned) != len(params) {
		return []error{fmt.Errorf("routine %d lists %d parameters but its scope owns %d", id, len(params), len(owned))}
	}
	var errs []error
	for i, pid := range params {
		if owned[i] != pid {
			errs = append(errs, fmt.Errorf("routine %d parameter #%d is %d, scope order has %d", id, i, pid, owned[i]))
		}
		if p := t.Objects.Get(pid).Parameter(); p == nil || p.Routine != id {
			errs = append(errs, fmt.Errorf("routine %d parameter %d does not point back", id, pid))
		}
	}
	return errs
}

func toScopeID(idx int) (ScopeID, error) {
	value, err := safecast.Conv[uint32](idx)
	if err != nil {
		return NoScopeID, fmt.Errorf("scope index %d overflow: %w", idx, err)
	}
	return ScopeID(value), nil
}

func toObjectID(idx int) (ObjectID, error) {
	value, err := safecast.Conv[uint32](idx)
	if err != nil {
		return NoObjectID, fmt.Errorf("object index %d overflow: %w", idx, err)
	}
	return ObjectID(value), nil
}
