package symbols

// DeclareObject appends obj to the current scope. A parameter is also
// appended to the owning routine's parameter list; the scope owns it and
// the list only references it, in the same order.
func (t *Table) DeclareObject(id ObjectID) error {
	obj := t.Object(id)
	if obj == nil {
		return declError("declare", "", NoObjectID, ErrInvalidObject)
	}
	if obj.Scope.IsValid() || obj.Kind == ObjProgram {
		return declError("declare", obj.Name, id, ErrInvalidObject)
	}
	scopeID := t.Current
	scope := t.Scope(scopeID)
	if scope == nil {
		return declError("declare", obj.Name, NoObjectID, ErrNoCurrentScope)
	}
	if prev, ok := scope.find(obj.Key); ok {
		return declError("declare", obj.Name, prev, ErrDuplicateDeclaration)
	}

	if param := obj.Parameter(); param != nil {
		owner := t.Object(scope.Owner)
		if owner == nil || !owner.Kind.IsRoutine() {
			return declError("declare", obj.Name, scope.Owner, ErrParameterOutsideRoutine)
		}
		if param.Routine.IsValid() && param.Routine != scope.Owner {
			return declError("declare", obj.Name, param.Routine, ErrInvalidObject)
		}
		param.Routine = scope.Owner
		owner.appendParam(id)
	}

	scope.add(obj.Key, id)
	obj.Scope = scopeID
	if scopeID == t.ProgramScope() {
		t.Globals = append(t.Globals, id)
	}
	return nil
}
