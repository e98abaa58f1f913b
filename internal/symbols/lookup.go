package symbols

// KindMask restricts lookup to specific object kinds.
type KindMask uint16

const (
	// KindMaskNone filters out all kinds.
	KindMaskNone KindMask = 0
	// KindMaskAny allows all kinds.
	KindMaskAny KindMask = ^KindMask(0)
)

// Mask converts an object kind into a KindMask bit.
func (k ObjectKind) Mask() KindMask {
	return KindMask(1 << uint(k))
}

// Common masks used by the semantic passes.
var (
	MaskType     = ObjType.Mask()
	MaskRoutine  = ObjFunction.Mask() | ObjProcedure.Mask()
	MaskConstant = ObjConstant.Mask()
	MaskStorage  = ObjVariable.Mask() | ObjParameter.Mask()
	MaskValue    = MaskStorage | MaskConstant | ObjFunction.Mask()
)

func matchKind(mask KindMask, kind ObjectKind) bool {
	return mask == KindMaskAny || mask&kind.Mask() != 0
}

// FindObject searches a single scope.
func (t *Table) FindObject(scope ScopeID, name string) (ObjectID, bool) {
	return t.Scope(scope).find(t.Key(name))
}

// FindGlobal searches the global object list.
func (t *Table) FindGlobal(name string) (ObjectID, bool) {
	key := t.Key(name)
	for _, id := range t.Globals {
		if obj := t.Object(id); obj != nil && obj.Key == key {
			return id, true
		}
	}
	return NoObjectID, false
}

// Lookup resolves name from the current scope outward.
func (t *Table) Lookup(name string) (ObjectID, error) {
	return t.LookupFrom(t.Current, name)
}

// LookupFrom resolves name starting at scope and walking outer links; the
// innermost match wins. Builtins are consulted after the root scope.
func (t *Table) LookupFrom(scope ScopeID, name string) (ObjectID, error) {
	key := t.Key(name)
	for id := scope; id.IsValid(); {
		s := t.Scope(id)
		if s == nil {
			break
		}
		if obj, ok := s.find(key); ok {
			return obj, nil
		}
		id = s.Outer
	}
	if obj, ok := t.FindGlobal(name); ok {
		return obj, nil
	}
	return NoObjectID, declError("lookup", name, NoObjectID, ErrUnresolvedIdentifier)
}

// LookupKind resolves name and requires the innermost match to be of a kind
// in mask. A hidden outer object of the right kind is not considered.
func (t *Table) LookupKind(name string, mask KindMask) (ObjectID, error) {
	id, err := t.Lookup(name)
	if err != nil {
		return NoObjectID, err
	}
	if obj := t.Object(id); obj == nil || !matchKind(mask, obj.Kind) {
		return NoObjectID, declError("lookup", name, id, ErrUnexpectedKind)
	}
	return id, nil
}

// Shadowed returns the outer binding that a declaration of name in the
// current scope would hide.
func (t *Table) Shadowed(name string) (ObjectID, bool) {
	cur := t.Scope(t.Current)
	if cur == nil {
		return NoObjectID, false
	}
	id, err := t.LookupFrom(cur.Outer, name)
	if err != nil {
		return NoObjectID, false
	}
	return id, true
}
