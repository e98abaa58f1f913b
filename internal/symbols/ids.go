package symbols

// ScopeID identifies a scope in the table arena.
type ScopeID uint32

const (
	// NoScopeID marks the absence of a scope reference.
	NoScopeID ScopeID = 0
)

// IsValid reports whether the scope ID refers to an allocated scope.
func (id ScopeID) IsValid() bool { return id != NoScopeID }

// ObjectID identifies an object inside the table arena.
type ObjectID uint32

const (
	// NoObjectID marks the absence of an object reference.
	NoObjectID ObjectID = 0
)

// IsValid reports whether the object ID refers to an allocated object.
func (id ObjectID) IsValid() bool { return id != NoObjectID }
