package symbols

import (
	"fmt"

	"fortio.org/safecast"
)

// Scopes stores all allocated scopes in a compact slice-based arena.
type Scopes struct {
	data []Scope
}

// NewScopes creates an arena with optional capacity hint.
func NewScopes(capacity uint32) *Scopes {
	if capacity == 0 {
		capacity = 16
	}
	return &Scopes{
		data: make([]Scope, 1, capacity+1), // index 0 reserved for NoScopeID
	}
}

// New allocates an empty scope and returns its ID.
func (s *Scopes) New(owner ObjectID, outer ScopeID) ScopeID {
	value, err := safecast.Conv[uint32](len(s.data))
	if err != nil {
		panic(fmt.Errorf("scopes arena overflow: %w", err))
	}
	id := ScopeID(value)
	s.data = append(s.data, Scope{
		Owner: owner,
		Outer: outer,
		index: make(map[string]ObjectID),
	})
	if outer.IsValid() {
		if outerScope := s.Get(outer); outerScope != nil {
			outerScope.Children = append(outerScope.Children, id)
		}
	}
	return id
}

// Get returns the scope pointer or nil if ID is invalid.
func (s *Scopes) Get(id ScopeID) *Scope {
	if s == nil || !id.IsValid() || int(id) >= len(s.data) {
		return nil
	}
	return &s.data[id]
}

// Len reports total number of scopes excluding the sentinel.
func (s *Scopes) Len() int {
	if s == nil {
		return 0
	}
	return len(s.data) - 1
}

// Data exposes the underlying slice without the sentinel.
func (s *Scopes) Data() []Scope {
	if s == nil || len(s.data) <= 1 {
		return nil
	}
	return s.data[1:]
}

// Objects stores declared objects in a compact arena. The arena is the only
// owner of an object; every other collection holds ObjectIDs.
type Objects struct {
	data []Object
}

// NewObjects creates an object arena with optional capacity hint.
func NewObjects(capacity uint32) *Objects {
	if capacity == 0 {
		capacity = 64
	}
	return &Objects{
		data: make([]Object, 1, capacity+1), // index 0 reserved for NoObjectID
	}
}

// New allocates an object in the arena and returns its ID.
func (s *Objects) New(obj *Object) ObjectID {
	if obj == nil {
		panic("symbols.Objects.New: nil object")
	}
	value, err := safecast.Conv[uint32](len(s.data))
	if err != nil {
		panic(fmt.Errorf("objects arena overflow: %w", err))
	}
	id := ObjectID(value)
	s.data = append(s.data, *obj)
	return id
}

// Get returns an object pointer or nil for invalid ID. The pointer is only
// valid until the next allocation.
func (s *Objects) Get(id ObjectID) *Object {
	if s == nil || !id.IsValid() || int(id) >= len(s.data) {
		return nil
	}
	return &s.data[id]
}

// Len reports number of stored objects excluding sentinel.
func (s *Objects) Len() int {
	if s == nil {
		return 0
	}
	return len(s.data) - 1
}

// Data exposes the arena storage without the sentinel.
func (s *Objects) Data() []Object {
	if s == nil || len(s.data) <= 1 {
		return nil
	}
	return s.data[1:]
}
