package symbols

// Scope is an ordered set of declarations active within one block. Owner
// and Outer are back-references; Objects owns nothing either, the arena
// does, but it is the list name resolution walks.
type Scope struct {
	Owner    ObjectID
	Outer    ScopeID
	Objects  []ObjectID
	Children []ScopeID
	index    map[string]ObjectID
}

// Len reports the number of objects declared in the scope.
func (s *Scope) Len() int {
	if s == nil {
		return 0
	}
	return len(s.Objects)
}

func (s *Scope) add(key string, id ObjectID) {
	s.Objects = append(s.Objects, id)
	if s.index == nil {
		s.index = make(map[string]ObjectID)
	}
	s.index[key] = id
}

func (s *Scope) find(key string) (ObjectID, bool) {
	if s == nil {
		return NoObjectID, false
	}
	id, ok := s.index[key]
	return id, ok
}
