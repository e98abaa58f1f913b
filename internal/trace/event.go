package trace

import "time"

// Kind is what an event marks.
type Kind uint8

const (
	KindSpanBegin Kind = iota + 1
	KindSpanEnd
	KindPoint
)

var kindNames = [...]string{KindSpanBegin: "begin", KindSpanEnd: "end", KindPoint: "point"}

func (k Kind) String() string {
	if int(k) < len(kindNames) && kindNames[k] != "" {
		return kindNames[k]
	}
	return "unknown"
}

// Scope is the granularity of an event; coarser scopes have lower values.
type Scope uint8

const (
	ScopeDriver Scope = iota + 1 // one invocation
	ScopeFile                    // one manifest
	ScopePass                    // load, validate, walk, invariants
	ScopeBlock                   // program or routine block
	ScopeDecl                    // one declaration
)

var scopeNames = [...]string{
	ScopeDriver: "driver",
	ScopeFile:   "file",
	ScopePass:   "pass",
	ScopeBlock:  "block",
	ScopeDecl:   "decl",
}

func (s Scope) String() string {
	if int(s) < len(scopeNames) && scopeNames[s] != "" {
		return scopeNames[s]
	}
	return "unknown"
}

// Event is one trace record. Seq is stamped by the sink that stores it.
type Event struct {
	Time     time.Time
	Seq      uint64
	Kind     Kind
	Scope    Scope
	SpanID   uint64
	ParentID uint64
	Session  string
	Name     string // e.g. "check", "block:EX.SUM"
	Detail   string
	Extra    map[string]string
}
