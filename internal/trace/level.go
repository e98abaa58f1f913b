package trace

import (
	"fmt"
	"strings"
)

// Level selects which scopes are recorded.
type Level uint8

const (
	LevelOff    Level = iota
	LevelError        // passes, kept for crash dumps
	LevelPhase        // driver, files and passes
	LevelDetail       // adds blocks
	LevelDebug        // adds declarations
)

var levelNames = [...]string{"off", "error", "phase", "detail", "debug"}

// finest scope recorded at each level
var levelCeiling = [...]Scope{
	LevelOff:    0,
	LevelError:  ScopePass,
	LevelPhase:  ScopePass,
	LevelDetail: ScopeBlock,
	LevelDebug:  ScopeDecl,
}

func (l Level) String() string {
	if int(l) < len(levelNames) {
		return levelNames[l]
	}
	return "unknown"
}

// ParseLevel accepts the names printed by String, case-insensitively.
func ParseLevel(s string) (Level, error) {
	for i, name := range levelNames {
		if strings.EqualFold(s, name) {
			return Level(i), nil
		}
	}
	return LevelOff, fmt.Errorf("invalid trace level: %q (expected: %s)", s, strings.Join(levelNames[:], "|"))
}

// ShouldEmit reports whether events of scope are recorded at l.
func (l Level) ShouldEmit(scope Scope) bool {
	if int(l) >= len(levelCeiling) {
		return false
	}
	return scope != 0 && scope <= levelCeiling[l]
}
