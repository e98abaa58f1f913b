package symbols

import "fmt"

// EnterBlock makes scope current. Blocks are entered and exited in LIFO
// order matching the parser's nesting.
func (t *Table) EnterBlock(scope ScopeID) {
	if t.Scope(scope) == nil {
		panic(fmt.Errorf("symbols: enter block: unknown scope %d", scope))
	}
	t.Current = scope
}

// ExitBlock makes the enclosing scope current. Leaving the root scope is a
// pipeline bug and panics with ErrScopeUnderflow.
func (t *Table) ExitBlock() {
	cur := t.Scope(t.Current)
	if cur == nil || !cur.Outer.IsValid() {
		panic(fmt.Errorf("symbols: exit block from scope %d: %w", t.Current, ErrScopeUnderflow))
	}
	t.Current = cur.Outer
}

// Depth counts the scopes from current up to the root, inclusive.
func (t *Table) Depth() int {
	depth := 0
	for id := t.Current; id.IsValid(); {
		scope := t.Scope(id)
		if scope == nil {
			break
		}
		depth++
		id = scope.Outer
	}
	return depth
}
