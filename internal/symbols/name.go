package symbols

import (
	"fmt"
	"unicode/utf8"
)

// CheckName validates an identifier against the table limits.
func (t *Table) CheckName(name string) error {
	if name == "" {
		return ErrEmptyIdentifier
	}
	if n := utf8.RuneCountInString(name); n > t.maxIdent {
		return fmt.Errorf("%w: %d characters, limit is %d", ErrIdentifierTooLong, n, t.maxIdent)
	}
	return nil
}

// Key returns the normalized lookup key for name.
func (t *Table) Key(name string) string {
	if !t.folding {
		return name
	}
	return t.fold.String(name)
}
