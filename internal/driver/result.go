package driver

import (
	"kplc/internal/decl"
	"kplc/internal/diag"
	"kplc/internal/observ"
	"kplc/internal/symbols"
)

// Result is the outcome of checking one manifest.
type Result struct {
	Path     string
	Session  string
	Manifest *decl.Manifest
	// Table is nil when the manifest did not load, when it came from the
	// cache, or when Options.KeepTable was unset.
	Table  *symbols.Table
	Bag    *diag.Bag
	Timer  *observ.Timer
	Cached bool
}

// HasErrors reports whether the check produced error diagnostics.
func (r *Result) HasErrors() bool {
	return r != nil && r.Bag != nil && r.Bag.HasErrors()
}
