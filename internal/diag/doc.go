// Package diag holds the findings produced while a manifest is replayed
// into the symbol table.
//
// A Diagnostic carries a Severity, a numeric Code with a stable "SEMxxxx"
// style id, a short message, the primary Location and optional Notes. A
// Location is the manifest file plus the dotted path of the declaration
// inside it ("EX.SUM.acc"), since manifests have no source spans.
//
// Producers only see a Reporter:
//
//	diag.ReportError(rep, diag.SemaDuplicateSymbol, loc, msg).
//		WithNote(prev, "previous declaration here").
//		Emit()
//
// BagReporter stores into a Bag, which caps the count and sorts. Dedup
// drops repeats of the same finding before they reach the bag.
//
// Rendering beyond the one-line short form lives in internal/diagfmt.
package diag
