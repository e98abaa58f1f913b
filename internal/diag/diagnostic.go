package diag

// Note is a secondary location attached to a diagnostic.
type Note struct {
	Loc Location
	Msg string
}

// Diagnostic is one finding about a manifest.
type Diagnostic struct {
	Severity Severity
	Code     Code
	Message  string
	Primary  Location
	Notes    []Note
}

func New(sev Severity, code Code, primary Location, msg string) Diagnostic {
	return Diagnostic{Severity: sev, Code: code, Primary: primary, Message: msg}
}

func NewError(code Code, primary Location, msg string) Diagnostic {
	return New(SevError, code, primary, msg)
}

// WithNote returns a copy of d with one more note.
func (d Diagnostic) WithNote(loc Location, msg string) Diagnostic {
	notes := make([]Note, len(d.Notes), len(d.Notes)+1)
	copy(notes, d.Notes)
	d.Notes = append(notes, Note{Loc: loc, Msg: msg})
	return d
}

// identity ignores notes: two reports of the same problem at the same
// place are one finding.
type identity struct {
	code Code
	sev  Severity
	loc  Location
	msg  string
}

func (d Diagnostic) identity() identity {
	return identity{code: d.Code, sev: d.Severity, loc: d.Primary, msg: d.Message}
}
