package diagfmt

import (
	"encoding/json"
	"io"

	"kplc/internal/diag"
)

type LocationJSON struct {
	File string `json:"file,omitempty"`
	Path string `json:"path,omitempty"`
}

type NoteJSON struct {
	Message  string       `json:"message"`
	Location LocationJSON `json:"location"`
}

type DiagnosticJSON struct {
	Severity string       `json:"severity"`
	Code     string       `json:"code"`
	Title    string       `json:"title"`
	Message  string       `json:"message"`
	Location LocationJSON `json:"location"`
	Notes    []NoteJSON   `json:"notes,omitempty"`
}

// DiagnosticsOutput is the JSON document for one manifest. Errors and
// Warnings count the whole bag, Omitted what Max cut off.
type DiagnosticsOutput struct {
	Diagnostics []DiagnosticJSON `json:"diagnostics"`
	Count       int              `json:"count"`
	Errors      int              `json:"errors"`
	Warnings    int              `json:"warnings"`
	Omitted     int              `json:"omitted,omitempty"`
}

func locationJSON(loc diag.Location, opts JSONOpts) LocationJSON {
	return LocationJSON{File: opts.PathMode.Apply(loc.File, opts.BaseDir), Path: loc.Path}
}

func diagnosticJSON(d diag.Diagnostic, opts JSONOpts) DiagnosticJSON {
	out := DiagnosticJSON{
		Severity: d.Severity.String(),
		Code:     d.Code.ID(),
		Title:    d.Code.Title(),
		Message:  d.Message,
		Location: locationJSON(d.Primary, opts),
	}
	if !opts.IncludeNotes {
		return out
	}
	for _, n := range d.Notes {
		out.Notes = append(out.Notes, NoteJSON{Message: n.Msg, Location: locationJSON(n.Loc, opts)})
	}
	return out
}

// BuildDiagnosticsOutput converts bag without encoding it.
func BuildDiagnosticsOutput(bag *diag.Bag, opts JSONOpts) DiagnosticsOutput {
	out := DiagnosticsOutput{Diagnostics: []DiagnosticJSON{}}
	if bag == nil {
		return out
	}
	items := bag.Items()
	shown := items
	if opts.Max > 0 && opts.Max < len(items) {
		shown = items[:opts.Max]
	}
	for _, d := range shown {
		out.Diagnostics = append(out.Diagnostics, diagnosticJSON(d, opts))
	}
	out.Count = len(shown)
	out.Omitted = len(items) - len(shown)
	out.Errors = bag.Count(diag.SevError)
	out.Warnings = bag.Count(diag.SevWarning) - out.Errors
	return out
}

// JSON writes the indented document for bag.
func JSON(w io.Writer, bag *diag.Bag, opts JSONOpts) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(BuildDiagnosticsOutput(bag, opts))
}
