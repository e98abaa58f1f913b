package diagfmt

import (
	"fmt"
	"io"

	"github.com/fatih/color"

	"kplc/internal/diag"
)

type palette struct {
	err, warn, info, code, loc, note *color.Color
}

func newPalette(enabled bool) palette {
	p := palette{
		err:  color.New(color.FgRed, color.Bold),
		warn: color.New(color.FgYellow, color.Bold),
		info: color.New(color.FgCyan),
		code: color.New(color.Faint),
		loc:  color.New(color.Bold),
		note: color.New(color.FgBlue),
	}
	for _, c := range []*color.Color{p.err, p.warn, p.info, p.code, p.loc, p.note} {
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return p
}

func (p palette) severity(sev diag.Severity) *color.Color {
	switch sev {
	case diag.SevError:
		return p.err
	case diag.SevWarning:
		return p.warn
	default:
		return p.info
	}
}

func displayLocation(loc diag.Location, mode PathMode, base string) string {
	loc.File = mode.Apply(loc.File, base)
	return loc.String()
}

// Pretty форматирует диагностики в человекочитаемый вид.
// Идёт по bag.Items() (ожидается bag.Sort() заранее).
// Для каждого diag печатает:
// <file>:<path>: <SEV> <CODE>: <Message>
// затем Notes с отступом.
func Pretty(w io.Writer, bag *diag.Bag, opts PrettyOpts) error {
	if bag == nil {
		return nil
	}
	p := newPalette(opts.Color)
	for _, d := range bag.Items() {
		sev := p.severity(d.Severity)
		_, err := fmt.Fprintf(w, "%s: %s %s: %s\n",
			p.loc.Sprint(displayLocation(d.Primary, opts.PathMode, opts.BaseDir)),
			sev.Sprint(d.Severity.String()),
			p.code.Sprint(d.Code.ID()),
			d.Message,
		)
		if err != nil {
			return err
		}
		if !opts.ShowNotes {
			continue
		}
		for _, note := range d.Notes {
			_, err := fmt.Fprintf(w, "  %s %s: %s\n",
				p.note.Sprint("note:"),
				displayLocation(note.Loc, opts.PathMode, opts.BaseDir),
				note.Msg,
			)
			if err != nil {
				return err
			}
		}
	}
	return nil
}

// Short writes the one-line-per-diagnostic form.
func Short(w io.Writer, bag *diag.Bag, includeNotes bool) error {
	if bag == nil || bag.Len() == 0 {
		return nil
	}
	_, err := fmt.Fprintln(w, diag.FormatShortDiagnostics(bag.Items(), includeNotes))
	return err
}

// Summary renders "N error(s), M warning(s)".
func Summary(bag *diag.Bag) string {
	errs, warns := 0, 0
	if bag != nil {
		for _, d := range bag.Items() {
			switch d.Severity {
			case diag.SevError:
				errs++
			case diag.SevWarning:
				warns++
			}
		}
	}
	return fmt.Sprintf("%d error(s), %d warning(s)", errs, warns)
}
