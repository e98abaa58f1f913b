package diag

import (
	"fmt"
	"strings"
)

// FormatShortDiagnostics renders one line per diagnostic (and per note when
// includeNotes is set): "<severity> <CODE> <file>:<path> <message>".
func FormatShortDiagnostics(diags []Diagnostic, includeNotes bool) string {
	var b strings.Builder
	for _, d := range diags {
		if b.Len() > 0 {
			b.WriteByte('\n')
		}
		fmt.Fprintf(&b, "%s %s %s %s", d.Severity.Label(), d.Code.ID(), d.Primary, sanitizeMessage(d.Message))
		if !includeNotes {
			continue
		}
		for _, note := range d.Notes {
			fmt.Fprintf(&b, "\nnote %s %s %s", d.Code.ID(), note.Loc, sanitizeMessage(note.Msg))
		}
	}
	return b.String()
}

func sanitizeMessage(msg string) string {
	msg = strings.ReplaceAll(msg, "\r\n", "\n")
	msg = strings.ReplaceAll(msg, "\r", "\n")
	msg = strings.ReplaceAll(msg, "\n", " ")
	return strings.TrimSpace(msg)
}
