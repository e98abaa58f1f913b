package diagfmt

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"kplc/internal/diag"
)

func sampleBag() *diag.Bag {
	bag := diag.NewBag(10)
	r := diag.BagReporter{Bag: bag}
	diag.ReportError(r, diag.SemaDuplicateSymbol, diag.Location{File: "/home/user/kpl/src/prog.toml", Path: "P.F.x"}, "duplicate declaration of 'x'").
		WithNote(diag.Location{File: "/home/user/kpl/src/prog.toml", Path: "P.F"}, "previous declaration here").
		Emit()
	diag.ReportWarning(r, diag.SemaShadowSymbol, diag.Location{File: "/home/user/kpl/src/prog.toml", Path: "P.G.v"}, "'v' shadows an outer declaration").Emit()
	return bag
}

func TestPathModes(t *testing.T) {
	bag := sampleBag()
	tests := []struct {
		name     string
		mode     PathMode
		contains string
	}{
		{name: "Absolute path", mode: PathModeAbsolute, contains: "/home/user/kpl/src/prog.toml:P.F.x"},
		{name: "Relative path", mode: PathModeRelative, contains: "src/prog.toml:P.F.x"},
		{name: "Basename only", mode: PathModeBasename, contains: "\nprog.toml:P.G.v"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			opts := PrettyOpts{PathMode: tt.mode, BaseDir: "/home/user/kpl"}
			if err := Pretty(&buf, bag, opts); err != nil {
				t.Fatalf("pretty: %v", err)
			}
			if !strings.Contains(buf.String(), tt.contains) {
				t.Fatalf("expected output to contain %q, got:\n%s", tt.contains, buf.String())
			}
		})
	}
}

func TestPrettyNoColor(t *testing.T) {
	var buf bytes.Buffer
	if err := Pretty(&buf, sampleBag(), PrettyOpts{PathMode: PathModeBasename, ShowNotes: true}); err != nil {
		t.Fatalf("pretty: %v", err)
	}
	expected := "prog.toml:P.F.x: ERROR SEM3002: duplicate declaration of 'x'\n" +
		"  note: prog.toml:P.F: previous declaration here\n" +
		"prog.toml:P.G.v: WARNING SEM3004: 'v' shadows an outer declaration\n"
	if buf.String() != expected {
		t.Fatalf("unexpected output:\nwant:\n%s\ngot:\n%s", expected, buf.String())
	}
	if got := Summary(sampleBag()); got != "1 error(s), 1 warning(s)" {
		t.Fatalf("unexpected summary %q", got)
	}
}

func TestJSONOutput(t *testing.T) {
	var buf bytes.Buffer
	if err := JSON(&buf, sampleBag(), JSONOpts{PathMode: PathModeBasename, IncludeNotes: true, Max: 1}); err != nil {
		t.Fatalf("json: %v", err)
	}
	var out DiagnosticsOutput
	if err := json.Unmarshal(buf.Bytes(), &out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if out.Count != 1 || len(out.Diagnostics) != 1 || out.Omitted != 1 {
		t.Fatalf("max not applied: %+v", out)
	}
	if out.Errors != 1 || out.Warnings != 1 {
		t.Fatalf("counts should cover the whole bag: %+v", out)
	}
	d := out.Diagnostics[0]
	if d.Code != "SEM3002" || d.Severity != "ERROR" || d.Location.File != "prog.toml" || d.Location.Path != "P.F.x" {
		t.Fatalf("unexpected diagnostic %+v", d)
	}
	if len(d.Notes) != 1 || d.Notes[0].Location.Path != "P.F" {
		t.Fatalf("notes missing: %+v", d.Notes)
	}
}

func TestParsePathMode(t *testing.T) {
	for _, mode := range []PathMode{PathModeAuto, PathModeAbsolute, PathModeRelative, PathModeBasename} {
		got, err := ParsePathMode(mode.String())
		if err != nil || got != mode {
			t.Fatalf("ParsePathMode(%s) = %v, %v", mode, got, err)
		}
	}
	if _, err := ParsePathMode("short"); err == nil {
		t.Fatalf("expected error for unknown mode")
	}
	if got := PathModeRelative.Apply("prog.toml", ""); got != "prog.toml" {
		t.Fatalf("relative without base changed the path: %q", got)
	}
}
