package driver

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"kplc/internal/diag"
	"kplc/internal/diagfmt"
	"kplc/internal/symbols"
	"kplc/internal/testkit"
)

const goodManifest = `
[program]
name = "EX"

  [program.body]
  conditions = ["i < LIMIT"]

  [[program.consts]]
  name = "MAX"
  int  = 10

  [[program.consts]]
  name = "LIMIT"
  ref  = "MAX"

  [[program.types]]
  name = "VEC"
  type = "array(. MAX .) of integer"

  [[program.vars]]
  name = "v"
  type = "VEC"

  [[program.vars]]
  name = "i"
  type = "integer"

  [[program.functions]]
  name    = "SUM"
  returns = "integer"
    [[program.functions.params]]
    name = "n"
    type = "integer"
    [[program.functions.vars]]
    name = "acc"
    type = "integer"
    [[program.functions.body.assigns]]
    target = "acc"
    source = "acc + n"
    [[program.functions.body.assigns]]
    target = "SUM"
    source = "acc"

  [[program.procedures]]
  name = "BUMP"
    [[program.procedures.params]]
    name = "x"
    type = "integer"
    mode = "var"
    [[program.procedures.body.assigns]]
    target = "x"
    source = "x + 1"

  [[program.body.assigns]]
  target = "v(. i .)"
  source = "i + LIMIT"

  [[program.body.calls]]
  callee = "BUMP"
  args   = ["i"]

  [[program.body.calls]]
  callee = "SUM"
  args   = ["v(. 1 .)"]

  [[program.body.calls]]
  callee = "WRITEI"
  args   = ["v(. 1 .)"]
`

func writeManifest(t *testing.T, dir, name, text string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(text), 0o600); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func codes(res *Result) []diag.Code {
	var out []diag.Code
	for _, d := range res.Bag.Items() {
		out = append(out, d.Code)
	}
	return out
}

func findCode(res *Result, code diag.Code) (diag.Diagnostic, bool) {
	for _, d := range res.Bag.Items() {
		if d.Code == code {
			return d, true
		}
	}
	return diag.Diagnostic{}, false
}

func TestCheckCleanManifest(t *testing.T) {
	path := writeManifest(t, t.TempDir(), "ex.toml", goodManifest)

	res, err := Check(context.Background(), path, Options{KeepTable: true})
	if err != nil {
		t.Fatalf("check: %v", err)
	}
	if res.Bag.Len() != 0 {
		t.Fatalf("expected no diagnostics, got %v: %+v", codes(res), res.Bag.Items())
	}
	if res.Session == "" {
		t.Fatalf("expected a generated session id")
	}
	tab := res.Table
	if tab == nil || tab.Cleaned() {
		t.Fatalf("expected the table to be kept")
	}
	if err := tab.Validate(); err != nil {
		t.Fatalf("table invariants: %v", err)
	}
	if tab.Current != tab.ProgramScope() {
		t.Fatalf("walk should leave the program scope current")
	}
	if _, ok := tab.FindObject(tab.ProgramScope(), "acc"); ok {
		t.Fatalf("acc must stay local to SUM")
	}
	id, ok := tab.FindObject(tab.ProgramScope(), "LIMIT")
	if !ok {
		t.Fatalf("LIMIT not declared")
	}
	if v := tab.Object(id).Constant().Value; v == nil || v.Int != 10 {
		t.Fatalf("LIMIT = %v, want 10", v)
	}
	bump, _ := tab.FindObject(tab.ProgramScope(), "BUMP")
	params := tab.Object(bump).Params()
	if len(params) != 1 || tab.Object(params[0]).Parameter().Mode != symbols.ParamReference {
		t.Fatalf("BUMP params wrong: %v", params)
	}
	for _, name := range []string{"MAX", "LIMIT", "VEC", "v", "i", "SUM", "BUMP"} {
		found := false
		for _, g := range tab.Globals {
			if tab.Object(g).Name == name {
				found = true
			}
		}
		if !found {
			t.Fatalf("%s missing from globals", name)
		}
	}
	for _, opts := range []diagfmt.DumpOpts{{IncludeBuiltins: true}, {}, {Filter: "acc"}} {
		dump, err := diagfmt.BuildDump(tab, opts)
		if err != nil {
			t.Fatalf("dump %+v: %v", opts, err)
		}
		if err := testkit.CheckDumpInvariants(dump); err != nil {
			t.Fatalf("dump %+v: %v", opts, err)
		}
	}
}

func TestCheckReleasesTableByDefault(t *testing.T) {
	path := writeManifest(t, t.TempDir(), "ex.toml", goodManifest)
	res, err := Check(context.Background(), path, Options{})
	if err != nil {
		t.Fatalf("check: %v", err)
	}
	if res.Table != nil {
		t.Fatalf("table should not be retained")
	}
	if res.Manifest == nil || res.Manifest.File != path {
		t.Fatalf("manifest not recorded")
	}
}

func TestCheckDiagnostics(t *testing.T) {
	tests := []struct {
		name string
		text string
		code diag.Code
		path string
	}{
		{
			name: "duplicate",
			text: `
[program]
name = "EX"
  [[program.vars]]
  name = "x"
  type = "integer"
  [[program.consts]]
  name = "x"
  int  = 1
`,
			code: diag.SemaDuplicateSymbol,
			path: "EX.x",
		},
		{
			name: "unresolved use",
			text: `
[program]
name = "EX"
uses = ["y"]
`,
			code: diag.SemaUnresolvedSymbol,
			path: "EX.uses.y",
		},
		{
			name: "identifier too long",
			text: `
[program]
name = "EX"
  [[program.vars]]
  name = "ABCDEFGHIJKLMNOP"
  type = "integer"
`,
			code: diag.SemaIdentTooLong,
			path: "EX.ABCDEFGHIJKLMNOP",
		},
		{
			name: "call type mismatch",
			text: `
[program]
name = "EX"
  [[program.body.calls]]
  callee = "WRITEI"
  args   = ["'c'"]
`,
			code: diag.SemaTypeMismatch,
			path: "EX.body.calls[0]",
		},
		{
			name: "arity",
			text: `
[program]
name = "EX"
  [[program.body.calls]]
  callee = "WRITELN"
  args   = ["1"]
`,
			code: diag.SemaArityMismatch,
			path: "EX.body.calls[0]",
		},
		{
			name: "by reference needs a variable",
			text: `
[program]
name = "EX"
  [[program.procedures]]
  name = "P"
    [[program.procedures.params]]
    name = "x"
    type = "integer"
    mode = "var"
  [[program.body.calls]]
  callee = "P"
  args   = ["1"]
`,
			code: diag.SemaByRefNeedsVariable,
			path: "EX.body.calls[0]",
		},
		{
			name: "not a type",
			text: `
[program]
name = "EX"
  [[program.consts]]
  name = "C"
  int  = 1
  [[program.vars]]
  name = "x"
  type = "C"
`,
			code: diag.SemaNotAType,
			path: "EX.x",
		},
		{
			name: "array size",
			text: `
[program]
name = "EX"
  [[program.vars]]
  name = "x"
  type = "array(. 0 .) of integer"
`,
			code: diag.SemaInvalidArraySize,
			path: "EX.x",
		},
		{
			name: "missing name",
			text: `
[program]
name = "EX"
  [[program.vars]]
  type = "integer"
`,
			code: diag.DeclMissingName,
			path: "EX.vars[0]",
		},
		{
			name: "assign to constant",
			text: `
[program]
name = "EX"
  [[program.consts]]
  name = "C"
  int  = 1
  [[program.body.assigns]]
  target = "C"
  source = "2"
`,
			code: diag.SemaNotAssignable,
			path: "EX.body.assigns[0]",
		},
		{
			name: "unknown key",
			text: `
[program]
name = "EX"
colour = "red"
`,
			code: diag.DeclInvalid,
			path: "",
		},
	}

	dir := t.TempDir()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeManifest(t, dir, "case.toml", tt.text)
			res, err := Check(context.Background(), path, Options{})
			if err != nil {
				t.Fatalf("check: %v", err)
			}
			d, ok := findCode(res, tt.code)
			if !ok {
				t.Fatalf("expected %s, got %v: %+v", tt.code.ID(), codes(res), res.Bag.Items())
			}
			if d.Severity != diag.SevError {
				t.Fatalf("expected error severity, got %s", d.Severity)
			}
			if d.Primary.File != path || d.Primary.Path != tt.path {
				t.Fatalf("location = %s, want %s:%s", d.Primary, path, tt.path)
			}
		})
	}
}

func TestDuplicateNotesPreviousDeclaration(t *testing.T) {
	path := writeManifest(t, t.TempDir(), "dup.toml", `
[program]
name = "EX"
  [[program.functions]]
  name    = "F"
  returns = "integer"
    [[program.functions.params]]
    name = "a"
    type = "integer"
    [[program.functions.vars]]
    name = "a"
    type = "char"
`)
	res, err := Check(context.Background(), path, Options{})
	if err != nil {
		t.Fatalf("check: %v", err)
	}
	d, ok := findCode(res, diag.SemaDuplicateSymbol)
	if !ok {
		t.Fatalf("expected a duplicate, got %v", codes(res))
	}
	if len(d.Notes) != 1 || d.Notes[0].Loc.Path != "EX.F.a" {
		t.Fatalf("expected a note at the parameter, got %+v", d.Notes)
	}
}

func TestShadowingWarnings(t *testing.T) {
	text := `
[program]
name = "EX"
  [[program.vars]]
  name = "x"
  type = "integer"
  [[program.procedures]]
  name = "P"
    [[program.procedures.vars]]
    name = "x"
    type = "char"
`
	path := writeManifest(t, t.TempDir(), "shadow.toml", text)

	res, err := Check(context.Background(), path, Options{})
	if err != nil {
		t.Fatalf("check: %v", err)
	}
	if res.Bag.Len() != 0 {
		t.Fatalf("shadowing is legal and silent by default, got %v", codes(res))
	}

	res, err = Check(context.Background(), path, Options{WarnShadowing: true})
	if err != nil {
		t.Fatalf("check: %v", err)
	}
	d, ok := findCode(res, diag.SemaShadowSymbol)
	if !ok || d.Severity != diag.SevWarning || res.HasErrors() {
		t.Fatalf("expected one shadow warning, got %+v", res.Bag.Items())
	}
	if d.Primary.Path != "EX.P.x" || len(d.Notes) != 1 || d.Notes[0].Loc.Path != "EX.x" {
		t.Fatalf("unexpected shadow diagnostic: %+v", d)
	}

	res, err = Check(context.Background(), path, Options{WarnShadowing: true, WarningsAsErrors: true})
	if err != nil {
		t.Fatalf("check: %v", err)
	}
	if !res.HasErrors() {
		t.Fatalf("warnings should be promoted to errors")
	}
}

func TestCheckMissingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "absent.toml")
	res, err := Check(context.Background(), path, Options{})
	if err != nil {
		t.Fatalf("check: %v", err)
	}
	if _, ok := findCode(res, diag.IOLoadFileError); !ok {
		t.Fatalf("expected an IO diagnostic, got %v", codes(res))
	}
	if res.Manifest != nil {
		t.Fatalf("no manifest expected")
	}
}

func TestCheckCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := Check(ctx, "whatever.toml", Options{}); err == nil {
		t.Fatalf("expected the context error")
	}
}

func TestCheckFilesOrderAndSession(t *testing.T) {
	dir := t.TempDir()
	var paths []string
	for _, name := range []string{"c.toml", "a.toml", "b.toml"} {
		paths = append(paths, writeManifest(t, dir, name, goodManifest))
	}
	paths = append(paths, filepath.Join(dir, "missing.toml"))

	results, err := CheckFiles(context.Background(), paths, Options{Jobs: 2})
	if err != nil {
		t.Fatalf("check files: %v", err)
	}
	if len(results) != len(paths) {
		t.Fatalf("got %d results", len(results))
	}
	session := results[0].Session
	for i, r := range results {
		if r.Path != paths[i] {
			t.Fatalf("result %d is %s, want %s", i, r.Path, paths[i])
		}
		if r.Session != session || session == "" {
			t.Fatalf("results must share one session")
		}
	}
	if results[0].HasErrors() || !results[3].HasErrors() {
		t.Fatalf("unexpected error state: %v / %v", codes(results[0]), codes(results[3]))
	}
	if _, err := CheckFiles(context.Background(), nil, Options{}); err != ErrNoManifests {
		t.Fatalf("expected ErrNoManifests, got %v", err)
	}
}

const dupManifest = `
[program]
name = "EX"
  [[program.vars]]
  name = "x"
  type = "integer"
  [[program.vars]]
  name = "x"
  type = "integer"
`

func TestDiskCache(t *testing.T) {
	dir := t.TempDir()
	cache, err := OpenDiskCacheAt(filepath.Join(dir, "cache"))
	if err != nil {
		t.Fatalf("open cache: %v", err)
	}
	path := writeManifest(t, dir, "dup.toml", dupManifest)
	opts := Options{Cache: cache}

	first, err := Check(context.Background(), path, opts)
	if err != nil {
		t.Fatalf("check: %v", err)
	}
	if first.Cached {
		t.Fatalf("first run cannot be cached")
	}
	second, err := Check(context.Background(), path, opts)
	if err != nil {
		t.Fatalf("check: %v", err)
	}
	if !second.Cached {
		t.Fatalf("second run should come from the cache")
	}
	if first.Bag.Len() != second.Bag.Len() || second.Bag.Items()[0].Code != diag.SemaDuplicateSymbol {
		t.Fatalf("cached diagnostics differ: %+v vs %+v", first.Bag.Items(), second.Bag.Items())
	}

	// same bytes under another name reuse the entry but report the new path
	twin := writeManifest(t, dir, "twin.toml", dupManifest)
	copied, err := Check(context.Background(), twin, opts)
	if err != nil {
		t.Fatalf("check: %v", err)
	}
	if !copied.Cached || copied.Bag.Len() == 0 {
		t.Fatalf("identical manifest should hit the cache: cached=%t len=%d", copied.Cached, copied.Bag.Len())
	}
	for _, d := range copied.Bag.Items() {
		if d.Primary.File != twin {
			t.Fatalf("diagnostic for %s points at %s", twin, d.Primary.File)
		}
		for _, n := range d.Notes {
			if n.Loc.File != "" && n.Loc.File != twin {
				t.Fatalf("note for %s points at %s", twin, n.Loc.File)
			}
		}
	}

	// different options, different key
	third, err := Check(context.Background(), path, Options{Cache: cache, WarnShadowing: true})
	if err != nil {
		t.Fatalf("check: %v", err)
	}
	if third.Cached {
		t.Fatalf("options must be part of the cache key")
	}

	if err := cache.DropAll(); err != nil {
		t.Fatalf("drop: %v", err)
	}
	fourth, err := Check(context.Background(), path, opts)
	if err != nil {
		t.Fatalf("check: %v", err)
	}
	if fourth.Cached {
		t.Fatalf("dropped cache should miss")
	}
}

func TestTimingsAndObserver(t *testing.T) {
	path := writeManifest(t, t.TempDir(), "ex.toml", goodManifest)

	var (
		mu     sync.Mutex
		events []PhaseEvent
	)
	opts := Options{
		Timings: true,
		Observer: func(ev PhaseEvent) {
			mu.Lock()
			events = append(events, ev)
			mu.Unlock()
		},
	}
	res, err := Check(context.Background(), path, opts)
	if err != nil {
		t.Fatalf("check: %v", err)
	}
	d, ok := findCode(res, diag.ObsTimings)
	if !ok || d.Severity != diag.SevInfo || len(d.Notes) != 1 {
		t.Fatalf("expected a timings diagnostic, got %+v", res.Bag.Items())
	}
	if res.HasErrors() {
		t.Fatalf("timings must not count as errors")
	}

	want := []string{"load", "validate", "walk", "invariants"}
	if len(events) != 2*len(want) {
		t.Fatalf("got %d phase events: %+v", len(events), events)
	}
	for i, name := range want {
		start, end := events[2*i], events[2*i+1]
		if start.Name != name || start.Status != PhaseStart || end.Name != name || end.Status != PhaseEnd {
			t.Fatalf("phase %d events wrong: %+v %+v", i, start, end)
		}
	}
	if phases := MergeTimers([]*Result{res}).Phases(); len(phases) != len(want) || phases[0].Name != path+":load" {
		t.Fatalf("merged phases wrong: %+v", phases)
	}
}

func TestSummary(t *testing.T) {
	ok := &Result{Path: "a.toml", Bag: diag.NewBag(10)}
	bad := &Result{Path: "b.toml", Bag: diag.NewBag(10), Cached: true}
	bad.Bag.Add(diag.NewError(diag.SemaDuplicateSymbol, diag.Location{File: "b.toml"}, "dup"))
	got := Summary([]*Result{ok, bad})
	want := "ok   a.toml\nFAIL b.toml (1 errors) [cached]\n"
	if got != want {
		t.Fatalf("summary = %q, want %q", got, want)
	}
}
