package decl

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const exampleManifest = `
[program]
name = "EXAMPLE"

  [[program.consts]]
  name = "MAX"
  int  = 10

  [[program.consts]]
  name = "A"
  char = "a"

  [[program.types]]
  name = "VEC"
  type = "array(. 10 .) of integer"

  [[program.vars]]
  name = "v"
  type = "VEC"

  [[program.functions]]
  name    = "SUM"
  returns = "integer"
    [[program.functions.params]]
    name = "n"
    type = "integer"
    [[program.functions.params]]
    name = "out"
    type = "integer"
    mode = "var"
    [[program.functions.vars]]
    name = "acc"
    type = "integer"

  [[program.procedures]]
  name = "SHOW"
  uses = ["v", "WRITEI"]

  [[program.body.calls]]
  callee = "WRITEI"
  args   = ["MAX"]
`

func TestParseExample(t *testing.T) {
	m, err := Parse(exampleManifest)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	p := m.Program
	if p.Name != "EXAMPLE" || len(p.Consts) != 2 || len(p.Types) != 1 || len(p.Vars) != 1 {
		t.Fatalf("unexpected program block: %+v", p)
	}
	if p.Consts[0].Int == nil || *p.Consts[0].Int != 10 || p.Consts[1].Char != "a" {
		t.Fatalf("constants decoded wrong: %+v", p.Consts)
	}
	sum := p.Functions[0]
	if sum.Returns != "integer" || len(sum.Params) != 2 || !sum.Params[1].ByReference() || sum.Params[0].ByReference() {
		t.Fatalf("function decoded wrong: %+v", sum)
	}
	if got := p.Procedures[0].AllUses(); len(got) != 2 || got[1] != "WRITEI" {
		t.Fatalf("uses decoded wrong: %v", got)
	}
	if issues := m.Validate(); len(issues) != 0 {
		t.Fatalf("unexpected issues: %+v", issues)
	}

	var paths []string
	m.Program.Walk("", func(path string, _ *Block) bool {
		paths = append(paths, path)
		return true
	})
	if strings.Join(paths, " ") != "EXAMPLE EXAMPLE.SUM EXAMPLE.SHOW" {
		t.Fatalf("unexpected walk order: %v", paths)
	}
}

func TestParseRejects(t *testing.T) {
	cases := []struct {
		name string
		text string
		want string
	}{
		{"no program", "[other]\nname = \"x\"\n", "missing [program]"},
		{"unknown key", "[program]\nname = \"P\"\ncolour = 1\n", "unknown keys"},
		{"syntax", "[program\n", "failed to parse"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Parse(tc.text)
			if err == nil || !strings.Contains(err.Error(), tc.want) {
				t.Fatalf("expected %q, got %v", tc.want, err)
			}
		})
	}
}

func TestValidateIssues(t *testing.T) {
	m, err := Parse(`
[program]
name = "P"
  [[program.consts]]
  name = "C"
  int  = 1
  char = "x"
  [[program.consts]]
  name = "D"
  char = "xy"
  [[program.vars]]
  type = "integer"
  [[program.procedures]]
  name = "Q"
    [[program.procedures.params]]
    name = "p"
    type = "integer"
    mode = "out"
`)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	issues := m.Validate()
	want := map[string]IssueKind{
		"P.C":       IssueBadConstant,
		"P.D":       IssueBadConstant,
		"P.vars[0]": IssueMissingName,
		"P.Q.p":     IssueBadParamMode,
	}
	got := make(map[string]IssueKind, len(issues))
	for _, is := range issues {
		got[is.Path] = is.Kind
	}
	for path, kind := range want {
		if got[path] != kind {
			t.Fatalf("expected %v at %s, issues: %+v", kind, path, issues)
		}
	}
}

func TestFilesExpandsDirectories(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"b.toml", "a.toml", "kplsym.toml", "notes.txt"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("[program]\nname = \"P\"\n"), 0o600); err != nil {
			t.Fatalf("write: %v", err)
		}
	}
	files, err := Files([]string{dir}, "kplsym.toml")
	if err != nil {
		t.Fatalf("files: %v", err)
	}
	if len(files) != 2 || filepath.Base(files[0]) != "a.toml" || filepath.Base(files[1]) != "b.toml" {
		t.Fatalf("unexpected files %v", files)
	}
	m, err := Load(files[0])
	if err != nil || m.File != files[0] || m.Program.Name != "P" {
		t.Fatalf("load: %v %+v", err, m)
	}
}
