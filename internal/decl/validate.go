package decl

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// IssueKind classifies a structural manifest problem.
type IssueKind uint8

const (
	IssueMissingName IssueKind = iota + 1
	IssueBadConstant
	IssueBadParamMode
	IssueMissingType
	IssueBadStatement
)

// Issue is a structural problem at a dotted declaration path.
type Issue struct {
	Path string
	Kind IssueKind
	Msg  string
}

// Validate reports structural problems that make a declaration unusable.
// Name rules (length, duplicates) belong to the symbol table.
func (m *Manifest) Validate() []Issue {
	var issues []Issue
	add := func(path string, kind IssueKind, format string, args ...any) {
		issues = append(issues, Issue{Path: path, Kind: kind, Msg: fmt.Sprintf(format, args...)})
	}
	if strings.TrimSpace(m.Program.Name) == "" {
		add("program", IssueMissingName, "program has no name")
	}
	if m.Program.Returns != "" || len(m.Program.Params) > 0 {
		add(m.Program.Name, IssueBadStatement, "a program takes no parameters and returns nothing")
	}

	m.Program.Walk("", func(path string, blk *Block) bool {
		if blk != &m.Program && strings.TrimSpace(blk.Name) == "" {
			add(path, IssueMissingName, "routine has no name")
		}
		for i, c := range blk.Consts {
			at := memberPath(path, c.Name, "consts", i)
			if c.Name == "" {
				add(at, IssueMissingName, "constant has no name")
			}
			set := 0
			if c.Int != nil {
				set++
			}
			if c.Char != "" {
				set++
				if len(c.Char) != 1 || c.Char[0] >= utf8.RuneSelf {
					add(at, IssueBadConstant, "char constant must be a single ASCII character, got %q", c.Char)
				}
			}
			if c.Ref != "" {
				set++
			}
			if set != 1 {
				add(at, IssueBadConstant, "constant needs exactly one of int, char or ref")
			}
		}
		for i, td := range blk.Types {
			at := memberPath(path, td.Name, "types", i)
			if td.Name == "" {
				add(at, IssueMissingName, "type has no name")
			}
			if strings.TrimSpace(td.Type) == "" {
				add(at, IssueMissingType, "type %s has no definition", td.Name)
			}
		}
		for i, v := range blk.Vars {
			at := memberPath(path, v.Name, "vars", i)
			if v.Name == "" {
				add(at, IssueMissingName, "variable has no name")
			}
			if strings.TrimSpace(v.Type) == "" {
				add(at, IssueMissingType, "variable %s has no type", v.Name)
			}
		}
		for i, p := range blk.Params {
			at := memberPath(path, p.Name, "params", i)
			if p.Name == "" {
				add(at, IssueMissingName, "parameter has no name")
			}
			if strings.TrimSpace(p.Type) == "" {
				add(at, IssueMissingType, "parameter %s has no type", p.Name)
			}
			switch p.Mode {
			case "", "value", "var":
			default:
				add(at, IssueBadParamMode, "parameter mode must be value or var, got %q", p.Mode)
			}
		}
		for i, a := range blk.Body.Assigns {
			if a.Target == "" || a.Source == "" {
				add(fmt.Sprintf("%s.body.assigns[%d]", path, i), IssueBadStatement, "assignment needs target and source")
			}
		}
		for i, c := range blk.Body.Calls {
			if c.Callee == "" {
				add(fmt.Sprintf("%s.body.calls[%d]", path, i), IssueBadStatement, "call needs a callee")
			}
		}
		return true
	})
	return issues
}

func memberPath(block, name, list string, idx int) string {
	if name == "" {
		return fmt.Sprintf("%s.%s[%d]", block, list, idx)
	}
	return block + "." + name
}
