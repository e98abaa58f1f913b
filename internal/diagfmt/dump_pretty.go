package diagfmt

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
)

const dumpIndent = "    "

type dumpStyles struct {
	heading lipgloss.Style
	kind    lipgloss.Style
	builtin lipgloss.Style
	detail  lipgloss.Style
}

func newDumpStyles(colored bool) dumpStyles {
	if !colored {
		plain := lipgloss.NewStyle()
		return dumpStyles{heading: plain, kind: plain, builtin: plain, detail: plain}
	}
	return dumpStyles{
		heading: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("7")),
		kind:    lipgloss.NewStyle().Foreground(lipgloss.Color("6")),
		builtin: lipgloss.NewStyle().Foreground(lipgloss.Color("5")),
		detail:  lipgloss.NewStyle().Foreground(lipgloss.Color("2")),
	}
}

type dumpPrinter struct {
	w      io.Writer
	dump   *SymtabDump
	opts   DumpOpts
	styles dumpStyles

	objects map[uint32]*ObjectJSON
	scopes  map[uint32]*ScopeJSON
	err     error
}

// DumpPretty prints the table as nested blocks in declaration order:
//
//	Program EXAMPLE
//	    Const    MAX  = 10
//	    Function SUM  : INTEGER
//	        Param n   : INTEGER
func DumpPretty(w io.Writer, dump *SymtabDump, opts DumpOpts) error {
	if dump == nil {
		return nil
	}
	p := &dumpPrinter{
		w:       w,
		dump:    dump,
		opts:    opts,
		styles:  newDumpStyles(opts.Color),
		objects: make(map[uint32]*ObjectJSON, len(dump.Objects)),
		scopes:  make(map[uint32]*ScopeJSON, len(dump.Scopes)),
	}
	for i := range dump.Objects {
		p.objects[dump.Objects[i].ID] = &dump.Objects[i]
	}
	for i := range dump.Scopes {
		p.scopes[dump.Scopes[i].ID] = &dump.Scopes[i]
	}

	if opts.IncludeBuiltins {
		p.builtins()
	}
	for i := range dump.Objects {
		obj := &dump.Objects[i]
		if obj.Kind != "program" {
			continue
		}
		p.printf("%s %s\n", p.styles.heading.Render("Program"), obj.Name)
		p.scope(obj.Owns, 1)
	}
	return p.err
}

func (p *dumpPrinter) printf(format string, args ...any) {
	if p.err != nil {
		return
	}
	_, p.err = fmt.Fprintf(p.w, format, args...)
}

func (p *dumpPrinter) builtins() {
	var ids []uint32
	for _, gid := range p.dump.Globals {
		if obj := p.objects[gid]; obj != nil && hasFlag(obj, "builtin") {
			ids = append(ids, gid)
		}
	}
	if len(ids) == 0 {
		return
	}
	p.printf("%s\n", p.styles.heading.Render("Builtins"))
	p.objectList(ids, 1)
}

func (p *dumpPrinter) scope(id uint32, depth int) {
	scope := p.scopes[id]
	if scope == nil {
		return
	}
	p.objectList(scope.Objects, depth)
}

func (p *dumpPrinter) objectList(ids []uint32, depth int) {
	nameWidth := 0
	for _, oid := range ids {
		if obj := p.objects[oid]; obj != nil {
			nameWidth = max(nameWidth, runewidth.StringWidth(p.clip(obj.Name)))
		}
	}
	indent := strings.Repeat(dumpIndent, depth)
	for _, oid := range ids {
		obj := p.objects[oid]
		if obj == nil {
			continue
		}
		kind := p.styles.kind.Render(runewidth.FillRight(kindLabel(obj.Kind), 9))
		name := runewidth.FillRight(p.clip(obj.Name), nameWidth)
		if hasFlag(obj, "builtin") {
			name = p.styles.builtin.Render(name)
		}
		p.printf("%s%s %s%s\n", indent, kind, name, p.detail(obj))
		if obj.Owns != 0 {
			p.scope(obj.Owns, depth+1)
		}
	}
}

func (p *dumpPrinter) clip(name string) string {
	if p.opts.Width <= 0 {
		return name
	}
	return truncate(name, p.opts.Width)
}

func (p *dumpPrinter) detail(obj *ObjectJSON) string {
	var d string
	switch obj.Kind {
	case "constant":
		d = " = " + obj.Value
	case "type":
		d = " = " + obj.Type
	case "variable":
		d = " : " + obj.Type
	case "parameter":
		d = " : " + obj.Type
		if obj.Mode == "reference" {
			d = " : VAR " + obj.Type
		}
	case "function":
		d = fmt.Sprintf(" (%s) : %s", p.paramNames(obj), obj.Type)
	case "procedure":
		d = fmt.Sprintf(" (%s)", p.paramNames(obj))
	default:
		return ""
	}
	return p.styles.detail.Render(d)
}

func (p *dumpPrinter) paramNames(obj *ObjectJSON) string {
	return strings.Join(obj.ParamNames, ", ")
}

func kindLabel(kind string) string {
	switch kind {
	case "constant":
		return "Const"
	case "variable":
		return "Var"
	case "parameter":
		return "Param"
	case "":
		return "?"
	default:
		return strings.ToUpper(kind[:1]) + kind[1:]
	}
}

func hasFlag(obj *ObjectJSON, flag string) bool {
	for _, f := range obj.Flags {
		if f == flag {
			return true
		}
	}
	return false
}

func truncate(value string, width int) string {
	if width <= 0 {
		return value
	}
	if runewidth.StringWidth(value) <= width {
		return value
	}
	if width <= 3 {
		return runewidth.Truncate(value, width, "")
	}
	return runewidth.Truncate(value, width-3, "...")
}
