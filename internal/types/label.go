package types

import (
	"strconv"
	"strings"
)

// String renders the descriptor using KPL surface syntax.
func (t *Type) String() string {
	var sb strings.Builder
	writeLabel(&sb, t, 0)
	return sb.String()
}

func writeLabel(sb *strings.Builder, t *Type, depth int) {
	if t == nil {
		sb.WriteString("?")
		return
	}
	if depth > 32 {
		sb.WriteString("...")
		return
	}
	switch t.Kind {
	case KindInt:
		sb.WriteString("INTEGER")
	case KindChar:
		sb.WriteString("CHAR")
	case KindArray:
		sb.WriteString("ARRAY(. ")
		sb.WriteString(strconv.FormatUint(uint64(t.Size), 10))
		sb.WriteString(" .) OF ")
		writeLabel(sb, t.Elem, depth+1)
	default:
		sb.WriteString("?")
	}
}
