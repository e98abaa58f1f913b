package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"kplc/internal/symbols"
)

var builtinsCmd = &cobra.Command{
	Use:   "builtins",
	Short: "List the predeclared KPL routines",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		format, err := cmd.Flags().GetString("format")
		if err != nil {
			return fmt.Errorf("failed to get format flag: %w", err)
		}
		switch format {
		case "pretty":
			return printBuiltins(cmd.OutOrStdout())
		case "json":
			return printBuiltinsJSON(cmd.OutOrStdout())
		default:
			return fmt.Errorf("unknown format: %s", format)
		}
	},
}

func init() {
	builtinsCmd.Flags().String("format", "pretty", "output format (pretty|json)")
}

type builtinParamJSON struct {
	Name string `json:"name"`
	Mode string `json:"mode"`
	Type string `json:"type"`
}

type builtinJSON struct {
	Name    string             `json:"name"`
	Kind    string             `json:"kind"`
	Params  []builtinParamJSON `json:"params"`
	Returns string             `json:"returns,omitempty"`
}

func builtinEntries() []builtinJSON {
	entries := symbols.Builtins()
	out := make([]builtinJSON, 0, len(entries))
	for _, e := range entries {
		b := builtinJSON{Name: e.Name, Kind: e.Kind.String(), Params: []builtinParamJSON{}}
		for _, p := range e.Params {
			b.Params = append(b.Params, builtinParamJSON{Name: p.Name, Mode: p.Mode.String(), Type: p.Type().String()})
		}
		if e.Return != nil {
			b.Returns = e.Return().String()
		}
		out = append(out, b)
	}
	return out
}

// printBuiltins writes one KPL-style signature per line, e.g.
// "procedure WRITEI(i : INTEGER)".
func printBuiltins(w io.Writer) error {
	for _, b := range builtinEntries() {
		params := make([]string, len(b.Params))
		for i, p := range b.Params {
			prefix := ""
			if p.Mode == symbols.ParamReference.String() {
				prefix = "VAR "
			}
			params[i] = fmt.Sprintf("%s%s : %s", prefix, p.Name, p.Type)
		}
		line := fmt.Sprintf("%-9s %s", b.Kind, b.Name)
		if len(params) > 0 {
			line += "(" + strings.Join(params, "; ") + ")"
		}
		if b.Returns != "" {
			line += " : " + b.Returns
		}
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

func printBuiltinsJSON(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(builtinEntries())
}
