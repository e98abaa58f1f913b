package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"kplc/internal/diag"
	"kplc/internal/diagfmt"
	"kplc/internal/driver"
)

var dumpCmd = &cobra.Command{
	Use:   "dump [flags] <manifest.toml>",
	Short: "Print the symbol table built from a manifest",
	Long: `Check one manifest and print its scopes and objects. Diagnostics go to
stderr; the table is dumped even when some declarations were rejected`,
	Args: cobra.ExactArgs(1),
	RunE: runDump,
}

func init() {
	dumpCmd.Flags().String("format", "pretty", "output format (pretty|json|msgpack)")
	dumpCmd.Flags().String("filter", "", "glob over object names, e.g. \"WRITE*\"")
	dumpCmd.Flags().Bool("builtins", false, "include predeclared routines")
	dumpCmd.Flags().Int("width", 0, "truncate names to this many columns (0=no limit)")
	dumpCmd.Flags().StringP("output", "o", "", "write the dump to a file instead of stdout")
	addCheckFlags(dumpCmd)
}

func runDump(cmd *cobra.Command, args []string) error {
	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return fmt.Errorf("failed to get format flag: %w", err)
	}
	switch format {
	case "pretty", "json", "msgpack":
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
	filter, err := cmd.Flags().GetString("filter")
	if err != nil {
		return fmt.Errorf("failed to get filter flag: %w", err)
	}
	builtins, err := cmd.Flags().GetBool("builtins")
	if err != nil {
		return fmt.Errorf("failed to get builtins flag: %w", err)
	}
	width, err := cmd.Flags().GetInt("width")
	if err != nil {
		return fmt.Errorf("failed to get width flag: %w", err)
	}
	outPath, err := cmd.Flags().GetString("output")
	if err != nil {
		return fmt.Errorf("failed to get output flag: %w", err)
	}

	opts, err := driverOptions(cmd)
	if err != nil {
		return err
	}
	opts.KeepTable = true

	res, err := driver.Check(cmd.Context(), args[0], opts)
	if err != nil {
		return fmt.Errorf("check failed: %w", err)
	}
	if res.Bag.Len() > 0 {
		if s := diag.FormatShortDiagnostics(res.Bag.Items(), false); s != "" {
			fmt.Fprintln(cmd.ErrOrStderr(), s)
		}
	}
	if res.Table == nil {
		return fmt.Errorf("%s: no symbol table to dump", args[0])
	}
	defer res.Table.Clean()

	dumpOpts := diagfmt.DumpOpts{
		Filter:          filter,
		IncludeBuiltins: builtins,
		Color:           useColor() && outPath == "",
		Width:           width,
	}
	dump, err := diagfmt.BuildDump(res.Table, dumpOpts)
	if err != nil {
		return err
	}

	var out io.Writer = cmd.OutOrStdout()
	if outPath != "" {
		f, err := os.Create(outPath)
		if err != nil {
			return fmt.Errorf("failed to create %s: %w", outPath, err)
		}
		defer f.Close()
		out = f
	} else if format == "msgpack" && isTerminal(os.Stdout) {
		return fmt.Errorf("refusing to write msgpack to a terminal, use --output")
	}

	switch format {
	case "json":
		err = diagfmt.DumpJSON(out, dump)
	case "msgpack":
		err = diagfmt.DumpMsgpack(out, dump)
	default:
		err = diagfmt.DumpPretty(out, dump, dumpOpts)
	}
	if err != nil {
		return fmt.Errorf("failed to write dump: %w", err)
	}
	return nil
}
