package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"kplc/internal/symbols"
	"kplc/internal/version"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show kplsym build information",
	Args:  cobra.NoArgs,
	RunE:  runVersion,
}

func init() {
	versionCmd.Flags().Bool("hash", false, "include git commit hash")
	versionCmd.Flags().Bool("date", false, "include build timestamp")
	versionCmd.Flags().Bool("full", false, "show all build metadata and symbol table limits")
	versionCmd.Flags().String("format", "pretty", "output format (pretty|json)")
}

// versionReport is what the version command prints; unset sections are
// left out of the JSON form.
type versionReport struct {
	Tool      string       `json:"tool"`
	Version   string       `json:"version"`
	GitCommit string       `json:"git_commit,omitempty"`
	BuildDate string       `json:"build_date,omitempty"`
	GoVersion string       `json:"go_version,omitempty"`
	Modified  bool         `json:"modified,omitempty"`
	Symtab    *symtabLimit `json:"symtab,omitempty"`
}

type symtabLimit struct {
	MaxIdentLen int `json:"max_ident_len"`
	Builtins    int `json:"builtins"`
}

func runVersion(cmd *cobra.Command, _ []string) error {
	flags := cmd.Flags()
	showHash, _ := flags.GetBool("hash")
	showDate, _ := flags.GetBool("date")
	full, _ := flags.GetBool("full")
	format, _ := flags.GetString("format")

	rep := buildVersionReport(version.Collect(), showHash || full, showDate || full, full)
	switch strings.ToLower(format) {
	case "pretty":
		printVersion(cmd.OutOrStdout(), rep)
		return nil
	case "json":
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(rep)
	}
	return fmt.Errorf("unsupported format %q (must be pretty or json)", format)
}

func buildVersionReport(info version.Info, hash, date, full bool) versionReport {
	rep := versionReport{Tool: "kplsym", Version: info.Version}
	if hash {
		rep.GitCommit = valueOrUnknown(info.GitCommit)
	}
	if date {
		rep.BuildDate = valueOrUnknown(info.BuildDate)
	}
	if full {
		rep.GoVersion = info.GoVersion
		rep.Modified = info.Modified
		rep.Symtab = &symtabLimit{MaxIdentLen: symbols.MaxIdentLen, Builtins: len(symbols.Builtins())}
	}
	return rep
}

func printVersion(out io.Writer, rep versionReport) {
	fmt.Fprintf(out, "%s %s\n", rep.Tool, version.Colored(rep.Version))
	if rep.GitCommit != "" {
		commit := rep.GitCommit
		if rep.Modified {
			commit += " (modified)"
		}
		fmt.Fprintf(out, "commit: %s\n", commit)
	}
	if rep.BuildDate != "" {
		fmt.Fprintf(out, "built:  %s\n", rep.BuildDate)
	}
	if rep.GoVersion != "" {
		fmt.Fprintf(out, "go:     %s\n", rep.GoVersion)
	}
	if rep.Symtab != nil {
		fmt.Fprintf(out, "symtab: identifiers up to %d chars, %d builtins\n", rep.Symtab.MaxIdentLen, rep.Symtab.Builtins)
	}
}

func valueOrUnknown(s string) string {
	if s == "" {
		return "unknown"
	}
	return s
}
