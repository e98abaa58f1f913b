package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"kplc/internal/config"
	"kplc/internal/decl"
	"kplc/internal/diag"
	"kplc/internal/diagfmt"
	"kplc/internal/driver"
)

var checkCmd = &cobra.Command{
	Use:   "check [flags] <manifest.toml|directory>...",
	Short: "Check KPL declaration manifests",
	Long: `Replay each manifest into a fresh symbol table and report declaration,
resolution and type errors. Directories contribute their *.toml files`,
	Args: cobra.MinimumNArgs(1),
	RunE: runCheck,
}

func init() {
	checkCmd.Flags().String("format", "", "output format (pretty|json|short), overrides kplsym.toml")
	checkCmd.Flags().Int("jobs", 0, "max parallel workers (0=auto)")
	checkCmd.Flags().Bool("with-notes", true, "include diagnostic notes in output")
	checkCmd.Flags().Bool("fullpath", false, "emit absolute file paths in output (same as --path-mode=absolute)")
	checkCmd.Flags().String("path-mode", "auto", "how file paths are printed (auto|absolute|relative|basename)")
	checkCmd.Flags().Bool("cache", false, "reuse results of unchanged manifests from the disk cache")
	checkCmd.Flags().Bool("drop-cache", false, "clear the disk cache before checking")
	checkCmd.Flags().String("ui", "off", "progress view on stderr (auto|on|off)")
	addCheckFlags(checkCmd)
}

// runCheck checks every manifest named by args and prints the diagnostics.
// It fails without usage output when any manifest has errors.
func runCheck(cmd *cobra.Command, args []string) error {
	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return fmt.Errorf("failed to get format flag: %w", err)
	}
	if format == "" {
		format = settings.Config.Output.Format
	}
	switch format {
	case "pretty", "json", "short":
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
	jobs, err := cmd.Flags().GetInt("jobs")
	if err != nil {
		return fmt.Errorf("failed to get jobs flag: %w", err)
	}
	withNotes, err := cmd.Flags().GetBool("with-notes")
	if err != nil {
		return fmt.Errorf("failed to get with-notes flag: %w", err)
	}
	fullPath, err := cmd.Flags().GetBool("fullpath")
	if err != nil {
		return fmt.Errorf("failed to get fullpath flag: %w", err)
	}
	pathModeValue, err := cmd.Flags().GetString("path-mode")
	if err != nil {
		return fmt.Errorf("failed to get path-mode flag: %w", err)
	}
	pathMode, err := diagfmt.ParsePathMode(pathModeValue)
	if err != nil {
		return err
	}
	if fullPath {
		pathMode = diagfmt.PathModeAbsolute
	}
	useCache, err := cmd.Flags().GetBool("cache")
	if err != nil {
		return fmt.Errorf("failed to get cache flag: %w", err)
	}
	dropCache, err := cmd.Flags().GetBool("drop-cache")
	if err != nil {
		return fmt.Errorf("failed to get drop-cache flag: %w", err)
	}
	uiValue, err := cmd.Flags().GetString("ui")
	if err != nil {
		return fmt.Errorf("failed to get ui flag: %w", err)
	}
	mode, err := readUIMode(uiValue)
	if err != nil {
		return err
	}

	opts, err := driverOptions(cmd)
	if err != nil {
		return err
	}
	opts.Jobs = jobs
	if useCache || dropCache {
		cache, err := driver.OpenDiskCache("kplsym")
		if err != nil {
			return fmt.Errorf("failed to open disk cache: %w", err)
		}
		if dropCache {
			if err := cache.DropAll(); err != nil {
				return fmt.Errorf("failed to drop disk cache: %w", err)
			}
		}
		if useCache {
			opts.Cache = cache
		}
	}

	paths, err := manifestPaths(args)
	if err != nil {
		return err
	}
	if len(paths) == 0 {
		return driver.ErrNoManifests
	}

	var results []*driver.Result
	if shouldUseTUI(mode) {
		results, err = runChecksWithUI(cmd.Context(), paths, opts)
	} else {
		results, err = driver.CheckFiles(cmd.Context(), paths, opts)
	}
	if err != nil {
		return fmt.Errorf("check failed: %w", err)
	}

	out := cmd.OutOrStdout()
	if err := printResults(out, results, format, pathMode, withNotes); err != nil {
		return err
	}
	if opts.Timings {
		fmt.Fprint(cmd.ErrOrStderr(), driver.MergeTimers(results).Summary())
	}

	for _, r := range results {
		if r.HasErrors() {
			cmd.SilenceErrors = true
			return errDiagnostics
		}
	}
	return nil
}

// errDiagnostics makes the process exit non-zero after the diagnostics
// have already been printed.
var errDiagnostics = errors.New("errors reported")

// manifestPaths expands args, leaving the configuration file out of
// directory listings.
func manifestPaths(args []string) ([]string, error) {
	skip := config.FileName
	if settings.Path != "" {
		skip = filepath.Base(settings.Path)
	}
	return decl.Files(args, skip)
}

func printResults(out io.Writer, results []*driver.Result, format string, pathMode diagfmt.PathMode, withNotes bool) error {
	var baseDir string
	if pathMode == diagfmt.PathModeRelative {
		baseDir, _ = os.Getwd()
	}
	jsonOpts := diagfmt.JSONOpts{PathMode: pathMode, BaseDir: baseDir, IncludeNotes: withNotes}
	switch format {
	case "short":
		all := make([]diag.Diagnostic, 0, len(results))
		for _, r := range results {
			all = append(all, r.Bag.Items()...)
		}
		if s := diag.FormatShortDiagnostics(all, withNotes); s != "" {
			fmt.Fprintln(out, s)
		}
	case "pretty":
		for idx, r := range results {
			if idx > 0 {
				fmt.Fprintln(out)
			}
			name := pathMode.Apply(r.Path, baseDir)
			status := diagfmt.Summary(r.Bag)
			if r.Cached {
				status += ", cached"
			}
			fmt.Fprintf(out, "== %s (%s) ==\n", name, status)
			if err := diagfmt.Pretty(out, r.Bag, diagfmt.PrettyOpts{
				Color:     useColor(),
				PathMode:  pathMode,
				BaseDir:   baseDir,
				ShowNotes: withNotes,
			}); err != nil {
				return fmt.Errorf("failed to format diagnostics: %w", err)
			}
		}
	case "json":
		if len(results) == 1 {
			return diagfmt.JSON(out, results[0].Bag, jsonOpts)
		}
		output := make(map[string]diagfmt.DiagnosticsOutput, len(results))
		for _, r := range results {
			output[r.Path] = diagfmt.BuildDiagnosticsOutput(r.Bag, jsonOpts)
		}
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		if err := enc.Encode(output); err != nil {
			return fmt.Errorf("failed to encode diagnostics output: %w", err)
		}
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
	return nil
}
