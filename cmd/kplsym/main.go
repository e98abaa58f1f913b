package main

import (
	"context"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"kplc/internal/version"
)

var rootCmd = &cobra.Command{
	Use:   "kplsym",
	Short: "KPL symbol table checker",
	Long: `kplsym replays KPL declaration manifests into the compiler's symbol table,
reports declaration and resolution errors, and dumps the resulting scopes`,
	SilenceUsage:      true,
	PersistentPreRunE: setupRoot,
	PersistentPostRun: func(*cobra.Command, []string) { shutdown() },
}

// main registers subcommands and global flags and runs the CLI. Any
// returned error exits with status 1.
func main() {
	rootCmd.Version = version.Version

	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(dumpCmd)
	rootCmd.AddCommand(builtinsCmd)
	rootCmd.AddCommand(versionCmd)

	rootCmd.PersistentFlags().String("color", "", "colorize output (auto|on|off), overrides kplsym.toml")
	rootCmd.PersistentFlags().String("config", "", "path to kplsym.toml (default: searched upwards from the working directory)")
	rootCmd.PersistentFlags().Int("max-diagnostics", 0, "maximum number of diagnostics per manifest, overrides kplsym.toml")
	rootCmd.PersistentFlags().Bool("timings", false, "show timing information")
	rootCmd.PersistentFlags().String("trace", "", "trace output file (\"-\" for stderr)")
	rootCmd.PersistentFlags().String("trace-level", "off", "trace level (off|error|phase|detail|debug)")
	rootCmd.PersistentFlags().String("trace-mode", "stream", "trace storage (stream|ring|both)")
	rootCmd.PersistentFlags().Int("trace-ring-size", 4096, "events kept by the ring tracer")
	rootCmd.PersistentFlags().String("cpu-profile", "", "write a CPU profile to file")
	rootCmd.PersistentFlags().String("mem-profile", "", "write a heap profile to file on exit")
	rootCmd.PersistentFlags().String("runtime-trace", "", "write a Go runtime trace to file")

	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		shutdown()
		os.Exit(1)
	}
}

// setupRoot runs before every subcommand: profiling, tracing, then settings.
func setupRoot(cmd *cobra.Command, _ []string) error {
	if err := setupProfiling(cmd); err != nil {
		return err
	}
	if err := setupTracing(cmd); err != nil {
		return err
	}
	return loadSettings(cmd)
}

// shutdown is safe to call twice; a failing command reaches it from main.
func shutdown() {
	closeTracing()
	stopProfiling()
}

// isTerminal reports whether f is attached to a terminal.
func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}
