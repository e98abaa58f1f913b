package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"kplc/internal/config"
	"kplc/internal/driver"
)

// settings is kplsym.toml with persistent flag overrides applied.
var settings *config.Loaded

func loadSettings(cmd *cobra.Command) error {
	flags := cmd.Root().PersistentFlags()

	path, err := flags.GetString("config")
	if err != nil {
		return fmt.Errorf("failed to get config flag: %w", err)
	}
	var loaded *config.Loaded
	if path != "" {
		loaded, err = config.Load(path)
	} else {
		loaded, err = config.Discover(".")
	}
	if err != nil {
		return err
	}

	if flags.Changed("color") {
		if loaded.Config.Output.Color, err = flags.GetString("color"); err != nil {
			return fmt.Errorf("failed to get color flag: %w", err)
		}
	}
	if flags.Changed("max-diagnostics") {
		if loaded.Config.Diagnostics.Max, err = flags.GetInt("max-diagnostics"); err != nil {
			return fmt.Errorf("failed to get max-diagnostics flag: %w", err)
		}
	}
	if err := loaded.Config.Validate(); err != nil {
		return err
	}
	settings = loaded

	// fatih/color decides on its own from the environment; follow the setting
	color.NoColor = !useColor()
	return nil
}

func useColor() bool {
	switch settings.Config.Output.Color {
	case "on":
		return true
	case "off":
		return false
	}
	return isTerminal(os.Stdout)
}

// driverOptions builds check options from the settings and the command's
// own flags.
func driverOptions(cmd *cobra.Command) (driver.Options, error) {
	opts := driver.OptionsFromConfig(settings.Config)

	timings, err := cmd.Root().PersistentFlags().GetBool("timings")
	if err != nil {
		return opts, fmt.Errorf("failed to get timings flag: %w", err)
	}
	opts.Timings = timings
	opts.CrashOut = crashOutput()

	if f := cmd.Flags().Lookup("warn-shadowing"); f != nil && f.Changed {
		if opts.WarnShadowing, err = cmd.Flags().GetBool("warn-shadowing"); err != nil {
			return opts, err
		}
	}
	if f := cmd.Flags().Lookup("warnings-as-errors"); f != nil && f.Changed {
		if opts.WarningsAsErrors, err = cmd.Flags().GetBool("warnings-as-errors"); err != nil {
			return opts, err
		}
	}
	if f := cmd.Flags().Lookup("fold-case"); f != nil && f.Changed {
		if opts.Symtab.FoldCase, err = cmd.Flags().GetBool("fold-case"); err != nil {
			return opts, err
		}
	}
	return opts, nil
}

func addCheckFlags(cmd *cobra.Command) {
	cmd.Flags().Bool("warn-shadowing", true, "warn when a declaration hides an outer one, overrides kplsym.toml")
	cmd.Flags().Bool("warnings-as-errors", false, "treat warnings as errors, overrides kplsym.toml")
	cmd.Flags().Bool("fold-case", false, "resolve identifiers case-insensitively, overrides kplsym.toml")
}
