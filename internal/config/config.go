// Package config loads kplsym.toml, the per-project settings of the symbol
// table checker.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
)

// FileName is the configuration file searched for by Find.
const FileName = "kplsym.toml"

// Config mirrors kplsym.toml.
type Config struct {
	Symtab      SymtabConfig      `toml:"symtab"`
	Diagnostics DiagnosticsConfig `toml:"diagnostics"`
	Output      OutputConfig      `toml:"output"`
}

type SymtabConfig struct {
	MaxIdentLen int  `toml:"max_ident_len"`
	FoldCase    bool `toml:"fold_case"`
}

type DiagnosticsConfig struct {
	Max              int  `toml:"max"`
	WarnShadowing    bool `toml:"warn_shadowing"`
	WarningsAsErrors bool `toml:"warnings_as_errors"`
}

type OutputConfig struct {
	Format string `toml:"format"`
	Color  string `toml:"color"`
}

// Default returns the settings used when no kplsym.toml exists.
func Default() Config {
	return Config{
		Symtab:      SymtabConfig{MaxIdentLen: 15},
		Diagnostics: DiagnosticsConfig{Max: 100, WarnShadowing: true},
		Output:      OutputConfig{Format: "pretty", Color: "auto"},
	}
}

// Loaded is a configuration together with where it came from. Path is
// empty for defaults.
type Loaded struct {
	Path   string
	Root   string
	Config Config
}

// Find walks from startDir towards the filesystem root looking for
// kplsym.toml.
func Find(startDir string) (string, bool, error) {
	if startDir == "" {
		startDir = "."
	}
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", false, fmt.Errorf("failed to resolve start directory: %w", err)
	}
	for {
		candidate := filepath.Join(dir, FileName)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, true, nil
		} else if !errors.Is(err, os.ErrNotExist) {
			return "", false, fmt.Errorf("failed to stat %q: %w", candidate, err)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", false, nil
}

// Discover finds and loads the nearest kplsym.toml, falling back to
// Default when there is none.
func Discover(startDir string) (*Loaded, error) {
	path, ok, err := Find(startDir)
	if err != nil {
		return nil, err
	}
	if !ok {
		return &Loaded{Config: Default()}, nil
	}
	return Load(path)
}

// Load reads an explicit configuration file. Keys absent from the file keep
// their defaults.
func Load(path string) (*Loaded, error) {
	cfg := Default()
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, 0, len(undecoded))
		for _, k := range undecoded {
			keys = append(keys, k.String())
		}
		return nil, fmt.Errorf("%s: unknown keys: %s", path, strings.Join(keys, ", "))
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return &Loaded{
		Path:   path,
		Root:   filepath.Dir(path),
		Config: cfg,
	}, nil
}

// Validate checks value ranges.
func (c Config) Validate() error {
	if c.Symtab.MaxIdentLen <= 0 {
		return fmt.Errorf("[symtab].max_ident_len must be positive, got %d", c.Symtab.MaxIdentLen)
	}
	if c.Diagnostics.Max < 0 {
		return fmt.Errorf("[diagnostics].max must not be negative, got %d", c.Diagnostics.Max)
	}
	switch c.Output.Format {
	case "pretty", "json", "short":
	default:
		return fmt.Errorf("[output].format must be pretty, json or short, got %q", c.Output.Format)
	}
	switch c.Output.Color {
	case "auto", "on", "off":
	default:
		return fmt.Errorf("[output].color must be auto, on or off, got %q", c.Output.Color)
	}
	return nil
}
