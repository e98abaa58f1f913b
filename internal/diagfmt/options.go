package diagfmt

import (
	"fmt"
	"path/filepath"
	"strings"
)

// PathMode controls how manifest paths are printed.
type PathMode uint8

const (
	// PathModeAuto prints paths as given on the command line.
	PathModeAuto PathMode = iota
	PathModeAbsolute
	// PathModeRelative prints paths relative to BaseDir.
	PathModeRelative
	PathModeBasename
)

var pathModeNames = [...]string{"auto", "absolute", "relative", "basename"}

func (m PathMode) String() string {
	if int(m) < len(pathModeNames) {
		return pathModeNames[m]
	}
	return "unknown"
}

// ParsePathMode accepts the names printed by String.
func ParsePathMode(s string) (PathMode, error) {
	for i, name := range pathModeNames {
		if strings.EqualFold(s, name) {
			return PathMode(i), nil
		}
	}
	return PathModeAuto, fmt.Errorf("invalid path mode %q (expected: %s)", s, strings.Join(pathModeNames[:], "|"))
}

// Apply rewrites path for display. Paths that cannot be resolved are
// returned unchanged.
func (m PathMode) Apply(path, base string) string {
	if path == "" {
		return path
	}
	switch m {
	case PathModeAbsolute:
		if abs, err := filepath.Abs(path); err == nil {
			return abs
		}
	case PathModeRelative:
		if base == "" {
			break
		}
		if abs, err := filepath.Abs(path); err == nil {
			if rel, err := filepath.Rel(base, abs); err == nil {
				return rel
			}
		}
	case PathModeBasename:
		return filepath.Base(path)
	}
	return path
}

type PrettyOpts struct {
	Color     bool
	PathMode  PathMode
	BaseDir   string
	ShowNotes bool
}

type JSONOpts struct {
	PathMode     PathMode
	BaseDir      string
	Max          int // caps the output only; the bag is left alone
	IncludeNotes bool
}

// DumpOpts configures symbol table dumps.
type DumpOpts struct {
	Filter          string // glob over object names, empty keeps all
	IncludeBuiltins bool
	Color           bool
	Width           int // name column cap for pretty dumps, 0 is unlimited
}
