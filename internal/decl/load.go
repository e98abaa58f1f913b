package decl

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"
)

// ErrNoProgram reports a manifest without a [program] table.
var ErrNoProgram = errors.New("missing [program]")

// Load reads and decodes a manifest. Unknown keys are rejected; semantic
// problems are left to Validate and the driver.
func Load(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	m, err := Parse(string(data))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	m.File = path
	return m, nil
}

// Parse decodes manifest text.
func Parse(text string) (*Manifest, error) {
	var m Manifest
	meta, err := toml.Decode(text, &m)
	if err != nil {
		return nil, fmt.Errorf("failed to parse TOML: %w", err)
	}
	if !meta.IsDefined("program") {
		return nil, ErrNoProgram
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, 0, len(undecoded))
		for _, k := range undecoded {
			keys = append(keys, k.String())
		}
		return nil, fmt.Errorf("unknown keys: %s", strings.Join(keys, ", "))
	}
	return &m, nil
}

// Files expands arguments into manifest paths. Directories contribute their
// *.toml files (not recursively, configuration files excluded) in lexical
// order.
func Files(args []string, skip string) ([]string, error) {
	var out []string
	for _, arg := range args {
		info, err := os.Stat(arg)
		if err != nil {
			return nil, err
		}
		if !info.IsDir() {
			out = append(out, arg)
			continue
		}
		entries, err := os.ReadDir(arg)
		if err != nil {
			return nil, err
		}
		found := make([]string, 0, len(entries))
		for _, e := range entries {
			if !isManifestEntry(e, skip) {
				continue
			}
			found = append(found, filepath.Join(arg, e.Name()))
		}
		sort.Strings(found)
		out = append(out, found...)
	}
	return out, nil
}

func isManifestEntry(e fs.DirEntry, skip string) bool {
	if e.IsDir() || filepath.Ext(e.Name()) != ".toml" {
		return false
	}
	return skip == "" || e.Name() != skip
}
