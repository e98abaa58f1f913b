package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func TestDiscoverWalksUp(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, FileName), "[symtab]\nfold_case = true\nmax_ident_len = 31\n")
	nested := filepath.Join(root, "a", "b")
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}

	loaded, err := Discover(nested)
	if err != nil {
		t.Fatalf("discover: %v", err)
	}
	if loaded.Path != filepath.Join(root, FileName) {
		t.Fatalf("unexpected path %q", loaded.Path)
	}
	cfg := loaded.Config
	if !cfg.Symtab.FoldCase || cfg.Symtab.MaxIdentLen != 31 {
		t.Fatalf("symtab section not applied: %+v", cfg.Symtab)
	}
	if cfg.Diagnostics.Max != 100 || cfg.Output.Format != "pretty" {
		t.Fatalf("defaults lost: %+v", cfg)
	}
}

func TestDiscoverDefaults(t *testing.T) {
	loaded, err := Discover(t.TempDir())
	if err != nil {
		t.Fatalf("discover: %v", err)
	}
	if loaded.Path != "" && !strings.HasSuffix(loaded.Path, FileName) {
		t.Fatalf("unexpected path %q", loaded.Path)
	}
	if loaded.Path == "" && loaded.Config != Default() {
		t.Fatalf("expected defaults, got %+v", loaded.Config)
	}
}

func TestLoadRejectsBadValues(t *testing.T) {
	cases := []struct {
		name    string
		content string
		want    string
	}{
		{"bad ident len", "[symtab]\nmax_ident_len = 0\n", "max_ident_len"},
		{"bad format", "[output]\nformat = \"xml\"\n", "format"},
		{"bad color", "[output]\ncolor = \"sometimes\"\n", "color"},
		{"unknown key", "[symtab]\ncase = true\n", "unknown keys"},
		{"broken toml", "[symtab\n", "failed to parse"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), FileName)
			writeFile(t, path, tc.content)
			_, err := Load(path)
			if err == nil || !strings.Contains(err.Error(), tc.want) {
				t.Fatalf("expected error containing %q, got %v", tc.want, err)
			}
		})
	}
}
