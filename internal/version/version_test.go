package version

import (
	"runtime/debug"
	"testing"

	"github.com/fatih/color"
)

func TestCollectTrimsAndDefaults(t *testing.T) {
	origVersion, origCommit, origDate := Version, GitCommit, BuildDate
	defer func() {
		Version, GitCommit, BuildDate = origVersion, origCommit, origDate
	}()

	Version = "  1.2.3 "
	GitCommit = "abc123def456\n"
	BuildDate = " 2026-01-02T03:04:05Z"
	info := Collect()
	if info.Version != "1.2.3" || info.GitCommit != "abc123def456" || info.BuildDate != "2026-01-02T03:04:05Z" {
		t.Fatalf("unexpected info %+v", info)
	}

	Version = ""
	if got := Collect().Version; got != "dev" {
		t.Fatalf("Version = %q, want dev", got)
	}
}

func TestWithVCSFillsOnlyBlanks(t *testing.T) {
	settings := []debug.BuildSetting{
		{Key: "vcs.revision", Value: "feedface"},
		{Key: "vcs.time", Value: "2026-10-01T00:00:00Z"},
		{Key: "vcs.modified", Value: "true"},
	}
	got := withVCS(Info{Version: "1.0.0", GitCommit: "pinned"}, settings)
	if got.GitCommit != "pinned" || got.BuildDate != "2026-10-01T00:00:00Z" || !got.Modified {
		t.Fatalf("unexpected info %+v", got)
	}
}

func TestColoredPlainWhenDisabled(t *testing.T) {
	orig := color.NoColor
	color.NoColor = true
	defer func() { color.NoColor = orig }()

	for _, v := range []string{"0.1.0", "1.0.0-beta.1", "0.1.0-dev", "nightly"} {
		if got := Colored(v); got != v {
			t.Errorf("Colored(%q) = %q with colours disabled", v, got)
		}
	}
}
