package driver

import (
	"fmt"
	"io"

	"kplc/internal/config"
	"kplc/internal/symbols"
)

// Options configure a check. Zero values are usable.
type Options struct {
	Symtab           symbols.Options
	MaxDiagnostics   int
	WarnShadowing    bool
	WarningsAsErrors bool
	// Observer, when set, sees every phase boundary.
	Observer PhaseObserver
	// OnResult, when set, is called by CheckFiles as each manifest
	// finishes, possibly from several goroutines.
	OnResult func(*Result)
	// Timings appends an ObsTimings info diagnostic to each result.
	Timings bool

	// Jobs bounds CheckFiles parallelism; 0 means GOMAXPROCS.
	Jobs int
	// Session tags trace events; generated when empty.
	Session string
	// Cache, when set, short-circuits unchanged manifests.
	Cache *DiskCache
	// CrashOut receives the ring trace of a check that panicked.
	CrashOut io.Writer
	// KeepTable retains the symbol table in the result instead of
	// releasing it with Clean.
	KeepTable bool
}

// OptionsFromConfig maps kplsym.toml settings onto driver options.
func OptionsFromConfig(cfg config.Config) Options {
	return Options{
		Symtab: symbols.Options{
			MaxIdentLen: cfg.Symtab.MaxIdentLen,
			FoldCase:    cfg.Symtab.FoldCase,
		},
		MaxDiagnostics:   cfg.Diagnostics.Max,
		WarnShadowing:    cfg.Diagnostics.WarnShadowing,
		WarningsAsErrors: cfg.Diagnostics.WarningsAsErrors,
	}
}

func (o Options) maxDiagnostics() int {
	if o.MaxDiagnostics <= 0 {
		return 100
	}
	return o.MaxDiagnostics
}

// fingerprint covers every option that changes check output.
func (o Options) fingerprint() string {
	return fmt.Sprintf("ident=%d fold=%t shadow=%t werr=%t max=%d",
		o.Symtab.MaxIdentLen, o.Symtab.FoldCase, o.WarnShadowing, o.WarningsAsErrors, o.maxDiagnostics())
}
