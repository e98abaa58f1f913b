package driver

import (
	"context"
	"errors"
	"fmt"
	"os"
	"runtime/debug"
	"strings"

	"github.com/google/uuid"

	"kplc/internal/decl"
	"kplc/internal/diag"
	"kplc/internal/observ"
	"kplc/internal/symbols"
	"kplc/internal/trace"
)

// Check loads one manifest and replays it into a fresh symbol table. Problems
// in the manifest end up in Result.Bag; the error return is reserved for
// context cancellation.
func Check(ctx context.Context, path string, opts Options) (*Result, error) {
	if opts.Session == "" {
		opts.Session = uuid.NewString()
	}
	if trace.CurrentSpan(ctx).Session == "" {
		ctx = trace.WithSession(ctx, opts.Session)
	}
	ctx, span := trace.Start(ctx, trace.ScopeFile, "check")
	span.WithExtra("path", path)

	res := &Result{
		Path:    path,
		Session: opts.Session,
		Bag:     diag.NewBag(opts.maxDiagnostics()),
		Timer:   observ.NewTimer(),
	}
	defer func() {
		span.WithExtra("diagnostics", fmt.Sprint(res.Bag.Len())).End("")
	}()

	if err := ctx.Err(); err != nil {
		return res, err
	}

	done := phase(res, opts, "load")
	data, err := os.ReadFile(path)
	if err != nil {
		done("failed")
		diag.ReportError(diag.BagReporter{Bag: res.Bag}, diag.IOLoadFileError, diag.Location{File: path},
			"failed to load file: "+err.Error()).Emit()
		return finish(res, opts, nil, Digest{}), nil
	}

	digest := digestFor(data, opts)
	if opts.Cache != nil {
		var payload DiskPayload
		if ok, cerr := opts.Cache.Get(digest, &payload); cerr == nil && ok {
			done("cached")
			for _, d := range payload.Diagnostics {
				res.Bag.Add(relocate(d, payload.Path, path))
			}
			res.Cached = true
			trace.Point(ctx, trace.ScopeFile, "cache-hit", path)
			return finish(res, opts, nil, digest), nil
		}
	}

	m, err := decl.Parse(string(data))
	if err != nil {
		done("failed")
		diag.ReportError(diag.BagReporter{Bag: res.Bag}, diag.DeclInvalid, diag.Location{File: path}, err.Error()).Emit()
		return finish(res, opts, opts.Cache, digest), nil
	}
	m.File = path
	res.Manifest = m
	done("")

	analyze(ctx, res, opts)
	return finish(res, opts, opts.Cache, digest), nil
}

// analyze runs manifest validation, the table walk and the table invariants.
func analyze(ctx context.Context, res *Result, opts Options) {
	m := res.Manifest
	// a condition naming the same unknown identifier twice reports it once
	rep := diag.NewDedup(diag.BagReporter{Bag: res.Bag})

	done := phase(res, opts, "validate")
	issues := m.Validate()
	for _, is := range issues {
		code, ok := issueCodes[is.Kind]
		if !ok {
			code = diag.DeclInvalid
		}
		diag.ReportError(rep, code, diag.Location{File: m.File, Path: is.Path}, is.Msg).Emit()
	}
	done(fmt.Sprintf("%d issues", len(issues)))

	if blank(m.Program.Name) {
		return
	}

	tab := symbols.Init(opts.Symtab)
	if opts.KeepTable {
		res.Table = tab
	} else {
		defer tab.Clean()
	}

	done = phase(res, opts, "walk")
	walkErr := safeWalk(ctx, m, tab, rep, opts)
	done("")
	if walkErr != nil {
		diag.ReportError(rep, diag.ObsInternalError, diag.Location{File: m.File}, walkErr.Error()).Emit()
		dumpCrash(ctx, opts)
		return
	}

	done = phase(res, opts, "invariants")
	if err := tab.Validate(); err != nil {
		for _, e := range splitErrors(err) {
			diag.ReportError(rep, diag.ObsTableInvariant, diag.Location{File: m.File}, e.Error()).Emit()
		}
	}
	done("")
}

func safeWalk(ctx context.Context, m *decl.Manifest, tab *symbols.Table, rep diag.Reporter, opts Options) (err error) {
	defer func() {
		if r := recover(); r != nil {
			trace.Point(ctx, trace.ScopeDriver, "panic", fmt.Sprint(r))
			err = fmt.Errorf("internal error: %v\n%s", r, debug.Stack())
		}
	}()
	newWalker(ctx, m.File, tab, rep, opts).program(m)
	return nil
}

func dumpCrash(ctx context.Context, opts Options) {
	if opts.CrashOut == nil {
		return
	}
	ring := trace.Ring(trace.FromContext(ctx))
	if ring == nil {
		return
	}
	fmt.Fprintf(opts.CrashOut, "trace ring for session %s:\n", opts.Session)
	if err := ring.Dump(opts.CrashOut, trace.FormatText, opts.Session); err != nil {
		fmt.Fprintf(opts.CrashOut, "failed to dump trace ring: %v\n", err)
	}
}

func splitErrors(err error) []error {
	if joined, ok := err.(interface{ Unwrap() []error }); ok {
		return joined.Unwrap()
	}
	return []error{err}
}

// finish applies the severity policy, sorts, stores the result in cache
// when one is given and finally appends timings, which are never cached.
func finish(res *Result, opts Options, cache *DiskCache, digest Digest) *Result {
	if opts.WarningsAsErrors && !res.Cached {
		res.Bag.Transform(func(d diag.Diagnostic) diag.Diagnostic {
			if d.Severity == diag.SevWarning {
				d.Severity = diag.SevError
			}
			return d
		})
	}
	res.Bag.Sort()
	store(cache, digest, res)
	if opts.Timings {
		appendTimings(res.Bag, "check", res.Path, res.Timer)
	}
	return res
}

// store caches a finished check. Internal errors are never cached.
func store(c *DiskCache, key Digest, res *Result) {
	if c == nil {
		return
	}
	for _, d := range res.Bag.Items() {
		if d.Code == diag.ObsInternalError {
			return
		}
	}
	payload := &DiskPayload{
		Path:        res.Path,
		Diagnostics: append([]diag.Diagnostic(nil), res.Bag.Items()...),
	}
	if res.Manifest != nil {
		payload.Program = res.Manifest.Program.Name
	}
	// a failed store only costs the next run a full check
	_ = c.Put(key, payload)
}

// relocate moves d, stored for a manifest at from, onto the identical
// manifest at to.
func relocate(d diag.Diagnostic, from, to string) diag.Diagnostic {
	if from == to {
		return d
	}
	if d.Primary.File == from {
		d.Primary.File = to
	}
	if len(d.Notes) > 0 {
		notes := make([]diag.Note, len(d.Notes))
		for i, n := range d.Notes {
			if n.Loc.File == from {
				n.Loc.File = to
			}
			notes[i] = n
		}
		d.Notes = notes
	}
	return d
}

// ErrNoManifests reports an argument list that expanded to nothing.
var ErrNoManifests = errors.New("no manifests to check")

// Summary renders one line per result, e.g. "ok a.toml" or "FAIL b.toml (2 errors)".
func Summary(results []*Result) string {
	var sb strings.Builder
	for _, r := range results {
		if r == nil {
			continue
		}
		errs := r.Bag.Count(diag.SevError)
		status := "ok"
		if errs > 0 {
			status = "FAIL"
		}
		fmt.Fprintf(&sb, "%-4s %s", status, r.Path)
		if errs > 0 {
			fmt.Fprintf(&sb, " (%d errors)", errs)
		}
		if r.Cached {
			sb.WriteString(" [cached]")
		}
		sb.WriteString("\n")
	}
	return sb.String()
}
