package driver

import (
	"context"
	"fmt"
	"runtime"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"kplc/internal/observ"
	"kplc/internal/trace"
)

// CheckFiles checks every manifest in paths in parallel. Results come back
// in input order and share one session id. The error is only non-nil when
// ctx was cancelled; per-file problems live in each result's bag.
func CheckFiles(ctx context.Context, paths []string, opts Options) ([]*Result, error) {
	if len(paths) == 0 {
		return nil, ErrNoManifests
	}
	if opts.Session == "" {
		opts.Session = uuid.NewString()
	}
	ctx = trace.WithSession(ctx, opts.Session)
	ctx, span := trace.Start(ctx, trace.ScopeDriver, "check-files")
	span.WithExtra("files", fmt.Sprint(len(paths)))
	defer span.End("")

	jobs := opts.Jobs
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}

	// each goroutine writes only its own index
	results := make([]*Result, len(paths))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(min(jobs, len(paths)))

	for i, path := range paths {
		g.Go(func() error {
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}
			res, err := Check(gctx, path, opts)
			results[i] = res
			if err == nil && opts.OnResult != nil {
				opts.OnResult(res)
			}
			return err
		})
	}

	if err := g.Wait(); err != nil {
		return results, err
	}
	return results, nil
}

// MergeTimers folds the per-file timers of results into one, each phase
// prefixed with its file path.
func MergeTimers(results []*Result) *observ.Timer {
	total := observ.NewTimer()
	for _, r := range results {
		if r != nil {
			total.Merge(r.Path, r.Timer)
		}
	}
	return total
}
