// Package trace records spans for kplsym runs: one per invocation, one per
// manifest, one per pass and, at higher levels, one per block with a point
// event for every declaration.
//
// Events go to a stream sink (file or stderr), to an in-memory ring that is
// dumped when a check panics, or to both:
//
//	kplsym check --trace=- --trace-level=detail prog.toml
//	kplsym check --trace-mode=ring --trace-level=error prog.toml
//
// Spans nest through the context:
//
//	ctx = trace.WithTracer(ctx, tracer)
//	ctx, span := trace.Start(ctx, trace.ScopePass, "declare")
//	defer span.End("")
package trace
