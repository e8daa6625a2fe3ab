// Package trace records what the analyzer is doing: runs, phases,
// documents and features, as nested spans.
//
// Tracers:
//
//   - Nop: zero-overhead tracer when disabled
//   - StreamTracer: writes every event to a file or stderr
//   - RingTracer: keeps the last events in memory for dumps
//   - MultiTracer: fans out to several tracers
//
// Levels map to scopes: phase shows driver and pass spans, detail adds
// per-document spans, debug adds per-feature events.
//
// Tracers travel through context:
//
//	ctx = trace.WithTracer(ctx, tracer)
//	ctx, span := trace.Start(ctx, trace.ScopePass, "scan")
//	defer span.End("")
package trace
