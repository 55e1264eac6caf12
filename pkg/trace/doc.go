// Package trace records every HAL invocation made during a conformance run.
//
// It is separate from operational logging (slog): the trace is a complete,
// machine-readable record of which entry point was called by which test and
// what status it returned, so a failing run can be replayed offline.
//
// # Basic Usage
//
//	// Console output while developing a vendor adapter
//	logger := trace.NewSlogAdapter(slog.Default())
//
//	// Binary file for later analysis with hal-trace
//	logger, _ := trace.NewFileLogger("run.htrace")
//
//	// Both
//	logger := trace.NewMultiLogger(slogAdapter, fileLogger)
//
// # File Format
//
// Trace files are a stream of CBOR encoded Events with integer keys. The
// hal-trace CLI views, summarises and exports them.
package trace
