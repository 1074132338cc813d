// Package log provides structured pipeline tracing for lpf2-descgen.
//
// This package defines the Logger interface and Event types for capturing
// what the dump parser and the descriptor emitter did with every input line
// and every device block. It is separate from operational logging (slog):
// a trace is a complete machine-readable record of one run, useful when a
// dump produces surprising output.
//
// # Basic Usage
//
//	// For development: log to console via slog
//	parser.Logger = log.NewSlogAdapter(slog.Default())
//
//	// For later analysis: append the run to a binary trace file
//	fl, _ := log.NewFileLogger("run.ctrace", runID, "devices.txt")
//	defer fl.Close()
//	parser.Logger = fl
//
//	// Both: Combine skips nil loggers
//	parser.Logger = log.Combine(log.NewSlogAdapter(slog.Default()), fl)
//
// # Event Types
//
// Events are captured in two stages:
//   - Parse: device and mode markers, field assignments, ignored lines
//   - Emit: rendered device blocks
//
// A FileLogger brackets each run with RUN_START and RUN_DONE records.
//
// Errors in either stage carry an ErrorEventData payload.
//
// # File Format
//
// Trace files use CBOR encoding with the .ctrace extension. The lpf2-trace
// CLI tool provides viewing and statistics.
package log
