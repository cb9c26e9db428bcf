// Package log provides structured event logging for the variable model
// engine.
//
// This package defines the Logger interface and Event types for capturing
// engine-level events (value changes, event dispatch, lifecycle sweeps,
// persistence, soft error conditions). It is separate from operational
// logging (slog) - the event stream is a complete machine-readable trace
// for debugging and analysis.
//
// # Basic Usage
//
// Applications configure logging by providing a Logger implementation:
//
//	// For development: log to console via slog
//	logger := log.NewSlogAdapter(slog.Default())
//
//	// For production: write to binary file
//	logger, _ := log.NewFileLogger("/var/log/varmodel/engine.vlog")
//
//	// Both: use MultiLogger
//	logger := log.NewMultiLogger(
//	    log.NewSlogAdapter(slog.Default()),
//	    fileLogger,
//	)
//
// # File Format
//
// Log files use CBOR encoding with .vlog extension. Reader streams and
// filters recorded events.
package log
