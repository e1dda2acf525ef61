// Package log provides the machine-readable translation event log.
//
// Every record a loader reads produces one Event saying whether it was
// accepted or rejected and, when rejected, which fields violated which
// constraint. It is separate from operational logging (slog): the event
// log is a complete trace that can be filtered and summarized after a run.
//
// # Basic Usage
//
//	// For development: log to console via slog
//	opts.Events = log.NewSlogAdapter(slog.Default())
//
//	// For batch runs: write to a binary file
//	opts.Events, _ = log.NewFileLogger("run.rlog")
//
//	// Both: use MultiLogger
//	opts.Events = log.NewMultiLogger(
//	    log.NewSlogAdapter(slog.Default()),
//	    fileLogger,
//	)
//
// # File Format
//
// Log files are a stream of CBOR-encoded events with the .rlog extension.
// The r2x-plexos log command prints statistics and filtered views.
package log
