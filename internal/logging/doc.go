// Package logging constructs slog loggers with console and JSON handlers and
// provides typed attribute helpers plus context-carried run metadata.
//
// Every pipeline run is tagged with a correlation ID; WithContext attaches
// the run fields stored in a context to a logger so component packages never
// thread identifiers manually.
package logging
