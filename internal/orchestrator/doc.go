// Package orchestrator drives a filename through the full resolution
// pipeline: parse, actor identity resolution, optional enrichment, and
// consolidation into a catalogued video record.
//
// Enrichment runs only when the parsed record is missing its code, title, or
// actors, and provider failures degrade the pass instead of aborting it.
// Only persistence failures are fatal. Every processing run carries a
// correlation ID so log lines from one file can be grouped.
package orchestrator
