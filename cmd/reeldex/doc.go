// Package main hosts the reeldex CLI entrypoint and command graph.
//
// The Cobra-based command tree translates terminal invocations into catalog
// operations: resolving metadata for video files, browsing catalogued videos,
// managing actor identities and aliases, and configuration scaffolding. It
// centralizes configuration resolution, catalog locking, and structured
// logging setup so subcommands can focus on user experience instead of
// wiring.
//
// Keep this package lean: add new functionality by extending the internal
// packages first, then surface it through dedicated commands or flags here.
package main
