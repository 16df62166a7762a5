// Package catalog manages persistence for videos, actors, and aliases
// backed by SQLite.
//
// The store holds the canonical actor identity table (one row per person,
// plus alias rows that each bind to exactly one actor) and the video catalog
// keyed by filepath. Writes that must observe uniqueness run inside a
// transaction so concurrent CLI invocations cannot race past the constraint
// checks.
package catalog
