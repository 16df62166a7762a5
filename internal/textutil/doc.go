// Package textutil provides text processing helpers shared by the filename
// parser and the metadata orchestrator.
//
// It covers two concerns:
//   - Sanitizing metadata fragments for safe use in generated filenames
//   - Token-based fingerprints with cosine similarity, used to detect
//     near-duplicate title suggestions during metadata consolidation
//
// Tokenization lowercases text, splits on non-alphanumeric characters, and
// drops tokens shorter than 3 characters.
package textutil
