// Package services defines the error taxonomy shared by pipeline components
// and their external collaborators.
//
// Errors are tagged with sentinel markers so callers can classify failures
// without string matching: provider errors degrade the record at the
// orchestrator boundary, while persistence errors abort the item being
// processed.
package services
