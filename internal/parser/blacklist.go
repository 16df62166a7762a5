package parser

import (
	"regexp"
	"strings"
)

// descriptorBlacklist holds structural/descriptive filename words that can
// never be actor names. A trailing segment matching one of these stops the
// capitalized-run scan without poisoning segments already accepted.
// Matching is case-insensitive.
var descriptorBlacklist = map[string]struct{}{
	"final":      {},
	"finale":     {},
	"extended":   {},
	"uncut":      {},
	"remastered": {},
	"official":   {},
	"trailer":    {},
	"movie":      {},
	"film":       {},
	"clip":       {},
	"ost":        {},
	"soundtrack": {},
}

// ordinalCandidatePattern rejects whole candidates shaped like part/episode
// markers ("Part 2", "Ep_01", "Scene3").
var ordinalCandidatePattern = regexp.MustCompile(`(?i)(?:part|ep|vol|chapter|scene|the|an|a)[_\s]?\d+$`)

// stopWords holds connective vocabulary. A capitalized stop-word inside a
// trailing run ("Only_In_Name") poisons the whole candidate, because the run
// is then title text, not a name.
var stopWords = map[string]struct{}{
	"in": {}, "on": {}, "of": {}, "a": {}, "an": {}, "the": {},
	"is": {}, "at": {}, "to": {}, "and": {}, "or": {}, "but": {},
	"vs": {}, "vs.": {},
}

// IsDescriptorWord reports whether a segment is a structural or descriptive
// filename word rather than a plausible name component.
func IsDescriptorWord(word string) bool {
	_, ok := descriptorBlacklist[strings.ToLower(strings.TrimSpace(word))]
	return ok
}

// IsStopWord reports whether a segment is a connective stop-word.
func IsStopWord(word string) bool {
	_, ok := stopWords[strings.ToLower(strings.TrimSpace(word))]
	return ok
}

// BlacklistedCandidate reports whether an assembled actor candidate must be
// rejected outright.
func BlacklistedCandidate(candidate string) bool {
	trimmed := strings.TrimSpace(candidate)
	if trimmed == "" {
		return true
	}
	if IsDescriptorWord(trimmed) {
		return true
	}
	return ordinalCandidatePattern.MatchString(trimmed)
}

// DescriptorWords returns the descriptor blacklist entries, for tests that
// pin membership explicitly.
func DescriptorWords() []string {
	words := make([]string, 0, len(descriptorBlacklist))
	for word := range descriptorBlacklist {
		words = append(words, word)
	}
	return words
}

// StopWords returns the stop-word entries, for tests that pin membership
// explicitly.
func StopWords() []string {
	words := make([]string, 0, len(stopWords))
	for word := range stopWords {
		words = append(words, word)
	}
	return words
}
