package parser

import "strings"

// DraftRecord is the parser's raw extraction from a filename. It is produced
// once per Parse call and never mutated afterwards; consolidation happens
// downstream in the orchestrator.
type DraftRecord struct {
	Code           string
	Actors         []string
	Title          string
	SourceFilename string
}

// Complete reports whether every critical field was recovered from the
// filename alone. Incomplete records are candidates for enrichment.
func (d DraftRecord) Complete() bool {
	return d.Code != "" && d.Title != "" && len(d.Actors) > 0
}

// Parse extracts a draft record from a raw filename. It never fails; fields
// that cannot be determined stay unset.
func Parse(filename string) DraftRecord {
	record := DraftRecord{SourceFilename: filename}

	working := stripExtension(filename)
	if working == "" {
		return record
	}
	bare := working

	codeMatch, remainder, _ := runRules(codeRules, working)
	if len(codeMatch) > 0 {
		record.Code = codeMatch[0]
	}
	working = remainder

	actorMatches, remainder, _ := runRules(actorRules, working)
	record.Actors = dedupeNames(actorMatches)
	working = remainder

	title := cleanTitle(working)
	if title == "" && record.Code == "" && len(record.Actors) == 0 {
		// Nothing recognizable: the whole name is the best title we have.
		title = strings.Join(strings.Fields(strings.ReplaceAll(bare, "_", " ")), " ")
	}
	if title != "" && strings.EqualFold(title, record.Code) {
		title = ""
	}
	if title != "" && matchesActorList(title, record.Actors) {
		title = ""
	}
	record.Title = title

	return record
}

func stripExtension(filename string) string {
	trimmed := strings.TrimSpace(filename)
	if idx := strings.LastIndex(trimmed, "."); idx > 0 {
		trimmed = trimmed[:idx]
	}
	return strings.TrimSpace(trimmed)
}

// dedupeNames removes duplicate names case-insensitively while preserving
// first-seen order and original casing.
func dedupeNames(names []string) []string {
	if len(names) == 0 {
		return nil
	}
	seen := make(map[string]struct{}, len(names))
	out := make([]string, 0, len(names))
	for _, name := range names {
		key := strings.ToLower(name)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, name)
	}
	return out
}

// matchesActorList reports whether a title candidate is just the actor list
// restated, which would duplicate semantics in the final record.
func matchesActorList(title string, actors []string) bool {
	if len(actors) == 0 {
		return false
	}
	if strings.EqualFold(title, strings.Join(actors, ", ")) {
		return true
	}
	return strings.EqualFold(title, strings.Join(actors, " "))
}
