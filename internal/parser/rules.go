package parser

import (
	"regexp"
	"strings"
)

// extractionRule pulls one kind of structure out of the working text.
// ok reports whether the rule matched; remainder is the working text with
// the matched region removed.
type extractionRule struct {
	name  string
	apply func(working string) (matches []string, remainder string, ok bool)
}

var codeRules = []extractionRule{
	{name: "bracket-code", apply: extractBracketCode},
	{name: "bare-code", apply: extractBareCode},
}

var actorRules = []extractionRule{
	{name: "dash-suffix", apply: extractDashActors},
	{name: "capitalized-run", apply: extractCapitalizedRun},
}

var (
	bracketCodePattern   = regexp.MustCompile(`\[([\w.-]+)\]`)
	bareCodePattern      = regexp.MustCompile(`((?:[A-Z][A-Za-z0-9]*_)*[A-Z][A-Za-z0-9]*[-_][A-Za-z0-9]*\d[A-Za-z0-9]*)`)
	episodeMarkerPattern = regexp.MustCompile(`(?i)[_.-](?:ep|episode|part|vol|chapter|sc)[_.-]?\d+$`)
	dashActorPattern     = regexp.MustCompile(`\s-\s+((?:[A-Z][\w\s'.-]+?)(?:\s*[,&]\s*[A-Z][\w\s'.-]+?)*)$`)
	actorSplitPattern    = regexp.MustCompile(`\s*[,&]\s*`)
	segmentPattern       = regexp.MustCompile(`[_\s]+`)
	separatorPattern     = regexp.MustCompile(`[._]`)
	doubleDashPattern    = regexp.MustCompile(`-\s*-`)
)

// runRules applies rules in order until one matches.
func runRules(rules []extractionRule, working string) (matches []string, remainder string, rule string) {
	for _, r := range rules {
		if m, rest, ok := r.apply(working); ok {
			return m, rest, r.name
		}
	}
	return nil, working, ""
}

func extractBracketCode(working string) ([]string, string, bool) {
	loc := bracketCodePattern.FindStringSubmatchIndex(working)
	if loc == nil {
		return nil, working, false
	}
	code := working[loc[2]:loc[3]]
	remainder := working[:loc[0]] + " " + working[loc[1]:]
	return []string{code}, strings.Trim(remainder, " -_."), true
}

func extractBareCode(working string) ([]string, string, bool) {
	loc := bareCodePattern.FindStringSubmatchIndex(working)
	if loc == nil {
		return nil, working, false
	}
	code := working[loc[2]:loc[3]]
	if episodeMarkerPattern.MatchString(code) {
		return nil, working, false
	}
	remainder := working[:loc[0]] + " " + working[loc[1]:]
	return []string{code}, strings.Trim(remainder, " -_."), true
}

func extractDashActors(working string) ([]string, string, bool) {
	loc := dashActorPattern.FindStringSubmatchIndex(working)
	if loc == nil {
		return nil, working, false
	}
	raw := working[loc[2]:loc[3]]
	var names []string
	for _, part := range actorSplitPattern.Split(raw, -1) {
		name := normalizeName(part)
		if name == "" || BlacklistedCandidate(name) {
			continue
		}
		names = append(names, name)
	}
	if len(names) == 0 {
		return nil, working, false
	}
	remainder := strings.Trim(working[:loc[0]], " -_.")
	return names, remainder, true
}

// extractCapitalizedRun scans trailing separator-delimited segments for a run
// of up to two plausible name tokens. Descriptor words and non-name segments
// end the scan; a capitalized stop-word rejects the whole candidate. At least
// one segment must remain for the title.
func extractCapitalizedRun(working string) ([]string, string, bool) {
	segs := splitSegments(working)
	if len(segs) < 2 {
		return nil, working, false
	}

	var run []textSegment
	for i := len(segs) - 1; i >= 1 && len(run) < 2; i-- {
		seg := segs[i]
		if IsStopWord(seg.text) {
			if isCapitalizedToken(seg.text) {
				return nil, working, false
			}
			break
		}
		if IsDescriptorWord(seg.text) || !qualifiesAsNameToken(seg.text) {
			break
		}
		run = append([]textSegment{seg}, run...)
	}
	if len(run) == 0 {
		return nil, working, false
	}

	candidate := working[run[0].start:run[len(run)-1].end]
	if BlacklistedCandidate(candidate) {
		return nil, working, false
	}

	var names []string
	if strings.Contains(candidate, "_") {
		// Underscore-separated tokens are distinct names.
		for _, seg := range run {
			names = append(names, normalizeName(seg.text))
		}
	} else {
		names = []string{normalizeName(candidate)}
	}

	remainder := strings.Trim(working[:run[0].start], " -_.")
	return names, remainder, true
}

type textSegment struct {
	text  string
	start int
	end   int
}

func splitSegments(working string) []textSegment {
	var segs []textSegment
	pos := 0
	for _, sep := range segmentPattern.FindAllStringIndex(working, -1) {
		if sep[0] > pos {
			segs = append(segs, textSegment{text: working[pos:sep[0]], start: pos, end: sep[0]})
		}
		pos = sep[1]
	}
	if pos < len(working) {
		segs = append(segs, textSegment{text: working[pos:], start: pos, end: len(working)})
	}
	return segs
}

var (
	nameTokenPattern   = regexp.MustCompile(`^[A-Z][A-Za-z']+$`)
	initialPattern     = regexp.MustCompile(`^[A-Z]$`)
	capitalizedPattern = regexp.MustCompile(`^[A-Z]`)
	lowercasePattern   = regexp.MustCompile(`[a-z]`)
)

// qualifiesAsNameToken accepts a single initial or a capitalized word with at
// least one lowercase letter. All-caps segments are title text.
func qualifiesAsNameToken(token string) bool {
	if initialPattern.MatchString(token) {
		return true
	}
	return nameTokenPattern.MatchString(token) && lowercasePattern.MatchString(token)
}

func isCapitalizedToken(token string) bool {
	return capitalizedPattern.MatchString(token)
}

// normalizeName flattens separator characters and whitespace in a name.
func normalizeName(raw string) string {
	flattened := separatorPattern.ReplaceAllString(raw, " ")
	return strings.Join(strings.Fields(flattened), " ")
}

// cleanTitle turns leftover working text into a display title.
func cleanTitle(raw string) string {
	flattened := separatorPattern.ReplaceAllString(raw, " ")
	flattened = doubleDashPattern.ReplaceAllString(flattened, " ")
	flattened = strings.Trim(flattened, " -")
	return strings.Join(strings.Fields(flattened), " ")
}
