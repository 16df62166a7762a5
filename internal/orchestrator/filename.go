package orchestrator

import (
	"path/filepath"
	"sort"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"reeldex/internal/textutil"
)

var titleCaser = cases.Title(language.English)

// generateFilename renders the standardized name for a consolidated record:
//
//	[CODE] Title - Actor One, Actor Two.ext
//
// Actor names are sorted, every part is sanitized for filesystem use, and
// the publisher stands in for a missing code. When nothing usable was
// recovered the original filename is returned unchanged. The same record
// always produces the same name.
func (o *Orchestrator) generateFilename(record consolidated, originalName string) string {
	ext := filepath.Ext(originalName)

	code := textutil.SanitizeFileNamePart(record.Code)
	title := textutil.SanitizeFileNamePart(record.Title)
	if code == "" && record.Publisher != "" {
		code = textutil.SanitizeFileNamePart(record.Publisher)
	}

	actors := make([]string, 0, len(record.Actors))
	for _, name := range record.Actors {
		if sanitized := textutil.SanitizeFileNamePart(name); sanitized != "" {
			actors = append(actors, sanitized)
		}
	}
	sort.Slice(actors, func(i, j int) bool {
		return strings.ToLower(actors[i]) < strings.ToLower(actors[j])
	})

	if title == "" && code == "" && len(actors) == 0 {
		return originalName
	}

	var b strings.Builder
	if code != "" {
		b.WriteString("[")
		b.WriteString(code)
		b.WriteString("]")
	}
	if title != "" {
		if b.Len() > 0 {
			b.WriteString(" ")
		}
		b.WriteString(title)
	}
	name := b.String()

	maxLength := o.cfg.Enrichment.MaxFilenameLength
	for len(actors) > 0 {
		candidate := joinNameActors(name, actors) + ext
		if len([]rune(candidate)) <= maxLength {
			return candidate
		}
		// Too long: drop trailing actors until the name fits.
		actors = actors[:len(actors)-1]
	}
	if name == "" {
		return originalName
	}

	candidate := name + ext
	if runes := []rune(candidate); len(runes) > maxLength {
		keep := maxLength - len([]rune(ext))
		if keep < 1 {
			return originalName
		}
		candidate = strings.TrimSpace(string([]rune(name)[:keep])) + ext
	}
	return candidate
}

func joinNameActors(name string, actors []string) string {
	list := strings.Join(actors, ", ")
	if name == "" {
		return list
	}
	return name + " - " + list
}

// fallbackTitle derives a display title from the original filename when
// neither parsing nor enrichment produced one. Actor names are removed
// first so the result never restates the actor list.
func fallbackTitle(originalName string, actors []string) string {
	base := strings.TrimSuffix(originalName, filepath.Ext(originalName))
	base = strings.NewReplacer("_", " ", ".", " ").Replace(base)
	for _, actor := range actors {
		for {
			idx := strings.Index(strings.ToLower(base), strings.ToLower(actor))
			if idx < 0 {
				break
			}
			base = base[:idx] + " " + base[idx+len(actor):]
		}
	}
	base = strings.Trim(base, " -,&")
	base = textutil.CollapseWhitespace(base)
	if base == "" {
		return ""
	}
	return titleCaser.String(strings.ToLower(base))
}
