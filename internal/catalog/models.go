package catalog

import "time"

// Actor is a canonical performer identity. Aliases are alternate names that
// resolve to this actor; each alias binds to exactly one actor.
type Actor struct {
	ID        int64
	Name      string
	Aliases   []string
	CreatedAt time.Time
}

// Video is one catalogued file. Code, Title, and Publisher stay empty when
// they could not be determined; consolidation never writes placeholder
// values.
type Video struct {
	ID                   int64
	Filepath             string
	Code                 string
	Title                string
	Publisher            string
	DurationSeconds      int64
	StandardizedFilename string
	EnrichmentUsed       bool
	EnrichmentSources    []string
	Actors               []string
	CreatedAt            time.Time
	UpdatedAt            time.Time
}
