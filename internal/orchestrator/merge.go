package orchestrator

import (
	"context"
	"log/slog"
	"strings"

	"reeldex/internal/logging"
	"reeldex/internal/services/llm"
	"reeldex/internal/textutil"
)

// merge folds a suggestion into the record. Fields that already have a value
// are never overwritten, and the code never comes from a provider. Each
// field taken from the suggestion is tagged in result.Sources; fields whose
// names were corroborated by web search carry an additional websearch tag.
func (o *Orchestrator) merge(ctx context.Context, log *slog.Logger, record *consolidated, suggestion llm.Suggestion, corroborated map[string]bool, result *Result) error {
	if record.Title == "" && suggestion.Title != "" {
		if o.titleRestatesActors(suggestion.Title, record.Actors, suggestion.Actors) {
			log.DebugContext(ctx, "discarded suggested title restating actors",
				logging.String("title", suggestion.Title))
		} else {
			record.Title = suggestion.Title
			result.Sources = append(result.Sources, "llm:title")
		}
	}

	if len(record.Actors) == 0 && len(suggestion.Actors) > 0 {
		actors, err := o.resolver.EnsureAll(ctx, suggestion.Actors)
		if err != nil {
			return err
		}
		if len(actors) > 0 {
			record.Actors = actors
			result.Sources = append(result.Sources, "llm:actors")
			if anyCorroborated(corroborated, suggestion.Actors) {
				result.Sources = append(result.Sources, "websearch:actors")
			}
		}
	}

	if record.Publisher == "" && suggestion.Publisher != "" {
		record.Publisher = suggestion.Publisher
		result.Sources = append(result.Sources, "llm:publisher")
		if corroborated[strings.ToLower(suggestion.Publisher)] {
			result.Sources = append(result.Sources, "websearch:publisher")
		}
	}
	return nil
}

func anyCorroborated(corroborated map[string]bool, names []string) bool {
	for _, name := range names {
		if corroborated[strings.ToLower(name)] {
			return true
		}
	}
	return false
}

// titleRestatesActors reports whether a suggested title is just the actor
// list in disguise, measured by token cosine similarity.
func (o *Orchestrator) titleRestatesActors(title string, actorSets ...[]string) bool {
	titlePrint := textutil.NewFingerprint(title)
	if titlePrint.TokenCount() == 0 {
		return false
	}
	threshold := o.cfg.Enrichment.TitleSimilarityThreshold
	for _, actors := range actorSets {
		if len(actors) == 0 {
			continue
		}
		actorPrint := textutil.NewFingerprint(strings.Join(actors, " "))
		if textutil.CosineSimilarity(titlePrint, actorPrint) >= threshold {
			return true
		}
	}
	return false
}
