package orchestrator

import (
	"context"
	"errors"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"reeldex/internal/catalog"
	"reeldex/internal/config"
	"reeldex/internal/logging"
	"reeldex/internal/parser"
	"reeldex/internal/resolver"
	"reeldex/internal/services"
	"reeldex/internal/services/llm"
	"reeldex/internal/services/websearch"
)

// State identifies where a processing run currently is.
type State string

const (
	StateParsed          State = "parsed"
	StateResolvingActors State = "resolving-actors"
	StateEnriching       State = "enriching"
	StateSkipEnrichment  State = "skip-enrichment"
	StateConsolidated    State = "consolidated"
)

// TextCompleter is the LLM surface the orchestrator depends on.
type TextCompleter interface {
	Available() bool
	SuggestMetadata(ctx context.Context, req llm.SuggestionRequest) (llm.Suggestion, error)
}

// WebSearcher is the search surface the orchestrator depends on.
type WebSearcher interface {
	Available() bool
	Search(ctx context.Context, query string, maxResults int) ([]websearch.Snippet, error)
	Fetch(ctx context.Context, pageURL string) (string, error)
}

// Result is the outcome of one processing run.
type Result struct {
	RunID    string
	State    State
	Draft    parser.DraftRecord
	Video    *catalog.Video
	Sources  []string
	Warnings []string
}

// Orchestrator wires the pipeline stages together.
type Orchestrator struct {
	cfg       *config.Config
	store     *catalog.Store
	resolver  *resolver.Resolver
	completer TextCompleter
	searcher  WebSearcher
	logger    *slog.Logger
}

// New constructs an orchestrator. Providers may be nil; the corresponding
// enrichment step is skipped.
func New(cfg *config.Config, store *catalog.Store, res *resolver.Resolver, completer TextCompleter, searcher WebSearcher, logger *slog.Logger) *Orchestrator {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Orchestrator{
		cfg:       cfg,
		store:     store,
		resolver:  res,
		completer: completer,
		searcher:  searcher,
		logger:    logging.NewComponentLogger(logger, "orchestrator"),
	}
}

// Process runs the pipeline for a single file path and persists the
// consolidated record.
func (o *Orchestrator) Process(ctx context.Context, path string) (*Result, error) {
	runID := uuid.NewString()
	ctx = logging.WithRunID(ctx, runID)
	log := logging.WithContext(ctx, o.logger)

	filename := filepath.Base(path)
	result := &Result{RunID: runID, State: StateParsed}
	result.Draft = parser.Parse(filename)
	log.InfoContext(ctx, "parsed filename",
		logging.String("filename", filename),
		logging.String("code", result.Draft.Code),
		logging.Int("actors", len(result.Draft.Actors)))

	result.State = StateResolvingActors
	actors, err := o.resolver.EnsureAll(ctx, result.Draft.Actors)
	if err != nil {
		return nil, err
	}

	record := consolidated{
		Code:   result.Draft.Code,
		Title:  result.Draft.Title,
		Actors: actors,
	}

	if o.cfg.Enrichment.Enabled && !record.complete() {
		result.State = StateEnriching
		if err := o.enrich(ctx, log, filename, &record, result); err != nil {
			return nil, err
		}
	} else {
		result.State = StateSkipEnrichment
	}

	if record.Title == "" && record.Code == "" && len(record.Actors) > 0 {
		record.Title = fallbackTitle(filename, record.Actors)
	}

	standardized := o.generateFilename(record, filename)

	video := &catalog.Video{
		Filepath:             path,
		Code:                 record.Code,
		Title:                record.Title,
		Publisher:            record.Publisher,
		Actors:               record.Actors,
		StandardizedFilename: standardized,
		EnrichmentUsed:       len(result.Sources) > 0,
		EnrichmentSources:    result.Sources,
	}
	stored, err := o.store.UpsertVideo(ctx, video)
	if err != nil {
		return nil, services.Wrap(services.ErrPersistence, "orchestrator", "process", "store video", err)
	}

	result.State = StateConsolidated
	result.Video = stored
	log.InfoContext(ctx, "consolidated video",
		logging.String("filepath", stored.Filepath),
		logging.String("standardized", stored.StandardizedFilename),
		logging.Bool("enriched", stored.EnrichmentUsed))
	return result, nil
}

// consolidated is the working record that enrichment fills in.
type consolidated struct {
	Code      string
	Title     string
	Publisher string
	Actors    []string
}

func (c consolidated) complete() bool {
	return c.Code != "" && c.Title != "" && len(c.Actors) > 0
}

// enrich asks the text-completion provider to fill the missing fields from
// the available fragments, then corroborates each suggested actor and
// publisher name through web search before merging. Degradable provider
// failures become "no additional information"; non-degradable errors and
// catalog failures during the merge abort the item.
func (o *Orchestrator) enrich(ctx context.Context, log *slog.Logger, filename string, record *consolidated, result *Result) error {
	if o.completer == nil || !o.completer.Available() {
		log.DebugContext(ctx, "llm unavailable, skipping suggestion")
		return nil
	}

	suggestion, err := o.completer.SuggestMetadata(ctx, llm.SuggestionRequest{
		Filename: filename,
		Code:     record.Code,
		Title:    record.Title,
		Actors:   record.Actors,
	})
	if err != nil {
		wrapped := providerFailure(ctx, "llm", "suggest-metadata", err)
		if !services.Degradable(wrapped) {
			return wrapped
		}
		o.degrade(ctx, log, result, "llm suggestion failed", wrapped)
		return nil
	}

	corroborated := o.corroborate(ctx, log, suggestion, result)
	return o.merge(ctx, log, record, suggestion, corroborated, result)
}

// corroborate runs one web search per suggested actor and publisher name
// and reports which names appear in the retrieved text. Search failures
// degrade per name; an unavailable provider corroborates nothing.
func (o *Orchestrator) corroborate(ctx context.Context, log *slog.Logger, suggestion llm.Suggestion, result *Result) map[string]bool {
	if o.searcher == nil || !o.searcher.Available() {
		return nil
	}

	names := make([]string, 0, len(suggestion.Actors)+1)
	names = append(names, suggestion.Actors...)
	if suggestion.Publisher != "" {
		names = append(names, suggestion.Publisher)
	}
	if len(names) == 0 {
		return nil
	}

	confirmed := make(map[string]bool, len(names))
	for _, name := range names {
		query := name
		if suggestion.Title != "" {
			query = name + " " + suggestion.Title
		}
		snippets, err := o.searcher.Search(ctx, query, o.cfg.WebSearch.MaxResults)
		if err != nil {
			o.degrade(ctx, log, result, "web search failed", providerFailure(ctx, "websearch", "search", err))
			continue
		}
		confirmed[strings.ToLower(name)] = o.nameAppears(ctx, log, name, snippets)
	}
	return confirmed
}

// nameAppears checks the snippet text for the name and falls back to
// fetching the top result page when the snippets alone are inconclusive.
func (o *Orchestrator) nameAppears(ctx context.Context, log *slog.Logger, name string, snippets []websearch.Snippet) bool {
	if len(snippets) == 0 {
		return false
	}
	if containsFold(websearch.FormatSnippets(snippets), name) {
		return true
	}
	page, err := o.searcher.Fetch(ctx, snippets[0].URL)
	if err != nil {
		log.DebugContext(ctx, "corroboration fetch failed",
			logging.String("name", name),
			logging.Error(err))
		return false
	}
	return containsFold(page, name)
}

func containsFold(haystack, needle string) bool {
	return strings.Contains(strings.ToLower(haystack), strings.ToLower(needle))
}

// providerFailure classifies a provider error for the degrade-vs-fail
// decision. Errors already carrying a non-degradable marker keep it.
func providerFailure(ctx context.Context, component, operation string, err error) error {
	marker := services.ErrExternalService
	if errors.Is(err, context.DeadlineExceeded) || ctx.Err() != nil {
		marker = services.ErrTimeout
	}
	return services.Wrap(marker, component, operation, "", err)
}

func (o *Orchestrator) degrade(ctx context.Context, log *slog.Logger, result *Result, message string, err error) {
	log.WarnContext(ctx, message, logging.Error(err))
	result.Warnings = append(result.Warnings, message+": "+err.Error())
}
