package orchestrator_test

import (
	"context"
	"errors"
	"reflect"
	"strings"
	"testing"

	"reeldex/internal/catalog"
	"reeldex/internal/config"
	"reeldex/internal/orchestrator"
	"reeldex/internal/resolver"
	"reeldex/internal/services"
	"reeldex/internal/services/llm"
	"reeldex/internal/services/websearch"
	"reeldex/internal/testsupport"
)

type fakeCompleter struct {
	available   bool
	suggestion  llm.Suggestion
	err         error
	calls       int
	lastReq     llm.SuggestionRequest
	suggestHook func()
}

func (f *fakeCompleter) Available() bool { return f.available }

func (f *fakeCompleter) SuggestMetadata(_ context.Context, req llm.SuggestionRequest) (llm.Suggestion, error) {
	f.calls++
	f.lastReq = req
	if f.suggestHook != nil {
		f.suggestHook()
	}
	return f.suggestion, f.err
}

type fakeSearcher struct {
	available   bool
	snippets    []websearch.Snippet
	err         error
	calls       int
	queries     []string
	fetchCalls  int
	fetchResult string
	fetchErr    error
}

func (f *fakeSearcher) Available() bool { return f.available }

func (f *fakeSearcher) Search(_ context.Context, query string, _ int) ([]websearch.Snippet, error) {
	f.calls++
	f.queries = append(f.queries, query)
	return f.snippets, f.err
}

func (f *fakeSearcher) Fetch(_ context.Context, _ string) (string, error) {
	f.fetchCalls++
	return f.fetchResult, f.fetchErr
}

type pipeline struct {
	cfg       *config.Config
	store     *catalog.Store
	completer *fakeCompleter
	searcher  *fakeSearcher
	orch      *orchestrator.Orchestrator
}

func newPipeline(t *testing.T) *pipeline {
	t.Helper()
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	res := resolver.New(store, nil)
	completer := &fakeCompleter{available: true}
	searcher := &fakeSearcher{available: true}
	return &pipeline{
		cfg:       cfg,
		store:     store,
		completer: completer,
		searcher:  searcher,
		orch:      orchestrator.New(cfg, store, res, completer, searcher, nil),
	}
}

func TestProcessCompleteRecordSkipsEnrichment(t *testing.T) {
	p := newPipeline(t)
	ctx := context.Background()

	result, err := p.orch.Process(ctx, "/media/[ABC-123] The Great Heist - Jane Doe, John Roe.mp4")
	if err != nil {
		t.Fatalf("Process returned error: %v", err)
	}
	if result.State != orchestrator.StateConsolidated {
		t.Fatalf("unexpected final state: %s", result.State)
	}
	if p.completer.calls != 0 || p.searcher.calls != 0 || p.searcher.fetchCalls != 0 {
		t.Fatalf("expected no provider calls, got llm=%d search=%d fetch=%d",
			p.completer.calls, p.searcher.calls, p.searcher.fetchCalls)
	}
	if result.Video.EnrichmentUsed || len(result.Video.EnrichmentSources) != 0 {
		t.Fatalf("expected no enrichment, got %+v", result.Video)
	}
	want := "[ABC-123] The Great Heist - Jane Doe, John Roe.mp4"
	if result.Video.StandardizedFilename != want {
		t.Fatalf("standardized = %q, want %q", result.Video.StandardizedFilename, want)
	}
	if result.RunID == "" {
		t.Fatal("expected run id")
	}
}

func TestProcessEnrichesMissingFields(t *testing.T) {
	p := newPipeline(t)
	p.completer.suggestion = llm.Suggestion{
		Title:     "The Great Heist",
		Actors:    []string{"Jane Doe"},
		Publisher: "Acme Studios",
	}
	p.searcher.snippets = []websearch.Snippet{{
		Title:   "Release page",
		URL:     "https://example.com/abc-123",
		Content: "Jane Doe leads a heist thriller from Acme Studios",
	}}
	ctx := context.Background()

	result, err := p.orch.Process(ctx, "/media/[ABC-123].mp4")
	if err != nil {
		t.Fatalf("Process returned error: %v", err)
	}
	if p.completer.calls != 1 {
		t.Fatalf("expected one llm call, got %d", p.completer.calls)
	}
	if p.completer.lastReq.Code != "ABC-123" {
		t.Fatalf("expected parsed code forwarded, got %q", p.completer.lastReq.Code)
	}
	// One corroborating search per suggested actor and publisher name.
	wantQueries := []string{"Jane Doe The Great Heist", "Acme Studios The Great Heist"}
	if !reflect.DeepEqual(p.searcher.queries, wantQueries) {
		t.Fatalf("queries = %v, want %v", p.searcher.queries, wantQueries)
	}
	if result.Video.Code != "ABC-123" {
		t.Fatalf("unexpected code: %q", result.Video.Code)
	}
	if result.Video.Title != "The Great Heist" {
		t.Fatalf("unexpected title: %q", result.Video.Title)
	}
	if !reflect.DeepEqual(result.Video.Actors, []string{"Jane Doe"}) {
		t.Fatalf("unexpected actors: %v", result.Video.Actors)
	}
	if result.Video.Publisher != "Acme Studios" {
		t.Fatalf("unexpected publisher: %q", result.Video.Publisher)
	}
	if !result.Video.EnrichmentUsed {
		t.Fatal("expected enrichment_used true")
	}
	wantSources := []string{"llm:title", "llm:actors", "websearch:actors", "llm:publisher", "websearch:publisher"}
	if !reflect.DeepEqual(result.Video.EnrichmentSources, wantSources) {
		t.Fatalf("sources = %v, want %v", result.Video.EnrichmentSources, wantSources)
	}
	want := "[ABC-123] The Great Heist - Jane Doe.mp4"
	if result.Video.StandardizedFilename != want {
		t.Fatalf("standardized = %q, want %q", result.Video.StandardizedFilename, want)
	}
}

func TestProcessSearchesOnlyAfterCompletion(t *testing.T) {
	p := newPipeline(t)
	p.completer.suggestion = llm.Suggestion{
		Title:     "Suggested Title",
		Actors:    []string{"Suggested Actor"},
		Publisher: "Suggested Studio",
	}
	p.searcher.snippets = []websearch.Snippet{{
		Content: "Suggested Actor appears courtesy of Suggested Studio",
	}}
	searchesAtSuggest := -1
	p.completer.suggestHook = func() { searchesAtSuggest = p.searcher.calls }
	ctx := context.Background()

	result, err := p.orch.Process(ctx, "/media/[ABC-123].mp4")
	if err != nil {
		t.Fatalf("Process returned error: %v", err)
	}
	if searchesAtSuggest != 0 {
		t.Fatalf("expected no searches before the completion call, got %d", searchesAtSuggest)
	}
	for _, query := range p.searcher.queries {
		if strings.Contains(query, "ABC-123") {
			t.Fatalf("search queried parsed fields instead of suggested names: %q", query)
		}
	}
	wantQueries := []string{"Suggested Actor Suggested Title", "Suggested Studio Suggested Title"}
	if !reflect.DeepEqual(p.searcher.queries, wantQueries) {
		t.Fatalf("queries = %v, want %v", p.searcher.queries, wantQueries)
	}
	wantSources := []string{"llm:title", "llm:actors", "websearch:actors", "llm:publisher", "websearch:publisher"}
	if !reflect.DeepEqual(result.Video.EnrichmentSources, wantSources) {
		t.Fatalf("sources = %v, want %v", result.Video.EnrichmentSources, wantSources)
	}
}

func TestProcessCorroborationFetchesPageWhenSnippetsInconclusive(t *testing.T) {
	p := newPipeline(t)
	p.completer.suggestion = llm.Suggestion{Title: "Night Run", Actors: []string{"Jane Doe"}}
	p.searcher.snippets = []websearch.Snippet{{
		Title: "Forum thread",
		URL:   "https://example.com/thread",
	}}
	p.searcher.fetchResult = "Full cast listing: Jane Doe, and others."
	ctx := context.Background()

	result, err := p.orch.Process(ctx, "/media/[DEF-456].mp4")
	if err != nil {
		t.Fatalf("Process returned error: %v", err)
	}
	if p.searcher.fetchCalls != 1 {
		t.Fatalf("expected one page fetch, got %d", p.searcher.fetchCalls)
	}
	wantSources := []string{"llm:title", "llm:actors", "websearch:actors"}
	if !reflect.DeepEqual(result.Video.EnrichmentSources, wantSources) {
		t.Fatalf("sources = %v, want %v", result.Video.EnrichmentSources, wantSources)
	}
}

func TestProcessUncorroboratedNamesMergeWithoutSearchTag(t *testing.T) {
	p := newPipeline(t)
	p.completer.suggestion = llm.Suggestion{Title: "Night Run", Actors: []string{"Jane Doe"}}
	p.searcher.snippets = []websearch.Snippet{{
		Title: "Unrelated result", URL: "https://example.com/other", Content: "nothing relevant",
	}}
	p.searcher.fetchResult = "still nothing relevant"
	ctx := context.Background()

	// The completion output takes precedence; failed corroboration only
	// withholds the websearch provenance tag.
	result, err := p.orch.Process(ctx, "/media/[DEF-456].mp4")
	if err != nil {
		t.Fatalf("Process returned error: %v", err)
	}
	if !reflect.DeepEqual(result.Video.Actors, []string{"Jane Doe"}) {
		t.Fatalf("unexpected actors: %v", result.Video.Actors)
	}
	wantSources := []string{"llm:title", "llm:actors"}
	if !reflect.DeepEqual(result.Video.EnrichmentSources, wantSources) {
		t.Fatalf("sources = %v, want %v", result.Video.EnrichmentSources, wantSources)
	}
}

func TestProcessNeverOverwritesParsedFields(t *testing.T) {
	p := newPipeline(t)
	p.searcher.available = false
	p.completer.suggestion = llm.Suggestion{
		Title:  "Completely Different Title",
		Actors: []string{"Someone Else"},
	}
	ctx := context.Background()

	// Title and actors are parsed; only the code is missing, so enrichment
	// runs but must not replace existing fields.
	result, err := p.orch.Process(ctx, "/media/Quiet River - Alice Larkin.mp4")
	if err != nil {
		t.Fatalf("Process returned error: %v", err)
	}
	if result.Video.Title != "Quiet River" {
		t.Fatalf("parsed title overwritten: %q", result.Video.Title)
	}
	if !reflect.DeepEqual(result.Video.Actors, []string{"Alice Larkin"}) {
		t.Fatalf("parsed actors overwritten: %v", result.Video.Actors)
	}
	if result.Video.EnrichmentUsed {
		t.Fatal("expected no fields taken from the suggestion")
	}
}

func TestProcessDegradesOnCompletionFailure(t *testing.T) {
	p := newPipeline(t)
	p.completer.err = errors.New("llm down")
	ctx := context.Background()

	result, err := p.orch.Process(ctx, "/media/mystery_clip.mp4")
	if err != nil {
		t.Fatalf("expected degraded pass, got error: %v", err)
	}
	if result.State != orchestrator.StateConsolidated {
		t.Fatalf("unexpected final state: %s", result.State)
	}
	if len(result.Warnings) != 1 {
		t.Fatalf("expected one warning, got %v", result.Warnings)
	}
	if p.searcher.calls != 0 {
		t.Fatalf("expected no corroboration without a suggestion, got %d searches", p.searcher.calls)
	}
	if result.Video.EnrichmentUsed {
		t.Fatal("expected enrichment_used false after provider failure")
	}
	stored, err := p.store.GetVideoByPath(ctx, "/media/mystery_clip.mp4")
	if err != nil || stored == nil {
		t.Fatalf("expected record persisted despite failure: %v", err)
	}
}

func TestProcessDegradesOnSearchFailure(t *testing.T) {
	p := newPipeline(t)
	p.completer.suggestion = llm.Suggestion{
		Title:     "Night Run",
		Actors:    []string{"Jane Doe"},
		Publisher: "Acme Studios",
	}
	p.searcher.err = errors.New("search down")
	ctx := context.Background()

	result, err := p.orch.Process(ctx, "/media/[DEF-456].mp4")
	if err != nil {
		t.Fatalf("expected degraded pass, got error: %v", err)
	}
	// One warning per corroboration attempt, and the suggested fields still
	// merge on the completion provider's word alone.
	if len(result.Warnings) != 2 {
		t.Fatalf("expected two warnings, got %v", result.Warnings)
	}
	wantSources := []string{"llm:title", "llm:actors", "llm:publisher"}
	if !reflect.DeepEqual(result.Video.EnrichmentSources, wantSources) {
		t.Fatalf("sources = %v, want %v", result.Video.EnrichmentSources, wantSources)
	}
}

func TestProcessSurfacesNonDegradableCompletionError(t *testing.T) {
	p := newPipeline(t)
	p.completer.err = services.Wrap(services.ErrValidation, "llm", "suggest", "bad request", nil)
	ctx := context.Background()

	_, err := p.orch.Process(ctx, "/media/[DEF-456].mp4")
	if err == nil {
		t.Fatal("expected non-degradable provider error to surface")
	}
	if !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected validation marker preserved, got %v", err)
	}
	stored, getErr := p.store.GetVideoByPath(ctx, "/media/[DEF-456].mp4")
	if getErr != nil {
		t.Fatalf("GetVideoByPath returned error: %v", getErr)
	}
	if stored != nil {
		t.Fatalf("expected no record persisted after fatal error, got %+v", stored)
	}
}

func TestProcessResolvesSuggestedActorsThroughAliases(t *testing.T) {
	p := newPipeline(t)
	p.searcher.available = false
	ctx := context.Background()

	res := resolver.New(p.store, nil)
	if _, err := res.Register(ctx, "Jane Doe"); err != nil {
		t.Fatalf("Register returned error: %v", err)
	}
	if ok, err := res.AddAlias(ctx, "J. Doe", "Jane Doe"); err != nil || !ok {
		t.Fatalf("AddAlias = %v, %v", ok, err)
	}
	p.completer.suggestion = llm.Suggestion{Title: "Quiet River", Actors: []string{"J. Doe"}}

	result, err := p.orch.Process(ctx, "/media/[DEF-456].mkv")
	if err != nil {
		t.Fatalf("Process returned error: %v", err)
	}
	if !reflect.DeepEqual(result.Video.Actors, []string{"Jane Doe"}) {
		t.Fatalf("expected alias resolved to canonical name, got %v", result.Video.Actors)
	}
}

func TestProcessDiscardsTitleRestatingActors(t *testing.T) {
	p := newPipeline(t)
	p.searcher.available = false
	p.completer.suggestion = llm.Suggestion{
		Title:  "Jane Doe John Roe",
		Actors: []string{"Jane Doe", "John Roe"},
	}
	ctx := context.Background()

	result, err := p.orch.Process(ctx, "/media/[GHI-789].mp4")
	if err != nil {
		t.Fatalf("Process returned error: %v", err)
	}
	if result.Video.Title != "" {
		t.Fatalf("expected restating title discarded, got %q", result.Video.Title)
	}
	if !reflect.DeepEqual(result.Video.Actors, []string{"Jane Doe", "John Roe"}) {
		t.Fatalf("unexpected actors: %v", result.Video.Actors)
	}
}

func TestProcessTruncatesLongActorLists(t *testing.T) {
	p := newPipeline(t)
	p.cfg.Enrichment.MaxFilenameLength = 50
	ctx := context.Background()

	result, err := p.orch.Process(ctx, "/media/[ABC-123] Some Title - Aaaa Bbbb, Cccc Dddd, Eeee Ffff.mp4")
	if err != nil {
		t.Fatalf("Process returned error: %v", err)
	}
	name := result.Video.StandardizedFilename
	if len(name) > 50 {
		t.Fatalf("expected name within limit, got %d chars: %q", len(name), name)
	}
	if !strings.HasPrefix(name, "[ABC-123] Some Title - Aaaa Bbbb") {
		t.Fatalf("expected leading actors kept, got %q", name)
	}
	if strings.Contains(name, "Eeee Ffff") {
		t.Fatalf("expected trailing actor dropped, got %q", name)
	}
	// All three actors are still linked in the catalog.
	if len(result.Video.Actors) != 3 {
		t.Fatalf("expected 3 actors stored, got %v", result.Video.Actors)
	}
}

func TestProcessActorsOnlyFilename(t *testing.T) {
	p := newPipeline(t)
	p.searcher.available = false
	p.completer.available = false
	ctx := context.Background()

	// The parser discards a title that restates the actor list, leaving
	// actors as the only recovered field.
	result, err := p.orch.Process(ctx, "/media/Jane Doe - Jane Doe.mp4")
	if err != nil {
		t.Fatalf("Process returned error: %v", err)
	}
	if result.Video.Title != "" {
		t.Fatalf("expected empty title, got %q", result.Video.Title)
	}
	if result.Video.StandardizedFilename != "Jane Doe.mp4" {
		t.Fatalf("standardized = %q, want %q", result.Video.StandardizedFilename, "Jane Doe.mp4")
	}
}

func TestProcessIsDeterministic(t *testing.T) {
	p := newPipeline(t)
	ctx := context.Background()

	const path = "/media/[ABC-123] The Great Heist - John Roe, Jane Doe.mp4"
	first, err := p.orch.Process(ctx, path)
	if err != nil {
		t.Fatalf("Process returned error: %v", err)
	}
	second, err := p.orch.Process(ctx, path)
	if err != nil {
		t.Fatalf("second Process returned error: %v", err)
	}
	if first.Video.StandardizedFilename != second.Video.StandardizedFilename {
		t.Fatalf("filename not deterministic: %q vs %q",
			first.Video.StandardizedFilename, second.Video.StandardizedFilename)
	}
	// Actor order in the name is sorted regardless of parse order.
	if !strings.Contains(first.Video.StandardizedFilename, "Jane Doe, John Roe") {
		t.Fatalf("expected sorted actor list, got %q", first.Video.StandardizedFilename)
	}
	if first.Video.ID != second.Video.ID {
		t.Fatalf("expected reprocessing to update the same row, got ids %d and %d",
			first.Video.ID, second.Video.ID)
	}
}
