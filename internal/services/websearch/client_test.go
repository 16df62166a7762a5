package websearch

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestSearchReturnsTrimmedSnippets(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("q"); got != "ABC-123" {
			t.Fatalf("unexpected query %q", got)
		}
		if got := r.URL.Query().Get("format"); got != "json" {
			t.Fatalf("unexpected format %q", got)
		}
		payload := map[string]any{
			"results": []map[string]string{
				{"title": " The Great Heist ", "url": "https://example.com/1", "content": " release page "},
				{"title": "", "url": "https://example.com/2", "content": ""},
				{"title": "Second", "url": "https://example.com/3", "content": "more"},
				{"title": "Third", "url": "https://example.com/4", "content": "over limit"},
			},
		}
		if err := json.NewEncoder(w).Encode(payload); err != nil {
			t.Fatalf("encode response: %v", err)
		}
	}))
	defer server.Close()

	client := New(server.URL, time.Second)
	snippets, err := client.Search(context.Background(), "ABC-123", 2)
	if err != nil {
		t.Fatalf("Search returned error: %v", err)
	}
	if len(snippets) != 2 {
		t.Fatalf("expected 2 snippets, got %d", len(snippets))
	}
	if snippets[0].Title != "The Great Heist" || snippets[0].Content != "release page" {
		t.Fatalf("unexpected first snippet: %+v", snippets[0])
	}
}

func TestSearchErrorStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	client := New(server.URL, time.Second)
	if _, err := client.Search(context.Background(), "query", 3); err == nil {
		t.Fatal("expected error for http 502")
	}
}

func TestUnconfiguredClientIsUnavailable(t *testing.T) {
	client := New("", time.Second)
	if client.Available() {
		t.Fatal("expected unavailable client")
	}
	if _, err := client.Search(context.Background(), "query", 3); err == nil {
		t.Fatal("expected error from unconfigured client")
	}
}

func TestFetchStripsMarkup(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`<html><head><script>ignore()</script><style>p{}</style></head>` +
			`<body><h1>Title</h1><p>Hello &amp; welcome</p></body></html>`))
	}))
	defer server.Close()

	client := New(server.URL, time.Second)
	text, err := client.Fetch(context.Background(), server.URL)
	if err != nil {
		t.Fatalf("Fetch returned error: %v", err)
	}
	if text != "Title Hello & welcome" {
		t.Fatalf("unexpected text: %q", text)
	}
}

func TestFormatSnippets(t *testing.T) {
	got := FormatSnippets([]Snippet{
		{Title: "One", Content: "first"},
		{Title: "Two"},
	})
	if !strings.Contains(got, "1. One - first") || !strings.Contains(got, "2. Two") {
		t.Fatalf("unexpected format: %q", got)
	}
	if FormatSnippets(nil) != "" {
		t.Fatal("expected empty block for no snippets")
	}
}
