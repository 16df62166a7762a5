// Package websearch queries a SearXNG-compatible JSON search endpoint to
// corroborate suggested metadata against open-web text.
//
// Results are returned as plain snippets; the caller decides what to do with
// them. A client without a configured endpoint reports itself unavailable
// and processing continues uncorroborated.
package websearch

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Snippet is one search hit reduced to the fields enrichment consumes.
type Snippet struct {
	Title   string `json:"title"`
	URL     string `json:"url"`
	Content string `json:"content"`
}

type searchResponse struct {
	Results []Snippet `json:"results"`
}

// Searcher defines the search operations enrichment depends on.
type Searcher interface {
	Search(ctx context.Context, query string, maxResults int) ([]Snippet, error)
	Available() bool
}

// Client queries a SearXNG-compatible JSON endpoint.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

var _ Searcher = (*Client)(nil)

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// New creates a search client. An empty base URL yields a client that
// reports itself unavailable.
func New(baseURL string, timeout time.Duration, opts ...Option) *Client {
	if timeout <= 0 {
		timeout = 20 * time.Second
	}
	client := &Client{
		baseURL:    strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		httpClient: &http.Client{Timeout: timeout},
	}
	for _, opt := range opts {
		opt(client)
	}
	return client
}

// Available reports whether a search endpoint is configured.
func (c *Client) Available() bool {
	return c != nil && c.baseURL != ""
}

// Search runs a query and returns at most maxResults snippets.
func (c *Client) Search(ctx context.Context, query string, maxResults int) ([]Snippet, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, errors.New("query must not be empty")
	}
	if !c.Available() {
		return nil, errors.New("search endpoint not configured")
	}
	if maxResults <= 0 {
		maxResults = 5
	}

	endpoint, err := url.Parse(c.baseURL)
	if err != nil {
		return nil, fmt.Errorf("parse search url: %w", err)
	}
	params := url.Values{}
	params.Set("q", query)
	params.Set("format", "json")
	params.Set("pageno", strconv.Itoa(1))
	endpoint.RawQuery = params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}

	requestStart := time.Now()
	resp, err := c.httpClient.Do(req)
	latency := time.Since(requestStart)
	if err != nil {
		return nil, fmt.Errorf("execute request (latency=%v): %w", latency, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("search returned %d (latency=%v)", resp.StatusCode, latency)
	}

	var payload searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode search response: %w", err)
	}

	snippets := make([]Snippet, 0, maxResults)
	for _, result := range payload.Results {
		result.Title = strings.TrimSpace(result.Title)
		result.Content = strings.TrimSpace(result.Content)
		if result.Title == "" && result.Content == "" {
			continue
		}
		snippets = append(snippets, result)
		if len(snippets) >= maxResults {
			break
		}
	}
	return snippets, nil
}

// Fetch retrieves a page and reduces it to plain text.
func (c *Client) Fetch(ctx context.Context, pageURL string) (string, error) {
	pageURL = strings.TrimSpace(pageURL)
	if pageURL == "" {
		return "", errors.New("url must not be empty")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("fetch returned %d", resp.StatusCode)
	}

	const maxBody = 256 * 1024
	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBody))
	if err != nil {
		return "", fmt.Errorf("read body: %w", err)
	}
	return StripTags(string(body)), nil
}

var (
	scriptPattern = regexp.MustCompile(`(?is)<(script|style)[^>]*>.*?</(script|style)>`)
	tagPattern    = regexp.MustCompile(`(?s)<[^>]+>`)
)

// StripTags removes markup and collapses whitespace, leaving readable text.
func StripTags(markup string) string {
	text := scriptPattern.ReplaceAllString(markup, " ")
	text = tagPattern.ReplaceAllString(text, " ")
	text = strings.NewReplacer("&amp;", "&", "&lt;", "<", "&gt;", ">", "&quot;", `"`, "&#39;", "'", "&nbsp;", " ").Replace(text)
	return strings.Join(strings.Fields(text), " ")
}

// FormatSnippets renders snippets as a single text block for matching.
func FormatSnippets(snippets []Snippet) string {
	if len(snippets) == 0 {
		return ""
	}
	var b strings.Builder
	for i, snippet := range snippets {
		fmt.Fprintf(&b, "%d. %s", i+1, snippet.Title)
		if snippet.Content != "" {
			fmt.Fprintf(&b, " - %s", snippet.Content)
		}
		b.WriteString("\n")
	}
	return strings.TrimSpace(b.String())
}
