// Package llm wraps the OpenRouter chat completion API for metadata
// suggestion.
//
// The client issues JSON-only completions, retries transient failures with
// exponential backoff (honouring Retry-After), and tolerates the formatting
// quirks of different providers when decoding payloads. SuggestMetadata asks
// the model to fill the gaps in a partially parsed video record; callers
// treat any failure as a degraded pass, never a fatal one.
package llm
