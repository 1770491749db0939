package search

import (
	"context"
	"errors"
)

// ErrNoResults is returned when the provider answers with an empty result
// set. Callers are expected to treat it as "try a different query" rather
// than reasoning over an empty list.
var ErrNoResults = errors.New("no search results found")

// Searcher is the common interface over web search providers.
type Searcher interface {
	Search(ctx context.Context, req *Request) (*Response, error)
}

// Request is a provider-independent search request.
type Request struct {
	Query             string
	Topic             string // "news" or "general"
	MaxResults        int
	IncludeRawContent bool
	StartDate         string // Format: YYYY-MM-DD
	EndDate           string // Format: YYYY-MM-DD
}

// Response is a provider-independent search response.
type Response struct {
	Results []Result
}

// Result is a single search hit.
type Result struct {
	Title         string
	URL           string
	Content       string
	RawContent    string
	Score         float64
	PublishedDate string
}
