package tools

import (
	"context"
	"fmt"
	"net/http"

	"github.com/cloudwego/eino/components/tool"
	"github.com/cloudwego/eino/components/tool/utils"

	"github.com/iWorld-y/trend_scout/pkg/hackernews"
	"github.com/iWorld-y/trend_scout/pkg/model"
	"github.com/iWorld-y/trend_scout/pkg/search"
	"github.com/iWorld-y/trend_scout/pkg/webpage"
)

// IntentTrending is the sentinel intent for browsing trending stories.
// Any other intent is treated as a named topic to search the web for.
const IntentTrending = "HN"

const defaultSearchResults = 8

// entry pairs a callable tool with the predicate deciding whether it is
// exposed for a given run intent.
type entry struct {
	tool     tool.BaseTool
	eligible func(intent string) bool
}

// Toolbox owns the closed set of agent tools. All network tools share one
// HTTP client so connections are reused within a run.
type Toolbox struct {
	hn       *hackernews.Client
	searcher search.Searcher
	fetcher  *webpage.Fetcher
	entries  []entry
}

// NewToolbox wires the three tools on top of the shared HTTP client and the
// configured search provider.
func NewToolbox(client *http.Client, searcher search.Searcher) (*Toolbox, error) {
	tb := &Toolbox{
		hn:       hackernews.NewClient(client),
		searcher: searcher,
		fetcher:  webpage.NewFetcher(client),
	}
	return tb, tb.buildEntries()
}

// NewToolboxWith assembles a toolbox from prebuilt components, mainly for
// tests that need to point the tools at fake backends.
func NewToolboxWith(hn *hackernews.Client, searcher search.Searcher, fetcher *webpage.Fetcher) (*Toolbox, error) {
	tb := &Toolbox{hn: hn, searcher: searcher, fetcher: fetcher}
	return tb, tb.buildEntries()
}

func (tb *Toolbox) buildEntries() error {
	hnTool, err := utils.InferTool(
		"hacker_news_stories",
		"Retrieve the current trending stories from HackerNews",
		tb.fetchStories,
	)
	if err != nil {
		return fmt.Errorf("build hackernews tool failed: %w", err)
	}

	searchTool, err := utils.InferTool(
		"web_search",
		"Search the web for the given query and return titles, links and snippets",
		tb.searchWeb,
	)
	if err != nil {
		return fmt.Errorf("build search tool failed: %w", err)
	}

	visitTool, err := utils.InferTool(
		"visit_webpage",
		"Visit a webpage at the given URL and return its content as Markdown",
		tb.visitWebpage,
	)
	if err != nil {
		return fmt.Errorf("build webpage tool failed: %w", err)
	}

	// Trending-story browsing gets the feed; a named topic gets keyword
	// search plus page fetching instead.
	tb.entries = []entry{
		{tool: hnTool, eligible: func(intent string) bool { return intent == IntentTrending }},
		{tool: searchTool, eligible: func(intent string) bool { return intent != IntentTrending }},
		{tool: visitTool, eligible: func(intent string) bool { return intent != IntentTrending }},
	}
	return nil
}

// Select returns the tools eligible for the given intent. The predicates
// are evaluated once here, when a stage assembles its tool set.
func (tb *Toolbox) Select(intent string) []tool.BaseTool {
	var selected []tool.BaseTool
	for _, e := range tb.entries {
		if e.eligible(intent) {
			selected = append(selected, e.tool)
		}
	}
	return selected
}

// StoriesRequest asks for trending stories.
type StoriesRequest struct {
	NumEntries int    `json:"num_entries" jsonschema:"description=maximum number of stories to retrieve"`
	FeedType   string `json:"feed_type,omitempty" jsonschema:"description=take stories from the list of new stories / best stories / top (trending) stories,enum=top,enum=best,enum=new"`
}

// StoriesResponse carries the resolved stories.
type StoriesResponse struct {
	Stories []model.Story `json:"stories"`
}

func (tb *Toolbox) fetchStories(ctx context.Context, req *StoriesRequest) (*StoriesResponse, error) {
	stories, err := tb.hn.Stories(ctx, req.NumEntries, req.FeedType)
	if err != nil {
		return nil, err
	}
	return &StoriesResponse{Stories: stories}, nil
}

// SearchRequest asks for a web search.
type SearchRequest struct {
	Query string `json:"query" jsonschema:"description=the query to search for"`
}

// SearchResponse carries the search hits.
type SearchResponse struct {
	Results []model.SearchResult `json:"results"`
}

func (tb *Toolbox) searchWeb(ctx context.Context, req *SearchRequest) (*SearchResponse, error) {
	resp, err := tb.searcher.Search(ctx, &search.Request{
		Query:      req.Query,
		MaxResults: defaultSearchResults,
	})
	if err != nil {
		return nil, err
	}
	if len(resp.Results) == 0 {
		return nil, search.ErrNoResults
	}

	results := make([]model.SearchResult, 0, len(resp.Results))
	for _, r := range resp.Results {
		results = append(results, model.SearchResult{
			Title: r.Title,
			Href:  r.URL,
			Body:  r.Content,
		})
	}
	return &SearchResponse{Results: results}, nil
}

// VisitRequest asks for a webpage's content.
type VisitRequest struct {
	URL string `json:"url" jsonschema:"description=the URL of the webpage to visit"`
}

// VisitResponse carries the page content as Markdown. Fetch failures are
// reported inside Content so the agent can reason about them.
type VisitResponse struct {
	Content string `json:"content"`
}

func (tb *Toolbox) visitWebpage(ctx context.Context, req *VisitRequest) (*VisitResponse, error) {
	return &VisitResponse{Content: tb.fetcher.Visit(ctx, req.URL)}, nil
}
