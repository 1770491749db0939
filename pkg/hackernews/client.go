package hackernews

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"

	"github.com/iWorld-y/trend_scout/pkg/model"
)

const defaultBaseURL = "https://hacker-news.firebaseio.com/v0"

// MaxStories is the hard ceiling on how many feed entries a single call may
// resolve, regardless of what the caller asks for.
const MaxStories = 500

// Client reads the HackerNews Firebase REST API.
// https://github.com/HackerNews/API
type Client struct {
	baseURL string
	client  *http.Client
}

// NewClient creates a HackerNews client on top of the shared HTTP client.
func NewClient(client *http.Client) *Client {
	if client == nil {
		client = http.DefaultClient
	}
	return &Client{baseURL: defaultBaseURL, client: client}
}

// NewClientWithBaseURL overrides the API endpoint, mainly for tests.
func NewClientWithBaseURL(client *http.Client, baseURL string) *Client {
	c := NewClient(client)
	c.baseURL = baseURL
	return c
}

// Stories retrieves up to numEntries stories from the given feed
// ("top", "best" or "new"). The feed index is fetched first and a failure
// there is a hard error. Every listed id is then resolved concurrently;
// items whose detail fetch fails or comes back without a title and url are
// dropped silently. The returned slice follows the feed index order, not
// fetch completion order.
func (c *Client) Stories(ctx context.Context, numEntries int, feedType string) ([]model.Story, error) {
	if numEntries > MaxStories {
		numEntries = MaxStories
	}
	if numEntries < 0 {
		numEntries = 0
	}
	switch feedType {
	case "top", "best", "new":
	case "":
		feedType = "top"
	default:
		return nil, fmt.Errorf("unknown feed type: %s", feedType)
	}

	ids, err := c.fetchIndex(ctx, feedType)
	if err != nil {
		return nil, err
	}
	if len(ids) > numEntries {
		ids = ids[:numEntries]
	}

	// Fan out one fetch per id and join on all of them. Slots keep the
	// index order; failed lookups leave a nil slot.
	resolved := make([]*model.Story, len(ids))
	var wg sync.WaitGroup
	for i, id := range ids {
		wg.Add(1)
		go func(i int, id int64) {
			defer wg.Done()
			resolved[i] = c.fetchStory(ctx, id)
		}(i, id)
	}
	wg.Wait()

	stories := make([]model.Story, 0, len(resolved))
	for _, s := range resolved {
		if s != nil {
			stories = append(stories, *s)
		}
	}
	return stories, nil
}

func (c *Client) fetchIndex(ctx context.Context, feedType string) ([]int64, error) {
	url := fmt.Sprintf("%s/%sstories.json", c.baseURL, feedType)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("create request failed: %w", err)
	}

	res, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch story index failed: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("story index error (status %d)", res.StatusCode)
	}

	var ids []int64
	if err := json.NewDecoder(res.Body).Decode(&ids); err != nil {
		return nil, fmt.Errorf("decode story index failed: %w", err)
	}
	return ids, nil
}

// fetchStory resolves one item. Any failure, including a schema-invalid
// payload, yields nil so the caller can drop the entry.
func (c *Client) fetchStory(ctx context.Context, id int64) *model.Story {
	url := fmt.Sprintf("%s/item/%d.json", c.baseURL, id)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil
	}

	res, err := c.client.Do(req)
	if err != nil {
		return nil
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		return nil
	}

	var story model.Story
	if err := json.NewDecoder(res.Body).Decode(&story); err != nil {
		return nil
	}
	if !story.Valid() {
		return nil
	}
	return &story
}
