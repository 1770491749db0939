package hackernews

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iWorld-y/trend_scout/pkg/model"
)

// fakeFeed serves a HackerNews-shaped API: an index of ids plus per-item
// details, with configurable failures.
func fakeFeed(t *testing.T, ids []int64, items map[int64]string, broken map[int64]bool) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/topstories.json", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "[")
		for i, id := range ids {
			if i > 0 {
				fmt.Fprint(w, ",")
			}
			fmt.Fprintf(w, "%d", id)
		}
		fmt.Fprint(w, "]")
	})
	for id := range items {
		id := id
		mux.HandleFunc(fmt.Sprintf("/item/%d.json", id), func(w http.ResponseWriter, r *http.Request) {
			if broken[id] {
				http.Error(w, "boom", http.StatusInternalServerError)
				return
			}
			fmt.Fprint(w, items[id])
		})
	}
	return httptest.NewServer(mux)
}

func TestStories_DropsFailedDetails(t *testing.T) {
	srv := fakeFeed(t,
		[]int64{1, 2, 3},
		map[int64]string{
			1: `{"title":"First","url":"http://one"}`,
			2: `{"title":"Second","url":"http://two"}`,
			3: `{"title":"Third","url":"http://three"}`,
		},
		map[int64]bool{2: true},
	)
	defer srv.Close()

	c := NewClientWithBaseURL(srv.Client(), srv.URL)
	stories, err := c.Stories(context.Background(), 3, "top")
	require.NoError(t, err)

	// id 2 failed its detail fetch: the result is the two resolved stories
	// in the original relative order, with no placeholder in between.
	require.Len(t, stories, 2)
	assert.Equal(t, model.Story{Title: "First", URL: "http://one"}, stories[0])
	assert.Equal(t, model.Story{Title: "Third", URL: "http://three"}, stories[1])
}

func TestStories_DropsSchemaInvalidItems(t *testing.T) {
	srv := fakeFeed(t,
		[]int64{1, 2, 3},
		map[int64]string{
			1: `{"title":"Has URL","url":"http://one"}`,
			2: `{"title":"Job posting without url"}`,
			3: `not json at all`,
		},
		nil,
	)
	defer srv.Close()

	c := NewClientWithBaseURL(srv.Client(), srv.URL)
	stories, err := c.Stories(context.Background(), 3, "top")
	require.NoError(t, err)
	require.Len(t, stories, 1)
	assert.Equal(t, "Has URL", stories[0].Title)
}

func TestStories_TruncatesToRequestedCount(t *testing.T) {
	srv := fakeFeed(t,
		[]int64{1, 2, 3},
		map[int64]string{
			1: `{"title":"A","url":"http://a"}`,
			2: `{"title":"B","url":"http://b"}`,
			3: `{"title":"C","url":"http://c"}`,
		},
		nil,
	)
	defer srv.Close()

	c := NewClientWithBaseURL(srv.Client(), srv.URL)
	stories, err := c.Stories(context.Background(), 2, "top")
	require.NoError(t, err)
	require.Len(t, stories, 2)
	assert.Equal(t, "A", stories[0].Title)
	assert.Equal(t, "B", stories[1].Title)
}

func TestStories_RequestAboveCeilingIsClamped(t *testing.T) {
	srv := fakeFeed(t,
		[]int64{1},
		map[int64]string{1: `{"title":"A","url":"http://a"}`},
		nil,
	)
	defer srv.Close()

	c := NewClientWithBaseURL(srv.Client(), srv.URL)
	stories, err := c.Stories(context.Background(), MaxStories+1000, "top")
	require.NoError(t, err)
	assert.LessOrEqual(t, len(stories), MaxStories)
	require.Len(t, stories, 1)
}

func TestStories_IndexFailureIsHard(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "down", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	c := NewClientWithBaseURL(srv.Client(), srv.URL)
	_, err := c.Stories(context.Background(), 5, "top")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 503")
}

func TestStories_UnknownFeedType(t *testing.T) {
	c := NewClient(nil)
	_, err := c.Stories(context.Background(), 5, "weird")
	require.Error(t, err)
}
