package tavily

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iWorld-y/trend_scout/pkg/search"
)

func TestSearch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		var req SearchRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "duckdb", req.Query)
		// Defaults are filled in before the request goes out.
		assert.Equal(t, "basic", req.SearchDepth)
		assert.Equal(t, 5, req.MaxResults)

		fmt.Fprint(w, `{"query":"duckdb","results":[{"title":"DuckDB","url":"http://d","content":"fast olap","score":0.97}]}`)
	}))
	defer srv.Close()

	c := NewClientWithBaseURL("test-key", srv.URL)
	resp, err := c.Search(context.Background(), &search.Request{Query: "duckdb"})
	require.NoError(t, err)
	require.Len(t, resp.Results, 1)
	assert.Equal(t, "DuckDB", resp.Results[0].Title)
	assert.Equal(t, "http://d", resp.Results[0].URL)
	assert.Equal(t, "fast olap", resp.Results[0].Content)
}

func TestSearch_APIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"detail":"invalid key"}`, http.StatusUnauthorized)
	}))
	defer srv.Close()

	c := NewClientWithBaseURL("bad-key", srv.URL)
	_, err := c.Search(context.Background(), &search.Request{Query: "anything"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 401")
}

func TestSearch_EmptyResultsPassThrough(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"query":"q","results":[]}`)
	}))
	defer srv.Close()

	// The client itself reports what the provider said; the empty-set
	// policy lives with the tool layer.
	c := NewClientWithBaseURL("k", srv.URL)
	resp, err := c.Search(context.Background(), &search.Request{Query: "q"})
	require.NoError(t, err)
	assert.Empty(t, resp.Results)
}
