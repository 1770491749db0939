package factory

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iWorld-y/trend_scout/pkg/config"
)

func TestNewSearcher_DefaultsToTavilyWhenKeyed(t *testing.T) {
	cfg := &config.Config{}
	cfg.Search.Tavily.APIKey = "key"

	s, err := NewSearcher(cfg)
	require.NoError(t, err)
	assert.NotNil(t, s)
}

func TestNewSearcher_Unconfigured(t *testing.T) {
	_, err := NewSearcher(&config.Config{})
	require.Error(t, err)
}

func TestNewSearcher_SearXNG(t *testing.T) {
	cfg := &config.Config{}
	cfg.Search.Provider = "searxng"
	cfg.Search.SearXNG.BaseURL = "http://localhost:8080"

	s, err := NewSearcher(cfg)
	require.NoError(t, err)
	assert.NotNil(t, s)
}

func TestNewSearcher_SearXNGMissingBaseURL(t *testing.T) {
	cfg := &config.Config{}
	cfg.Search.Provider = "searxng"

	_, err := NewSearcher(cfg)
	require.Error(t, err)
}

func TestNewSearcher_UnknownProvider(t *testing.T) {
	cfg := &config.Config{}
	cfg.Search.Provider = "bing"

	_, err := NewSearcher(cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown search provider")
}

func TestNewSearcher_TavilyMissingKey(t *testing.T) {
	cfg := &config.Config{}
	cfg.Search.Provider = "tavily"

	_, err := NewSearcher(cfg)
	require.Error(t, err)
}
