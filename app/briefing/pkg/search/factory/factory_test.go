package factory

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iWorld-y/meeting_briefing/app/briefing/pkg/config"
	"github.com/iWorld-y/meeting_briefing/app/briefing/pkg/exa"
	"github.com/iWorld-y/meeting_briefing/app/briefing/pkg/feed"
	"github.com/iWorld-y/meeting_briefing/app/briefing/pkg/searxng"
	"github.com/iWorld-y/meeting_briefing/app/briefing/pkg/serper"
	"github.com/iWorld-y/meeting_briefing/app/briefing/pkg/tavily"
)

func TestDefaultsWithoutCredentials(t *testing.T) {
	cfg := &config.Config{}

	p, err := NewProfileSearcher(cfg)
	require.NoError(t, err)
	assert.Nil(t, p)

	s, err := NewSemanticSearcher(cfg)
	require.NoError(t, err)
	assert.Nil(t, s)
}

func TestProviderSelection(t *testing.T) {
	cfg := &config.Config{}
	cfg.Search.Serper.APIKey = "k1"
	cfg.Search.Exa.APIKey = "k2"
	cfg.Search.Tavily.APIKey = "k3"
	cfg.Search.SearXNG.BaseURL = "http://localhost:8080"
	cfg.Search.RSS.Feeds = []string{"http://localhost/feed"}

	p, err := NewProfileSearcher(cfg)
	require.NoError(t, err)
	assert.IsType(t, &serper.Client{}, p)

	s, err := NewSemanticSearcher(cfg)
	require.NoError(t, err)
	assert.IsType(t, &exa.Client{}, s)

	cases := map[string]any{
		"tavily":  &tavily.Client{},
		"searxng": &searxng.Client{},
		"rss":     &feed.Client{},
	}
	for name, want := range cases {
		cfg.Search.Semantic = name
		got, err := NewSemanticSearcher(cfg)
		require.NoError(t, err, name)
		assert.IsType(t, want, got, name)
	}

	cfg.Search.Profile = "bing"
	_, err = NewProfileSearcher(cfg)
	assert.Error(t, err)
}
