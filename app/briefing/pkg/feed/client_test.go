package feed

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iWorld-y/meeting_briefing/app/briefing/pkg/search"
	"github.com/iWorld-y/meeting_briefing/app/briefing/pkg/upstream"
)

const rss = `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0"><channel><title>Industry News</title>
<item><title>Edge computing spending rises</title><link>https://n.example/1</link><description>Operators expand edge sites</description></item>
<item><title>Retail footfall report</title><link>https://n.example/2</link><description>Stores see more visitors</description></item>
<item><title>Cloud outage recap</title><link>https://n.example/3</link><description>Edge caches kept sites online</description></item>
</channel></rss>`

func TestSearchFiltersItems(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/rss+xml")
		_, _ = w.Write([]byte(rss))
	}))
	defer srv.Close()

	c := NewClient([]string{srv.URL})
	resp, err := c.Search(context.Background(), &search.Request{Query: "Edge Computing trends"})
	require.NoError(t, err)
	assert.Equal(t, "rss", resp.Provider)
	require.Len(t, resp.Results, 2)
	assert.Equal(t, "https://n.example/1", resp.Results[0].URL)
	assert.Equal(t, "https://n.example/3", resp.Results[1].URL)

	resp, err = c.Search(context.Background(), &search.Request{Query: "edge", MaxResults: 1})
	require.NoError(t, err)
	assert.Len(t, resp.Results, 1)
}

func TestSearchAllFeedsDown(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	_, err := NewClient([]string{srv.URL}).Search(context.Background(), &search.Request{Query: "edge"})
	assert.ErrorIs(t, err, upstream.ErrUpstreamUnreachable)

	_, err = NewClient(nil).Search(context.Background(), &search.Request{Query: "edge"})
	assert.ErrorIs(t, err, upstream.ErrCredentialMissing)
}
