package exa

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iWorld-y/meeting_briefing/app/briefing/pkg/search"
	"github.com/iWorld-y/meeting_briefing/app/briefing/pkg/upstream"
)

func TestSearch(t *testing.T) {
	long := strings.Repeat("edge ", 200)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "secret", r.Header.Get("x-api-key"))

		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "Edge Computing industry trends", body["query"])
		assert.EqualValues(t, 3, body["numResults"])
		assert.Equal(t, map[string]any{"text": true}, body["contents"])

		_ = json.NewEncoder(w).Encode(SearchResponse{Results: []SearchResult{
			{Title: "Edge growth", URL: "https://news.example/edge", Text: long, Score: 0.9},
		}})
	}))
	defer srv.Close()

	c := NewClient("secret", WithBaseURL(srv.URL))
	resp, err := c.Search(context.Background(), &search.Request{
		Query:             "Edge Computing industry trends",
		MaxResults:        3,
		IncludeRawContent: true,
	})
	require.NoError(t, err)
	require.Len(t, resp.Results, 1)
	assert.Equal(t, long, resp.Results[0].RawContent)
	assert.Len(t, []rune(resp.Results[0].Content), 500)
	assert.Equal(t, 0.9, resp.Results[0].Score)
}

func TestSearchQuotaExceeded(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	_, err := NewClient("k", WithBaseURL(srv.URL)).Search(context.Background(), &search.Request{Query: "x"})
	require.Error(t, err)
	assert.False(t, upstream.Retryable(err))
	assert.Equal(t, "status_429", upstream.Kind(err))
}
