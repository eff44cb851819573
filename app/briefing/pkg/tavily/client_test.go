package tavily

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iWorld-y/meeting_briefing/app/briefing/pkg/search"
	"github.com/iWorld-y/meeting_briefing/app/briefing/pkg/upstream"
)

func TestSearch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer tvly", r.Header.Get("Authorization"))

		var req SearchRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "basic", req.SearchDepth)
		assert.Equal(t, "general", req.Topic)
		assert.Equal(t, 5, req.MaxResults)

		_ = json.NewEncoder(w).Encode(SearchResponse{Results: []SearchResult{
			{Title: "AI adoption", URL: "https://a.example", Content: "trend", Score: 0.5},
		}})
	}))
	defer srv.Close()

	resp, err := NewClient("tvly", WithBaseURL(srv.URL)).Search(context.Background(), &search.Request{Query: "AI"})
	require.NoError(t, err)
	assert.Equal(t, "tavily", resp.Provider)
	require.Len(t, resp.Results, 1)
	assert.Equal(t, "AI adoption", resp.Results[0].Title)
}

func TestSearchMissingKey(t *testing.T) {
	_, err := NewClient("").Search(context.Background(), &search.Request{Query: "AI"})
	assert.ErrorIs(t, err, upstream.ErrCredentialMissing)
}
