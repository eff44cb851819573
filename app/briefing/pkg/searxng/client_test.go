package searxng

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

func TestSearch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/search", r.URL.Path)
		assert.Equal(t, "json", r.URL.Query().Get("format"))
		assert.Equal(t, "news", r.URL.Query().Get("categories"))
		_, _ = w.Write([]byte(`{"query":"q","results":[
			{"title":"one","url":"https://1.example","content":"c1"},
			{"title":"two","url":"https://2.example","content":"c2"},
			{"title":"three","url":"https://3.example","content":"c3"}
		]}`))
	}))
	defer srv.Close()

	resp, err := NewClient(srv.URL, 5).Search(context.Background(), &search.Request{Query: "q", Topic: "news", MaxResults: 2})
	require.NoError(t, err)
	require.Len(t, resp.Results, 2)
	assert.Equal(t, "two", resp.Results[1].Title)
}

func TestSearchUnavailable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL, 5).Search(context.Background(), &search.Request{Query: "q"})
	assert.ErrorIs(t, err, upstream.ErrUpstreamUnreachable)
	assert.True(t, upstream.Retryable(err))
}
