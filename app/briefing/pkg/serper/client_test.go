package serper

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
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "secret", r.Header.Get("X-API-KEY"))

		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "Jane Doe linkedin", body["q"])
		assert.EqualValues(t, 5, body["num"])

		_, _ = w.Write([]byte(`{"organic":[
			{"title":"Jane Doe - CTO - Acme | LinkedIn","link":"https://www.linkedin.com/in/janedoe","snippet":"Experience: CTO at Acme"},
			{"title":"Acme Corp","link":"https://acme.example","snippet":"Acme is a company"}
		]}`))
	}))
	defer srv.Close()

	c := NewClient("secret", WithBaseURL(srv.URL))
	resp, err := c.Search(context.Background(), &search.Request{Query: "Jane Doe linkedin", MaxResults: 5})
	require.NoError(t, err)
	assert.Equal(t, "serper", resp.Provider)
	require.Len(t, resp.Results, 2)
	assert.Equal(t, "https://www.linkedin.com/in/janedoe", resp.Results[0].URL)
	assert.Equal(t, "Experience: CTO at Acme", resp.Results[0].Content)
}

func TestSearchErrors(t *testing.T) {
	_, err := NewClient("").Search(context.Background(), &search.Request{Query: "x"})
	assert.ErrorIs(t, err, upstream.ErrCredentialMissing)

	tests := []struct {
		name   string
		status int
		body   string
		check  func(t *testing.T, err error)
	}{
		{"server error", http.StatusBadGateway, "oops", func(t *testing.T, err error) {
			assert.ErrorIs(t, err, upstream.ErrUpstreamUnreachable)
		}},
		{"unauthorized", http.StatusUnauthorized, "bad key", func(t *testing.T, err error) {
			var se *upstream.StatusError
			require.ErrorAs(t, err, &se)
			assert.True(t, se.AuthOrQuota())
		}},
		{"malformed", http.StatusOK, "{not json", func(t *testing.T, err error) {
			assert.ErrorIs(t, err, upstream.ErrUpstreamMalformed)
		}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tc.status)
				_, _ = w.Write([]byte(tc.body))
			}))
			defer srv.Close()

			_, err := NewClient("k", WithBaseURL(srv.URL)).Search(context.Background(), &search.Request{Query: "x"})
			require.Error(t, err)
			tc.check(t, err)
		})
	}
}
