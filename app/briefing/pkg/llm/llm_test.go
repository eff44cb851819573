package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	goopenai "github.com/meguminnnnnnnnn/go-openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"

	"github.com/iWorld-y/meeting_briefing/app/briefing/pkg/config"
	"github.com/iWorld-y/meeting_briefing/app/briefing/pkg/upstream"
)

func TestCleanJSON(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain", `{"a":1}`, `{"a":1}`},
		{"fenced", "```json\n{\"a\":1}\n```", `{"a":1}`},
		{"bare fence", "```\n[1,2]\n```", `[1,2]`},
		{"chatter", "Sure! Here it is: {\"a\":1} Hope this helps.", `{"a":1}`},
		{"no json", "nothing here", "nothing here"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, CleanJSON(tc.in))
		})
	}
}

func TestNewWithoutKey(t *testing.T) {
	g, err := New(context.Background(), config.LLMConfig{Provider: "gemini"})
	require.NoError(t, err)
	assert.Nil(t, g)

	_, err = New(context.Background(), config.LLMConfig{Provider: "mystery", APIKey: "k"})
	assert.Error(t, err)
}

func fakeOpenAI(t *testing.T, status int, content string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasSuffix(r.URL.Path, "/chat/completions") {
			http.NotFound(w, r)
			return
		}
		if status != http.StatusOK {
			w.WriteHeader(status)
			_, _ = w.Write([]byte(`{"error":{"message":"slow down","type":"rate_limit"}}`))
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"id":      "chatcmpl-1",
			"object":  "chat.completion",
			"created": 1,
			"model":   "test-model",
			"choices": []map[string]any{{
				"index":         0,
				"finish_reason": "stop",
				"message":       map[string]any{"role": "assistant", "content": content},
			}},
			"usage": map[string]any{"prompt_tokens": 1, "completion_tokens": 1, "total_tokens": 2},
		})
	}))
}

func TestOpenAICompatibleGenerators(t *testing.T) {
	srv := fakeOpenAI(t, http.StatusOK, `{"ok":true}`)
	defer srv.Close()

	for _, provider := range []string{"eino", "langchaingo"} {
		t.Run(provider, func(t *testing.T) {
			g, err := New(context.Background(), config.LLMConfig{
				Provider: provider,
				BaseURL:  srv.URL + "/v1",
				APIKey:   "k",
				Model:    "test-model",
			})
			require.NoError(t, err)
			out, err := g.Generate(context.Background(), "say ok")
			require.NoError(t, err)
			assert.Equal(t, `{"ok":true}`, out)
		})
	}
}

func TestEinoRateLimitIsNotRetryable(t *testing.T) {
	srv := fakeOpenAI(t, http.StatusTooManyRequests, "")
	defer srv.Close()

	g, err := NewEinoGenerator(context.Background(), config.LLMConfig{BaseURL: srv.URL + "/v1", APIKey: "k", Model: "m"})
	require.NoError(t, err)
	_, err = g.Generate(context.Background(), "x")
	require.Error(t, err)
	assert.False(t, upstream.Retryable(err))
}

func TestGeminiGenerator(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Contains(t, r.URL.Path, "gemini-test:generateContent")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"candidates":[{"content":{"role":"model","parts":[{"text":"{\"summary\":\"ready\"}"}]},"finishReason":"STOP"}]}`))
	}))
	defer srv.Close()

	g, err := New(context.Background(), config.LLMConfig{
		Provider: "gemini",
		BaseURL:  srv.URL,
		APIKey:   "k",
		Model:    "gemini-test",
	})
	require.NoError(t, err)
	out, err := g.Generate(context.Background(), "summarize")
	require.NoError(t, err)
	assert.Equal(t, `{"summary":"ready"}`, out)
}

func TestClassifyErr(t *testing.T) {
	tests := []struct {
		name      string
		err       error
		code      int
		retryable bool
	}{
		{"genai quota", fmt.Errorf("generate: %w", genai.APIError{Code: 429, Status: "RESOURCE_EXHAUSTED"}), 429, false},
		{"openai auth", fmt.Errorf("failed to create chat completion: %w", &goopenai.APIError{HTTPStatusCode: 401, Message: "bad key"}), 401, false},
		{"openai gateway", &goopenai.RequestError{HTTPStatusCode: 503, Err: errors.New("bad gateway")}, 503, true},
		{"langchaingo text", errors.New("API returned unexpected status code: 429: quota exceeded"), 429, false},
		{"quota wording", errors.New("Too Many Requests"), 429, false},
		{"port in address", errors.New("dial tcp 127.0.0.1:4010: connect: connection refused"), 0, true},
		{"request id", errors.New("request req_4291 failed: unexpected EOF"), 0, true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := classifyErr("llm", tc.err)
			var se *upstream.StatusError
			if tc.code == 0 {
				assert.False(t, errors.As(err, &se))
				assert.ErrorIs(t, err, upstream.ErrUpstreamUnreachable)
			} else {
				require.True(t, errors.As(err, &se))
				assert.Equal(t, tc.code, se.Code)
			}
			assert.Equal(t, tc.retryable, upstream.Retryable(err))
		})
	}

	assert.ErrorIs(t, classifyErr("llm", context.DeadlineExceeded), upstream.ErrUpstreamTimeout)
}

func TestGeminiQuotaIsNotRetryable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"error":{"code":429,"message":"quota exhausted","status":"RESOURCE_EXHAUSTED"}}`))
	}))
	defer srv.Close()

	g, err := NewGeminiGenerator(context.Background(), config.LLMConfig{BaseURL: srv.URL, APIKey: "k", Model: "gemini-test"})
	require.NoError(t, err)
	_, err = g.Generate(context.Background(), "summarize")
	require.Error(t, err)
	assert.False(t, upstream.Retryable(err))
	assert.Equal(t, "status_429", upstream.Kind(err))
}
