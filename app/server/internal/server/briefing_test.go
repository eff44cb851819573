package server

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/iWorld-y/meeting_briefing/app/server/internal/conf"
)

func TestToConfig(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "env-openai")
	t.Setenv("SERPER_API_KEY", "env-serper")
	t.Setenv("EXA_API_KEY", "")
	t.Setenv("TAVILY_API_KEY", "")

	cfg := ToConfig(&conf.Briefing{
		Llm:         &conf.LLM{Provider: "langchaingo", Model: "gpt-4o-mini"},
		Search:      &conf.Search{Profile: "serper", Semantic: "exa", MaxResults: 5, Exa: &conf.APIKey{ApiKey: "explicit"}},
		Upstream:    &conf.Upstream{Timeout: 10, Retries: 1},
		Concurrency: &conf.Concurrency{Qps: 3},
		Log:         &conf.Log{Level: "debug"},
	})

	assert.Equal(t, "langchaingo", cfg.LLM.Provider)
	assert.Equal(t, "env-openai", cfg.LLM.APIKey)
	assert.Equal(t, "env-serper", cfg.Search.Serper.APIKey)
	assert.Equal(t, "explicit", cfg.Search.Exa.APIKey)
	assert.Equal(t, 5, cfg.Search.MaxResults)
	assert.Equal(t, 10, cfg.Upstream.Timeout)
	assert.Equal(t, 3, cfg.Concurrency.QPS)
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestToConfigNil(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "")
	cfg := ToConfig(nil)
	assert.NotNil(t, cfg)
	assert.Empty(t, cfg.LLM.APIKey)
}
