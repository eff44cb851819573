package server

import (
	"context"

	"github.com/go-kratos/kratos/v2/log"

	"github.com/iWorld-y/meeting_briefing/app/briefing/pkg/config"
	"github.com/iWorld-y/meeting_briefing/app/briefing/pkg/engine"
	bLogger "github.com/iWorld-y/meeting_briefing/app/briefing/pkg/logger"
	"github.com/iWorld-y/meeting_briefing/app/server/internal/conf"
)

// NewBriefingEngine 初始化会议简报引擎
func NewBriefingEngine(c *conf.Briefing, logger log.Logger) (*engine.Engine, func(), error) {
	cfg := ToConfig(c)

	// 初始化日志
	if err := bLogger.InitLogger(cfg.Log.Level, cfg.Log.File); err != nil {
		log.NewHelper(logger).Errorf("Failed to init briefing logger: %v", err)
		_ = bLogger.InitLogger("info", "") // 降级处理
	}

	// 初始化核心引擎
	eng, err := engine.NewEngine(context.Background(), cfg)
	if err != nil {
		log.NewHelper(logger).Errorf("Failed to init engine: %v", err)
		return nil, nil, err
	}

	cleanup := func() {
		log.NewHelper(logger).Info("Cleaning up briefing engine")
	}
	return eng, cleanup, nil
}

// ToConfig 将 internal/conf.Briefing 转换为 pkg/config.Config，并用环境变量补齐密钥
func ToConfig(c *conf.Briefing) *config.Config {
	cfg := &config.Config{}
	if c == nil {
		cfg.ApplyEnv()
		return cfg
	}

	cfg.CatalogFile = c.CatalogFile
	cfg.FetchContent = c.FetchContent
	if c.Llm != nil {
		cfg.LLM = config.LLMConfig{
			Provider: c.Llm.Provider,
			BaseURL:  c.Llm.BaseUrl,
			APIKey:   c.Llm.ApiKey,
			Model:    c.Llm.Model,
		}
	}
	if s := c.Search; s != nil {
		cfg.Search.Profile = s.Profile
		cfg.Search.Semantic = s.Semantic
		cfg.Search.MaxResults = int(s.MaxResults)
		if s.Serper != nil {
			cfg.Search.Serper = config.SerperConfig{APIKey: s.Serper.ApiKey, BaseURL: s.Serper.BaseUrl}
		}
		if s.Exa != nil {
			cfg.Search.Exa = config.ExaConfig{APIKey: s.Exa.ApiKey, BaseURL: s.Exa.BaseUrl}
		}
		if s.Tavily != nil {
			cfg.Search.Tavily = config.TavilyConfig{APIKey: s.Tavily.ApiKey, BaseURL: s.Tavily.BaseUrl}
		}
		if s.Searxng != nil {
			cfg.Search.SearXNG = config.SearXNGConfig{BaseURL: s.Searxng.BaseUrl, Timeout: int(s.Searxng.Timeout)}
		}
		if s.Rss != nil {
			cfg.Search.RSS = config.RSSConfig{Feeds: s.Rss.Feeds}
		}
	}
	if c.Upstream != nil {
		cfg.Upstream = config.UpstreamConfig{Timeout: int(c.Upstream.Timeout), Retries: int(c.Upstream.Retries)}
	}
	if c.Concurrency != nil {
		cfg.Concurrency = config.ConcurrencyConfig{QPS: int(c.Concurrency.Qps), RPM: int(c.Concurrency.Rpm)}
	}
	if c.Log != nil {
		cfg.Log = config.LogConfig{Level: c.Log.Level, File: c.Log.File}
	}
	cfg.ApplyEnv()
	return cfg
}
