package factory

import (
	"fmt"

	"github.com/iWorld-y/meeting_briefing/app/briefing/pkg/config"
	"github.com/iWorld-y/meeting_briefing/app/briefing/pkg/exa"
	"github.com/iWorld-y/meeting_briefing/app/briefing/pkg/feed"
	"github.com/iWorld-y/meeting_briefing/app/briefing/pkg/search"
	"github.com/iWorld-y/meeting_briefing/app/briefing/pkg/searxng"
	"github.com/iWorld-y/meeting_briefing/app/briefing/pkg/serper"
	"github.com/iWorld-y/meeting_briefing/app/briefing/pkg/tavily"
)

// NewProfileSearcher 参会人调研使用的搜索实例，默认 serper
// 凭据缺失时返回 nil，由调用方走兜底逻辑
func NewProfileSearcher(cfg *config.Config) (search.Searcher, error) {
	provider := cfg.Search.Profile
	if provider == "" {
		provider = "serper"
	}
	return newSearcher(cfg, provider)
}

// NewSemanticSearcher 行业分析使用的搜索实例，默认 exa
func NewSemanticSearcher(cfg *config.Config) (search.Searcher, error) {
	provider := cfg.Search.Semantic
	if provider == "" {
		provider = "exa"
	}
	return newSearcher(cfg, provider)
}

func newSearcher(cfg *config.Config, provider string) (search.Searcher, error) {
	switch provider {
	case "serper":
		c := cfg.Search.Serper
		if c.APIKey == "" {
			return nil, nil
		}
		var opts []serper.Option
		if c.BaseURL != "" {
			opts = append(opts, serper.WithBaseURL(c.BaseURL))
		}
		return serper.NewClient(c.APIKey, opts...), nil

	case "exa":
		c := cfg.Search.Exa
		if c.APIKey == "" {
			return nil, nil
		}
		var opts []exa.Option
		if c.BaseURL != "" {
			opts = append(opts, exa.WithBaseURL(c.BaseURL))
		}
		return exa.NewClient(c.APIKey, opts...), nil

	case "tavily":
		c := cfg.Search.Tavily
		if c.APIKey == "" {
			return nil, nil
		}
		var opts []tavily.Option
		if c.BaseURL != "" {
			opts = append(opts, tavily.WithBaseURL(c.BaseURL))
		}
		return tavily.NewClient(c.APIKey, opts...), nil

	case "searxng":
		baseURL := cfg.Search.SearXNG.BaseURL
		if baseURL == "" {
			return nil, nil
		}
		return searxng.NewClient(baseURL, cfg.Search.SearXNG.Timeout), nil

	case "rss":
		if len(cfg.Search.RSS.Feeds) == 0 {
			return nil, nil
		}
		return feed.NewClient(cfg.Search.RSS.Feeds), nil

	default:
		return nil, fmt.Errorf("unknown search provider: %s", provider)
	}
}
