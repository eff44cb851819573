// Package feed 以 RSS 订阅源作为语义搜索的备选来源
package feed

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/mmcdole/gofeed"

	"github.com/iWorld-y/meeting_briefing/app/briefing/pkg/logger"
	"github.com/iWorld-y/meeting_briefing/app/briefing/pkg/search"
	"github.com/iWorld-y/meeting_briefing/app/briefing/pkg/upstream"
)

const provider = "rss"

// Client 拉取配置的订阅源，按查询词过滤条目
type Client struct {
	feeds  []string
	parser *gofeed.Parser
	now    func() time.Time
}

// NewClient 创建 RSS 客户端
func NewClient(feeds []string) *Client {
	return &Client{
		feeds:  feeds,
		parser: gofeed.NewParser(),
		now:    time.Now,
	}
}

var _ search.Searcher = (*Client)(nil)

// Search 任一查询词出现在标题或摘要中即视为命中
// 所有订阅源都拉取失败时返回 ErrUpstreamUnreachable
func (c *Client) Search(ctx context.Context, req *search.Request) (*search.Response, error) {
	if len(c.feeds) == 0 {
		return nil, fmt.Errorf("rss: no feeds configured: %w", upstream.ErrCredentialMissing)
	}
	terms := queryTerms(req.Query)
	var since time.Time
	if req.StartDate != "" {
		if t, err := time.Parse("2006-01-02", req.StartDate); err == nil {
			since = t
		}
	}

	results := make([]search.Result, 0)
	var failed int
	var lastErr error
	for _, u := range c.feeds {
		f, err := c.parser.ParseURLWithContext(u, ctx)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			failed++
			lastErr = err
			logger.Log.Warnf("解析 RSS 失败 [%s]: %v", u, err)
			continue
		}
		for _, item := range f.Items {
			if item.PublishedParsed != nil && !since.IsZero() && item.PublishedParsed.Before(since) {
				continue
			}
			text := strings.ToLower(item.Title + " " + item.Description)
			if !containsAny(text, terms) {
				continue
			}
			results = append(results, search.Result{
				Title:         item.Title,
				URL:           item.Link,
				Content:       item.Description,
				RawContent:    item.Content,
				PublishedDate: item.Published,
			})
			if req.MaxResults > 0 && len(results) >= req.MaxResults {
				return &search.Response{Provider: provider, Results: results}, nil
			}
		}
	}
	if failed == len(c.feeds) {
		return nil, upstream.Transport(provider, lastErr)
	}
	return &search.Response{Provider: provider, Results: results}, nil
}

// queryTerms 拆分查询词，忽略过短的词
func queryTerms(q string) []string {
	fields := strings.FieldsFunc(strings.ToLower(q), func(r rune) bool {
		return r == ' ' || r == ',' || r == ';' || r == '"'
	})
	terms := make([]string, 0, len(fields))
	for _, f := range fields {
		if len([]rune(f)) >= 3 {
			terms = append(terms, f)
		}
	}
	return terms
}

func containsAny(text string, terms []string) bool {
	for _, t := range terms {
		if strings.Contains(text, t) {
			return true
		}
	}
	return false
}
