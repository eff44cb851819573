// Package content 抓取网页并提取正文
package content

import (
	"context"
	"time"

	"github.com/go-shiori/go-readability"
)

// Fetcher 抓取网页正文
type Fetcher interface {
	Fetch(ctx context.Context, url string) (string, error)
}

// ReadabilityFetcher 基于 go-readability 的正文提取
type ReadabilityFetcher struct {
	timeout time.Duration
}

// NewReadabilityFetcher 创建正文抓取器，timeout 为 0 时使用 30 秒
func NewReadabilityFetcher(timeout time.Duration) *ReadabilityFetcher {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &ReadabilityFetcher{timeout: timeout}
}

// Fetch 抓取 url 并返回正文纯文本
// ctx 带有更早的截止时间时以其为准
func (f *ReadabilityFetcher) Fetch(ctx context.Context, url string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	timeout := f.timeout
	if dl, ok := ctx.Deadline(); ok {
		if left := time.Until(dl); left < timeout {
			timeout = left
		}
	}
	article, err := readability.FromURL(url, timeout)
	if err != nil {
		return "", err
	}
	return article.TextContent, nil
}
