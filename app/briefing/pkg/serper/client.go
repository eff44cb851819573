// Package serper Google 搜索结果接口（google.serper.dev），用于参会人背景调研
package serper

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/iWorld-y/meeting_briefing/app/briefing/pkg/search"
	"github.com/iWorld-y/meeting_briefing/app/briefing/pkg/upstream"
)

const (
	defaultBaseURL = "https://google.serper.dev/search"
	provider       = "serper"
)

// Client Serper API 客户端
type Client struct {
	apiKey  string
	baseURL string
	client  *http.Client
}

// Option 客户端选项
type Option func(*Client)

// WithBaseURL 覆盖接口地址
func WithBaseURL(u string) Option {
	return func(c *Client) { c.baseURL = u }
}

// NewClient 创建 Serper 客户端
func NewClient(apiKey string, opts ...Option) *Client {
	c := &Client{
		apiKey:  apiKey,
		baseURL: defaultBaseURL,
		client:  http.DefaultClient,
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

var _ search.Searcher = (*Client)(nil)

type searchRequest struct {
	Q   string `json:"q"`
	Num int    `json:"num"`
}

// SearchResponse Serper 响应，只解析用到的 organic 部分
type SearchResponse struct {
	Organic []OrganicResult `json:"organic"`
}

// OrganicResult 自然搜索结果
type OrganicResult struct {
	Title    string `json:"title"`
	Link     string `json:"link"`
	Snippet  string `json:"snippet"`
	Date     string `json:"date"`
	Position int    `json:"position"`
}

// Search implements search.Searcher
func (c *Client) Search(ctx context.Context, req *search.Request) (*search.Response, error) {
	if c.apiKey == "" {
		return nil, fmt.Errorf("serper: %w", upstream.ErrCredentialMissing)
	}
	num := req.MaxResults
	if num <= 0 {
		num = 10
	}

	payload, err := json.Marshal(searchRequest{Q: req.Query, Num: num})
	if err != nil {
		return nil, fmt.Errorf("marshal request failed: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("create request failed: %w", err)
	}
	httpReq.Header.Set("X-API-KEY", c.apiKey)
	httpReq.Header.Set("Content-Type", "application/json")

	res, err := c.client.Do(httpReq)
	if err != nil {
		return nil, upstream.Transport(provider, err)
	}
	defer res.Body.Close()

	body, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, upstream.Transport(provider, err)
	}
	if err := upstream.CheckStatus(provider, res.StatusCode, body); err != nil {
		return nil, err
	}

	var sr SearchResponse
	if err := json.Unmarshal(body, &sr); err != nil {
		return nil, upstream.Malformed(provider, err)
	}

	results := make([]search.Result, 0, len(sr.Organic))
	for _, o := range sr.Organic {
		results = append(results, search.Result{
			Title:         o.Title,
			URL:           o.Link,
			Content:       o.Snippet,
			PublishedDate: o.Date,
		})
	}
	return &search.Response{Provider: provider, Results: results}, nil
}
