// Package exa 语义搜索接口（api.exa.ai），用于行业趋势分析
package exa

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
	defaultBaseURL = "https://api.exa.ai/search"
	provider       = "exa"
)

// Client Exa API 客户端
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

// NewClient 创建 Exa 客户端
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

type contentsOption struct {
	Text bool `json:"text"`
}

type searchRequest struct {
	Query              string          `json:"query"`
	NumResults         int             `json:"numResults"`
	Type               string          `json:"type,omitempty"`
	Category           string          `json:"category,omitempty"`
	StartPublishedDate string          `json:"startPublishedDate,omitempty"`
	EndPublishedDate   string          `json:"endPublishedDate,omitempty"`
	Contents           *contentsOption `json:"contents,omitempty"`
}

// SearchResponse Exa 响应
type SearchResponse struct {
	RequestID string         `json:"requestId"`
	Results   []SearchResult `json:"results"`
}

// SearchResult Exa 单条结果
type SearchResult struct {
	ID            string  `json:"id"`
	Title         string  `json:"title"`
	URL           string  `json:"url"`
	PublishedDate string  `json:"publishedDate"`
	Author        string  `json:"author"`
	Score         float64 `json:"score"`
	Text          string  `json:"text"`
}

// Search implements search.Searcher
func (c *Client) Search(ctx context.Context, req *search.Request) (*search.Response, error) {
	if c.apiKey == "" {
		return nil, fmt.Errorf("exa: %w", upstream.ErrCredentialMissing)
	}
	num := req.MaxResults
	if num <= 0 {
		num = 5
	}
	er := searchRequest{
		Query:      req.Query,
		NumResults: num,
		Type:       "auto",
	}
	if req.Topic == "news" {
		er.Category = "news"
	}
	if req.StartDate != "" {
		er.StartPublishedDate = req.StartDate + "T00:00:00.000Z"
	}
	if req.EndDate != "" {
		er.EndPublishedDate = req.EndDate + "T23:59:59.999Z"
	}
	if req.IncludeRawContent {
		er.Contents = &contentsOption{Text: true}
	}

	payload, err := json.Marshal(er)
	if err != nil {
		return nil, fmt.Errorf("marshal request failed: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("create request failed: %w", err)
	}
	httpReq.Header.Set("x-api-key", c.apiKey)
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

	results := make([]search.Result, 0, len(sr.Results))
	for _, r := range sr.Results {
		results = append(results, search.Result{
			Title:         r.Title,
			URL:           r.URL,
			RawContent:    r.Text,
			Content:       snippet(r.Text, 500),
			Score:         r.Score,
			PublishedDate: r.PublishedDate,
		})
	}
	return &search.Response{Provider: provider, Results: results}, nil
}

// snippet 按 rune 截断正文
func snippet(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
