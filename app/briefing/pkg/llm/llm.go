// Package llm 文本生成能力，屏蔽不同模型服务的差异
package llm

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"regexp"
	"strconv"
	"strings"

	goopenai "github.com/meguminnnnnnnnn/go-openai"
	"google.golang.org/genai"

	"github.com/iWorld-y/meeting_briefing/app/briefing/pkg/config"
	"github.com/iWorld-y/meeting_briefing/app/briefing/pkg/upstream"
)

// Generator 根据提示词生成文本
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// New 按配置创建生成器，未配置 API Key 时返回 nil
func New(ctx context.Context, cfg config.LLMConfig) (Generator, error) {
	if cfg.APIKey == "" {
		return nil, nil
	}
	switch cfg.Provider {
	case "", "eino", "openai":
		return NewEinoGenerator(ctx, cfg)
	case "langchaingo":
		return NewLangchainGenerator(cfg)
	case "gemini":
		return NewGeminiGenerator(ctx, cfg)
	default:
		return nil, fmt.Errorf("unknown llm provider: %s", cfg.Provider)
	}
}

// CleanJSON 去掉模型输出中的 markdown 代码块标记以及 JSON 前后的多余文本
func CleanJSON(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	s = strings.TrimSpace(s)
	start := strings.IndexAny(s, "{[")
	if start < 0 {
		return s
	}
	end := strings.LastIndexAny(s, "}]")
	if end < start {
		return s[start:]
	}
	return s[start : end+1]
}

// statusCodePattern 匹配 "API returned unexpected status code: 429" 这类错误文本
var statusCodePattern = regexp.MustCompile(`status code: (\d{3})\b`)

// statusCode 从模型服务的错误中提取 HTTP 状态码，无法识别时返回 0
func statusCode(err error) int {
	var gErr genai.APIError
	if errors.As(err, &gErr) {
		return gErr.Code
	}
	var apiErr *goopenai.APIError
	if errors.As(err, &apiErr) && apiErr.HTTPStatusCode > 0 {
		return apiErr.HTTPStatusCode
	}
	var reqErr *goopenai.RequestError
	if errors.As(err, &reqErr) && reqErr.HTTPStatusCode > 0 {
		return reqErr.HTTPStatusCode
	}
	if m := statusCodePattern.FindStringSubmatch(err.Error()); m != nil {
		code, _ := strconv.Atoi(m[1])
		return code
	}
	return 0
}

// classifyErr 将模型服务的错误归入 upstream 的分类
func classifyErr(provider string, err error) error {
	code := statusCode(err)
	if code == 0 {
		msg := strings.ToLower(err.Error())
		switch {
		case strings.Contains(msg, "too many requests") || strings.Contains(msg, "resource_exhausted"):
			code = http.StatusTooManyRequests
		case strings.Contains(msg, "unauthorized"):
			code = http.StatusUnauthorized
		}
	}
	if code >= http.StatusBadRequest {
		return fmt.Errorf("%w: %v", &upstream.StatusError{Provider: provider, Code: code}, err)
	}
	return upstream.Transport(provider, err)
}

// emptyErr 模型返回空内容
func emptyErr(provider string) error {
	return fmt.Errorf("%s: %w: empty completion", provider, upstream.ErrUpstreamMalformed)
}
