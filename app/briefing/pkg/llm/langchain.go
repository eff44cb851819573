package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"

	"github.com/iWorld-y/meeting_briefing/app/briefing/pkg/config"
)

// LangchainGenerator 基于 langchaingo 的 OpenAI 兼容模型
type LangchainGenerator struct {
	model llms.Model
}

// NewLangchainGenerator 创建 langchaingo 生成器
func NewLangchainGenerator(cfg config.LLMConfig) (*LangchainGenerator, error) {
	opts := []openai.Option{
		openai.WithToken(cfg.APIKey),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, openai.WithBaseURL(cfg.BaseURL))
	}
	if cfg.Model != "" {
		opts = append(opts, openai.WithModel(cfg.Model))
	}
	m, err := openai.New(opts...)
	if err != nil {
		return nil, fmt.Errorf("LLM 初始化失败: %w", err)
	}
	return &LangchainGenerator{model: m}, nil
}

// Generate implements Generator
func (g *LangchainGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	out, err := llms.GenerateFromSinglePrompt(ctx, g.model, prompt, llms.WithTemperature(0.7))
	if err != nil {
		return "", classifyErr("langchaingo", err)
	}
	if strings.TrimSpace(out) == "" {
		return "", emptyErr("langchaingo")
	}
	return out, nil
}
