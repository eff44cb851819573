package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/cloudwego/eino-ext/components/model/openai"
	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"

	"github.com/iWorld-y/meeting_briefing/app/briefing/pkg/config"
)

// systemPrompt 只描述角色，输出格式由各环节的提示词自行约定
const systemPrompt = "You are a business analyst helping an executive prepare for a meeting. Follow the output format requested in each prompt exactly."

// EinoGenerator 基于 eino 的 OpenAI 兼容对话模型
type EinoGenerator struct {
	cm model.BaseChatModel
}

// NewEinoGenerator 创建 eino 生成器
func NewEinoGenerator(ctx context.Context, cfg config.LLMConfig) (*EinoGenerator, error) {
	cm, err := openai.NewChatModel(ctx, &openai.ChatModelConfig{
		BaseURL: cfg.BaseURL,
		APIKey:  cfg.APIKey,
		Model:   cfg.Model,
	})
	if err != nil {
		return nil, fmt.Errorf("LLM 初始化失败: %w", err)
	}
	return &EinoGenerator{cm: cm}, nil
}

// Generate implements Generator
func (g *EinoGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	messages := []*schema.Message{
		{Role: schema.System, Content: systemPrompt},
		{Role: schema.User, Content: prompt},
	}
	resp, err := g.cm.Generate(ctx, messages)
	if err != nil {
		return "", classifyErr("eino", err)
	}
	if resp == nil || strings.TrimSpace(resp.Content) == "" {
		return "", emptyErr("eino")
	}
	return resp.Content, nil
}
