package config

import (
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config 项目配置结构体
type Config struct {
	LLM          LLMConfig         `yaml:"llm"`
	Search       SearchConfig      `yaml:"search"`
	Upstream     UpstreamConfig    `yaml:"upstream"`
	Concurrency  ConcurrencyConfig `yaml:"concurrency"`
	Log          LogConfig         `yaml:"log"`
	CatalogFile  string            `yaml:"catalog_file"`
	FetchContent bool              `yaml:"fetch_content"` // 行业分析时抓取正文补充摘要
}

// LLMConfig LLM 相关配置
type LLMConfig struct {
	Provider string `yaml:"provider"` // eino | langchaingo | gemini
	BaseURL  string `yaml:"base_url"`
	APIKey   string `yaml:"api_key"`
	Model    string `yaml:"model"`
}

// SearchConfig 搜索相关配置
// Profile 用于参会人调研，Semantic 用于行业分析
type SearchConfig struct {
	Profile    string        `yaml:"profile"`  // serper | tavily | searxng
	Semantic   string        `yaml:"semantic"` // exa | tavily | searxng | rss
	MaxResults int           `yaml:"max_results"`
	Serper     SerperConfig  `yaml:"serper"`
	Exa        ExaConfig     `yaml:"exa"`
	Tavily     TavilyConfig  `yaml:"tavily"`
	SearXNG    SearXNGConfig `yaml:"searxng"`
	RSS        RSSConfig     `yaml:"rss"`
}

// SerperConfig Serper 配置
type SerperConfig struct {
	APIKey  string `yaml:"api_key"`
	BaseURL string `yaml:"base_url"`
}

// ExaConfig Exa 配置
type ExaConfig struct {
	APIKey  string `yaml:"api_key"`
	BaseURL string `yaml:"base_url"`
}

// TavilyConfig Tavily 配置
type TavilyConfig struct {
	APIKey  string `yaml:"api_key"`
	BaseURL string `yaml:"base_url"`
}

// SearXNGConfig SearXNG 配置
type SearXNGConfig struct {
	BaseURL string `yaml:"base_url"`
	Timeout int    `yaml:"timeout"`
}

// RSSConfig RSS 订阅源配置
type RSSConfig struct {
	Feeds []string `yaml:"feeds"`
}

// UpstreamConfig 外部调用的超时与重试
type UpstreamConfig struct {
	Timeout int `yaml:"timeout"` // 秒
	Retries int `yaml:"retries"` // 负数表示不重试
}

// TimeoutDuration 超时时间，未配置时返回 0 由调用方取默认值
func (u UpstreamConfig) TimeoutDuration() time.Duration {
	return time.Duration(u.Timeout) * time.Second
}

// LogConfig 日志相关配置
type LogConfig struct {
	Level string `yaml:"level"`
	File  string `yaml:"file"`
}

// ConcurrencyConfig 并发控制配置
type ConcurrencyConfig struct {
	QPS int `yaml:"qps"`
	RPM int `yaml:"rpm"`
}

// LoadConfig 从指定路径加载配置，并用环境变量补齐密钥
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	cfg.ApplyEnv()

	return &cfg, nil
}

// ApplyEnv 配置文件中未填写的密钥从环境变量读取
func (c *Config) ApplyEnv() {
	fill(&c.Search.Serper.APIKey, "SERPER_API_KEY")
	fill(&c.Search.Exa.APIKey, "EXA_API_KEY")
	fill(&c.Search.Tavily.APIKey, "TAVILY_API_KEY")
	switch c.LLM.Provider {
	case "gemini":
		fill(&c.LLM.APIKey, "GOOGLE_API_KEY")
	default:
		fill(&c.LLM.APIKey, "OPENAI_API_KEY")
	}
}

func fill(dst *string, env string) {
	if *dst != "" {
		return
	}
	*dst = os.Getenv(env)
}
