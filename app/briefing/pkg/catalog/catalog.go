package catalog

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/iWorld-y/meeting_briefing/app/briefing/pkg/model"
)

//go:embed catalog.yaml
var defaultYAML []byte

// Catalog 静态配置：行业关键词表、异议库以及各类兜底模板
// 进程启动时加载一次，之后只读
type Catalog struct {
	DefaultIndustry         string           `yaml:"default_industry"`
	Industries              []Industry       `yaml:"industries"`
	GenericIndustryFallback IndustryFallback `yaml:"generic_industry_fallback"`
	ParticipantFallback     ParticipantTpl   `yaml:"participant_fallback"`
	Objections              []ObjectionEntry `yaml:"objections"`
	GenericObjections       []ObjectionEntry `yaml:"generic_objections"`
	Strategy                StrategyTpl      `yaml:"strategy"`
	Research                ResearchTpl      `yaml:"research"`
	Industry                IndustryTpl      `yaml:"industry"`
	Briefing                BriefingTpl      `yaml:"briefing"`
}

// Industry 单个行业标签及其关键词
type Industry struct {
	Tag      string            `yaml:"tag"`
	Keywords []string          `yaml:"keywords"`
	Fallback *IndustryFallback `yaml:"fallback"`
}

// IndustryFallback 行业兜底内容
type IndustryFallback struct {
	CurrentTrends        []string `yaml:"current_trends"`
	MarketChallenges     []string `yaml:"market_challenges"`
	GrowthOpportunities  []string `yaml:"growth_opportunities"`
	CompetitiveLandscape []string `yaml:"competitive_landscape"`
	InvestmentOutlook    string   `yaml:"investment_outlook"`
	RiskFactors          []string `yaml:"risk_factors"`
}

// ParticipantTpl 参会人兜底模板
type ParticipantTpl struct {
	ProfileSummary string   `yaml:"profile_summary"`
	Experience     []string `yaml:"experience"`
	Education      []string `yaml:"education"`
}

// ObjectionEntry 异议库条目，Keywords 为空表示通用条目
type ObjectionEntry struct {
	Keywords  []string `yaml:"keywords"`
	Objection string   `yaml:"objection"`
	Response  string   `yaml:"response"`
}

// ToModel 转换为模型对象
func (e ObjectionEntry) ToModel() model.Objection {
	return model.Objection{Objection: e.Objection, Response: e.Response}
}

// StrategyTpl 启发式策略模板
type StrategyTpl struct {
	TalkingPoints           []string            `yaml:"talking_points"`
	StrategicQuestions      []string            `yaml:"strategic_questions"`
	ConversationStarters    []string            `yaml:"conversation_starters"`
	ValuePropositions       []string            `yaml:"value_propositions"`
	CompanyValueProposition string              `yaml:"company_value_proposition"`
	CommonGroundAreas       []string            `yaml:"common_ground_areas"`
	MeetingFlow             []string            `yaml:"meeting_flow"`
	ContingencyPlans        map[string][]string `yaml:"contingency_plans"`
	KeySuccessFactors       []string            `yaml:"key_success_factors"`
	PreMeetingChecklist     []string            `yaml:"pre_meeting_checklist"`
	SuccessMetrics          []string            `yaml:"success_metrics"`
}

// ResearchTpl 调研环节的静态建议
type ResearchTpl struct {
	Recommendations []string `yaml:"recommendations"`
}

// IndustryTpl 行业分析环节的静态内容
type IndustryTpl struct {
	QuestionTemplate         string   `yaml:"question_template"`
	KeyFindings              []string `yaml:"key_findings"`
	StrategicRecommendations []string `yaml:"strategic_recommendations"`
}

// BriefingTpl 简报编排模板
type BriefingTpl struct {
	Title                string      `yaml:"title"`
	SummaryTemplate      string      `yaml:"summary_template"`
	ProcessReminders     []string    `yaml:"process_reminders"`
	PreparationChecklist []string    `yaml:"preparation_checklist"`
	ImmediateActions     []string    `yaml:"immediate_actions"`
	SuccessIndicators    []string    `yaml:"success_indicators"`
	FollowUpTemplate     FollowUpTpl `yaml:"follow_up_template"`
}

// FollowUpTpl 会后跟进邮件模板
type FollowUpTpl struct {
	SubjectLine string `yaml:"subject_line"`
	Opening     string `yaml:"opening"`
	Summary     string `yaml:"summary_section"`
	NextSteps   string `yaml:"next_steps_section"`
	Resources   string `yaml:"resources_section"`
	Closing     string `yaml:"closing"`
}

// ToModel 转换为模型对象
func (f FollowUpTpl) ToModel() model.FollowUpTemplate {
	return model.FollowUpTemplate{
		SubjectLine: f.SubjectLine,
		Opening:     f.Opening,
		Summary:     f.Summary,
		NextSteps:   f.NextSteps,
		Resources:   f.Resources,
		Closing:     f.Closing,
	}
}

var (
	defaultOnce sync.Once
	defaultCat  *Catalog
)

// Default 返回内置目录，解析失败说明内置资源损坏，直接 panic
func Default() *Catalog {
	defaultOnce.Do(func() {
		cat, err := Parse(defaultYAML)
		if err != nil {
			panic(fmt.Sprintf("catalog: embedded catalog is invalid: %v", err))
		}
		defaultCat = cat
	})
	return defaultCat
}

// Load 从指定路径加载目录，path 为空时返回内置目录
func Load(path string) (*Catalog, error) {
	if path == "" {
		return Default(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}
	return Parse(data)
}

// Parse 解析 YAML 并校验
func Parse(data []byte) (*Catalog, error) {
	var cat Catalog
	if err := yaml.Unmarshal(data, &cat); err != nil {
		return nil, fmt.Errorf("unmarshal catalog: %w", err)
	}
	if err := cat.Validate(); err != nil {
		return nil, err
	}
	return &cat, nil
}

// Validate 校验目录的最小完整性
func (c *Catalog) Validate() error {
	if len(c.Industries) == 0 {
		return errors.New("catalog: no industries defined")
	}
	if c.DefaultIndustry == "" {
		return errors.New("catalog: default_industry is empty")
	}
	if _, ok := c.Lookup(c.DefaultIndustry); !ok {
		return fmt.Errorf("catalog: default_industry %q is not a known tag", c.DefaultIndustry)
	}
	if len(c.GenericObjections) == 0 {
		return errors.New("catalog: at least one generic objection is required")
	}
	seen := make(map[string]bool, len(c.Industries))
	for _, ind := range c.Industries {
		if ind.Tag == "" {
			return errors.New("catalog: industry with empty tag")
		}
		if seen[ind.Tag] {
			return fmt.Errorf("catalog: duplicate industry tag %q", ind.Tag)
		}
		seen[ind.Tag] = true
	}
	return nil
}

// Lookup 按标签查找行业
func (c *Catalog) Lookup(tag string) (Industry, bool) {
	for _, ind := range c.Industries {
		if ind.Tag == tag {
			return ind, true
		}
	}
	return Industry{}, false
}

// Tags 按目录顺序返回所有行业标签
func (c *Catalog) Tags() []string {
	tags := make([]string, 0, len(c.Industries))
	for _, ind := range c.Industries {
		tags = append(tags, ind.Tag)
	}
	return tags
}

// Expand 替换模板中的 {key} 占位符，kv 依次为键值对
func Expand(tpl string, kv ...string) string {
	if len(kv) == 0 {
		return tpl
	}
	pairs := make([]string, 0, len(kv))
	for i := 0; i+1 < len(kv); i += 2 {
		pairs = append(pairs, "{"+kv[i]+"}", kv[i+1])
	}
	return strings.NewReplacer(pairs...).Replace(tpl)
}

// ExpandAll 对列表中每一项执行 Expand，总是返回非 nil 切片
func ExpandAll(tpls []string, kv ...string) []string {
	out := make([]string, 0, len(tpls))
	for _, t := range tpls {
		out = append(out, Expand(t, kv...))
	}
	return out
}
