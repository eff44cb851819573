// Package compiler 将调研、行业分析与策略汇编为五段式会议简报
package compiler

import (
	"context"
	"fmt"
	"maps"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/iWorld-y/meeting_briefing/app/briefing/pkg/catalog"
	"github.com/iWorld-y/meeting_briefing/app/briefing/pkg/industry"
	"github.com/iWorld-y/meeting_briefing/app/briefing/pkg/llm"
	"github.com/iWorld-y/meeting_briefing/app/briefing/pkg/logger"
	"github.com/iWorld-y/meeting_briefing/app/briefing/pkg/model"
	"github.com/iWorld-y/meeting_briefing/app/briefing/pkg/upstream"
)

// 简报完成度
const (
	StatusComplete    = "COMPLETE"
	StatusPartial     = "PARTIAL"
	StatusPlaceholder = "PLACEHOLDER"
)

// Weights 质量分中各部分的权重
type Weights struct {
	Participants float64
	Industries   float64
	Strategy     float64
}

// DefaultWeights 默认权重：参会人 0.4，行业 0.4，策略 0.2
var DefaultWeights = Weights{Participants: 0.4, Industries: 0.4, Strategy: 0.2}

// Input 汇编输入，上游缺失的部分以空值传入
type Input struct {
	MeetingContext   string
	MeetingObjective string
	Participants     []model.ParticipantRecord
	Industries       map[string]model.IndustryRecord
	Strategy         model.StrategyPlan
	// PreparedAt 非零时写入 generated_at
	PreparedAt time.Time
}

// Compiler 简报汇编器，gen 为 nil 时执行摘要使用模板
type Compiler struct {
	gen     llm.Generator
	caller  *upstream.Caller
	cat     *catalog.Catalog
	weights Weights
}

// Option 汇编器选项
type Option func(*Compiler)

// WithWeights 覆盖质量分权重
func WithWeights(w Weights) Option {
	return func(c *Compiler) { c.weights = w }
}

// NewCompiler 创建汇编器
func NewCompiler(gen llm.Generator, caller *upstream.Caller, cat *catalog.Catalog, opts ...Option) *Compiler {
	c := &Compiler{
		gen:     gen,
		caller:  caller,
		cat:     cat,
		weights: DefaultWeights,
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// Compile 生成简报，缺失的上游数据渲染为空段落
// 只有 context 被取消时才返回错误
func (c *Compiler) Compile(ctx context.Context, in Input) (model.Briefing, error) {
	if err := ctx.Err(); err != nil {
		return model.Briefing{}, err
	}
	tpl := c.cat.Briefing
	score := QualityScore(in, c.weights)

	summary, err := c.executiveSummary(ctx, in)
	if err != nil {
		return model.Briefing{}, err
	}

	industries := maps.Clone(in.Industries)
	if industries == nil {
		industries = map[string]model.IndustryRecord{}
	}
	participants := append(make([]model.ParticipantRecord, 0, len(in.Participants)), in.Participants...)

	b := model.Briefing{
		Header: model.BriefingHeader{
			Title:             tpl.Title,
			MeetingContext:    in.MeetingContext,
			MeetingObjective:  in.MeetingObjective,
			PreparationStatus: status(score),
		},
		ExecutiveSummary:    summary,
		ParticipantProfiles: participants,
		IndustryAnalysis:    industries,
		StrategicTalkingPoints: model.TalkingPointsSection{
			TalkingPoints:        nonNil(in.Strategy.TalkingPoints),
			StrategicQuestions:   nonNil(in.Strategy.StrategicQuestions),
			ConversationStarters: nonNil(in.Strategy.ConversationStarters),
			ValuePropositions:    nonNil(in.Strategy.ValuePropositions),
			Objections:           nonNilObjections(in.Strategy.Objections),
			Source:               sourceOf(in.Strategy.Source),
		},
		Recommendations: Recommendations(in.Strategy.MeetingFlow, tpl.ProcessReminders),
		QualityScore:    score,
		Supplementary: model.Supplementary{
			PreparationChecklist: nonNil(tpl.PreparationChecklist),
			FollowUpTemplate:     tpl.FollowUpTemplate.ToModel(),
			ImmediateActions:     nonNil(tpl.ImmediateActions),
			SuccessIndicators:    nonNil(tpl.SuccessIndicators),
		},
	}
	if !in.PreparedAt.IsZero() {
		b.Header.GeneratedAt = in.PreparedAt.UTC().Format(time.RFC3339)
	}
	return b, nil
}

// QualityScore 0.4*实时参会人占比 + 0.4*实时行业占比 + 0.2*[策略实时]
// 只有来源为 LIVE 且必填字段齐全的记录才计为实时，结果保留四位小数
func QualityScore(in Input, w Weights) float64 {
	var liveP float64
	if n := len(in.Participants); n > 0 {
		live := 0
		for _, p := range in.Participants {
			if p.Source.IsLive() && p.Complete() {
				live++
			}
		}
		liveP = float64(live) / float64(n)
	}

	var liveI float64
	if n := len(in.Industries); n > 0 {
		live := 0
		for _, r := range in.Industries {
			if r.Source.IsLive() && r.Complete() {
				live++
			}
		}
		liveI = float64(live) / float64(n)
	}

	var liveS float64
	if in.Strategy.Source.IsLive() {
		liveS = 1
	}

	score := w.Participants*liveP + w.Industries*liveI + w.Strategy*liveS
	score = math.Max(0, math.Min(1, score))
	return math.Round(score*10000) / 10000
}

// Recommendations 会议流程与流程提醒合并去重，保持原有顺序
func Recommendations(flow, reminders []string) []string {
	out := make([]string, 0, len(flow)+len(reminders))
	seen := make(map[string]bool, len(flow)+len(reminders))
	for _, list := range [][]string{flow, reminders} {
		for _, s := range list {
			if s == "" || seen[s] {
				continue
			}
			seen[s] = true
			out = append(out, s)
		}
	}
	return out
}

// TemplateSummary 不依赖模型的执行摘要
func (c *Compiler) TemplateSummary(in Input) string {
	trend := "no industry signal available"
	for _, tag := range industry.SortedTags(in.Industries) {
		if ts := in.Industries[tag].CurrentTrends; len(ts) > 0 {
			trend = ts[0]
			break
		}
	}
	return catalog.Expand(c.cat.Briefing.SummaryTemplate,
		"objective", in.MeetingObjective,
		"context", in.MeetingContext,
		"trend", trend,
		"count", strconv.Itoa(len(in.Participants)),
	)
}

func (c *Compiler) executiveSummary(ctx context.Context, in Input) (string, error) {
	fallback := c.TemplateSummary(in)
	if c.gen == nil {
		return fallback, nil
	}
	out, err := upstream.Call(ctx, c.caller, "executive_summary", func(ctx context.Context) (string, error) {
		return c.gen.Generate(ctx, summaryPrompt(in, fallback))
	})
	if err == nil {
		err = plainText(out)
		if err == nil {
			return strings.TrimSpace(out), nil
		}
	}
	if ctx.Err() != nil {
		return "", ctx.Err()
	}
	logger.Log.WithField("kind", upstream.Kind(err)).Warnf("执行摘要生成失败，使用模板: %v", err)
	return fallback, nil
}

// plainText 摘要须为非空纯文本，JSON 对象或数组视为响应异常
func plainText(out string) error {
	s := strings.TrimSpace(out)
	switch {
	case s == "":
		return fmt.Errorf("executive summary: %w: empty text", upstream.ErrUpstreamMalformed)
	case strings.HasPrefix(s, "{") || strings.HasPrefix(s, "[") || strings.HasPrefix(s, "```"):
		return fmt.Errorf("executive summary: %w: structured reply instead of text", upstream.ErrUpstreamMalformed)
	}
	return nil
}

func summaryPrompt(in Input, draft string) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Meeting context: %s\nMeeting objective: %s\n", in.MeetingContext, in.MeetingObjective)
	fmt.Fprintf(&sb, "Participants: %d\n", len(in.Participants))
	for _, tag := range industry.SortedTags(in.Industries) {
		fmt.Fprintf(&sb, "Industry %s trends: %s\n", tag, strings.Join(in.Industries[tag].CurrentTrends, "; "))
	}
	fmt.Fprintf(&sb, "Draft summary: %s\n\n", draft)
	sb.WriteString("Write a concise executive summary (at most three sentences) for an executive preparing for this meeting. Reply with plain text only.")
	return sb.String()
}

func status(score float64) string {
	switch {
	case score >= 1:
		return StatusComplete
	case score > 0:
		return StatusPartial
	}
	return StatusPlaceholder
}

func sourceOf(s model.Source) model.Source {
	if s == "" {
		return model.SourceFallback
	}
	return s
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

func nonNilObjections(s []model.Objection) []model.Objection {
	if s == nil {
		return []model.Objection{}
	}
	return s
}
