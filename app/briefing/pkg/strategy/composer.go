// Package strategy 根据调研与行业分析制定会议策略
package strategy

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/iWorld-y/meeting_briefing/app/briefing/pkg/catalog"
	"github.com/iWorld-y/meeting_briefing/app/briefing/pkg/classify"
	"github.com/iWorld-y/meeting_briefing/app/briefing/pkg/industry"
	"github.com/iWorld-y/meeting_briefing/app/briefing/pkg/llm"
	"github.com/iWorld-y/meeting_briefing/app/briefing/pkg/logger"
	"github.com/iWorld-y/meeting_briefing/app/briefing/pkg/model"
	"github.com/iWorld-y/meeting_briefing/app/briefing/pkg/upstream"
)

// Input 策略制定的输入，各字段均可为空
type Input struct {
	MeetingContext   string
	MeetingObjective string
	Participants     []model.ParticipantRecord
	Industries       map[string]model.IndustryRecord
}

// Composer 策略生成器，gen 为 nil 时只使用启发式规则
type Composer struct {
	gen    llm.Generator
	caller *upstream.Caller
	cat    *catalog.Catalog
}

// NewComposer 创建策略生成器
func NewComposer(gen llm.Generator, caller *upstream.Caller, cat *catalog.Catalog) *Composer {
	return &Composer{gen: gen, caller: caller, cat: cat}
}

// Compose 优先使用模型生成策略，缺失的部分用启发式结果补齐
// 模型不可用或输出无法解析时返回启发式策略，只有 context 被取消时才返回错误
func (c *Composer) Compose(ctx context.Context, in Input) (model.StrategyPlan, error) {
	if err := ctx.Err(); err != nil {
		return model.StrategyPlan{}, err
	}
	base := c.Heuristic(in)
	if c.gen == nil {
		return base, nil
	}

	raw, err := upstream.Call(ctx, c.caller, "strategy", func(ctx context.Context) (string, error) {
		return c.gen.Generate(ctx, c.prompt(in))
	})
	if err == nil {
		var plan model.StrategyPlan
		plan, err = parsePlan(raw)
		if err == nil {
			return backfill(plan, base), nil
		}
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		return model.StrategyPlan{}, ctxErr
	}
	logger.Log.WithField("kind", upstream.Kind(err)).Warnf("策略生成失败，使用启发式策略: %v", err)
	return base, nil
}

// Heuristic 基于目录模板与上游数据的确定性策略
func (c *Composer) Heuristic(in Input) model.StrategyPlan {
	tpl := c.cat.Strategy
	kv := []string{"context", in.MeetingContext, "objective", in.MeetingObjective}

	plan := model.StrategyPlan{
		TalkingPoints:        appendUnique(trendUnion(in.Industries), catalog.ExpandAll(tpl.TalkingPoints, kv...)...),
		StrategicQuestions:   catalog.ExpandAll(tpl.StrategicQuestions, kv...),
		ConversationStarters: catalog.ExpandAll(tpl.ConversationStarters, kv...),
		ValuePropositions:    c.valuePropositions(in, kv),
		Objections:           c.Objections(in.MeetingObjective),
		CommonGroundAreas:    catalog.ExpandAll(tpl.CommonGroundAreas, kv...),
		MeetingFlow:          catalog.ExpandAll(tpl.MeetingFlow, kv...),
		ContingencyPlans:     make(map[string][]string, len(tpl.ContingencyPlans)),
		KeySuccessFactors:    catalog.ExpandAll(tpl.KeySuccessFactors, kv...),
		PreMeetingChecklist:  catalog.ExpandAll(tpl.PreMeetingChecklist, kv...),
		SuccessMetrics:       catalog.ExpandAll(tpl.SuccessMetrics, kv...),
		Source:               model.SourceFallback,
	}
	for scenario, steps := range tpl.ContingencyPlans {
		plan.ContingencyPlans[scenario] = catalog.ExpandAll(steps, kv...)
	}
	for _, insight := range industry.CrossIndustryInsights(in.Industries) {
		plan.CommonGroundAreas = appendUnique(plan.CommonGroundAreas, insight)
	}
	return plan
}

// Objections 目标中命中关键词的异议条目，之后总是附加通用条目
func (c *Composer) Objections(objective string) []model.Objection {
	lower := strings.ToLower(objective)
	out := make([]model.Objection, 0, len(c.cat.GenericObjections)+1)
	for _, e := range c.cat.Objections {
		if classify.MatchAny(lower, e.Keywords) {
			out = append(out, e.ToModel())
		}
	}
	for _, e := range c.cat.GenericObjections {
		out = append(out, e.ToModel())
	}
	return out
}

func (c *Composer) valuePropositions(in Input, kv []string) []string {
	out := catalog.ExpandAll(c.cat.Strategy.ValuePropositions, kv...)
	for _, p := range in.Participants {
		if p.CompanyInfo == "" {
			continue
		}
		out = append(out, catalog.Expand(c.cat.Strategy.CompanyValueProposition, "name", p.Name, "company", p.CompanyInfo))
	}
	return out
}

// trendUnion 按标签字典序合并各行业趋势并去重
func trendUnion(records map[string]model.IndustryRecord) []string {
	out := make([]string, 0)
	for _, tag := range industry.SortedTags(records) {
		out = appendUnique(out, records[tag].CurrentTrends...)
	}
	return out
}

func appendUnique(dst []string, items ...string) []string {
	seen := make(map[string]bool, len(dst)+len(items))
	for _, s := range dst {
		seen[key(s)] = true
	}
	for _, s := range items {
		k := key(s)
		if k == "" || seen[k] {
			continue
		}
		seen[k] = true
		dst = append(dst, s)
	}
	return dst
}

func key(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}

func (c *Composer) prompt(in Input) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Meeting context: %s\nMeeting objective: %s\n\n", in.MeetingContext, in.MeetingObjective)

	sb.WriteString("Participants:\n")
	for _, p := range in.Participants {
		fmt.Fprintf(&sb, "- %s: %s", p.Name, p.ProfileSummary)
		if p.CompanyInfo != "" {
			fmt.Fprintf(&sb, " (company: %s)", p.CompanyInfo)
		}
		sb.WriteString("\n")
	}

	sb.WriteString("\nIndustry analysis:\n")
	for _, tag := range industry.SortedTags(in.Industries) {
		r := in.Industries[tag]
		fmt.Fprintf(&sb, "- %s: trends=%s; challenges=%s; opportunities=%s\n", tag,
			strings.Join(r.CurrentTrends, " | "),
			strings.Join(r.MarketChallenges, " | "),
			strings.Join(r.GrowthOpportunities, " | "))
	}

	sb.WriteString(`
You are a senior executive meeting strategist. Using the information above, prepare a meeting strategy.
Respond with JSON only, no markdown, using exactly this shape:
{
  "talking_points": ["..."],
  "strategic_questions": ["..."],
  "conversation_starters": ["..."],
  "value_propositions": ["..."],
  "potential_objections": [{"objection": "...", "response": "..."}],
  "common_ground_areas": ["..."],
  "meeting_flow": ["1. ... (5-10 minutes)"],
  "contingency_plans": {"if_discussion_stalls": ["..."]},
  "key_success_factors": ["..."],
  "pre_meeting_checklist": ["..."],
  "success_metrics": ["..."]
}`)
	return sb.String()
}

func parsePlan(raw string) (model.StrategyPlan, error) {
	var plan model.StrategyPlan
	if err := json.Unmarshal([]byte(llm.CleanJSON(raw)), &plan); err != nil {
		return model.StrategyPlan{}, upstream.Malformed("strategy", err)
	}
	if len(plan.TalkingPoints) == 0 && len(plan.StrategicQuestions) == 0 && len(plan.Objections) == 0 {
		return model.StrategyPlan{}, fmt.Errorf("strategy: %w: no usable fields", upstream.ErrUpstreamMalformed)
	}
	return plan, nil
}

// backfill 模型输出中为空的字段用启发式结果补齐
func backfill(plan, base model.StrategyPlan) model.StrategyPlan {
	fill := func(dst *[]string, src []string) {
		if len(*dst) == 0 {
			*dst = src
		}
	}
	fill(&plan.TalkingPoints, base.TalkingPoints)
	fill(&plan.StrategicQuestions, base.StrategicQuestions)
	fill(&plan.ConversationStarters, base.ConversationStarters)
	fill(&plan.ValuePropositions, base.ValuePropositions)
	fill(&plan.CommonGroundAreas, base.CommonGroundAreas)
	fill(&plan.MeetingFlow, base.MeetingFlow)
	fill(&plan.KeySuccessFactors, base.KeySuccessFactors)
	fill(&plan.PreMeetingChecklist, base.PreMeetingChecklist)
	fill(&plan.SuccessMetrics, base.SuccessMetrics)
	if len(plan.Objections) == 0 {
		plan.Objections = base.Objections
	}
	if len(plan.ContingencyPlans) == 0 {
		plan.ContingencyPlans = base.ContingencyPlans
	}
	plan.Source = model.SourceLive
	return plan
}
