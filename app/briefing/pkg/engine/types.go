package engine

import (
	"encoding/json"
	"strings"

	"github.com/iWorld-y/meeting_briefing/app/briefing/pkg/industry"
	"github.com/iWorld-y/meeting_briefing/app/briefing/pkg/model"
)

// ParticipantList 参会人列表，JSON 中既可以是数组也可以是逗号分隔的字符串
type ParticipantList []string

// UnmarshalJSON implements json.Unmarshaler
func (l *ParticipantList) UnmarshalJSON(data []byte) error {
	var list []string
	if err := json.Unmarshal(data, &list); err == nil {
		*l = ParticipantList(list).Clean()
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	*l = ParseParticipants(s)
	return nil
}

// Clean 去除空白与空项
func (l ParticipantList) Clean() ParticipantList {
	out := make(ParticipantList, 0, len(l))
	for _, n := range l {
		if n = strings.TrimSpace(n); n != "" {
			out = append(out, n)
		}
	}
	return out
}

// ParseParticipants 解析逗号分隔的参会人
func ParseParticipants(s string) ParticipantList {
	return ParticipantList(strings.Split(s, ",")).Clean()
}

// ResearchRequest 参会人调研请求
type ResearchRequest struct {
	Participants   ParticipantList `json:"participants"`
	MeetingContext string          `json:"meeting_context"`
}

// ResearchReport 参会人调研结果
type ResearchReport struct {
	MeetingContext         string                    `json:"meeting_context"`
	ParticipantsResearched int                       `json:"participants_researched"`
	ResearchFindings       []model.ParticipantRecord `json:"research_findings"`
	Summary                string                    `json:"summary"`
	Recommendations        []string                  `json:"recommendations"`
}

// IndustryRequest 行业分析请求
type IndustryRequest struct {
	Participants   ParticipantList `json:"participants"`
	MeetingContext string          `json:"meeting_context"`
}

// IndustryReport 行业分析结果
type IndustryReport struct {
	MeetingContext                 string                          `json:"meeting_context"`
	IndustriesCovered              []string                        `json:"industries_covered"`
	IndustryAnalyses               map[string]model.IndustryRecord `json:"industry_analyses"`
	CrossIndustryInsights          []string                        `json:"cross_industry_insights"`
	CrossIndustryRisks             []string                        `json:"cross_industry_risks"`
	MeetingSpecificRecommendations industry.Recommendations        `json:"meeting_specific_recommendations"`
	KeyFindings                    []string                        `json:"key_findings"`
	StrategicRecommendations       []string                        `json:"strategic_recommendations"`
}

// StrategyRequest 会议策略请求
type StrategyRequest struct {
	MeetingContext   string                          `json:"meeting_context"`
	MeetingObjective string                          `json:"meeting_objective"`
	ResearchData     []model.ParticipantRecord       `json:"research_data"`
	IndustryAnalysis map[string]model.IndustryRecord `json:"industry_analysis"`
}

// StrategyReport 会议策略结果
type StrategyReport struct {
	MeetingContext         string              `json:"meeting_context"`
	MeetingObjective       string              `json:"meeting_objective"`
	StrategyComponents     model.StrategyPlan  `json:"strategy_components"`
	MeetingFlowSuggestions []string            `json:"meeting_flow_suggestions"`
	ContingencyPlans       map[string][]string `json:"contingency_plans"`
	KeySuccessFactors      []string            `json:"key_success_factors"`
	PreMeetingChecklist    []string            `json:"pre_meeting_checklist"`
	SuccessMetrics         []string            `json:"success_metrics"`
	Summary                string              `json:"summary"`
}

// CompileRequest 简报汇编请求
type CompileRequest struct {
	MeetingContext   string                          `json:"meeting_context"`
	MeetingObjective string                          `json:"meeting_objective"`
	ResearchFindings []model.ParticipantRecord       `json:"research_findings"`
	IndustryAnalysis map[string]model.IndustryRecord `json:"industry_analysis"`
	MeetingStrategy  model.StrategyPlan              `json:"meeting_strategy"`
}

// BriefingRequest 完整流程请求
type BriefingRequest struct {
	Participants     ParticipantList `json:"participants"`
	MeetingContext   string          `json:"meeting_context"`
	MeetingObjective string          `json:"meeting_objective"`
}
