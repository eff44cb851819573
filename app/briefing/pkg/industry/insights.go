package industry

import (
	"strings"

	"github.com/iWorld-y/meeting_briefing/app/briefing/pkg/catalog"
	"github.com/iWorld-y/meeting_briefing/app/briefing/pkg/model"
)

// Recommendations 面向本次会议的谈话要点与提问
type Recommendations struct {
	TalkingPoints  []string `json:"talking_points"`
	QuestionsToAsk []string `json:"questions_to_ask"`
}

// CrossIndustryInsights 至少出现在两个行业中的增长机会
// 按标签字典序、首次出现顺序输出，少于两个行业时返回空
func CrossIndustryInsights(records map[string]model.IndustryRecord) []string {
	return shared(records, func(r model.IndustryRecord) []string { return r.GrowthOpportunities })
}

// SharedRisks 至少出现在两个行业中的风险因素
func SharedRisks(records map[string]model.IndustryRecord) []string {
	return shared(records, func(r model.IndustryRecord) []string { return r.RiskFactors })
}

func shared(records map[string]model.IndustryRecord, field func(model.IndustryRecord) []string) []string {
	out := make([]string, 0)
	if len(records) < 2 {
		return out
	}

	counts := make(map[string]int)
	first := make(map[string]string)
	var order []string
	for _, tag := range SortedTags(records) {
		seen := make(map[string]bool)
		for _, item := range field(records[tag]) {
			key := normalize(item)
			if key == "" || seen[key] {
				continue
			}
			seen[key] = true
			if _, ok := first[key]; !ok {
				first[key] = item
				order = append(order, key)
			}
			counts[key]++
		}
	}
	for _, key := range order {
		if counts[key] >= 2 {
			out = append(out, first[key])
		}
	}
	return out
}

// MeetingRecommendations 每个行业取前 n 条趋势作为谈话要点，前 n 个增长机会生成提问
func (a *Analyzer) MeetingRecommendations(records map[string]model.IndustryRecord, n int) Recommendations {
	rec := Recommendations{
		TalkingPoints:  make([]string, 0),
		QuestionsToAsk: make([]string, 0),
	}
	seenPoint := make(map[string]bool)
	seenQuestion := make(map[string]bool)
	for _, tag := range SortedTags(records) {
		r := records[tag]
		for _, trend := range head(r.CurrentTrends, n) {
			key := normalize(trend)
			if key == "" || seenPoint[key] {
				continue
			}
			seenPoint[key] = true
			rec.TalkingPoints = append(rec.TalkingPoints, trend)
		}
		for _, opp := range head(r.GrowthOpportunities, n) {
			key := normalize(opp)
			if key == "" || seenQuestion[key] {
				continue
			}
			seenQuestion[key] = true
			rec.QuestionsToAsk = append(rec.QuestionsToAsk, catalog.Expand(a.cat.Industry.QuestionTemplate, "opportunity", opp))
		}
	}
	return rec
}

// normalize 去除首尾空白、转小写并合并连续空白
func normalize(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}

func head(items []string, n int) []string {
	if n < 0 || len(items) <= n {
		return items
	}
	return items[:n]
}
