// Package fallback 在没有实时数据时合成结构完整、内容确定的占位记录
package fallback

import (
	"github.com/iWorld-y/meeting_briefing/app/briefing/pkg/catalog"
	"github.com/iWorld-y/meeting_briefing/app/briefing/pkg/model"
)

// Synthesizer 兜底内容生成器，纯函数，无 I/O
type Synthesizer struct {
	cat *catalog.Catalog
}

// New 创建兜底生成器
func New(cat *catalog.Catalog) *Synthesizer {
	return &Synthesizer{cat: cat}
}

// Participant 为参会人生成占位记录
// company_info 保持为空，避免占位文本被当作公司信息引用
func (s *Synthesizer) Participant(name string) model.ParticipantRecord {
	tpl := s.cat.ParticipantFallback
	return model.ParticipantRecord{
		Name:           name,
		ProfileSummary: catalog.Expand(tpl.ProfileSummary, "name", name),
		Experience:     catalog.ExpandAll(tpl.Experience, "name", name),
		Education:      catalog.ExpandAll(tpl.Education, "name", name),
		Source:         model.SourceFallback,
	}
}

// Industry 为行业生成占位记录，目录中有专属模板时优先使用
func (s *Synthesizer) Industry(tag string) model.IndustryRecord {
	tpl := s.cat.GenericIndustryFallback
	if ind, ok := s.cat.Lookup(tag); ok && ind.Fallback != nil {
		tpl = *ind.Fallback
	}
	return model.IndustryRecord{
		IndustryTag:          tag,
		CurrentTrends:        catalog.ExpandAll(tpl.CurrentTrends, "industry", tag),
		MarketChallenges:     catalog.ExpandAll(tpl.MarketChallenges, "industry", tag),
		GrowthOpportunities:  catalog.ExpandAll(tpl.GrowthOpportunities, "industry", tag),
		CompetitiveLandscape: catalog.ExpandAll(tpl.CompetitiveLandscape, "industry", tag),
		InvestmentOutlook:    catalog.Expand(tpl.InvestmentOutlook, "industry", tag),
		RiskFactors:          catalog.ExpandAll(tpl.RiskFactors, "industry", tag),
		Source:               model.SourceFallback,
	}
}
