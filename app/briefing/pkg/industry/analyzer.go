// Package industry 行业趋势分析与跨行业洞察
package industry

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/bytedance/gg/gson"
	"github.com/sirupsen/logrus"

	"github.com/iWorld-y/meeting_briefing/app/briefing/pkg/catalog"
	"github.com/iWorld-y/meeting_briefing/app/briefing/pkg/classify"
	"github.com/iWorld-y/meeting_briefing/app/briefing/pkg/content"
	"github.com/iWorld-y/meeting_briefing/app/briefing/pkg/fallback"
	"github.com/iWorld-y/meeting_briefing/app/briefing/pkg/logger"
	"github.com/iWorld-y/meeting_briefing/app/briefing/pkg/model"
	"github.com/iWorld-y/meeting_briefing/app/briefing/pkg/search"
	"github.com/iWorld-y/meeting_briefing/app/briefing/pkg/upstream"
)

const (
	// maxPerBucket 每个分类最多保留的条数
	maxPerBucket = 3
	// shortContent 摘要短于该长度时尝试抓取正文
	shortContent = 200
	maxEntryLen  = 240
)

var (
	trendKeywords       = []string{"trend", "trends", "adoption", "shift", "rising", "growing", "emerging"}
	challengeKeywords   = []string{"challenge", "challenges", "barrier", "shortage", "pressure", "slowdown", "headwind", "headwinds", "decline"}
	opportunityKeywords = []string{"opportunity", "opportunities", "growth", "expansion", "demand", "potential"}
	competitiveKeywords = []string{"competitor", "competitors", "competition", "competitive", "market share", "rival", "rivals", "incumbent", "consolidation"}
	riskKeywords        = []string{"risk", "risks", "regulation", "regulatory", "compliance", "threat", "uncertainty", "breach", "volatility"}
	investKeywords      = []string{"invest", "investment", "investor", "investors", "funding", "capital", "valuation"}
)

// Analyzer 行业分析器，searcher 为 nil 时全部走兜底
type Analyzer struct {
	searcher   search.Searcher
	caller     *upstream.Caller
	fallback   *fallback.Synthesizer
	cat        *catalog.Catalog
	fetcher    content.Fetcher
	maxResults int
}

// Option 分析器选项
type Option func(*Analyzer)

// WithFetcher 摘要过短时抓取原文补充
func WithFetcher(f content.Fetcher) Option {
	return func(a *Analyzer) { a.fetcher = f }
}

// WithMaxResults 单次搜索返回的最大结果数，n <= 0 时保持默认
func WithMaxResults(n int) Option {
	return func(a *Analyzer) {
		if n > 0 {
			a.maxResults = n
		}
	}
}

// NewAnalyzer 创建行业分析器
func NewAnalyzer(searcher search.Searcher, caller *upstream.Caller, fb *fallback.Synthesizer, cat *catalog.Catalog, opts ...Option) *Analyzer {
	a := &Analyzer{
		searcher:   searcher,
		caller:     caller,
		fallback:   fb,
		cat:        cat,
		maxResults: 8,
	}
	for _, o := range opts {
		o(a)
	}
	return a
}

// DefaultTag 未识别出行业时使用的标签
func (a *Analyzer) DefaultTag() string {
	return a.cat.DefaultIndustry
}

// Analyze 并发分析每个行业，返回的映射至少包含一个行业
// 单个行业失败时使用兜底记录，只有 context 被取消时才返回错误
func (a *Analyzer) Analyze(ctx context.Context, tags []string, meetingContext string) (map[string]model.IndustryRecord, error) {
	tags = dedupe(tags)
	if len(tags) == 0 {
		tags = []string{a.cat.DefaultIndustry}
	}
	logger.Log.Infof("开始分析 %d 个行业 %v，会议背景: %s", len(tags), tags, meetingContext)

	records := make([]model.IndustryRecord, len(tags))
	var wg sync.WaitGroup
	for i, tag := range tags {
		wg.Add(1)
		go func(i int, tag string) {
			defer wg.Done()
			records[i] = a.analyzeOne(ctx, tag)
		}(i, tag)
	}
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	out := make(map[string]model.IndustryRecord, len(records))
	for _, r := range records {
		out[r.IndustryTag] = r
	}
	return out, nil
}

func (a *Analyzer) analyzeOne(ctx context.Context, tag string) model.IndustryRecord {
	rec, err := a.live(ctx, tag)
	if err == nil {
		return rec
	}
	if ctx.Err() == nil {
		logger.Log.WithFields(logrus.Fields{
			"industry": tag,
			"kind":     upstream.Kind(err),
		}).Warnf("行业分析失败，使用兜底数据: %v", err)
	}
	return a.fallback.Industry(tag)
}

func (a *Analyzer) live(ctx context.Context, tag string) (model.IndustryRecord, error) {
	if a.searcher == nil {
		return model.IndustryRecord{}, fmt.Errorf("semantic search: %w", upstream.ErrCredentialMissing)
	}
	req := &search.Request{
		Query:             Query(tag),
		MaxResults:        a.maxResults,
		IncludeRawContent: true,
	}
	resp, err := upstream.Call(ctx, a.caller, "industry:"+tag, func(ctx context.Context) (*search.Response, error) {
		return a.searcher.Search(ctx, req)
	})
	if err != nil {
		return model.IndustryRecord{}, err
	}
	logger.Log.Debugf("搜索行业 [%s] 成功: %s", tag, gson.ToString(resp))

	results := resp.Results
	if a.fetcher != nil {
		results = a.enrich(ctx, results)
	}
	return Normalize(tag, results)
}

// enrich 对摘要过短的结果抓取正文，失败时保留原摘要
func (a *Analyzer) enrich(ctx context.Context, results []search.Result) []search.Result {
	out := make([]search.Result, len(results))
	copy(out, results)
	for i := range out {
		r := &out[i]
		if r.URL == "" || len(r.RawContent) >= shortContent || len(r.Content) >= shortContent {
			continue
		}
		fctx, cancel := context.WithTimeout(ctx, a.caller.Timeout())
		text, err := a.fetcher.Fetch(fctx, r.URL)
		cancel()
		if err != nil {
			logger.Log.Debugf("原文抓取失败，使用摘要 [%s]: %v", r.URL, err)
			continue
		}
		r.RawContent = text
	}
	return out
}

// Query 构造行业搜索词
func Query(tag string) string {
	return fmt.Sprintf("%s industry trends challenges opportunities competitive landscape", tag)
}

// Normalize 按关键词将搜索结果归类到各分析维度，结果为空或均无文本时视为响应异常
// 未命中任何维度的结果计入 current_trends
func Normalize(tag string, results []search.Result) (model.IndustryRecord, error) {
	if len(results) == 0 {
		return model.IndustryRecord{}, fmt.Errorf("semantic search for %q: %w: no results", tag, upstream.ErrUpstreamMalformed)
	}

	rec := model.IndustryRecord{
		IndustryTag:          tag,
		CurrentTrends:        make([]string, 0, maxPerBucket),
		MarketChallenges:     make([]string, 0, maxPerBucket),
		GrowthOpportunities:  make([]string, 0, maxPerBucket),
		CompetitiveLandscape: make([]string, 0, maxPerBucket),
		RiskFactors:          make([]string, 0, maxPerBucket),
		Source:               model.SourceLive,
	}

	var unbucketed, usable []string
	for _, r := range results {
		text := strings.ToLower(r.Text())
		item := entry(r)
		if item == "" {
			continue
		}
		usable = append(usable, item)
		matched := false
		buckets := []struct {
			dst      *[]string
			keywords []string
		}{
			{&rec.CurrentTrends, trendKeywords},
			{&rec.MarketChallenges, challengeKeywords},
			{&rec.GrowthOpportunities, opportunityKeywords},
			{&rec.CompetitiveLandscape, competitiveKeywords},
			{&rec.RiskFactors, riskKeywords},
		}
		for _, b := range buckets {
			if classify.MatchAny(text, b.keywords) {
				matched = true
				if len(*b.dst) < maxPerBucket {
					*b.dst = append(*b.dst, item)
				}
			}
		}
		if !matched {
			unbucketed = append(unbucketed, item)
		}
		if rec.InvestmentOutlook == "" && classify.MatchAny(text, investKeywords) {
			rec.InvestmentOutlook = item
		}
	}

	if len(usable) == 0 {
		return model.IndustryRecord{}, fmt.Errorf("semantic search for %q: %w: %d results without text", tag, upstream.ErrUpstreamMalformed, len(results))
	}

	for _, item := range unbucketed {
		if len(rec.CurrentTrends) >= maxPerBucket {
			break
		}
		rec.CurrentTrends = append(rec.CurrentTrends, item)
	}
	if len(rec.CurrentTrends) == 0 {
		rec.CurrentTrends = append(rec.CurrentTrends, usable[0])
	}
	if rec.InvestmentOutlook == "" {
		rec.InvestmentOutlook = fmt.Sprintf("No explicit investment signal found across %d recent sources for %s.", len(usable), tag)
	}
	return rec, nil
}

// entry 结果的展示文本：优先使用标题，没有标题时截取摘要
func entry(r search.Result) string {
	s := strings.TrimSpace(r.Title)
	if s == "" {
		s = strings.TrimSpace(r.Content)
	}
	if s == "" {
		s = strings.TrimSpace(r.RawContent)
	}
	runes := []rune(s)
	if len(runes) > maxEntryLen {
		s = string(runes[:maxEntryLen])
	}
	return s
}

func dedupe(tags []string) []string {
	seen := make(map[string]bool, len(tags))
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		t = strings.TrimSpace(t)
		if t == "" || seen[t] {
			continue
		}
		seen[t] = true
		out = append(out, t)
	}
	return out
}

// SortedTags 按字典序返回映射中的行业标签
func SortedTags(records map[string]model.IndustryRecord) []string {
	tags := make([]string, 0, len(records))
	for t := range records {
		tags = append(tags, t)
	}
	sort.Strings(tags)
	return tags
}
