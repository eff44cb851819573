// Package research 参会人背景调研
package research

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/bytedance/gg/gson"
	"github.com/sirupsen/logrus"

	"github.com/iWorld-y/meeting_briefing/app/briefing/pkg/classify"
	"github.com/iWorld-y/meeting_briefing/app/briefing/pkg/fallback"
	"github.com/iWorld-y/meeting_briefing/app/briefing/pkg/logger"
	"github.com/iWorld-y/meeting_briefing/app/briefing/pkg/model"
	"github.com/iWorld-y/meeting_briefing/app/briefing/pkg/search"
	"github.com/iWorld-y/meeting_briefing/app/briefing/pkg/upstream"
)

// maxPerList experience/education 最多保留的条数
const maxPerList = 3

var (
	experienceKeywords = []string{"experience", "worked", "position", "role"}
	educationKeywords  = []string{"education", "university", "degree", "studied"}
	companyKeywords    = []string{"company", "corporation", "organization"}
)

// Collector 参会人调研，searcher 为 nil 时全部走兜底
type Collector struct {
	searcher   search.Searcher
	caller     *upstream.Caller
	fallback   *fallback.Synthesizer
	maxResults int
}

// Option 调研器选项
type Option func(*Collector)

// WithMaxResults 单次搜索返回的最大结果数，n <= 0 时保持默认
func WithMaxResults(n int) Option {
	return func(c *Collector) {
		if n > 0 {
			c.maxResults = n
		}
	}
}

// NewCollector 创建调研器
func NewCollector(searcher search.Searcher, caller *upstream.Caller, fb *fallback.Synthesizer, opts ...Option) *Collector {
	c := &Collector{
		searcher:   searcher,
		caller:     caller,
		fallback:   fb,
		maxResults: 10,
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// Collect 并发调研所有参会人，返回结果与输入一一对应
// 单个参会人失败时使用兜底记录，只有 context 被取消时才返回错误
func (c *Collector) Collect(ctx context.Context, names []string, meetingContext string) ([]model.ParticipantRecord, error) {
	logger.Log.Infof("开始调研 %d 位参会人，会议背景: %s", len(names), meetingContext)
	records := make([]model.ParticipantRecord, len(names))

	var wg sync.WaitGroup
	for i, name := range names {
		wg.Add(1)
		go func(i int, name string) {
			defer wg.Done()
			records[i] = c.collectOne(ctx, name)
		}(i, name)
	}
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return records, nil
}

func (c *Collector) collectOne(ctx context.Context, name string) model.ParticipantRecord {
	rec, err := c.live(ctx, name)
	if err == nil {
		return rec
	}
	if ctx.Err() == nil {
		logger.Log.WithFields(logrus.Fields{
			"participant": name,
			"kind":        upstream.Kind(err),
		}).Warnf("参会人调研失败，使用兜底数据: %v", err)
	}
	return c.fallback.Participant(name)
}

func (c *Collector) live(ctx context.Context, name string) (model.ParticipantRecord, error) {
	if c.searcher == nil {
		return model.ParticipantRecord{}, fmt.Errorf("profile search: %w", upstream.ErrCredentialMissing)
	}
	req := &search.Request{
		Query:      Query(name),
		MaxResults: c.maxResults,
	}
	resp, err := upstream.Call(ctx, c.caller, "profile:"+name, func(ctx context.Context) (*search.Response, error) {
		return c.searcher.Search(ctx, req)
	})
	if err != nil {
		return model.ParticipantRecord{}, err
	}
	logger.Log.Debugf("调研参会人 [%s] 成功: %s", name, gson.ToString(resp))
	return Normalize(name, resp.Results)
}

// Query 构造参会人搜索词
func Query(name string) string {
	return fmt.Sprintf("%s LinkedIn profile professional experience education company", name)
}

// Normalize 将搜索结果整理为参会人记录，结果为空或均无文本时视为响应异常
func Normalize(name string, results []search.Result) (model.ParticipantRecord, error) {
	if len(results) == 0 {
		return model.ParticipantRecord{}, fmt.Errorf("profile search for %q: %w: no results", name, upstream.ErrUpstreamMalformed)
	}

	rec := model.ParticipantRecord{
		Name:       name,
		Experience: make([]string, 0, maxPerList),
		Education:  make([]string, 0, maxPerList),
		Source:     model.SourceLive,
	}

	for _, r := range results {
		if strings.Contains(strings.ToLower(r.URL), "linkedin.com") {
			rec.LinkedInURL = r.URL
			rec.ProfileSummary = summary(r)
			break
		}
	}
	for _, r := range results {
		if rec.ProfileSummary != "" {
			break
		}
		rec.ProfileSummary = summary(r)
	}

	for _, r := range results {
		snippet := strings.ToLower(r.Content)
		if len(rec.Experience) < maxPerList && classify.MatchAny(snippet, experienceKeywords) {
			rec.Experience = append(rec.Experience, r.Content)
		}
		if len(rec.Education) < maxPerList && classify.MatchAny(snippet, educationKeywords) {
			rec.Education = append(rec.Education, r.Content)
		}
		if rec.CompanyInfo == "" && classify.MatchAny(snippet, companyKeywords) {
			rec.CompanyInfo = r.Content
		}
	}
	if rec.ProfileSummary == "" && len(rec.Experience) == 0 && len(rec.Education) == 0 && rec.CompanyInfo == "" {
		return model.ParticipantRecord{}, fmt.Errorf("profile search for %q: %w: %d results without text", name, upstream.ErrUpstreamMalformed, len(results))
	}
	return rec, nil
}

func summary(r search.Result) string {
	title, snippet := strings.TrimSpace(r.Title), strings.TrimSpace(r.Content)
	switch {
	case title == "":
		return snippet
	case snippet == "":
		return title
	}
	return title + " - " + snippet
}
