package engine

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/iWorld-y/meeting_briefing/app/briefing/pkg/catalog"
	"github.com/iWorld-y/meeting_briefing/app/briefing/pkg/classify"
	"github.com/iWorld-y/meeting_briefing/app/briefing/pkg/compiler"
	"github.com/iWorld-y/meeting_briefing/app/briefing/pkg/config"
	"github.com/iWorld-y/meeting_briefing/app/briefing/pkg/content"
	"github.com/iWorld-y/meeting_briefing/app/briefing/pkg/fallback"
	"github.com/iWorld-y/meeting_briefing/app/briefing/pkg/industry"
	"github.com/iWorld-y/meeting_briefing/app/briefing/pkg/llm"
	"github.com/iWorld-y/meeting_briefing/app/briefing/pkg/logger"
	"github.com/iWorld-y/meeting_briefing/app/briefing/pkg/model"
	"github.com/iWorld-y/meeting_briefing/app/briefing/pkg/research"
	"github.com/iWorld-y/meeting_briefing/app/briefing/pkg/search"
	"github.com/iWorld-y/meeting_briefing/app/briefing/pkg/search/factory"
	"github.com/iWorld-y/meeting_briefing/app/briefing/pkg/strategy"
	"github.com/iWorld-y/meeting_briefing/app/briefing/pkg/upstream"
)

// ErrInvalidRequest 请求参数不合法
var ErrInvalidRequest = errors.New("invalid request")

// recommendationsPerIndustry 每个行业取前 n 条生成会议建议
const recommendationsPerIndustry = 3

// Deps 引擎依赖，为 nil 的能力走兜底逻辑
type Deps struct {
	Catalog          *catalog.Catalog
	ProfileSearcher  search.Searcher
	SemanticSearcher search.Searcher
	Generator        llm.Generator
	Fetcher          content.Fetcher
	Upstream         upstream.Options
	Weights          *compiler.Weights
	MaxResults       int // 单次搜索结果数上限，0 表示各环节默认值
	Now              func() time.Time
}

// Engine 会议简报流水线
type Engine struct {
	cat        *catalog.Catalog
	classifier *classify.Classifier
	collector  *research.Collector
	analyzer   *industry.Analyzer
	composer   *strategy.Composer
	compiler   *compiler.Compiler
	now        func() time.Time
}

// New 根据依赖组装引擎
func New(d Deps) *Engine {
	cat := d.Catalog
	if cat == nil {
		cat = catalog.Default()
	}
	now := d.Now
	if now == nil {
		now = time.Now
	}
	caller := upstream.NewCaller(d.Upstream)
	fb := fallback.New(cat)

	analyzerOpts := []industry.Option{industry.WithMaxResults(d.MaxResults)}
	if d.Fetcher != nil {
		analyzerOpts = append(analyzerOpts, industry.WithFetcher(d.Fetcher))
	}
	var compilerOpts []compiler.Option
	if d.Weights != nil {
		compilerOpts = append(compilerOpts, compiler.WithWeights(*d.Weights))
	}

	return &Engine{
		cat:        cat,
		classifier: classify.New(cat),
		collector:  research.NewCollector(d.ProfileSearcher, caller, fb, research.WithMaxResults(d.MaxResults)),
		analyzer:   industry.NewAnalyzer(d.SemanticSearcher, caller, fb, cat, analyzerOpts...),
		composer:   strategy.NewComposer(d.Generator, caller, cat),
		compiler:   compiler.NewCompiler(d.Generator, caller, cat, compilerOpts...),
		now:        now,
	}
}

// NewEngine 根据配置创建引擎实例
func NewEngine(ctx context.Context, cfg *config.Config) (*Engine, error) {
	cat, err := catalog.Load(cfg.CatalogFile)
	if err != nil {
		return nil, fmt.Errorf("目录加载失败: %w", err)
	}

	profile, err := factory.NewProfileSearcher(cfg)
	if err != nil {
		return nil, fmt.Errorf("搜索客户端初始化失败: %w", err)
	}
	semantic, err := factory.NewSemanticSearcher(cfg)
	if err != nil {
		return nil, fmt.Errorf("搜索客户端初始化失败: %w", err)
	}
	gen, err := llm.New(ctx, cfg.LLM)
	if err != nil {
		return nil, err
	}

	if profile == nil {
		logger.Log.Warn("未配置参会人搜索凭据，调研将使用兜底数据")
	}
	if semantic == nil {
		logger.Log.Warn("未配置行业搜索凭据，行业分析将使用兜底数据")
	}
	if gen == nil {
		logger.Log.Warn("未配置 LLM 凭据，策略与摘要将使用模板")
	}

	d := Deps{
		Catalog:          cat,
		ProfileSearcher:  profile,
		SemanticSearcher: semantic,
		Generator:        gen,
		MaxResults:       cfg.Search.MaxResults,
		Upstream: upstream.Options{
			Timeout: cfg.Upstream.TimeoutDuration(),
			Retries: cfg.Upstream.Retries,
			QPS:     cfg.Concurrency.QPS,
			RPM:     cfg.Concurrency.RPM,
		},
	}
	if cfg.FetchContent {
		d.Fetcher = content.NewReadabilityFetcher(cfg.Upstream.TimeoutDuration())
	}
	return New(d), nil
}

// ResearchParticipants 调研参会人背景
func (e *Engine) ResearchParticipants(ctx context.Context, req ResearchRequest) (*ResearchReport, error) {
	names := req.Participants.Clean()
	if len(names) == 0 {
		return nil, fmt.Errorf("%w: participants is empty", ErrInvalidRequest)
	}
	records, err := e.collector.Collect(ctx, names, req.MeetingContext)
	if err != nil {
		return nil, err
	}
	return e.researchReport(req.MeetingContext, names, records), nil
}

func (e *Engine) researchReport(meetingContext string, names []string, records []model.ParticipantRecord) *ResearchReport {
	return &ResearchReport{
		MeetingContext:         meetingContext,
		ParticipantsResearched: len(records),
		ResearchFindings:       records,
		Summary:                fmt.Sprintf("Research completed for %d participants: %s", len(names), strings.Join(names, ", ")),
		Recommendations:        catalog.ExpandAll(e.cat.Research.Recommendations),
	}
}

// AnalyzeIndustryTrends 识别相关行业并分析趋势
func (e *Engine) AnalyzeIndustryTrends(ctx context.Context, req IndustryRequest) (*IndustryReport, error) {
	names := req.Participants.Clean()
	if len(names) == 0 {
		return nil, fmt.Errorf("%w: participants is empty", ErrInvalidRequest)
	}
	records, err := e.analyzer.Analyze(ctx, e.classify(req.MeetingContext, names), req.MeetingContext)
	if err != nil {
		return nil, err
	}
	return e.industryReport(req.MeetingContext, records), nil
}

func (e *Engine) classify(meetingContext string, names []string) []string {
	return e.classifier.Classify(meetingContext + " " + strings.Join(names, " "))
}

func (e *Engine) industryReport(meetingContext string, records map[string]model.IndustryRecord) *IndustryReport {
	return &IndustryReport{
		MeetingContext:                 meetingContext,
		IndustriesCovered:              industry.SortedTags(records),
		IndustryAnalyses:               records,
		CrossIndustryInsights:          industry.CrossIndustryInsights(records),
		CrossIndustryRisks:             industry.SharedRisks(records),
		MeetingSpecificRecommendations: e.analyzer.MeetingRecommendations(records, recommendationsPerIndustry),
		KeyFindings:                    catalog.ExpandAll(e.cat.Industry.KeyFindings),
		StrategicRecommendations:       catalog.ExpandAll(e.cat.Industry.StrategicRecommendations),
	}
}

// DevelopStrategy 制定会议策略
func (e *Engine) DevelopStrategy(ctx context.Context, req StrategyRequest) (*StrategyReport, error) {
	plan, err := e.composer.Compose(ctx, strategy.Input{
		MeetingContext:   req.MeetingContext,
		MeetingObjective: req.MeetingObjective,
		Participants:     req.ResearchData,
		Industries:       req.IndustryAnalysis,
	})
	if err != nil {
		return nil, err
	}
	return &StrategyReport{
		MeetingContext:         req.MeetingContext,
		MeetingObjective:       req.MeetingObjective,
		StrategyComponents:     plan,
		MeetingFlowSuggestions: plan.MeetingFlow,
		ContingencyPlans:       plan.ContingencyPlans,
		KeySuccessFactors:      plan.KeySuccessFactors,
		PreMeetingChecklist:    plan.PreMeetingChecklist,
		SuccessMetrics:         plan.SuccessMetrics,
		Summary:                "Strategic meeting plan developed for: " + req.MeetingObjective,
	}, nil
}

// CompileBriefing 汇编简报，输入相同时输出相同
func (e *Engine) CompileBriefing(ctx context.Context, req CompileRequest) (*model.Briefing, error) {
	b, err := e.compiler.Compile(ctx, compiler.Input{
		MeetingContext:   req.MeetingContext,
		MeetingObjective: req.MeetingObjective,
		Participants:     req.ResearchFindings,
		Industries:       req.IndustryAnalysis,
		Strategy:         req.MeetingStrategy,
	})
	if err != nil {
		return nil, err
	}
	return &b, nil
}

// Prepare 执行完整流程：行业识别 → 调研与行业分析并行 → 策略 → 汇编
func (e *Engine) Prepare(ctx context.Context, req BriefingRequest) (*model.Briefing, error) {
	names := req.Participants.Clean()
	if len(names) == 0 {
		return nil, fmt.Errorf("%w: participants is empty", ErrInvalidRequest)
	}
	start := e.now()
	tags := e.classify(req.MeetingContext, names)
	logger.Log.Infof("开始准备会议简报: %d 位参会人，识别行业 %v", len(names), tags)

	var (
		participants []model.ParticipantRecord
		industries   map[string]model.IndustryRecord
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		participants, err = e.collector.Collect(gctx, names, req.MeetingContext)
		return err
	})
	g.Go(func() error {
		var err error
		industries, err = e.analyzer.Analyze(gctx, tags, req.MeetingContext)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	plan, err := e.composer.Compose(ctx, strategy.Input{
		MeetingContext:   req.MeetingContext,
		MeetingObjective: req.MeetingObjective,
		Participants:     participants,
		Industries:       industries,
	})
	if err != nil {
		return nil, err
	}

	b, err := e.compiler.Compile(ctx, compiler.Input{
		MeetingContext:   req.MeetingContext,
		MeetingObjective: req.MeetingObjective,
		Participants:     participants,
		Industries:       industries,
		Strategy:         plan,
		PreparedAt:       start,
	})
	if err != nil {
		return nil, err
	}
	logger.Log.Infof("会议简报生成完毕，质量分 %.2f，耗时 %v", b.QualityScore, e.now().Sub(start))
	return &b, nil
}
