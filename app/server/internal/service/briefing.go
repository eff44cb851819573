package service

import (
	"bytes"
	"context"
	"errors"

	kerrors "github.com/go-kratos/kratos/v2/errors"
	"github.com/go-kratos/kratos/v2/log"

	"github.com/iWorld-y/meeting_briefing/app/briefing/pkg/engine"
	"github.com/iWorld-y/meeting_briefing/app/briefing/pkg/model"
	"github.com/iWorld-y/meeting_briefing/app/briefing/pkg/render"
)

// BriefingService 会议简报服务，对外暴露各阶段调用入口
type BriefingService struct {
	eng *engine.Engine
	log *log.Helper
}

func NewBriefingService(eng *engine.Engine, logger log.Logger) *BriefingService {
	return &BriefingService{
		eng: eng,
		log: log.NewHelper(logger),
	}
}

// ResearchParticipants 调研参会人
func (s *BriefingService) ResearchParticipants(ctx context.Context, req *engine.ResearchRequest) (*engine.ResearchReport, error) {
	reply, err := s.eng.ResearchParticipants(ctx, *req)
	if err != nil {
		return nil, s.toError("ResearchParticipants", err)
	}
	return reply, nil
}

// AnalyzeIndustryTrends 分析会议相关行业
func (s *BriefingService) AnalyzeIndustryTrends(ctx context.Context, req *engine.IndustryRequest) (*engine.IndustryReport, error) {
	reply, err := s.eng.AnalyzeIndustryTrends(ctx, *req)
	if err != nil {
		return nil, s.toError("AnalyzeIndustryTrends", err)
	}
	return reply, nil
}

// DevelopStrategy 制定会议策略
func (s *BriefingService) DevelopStrategy(ctx context.Context, req *engine.StrategyRequest) (*engine.StrategyReport, error) {
	reply, err := s.eng.DevelopStrategy(ctx, *req)
	if err != nil {
		return nil, s.toError("DevelopStrategy", err)
	}
	return reply, nil
}

// CompileBriefing 汇编简报
func (s *BriefingService) CompileBriefing(ctx context.Context, req *engine.CompileRequest) (*model.Briefing, error) {
	reply, err := s.eng.CompileBriefing(ctx, *req)
	if err != nil {
		return nil, s.toError("CompileBriefing", err)
	}
	return reply, nil
}

// PrepareBriefing 执行完整流程
func (s *BriefingService) PrepareBriefing(ctx context.Context, req *engine.BriefingRequest) (*model.Briefing, error) {
	reply, err := s.eng.Prepare(ctx, *req)
	if err != nil {
		return nil, s.toError("PrepareBriefing", err)
	}
	s.log.WithContext(ctx).Infof("briefing prepared: participants=%d status=%s score=%.4f",
		len(reply.ParticipantProfiles), reply.Header.PreparationStatus, reply.QualityScore)
	return reply, nil
}

// PrepareBriefingHTML 执行完整流程并渲染为 HTML
func (s *BriefingService) PrepareBriefingHTML(ctx context.Context, req *engine.BriefingRequest) ([]byte, error) {
	b, err := s.PrepareBriefing(ctx, req)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := render.HTML(&buf, *b); err != nil {
		s.log.WithContext(ctx).Errorf("render briefing: %v", err)
		return nil, kerrors.InternalServer("RENDER_FAILED", "failed to render briefing")
	}
	return buf.Bytes(), nil
}

// toError 将引擎错误映射为 kratos 错误
func (s *BriefingService) toError(op string, err error) error {
	switch {
	case errors.Is(err, engine.ErrInvalidRequest):
		return kerrors.BadRequest("INVALID_REQUEST", err.Error())
	case errors.Is(err, context.Canceled):
		return kerrors.ClientClosed("CANCELLED", "request cancelled")
	case errors.Is(err, context.DeadlineExceeded):
		return kerrors.GatewayTimeout("DEADLINE_EXCEEDED", "request deadline exceeded")
	default:
		s.log.Errorf("%s failed: %v", op, err)
		return kerrors.InternalServer("INTERNAL", "internal error")
	}
}
