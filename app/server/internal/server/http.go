package server

import (
	"context"
	stdhttp "net/http"
	"time"

	"github.com/go-kratos/kratos/v2/log"
	"github.com/go-kratos/kratos/v2/middleware/recovery"
	"github.com/go-kratos/kratos/v2/transport/http"

	"github.com/iWorld-y/meeting_briefing/app/briefing/pkg/engine"
	"github.com/iWorld-y/meeting_briefing/app/server/internal/conf"
	"github.com/iWorld-y/meeting_briefing/app/server/internal/service"
)

const (
	OperationResearchParticipants = "/briefing.v1.Briefing/ResearchParticipants"
	OperationAnalyzeIndustry      = "/briefing.v1.Briefing/AnalyzeIndustryTrends"
	OperationDevelopStrategy      = "/briefing.v1.Briefing/DevelopStrategy"
	OperationCompileBriefing      = "/briefing.v1.Briefing/CompileBriefing"
	OperationPrepareBriefing      = "/briefing.v1.Briefing/PrepareBriefing"
	OperationPrepareBriefingHTML  = "/briefing.v1.Briefing/PrepareBriefingHTML"
)

// NewHTTPServer new an HTTP server.
func NewHTTPServer(c *conf.Server, briefing *service.BriefingService, logger log.Logger) *http.Server {
	var opts = []http.ServerOption{
		http.Middleware(
			recovery.Recovery(),
		),
	}
	if c != nil && c.Http != nil {
		if c.Http.Addr != "" {
			opts = append(opts, http.Address(c.Http.Addr))
		}
		if c.Http.Timeout != "" {
			if d, err := time.ParseDuration(c.Http.Timeout); err == nil {
				opts = append(opts, http.Timeout(d))
			} else {
				log.NewHelper(logger).Warnf("invalid http timeout %q: %v", c.Http.Timeout, err)
			}
		}
	}
	srv := http.NewServer(opts...)
	RegisterBriefingHTTPServer(srv, briefing)
	return srv
}

// RegisterBriefingHTTPServer 注册简报服务路由
func RegisterBriefingHTTPServer(s *http.Server, svc *service.BriefingService) {
	r := s.Route("/")
	r.POST("/v1/agents/research_meeting_participants", handle(OperationResearchParticipants, svc.ResearchParticipants))
	r.POST("/v1/agents/analyze_meeting_industry_trends", handle(OperationAnalyzeIndustry, svc.AnalyzeIndustryTrends))
	r.POST("/v1/agents/develop_meeting_strategy", handle(OperationDevelopStrategy, svc.DevelopStrategy))
	r.POST("/v1/agents/compile_meeting_briefing", handle(OperationCompileBriefing, svc.CompileBriefing))
	r.POST("/v1/briefings", handle(OperationPrepareBriefing, svc.PrepareBriefing))
	r.POST("/v1/briefings/html", handleHTML(svc))
}

// handle 绑定请求体、经过中间件链调用 fn 并以 JSON 返回
func handle[Req, Reply any](operation string, fn func(context.Context, *Req) (*Reply, error)) http.HandlerFunc {
	return func(ctx http.Context) error {
		var in Req
		if err := ctx.Bind(&in); err != nil {
			return err
		}
		http.SetOperation(ctx, operation)
		h := ctx.Middleware(func(ctx context.Context, req interface{}) (interface{}, error) {
			return fn(ctx, req.(*Req))
		})
		out, err := h(ctx, &in)
		if err != nil {
			return err
		}
		return ctx.Result(stdhttp.StatusOK, out.(*Reply))
	}
}

// handleHTML 执行完整流程并直接写出 HTML 页面
func handleHTML(svc *service.BriefingService) http.HandlerFunc {
	return func(ctx http.Context) error {
		var in engine.BriefingRequest
		if err := ctx.Bind(&in); err != nil {
			return err
		}
		http.SetOperation(ctx, OperationPrepareBriefingHTML)
		h := ctx.Middleware(func(ctx context.Context, req interface{}) (interface{}, error) {
			return svc.PrepareBriefingHTML(ctx, req.(*engine.BriefingRequest))
		})
		out, err := h(ctx, &in)
		if err != nil {
			return err
		}
		w := ctx.Response()
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.WriteHeader(stdhttp.StatusOK)
		_, err = w.Write(out.([]byte))
		return err
	}
}
