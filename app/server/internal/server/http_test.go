package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-kratos/kratos/v2/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iWorld-y/meeting_briefing/app/briefing/pkg/compiler"
	"github.com/iWorld-y/meeting_briefing/app/briefing/pkg/engine"
	"github.com/iWorld-y/meeting_briefing/app/briefing/pkg/model"
	"github.com/iWorld-y/meeting_briefing/app/briefing/pkg/upstream"
	"github.com/iWorld-y/meeting_briefing/app/server/internal/conf"
	"github.com/iWorld-y/meeting_briefing/app/server/internal/service"
)

func newTestHandler(t *testing.T) http.Handler {
	t.Helper()
	eng := engine.New(engine.Deps{
		Upstream: upstream.Options{Timeout: time.Second, Backoff: time.Millisecond},
	})
	svc := service.NewBriefingService(eng, log.DefaultLogger)
	return NewHTTPServer(&conf.Server{Http: &conf.HTTP{Timeout: "5s"}}, svc, log.DefaultLogger)
}

func post(t *testing.T, h http.Handler, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func TestPrepareBriefingRoute(t *testing.T) {
	h := newTestHandler(t)
	w := post(t, h, "/v1/briefings", `{"participants":"Jane Doe, John Roe","meeting_context":"edge computing rollout","meeting_objective":"renew contract"}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var b model.Briefing
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &b))
	assert.Len(t, b.ParticipantProfiles, 2)
	assert.Equal(t, 0.0, b.QualityScore)
	assert.Equal(t, compiler.StatusPlaceholder, b.Header.PreparationStatus)
	assert.Contains(t, b.IndustryAnalysis, "Edge Computing")
}

func TestInvalidRequestIsBadRequest(t *testing.T) {
	h := newTestHandler(t)
	w := post(t, h, "/v1/briefings", `{"participants":[]}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	var status struct {
		Reason string `json:"reason"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &status))
	assert.Equal(t, "INVALID_REQUEST", status.Reason)
}

func TestAgentRoutes(t *testing.T) {
	h := newTestHandler(t)

	w := post(t, h, "/v1/agents/research_meeting_participants", `{"participants":["Jane Doe"],"meeting_context":"cloud migration"}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var research engine.ResearchReport
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &research))
	assert.Equal(t, 1, research.ParticipantsResearched)

	w = post(t, h, "/v1/agents/analyze_meeting_industry_trends", `{"participants":"Jane Doe","meeting_context":"cloud migration"}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var industries engine.IndustryReport
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &industries))
	assert.Contains(t, industries.IndustriesCovered, "Cloud Computing")

	strategyBody, err := json.Marshal(engine.StrategyRequest{
		MeetingContext:   "cloud migration",
		MeetingObjective: "budget for a pilot",
		ResearchData:     research.ResearchFindings,
		IndustryAnalysis: industries.IndustryAnalyses,
	})
	require.NoError(t, err)
	w = post(t, h, "/v1/agents/develop_meeting_strategy", string(strategyBody))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var plan engine.StrategyReport
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &plan))
	assert.Equal(t, model.SourceFallback, plan.StrategyComponents.Source)

	compileBody, err := json.Marshal(engine.CompileRequest{
		MeetingContext:   "cloud migration",
		MeetingObjective: "budget for a pilot",
		ResearchFindings: research.ResearchFindings,
		IndustryAnalysis: industries.IndustryAnalyses,
		MeetingStrategy:  plan.StrategyComponents,
	})
	require.NoError(t, err)
	w = post(t, h, "/v1/agents/compile_meeting_briefing", string(compileBody))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var b model.Briefing
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &b))
	assert.Empty(t, b.Header.GeneratedAt)
	assert.Len(t, b.ParticipantProfiles, 1)
}

func TestPrepareBriefingHTMLRoute(t *testing.T) {
	h := newTestHandler(t)
	w := post(t, h, "/v1/briefings/html", `{"participants":"Jane Doe","meeting_context":"AI strategy"}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Contains(t, w.Header().Get("Content-Type"), "text/html")
	assert.Contains(t, w.Body.String(), "<html")
	assert.Contains(t, w.Body.String(), "Jane Doe")
}

func TestMalformedBodyIsRejected(t *testing.T) {
	h := newTestHandler(t)
	w := post(t, h, "/v1/briefings", `{"participants":42}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
