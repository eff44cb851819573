// Package render 将简报导出为静态 HTML 页面
package render

import (
	"fmt"
	"html/template"
	"io"
	"sort"

	"github.com/iWorld-y/meeting_briefing/app/briefing/pkg/model"
)

const htmlTpl = `<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <title>{{.Header.Title}}</title>
    <style>
        :root {
            --primary-color: #2563eb;
            --bg-color: #f8fafc;
            --card-bg: #ffffff;
            --text-main: #1e293b;
            --text-secondary: #64748b;
            --border-color: #e2e8f0;
        }
        body {
            font-family: -apple-system, BlinkMacSystemFont, "Segoe UI", Roboto, "Helvetica Neue", Arial, sans-serif;
            background-color: var(--bg-color);
            color: var(--text-main);
            line-height: 1.6;
            margin: 0;
            padding: 20px;
        }
        .container { max-width: 900px; margin: 0 auto; }
        header { text-align: center; margin-bottom: 32px; }
        h1 { font-size: 2rem; margin: 0 0 10px 0; }
        .meta { color: var(--text-secondary); }
        .card {
            background: var(--card-bg);
            border-radius: 12px;
            padding: 24px;
            margin-bottom: 24px;
            box-shadow: 0 2px 4px rgba(0,0,0,0.05);
            border: 1px solid var(--border-color);
        }
        .card h2 { margin-top: 0; border-bottom: 2px solid var(--primary-color); padding-bottom: 8px; display: inline-block; }
        .badge { padding: 2px 10px; border-radius: 20px; font-size: 0.8rem; font-weight: bold; }
        .LIVE { background: #dcfce7; color: #166534; }
        .FALLBACK { background: #fee2e2; color: #991b1b; }
        .score { font-size: 1.2rem; font-weight: bold; }
        .objection { background: #f8fafc; border-left: 4px solid #a855f7; padding: 10px 14px; margin-bottom: 10px; }
    </style>
</head>
<body>
<div class="container">
    <header>
        <h1>{{.Header.Title}}</h1>
        <div class="meta">{{.Header.MeetingContext}}{{if .Header.GeneratedAt}} • {{.Header.GeneratedAt}}{{end}}</div>
        <div class="meta">Objective: {{.Header.MeetingObjective}}</div>
        <div class="score">Quality score: {{printf "%.2f" .QualityScore}} ({{.Header.PreparationStatus}})</div>
    </header>

    <section class="card">
        <h2>1. Executive Summary</h2>
        <p>{{.ExecutiveSummary}}</p>
    </section>

    <section class="card">
        <h2>2. Participant Profiles</h2>
        {{range .ParticipantProfiles}}
        <h3>{{.Name}} <span class="badge {{.Source}}">{{.Source}}</span></h3>
        {{if .LinkedInURL}}<p><a href="{{.LinkedInURL}}" target="_blank">{{.LinkedInURL}}</a></p>{{end}}
        <p>{{.ProfileSummary}}</p>
        {{if .CompanyInfo}}<p><strong>Company:</strong> {{.CompanyInfo}}</p>{{end}}
        {{if .Experience}}<ul>{{range .Experience}}<li>{{.}}</li>{{end}}</ul>{{end}}
        {{if .Education}}<ul>{{range .Education}}<li>{{.}}</li>{{end}}</ul>{{end}}
        {{else}}<p>No participant data.</p>{{end}}
    </section>

    <section class="card">
        <h2>3. Industry Analysis</h2>
        {{range .Industries}}
        <h3>{{.IndustryTag}} <span class="badge {{.Source}}">{{.Source}}</span></h3>
        {{if .CurrentTrends}}<h4>Trends</h4><ul>{{range .CurrentTrends}}<li>{{.}}</li>{{end}}</ul>{{end}}
        {{if .MarketChallenges}}<h4>Challenges</h4><ul>{{range .MarketChallenges}}<li>{{.}}</li>{{end}}</ul>{{end}}
        {{if .GrowthOpportunities}}<h4>Opportunities</h4><ul>{{range .GrowthOpportunities}}<li>{{.}}</li>{{end}}</ul>{{end}}
        {{if .CompetitiveLandscape}}<h4>Competitive landscape</h4><ul>{{range .CompetitiveLandscape}}<li>{{.}}</li>{{end}}</ul>{{end}}
        {{if .RiskFactors}}<h4>Risks</h4><ul>{{range .RiskFactors}}<li>{{.}}</li>{{end}}</ul>{{end}}
        <p><strong>Investment outlook:</strong> {{.InvestmentOutlook}}</p>
        {{else}}<p>No industry data.</p>{{end}}
    </section>

    <section class="card">
        <h2>4. Strategic Talking Points</h2>
        <span class="badge {{.StrategicTalkingPoints.Source}}">{{.StrategicTalkingPoints.Source}}</span>
        <h4>Talking points</h4><ul>{{range .StrategicTalkingPoints.TalkingPoints}}<li>{{.}}</li>{{end}}</ul>
        <h4>Strategic questions</h4><ul>{{range .StrategicTalkingPoints.StrategicQuestions}}<li>{{.}}</li>{{end}}</ul>
        <h4>Conversation starters</h4><ul>{{range .StrategicTalkingPoints.ConversationStarters}}<li>{{.}}</li>{{end}}</ul>
        <h4>Value propositions</h4><ul>{{range .StrategicTalkingPoints.ValuePropositions}}<li>{{.}}</li>{{end}}</ul>
        <h4>Objection handling</h4>
        {{range .StrategicTalkingPoints.Objections}}<div class="objection"><strong>{{.Objection}}</strong><br>{{.Response}}</div>{{end}}
    </section>

    <section class="card">
        <h2>5. Recommendations &amp; Action Items</h2>
        <ul>{{range .Recommendations}}<li>{{.}}</li>{{end}}</ul>
        <h4>Immediate actions</h4><ul>{{range .Supplementary.ImmediateActions}}<li>{{.}}</li>{{end}}</ul>
        <h4>Preparation checklist</h4><ul>{{range .Supplementary.PreparationChecklist}}<li>{{.}}</li>{{end}}</ul>
        <h4>Success indicators</h4><ul>{{range .Supplementary.SuccessIndicators}}<li>{{.}}</li>{{end}}</ul>
        <h4>Follow-up email</h4>
        <p><strong>{{.Supplementary.FollowUpTemplate.SubjectLine}}</strong></p>
        <p>{{.Supplementary.FollowUpTemplate.Opening}}</p>
        <ul>
            <li>{{.Supplementary.FollowUpTemplate.Summary}}</li>
            <li>{{.Supplementary.FollowUpTemplate.NextSteps}}</li>
            <li>{{.Supplementary.FollowUpTemplate.Resources}}</li>
        </ul>
        <p>{{.Supplementary.FollowUpTemplate.Closing}}</p>
    </section>
</div>
</body>
</html>`

var tpl = template.Must(template.New("briefing").Parse(htmlTpl))

// htmlData 模板数据，行业按标签排序展示
type htmlData struct {
	model.Briefing
	Industries []model.IndustryRecord
}

// HTML 渲染简报
func HTML(w io.Writer, b model.Briefing) error {
	tags := make([]string, 0, len(b.IndustryAnalysis))
	for t := range b.IndustryAnalysis {
		tags = append(tags, t)
	}
	sort.Strings(tags)

	data := htmlData{Briefing: b, Industries: make([]model.IndustryRecord, 0, len(tags))}
	for _, t := range tags {
		data.Industries = append(data.Industries, b.IndustryAnalysis[t])
	}
	if err := tpl.Execute(w, data); err != nil {
		return fmt.Errorf("render briefing: %w", err)
	}
	return nil
}
