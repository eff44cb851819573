package model

// Source 记录来源：LIVE 表示来自外部 API，FALLBACK 表示本地合成的占位内容
type Source string

const (
	SourceLive     Source = "LIVE"
	SourceFallback Source = "FALLBACK"
)

// IsLive 是否来自实时调用
func (s Source) IsLive() bool {
	return s == SourceLive
}

// ParticipantRecord 单个参会人的调研结果
type ParticipantRecord struct {
	Name           string   `json:"name"`
	LinkedInURL    string   `json:"linkedin_url"`
	ProfileSummary string   `json:"profile_summary"`
	Experience     []string `json:"experience"`
	Education      []string `json:"education"`
	CompanyInfo    string   `json:"company_info"`
	Source         Source   `json:"source"`
}

// Complete 必填字段是否齐全
func (p ParticipantRecord) Complete() bool {
	return p.Name != ""
}

// IndustryRecord 单个行业的分析结果
type IndustryRecord struct {
	IndustryTag          string   `json:"industry_tag"`
	CurrentTrends        []string `json:"current_trends"`
	MarketChallenges     []string `json:"market_challenges"`
	GrowthOpportunities  []string `json:"growth_opportunities"`
	CompetitiveLandscape []string `json:"competitive_landscape"`
	InvestmentOutlook    string   `json:"investment_outlook"`
	RiskFactors          []string `json:"risk_factors"`
	Source               Source   `json:"source"`
}

// Complete 必填字段是否齐全
func (r IndustryRecord) Complete() bool {
	return r.IndustryTag != ""
}

// Objection 潜在异议及应对话术
type Objection struct {
	Objection string `json:"objection"`
	Response  string `json:"response"`
}

// StrategyPlan 会议策略
type StrategyPlan struct {
	TalkingPoints        []string            `json:"talking_points"`
	StrategicQuestions   []string            `json:"strategic_questions"`
	ConversationStarters []string            `json:"conversation_starters"`
	ValuePropositions    []string            `json:"value_propositions"`
	Objections           []Objection         `json:"potential_objections"`
	CommonGroundAreas    []string            `json:"common_ground_areas"`
	MeetingFlow          []string            `json:"meeting_flow"`
	ContingencyPlans     map[string][]string `json:"contingency_plans"`
	KeySuccessFactors    []string            `json:"key_success_factors"`
	PreMeetingChecklist  []string            `json:"pre_meeting_checklist"`
	SuccessMetrics       []string            `json:"success_metrics"`
	Source               Source              `json:"source"`
}

// BriefingHeader 简报抬头
type BriefingHeader struct {
	Title             string `json:"title"`
	GeneratedAt       string `json:"generated_at,omitempty"`
	MeetingContext    string `json:"meeting_context"`
	MeetingObjective  string `json:"meeting_objective"`
	PreparationStatus string `json:"preparation_status"`
}

// TalkingPointsSection 策略谈话要点（StrategyPlan 的派生视图）
type TalkingPointsSection struct {
	TalkingPoints        []string    `json:"talking_points"`
	StrategicQuestions   []string    `json:"strategic_questions"`
	ConversationStarters []string    `json:"conversation_starters"`
	ValuePropositions    []string    `json:"value_propositions"`
	Objections           []Objection `json:"objection_handling"`
	Source               Source      `json:"source"`
}

// FollowUpTemplate 会后跟进邮件模板
type FollowUpTemplate struct {
	SubjectLine string `json:"subject_line"`
	Opening     string `json:"opening"`
	Summary     string `json:"summary_section"`
	NextSteps   string `json:"next_steps_section"`
	Resources   string `json:"resources_section"`
	Closing     string `json:"closing"`
}

// Supplementary 附加材料
type Supplementary struct {
	PreparationChecklist []string         `json:"preparation_checklist"`
	FollowUpTemplate     FollowUpTemplate `json:"follow_up_template"`
	ImmediateActions     []string         `json:"immediate_actions"`
	SuccessIndicators    []string         `json:"success_indicators"`
}

// Briefing 最终的五段式会议简报
type Briefing struct {
	Header                 BriefingHeader            `json:"briefing_header"`
	ExecutiveSummary       string                    `json:"executive_summary"`
	ParticipantProfiles    []ParticipantRecord       `json:"participant_profiles"`
	IndustryAnalysis       map[string]IndustryRecord `json:"industry_analysis"`
	StrategicTalkingPoints TalkingPointsSection      `json:"strategic_talking_points"`
	Recommendations        []string                  `json:"recommendations"`
	QualityScore           float64                   `json:"quality_score"`
	Supplementary          Supplementary             `json:"supplementary_materials"`
}
