package intel

import "time"

// UnknownSource is the sentinel stored when a provider response carries no attribution.
const UnknownSource = "unknown source"

// Category classifies what kind of competitor activity a record describes.
type Category string

const (
	CategoryProduct     Category = "product"
	CategoryFunding     Category = "funding"
	CategoryAcquisition Category = "acquisition"
	CategoryPartnership Category = "partnership"
	CategoryLeadership  Category = "leadership"
	CategoryGeneral     Category = "general"
)

// Sentiment captures the tone of a record's text.
type Sentiment string

const (
	SentimentPositive Sentiment = "positive"
	SentimentNegative Sentiment = "negative"
	SentimentNeutral  Sentiment = "neutral"
)

// ThreatLevel grades how dangerous a competitor's recent activity looks.
type ThreatLevel string

const (
	ThreatLow      ThreatLevel = "low"
	ThreatMedium   ThreatLevel = "medium"
	ThreatHigh     ThreatLevel = "high"
	ThreatCritical ThreatLevel = "critical"
)

// OpportunityLevel grades how exploitable a competitor's situation is.
type OpportunityLevel string

const (
	OpportunityLow    OpportunityLevel = "low"
	OpportunityMedium OpportunityLevel = "medium"
	OpportunityHigh   OpportunityLevel = "high"
)

// ImpactLevel summarises the overall business impact of an assessment.
type ImpactLevel string

const (
	ImpactMinimal     ImpactLevel = "minimal"
	ImpactModerate    ImpactLevel = "moderate"
	ImpactSignificant ImpactLevel = "significant"
	ImpactMajor       ImpactLevel = "major"
)

// Priority ranks an action item.
type Priority string

const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

// UpdateRecord is one observed fact about a competitor. Records are created
// per fetch cycle, enriched once by the classifier and never mutated after
// that; corrections arrive as new records.
type UpdateRecord struct {
	ID             string    `json:"id"`
	Title          string    `json:"title"`
	CompetitorName string    `json:"competitor_name"`
	Source         string    `json:"source"`
	Content        string    `json:"content"`
	URL            string    `json:"url,omitempty"`
	PublishedAt    string    `json:"published_at,omitempty"`
	FetchedAt      time.Time `json:"fetched_at"`
	Category       Category  `json:"category,omitempty"`
	Sentiment      Sentiment `json:"sentiment,omitempty"`
}

// ActionItem is a single recommended response to competitor activity.
type ActionItem struct {
	Priority   Priority `json:"priority"`
	Action     string   `json:"action"`
	Department string   `json:"department"`
	Timeframe  string   `json:"timeframe"`
}

// ImpactAssessment is one competitor's rollup over a time window. It is
// recomputed on demand from a record batch, never incrementally updated.
type ImpactAssessment struct {
	Competitor               string           `json:"competitor"`
	ThreatLevel              ThreatLevel      `json:"threat_level"`
	OpportunityLevel         OpportunityLevel `json:"opportunity_level"`
	OverallImpact            ImpactLevel      `json:"overall_impact"`
	ExecutiveSummary         string           `json:"executive_summary"`
	KeyFindings              []string         `json:"key_findings"`
	Threats                  []string         `json:"threats"`
	Opportunities            []string         `json:"opportunities"`
	StrategicRecommendations []string         `json:"strategic_recommendations"`
	ActionItems              []ActionItem     `json:"action_items"`
	MarketImplications       []string         `json:"market_implications"`
	AnalyzedAt               time.Time        `json:"analyzed_at"`
}

// CompetitorActionItem is an action item tagged with its originating competitor.
type CompetitorActionItem struct {
	ActionItem
	Competitor string `json:"competitor"`
}

// CompetitorOpportunity is an opportunity tagged with its originating competitor.
type CompetitorOpportunity struct {
	Competitor  string `json:"competitor"`
	Opportunity string `json:"opportunity"`
}

// Briefing merges multiple assessments into a ranked executive rollup.
type Briefing struct {
	GeneratedAt              time.Time                           `json:"generated_at"`
	CompetitorsAnalyzed      int                                 `json:"competitors_analyzed"`
	HighPriority             []ImpactAssessment                  `json:"high_priority"`
	MediumPriority           []ImpactAssessment                  `json:"medium_priority"`
	LowPriorityCount         int                                 `json:"low_priority_count"`
	Opportunities            []CompetitorOpportunity             `json:"opportunities"`
	StrategicRecommendations []string                            `json:"strategic_recommendations"`
	ActionItems              map[Priority][]CompetitorActionItem `json:"action_items"`
}
