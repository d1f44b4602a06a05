package intel

import (
	"context"
	"fmt"
	"time"
)

// ImpactAnalysisStrategy produces a competitor assessment from a record
// batch. Implementations must always return a populated assessment with
// closed-enum levels, never free text.
type ImpactAnalysisStrategy interface {
	Assess(ctx context.Context, competitor string, records []UpdateRecord, businessContext string) (ImpactAssessment, error)
}

// RuleEngine is the deterministic analysis path. It needs no network access,
// always succeeds, and is the structural contract any generative analyzer
// must match.
type RuleEngine struct {
	now func() time.Time
}

// NewRuleEngine constructs a rule engine using the wall clock.
func NewRuleEngine() *RuleEngine {
	return &RuleEngine{now: time.Now}
}

// Assess tallies records by category and sentiment and derives levels,
// findings and action items from fixed thresholds and templates.
func (e *RuleEngine) Assess(_ context.Context, competitor string, records []UpdateRecord, _ string) (ImpactAssessment, error) {
	analyzedAt := e.now().UTC()

	if len(records) == 0 {
		return ImpactAssessment{
			Competitor:               competitor,
			ThreatLevel:              ThreatLow,
			OpportunityLevel:         OpportunityLow,
			OverallImpact:            ImpactMinimal,
			ExecutiveSummary:         fmt.Sprintf("No recent updates found for %s.", competitor),
			KeyFindings:              []string{"No recent activity detected"},
			Threats:                  []string{},
			Opportunities:            []string{},
			StrategicRecommendations: []string{},
			ActionItems:              []ActionItem{},
			MarketImplications:       []string{},
			AnalyzedAt:               analyzedAt,
		}, nil
	}

	categories := map[Category]int{}
	sentiments := map[Sentiment]int{}
	for _, record := range records {
		categories[record.Category]++
		sentiments[record.Sentiment]++
	}

	threat := ThreatLow
	switch {
	case categories[CategoryFunding] >= 2 || categories[CategoryAcquisition] >= 1:
		threat = ThreatHigh
	case categories[CategoryProduct] >= 3 || len(records) >= 10:
		threat = ThreatMedium
	}

	// The rule engine never escalates opportunity past medium; only the
	// generative path may return high.
	opportunity := OpportunityLow
	if sentiments[SentimentNegative] > sentiments[SentimentPositive] || categories[CategoryLeadership] >= 2 {
		opportunity = OpportunityMedium
	}

	impact := ImpactMinimal
	switch threat {
	case ThreatHigh, ThreatCritical:
		impact = ImpactSignificant
	case ThreatMedium:
		impact = ImpactModerate
	}

	var findings, threats, opportunities []string

	if n := categories[CategoryProduct]; n > 0 {
		findings = append(findings, fmt.Sprintf("%s has %d product-related updates", competitor, n))
		threats = append(threats, "Active product development may lead to competitive features")
	}
	if n := categories[CategoryFunding]; n > 0 {
		findings = append(findings, fmt.Sprintf("Funding activity detected: %d updates", n))
		threats = append(threats, "New funding provides resources for aggressive growth")
	}
	if n := categories[CategoryAcquisition]; n > 0 {
		findings = append(findings, fmt.Sprintf("%d acquisition or merger signals", n))
		threats = append(threats, "Consolidation moves may reshape the competitive landscape")
	}
	if n := categories[CategoryPartnership]; n > 0 {
		findings = append(findings, fmt.Sprintf("%d partnership announcements", n))
		opportunities = append(opportunities, "Potential partnership gaps in the market")
	}
	if sentiments[SentimentNegative] > sentiments[SentimentPositive] {
		findings = append(findings, "Negative sentiment detected in recent news")
		opportunities = append(opportunities, "Market dissatisfaction could be an opportunity")
	}

	var recommendations []string
	var actions []ActionItem

	if threat == ThreatHigh || threat == ThreatCritical {
		recommendations = append(recommendations, fmt.Sprintf("Monitor %s closely and review competitive strategy", competitor))
		actions = append(actions, ActionItem{
			Priority:   PriorityHigh,
			Action:     fmt.Sprintf("Schedule competitive strategy review meeting about %s", competitor),
			Department: "Product & Strategy",
			Timeframe:  "This week",
		})
	}
	if categories[CategoryProduct] > 0 {
		recommendations = append(recommendations, "Analyze their product changes for feature gaps and opportunities")
		actions = append(actions, ActionItem{
			Priority:   PriorityMedium,
			Action:     "Product team to review competitor feature releases",
			Department: "Product",
			Timeframe:  "Within 2 weeks",
		})
	}
	if opportunity == OpportunityMedium || opportunity == OpportunityHigh {
		recommendations = append(recommendations, "Capitalize on competitor weaknesses with targeted marketing")
		actions = append(actions, ActionItem{
			Priority:   PriorityMedium,
			Action:     "Marketing to develop competitive positioning campaign",
			Department: "Marketing",
			Timeframe:  "This month",
		})
	}

	var implications []string
	if categories[CategoryFunding] > 0 {
		implications = append(implications, "Increased investor interest in this market segment")
	}
	if categories[CategoryProduct] >= 3 {
		implications = append(implications, "Rapid innovation cycle in the industry")
	}

	if len(findings) == 0 {
		findings = []string{"Limited recent activity"}
	}
	if len(threats) == 0 {
		threats = []string{"No immediate threats identified"}
	}
	if len(opportunities) == 0 {
		opportunities = []string{"No clear opportunities identified"}
	}
	if len(recommendations) == 0 {
		recommendations = []string{"Continue monitoring"}
	}
	if len(implications) == 0 {
		implications = []string{"No significant market shifts detected"}
	}
	if actions == nil {
		actions = []ActionItem{}
	}

	summary := fmt.Sprintf(
		"Analysis of %d recent updates from %s. Threat level: %s. %d threats and %d opportunities identified.",
		len(records), competitor, threat, countTemplated(threats), countTemplated(opportunities),
	)

	return ImpactAssessment{
		Competitor:               competitor,
		ThreatLevel:              threat,
		OpportunityLevel:         opportunity,
		OverallImpact:            impact,
		ExecutiveSummary:         summary,
		KeyFindings:              findings,
		Threats:                  threats,
		Opportunities:            opportunities,
		StrategicRecommendations: recommendations,
		ActionItems:              actions,
		MarketImplications:       implications,
		AnalyzedAt:               analyzedAt,
	}, nil
}

// countTemplated reports how many generated entries a list carries, treating
// the single "none identified" placeholder as zero.
func countTemplated(entries []string) int {
	if len(entries) == 1 && (entries[0] == "No immediate threats identified" || entries[0] == "No clear opportunities identified") {
		return 0
	}
	return len(entries)
}
