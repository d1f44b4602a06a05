package intel

import "time"

const maxBriefingRecommendations = 7

// AggregateBriefing merges assessments into a ranked executive rollup. High
// and critical threats form the high-priority group, medium threats the
// medium group, and low threats are reported only by count. Order within
// each group is the input order of assessments.
func AggregateBriefing(assessments []ImpactAssessment) Briefing {
	briefing := Briefing{
		GeneratedAt:              time.Now().UTC(),
		CompetitorsAnalyzed:      len(assessments),
		HighPriority:             []ImpactAssessment{},
		MediumPriority:           []ImpactAssessment{},
		Opportunities:            []CompetitorOpportunity{},
		StrategicRecommendations: []string{},
		ActionItems:              ActionItemsByPriority(assessments),
	}

	for _, assessment := range assessments {
		switch assessment.ThreatLevel {
		case ThreatHigh, ThreatCritical:
			briefing.HighPriority = append(briefing.HighPriority, assessment)
		case ThreatMedium:
			briefing.MediumPriority = append(briefing.MediumPriority, assessment)
		default:
			briefing.LowPriorityCount++
		}

		for _, opportunity := range assessment.Opportunities {
			briefing.Opportunities = append(briefing.Opportunities, CompetitorOpportunity{
				Competitor:  assessment.Competitor,
				Opportunity: opportunity,
			})
		}

		briefing.StrategicRecommendations = append(briefing.StrategicRecommendations, assessment.StrategicRecommendations...)
	}

	if len(briefing.StrategicRecommendations) > maxBriefingRecommendations {
		briefing.StrategicRecommendations = briefing.StrategicRecommendations[:maxBriefingRecommendations]
	}

	return briefing
}

// ActionItemsByPriority flattens all action items across assessments, tags
// each with its originating competitor, and buckets them by priority.
// Unknown priorities land in the low bucket.
func ActionItemsByPriority(assessments []ImpactAssessment) map[Priority][]CompetitorActionItem {
	buckets := map[Priority][]CompetitorActionItem{
		PriorityHigh:   {},
		PriorityMedium: {},
		PriorityLow:    {},
	}

	for _, assessment := range assessments {
		for _, item := range assessment.ActionItems {
			priority := item.Priority
			if priority != PriorityHigh && priority != PriorityMedium {
				priority = PriorityLow
			}
			buckets[priority] = append(buckets[priority], CompetitorActionItem{
				ActionItem: item,
				Competitor: assessment.Competitor,
			})
		}
	}

	return buckets
}
