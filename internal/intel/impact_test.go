package intel

import (
	"context"
	"testing"
)

func TestRuleEngineEmptyBatch(t *testing.T) {
	assessment, err := NewRuleEngine().Assess(context.Background(), "Acme", nil, "")
	if err != nil {
		t.Fatalf("Assess: %v", err)
	}

	if assessment.ThreatLevel != ThreatLow {
		t.Errorf("unexpected threat level: %s", assessment.ThreatLevel)
	}
	if assessment.OpportunityLevel != OpportunityLow {
		t.Errorf("unexpected opportunity level: %s", assessment.OpportunityLevel)
	}
	if assessment.OverallImpact != ImpactMinimal {
		t.Errorf("unexpected impact: %s", assessment.OverallImpact)
	}
	if len(assessment.KeyFindings) != 1 || assessment.KeyFindings[0] != "No recent activity detected" {
		t.Errorf("unexpected findings: %v", assessment.KeyFindings)
	}
	if assessment.ExecutiveSummary != "No recent updates found for Acme." {
		t.Errorf("unexpected summary: %q", assessment.ExecutiveSummary)
	}
	if assessment.AnalyzedAt.IsZero() {
		t.Errorf("assessment must carry an analysis timestamp")
	}
}

func TestRuleEngineFundingEscalatesThreat(t *testing.T) {
	records := []UpdateRecord{
		{Title: "Series C", Category: CategoryFunding, Sentiment: SentimentPositive},
		{Title: "Bridge round", Category: CategoryFunding, Sentiment: SentimentNeutral},
		{Title: "Minor news", Category: CategoryGeneral, Sentiment: SentimentNeutral},
	}

	assessment, err := NewRuleEngine().Assess(context.Background(), "Acme", records, "")
	if err != nil {
		t.Fatalf("Assess: %v", err)
	}

	if assessment.ThreatLevel != ThreatHigh {
		t.Errorf("two funding updates should be high threat, got %s", assessment.ThreatLevel)
	}
	if assessment.OverallImpact != ImpactSignificant {
		t.Errorf("unexpected impact: %s", assessment.OverallImpact)
	}

	want := "Analysis of 3 recent updates from Acme. Threat level: high. 1 threats and 0 opportunities identified."
	if assessment.ExecutiveSummary != want {
		t.Errorf("unexpected summary:\n got %q\nwant %q", assessment.ExecutiveSummary, want)
	}

	foundReview := false
	for _, item := range assessment.ActionItems {
		if item.Action == "Schedule competitive strategy review meeting about Acme" {
			foundReview = true
			if item.Priority != PriorityHigh || item.Department != "Product & Strategy" || item.Timeframe != "This week" {
				t.Errorf("unexpected review action item: %+v", item)
			}
		}
	}
	if !foundReview {
		t.Errorf("high threat must produce a strategy review action, got %+v", assessment.ActionItems)
	}
}

func TestRuleEngineAcquisitionIsHighThreat(t *testing.T) {
	records := []UpdateRecord{
		{Title: "Acme acquires DataCo", Category: CategoryAcquisition, Sentiment: SentimentNeutral},
	}

	assessment, _ := NewRuleEngine().Assess(context.Background(), "Acme", records, "")
	if assessment.ThreatLevel != ThreatHigh {
		t.Errorf("a single acquisition should be high threat, got %s", assessment.ThreatLevel)
	}
}

func TestRuleEngineProductCadenceIsMediumThreat(t *testing.T) {
	records := []UpdateRecord{
		{Title: "Launch A", Category: CategoryProduct, Sentiment: SentimentNeutral},
		{Title: "Launch B", Category: CategoryProduct, Sentiment: SentimentNeutral},
		{Title: "Launch C", Category: CategoryProduct, Sentiment: SentimentNeutral},
	}

	assessment, _ := NewRuleEngine().Assess(context.Background(), "Acme", records, "")
	if assessment.ThreatLevel != ThreatMedium {
		t.Errorf("three product updates should be medium threat, got %s", assessment.ThreatLevel)
	}
	if assessment.OverallImpact != ImpactModerate {
		t.Errorf("unexpected impact: %s", assessment.OverallImpact)
	}

	foundProductAction := false
	for _, item := range assessment.ActionItems {
		if item.Action == "Product team to review competitor feature releases" {
			foundProductAction = true
			if item.Priority != PriorityMedium || item.Timeframe != "Within 2 weeks" {
				t.Errorf("unexpected product action item: %+v", item)
			}
		}
	}
	if !foundProductAction {
		t.Errorf("product activity must produce a product review action")
	}

	foundImplication := false
	for _, imp := range assessment.MarketImplications {
		if imp == "Rapid innovation cycle in the industry" {
			foundImplication = true
		}
	}
	if !foundImplication {
		t.Errorf("unexpected market implications: %v", assessment.MarketImplications)
	}
}

func TestRuleEngineNegativeSentimentOpensOpportunity(t *testing.T) {
	records := []UpdateRecord{
		{Title: "Lawsuit hits Acme", Category: CategoryGeneral, Sentiment: SentimentNegative},
		{Title: "Outage continues", Category: CategoryGeneral, Sentiment: SentimentNegative},
		{Title: "New office", Category: CategoryGeneral, Sentiment: SentimentNeutral},
	}

	assessment, _ := NewRuleEngine().Assess(context.Background(), "Acme", records, "")
	if assessment.OpportunityLevel != OpportunityMedium {
		t.Errorf("negative sentiment should open a medium opportunity, got %s", assessment.OpportunityLevel)
	}

	foundCampaign := false
	for _, item := range assessment.ActionItems {
		if item.Action == "Marketing to develop competitive positioning campaign" {
			foundCampaign = true
			if item.Department != "Marketing" || item.Timeframe != "This month" {
				t.Errorf("unexpected marketing action item: %+v", item)
			}
		}
	}
	if !foundCampaign {
		t.Errorf("medium opportunity must produce a marketing action")
	}
}

func TestRuleEngineQuietBatchDefaults(t *testing.T) {
	records := []UpdateRecord{
		{Title: "Minor note", Category: CategoryGeneral, Sentiment: SentimentNeutral},
	}

	assessment, _ := NewRuleEngine().Assess(context.Background(), "Acme", records, "")
	if len(assessment.KeyFindings) != 1 || assessment.KeyFindings[0] != "Limited recent activity" {
		t.Errorf("unexpected findings: %v", assessment.KeyFindings)
	}
	if len(assessment.Threats) != 1 || assessment.Threats[0] != "No immediate threats identified" {
		t.Errorf("unexpected threats: %v", assessment.Threats)
	}
	if len(assessment.StrategicRecommendations) != 1 || assessment.StrategicRecommendations[0] != "Continue monitoring" {
		t.Errorf("unexpected recommendations: %v", assessment.StrategicRecommendations)
	}
}
