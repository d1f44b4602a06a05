package intel

import (
	"context"
	"fmt"
	"log"
	"time"

	"google.golang.org/genai"
)

// GeminiAnalyzer performs impact analysis through the Gemini API using a
// typed response schema. Like LLMAnalyzer, it degrades to its fallback on
// any provider or decode failure.
type GeminiAnalyzer struct {
	Client   *genai.Client
	Model    string
	Fallback ImpactAnalysisStrategy
	now      func() time.Time
}

// NewGeminiAnalyzer wires a Gemini client over a deterministic fallback.
func NewGeminiAnalyzer(client *genai.Client, model string, fallback ImpactAnalysisStrategy) *GeminiAnalyzer {
	return &GeminiAnalyzer{Client: client, Model: model, Fallback: fallback, now: time.Now}
}

// Assess sends the impact prompt to Gemini, constraining the output to the
// assessment schema, and validates the returned JSON.
func (a *GeminiAnalyzer) Assess(ctx context.Context, competitor string, records []UpdateRecord, businessContext string) (ImpactAssessment, error) {
	if len(records) == 0 {
		return a.assessWithFallback(ctx, competitor, records, businessContext, nil)
	}
	if a.Client == nil || a.Model == "" {
		return a.assessWithFallback(ctx, competitor, records, businessContext, fmt.Errorf("gemini analyzer misconfigured"))
	}

	contents := []*genai.Content{
		{
			Role:  "user",
			Parts: []*genai.Part{{Text: buildImpactPrompt(competitor, records, businessContext)}},
		},
	}

	resp, err := a.Client.Models.GenerateContent(ctx, a.Model, contents, &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
		ResponseSchema:   assessmentSchema(),
	})
	if err != nil {
		return a.assessWithFallback(ctx, competitor, records, businessContext, err)
	}

	nowFn := a.now
	if nowFn == nil {
		nowFn = time.Now
	}
	assessment, err := decodeAssessment(resp.Text(), competitor, nowFn().UTC())
	if err != nil {
		return a.assessWithFallback(ctx, competitor, records, businessContext, err)
	}

	return assessment, nil
}

func (a *GeminiAnalyzer) assessWithFallback(ctx context.Context, competitor string, records []UpdateRecord, businessContext string, cause error) (ImpactAssessment, error) {
	if cause != nil {
		log.Printf("GeminiAnalyzer fallback for %s: %v", competitor, cause)
	}
	if a.Fallback != nil {
		return a.Fallback.Assess(ctx, competitor, records, businessContext)
	}
	return ImpactAssessment{}, cause
}

func assessmentSchema() *genai.Schema {
	stringList := &genai.Schema{
		Type:  genai.TypeArray,
		Items: &genai.Schema{Type: genai.TypeString},
	}

	actionItemSchema := &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"priority":   {Type: genai.TypeString, Description: "One of high, medium, low."},
			"action":     {Type: genai.TypeString, Description: "Specific action to take."},
			"department": {Type: genai.TypeString, Description: "Which team should handle this."},
			"timeframe":  {Type: genai.TypeString, Description: "When to do it."},
		},
		Required: []string{"priority", "action", "department", "timeframe"},
	}

	return &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"threat_level":              {Type: genai.TypeString, Description: "One of low, medium, high, critical."},
			"opportunity_level":         {Type: genai.TypeString, Description: "One of low, medium, high."},
			"overall_impact":            {Type: genai.TypeString, Description: "One of minimal, moderate, significant, major."},
			"executive_summary":         {Type: genai.TypeString},
			"key_findings":              stringList,
			"threats":                   stringList,
			"opportunities":             stringList,
			"strategic_recommendations": stringList,
			"action_items":              {Type: genai.TypeArray, Items: actionItemSchema},
			"market_implications":       stringList,
		},
		Required: []string{"threat_level", "opportunity_level", "overall_impact", "executive_summary", "key_findings", "threats", "opportunities", "strategic_recommendations", "action_items", "market_implications"},
	}
}
