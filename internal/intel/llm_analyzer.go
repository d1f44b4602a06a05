package intel

import (
	"context"
	"fmt"
	"log"
	"sort"
	"strings"
	"time"

	"rivalradar/internal/llm"
)

const (
	maxPromptRecords = 15
	maxExcerptRunes  = 300
)

// LLMAnalyzer delegates impact analysis to a chat-completion model. Any
// provider or parse failure is recovered locally by the fallback strategy,
// so callers never see a degraded run as an error.
type LLMAnalyzer struct {
	Client      llm.ChatClient
	Model       string
	Temperature float64
	MaxTokens   int
	Fallback    ImpactAnalysisStrategy
	now         func() time.Time
}

// NewLLMAnalyzer wires a chat client over a deterministic fallback.
func NewLLMAnalyzer(client llm.ChatClient, model string, fallback ImpactAnalysisStrategy) *LLMAnalyzer {
	return &LLMAnalyzer{
		Client:      client,
		Model:       model,
		Temperature: 0.4,
		MaxTokens:   1500,
		Fallback:    fallback,
		now:         time.Now,
	}
}

// Assess builds an analysis prompt from the most recent records and decodes
// the model's JSON answer into an assessment.
func (a *LLMAnalyzer) Assess(ctx context.Context, competitor string, records []UpdateRecord, businessContext string) (ImpactAssessment, error) {
	if len(records) == 0 {
		return a.assessWithFallback(ctx, competitor, records, businessContext, nil)
	}
	if a.Client == nil || a.Model == "" {
		return a.assessWithFallback(ctx, competitor, records, businessContext, fmt.Errorf("llm analyzer misconfigured"))
	}

	req := llm.ChatCompletionRequest{
		Model: a.Model,
		Messages: []llm.Message{
			{Role: "system", Content: "You are a strategic business intelligence analyst specializing in competitive analysis. Provide specific, actionable insights."},
			{Role: "user", Content: buildImpactPrompt(competitor, records, businessContext)},
		},
		Temperature: a.Temperature,
		MaxTokens:   a.MaxTokens,
	}

	resp, err := a.Client.ChatCompletion(ctx, req)
	if err != nil {
		return a.assessWithFallback(ctx, competitor, records, businessContext, err)
	}
	if len(resp.Choices) == 0 {
		return a.assessWithFallback(ctx, competitor, records, businessContext, fmt.Errorf("llm response missing choices"))
	}

	nowFn := a.now
	if nowFn == nil {
		nowFn = time.Now
	}
	assessment, err := decodeAssessment(resp.Choices[0].Message.Content, competitor, nowFn().UTC())
	if err != nil {
		return a.assessWithFallback(ctx, competitor, records, businessContext, err)
	}

	return assessment, nil
}

func (a *LLMAnalyzer) assessWithFallback(ctx context.Context, competitor string, records []UpdateRecord, businessContext string, cause error) (ImpactAssessment, error) {
	if cause != nil {
		log.Printf("LLMAnalyzer fallback for %s: %v", competitor, cause)
	}
	if a.Fallback != nil {
		return a.Fallback.Assess(ctx, competitor, records, businessContext)
	}
	return ImpactAssessment{}, cause
}

// buildImpactPrompt renders up to 15 most recent records, each with a
// bounded content excerpt, followed by the expected response schema.
func buildImpactPrompt(competitor string, records []UpdateRecord, businessContext string) string {
	recent := make([]UpdateRecord, len(records))
	copy(recent, records)
	sort.SliceStable(recent, func(i, j int) bool {
		return recent[i].FetchedAt.After(recent[j].FetchedAt)
	})
	if len(recent) > maxPromptRecords {
		recent = recent[:maxPromptRecords]
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Competitor: %s\n\nRecent Activities:\n", competitor)
	for i, record := range recent {
		fmt.Fprintf(&b, "%d. %s\n", i+1, record.Title)
		if record.Content != "" {
			fmt.Fprintf(&b, "   Details: %s\n", truncateRunes(record.Content, maxExcerptRunes))
		}
		if record.Category != "" {
			fmt.Fprintf(&b, "   Category: %s\n", record.Category)
		}
		if record.Sentiment != "" {
			fmt.Fprintf(&b, "   Sentiment: %s\n", record.Sentiment)
		}
		b.WriteString("\n")
	}

	if businessContext != "" {
		fmt.Fprintf(&b, "Your Business Context: %s\n", businessContext)
	}

	b.WriteString(`
As a strategic business analyst, analyze these competitor activities and provide actionable intelligence.

Respond with JSON using this schema:
{
    "threat_level": "low/medium/high/critical",
    "opportunity_level": "low/medium/high",
    "overall_impact": "minimal/moderate/significant/major",
    "executive_summary": "2-3 sentence overview of the competitive situation",
    "key_findings": ["..."],
    "threats": ["..."],
    "opportunities": ["..."],
    "strategic_recommendations": ["..."],
    "action_items": [
        {"priority": "high/medium/low", "action": "...", "department": "...", "timeframe": "..."}
    ],
    "market_implications": ["..."]
}

Focus on actionable insights and specific recommendations, not generic observations.`)

	return b.String()
}

func truncateRunes(text string, max int) string {
	runes := []rune(strings.TrimSpace(text))
	if len(runes) <= max {
		return string(runes)
	}
	return strings.TrimSpace(string(runes[:max])) + "…"
}
