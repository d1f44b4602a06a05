// Package fetch provides upstream providers that gather competitor updates.
package fetch

import (
	"context"
	"fmt"
	"log"
	"strings"

	"rivalradar/internal/intel"
	"rivalradar/internal/llm"
)

const searcherSystemPrompt = "You are a competitive intelligence researcher. Provide factual, detailed information with sources. Always include dates and URLs when available."

// PerplexitySource queries the Perplexity search API and returns the
// unified free-text blob its model produces. Structuring that text is the
// parser's job, not this source's.
type PerplexitySource struct {
	Client        llm.ChatClient
	Model         string
	DaysBack      int
	IncludeSocial bool

	// TargetedSearches runs the product and company follow-up queries
	// after the general news search.
	TargetedSearches bool

	// Keywords optionally supplies extra search terms per competitor.
	Keywords func(competitor string) []string

	// Context optionally supplies a richer search subject for a
	// competitor, e.g. a profile summary with industry and products.
	Context func(competitor string) string
}

// NewPerplexitySource constructs a source with the given client and model.
func NewPerplexitySource(client llm.ChatClient, model string) *PerplexitySource {
	if model == "" {
		model = "llama-3.1-sonar-large-128k-online"
	}
	return &PerplexitySource{
		Client:           client,
		Model:            model,
		DaysBack:         7,
		IncludeSocial:    true,
		TargetedSearches: true,
	}
}

// Name returns the source identifier.
func (s *PerplexitySource) Name() string { return "perplexity" }

// Fetch runs the competitor news search, plus the targeted product and
// company searches when enabled, and returns the combined raw text. The
// follow-up searches are best effort; a failure there degrades the fetch
// rather than failing it.
func (s *PerplexitySource) Fetch(ctx context.Context, competitor string) (intel.FetchResult, error) {
	var keywords []string
	if s.Keywords != nil {
		keywords = s.Keywords(competitor)
	}
	subject := competitor
	if s.Context != nil {
		if c := strings.TrimSpace(s.Context(competitor)); c != "" {
			subject = c
		}
	}

	result, err := s.search(ctx, buildNewsQuery(subject, keywords, s.daysBack(), s.IncludeSocial))
	if err != nil {
		return intel.FetchResult{}, err
	}
	if !s.TargetedSearches {
		return result, nil
	}

	texts := make([]string, 0, 3)
	if result.Text != "" {
		texts = append(texts, result.Text)
	}
	if extra, err := s.FetchProductUpdates(ctx, competitor); err != nil {
		log.Printf("perplexity: product search for %s: %v", competitor, err)
	} else if extra.Text != "" {
		texts = append(texts, extra.Text)
	}
	if extra, err := s.FetchCompanyChanges(ctx, competitor); err != nil {
		log.Printf("perplexity: company search for %s: %v", competitor, err)
	} else if extra.Text != "" {
		texts = append(texts, extra.Text)
	}

	return intel.FetchResult{Text: strings.Join(texts, "\n\n")}, nil
}

// FetchProductUpdates searches specifically for launches, releases and
// feature announcements.
func (s *PerplexitySource) FetchProductUpdates(ctx context.Context, competitor string) (intel.FetchResult, error) {
	query := fmt.Sprintf(`Find recent product launches, feature releases, and product updates from %s.

Focus on:
- New product announcements
- Feature releases and updates
- Beta programs
- Product discontinuations
- Pricing changes

Search the last 30 days. Include sources and dates.
Provide specific details about each product update.`, competitor)

	return s.search(ctx, query)
}

// FetchCompanyChanges searches for funding, leadership, M&A and other
// company-level moves.
func (s *PerplexitySource) FetchCompanyChanges(ctx context.Context, competitor string) (intel.FetchResult, error) {
	query := fmt.Sprintf(`Find recent company news and changes for %s from the last 30 days.

Focus on:
- Funding announcements and investment rounds
- Leadership changes (CEO, executives)
- Mergers and acquisitions
- Strategic partnerships
- Office expansions or closures
- Layoffs or hiring sprees
- Revenue/financial announcements

Provide specific details, amounts, and sources.`, competitor)

	return s.search(ctx, query)
}

func (s *PerplexitySource) search(ctx context.Context, query string) (intel.FetchResult, error) {
	if s.Client == nil {
		return intel.FetchResult{}, fmt.Errorf("perplexity: client not configured")
	}

	req := llm.ChatCompletionRequest{
		Model: s.Model,
		Messages: []llm.Message{
			{Role: "system", Content: searcherSystemPrompt},
			{Role: "user", Content: query},
		},
		Temperature:         0.2,
		MaxTokens:           4000,
		SearchRecencyFilter: "month",
	}

	resp, err := s.Client.ChatCompletion(ctx, req)
	if err != nil {
		return intel.FetchResult{}, fmt.Errorf("perplexity: %w", err)
	}
	if len(resp.Choices) == 0 {
		return intel.FetchResult{}, nil
	}

	return intel.FetchResult{Text: resp.Choices[0].Message.Content}, nil
}

func (s *PerplexitySource) daysBack() int {
	if s.DaysBack <= 0 {
		return 7
	}
	return s.DaysBack
}

func buildNewsQuery(competitor string, keywords []string, daysBack int, includeSocial bool) string {
	sources := "news articles, press releases, and industry publications"
	if includeSocial {
		sources += ", social media (Twitter, Reddit, LinkedIn, Hacker News), and blog posts"
	}

	keywordText := ""
	if len(keywords) > 0 {
		keywordText = fmt.Sprintf("\nFocus on these topics: %s", strings.Join(keywords, ", "))
	}

	return fmt.Sprintf(`Find recent updates and news about %s from the last %d days.

Search %s.%s

Provide:
- News headlines and summaries
- Sources and publication dates
- URLs when available
- Key details and significance

Organize by date (most recent first).`, competitor, daysBack, sources, keywordText)
}
