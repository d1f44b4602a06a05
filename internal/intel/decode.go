package intel

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

type rawAssessment struct {
	ThreatLevel              string          `json:"threat_level"`
	OpportunityLevel         string          `json:"opportunity_level"`
	OverallImpact            string          `json:"overall_impact"`
	ExecutiveSummary         string          `json:"executive_summary"`
	KeyFindings              []string        `json:"key_findings"`
	Threats                  []string        `json:"threats"`
	Opportunities            []string        `json:"opportunities"`
	StrategicRecommendations []string        `json:"strategic_recommendations"`
	ActionItems              []rawActionItem `json:"action_items"`
	MarketImplications       []string        `json:"market_implications"`
}

type rawActionItem struct {
	Priority   string `json:"priority"`
	Action     string `json:"action"`
	Department string `json:"department"`
	Timeframe  string `json:"timeframe"`
}

// decodeAssessment validates a generative-model response body against the
// assessment schema. Enum fields are checked strictly; any deviation is a
// parse failure so the caller can fall back to the rule engine.
func decodeAssessment(payload, competitor string, analyzedAt time.Time) (ImpactAssessment, error) {
	body := extractJSON(payload)
	if body == "" {
		return ImpactAssessment{}, fmt.Errorf("response missing json payload")
	}

	var raw rawAssessment
	if err := json.Unmarshal([]byte(body), &raw); err != nil {
		return ImpactAssessment{}, fmt.Errorf("decode assessment: %w", err)
	}

	threat, err := parseThreatLevel(raw.ThreatLevel)
	if err != nil {
		return ImpactAssessment{}, err
	}
	opportunity, err := parseOpportunityLevel(raw.OpportunityLevel)
	if err != nil {
		return ImpactAssessment{}, err
	}
	impact, err := parseImpactLevel(raw.OverallImpact)
	if err != nil {
		return ImpactAssessment{}, err
	}

	actions := make([]ActionItem, 0, len(raw.ActionItems))
	for _, item := range raw.ActionItems {
		if strings.TrimSpace(item.Action) == "" {
			continue
		}
		actions = append(actions, ActionItem{
			Priority:   parsePriority(item.Priority),
			Action:     item.Action,
			Department: item.Department,
			Timeframe:  item.Timeframe,
		})
	}

	return ImpactAssessment{
		Competitor:               competitor,
		ThreatLevel:              threat,
		OpportunityLevel:         opportunity,
		OverallImpact:            impact,
		ExecutiveSummary:         raw.ExecutiveSummary,
		KeyFindings:              cleanStrings(raw.KeyFindings),
		Threats:                  cleanStrings(raw.Threats),
		Opportunities:            cleanStrings(raw.Opportunities),
		StrategicRecommendations: cleanStrings(raw.StrategicRecommendations),
		ActionItems:              actions,
		MarketImplications:       cleanStrings(raw.MarketImplications),
		AnalyzedAt:               analyzedAt,
	}, nil
}

func parseThreatLevel(v string) (ThreatLevel, error) {
	switch ThreatLevel(strings.ToLower(strings.TrimSpace(v))) {
	case ThreatLow:
		return ThreatLow, nil
	case ThreatMedium:
		return ThreatMedium, nil
	case ThreatHigh:
		return ThreatHigh, nil
	case ThreatCritical:
		return ThreatCritical, nil
	}
	return "", fmt.Errorf("invalid threat_level %q", v)
}

func parseOpportunityLevel(v string) (OpportunityLevel, error) {
	switch OpportunityLevel(strings.ToLower(strings.TrimSpace(v))) {
	case OpportunityLow:
		return OpportunityLow, nil
	case OpportunityMedium:
		return OpportunityMedium, nil
	case OpportunityHigh:
		return OpportunityHigh, nil
	}
	return "", fmt.Errorf("invalid opportunity_level %q", v)
}

func parseImpactLevel(v string) (ImpactLevel, error) {
	switch ImpactLevel(strings.ToLower(strings.TrimSpace(v))) {
	case ImpactMinimal:
		return ImpactMinimal, nil
	case ImpactModerate:
		return ImpactModerate, nil
	case ImpactSignificant:
		return ImpactSignificant, nil
	case ImpactMajor:
		return ImpactMajor, nil
	}
	return "", fmt.Errorf("invalid overall_impact %q", v)
}

func parsePriority(v string) Priority {
	switch Priority(strings.ToLower(strings.TrimSpace(v))) {
	case PriorityHigh:
		return PriorityHigh
	case PriorityMedium:
		return PriorityMedium
	default:
		return PriorityLow
	}
}

// extractJSON strips any prose or markdown fencing around the first JSON
// object in a model response.
func extractJSON(content string) string {
	start := strings.Index(content, "{")
	end := strings.LastIndex(content, "}")
	if start == -1 || end == -1 || end <= start {
		return ""
	}
	return content[start : end+1]
}

func cleanStrings(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			out = append(out, v)
		}
	}
	return out
}

type rawRecord struct {
	ID             string `json:"id"`
	Title          string `json:"title"`
	CompetitorName string `json:"competitor_name"`
	Source         string `json:"source"`
	Content        string `json:"content"`
	URL            string `json:"url"`
	PublishedAt    string `json:"published_at"`
	FetchedAt      string `json:"fetched_at"`
	Category       string `json:"category"`
	Sentiment      string `json:"sentiment"`
}

// decodeRecords reads a typed record list, e.g. from a static JSON file.
// Records without a title are dropped silently; unknown fields are rejected.
func decodeRecords(data []byte) ([]UpdateRecord, error) {
	decoder := json.NewDecoder(bytes.NewReader(data))
	decoder.DisallowUnknownFields()

	var raws []rawRecord
	if err := decoder.Decode(&raws); err != nil {
		return nil, fmt.Errorf("decode JSON: %w", err)
	}

	records := make([]UpdateRecord, 0, len(raws))
	for _, r := range raws {
		if strings.TrimSpace(r.Title) == "" {
			continue
		}

		fetchedAt := time.Now().UTC()
		if r.FetchedAt != "" {
			ts, err := time.Parse(time.RFC3339, r.FetchedAt)
			if err != nil {
				return nil, fmt.Errorf("parse fetched_at for %q: %w", r.Title, err)
			}
			fetchedAt = ts
		}

		id := r.ID
		if id == "" {
			id = uuid.NewString()
		}
		source := r.Source
		if strings.TrimSpace(source) == "" {
			source = UnknownSource
		}

		records = append(records, UpdateRecord{
			ID:             id,
			Title:          r.Title,
			CompetitorName: r.CompetitorName,
			Source:         source,
			Content:        r.Content,
			URL:            normalizeURL(r.URL),
			PublishedAt:    r.PublishedAt,
			FetchedAt:      fetchedAt,
			Category:       Category(r.Category),
			Sentiment:      Sentiment(r.Sentiment),
		})
	}

	return records, nil
}
