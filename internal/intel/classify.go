package intel

import "strings"

// categoryRule pairs a category with the keywords that select it. Rules are
// checked in order and the first match wins, so a funding headline that also
// mentions a product resolves to product.
type categoryRule struct {
	category Category
	keywords []string
}

var categoryRules = []categoryRule{
	{CategoryProduct, []string{"product", "feature", "launch", "release", "update"}},
	{CategoryFunding, []string{"funding", "investment", "raise", "series"}},
	{CategoryAcquisition, []string{"acquisition", "acquire", "merger", "buy"}},
	{CategoryPartnership, []string{"partnership", "partner", "collaborate", "alliance"}},
	{CategoryLeadership, []string{"ceo", "executive", "leadership", "appoints"}},
}

var positiveWords = []string{
	"success", "growth", "profit", "win", "achievement", "innovative",
	"breakthrough", "leading", "best", "excellent", "strong", "gains",
}

var negativeWords = []string{
	"loss", "decline", "problem", "issue", "concern", "struggle",
	"fail", "weak", "crisis", "lawsuit", "drop", "falls",
}

// Categorize assigns a category from fixed keyword vocabularies. It is pure
// and total, which lets it serve as the always-available fallback beneath any
// generative classifier.
func Categorize(title, content string) Category {
	text := strings.ToLower(title + " " + content)
	for _, rule := range categoryRules {
		for _, keyword := range rule.keywords {
			if strings.Contains(text, keyword) {
				return rule.category
			}
		}
	}
	return CategoryGeneral
}

// ScoreSentiment counts fixed positive and negative vocabularies in the
// case-folded text. Ties resolve to neutral.
func ScoreSentiment(text string) Sentiment {
	text = strings.ToLower(text)

	var positive, negative int
	for _, word := range positiveWords {
		if strings.Contains(text, word) {
			positive++
		}
	}
	for _, word := range negativeWords {
		if strings.Contains(text, word) {
			negative++
		}
	}

	switch {
	case positive > negative:
		return SentimentPositive
	case negative > positive:
		return SentimentNegative
	default:
		return SentimentNeutral
	}
}

// Classify enriches records in place with category and sentiment, leaving
// already-classified records untouched.
func Classify(records []UpdateRecord) []UpdateRecord {
	for i := range records {
		if records[i].Category == "" {
			records[i].Category = Categorize(records[i].Title, records[i].Content)
		}
		if records[i].Sentiment == "" {
			records[i].Sentiment = ScoreSentiment(records[i].Title + " " + records[i].Content)
		}
	}
	return records
}
