package intel

import "testing"

func TestCategorize(t *testing.T) {
	cases := []struct {
		title   string
		content string
		want    Category
	}{
		{"Acme launches new API gateway", "", CategoryProduct},
		{"Acme raises Series C", "$200M round", CategoryFunding},
		{"Acme acquires DataCo", "", CategoryAcquisition},
		{"Acme announces alliance with CloudCo", "", CategoryPartnership},
		{"Acme appoints new CEO", "", CategoryLeadership},
		{"Acme opens Berlin office", "", CategoryGeneral},
	}

	for _, tc := range cases {
		if got := Categorize(tc.title, tc.content); got != tc.want {
			t.Errorf("Categorize(%q) = %s, want %s", tc.title, got, tc.want)
		}
	}
}

func TestCategorizePrecedence(t *testing.T) {
	// Product keywords outrank acquisition keywords when both appear.
	got := Categorize("Acme acquires startup to expand product suite", "")
	if got != CategoryProduct {
		t.Errorf("expected product to win precedence, got %s", got)
	}
}

func TestScoreSentiment(t *testing.T) {
	cases := []struct {
		text string
		want Sentiment
	}{
		{"Strong growth and excellent quarterly results", SentimentPositive},
		{"Lawsuit filed amid revenue decline", SentimentNegative},
		{"Company relocates headquarters", SentimentNeutral},
		{"", SentimentNeutral},
	}

	for _, tc := range cases {
		if got := ScoreSentiment(tc.text); got != tc.want {
			t.Errorf("ScoreSentiment(%q) = %s, want %s", tc.text, got, tc.want)
		}
	}
}

func TestClassifyEnrichesInPlace(t *testing.T) {
	records := []UpdateRecord{
		{Title: "Acme launches feature", Content: "strong gains"},
		{Title: "Preset", Category: CategoryFunding, Sentiment: SentimentNegative},
	}

	out := Classify(records)

	if out[0].Category != CategoryProduct {
		t.Errorf("unexpected category: %s", out[0].Category)
	}
	if out[0].Sentiment != SentimentPositive {
		t.Errorf("unexpected sentiment: %s", out[0].Sentiment)
	}
	if out[1].Category != CategoryFunding || out[1].Sentiment != SentimentNegative {
		t.Errorf("preset classification must not change: %s/%s", out[1].Category, out[1].Sentiment)
	}
}
