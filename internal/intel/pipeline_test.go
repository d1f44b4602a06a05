package intel

import (
	"context"
	"errors"
	"testing"
	"time"
)

type textSource struct {
	name string
	text string
	err  error
}

func (s *textSource) Name() string { return s.name }

func (s *textSource) Fetch(ctx context.Context, competitor string) (FetchResult, error) {
	if s.err != nil {
		return FetchResult{}, s.err
	}
	return FetchResult{Text: s.text}, nil
}

func TestPipelineCollectUpdates(t *testing.T) {
	ingest := NewIngestSource("ingest")
	ingest.Add(UpdateRecord{
		Title:          "Acme launches new API gateway",
		CompetitorName: "Acme",
		FetchedAt:      time.Now().UTC(),
	})

	text := &textSource{name: "search", text: `- Acme launches new API gateway
- Acme raises Series C funding`}

	registry, err := NewSourceRegistry(ingest, text)
	if err != nil {
		t.Fatalf("NewSourceRegistry: %v", err)
	}

	pipeline, err := NewPipeline(registry, NewResponseParser(), NewRuleEngine())
	if err != nil {
		t.Fatalf("NewPipeline: %v", err)
	}

	records, err := pipeline.CollectUpdates(context.Background(), "Acme")
	if err != nil {
		t.Fatalf("CollectUpdates: %v", err)
	}

	// The parsed duplicate of the ingested headline collapses away.
	if len(records) != 2 {
		t.Fatalf("expected 2 records after dedup, got %d", len(records))
	}
	for _, record := range records {
		if record.Category == "" || record.Sentiment == "" {
			t.Errorf("record %q not classified", record.Title)
		}
	}
	if records[0].Category != CategoryProduct {
		t.Errorf("unexpected category: %s", records[0].Category)
	}
	if records[1].Category != CategoryFunding {
		t.Errorf("unexpected category: %s", records[1].Category)
	}
}

func TestPipelineRun(t *testing.T) {
	ingest := NewIngestSource("ingest")
	ingest.Add(UpdateRecord{Title: "Acme acquires DataCo", CompetitorName: "Acme"})

	registry, _ := NewSourceRegistry(ingest)
	pipeline, _ := NewPipeline(registry, nil, nil)

	records, assessment, err := pipeline.Run(context.Background(), "Acme", "")
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("expected 1 record, got %d", len(records))
	}
	if assessment.ThreatLevel != ThreatHigh {
		t.Errorf("acquisition should drive high threat, got %s", assessment.ThreatLevel)
	}
}

func TestPipelineSourceFailure(t *testing.T) {
	registry, _ := NewSourceRegistry(&textSource{name: "broken", err: errors.New("upstream down")})
	pipeline, _ := NewPipeline(registry, nil, nil)

	if _, err := pipeline.CollectUpdates(context.Background(), "Acme"); err == nil {
		t.Fatalf("expected error from failing source")
	}
}

func TestNewPipelineRequiresSources(t *testing.T) {
	if _, err := NewPipeline(nil, nil, nil); err == nil {
		t.Fatalf("expected error for nil sources")
	}
}
