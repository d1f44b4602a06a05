package intel

import (
	"context"
	"errors"
	"log"
)

// Pipeline orchestrates the update flow for one competitor: fetch, parse,
// deduplicate, classify, assess. Every stage is a pure transformation over
// its inputs, so a Pipeline is safe to use concurrently for independent
// competitors.
type Pipeline struct {
	Sources  *SourceRegistry
	Parser   *ResponseParser
	Analyzer ImpactAnalysisStrategy
}

// NewPipeline constructs a new Pipeline.
func NewPipeline(sources *SourceRegistry, parser *ResponseParser, analyzer ImpactAnalysisStrategy) (*Pipeline, error) {
	if sources == nil {
		return nil, errors.New("pipeline requires sources")
	}
	if parser == nil {
		parser = NewResponseParser()
	}
	if analyzer == nil {
		analyzer = NewRuleEngine()
	}
	return &Pipeline{Sources: sources, Parser: parser, Analyzer: analyzer}, nil
}

// CollectUpdates runs fetch, parse, dedupe and classify for one competitor
// and returns the enriched records.
func (p *Pipeline) CollectUpdates(ctx context.Context, competitor string) ([]UpdateRecord, error) {
	results, err := p.Sources.FetchAll(ctx, competitor)
	if err != nil {
		return nil, err
	}

	var records []UpdateRecord
	for _, result := range results {
		records = append(records, result.Records...)
		if result.Text != "" {
			records = append(records, p.Parser.Parse(result.Text, competitor)...)
		}
	}

	before := len(records)
	records = Deduplicate(records)
	records = Classify(records)
	log.Printf("pipeline: %s: %d records (%d before dedup)", competitor, len(records), before)

	return records, nil
}

// Assess produces the impact assessment for a competitor's record batch.
func (p *Pipeline) Assess(ctx context.Context, competitor string, records []UpdateRecord, businessContext string) (ImpactAssessment, error) {
	return p.Analyzer.Assess(ctx, competitor, records, businessContext)
}

// Run executes the full flow for one competitor: collect updates, then
// assess them.
func (p *Pipeline) Run(ctx context.Context, competitor, businessContext string) ([]UpdateRecord, ImpactAssessment, error) {
	records, err := p.CollectUpdates(ctx, competitor)
	if err != nil {
		return nil, ImpactAssessment{}, err
	}

	assessment, err := p.Assess(ctx, competitor, records, businessContext)
	if err != nil {
		return nil, ImpactAssessment{}, err
	}

	return records, assessment, nil
}
