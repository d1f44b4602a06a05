package fetch

import (
	"context"
	"errors"
	"strings"
	"testing"

	"rivalradar/internal/llm"
)

type fakeChatClient struct {
	response string
	err      error
	lastReq  llm.ChatCompletionRequest
	requests []llm.ChatCompletionRequest
}

func (f *fakeChatClient) ChatCompletion(ctx context.Context, req llm.ChatCompletionRequest) (*llm.ChatCompletionResponse, error) {
	f.lastReq = req
	f.requests = append(f.requests, req)
	if f.err != nil {
		return nil, f.err
	}
	choice := llm.Choice{}
	choice.Message.Content = f.response
	return &llm.ChatCompletionResponse{Choices: []llm.Choice{choice}}, nil
}

func TestPerplexityFetchBuildsQuery(t *testing.T) {
	fake := &fakeChatClient{response: "TITLE: Acme ships gateway"}

	source := NewPerplexitySource(fake, "")
	source.DaysBack = 14
	source.TargetedSearches = false
	source.Keywords = func(string) []string { return []string{"api gateway", "pricing"} }

	result, err := source.Fetch(context.Background(), "Acme")
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if result.Text != "TITLE: Acme ships gateway" {
		t.Errorf("unexpected text: %q", result.Text)
	}
	if len(fake.requests) != 1 {
		t.Fatalf("expected a single search, got %d", len(fake.requests))
	}

	if fake.lastReq.Model != "llama-3.1-sonar-large-128k-online" {
		t.Errorf("unexpected default model: %s", fake.lastReq.Model)
	}
	if fake.lastReq.SearchRecencyFilter != "month" {
		t.Errorf("unexpected recency filter: %s", fake.lastReq.SearchRecencyFilter)
	}

	query := fake.lastReq.Messages[1].Content
	if !strings.Contains(query, "Acme") || !strings.Contains(query, "last 14 days") {
		t.Errorf("query missing competitor or window:\n%s", query)
	}
	if !strings.Contains(query, "api gateway, pricing") {
		t.Errorf("query missing keywords:\n%s", query)
	}
	if !strings.Contains(query, "social media") {
		t.Errorf("query should include social sources by default:\n%s", query)
	}
}

func TestPerplexityFetchRunsTargetedSearches(t *testing.T) {
	fake := &fakeChatClient{response: "TITLE: Acme update"}
	source := NewPerplexitySource(fake, "sonar-pro")

	result, err := source.Fetch(context.Background(), "Acme")
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}

	if len(fake.requests) != 3 {
		t.Fatalf("expected news plus two targeted searches, got %d", len(fake.requests))
	}
	if !strings.Contains(fake.requests[1].Messages[1].Content, "product launches") {
		t.Errorf("second search should target product updates:\n%s", fake.requests[1].Messages[1].Content)
	}
	if !strings.Contains(fake.requests[2].Messages[1].Content, "Funding announcements") {
		t.Errorf("third search should target company changes:\n%s", fake.requests[2].Messages[1].Content)
	}
	if strings.Count(result.Text, "TITLE: Acme update") != 3 {
		t.Errorf("texts from all searches should be combined:\n%s", result.Text)
	}
}

func TestPerplexityFetchUsesSearchContext(t *testing.T) {
	fake := &fakeChatClient{response: "ok"}
	source := NewPerplexitySource(fake, "sonar-pro")
	source.TargetedSearches = false
	source.Context = func(competitor string) string {
		return competitor + " (ai company) builds machine learning tools"
	}

	if _, err := source.Fetch(context.Background(), "Acme"); err != nil {
		t.Fatalf("Fetch: %v", err)
	}

	query := fake.lastReq.Messages[1].Content
	if !strings.Contains(query, "Acme (ai company) builds machine learning tools") {
		t.Errorf("query missing profile context:\n%s", query)
	}
}

func TestPerplexityFetchExcludesSocial(t *testing.T) {
	fake := &fakeChatClient{response: "ok"}
	source := NewPerplexitySource(fake, "sonar-pro")
	source.TargetedSearches = false
	source.IncludeSocial = false

	if _, err := source.Fetch(context.Background(), "Acme"); err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if strings.Contains(fake.lastReq.Messages[1].Content, "social media") {
		t.Errorf("query should not mention social sources")
	}
}

func TestPerplexityFetchErrors(t *testing.T) {
	source := NewPerplexitySource(&fakeChatClient{err: errors.New("rate limited")}, "sonar-pro")
	if _, err := source.Fetch(context.Background(), "Acme"); err == nil {
		t.Fatalf("expected provider error to surface")
	}

	source = NewPerplexitySource(nil, "sonar-pro")
	if _, err := source.Fetch(context.Background(), "Acme"); err == nil {
		t.Fatalf("expected error for missing client")
	}
}

func TestPerplexityTargetedSearches(t *testing.T) {
	fake := &fakeChatClient{response: "ok"}
	source := NewPerplexitySource(fake, "sonar-pro")

	if _, err := source.FetchProductUpdates(context.Background(), "Acme"); err != nil {
		t.Fatalf("FetchProductUpdates: %v", err)
	}
	if !strings.Contains(fake.lastReq.Messages[1].Content, "product launches") {
		t.Errorf("product query missing focus:\n%s", fake.lastReq.Messages[1].Content)
	}

	if _, err := source.FetchCompanyChanges(context.Background(), "Acme"); err != nil {
		t.Fatalf("FetchCompanyChanges: %v", err)
	}
	if !strings.Contains(fake.lastReq.Messages[1].Content, "Funding announcements") {
		t.Errorf("company query missing focus:\n%s", fake.lastReq.Messages[1].Content)
	}
}
