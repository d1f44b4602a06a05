package intel

import (
	"strings"
	"testing"
)

func TestParseDelimitedSegments(t *testing.T) {
	raw := `TITLE: Acme launches new API gateway
SOURCE: TechCrunch
DATE: 2025-06-12
URL: https://techcrunch.com/acme-gateway
SUMMARY: Acme released a managed API gateway
aimed at enterprise customers.
---
TITLE: Acme raises Series C
SOURCE: Reuters
URL: n/a
SUMMARY: $200M round led by existing investors.`

	records := NewResponseParser().Parse(raw, "Acme")
	if len(records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(records))
	}

	first := records[0]
	if first.Title != "Acme launches new API gateway" {
		t.Errorf("unexpected title: %q", first.Title)
	}
	if first.Source != "TechCrunch" {
		t.Errorf("unexpected source: %q", first.Source)
	}
	if first.PublishedAt != "2025-06-12" {
		t.Errorf("unexpected date: %q", first.PublishedAt)
	}
	if first.URL != "https://techcrunch.com/acme-gateway" {
		t.Errorf("unexpected url: %q", first.URL)
	}
	if !strings.Contains(first.Content, "aimed at enterprise customers") {
		t.Errorf("continuation line not joined into summary: %q", first.Content)
	}
	if first.CompetitorName != "Acme" {
		t.Errorf("unexpected competitor: %q", first.CompetitorName)
	}
	if first.ID == "" || first.FetchedAt.IsZero() {
		t.Errorf("record missing identity stamps: id=%q fetched=%v", first.ID, first.FetchedAt)
	}

	second := records[1]
	if second.URL != "" {
		t.Errorf("placeholder url should be dropped, got %q", second.URL)
	}
	if second.Source != "Reuters" {
		t.Errorf("unexpected source: %q", second.Source)
	}
}

func TestParseDelimitedBareFirstLineBecomesTitle(t *testing.T) {
	raw := `Acme opens Berlin office
Expansion into the EU market.
SOURCE: Handelsblatt`

	records := NewResponseParser().Parse(raw, "Acme")
	if len(records) != 1 {
		t.Fatalf("expected 1 record, got %d", len(records))
	}
	if records[0].Title != "Acme opens Berlin office" {
		t.Errorf("unexpected title: %q", records[0].Title)
	}
	if records[0].Content != "Expansion into the EU market." {
		t.Errorf("stray line should fold into summary, got %q", records[0].Content)
	}
}

func TestParseListMarkers(t *testing.T) {
	raw := `- Acme ships mobile app redesign
Rolled out to all users this week.
https://example.com/acme-redesign
* Acme hires new CMO
1. Acme partners with CloudCo`

	records := NewResponseParser().Parse(raw, "Acme")
	if len(records) != 3 {
		t.Fatalf("expected 3 records, got %d", len(records))
	}

	if records[0].Title != "Acme ships mobile app redesign" {
		t.Errorf("unexpected title: %q", records[0].Title)
	}
	if records[0].URL != "https://example.com/acme-redesign" {
		t.Errorf("bare url line should populate url, got %q", records[0].URL)
	}
	if records[0].Content != "Rolled out to all users this week." {
		t.Errorf("unexpected content: %q", records[0].Content)
	}
	if records[1].Title != "Acme hires new CMO" {
		t.Errorf("unexpected title: %q", records[1].Title)
	}
	if records[2].Title != "Acme partners with CloudCo" {
		t.Errorf("ordinal marker not stripped: %q", records[2].Title)
	}
}

func TestParseListMarkersWithInlineDashes(t *testing.T) {
	// A "---" inside a line is prose, not a segment separator; the bullet
	// strategy must still win.
	raw := `- Acme ships v2 --- their biggest release yet
- Acme hires new CMO`

	records := NewResponseParser().Parse(raw, "Acme")
	if len(records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(records))
	}
	if records[0].Title != "Acme ships v2 --- their biggest release yet" {
		t.Errorf("unexpected title: %q", records[0].Title)
	}
	if records[1].Title != "Acme hires new CMO" {
		t.Errorf("unexpected title: %q", records[1].Title)
	}
}

func TestParseSingleBlobFallback(t *testing.T) {
	raw := "Acme has been quiet this quarter with no major announcements."

	records := NewResponseParser().Parse(raw, "Acme")
	if len(records) != 1 {
		t.Fatalf("expected 1 record, got %d", len(records))
	}
	if records[0].Title != "Competitive update: Acme" {
		t.Errorf("unexpected synthetic title: %q", records[0].Title)
	}
	if records[0].Content != raw {
		t.Errorf("unexpected content: %q", records[0].Content)
	}
	if records[0].Source != UnknownSource {
		t.Errorf("unexpected source: %q", records[0].Source)
	}
}

func TestParseEmptyInput(t *testing.T) {
	parser := NewResponseParser()
	for _, raw := range []string{"", "   ", "\n\t\n"} {
		if records := parser.Parse(raw, "Acme"); len(records) != 0 {
			t.Errorf("blank input %q should yield no records, got %d", raw, len(records))
		}
	}
}

func TestNormalizeURL(t *testing.T) {
	cases := map[string]string{
		"https://example.com/a": "https://example.com/a",
		"http://example.com/b":  "http://example.com/b",
		" https://x.dev ":       "https://x.dev",
		"example.com/no-scheme": "",
		"N/A":                   "",
		"none":                  "",
		"Not Available":         "",
		"":                      "",
	}
	for in, want := range cases {
		if got := normalizeURL(in); got != want {
			t.Errorf("normalizeURL(%q) = %q, want %q", in, got, want)
		}
	}
}
