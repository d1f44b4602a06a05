package store

import (
	"testing"
	"time"

	"rivalradar/internal/intel"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(":memory:")
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestCompetitorRoundTrip(t *testing.T) {
	s := newTestStore(t)

	id, err := s.AddCompetitor(Competitor{
		Name:            "Acme",
		Website:         "https://acme.dev",
		Industry:        "software",
		Keywords:        []string{"gateway", "api"},
		BusinessContext: "We sell API tooling",
	})
	if err != nil {
		t.Fatalf("AddCompetitor: %v", err)
	}
	if id == 0 {
		t.Errorf("expected non-zero id")
	}

	c, err := s.CompetitorByName("acme")
	if err != nil {
		t.Fatalf("CompetitorByName: %v", err)
	}
	if c.Name != "Acme" {
		t.Errorf("unexpected name: %q", c.Name)
	}
	if len(c.Keywords) != 2 || c.Keywords[0] != "gateway" {
		t.Errorf("unexpected keywords: %v", c.Keywords)
	}
	if c.BusinessContext != "We sell API tooling" {
		t.Errorf("unexpected business context: %q", c.BusinessContext)
	}

	if _, err := s.AddCompetitor(Competitor{Name: "Acme"}); err == nil {
		t.Errorf("duplicate competitor name must fail")
	}
}

func TestSaveRecordsIgnoresDuplicates(t *testing.T) {
	s := newTestStore(t)
	now := time.Now().UTC()

	records := []intel.UpdateRecord{
		{ID: "r1", CompetitorName: "Acme", Title: "Gateway launch", URL: "https://example.com/a", FetchedAt: now},
		{ID: "r2", CompetitorName: "Acme", Title: "Series C", FetchedAt: now},
	}

	inserted, err := s.SaveRecords(records)
	if err != nil {
		t.Fatalf("SaveRecords: %v", err)
	}
	if inserted != 2 {
		t.Fatalf("expected 2 inserted, got %d", inserted)
	}

	// Same id and same url are both silently skipped.
	again := []intel.UpdateRecord{
		{ID: "r1", CompetitorName: "Acme", Title: "Gateway launch", FetchedAt: now},
		{ID: "r3", CompetitorName: "Acme", Title: "Gateway launch again", URL: "https://example.com/a", FetchedAt: now},
		{ID: "r4", CompetitorName: "Acme", Title: "Genuinely new", FetchedAt: now},
	}
	inserted, err = s.SaveRecords(again)
	if err != nil {
		t.Fatalf("SaveRecords: %v", err)
	}
	if inserted != 1 {
		t.Errorf("expected 1 inserted, got %d", inserted)
	}
}

func TestRecentRecordsWindow(t *testing.T) {
	s := newTestStore(t)
	now := time.Now().UTC()

	records := []intel.UpdateRecord{
		{ID: "old", CompetitorName: "Acme", Title: "Old news", FetchedAt: now.Add(-72 * time.Hour), Category: intel.CategoryGeneral, Sentiment: intel.SentimentNeutral},
		{ID: "new", CompetitorName: "Acme", Title: "Fresh news", FetchedAt: now, Category: intel.CategoryProduct, Sentiment: intel.SentimentPositive},
		{ID: "other", CompetitorName: "Globex", Title: "Unrelated", FetchedAt: now},
	}
	if _, err := s.SaveRecords(records); err != nil {
		t.Fatalf("SaveRecords: %v", err)
	}

	recent, err := s.RecentRecords("acme", now.Add(-24*time.Hour))
	if err != nil {
		t.Fatalf("RecentRecords: %v", err)
	}
	if len(recent) != 1 {
		t.Fatalf("expected 1 recent record, got %d", len(recent))
	}
	if recent[0].ID != "new" {
		t.Errorf("unexpected record: %s", recent[0].ID)
	}
	if recent[0].Category != intel.CategoryProduct || recent[0].Sentiment != intel.SentimentPositive {
		t.Errorf("classification not round-tripped: %s/%s", recent[0].Category, recent[0].Sentiment)
	}
	if recent[0].URL != "" {
		t.Errorf("null url should scan as empty, got %q", recent[0].URL)
	}

	all, err := s.AllRecords(now.Add(-24 * time.Hour))
	if err != nil {
		t.Fatalf("AllRecords: %v", err)
	}
	if len(all) != 2 {
		t.Errorf("expected 2 records across competitors, got %d", len(all))
	}
}

func TestDeleteCompetitorCascades(t *testing.T) {
	s := newTestStore(t)
	now := time.Now().UTC()

	if _, err := s.AddCompetitor(Competitor{Name: "Acme"}); err != nil {
		t.Fatalf("AddCompetitor: %v", err)
	}
	if _, err := s.SaveRecords([]intel.UpdateRecord{
		{ID: "r1", CompetitorName: "Acme", Title: "Gateway launch", FetchedAt: now},
	}); err != nil {
		t.Fatalf("SaveRecords: %v", err)
	}

	if err := s.DeleteCompetitor("Acme"); err != nil {
		t.Fatalf("DeleteCompetitor: %v", err)
	}

	stats, err := s.GetStats()
	if err != nil {
		t.Fatalf("GetStats: %v", err)
	}
	if stats.Competitors != 0 || stats.Records != 0 {
		t.Errorf("expected empty store after delete, got %+v", stats)
	}
}
