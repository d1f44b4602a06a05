package intel

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// FetchResult is what an upstream provider ultimately returns for one
// competitor: either a unified free-text blob for the parser, or an
// already-typed record list, or both.
type FetchResult struct {
	Text    string
	Records []UpdateRecord
}

// Source is a pluggable upstream provider of competitor updates.
type Source interface {
	Name() string
	Fetch(ctx context.Context, competitor string) (FetchResult, error)
}

// SourceRegistry keeps track of available sources.
type SourceRegistry struct {
	sources []Source
}

// NewSourceRegistry builds a registry with the provided sources.
func NewSourceRegistry(sources ...Source) (*SourceRegistry, error) {
	if len(sources) == 0 {
		return nil, errors.New("intel: at least one source is required")
	}
	return &SourceRegistry{sources: sources}, nil
}

// Add registers a new source instance.
func (r *SourceRegistry) Add(source Source) {
	r.sources = append(r.sources, source)
}

// FetchAll collects results from every registered source for one competitor.
func (r *SourceRegistry) FetchAll(ctx context.Context, competitor string) ([]FetchResult, error) {
	results := make([]FetchResult, 0, len(r.sources))
	for _, src := range r.sources {
		result, err := src.Fetch(ctx, competitor)
		if err != nil {
			return nil, fmt.Errorf("fetch from %s: %w", src.Name(), err)
		}
		results = append(results, result)
	}
	return results, nil
}

// StaticFileSource serves typed records from a JSON file. Useful for demos
// and offline runs.
type StaticFileSource struct {
	name string
	path string
}

// NewStaticFileSource returns a source referencing the given file.
func NewStaticFileSource(name, path string) (*StaticFileSource, error) {
	if name == "" {
		return nil, errors.New("static source requires a name")
	}
	if path == "" {
		return nil, errors.New("static source requires a path")
	}
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("static source: %w", err)
	}
	return &StaticFileSource{name: name, path: path}, nil
}

// Name returns the source name.
func (s *StaticFileSource) Name() string { return s.name }

// Fetch reads the JSON file and returns records for the competitor.
func (s *StaticFileSource) Fetch(ctx context.Context, competitor string) (FetchResult, error) {
	select {
	case <-ctx.Done():
		return FetchResult{}, ctx.Err()
	default:
	}

	raw, err := os.ReadFile(s.path)
	if err != nil {
		return FetchResult{}, fmt.Errorf("read static file %s: %w", s.path, err)
	}

	records, err := decodeRecords(raw)
	if err != nil {
		return FetchResult{}, fmt.Errorf("decode static file %s: %w", s.path, err)
	}

	var matched []UpdateRecord
	for _, record := range records {
		if strings.EqualFold(record.CompetitorName, competitor) {
			matched = append(matched, record)
		}
	}

	return FetchResult{Records: matched}, nil
}

// IngestSource stores ad-hoc records submitted via the API.
type IngestSource struct {
	name    string
	mu      sync.RWMutex
	records []UpdateRecord
}

// NewIngestSource constructs an empty ingest source.
func NewIngestSource(name string) *IngestSource {
	if name == "" {
		name = "ingest"
	}
	return &IngestSource{name: name}
}

// Name returns the source identifier.
func (s *IngestSource) Name() string { return s.name }

// Add registers a record, generating defaults when missing.
func (s *IngestSource) Add(record UpdateRecord) UpdateRecord {
	s.mu.Lock()
	defer s.mu.Unlock()

	if record.ID == "" {
		record.ID = uuid.NewString()
	}
	if record.FetchedAt.IsZero() {
		record.FetchedAt = time.Now().UTC()
	}
	if strings.TrimSpace(record.Source) == "" {
		record.Source = UnknownSource
	}

	// Replace existing record with same ID if found.
	for idx := range s.records {
		if s.records[idx].ID == record.ID {
			s.records[idx] = record
			return s.records[idx]
		}
	}

	s.records = append(s.records, record)
	return record
}

// Fetch returns the stored records for one competitor, oldest first.
func (s *IngestSource) Fetch(ctx context.Context, competitor string) (FetchResult, error) {
	select {
	case <-ctx.Done():
		return FetchResult{}, ctx.Err()
	default:
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []UpdateRecord
	for _, record := range s.records {
		if strings.EqualFold(record.CompetitorName, competitor) {
			out = append(out, record)
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].FetchedAt.Before(out[j].FetchedAt)
	})

	return FetchResult{Records: out}, nil
}

// PruneOlderThan drops records fetched before the provided timestamp and
// returns the number of removed entries.
func (s *IngestSource) PruneOlderThan(ts time.Time) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.records) == 0 {
		return 0
	}

	filtered := s.records[:0]
	removed := 0
	for _, record := range s.records {
		if record.FetchedAt.Before(ts) {
			removed++
			continue
		}
		filtered = append(filtered, record)
	}
	s.records = filtered
	return removed
}
