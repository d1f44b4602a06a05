package intel

import (
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
)

// ResponseParser converts one free-text provider response into structured
// records. The upstream format carries no schema guarantee, so parsing is an
// ordered list of strategies tried until one yields at least one record.
type ResponseParser struct {
	now func() time.Time
}

// NewResponseParser constructs a parser using the wall clock for fetch stamps.
func NewResponseParser() *ResponseParser {
	return &ResponseParser{now: time.Now}
}

type parseStrategy func(p *ResponseParser, raw, competitor string) []UpdateRecord

var parseStrategies = []parseStrategy{
	(*ResponseParser).parseDelimited,
	(*ResponseParser).parseListMarkers,
	(*ResponseParser).parseSingleBlob,
}

// Parse extracts records from a raw provider response. It never fails: for
// any non-empty input the blob fallback guarantees at least one record, and
// empty or whitespace-only input yields none.
func (p *ResponseParser) Parse(raw, competitor string) []UpdateRecord {
	if strings.TrimSpace(raw) == "" {
		return nil
	}

	for _, strategy := range parseStrategies {
		if records := strategy(p, raw, competitor); len(records) > 0 {
			return records
		}
	}
	return nil
}

var segmentSeparator = regexp.MustCompile(`(?m)^-{3,}\s*$`)

var fieldPrefixes = []string{"TITLE:", "SOURCE:", "DATE:", "URL:", "SUMMARY:"}

// parseDelimited handles responses formatted as field-prefixed segments
// separated by runs of three or more hyphens on their own line.
func (p *ResponseParser) parseDelimited(raw, competitor string) []UpdateRecord {
	if !segmentSeparator.MatchString(raw) && !containsFieldPrefix(raw) {
		return nil
	}

	var records []UpdateRecord
	for _, segment := range segmentSeparator.Split(raw, -1) {
		if record, ok := p.parseSegment(segment, competitor); ok {
			records = append(records, record)
		}
	}
	return records
}

func (p *ResponseParser) parseSegment(segment, competitor string) (UpdateRecord, bool) {
	fields := map[string]string{}
	openField := ""
	sawAnyLine := false

	for _, line := range strings.Split(segment, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		matched := false
		for _, prefix := range fieldPrefixes {
			if strings.HasPrefix(line, prefix) {
				fields[prefix] = strings.TrimSpace(strings.TrimPrefix(line, prefix))
				openField = prefix
				matched = true
				break
			}
		}
		if matched {
			sawAnyLine = true
			continue
		}

		// Continuation text joins whichever field is open. A bare first line
		// acts as the title, later stray lines fold into the summary.
		switch {
		case openField != "":
			fields[openField] = appendLine(fields[openField], line)
		case !sawAnyLine:
			fields["TITLE:"] = line
		default:
			fields["SUMMARY:"] = appendLine(fields["SUMMARY:"], line)
			openField = "SUMMARY:"
		}
		sawAnyLine = true
	}

	if strings.TrimSpace(fields["TITLE:"]) == "" {
		return UpdateRecord{}, false
	}

	record := p.newRecord(competitor)
	record.Title = strings.TrimSpace(fields["TITLE:"])
	if source := strings.TrimSpace(fields["SOURCE:"]); source != "" {
		record.Source = source
	}
	record.PublishedAt = strings.TrimSpace(fields["DATE:"])
	record.URL = normalizeURL(fields["URL:"])
	record.Content = strings.TrimSpace(fields["SUMMARY:"])
	return record, true
}

var ordinalPrefix = regexp.MustCompile(`^\d+\.\s+`)

// parseListMarkers handles bullet- or ordinal-formatted responses where each
// marker line starts a record and plain lines accumulate into its content.
func (p *ResponseParser) parseListMarkers(raw, competitor string) []UpdateRecord {
	var records []UpdateRecord
	var current *UpdateRecord

	flush := func() {
		if current != nil && strings.TrimSpace(current.Title) != "" {
			records = append(records, *current)
		}
		current = nil
	}

	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		if title, ok := stripListMarker(line); ok {
			flush()
			record := p.newRecord(competitor)
			record.Title = title
			current = &record
			continue
		}

		if current == nil {
			continue
		}
		if url := normalizeURL(line); url != "" && isBareURL(line) {
			current.URL = url
			continue
		}
		current.Content = appendLine(current.Content, line)
	}
	flush()

	return records
}

// parseSingleBlob wraps the whole response into one synthetic record. It is
// the terminal strategy and always succeeds for non-blank input.
func (p *ResponseParser) parseSingleBlob(raw, competitor string) []UpdateRecord {
	record := p.newRecord(competitor)
	record.Title = "Competitive update: " + competitor
	record.Content = strings.TrimSpace(raw)
	return []UpdateRecord{record}
}

func (p *ResponseParser) newRecord(competitor string) UpdateRecord {
	return UpdateRecord{
		ID:             uuid.NewString(),
		CompetitorName: competitor,
		Source:         UnknownSource,
		FetchedAt:      p.now().UTC(),
	}
}

func stripListMarker(line string) (string, bool) {
	for _, glyph := range []string{"- ", "* ", "• "} {
		if strings.HasPrefix(line, glyph) {
			return strings.TrimSpace(line[len(glyph):]), true
		}
	}
	if loc := ordinalPrefix.FindString(line); loc != "" {
		return strings.TrimSpace(line[len(loc):]), true
	}
	return "", false
}

func containsFieldPrefix(raw string) bool {
	for _, prefix := range fieldPrefixes {
		if strings.Contains(raw, prefix) {
			return true
		}
	}
	return false
}

func appendLine(existing, line string) string {
	if existing == "" {
		return line
	}
	return existing + " " + line
}

func isBareURL(line string) bool {
	return !strings.ContainsAny(line, " \t")
}

var urlPlaceholders = map[string]struct{}{
	"n/a": {}, "na": {}, "none": {}, "not available": {}, "unknown": {},
}

// normalizeURL accepts only scheme-prefixed URLs and maps placeholder tokens
// such as "n/a" to absent.
func normalizeURL(value string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return ""
	}
	if _, ok := urlPlaceholders[strings.ToLower(value)]; ok {
		return ""
	}
	if strings.HasPrefix(value, "http://") || strings.HasPrefix(value, "https://") {
		return value
	}
	return ""
}
