package intel

import "strings"

// Deduplicate collapses records describing the same event. Two records are
// duplicates when their normalized titles match or when both carry the same
// non-empty URL. The first-seen record of each group survives unchanged; no
// field merging happens across duplicates, which keeps provenance unambiguous.
// The operation is stable, order-preserving and idempotent.
func Deduplicate(records []UpdateRecord) []UpdateRecord {
	if len(records) <= 1 {
		return records
	}

	seenTitles := make(map[string]struct{}, len(records))
	seenURLs := make(map[string]struct{}, len(records))

	out := make([]UpdateRecord, 0, len(records))
	for _, record := range records {
		title := normalizeTitle(record.Title)
		url := strings.TrimSpace(record.URL)

		if _, ok := seenTitles[title]; ok && title != "" {
			continue
		}
		if _, ok := seenURLs[url]; ok && url != "" {
			continue
		}

		if title != "" {
			seenTitles[title] = struct{}{}
		}
		if url != "" {
			seenURLs[url] = struct{}{}
		}
		out = append(out, record)
	}
	return out
}

// normalizeTitle case-folds, collapses inner whitespace and strips trailing
// punctuation so cosmetic variants of the same headline compare equal.
func normalizeTitle(title string) string {
	title = strings.ToLower(strings.TrimSpace(title))
	title = strings.Join(strings.Fields(title), " ")
	return strings.TrimRight(title, ".,;:!?…")
}
