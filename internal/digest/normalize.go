// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package digest turns raw feed entries into a ranked, size-bounded list of
// papers for one UTC publication date. Stages run in order: Normalize,
// Dedupe, FilterByDate, Scorer.Score, Rank. Each stage returns new values and
// leaves its input untouched.
package digest

import (
	"strconv"
	"strings"
	"time"

	"github.com/araddon/dateparse"
	"golang.org/x/text/unicode/norm"

	"github.com/pdiddy/paper-digest/pkg/types"
)

const (
	// SummaryShortLimit is the number of characters kept in SummaryShort.
	SummaryShortLimit = 300

	// Ellipsis marks a cut SummaryShort.
	Ellipsis = "..."
)

// Normalize converts one feed entry into a PaperRecord. It reports false,
// dropping the entry, when no published timestamp can be parsed.
func Normalize(e types.FeedEntry) (types.PaperRecord, bool) {
	published, ok := publishedAt(e)
	if !ok {
		return types.PaperRecord{}, false
	}

	r := types.PaperRecord{
		ArxivID:     extractArxivID(e.ID),
		Title:       collapseSpace(e.Title),
		Summary:     collapseSpace(e.Summary),
		Link:        strings.TrimSpace(e.Link),
		PublishDate: TruncateDate(published),
		Comment:     types.NoComment,
	}
	r.SummaryShort = shorten(r.Summary, SummaryShortLimit)

	for _, a := range e.Authors {
		if name := collapseSpace(a); name != "" {
			r.Authors = append(r.Authors, name)
		}
	}
	if len(r.Authors) > 0 {
		r.FirstAuthor = r.Authors[0]
	}

	if e.Comment != nil {
		if c := collapseSpace(*e.Comment); c != "" {
			r.Comment = c
			r.HasComment = true
		}
	}

	if r.Link == "" {
		r.Link = strings.TrimSpace(e.ID)
	}
	return r, true
}

// NormalizeAll normalizes entries in feed order and returns the number of
// entries dropped for lacking a published timestamp.
func NormalizeAll(entries []types.FeedEntry) ([]types.PaperRecord, int) {
	records := make([]types.PaperRecord, 0, len(entries))
	dropped := 0
	for _, e := range entries {
		r, ok := Normalize(e)
		if !ok {
			dropped++
			continue
		}
		records = append(records, r)
	}
	return records, dropped
}

// TruncateDate returns midnight UTC of t's UTC calendar day.
func TruncateDate(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func publishedAt(e types.FeedEntry) (time.Time, bool) {
	if e.Published != nil && !e.Published.IsZero() {
		return *e.Published, true
	}
	raw := strings.TrimSpace(e.PublishedRaw)
	if raw == "" {
		return time.Time{}, false
	}
	t, err := dateparse.ParseIn(raw, time.UTC)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// collapseSpace NFC-normalizes s and replaces every whitespace run,
// newlines included, with a single space.
func collapseSpace(s string) string {
	return strings.Join(strings.Fields(norm.NFC.String(s)), " ")
}

// shorten keeps the first limit characters of s and appends Ellipsis only
// when s was longer.
func shorten(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit]) + Ellipsis
}

// extractArxivID pulls the arXiv ID from the entry's <id> URL
// (e.g. "http://arxiv.org/abs/2301.07041v1" → "2301.07041").
func extractArxivID(idURL string) string {
	const prefix = "/abs/"
	idx := strings.Index(idURL, prefix)
	if idx < 0 {
		return ""
	}
	id := strings.TrimSpace(idURL[idx+len(prefix):])

	// Strip version suffix (e.g. "v1", "v2").
	if vIdx := strings.LastIndex(id, "v"); vIdx > 0 {
		if _, err := strconv.Atoi(id[vIdx+1:]); err == nil {
			id = id[:vIdx]
		}
	}
	return id
}

// Dedupe keeps the first record for each arXiv ID (or link, when the ID is
// unknown) and returns the number of records removed.
func Dedupe(records []types.PaperRecord) ([]types.PaperRecord, int) {
	seen := make(map[string]struct{}, len(records))
	out := make([]types.PaperRecord, 0, len(records))
	removed := 0
	for _, r := range records {
		key := dedupKey(r)
		if key != "" {
			if _, ok := seen[key]; ok {
				removed++
				continue
			}
			seen[key] = struct{}{}
		}
		out = append(out, r)
	}
	return out, removed
}

func dedupKey(r types.PaperRecord) string {
	if r.ArxivID != "" {
		return "id:" + r.ArxivID
	}
	if r.Link != "" {
		return "link:" + r.Link
	}
	return ""
}
