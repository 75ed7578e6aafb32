// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package digest

import (
	"time"

	"github.com/rs/zerolog"

	"github.com/pdiddy/paper-digest/pkg/types"
)

// Result is the outcome of one pass over a feed page.
type Result struct {
	// TargetDate is midnight UTC of the requested day.
	TargetDate time.Time

	Fetched     int // raw entries received
	Dropped     int // entries without a usable published timestamp
	Duplicates  int // entries sharing an arXiv ID with an earlier one
	OutOfWindow int // records published on another day

	// Total is the number of records for TargetDate before truncation.
	Total int

	// Ranked holds at most MaxShown records, best first.
	Ranked []types.ScoredRecord
}

// DateLabel formats TargetDate as YYYY-MM-DD.
func (r Result) DateLabel() string {
	return r.TargetDate.Format(DateLayout)
}

// Pipeline runs the pure stages for one target date.
type Pipeline struct {
	Scorer   *Scorer
	MaxShown int
	Logger   *zerolog.Logger
}

// Process normalizes, dedupes, filters, scores and ranks entries. It has no
// side effects beyond debug logging and is deterministic for a given input.
func (p *Pipeline) Process(entries []types.FeedEntry, target time.Time) Result {
	logger := p.Logger
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}

	res := Result{
		TargetDate: TruncateDate(target),
		Fetched:    len(entries),
	}

	records, dropped := NormalizeAll(entries)
	res.Dropped = dropped

	records, res.Duplicates = Dedupe(records)
	records, res.OutOfWindow = FilterByDate(records, res.TargetDate)
	res.Total = len(records)

	scored := p.Scorer.ScoreAll(records)
	res.Ranked = Rank(scored, p.MaxShown)

	logger.Debug().
		Str("date", res.DateLabel()).
		Int("fetched", res.Fetched).
		Int("dropped", res.Dropped).
		Int("duplicates", res.Duplicates).
		Int("out_of_window", res.OutOfWindow).
		Int("total", res.Total).
		Int("shown", len(res.Ranked)).
		Msg("digest processed")

	return res
}
