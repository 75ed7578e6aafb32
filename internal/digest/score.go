// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package digest

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/pdiddy/paper-digest/pkg/types"
)

// Signal names reported in ScoredRecord.Signals.
const (
	SignalAccepted = "accepted"
	SignalCode     = "code"
	SignalVenue    = "venue"
	SignalSurname  = "surname"
)

// Text is the lower-cased view of a record that signals inspect. Comment is
// empty when the source supplied no comment.
type Text struct {
	Comment string
	Summary string
	Record  types.PaperRecord
}

// Signal is one independent scoring heuristic. A fired signal adds Weight.
type Signal struct {
	Name   string
	Weight int
	Match  func(Text) bool
}

// Scorer sums signal weights for a record.
type Scorer struct {
	signals []Signal
}

// NewScorer builds the stock signals from cfg. venues and surnames are the
// injected reference lists; the surname signal is omitted when
// cfg.SurnameSignal is false.
func NewScorer(cfg types.ScoringConfig, venues, surnames []string) *Scorer {
	signals := []Signal{
		AcceptedSignal(cfg.AcceptedWeight),
		CodeSignal(cfg.CodeWeight),
		VenueSignal(cfg.VenueWeight, venues),
	}
	if cfg.SurnameSignal {
		signals = append(signals, SurnameSignal(cfg.SurnameWeight, surnames))
	}
	return NewScorerWithSignals(signals...)
}

// NewScorerWithSignals returns a scorer over an explicit signal set.
func NewScorerWithSignals(signals ...Signal) *Scorer {
	return &Scorer{signals: signals}
}

// Signals returns the names of the configured signals in evaluation order.
func (s *Scorer) Signals() []string {
	names := make([]string, len(s.signals))
	for i, sig := range s.signals {
		names[i] = sig.Name
	}
	return names
}

// Score evaluates every signal against r. Weights of zero or less never
// contribute, so the score is never negative.
func (s *Scorer) Score(r types.PaperRecord) types.ScoredRecord {
	lower := cases.Lower(language.Und)
	t := Text{
		Summary: lower.String(r.Summary),
		Record:  r,
	}
	if r.HasComment {
		t.Comment = lower.String(r.Comment)
	}

	out := types.ScoredRecord{PaperRecord: r}
	for _, sig := range s.signals {
		if sig.Weight <= 0 || sig.Match == nil {
			continue
		}
		if sig.Match(t) {
			out.Score += sig.Weight
			out.Signals = append(out.Signals, sig.Name)
		}
	}
	return out
}

// ScoreAll scores records in order.
func (s *Scorer) ScoreAll(records []types.PaperRecord) []types.ScoredRecord {
	out := make([]types.ScoredRecord, len(records))
	for i, r := range records {
		out[i] = s.Score(r)
	}
	return out
}

// AcceptedSignal fires when the comment mentions acceptance ("accept").
func AcceptedSignal(weight int) Signal {
	return Signal{
		Name:   SignalAccepted,
		Weight: weight,
		Match: func(t Text) bool {
			return strings.Contains(t.Comment, "accept")
		},
	}
}

// CodeSignal fires when the comment or summary mentions "github".
func CodeSignal(weight int) Signal {
	return Signal{
		Name:   SignalCode,
		Weight: weight,
		Match: func(t Text) bool {
			return strings.Contains(t.Comment, "github") || strings.Contains(t.Summary, "github")
		},
	}
}

// VenueSignal fires once when the comment contains any venue keyword.
func VenueSignal(weight int, venues []string) Signal {
	lowered := lowerAll(venues)
	return Signal{
		Name:   SignalVenue,
		Weight: weight,
		Match: func(t Text) bool {
			if t.Comment == "" {
				return false
			}
			for _, v := range lowered {
				if strings.Contains(t.Comment, v) {
					return true
				}
			}
			return false
		},
	}
}

// SurnameSignal fires when the last token of the first author's name is not
// in surnames. It is a coarse novelty heuristic over an incomplete,
// locale-dependent list and is easy to get wrong for any given author; it
// can be switched off with scoring.surname_signal. Records without a first
// author never fire.
func SurnameSignal(weight int, surnames []string) Signal {
	known := make(map[string]struct{}, len(surnames))
	for _, s := range lowerAll(surnames) {
		known[s] = struct{}{}
	}
	return Signal{
		Name:   SignalSurname,
		Weight: weight,
		Match: func(t Text) bool {
			surname := Surname(t.Record.FirstAuthor)
			if surname == "" {
				return false
			}
			_, common := known[surname]
			return !common
		},
	}
}

// Surname returns the lower-cased last whitespace token of name.
func Surname(name string) string {
	fields := strings.Fields(name)
	if len(fields) == 0 {
		return ""
	}
	return cases.Lower(language.Und).String(fields[len(fields)-1])
}

func lowerAll(in []string) []string {
	lower := cases.Lower(language.Und)
	out := make([]string, 0, len(in))
	for _, s := range in {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, lower.String(s))
		}
	}
	return out
}
