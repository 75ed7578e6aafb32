// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines shared data structures for the paper-digest pipeline.
// The pipeline moves FeedEntry values through normalization (PaperRecord),
// scoring (ScoredRecord) and rendering.
package types

import "time"

// NoComment is the display value used when a feed entry carries no comment.
const NoComment = "No comment"

// FeedEntry is one raw entry as returned by the feed client. Fields are
// copied from the source document without cleanup.
type FeedEntry struct {
	// ID is the entry id URL (e.g. "http://arxiv.org/abs/2507.01234v2").
	ID string `json:"id" yaml:"id"`

	Title   string   `json:"title" yaml:"title"`
	Authors []string `json:"authors" yaml:"authors"`

	// Comment is the arxiv:comment annotation; nil when the entry has none.
	Comment *string `json:"comment,omitempty" yaml:"comment,omitempty"`

	Summary string `json:"summary" yaml:"summary"`
	Link    string `json:"link" yaml:"link"`

	// Published is the parsed published timestamp, nil when the source
	// supplied none or it could not be parsed.
	Published *time.Time `json:"published,omitempty" yaml:"published,omitempty"`

	// PublishedRaw is the unparsed published value, kept so the normalizer
	// can try a lenient parse when Published is nil.
	PublishedRaw string `json:"published_raw,omitempty" yaml:"published_raw,omitempty"`
}

// PaperRecord is the canonical form of a feed entry. Records are values:
// pipeline stages derive new slices and never modify a record in place.
type PaperRecord struct {
	// ArxivID is the version-less arXiv identifier (e.g. "2507.01234"),
	// empty when the entry id is not an arXiv abstract URL.
	ArxivID string `json:"arxiv_id,omitempty" yaml:"arxiv_id,omitempty"`

	// Title is single-line with internal whitespace collapsed.
	Title string `json:"title" yaml:"title"`

	// Authors lists author display names in source order.
	Authors []string `json:"authors" yaml:"authors"`

	// FirstAuthor is Authors[0], or "" when there are no authors.
	FirstAuthor string `json:"first_author" yaml:"first_author"`

	// Comment is the source annotation, or NoComment when HasComment is false.
	Comment    string `json:"comment" yaml:"comment"`
	HasComment bool   `json:"has_comment" yaml:"has_comment"`

	// Summary is the full abstract on one line.
	Summary string `json:"summary" yaml:"summary"`

	// SummaryShort is Summary cut to 300 characters, with "..." appended
	// when it was cut.
	SummaryShort string `json:"summary_short" yaml:"summary_short"`

	Link string `json:"link" yaml:"link"`

	// PublishDate is the UTC calendar date of publication (midnight UTC).
	PublishDate time.Time `json:"publish_date" yaml:"publish_date"`
}

// ScoredRecord pairs a record with its heuristic priority score.
type ScoredRecord struct {
	PaperRecord `yaml:",inline"`

	// Score is the sum of the fired signal weights; never negative.
	Score int `json:"score" yaml:"score"`

	// Signals names the signals that contributed to Score, in evaluation order.
	Signals []string `json:"signals,omitempty" yaml:"signals,omitempty"`
}
