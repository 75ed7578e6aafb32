package types

import "time"

// HTTPConfig holds shared HTTP settings used by stages that make network requests.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "paper-digest/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent"`
}

// FeedConfig holds settings for the arXiv feed fetch.
type FeedConfig struct {
	HTTPConfig `yaml:",inline"`

	// Endpoint overrides the arXiv API URL, e.g. for a mirror.
	Endpoint string `json:"endpoint,omitempty" yaml:"endpoint,omitempty"`

	// Keywords are OR-combined into the search query. Multi-word phrases
	// are quoted by the client.
	Keywords []string `json:"keywords" yaml:"keywords"`

	// MaxResults is the single-page result cap sent to the API (default 200).
	MaxResults int `json:"max_results" yaml:"max_results"`

	// MaxRetries is the number of extra attempts after a failed fetch (default 1).
	MaxRetries int `json:"max_retries" yaml:"max_retries"`

	// RetryInterval is the minimum spacing between fetch attempts (default 3s).
	RetryInterval time.Duration `json:"retry_interval" yaml:"retry_interval"`
}

// ScoringConfig holds the signal weights and switches for the relevance scorer.
// Zero weights are valid and disable a signal's contribution.
type ScoringConfig struct {
	AcceptedWeight int `json:"accepted_weight" yaml:"accepted_weight"`
	CodeWeight     int `json:"code_weight" yaml:"code_weight"`
	VenueWeight    int `json:"venue_weight" yaml:"venue_weight"`
	SurnameWeight  int `json:"surname_weight" yaml:"surname_weight"`

	// SurnameSignal enables the first-author surname heuristic.
	SurnameSignal bool `json:"surname_signal" yaml:"surname_signal"`
}

// DefaultScoringConfig returns the stock 3/2/2/1 weights with every signal on.
func DefaultScoringConfig() ScoringConfig {
	return ScoringConfig{
		AcceptedWeight: 3,
		CodeWeight:     2,
		VenueWeight:    2,
		SurnameWeight:  1,
		SurnameSignal:  true,
	}
}

// WebhookConfig holds settings for the delivery sink.
type WebhookConfig struct {
	HTTPConfig `yaml:",inline"`

	// URL is the chat webhook endpoint. Required for delivery.
	URL string `json:"url,omitempty" yaml:"url,omitempty"`
}

// DigestConfig groups all stage configurations for one run.
type DigestConfig struct {
	Feed    FeedConfig    `json:"feed" yaml:"feed"`
	Scoring ScoringConfig `json:"scoring" yaml:"scoring"`
	Webhook WebhookConfig `json:"webhook" yaml:"webhook"`

	// MaxShown caps the number of papers rendered on the card (default 10).
	MaxShown int `json:"max_shown" yaml:"max_shown"`

	// Topic names the paper set in the card header.
	Topic string `json:"topic,omitempty" yaml:"topic,omitempty"`

	// ShowSignals lists the fired scoring signals next to each score.
	ShowSignals bool `json:"show_signals" yaml:"show_signals"`

	// ReferenceFile is an optional YAML file overriding the built-in
	// keyword, venue and surname lists.
	ReferenceFile string `json:"reference_file,omitempty" yaml:"reference_file,omitempty"`

	// ArchivePath is an optional SQLite file recording run history.
	ArchivePath string `json:"archive_path,omitempty" yaml:"archive_path,omitempty"`

	// Pushgateway is an optional Prometheus pushgateway URL.
	Pushgateway string `json:"pushgateway,omitempty" yaml:"pushgateway,omitempty"`
}
