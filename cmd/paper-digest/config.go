// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/paper-digest/internal/card"
	"github.com/pdiddy/paper-digest/internal/digest"
	"github.com/pdiddy/paper-digest/internal/secrets"
	"github.com/pdiddy/paper-digest/pkg/types"
)

// Config keys. Nested keys map to PAPER_DIGEST_<SECTION>_<NAME> env vars.
const (
	keyFeedEndpoint      = "feed.endpoint"
	keyFeedKeywords      = "feed.keywords"
	keyFeedMaxResults    = "feed.max_results"
	keyFeedMaxRetries    = "feed.max_retries"
	keyFeedRetryInterval = "feed.retry_interval"
	keyFeedTimeout       = "feed.timeout"
	keyFeedUserAgent     = "feed.user_agent"

	keyMaxShown    = "digest.max_shown"
	keyTopic       = "digest.topic"
	keyShowSignals = "digest.show_signals"

	keyAcceptedWeight = "scoring.accepted_weight"
	keyCodeWeight     = "scoring.code_weight"
	keyVenueWeight    = "scoring.venue_weight"
	keySurnameWeight  = "scoring.surname_weight"
	keySurnameSignal  = "scoring.surname_signal"

	keyWebhookURL     = "webhook.url"
	keyWebhookTimeout = "webhook.timeout"

	keyReferenceFile = "reference_file"
	keyArchivePath   = "archive.path"
	keyPushgateway   = "metrics.pushgateway"
)

func setDefaults(v *viper.Viper) {
	sc := types.DefaultScoringConfig()

	v.SetDefault(keyFeedMaxResults, 200)
	v.SetDefault(keyFeedMaxRetries, 1)
	v.SetDefault(keyFeedRetryInterval, 3*time.Second)
	v.SetDefault(keyFeedTimeout, 30*time.Second)
	v.SetDefault(keyFeedUserAgent, "paper-digest/"+version)

	v.SetDefault(keyMaxShown, digest.DefaultMaxShown)
	v.SetDefault(keyTopic, card.DefaultTopic)
	v.SetDefault(keyShowSignals, true)

	v.SetDefault(keyAcceptedWeight, sc.AcceptedWeight)
	v.SetDefault(keyCodeWeight, sc.CodeWeight)
	v.SetDefault(keyVenueWeight, sc.VenueWeight)
	v.SetDefault(keySurnameWeight, sc.SurnameWeight)
	v.SetDefault(keySurnameSignal, sc.SurnameSignal)

	v.SetDefault(keyWebhookTimeout, 10*time.Second)
}

// bindFlags binds the command's flags to config keys. It runs from PreRunE
// so commands sharing a flag name do not overwrite each other's binding.
func bindFlags(cmd *cobra.Command, v *viper.Viper, keys map[string]string) error {
	for key, flag := range keys {
		f := cmd.Flags().Lookup(flag)
		if f == nil {
			return fmt.Errorf("unknown flag %q for key %s", flag, key)
		}
		if err := v.BindPFlag(key, f); err != nil {
			return fmt.Errorf("binding flag %s: %w", flag, err)
		}
	}
	return nil
}

// digestConfig assembles the run configuration from v, falling back to the
// environment and .secrets/ for the webhook and pushgateway URLs.
func digestConfig(v *viper.Viper) types.DigestConfig {
	ua := v.GetString(keyFeedUserAgent)

	cfg := types.DigestConfig{
		Feed: types.FeedConfig{
			HTTPConfig: types.HTTPConfig{
				Timeout:   v.GetDuration(keyFeedTimeout),
				UserAgent: ua,
			},
			Endpoint:      v.GetString(keyFeedEndpoint),
			Keywords:      keywordList(v.Get(keyFeedKeywords)),
			MaxResults:    v.GetInt(keyFeedMaxResults),
			MaxRetries:    v.GetInt(keyFeedMaxRetries),
			RetryInterval: v.GetDuration(keyFeedRetryInterval),
		},
		Scoring: types.ScoringConfig{
			AcceptedWeight: v.GetInt(keyAcceptedWeight),
			CodeWeight:     v.GetInt(keyCodeWeight),
			VenueWeight:    v.GetInt(keyVenueWeight),
			SurnameWeight:  v.GetInt(keySurnameWeight),
			SurnameSignal:  v.GetBool(keySurnameSignal),
		},
		Webhook: types.WebhookConfig{
			HTTPConfig: types.HTTPConfig{
				Timeout:   v.GetDuration(keyWebhookTimeout),
				UserAgent: ua,
			},
			URL: v.GetString(keyWebhookURL),
		},
		MaxShown:      v.GetInt(keyMaxShown),
		Topic:         v.GetString(keyTopic),
		ShowSignals:   v.GetBool(keyShowSignals),
		ReferenceFile: v.GetString(keyReferenceFile),
		ArchivePath:   v.GetString(keyArchivePath),
		Pushgateway:   v.GetString(keyPushgateway),
	}

	if cfg.Webhook.URL == "" {
		cfg.Webhook.URL = secretDefault(secrets.FeishuWebhook, envConfig.FeishuWebhook)
	}
	if cfg.Pushgateway == "" {
		cfg.Pushgateway = secretDefault(secrets.PushgatewayURL, envConfig.PushgatewayURL)
	}
	return cfg
}

// keywordList accepts both YAML lists and a comma-separated env value.
// viper's string-slice conversion splits on whitespace, which would break
// multi-word keywords, so the raw value is handled here.
func keywordList(raw any) []string {
	var parts []string
	switch val := raw.(type) {
	case string:
		parts = []string{val}
	case []string:
		parts = val
	case []any:
		for _, x := range val {
			parts = append(parts, fmt.Sprint(x))
		}
	}

	var out []string
	for _, s := range parts {
		for _, k := range strings.Split(s, ",") {
			if k = strings.TrimSpace(k); k != "" {
				out = append(out, k)
			}
		}
	}
	return out
}
