// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/paper-digest/internal/archive"
	"github.com/pdiddy/paper-digest/internal/card"
	"github.com/pdiddy/paper-digest/internal/deliver"
	"github.com/pdiddy/paper-digest/internal/digest"
	"github.com/pdiddy/paper-digest/internal/feed"
	"github.com/pdiddy/paper-digest/internal/metrics"
	"github.com/pdiddy/paper-digest/internal/reference"
	"github.com/pdiddy/paper-digest/internal/secrets"
	"github.com/pdiddy/paper-digest/pkg/types"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Fetch, rank and deliver the digest for one day",
	Long: `Run queries arXiv once, keeps the papers published on the target date
(default: yesterday, UTC), ranks them and posts one card to the Feishu
webhook. An empty day still posts a card saying nothing matched.

The webhook URL is read from --webhook, webhook.url in the config file,
FEISHU_WEBHOOK, or .secrets/feishu-webhook, in that order. The command
exits non-zero when the feed cannot be fetched or the card is rejected.`,
	PreRunE: func(cmd *cobra.Command, args []string) error {
		return bindFlags(cmd, viper.GetViper(), map[string]string{
			keyWebhookURL:     "webhook",
			keyFeedMaxResults: "max-results",
			keyMaxShown:       "max-shown",
			keyArchivePath:    "archive",
			keyPushgateway:    "pushgateway",
		})
	},
	RunE: runRun,
}

func init() {
	runCmd.Flags().String("date", "", "target date (YYYY-MM-DD, default: yesterday UTC)")
	runCmd.Flags().String("webhook", "", "Feishu custom-bot webhook URL")
	runCmd.Flags().Int("max-results", 200, "maximum entries requested from arXiv")
	runCmd.Flags().Int("max-shown", digest.DefaultMaxShown, "maximum papers shown on the card")
	runCmd.Flags().String("save", "", "also write the ranked digest to this YAML file")
	runCmd.Flags().String("archive", "", "SQLite file recording run history")
	runCmd.Flags().String("pushgateway", "", "Prometheus pushgateway URL")

	rootCmd.AddCommand(runCmd)
}

func runRun(cmd *cobra.Command, args []string) error {
	date, _ := cmd.Flags().GetString("date")
	save, _ := cmd.Flags().GetString("save")

	return runDigest(cmd.Context(), runOptions{
		Config:   digestConfig(viper.GetViper()),
		Date:     date,
		SavePath: save,
		Instance: envConfig.Instance,
		Out:      os.Stdout,
		Logger:   &logger,
	})
}

// runOptions carries everything one digest run needs.
type runOptions struct {
	Config   types.DigestConfig
	Date     string
	SavePath string
	Instance string

	Now    func() time.Time
	Out    io.Writer
	Logger *zerolog.Logger
}

func (o runOptions) now() time.Time {
	if o.Now != nil {
		return o.Now()
	}
	return time.Now()
}

// runDigest executes one fetch-rank-deliver pass. The webhook is checked
// before any network call so a misconfigured run fails without touching
// arXiv. A failed fetch never posts a card.
func runDigest(ctx context.Context, opts runOptions) error {
	if ctx == nil {
		ctx = context.Background()
	}
	out := opts.Out
	if out == nil {
		out = io.Discard
	}
	base := opts.Logger
	if base == nil {
		nop := zerolog.Nop()
		base = &nop
	}

	started := opts.now()
	runID := uuid.NewString()
	log := base.With().Str("run_id", runID).Logger()

	target, err := targetDate(opts.Date, started)
	if err != nil {
		return err
	}
	label := target.Format(digest.DateLayout)

	sink, err := deliver.NewWebhook(opts.Config.Webhook, &log)
	if err != nil {
		return fmt.Errorf("%w: set --webhook, FEISHU_WEBHOOK or .secrets/%s", err, secrets.FeishuWebhook)
	}

	ref, err := reference.Load(opts.Config.ReferenceFile)
	if err != nil {
		return err
	}
	feedCfg := opts.Config.Feed
	if len(feedCfg.Keywords) == 0 {
		feedCfg.Keywords = ref.Keywords
	}

	m := metrics.NewRun()
	log.Info().Str("date", label).Strs("keywords", feedCfg.Keywords).Msg("digest run started")

	entries, err := feed.NewClient(feedCfg, &log).Fetch(ctx)
	if err != nil {
		log.Error().Err(err).Msg("feed fetch failed")
		fmt.Fprintf(out, "❌ fetch failed for %s: %v\n", label, err)
		m.ObserveDelivery(false, opts.now())
		m.ObserveDuration(opts.now().Sub(started))
		pushMetrics(ctx, m, opts, &log)
		return err
	}

	p := digest.Pipeline{
		Scorer:   digest.NewScorer(opts.Config.Scoring, ref.Venues, ref.Surnames),
		MaxShown: opts.Config.MaxShown,
		Logger:   &log,
	}
	res := p.Process(entries, target)
	m.ObserveDigest(res)

	if opts.SavePath != "" {
		if err := digest.WriteSnapshot(opts.SavePath, res, started); err != nil {
			return err
		}
		log.Info().Str("path", opts.SavePath).Msg("snapshot saved")
	}

	payload := card.Render(res.Ranked, res.Total, res.DateLabel(), card.Options{
		Topic:       opts.Config.Topic,
		ShowSignals: opts.Config.ShowSignals,
	})

	dres, sendErr := sink.Send(ctx, payload)
	if sendErr != nil {
		dres = deliver.Result{Papers: payload.Papers, Summary: sendErr.Error()}
	}

	m.ObserveDelivery(dres.OK, opts.now())
	m.ObserveDuration(opts.now().Sub(started))
	recordRun(ctx, opts, runID, started, res, dres, &log)
	pushMetrics(ctx, m, opts, &log)

	if !dres.OK {
		if sendErr != nil {
			fmt.Fprintf(out, "❌ delivery failed: %v\n", sendErr)
			return sendErr
		}
		fmt.Fprintf(out, "❌ delivery failed: HTTP %d %s\n", dres.StatusCode, dres.Body)
		return fmt.Errorf("delivery failed: %s", dres.Summary)
	}

	fmt.Fprintf(out, "✅ delivered %d paper(s) for %s (%d matched, %d fetched)\n",
		dres.Papers, label, res.Total, res.Fetched)
	return nil
}

// targetDate parses s, or returns yesterday (UTC) relative to now when s is empty.
func targetDate(s string, now time.Time) (time.Time, error) {
	if s == "" {
		return digest.DefaultTargetDate(now), nil
	}
	return digest.ParseTargetDate(s)
}

// recordRun writes the run to the archive when one is configured. Archive
// errors are logged and do not fail the run.
func recordRun(ctx context.Context, opts runOptions, runID string, started time.Time,
	res digest.Result, dres deliver.Result, log *zerolog.Logger) {
	if opts.Config.ArchivePath == "" {
		return
	}
	store, err := archive.Open(opts.Config.ArchivePath)
	if err != nil {
		log.Warn().Err(err).Msg("archive unavailable")
		return
	}
	defer store.Close()

	run := archive.Run{
		ID:          runID,
		TargetDate:  res.DateLabel(),
		StartedAt:   started,
		Fetched:     res.Fetched,
		Dropped:     res.Dropped,
		Duplicates:  res.Duplicates,
		OutOfWindow: res.OutOfWindow,
		Total:       res.Total,
		Shown:       len(res.Ranked),
		Delivered:   dres.OK,
		StatusCode:  dres.StatusCode,
		Summary:     dres.Summary,
	}
	if err := store.Record(ctx, run, res.Ranked); err != nil {
		log.Warn().Err(err).Msg("archive write failed")
	}
}

func pushMetrics(ctx context.Context, m *metrics.Run, opts runOptions, log *zerolog.Logger) {
	if opts.Config.Pushgateway == "" {
		return
	}
	if err := m.Push(ctx, opts.Config.Pushgateway, opts.Instance); err != nil {
		log.Warn().Err(err).Msg("metrics push failed")
	}
}
