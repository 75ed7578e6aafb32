// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/paper-digest/internal/card"
	"github.com/pdiddy/paper-digest/internal/digest"
	"github.com/pdiddy/paper-digest/internal/feed"
	"github.com/pdiddy/paper-digest/internal/reference"
	"github.com/pdiddy/paper-digest/pkg/types"
)

var previewCmd = &cobra.Command{
	Use:   "preview",
	Short: "Print the card JSON without delivering it",
	Long: `Preview runs the same fetch and ranking as run but prints the Feishu
card payload to stdout instead of posting it. No webhook is required.

With --from, the card is rendered from a snapshot written by "run --save"
and arXiv is not queried.`,
	PreRunE: func(cmd *cobra.Command, args []string) error {
		return bindFlags(cmd, viper.GetViper(), map[string]string{
			keyFeedMaxResults: "max-results",
			keyMaxShown:       "max-shown",
		})
	},
	RunE: runPreview,
}

func init() {
	previewCmd.Flags().String("date", "", "target date (YYYY-MM-DD, default: yesterday UTC)")
	previewCmd.Flags().String("from", "", "render from a saved snapshot instead of querying arXiv")
	previewCmd.Flags().Int("max-results", 200, "maximum entries requested from arXiv")
	previewCmd.Flags().Int("max-shown", digest.DefaultMaxShown, "maximum papers shown on the card")

	rootCmd.AddCommand(previewCmd)
}

func runPreview(cmd *cobra.Command, args []string) error {
	date, _ := cmd.Flags().GetString("date")
	from, _ := cmd.Flags().GetString("from")

	return previewDigest(cmd.Context(), previewOptions{
		Config: digestConfig(viper.GetViper()),
		Date:   date,
		From:   from,
		Out:    os.Stdout,
		Logger: &logger,
	})
}

type previewOptions struct {
	Config types.DigestConfig
	Date   string
	From   string

	Now    func() time.Time
	Out    io.Writer
	Logger *zerolog.Logger
}

// previewDigest renders the card for a live fetch or a snapshot and writes
// the indented payload to opts.Out.
func previewDigest(ctx context.Context, opts previewOptions) error {
	log := opts.Logger
	if log == nil {
		nop := zerolog.Nop()
		log = &nop
	}

	var (
		res digest.Result
		err error
	)
	if opts.From != "" {
		res, err = snapshotResult(opts.From, opts.Config.MaxShown)
	} else {
		res, err = liveResult(ctx, opts, log)
	}
	if err != nil {
		return err
	}

	payload := card.Render(res.Ranked, res.Total, res.DateLabel(), card.Options{
		Topic:       opts.Config.Topic,
		ShowSignals: opts.Config.ShowSignals,
	})
	data, err := payload.JSON()
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	if err := json.Indent(&buf, data, "", "  "); err != nil {
		return fmt.Errorf("formatting card: %w", err)
	}
	buf.WriteByte('\n')
	_, err = buf.WriteTo(opts.Out)
	return err
}

func snapshotResult(path string, maxShown int) (digest.Result, error) {
	snap, err := digest.ReadSnapshot(path)
	if err != nil {
		return digest.Result{}, err
	}
	res, err := snap.Result()
	if err != nil {
		return digest.Result{}, err
	}
	res.Ranked = digest.Rank(res.Ranked, maxShown)
	return res, nil
}

func liveResult(ctx context.Context, opts previewOptions, log *zerolog.Logger) (digest.Result, error) {
	now := time.Now()
	if opts.Now != nil {
		now = opts.Now()
	}
	target, err := targetDate(opts.Date, now)
	if err != nil {
		return digest.Result{}, err
	}

	ref, err := reference.Load(opts.Config.ReferenceFile)
	if err != nil {
		return digest.Result{}, err
	}
	feedCfg := opts.Config.Feed
	if len(feedCfg.Keywords) == 0 {
		feedCfg.Keywords = ref.Keywords
	}

	entries, err := feed.NewClient(feedCfg, log).Fetch(ctx)
	if err != nil {
		return digest.Result{}, err
	}

	p := digest.Pipeline{
		Scorer:   digest.NewScorer(opts.Config.Scoring, ref.Venues, ref.Surnames),
		MaxShown: opts.Config.MaxShown,
		Logger:   log,
	}
	return p.Process(entries, target), nil
}
