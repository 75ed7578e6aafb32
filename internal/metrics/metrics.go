// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package metrics records per-run pipeline gauges in a private Prometheus
// registry and pushes them to a pushgateway when one is configured.
package metrics

import (
	"context"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/push"

	"github.com/pdiddy/paper-digest/internal/digest"
)

// JobName is the pushgateway job label.
const JobName = "paper_digest"

// Drop reasons used with EntriesDiscarded.
const (
	ReasonNoTimestamp = "no_timestamp"
	ReasonDuplicate   = "duplicate"
	ReasonOutOfWindow = "out_of_window"
)

// Run holds the gauges for one invocation.
type Run struct {
	registry *prometheus.Registry

	EntriesFetched   prometheus.Gauge
	EntriesDiscarded *prometheus.GaugeVec
	PapersMatched    prometheus.Gauge
	PapersShown      prometheus.Gauge
	DeliverySuccess  prometheus.Gauge
	LastSuccess      prometheus.Gauge
	RunDuration      prometheus.Gauge
}

// NewRun registers a fresh set of gauges.
func NewRun() *Run {
	reg := prometheus.NewRegistry()
	f := promauto.With(reg)
	return &Run{
		registry: reg,
		EntriesFetched: f.NewGauge(prometheus.GaugeOpts{
			Name: "paper_digest_entries_fetched",
			Help: "Raw feed entries received in the last run",
		}),
		EntriesDiscarded: f.NewGaugeVec(prometheus.GaugeOpts{
			Name: "paper_digest_entries_discarded",
			Help: "Feed entries discarded in the last run by reason",
		}, []string{"reason"}),
		PapersMatched: f.NewGauge(prometheus.GaugeOpts{
			Name: "paper_digest_papers_matched",
			Help: "Papers published on the target date before truncation",
		}),
		PapersShown: f.NewGauge(prometheus.GaugeOpts{
			Name: "paper_digest_papers_shown",
			Help: "Papers rendered on the card",
		}),
		DeliverySuccess: f.NewGauge(prometheus.GaugeOpts{
			Name: "paper_digest_delivery_success",
			Help: "1 if the last card was accepted by the webhook, 0 otherwise",
		}),
		LastSuccess: f.NewGauge(prometheus.GaugeOpts{
			Name: "paper_digest_last_success_timestamp_seconds",
			Help: "Unix time of the last successful delivery",
		}),
		RunDuration: f.NewGauge(prometheus.GaugeOpts{
			Name: "paper_digest_run_duration_seconds",
			Help: "Wall time of the last run",
		}),
	}
}

// Registry exposes the underlying registry, mainly for tests.
func (m *Run) Registry() *prometheus.Registry { return m.registry }

// ObserveDigest records the pipeline counters.
func (m *Run) ObserveDigest(res digest.Result) {
	m.EntriesFetched.Set(float64(res.Fetched))
	m.EntriesDiscarded.WithLabelValues(ReasonNoTimestamp).Set(float64(res.Dropped))
	m.EntriesDiscarded.WithLabelValues(ReasonDuplicate).Set(float64(res.Duplicates))
	m.EntriesDiscarded.WithLabelValues(ReasonOutOfWindow).Set(float64(res.OutOfWindow))
	m.PapersMatched.Set(float64(res.Total))
	m.PapersShown.Set(float64(len(res.Ranked)))
}

// ObserveDelivery records the delivery outcome at time now.
func (m *Run) ObserveDelivery(ok bool, now time.Time) {
	if ok {
		m.DeliverySuccess.Set(1)
		m.LastSuccess.Set(float64(now.Unix()))
		return
	}
	m.DeliverySuccess.Set(0)
}

// ObserveDuration records the run wall time.
func (m *Run) ObserveDuration(d time.Duration) {
	m.RunDuration.Set(d.Seconds())
}

// Push sends the gauges to a pushgateway, grouped by instance.
func (m *Run) Push(ctx context.Context, gatewayURL, instance string) error {
	p := push.New(gatewayURL, JobName).Gatherer(m.registry)
	if instance != "" {
		p = p.Grouping("instance", instance)
	}
	if err := p.PushContext(ctx); err != nil {
		return fmt.Errorf("pushing metrics: %w", err)
	}
	return nil
}
