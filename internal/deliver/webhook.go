// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package deliver posts a rendered card to a chat webhook. Delivery is a
// single attempt: a rejected card is reported in Result, not retried.
package deliver

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/pdiddy/paper-digest/internal/card"
	"github.com/pdiddy/paper-digest/pkg/types"
)

// ErrNoWebhook is returned when no destination URL is configured.
var ErrNoWebhook = errors.New("no webhook URL configured")

const (
	defaultTimeout   = 10 * time.Second
	defaultUserAgent = "paper-digest/0.1"
	maxBodyBytes     = 64 << 10
)

// Result describes one delivery attempt.
type Result struct {
	OK         bool   `json:"ok"`
	StatusCode int    `json:"status_code"`
	Body       string `json:"body,omitempty"`
	Papers     int    `json:"papers"`

	// Summary is a one-line human-readable outcome.
	Summary string `json:"summary"`
}

// Webhook is a Feishu custom-bot webhook sink.
type Webhook struct {
	URL       string
	Client    *http.Client
	UserAgent string
	Logger    *zerolog.Logger
}

// NewWebhook returns a sink for cfg.URL, or ErrNoWebhook when it is empty.
func NewWebhook(cfg types.WebhookConfig, logger *zerolog.Logger) (*Webhook, error) {
	if strings.TrimSpace(cfg.URL) == "" {
		return nil, ErrNoWebhook
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	ua := cfg.UserAgent
	if ua == "" {
		ua = defaultUserAgent
	}
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}
	return &Webhook{
		URL:       strings.TrimSpace(cfg.URL),
		Client:    &http.Client{Timeout: timeout},
		UserAgent: ua,
		Logger:    logger,
	}, nil
}

// feishuResponse covers both response shapes the bot API has used.
type feishuResponse struct {
	Code          *int   `json:"code"`
	Msg           string `json:"msg"`
	StatusCode    *int   `json:"StatusCode"`
	StatusMessage string `json:"StatusMessage"`
}

// Send posts p once. A non-2xx status or a Feishu error code yields
// Result.OK == false with a nil error; only request construction and
// transport failures return an error.
func (w *Webhook) Send(ctx context.Context, p card.Payload) (Result, error) {
	body, err := p.JSON()
	if err != nil {
		return Result{}, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, w.URL, bytes.NewReader(body))
	if err != nil {
		return Result{}, fmt.Errorf("creating webhook request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json; charset=utf-8")
	req.Header.Set("User-Agent", w.UserAgent)

	resp, err := w.Client.Do(req)
	if err != nil {
		return Result{}, fmt.Errorf("posting to webhook: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return Result{}, fmt.Errorf("reading webhook response: %w", err)
	}

	res := Result{
		StatusCode: resp.StatusCode,
		Body:       strings.TrimSpace(string(respBody)),
		Papers:     p.Papers,
	}

	switch {
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		res.Summary = fmt.Sprintf("webhook returned HTTP %d: %s", resp.StatusCode, res.Body)
	default:
		if code, msg, rejected := rejection(respBody); rejected {
			res.Summary = fmt.Sprintf("webhook rejected card: code %d: %s", code, msg)
		} else {
			res.OK = true
			res.Summary = fmt.Sprintf("delivered %d paper(s)", p.Papers)
		}
	}

	if res.OK {
		w.Logger.Info().Int("status", res.StatusCode).Int("papers", res.Papers).Msg("card delivered")
	} else {
		w.Logger.Error().Int("status", res.StatusCode).Str("body", res.Body).Msg("card delivery failed")
	}
	return res, nil
}

// rejection reports a non-zero Feishu error code in a 2xx response body.
// Bodies that are not JSON are treated as accepted.
func rejection(body []byte) (int, string, bool) {
	var fr feishuResponse
	if err := json.Unmarshal(body, &fr); err != nil {
		return 0, "", false
	}
	if fr.Code != nil && *fr.Code != 0 {
		return *fr.Code, fr.Msg, true
	}
	if fr.StatusCode != nil && *fr.StatusCode != 0 {
		return *fr.StatusCode, fr.StatusMessage, true
	}
	return 0, "", false
}
