// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package httputil provides HTTP helpers shared across stages.
package httputil

import (
	"context"
	"io"
	"net/http"

	"github.com/rs/zerolog"
)

// Waiter gates each attempt. *rate.Limiter satisfies it.
type Waiter interface {
	Wait(ctx context.Context) error
}

// Retryable reports whether a response status warrants another attempt:
// HTTP 429 (Too Many Requests) and any 5xx.
func Retryable(status int) bool {
	return status == http.StatusTooManyRequests || status >= http.StatusInternalServerError
}

// DoWithRetry executes an HTTP request and retries up to maxRetries extra
// times on transport errors, HTTP 429 and 5xx responses. Before every
// attempt it waits on w, so a rate limiter both spaces retries and keeps the
// first request polite. A nil w does not wait.
//
// A negative maxRetries is treated as 0. Retried response bodies are drained
// and closed. If the context is cancelled while waiting the function returns
// ctx.Err(). After exhausting retries the last response (or transport error)
// is returned so the caller can inspect it.
func DoWithRetry(ctx context.Context, client *http.Client, req *http.Request, maxRetries int, w Waiter, logger *zerolog.Logger) (*http.Response, error) {
	if maxRetries < 0 {
		maxRetries = 0
	}
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}

	for attempt := 0; ; attempt++ {
		if w != nil {
			if err := w.Wait(ctx); err != nil {
				if ctx.Err() != nil {
					return nil, ctx.Err()
				}
				return nil, err
			}
		}

		resp, err := client.Do(req.Clone(ctx))
		if err != nil {
			if ctx.Err() != nil || attempt >= maxRetries {
				return nil, err
			}
			logger.Warn().Err(err).Int("attempt", attempt+1).Int("max_retries", maxRetries).Msg("request failed, retrying")
			continue
		}

		if !Retryable(resp.StatusCode) || attempt >= maxRetries {
			return resp, nil
		}

		// Drain and close the body before retrying.
		io.Copy(io.Discard, resp.Body)
		resp.Body.Close()

		logger.Warn().Int("status", resp.StatusCode).Int("attempt", attempt+1).Int("max_retries", maxRetries).Msg("retryable response, retrying")
	}
}
