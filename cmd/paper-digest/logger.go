// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"io"
	"time"

	"github.com/rs/zerolog"

	"github.com/pdiddy/paper-digest/internal/config"
)

// newLogger writes human-readable lines in local runs and JSON elsewhere.
func newLogger(env *config.Env, w io.Writer) zerolog.Logger {
	var l zerolog.Logger
	if env.IsLocal() {
		l = zerolog.New(zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339})
	} else {
		l = zerolog.New(w)
	}
	return l.Level(logLevel(env.LogLevel)).With().Timestamp().Logger()
}

func logLevel(level string) zerolog.Level {
	switch level {
	case "debug":
		return zerolog.DebugLevel
	case "info":
		return zerolog.InfoLevel
	case "warn":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}
