// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package config reads deployment settings from the environment. A .env file
// in the working directory is loaded first when present.
package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Env holds settings that usually come from the scheduler or container
// environment rather than the YAML config file.
type Env struct {
	AppEnv         string `env:"APP_ENV" envDefault:"local"`
	LogLevel       string `env:"LOG_LEVEL" envDefault:"info"`
	FeishuWebhook  string `env:"FEISHU_WEBHOOK"`
	PushgatewayURL string `env:"PUSHGATEWAY_URL"`
	Instance       string `env:"HOSTNAME"`
}

// Load reads .env (if any) and parses the environment.
func Load() (*Env, error) {
	_ = godotenv.Load() //nolint:errcheck // .env file is optional

	return Parse(env.Options{})
}

// Parse reads Env using opts; tests pass opts.Environment to avoid touching
// the process environment.
func Parse(opts env.Options) (*Env, error) {
	cfg := &Env{}
	if err := env.ParseWithOptions(cfg, opts); err != nil {
		return nil, fmt.Errorf("parsing environment config: %w", err)
	}
	return cfg, nil
}

// IsLocal reports whether the process runs in a developer environment.
func (e *Env) IsLocal() bool {
	return e.AppEnv == "local"
}
