// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Inkpress Contributors

// Package config loads server configuration from defaults, an optional
// YAML file, and command-line flags, in that order of precedence.
package config

import (
	"errors"
	"io/fs"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/samber/oops"
	"github.com/spf13/pflag"
)

// Config holds all server configuration.
type Config struct {
	HTTP     HTTPConfig     `koanf:"http"`
	Database DatabaseConfig `koanf:"database"`
	Auth     AuthConfig     `koanf:"auth"`
	Log      LogConfig      `koanf:"log"`
	Metrics  MetricsConfig  `koanf:"metrics"`
}

// HTTPConfig configures the API listener.
type HTTPConfig struct {
	Addr string `koanf:"addr"`
}

// DatabaseConfig configures the PostgreSQL connection.
type DatabaseConfig struct {
	URL string `koanf:"url"`
}

// AuthConfig configures token issuance.
type AuthConfig struct {
	TokenSecret string        `koanf:"token_secret"`
	AccessTTL   time.Duration `koanf:"access_ttl"`
	ResetTTL    time.Duration `koanf:"reset_ttl"`
}

// LogConfig configures structured logging output.
type LogConfig struct {
	Format string `koanf:"format"`
	Level  string `koanf:"level"`
}

// MetricsConfig configures the observability listener.
type MetricsConfig struct {
	Addr string `koanf:"addr"`
}

// Default returns the built-in configuration defaults.
func Default() Config {
	return Config{
		HTTP:     HTTPConfig{Addr: ":8080"},
		Database: DatabaseConfig{URL: "postgres://localhost:5432/inkpress"},
		Auth: AuthConfig{
			AccessTTL: 30 * time.Minute,
			ResetTTL:  15 * time.Minute,
		},
		Log:     LogConfig{Format: "json", Level: "info"},
		Metrics: MetricsConfig{Addr: ":9090"},
	}
}

// Load builds a Config from defaults, then the YAML file at path (if it
// exists), then flags. A missing file is only an error when the path was
// set explicitly by the caller.
func Load(path string, pathExplicit bool, flags *pflag.FlagSet) (Config, error) {
	cfg := Default()
	k := koanf.New(".")

	if path != "" {
		err := k.Load(file.Provider(path), yaml.Parser())
		if err != nil {
			if !errors.Is(err, fs.ErrNotExist) || pathExplicit {
				return Config{}, oops.Code("CONFIG_LOAD_FAILED").
					With("path", path).
					Wrap(err)
			}
		}
	}

	if flags != nil {
		// Only explicitly set flags participate, so an unset flag's zero
		// default cannot clobber a file value or a built-in default.
		changed := pflag.NewFlagSet("changed", pflag.ContinueOnError)
		flags.Visit(changed.AddFlag)
		if err := k.Load(posflag.Provider(changed, ".", k), nil); err != nil {
			return Config{}, oops.Code("CONFIG_LOAD_FAILED").
				With("source", "flags").
				Wrap(err)
		}
	}

	if err := k.Unmarshal("", &cfg); err != nil {
		return Config{}, oops.Code("CONFIG_PARSE_FAILED").Wrap(err)
	}

	return cfg, nil
}

// Validate checks that required settings are present before the server
// starts serving requests.
func (c Config) Validate() error {
	if c.Database.URL == "" {
		return oops.Code("CONFIG_INVALID").
			With("field", "database.url").
			Errorf("database URL is required")
	}
	if c.Auth.TokenSecret == "" {
		return oops.Code("CONFIG_INVALID").
			With("field", "auth.token_secret").
			Errorf("token secret is required")
	}
	if c.Auth.AccessTTL <= 0 {
		return oops.Code("CONFIG_INVALID").
			With("field", "auth.access_ttl").
			Errorf("access token TTL must be positive")
	}
	if c.Auth.ResetTTL <= 0 {
		return oops.Code("CONFIG_INVALID").
			With("field", "auth.reset_ttl").
			Errorf("reset token TTL must be positive")
	}
	return nil
}
