// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Inkpress Contributors

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inkpress/inkpress/pkg/errutil"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("", false, nil)
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.HTTP.Addr)
	assert.Equal(t, ":9090", cfg.Metrics.Addr)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.Equal(t, 30*time.Minute, cfg.Auth.AccessTTL)
	assert.Equal(t, 15*time.Minute, cfg.Auth.ResetTTL)
}

func TestLoad_YAMLFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "inkpress.yaml")
	content := `
http:
  addr: ":3000"
database:
  url: "postgres://db:5432/blog"
auth:
  token_secret: "s3cret"
log:
  format: "text"
  level: "debug"
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	cfg, err := Load(path, true, nil)
	require.NoError(t, err)

	assert.Equal(t, ":3000", cfg.HTTP.Addr)
	assert.Equal(t, "postgres://db:5432/blog", cfg.Database.URL)
	assert.Equal(t, "s3cret", cfg.Auth.TokenSecret)
	assert.Equal(t, "text", cfg.Log.Format)
	assert.Equal(t, "debug", cfg.Log.Level)
	// Unset keys keep their defaults.
	assert.Equal(t, 30*time.Minute, cfg.Auth.AccessTTL)
}

func TestLoad_FlagsOverrideFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "inkpress.yaml")
	require.NoError(t, os.WriteFile(path, []byte("http:\n  addr: \":3000\"\n"), 0o600))

	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.String("http.addr", ":8080", "")
	require.NoError(t, flags.Parse([]string{"--http.addr", ":4000"}))

	cfg, err := Load(path, true, flags)
	require.NoError(t, err)
	assert.Equal(t, ":4000", cfg.HTTP.Addr)
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"), true, nil)
	require.Error(t, err)
	errutil.AssertErrorCode(t, err, "CONFIG_LOAD_FAILED")
}

func TestLoad_MissingImplicitFile(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"), false, nil)
	require.NoError(t, err, "default config path may be absent")
	assert.Equal(t, ":8080", cfg.HTTP.Addr)
}

func TestConfig_Validate(t *testing.T) {
	valid := Default()
	valid.Auth.TokenSecret = "s3cret"

	tests := []struct {
		name     string
		mutate   func(*Config)
		wantErr  bool
		field    string
	}{
		{name: "valid", mutate: func(*Config) {}},
		{
			name:    "missing database url",
			mutate:  func(c *Config) { c.Database.URL = "" },
			wantErr: true,
			field:   "database.url",
		},
		{
			name:    "missing token secret",
			mutate:  func(c *Config) { c.Auth.TokenSecret = "" },
			wantErr: true,
			field:   "auth.token_secret",
		},
		{
			name:    "non-positive access ttl",
			mutate:  func(c *Config) { c.Auth.AccessTTL = 0 },
			wantErr: true,
			field:   "auth.access_ttl",
		},
		{
			name:    "non-positive reset ttl",
			mutate:  func(c *Config) { c.Auth.ResetTTL = -time.Minute },
			wantErr: true,
			field:   "auth.reset_ttl",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid
			tt.mutate(&cfg)

			err := cfg.Validate()
			if tt.wantErr {
				require.Error(t, err)
				errutil.AssertErrorCode(t, err, "CONFIG_INVALID")
				errutil.AssertErrorContext(t, err, "field", tt.field)
			} else {
				require.NoError(t, err)
			}
		})
	}
}
