package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func isolate(t *testing.T) {
	t.Helper()
	t.Chdir(t.TempDir())
	t.Setenv(ConfigPathEnvVar, "")
}

func TestLoad_Defaults(t *testing.T) {
	isolate(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Server.Port)
	assert.Equal(t, 10*time.Second, cfg.Server.ShutdownTimeout)
	assert.Equal(t, []string{"*"}, cfg.Server.CORSOrigins)
	assert.Equal(t, ScoringBaseline, cfg.Scoring.Mode)

	ac := cfg.AnalysisEngineConfig()
	assert.Equal(t, 12.9716, ac.Rules.Geofence.CenterLat)
	assert.Equal(t, 77.5946, ac.Rules.Geofence.CenterLon)
	assert.Equal(t, 5000.0, ac.Rules.Geofence.RadiusMeters)
	assert.Equal(t, 30.0, ac.Rules.LongStop.ThresholdMinutes)
	assert.Equal(t, 10.0, ac.Rules.LongStop.ProximityMeters)
	assert.Equal(t, 5.0, ac.Rules.MissingUpdate.ThresholdMinutes)
	assert.Equal(t, 10.0, ac.Features.Stop.ThresholdMeters)
	assert.Equal(t, 120.0, ac.Features.Stop.MinStopSeconds)
	assert.Equal(t, 120.0, ac.Features.ExpectedIntervalSeconds)
	assert.Equal(t, 30.0, ac.Features.ToleranceSeconds)
}

func TestLoad_FileThenEnv(t *testing.T) {
	isolate(t)

	path := filepath.Join(t.TempDir(), "triprisk.yaml")
	yaml := `
server:
  port: ":9000"
rules:
  geofence:
    radius_m: 2500
  long_stop:
    threshold_minutes: 20
scoring:
  timeout: 5s
`
	require.NoError(t, os.WriteFile(path, []byte(yaml), 0o600))
	t.Setenv(ConfigPathEnvVar, path)
	t.Setenv("TRIPRISK_RULES__LONG_STOP__THRESHOLD_MINUTES", "45")
	t.Setenv("TRIPRISK_SERVER__CORS_ORIGINS", "http://a.example, http://b.example")
	t.Setenv("TRIPRISK_AUTH__JWT_SECRET", "s3cret")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":9000", cfg.Server.Port)
	assert.Equal(t, 2500.0, cfg.Rules.Geofence.RadiusM)
	assert.Equal(t, 12.9716, cfg.Rules.Geofence.CenterLat, "untouched keys keep defaults")
	assert.Equal(t, 45.0, cfg.Rules.LongStop.ThresholdMinutes, "env overrides file")
	assert.Equal(t, 5*time.Second, cfg.Scoring.Timeout)
	assert.Equal(t, []string{"http://a.example", "http://b.example"}, cfg.Server.CORSOrigins)
	assert.Equal(t, "s3cret", cfg.Auth.JWTSecret)
}

func TestLoad_MissingConfigFile(t *testing.T) {
	isolate(t)
	t.Setenv(ConfigPathEnvVar, filepath.Join(t.TempDir(), "nope.yaml"))

	_, err := Load()
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		errMsg string
	}{
		{"defaults", func(*Config) {}, ""},
		{"radius", func(c *Config) { c.Rules.Geofence.RadiusM = 0 }, "radius_m"},
		{"center", func(c *Config) { c.Rules.Geofence.CenterLat = 91 }, "center_lat"},
		{"long stop", func(c *Config) { c.Rules.LongStop.ThresholdMinutes = -1 }, "long_stop"},
		{"missing update", func(c *Config) { c.Rules.MissingUpdate.ThresholdMinutes = 0 }, "missing_update"},
		{"mode", func(c *Config) { c.Scoring.Mode = "oracle" }, "scoring.mode"},
		{"remote url", func(c *Config) { c.Scoring.Mode = ScoringRemote }, "remote_url"},
		{"normalizer", func(c *Config) { c.Scoring.NormalizerMax = c.Scoring.NormalizerMin }, "normalizer_max"},
		{"rate limit", func(c *Config) { c.RateLimit.Burst = 0 }, "burst"},
		{"rate limit disabled", func(c *Config) { c.RateLimit.Enabled = false; c.RateLimit.Burst = 0 }, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := defaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.errMsg == "" {
				assert.NoError(t, err)
			} else {
				assert.ErrorContains(t, err, tt.errMsg)
			}
		})
	}
}

func TestEnvTransformFunc(t *testing.T) {
	assert.Equal(t, "server.port", envTransformFunc("TRIPRISK_SERVER__PORT"))
	assert.Equal(t, "rate_limit.requests_per_second", envTransformFunc("TRIPRISK_RATE_LIMIT__REQUESTS_PER_SECOND"))
}
