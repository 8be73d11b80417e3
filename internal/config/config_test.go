package config

import (
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/i474232898/air-pollution/internal/airquality"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 52.0908, cfg.Query.Latitude)
	assert.Equal(t, 5.1222, cfg.Query.Longitude)
	assert.Equal(t, "nitrogen_dioxide", cfg.Query.Variable)
	assert.Equal(t, "2021-01-01", cfg.Query.StartDate.Format(airquality.DateLayout))
	assert.Equal(t, "2024-12-31", cfg.Query.EndDate.Format(airquality.DateLayout))

	assert.Equal(t, 5, cfg.MaxRetries)
	assert.Equal(t, 200*time.Millisecond, cfg.BackoffInitial)
	assert.Equal(t, time.Hour, cfg.CacheTTL)
	assert.Equal(t, CacheFile, cfg.CacheBackend)
	assert.Equal(t, ".cache", cfg.CacheDir)
	assert.Equal(t, filepath.Join("data", "processed"), cfg.ProcessedDataDir)
	assert.Equal(t, filepath.Join("reports", "figures"), cfg.FiguresDir)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("AQ_LATITUDE", "48.85")
	t.Setenv("AQ_LONGITUDE", "2.35")
	t.Setenv("AQ_VARIABLE", "ozone")
	t.Setenv("AQ_START_DATE", "2023-05-01")
	t.Setenv("AQ_END_DATE", "2023-05-31")
	t.Setenv("HTTP_RETRIES", "2")
	t.Setenv("CACHE_TTL", "10m")
	t.Setenv("CACHE_BACKEND", "memory")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 48.85, cfg.Query.Latitude)
	assert.Equal(t, "ozone", cfg.Query.Variable)
	assert.Equal(t, 2, cfg.MaxRetries)
	assert.Equal(t, 10*time.Minute, cfg.CacheTTL)
	assert.Equal(t, CacheMemory, cfg.CacheBackend)

	cc := cfg.ClientConfig()
	assert.Equal(t, 2, cc.Backoff.MaxRetries)
	assert.Equal(t, 10*time.Minute, cc.CacheTTL)
	assert.Equal(t, cfg.HTTPTimeout, cc.HTTPClient.Timeout)
}

func TestLoadInvalid(t *testing.T) {
	tests := map[string][2]string{
		"bad latitude":      {"AQ_LATITUDE", "north"},
		"out of range":      {"AQ_LATITUDE", "123"},
		"bad duration":      {"CACHE_TTL", "an hour"},
		"bad backend":       {"CACHE_BACKEND", "sqlite"},
		"redis without url": {"CACHE_BACKEND", "redis"},
		"unknown variable":  {"AQ_VARIABLE", "temperature"},
		"bad retries":       {"HTTP_RETRIES", "five"},
		"bad burst":         {"RATE_LIMIT_BURST", "1.5"},
		"bad redis db":      {"REDIS_DB", "zero"},
	}

	for name, kv := range tests {
		t.Run(name, func(t *testing.T) {
			t.Setenv(kv[0], kv[1])
			_, err := Load()
			require.Error(t, err)
			if strings.HasPrefix(kv[0], "AQ_") || kv[0] == "CACHE_BACKEND" {
				return
			}
			assert.ErrorContains(t, err, kv[0])
		})
	}
}

func TestLoadPlotIgnoresIngestionSettings(t *testing.T) {
	t.Setenv("AQ_LATITUDE", "north")
	t.Setenv("AQ_START_DATE", "yesterday")
	t.Setenv("CACHE_BACKEND", "redis")
	t.Setenv("HTTP_RETRIES", "five")
	t.Setenv("AQ_VARIABLE", "ozone")
	t.Setenv("FIGURES_DIR", "out")

	cfg := LoadPlot()
	assert.Equal(t, "ozone", cfg.Column)
	assert.Equal(t, "out", cfg.FiguresDir)
	assert.Equal(t, filepath.Join("data", "processed"), cfg.ProcessedDataDir)
}
