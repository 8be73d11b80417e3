package main

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const threeHours = `{"latitude":52.1,"longitude":5.12,"elevation":4,"utc_offset_seconds":0,"timezone":"GMT",
	"hourly":{"time":[1609459200,1609462800,1609466400],"nitrogen_dioxide":[21.5,null,19]}}`

func TestRunWritesDataset(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(threeHours))
	}))
	defer srv.Close()

	t.Setenv("OPEN_METEO_URL", srv.URL)
	t.Setenv("CACHE_BACKEND", "memory")
	t.Setenv("RATE_LIMIT_RPS", "0")

	out := filepath.Join(t.TempDir(), "dataset.csv")
	code := run([]string{"-start-date", "2021-01-01", "-end-date", "2021-01-01", "unused.csv", out})
	require.Equal(t, 0, code)

	raw, err := os.ReadFile(out)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(raw)), "\n")
	assert.Equal(t, []string{
		"date,nitrogen_dioxide",
		"2021-01-01 00:00:00+00:00,21.5",
		"2021-01-01 01:00:00+00:00,",
		"2021-01-01 02:00:00+00:00,19",
	}, lines)
}

func TestRunUpstreamFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":true,"reason":"invalid date"}`))
	}))
	defer srv.Close()

	t.Setenv("OPEN_METEO_URL", srv.URL)
	t.Setenv("CACHE_BACKEND", "memory")

	out := filepath.Join(t.TempDir(), "dataset.csv")
	assert.Equal(t, 1, run([]string{"in.csv", out}))

	_, err := os.Stat(out)
	assert.True(t, os.IsNotExist(err))
}

func TestRunInvalidParameters(t *testing.T) {
	t.Setenv("CACHE_BACKEND", "memory")
	assert.Equal(t, 2, run([]string{"-latitude", "200"}))
	assert.Equal(t, 2, run([]string{"-start-date", "2024-02-01", "-end-date", "2024-01-01"}))
}
