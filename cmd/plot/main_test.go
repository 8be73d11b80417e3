package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunRendersPlot(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "dataset.csv")
	out := filepath.Join(dir, "figures", "plot.png")
	csv := "date,nitrogen_dioxide\n" +
		"2021-01-01 00:00:00+00:00,20\n" +
		"2021-01-01 01:00:00+00:00,\n" +
		"2021-01-01 02:00:00+00:00,24\n"
	require.NoError(t, os.WriteFile(in, []byte(csv), 0o644))

	assert.Equal(t, 0, run([]string{in, out}))

	info, err := os.Stat(out)
	require.NoError(t, err)
	assert.NotZero(t, info.Size())
}

func TestRunMissingInputFails(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "plot.png")

	assert.Equal(t, 1, run([]string{filepath.Join(dir, "missing.csv"), out}))

	_, err := os.Stat(out)
	assert.True(t, os.IsNotExist(err))
}

func TestRunBadFlag(t *testing.T) {
	assert.Equal(t, 2, run([]string{"-no-such-flag"}))
}

func TestRunIgnoresDownloaderSettings(t *testing.T) {
	t.Setenv("CACHE_BACKEND", "redis")
	t.Setenv("AQ_LATITUDE", "200")

	dir := t.TempDir()
	in := filepath.Join(dir, "dataset.csv")
	out := filepath.Join(dir, "plot.svg")
	require.NoError(t, os.WriteFile(in, []byte("date,nitrogen_dioxide\n2021-01-01 00:00:00+00:00,20\n"), 0o644))

	assert.Equal(t, 0, run([]string{in, out}))
}
