package dataset

import (
	"bytes"
	"errors"
	"io"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/i474232898/air-pollution/internal/airquality"
)

func samplePoints() []airquality.Point {
	start := time.Date(2021, 1, 1, 0, 0, 0, 0, time.UTC)
	return []airquality.Point{
		{Time: start, Value: 23.4},
		{Time: start.Add(time.Hour), Value: math.NaN()},
		{Time: start.Add(2 * time.Hour), Value: 0.1 + 0.2},
	}
}

func TestEncodeFormat(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, "nitrogen_dioxide", samplePoints()))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 4)
	assert.Equal(t, "date,nitrogen_dioxide", lines[0])
	assert.Equal(t, "2021-01-01 00:00:00+00:00,23.4", lines[1])
	assert.Equal(t, "2021-01-01 01:00:00+00:00,", lines[2])
	assert.True(t, strings.HasPrefix(lines[3], "2021-01-01 02:00:00+00:00,0.3"))
}

func TestWriteReadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "processed", "dataset.csv")
	want := samplePoints()

	require.NoError(t, Write(path, "nitrogen_dioxide", want))

	got, err := Read(path, "nitrogen_dioxide")
	require.NoError(t, err)
	require.Len(t, got, len(want))

	for i := range want {
		assert.True(t, want[i].Time.Equal(got[i].Time), "row %d time", i)
		if want[i].Missing() {
			assert.True(t, got[i].Missing(), "row %d should be missing", i)
			continue
		}
		assert.Equal(t, want[i].Value, got[i].Value, "row %d value", i)
	}
}

func TestWriteOverwritesAndLeavesNoTempFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "dataset.csv")

	require.NoError(t, Write(path, "nitrogen_dioxide", samplePoints()))
	require.NoError(t, Write(path, "nitrogen_dioxide", samplePoints()[:1]))

	got, err := Read(path, "nitrogen_dioxide")
	require.NoError(t, err)
	assert.Len(t, got, 1)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestWriteFileAtomicKeepsOldFileOnFailure(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dataset.csv")
	require.NoError(t, os.WriteFile(path, []byte("previous"), 0o644))

	err := WriteFileAtomic(path, func(w io.Writer) error {
		_, _ = w.Write([]byte("partial"))
		return errors.New("boom")
	})
	require.Error(t, err)

	raw, readErr := os.ReadFile(path)
	require.NoError(t, readErr)
	assert.Equal(t, "previous", string(raw))
}

func TestDecodeAcceptsPandasAndRFC3339Dates(t *testing.T) {
	input := "date,nitrogen_dioxide,pm10\n" +
		"2021-01-01 00:00:00+00:00,10,1\n" +
		"2021-01-01T01:00:00Z,NaN,2\n" +
		"2021-01-01 03:00:00+02:00,12.5,3\n"

	got, err := Decode(strings.NewReader(input), "nitrogen_dioxide")
	require.NoError(t, err)
	require.Len(t, got, 3)

	assert.Equal(t, time.Date(2021, 1, 1, 0, 0, 0, 0, time.UTC), got[0].Time)
	assert.True(t, got[1].Missing())
	assert.Equal(t, time.Date(2021, 1, 1, 1, 0, 0, 0, time.UTC), got[2].Time)
	assert.Equal(t, 12.5, got[2].Value)
}

func TestDecodeColumnOrderIsByName(t *testing.T) {
	input := "nitrogen_dioxide,date\n5,2021-01-01 00:00:00+00:00\n"

	got, err := Decode(strings.NewReader(input), "nitrogen_dioxide")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, 5.0, got[0].Value)
}

func TestDecodeErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  error
	}{
		{"empty file", "", ErrMissingColumn},
		{"no date column", "time,nitrogen_dioxide\nx,1\n", ErrMissingColumn},
		{"no value column", "date,ozone\n2021-01-01,1\n", ErrMissingColumn},
		{"bad date", "date,nitrogen_dioxide\nyesterday,1\n", ErrInvalidDate},
		{"bad value", "date,nitrogen_dioxide\n2021-01-01,high\n", ErrInvalidValue},
		{"short row", "date,nitrogen_dioxide\n2021-01-01\n", ErrMissingColumn},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode(strings.NewReader(tt.input), "nitrogen_dioxide")
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestReadMissingFile(t *testing.T) {
	_, err := Read(filepath.Join(t.TempDir(), "nope.csv"), "nitrogen_dioxide")
	assert.ErrorIs(t, err, os.ErrNotExist)
}
