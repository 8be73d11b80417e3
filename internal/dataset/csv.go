// Package dataset reads and writes the tabular CSV form of an hourly series.
package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/i474232898/air-pollution/internal/airquality"
)

// DateColumn is the name of the timestamp column.
const DateColumn = "date"

// DateLayout is ISO-8601 with an explicit UTC offset.
const DateLayout = "2006-01-02 15:04:05-07:00"

var (
	// ErrMissingColumn is returned when the header lacks a required column.
	ErrMissingColumn = errors.New("missing column")

	// ErrInvalidDate is returned when a date cell cannot be parsed.
	ErrInvalidDate = errors.New("invalid date")

	// ErrInvalidValue is returned when a value cell is not a number.
	ErrInvalidValue = errors.New("invalid value")
)

var dateLayouts = []string{
	DateLayout,
	time.RFC3339Nano,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// Encode writes the header and one row per point. Missing values are
// written as empty cells.
func Encode(w io.Writer, column string, points []airquality.Point) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{DateColumn, column}); err != nil {
		return err
	}
	for _, p := range points {
		value := ""
		if !p.Missing() {
			value = strconv.FormatFloat(p.Value, 'f', -1, 64)
		}
		if err := cw.Write([]string{p.Time.UTC().Format(DateLayout), value}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// Decode parses rows in file order. Columns are located by header name,
// extra columns are ignored.
func Decode(r io.Reader, column string) ([]airquality.Point, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: empty file", ErrMissingColumn)
	}
	if err != nil {
		return nil, err
	}

	dateIdx, valueIdx := -1, -1
	for i, name := range header {
		switch strings.TrimSpace(strings.TrimPrefix(name, "\ufeff")) {
		case DateColumn:
			dateIdx = i
		case column:
			valueIdx = i
		}
	}
	if dateIdx < 0 {
		return nil, fmt.Errorf("%w: %s", ErrMissingColumn, DateColumn)
	}
	if valueIdx < 0 {
		return nil, fmt.Errorf("%w: %s", ErrMissingColumn, column)
	}

	var points []airquality.Point
	for line := 2; ; line++ {
		record, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		if dateIdx >= len(record) || valueIdx >= len(record) {
			return nil, fmt.Errorf("line %d: %w: short row", line, ErrMissingColumn)
		}

		ts, err := ParseDate(record[dateIdx])
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		value, err := parseValue(record[valueIdx])
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		points = append(points, airquality.Point{Time: ts, Value: value})
	}
	return points, nil
}

// ParseDate accepts the layouts pandas and RFC 3339 writers produce.
// Dates without an offset are taken as UTC.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if ts, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			return ts.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
}

func parseValue(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if s == "" || strings.EqualFold(s, "nan") {
		return math.NaN(), nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidValue, s)
	}
	return v, nil
}

// Write encodes points to path. The file is replaced atomically, so a
// failed write leaves any previous file untouched.
func Write(path, column string, points []airquality.Point) error {
	return WriteFileAtomic(path, func(w io.Writer) error {
		return Encode(w, column, points)
	})
}

// Read decodes the dataset at path.
func Read(path, column string) ([]airquality.Point, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	points, err := Decode(f, column)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return points, nil
}

// WriteFileAtomic writes via a temp file in the target directory and
// renames it into place. Parent directories are created as needed.
func WriteFileAtomic(path string, write func(io.Writer) error) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if err := tmp.Chmod(0o644); err != nil {
		tmp.Close()
		return err
	}
	if err := write(tmp); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}
