// Package chart renders the rolling-average line chart.
package chart

import (
	"errors"
	"fmt"
	"io"
	"math"
	"path/filepath"
	"strings"
	"time"

	gochart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/i474232898/air-pollution/internal/airquality"
)

var (
	// ErrNoData is returned when there are no rows to plot.
	ErrNoData = errors.New("no data to plot")

	// ErrUnsupportedFormat is returned for image paths other than .png or .svg.
	ErrUnsupportedFormat = errors.New("unsupported image format")
)

// Format selects the image encoder.
type Format string

const (
	FormatPNG Format = "png"
	FormatSVG Format = "svg"
)

// FormatFromPath derives the image format from the file extension.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".png":
		return FormatPNG, nil
	case ".svg":
		return FormatSVG, nil
	default:
		return "", fmt.Errorf("%w: %q (use .png or .svg)", ErrUnsupportedFormat, filepath.Ext(path))
	}
}

// Options holds the fixed labels of the chart.
type Options struct {
	Title      string
	XLabel     string
	YLabel     string
	SeriesName string
	Width      int
	Height     int
}

// DefaultOptions returns the labels used for the nitrogen dioxide chart.
func DefaultOptions() Options {
	return Options{
		Title:      "1-Week Rolling Average of Nitrogen Dioxide Levels",
		XLabel:     "Date",
		YLabel:     "Concentration (µg/m³)",
		SeriesName: "1-Week Rolling Average",
		Width:      1024,
		Height:     576,
	}
}

var orange = drawing.Color{R: 255, G: 165, B: 0, A: 255}

// Render draws points as a single time-series line and encodes it to w.
// Missing values are skipped; when every value is missing the axes and
// legend are still drawn over the time span of points.
func Render(w io.Writer, format Format, points []airquality.Point, opts Options) error {
	if len(points) == 0 {
		return ErrNoData
	}

	var (
		xs []time.Time
		ys []float64
	)
	for _, p := range points {
		if math.IsNaN(p.Value) || math.IsInf(p.Value, 0) {
			continue
		}
		xs = append(xs, p.Time)
		ys = append(ys, p.Value)
	}

	style := gochart.Style{
		StrokeColor: orange,
		StrokeWidth: 2,
	}
	xr, yr := xRange(xs), yRange(ys)
	switch len(xs) {
	case 0:
		// go-chart needs one visible value; a lone stroke vertex draws nothing.
		xs, ys = []time.Time{points[0].Time}, []float64{0}
		xr = spanRange(points)
		yr = &gochart.ContinuousRange{Min: 0, Max: 1}
	case 1:
		// A single sample has no segment to stroke.
		style.DotColor = orange
		style.DotWidth = 4
	}

	graph := gochart.Chart{
		Title:      opts.Title,
		Width:      opts.Width,
		Height:     opts.Height,
		Background: gochart.Style{Padding: gochart.Box{Top: 48, Left: 16, Right: 24, Bottom: 72}},
		XAxis: gochart.XAxis{
			Name:           opts.XLabel,
			ValueFormatter: gochart.TimeValueFormatterWithFormat("2006-01-02"),
			Style:          gochart.Style{TextRotationDegrees: 45.0},
			Range:          xr,
		},
		YAxis: gochart.YAxis{
			Name:  opts.YLabel,
			Range: yr,
		},
		Series: []gochart.Series{
			gochart.TimeSeries{
				Name:    opts.SeriesName,
				Style:   style,
				XValues: xs,
				YValues: ys,
			},
		},
	}
	graph.Elements = []gochart.Renderable{gochart.Legend(&graph)}

	provider := gochart.PNG
	if format == FormatSVG {
		provider = gochart.SVG
	}
	if err := graph.Render(provider, w); err != nil {
		return fmt.Errorf("render chart: %w", err)
	}
	return nil
}

// xRange pins the x axis only when every sample shares one timestamp;
// otherwise the chart derives it from the data.
func xRange(xs []time.Time) gochart.Range {
	if len(xs) == 0 {
		return nil
	}
	first, last := timeBounds(xs)
	if !first.Equal(last) {
		return nil
	}
	return &gochart.ContinuousRange{
		Min: gochart.TimeToFloat64(first.Add(-12 * time.Hour)),
		Max: gochart.TimeToFloat64(first.Add(12 * time.Hour)),
	}
}

// spanRange covers the timestamps of points, missing values included.
func spanRange(points []airquality.Point) gochart.Range {
	xs := make([]time.Time, len(points))
	for i, p := range points {
		xs[i] = p.Time
	}
	if r := xRange(xs); r != nil {
		return r
	}
	first, last := timeBounds(xs)
	return &gochart.ContinuousRange{Min: gochart.TimeToFloat64(first), Max: gochart.TimeToFloat64(last)}
}

func timeBounds(xs []time.Time) (first, last time.Time) {
	first, last = xs[0], xs[0]
	for _, x := range xs[1:] {
		if x.Before(first) {
			first = x
		}
		if x.After(last) {
			last = x
		}
	}
	return first, last
}

// yRange pins the y axis around a flat series.
func yRange(ys []float64) gochart.Range {
	if len(ys) == 0 {
		return nil
	}
	lo, hi := ys[0], ys[0]
	for _, y := range ys[1:] {
		lo = math.Min(lo, y)
		hi = math.Max(hi, y)
	}
	if lo != hi {
		return nil
	}
	pad := math.Max(1, math.Abs(lo)*0.1)
	return &gochart.ContinuousRange{Min: lo - pad, Max: hi + pad}
}
