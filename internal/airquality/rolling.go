package airquality

import (
	"math"
	"time"
)

// RollingWindow is the trailing window used for the rolling average chart.
const RollingWindow = 7 * 24 * time.Hour

// RollingMean computes, for every point, the mean of the non-missing values
// whose timestamps fall in (t-window, t]. The result is NaN only when that
// window holds no measurement.
//
// Points are expected in chronological order and are not re-sorted: the
// window start only ever moves forward, so out-of-order input produces a
// different (wrong) average for the affected points.
func RollingMean(points []Point, window time.Duration) []Point {
	out := make([]Point, len(points))

	var (
		sum   float64
		count int
		left  int
	)

	for i, p := range points {
		if !p.Missing() {
			sum += p.Value
			count++
		}

		cutoff := p.Time.Add(-window)
		for left <= i && !points[left].Time.After(cutoff) {
			if !points[left].Missing() {
				sum -= points[left].Value
				count--
			}
			left++
		}

		mean := math.NaN()
		if count > 0 {
			mean = sum / float64(count)
		} else {
			// Drop accumulated rounding error once the window is empty.
			sum = 0
		}
		out[i] = Point{Time: p.Time, Value: mean}
	}

	return out
}
