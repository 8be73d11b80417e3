package airquality

import (
	"fmt"
	"time"
)

// HourlyRange returns the timestamps start, start+interval, ... up to but
// excluding end. Its length is ceil((end-start)/interval).
func HourlyRange(start, end time.Time, interval time.Duration) ([]time.Time, error) {
	if interval <= 0 {
		return nil, fmt.Errorf("%w: non-positive interval %s", ErrMalformedResponse, interval)
	}
	if end.Before(start) {
		return nil, fmt.Errorf("%w: end %s before start %s", ErrMalformedResponse, end, start)
	}

	span := end.Sub(start)
	n := int(span / interval)
	if span%interval != 0 {
		n++
	}

	times := make([]time.Time, 0, n)
	for i := 0; i < n; i++ {
		times = append(times, start.Add(time.Duration(i)*interval).UTC())
	}
	return times, nil
}

// NewHourlySeries pairs values with the timestamps of [start, end).
// Values are passed through unchanged, NaN included.
func NewHourlySeries(start, end time.Time, interval time.Duration, values []float64) ([]Point, error) {
	times, err := HourlyRange(start, end, interval)
	if err != nil {
		return nil, err
	}
	if len(times) != len(values) {
		return nil, fmt.Errorf("%w: %d timestamps but %d values", ErrMalformedResponse, len(times), len(values))
	}

	points := make([]Point, len(times))
	for i, ts := range times {
		points[i] = Point{Time: ts, Value: values[i]}
	}
	return points, nil
}
