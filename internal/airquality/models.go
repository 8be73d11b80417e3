package airquality

import (
	"math"
	"time"
)

// Point is a single timestamped measurement. Value is NaN when the
// upstream source has no measurement for that hour.
type Point struct {
	Time  time.Time
	Value float64
}

// Missing reports whether the point carries no measurement.
func (p Point) Missing() bool {
	return math.IsNaN(p.Value)
}

// Series is an ordered sequence of points for one variable.
type Series struct {
	Variable string
	Unit     string
	Points   []Point
}

// Len returns the number of points in the series.
func (s Series) Len() int {
	return len(s.Points)
}

// Between returns the points with start <= Time < end.
func (s Series) Between(start, end time.Time) Series {
	out := Series{Variable: s.Variable, Unit: s.Unit}
	for _, p := range s.Points {
		if p.Time.Before(start) || !p.Time.Before(end) {
			continue
		}
		out.Points = append(out.Points, p)
	}
	return out
}

// Variable holds the raw values the API returned for one hourly variable.
type Variable struct {
	Name   string
	Unit   string
	Values []float64
}

// Hourly is the hourly block of an API response. The time axis is
// described by Start, End and Interval rather than listed explicitly;
// End is exclusive.
type Hourly struct {
	Start     time.Time
	End       time.Time
	Interval  time.Duration
	Variables []Variable
}

// Response is the normalized API response for one location.
type Response struct {
	Latitude         float64
	Longitude        float64
	Elevation        float64
	UTCOffsetSeconds int
	Timezone         string
	Hourly           Hourly
}

// Series builds the hourly series for the named variable. The number of
// values must match the number of timestamps in [Start, End).
func (r *Response) Series(name string) (Series, error) {
	for _, v := range r.Hourly.Variables {
		if v.Name != name {
			continue
		}
		points, err := NewHourlySeries(r.Hourly.Start, r.Hourly.End, r.Hourly.Interval, v.Values)
		if err != nil {
			return Series{}, err
		}
		return Series{Variable: v.Name, Unit: v.Unit, Points: points}, nil
	}
	return Series{}, ErrVariableNotFound
}
