package airquality

import (
	"fmt"
	"net/url"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
)

// DateLayout is the calendar-date format used by the API and the CLI.
const DateLayout = "2006-01-02"

// hourlyVariables lists the hourly variables the air-quality API accepts.
var hourlyVariables = map[string]struct{}{
	"pm10":                  {},
	"pm2_5":                 {},
	"carbon_monoxide":       {},
	"carbon_dioxide":        {},
	"nitrogen_dioxide":      {},
	"sulphur_dioxide":       {},
	"ozone":                 {},
	"aerosol_optical_depth": {},
	"dust":                  {},
	"uv_index":              {},
	"uv_index_clear_sky":    {},
	"ammonia":               {},
	"methane":               {},
	"alder_pollen":          {},
	"birch_pollen":          {},
	"grass_pollen":          {},
	"mugwort_pollen":        {},
	"olive_pollen":          {},
	"ragweed_pollen":        {},
	"european_aqi":          {},
	"us_aqi":                {},
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	_ = v.RegisterValidation("aqvariable", func(fl validator.FieldLevel) bool {
		_, ok := hourlyVariables[fl.Field().String()]
		return ok
	})
	return v
}

// Query holds the parameters of one hourly air-quality request.
// StartDate and EndDate are calendar dates (midnight UTC). The requested
// hours are [StartDate, EndDate); see Window.
type Query struct {
	Latitude  float64   `validate:"gte=-90,lte=90"`
	Longitude float64   `validate:"gte=-180,lte=180"`
	Variable  string    `validate:"required,aqvariable"`
	StartDate time.Time `validate:"required"`
	EndDate   time.Time `validate:"required,gtefield=StartDate"`
}

// NewQuery parses the given dates and returns a validated Query.
func NewQuery(lat, lon float64, variable, startDate, endDate string) (Query, error) {
	start, err := ParseDate(startDate)
	if err != nil {
		return Query{}, fmt.Errorf("%w: start date: %v", ErrInvalidQuery, err)
	}
	end, err := ParseDate(endDate)
	if err != nil {
		return Query{}, fmt.Errorf("%w: end date: %v", ErrInvalidQuery, err)
	}

	q := Query{
		Latitude:  lat,
		Longitude: lon,
		Variable:  variable,
		StartDate: start,
		EndDate:   end,
	}
	if err := q.Validate(); err != nil {
		return Query{}, err
	}
	return q, nil
}

// Validate checks coordinates, the variable name and the date order.
func (q Query) Validate() error {
	if err := validate.Struct(q); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidQuery, err)
	}
	return nil
}

// Values encodes the query as API request parameters.
func (q Query) Values() url.Values {
	values := url.Values{}
	values.Set("latitude", strconv.FormatFloat(q.Latitude, 'f', -1, 64))
	values.Set("longitude", strconv.FormatFloat(q.Longitude, 'f', -1, 64))
	values.Set("hourly", q.Variable)
	values.Set("start_date", q.StartDate.Format(DateLayout))
	// The API's end_date is inclusive: ask for the last day of the window.
	_, end := q.Window()
	values.Set("end_date", end.AddDate(0, 0, -1).Format(DateLayout))
	return values
}

// Window returns the right-open time range [start, end) the query covers.
// A query whose start and end fall on the same day covers that whole day.
func (q Query) Window() (start, end time.Time) {
	start, end = q.StartDate.UTC(), q.EndDate.UTC()
	if !end.After(start) {
		end = start.AddDate(0, 0, 1)
	}
	return start, end
}

// ParseDate parses a YYYY-MM-DD calendar date as midnight UTC.
func ParseDate(s string) (time.Time, error) {
	return time.ParseInLocation(DateLayout, s, time.UTC)
}

// IsKnownVariable reports whether name is an hourly variable the API accepts.
func IsKnownVariable(name string) bool {
	_, ok := hourlyVariables[name]
	return ok
}
