package airquality

import (
	"context"
)

// Provider abstracts an hourly air-quality data source (e.g. Open-Meteo).
type Provider interface {
	Name() string
	FetchHourly(ctx context.Context, q Query) (*Response, error)
}
