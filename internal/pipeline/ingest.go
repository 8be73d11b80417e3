// Package pipeline wires the ingestion and visualization steps together.
package pipeline

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/i474232898/air-pollution/internal/airquality"
	"github.com/i474232898/air-pollution/internal/dataset"
)

// IngestResult describes the dataset written by Ingest.
type IngestResult struct {
	Path     string
	Rows     int
	Response *airquality.Response
}

// Ingest fetches the hourly series for q and writes the hours of
// q.Window() to outputPath. Nothing is written unless the whole series
// was fetched and assembled.
func Ingest(ctx context.Context, provider airquality.Provider, q airquality.Query, outputPath string, log *zap.SugaredLogger) (*IngestResult, error) {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	if err := q.Validate(); err != nil {
		return nil, err
	}

	log.Infow("Processing dataset...",
		"provider", provider.Name(),
		"variable", q.Variable,
		"start_date", q.StartDate.Format(airquality.DateLayout),
		"end_date", q.EndDate.Format(airquality.DateLayout),
	)

	resp, err := provider.FetchHourly(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", q.Variable, err)
	}

	log.Infof("Coordinates: %g°N %g°E", resp.Latitude, resp.Longitude)
	log.Infof("Elevation: %g m asl", resp.Elevation)
	log.Infof("Timezone difference to GMT+0: %ds", resp.UTCOffsetSeconds)

	series, err := resp.Series(q.Variable)
	if err != nil {
		return nil, fmt.Errorf("assemble %s series: %w", q.Variable, err)
	}
	series = series.Between(q.Window())
	if series.Len() == 0 {
		return nil, fmt.Errorf("assemble %s series: %w", q.Variable, airquality.ErrEmptyResponse)
	}

	if err := dataset.Write(outputPath, q.Variable, series.Points); err != nil {
		return nil, fmt.Errorf("write dataset: %w", err)
	}

	log.Infow("Processing dataset complete.", "path", outputPath, "rows", series.Len())
	return &IngestResult{Path: outputPath, Rows: series.Len(), Response: resp}, nil
}
