package pipeline

import (
	"fmt"
	"io"

	"go.uber.org/zap"

	"github.com/i474232898/air-pollution/internal/airquality"
	"github.com/i474232898/air-pollution/internal/chart"
	"github.com/i474232898/air-pollution/internal/dataset"
)

// VisualizeOptions controls which column is plotted and how.
type VisualizeOptions struct {
	Column string
	Chart  chart.Options
}

// DefaultVisualizeOptions plots the 7-day nitrogen dioxide average.
func DefaultVisualizeOptions() VisualizeOptions {
	return VisualizeOptions{
		Column: "nitrogen_dioxide",
		Chart:  chart.DefaultOptions(),
	}
}

// Visualize reads the dataset at inputPath, computes the 7-day trailing
// mean and writes the chart to outputPath. The image format follows the
// output extension. No image is written on failure.
func Visualize(inputPath, outputPath string, opts VisualizeOptions, log *zap.SugaredLogger) error {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	if opts.Column == "" {
		opts.Column = DefaultVisualizeOptions().Column
	}

	format, err := chart.FormatFromPath(outputPath)
	if err != nil {
		return err
	}

	log.Infow("Generating plot from data...", "input", inputPath, "column", opts.Column)

	points, err := dataset.Read(inputPath, opts.Column)
	if err != nil {
		return fmt.Errorf("read dataset: %w", err)
	}

	rolling := airquality.RollingMean(points, airquality.RollingWindow)

	err = dataset.WriteFileAtomic(outputPath, func(w io.Writer) error {
		return chart.Render(w, format, rolling, opts.Chart)
	})
	if err != nil {
		return fmt.Errorf("write plot: %w", err)
	}

	log.Infow("Plot generation complete.", "path", outputPath, "rows", len(points))
	return nil
}
