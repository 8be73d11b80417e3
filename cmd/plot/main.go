// Command plot renders the 7-day rolling average of a downloaded dataset.
//
// Usage:
//
//	plot [flags] [input_path] [output_path]
package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/i474232898/air-pollution/internal/config"
	"github.com/i474232898/air-pollution/internal/logger"
	"github.com/i474232898/air-pollution/internal/pipeline"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	log := logger.GetLogger()
	defer logger.Close()

	config.LoadDotEnv(log)

	cfg := config.LoadPlot()

	opts := pipeline.DefaultVisualizeOptions()

	fs := flag.NewFlagSet("plot", flag.ContinueOnError)
	fs.StringVar(&opts.Column, "column", cfg.Column, "value column to average")
	fs.StringVar(&opts.Chart.Title, "title", opts.Chart.Title, "chart title")
	fs.IntVar(&opts.Chart.Width, "width", opts.Chart.Width, "image width in pixels")
	fs.IntVar(&opts.Chart.Height, "height", opts.Chart.Height, "image height in pixels")
	fs.Usage = func() {
		fmt.Fprintf(fs.Output(), "Usage: plot [flags] [input_path] [output_path]\n")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		return 2
	}

	inputPath := filepath.Join(cfg.ProcessedDataDir, "dataset.csv")
	outputPath := filepath.Join(cfg.FiguresDir, "plot.png")
	if fs.NArg() > 0 {
		inputPath = fs.Arg(0)
	}
	if fs.NArg() > 1 {
		outputPath = fs.Arg(1)
	}

	if err := pipeline.Visualize(inputPath, outputPath, opts, log); err != nil {
		log.Errorf("plot failed: %v", err)
		return 1
	}
	return 0
}
