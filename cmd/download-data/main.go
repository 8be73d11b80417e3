// Command download-data fetches hourly air-quality data from Open-Meteo
// and writes it as a CSV dataset.
//
// Usage:
//
//	download-data [flags] [input_path] [output_path]
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/i474232898/air-pollution/internal/airquality"
	"github.com/i474232898/air-pollution/internal/airquality/providers"
	"github.com/i474232898/air-pollution/internal/config"
	"github.com/i474232898/air-pollution/internal/logger"
	"github.com/i474232898/air-pollution/internal/pipeline"
	"github.com/i474232898/air-pollution/internal/scheduler"
	"github.com/i474232898/air-pollution/internal/store"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	log := logger.GetLogger()
	defer logger.Close()

	config.LoadDotEnv(log)

	// Load configuration.
	cfg, err := config.Load()
	if err != nil {
		log.Errorf("failed to load config: %v", err)
		return 1
	}

	fs := flag.NewFlagSet("download-data", flag.ContinueOnError)
	lat := fs.Float64("latitude", cfg.Query.Latitude, "latitude of the location")
	lon := fs.Float64("longitude", cfg.Query.Longitude, "longitude of the location")
	variable := fs.String("variable", cfg.Query.Variable, "hourly variable to download")
	start := fs.String("start-date", cfg.Query.StartDate.Format(airquality.DateLayout), "first day (YYYY-MM-DD)")
	end := fs.String("end-date", cfg.Query.EndDate.Format(airquality.DateLayout), "last day (YYYY-MM-DD)")
	every := fs.Duration("every", 0, "re-download on this interval until interrupted (0 = run once)")
	fs.Usage = func() {
		fmt.Fprintf(fs.Output(), "Usage: download-data [flags] [input_path] [output_path]\n")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		return 2
	}

	inputPath := filepath.Join(cfg.RawDataDir, "dataset.csv")
	outputPath := filepath.Join(cfg.ProcessedDataDir, "dataset.csv")
	if fs.NArg() > 0 {
		inputPath = fs.Arg(0)
	}
	if fs.NArg() > 1 {
		outputPath = fs.Arg(1)
	}
	// The request is fully described by the query; the raw input is not read.
	log.Debugw("input path not used", "input_path", inputPath)

	q, err := airquality.NewQuery(*lat, *lon, *variable, *start, *end)
	if err != nil {
		log.Errorf("invalid request parameters: %v", err)
		return 2
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cache, closeCache, err := store.Open(ctx, store.Options{
		Backend:       cfg.CacheBackend,
		Dir:           cfg.CacheDir,
		RedisAddr:     cfg.RedisAddr,
		RedisPassword: cfg.RedisPassword,
		RedisDB:       cfg.RedisDB,
	})
	if err != nil {
		log.Errorf("failed to open response cache: %v", err)
		return 1
	}
	defer closeCache()

	clientCfg := cfg.ClientConfig()
	clientCfg.Cache = cache
	clientCfg.Logger = log
	provider := providers.NewOpenMeteoProvider(clientCfg)

	job := func(ctx context.Context) error {
		_, err := pipeline.Ingest(ctx, provider, q, outputPath, log)
		return err
	}

	if *every <= 0 {
		if err := job(ctx); err != nil {
			log.Errorf("download failed: %v", err)
			return 1
		}
		return 0
	}

	// Scheduler that periodically refreshes the dataset.
	sched := scheduler.New(*every, cfg.HTTPTimeout*2, job, log)
	if err := sched.Start(); err != nil {
		log.Errorf("failed to start scheduler: %v", err)
		return 1
	}
	defer sched.Stop()

	<-ctx.Done()
	log.Info("shutting down")
	return 0
}
