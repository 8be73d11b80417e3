package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/i474232898/air-pollution/internal/airquality"
	"github.com/i474232898/air-pollution/internal/airquality/providers"
)

// Cache backends.
const (
	CacheFile   = "file"
	CacheRedis  = "redis"
	CacheMemory = "memory"
)

// Paths is the on-disk data layout shared by both commands.
type Paths struct {
	RawDataDir       string
	ProcessedDataDir string
	FiguresDir       string
}

// PlotConfig holds the settings the plot command reads. It skips the
// ingestion settings so a bad downloader setting does not block plotting.
type PlotConfig struct {
	Paths
	Column string
}

type AppConfig struct {
	// Query is the default request; the CLI may override parts of it.
	Query airquality.Query

	// Open-Meteo client.
	BaseURL        string
	HTTPTimeout    time.Duration
	MaxRetries     int
	BackoffInitial time.Duration
	BackoffMax     time.Duration
	RateLimitRPS   float64
	RateLimitBurst int

	// Response cache.
	CacheBackend  string
	CacheDir      string
	CacheTTL      time.Duration
	RedisAddr     string
	RedisPassword string
	RedisDB       int

	Paths
}

// LoadDotEnv loads a .env file if one exists.
func LoadDotEnv(log *zap.SugaredLogger) {
	if err := godotenv.Load(); err != nil && log != nil {
		log.Debugf("no .env file loaded: %v", err)
	}
}

// Load reads configuration from environment with sensible defaults.
func Load() (*AppConfig, error) {
	cfg := &AppConfig{}

	lat, err := getenvFloat("AQ_LATITUDE", 52.0908)
	if err != nil {
		return nil, err
	}
	lon, err := getenvFloat("AQ_LONGITUDE", 5.1222)
	if err != nil {
		return nil, err
	}
	q, err := airquality.NewQuery(
		lat,
		lon,
		getenvDefault("AQ_VARIABLE", "nitrogen_dioxide"),
		getenvDefault("AQ_START_DATE", "2021-01-01"),
		getenvDefault("AQ_END_DATE", "2024-12-31"),
	)
	if err != nil {
		return nil, fmt.Errorf("invalid AQ_* query settings: %w", err)
	}
	cfg.Query = q

	cfg.BaseURL = getenvDefault("OPEN_METEO_URL", providers.DefaultAirQualityURL)
	if cfg.HTTPTimeout, err = getenvDuration("HTTP_TIMEOUT", "30s"); err != nil {
		return nil, err
	}
	if cfg.MaxRetries, err = getenvInt("HTTP_RETRIES", 5); err != nil {
		return nil, err
	}
	if cfg.BackoffInitial, err = getenvDuration("HTTP_BACKOFF", "200ms"); err != nil {
		return nil, err
	}
	if cfg.BackoffMax, err = getenvDuration("HTTP_BACKOFF_MAX", "2m"); err != nil {
		return nil, err
	}
	if cfg.RateLimitRPS, err = getenvFloat("RATE_LIMIT_RPS", 5); err != nil {
		return nil, err
	}
	if cfg.RateLimitBurst, err = getenvInt("RATE_LIMIT_BURST", 1); err != nil {
		return nil, err
	}

	cfg.CacheBackend = strings.ToLower(getenvDefault("CACHE_BACKEND", CacheFile))
	switch cfg.CacheBackend {
	case CacheFile, CacheRedis, CacheMemory:
	default:
		return nil, fmt.Errorf("invalid CACHE_BACKEND %q", cfg.CacheBackend)
	}
	cfg.CacheDir = getenvDefault("CACHE_DIR", ".cache")
	if cfg.CacheTTL, err = getenvDuration("CACHE_TTL", "1h"); err != nil {
		return nil, err
	}
	cfg.RedisAddr = os.Getenv("REDIS_ADDR")
	cfg.RedisPassword = os.Getenv("REDIS_PASSWORD")
	if cfg.RedisDB, err = getenvInt("REDIS_DB", 0); err != nil {
		return nil, err
	}
	if cfg.CacheBackend == CacheRedis && cfg.RedisAddr == "" {
		return nil, fmt.Errorf("CACHE_BACKEND=redis requires REDIS_ADDR")
	}

	cfg.Paths = loadPaths()

	return cfg, nil
}

// LoadPlot reads the data layout and the column to plot.
func LoadPlot() *PlotConfig {
	return &PlotConfig{
		Paths:  loadPaths(),
		Column: getenvDefault("AQ_VARIABLE", "nitrogen_dioxide"),
	}
}

func loadPaths() Paths {
	return Paths{
		RawDataDir:       getenvDefault("RAW_DATA_DIR", filepath.Join("data", "raw")),
		ProcessedDataDir: getenvDefault("PROCESSED_DATA_DIR", filepath.Join("data", "processed")),
		FiguresDir:       getenvDefault("FIGURES_DIR", filepath.Join("reports", "figures")),
	}
}

// ClientConfig maps the settings onto the Open-Meteo client configuration.
// The cache and logger are attached by the caller.
func (c *AppConfig) ClientConfig() providers.ClientConfig {
	cc := providers.DefaultClientConfig()
	cc.HTTPClient.Timeout = c.HTTPTimeout
	cc.BaseURL = c.BaseURL
	cc.Backoff = providers.BackoffConfig{
		MaxRetries:      c.MaxRetries,
		InitialInterval: c.BackoffInitial,
		MaxInterval:     c.BackoffMax,
	}
	cc.RateLimit = c.RateLimitRPS
	cc.Burst = c.RateLimitBurst
	cc.CacheTTL = c.CacheTTL
	return cc
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvInt(key string, def int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return n, nil
}

func getenvFloat(key string, def float64) (float64, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return f, nil
}

func getenvDuration(key, def string) (time.Duration, error) {
	d, err := time.ParseDuration(getenvDefault(key, def))
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}
