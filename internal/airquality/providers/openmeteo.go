package providers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"net/http"
	"time"

	"github.com/sony/gobreaker"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/i474232898/air-pollution/internal/airquality"
)

// DefaultAirQualityURL is the Open-Meteo air-quality endpoint.
const DefaultAirQualityURL = "https://air-quality-api.open-meteo.com/v1/air-quality"

// ClientConfig configures an OpenMeteoProvider. Zero-valued fields fall
// back to DefaultClientConfig.
type ClientConfig struct {
	HTTPClient *http.Client
	BaseURL    string
	Backoff    BackoffConfig

	// RateLimit is the maximum number of outbound requests per second;
	// zero or less disables throttling.
	RateLimit float64
	Burst     int

	// Cache is optional; responses are cached for CacheTTL.
	Cache    ResponseCache
	CacheTTL time.Duration

	Logger *zap.SugaredLogger
}

// DefaultClientConfig returns the retry and cache policy used by the CLI:
// five retries starting at 200ms, one-hour cache expiry.
func DefaultClientConfig() ClientConfig {
	return ClientConfig{
		HTTPClient: &http.Client{Timeout: 30 * time.Second},
		BaseURL:    DefaultAirQualityURL,
		Backoff: BackoffConfig{
			MaxRetries:      5,
			InitialInterval: 200 * time.Millisecond,
			MaxInterval:     2 * time.Minute,
		},
		RateLimit: 5,
		Burst:     1,
		CacheTTL:  time.Hour,
	}
}

// OpenMeteoProvider implements the airquality.Provider interface for Open-Meteo.
type OpenMeteoProvider struct {
	name     string
	baseURL  string
	httpCfg  HTTPClientConfig
	circuit  *gobreaker.CircuitBreaker
	cache    ResponseCache
	cacheTTL time.Duration
	log      *zap.SugaredLogger
}

func NewOpenMeteoProvider(cfg ClientConfig) *OpenMeteoProvider {
	def := DefaultClientConfig()
	if cfg.HTTPClient == nil {
		cfg.HTTPClient = def.HTTPClient
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = def.BaseURL
	}
	if cfg.Backoff == (BackoffConfig{}) {
		cfg.Backoff = def.Backoff
	}
	if cfg.CacheTTL <= 0 {
		cfg.CacheTTL = def.CacheTTL
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop().Sugar()
	}

	var limiter *rate.Limiter
	if cfg.RateLimit > 0 {
		burst := cfg.Burst
		if burst <= 0 {
			burst = 1
		}
		limiter = rate.NewLimiter(rate.Limit(cfg.RateLimit), burst)
	}

	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "openmeteo-air-quality",
		MaxRequests: 5,
		Interval:    1 * time.Minute,
		Timeout:     2 * time.Minute,
	})

	return &OpenMeteoProvider{
		name:    "openmeteo",
		baseURL: cfg.BaseURL,
		httpCfg: HTTPClientConfig{
			Client:  cfg.HTTPClient,
			Backoff: cfg.Backoff,
			Limiter: limiter,
		},
		circuit:  cb,
		cache:    cfg.Cache,
		cacheTTL: cfg.CacheTTL,
		log:      cfg.Logger,
	}
}

func (p *OpenMeteoProvider) Name() string {
	return p.name
}

// FetchHourly requests the hourly series for q. Identical requests within
// the cache TTL are answered from the cache without touching the network.
func (p *OpenMeteoProvider) FetchHourly(ctx context.Context, q airquality.Query) (*airquality.Response, error) {
	if err := q.Validate(); err != nil {
		return nil, err
	}

	values := q.Values()
	values.Set("timeformat", "unixtime")
	values.Set("timezone", "GMT")
	u := fmt.Sprintf("%s?%s", p.baseURL, values.Encode())
	key := requestSignature(http.MethodGet, u)

	if body, ok := p.cachedBody(ctx, key); ok {
		resp, err := decodeAirQuality(body, q.Variable)
		if err == nil {
			p.log.Debugw("cache hit", "provider", p.name, "variable", q.Variable)
			return resp, nil
		}
		p.log.Warnw("discarding unreadable cache entry", "provider", p.name, "error", err)
	}

	buildRequest := func() (*http.Request, error) {
		return http.NewRequest(http.MethodGet, u, nil)
	}

	body, err := doRequestWithResilience(ctx, p.httpCfg, p.circuit, buildRequest, openMeteoReason)
	if err != nil {
		return nil, fmt.Errorf("%s request failed: %w", p.name, err)
	}

	resp, err := decodeAirQuality(body, q.Variable)
	if err != nil {
		return nil, err
	}

	if p.cache != nil {
		if err := p.cache.Set(ctx, key, body, p.cacheTTL); err != nil {
			p.log.Warnw("failed to cache response", "provider", p.name, "error", err)
		}
	}

	return resp, nil
}

func (p *OpenMeteoProvider) cachedBody(ctx context.Context, key string) ([]byte, bool) {
	if p.cache == nil {
		return nil, false
	}
	body, ok, err := p.cache.Get(ctx, key)
	if err != nil {
		p.log.Warnw("cache lookup failed", "provider", p.name, "error", err)
		return nil, false
	}
	return body, ok
}

type airQualityPayload struct {
	Latitude         float64                    `json:"latitude"`
	Longitude        float64                    `json:"longitude"`
	Elevation        float64                    `json:"elevation"`
	UTCOffsetSeconds int                        `json:"utc_offset_seconds"`
	Timezone         string                     `json:"timezone"`
	HourlyUnits      map[string]string          `json:"hourly_units"`
	Hourly           map[string]json.RawMessage `json:"hourly"`
}

func decodeAirQuality(body []byte, variable string) (*airquality.Response, error) {
	var payload airQualityPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("%w: %v", airquality.ErrMalformedResponse, err)
	}

	rawTimes, ok := payload.Hourly["time"]
	if !ok {
		return nil, fmt.Errorf("%w: no hourly data", airquality.ErrEmptyResponse)
	}
	var times []int64
	if err := json.Unmarshal(rawTimes, &times); err != nil {
		return nil, fmt.Errorf("%w: hourly time: %v", airquality.ErrMalformedResponse, err)
	}
	if len(times) == 0 {
		return nil, fmt.Errorf("%w: no hourly timestamps", airquality.ErrEmptyResponse)
	}

	interval := time.Hour
	if len(times) > 1 {
		interval = time.Duration(times[1]-times[0]) * time.Second
	}
	for i := 1; i < len(times); i++ {
		if time.Duration(times[i]-times[i-1])*time.Second != interval {
			return nil, fmt.Errorf("%w: non-uniform time axis at index %d", airquality.ErrMalformedResponse, i)
		}
	}
	if interval <= 0 {
		return nil, fmt.Errorf("%w: time axis not increasing", airquality.ErrMalformedResponse)
	}

	rawValues, ok := payload.Hourly[variable]
	if !ok {
		return nil, fmt.Errorf("%w: %s missing from hourly data", airquality.ErrMalformedResponse, variable)
	}
	var nullable []*float64
	if err := json.Unmarshal(rawValues, &nullable); err != nil {
		return nil, fmt.Errorf("%w: %s values: %v", airquality.ErrMalformedResponse, variable, err)
	}

	values := make([]float64, len(nullable))
	for i, v := range nullable {
		if v == nil {
			values[i] = math.NaN()
			continue
		}
		values[i] = *v
	}

	start := time.Unix(times[0], 0).UTC()
	return &airquality.Response{
		Latitude:         payload.Latitude,
		Longitude:        payload.Longitude,
		Elevation:        payload.Elevation,
		UTCOffsetSeconds: payload.UTCOffsetSeconds,
		Timezone:         payload.Timezone,
		Hourly: airquality.Hourly{
			Start:    start,
			End:      time.Unix(times[len(times)-1], 0).UTC().Add(interval),
			Interval: interval,
			Variables: []airquality.Variable{{
				Name:   variable,
				Unit:   payload.HourlyUnits[variable],
				Values: values,
			}},
		},
	}, nil
}

func openMeteoReason(body []byte) string {
	var payload struct {
		Error  bool   `json:"error"`
		Reason string `json:"reason"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return ""
	}
	return payload.Reason
}

// IsAPIError reports whether err carries a non-retryable API error response.
func IsAPIError(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr)
}

var _ airquality.Provider = (*OpenMeteoProvider)(nil)
