package providers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/sony/gobreaker"
	"go.uber.org/zap"

	"github.com/rod-jemeel/WeatherWizard/internal/weather"
)

// DefaultOpenWeatherBaseURL is the OpenWeatherMap 2.5 API root.
const DefaultOpenWeatherBaseURL = "https://api.openweathermap.org/data/2.5"

var errAPIKeyMissing = errors.New("openweather api key is not configured")

// OpenWeatherConfig configures an OpenWeatherProvider.
type OpenWeatherConfig struct {
	APIKey  string
	BaseURL string // defaults to DefaultOpenWeatherBaseURL

	HTTPClient *http.Client

	// RequestsPerSecond paces outbound calls; 0 disables pacing.
	RequestsPerSecond float64
	Burst             int
}

// OpenWeatherProvider implements weather.Provider for OpenWeatherMap.
type OpenWeatherProvider struct {
	name    string
	apiKey  string
	baseURL string
	httpCfg HTTPClientConfig
	circuit *gobreaker.CircuitBreaker
	logger  *zap.Logger
}

var _ weather.Provider = (*OpenWeatherProvider)(nil)

func NewOpenWeatherProvider(cfg OpenWeatherConfig, logger *zap.Logger) *OpenWeatherProvider {
	if logger == nil {
		logger = zap.NewNop()
	}
	baseURL := strings.TrimRight(cfg.BaseURL, "/")
	if baseURL == "" {
		baseURL = DefaultOpenWeatherBaseURL
	}
	client := cfg.HTTPClient
	if client == nil {
		client = http.DefaultClient
	}

	return &OpenWeatherProvider{
		name:    "openweathermap",
		apiKey:  cfg.APIKey,
		baseURL: baseURL,
		httpCfg: HTTPClientConfig{
			Client:  client,
			Limiter: newLimiter(cfg.RequestsPerSecond, cfg.Burst),
		},
		circuit: newCircuitBreaker("openweather"),
		logger:  logger,
	}
}

func (p *OpenWeatherProvider) Name() string {
	return p.name
}

// FetchCurrent calls the current weather resource in metric units.
func (p *OpenWeatherProvider) FetchCurrent(ctx context.Context, lat, lon float64) (weather.RawCurrent, error) {
	var payload weather.RawCurrent
	err := p.getJSON(ctx, "current", "/weather", pointValues(lat, lon), &payload)
	return payload, err
}

// FetchForecast calls the 5 day / 3 hour forecast resource in metric units.
func (p *OpenWeatherProvider) FetchForecast(ctx context.Context, lat, lon float64) (weather.RawForecast, error) {
	var payload weather.RawForecast
	err := p.getJSON(ctx, "forecast", "/forecast", pointValues(lat, lon), &payload)
	return payload, err
}

// FetchBox calls the bulk city-in-box resource. The box is serialized as
// "west,south,east,north,clusterSize".
func (p *OpenWeatherProvider) FetchBox(ctx context.Context, b weather.Bounds, clusterSize int) (weather.RawBox, error) {
	values := url.Values{}
	values.Set("bbox", BBox(b, clusterSize))

	var payload weather.RawBox
	err := p.getJSON(ctx, "box", "/box/city", values, &payload)
	return payload, err
}

// BBox formats the bounding box argument of the box resource.
func BBox(b weather.Bounds, clusterSize int) string {
	return fmt.Sprintf("%s,%s,%s,%s,%d",
		formatCoord(b.West), formatCoord(b.South), formatCoord(b.East), formatCoord(b.North), clusterSize)
}

func pointValues(lat, lon float64) url.Values {
	values := url.Values{}
	values.Set("lat", formatCoord(lat))
	values.Set("lon", formatCoord(lon))
	return values
}

func formatCoord(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// getJSON performs one GET against path and decodes the body into out. Every
// failure is reported as *weather.ProviderError.
func (p *OpenWeatherProvider) getJSON(ctx context.Context, op, path string, values url.Values, out any) error {
	if p.apiKey == "" {
		return &weather.ProviderError{Op: op, Err: errAPIKeyMissing}
	}

	buildRequest := func() (*http.Request, error) {
		q := url.Values{}
		for k, v := range values {
			q[k] = v
		}
		q.Set("appid", p.apiKey)
		q.Set("units", "metric")

		u := fmt.Sprintf("%s%s?%s", p.baseURL, path, q.Encode())
		return http.NewRequest(http.MethodGet, u, nil)
	}

	resp, err := doRequest(ctx, p.httpCfg, p.circuit, buildRequest)
	if err != nil {
		p.logger.Warn("openweather request failed",
			zap.String("op", op),
			zap.String("path", path),
			zap.Error(err))
		return &weather.ProviderError{Op: op, StatusCode: statusCodeOf(err), Err: err}
	}
	defer resp.Body.Close()

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &weather.ProviderError{Op: op, StatusCode: resp.StatusCode, Err: fmt.Errorf("decode response: %w", err)}
	}
	return nil
}
