package httpapi

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/rod-jemeel/WeatherWizard/internal/config"
	"github.com/rod-jemeel/WeatherWizard/internal/geocode"
	"github.com/rod-jemeel/WeatherWizard/internal/store"
	"github.com/rod-jemeel/WeatherWizard/internal/weather"
)

var validate = validator.New()

type handlers struct {
	cfg      *config.AppConfig
	service  *weather.Service
	resolver geocode.Resolver
	cache    *store.ResponseCache
	logger   *zap.Logger
}

// RegisterRoutes wires the HTTP handlers into the Fiber app.
func RegisterRoutes(app *fiber.App, h *handlers) {
	api := app.Group("/api")

	api.Get("/health", h.health)

	api.Get("/weather", h.cached(h.cfg.CacheTTL, originalURLKey, func(c *fiber.Ctx) (any, error) {
		lat, lon, err := bindPoint(c)
		if err != nil {
			return nil, err
		}
		return h.service.GetCurrent(c.UserContext(), lat, lon)
	}))

	api.Get("/forecast", h.cached(h.cfg.CacheTTL, originalURLKey, func(c *fiber.Ctx) (any, error) {
		lat, lon, err := bindPoint(c)
		if err != nil {
			return nil, err
		}
		return h.service.GetForecast(c.UserContext(), lat, lon)
	}))

	api.Get("/forecast/daily", h.cached(h.cfg.CacheTTL, originalURLKey, func(c *fiber.Ctx) (any, error) {
		lat, lon, err := bindPoint(c)
		if err != nil {
			return nil, err
		}
		return h.service.GetDailyForecast(c.UserContext(), lat, lon)
	}))

	api.Get("/heatmap", h.heatmap)

	api.Get("/weather_description", func(c *fiber.Ctx) error {
		lat, lon, err := bindPoint(c)
		if err != nil {
			return err
		}
		description, err := h.service.GetDescription(c.UserContext(), lat, lon)
		if err != nil {
			return err
		}
		return c.JSON(fiber.Map{"description": description})
	})

	api.Get("/geocode", h.geocode)
}

func (h *handlers) health(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":      "ok",
		"timestamp":   time.Now().UTC().Format(time.RFC3339),
		"environment": h.cfg.Environment,
		"envValid":    h.cfg.EnvValid(),
	})
}

// heatmapQuery holds the parsed heatmap parameters.
type heatmapQuery struct {
	Metric weather.Metric
	Bounds weather.Bounds
}

// cacheKey uses the exact bounds sent upstream.
func (q heatmapQuery) cacheKey() string {
	b := q.Bounds
	return fmt.Sprintf("heatmap_%s_%s_%s_%s_%s", q.Metric,
		formatBound(b.North), formatBound(b.South), formatBound(b.East), formatBound(b.West))
}

func formatBound(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func (h *handlers) heatmap(c *fiber.Ctx) error {
	q, err := bindHeatmap(c)
	if err != nil {
		return err
	}

	key := func(*fiber.Ctx) string { return q.cacheKey() }
	return h.cached(h.cfg.HeatmapCacheTTL, key, func(c *fiber.Ctx) (any, error) {
		return h.service.SampleGrid(c.UserContext(), q.Metric, &q.Bounds)
	})(c)
}

func bindHeatmap(c *fiber.Ctx) (heatmapQuery, error) {
	q := heatmapQuery{
		Metric: weather.Metric(c.Query("type", string(weather.MetricTemperature))),
		Bounds: weather.DefaultBounds,
	}

	fields := []struct {
		name string
		dst  *float64
	}{
		{"north", &q.Bounds.North},
		{"south", &q.Bounds.South},
		{"east", &q.Bounds.East},
		{"west", &q.Bounds.West},
	}
	for _, f := range fields {
		raw := strings.TrimSpace(c.Query(f.name))
		if raw == "" {
			continue
		}
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return q, fmt.Errorf("%w: %s %q is not a number", weather.ErrInvalidParams, f.name, raw)
		}
		*f.dst = v
	}
	return q, nil
}

type geocodeQuery struct {
	Q string `validate:"required,min=3"`
}

func (h *handlers) geocode(c *fiber.Ctx) error {
	q := geocodeQuery{Q: strings.TrimSpace(c.Query("q"))}
	if err := validate.Struct(q); err != nil {
		return fmt.Errorf("%w: q must be at least 3 characters", weather.ErrInvalidParams)
	}
	if h.resolver == nil {
		return geocode.ErrNotConfigured
	}

	place, err := h.resolver.Resolve(c.UserContext(), q.Q)
	if err != nil {
		return err
	}
	return c.JSON(place)
}

// pointQuery range-checks coordinates that already parsed as numbers.
type pointQuery struct {
	Lat float64 `validate:"gte=-90,lte=90"`
	Lon float64 `validate:"gte=-180,lte=180"`
}

// bindPoint returns the raw lat/lon query values once they are present,
// numeric and in range.
func bindPoint(c *fiber.Ctx) (string, string, error) {
	lat, lon := c.Query("lat"), c.Query("lon")

	latV, lonV, err := weather.ParsePoint(lat, lon)
	if err != nil {
		return "", "", err
	}
	if err := validate.Struct(pointQuery{Lat: latV, Lon: lonV}); err != nil {
		return "", "", fmt.Errorf("%w: coordinates out of range", weather.ErrInvalidParams)
	}
	return lat, lon, nil
}

// originalURLKey copies the URI; fiber reuses the underlying buffer.
func originalURLKey(c *fiber.Ctx) string {
	return strings.Clone(c.OriginalURL())
}

// cached serves a stored body for the request key when present, otherwise
// runs fn and stores its JSON rendering for ttl. Errors are never stored.
func (h *handlers) cached(ttl time.Duration, key func(*fiber.Ctx) string, fn func(*fiber.Ctx) (any, error)) fiber.Handler {
	return func(c *fiber.Ctx) error {
		k := key(c)
		if body, ok := h.cache.Get(k); ok {
			h.logger.Debug("response cache hit", zap.String("key", k))
			c.Set("X-Cache", "HIT")
			c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
			return c.Send(body)
		}

		result, err := fn(c)
		if err != nil {
			return err
		}

		body, err := json.Marshal(result)
		if err != nil {
			return err
		}
		h.cache.Set(k, body, ttl)

		c.Set("X-Cache", "MISS")
		c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
		return c.Send(body)
	}
}
