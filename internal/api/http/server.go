package httpapi

import (
	"errors"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/rod-jemeel/WeatherWizard/internal/config"
	"github.com/rod-jemeel/WeatherWizard/internal/geocode"
	"github.com/rod-jemeel/WeatherWizard/internal/store"
	"github.com/rod-jemeel/WeatherWizard/internal/weather"
)

const missingPointMessage = "Latitude and longitude are required"

// Deps are the collaborators the HTTP binding dispatches to.
type Deps struct {
	Service  *weather.Service
	Resolver geocode.Resolver // nil disables /api/geocode
	Cache    *store.ResponseCache
	Logger   *zap.Logger
}

// NewApp builds the fiber application with middleware, the centralized error
// handler and all routes registered.
func NewApp(cfg *config.AppConfig, deps Deps) *fiber.App {
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}
	if deps.Cache == nil {
		deps.Cache = store.NewResponseCache()
	}

	timeout := cfg.HTTPTimeout + 5*time.Second

	app := fiber.New(fiber.Config{
		AppName:               "weatherwizard",
		DisableStartupMessage: true,
		ReadTimeout:           timeout,
		WriteTimeout:          timeout,
		ErrorHandler:          errorHandler(deps.Logger),
	})

	app.Use(requestid.New(requestid.Config{Generator: uuid.NewString}))
	app.Use(logger.New(logger.Config{
		Format: "${time} ${locals:requestid} ${status} - ${latency} ${method} ${path}\n",
	}))
	app.Use(recover.New())
	app.Use(cors.New(corsConfig(cfg.AllowedOrigins)))

	RegisterRoutes(app, &handlers{
		cfg:      cfg,
		service:  deps.Service,
		resolver: deps.Resolver,
		cache:    deps.Cache,
		logger:   deps.Logger,
	})

	return app
}

func corsConfig(origins []string) cors.Config {
	allowOrigins := strings.Join(origins, ",")
	wildcard := allowOrigins == ""
	for _, o := range origins {
		if o == "*" {
			wildcard = true
		}
	}
	if allowOrigins == "" {
		allowOrigins = "*"
	}

	return cors.Config{
		AllowOrigins:     allowOrigins,
		AllowMethods:     "GET,POST,OPTIONS",
		AllowHeaders:     "Content-Type,Authorization",
		AllowCredentials: !wildcard,
	}
}

// errorHandler maps domain errors onto status codes and renders {"error": msg}.
func errorHandler(log *zap.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		code, message := classify(err)

		fields := []zap.Field{
			zap.Int("status", code),
			zap.String("path", c.Path()),
			zap.Any("request_id", c.Locals(requestid.ConfigDefault.ContextKey)),
			zap.Error(err),
		}
		if code >= fiber.StatusInternalServerError {
			log.Error("request failed", fields...)
		} else {
			log.Debug("request rejected", fields...)
		}

		return c.Status(code).JSON(fiber.Map{"error": message})
	}
}

func classify(err error) (int, string) {
	var (
		fe *fiber.Error
		pe *weather.ProviderError
	)
	switch {
	case errors.Is(err, weather.ErrMissingParams):
		return fiber.StatusBadRequest, missingPointMessage
	case errors.Is(err, weather.ErrInvalidParams):
		return fiber.StatusBadRequest, err.Error()
	case errors.Is(err, geocode.ErrNotFound):
		return fiber.StatusNotFound, err.Error()
	case errors.Is(err, geocode.ErrNotConfigured):
		return fiber.StatusServiceUnavailable, err.Error()
	case errors.As(err, &pe):
		return fiber.StatusInternalServerError, pe.Error()
	case errors.As(err, &fe):
		return fe.Code, fe.Message
	default:
		return fiber.StatusInternalServerError, err.Error()
	}
}
