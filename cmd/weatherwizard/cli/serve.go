package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	httpapi "github.com/rod-jemeel/WeatherWizard/internal/api/http"
	"github.com/rod-jemeel/WeatherWizard/internal/config"
	"github.com/rod-jemeel/WeatherWizard/internal/geocode"
	"github.com/rod-jemeel/WeatherWizard/internal/logging"
	"github.com/rod-jemeel/WeatherWizard/internal/scheduler"
	"github.com/rod-jemeel/WeatherWizard/internal/store"
	"github.com/rod-jemeel/WeatherWizard/internal/weather"
	"github.com/rod-jemeel/WeatherWizard/internal/weather/providers"
)

const shutdownTimeout = 10 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(cfgFile, cmd.Flags())
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		return serve(cmd.Context(), cfg)
	},
}

func init() {
	serveCmd.Flags().String("port", "8080", "port to listen on")
}

func serve(parent context.Context, cfg *config.AppConfig) error {
	log, err := logging.New(cfg.Environment, cfg.LogLevel)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	if !cfg.DotEnvLoaded {
		log.Info("no .env file found; using process environment")
	}
	if !cfg.EnvValid() {
		log.Warn("missing required environment variables",
			zap.Bool("openweather_key", cfg.OpenWeatherAPIKey != ""),
			zap.Bool("openai_key", cfg.OpenAIAPIKey != ""))
	}

	// Shared HTTP client for outbound calls.
	httpClient := &http.Client{Timeout: cfg.HTTPTimeout}

	provider := providers.NewOpenWeatherProvider(providers.OpenWeatherConfig{
		APIKey:            cfg.OpenWeatherAPIKey,
		BaseURL:           cfg.OpenWeatherBaseURL,
		HTTPClient:        httpClient,
		RequestsPerSecond: cfg.ProviderRPS,
		Burst:             cfg.ProviderBurst,
	}, log.Named("openweather"))

	var generator weather.TextGenerator
	if cfg.OpenAIAPIKey != "" {
		generator = providers.NewOpenAIGenerator(providers.OpenAIConfig{
			APIKey:     cfg.OpenAIAPIKey,
			Model:      cfg.OpenAIModel,
			BaseURL:    cfg.OpenAIBaseURL,
			HTTPClient: httpClient,
		}, log.Named("openai"))
	}

	var resolver geocode.Resolver
	if cfg.GoogleGeocodingAPIKey != "" {
		resolver = geocode.NewGoogleResolver(cfg.GoogleGeocodingAPIKey, log.Named("geocode"))
	}

	service := weather.NewService(provider, weather.NewComposer(generator, log.Named("describe")), log.Named("service"))

	cache := store.NewResponseCache()
	sweeper := scheduler.New(cache, cfg.CacheSweepInterval, log.Named("scheduler"))
	if err := sweeper.Start(); err != nil {
		return fmt.Errorf("failed to start cache sweeper: %w", err)
	}
	defer sweeper.Stop()

	app := httpapi.NewApp(cfg, httpapi.Deps{
		Service:  service,
		Resolver: resolver,
		Cache:    cache,
		Logger:   log.Named("http"),
	})

	if parent == nil {
		parent = context.Background()
	}
	ctx, stop := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.Info("listening", zap.String("port", cfg.Port), zap.String("environment", cfg.Environment))
		if err := app.Listen(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("fiber server stopped: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gCtx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		log.Info("shutting down")
		if err := app.ShutdownWithContext(shutdownCtx); err != nil {
			log.Error("error during shutdown", zap.Error(err))
		}
		return nil
	})

	return g.Wait()
}
