package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/mitchellh/mapstructure"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	EnvProduction  = "production"
	EnvDevelopment = "development"

	productionFrontend = "https://weather-app-frontend.vercel.app"
)

var developmentOrigins = []string{
	"http://localhost:3000",
	"http://localhost:8000",
	"http://127.0.0.1:3000",
	"http://127.0.0.1:8000",
}

type AppConfig struct {
	OpenWeatherAPIKey  string `mapstructure:"openweather_api_key"`
	OpenWeatherBaseURL string `mapstructure:"openweather_base_url"`

	OpenAIAPIKey  string `mapstructure:"openai_api_key"`
	OpenAIModel   string `mapstructure:"openai_model"`
	OpenAIBaseURL string `mapstructure:"openai_base_url"`

	GoogleGeocodingAPIKey string `mapstructure:"google_geocoding_api_key"`

	Port           string   `mapstructure:"port"`
	Environment    string   `mapstructure:"environment"`
	FrontendURL    string   `mapstructure:"frontend_url"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`

	// Response cache lifetimes; the heatmap is cached longer.
	CacheTTL           time.Duration `mapstructure:"cache_ttl"`
	HeatmapCacheTTL    time.Duration `mapstructure:"heatmap_cache_ttl"`
	CacheSweepInterval time.Duration `mapstructure:"cache_sweep_interval"`

	HTTPTimeout time.Duration `mapstructure:"http_timeout"`

	// Outbound pacing for the weather provider (0 = unlimited).
	ProviderRPS   float64 `mapstructure:"provider_rps"`
	ProviderBurst int     `mapstructure:"provider_burst"`

	LogLevel string `mapstructure:"log_level"`

	// DotEnvLoaded reports whether a .env file was found.
	DotEnvLoaded bool `mapstructure:"-"`
}

var defaults = map[string]any{
	"openweather_api_key":      "",
	"openweather_base_url":     "",
	"openai_api_key":           "",
	"openai_model":             "gpt-4o",
	"openai_base_url":          "",
	"google_geocoding_api_key": "",
	"port":                     "8080",
	"environment":              EnvDevelopment,
	"frontend_url":             "",
	"allowed_origins":          "",
	"cache_ttl":                "5m",
	"heatmap_cache_ttl":        "10m",
	"cache_sweep_interval":     "1m",
	"http_timeout":             "10s",
	"provider_rps":             0.0,
	"provider_burst":           1,
	"log_level":                "info",
}

// Load reads configuration from .env, the environment, an optional config
// file and any bound command-line flags, in increasing precedence for the
// latter three. flags may be nil.
func Load(configFile string, flags *pflag.FlagSet) (*AppConfig, error) {
	dotEnvErr := godotenv.Load()

	v := viper.New()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}
	v.AutomaticEnv()

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	if flags != nil {
		if f := flags.Lookup("port"); f != nil {
			if err := v.BindPFlag("port", f); err != nil {
				return nil, fmt.Errorf("bind port flag: %w", err)
			}
		}
	}

	cfg := &AppConfig{}
	decodeHook := viper.DecodeHook(mapstructure.ComposeDecodeHookFunc(
		mapstructure.StringToTimeDurationHookFunc(),
		mapstructure.StringToSliceHookFunc(","),
	))
	if err := v.Unmarshal(cfg, decodeHook); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}
	cfg.DotEnvLoaded = dotEnvErr == nil

	cfg.Environment = strings.ToLower(strings.TrimSpace(cfg.Environment))
	cfg.AllowedOrigins = resolveOrigins(cfg.AllowedOrigins, cfg.Environment, cfg.FrontendURL)

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// resolveOrigins keeps explicit origins when given, otherwise derives them
// from the environment. Empty entries are dropped.
func resolveOrigins(explicit []string, environment, frontendURL string) []string {
	candidates := explicit
	if len(nonEmpty(candidates)) == 0 {
		if environment == EnvProduction {
			candidates = []string{productionFrontend, frontendURL}
		} else {
			candidates = developmentOrigins
		}
	}
	return nonEmpty(candidates)
}

func nonEmpty(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}

func (c *AppConfig) validate() error {
	var errs []error
	positive := map[string]time.Duration{
		"CACHE_TTL":            c.CacheTTL,
		"HEATMAP_CACHE_TTL":    c.HeatmapCacheTTL,
		"CACHE_SWEEP_INTERVAL": c.CacheSweepInterval,
		"HTTP_TIMEOUT":         c.HTTPTimeout,
	}
	for _, key := range []string{"CACHE_TTL", "HEATMAP_CACHE_TTL", "CACHE_SWEEP_INTERVAL", "HTTP_TIMEOUT"} {
		if positive[key] <= 0 {
			errs = append(errs, fmt.Errorf("invalid %s: must be positive", key))
		}
	}
	if c.ProviderRPS < 0 {
		errs = append(errs, errors.New("invalid PROVIDER_RPS: must not be negative"))
	}
	if strings.TrimSpace(c.Port) == "" {
		errs = append(errs, errors.New("invalid PORT: must not be empty"))
	}
	return errors.Join(errs...)
}

// EnvValid reports whether the keys needed by the weather and description
// operations are present.
func (c *AppConfig) EnvValid() bool {
	return c.OpenWeatherAPIKey != "" && c.OpenAIAPIKey != ""
}

// IsProduction reports whether the service runs in production mode.
func (c *AppConfig) IsProduction() bool {
	return c.Environment == EnvProduction
}
