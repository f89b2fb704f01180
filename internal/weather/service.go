package weather

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"go.uber.org/zap"
)

// Service is the operation layer shared by every transport binding. Each
// operation performs at most one provider call.
type Service struct {
	provider Provider
	composer *Composer
	logger   *zap.Logger
}

// NewService creates a new Service.
func NewService(provider Provider, composer *Composer, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	if composer == nil {
		composer = NewComposer(nil, logger)
	}
	return &Service{
		provider: provider,
		composer: composer,
		logger:   logger,
	}
}

// ParsePoint validates raw lat/lon query values. Empty values yield
// ErrMissingParams, non-numeric ones ErrInvalidParams.
func ParsePoint(lat, lon string) (float64, float64, error) {
	lat, lon = strings.TrimSpace(lat), strings.TrimSpace(lon)
	if lat == "" || lon == "" {
		return 0, 0, ErrMissingParams
	}
	latV, err := strconv.ParseFloat(lat, 64)
	if err != nil {
		return 0, 0, fmt.Errorf("%w: lat %q is not a number", ErrInvalidParams, lat)
	}
	lonV, err := strconv.ParseFloat(lon, 64)
	if err != nil {
		return 0, 0, fmt.Errorf("%w: lon %q is not a number", ErrInvalidParams, lon)
	}
	return latV, lonV, nil
}

// GetCurrent returns normalized current conditions for a point.
func (s *Service) GetCurrent(ctx context.Context, lat, lon string) (CurrentConditions, error) {
	latV, lonV, err := ParsePoint(lat, lon)
	if err != nil {
		return CurrentConditions{}, err
	}

	raw, err := s.provider.FetchCurrent(ctx, latV, lonV)
	if err != nil {
		s.logger.Error("error fetching weather data",
			zap.String("provider", s.provider.Name()),
			zap.Float64("lat", latV), zap.Float64("lon", lonV),
			zap.Error(err))
		return CurrentConditions{}, err
	}

	return NormalizeCurrent(raw), nil
}

// GetForecast returns the normalized multi-step forecast for a point.
func (s *Service) GetForecast(ctx context.Context, lat, lon string) (Forecast, error) {
	latV, lonV, err := ParsePoint(lat, lon)
	if err != nil {
		return Forecast{}, err
	}

	raw, err := s.provider.FetchForecast(ctx, latV, lonV)
	if err != nil {
		s.logger.Error("error fetching forecast data",
			zap.String("provider", s.provider.Name()),
			zap.Float64("lat", latV), zap.Float64("lon", lonV),
			zap.Error(err))
		return Forecast{}, err
	}

	forecast := NormalizeForecastList(raw)
	s.logger.Debug("forecast normalized",
		zap.String("location", forecast.Location.Name),
		zap.Int("entries", len(forecast.Forecast)))
	return forecast, nil
}

// GetDailyForecast condenses the forecast for a point into per-day summaries.
func (s *Service) GetDailyForecast(ctx context.Context, lat, lon string) ([]DailySummary, error) {
	forecast, err := s.GetForecast(ctx, lat, lon)
	if err != nil {
		return nil, err
	}
	return SummarizeDaily(forecast), nil
}

// SampleGrid samples metric over bounds (DefaultBounds when nil) with a
// single box query. An unknown metric produces an empty result.
func (s *Service) SampleGrid(ctx context.Context, metric Metric, bounds *Bounds) ([]HeatmapPoint, error) {
	b := DefaultBounds
	if bounds != nil {
		b = *bounds
	}

	plan := PlanGrid(b)
	s.logger.Debug("heatmap grid planned",
		zap.String("metric", string(metric)),
		zap.Any("bounds", b),
		zap.Int("lat_points", plan.LatPoints),
		zap.Int("lon_points", plan.LonPoints),
		zap.Float64("lat_step", plan.LatStep),
		zap.Float64("lon_step", plan.LonStep))

	box, err := s.provider.FetchBox(ctx, b, BoxClusterSize)
	if err != nil {
		s.logger.Error("error fetching heatmap data",
			zap.String("provider", s.provider.Name()),
			zap.String("metric", string(metric)),
			zap.Error(err))
		return nil, err
	}

	return HeatmapPoints(metric, box), nil
}

// GetDescription fetches current conditions and composes a summary. Fetch
// failures surface as errors; composition never fails.
func (s *Service) GetDescription(ctx context.Context, lat, lon string) (string, error) {
	current, err := s.GetCurrent(ctx, lat, lon)
	if err != nil {
		return "", err
	}
	return s.composer.Describe(ctx, current), nil
}
