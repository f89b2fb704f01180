// Package geocode resolves free-text place names to coordinates.
package geocode

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/kelvins/geocoder"
	"go.uber.org/zap"
)

var (
	// ErrNotConfigured is returned when no geocoding API key is set.
	ErrNotConfigured = errors.New("geocoding is not configured")
	// ErrNotFound is returned when the query resolves to nothing.
	ErrNotFound = errors.New("location not found")
)

// Place is a resolved query.
type Place struct {
	Query string  `json:"query"`
	Lat   float64 `json:"lat"`
	Lon   float64 `json:"lon"`
}

// Resolver turns a place name into coordinates.
type Resolver interface {
	Resolve(ctx context.Context, query string) (Place, error)
}

// geocoder keeps the API key in a package variable.
var keyMu sync.Mutex

// zeroResultsMessage is what geocoder reports for a ZERO_RESULTS status.
const zeroResultsMessage = "No results found"

// GoogleResolver resolves places with the Google Geocoding API.
type GoogleResolver struct {
	apiKey string
	logger *zap.Logger
}

var _ Resolver = (*GoogleResolver)(nil)

func NewGoogleResolver(apiKey string, logger *zap.Logger) *GoogleResolver {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &GoogleResolver{apiKey: apiKey, logger: logger}
}

func (r *GoogleResolver) Resolve(ctx context.Context, query string) (Place, error) {
	query = strings.TrimSpace(query)
	if r.apiKey == "" {
		return Place{}, ErrNotConfigured
	}
	if query == "" {
		return Place{}, ErrNotFound
	}
	if err := ctx.Err(); err != nil {
		return Place{}, err
	}

	keyMu.Lock()
	geocoder.ApiKey = r.apiKey
	loc, err := geocoder.Geocoding(geocoder.Address{City: query})
	keyMu.Unlock()

	if err != nil {
		if msg := err.Error(); strings.Contains(msg, zeroResultsMessage) || strings.Contains(msg, "ZERO_RESULTS") {
			return Place{}, ErrNotFound
		}
		r.logger.Warn("geocoding failed", zap.String("query", query), zap.Error(err))
		return Place{}, fmt.Errorf("geocode %q: %w", query, err)
	}
	if loc.Latitude == 0 && loc.Longitude == 0 {
		return Place{}, ErrNotFound
	}

	return Place{Query: query, Lat: loc.Latitude, Lon: loc.Longitude}, nil
}
