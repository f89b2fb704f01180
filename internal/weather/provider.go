package weather

import (
	"context"
)

// Raw payloads mirror the upstream JSON. Every object and leaf is optional so
// that a missing key decodes to nil instead of a misleading zero value.

type RawCoord struct {
	Lat *float64 `json:"lat"`
	Lon *float64 `json:"lon"`
}

type RawMain struct {
	Temp      *float64 `json:"temp"`
	FeelsLike *float64 `json:"feels_like"`
	TempMin   *float64 `json:"temp_min"`
	TempMax   *float64 `json:"temp_max"`
	Humidity  *float64 `json:"humidity"`
	Pressure  *float64 `json:"pressure"`
}

type RawWind struct {
	Speed *float64 `json:"speed"`
	Deg   *float64 `json:"deg"`
}

type RawClouds struct {
	All *float64 `json:"all"`
}

type RawCondition struct {
	ID          *int    `json:"id"`
	Main        *string `json:"main"`
	Description *string `json:"description"`
	Icon        *string `json:"icon"`
}

type RawSys struct {
	Country *string `json:"country"`
}

// RawCurrent is the provider's current-weather payload.
type RawCurrent struct {
	Name       *string        `json:"name"`
	Coord      *RawCoord      `json:"coord"`
	Sys        *RawSys        `json:"sys"`
	Main       *RawMain       `json:"main"`
	Wind       *RawWind       `json:"wind"`
	Clouds     *RawClouds     `json:"clouds"`
	Weather    []RawCondition `json:"weather"`
	Visibility *float64       `json:"visibility"`
	Dt         *int64         `json:"dt"`
}

type RawForecastItem struct {
	Dt      *int64         `json:"dt"`
	Main    *RawMain       `json:"main"`
	Wind    *RawWind       `json:"wind"`
	Clouds  *RawClouds     `json:"clouds"`
	Weather []RawCondition `json:"weather"`
	Pop     *float64       `json:"pop"`
}

type RawCity struct {
	Name    *string   `json:"name"`
	Country *string   `json:"country"`
	Coord   *RawCoord `json:"coord"`
}

// RawForecast is the provider's multi-step forecast payload.
type RawForecast struct {
	City *RawCity          `json:"city"`
	List []RawForecastItem `json:"list"`
}

type RawBoxCity struct {
	Name    *string        `json:"name"`
	Coord   *RawCoord      `json:"coord"`
	Main    *RawMain       `json:"main"`
	Clouds  *RawClouds     `json:"clouds"`
	Weather []RawCondition `json:"weather"`
}

// RawBox is the provider's bulk bounding-box payload.
type RawBox struct {
	List []RawBoxCity `json:"list"`
}

// Provider abstracts the upstream weather API. Each call issues exactly one
// outbound request and returns the raw payload or a *ProviderError.
type Provider interface {
	Name() string
	FetchCurrent(ctx context.Context, lat, lon float64) (RawCurrent, error)
	FetchForecast(ctx context.Context, lat, lon float64) (RawForecast, error)
	FetchBox(ctx context.Context, bounds Bounds, clusterSize int) (RawBox, error)
}

// TextGenerator is a black-box text completion capability.
type TextGenerator interface {
	Generate(ctx context.Context, system, prompt string) (string, error)
}
