package weather

import (
	"context"
	"errors"
	"strings"
	"testing"
)

type fakeProvider struct {
	current  RawCurrent
	forecast RawForecast
	box      RawBox
	err      error

	calls           int
	lastBounds      Bounds
	lastClusterSize int
}

func (f *fakeProvider) Name() string { return "fake" }

func (f *fakeProvider) FetchCurrent(context.Context, float64, float64) (RawCurrent, error) {
	f.calls++
	return f.current, f.err
}

func (f *fakeProvider) FetchForecast(context.Context, float64, float64) (RawForecast, error) {
	f.calls++
	return f.forecast, f.err
}

func (f *fakeProvider) FetchBox(_ context.Context, b Bounds, clusterSize int) (RawBox, error) {
	f.calls++
	f.lastBounds = b
	f.lastClusterSize = clusterSize
	return f.box, f.err
}

func TestParsePoint(t *testing.T) {
	tests := []struct {
		name    string
		lat     string
		lon     string
		wantErr error
	}{
		{name: "valid", lat: "40.7", lon: "-74.0"},
		{name: "surrounding spaces", lat: " 40.7 ", lon: " -74 "},
		{name: "missing lat", lat: "", lon: "-74.0", wantErr: ErrMissingParams},
		{name: "missing lon", lat: "40.7", lon: "  ", wantErr: ErrMissingParams},
		{name: "non numeric lat", lat: "north", lon: "-74.0", wantErr: ErrInvalidParams},
		{name: "non numeric lon", lat: "40.7", lon: "west", wantErr: ErrInvalidParams},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := ParsePoint(tt.lat, tt.lon)
			if tt.wantErr == nil {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("expected %v, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestServiceMissingParamsMakesNoCalls(t *testing.T) {
	prov := &fakeProvider{}
	svc := NewService(prov, nil, nil)
	ctx := context.Background()

	ops := map[string]func() error{
		"current": func() error {
			_, err := svc.GetCurrent(ctx, "", "1")
			return err
		},
		"forecast": func() error {
			_, err := svc.GetForecast(ctx, "1", "")
			return err
		},
		"daily": func() error {
			_, err := svc.GetDailyForecast(ctx, "", "")
			return err
		},
		"description": func() error {
			_, err := svc.GetDescription(ctx, "", "2")
			return err
		},
	}

	for name, op := range ops {
		t.Run(name, func(t *testing.T) {
			if err := op(); !errors.Is(err, ErrMissingParams) {
				t.Fatalf("expected ErrMissingParams, got %v", err)
			}
		})
	}
	if prov.calls != 0 {
		t.Fatalf("expected no provider calls, got %d", prov.calls)
	}
}

func TestServiceProviderErrorPropagates(t *testing.T) {
	upstream := &ProviderError{Op: "current", StatusCode: 401, Err: errors.New("invalid api key")}
	prov := &fakeProvider{err: upstream}
	gen := &fakeGenerator{text: "unused"}
	svc := NewService(prov, NewComposer(gen, nil), nil)
	ctx := context.Background()

	_, err := svc.GetCurrent(ctx, "1", "2")
	var pe *ProviderError
	if !errors.As(err, &pe) || pe.StatusCode != 401 {
		t.Fatalf("expected ProviderError with status 401, got %v", err)
	}

	_, err = svc.GetDescription(ctx, "1", "2")
	if !errors.As(err, &pe) {
		t.Fatalf("expected ProviderError from description, got %v", err)
	}
	if gen.calls != 0 {
		t.Fatalf("expected composer not to run on fetch failure, got %d calls", gen.calls)
	}

	_, err = svc.SampleGrid(ctx, MetricTemperature, nil)
	if !errors.As(err, &pe) {
		t.Fatalf("expected ProviderError from heatmap, got %v", err)
	}
}

func TestServiceGetCurrent(t *testing.T) {
	prov := &fakeProvider{current: RawCurrent{
		Name: ptr("Lisbon"),
		Main: &RawMain{Temp: ptr(22.0)},
	}}
	svc := NewService(prov, nil, nil)

	got, err := svc.GetCurrent(context.Background(), "38.7", "-9.1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Location.Name != "Lisbon" || *got.Current.Temp != 22 {
		t.Fatalf("unexpected conditions: %+v", got)
	}
	if prov.calls != 1 {
		t.Fatalf("expected one provider call, got %d", prov.calls)
	}
}

func TestServiceSampleGrid(t *testing.T) {
	box := RawBox{List: []RawBoxCity{
		{Coord: &RawCoord{Lat: ptr(35.0), Lon: ptr(-90.0)}, Main: &RawMain{Pressure: ptr(1025.0)}},
	}}

	t.Run("defaults bounds and cluster size", func(t *testing.T) {
		prov := &fakeProvider{box: box}
		svc := NewService(prov, nil, nil)

		got, err := svc.SampleGrid(context.Background(), MetricPressure, nil)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if prov.lastBounds != DefaultBounds {
			t.Fatalf("expected default bounds, got %+v", prov.lastBounds)
		}
		if prov.lastClusterSize != 10 {
			t.Fatalf("expected cluster size 10, got %d", prov.lastClusterSize)
		}
		if prov.calls != 1 {
			t.Fatalf("expected a single box call, got %d", prov.calls)
		}
		if len(got) != 1 || got[0] != (HeatmapPoint{35, -90, 0.5}) {
			t.Fatalf("unexpected points: %v", got)
		}
	})

	t.Run("explicit bounds are forwarded", func(t *testing.T) {
		prov := &fakeProvider{box: box}
		svc := NewService(prov, nil, nil)
		b := Bounds{North: 50, South: 40, East: 10, West: 0}

		if _, err := svc.SampleGrid(context.Background(), MetricPressure, &b); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if prov.lastBounds != b {
			t.Fatalf("expected %+v, got %+v", b, prov.lastBounds)
		}
	})

	t.Run("unknown metric is empty not an error", func(t *testing.T) {
		svc := NewService(&fakeProvider{box: box}, nil, nil)

		got, err := svc.SampleGrid(context.Background(), Metric("uv"), nil)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(got) != 0 {
			t.Fatalf("expected no points, got %v", got)
		}
	})
}

func TestServiceGetDescriptionFallback(t *testing.T) {
	prov := &fakeProvider{current: RawCurrent{
		Name:    ptr("Reykjavik"),
		Sys:     &RawSys{Country: ptr("IS")},
		Main:    &RawMain{Temp: ptr(-2.0), FeelsLike: ptr(-6.0), Humidity: ptr(90.0)},
		Wind:    &RawWind{Speed: ptr(9.0)},
		Weather: []RawCondition{{ID: ptr(601), Main: ptr("Snow"), Description: ptr("snow")}},
	}}
	gen := &fakeGenerator{err: errors.New("connection refused")}
	svc := NewService(prov, NewComposer(gen, nil), nil)

	got, err := svc.GetDescription(context.Background(), "64.1", "-21.9")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.HasPrefix(got, "Currently in Reykjavik, IS, it's -2°C with snow.") {
		t.Fatalf("unexpected description: %q", got)
	}
	if !strings.Contains(got, "slippery") {
		t.Fatalf("expected snow clause, got %q", got)
	}
}
