package weather

import "math"

const (
	defaultGridStep = 2.0
	maxGridSamples  = 80
	coarseLatDivs   = 8
	coarseLonDivs   = 10

	// BoxClusterSize is the zoom/cluster argument sent with every box query.
	BoxClusterSize = 10

	// Provider condition ids 200-531 are thunderstorm, drizzle and rain.
	precipIDMin       = 200
	precipIDMax       = 531
	clearSkyID        = 800
	precipFactorWet   = 1.0
	precipFactorDry   = 0.1
	defaultIntensity  = 0.5
	tempRangeLow      = -20.0
	tempRangeSpan     = 60.0
	pressureRangeLow  = 950.0
	pressureRangeSpan = 150.0
)

// GridPlan describes the sample grid derived from a bounding box.
type GridPlan struct {
	LatStep   float64 `json:"lat_step"`
	LonStep   float64 `json:"lon_step"`
	LatPoints int     `json:"lat_points"`
	LonPoints int     `json:"lon_points"`
}

// Samples is the total number of grid points. It can be negative for
// inverted bounds.
func (g GridPlan) Samples() int {
	return g.LatPoints * g.LonPoints
}

// PlanGrid derives the sample grid for b. When the 2° grid exceeds 80
// samples the steps are coarsened exactly once (span/8 by span/10); the
// result is not guaranteed to fit and inverted bounds yield non-positive
// counts.
func PlanGrid(b Bounds) GridPlan {
	plan := GridPlan{LatStep: defaultGridStep, LonStep: defaultGridStep}
	plan.LatPoints = pointsAlong(b.North-b.South, plan.LatStep)
	plan.LonPoints = pointsAlong(b.East-b.West, plan.LonStep)

	if plan.Samples() > maxGridSamples {
		plan.LatStep = (b.North - b.South) / coarseLatDivs
		plan.LonStep = (b.East - b.West) / coarseLonDivs
		plan.LatPoints = pointsAlong(b.North-b.South, plan.LatStep)
		plan.LonPoints = pointsAlong(b.East-b.West, plan.LonStep)
	}

	return plan
}

// pointsAlong truncates toward zero like an integer conversion. A zero-width
// span is a single row.
func pointsAlong(span, step float64) int {
	if step == 0 {
		return 1
	}
	return int(span/step) + 1
}

// MetricValue extracts the raw value of metric from one box entry. The second
// result is false when the value is unavailable or the metric is unknown.
func MetricValue(metric Metric, city RawBoxCity) (float64, bool) {
	main := orEmpty(city.Main)

	switch metric {
	case MetricTemperature:
		return valueOf(main.Temp)
	case MetricHumidity:
		return valueOf(main.Humidity)
	case MetricPressure:
		return valueOf(main.Pressure)
	case MetricPrecipitation:
		clouds := floatOr(orEmpty(city.Clouds).All, 0)
		id := clearSkyID
		if cond := firstCondition(city.Weather); cond.ID != nil {
			id = *cond.ID
		}
		factor := precipFactorDry
		if id >= precipIDMin && id <= precipIDMax {
			factor = precipFactorWet
		}
		return clouds / 100 * factor, true
	default:
		return 0, false
	}
}

// Intensity maps a raw metric value onto the heatmap's [0,1] scale.
func Intensity(metric Metric, value float64) float64 {
	switch metric {
	case MetricTemperature:
		return clamp01((value - tempRangeLow) / tempRangeSpan)
	case MetricPrecipitation:
		return value
	case MetricHumidity:
		return value / 100
	case MetricPressure:
		return clamp01((value - pressureRangeLow) / pressureRangeSpan)
	default:
		return defaultIntensity
	}
}

// HeatmapPoints converts a box payload into heatmap points in provider
// order. Entries without a value or without coordinates are skipped.
func HeatmapPoints(metric Metric, box RawBox) []HeatmapPoint {
	points := make([]HeatmapPoint, 0, len(box.List))
	for _, city := range box.List {
		value, ok := MetricValue(metric, city)
		if !ok {
			continue
		}
		coord := orEmpty(city.Coord)
		if coord.Lat == nil || coord.Lon == nil {
			continue
		}
		points = append(points, HeatmapPoint{*coord.Lat, *coord.Lon, Intensity(metric, value)})
	}
	return points
}

func valueOf(p *float64) (float64, bool) {
	if p == nil {
		return 0, false
	}
	return *p, true
}

func clamp01(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}
