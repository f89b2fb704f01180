package weather

// Metric names a heatmap layer.
type Metric string

const (
	MetricTemperature   Metric = "temperature"
	MetricPrecipitation Metric = "precipitation"
	MetricHumidity      Metric = "humidity"
	MetricPressure      Metric = "pressure"
)

// Location identifies the place a normalized reading belongs to.
// Name defaults to "Unknown" and Country to "" when the provider omits them.
type Location struct {
	Name    string   `json:"name"`
	Country string   `json:"country"`
	Lat     *float64 `json:"lat"`
	Lon     *float64 `json:"lon"`
}

// Condition is the provider's categorical description of the sky.
type Condition struct {
	Main        *string `json:"main"`
	Description *string `json:"description"`
	Icon        *string `json:"icon"`
}

// Observation holds the leaf values of a current-conditions reading.
// Every field is nil when the provider did not send it.
type Observation struct {
	Temp          *float64  `json:"temp"`
	FeelsLike     *float64  `json:"feels_like"`
	TempMin       *float64  `json:"temp_min"`
	TempMax       *float64  `json:"temp_max"`
	Humidity      *float64  `json:"humidity"`
	Pressure      *float64  `json:"pressure"`
	WindSpeed     *float64  `json:"wind_speed"`
	WindDirection *float64  `json:"wind_direction"`
	Clouds        *float64  `json:"clouds"`
	Weather       Condition `json:"weather"`
	Visibility    *float64  `json:"visibility"`
	Datetime      *int64    `json:"datetime"` // unix seconds, as sent by the provider
}

// CurrentConditions is the normalized view of the provider's current weather.
type CurrentConditions struct {
	Location Location    `json:"location"`
	Current  Observation `json:"current"`
}

// ForecastEntry is one future sample of a forecast.
type ForecastEntry struct {
	Datetime          *int64    `json:"datetime"`
	Temp              *float64  `json:"temp"`
	FeelsLike         *float64  `json:"feels_like"`
	TempMin           *float64  `json:"temp_min"`
	TempMax           *float64  `json:"temp_max"`
	Humidity          *float64  `json:"humidity"`
	Pressure          *float64  `json:"pressure"`
	Weather           Condition `json:"weather"`
	WindSpeed         *float64  `json:"wind_speed"`
	WindDirection     *float64  `json:"wind_direction"`
	Clouds            *float64  `json:"clouds"`
	PrecipitationProb float64   `json:"precipitation_prob"`
}

// Forecast keeps entries in the order the provider returned them.
type Forecast struct {
	Location Location        `json:"location"`
	Forecast []ForecastEntry `json:"forecast"`
}

// HeatmapPoint is encoded as [lat, lon, intensity].
type HeatmapPoint [3]float64

// Bounds is a geographic bounding box in degrees. Ordering of the edges is
// not validated.
type Bounds struct {
	North float64 `json:"north"`
	South float64 `json:"south"`
	East  float64 `json:"east"`
	West  float64 `json:"west"`
}

// DefaultBounds covers the continental United States.
var DefaultBounds = Bounds{North: 60, South: 20, East: -60, West: -130}

// DailySummary condenses the forecast entries that fall on one UTC day.
type DailySummary struct {
	Date              string   `json:"date"` // YYYY-MM-DD, UTC
	TempMin           *float64 `json:"temp_min"`
	TempMax           *float64 `json:"temp_max"`
	Humidity          *float64 `json:"humidity"`
	PrecipitationProb float64  `json:"precipitation_prob"`
	Condition         string   `json:"condition"`
	Samples           int      `json:"samples"`
}
