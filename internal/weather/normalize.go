package weather

const unknownLocationName = "Unknown"

// orEmpty returns the pointed-to value, or the zero value when p is nil.
// Nested raw objects are read through it so a missing parent simply yields
// nil leaves.
func orEmpty[T any](p *T) T {
	if p == nil {
		var zero T
		return zero
	}
	return *p
}

func stringOr(p *string, def string) string {
	if p == nil {
		return def
	}
	return *p
}

func floatOr(p *float64, def float64) float64 {
	if p == nil {
		return def
	}
	return *p
}

// firstCondition returns the primary condition, or an empty one when the
// provider sent none.
func firstCondition(list []RawCondition) RawCondition {
	if len(list) == 0 {
		return RawCondition{}
	}
	return list[0]
}

func toCondition(raw RawCondition) Condition {
	return Condition{
		Main:        raw.Main,
		Description: raw.Description,
		Icon:        raw.Icon,
	}
}

// NormalizeCurrent maps a raw current-weather payload onto CurrentConditions.
// It never fails: absent fields come out as nil.
func NormalizeCurrent(raw RawCurrent) CurrentConditions {
	coord := orEmpty(raw.Coord)
	main := orEmpty(raw.Main)
	wind := orEmpty(raw.Wind)
	clouds := orEmpty(raw.Clouds)

	return CurrentConditions{
		Location: Location{
			Name:    stringOr(raw.Name, unknownLocationName),
			Country: stringOr(orEmpty(raw.Sys).Country, ""),
			Lat:     coord.Lat,
			Lon:     coord.Lon,
		},
		Current: Observation{
			Temp:          main.Temp,
			FeelsLike:     main.FeelsLike,
			TempMin:       main.TempMin,
			TempMax:       main.TempMax,
			Humidity:      main.Humidity,
			Pressure:      main.Pressure,
			WindSpeed:     wind.Speed,
			WindDirection: wind.Deg,
			Clouds:        clouds.All,
			Weather:       toCondition(firstCondition(raw.Weather)),
			Visibility:    raw.Visibility,
			Datetime:      raw.Dt,
		},
	}
}

// NormalizeForecastList maps every element of the provider's forecast list
// independently, preserving order. A missing list yields an empty forecast.
func NormalizeForecastList(raw RawForecast) Forecast {
	city := orEmpty(raw.City)
	coord := orEmpty(city.Coord)

	entries := make([]ForecastEntry, 0, len(raw.List))
	for _, item := range raw.List {
		entries = append(entries, normalizeForecastItem(item))
	}

	return Forecast{
		Location: Location{
			Name:    stringOr(city.Name, unknownLocationName),
			Country: stringOr(city.Country, ""),
			Lat:     coord.Lat,
			Lon:     coord.Lon,
		},
		Forecast: entries,
	}
}

func normalizeForecastItem(item RawForecastItem) ForecastEntry {
	main := orEmpty(item.Main)
	wind := orEmpty(item.Wind)
	clouds := orEmpty(item.Clouds)

	return ForecastEntry{
		Datetime:          item.Dt,
		Temp:              main.Temp,
		FeelsLike:         main.FeelsLike,
		TempMin:           main.TempMin,
		TempMax:           main.TempMax,
		Humidity:          main.Humidity,
		Pressure:          main.Pressure,
		Weather:           toCondition(firstCondition(item.Weather)),
		WindSpeed:         wind.Speed,
		WindDirection:     wind.Deg,
		Clouds:            clouds.All,
		PrecipitationProb: floatOr(item.Pop, 0),
	}
}
