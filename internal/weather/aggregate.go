package weather

import (
	"sort"
	"time"
)

// SummarizeDaily buckets forecast entries by UTC calendar day and condenses
// each bucket. Entries without a timestamp are ignored. Days are returned in
// ascending order; the dominant condition is picked by majority, first seen
// wins ties.
func SummarizeDaily(f Forecast) []DailySummary {
	type bucket struct {
		entries []ForecastEntry
	}

	buckets := make(map[string]*bucket)
	for _, e := range f.Forecast {
		if e.Datetime == nil {
			continue
		}
		day := time.Unix(*e.Datetime, 0).UTC().Format(time.DateOnly)
		b, ok := buckets[day]
		if !ok {
			b = &bucket{}
			buckets[day] = b
		}
		b.entries = append(b.entries, e)
	}

	days := make([]string, 0, len(buckets))
	for day := range buckets {
		days = append(days, day)
	}
	sort.Strings(days)

	summaries := make([]DailySummary, 0, len(days))
	for _, day := range days {
		summaries = append(summaries, summarizeDay(day, buckets[day].entries))
	}
	return summaries
}

func summarizeDay(day string, entries []ForecastEntry) DailySummary {
	var (
		tempMin, tempMax *float64
		sumHumidity      float64
		humiditySamples  int
		maxPop           float64
		conditionCounts  = make(map[string]int)
		conditionOrder   []string
	)

	for _, e := range entries {
		if low := firstNonNil(e.TempMin, e.Temp); low != nil && (tempMin == nil || *low < *tempMin) {
			v := *low
			tempMin = &v
		}
		if high := firstNonNil(e.TempMax, e.Temp); high != nil && (tempMax == nil || *high > *tempMax) {
			v := *high
			tempMax = &v
		}
		if e.Humidity != nil {
			sumHumidity += *e.Humidity
			humiditySamples++
		}
		if e.PrecipitationProb > maxPop {
			maxPop = e.PrecipitationProb
		}
		if e.Weather.Main != nil {
			main := *e.Weather.Main
			if _, seen := conditionCounts[main]; !seen {
				conditionOrder = append(conditionOrder, main)
			}
			conditionCounts[main]++
		}
	}

	bestCond := ""
	bestCount := 0
	for _, cond := range conditionOrder {
		if conditionCounts[cond] > bestCount {
			bestCount = conditionCounts[cond]
			bestCond = cond
		}
	}

	var humidity *float64
	if humiditySamples > 0 {
		avg := sumHumidity / float64(humiditySamples)
		humidity = &avg
	}

	return DailySummary{
		Date:              day,
		TempMin:           tempMin,
		TempMax:           tempMax,
		Humidity:          humidity,
		PrecipitationProb: maxPop,
		Condition:         bestCond,
		Samples:           len(entries),
	}
}

func firstNonNil(values ...*float64) *float64 {
	for _, v := range values {
		if v != nil {
			return v
		}
	}
	return nil
}
