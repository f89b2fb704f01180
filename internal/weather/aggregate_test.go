package weather

import "testing"

func TestSummarizeDaily(t *testing.T) {
	// 2023-11-14 22:13:20 UTC, then +3h steps crossing midnight.
	const start int64 = 1700000000
	entry := func(offsetHours int64, temp, humidity, pop float64, main string) ForecastEntry {
		return ForecastEntry{
			Datetime:          ptr(start + offsetHours*3600),
			Temp:              ptr(temp),
			Humidity:          ptr(humidity),
			PrecipitationProb: pop,
			Weather:           Condition{Main: ptr(main)},
		}
	}

	f := Forecast{Forecast: []ForecastEntry{
		entry(0, 10, 80, 0.2, "Rain"),
		entry(3, 7, 70, 0.6, "Clouds"),
		entry(6, 5, 60, 0.1, "Clouds"),
		entry(9, 9, 50, 0.0, "Clear"),
		{Temp: ptr(100.0)},
	}}

	got := SummarizeDaily(f)

	if len(got) != 2 {
		t.Fatalf("expected 2 days, got %d: %+v", len(got), got)
	}

	first := got[0]
	if first.Date != "2023-11-14" || first.Samples != 1 {
		t.Fatalf("unexpected first day: %+v", first)
	}
	if *first.TempMin != 10 || *first.TempMax != 10 || first.Condition != "Rain" {
		t.Fatalf("unexpected first day values: %+v", first)
	}

	second := got[1]
	if second.Date != "2023-11-15" || second.Samples != 3 {
		t.Fatalf("unexpected second day: %+v", second)
	}
	if *second.TempMin != 5 || *second.TempMax != 9 {
		t.Fatalf("expected min 5 max 9, got %v/%v", *second.TempMin, *second.TempMax)
	}
	if *second.Humidity != 60 {
		t.Fatalf("expected mean humidity 60, got %v", *second.Humidity)
	}
	if second.PrecipitationProb != 0.6 {
		t.Fatalf("expected max pop 0.6, got %v", second.PrecipitationProb)
	}
	if second.Condition != "Clouds" {
		t.Fatalf("expected majority condition Clouds, got %q", second.Condition)
	}
}

func TestSummarizeDailyPrefersMinMaxFields(t *testing.T) {
	f := Forecast{Forecast: []ForecastEntry{
		{Datetime: ptr(int64(0)), Temp: ptr(10.0), TempMin: ptr(8.0), TempMax: ptr(12.0)},
		{Datetime: ptr(int64(3600)), Temp: ptr(11.0)},
	}}

	got := SummarizeDaily(f)

	if len(got) != 1 {
		t.Fatalf("expected 1 day, got %d", len(got))
	}
	if *got[0].TempMin != 8 || *got[0].TempMax != 12 {
		t.Fatalf("expected 8/12, got %v/%v", *got[0].TempMin, *got[0].TempMax)
	}
	if got[0].Humidity != nil {
		t.Fatalf("expected nil humidity, got %v", *got[0].Humidity)
	}
}

func TestSummarizeDailyTieKeepsFirstSeen(t *testing.T) {
	f := Forecast{Forecast: []ForecastEntry{
		{Datetime: ptr(int64(0)), Weather: Condition{Main: ptr("Clear")}},
		{Datetime: ptr(int64(3600)), Weather: Condition{Main: ptr("Rain")}},
	}}

	got := SummarizeDaily(f)
	if got[0].Condition != "Clear" {
		t.Fatalf("expected first seen condition Clear, got %q", got[0].Condition)
	}
}

func TestSummarizeDailyEmpty(t *testing.T) {
	got := SummarizeDaily(Forecast{})
	if got == nil || len(got) != 0 {
		t.Fatalf("expected empty non-nil result, got %#v", got)
	}
}
