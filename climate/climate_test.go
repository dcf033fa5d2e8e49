package climate

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/angas/junegloom/calendar"
	"github.com/angas/junegloom/types/maybe"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fixedRand always returns v, 0.5 makes every noise draw zero.
type fixedRand struct{ v float64 }

func (f fixedRand) Float64() float64 { return f.v }

func seed(n int64) *int64 { return &n }

func TestAggregate(t *testing.T) {
	records := []RawMonthlyRecord{
		{Month: 6, Clt: 80, Tas: 288.15, Rsds: 250, Psl: maybe.Some(101300.0), SfcWind: maybe.Some(2.0)},
		{Month: 6, Clt: 60, Tas: 290.15, Rsds: 150},
		{Month: 13, Clt: 100, Tas: 400, Rsds: 900},
		{Month: 0, Clt: 100, Tas: 400, Rsds: 900},
	}

	table := Aggregate(records, Historical)
	june := table.Month(6)

	assert.InDelta(t, 70, june.Clt, 1e-9)
	assert.Equal(t, june.Clt, june.Cloud)
	assert.Equal(t, june.Clt, june.CloudPct)
	assert.InDelta(t, 0.7, june.CloudFraction, 1e-9)
	assert.InDelta(t, 60.8, june.Temp, 1e-9)
	assert.InDelta(t, 200, june.Solar, 1e-9)
	assert.InDelta(t, 1013, june.Pressure, 1e-9)
	assert.InDelta(t, 4.47388, june.Wind, 1e-9)

	for m := 1; m <= 12; m++ {
		if m == 6 {
			continue
		}
		assert.Equal(t, Fallback(), table.Month(m), "month %d", m)
	}
}

func TestAggregateEmpty(t *testing.T) {
	table := Aggregate(nil, Historical)
	for m := 1; m <= 12; m++ {
		assert.Equal(t, Fallback(), table.Month(m))
	}
	assert.Equal(t, Fallback(), table.Month(13))
}

func TestAggregateOptionalFieldsAbsent(t *testing.T) {
	table := Aggregate([]RawMonthlyRecord{{Month: 1, Clt: 20, Tas: 283.15, Rsds: 120}}, Historical)
	jan := table.Month(1)

	assert.Equal(t, 1013.0, jan.Pressure)
	assert.Equal(t, 5.0, jan.Wind)
	assert.InDelta(t, 50, jan.Temp, 1e-9)
}

func TestAggregateZeroIsNotAbsent(t *testing.T) {
	table := Aggregate([]RawMonthlyRecord{{Month: 2, SfcWind: maybe.Some(0.0)}}, Historical)
	assert.Equal(t, 0.0, table.Month(2).Wind)
}

func TestAggregateAll(t *testing.T) {
	future := []RawMonthlyRecord{
		{Month: 1, Clt: 10, Tas: 273.15, Rsds: 100, Scenario: "ssp245"},
		{Month: 1, Clt: 90, Tas: 273.15, Rsds: 100, Scenario: "ssp585"},
		{Month: 1, Clt: 40, Tas: 273.15, Rsds: 100, Scenario: "historical"},
		{Month: 1, Clt: 40, Tas: 273.15, Rsds: 100, Scenario: "ssp999"},
		{Month: 1, Clt: 40, Tas: 273.15, Rsds: 100},
	}
	historical := []RawMonthlyRecord{{Month: 1, Clt: 30, Tas: 273.15, Rsds: 100}}

	clim := AggregateAll(historical, future)

	assert.Equal(t, 30.0, clim.Historical.Month(1).Clt)
	assert.Equal(t, 10.0, clim.SSP245.Month(1).Clt)
	assert.Equal(t, 90.0, clim.SSP585.Month(1).Clt)
	assert.Equal(t, 32.0, clim.SSP245.Month(1).Temp)
	assert.Equal(t, Fallback(), clim.SSP585.Month(2))
}

func TestSynthesizeDaysCalendar(t *testing.T) {
	days, realDays := SynthesizeDays(Aggregate(nil, Historical), nil, NewRandomSource(seed(1)))

	require.Len(t, days, 365)
	assert.Zero(t, realDays)
	assert.Equal(t, "2023-01-01", days[0].DateKey())
	assert.Equal(t, "2023-12-31", days[364].DateKey())
	for i, d := range days {
		assert.True(t, d.Date.Equal(calendar.Day(i)))
		assert.Equal(t, int(d.Date.Month()), d.Month)
		if i > 0 {
			assert.Equal(t, 24*time.Hour, d.Date.Sub(days[i-1].Date))
		}
	}
}

func TestSynthesizeDaysBounds(t *testing.T) {
	hist := Aggregate([]RawMonthlyRecord{
		{Month: 5, Clt: 95, Tas: 290, Rsds: 200},
		{Month: 12, Clt: 2, Tas: 280, Rsds: 100},
	}, Historical)

	for _, r := range []RandomSource{fixedRand{0}, fixedRand{0.999999}, NewRandomSource(seed(42))} {
		days, _ := SynthesizeDays(hist, nil, r)
		for _, d := range days {
			assert.GreaterOrEqual(t, d.Morning, 0.0)
			assert.LessOrEqual(t, d.Morning, 1.0)
			assert.GreaterOrEqual(t, d.Afternoon, 0.0)
			assert.LessOrEqual(t, d.Afternoon, 1.0)
		}
	}
}

func TestSynthesizeDaysGloomBias(t *testing.T) {
	days, _ := SynthesizeDays(Aggregate(nil, Historical), nil, fixedRand{0.5})

	jan := days[0]
	assert.InDelta(t, 0.5, jan.Morning, 1e-9)
	assert.InDelta(t, 0.5, jan.Afternoon, 1e-9)
	assert.InDelta(t, 70, jan.Temp, 1e-9)
	assert.InDelta(t, 200/SolarNormalization, jan.Solar, 1e-9)

	for _, idx := range []int{120, 151, 180} { // may 1, june 1, june 30
		d := days[idx]
		assert.InDelta(t, 0.8, d.Morning, 1e-9, d.DateKey())
		assert.InDelta(t, 0.4, d.Afternoon, 1e-9, d.DateKey())
	}

	assert.InDelta(t, 0.5, days[181].Morning, 1e-9, "july 1 has no bias")
}

func TestSynthesizeDaysGloomBiasSeeded(t *testing.T) {
	hist := Aggregate(nil, Historical)
	june := [2]int{151, 181} // june 1 .. june 30
	july := [2]int{181, 212}

	var juneMorning, julyMorning, juneAfternoon, julyAfternoon mean
	for s := int64(1); s <= 20; s++ {
		days, _ := SynthesizeDays(hist, nil, NewRandomSource(seed(s)))
		for _, d := range days[june[0]:june[1]] {
			juneMorning.add(d.Morning)
			juneAfternoon.add(d.Afternoon)
		}
		for _, d := range days[july[0]:july[1]] {
			julyMorning.add(d.Morning)
			julyAfternoon.add(d.Afternoon)
		}
	}

	assert.InDelta(t, 0.3, juneMorning.valueOr(0)-julyMorning.valueOr(0), 0.02)
	assert.InDelta(t, -0.1, juneAfternoon.valueOr(0)-julyAfternoon.valueOr(0), 0.02)
}

func TestSynthesizeDaysNoiseRange(t *testing.T) {
	low, _ := SynthesizeDays(Aggregate(nil, Historical), nil, fixedRand{0})
	assert.InDelta(t, 0.4, low[0].Morning, 1e-9)
	assert.InDelta(t, 69, low[0].Temp, 1e-9)
	assert.InDelta(t, 200/SolarNormalization-0.1, low[0].Solar, 1e-9)
}

func TestSynthesizeDaysRealObservations(t *testing.T) {
	obs := Observations{
		"2023-06-01": {Morning: maybe.Some(0.9), Afternoon: maybe.Some(0.1)},
		"2023-06-02": {Morning: maybe.Some(0.3)},
		"2023-06-03": {Morning: maybe.Some(1.4), Afternoon: maybe.Some(-0.2)},
		"2024-06-01": {Morning: maybe.Some(0.0), Afternoon: maybe.Some(0.0)},
	}

	days, realDays := SynthesizeDays(Aggregate(nil, Historical), obs, fixedRand{0.5})

	assert.Equal(t, 3, realDays)
	assert.Equal(t, 0.9, days[151].Morning)
	assert.Equal(t, 0.1, days[151].Afternoon)
	assert.Equal(t, 0.3, days[152].Morning)
	assert.Equal(t, 0.5, days[152].Afternoon)
	assert.Equal(t, 1.0, days[153].Morning)
	assert.Equal(t, 0.0, days[153].Afternoon)
	assert.InDelta(t, 70, days[151].Temp, 1e-9, "temp is synthesized on real days too")
}

func TestSynthesizeDaysReproducible(t *testing.T) {
	hist := Aggregate([]RawMonthlyRecord{{Month: 3, Clt: 40, Tas: 285, Rsds: 180}}, Historical)

	a, _ := SynthesizeDays(hist, nil, NewRandomSource(seed(7)))
	b, _ := SynthesizeDays(hist, nil, NewRandomSource(seed(7)))
	c, _ := SynthesizeDays(hist, nil, NewRandomSource(seed(8)))

	if diff := cmp.Diff(a, b); diff != "" {
		t.Errorf("same seed produced different days (-a +b):\n%s", diff)
	}
	assert.NotEqual(t, a, c)
}

func TestBuildCities(t *testing.T) {
	days, _ := SynthesizeDays(Aggregate(nil, Historical), nil, fixedRand{0.5})
	dir := BuildCities([]RawCityRecord{
		{City: "Irvine", Lat: 33.68, Lon: -117.82, Clt: 40, Tas: 290, Rsds: 240},
		{City: "Malibu", Lat: 34.03, Lon: -118.78, Clt: 60, Tas: 288, Rsds: 210},
		{City: "Irvine", Lat: 33.7, Lon: -117.8, Clt: 30, Tas: 291.15, Rsds: 270},
	}, days)

	assert.Equal(t, []string{"Irvine", "Malibu", DefaultCity}, dir.Keys())

	irvine, ok := dir.Get("Irvine")
	require.True(t, ok)
	assert.Equal(t, 33.7, irvine.Lat)
	assert.InDelta(t, 0.3, irvine.Stats.AvgCloud, 1e-9)
	assert.InDelta(t, 64.4, irvine.Stats.AvgTemp, 1e-9)
	assert.InDelta(t, 0.9, irvine.Stats.AvgSun, 1e-9)

	alias, ok := dir.Get(DefaultCity)
	require.True(t, ok)
	assert.Same(t, irvine, alias)

	malibu, _ := dir.Get("Malibu")
	assert.Same(t, &days[0], &malibu.Days[0])
	assert.Same(t, &irvine.Days[0], &malibu.Days[0])

	assert.Len(t, dir.Records(), 2)
}

func TestBuildCitiesKeepsExistingDefault(t *testing.T) {
	dir := BuildCities([]RawCityRecord{{City: "Malibu"}, {City: DefaultCity, Clt: 10}}, nil)

	assert.Equal(t, []string{"Malibu", DefaultCity}, dir.Keys())
	sm, _ := dir.Get(DefaultCity)
	assert.Equal(t, DefaultCity, sm.Name)
}

func TestBuildCitiesEmpty(t *testing.T) {
	dir := BuildCities(nil, nil)
	assert.Zero(t, dir.Len())
	_, ok := dir.Get(DefaultCity)
	assert.False(t, ok)
}

func TestBuildNilInput(t *testing.T) {
	ds := Build(nil, fixedRand{0.5})

	require.NotNil(t, ds)
	assert.Len(t, ds.Days, 365)
	assert.Zero(t, ds.Cities.Len())
	assert.Equal(t, Fallback(), ds.Climatology.SSP585.Month(7))
	assert.NotEmpty(t, ds.ID)
}

func TestDatasetJSON(t *testing.T) {
	ds := Build(&Input{
		Cities: []RawCityRecord{{City: "Oxnard", Clt: 50, Tas: 288, Rsds: 200}, {City: "Carlsbad"}},
	}, fixedRand{0.5})

	out, err := json.Marshal(ds)
	require.NoError(t, err)

	var decoded struct {
		Climatology map[string]map[string]MonthlyClimatology `json:"climatology"`
		Days        []DailyRecord                            `json:"days"`
		Cities      json.RawMessage                          `json:"cities"`
	}
	require.NoError(t, json.Unmarshal(out, &decoded))

	assert.Len(t, decoded.Climatology, 3)
	assert.Len(t, decoded.Climatology["historical"], 12)
	assert.Equal(t, 70.0, decoded.Climatology["ssp245"]["12"].Temp)
	assert.Equal(t, ds.Days, decoded.Days)
	assert.Contains(t, string(out), `"date":"2023-01-01"`)
	assert.Regexp(t, `^\{"Oxnard":\{.*\},"Carlsbad":\{.*\},"Santa Monica":\{.*\}\}$`, string(decoded.Cities))
}
