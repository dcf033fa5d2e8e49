package climate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMovingAverage(t *testing.T) {
	ma1 := NewMovingAverage(1)
	ma1.Add(1)
	assert.Equal(t, 1.0, ma1.Avg())

	ma2 := NewMovingAverage(3)
	assert.Equal(t, 0.0, ma2.Avg())
	ma2.Add(1)
	ma2.Add(2)
	ma2.Add(3)
	assert.Equal(t, 2.0, ma2.Avg())
	ma2.Add(4)
	assert.Equal(t, 3.0, ma2.Avg())

	ma2.Reset()
	ma2.Add(10)
	assert.Equal(t, 10.0, ma2.Avg())
}

func TestMonthlyMeans(t *testing.T) {
	days, _ := SynthesizeDays(Aggregate(nil, Historical), nil, fixedRand{0.5})

	clouds := MonthlyMeans(days, Clouds)
	assert.InDelta(t, 0.5, clouds[0], 1e-9)
	assert.InDelta(t, 0.8, clouds[5], 1e-9)

	temps := MonthlyMeans(days, Temp)
	assert.InDelta(t, 70, temps[11], 1e-9)

	assert.Equal(t, [12]float64{}, MonthlyMeans(nil, Sun))
}

func TestRollingMean(t *testing.T) {
	days := []DailyRecord{{Morning: 0.1}, {Morning: 0.3}, {Morning: 0.5}, {Morning: 0.9}}

	got := RollingMean(days, Clouds, 2)
	require.Len(t, got, 4)
	assert.InDeltaSlice(t, []float64{0.1, 0.2, 0.4, 0.7}, got, 1e-9)
}

func TestSeasons(t *testing.T) {
	days, _ := SynthesizeDays(Aggregate(nil, Historical), nil, fixedRand{0.5})

	tests := []struct {
		season   Season
		expected int
	}{
		{Winter, 31 + 28 + 31},
		{Gloom, 31 + 30},
		{Summer, 31 + 30 + 31},
		{AllSeason, 365},
	}
	for _, tt := range tests {
		t.Run(string(tt.season), func(t *testing.T) {
			assert.Len(t, FilterSeason(days, tt.season), tt.expected)
		})
	}

	s, err := ParseSeason("")
	assert.NoError(t, err)
	assert.Equal(t, AllSeason, s)
	_, err = ParseSeason("monsoon")
	assert.Error(t, err)
}

func TestExtreme(t *testing.T) {
	days := []DailyRecord{
		{Month: 1, Morning: 0.2, Afternoon: 0.9},
		{Month: 2, Morning: 0.7, Afternoon: 0.1},
		{Month: 3, Morning: 0.7, Afternoon: 0.1},
		{Month: 4, Morning: 0.05, Afternoon: 0.3},
	}

	d, ok := Extreme(days, Cloudiest, MorningPeriod)
	require.True(t, ok)
	assert.Equal(t, 2, d.Month, "ties go to the earliest day")

	d, _ = Extreme(days, Clearest, MorningPeriod)
	assert.Equal(t, 4, d.Month)

	d, _ = Extreme(days, Cloudiest, AfternoonPeriod)
	assert.Equal(t, 1, d.Month)

	_, ok = Extreme(nil, Clearest, AfternoonPeriod)
	assert.False(t, ok)
}

func TestSkyMood(t *testing.T) {
	tests := []struct {
		cloud    float64
		expected string
	}{
		{0, "Clear Sky"},
		{0.19, "Clear Sky"},
		{0.2, "Partly Cloudy"},
		{0.59, "Partly Cloudy"},
		{0.6, "Overcast"},
		{1, "Overcast"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.expected, SkyMood(tt.cloud), "cloud %v", tt.cloud)
	}
}

func TestParseVariable(t *testing.T) {
	v, err := ParseVariable("solar")
	assert.NoError(t, err)
	assert.Equal(t, Sun, v)

	_, err = ParseVariable("humidity")
	assert.Error(t, err)

	d := DailyRecord{Morning: 0.4, Temp: 66, Solar: 0.7}
	assert.Equal(t, 0.4, d.Value(Clouds))
	assert.Equal(t, 66.0, d.Value(Temp))
	assert.Equal(t, 0.7, d.Value(Sun))
}
