package climate

import (
	"math/rand/v2"
	"time"

	"github.com/angas/junegloom/calendar"
	"github.com/angas/junegloom/convert"
)

// SolarNormalization scales mean shortwave flux (W/m²) onto roughly 0-1 for
// display. It is a presentation constant, not a physical one.
const SolarNormalization = 300.0

const (
	noiseAmplitude   = 0.2
	tempNoiseScale   = 10
	gloomMorningBias = 0.3
	gloomAfternoon   = -0.1

	// a real observation missing one side counts as half cloudy
	missingObservation = 0.5
)

// RandomSource yields uniform values in [0, 1). *math/rand/v2.Rand satisfies it.
type RandomSource interface {
	Float64() float64
}

// NewRandomSource returns a seeded source, or a time seeded one when seed is nil.
func NewRandomSource(seed *int64) RandomSource {
	var s uint64
	if seed != nil {
		s = uint64(*seed)
	} else {
		s = uint64(time.Now().UnixNano())
	}
	return rand.New(rand.NewPCG(s, s^0x9e3779b97f4a7c15))
}

type synthesizer struct {
	rnd  RandomSource
	hist MonthlyTable
}

// noise is uniform in [-0.1, 0.1).
func (s *synthesizer) noise() float64 {
	return (s.rnd.Float64() - 0.5) * noiseAmplitude
}

func isGloomMonth(m time.Month) bool {
	return m == time.May || m == time.June
}

func (s *synthesizer) observed(obs RealObservation) (morning, afternoon float64) {
	morning = convert.Clamp(obs.Morning.ValueOrDefault(missingObservation), 0, 1)
	afternoon = convert.Clamp(obs.Afternoon.ValueOrDefault(missingObservation), 0, 1)
	return morning, afternoon
}

func (s *synthesizer) synthetic(day time.Time, mc MonthlyClimatology) (morning, afternoon float64) {
	morning = mc.CloudFraction + s.noise()
	afternoon = mc.CloudFraction + s.noise()
	if isGloomMonth(day.Month()) {
		morning += gloomMorningBias
		afternoon += gloomAfternoon
	}
	return convert.Clamp(morning, 0, 1), convert.Clamp(afternoon, 0, 1)
}

func (s *synthesizer) day(i int, obs Observations) (DailyRecord, bool) {
	date := calendar.Day(i)
	m := int(date.Month())
	mc := s.hist.Month(m)

	var morning, afternoon float64
	ob, isReal := obs[calendar.DateKey(date)]
	if isReal {
		morning, afternoon = s.observed(ob)
	} else {
		morning, afternoon = s.synthetic(date, mc)
	}

	return DailyRecord{
		Date:      date,
		Month:     m,
		Morning:   morning,
		Afternoon: afternoon,
		Temp:      mc.Temp + s.noise()*tempNoiseScale,
		Solar:     mc.Solar/SolarNormalization + s.noise(),
	}, isReal
}

// SynthesizeDays lays out the 365 days of the reference year from the
// historical table. It also reports how many days came from obs.
func SynthesizeDays(hist MonthlyTable, obs Observations, rnd RandomSource) ([]DailyRecord, int) {
	if rnd == nil {
		rnd = NewRandomSource(nil)
	}
	s := &synthesizer{rnd: rnd, hist: hist}

	days := make([]DailyRecord, calendar.DaysInYear)
	realDays := 0
	for i := range days {
		d, isReal := s.day(i, obs)
		if isReal {
			realDays++
		}
		days[i] = d
	}
	return days, realDays
}
