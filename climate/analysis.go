package climate

import (
	"fmt"

	"github.com/angas/junegloom/slice"
)

// Variable selects one daily quantity for charting.
type Variable string

const (
	Clouds Variable = "clouds"
	Temp   Variable = "temp"
	Sun    Variable = "sun"
)

func ParseVariable(s string) (Variable, error) {
	switch v := Variable(s); v {
	case Clouds, Temp, Sun:
		return v, nil
	case "solar":
		return Sun, nil
	}
	return "", fmt.Errorf("unknown variable %q", s)
}

// Value reads v from d. Clouds means morning cloud fraction.
func (d DailyRecord) Value(v Variable) float64 {
	switch v {
	case Temp:
		return d.Temp
	case Sun:
		return d.Solar
	default:
		return d.Morning
	}
}

// MonthlyMeans averages v per calendar month. Months without days are 0.
func MonthlyMeans(days []DailyRecord, v Variable) [12]float64 {
	var acc [12]mean
	for _, d := range days {
		if d.Month < 1 || d.Month > 12 {
			continue
		}
		acc[d.Month-1].add(d.Value(v))
	}

	var means [12]float64
	for i, m := range acc {
		means[i] = m.valueOr(0)
	}
	return means
}

// RollingMean is the trailing window mean of v, one value per day. The first
// window-1 values average over fewer days.
func RollingMean(days []DailyRecord, v Variable, window int) []float64 {
	ma := NewMovingAverage(window)
	out := make([]float64, len(days))
	for i, d := range days {
		ma.Add(d.Value(v))
		out[i] = ma.Avg()
	}
	return out
}

type Season string

const (
	Winter    Season = "winter"
	Gloom     Season = "gloom"
	Summer    Season = "summer"
	AllSeason Season = "all"
)

var seasonMonths = map[Season][2]int{
	Winter: {1, 3},
	Gloom:  {5, 6},
	Summer: {8, 10},
	// all is open
}

func ParseSeason(s string) (Season, error) {
	switch v := Season(s); v {
	case Winter, Gloom, Summer, AllSeason:
		return v, nil
	case "":
		return AllSeason, nil
	}
	return "", fmt.Errorf("unknown season %q", s)
}

func (s Season) Contains(month int) bool {
	r, ok := seasonMonths[s]
	if !ok {
		return true
	}
	return month >= r[0] && month <= r[1]
}

func FilterSeason(days []DailyRecord, s Season) []DailyRecord {
	return slice.Filter(days, func(d DailyRecord) bool { return s.Contains(d.Month) })
}

type Period string

const (
	MorningPeriod   Period = "morning"
	AfternoonPeriod Period = "afternoon"
)

func ParsePeriod(s string) (Period, error) {
	switch p := Period(s); p {
	case MorningPeriod, AfternoonPeriod:
		return p, nil
	case "":
		return MorningPeriod, nil
	}
	return "", fmt.Errorf("unknown period %q", s)
}

func (d DailyRecord) Cloud(p Period) float64 {
	if p == AfternoonPeriod {
		return d.Afternoon
	}
	return d.Morning
}

type ExtremeKind string

const (
	Cloudiest ExtremeKind = "cloudiest"
	Clearest  ExtremeKind = "clearest"
)

func ParseExtremeKind(s string) (ExtremeKind, error) {
	switch k := ExtremeKind(s); k {
	case Cloudiest, Clearest:
		return k, nil
	case "":
		return Cloudiest, nil
	}
	return "", fmt.Errorf("unknown extreme %q", s)
}

// Extreme finds the cloudiest or clearest day for a period. Ties go to the
// earliest day.
func Extreme(days []DailyRecord, kind ExtremeKind, p Period) (DailyRecord, bool) {
	if len(days) == 0 {
		return DailyRecord{}, false
	}

	score := func(d DailyRecord) float64 {
		if kind == Clearest {
			return 1 - d.Cloud(p)
		}
		return d.Cloud(p)
	}

	best := days[0]
	bestScore := score(best)
	for _, d := range days[1:] {
		if s := score(d); s > bestScore {
			best, bestScore = d, s
		}
	}
	return best, true
}

// SkyMood describes a cloud fraction in words.
func SkyMood(cloud float64) string {
	switch {
	case cloud < 0.2:
		return "Clear Sky"
	case cloud < 0.6:
		return "Partly Cloudy"
	default:
		return "Overcast"
	}
}
