package climate

import (
	"github.com/angas/junegloom/convert"
)

type mean struct {
	sum float64
	n   int
}

func (m *mean) add(v float64) {
	m.sum += v
	m.n++
}

func (m mean) valueOr(fallback float64) float64 {
	if m.n == 0 {
		return fallback
	}
	return m.sum / float64(m.n)
}

type monthAccumulator struct {
	records        int
	clt, tas, rsds mean
	psl, wind      mean
}

func (a *monthAccumulator) add(r RawMonthlyRecord) {
	a.records++
	a.clt.add(r.Clt)
	a.tas.add(r.Tas)
	a.rsds.add(r.Rsds)
	if r.Psl.IsValid() {
		a.psl.add(r.Psl.Value())
	}
	if r.SfcWind.IsValid() {
		a.wind.add(r.SfcWind.Value())
	}
}

func (a *monthAccumulator) climatology() MonthlyClimatology {
	if a.records == 0 {
		return Fallback()
	}

	clt := a.clt.valueOr(fallbackCloudPct)
	return MonthlyClimatology{
		Cloud:         clt,
		CloudPct:      clt,
		Clt:           clt,
		CloudFraction: convert.PercentToFraction(clt),
		Temp:          convert.KelvinToFahrenheit(a.tas.valueOr(0)),
		Solar:         a.rsds.valueOr(fallbackSolar),
		Pressure:      a.hpa(),
		Wind:          a.mph(),
	}
}

// A month whose records all lack psl or sfcWind uses the fallback value
// rather than a mean over nothing.
func (a *monthAccumulator) hpa() float64 {
	if a.psl.n == 0 {
		return fallbackPressure
	}
	return convert.PascalToHectopascal(a.psl.valueOr(0))
}

func (a *monthAccumulator) mph() float64 {
	if a.wind.n == 0 {
		return fallbackWind
	}
	return convert.MpsToMph(a.wind.valueOr(0))
}

// Aggregate averages records per calendar month into a 12 month table for
// scenario. Records tagged with another scenario or carrying a month outside
// 1..12 are ignored, untagged records count for any scenario. Months that no
// record covers get Fallback.
func Aggregate(records []RawMonthlyRecord, scenario Scenario) MonthlyTable {
	var acc [12]monthAccumulator
	for _, r := range records {
		if r.Scenario != "" && Scenario(r.Scenario) != scenario {
			continue
		}
		if r.Month < 1 || r.Month > 12 {
			continue
		}
		acc[r.Month-1].add(r)
	}

	var table MonthlyTable
	for i := range acc {
		table[i] = acc[i].climatology()
	}
	return table
}

// AggregateAll builds the three scenario tables. Historical reads the
// historical list as is, the future scenarios are selected from the future
// list by tag and untagged or unknown future records are dropped.
func AggregateAll(historical, future []RawMonthlyRecord) Climatology {
	bySc := make(map[Scenario][]RawMonthlyRecord, 2)
	for _, r := range future {
		sc, ok := ParseScenario(r.Scenario)
		if !ok || sc == Historical {
			continue
		}
		bySc[sc] = append(bySc[sc], r)
	}

	return Climatology{
		Historical: Aggregate(historical, Historical),
		SSP245:     Aggregate(bySc[SSP245], SSP245),
		SSP585:     Aggregate(bySc[SSP585], SSP585),
	}
}
