package www

import (
	"log/slog"
	"net/http"

	"github.com/angas/junegloom/climate"
	"github.com/angas/junegloom/slice"
	"github.com/angas/junegloom/www/chartjs"
)

const (
	defaultWindow = 7
	maxWindow     = 60
)

var monthLabels = []string{"Jan", "Feb", "Mar", "Apr", "May", "Jun", "Jul", "Aug", "Sep", "Oct", "Nov", "Dec"}

type chartAxis struct {
	title string
	// scales a daily value onto the unit of the monthly climatology
	dayScale float64
	monthly  func(climate.MonthlyClimatology) float64
}

var chartAxes = map[climate.Variable]chartAxis{
	climate.Clouds: {"Cloud cover (%)", 100, func(m climate.MonthlyClimatology) float64 { return m.CloudPct }},
	climate.Temp:   {"Temperature (°F)", 1, func(m climate.MonthlyClimatology) float64 { return m.Temp }},
	climate.Sun:    {"Solar (W/m²)", climate.SolarNormalization, func(m climate.MonthlyClimatology) float64 { return m.Solar }},
}

// NewChartHandler answers two charts for a variable: the daily sparkline with
// its rolling mean, and the monthly means of each scenario next to the
// synthesized days.
func NewChartHandler(logger *slog.Logger, store *climate.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}

		ds, ok := currentDataset(logger, w, store)
		if !ok {
			return
		}

		variable := climate.Clouds
		if v := r.URL.Query().Get("variable"); v != "" {
			var err error
			if variable, err = climate.ParseVariable(v); err != nil {
				writeError(logger, w, http.StatusBadRequest, err.Error())
				return
			}
		}
		window := max(1, min(intOrDefault(r.URL, "window", defaultWindow), maxWindow))

		writeJSON(logger, w, http.StatusOK, []chartjs.Chart{
			sparklineChart(ds.Days, variable, window),
			scenarioChart(ds, variable),
		})
	}
}

func sparklineChart(days []climate.DailyRecord, v climate.Variable, window int) chartjs.Chart {
	axis := chartAxes[v]
	labels := slice.Map(days, climate.DailyRecord.DateKey)

	chart := chartjs.NewChart("", labels, chartjs.ColorGrey, chartjs.ColorBlue)
	chart.Data.Datasets[0] = chart.Data.Datasets[0].WithLabel("daily")
	chart.Data.Datasets[1] = chart.Data.Datasets[1].WithLabel("rolling mean")

	scaled := func(values []float64) []float64 {
		return slice.Map(values, func(f float64) float64 { return f * axis.dayScale })
	}
	chart.Data.Datasets[0].SetValues(scaled(slice.Map(days, func(d climate.DailyRecord) float64 { return d.Value(v) })), 2)
	chart.Data.Datasets[1].SetValues(scaled(climate.RollingMean(days, v, window)), 2)

	chart.Options.Scales["YAxis1"] = chart.Options.Scales["YAxis1"].WithTitle(axis.title)
	return chart
}

func scenarioChart(ds *climate.Dataset, v climate.Variable) chartjs.Chart {
	axis := chartAxes[v]
	chart := chartjs.NewChart("", monthLabels, chartjs.SeriesColors...)

	for i, sc := range climate.Scenarios {
		table, _ := ds.Climatology.Scenario(sc)
		values := make([]float64, len(table))
		for m := range table {
			values[m] = axis.monthly(table[m])
		}
		chart.Data.Datasets[i] = chart.Data.Datasets[i].WithLabel(string(sc))
		chart.Data.Datasets[i].SetValues(values, 1)
	}

	means := climate.MonthlyMeans(ds.Days, v)
	last := len(climate.Scenarios)
	chart.Data.Datasets[last] = chart.Data.Datasets[last].WithLabel("synthesized days")
	chart.Data.Datasets[last].SetValues(slice.Map(means[:], func(f float64) float64 { return f * axis.dayScale }), 1)

	chart.Options.Scales["YAxis1"] = chart.Options.Scales["YAxis1"].WithTitle(axis.title)
	return chart
}
