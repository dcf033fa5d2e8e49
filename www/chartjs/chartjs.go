package chartjs

import (
	"github.com/angas/junegloom/convert"
)

const ColorYellow = "#ffc107d4"
const ColorRed = "#f44336d4"
const ColorBlue = "#2196f3d4"
const ColorGrey = "#9e9e9ed4"

// SeriesColors is the dataset color order of multi-series charts.
var SeriesColors = []string{ColorBlue, ColorYellow, ColorRed, ColorGrey}

// NewChart creates a line chart with one empty dataset per color, every
// dataset sized to labels. Datasets are bound to YAxis1.
func NewChart(title string, labels []string, colors ...string) Chart {
	datasets := make([]ChartDataset, len(colors))
	for i, c := range colors {
		datasets[i] = ChartDataset{
			Data:        make([]*float64, len(labels)),
			BorderWidth: 1,
			Tension:     0.4,
			BorderColor: c,
			YAxisID:     "YAxis1",
		}
	}

	chart := Chart{
		Type: "line",
		Data: ChartData{
			Labels:   labels,
			Datasets: datasets,
		},
		Options: ChartOptions{
			Responsive: true,
			Plugins: ChartPlugins{
				Legend: ChartLegend{Display: len(colors) > 1},
				Title:  ChartTitle{Display: false},
			},
			Scales: map[string]ChartScale{
				"YAxis1": {
					Type:     "linear",
					Display:  true,
					Position: "left",
					Title:    ChartScaleTitle{Display: true, Text: ""}},
			},
		},
	}

	if title != "" {
		chart.Options.Plugins.Title = ChartTitle{Display: true, Text: title}
	}

	return chart
}

func (cs ChartScale) WithTitle(title string) ChartScale {
	cs.Title.Text = title
	return cs
}

func (cs ChartScale) WithMinAndMax(min, max float64) ChartScale {
	cs.Min = &min
	cs.Max = &max
	return cs
}

func (ds ChartDataset) WithLabel(label string) ChartDataset {
	ds.Label = label
	return ds
}

// SetValues rounds values into ds.Data, values beyond the labels are dropped.
func (ds ChartDataset) SetValues(values []float64, precision int) {
	for i := range ds.Data {
		if i < len(values) {
			ds.Data[i] = FixedFloat64(values[i], precision)
		}
	}
}

func FixedFloat64(num float64, precision int) *float64 {
	result := convert.RoundFloat64(num, precision)
	return &result
}
