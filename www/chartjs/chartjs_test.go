package chartjs

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewChart(t *testing.T) {
	c := NewChart("Clouds", []string{"Jan", "Feb", "Mar"}, ColorBlue, ColorRed)

	require.Len(t, c.Data.Datasets, 2)
	assert.Len(t, c.Data.Datasets[0].Data, 3)
	assert.True(t, c.Options.Plugins.Legend.Display)
	assert.Equal(t, ChartTitle{Display: true, Text: "Clouds"}, c.Options.Plugins.Title)
}

func TestSetValues(t *testing.T) {
	c := NewChart("", []string{"a", "b", "c"}, ColorBlue)
	c.Data.Datasets[0].SetValues([]float64{0.123, 0.456}, 2)

	data := c.Data.Datasets[0].Data
	assert.Equal(t, 0.12, *data[0])
	assert.Equal(t, 0.46, *data[1])
	assert.Nil(t, data[2])
}

func TestScaleJSON(t *testing.T) {
	c := NewChart("", []string{"a"}, ColorBlue)
	c.Options.Scales["YAxis1"] = c.Options.Scales["YAxis1"].WithTitle("Cloud (%)").WithMinAndMax(0, 100)
	c.Data.Datasets[0] = c.Data.Datasets[0].WithLabel("historical")

	b, err := json.Marshal(c)
	require.NoError(t, err)
	assert.Contains(t, string(b), `"min":0,"max":100`)
	assert.Contains(t, string(b), `"label":"historical"`)
	assert.Contains(t, string(b), `"text":"Cloud (%)"`)
}
