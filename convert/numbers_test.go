package convert

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKelvinToFahrenheit(t *testing.T) {
	tests := []struct {
		name     string
		kelvin   float64
		expected float64
	}{
		{"freezing point", 273.15, 32.0},
		{"boiling point", 373.15, 212.0},
		{"absolute zero", 0, -459.67},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.expected, KelvinToFahrenheit(tt.kelvin), 1e-9)
		})
	}
}

func TestUnitConversions(t *testing.T) {
	assert.InDelta(t, 1013.25, PascalToHectopascal(101325), 1e-9)
	assert.InDelta(t, 2.23694, MpsToMph(1), 1e-9)
	assert.InDelta(t, 0.8, PercentToFraction(80), 1e-12)
}

func TestClamp(t *testing.T) {
	assert.Equal(t, 0.0, Clamp(-0.2, 0, 1))
	assert.Equal(t, 1.0, Clamp(1.3, 0, 1))
	assert.Equal(t, 0.42, Clamp(0.42, 0, 1))
}

func TestRoundFloat64(t *testing.T) {
	assert.Equal(t, 1.23, RoundFloat64(1.2349, 2))
	assert.Equal(t, 1.235, RoundFloat64(1.23456, 3))
}
