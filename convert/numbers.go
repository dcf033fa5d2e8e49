package convert

import (
	"math"
)

const (
	zeroCelsiusInKelvin = 273.15
	mpsToMph            = 2.23694
)

func RoundFloat64(number float64, decimals int) float64 {
	return math.Round(number*math.Pow10(decimals)) / math.Pow10(decimals)
}

// KelvinToFahrenheit converts an absolute temperature, 273.15 K is exactly 32 °F.
func KelvinToFahrenheit(k float64) float64 {
	return (k-zeroCelsiusInKelvin)*9/5 + 32
}

func PascalToHectopascal(pa float64) float64 {
	return pa / 100
}

func MpsToMph(mps float64) float64 {
	return mps * mpsToMph
}

// PercentToFraction maps a 0-100 percentage onto 0-1.
func PercentToFraction(pct float64) float64 {
	return pct / 100
}

func Clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
