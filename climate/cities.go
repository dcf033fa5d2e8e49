package climate

import (
	"github.com/angas/junegloom/convert"
)

// DefaultCity is the key the page opens on.
const DefaultCity = "Santa Monica"

func cityStats(r RawCityRecord) CityStats {
	return CityStats{
		AvgCloud: convert.PercentToFraction(r.Clt),
		AvgTemp:  convert.KelvinToFahrenheit(r.Tas),
		AvgSun:   r.Rsds / SolarNormalization,
	}
}

// BuildCities keys cities by name, later duplicates replacing earlier ones.
// Every record shares days. When DefaultCity is absent the first city is
// registered under that name too.
func BuildCities(records []RawCityRecord, days []DailyRecord) *Directory {
	dir := NewDirectory()
	for _, r := range records {
		dir.Put(r.City, &CityRecord{
			Name:  r.City,
			Lat:   r.Lat,
			Lon:   r.Lon,
			Stats: cityStats(r),
			Days:  days,
		})
	}

	if _, ok := dir.Get(DefaultCity); !ok && dir.Len() > 0 {
		first, _ := dir.Get(dir.keys[0])
		dir.Put(DefaultCity, first)
	}
	return dir
}
