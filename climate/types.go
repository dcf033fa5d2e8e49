package climate

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"

	"github.com/angas/junegloom/calendar"
	"github.com/angas/junegloom/types/maybe"
)

type Scenario string

const (
	Historical Scenario = "historical"
	SSP245     Scenario = "ssp245"
	SSP585     Scenario = "ssp585"
)

var Scenarios = []Scenario{Historical, SSP245, SSP585}

func ParseScenario(s string) (Scenario, bool) {
	for _, sc := range Scenarios {
		if string(sc) == s {
			return sc, true
		}
	}
	return "", false
}

// RawMonthlyRecord is one model cell for one month. Psl and SfcWind are
// optional in the source files.
type RawMonthlyRecord struct {
	Month    int                  `json:"month"`
	Clt      float64              `json:"clt"`
	Tas      float64              `json:"tas"`
	Rsds     float64              `json:"rsds"`
	Psl      maybe.Maybe[float64] `json:"psl"`
	SfcWind  maybe.Maybe[float64] `json:"sfcWind"`
	Scenario string               `json:"scenario,omitempty"`
}

// MonthlyClimatology carries cloud cover three ways because the page's
// charts read different field names for the same quantity.
type MonthlyClimatology struct {
	Cloud         float64 `json:"cloud"`
	CloudPct      float64 `json:"cloudPct"`
	Clt           float64 `json:"clt"`
	CloudFraction float64 `json:"cloudFraction"`
	Temp          float64 `json:"temp"`
	Solar         float64 `json:"solar"`
	Pressure      float64 `json:"pressure"`
	Wind          float64 `json:"wind"`
}

const (
	fallbackCloudPct = 50
	fallbackTemp     = 70
	fallbackSolar    = 200
	fallbackPressure = 1013
	fallbackWind     = 5
)

// Fallback is used for any month no record covers.
func Fallback() MonthlyClimatology {
	return MonthlyClimatology{
		Cloud:         fallbackCloudPct,
		CloudPct:      fallbackCloudPct,
		Clt:           fallbackCloudPct,
		CloudFraction: fallbackCloudPct / 100.0,
		Temp:          fallbackTemp,
		Solar:         fallbackSolar,
		Pressure:      fallbackPressure,
		Wind:          fallbackWind,
	}
}

// MonthlyTable holds exactly one entry per calendar month, index 0 is January.
type MonthlyTable [12]MonthlyClimatology

// Month looks up a 1-based month. Out of range months get the fallback.
func (t MonthlyTable) Month(m int) MonthlyClimatology {
	if m < 1 || m > 12 {
		return Fallback()
	}
	return t[m-1]
}

// MarshalJSON keys the table by month number, "1" through "12".
func (t MonthlyTable) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, mc := range t {
		if i > 0 {
			buf.WriteByte(',')
		}
		b, err := json.Marshal(mc)
		if err != nil {
			return nil, err
		}
		fmt.Fprintf(&buf, `"%d":`, i+1)
		buf.Write(b)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

type Climatology struct {
	Historical MonthlyTable `json:"historical"`
	SSP245     MonthlyTable `json:"ssp245"`
	SSP585     MonthlyTable `json:"ssp585"`
}

func (c *Climatology) Scenario(s Scenario) (*MonthlyTable, bool) {
	switch s {
	case Historical:
		return &c.Historical, true
	case SSP245:
		return &c.SSP245, true
	case SSP585:
		return &c.SSP585, true
	}
	return nil, false
}

type DailyRecord struct {
	Date      time.Time
	Month     int
	Morning   float64
	Afternoon float64
	Temp      float64
	Solar     float64
}

func (d DailyRecord) DateKey() string {
	return calendar.DateKey(d.Date)
}

type dailyRecordJSON struct {
	Date      string  `json:"date"`
	Month     int     `json:"month"`
	Morning   float64 `json:"morning"`
	Afternoon float64 `json:"afternoon"`
	Temp      float64 `json:"temp"`
	Solar     float64 `json:"solar"`
}

func (d DailyRecord) MarshalJSON() ([]byte, error) {
	return json.Marshal(dailyRecordJSON{
		Date:      d.DateKey(),
		Month:     d.Month,
		Morning:   d.Morning,
		Afternoon: d.Afternoon,
		Temp:      d.Temp,
		Solar:     d.Solar,
	})
}

func (d *DailyRecord) UnmarshalJSON(data []byte) error {
	var raw dailyRecordJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	date, err := calendar.ParseDateKey(raw.Date)
	if err != nil {
		return err
	}
	*d = DailyRecord{
		Date:      date,
		Month:     raw.Month,
		Morning:   raw.Morning,
		Afternoon: raw.Afternoon,
		Temp:      raw.Temp,
		Solar:     raw.Solar,
	}
	return nil
}

// RealObservation is a measured cloud fraction pair for one date. Either
// side may be missing.
type RealObservation struct {
	Morning   maybe.Maybe[float64] `json:"morning"`
	Afternoon maybe.Maybe[float64] `json:"afternoon"`
}

// Observations maps "YYYY-MM-DD" to the observation of that day.
type Observations map[string]RealObservation

type RawCityRecord struct {
	City string  `json:"city"`
	Lat  float64 `json:"lat"`
	Lon  float64 `json:"lon"`
	Clt  float64 `json:"clt"`
	Tas  float64 `json:"tas"`
	Rsds float64 `json:"rsds"`
}

type CityStats struct {
	AvgCloud float64 `json:"avgCloud"`
	AvgTemp  float64 `json:"avgTemp"`
	AvgSun   float64 `json:"avgSun"`
}

// CityRecord shares Days with every other city of the same dataset, so the
// slice is left out of its JSON form.
type CityRecord struct {
	Name  string        `json:"name"`
	Lat   float64       `json:"lat"`
	Lon   float64       `json:"lon"`
	Stats CityStats     `json:"stats"`
	Days  []DailyRecord `json:"-"`
}

// Input is everything a build reads. Keys absent from the source files are
// left nil.
type Input struct {
	Historical   []RawMonthlyRecord `json:"socal_cloudmap_monthly"`
	Future       []RawMonthlyRecord `json:"future_socal_cloudmap_monthly"`
	Cities       []RawCityRecord    `json:"city_sunnyscore"`
	Observations Observations       `json:"-"`
	Checksum     string             `json:"-"`
}

type Dataset struct {
	ID          string        `json:"id"`
	BuiltAt     time.Time     `json:"builtAt"`
	Checksum    string        `json:"checksum,omitempty"`
	RealDays    int           `json:"realDays"`
	Restored    bool          `json:"restored"`
	Climatology Climatology   `json:"climatology"`
	Days        []DailyRecord `json:"days"`
	Cities      *Directory    `json:"cities"`
}

// Day returns the record of a date of the reference year.
func (ds *Dataset) Day(date time.Time) (DailyRecord, bool) {
	idx, ok := calendar.DayIndex(date)
	if !ok || idx >= len(ds.Days) {
		return DailyRecord{}, false
	}
	return ds.Days[idx], true
}
