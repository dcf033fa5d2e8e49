package calendar

import (
	"fmt"
	"time"
)

const (
	// ReferenceYear is the non-leap year every synthesized series is laid out on.
	ReferenceYear = 2023
	DaysInYear    = 365

	dateLayout    = "2006-01-02"
	compactLayout = "20060102"
)

var guiLocation *time.Location = time.UTC

func SetGuiTimezone(timezone string) error {
	loc, err := time.LoadLocation(timezone)
	if err != nil {
		return fmt.Errorf("failed to load timezone %s: %v", timezone, err)
	}
	guiLocation = loc
	return nil
}

// Day returns midnight UTC of day i (0-based) of the reference year.
// Out of range indices roll over into the neighbouring years.
func Day(i int) time.Time {
	return time.Date(ReferenceYear, time.January, 1+i, 0, 0, 0, 0, time.UTC)
}

// DayIndex is the inverse of Day for dates inside the reference year.
func DayIndex(t time.Time) (int, bool) {
	t = t.UTC()
	if t.Year() != ReferenceYear {
		return 0, false
	}
	return t.YearDay() - 1, true
}

func DateKey(t time.Time) string {
	return t.Format(dateLayout)
}

func CompactKey(t time.Time) string {
	return t.Format(compactLayout)
}

func ParseDateKey(s string) (time.Time, error) {
	t, err := time.ParseInLocation(dateLayout, s, time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: %w", s, err)
	}
	return t, nil
}

func FormatTimeInGuiTimezone(t time.Time) string {
	return t.In(guiLocation).Format("2006-01-02 15:04:05")
}
