// Package imagery maps dataset days onto the GOES satellite image files the
// page shows next to them. Only the path convention lives here, the images
// themselves are produced and hosted elsewhere.
package imagery

import (
	"fmt"
	"path"
	"time"

	"github.com/angas/junegloom/calendar"
)

// TimeCode is the UTC scan time (HHMM) embedded in an image file name.
type TimeCode string

const (
	Dawn      TimeCode = "1402"
	Morning   TimeCode = "1602"
	LateMorn  TimeCode = "1802"
	Noon      TimeCode = "2002"
	Afternoon TimeCode = "2202"
)

var TimeCodes = []TimeCode{Dawn, Morning, LateMorn, Noon, Afternoon}

var localLabels = map[TimeCode]string{
	Dawn:      "06:00",
	Morning:   "08:00",
	LateMorn:  "10:00",
	Noon:      "12:00",
	Afternoon: "14:00",
}

// LocalLabel is the approximate Pacific standard time of the scan.
func (c TimeCode) LocalLabel() string {
	if l, ok := localLabels[c]; ok {
		return l
	}
	return string(c)
}

func ParseTimeCode(s string) (TimeCode, bool) {
	c := TimeCode(s)
	_, ok := localLabels[c]
	return c, ok
}

type Paths struct {
	MonthlyDir  string
	SelectedDir string
	Ext         string
}

func DefaultPaths() Paths {
	return Paths{
		MonthlyDir:  "data/goes_images_monthly",
		SelectedDir: "data/goes_images_selected",
		Ext:         "webp",
	}
}

// Monthly is the wall image: {monthly}/{yyyy}-{mm}/{yyyymmdd}_{code}.{ext}.
func (p Paths) Monthly(day time.Time, code TimeCode) string {
	folder := fmt.Sprintf("%04d-%02d", day.Year(), int(day.Month()))
	return path.Join(p.MonthlyDir, folder, p.fileName(day, code))
}

// Selected is the deep-dive image: {selected}/{yyyymmdd}_{code}.{ext}.
func (p Paths) Selected(day time.Time, code TimeCode) string {
	return path.Join(p.SelectedDir, p.fileName(day, code))
}

func (p Paths) fileName(day time.Time, code TimeCode) string {
	return fmt.Sprintf("%s_%s.%s", calendar.CompactKey(day), code, p.Ext)
}

type Frame struct {
	Code     TimeCode `json:"code"`
	Local    string   `json:"local"`
	Monthly  string   `json:"monthly"`
	Selected string   `json:"selected"`
}

// Frames lists every scan of the day in time order.
func (p Paths) Frames(day time.Time) []Frame {
	frames := make([]Frame, 0, len(TimeCodes))
	for _, c := range TimeCodes {
		frames = append(frames, Frame{
			Code:     c,
			Local:    c.LocalLabel(),
			Monthly:  p.Monthly(day, c),
			Selected: p.Selected(day, c),
		})
	}
	return frames
}
