package imagery

import (
	"testing"

	"github.com/angas/junegloom/calendar"
	"github.com/stretchr/testify/assert"
)

func TestPaths(t *testing.T) {
	p := DefaultPaths()
	june1 := calendar.Day(151)

	assert.Equal(t, "data/goes_images_monthly/2023-06/20230601_1402.webp", p.Monthly(june1, Dawn))
	assert.Equal(t, "data/goes_images_selected/20230601_2202.webp", p.Selected(june1, Afternoon))
}

func TestFrames(t *testing.T) {
	p := Paths{MonthlyDir: "img", SelectedDir: "sel", Ext: "jpg"}
	frames := p.Frames(calendar.Day(0))

	assert.Len(t, frames, 5)
	assert.Equal(t, Frame{
		Code:     Noon,
		Local:    "12:00",
		Monthly:  "img/2023-01/20230101_2002.jpg",
		Selected: "sel/20230101_2002.jpg",
	}, frames[3])
}

func TestParseTimeCode(t *testing.T) {
	c, ok := ParseTimeCode("1802")
	assert.True(t, ok)
	assert.Equal(t, "10:00", c.LocalLabel())

	_, ok = ParseTimeCode("0000")
	assert.False(t, ok)
}
