package www

import (
	"log/slog"
	"net/http"

	"github.com/angas/junegloom/calendar"
	"github.com/angas/junegloom/climate"
	"github.com/angas/junegloom/imagery"
)

type dayView struct {
	Day           climate.DailyRecord `json:"day"`
	MorningMood   string              `json:"morningMood"`
	AfternoonMood string              `json:"afternoonMood"`
	Frames        []imagery.Frame     `json:"frames"`
}

func newDayView(d climate.DailyRecord, paths imagery.Paths) dayView {
	return dayView{
		Day:           d,
		MorningMood:   climate.SkyMood(d.Morning),
		AfternoonMood: climate.SkyMood(d.Afternoon),
		Frames:        paths.Frames(d.Date),
	}
}

// NewImagesHandler lists the satellite frames of one day together with how
// the sky looked.
func NewImagesHandler(logger *slog.Logger, paths imagery.Paths, store *climate.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ds, ok := currentDataset(logger, w, store)
		if !ok {
			return
		}

		date, err := calendar.ParseDateKey(pathVar(r, "date"))
		if err != nil {
			writeError(logger, w, http.StatusBadRequest, err.Error())
			return
		}
		day, found := ds.Day(date)
		if !found {
			writeError(logger, w, http.StatusNotFound, "date outside the reference year")
			return
		}
		writeJSON(logger, w, http.StatusOK, newDayView(day, paths))
	}
}

// NewExtremesHandler finds the cloudiest or clearest day, default the
// cloudiest morning.
func NewExtremesHandler(logger *slog.Logger, paths imagery.Paths, store *climate.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ds, ok := currentDataset(logger, w, store)
		if !ok {
			return
		}

		q := r.URL.Query()
		kind, err := climate.ParseExtremeKind(q.Get("kind"))
		if err != nil {
			writeError(logger, w, http.StatusBadRequest, err.Error())
			return
		}
		period, err := climate.ParsePeriod(q.Get("period"))
		if err != nil {
			writeError(logger, w, http.StatusBadRequest, err.Error())
			return
		}

		day, found := climate.Extreme(ds.Days, kind, period)
		if !found {
			writeError(logger, w, http.StatusNotFound, "no days")
			return
		}
		writeJSON(logger, w, http.StatusOK, struct {
			Kind   climate.ExtremeKind `json:"kind"`
			Period climate.Period      `json:"period"`
			Result dayView             `json:"result"`
		}{kind, period, newDayView(day, paths)})
	}
}
