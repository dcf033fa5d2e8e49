package www

import (
	"log/slog"
	"net/http"

	"github.com/angas/junegloom/climate"
)

// currentDataset answers 503 while no dataset has been published yet.
func currentDataset(logger *slog.Logger, w http.ResponseWriter, store *climate.Store) (*climate.Dataset, bool) {
	ds := store.Current()
	if ds == nil {
		writeError(logger, w, http.StatusServiceUnavailable, "dataset not built yet")
		return nil, false
	}
	return ds, true
}

func NewDatasetHandler(logger *slog.Logger, store *climate.Store, task func()) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			ds, ok := currentDataset(logger, w, store)
			if !ok {
				return
			}
			writeJSON(logger, w, http.StatusOK, ds)

		case http.MethodPost:
			go task()
			w.WriteHeader(http.StatusAccepted)

		default:
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		}
	}
}

func NewClimatologyHandler(logger *slog.Logger, store *climate.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ds, ok := currentDataset(logger, w, store)
		if !ok {
			return
		}

		scenario, ok := climate.ParseScenario(pathVar(r, "scenario"))
		if !ok {
			writeError(logger, w, http.StatusNotFound, "unknown scenario")
			return
		}
		table, _ := ds.Climatology.Scenario(scenario)
		writeJSON(logger, w, http.StatusOK, table)
	}
}

func NewDaysHandler(logger *slog.Logger, store *climate.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ds, ok := currentDataset(logger, w, store)
		if !ok {
			return
		}

		season, err := climate.ParseSeason(r.URL.Query().Get("season"))
		if err != nil {
			writeError(logger, w, http.StatusBadRequest, err.Error())
			return
		}
		writeJSON(logger, w, http.StatusOK, climate.FilterSeason(ds.Days, season))
	}
}

func NewCitiesHandler(logger *slog.Logger, store *climate.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ds, ok := currentDataset(logger, w, store)
		if !ok {
			return
		}
		writeJSON(logger, w, http.StatusOK, ds.Cities)
	}
}

func NewCityHandler(logger *slog.Logger, store *climate.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ds, ok := currentDataset(logger, w, store)
		if !ok {
			return
		}

		city, found := ds.Cities.Get(pathVar(r, "name"))
		if !found {
			writeError(logger, w, http.StatusNotFound, "unknown city")
			return
		}
		writeJSON(logger, w, http.StatusOK, city)
	}
}
