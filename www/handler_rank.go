package www

import (
	"log/slog"
	"net/http"

	"github.com/angas/junegloom/climate"
	"github.com/angas/junegloom/config"
	"github.com/angas/junegloom/ranker"
)

// NewRankHandler ranks the cities with the weights of the query, falling
// back to the configured ones.
func NewRankHandler(logger *slog.Logger, cnfg config.AppConfigRanker, store *climate.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ds, ok := currentDataset(logger, w, store)
		if !ok {
			return
		}

		weights := ranker.Weights{
			Sun:   floatOrDefault(r.URL, "sun", cnfg.GetSun()),
			Cloud: floatOrDefault(r.URL, "cloud", cnfg.GetCloud()),
			Heat:  floatOrDefault(r.URL, "heat", cnfg.GetHeat()),
		}.Clamped()

		writeJSON(logger, w, http.StatusOK, struct {
			Weights ranker.Weights  `json:"weights"`
			Ranking []ranker.Ranked `json:"ranking"`
		}{weights, ranker.Rank(ds.Cities, weights)})
	}
}

func NewSearchHandler(logger *slog.Logger, store *climate.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ds, ok := currentDataset(logger, w, store)
		if !ok {
			return
		}
		writeJSON(logger, w, http.StatusOK, ranker.Search(ds.Cities, r.URL.Query().Get("q")))
	}
}
