package www

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/angas/junegloom/goes"
)

func NewGoesHandler(logger *slog.Logger, cache *goes.Cache) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		loop, ok := cache.Get()
		if !ok {
			writeError(logger, w, http.StatusServiceUnavailable, "no GOES loop fetched yet")
			return
		}
		writeJSON(logger, w, http.StatusOK, struct {
			Url       string    `json:"url"`
			FetchedAt time.Time `json:"fetchedAt"`
		}{loop.Url, loop.FetchedAt})
	}
}
