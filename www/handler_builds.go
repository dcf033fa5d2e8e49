package www

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/angas/junegloom/database"
)

type BuildHistory interface {
	GetBuilds(ctx context.Context, limit int) ([]database.BuildRow, error)
}

type buildView struct {
	Id       string    `json:"id"`
	BuiltAt  time.Time `json:"builtAt"`
	Checksum string    `json:"checksum"`
	RealDays int       `json:"realDays"`
	Cities   int       `json:"cities"`
	Current  bool      `json:"current"`
}

// NewBuildsHandler lists stored builds, newest first. current marks the
// build being served.
func NewBuildsHandler(logger *slog.Logger, db BuildHistory, currentId func() string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit := max(1, min(intOrDefault(r.URL, "limit", 20), 500))

		rows, err := db.GetBuilds(r.Context(), limit)
		if err != nil {
			logger.Error("handling builds request", slog.Any("error", err))
			writeError(logger, w, http.StatusInternalServerError, err.Error())
			return
		}

		id := currentId()
		views := make([]buildView, len(rows))
		for i, row := range rows {
			views[i] = buildView{
				Id:       row.Id,
				BuiltAt:  row.BuiltAt,
				Checksum: row.Checksum,
				RealDays: row.RealDays,
				Cities:   row.Cities,
				Current:  row.Id == id,
			}
		}
		writeJSON(logger, w, http.StatusOK, views)
	}
}
